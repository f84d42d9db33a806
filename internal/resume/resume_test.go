package resume

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanuman1123/interviewAIAgent/internal/session"
)

func TestParseContact(t *testing.T) {
	text := `
    Jane   Doe
jane.doe@example.com | (555) 123-4567
Senior Full-Stack Engineer with ten years of experience building things
`
	got := ParseContact(text)
	assert.Equal(t, session.CandidateInfo{Name: "Jane Doe", Email: "jane.doe@example.com", Phone: "5551234567"}, got)
}

func TestParseContact_SkipsLongAndContactLines(t *testing.T) {
	text := "Curriculum vitae of a very experienced engineer, revised in 2024\nphone: 555.987.6543\nJohn Smith\n"
	got := ParseContact(text)
	assert.Equal(t, "John Smith", got.Name)
	assert.Equal(t, "5559876543", got.Phone)
	assert.Empty(t, got.Email)
}

func TestParseContact_Nothing(t *testing.T) {
	assert.Equal(t, session.CandidateInfo{}, ParseContact("\n\n"))
}

func TestValidateField(t *testing.T) {
	tests := []struct {
		field, value, want string
		wantErr            bool
	}{
		{FieldName, "  Alice ", "Alice", false},
		{FieldName, "   ", "", true},
		{FieldEmail, "alice@example.com", "alice@example.com", false},
		{FieldEmail, "alice@example", "", true},
		{FieldEmail, "a lice@example.com", "", true},
		{FieldPhone, "+1 555-123-4567", "15551234567", false},
		{FieldPhone, "5551234567", "5551234567", false},
		{FieldPhone, "555-1234", "", true},
		{FieldPhone, "call me", "", true},
	}
	for _, tt := range tests {
		got, err := ValidateField(tt.field, tt.value)
		if tt.wantErr {
			var verr *ValidationError
			assert.ErrorAs(t, err, &verr, "%s=%q", tt.field, tt.value)
			continue
		}
		require.NoError(t, err, "%s=%q", tt.field, tt.value)
		assert.Equal(t, tt.want, got)
	}

	_, err := ValidateField("address", "x")
	assert.Error(t, err)
}

func TestValidateInfo(t *testing.T) {
	assert.NoError(t, ValidateInfo(session.CandidateInfo{Name: "A", Email: "a@b.co", Phone: "5551234567"}))

	var verr *ValidationError
	assert.ErrorAs(t, ValidateInfo(session.CandidateInfo{Name: "A", Email: "nope", Phone: "5551234567"}), &verr)
	assert.ErrorAs(t, ValidateInfo(session.CandidateInfo{Email: "a@b.co", Phone: "5551234567"}), &verr)
}

func TestMissing(t *testing.T) {
	assert.Equal(t, []string{FieldName, FieldPhone}, Missing(session.CandidateInfo{Email: "a@b.co"}))
	assert.Empty(t, Missing(session.CandidateInfo{Name: "a", Email: "b", Phone: "c"}))
}

func TestExtract_Text(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cv.txt")
	require.NoError(t, os.WriteFile(path, []byte("Alice\nalice@example.com\n"), 0o644))

	text, err := NewExtractor().Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Contains(t, text, "alice@example.com")
}

func TestExtract_TooShort(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cv.txt")
	require.NoError(t, os.WriteFile(path, []byte(" ab "), 0o644))

	_, err := NewExtractor().Extract(context.Background(), path)
	assert.ErrorIs(t, err, ErrExtraction)
}

func TestExtract_Unsupported(t *testing.T) {
	_, err := NewExtractor().Extract(context.Background(), "cv.docx")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrExtraction)
}

func TestExtract_PDFTextLayer(t *testing.T) {
	var calls []string
	run := func(_ context.Context, name string, args ...string) ([]byte, error) {
		calls = append(calls, name+" "+strings.Join(args, " "))
		return []byte("Alice Smith\nalice@example.com\n"), nil
	}
	text, err := NewExtractor(WithRunner(run)).Extract(context.Background(), "cv.pdf")
	require.NoError(t, err)
	assert.Contains(t, text, "Alice Smith")
	assert.Equal(t, []string{"pdftotext -layout cv.pdf -"}, calls)
}

func TestExtract_PDFFallsBackToOCR(t *testing.T) {
	var tools []string
	run := func(_ context.Context, name string, args ...string) ([]byte, error) {
		tools = append(tools, name)
		switch name {
		case "pdftotext":
			return []byte("  \n"), nil
		case "pdftoppm":
			prefix := args[len(args)-1]
			for _, n := range []string{"-2", "-1"} {
				if err := os.WriteFile(prefix+n+".png", []byte("img"), 0o644); err != nil {
					return nil, err
				}
			}
			return nil, nil
		case "tesseract":
			return []byte("text of " + filepath.Base(args[0])), nil
		}
		return nil, errors.New("unexpected tool")
	}

	text, err := NewExtractor(WithRunner(run)).Extract(context.Background(), "scan.pdf")
	require.NoError(t, err)
	assert.Equal(t, "text of page-1.png\ntext of page-2.png\n", text)
	assert.Equal(t, []string{"pdftotext", "pdftoppm", "tesseract", "tesseract"}, tools)
}

func TestExtract_OCRFailure(t *testing.T) {
	run := func(_ context.Context, name string, _ ...string) ([]byte, error) {
		if name == "pdftotext" {
			return nil, errors.New("not installed")
		}
		return nil, errors.New("pdftoppm: not installed")
	}
	_, err := NewExtractor(WithRunner(run)).Extract(context.Background(), "scan.pdf")
	assert.ErrorIs(t, err, ErrExtraction)
}
