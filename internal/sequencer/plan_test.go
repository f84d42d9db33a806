package sequencer

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanuman1123/interviewAIAgent/internal/session"
)

func TestDefaultPlan_Valid(t *testing.T) {
	assert.NoError(t, DefaultPlan().Validate())
}

func TestParsePlan_Overrides(t *testing.T) {
	p, err := ParsePlan([]byte(`
subjects: [TypeScript, Postgres]
budgets:
  Hard: 90
fallback:
  - "What is a closure?"
`))
	require.NoError(t, err)

	assert.Equal(t, Slot{session.Easy, "TypeScript", 20 * time.Second}, p.Slots[0])
	assert.Equal(t, Slot{session.Hard, "Postgres", 90 * time.Second}, p.Slots[5])
	assert.Equal(t, []string{"What is a closure?"}, p.Fallback)
}

func TestParsePlan_EmptyKeepsDefaults(t *testing.T) {
	p, err := ParsePlan([]byte("{}"))
	require.NoError(t, err)
	assert.Equal(t, DefaultPlan(), p)
}

func TestParsePlan_Invalid(t *testing.T) {
	tests := map[string]string{
		"three subjects":     "subjects: [a, b, c]",
		"unknown difficulty": "budgets: {Expert: 10}",
		"zero budget":        "budgets: {Easy: 0}",
		"empty bank":         "fallback: []",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParsePlan([]byte(doc))
			assert.ErrorIs(t, err, ErrInvalidPlan)
		})
	}

	_, err := ParsePlan([]byte("subjects: ["))
	assert.Error(t, err)
}

func TestLoadPlan(t *testing.T) {
	p, err := LoadPlan("")
	require.NoError(t, err)
	assert.Equal(t, DefaultPlan(), p)

	path := filepath.Join(t.TempDir(), "plan.yaml")
	require.NoError(t, os.WriteFile(path, []byte("budgets: {Easy: 30}\n"), 0o644))
	p, err = LoadPlan(path)
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, p.Slots[0].TimeBudget)

	_, err = LoadPlan(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
