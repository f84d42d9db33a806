package archive

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanuman1123/interviewAIAgent/internal/session"
)

func entry(id, name, email, phone string, score *int) session.ArchivedSession {
	s := session.New()
	s.CandidateInfo = session.CandidateInfo{Name: name, Email: email, Phone: phone}
	s.FinalScore = score
	s.Status = session.StatusCompleted
	return session.ArchivedSession{Session: s, ID: id}
}

func ptr(n int) *int { return &n }

func fixtures() []session.ArchivedSession {
	return []session.ArchivedSession{
		entry("1", "Alice Smith", "alice@example.com", "5551234567", ptr(60)),
		entry("2", "Bob Jones", "bob@corp.io", "5559876543", nil),
		entry("3", "Carol Alison", "carol@example.com", "4440001111", ptr(90)),
		entry("4", "Dan Brown", "dan@corp.io", "5551112222", ptr(0)),
	}
}

func ids(entries []session.ArchivedSession) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}

func TestFilter(t *testing.T) {
	tests := []struct {
		query string
		field Field
		want  []string
	}{
		{"", FieldName, []string{"1", "2", "3", "4"}},
		{"ALI", FieldName, []string{"1", "3"}},
		{"corp", FieldName, nil},
		{"corp", FieldEmail, []string{"2", "4"}},
		{"555", FieldPhone, []string{"1", "2", "4"}},
		{"(555) 123", FieldPhone, []string{"1"}},
		{"555-1", FieldAll, []string{"1", "4"}},
		{"phone", FieldPhone, nil},
		{"example", FieldAll, []string{"1", "3"}},
		{"  bob ", FieldAll, []string{"2"}},
	}
	for _, tt := range tests {
		got := ids(Filter(fixtures(), tt.query, tt.field))
		if tt.want == nil {
			assert.Empty(t, got, "%q by %s", tt.query, tt.field)
			continue
		}
		assert.Equal(t, tt.want, got, "%q by %s", tt.query, tt.field)
	}
}

func TestSortByScore_StableWithMissingAsZero(t *testing.T) {
	entries := fixtures()
	SortByScore(entries)
	assert.Equal(t, []string{"3", "1", "2", "4"}, ids(entries))
}

func TestParseField(t *testing.T) {
	f, err := ParseField("")
	require.NoError(t, err)
	assert.Equal(t, FieldName, f)

	f, err = ParseField("Email")
	require.NoError(t, err)
	assert.Equal(t, FieldEmail, f)

	_, err = ParseField("address")
	assert.Error(t, err)
}

type fixedCache struct {
	info session.CandidateInfo
	ok   bool
}

func (c fixedCache) LoadCandidate(context.Context) (session.CandidateInfo, bool) { return c.info, c.ok }

func archivedMachine(t *testing.T) (*session.Machine, session.ArchivedSession) {
	t.Helper()
	ctx := context.Background()
	m := session.NewMachine(session.NewState(), nil)
	m.SetCandidateInfo(ctx, session.CandidateInfo{Name: "Alice", Email: "alice@example.com", Phone: "5551234567"})
	m.RecordQuestion(ctx, session.Question{Text: "Q0"})
	m.RecordAnswer(ctx, "A0")
	m.FinalizeScore(ctx, 55)
	a := m.Archive(ctx, "")
	return m, a
}

func TestArchive_GetAndDelete(t *testing.T) {
	m, a := archivedMachine(t)
	arc := New(m, nil)
	ctx := context.Background()

	got, err := arc.Get(a.ID)
	require.NoError(t, err)
	assert.Equal(t, 55, got.ScoreOrZero())

	_, err = arc.Get("nope")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, arc.Delete(ctx, a.ID))
	assert.ErrorIs(t, arc.Delete(ctx, a.ID), ErrNotFound)
	assert.Empty(t, arc.List())
}

func TestArchive_RestartUsesSelectedEntry(t *testing.T) {
	m, alice := archivedMachine(t)
	ctx := context.Background()
	bob := session.CandidateInfo{Name: "Bob", Email: "bob@example.com", Phone: "5559876543"}
	m.SetCandidateInfo(ctx, bob)
	m.FinalizeScore(ctx, 70)
	m.Archive(ctx, "")
	arc := New(m, fixedCache{info: bob, ok: true})

	info, err := arc.Restart(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, alice.CandidateInfo, info)

	cur := m.Current()
	assert.Equal(t, alice.CandidateInfo, cur.CandidateInfo)
	assert.Equal(t, session.StatusInProgress, cur.Status)
	assert.Empty(t, cur.Questions)
	assert.Len(t, arc.List(), 2, "restart keeps the archive entries")

	_, err = arc.Restart(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestArchive_RestartFillsIncompleteEntryFromCache(t *testing.T) {
	ctx := context.Background()
	m := session.NewMachine(session.NewState(), nil)
	m.SetCandidateInfo(ctx, session.CandidateInfo{Name: "Alice"})
	m.FinalizeScore(ctx, 40)
	partial := m.Archive(ctx, "")

	cached := session.CandidateInfo{Name: "Alice S", Email: "alice@new.com", Phone: "5550000000"}
	info, err := New(m, fixedCache{info: cached, ok: true}).Restart(ctx, partial.ID)
	require.NoError(t, err)
	assert.Equal(t, cached, info)

	info, err = New(m, fixedCache{}).Restart(ctx, partial.ID)
	require.NoError(t, err)
	assert.Equal(t, partial.CandidateInfo, info)
}

func TestArchive_Discard(t *testing.T) {
	m := session.NewMachine(session.NewState(), nil)
	ctx := context.Background()
	m.SetCandidateInfo(ctx, session.CandidateInfo{Name: "Bob"})
	m.SaveResumable(ctx)

	New(m, nil).Discard(ctx)
	assert.Nil(t, m.Resumable())
	assert.Equal(t, session.StatusNotStarted, m.Current().Status)
}

func TestArchive_Search(t *testing.T) {
	ctx := context.Background()
	m := session.NewMachine(session.NewState(), nil)
	for i, name := range []string{"Ann", "Anna", "Bo"} {
		m.SetCandidateInfo(ctx, session.CandidateInfo{Name: name})
		m.FinalizeScore(ctx, 10*(i+1))
		m.Archive(ctx, "")
	}
	got := New(m, nil).Search("ann", FieldName)
	require.Len(t, got, 2)
	assert.Equal(t, "Anna", got[0].CandidateInfo.Name)
}
