// Package archive is the interviewer's view of finished sessions: search,
// ranking, deletion and restarting a candidate.
package archive

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/hanuman1123/interviewAIAgent/internal/session"
)

// ErrNotFound is returned for an unknown archive id.
var ErrNotFound = errors.New("archive: interview not found")

// Field selects which candidate field a search matches.
type Field string

const (
	FieldName  Field = "name"
	FieldEmail Field = "email"
	FieldPhone Field = "phone"
	FieldAll   Field = "all"
)

// ParseField accepts name, email, phone or all. Empty means name.
func ParseField(s string) (Field, error) {
	switch f := Field(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FieldName, nil
	case FieldName, FieldEmail, FieldPhone, FieldAll:
		return f, nil
	default:
		return "", fmt.Errorf("archive: unknown search field %q", s)
	}
}

// Filter keeps entries whose field contains query, ignoring case. An
// empty query keeps everything.
func Filter(entries []session.ArchivedSession, query string, field Field) []session.ArchivedSession {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]session.ArchivedSession, 0, len(entries))
	for _, e := range entries {
		if q == "" || matches(e.CandidateInfo, q, field) {
			out = append(out, e)
		}
	}
	return out
}

func matches(info session.CandidateInfo, q string, field Field) bool {
	has := func(s string) bool { return strings.Contains(strings.ToLower(s), q) }
	// Phones are compared digits to digits, so "(555) 123" finds 5551234567.
	hasPhone := func() bool {
		digits := session.NormalizePhone(q)
		return digits != "" && strings.Contains(session.NormalizePhone(info.Phone), digits)
	}
	switch field {
	case FieldEmail:
		return has(info.Email)
	case FieldPhone:
		return hasPhone()
	case FieldAll:
		return has(info.Name) || has(info.Email) || hasPhone()
	default:
		return has(info.Name)
	}
}

// SortByScore orders entries by final score, highest first. A missing
// score counts as zero and ties keep their order.
func SortByScore(entries []session.ArchivedSession) {
	slices.SortStableFunc(entries, func(a, b session.ArchivedSession) int {
		return b.ScoreOrZero() - a.ScoreOrZero()
	})
}

// CandidateCache returns the candidate cached by the last archive.
type CandidateCache interface {
	LoadCandidate(ctx context.Context) (session.CandidateInfo, bool)
}

// Archive wraps the session machine with the interviewer operations.
type Archive struct {
	machine *session.Machine
	cache   CandidateCache
}

// New returns an Archive. cache may be nil.
func New(m *session.Machine, cache CandidateCache) *Archive {
	return &Archive{machine: m, cache: cache}
}

// List returns every archived interview in archive order.
func (a *Archive) List() []session.ArchivedSession {
	return a.machine.Archived()
}

// Search filters by query and field and ranks by score.
func (a *Archive) Search(query string, field Field) []session.ArchivedSession {
	out := Filter(a.machine.Archived(), query, field)
	SortByScore(out)
	return out
}

// Get returns the archived interview with id.
func (a *Archive) Get(id string) (session.ArchivedSession, error) {
	for _, e := range a.machine.Archived() {
		if e.ID == id {
			return e, nil
		}
	}
	return session.ArchivedSession{}, ErrNotFound
}

// Delete removes the archived interview with id.
func (a *Archive) Delete(ctx context.Context, id string) error {
	if !a.machine.DeleteArchived(ctx, id) {
		return ErrNotFound
	}
	return nil
}

// Discard drops the resumable session and resets the live one.
func (a *Archive) Discard(ctx context.Context) {
	a.machine.DiscardSession(ctx)
}

// Restart begins a fresh interview for the candidate of archived entry
// id. The cached candidate only fills in for an entry whose details are
// incomplete.
func (a *Archive) Restart(ctx context.Context, id string) (session.CandidateInfo, error) {
	entry, err := a.Get(id)
	if err != nil {
		return session.CandidateInfo{}, err
	}
	info := entry.CandidateInfo
	if !info.Complete() && a.cache != nil {
		if cached, ok := a.cache.LoadCandidate(ctx); ok && cached.Complete() {
			info = cached
		}
	}
	a.machine.RestartKeepingCandidate(ctx, &info)
	return info, nil
}
