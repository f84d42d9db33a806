package session

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Persister stores state after every mutation. Implementations must not
// fail the caller: errors are logged and swallowed.
type Persister interface {
	Save(ctx context.Context, st State)
	SaveCandidate(ctx context.Context, info CandidateInfo)
}

// Machine serializes all mutations of the interview state. It is safe
// for concurrent use; the answer timer and the input loop both go
// through it.
type Machine struct {
	mu      sync.Mutex
	state   State
	persist Persister
	now     func() time.Time
	newID   func() string
	log     zerolog.Logger
}

// Option configures a Machine.
type Option func(*Machine)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option { return func(m *Machine) { m.now = now } }

// WithIDs overrides id generation.
func WithIDs(newID func() string) Option { return func(m *Machine) { m.newID = newID } }

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option { return func(m *Machine) { m.log = l } }

// NewMachine starts from initial. p may be nil for an in-memory machine.
func NewMachine(initial State, p Persister, opts ...Option) *Machine {
	m := &Machine{
		state:   initial.Clone(),
		persist: p,
		now:     time.Now,
		newID:   uuid.NewString,
		log:     zerolog.Nop(),
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Snapshot returns a deep copy of the full state.
func (m *Machine) Snapshot() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Clone()
}

// Current returns a deep copy of the live session.
func (m *Machine) Current() Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.CurrentInterview.Clone()
}

// Archived returns a deep copy of the archive.
func (m *Machine) Archived() []ArchivedSession {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Clone().Interviews
}

// mutate runs fn under the lock and persists the result.
func (m *Machine) mutate(ctx context.Context, fn func(st *State) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := fn(&m.state); err != nil {
		return err
	}
	if m.persist != nil {
		m.persist.Save(ctx, m.state.Clone())
	}
	return nil
}

func (m *Machine) transition(s *Session, e Event) error {
	to, err := Next(s.Status, e)
	if err != nil {
		return err
	}
	if to != s.Status {
		m.log.Debug().Str("from", string(s.Status)).Str("to", string(to)).Str("event", string(e)).Msg("session transition")
	}
	s.Status = to
	return nil
}

// SetCandidateInfo merges p and moves a not-started session to
// collecting_info. Status never regresses.
func (m *Machine) SetCandidateInfo(ctx context.Context, p CandidateInfo) {
	_ = m.mutate(ctx, func(st *State) error {
		cur := &st.CurrentInterview
		cur.CandidateInfo = cur.CandidateInfo.Merge(p)
		return m.transition(cur, EventCandidateInfo)
	})
}

// UpdateCandidateInfo merges p without touching status.
func (m *Machine) UpdateCandidateInfo(ctx context.Context, p CandidateInfo) {
	_ = m.mutate(ctx, func(st *State) error {
		st.CurrentInterview.CandidateInfo = st.CurrentInterview.CandidateInfo.Merge(p)
		return nil
	})
}

// StartInterview moves collecting_info to in_progress once all contact
// fields are present.
func (m *Machine) StartInterview(ctx context.Context) error {
	return m.mutate(ctx, func(st *State) error {
		cur := &st.CurrentInterview
		if !cur.CandidateInfo.Complete() {
			return ErrIncompleteCandidate
		}
		return m.transition(cur, EventStart)
	})
}

// RecordQuestion appends q, assigning an id and creation time when
// missing, and returns the stored question.
func (m *Machine) RecordQuestion(ctx context.Context, q Question) Question {
	_ = m.mutate(ctx, func(st *State) error {
		cur := &st.CurrentInterview
		if q.ID == "" {
			q.ID = m.newID()
		}
		if q.CreatedAt.IsZero() {
			q.CreatedAt = m.now().UTC()
		}
		cur.Questions = append(cur.Questions, q)
		backfill(cur, len(cur.Questions)-1)
		if len(cur.Questions) == 1 {
			return m.transition(cur, EventFirstQuestion)
		}
		return nil
	})
	return q
}

// RecordAnswer writes text at the current question index.
func (m *Machine) RecordAnswer(ctx context.Context, text string) {
	_ = m.mutate(ctx, func(st *State) error {
		writeAnswer(&st.CurrentInterview, st.CurrentInterview.CurrentQuestionIndex, text)
		return nil
	})
}

// RecordAnswerAt writes text at index i, backfilling nil placeholders.
func (m *Machine) RecordAnswerAt(ctx context.Context, i int, text string) error {
	if i < 0 {
		return fmt.Errorf("session: negative answer index %d", i)
	}
	return m.mutate(ctx, func(st *State) error {
		writeAnswer(&st.CurrentInterview, i, text)
		return nil
	})
}

// RecordAnswerFor writes text against the question with the given id.
func (m *Machine) RecordAnswerFor(ctx context.Context, questionID, text string) error {
	return m.mutate(ctx, func(st *State) error {
		cur := &st.CurrentInterview
		for i, q := range cur.Questions {
			if q.ID == questionID {
				writeAnswer(cur, i, text)
				return nil
			}
		}
		return ErrQuestionNotFound
	})
}

// SetFeedback attaches a per-question score and feedback.
func (m *Machine) SetFeedback(ctx context.Context, i int, score int, feedback string) error {
	return m.mutate(ctx, func(st *State) error {
		cur := &st.CurrentInterview
		if i < 0 || i >= len(cur.Questions) {
			return ErrQuestionNotFound
		}
		cur.Questions[i].Score = &score
		cur.Questions[i].Feedback = &feedback
		return nil
	})
}

func writeAnswer(cur *Session, i int, text string) {
	if strings.TrimSpace(text) == "" {
		text = NoAnswer
	}
	backfill(cur, i)
	cur.Answers[i] = &text
	if i < len(cur.Questions) {
		mirrored := text
		cur.Questions[i].Answer = &mirrored
	}
}

// backfill grows Answers with nil placeholders until index i exists.
func backfill(cur *Session, i int) {
	for len(cur.Answers) <= i {
		cur.Answers = append(cur.Answers, nil)
	}
}

// Advance moves to the next question. With total > 0, stepping past the
// last slot clamps to total-1 and completes the session. Otherwise the
// index is clamped to the last recorded question. Answers always reach
// the new index.
func (m *Machine) Advance(ctx context.Context, total int) {
	_ = m.mutate(ctx, func(st *State) error {
		cur := &st.CurrentInterview
		next := cur.CurrentQuestionIndex + 1
		if total > 0 {
			if next >= total {
				cur.CurrentQuestionIndex = total - 1
				backfill(cur, cur.CurrentQuestionIndex)
				return m.transition(cur, EventAdvancePastEnd)
			}
			cur.CurrentQuestionIndex = next
			backfill(cur, next)
			return nil
		}
		cur.CurrentQuestionIndex = min(next, max(0, len(cur.Questions)-1))
		backfill(cur, cur.CurrentQuestionIndex)
		return nil
	})
}

// SetCurrentIndex jumps to i, clamped to the recorded questions.
func (m *Machine) SetCurrentIndex(ctx context.Context, i int) {
	if i < 0 {
		return
	}
	_ = m.mutate(ctx, func(st *State) error {
		cur := &st.CurrentInterview
		cur.CurrentQuestionIndex = min(i, max(0, len(cur.Questions)-1))
		return nil
	})
}

var firstInteger = regexp.MustCompile(`\d+`)

// ParseScore extracts the first run of digits in reply, clamped to
// [0, 100]. ok is false when reply contains no digits.
func ParseScore(reply string) (score int, ok bool) {
	digits := firstInteger.FindString(reply)
	if digits == "" {
		return 0, false
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		// Longer than an int; certainly above 100.
		return 100, true
	}
	return min(max(n, 0), 100), true
}

// Finalize stores the score parsed from an AI reply, or nil when the
// reply has no number. Status is left alone.
func (m *Machine) Finalize(ctx context.Context, reply string) *int {
	var out *int
	_ = m.mutate(ctx, func(st *State) error {
		st.CurrentInterview.FinalScore = nil
		if n, ok := ParseScore(reply); ok {
			st.CurrentInterview.FinalScore = &n
			out = cloneInt(&n)
		}
		return nil
	})
	return out
}

// FinalizeScore stores a numeric score, clamped to [0, 100].
func (m *Machine) FinalizeScore(ctx context.Context, score int) {
	score = min(max(score, 0), 100)
	_ = m.mutate(ctx, func(st *State) error {
		st.CurrentInterview.FinalScore = &score
		return nil
	})
}

// Complete marks the live session completed and drops any resumable
// pointer.
func (m *Machine) Complete(ctx context.Context) {
	_ = m.mutate(ctx, func(st *State) error {
		st.LastActiveSession = nil
		return m.transition(&st.CurrentInterview, EventComplete)
	})
}

// Archive snapshots the live session into the archive, resets the live
// session and clears the resumable pointer.
func (m *Machine) Archive(ctx context.Context, summary string) ArchivedSession {
	var archived ArchivedSession
	_ = m.mutate(ctx, func(st *State) error {
		archived = ArchivedSession{
			Session: st.CurrentInterview.Clone(),
			ID:      m.newID(),
			Date:    m.now().UTC(),
			Summary: summary,
		}
		archived.Status = StatusCompleted
		st.Interviews = append(st.Interviews, archived)
		st.CurrentInterview = New()
		st.LastActiveSession = nil
		return nil
	})
	if m.persist != nil && archived.CandidateInfo.Complete() {
		m.persist.SaveCandidate(ctx, archived.CandidateInfo)
	}
	return archived.Clone()
}

// RestartKeepingCandidate starts a fresh in-progress session for the
// same candidate, or for override when given.
func (m *Machine) RestartKeepingCandidate(ctx context.Context, override *CandidateInfo) {
	_ = m.mutate(ctx, func(st *State) error {
		kept := st.CurrentInterview.CandidateInfo
		if override != nil {
			kept = *override
		}
		fresh := New()
		fresh.CandidateInfo = kept
		if err := m.transition(&fresh, EventRestart); err != nil {
			return err
		}
		st.CurrentInterview = fresh
		st.LastActiveSession = nil
		return nil
	})
}

// SaveResumable captures the live session as the resumable pointer.
func (m *Machine) SaveResumable(ctx context.Context) {
	_ = m.mutate(ctx, func(st *State) error {
		st.LastActiveSession = m.pointerTo(st.CurrentInterview)
		return nil
	})
}

func (m *Machine) pointerTo(s Session) *ResumablePointer {
	cur := s.Clone()
	return &ResumablePointer{
		CandidateInfo:        cur.CandidateInfo,
		Questions:            cur.Questions,
		Answers:              cur.Answers,
		CurrentQuestionIndex: cur.CurrentQuestionIndex,
		Status:               cur.Status,
		Timestamp:            m.now().UTC(),
	}
}

// ParkResumable saves the live session as the resumable pointer unless
// the pointer already holds another candidate's interview. It reports
// whether the pointer now holds the live session.
func (m *Machine) ParkResumable(ctx context.Context) bool {
	err := m.mutate(ctx, func(st *State) error {
		if p := st.LastActiveSession; p != nil {
			if same, _ := SameCandidate(p.CandidateInfo, st.CurrentInterview.CandidateInfo); !same {
				return ErrResumableTaken
			}
		}
		st.LastActiveSession = m.pointerTo(st.CurrentInterview)
		return nil
	})
	if err != nil {
		m.log.Warn().Err(err).Msg("live session not parked")
		return false
	}
	return true
}

// RunningFor reports whether the live session is an unfinished interview
// for info, as after a crash, and whether a welcome-back greeting applies.
func (m *Machine) RunningFor(info CandidateInfo) (match, welcome bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur := m.state.CurrentInterview
	if cur.Status != StatusInProgress {
		return false, false
	}
	return SameCandidate(cur.CandidateInfo, info)
}

// Resumable returns a copy of the saved pointer, if any.
func (m *Machine) Resumable() *ResumablePointer {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Clone().LastActiveSession
}

// ResumeFromPointer replaces the live session with the saved pointer
// merged over an empty session, then clears the pointer.
func (m *Machine) ResumeFromPointer(ctx context.Context) error {
	return m.mutate(ctx, func(st *State) error {
		p := st.LastActiveSession
		if p == nil {
			return ErrNoResumable
		}
		s := New()
		s.CandidateInfo = p.CandidateInfo
		if p.Questions != nil {
			s.Questions = p.Questions
		}
		if p.Answers != nil {
			s.Answers = p.Answers
		}
		s.CurrentQuestionIndex = max(p.CurrentQuestionIndex, 0)
		s.Status = p.Status
		if !s.Status.Valid() {
			s.Status = StatusInProgress
		}
		st.CurrentInterview = s
		st.LastActiveSession = nil
		return nil
	})
}

// DiscardSession clears the resumable pointer and resets the live
// session.
func (m *Machine) DiscardSession(ctx context.Context) {
	_ = m.mutate(ctx, func(st *State) error {
		st.LastActiveSession = nil
		st.CurrentInterview = New()
		return nil
	})
}

// Reset replaces the live session with an empty one, keeping the
// resumable pointer.
func (m *Machine) Reset(ctx context.Context) {
	_ = m.mutate(ctx, func(st *State) error {
		st.CurrentInterview = New()
		return nil
	})
}

// DeleteArchived removes the archived session with the given id and
// reports whether it existed.
func (m *Machine) DeleteArchived(ctx context.Context, id string) bool {
	found := false
	_ = m.mutate(ctx, func(st *State) error {
		kept := st.Interviews[:0]
		for _, a := range st.Interviews {
			if a.ID == id {
				found = true
				continue
			}
			kept = append(kept, a)
		}
		st.Interviews = kept
		return nil
	})
	return found
}

// HasResumable reports whether the saved pointer belongs to info and
// whether a welcome-back greeting applies.
func (m *Machine) HasResumable(info CandidateInfo) (match, welcome bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return MatchResumable(m.state.LastActiveSession, info)
}
