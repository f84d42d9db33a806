// Package sequencer decides which question comes next: its difficulty,
// subject and time budget, and its text, generated by the assistant or
// taken from the offline bank.
package sequencer

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/hanuman1123/interviewAIAgent/internal/assistant"
	"github.com/hanuman1123/interviewAIAgent/internal/llm"
	"github.com/hanuman1123/interviewAIAgent/internal/metrics"
)

// Sequencer serves question text for each plan slot.
type Sequencer struct {
	plan    Plan
	asker   assistant.Asker
	log     zerolog.Logger
	metrics metrics.Recorder

	mu       sync.Mutex
	cursor   int
	degraded bool
}

// Option configures a Sequencer.
type Option func(*Sequencer)

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option { return func(s *Sequencer) { s.log = l } }

// WithMetrics sets the metrics recorder.
func WithMetrics(m metrics.Recorder) Option { return func(s *Sequencer) { s.metrics = m } }

// New returns a Sequencer over plan asking a.
func New(plan Plan, a assistant.Asker, opts ...Option) *Sequencer {
	s := &Sequencer{
		plan:    plan,
		asker:   a,
		log:     zerolog.Nop(),
		metrics: metrics.Noop(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Len is the number of questions in the interview.
func (s *Sequencer) Len() int { return len(s.plan.Slots) }

// Slot returns the slot at index. ok is false once the plan is exhausted.
func (s *Sequencer) Slot(index int) (Slot, bool) {
	if index < 0 || index >= len(s.plan.Slots) {
		return Slot{}, false
	}
	return s.plan.Slots[index], true
}

// Prompt is the question-generation prompt for slot.
func Prompt(slot Slot) string {
	return fmt.Sprintf("Ask one %s interview question about %s for a full-stack React/Node.js developer. Return only the question text.",
		slot.Difficulty, slot.Subject)
}

// Degraded reports whether the last question came from the offline bank.
func (s *Sequencer) Degraded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.degraded
}

// NextQuestionText asks the assistant for the question at index. When the
// assistant is unavailable the next bank question is returned with
// fallback set. The error is non-nil only for an index outside the plan.
func (s *Sequencer) NextQuestionText(ctx context.Context, index int) (text string, fallback bool, err error) {
	slot, ok := s.Slot(index)
	if !ok {
		return "", false, fmt.Errorf("sequencer: index %d outside plan of %d", index, s.Len())
	}

	reply, askErr := s.asker.Ask(llm.WithPurpose(ctx, llm.PurposeQuestion), Prompt(slot))
	if askErr == nil {
		s.mu.Lock()
		s.degraded = false
		s.mu.Unlock()
		return reply, false, nil
	}

	text = s.nextFallback()
	s.metrics.IncFallbackQuestions()
	s.log.Warn().Err(askErr).
		Int("index", index).
		Str("difficulty", string(slot.Difficulty)).
		Str("subject", slot.Subject).
		Msg("serving fallback question")
	return text, true, nil
}

func (s *Sequencer) nextFallback() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	q := s.plan.Fallback[s.cursor%len(s.plan.Fallback)]
	s.cursor++
	s.degraded = true
	return q
}
