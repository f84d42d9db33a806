// Package interview drives one interview from the first question to the
// archived score: it fetches questions, times answers, guards submits and
// evaluates the transcript.
package interview

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/hanuman1123/interviewAIAgent/internal/llm"
	"github.com/hanuman1123/interviewAIAgent/internal/metrics"
	"github.com/hanuman1123/interviewAIAgent/internal/sequencer"
	"github.com/hanuman1123/interviewAIAgent/internal/session"
)

var (
	// ErrSubmitInFlight is returned when another submit for the session
	// has not finished yet.
	ErrSubmitInFlight = errors.New("interview: submit already in progress")

	// ErrStaleSubmit is returned when a submit targets a question that is
	// no longer current.
	ErrStaleSubmit = errors.New("interview: question already answered")

	// ErrNotInProgress is returned when no interview is running.
	ErrNotInProgress = errors.New("interview: no interview in progress")
)

// Assistant is what the controller needs from the AI client.
type Assistant interface {
	Ask(ctx context.Context, prompt string) (string, error)
	AskJSON(ctx context.Context, prompt string, schema *llm.Schema, out any) error
	Reset()
}

// Turn is the question the candidate is answering.
type Turn struct {
	Index    int
	Total    int
	Question session.Question
	Slot     sequencer.Slot
	Fallback bool
}

// Result is a finished, archived interview.
type Result struct {
	Archived session.ArchivedSession
	Score    int

	// Degraded is set when scoring fell back to FallbackScore.
	Degraded bool
}

// Step is the outcome of a submit: either the next turn or the result.
type Step struct {
	Next *Turn
	Done *Result
}

// Controller owns the answer timer and the submit guard for the live
// session.
type Controller struct {
	machine *session.Machine
	seq     *sequencer.Sequencer
	ai      Assistant
	log     zerolog.Logger
	metrics metrics.Recorder
	tick    time.Duration

	submitting atomic.Bool

	mu        sync.Mutex
	countdown *Countdown
	fallback  map[int]bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option { return func(c *Controller) { c.log = l } }

// WithMetrics sets the metrics recorder.
func WithMetrics(m metrics.Recorder) Option { return func(c *Controller) { c.metrics = m } }

// WithTick sets the real time that stands for one countdown second.
func WithTick(d time.Duration) Option { return func(c *Controller) { c.tick = d } }

// New returns a Controller.
func New(m *session.Machine, seq *sequencer.Sequencer, ai Assistant, opts ...Option) *Controller {
	c := &Controller{
		machine:  m,
		seq:      seq,
		ai:       ai,
		log:      zerolog.Nop(),
		metrics:  metrics.Noop(),
		tick:     time.Second,
		fallback: make(map[int]bool),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Intake merges info into the live session. Once name, email and phone
// are all known the interview starts and the first turn is returned;
// otherwise ok is false and the session waits in collecting_info.
func (c *Controller) Intake(ctx context.Context, info session.CandidateInfo) (turn Turn, ok bool, err error) {
	cur := c.machine.Current()
	merged := cur.CandidateInfo.Merge(info)
	if !merged.Complete() {
		c.machine.SetCandidateInfo(ctx, info)
		return Turn{}, false, nil
	}

	switch cur.Status {
	case session.StatusCollectingInfo:
		c.machine.UpdateCandidateInfo(ctx, info)
		if err := c.machine.StartInterview(ctx); err != nil {
			return Turn{}, false, err
		}
	case session.StatusInProgress:
		c.machine.UpdateCandidateInfo(ctx, info)
	default:
		c.machine.RestartKeepingCandidate(ctx, &merged)
		c.ai.Reset()
	}

	turn, err = c.Current(ctx)
	if err != nil {
		return Turn{}, false, err
	}
	return turn, true, nil
}

// Current returns the turn at the current index, fetching and recording
// the question first when it has not been asked yet.
func (c *Controller) Current(ctx context.Context) (Turn, error) {
	cur := c.machine.Current()
	if cur.Status != session.StatusInProgress {
		return Turn{}, ErrNotInProgress
	}
	idx := cur.CurrentQuestionIndex
	slot, ok := c.seq.Slot(idx)
	if !ok {
		return Turn{}, fmt.Errorf("interview: question %d outside plan", idx)
	}

	if idx < len(cur.Questions) {
		c.mu.Lock()
		fb := c.fallback[idx]
		c.mu.Unlock()
		return Turn{Index: idx, Total: c.seq.Len(), Question: cur.Questions[idx], Slot: slot, Fallback: fb}, nil
	}

	text, fallback, err := c.seq.NextQuestionText(ctx, idx)
	if err != nil {
		return Turn{}, err
	}
	q := c.machine.RecordQuestion(ctx, session.Question{
		Text:       text,
		Difficulty: slot.Difficulty,
		Subject:    slot.Subject,
	})
	c.mu.Lock()
	c.fallback[idx] = fallback
	c.mu.Unlock()

	c.log.Debug().Int("index", idx).Bool("fallback", fallback).Str("subject", slot.Subject).Msg("question ready")
	return Turn{Index: idx, Total: c.seq.Len(), Question: q, Slot: slot, Fallback: fallback}, nil
}

// Submit records text for the current question and moves on.
func (c *Controller) Submit(ctx context.Context, text string) (Step, error) {
	return c.submit(ctx, -1, text)
}

// SubmitAt is Submit for a specific question index. It fails with
// ErrStaleSubmit once that question has been answered.
func (c *Controller) SubmitAt(ctx context.Context, index int, text string) (Step, error) {
	return c.submit(ctx, index, text)
}

func (c *Controller) submit(ctx context.Context, index int, text string) (Step, error) {
	if !c.submitting.CompareAndSwap(false, true) {
		c.metrics.IncSubmitRejected()
		return Step{}, ErrSubmitInFlight
	}
	defer c.submitting.Store(false)

	c.Disarm()

	cur := c.machine.Current()
	if cur.Status != session.StatusInProgress {
		return Step{}, ErrNotInProgress
	}
	idx := cur.CurrentQuestionIndex
	if index >= 0 && index != idx {
		return Step{}, ErrStaleSubmit
	}
	if idx < len(cur.Answers) && cur.Answers[idx] != nil {
		return Step{}, ErrStaleSubmit
	}

	if err := c.machine.RecordAnswerAt(ctx, idx, text); err != nil {
		return Step{}, err
	}
	c.machine.Advance(ctx, c.seq.Len())

	if c.machine.Current().Status == session.StatusCompleted {
		res := c.finish(ctx)
		return Step{Done: &res}, nil
	}

	next, err := c.Current(ctx)
	if err != nil {
		return Step{}, err
	}
	return Step{Next: &next}, nil
}

// Arm starts the answer timer for turn. When it runs out the current
// draft is submitted and the outcome passed to onAuto. Any earlier timer
// is stopped.
func (c *Controller) Arm(ctx context.Context, turn Turn, draft func() string, onTick func(time.Duration), onAuto func(Step, error)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.countdown.Stop()
	c.countdown = StartCountdown(ctx, turn.Slot.TimeBudget, c.tick, onTick, func() {
		step, err := c.expire(ctx, turn.Index, draft())
		if errors.Is(err, ErrSubmitInFlight) || errors.Is(err, ErrStaleSubmit) {
			return
		}
		if onAuto != nil {
			onAuto(step, err)
		}
	})
}

func (c *Controller) expire(ctx context.Context, index int, draft string) (Step, error) {
	c.log.Info().Int("index", index).Msg("answer time expired")
	return c.SubmitAt(ctx, index, draft)
}

// Disarm stops the answer timer, if any.
func (c *Controller) Disarm() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.countdown.Stop()
	c.countdown = nil
}

// Close stops the timer and saves an unfinished interview so it can be
// resumed. Another candidate's saved interview is never overwritten.
func (c *Controller) Close(ctx context.Context) {
	c.Disarm()
	if c.machine.Current().Status == session.StatusInProgress {
		c.machine.ParkResumable(ctx)
	}
}

// finish scores, reviews and archives the completed session. It always
// reaches an archived result.
func (c *Controller) finish(ctx context.Context) Result {
	snap := c.machine.Current()
	transcript := Transcript(snap)

	degraded := false
	reply, err := c.ai.Ask(llm.WithPurpose(ctx, llm.PurposeEvaluate), ScorePrompt(transcript))
	if err != nil {
		degraded = true
		c.machine.FinalizeScore(ctx, FallbackScore)
	} else if c.machine.Finalize(ctx, reply) == nil {
		c.machine.FinalizeScore(ctx, 0)
	}
	score := 0
	if fs := c.machine.Current().FinalScore; fs != nil {
		score = *fs
	}

	summary := UnavailableSummary
	if !degraded {
		c.review(ctx, transcript, len(snap.Questions))
		summary = c.summarize(ctx, snap.CandidateInfo.Name, score, transcript)
	}

	c.machine.Complete(ctx)
	archived := c.machine.Archive(ctx, summary)
	c.ai.Reset()
	c.mu.Lock()
	clear(c.fallback)
	c.mu.Unlock()

	c.metrics.IncSessionsCompleted(degraded || c.seq.Degraded())
	c.log.Info().
		Str("id", archived.ID).
		Int("score", score).
		Bool("degraded", degraded).
		Msg("interview archived")
	return Result{Archived: archived, Score: score, Degraded: degraded}
}

// review attaches per-question feedback. Failures leave questions as they
// are.
func (c *Controller) review(ctx context.Context, transcript string, n int) {
	var out feedbackOutput
	if err := c.ai.AskJSON(llm.WithPurpose(ctx, llm.PurposeFeedback), feedbackPrompt(transcript), FeedbackSchema, &out); err != nil {
		c.log.Debug().Err(err).Msg("skip answer feedback")
		return
	}
	for _, item := range out.Items {
		if item.Index < 0 || item.Index >= n {
			continue
		}
		if err := c.machine.SetFeedback(ctx, item.Index, item.Score, strings.TrimSpace(item.Feedback)); err != nil {
			c.log.Debug().Err(err).Int("index", item.Index).Msg("set feedback")
		}
	}
}

func (c *Controller) summarize(ctx context.Context, name string, score int, transcript string) string {
	text, err := c.ai.Ask(llm.WithPurpose(ctx, llm.PurposeSummary), summaryPrompt(name, score, transcript))
	if err != nil {
		return UnavailableSummary
	}
	return text
}
