// Package questions is the timed question-and-answer screen. It drives an
// interview from its current turn until the interview is archived or the
// candidate pauses.
package questions

import (
	"context"
	"errors"
	"io"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/hanuman1123/interviewAIAgent/internal/interview"
	"github.com/hanuman1123/interviewAIAgent/internal/ui/components"
)

// Submitter is the part of the interview controller the screen uses.
type Submitter interface {
	SubmitAt(ctx context.Context, index int, text string) (interview.Step, error)
}

type phase int

const (
	phaseAnswering phase = iota
	phaseConfirmQuit
	phaseSubmitting
	phaseDone
)

// Screen is a bubbletea model for the question phase.
type Screen struct {
	ctx  context.Context
	ctrl Submitter
	now  func() time.Time

	turn      interview.Turn
	opened    time.Time
	remaining time.Duration
	input     components.TextInput
	phase     phase
	timedOut  bool
	notice    string

	result *interview.Result
	paused bool
	err    error
}

// New opens the screen on turn.
func New(ctx context.Context, ctrl Submitter, turn interview.Turn) *Screen {
	s := &Screen{ctx: ctx, ctrl: ctrl, now: time.Now}
	s.open(turn)
	return s
}

func (s *Screen) open(turn interview.Turn) {
	s.turn = turn
	s.opened = s.now()
	s.remaining = turn.Slot.TimeBudget
	s.input = components.NewTextInput("Type your answer...", components.AnswerLimit)
	s.phase = phaseAnswering
	s.timedOut = false
	s.notice = ""
}

func (s *Screen) Init() tea.Cmd {
	return tea.Batch(s.input.Init(), tickCmd(s.turn.Index))
}

func (s *Screen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case timerTickMsg:
		return s.handleTimerTick(msg)

	case stepMsg:
		return s.handleStep(msg)

	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}

	if s.phase == phaseAnswering {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *Screen) handleTimerTick(msg timerTickMsg) (tea.Model, tea.Cmd) {
	if msg.index != s.turn.Index || (s.phase != phaseAnswering && s.phase != phaseConfirmQuit) {
		return s, nil
	}
	s.remaining = max(s.turn.Slot.TimeBudget-msg.at.Sub(s.opened), 0)
	if s.remaining > 0 {
		return s, tickCmd(s.turn.Index)
	}

	// Time's up: whatever was typed is the answer.
	s.timedOut = true
	return s, s.submit(s.input.Value(), true)
}

func (s *Screen) handleStep(msg stepMsg) (tea.Model, tea.Cmd) {
	switch {
	case errors.Is(msg.err, interview.ErrSubmitInFlight), errors.Is(msg.err, interview.ErrStaleSubmit):
		// The other submit owns the outcome.
		return s, nil
	case msg.err != nil:
		s.err = msg.err
		s.phase = phaseDone
		return s, tea.Quit
	case msg.step.Done != nil:
		s.result = msg.step.Done
		s.phase = phaseDone
		return s, tea.Quit
	case msg.step.Next != nil:
		s.open(*msg.step.Next)
		if msg.auto {
			s.notice = "Time's up, your previous answer was submitted."
		}
		return s, tea.Batch(s.input.Init(), tickCmd(s.turn.Index))
	}
	return s, nil
}

func (s *Screen) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return s.pause()
	}

	switch s.phase {
	case phaseConfirmQuit:
		switch key {
		case "y", "Y":
			return s.pause()
		case "n", "N", "esc":
			s.phase = phaseAnswering
		}
		return s, nil

	case phaseAnswering:
		switch key {
		case "esc":
			s.phase = phaseConfirmQuit
			return s, nil
		case "enter":
			return s.submitAnswer()
		}
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

// submitAnswer handles enter on the answer field.
func (s *Screen) submitAnswer() (tea.Model, tea.Cmd) {
	text := s.input.Value()
	switch text {
	case "/quit":
		return s.pause()
	case "/skip":
		return s, s.submit("", false)
	case "":
		s.input.Reject("Type an answer first, or /skip to move on.")
		return s, nil
	}
	return s, s.submit(text, false)
}

func (s *Screen) submit(text string, auto bool) tea.Cmd {
	s.phase = phaseSubmitting
	s.notice = ""
	ctx, ctrl, index := s.ctx, s.ctrl, s.turn.Index
	return func() tea.Msg {
		step, err := ctrl.SubmitAt(ctx, index, text)
		return stepMsg{step: step, err: err, auto: auto}
	}
}

func (s *Screen) pause() (tea.Model, tea.Cmd) {
	s.paused = true
	s.phase = phaseDone
	return s, tea.Quit
}

// Result returns the archived interview once the last answer is in.
func (s *Screen) Result() *interview.Result { return s.result }

// Paused reports whether the candidate left before finishing.
func (s *Screen) Paused() bool { return s.paused }

// Err returns the error that stopped the screen, if any.
func (s *Screen) Err() error { return s.err }

// Run shows the screen until the interview is archived or paused.
func Run(ctx context.Context, in io.Reader, out io.Writer, ctrl Submitter, turn interview.Turn) (*Screen, error) {
	p := tea.NewProgram(New(ctx, ctrl, turn), tea.WithContext(ctx), tea.WithInput(in), tea.WithOutput(out))
	final, err := p.Run()
	if err != nil {
		return nil, err
	}
	return final.(*Screen), nil
}

// tickCmd returns a 1-second tick command for the question at index.
func tickCmd(index int) tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return timerTickMsg{index: index, at: t}
	})
}
