package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/hanuman1123/interviewAIAgent/internal/interview"
	"github.com/hanuman1123/interviewAIAgent/internal/screens/prompt"
	"github.com/hanuman1123/interviewAIAgent/internal/screens/questions"
	"github.com/hanuman1123/interviewAIAgent/internal/ui/theme"
)

// terminal is the candidate-facing side of the runner.
type terminal interface {
	// prompt reads one value for label, re-asking until check accepts
	// it. Leaving the prompt returns errQuit.
	prompt(ctx context.Context, label string, check prompt.CheckFunc) (string, error)

	// questions runs the timed questions from turn until the interview
	// is archived. Pausing returns errQuit.
	questions(ctx context.Context, turn interview.Turn) (*interview.Result, error)
}

// console serializes writes from the runner and the answer timer.
type console struct {
	mu sync.Mutex
	w  io.Writer
}

func (c *console) println(a ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.w, a...)
}

func (c *console) print(a ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprint(c.w, a...)
}

// teaTerminal runs the prompts and the question phase as bubbletea
// programs on an interactive terminal.
type teaTerminal struct {
	in   *os.File
	out  io.Writer
	ctrl *interview.Controller
}

func (t *teaTerminal) prompt(ctx context.Context, label string, check prompt.CheckFunc) (string, error) {
	v, err := prompt.Run(ctx, t.in, t.out, label, check)
	if errors.Is(err, prompt.ErrCancelled) {
		return "", errQuit
	}
	return v, err
}

func (t *teaTerminal) questions(ctx context.Context, turn interview.Turn) (*interview.Result, error) {
	scr, err := questions.Run(ctx, t.in, t.out, t.ctrl, turn)
	switch {
	case err != nil:
		return nil, err
	case scr.Err() != nil:
		return nil, scr.Err()
	case scr.Paused() || scr.Result() == nil:
		return nil, errQuit
	}
	return scr.Result(), nil
}

// lineChannel streams lines from r until EOF or ctx is done.
func lineChannel(ctx context.Context, r io.Reader) <-chan string {
	ch := make(chan string)
	go func() {
		defer close(ch)
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			select {
			case ch <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch
}

// outcome carries a timer-driven submit back to the input loop.
type outcome struct {
	step interview.Step
	err  error
}

// lineTerminal reads piped input line by line. An answer spans lines up
// to a blank one; /skip submits nothing and /quit pauses.
type lineTerminal struct {
	*console
	in   <-chan string
	ctrl *interview.Controller

	draftMu sync.Mutex
	draft   []string
}

func (t *lineTerminal) readLine(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-t.in:
		if !ok {
			return "", errInputClosed
		}
		return line, nil
	}
}

func (t *lineTerminal) prompt(ctx context.Context, label string, check prompt.CheckFunc) (string, error) {
	for {
		t.print(theme.Label.Render(label + ": "))
		line, err := t.readLine(ctx)
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(line) == "/quit" {
			return "", errQuit
		}
		if check == nil {
			return line, nil
		}
		clean, err := check(line)
		if err != nil {
			t.println(theme.Bad.Render(err.Error()))
			continue
		}
		return clean, nil
	}
}

func (t *lineTerminal) resetDraft() {
	t.draftMu.Lock()
	defer t.draftMu.Unlock()
	t.draft = t.draft[:0]
}

func (t *lineTerminal) appendDraft(line string) {
	t.draftMu.Lock()
	defer t.draftMu.Unlock()
	t.draft = append(t.draft, line)
}

func (t *lineTerminal) draftText() string {
	t.draftMu.Lock()
	defer t.draftMu.Unlock()
	return strings.TrimSpace(strings.Join(t.draft, "\n"))
}

func (t *lineTerminal) questions(ctx context.Context, turn interview.Turn) (*interview.Result, error) {
	for {
		t.showTurn(turn)
		t.resetDraft()

		auto := make(chan outcome, 1)
		t.ctrl.Arm(ctx, turn, t.draftText, t.tickAnnouncer(turn), func(step interview.Step, err error) {
			auto <- outcome{step: step, err: err}
		})

		o, err := t.answer(ctx, turn, auto)
		if err != nil {
			return nil, err
		}
		if o.err != nil {
			return nil, o.err
		}
		if o.step.Done != nil {
			return o.step.Done, nil
		}
		turn = *o.step.Next
	}
}

// answer reads lines into the draft until the candidate submits or the
// timer does.
func (t *lineTerminal) answer(ctx context.Context, turn interview.Turn, auto <-chan outcome) (outcome, error) {
	last := turn.Index == turn.Total-1
	for {
		select {
		case <-ctx.Done():
			return outcome{}, ctx.Err()

		case o := <-auto:
			t.println()
			t.println(theme.Caution.Render("Time's up, your answer was submitted."))
			if last {
				t.println(theme.Hint.Render("Evaluating your interview..."))
			}
			return o, nil

		case line, ok := <-t.in:
			if !ok {
				return outcome{}, errInputClosed
			}
			switch strings.TrimSpace(line) {
			case "/quit":
				return outcome{}, errQuit
			case "/skip":
				t.resetDraft()
			case "":
				if t.draftText() == "" {
					t.println(theme.Hint.Render("Type your answer, then press Enter on an empty line to submit. /skip submits nothing."))
					continue
				}
			default:
				t.appendDraft(line)
				continue
			}

			if last {
				t.println(theme.Hint.Render("Evaluating your interview..."))
			}
			step, err := t.ctrl.SubmitAt(ctx, turn.Index, t.draftText())
			if errors.Is(err, interview.ErrSubmitInFlight) || errors.Is(err, interview.ErrStaleSubmit) {
				// The timer won the race; its outcome is on auto.
				select {
				case o := <-auto:
					return o, nil
				case <-ctx.Done():
					return outcome{}, ctx.Err()
				}
			}
			return outcome{step: step, err: err}, nil
		}
	}
}

// tickAnnouncer prints the remaining time at a few fixed marks.
func (t *lineTerminal) tickAnnouncer(turn interview.Turn) func(time.Duration) {
	budget := turn.Slot.TimeBudget
	return func(remaining time.Duration) {
		switch remaining {
		case time.Minute, 30 * time.Second, 10 * time.Second:
			if remaining < budget {
				t.println()
				t.println(theme.Timer(remaining, budget) + theme.Hint.Render(" left"))
			}
		}
	}
}

func (t *lineTerminal) showTurn(turn interview.Turn) {
	t.println()
	t.println(theme.Question(turn.Index, turn.Total, string(turn.Slot.Difficulty), turn.Question.Text))
	status := theme.Hint.Render("Time limit ") + theme.Timer(turn.Slot.TimeBudget, turn.Slot.TimeBudget)
	if turn.Fallback {
		status += "  " + theme.Degraded.Render("(offline question bank)")
	}
	t.println(status)
}
