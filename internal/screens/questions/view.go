package questions

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/hanuman1123/interviewAIAgent/internal/ui/theme"
)

func (s *Screen) View() tea.View {
	return tea.NewView(s.render())
}

func (s *Screen) render() string {
	if s.phase == phaseDone {
		// The runner prints the outcome once the program has exited.
		return ""
	}

	var b strings.Builder
	if s.notice != "" {
		b.WriteString(theme.Caution.Render(s.notice))
		b.WriteString("\n\n")
	}
	b.WriteString(theme.Question(s.turn.Index, s.turn.Total, string(s.turn.Slot.Difficulty), s.turn.Question.Text))
	b.WriteString("\n")

	status := theme.Timer(s.remaining, s.turn.Slot.TimeBudget) + theme.Hint.Render(" left")
	if s.turn.Fallback {
		status += "  " + theme.Degraded.Render("(offline question bank)")
	}
	b.WriteString(status)
	b.WriteString("\n\n")

	switch s.phase {
	case phaseSubmitting:
		if s.turn.Index == s.turn.Total-1 {
			b.WriteString(theme.Hint.Render("Evaluating your interview..."))
		} else {
			b.WriteString(theme.Hint.Render("Submitting..."))
		}
		if s.timedOut {
			b.WriteString("\n" + theme.Caution.Render("Time's up, your answer was submitted."))
		}
	case phaseConfirmQuit:
		b.WriteString(theme.Label.Render("Pause the interview? You can resume later with the same email and phone. [y/N]"))
	default:
		b.WriteString(s.input.View())
		b.WriteString("\n")
		b.WriteString(theme.Hint.Render("enter submit · /skip no answer · esc pause"))
	}
	b.WriteString("\n")
	return b.String()
}
