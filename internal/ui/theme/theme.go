package theme

import (
	"fmt"
	"time"

	"charm.land/lipgloss/v2"
)

// Color palette
var (
	Primary   = lipgloss.Color("#8B5CF6") // Vivid Purple
	Secondary = lipgloss.Color("#14B8A6") // Teal
	Accent    = lipgloss.Color("#F97316") // Orange
	Success   = lipgloss.Color("#22C55E") // Green
	Warning   = lipgloss.Color("#EAB308") // Amber
	Error     = lipgloss.Color("#F43F5E") // Rose
	Text      = lipgloss.Color("#F8FAFC") // White
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	Border    = lipgloss.Color("#334155") // Slate
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)

	Label = lipgloss.NewStyle().
		Foreground(Secondary).
		Bold(true)
)

// Layout
var (
	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(0, 1)

	QuestionCard = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(0, 1)
)

// States
var (
	Good = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Caution = lipgloss.NewStyle().
		Foreground(Warning).
		Bold(true)

	Bad = lipgloss.NewStyle().
		Foreground(Error).
		Bold(true)

	Degraded = lipgloss.NewStyle().
			Foreground(Accent).
			Italic(true)
)

// ScoreStyle colours a 0-100 score by band.
func ScoreStyle(score int) lipgloss.Style {
	switch {
	case score >= 70:
		return Good
	case score >= 50:
		return Caution
	default:
		return Bad
	}
}

// Timer renders remaining time as m:ss, turning amber under half the
// budget and red under ten seconds.
func Timer(remaining, budget time.Duration) string {
	if remaining < 0 {
		remaining = 0
	}
	secs := int(remaining.Round(time.Second).Seconds())
	text := fmt.Sprintf("%d:%02d", secs/60, secs%60)
	switch {
	case remaining < 10*time.Second:
		return Bad.Render(text)
	case remaining < budget/2:
		return Caution.Render(text)
	default:
		return Good.Render(text)
	}
}

// Question renders a question card with its position and difficulty.
func Question(index, total int, difficulty, text string) string {
	head := Label.Render(fmt.Sprintf("Question %d/%d", index+1, total)) +
		"  " + Subtitle.Render(difficulty)
	return QuestionCard.Render(head + "\n\n" + Body.Render(text))
}
