// Package prompt asks the candidate for a single line on an interactive
// terminal.
package prompt

import (
	"context"
	"errors"
	"io"

	tea "charm.land/bubbletea/v2"

	"github.com/hanuman1123/interviewAIAgent/internal/ui/components"
	"github.com/hanuman1123/interviewAIAgent/internal/ui/theme"
)

// ErrCancelled is returned when the candidate leaves with esc, ctrl+c or
// /quit.
var ErrCancelled = errors.New("prompt cancelled")

// CheckFunc cleans a submitted value or rejects it with a message.
type CheckFunc func(string) (string, error)

// Model is a one-field form.
type Model struct {
	label string
	check CheckFunc
	input components.TextInput

	value     string
	done      bool
	cancelled bool
}

// New creates a prompt. check may be nil.
func New(label string, check CheckFunc) Model {
	return Model{
		label: label,
		check: check,
		input: components.NewTextInput("", 200),
	}
}

func (m Model) Init() tea.Cmd {
	return m.input.Init()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyPressMsg); ok {
		switch key.String() {
		case "ctrl+c", "esc":
			m.cancelled = true
			return m, tea.Quit
		case "enter":
			return m.accept()
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) accept() (tea.Model, tea.Cmd) {
	v := m.input.Value()
	if v == "/quit" {
		m.cancelled = true
		return m, tea.Quit
	}
	if m.check != nil {
		clean, err := m.check(v)
		if err != nil {
			m.input.Reject(err.Error())
			return m, nil
		}
		v = clean
	}
	m.value = v
	m.done = true
	return m, tea.Quit
}

func (m Model) View() tea.View {
	if m.done {
		return tea.NewView(theme.Label.Render(m.label+":") + " " + m.value + "\n")
	}
	if m.cancelled {
		return tea.NewView("")
	}
	return tea.NewView(theme.Label.Render(m.label) + "\n" + m.input.View() + "\n" +
		theme.Hint.Render("enter to confirm · esc to leave") + "\n")
}

// Value returns the accepted value and whether one was accepted.
func (m Model) Value() (string, bool) {
	return m.value, m.done
}

// Run shows the prompt until a value is accepted.
func Run(ctx context.Context, in io.Reader, out io.Writer, label string, check CheckFunc) (string, error) {
	p := tea.NewProgram(New(label, check), tea.WithContext(ctx), tea.WithInput(in), tea.WithOutput(out))
	final, err := p.Run()
	if err != nil {
		return "", err
	}
	v, ok := final.(Model).Value()
	if !ok {
		return "", ErrCancelled
	}
	return v, nil
}
