package components

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/hanuman1123/interviewAIAgent/internal/ui/theme"
)

// AnswerLimit caps a typed answer.
const AnswerLimit = 4000

// TextInput wraps bubbles/textinput with the interview styling. A
// rejected value is shown under the field until the next keystroke.
type TextInput struct {
	Model  textinput.Model
	errMsg string
}

// NewTextInput creates a focused input. maxChars <= 0 means no limit.
func NewTextInput(placeholder string, maxChars int) TextInput {
	ti := textinput.New()
	ti.Prompt = "› "
	ti.Placeholder = placeholder
	if maxChars > 0 {
		ti.CharLimit = maxChars
	}
	ti.Focus()
	return TextInput{Model: ti}
}

// Init returns the initial command.
func (t TextInput) Init() tea.Cmd {
	return t.Model.Focus()
}

// Update handles messages. Any key clears a previous rejection.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	if _, ok := msg.(tea.KeyPressMsg); ok {
		t.errMsg = ""
	}
	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// View renders the input and, when set, the rejection below it.
func (t TextInput) View() string {
	view := t.Model.View()
	if t.errMsg != "" {
		view += "\n" + lipgloss.NewStyle().Foreground(theme.Error).Render(t.errMsg)
	}
	return view
}

// Value returns the trimmed input.
func (t TextInput) Value() string {
	return strings.TrimSpace(t.Model.Value())
}

// Reject keeps the value and shows msg.
func (t *TextInput) Reject(msg string) {
	t.errMsg = msg
}

// Reset clears the value and any rejection.
func (t *TextInput) Reset() {
	t.Model.Reset()
	t.errMsg = ""
}
