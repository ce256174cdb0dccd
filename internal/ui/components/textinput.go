package components

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/symcheck/internal/ui/theme"
)

// TextInput wraps bubbles/textinput with a minimum-length counter.
type TextInput struct {
	Model    textinput.Model
	MinChars int // 0 = no minimum
}

// NewTextInput creates a focused, styled text input.
func NewTextInput(placeholder string, minChars, charLimit int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	if charLimit > 0 {
		ti.CharLimit = charLimit
	}
	ti.Focus()

	return TextInput{
		Model:    ti,
		MinChars: minChars,
	}
}

// Init returns the initial command.
func (t TextInput) Init() tea.Cmd {
	return t.Model.Focus()
}

// Update handles messages.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// SetWidth sets the visible input width.
func (t *TextInput) SetWidth(w int) {
	t.Model.SetWidth(w)
}

// View renders the text input.
func (t TextInput) View() string {
	return t.Model.View()
}

// Value returns the current input value.
func (t TextInput) Value() string {
	return t.Model.Value()
}

// Reset clears the input.
func (t *TextInput) Reset() {
	t.Model.Reset()
}

// Count returns the trimmed character count.
func (t TextInput) Count() int {
	return utf8.RuneCountInString(strings.TrimSpace(t.Model.Value()))
}

// Ready reports whether the trimmed value meets MinChars.
func (t TextInput) Ready() bool {
	return t.Count() >= t.MinChars
}

// CounterView renders "n / min characters", green once the minimum is met.
func (t TextInput) CounterView() string {
	if t.MinChars <= 0 {
		return ""
	}
	color := theme.TextDim
	if t.Ready() {
		color = theme.Success
	}
	return lipgloss.NewStyle().Foreground(color).
		Render(fmt.Sprintf("%d / %d characters minimum", t.Count(), t.MinChars))
}
