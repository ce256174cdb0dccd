package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/symcheck/internal/ui/theme"
)

// MultiChoice is a single-answer option picker. Cursor is the highlighted
// row; Chosen is the recorded answer (-1 if none).
type MultiChoice struct {
	Question string
	Options  []string
	Cursor   int
	Chosen   int
	Locked   bool
}

// NewMultiChoice creates a picker. chosen restores a previous answer.
func NewMultiChoice(question string, options []string, chosen int) MultiChoice {
	cursor := 0
	if chosen >= 0 && chosen < len(options) {
		cursor = chosen
	} else {
		chosen = -1
	}
	return MultiChoice{
		Question: question,
		Options:  options,
		Cursor:   cursor,
		Chosen:   chosen,
	}
}

// Update moves the cursor and records a choice on space or enter.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	if m.Locked {
		return m, nil
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch kmsg.String() {
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.Options)-1 {
			m.Cursor++
		}
	case "space", "enter":
		m.Chosen = m.Cursor
	}

	return m, nil
}

// View renders the question and its options.
func (m MultiChoice) View() string {
	var b strings.Builder
	b.WriteString(theme.Body.Bold(true).Render(m.Question) + "\n\n")

	for i, opt := range m.Options {
		mark := "○"
		if i == m.Chosen {
			mark = "●"
		}
		prefix := "  "
		if i == m.Cursor && !m.Locked {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%s %c)  %s", prefix, mark, optionLetter(i), opt)

		switch {
		case m.Locked:
			b.WriteString(theme.Disabled.Render(line))
		case i == m.Cursor:
			b.WriteString(theme.Selected.Render(line))
		case i == m.Chosen:
			b.WriteString(theme.Body.Foreground(theme.Secondary).Render(line))
		default:
			b.WriteString(theme.Unselected.Render(line))
		}
		b.WriteString("\n")
	}

	return b.String()
}

// HasChoice reports whether an option has been recorded.
func (m MultiChoice) HasChoice() bool {
	return m.Chosen >= 0
}

func optionLetter(i int) rune {
	if i < 26 {
		return rune('A' + i)
	}
	return '?'
}
