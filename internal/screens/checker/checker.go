package checker

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/symcheck/internal/assessment"
	"github.com/abhisek/symcheck/internal/engine"
	"github.com/abhisek/symcheck/internal/router"
	"github.com/abhisek/symcheck/internal/screen"
	"github.com/abhisek/symcheck/internal/screens/questionnaire"
	"github.com/abhisek/symcheck/internal/ui/components"
	"github.com/abhisek/symcheck/internal/ui/layout"
	"github.com/abhisek/symcheck/internal/ui/theme"
)

// Categories are the filter tabs, in display order.
var Categories = []string{
	assessment.CategoryAll,
	"Cardiovascular",
	"Respiratory",
	"Metabolic",
	"Musculoskeletal",
	"Neurological",
	"Infectious",
	"Mental Health",
	"Digestive",
	"Skin",
	"Eye",
	"Other",
}

const maxWidth = 72

// CheckerScreen lists assessable diseases with search and category filters.
type CheckerScreen struct {
	eng     *engine.Engine
	search  components.TextInput
	catIdx  int
	matches []assessment.Definition
	cursor  int
	errMsg  string
}

var _ screen.Screen = (*CheckerScreen)(nil)
var _ screen.KeyHintProvider = (*CheckerScreen)(nil)
var _ screen.Leaver = (*CheckerScreen)(nil)

// New creates a new CheckerScreen showing every disease.
func New(eng *engine.Engine) *CheckerScreen {
	s := &CheckerScreen{
		eng:    eng,
		search: components.NewTextInput("Search diseases...", 0, 64),
	}
	s.refilter()
	return s
}

func (s *CheckerScreen) Init() tea.Cmd {
	return s.search.Init()
}

func (s *CheckerScreen) Title() string {
	return "Symptom Checker"
}

func (s *CheckerScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Category"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Start"},
		{Key: "Esc", Description: "Back"},
	}
}

// Leave clears the search and category filter.
func (s *CheckerScreen) Leave() bool {
	s.reset()
	return true
}

func (s *CheckerScreen) reset() {
	s.search.Reset()
	s.catIdx = 0
	s.errMsg = ""
	s.refilter()
}

// Category returns the active category filter.
func (s *CheckerScreen) Category() string {
	return Categories[s.catIdx]
}

// Matches returns the diseases currently listed.
func (s *CheckerScreen) Matches() []assessment.Definition {
	return s.matches
}

func (s *CheckerScreen) refilter() {
	s.matches = s.eng.Catalog().Search(s.search.Value(), s.Category())
	if s.cursor >= len(s.matches) {
		s.cursor = max(len(s.matches)-1, 0)
	}
}

func (s *CheckerScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "tab":
			s.catIdx = (s.catIdx + 1) % len(Categories)
			s.refilter()
			return s, nil
		case "shift+tab":
			s.catIdx = (s.catIdx + len(Categories) - 1) % len(Categories)
			s.refilter()
			return s, nil
		case "up":
			if s.cursor > 0 {
				s.cursor--
			}
			return s, nil
		case "down":
			if s.cursor < len(s.matches)-1 {
				s.cursor++
			}
			return s, nil
		case "ctrl+r":
			s.reset()
			return s, nil
		case "enter":
			return s, s.start()
		}
	}

	before := s.search.Value()
	var cmd tea.Cmd
	s.search, cmd = s.search.Update(msg)
	if s.search.Value() != before {
		s.cursor = 0
		s.refilter()
	}
	return s, cmd
}

func (s *CheckerScreen) start() tea.Cmd {
	if len(s.matches) == 0 {
		return nil
	}
	def := s.matches[s.cursor]
	sess, err := s.eng.StartAssessment(def.Disease)
	if err != nil {
		s.errMsg = err.Error()
		return nil
	}
	s.errMsg = ""
	next := questionnaire.New(s.eng, sess)
	return func() tea.Msg { return router.PushScreenMsg{Screen: next} }
}

func (s *CheckerScreen) View(width, height int) string {
	w := min(width-4, maxWidth)
	s.search.SetWidth(w - 6)

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(layout.Center(width, theme.Card.Width(w).Padding(0, 1).Render("⌕ "+s.search.View())))
	b.WriteString("\n\n")
	b.WriteString(layout.Center(width, renderCategories(s.catIdx, w)))
	b.WriteString("\n\n")

	if len(s.matches) == 0 {
		b.WriteString(layout.Center(width, theme.Hint.Render("No diseases match your search.")))
		return b.String()
	}

	var list strings.Builder
	for i, d := range s.matches {
		name := d.Disease
		meta := d.Category
		if meta == "" {
			meta = "Other"
		}
		meta = fmt.Sprintf("%s · %d questions", meta, len(d.Questions))

		if i == s.cursor {
			list.WriteString(theme.Selected.Render("▸ " + name))
		} else {
			list.WriteString(theme.Unselected.Render("  " + name))
		}
		list.WriteString("  " + theme.Hint.Render(meta) + "\n")
		if i == s.cursor && d.Description != "" {
			list.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Width(w-4).PaddingLeft(4).Render(d.Description) + "\n")
		}
	}
	b.WriteString(layout.Center(width, layout.Wrap(w, strings.TrimRight(list.String(), "\n"))))

	if s.errMsg != "" {
		b.WriteString("\n\n")
		b.WriteString(layout.Center(width, theme.ErrorText.Render(s.errMsg)))
	}
	return b.String()
}

func renderCategories(active, w int) string {
	parts := make([]string, len(Categories))
	for i, c := range Categories {
		if i == active {
			parts[i] = lipgloss.NewStyle().Background(theme.Primary).Foreground(theme.Text).Bold(true).Padding(0, 1).Render(c)
		} else {
			parts[i] = lipgloss.NewStyle().Foreground(theme.TextDim).Padding(0, 1).Render(c)
		}
	}
	return lipgloss.NewStyle().Width(w).Align(lipgloss.Center).Render(strings.Join(parts, " "))
}
