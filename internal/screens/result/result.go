package result

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/symcheck/internal/assessment"
	"github.com/abhisek/symcheck/internal/engine"
	"github.com/abhisek/symcheck/internal/router"
	"github.com/abhisek/symcheck/internal/screen"
	"github.com/abhisek/symcheck/internal/ui/components"
	"github.com/abhisek/symcheck/internal/ui/layout"
	"github.com/abhisek/symcheck/internal/ui/theme"
)

const maxWidth = 72

// ResultScreen shows a completed assessment.
type ResultScreen struct {
	eng    *engine.Engine
	sess   *assessment.Session
	result *assessment.Result
}

var _ screen.Screen = (*ResultScreen)(nil)
var _ screen.KeyHintProvider = (*ResultScreen)(nil)
var _ screen.Leaver = (*ResultScreen)(nil)

// New creates a ResultScreen. res is kept so the view survives Leave.
func New(eng *engine.Engine, sess *assessment.Session, res *assessment.Result) *ResultScreen {
	return &ResultScreen{eng: eng, sess: sess, result: res}
}

func (s *ResultScreen) Init() tea.Cmd {
	return nil
}

func (s *ResultScreen) Title() string {
	return "Result"
}

func (s *ResultScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Done"},
		{Key: "Esc", Description: "Back"},
	}
}

// Leave releases the finished session.
func (s *ResultScreen) Leave() bool {
	_ = s.eng.Abandon(s.sess)
	return true
}

func (s *ResultScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok && kmsg.String() == "enter" {
		s.Leave()
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}
	return s, nil
}

func (s *ResultScreen) View(width, height int) string {
	r := s.result
	if r == nil {
		return ""
	}
	w := min(width-4, maxWidth)
	tier := r.Tier()

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(layout.Center(width, theme.Title.Render(r.Disease+" Assessment")))
	b.WriteString("\n\n")

	var head strings.Builder
	head.WriteString(theme.TierBadge(tier, r.Threshold.Label))
	head.WriteString("\n\n")
	head.WriteString(theme.Body.Render(fmt.Sprintf("Your score: %d", r.Score)))
	if top := s.maxScore(); top > 0 {
		head.WriteString(theme.Hint.Render(fmt.Sprintf(" of %d", top)))
		head.WriteString("\n\n")
		bar := components.NewProgressBar("", float64(r.Score)/float64(top), false, w-6)
		bar.Fill = theme.TierColor(tier)
		head.WriteString(bar.View())
	}
	b.WriteString(layout.Center(width, theme.Card.Width(w).BorderForeground(theme.TierColor(tier)).
		Align(lipgloss.Center).Render(head.String())))
	b.WriteString("\n\n")

	body := renderList("Recommendations", r.Advice.Recommendations)
	if r.Advice.NextStep != "" {
		body += theme.Body.Bold(true).Render("Next step") + "\n" + r.Advice.NextStep + "\n\n"
	}
	body += renderList("Prevention tips", r.Advice.PreventionTips)
	b.WriteString(layout.Center(width, layout.Wrap(w, strings.TrimRight(body, "\n"))))
	b.WriteString("\n\n")

	b.WriteString(layout.Center(width, lipgloss.NewStyle().Width(w).Foreground(theme.TextDim).Italic(true).
		Render(assessment.Disclaimer)))
	return b.String()
}

func (s *ResultScreen) maxScore() int {
	def, err := s.eng.Catalog().Lookup(s.result.Disease)
	if err != nil {
		return 0
	}
	return def.MaxScore()
}

func renderList(title string, items []string) string {
	if len(items) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(theme.Body.Bold(true).Render(title))
	b.WriteString("\n")
	for _, it := range items {
		b.WriteString("• " + it + "\n")
	}
	b.WriteString("\n")
	return b.String()
}
