package home

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/symcheck/internal/engine"
	"github.com/abhisek/symcheck/internal/router"
	"github.com/abhisek/symcheck/internal/screen"
	"github.com/abhisek/symcheck/internal/screens/analyzer"
	"github.com/abhisek/symcheck/internal/screens/checker"
	"github.com/abhisek/symcheck/internal/screens/history"
	"github.com/abhisek/symcheck/internal/store"
	"github.com/abhisek/symcheck/internal/ui/components"
	"github.com/abhisek/symcheck/internal/ui/theme"
)

const banner = `┏━┓╻ ╻┏┳┓┏━╸╻ ╻┏━╸┏━╸╻┏
┗━┓┗┳┛┃┃┃┃  ┣━┫┣╸ ┃  ┣┻┓
┗━┛ ╹ ╹ ╹┗━╸╹ ╹┗━╸┗━╸╹ ╹`

const tagline = "Check your symptoms. Assess your risk."

// HomeScreen is the main menu.
type HomeScreen struct {
	menu     components.Menu
	diseases int
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a new HomeScreen. results may be nil when history is off.
func New(eng *engine.Engine, results store.ResultRepo) *HomeScreen {
	push := func(s screen.Screen) func() tea.Cmd {
		return func() tea.Cmd {
			return func() tea.Msg { return router.PushScreenMsg{Screen: s} }
		}
	}

	historyItem := components.MenuItem{Label: "Past Results", Hint: "history is off", Disabled: true}
	if results != nil {
		historyItem = components.MenuItem{
			Label: "Past Results",
			Action: func() tea.Cmd {
				return func() tea.Msg { return router.PushScreenMsg{Screen: history.New(results)} }
			},
		}
	}

	items := []components.MenuItem{
		{Label: "Symptom Analyzer", Hint: "describe how you feel", Action: func() tea.Cmd {
			return push(analyzer.New(eng))()
		}},
		{Label: "Symptom Checker", Hint: "answer a short questionnaire", Action: func() tea.Cmd {
			return push(checker.New(eng))()
		}},
		historyItem,
		{Label: "Quit", Action: func() tea.Cmd { return tea.Quit }},
	}

	return &HomeScreen{
		menu:     components.NewMenu(items),
		diseases: eng.Catalog().Len(),
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	var sections []string

	sections = append(sections, theme.Title.Render(banner))
	sections = append(sections, theme.Subtitle.Render(tagline))
	sections = append(sections, theme.Hint.Render(
		fmt.Sprintf("%d conditions available for assessment", h.diseases)))
	sections = append(sections, theme.Card.Render(h.menu.View()))

	content := strings.Join(sections, "\n\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		lipgloss.NewStyle().Align(lipgloss.Center).Render(content))
}

func (h *HomeScreen) Title() string {
	return "Home"
}
