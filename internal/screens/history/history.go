package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/symcheck/internal/screen"
	"github.com/abhisek/symcheck/internal/store"
	"github.com/abhisek/symcheck/internal/triage"
	"github.com/abhisek/symcheck/internal/ui/layout"
	"github.com/abhisek/symcheck/internal/ui/theme"
)

const pageSize = 50

var kinds = []store.ResultKind{"", store.KindAssessment, store.KindAnalysis}

type historyLoadedMsg struct {
	Kind    store.ResultKind
	Records []store.ResultRecord
	Counts  map[string]int
	Err     error
}

// HistoryScreen lists recorded results, newest first.
type HistoryScreen struct {
	results  store.ResultRepo
	kindIdx  int
	records  []store.ResultRecord
	counts   map[string]int
	selected int
	expanded map[int]bool
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(results store.ResultRepo) *HistoryScreen {
	return &HistoryScreen{
		results:  results,
		expanded: make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	return s.load(kinds[s.kindIdx])
}

func (s *HistoryScreen) load(kind store.ResultKind) tea.Cmd {
	repo := s.results
	return func() tea.Msg {
		ctx := context.Background()

		records, err := repo.QueryResults(ctx, store.QueryOpts{Limit: pageSize, Kind: kind})
		if err != nil {
			return historyLoadedMsg{Kind: kind, Err: err}
		}
		counts, err := repo.CountByTier(ctx, kind)
		if err != nil {
			return historyLoadedMsg{Kind: kind, Err: err}
		}
		return historyLoadedMsg{Kind: kind, Records: records, Counts: counts}
	}
}

func (s *HistoryScreen) Title() string {
	return "Past Results"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Filter"},
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Kind != kinds[s.kindIdx] {
			return s, nil
		}
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.errMsg = ""
			s.records = msg.Records
			s.counts = msg.Counts
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "tab":
			s.kindIdx = (s.kindIdx + 1) % len(kinds)
			s.selected = 0
			s.expanded = make(map[int]bool)
			s.loaded = false
			return s, s.load(kinds[s.kindIdx])
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.records)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
			return s, nil
		}
	}
	return s, nil
}

func kindLabel(k store.ResultKind) string {
	switch k {
	case store.KindAssessment:
		return "Assessments"
	case store.KindAnalysis:
		return "Analyses"
	default:
		return "All results"
	}
}

func (s *HistoryScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(layout.Center(width, theme.Title.Render(kindLabel(kinds[s.kindIdx]))))
	b.WriteString("\n")

	if s.errMsg != "" {
		b.WriteString(layout.Center(width, theme.ErrorText.Render("\nError: "+s.errMsg)))
		return b.String()
	}
	if !s.loaded {
		b.WriteString(layout.Center(width, theme.Hint.Render("\n  Loading history...")))
		return b.String()
	}
	if len(s.records) == 0 {
		b.WriteString(layout.Center(width, theme.Hint.Render("\n  No results yet. Try the analyzer or the checker.")))
		return b.String()
	}

	var tally []string
	for _, t := range triage.AllTiers() {
		tally = append(tally, lipgloss.NewStyle().Foreground(theme.TierColor(t)).
			Render(fmt.Sprintf("%s %d", t.DisplayName(), s.counts[string(t)])))
	}
	b.WriteString(layout.Center(width, strings.Join(tally, "   ")))
	b.WriteString("\n\n")

	for i, rec := range s.records {
		subject := rec.Disease
		if rec.Kind == store.KindAnalysis {
			subject = "Symptom analysis"
		}
		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}
		line := fmt.Sprintf("%s%s  %-22s  score %3d  ",
			prefix, rec.Timestamp.Format("Jan 02, 2006 15:04"), subject, rec.Score)

		style := theme.Unselected
		if i == s.selected {
			style = theme.Selected
		}
		tier := triage.Tier(rec.Tier)
		b.WriteString(layout.Center(width, style.Render(line)+
			lipgloss.NewStyle().Foreground(theme.TierColor(tier)).Render(rec.Label)))
		b.WriteString("\n")

		if s.expanded[i] {
			detail := fmt.Sprintf("    %s · reference %s", rec.Kind, rec.Reference)
			b.WriteString(layout.Center(width, theme.Hint.Render(detail)))
			b.WriteString("\n")
		}
	}

	return b.String()
}
