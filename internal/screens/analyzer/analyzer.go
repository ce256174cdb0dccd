package analyzer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/symcheck/internal/engine"
	"github.com/abhisek/symcheck/internal/screen"
	"github.com/abhisek/symcheck/internal/symptom"
	"github.com/abhisek/symcheck/internal/ui/components"
	"github.com/abhisek/symcheck/internal/ui/layout"
	"github.com/abhisek/symcheck/internal/ui/theme"
)

const (
	placeholder = "Example: Headache and fever since two days"
	charLimit   = 500
	maxWidth    = 72
)

type analysisDoneMsg struct {
	Result symptom.Result
	Err    error
}

type loadingTickMsg struct{}

// AnalyzerScreen lets the user describe symptoms in free text.
type AnalyzerScreen struct {
	eng     *engine.Engine
	input   components.TextInput
	loading bool
	frame   int
	result  symptom.Result
	errMsg  string
}

var _ screen.Screen = (*AnalyzerScreen)(nil)
var _ screen.KeyHintProvider = (*AnalyzerScreen)(nil)
var _ screen.Leaver = (*AnalyzerScreen)(nil)

// New creates a new AnalyzerScreen.
func New(eng *engine.Engine) *AnalyzerScreen {
	return &AnalyzerScreen{
		eng:   eng,
		input: components.NewTextInput(placeholder, symptom.MinChars, charLimit),
	}
}

func (s *AnalyzerScreen) Init() tea.Cmd {
	return s.input.Init()
}

func (s *AnalyzerScreen) Title() string {
	return "Symptom Analyzer"
}

func (s *AnalyzerScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Analyze"},
		{Key: "Ctrl+R", Description: "Clear"},
		{Key: "Esc", Description: "Back"},
	}
}

// Leave discards the description and any result.
func (s *AnalyzerScreen) Leave() bool {
	s.reset()
	return true
}

func (s *AnalyzerScreen) reset() {
	s.input.Reset()
	s.loading = false
	s.result = nil
	s.errMsg = ""
}

// CanAnalyze reports whether the analyze action is enabled.
func (s *AnalyzerScreen) CanAnalyze() bool {
	return !s.loading && s.input.Ready()
}

func (s *AnalyzerScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case analysisDoneMsg:
		if !s.loading {
			return s, nil
		}
		s.loading = false
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.result = msg.Result
		return s, nil

	case loadingTickMsg:
		if !s.loading {
			return s, nil
		}
		s.frame++
		return s, loadingTick()

	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			if !s.CanAnalyze() {
				return s, nil
			}
			s.loading = true
			s.result = nil
			s.errMsg = ""
			return s, tea.Batch(s.analyze(s.input.Value()), loadingTick())
		case "ctrl+r":
			s.reset()
			return s, nil
		}
		if s.loading {
			return s, nil
		}
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *AnalyzerScreen) analyze(text string) tea.Cmd {
	eng := s.eng
	return func() tea.Msg {
		res, err := eng.AnalyzeText(context.Background(), text)
		if errors.Is(err, symptom.ErrBelowMinimum) {
			err = fmt.Errorf("please enter at least %d characters", symptom.MinChars)
		}
		return analysisDoneMsg{Result: res, Err: err}
	}
}

func loadingTick() tea.Cmd {
	return tea.Tick(300*time.Millisecond, func(time.Time) tea.Msg { return loadingTickMsg{} })
}

func (s *AnalyzerScreen) View(width, height int) string {
	w := min(width-4, maxWidth)
	s.input.SetWidth(w - 4)

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(layout.Center(width, theme.Title.Render("Describe your symptoms")))
	b.WriteString("\n")
	b.WriteString(layout.Center(width, theme.Subtitle.Render("Use plain words, for example where it hurts and for how long.")))
	b.WriteString("\n\n")

	inputBox := theme.Card.Width(w).Render(s.input.View() + "\n\n" + s.input.CounterView())
	b.WriteString(layout.Center(width, inputBox))
	b.WriteString("\n")

	button := components.Button{Label: "Analyze Symptoms", Key: "Enter", Disabled: !s.CanAnalyze()}
	b.WriteString(layout.Center(width, button.View()))
	b.WriteString("\n\n")

	switch {
	case s.loading:
		dots := strings.Repeat("●", s.frame%4) + strings.Repeat("○", 3-s.frame%4)
		b.WriteString(layout.Center(width, theme.Hint.Render("Analyzing symptoms "+dots)))
	case s.errMsg != "":
		b.WriteString(layout.Center(width, theme.ErrorText.Render(s.errMsg)))
	case s.result != nil:
		b.WriteString(layout.Center(width, renderResult(s.result, w)))
	}

	return b.String()
}

func renderResult(res symptom.Result, w int) string {
	var b strings.Builder

	switch r := res.(type) {
	case *symptom.InvalidInput:
		b.WriteString(theme.ErrorText.Render(r.Message))
		b.WriteString("\n\n")
		b.WriteString(theme.Hint.Render("Try describing symptoms in words, such as fever, headache or cough, using at least four words."))
		return theme.Card.Width(w).BorderForeground(theme.Error).Render(b.String())

	case *symptom.Analysis:
		tier := r.Tier()
		b.WriteString(theme.TierBadge(tier, r.Threshold.Label))
		b.WriteString("  ")
		b.WriteString(theme.Hint.Render(fmt.Sprintf("score %d", r.Score)))
		b.WriteString("\n\n")
		if r.Threshold.Description != "" {
			b.WriteString(theme.Body.Render(r.Threshold.Description))
			b.WriteString("\n\n")
		}
		if len(r.Matched) > 0 {
			b.WriteString(theme.Hint.Render("Recognized: " + strings.Join(r.Matched, ", ")))
			b.WriteString("\n\n")
		}
		if len(r.Conditions) > 0 {
			b.WriteString(theme.Body.Bold(true).Render("Possible conditions"))
			b.WriteString("\n")
			for _, c := range r.Conditions {
				line := "• " + c.Name
				if c.Description != "" {
					line += lipgloss.NewStyle().Foreground(theme.TextDim).Render(": " + c.Description)
				}
				b.WriteString(line + "\n")
			}
		}
		return theme.Card.Width(w).BorderForeground(theme.TierColor(tier)).Render(strings.TrimRight(b.String(), "\n"))
	}
	return ""
}
