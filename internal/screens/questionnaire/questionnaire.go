package questionnaire

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/symcheck/internal/assessment"
	"github.com/abhisek/symcheck/internal/engine"
	"github.com/abhisek/symcheck/internal/router"
	"github.com/abhisek/symcheck/internal/screen"
	"github.com/abhisek/symcheck/internal/screens/result"
	"github.com/abhisek/symcheck/internal/ui/components"
	"github.com/abhisek/symcheck/internal/ui/layout"
	"github.com/abhisek/symcheck/internal/ui/theme"
)

const maxWidth = 72

type submitDoneMsg struct {
	Err error
}

// QuestionnaireScreen walks one assessment session question by question.
type QuestionnaireScreen struct {
	eng    *engine.Engine
	sess   *assessment.Session
	state  assessment.State
	picker components.MultiChoice
	errMsg string

	// submitting is set while Advance runs off the UI goroutine. The
	// session must not be read until submitDoneMsg arrives.
	submitting bool
}

var _ screen.Screen = (*QuestionnaireScreen)(nil)
var _ screen.KeyHintProvider = (*QuestionnaireScreen)(nil)
var _ screen.Leaver = (*QuestionnaireScreen)(nil)

// New creates a screen for an already started session.
func New(eng *engine.Engine, sess *assessment.Session) *QuestionnaireScreen {
	s := &QuestionnaireScreen{eng: eng, sess: sess}
	s.sync()
	return s
}

func (s *QuestionnaireScreen) Init() tea.Cmd {
	return nil
}

func (s *QuestionnaireScreen) Title() string {
	return s.sess.Disease()
}

func (s *QuestionnaireScreen) KeyHints() []layout.KeyHint {
	if s.submitting {
		return []layout.KeyHint{{Key: "", Description: "Calculating your risk..."}}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Choose"},
		{Key: "Enter", Description: "Answer"},
		{Key: "←→", Description: "Previous/Next"},
		{Key: "Esc", Description: "Cancel"},
	}
}

// Leave abandons the session. Cancelling is not possible while the answers
// are being submitted.
func (s *QuestionnaireScreen) Leave() bool {
	if s.submitting {
		return false
	}
	_ = s.eng.Abandon(s.sess)
	return true
}

// sync refreshes the cached state and rebuilds the picker for the current
// question.
func (s *QuestionnaireScreen) sync() {
	s.state = s.eng.CurrentState(s.sess)
	q, ok := s.sess.CurrentQuestion()
	if !ok {
		return
	}
	opts := make([]string, len(q.Options))
	for i, o := range q.Options {
		opts[i] = o.Text
	}
	s.picker = components.NewMultiChoice(q.Text, opts, s.state.Selected)
}

func (s *QuestionnaireScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case submitDoneMsg:
		s.submitting = false
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			s.sync()
			return s, nil
		}
		res, err := s.sess.Result()
		if err != nil {
			s.errMsg = err.Error()
			return s, nil
		}
		next := result.New(s.eng, s.sess, res)
		return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }

	case tea.KeyMsg:
		if s.submitting {
			return s, nil
		}
		switch msg.String() {
		case "enter":
			if err := s.choose(s.picker.Cursor); err != nil {
				return s, nil
			}
			return s, s.next()
		case "space":
			_ = s.choose(s.picker.Cursor)
			return s, nil
		case "right":
			return s, s.next()
		case "left":
			if err := s.eng.Retreat(s.sess); err == nil {
				s.errMsg = ""
				s.sync()
			}
			return s, nil
		}

		var cmd tea.Cmd
		s.picker, cmd = s.picker.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *QuestionnaireScreen) choose(option int) error {
	if err := s.eng.SelectOption(s.sess, s.state.QuestionIndex, option); err != nil {
		s.errMsg = err.Error()
		return err
	}
	s.errMsg = ""
	s.picker.Chosen = option
	s.state.Selected = option
	return nil
}

// next advances; from the last question it submits in the background.
func (s *QuestionnaireScreen) next() tea.Cmd {
	if s.state.Selected < 0 {
		s.errMsg = "Please choose an answer first."
		return nil
	}
	if !s.state.IsLastQuestion() {
		if err := s.eng.Advance(context.Background(), s.sess); err != nil {
			s.errMsg = err.Error()
			return nil
		}
		s.sync()
		return nil
	}

	s.submitting = true
	s.picker.Locked = true
	eng, sess := s.eng, s.sess
	return func() tea.Msg {
		return submitDoneMsg{Err: eng.Advance(context.Background(), sess)}
	}
}

func (s *QuestionnaireScreen) View(width, height int) string {
	w := min(width-4, maxWidth)
	st := s.state

	var b strings.Builder
	b.WriteString("\n")

	label := fmt.Sprintf("Question %d of %d", st.QuestionIndex+1, st.TotalQuestions)
	bar := components.NewProgressBar(label, st.Progress(), true, w)
	b.WriteString(layout.Center(width, bar.View()))
	b.WriteString("\n\n")

	b.WriteString(layout.Center(width, theme.Card.Width(w).Render(strings.TrimRight(s.picker.View(), "\n"))))
	b.WriteString("\n\n")

	prev := components.Button{Label: "Previous", Key: "←", Disabled: s.submitting || st.QuestionIndex == 0}
	nextLabel := "Next"
	if st.IsLastQuestion() {
		nextLabel = "Complete"
	}
	next := components.Button{Label: nextLabel, Key: "→", Disabled: s.submitting || st.Selected < 0}
	cancel := components.Button{Label: "Cancel", Key: "Esc", Disabled: s.submitting}
	b.WriteString(layout.Center(width, components.ButtonRow(prev, next, cancel)))
	b.WriteString("\n\n")

	switch {
	case s.submitting:
		b.WriteString(layout.Center(width, theme.Hint.Render("Calculating your risk...")))
	case s.errMsg != "":
		b.WriteString(layout.Center(width, theme.ErrorText.Render(s.errMsg)))
	}

	return b.String()
}
