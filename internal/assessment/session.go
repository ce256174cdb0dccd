package assessment

import (
	"fmt"
	"sync"

	"github.com/abhisek/symcheck/internal/triage"
)

// noSelection marks an unanswered slot.
const noSelection = -1

// Session is the mutable state of one questionnaire walk-through. Methods
// are safe to call from the goroutine running a submission and the one
// discarding the session.
type Session struct {
	id  string
	def Definition

	mu       sync.Mutex
	selected []int // option index per question, noSelection when unanswered
	cursor   int
	phase    Phase
	total    int
	result   *Result
}

// NewSession starts a session at the first question with every slot empty.
// def must come from a Catalog (at least one question).
func NewSession(id string, def *Definition) *Session {
	s := &Session{
		id:  id,
		def: def.clone(),
	}
	s.reset()
	return s
}

func (s *Session) reset() {
	s.selected = make([]int, len(s.def.Questions))
	for i := range s.selected {
		s.selected[i] = noSelection
	}
	s.cursor = 0
	s.total = 0
	s.result = nil
	s.phase = PhaseAnswering
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Disease returns the disease being assessed.
func (s *Session) Disease() string {
	return s.def.Disease
}

// Phase returns the current phase.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Question returns question i of the definition.
func (s *Session) Question(i int) (Question, bool) {
	return s.question(i)
}

func (s *Session) question(i int) (Question, bool) {
	if i < 0 || i >= len(s.def.Questions) {
		return Question{}, false
	}
	return s.def.Questions[i], true
}

// CurrentQuestion returns the question under the cursor.
func (s *Session) CurrentQuestion() (Question, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseAnswering {
		return Question{}, false
	}
	return s.question(s.cursor)
}

// Select records option at slot question. Only the question under the
// cursor may be answered, and only while answering.
func (s *Session) Select(question, option int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseAnswering {
		return &PhaseError{Op: "select", Phase: s.phase}
	}
	if question != s.cursor {
		return fmt.Errorf("select question %d (current %d): %w", question, s.cursor, ErrQuestionMismatch)
	}
	if option < 0 || option >= len(s.def.Questions[question].Options) {
		return fmt.Errorf("select option %d of question %d: %w", option, question, ErrInvalidOption)
	}
	s.selected[question] = option
	return nil
}

// Next moves to the following question, or to PhaseSubmitting from the last
// question. The current question must be answered.
func (s *Session) Next() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseAnswering {
		return &PhaseError{Op: "next", Phase: s.phase}
	}
	if s.selected[s.cursor] == noSelection {
		return fmt.Errorf("next from question %d: %w", s.cursor, ErrNoSelection)
	}

	if s.cursor < len(s.def.Questions)-1 {
		s.cursor++
		return nil
	}

	s.total = s.sum()
	s.phase = PhaseSubmitting
	return nil
}

// Previous moves back one question without clearing any selection.
func (s *Session) Previous() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseAnswering {
		return &PhaseError{Op: "previous", Phase: s.phase}
	}
	if s.cursor == 0 {
		return ErrFirstQuestion
	}
	s.cursor--
	return nil
}

// Complete classifies the submitted total and moves to PhaseCompleted.
func (s *Session) Complete(thresholds triage.ThresholdTable, advice AdviceSet) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseSubmitting {
		return nil, &PhaseError{Op: "complete", Phase: s.phase}
	}
	if s.answered() != len(s.selected) {
		return nil, fmt.Errorf("complete %q: %d of %d answered: %w",
			s.def.Disease, s.answered(), len(s.selected), ErrIncomplete)
	}

	th, err := triage.Classify(s.total, thresholds)
	if err != nil {
		return nil, fmt.Errorf("classify assessment score: %w", err)
	}

	s.result = &Result{
		SessionID: s.id,
		Disease:   s.def.Disease,
		Score:     s.total,
		Threshold: th,
		Advice:    advice[th.Tier].clone(),
	}
	s.phase = PhaseCompleted
	return s.result, nil
}

// Abandon discards all selections and the cursor. Allowed while answering
// or after completion; abandoning twice is a no-op. Submissions cannot be
// abandoned.
func (s *Session) Abandon() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.phase {
	case PhaseAbandoned:
		return nil
	case PhaseSubmitting:
		return &PhaseError{Op: "abandon", Phase: s.phase}
	}
	s.reset()
	s.phase = PhaseAbandoned
	return nil
}

// Result returns the result once completed.
func (s *Session) Result() (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseCompleted {
		return nil, fmt.Errorf("result while %s: %w", s.phase, ErrIncomplete)
	}
	return s.result, nil
}

// State returns a snapshot of the session for display.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := State{
		Phase:          s.phase,
		QuestionIndex:  s.cursor,
		TotalQuestions: len(s.def.Questions),
		Answered:       s.answered(),
		Selected:       noSelection,
		Complete:       s.phase == PhaseCompleted,
	}
	if s.phase == PhaseAnswering {
		st.Selected = s.selected[s.cursor]
	}
	if st.Complete {
		r := *s.result
		st.Result = &r
	}
	return st
}

func (s *Session) answered() int {
	n := 0
	for _, sel := range s.selected {
		if sel != noSelection {
			n++
		}
	}
	return n
}

func (s *Session) sum() int {
	total := 0
	for qi, sel := range s.selected {
		if sel == noSelection {
			continue
		}
		total += s.def.Questions[qi].Options[sel].Score
	}
	return total
}
