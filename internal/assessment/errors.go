package assessment

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates no definition exists for the requested disease.
	ErrNotFound = errors.New("assessment not found")

	// ErrInvalidPhase indicates an operation was issued in a phase that
	// does not allow it. Wrapped by *PhaseError.
	ErrInvalidPhase = errors.New("operation not allowed in current phase")

	// ErrNoSelection indicates Next was called before the current question
	// was answered.
	ErrNoSelection = errors.New("current question has no selection")

	// ErrFirstQuestion indicates Previous was called on the first question.
	ErrFirstQuestion = errors.New("already at first question")

	// ErrQuestionMismatch indicates a selection for a question other than
	// the one under the cursor.
	ErrQuestionMismatch = errors.New("question is not the current question")

	// ErrInvalidOption indicates an option index outside the question's options.
	ErrInvalidOption = errors.New("option index out of range")

	// ErrIncomplete indicates a result was requested before every question
	// had a selection.
	ErrIncomplete = errors.New("assessment incomplete")
)

// PhaseError records which operation was rejected in which phase.
type PhaseError struct {
	Op    string
	Phase Phase
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("%s: not allowed while %s", e.Op, e.Phase)
}

func (e *PhaseError) Unwrap() error { return ErrInvalidPhase }
