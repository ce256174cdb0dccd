package symptom

import (
	"errors"

	"github.com/abhisek/symcheck/internal/triage"
)

// MinChars is the minimum trimmed length of a description before analysis
// may run at all.
const MinChars = 30

// InvalidInputMessage is the guidance returned for input that fails the
// well-formedness gate.
const InvalidInputMessage = "We couldn't understand your symptoms clearly."

// ErrBelowMinimum indicates Analyze was called with text shorter than
// MinChars. Callers must disable the action instead of relying on this.
var ErrBelowMinimum = errors.New("symptom description below minimum length")

// Condition is a suggested condition shown for an urgency tier.
type Condition struct {
	Name        string
	Description string
}

// SuggestionSet maps each urgency tier to its suggested conditions.
type SuggestionSet map[triage.Tier][]Condition

// Result is the outcome of Analyze: either *Analysis or *InvalidInput.
type Result interface {
	isResult()
}

// Analysis is a scored, classified symptom description.
type Analysis struct {
	Score      int
	Threshold  triage.Threshold
	Conditions []Condition
	Matched    []string // keywords that contributed to Score, sorted
}

// InvalidInput is returned when the text fails the well-formedness gate.
// It is a normal result, not an error.
type InvalidInput struct {
	Message string
}

func (*Analysis) isResult()     {}
func (*InvalidInput) isResult() {}

// Tier is shorthand for a.Threshold.Tier.
func (a *Analysis) Tier() triage.Tier {
	return a.Threshold.Tier
}
