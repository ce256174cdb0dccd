package assessment

// Phase is the current phase of an assessment session.
type Phase int

const (
	PhaseAnswering  Phase = iota // Walking questions; cursor is valid
	PhaseSubmitting              // Last question confirmed; waiting to complete
	PhaseCompleted               // Result available
	PhaseAbandoned               // Session discarded; terminal
)

func (p Phase) String() string {
	switch p {
	case PhaseAnswering:
		return "answering"
	case PhaseSubmitting:
		return "submitting"
	case PhaseCompleted:
		return "completed"
	case PhaseAbandoned:
		return "abandoned"
	default:
		return "unknown"
	}
}

// State is a read-only view of a session for the presentation layer.
type State struct {
	Phase Phase

	// QuestionIndex is the cursor. Meaningful only while answering.
	QuestionIndex int

	// TotalQuestions is the number of questions in the definition.
	TotalQuestions int

	// Answered is the count of non-null selection slots.
	Answered int

	// Selected is the option index chosen for the current question, or -1.
	Selected int

	// Complete is true once the session reached PhaseCompleted.
	Complete bool

	// Result is set only when Complete.
	Result *Result
}

// Progress returns the fraction of the walk shown to the user:
// (QuestionIndex+1)/TotalQuestions while answering, 1 afterwards.
func (s State) Progress() float64 {
	if s.TotalQuestions == 0 {
		return 0
	}
	if s.Phase != PhaseAnswering {
		return 1
	}
	return float64(s.QuestionIndex+1) / float64(s.TotalQuestions)
}

// IsLastQuestion reports whether the cursor is on the final question.
func (s State) IsLastQuestion() bool {
	return s.Phase == PhaseAnswering && s.QuestionIndex == s.TotalQuestions-1
}
