package assessment

// Option is one selectable answer to a Question.
type Option struct {
	Text  string
	Score int // may be 0
}

// Question is a multiple-choice question with at least one option.
type Question struct {
	Text    string
	Options []Option
}

// Definition is the fixed questionnaire for one disease.
type Definition struct {
	Disease     string
	Category    string
	Description string
	Questions   []Question
}

// MaxScore returns the highest total a session over d can reach.
func (d *Definition) MaxScore() int {
	total := 0
	for _, q := range d.Questions {
		best := 0
		for _, o := range q.Options {
			best = max(best, o.Score)
		}
		total += best
	}
	return total
}

// clone returns a deep copy so callers cannot mutate catalog data.
func (d Definition) clone() Definition {
	qs := make([]Question, len(d.Questions))
	for i, q := range d.Questions {
		opts := make([]Option, len(q.Options))
		copy(opts, q.Options)
		qs[i] = Question{Text: q.Text, Options: opts}
	}
	d.Questions = qs
	return d
}
