package assessment

import (
	"slices"

	"github.com/abhisek/symcheck/internal/triage"
)

// Disclaimer accompanies every assessment result.
const Disclaimer = "This assessment is for informational purposes only and does not constitute medical advice."

// Advice is the boilerplate guidance attached to a risk tier. It does not
// depend on which disease was assessed.
type Advice struct {
	Recommendations []string
	NextStep        string
	PreventionTips  []string
}

// AdviceSet maps each risk tier to its advice.
type AdviceSet map[triage.Tier]Advice

// DefaultAdvice returns the stock recommendation text per tier.
func DefaultAdvice() AdviceSet {
	tips := []string{
		"Maintain healthy vitals",
		"Quit smoking",
		"Exercise regularly",
		"Eat a balanced diet",
	}
	monitor := "Continue monitoring your health and maintain good habits."

	return AdviceSet{
		triage.TierLow: {
			Recommendations: []string{
				"Follow prevention tips for this condition",
				"Maintain a healthy lifestyle with diet & exercise",
			},
			NextStep:       monitor,
			PreventionTips: tips,
		},
		triage.TierModerate: {
			Recommendations: []string{
				"Follow prevention tips for this condition",
				"Consider consulting a healthcare professional",
				"Maintain a healthy lifestyle with diet & exercise",
			},
			NextStep:       monitor,
			PreventionTips: tips,
		},
		triage.TierHigh: {
			Recommendations: []string{
				"Follow prevention tips for this condition",
				"Consider consulting a healthcare professional",
				"Maintain a healthy lifestyle with diet & exercise",
			},
			NextStep:       "We strongly recommend consulting a doctor immediately.",
			PreventionTips: tips,
		},
	}
}

// DefaultThresholds returns the questionnaire risk table.
func DefaultThresholds() triage.ThresholdTable {
	return triage.MustThresholdTable("assessment risk",
		triage.Threshold{MinScore: 0, Tier: triage.TierLow, Label: "LOW RISK"},
		triage.Threshold{MinScore: 15, Tier: triage.TierModerate, Label: "MODERATE RISK"},
		triage.Threshold{MinScore: 30, Tier: triage.TierHigh, Label: "HIGH RISK"},
	)
}

// Result is the immutable outcome of a completed session.
type Result struct {
	SessionID string
	Disease   string
	Score     int
	Threshold triage.Threshold
	Advice    Advice
}

// Tier is shorthand for r.Threshold.Tier.
func (r *Result) Tier() triage.Tier {
	return r.Threshold.Tier
}

func (a Advice) clone() Advice {
	return Advice{
		Recommendations: slices.Clone(a.Recommendations),
		NextStep:        a.NextStep,
		PreventionTips:  slices.Clone(a.PreventionTips),
	}
}
