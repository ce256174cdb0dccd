package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/symcheck/internal/assessment"
)

var assessCmd = &cobra.Command{
	Use:   "assess <disease>",
	Short: "Answer a disease questionnaire non-interactively",
	Long: "Walk a disease questionnaire with the given option indexes and print the\n" +
		"risk result. Without --answers the questions and their options are listed.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, _ := cmd.Flags().GetString("answers")
		asJSON, _ := cmd.Flags().GetBool("json")

		rt, err := setup(cmd, false)
		if err != nil {
			return err
		}
		defer rt.Close()

		out := cmd.OutOrStdout()
		def, err := rt.engine.Catalog().Lookup(args[0])
		if err != nil {
			return fmt.Errorf("%q: %w (see `symcheck diseases`)", args[0], err)
		}
		if raw == "" {
			printQuestions(out, def)
			return nil
		}

		answers, err := parseAnswers(raw)
		if err != nil {
			return err
		}
		if len(answers) != len(def.Questions) {
			return fmt.Errorf("%s has %d questions, got %d answers", def.Disease, len(def.Questions), len(answers))
		}

		sess, err := rt.engine.StartAssessment(def.Disease)
		if err != nil {
			return err
		}
		for q, opt := range answers {
			if err := rt.engine.SelectOption(sess, q, opt); err != nil {
				_ = rt.engine.Abandon(sess)
				return fmt.Errorf("question %d: %w", q+1, err)
			}
			if err := rt.engine.Advance(cmd.Context(), sess); err != nil {
				_ = rt.engine.Abandon(sess)
				return fmt.Errorf("question %d: %w", q+1, err)
			}
		}

		res, err := sess.Result()
		if err != nil {
			return err
		}
		if asJSON {
			return writeJSON(out, assessmentJSON(res, def.MaxScore()))
		}
		printAssessment(out, res, def.MaxScore())
		return nil
	},
}

func init() {
	assessCmd.Flags().String("answers", "", "Comma-separated option indexes, one per question (e.g. 1,0,2)")
	assessCmd.Flags().Bool("json", false, "Print the result as JSON")
}

// parseAnswers parses "1,0,2" into option indexes.
func parseAnswers(raw string) ([]int, error) {
	parts := strings.Split(raw, ",")
	answers := make([]int, 0, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 0 {
			return nil, fmt.Errorf("answer %d: %q is not an option index", i+1, p)
		}
		answers = append(answers, n)
	}
	return answers, nil
}

func printQuestions(w io.Writer, def *assessment.Definition) {
	fmt.Fprintf(w, "%s (%d questions)\n", def.Disease, len(def.Questions))
	for i, q := range def.Questions {
		fmt.Fprintf(w, "\n%d. %s\n", i+1, q.Text)
		for j, o := range q.Options {
			fmt.Fprintf(w, "   [%d] %s\n", j, o.Text)
		}
	}
}

type assessmentOut struct {
	SessionID       string   `json:"session_id"`
	Disease         string   `json:"disease"`
	Score           int      `json:"score"`
	MaxScore        int      `json:"max_score"`
	Tier            string   `json:"tier"`
	Label           string   `json:"label"`
	Recommendations []string `json:"recommendations"`
	NextStep        string   `json:"next_step"`
	PreventionTips  []string `json:"prevention_tips,omitempty"`
}

func assessmentJSON(res *assessment.Result, maxScore int) assessmentOut {
	return assessmentOut{
		SessionID:       res.SessionID,
		Disease:         res.Disease,
		Score:           res.Score,
		MaxScore:        maxScore,
		Tier:            string(res.Tier()),
		Label:           res.Threshold.Label,
		Recommendations: res.Advice.Recommendations,
		NextStep:        res.Advice.NextStep,
		PreventionTips:  res.Advice.PreventionTips,
	}
}

func printAssessment(w io.Writer, res *assessment.Result, maxScore int) {
	fmt.Fprintf(w, "%s: %s (score %d of %d)\n", res.Disease, res.Threshold.Label, res.Score, maxScore)
	if len(res.Advice.Recommendations) > 0 {
		fmt.Fprintln(w, "\nRecommendations:")
		for _, r := range res.Advice.Recommendations {
			fmt.Fprintf(w, "  - %s\n", r)
		}
	}
	if res.Advice.NextStep != "" {
		fmt.Fprintf(w, "\nNext step: %s\n", res.Advice.NextStep)
	}
	if len(res.Advice.PreventionTips) > 0 {
		fmt.Fprintln(w, "\nPrevention tips:")
		for _, t := range res.Advice.PreventionTips {
			fmt.Fprintf(w, "  - %s\n", t)
		}
	}
}
