package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/symcheck/internal/symptom"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [text...]",
	Short: "Score a free-text symptom description",
	Long: "Score a free-text symptom description into an urgency tier.\n" +
		"With no arguments the description is read from stdin.",
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		text := strings.Join(args, " ")
		if len(args) == 0 {
			data, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("read stdin: %w", err)
			}
			text = string(data)
		}

		rt, err := setup(cmd, false)
		if err != nil {
			return err
		}
		defer rt.Close()

		res, err := rt.engine.AnalyzeText(cmd.Context(), text)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if asJSON {
			return writeJSON(out, analysisJSON(res))
		}
		printAnalysis(out, res)
		return nil
	},
}

func init() {
	analyzeCmd.Flags().Bool("json", false, "Print the result as JSON")
}

type conditionOut struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type analysisOut struct {
	Valid      bool           `json:"valid"`
	Message    string         `json:"message,omitempty"`
	Score      int            `json:"score"`
	Tier       string         `json:"tier,omitempty"`
	Label      string         `json:"label,omitempty"`
	Matched    []string       `json:"matched_keywords,omitempty"`
	Conditions []conditionOut `json:"conditions,omitempty"`
}

func analysisJSON(res symptom.Result) analysisOut {
	switch r := res.(type) {
	case *symptom.Analysis:
		out := analysisOut{
			Valid:   true,
			Score:   r.Score,
			Tier:    string(r.Tier()),
			Label:   r.Threshold.Label,
			Matched: r.Matched,
		}
		for _, c := range r.Conditions {
			out.Conditions = append(out.Conditions, conditionOut{Name: c.Name, Description: c.Description})
		}
		return out
	case *symptom.InvalidInput:
		return analysisOut{Message: r.Message}
	}
	return analysisOut{}
}

func printAnalysis(w io.Writer, res symptom.Result) {
	switch r := res.(type) {
	case *symptom.InvalidInput:
		fmt.Fprintln(w, r.Message)
	case *symptom.Analysis:
		fmt.Fprintf(w, "%s (score %d)\n", r.Threshold.Label, r.Score)
		if r.Threshold.Description != "" {
			fmt.Fprintln(w, r.Threshold.Description)
		}
		if len(r.Matched) > 0 {
			fmt.Fprintf(w, "\nMatched: %s\n", strings.Join(r.Matched, ", "))
		}
		if len(r.Conditions) > 0 {
			fmt.Fprintln(w, "\nPossible conditions:")
			for _, c := range r.Conditions {
				fmt.Fprintf(w, "  - %-24s %s\n", c.Name, c.Description)
			}
		}
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
