package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/symcheck/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded results, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		kind, _ := cmd.Flags().GetString("kind")

		opts := store.QueryOpts{Limit: limit}
		switch kind {
		case "", "all":
		case string(store.KindAnalysis), string(store.KindAssessment):
			opts.Kind = store.ResultKind(kind)
		default:
			return fmt.Errorf("unknown kind %q (want analysis, assessment or all)", kind)
		}

		cfg, err := loadSettings(cmd)
		if err != nil {
			return err
		}
		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		repo := st.ResultRepo()
		records, err := repo.QueryResults(cmd.Context(), opts)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(records) == 0 {
			fmt.Fprintln(out, "No results recorded yet.")
			return nil
		}

		fmt.Fprintf(out, "%-16s  %-10s  %-16s  %5s  %s\n", "When", "Kind", "Disease", "Score", "Result")
		fmt.Fprintln(out, strings.Repeat("─", 72))
		for _, r := range records {
			disease := r.Disease
			if disease == "" {
				disease = "-"
			}
			fmt.Fprintf(out, "%-16s  %-10s  %-16s  %5d  %s\n",
				r.Timestamp.Format("2006-01-02 15:04"), r.Kind, disease, r.Score, r.Label)
		}

		counts, err := repo.CountByTier(cmd.Context(), opts.Kind)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "\n%d shown; all time: %d low, %d moderate, %d high\n",
			len(records), counts["low"], counts["moderate"], counts["high"])
		return nil
	},
}

func init() {
	historyCmd.Flags().Int("limit", 20, "Maximum number of results (0 = all)")
	historyCmd.Flags().String("kind", "all", "Filter by kind: analysis, assessment or all")
}
