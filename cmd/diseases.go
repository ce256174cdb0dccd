package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var diseasesCmd = &cobra.Command{
	Use:   "diseases",
	Short: "List assessable diseases (optionally filtered by name or category)",
	RunE: func(cmd *cobra.Command, args []string) error {
		query, _ := cmd.Flags().GetString("search")
		category, _ := cmd.Flags().GetString("category")

		rt, err := setup(cmd, false)
		if err != nil {
			return err
		}
		defer rt.Close()

		catalog := rt.engine.Catalog()
		defs := catalog.Search(query, category)
		if len(defs) == 0 {
			return fmt.Errorf("no diseases match (categories: %s)", strings.Join(catalog.Categories(), ", "))
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-20s  %-16s  %9s  %9s\n", "Disease", "Category", "Questions", "Max score")
		fmt.Fprintln(out, strings.Repeat("─", 62))
		for _, d := range defs {
			fmt.Fprintf(out, "%-20s  %-16s  %9d  %9d\n", d.Disease, d.Category, len(d.Questions), d.MaxScore())
		}
		fmt.Fprintf(out, "\n%d diseases\n", len(defs))
		return nil
	},
}

func init() {
	diseasesCmd.Flags().String("search", "", "Case-insensitive name filter")
	diseasesCmd.Flags().String("category", "", "Category filter (e.g. Respiratory)")
}
