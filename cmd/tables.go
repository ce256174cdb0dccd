package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/symcheck/internal/config"
)

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "Inspect scoring tables",
}

var tablesCheckCmd = &cobra.Command{
	Use:   "check [file]",
	Short: "Validate a tables document (defaults to the active tables)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) == 1 {
			path = args[0]
		} else {
			cfg, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			path = cfg.TablesPath
		}

		tables, err := config.LoadTables(path)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s: ok (version %s)\n", tables.Source, tables.Version)
		fmt.Fprintf(out, "  %d keywords, %d urgency tiers\n",
			tables.Matcher.Keywords().Len(), tables.Matcher.Thresholds().Len())
		fmt.Fprintf(out, "  %d diseases, %d risk tiers\n",
			tables.Catalog.Len(), tables.AssessmentThresholds.Len())
		return nil
	},
}

var tablesDumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Print the active tables as YAML or JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		cfg, err := loadSettings(cmd)
		if err != nil {
			return err
		}
		tables, err := config.LoadTables(cfg.TablesPath)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if asJSON {
			return writeJSON(out, tables.Document())
		}
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(tables.Document()); err != nil {
			return fmt.Errorf("encode tables: %w", err)
		}
		return enc.Close()
	},
}

func init() {
	tablesDumpCmd.Flags().Bool("json", false, "Print JSON instead of YAML")

	tablesCmd.AddCommand(tablesCheckCmd)
	tablesCmd.AddCommand(tablesDumpCmd)
}
