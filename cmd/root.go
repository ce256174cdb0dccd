package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/symcheck/internal/config"
	"github.com/abhisek/symcheck/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "symcheck",
	Short: "Symptom triage in the terminal",
	Long: "Symcheck scores free-text symptom descriptions and short disease questionnaires\n" +
		"into urgency and risk tiers. It is not a diagnosis; consult a professional.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("db", "", "Path to SQLite result log (overrides SYMCHECK_DB env var)")
	pf.String("tables", "", "Path to a YAML or JSON tables document (overrides SYMCHECK_TABLES)")
	pf.String("log-level", "", "Log level: trace, debug, info, warn, error (overrides SYMCHECK_LOG_LEVEL)")
	pf.String("log-file", "", "Also write logs to this file (overrides SYMCHECK_LOG_FILE)")
	pf.Bool("no-history", false, "Do not record finished results")
	pf.String("env-file", ".env", "Load SYMCHECK_* variables from this file if it exists")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(assessCmd)
	rootCmd.AddCommand(diseasesCmd)
	rootCmd.AddCommand(tablesCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadSettings resolves settings with flags taking priority over
// SYMCHECK_* variables, which take priority over defaults.
func loadSettings(cmd *cobra.Command) (config.Settings, error) {
	envFile, _ := cmd.Flags().GetString("env-file")
	cfg, err := config.SettingsFromEnv(envFile)
	if err != nil {
		return config.Settings{}, err
	}

	flags := cmd.Flags()
	if p, _ := flags.GetString("db"); p != "" {
		cfg.DBPath = p
	}
	if p, _ := flags.GetString("tables"); p != "" {
		cfg.TablesPath = p
	}
	if l, _ := flags.GetString("log-level"); l != "" {
		cfg.LogLevel = l
	}
	if f, _ := flags.GetString("log-file"); f != "" {
		cfg.LogFile = f
	}
	if off, _ := flags.GetBool("no-history"); off {
		cfg.History = false
	}

	if err := cfg.Validate(); err != nil {
		return config.Settings{}, err
	}
	return cfg, nil
}

// resolveDBPath returns the database path from settings (flag or
// SYMCHECK_DB), then the default XDG path.
func resolveDBPath(cfg config.Settings) (string, error) {
	if cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}
