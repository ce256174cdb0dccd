package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Settings holds runtime configuration for the CLI and TUI.
type Settings struct {
	// TablesPath points at a YAML or JSON tables document.
	// Empty means the bundled defaults.
	TablesPath string

	// DBPath is the SQLite result log. Empty means store.DefaultDBPath.
	DBPath string

	LogLevel string `validate:"oneof=trace debug info warn warning error fatal panic"`
	LogFile  string

	// AnalysisDelay and SubmitDelay are the presentation pauses before an
	// analysis result and after the last answer.
	AnalysisDelay time.Duration `validate:"gte=0,lte=1m"`
	SubmitDelay   time.Duration `validate:"gte=0,lte=1m"`

	// History controls whether finished results are written to the log.
	History bool
}

// DefaultSettings returns Settings with the stock delays and logging.
func DefaultSettings() Settings {
	return Settings{
		LogLevel:      "warn",
		AnalysisDelay: 1200 * time.Millisecond,
		SubmitDelay:   1200 * time.Millisecond,
		History:       true,
	}
}

// SettingsFromEnv builds Settings from SYMCHECK_* environment variables,
// falling back to defaults for unset values. Variables in envFile (if it
// exists) are loaded first without overriding the real environment.
func SettingsFromEnv(envFile string) (Settings, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Settings{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	cfg := DefaultSettings()

	if p := os.Getenv("SYMCHECK_TABLES"); p != "" {
		cfg.TablesPath = p
	}
	if p := os.Getenv("SYMCHECK_DB"); p != "" {
		cfg.DBPath = p
	}
	if l := os.Getenv("SYMCHECK_LOG_LEVEL"); l != "" {
		cfg.LogLevel = strings.ToLower(l)
	}
	if f := os.Getenv("SYMCHECK_LOG_FILE"); f != "" {
		cfg.LogFile = f
	}

	var err error
	if cfg.AnalysisDelay, err = durationEnv("SYMCHECK_ANALYSIS_DELAY", cfg.AnalysisDelay); err != nil {
		return Settings{}, err
	}
	if cfg.SubmitDelay, err = durationEnv("SYMCHECK_SUBMIT_DELAY", cfg.SubmitDelay); err != nil {
		return Settings{}, err
	}
	if h := os.Getenv("SYMCHECK_HISTORY"); h != "" {
		on, err := strconv.ParseBool(h)
		if err != nil {
			return Settings{}, fmt.Errorf("SYMCHECK_HISTORY: %w", err)
		}
		cfg.History = on
	}

	return cfg, nil
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

var validate = validator.New()

// Validate checks field constraints and reports every violation.
func (s Settings) Validate() error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	problems := make([]string, len(verrs))
	for i, fe := range verrs {
		problems[i] = fmt.Sprintf("%s: failed %q (got %v)", fe.Field(), fe.Tag(), fe.Value())
	}
	return fmt.Errorf("invalid settings:\n  %s", strings.Join(problems, "\n  "))
}
