package cmd

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/abhisek/symcheck/internal/app"
	"github.com/abhisek/symcheck/internal/config"
	"github.com/abhisek/symcheck/internal/engine"
	"github.com/abhisek/symcheck/internal/logger"
	"github.com/abhisek/symcheck/internal/store"
)

// runtime bundles what every command builds from settings.
type runtime struct {
	settings config.Settings
	log      *logrus.Logger
	tables   *config.Tables
	store    *store.Store // nil when history is off
	engine   *engine.Engine
}

// setup loads settings and tables, opens the result log and builds the
// engine. In TUI mode logs stay off the terminal and the presentation
// delays apply; CLI commands answer immediately.
func setup(cmd *cobra.Command, tui bool) (*runtime, error) {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return nil, err
	}

	var console io.Writer = cmd.ErrOrStderr()
	if tui {
		console = io.Discard
	}
	log, err := logger.New(cfg.LogLevel, cfg.LogFile, console)
	if err != nil {
		return nil, err
	}

	tables, err := config.LoadTables(cfg.TablesPath)
	if err != nil {
		return nil, fmt.Errorf("load tables: %w", err)
	}
	log.WithFields(logrus.Fields{
		"source":   tables.Source,
		"version":  tables.Version,
		"keywords": tables.Matcher.Keywords().Len(),
		"diseases": tables.Catalog.Len(),
	}).Debug("tables loaded")

	rt := &runtime{settings: cfg, log: log, tables: tables}

	opts := engine.Options{
		Matcher:    tables.Matcher,
		Catalog:    tables.Catalog,
		Thresholds: tables.AssessmentThresholds,
		Advice:     tables.Advice,
		Logger:     log,
	}
	if tui {
		opts.AnalysisDelay = cfg.AnalysisDelay
		opts.SubmitDelay = cfg.SubmitDelay
	}

	if cfg.History {
		st, err := openStore(cfg)
		if err != nil {
			return nil, err
		}
		rt.store = st
		opts.Recorder = st.ResultRepo()
	}

	rt.engine, err = engine.New(opts)
	if err != nil {
		rt.Close()
		return nil, err
	}
	return rt, nil
}

func openStore(cfg config.Settings) (*store.Store, error) {
	dbPath, err := resolveDBPath(cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}

func (r *runtime) Close() {
	if r.store != nil {
		if err := r.store.Close(); err != nil {
			r.log.WithError(err).Warn("close store")
		}
	}
}

// runApp builds dependencies and launches the TUI.
func runApp(cmd *cobra.Command) error {
	rt, err := setup(cmd, true)
	if err != nil {
		return err
	}
	defer rt.Close()

	opts := app.Options{
		Engine: rt.engine,
		Status: rt.tables.Source,
	}
	if rt.store != nil {
		opts.Results = rt.store.ResultRepo()
	}
	return app.Run(opts)
}
