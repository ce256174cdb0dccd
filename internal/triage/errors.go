package triage

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMisconfigured indicates a threshold table that cannot classify every
// non-negative score. It is a configuration error, not a runtime outcome.
var ErrMisconfigured = errors.New("threshold table misconfigured")

// ErrNegativeScore indicates a caller passed a score below zero.
var ErrNegativeScore = errors.New("score must be non-negative")

// ConfigError lists every problem found while validating a configuration
// table.
type ConfigError struct {
	Table    string
	Problems []string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s validation failed:\n  %s", e.Table, strings.Join(e.Problems, "\n  "))
}

func (e *ConfigError) Unwrap() error { return ErrMisconfigured }
