package store

import (
	"context"
	"time"
)

// ResultKind distinguishes the two scoring pipelines in the result log.
type ResultKind string

const (
	KindAnalysis   ResultKind = "analysis"
	KindAssessment ResultKind = "assessment"
)

// QueryOpts configures result queries with filtering and pagination.
type QueryOpts struct {
	Limit int        // max results (0 = unlimited)
	Kind  ResultKind // empty = all kinds
	From  time.Time  // timestamp >= From
	To    time.Time  // timestamp <= To
}

// ResultRecord is one finished analysis or assessment. In-progress sessions
// are never stored.
type ResultRecord struct {
	ID        int64
	Kind      ResultKind
	Reference string // session ID or analysis ID
	Disease   string // empty for analyses
	Score     int
	Tier      string
	Label     string
	Timestamp time.Time
}

// ResultRepo provides append and query access to the result log.
type ResultRepo interface {
	// AppendResult records a finished result.
	AppendResult(ctx context.Context, rec ResultRecord) error

	// QueryResults returns results newest first.
	QueryResults(ctx context.Context, opts QueryOpts) ([]ResultRecord, error)

	// CountByTier returns result counts keyed by tier for the given kind
	// (empty = all kinds).
	CountByTier(ctx context.Context, kind ResultKind) (map[string]int, error)
}
