package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

const (
	resultsTable = "triage_results"

	colID        = "id"
	colKind      = "kind"
	colReference = "reference"
	colDisease   = "disease"
	colScore     = "score"
	colTier      = "tier"
	colLabel     = "label"
	colTimestamp = "timestamp_ms"
)

// migrate creates the result log schema. Timestamps are stored as Unix
// milliseconds so ordering and range filters stay numeric.
func migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS triage_results (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			kind TEXT NOT NULL,
			reference TEXT NOT NULL,
			disease TEXT NOT NULL DEFAULT '',
			score INTEGER NOT NULL,
			tier TEXT NOT NULL,
			label TEXT NOT NULL DEFAULT '',
			timestamp_ms INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS triage_results_kind_ts ON triage_results (kind, timestamp_ms)`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}

type resultRepo struct {
	db      *sql.DB
	builder *entsql.DialectBuilder
}

func (r *resultRepo) AppendResult(ctx context.Context, rec ResultRecord) error {
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now()
	}

	query, args := r.builder.Insert(resultsTable).
		Columns(colKind, colReference, colDisease, colScore, colTier, colLabel, colTimestamp).
		Values(string(rec.Kind), rec.Reference, rec.Disease, rec.Score, rec.Tier, rec.Label, rec.Timestamp.UnixMilli()).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save %s result: %w", rec.Kind, err)
	}
	return nil
}

func (r *resultRepo) QueryResults(ctx context.Context, opts QueryOpts) ([]ResultRecord, error) {
	sel := r.builder.Select(colID, colKind, colReference, colDisease, colScore, colTier, colLabel, colTimestamp).
		From(entsql.Table(resultsTable))
	applyFilters(sel, opts)
	sel.OrderBy(entsql.Desc(colTimestamp), entsql.Desc(colID))
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	var records []ResultRecord
	for rows.Next() {
		var (
			rec  ResultRecord
			kind string
			ts   int64
		)
		if err := rows.Scan(&rec.ID, &kind, &rec.Reference, &rec.Disease, &rec.Score, &rec.Tier, &rec.Label, &ts); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		rec.Kind = ResultKind(kind)
		rec.Timestamp = time.UnixMilli(ts)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate results: %w", err)
	}
	return records, nil
}

func (r *resultRepo) CountByTier(ctx context.Context, kind ResultKind) (map[string]int, error) {
	sel := r.builder.Select(colTier, entsql.Count("*")).
		From(entsql.Table(resultsTable))
	applyFilters(sel, QueryOpts{Kind: kind})
	sel.GroupBy(colTier)

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("count results by tier: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			tier string
			n    int
		)
		if err := rows.Scan(&tier, &n); err != nil {
			return nil, fmt.Errorf("scan tier count: %w", err)
		}
		counts[tier] = n
	}
	return counts, rows.Err()
}

func applyFilters(sel *entsql.Selector, opts QueryOpts) {
	if opts.Kind != "" {
		sel.Where(entsql.EQ(colKind, string(opts.Kind)))
	}
	if !opts.From.IsZero() {
		sel.Where(entsql.GTE(colTimestamp, opts.From.UnixMilli()))
	}
	if !opts.To.IsZero() {
		sel.Where(entsql.LTE(colTimestamp, opts.To.UnixMilli()))
	}
}
