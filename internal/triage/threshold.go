package triage

import (
	"fmt"
	"slices"
)

// Threshold is one row of a ThresholdTable: scores at or above MinScore
// (and below the next row's MinScore) resolve to Tier.
type Threshold struct {
	MinScore    int
	Tier        Tier
	Label       string
	Description string
}

// ThresholdTable is an immutable, validated list of thresholds held in
// ascending MinScore order. The zero value is not usable: Classify rejects it
// with ErrMisconfigured.
type ThresholdTable struct {
	name    string
	entries []Threshold
}

// NewThresholdTable sorts and validates entries. The name only appears in
// error messages.
func NewThresholdTable(name string, entries ...Threshold) (ThresholdTable, error) {
	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, func(a, b Threshold) int {
		return a.MinScore - b.MinScore
	})

	if err := validateThresholds(name, sorted); err != nil {
		return ThresholdTable{}, err
	}
	return ThresholdTable{name: name, entries: sorted}, nil
}

// MustThresholdTable is NewThresholdTable for tables built into the binary.
// It panics on invalid input.
func MustThresholdTable(name string, entries ...Threshold) ThresholdTable {
	t, err := NewThresholdTable(name, entries...)
	if err != nil {
		panic(err)
	}
	return t
}

// Name returns the table name given at construction.
func (t ThresholdTable) Name() string {
	return t.name
}

// Len returns the number of thresholds.
func (t ThresholdTable) Len() int {
	return len(t.entries)
}

// Entries returns a copy of the thresholds in ascending MinScore order.
func (t ThresholdTable) Entries() []Threshold {
	return slices.Clone(t.entries)
}

// Lookup returns the threshold for the given tier.
func (t ThresholdTable) Lookup(tier Tier) (Threshold, bool) {
	for _, e := range t.entries {
		if e.Tier == tier {
			return e, true
		}
	}
	return Threshold{}, false
}

// Classify returns the threshold with the largest MinScore that score meets.
// Boundary scores belong to the higher tier.
func Classify(score int, table ThresholdTable) (Threshold, error) {
	if score < 0 {
		return Threshold{}, fmt.Errorf("classify %d: %w", score, ErrNegativeScore)
	}
	if len(table.entries) == 0 || table.entries[0].MinScore != 0 {
		return Threshold{}, fmt.Errorf("classify with table %q: no zero-minimum entry: %w", table.name, ErrMisconfigured)
	}

	// Scan from the highest minimum down; the zero entry always matches.
	for i := len(table.entries) - 1; i >= 0; i-- {
		if score >= table.entries[i].MinScore {
			return table.entries[i], nil
		}
	}
	return table.entries[0], nil
}
