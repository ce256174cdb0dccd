package symptom

import (
	"fmt"
	"slices"
	"strings"

	"github.com/abhisek/symcheck/internal/triage"
)

// KeywordTable maps lower-cased keywords to score weights. It is immutable
// once built.
type KeywordTable struct {
	weights map[string]int
	keys    []string // sorted, for deterministic iteration
}

// NewKeywordTable lower-cases and validates the given keyword weights.
func NewKeywordTable(weights map[string]int) (KeywordTable, error) {
	var errs []string

	folded := make(map[string]int, len(weights))
	for k, w := range weights {
		key := strings.ToLower(strings.TrimSpace(k))
		if key == "" {
			errs = append(errs, fmt.Sprintf("keyword %q is blank", k))
			continue
		}
		if w < 0 {
			errs = append(errs, fmt.Sprintf("keyword %q: weight must be >= 0, got %d", k, w))
		}
		if _, dup := folded[key]; dup {
			errs = append(errs, fmt.Sprintf("keyword %q duplicates another key after case folding", k))
		}
		folded[key] = w
	}
	if len(folded) == 0 && len(errs) == 0 {
		errs = append(errs, "keyword table is empty")
	}

	if len(errs) > 0 {
		slices.Sort(errs)
		return KeywordTable{}, &triage.ConfigError{Table: "keyword table", Problems: errs}
	}

	keys := make([]string, 0, len(folded))
	for k := range folded {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	return KeywordTable{weights: folded, keys: keys}, nil
}

// Len returns the number of keywords.
func (t KeywordTable) Len() int {
	return len(t.keys)
}

// Keywords returns the keywords in sorted order.
func (t KeywordTable) Keywords() []string {
	return slices.Clone(t.keys)
}

// Weight returns the weight for a keyword (case-insensitive).
func (t KeywordTable) Weight(keyword string) (int, bool) {
	w, ok := t.weights[strings.ToLower(keyword)]
	return w, ok
}

// containsAny reports whether lowered contains at least one keyword.
func (t KeywordTable) containsAny(lowered string) bool {
	for _, k := range t.keys {
		if strings.Contains(lowered, k) {
			return true
		}
	}
	return false
}
