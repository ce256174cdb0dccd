package symptom

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/abhisek/symcheck/internal/triage"
)

var (
	lettersOnly = regexp.MustCompile(`^[a-z\s]+$`)
	hasVowel    = regexp.MustCompile(`[aeiou]`)
)

// minTokens is the fewest whitespace-separated words a description needs.
const minTokens = 4

// Matcher scores free-text symptom descriptions against a keyword table and
// classifies the score into an urgency tier.
type Matcher struct {
	keywords    KeywordTable
	thresholds  triage.ThresholdTable
	suggestions SuggestionSet
}

// NewMatcher builds a Matcher from validated tables.
func NewMatcher(keywords KeywordTable, thresholds triage.ThresholdTable, suggestions SuggestionSet) (*Matcher, error) {
	var errs []string
	if keywords.Len() == 0 {
		errs = append(errs, "keyword table is empty")
	}
	if thresholds.Len() == 0 {
		errs = append(errs, "threshold table is empty")
	}
	for tier := range suggestions {
		if !tier.Valid() {
			errs = append(errs, fmt.Sprintf("suggestions keyed by unknown tier %q", tier))
		}
	}
	if len(errs) > 0 {
		slices.Sort(errs)
		return nil, &triage.ConfigError{Table: "symptom matcher", Problems: errs}
	}

	copied := make(SuggestionSet, len(suggestions))
	for tier, conds := range suggestions {
		copied[tier] = slices.Clone(conds)
	}

	return &Matcher{
		keywords:    keywords,
		thresholds:  thresholds,
		suggestions: copied,
	}, nil
}

// Keywords returns the matcher's keyword table.
func (m *Matcher) Keywords() KeywordTable {
	return m.keywords
}

// Thresholds returns the matcher's urgency thresholds.
func (m *Matcher) Thresholds() triage.ThresholdTable {
	return m.thresholds
}

// MeetsMinimum reports whether text is long enough to be analyzed.
func MeetsMinimum(text string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(text)) >= MinChars
}

// IsWellFormed applies the gibberish gate: at least four words, at least one
// known keyword, letters and whitespace only, and at least one vowel.
func (m *Matcher) IsWellFormed(text string) bool {
	lowered := strings.ToLower(text)

	if len(strings.Fields(lowered)) < minTokens {
		return false
	}
	return m.keywords.containsAny(lowered) &&
		hasVowel.MatchString(lowered) &&
		lettersOnly.MatchString(lowered)
}

// Score sums the weight of every keyword present in text. Each keyword
// counts once no matter how often it appears.
func (m *Matcher) Score(text string) int {
	score := 0
	for _, k := range m.MatchedKeywords(text) {
		score += m.keywords.weights[k]
	}
	return score
}

// MatchedKeywords returns the keywords present in text, sorted.
func (m *Matcher) MatchedKeywords(text string) []string {
	lowered := strings.ToLower(text)

	var matched []string
	for _, k := range m.keywords.keys {
		if strings.Contains(lowered, k) {
			matched = append(matched, k)
		}
	}
	return matched
}

// Analyze gates, scores and classifies text. Text below MinChars is a
// caller error (ErrBelowMinimum). Text that fails IsWellFormed yields
// *InvalidInput.
func (m *Matcher) Analyze(text string) (Result, error) {
	if !MeetsMinimum(text) {
		return nil, fmt.Errorf("analyze %d chars (minimum %d): %w",
			utf8.RuneCountInString(strings.TrimSpace(text)), MinChars, ErrBelowMinimum)
	}

	if !m.IsWellFormed(text) {
		return &InvalidInput{Message: InvalidInputMessage}, nil
	}

	matched := m.MatchedKeywords(text)
	score := 0
	for _, k := range matched {
		score += m.keywords.weights[k]
	}

	th, err := triage.Classify(score, m.thresholds)
	if err != nil {
		return nil, fmt.Errorf("classify symptom score: %w", err)
	}

	return &Analysis{
		Score:      score,
		Threshold:  th,
		Conditions: slices.Clone(m.suggestions[th.Tier]),
		Matched:    matched,
	}, nil
}
