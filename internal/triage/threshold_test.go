package triage

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTable(t *testing.T) ThresholdTable {
	t.Helper()
	table, err := NewThresholdTable("test",
		Threshold{MinScore: 20, Tier: TierHigh, Label: "High"},
		Threshold{MinScore: 0, Tier: TierLow, Label: "Low"},
		Threshold{MinScore: 10, Tier: TierModerate, Label: "Moderate"},
	)
	require.NoError(t, err)
	return table
}

func TestClassify_Boundaries(t *testing.T) {
	table := testTable(t)

	tests := []struct {
		score int
		want  Tier
	}{
		{0, TierLow},
		{9, TierLow},
		{10, TierModerate},
		{19, TierModerate},
		{20, TierHigh},
		{1000, TierHigh},
	}

	for _, tt := range tests {
		got, err := Classify(tt.score, table)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got.Tier, "score %d", tt.score)
	}
}

func TestClassify_ZeroValueTableIsMisconfigured(t *testing.T) {
	_, err := Classify(5, ThresholdTable{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMisconfigured))
}

func TestClassify_NegativeScore(t *testing.T) {
	_, err := Classify(-1, testTable(t))
	assert.ErrorIs(t, err, ErrNegativeScore)
}

func TestClassify_SingleZeroEntryCoversAllScores(t *testing.T) {
	table := MustThresholdTable("only-low", Threshold{MinScore: 0, Tier: TierLow, Label: "Low"})
	for _, score := range []int{0, 1, 50, 1 << 20} {
		got, err := Classify(score, table)
		require.NoError(t, err)
		assert.Equal(t, TierLow, got.Tier)
	}
}

func TestNewThresholdTable_SortsAscending(t *testing.T) {
	entries := testTable(t).Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, 0, entries[0].MinScore)
	assert.Equal(t, 10, entries[1].MinScore)
	assert.Equal(t, 20, entries[2].MinScore)
}

func TestNewThresholdTable_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		entries []Threshold
	}{
		{"empty", nil},
		{"missing zero", []Threshold{
			{MinScore: 5, Tier: TierLow, Label: "Low"},
			{MinScore: 10, Tier: TierHigh, Label: "High"},
		}},
		{"duplicate minimum", []Threshold{
			{MinScore: 0, Tier: TierLow, Label: "Low"},
			{MinScore: 0, Tier: TierModerate, Label: "Moderate"},
		}},
		{"negative minimum", []Threshold{
			{MinScore: -5, Tier: TierLow, Label: "Low"},
			{MinScore: 0, Tier: TierModerate, Label: "Moderate"},
		}},
		{"unknown tier", []Threshold{
			{MinScore: 0, Tier: Tier("critical"), Label: "Critical"},
		}},
		{"tiers out of order", []Threshold{
			{MinScore: 0, Tier: TierHigh, Label: "High"},
			{MinScore: 10, Tier: TierLow, Label: "Low"},
		}},
		{"missing label", []Threshold{
			{MinScore: 0, Tier: TierLow},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewThresholdTable(tt.name, tt.entries...)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMisconfigured)

			var cfgErr *ConfigError
			require.True(t, errors.As(err, &cfgErr))
			assert.NotEmpty(t, cfgErr.Problems)
		})
	}
}

func TestNewThresholdTable_DoesNotAliasInput(t *testing.T) {
	entries := []Threshold{
		{MinScore: 0, Tier: TierLow, Label: "Low"},
		{MinScore: 10, Tier: TierHigh, Label: "High"},
	}
	table, err := NewThresholdTable("alias", entries...)
	require.NoError(t, err)

	entries[0].Label = "changed"
	got, ok := table.Lookup(TierLow)
	require.True(t, ok)
	assert.Equal(t, "Low", got.Label)
}

func TestMustThresholdTable_Panics(t *testing.T) {
	assert.Panics(t, func() {
		MustThresholdTable("bad", Threshold{MinScore: 3, Tier: TierLow, Label: "Low"})
	})
}

func TestParseTier(t *testing.T) {
	for _, tier := range AllTiers() {
		got, err := ParseTier(string(tier))
		require.NoError(t, err)
		assert.Equal(t, tier, got)
	}
	_, err := ParseTier("severe")
	assert.Error(t, err)
}

func TestTier_RankOrder(t *testing.T) {
	tiers := AllTiers()
	for i := 1; i < len(tiers); i++ {
		assert.Greater(t, tiers[i].Rank(), tiers[i-1].Rank())
	}
	assert.Equal(t, -1, Tier("bogus").Rank())
}
