package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/symcheck/internal/symptom"
	"github.com/abhisek/symcheck/internal/triage"
)

const minimalTables = `
version: 1.2.0
symptoms:
  keywords:
    fever: 3
    chest pain: 10
  thresholds:
    - {min_score: 0, tier: low, label: Low}
    - {min_score: 10, tier: high, label: High}
assessment:
  diseases:
    - name: Flu
      questions:
        - text: Fever?
          options: [{text: "No", score: 0}, {text: "Yes", score: 5}]
        - text: Aches?
          options: [{text: "No", score: 0}, {text: "Yes", score: 8}]
`

func TestDefaultTables(t *testing.T) {
	tables, err := DefaultTables()
	require.NoError(t, err)

	assert.Equal(t, "builtin", tables.Source)
	assert.Positive(t, tables.Matcher.Keywords().Len())
	assert.Equal(t, 3, tables.Matcher.Thresholds().Len())
	assert.GreaterOrEqual(t, tables.Catalog.Len(), 5)
	assert.Equal(t, 3, tables.AssessmentThresholds.Len())

	for _, tier := range triage.AllTiers() {
		adv, ok := tables.Advice[tier]
		assert.True(t, ok, "advice for %s", tier)
		assert.NotEmpty(t, adv.NextStep)
	}

	_, err = tables.Catalog.Lookup("Flu")
	assert.NoError(t, err)
}

func TestDefaultTables_Analyze(t *testing.T) {
	tables, err := DefaultTables()
	require.NoError(t, err)

	res, err := tables.Matcher.Analyze("i have chest pain and shortness of breath since morning")
	require.NoError(t, err)
	a, ok := res.(*symptom.Analysis)
	require.True(t, ok, "want *Analysis, got %T", res)
	assert.Equal(t, triage.TierHigh, a.Tier())
	assert.NotEmpty(t, a.Conditions)
}

func TestParseTables_Minimal(t *testing.T) {
	tables, err := ParseTables([]byte(minimalTables))
	require.NoError(t, err)

	assert.Equal(t, "1.2.0", tables.Version)
	assert.Equal(t, 2, tables.Matcher.Keywords().Len())
	// Absent assessment thresholds fall back to the stock risk table.
	th, ok := tables.AssessmentThresholds.Lookup(triage.TierHigh)
	require.True(t, ok)
	assert.Equal(t, 30, th.MinScore)
	assert.Equal(t, "Flu", tables.Document().Assessment.Diseases[0].Name)
}

func TestParseTables_JSON(t *testing.T) {
	doc := `{
	  "version": "v1.0.0",
	  "symptoms": {"keywords": {"fever": 1}, "thresholds": [{"min_score": 0, "tier": "low", "label": "Low"}]},
	  "assessment": {"diseases": [{"name": "Flu", "questions": [{"text": "Q", "options": [{"text": "A", "score": 0}]}]}]}
	}`
	tables, err := ParseTables([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, 1, tables.Catalog.Len())
}

func TestParseTables_SchemaErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not yaml", "version: [unclosed"},
		{"missing symptoms", "version: 1.0.0\nassessment: {diseases: []}\n"},
		{"unknown tier", `
version: 1.0.0
symptoms:
  keywords: {fever: 1}
  thresholds: [{min_score: 0, tier: urgent, label: X}]
assessment:
  diseases: [{name: Flu, questions: [{text: Q, options: [{text: A, score: 0}]}]}]
`},
		{"negative weight", `
version: 1.0.0
symptoms:
  keywords: {fever: -1}
  thresholds: [{min_score: 0, tier: low, label: X}]
assessment:
  diseases: [{name: Flu, questions: [{text: Q, options: [{text: A, score: 0}]}]}]
`},
		{"unknown field", `
version: 1.0.0
colour: red
symptoms:
  keywords: {fever: 1}
  thresholds: [{min_score: 0, tier: low, label: X}]
assessment:
  diseases: [{name: Flu, questions: [{text: Q, options: [{text: A, score: 0}]}]}]
`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTables([]byte(tt.doc))
			assert.ErrorIs(t, err, ErrSchema)
		})
	}
}

func TestParseTables_Version(t *testing.T) {
	for _, v := range []string{"2.0.0", "banana", "v0.9.0"} {
		t.Run(v, func(t *testing.T) {
			var doc map[string]any
			require.NoError(t, yaml.Unmarshal([]byte(minimalTables), &doc))
			doc["version"] = v
			data, err := yaml.Marshal(doc)
			require.NoError(t, err)

			_, err = ParseTables(data)
			assert.ErrorIs(t, err, ErrVersion)
		})
	}
}

func TestParseTables_SemanticErrors(t *testing.T) {
	// Schema-valid but no zero threshold.
	doc := `
version: 1.0.0
symptoms:
  keywords: {fever: 1}
  thresholds: [{min_score: 5, tier: low, label: X}]
assessment:
  diseases: [{name: Flu, questions: [{text: Q, options: [{text: A, score: 0}]}]}]
`
	_, err := ParseTables([]byte(doc))
	assert.ErrorIs(t, err, triage.ErrMisconfigured)

	dup := `
version: 1.0.0
symptoms:
  keywords: {fever: 1}
  thresholds: [{min_score: 0, tier: low, label: X}]
assessment:
  diseases:
    - {name: Flu, questions: [{text: Q, options: [{text: A, score: 0}]}]}
    - {name: Flu, questions: [{text: Q, options: [{text: A, score: 0}]}]}
`
	_, err = ParseTables([]byte(dup))
	assert.ErrorIs(t, err, triage.ErrMisconfigured)
}

func TestLoadTables(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tables.yaml")
	require.NoError(t, os.WriteFile(path, []byte(minimalTables), 0o644))

	tables, err := LoadTables(path)
	require.NoError(t, err)
	assert.Equal(t, path, tables.Source)

	_, err = LoadTables(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	def, err := LoadTables("")
	require.NoError(t, err)
	assert.Equal(t, "builtin", def.Source)
}

func TestSettingsFromEnv(t *testing.T) {
	t.Setenv("SYMCHECK_TABLES", "/tmp/tables.yaml")
	t.Setenv("SYMCHECK_LOG_LEVEL", "DEBUG")
	t.Setenv("SYMCHECK_ANALYSIS_DELAY", "0s")
	t.Setenv("SYMCHECK_SUBMIT_DELAY", "250ms")
	t.Setenv("SYMCHECK_HISTORY", "false")

	cfg, err := SettingsFromEnv("")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/tables.yaml", cfg.TablesPath)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, time.Duration(0), cfg.AnalysisDelay)
	assert.Equal(t, 250*time.Millisecond, cfg.SubmitDelay)
	assert.False(t, cfg.History)
	assert.NoError(t, cfg.Validate())
}

func TestSettingsFromEnv_DotEnv(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("SYMCHECK_LOG_FILE=/tmp/symcheck-test.log\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("SYMCHECK_LOG_FILE") })

	cfg, err := SettingsFromEnv(envFile)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/symcheck-test.log", cfg.LogFile)

	// A missing .env is not an error.
	_, err = SettingsFromEnv(filepath.Join(t.TempDir(), "absent.env"))
	assert.NoError(t, err)
}

func TestSettingsFromEnv_BadValues(t *testing.T) {
	t.Setenv("SYMCHECK_SUBMIT_DELAY", "soon")
	_, err := SettingsFromEnv("")
	assert.Error(t, err)
}

func TestSettings_Validate(t *testing.T) {
	assert.NoError(t, DefaultSettings().Validate())

	cfg := DefaultSettings()
	cfg.LogLevel = "loud"
	cfg.SubmitDelay = -time.Second
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LogLevel")
	assert.Contains(t, err.Error(), "SubmitDelay")
}
