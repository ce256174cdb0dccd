package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/symcheck/internal/assessment"
	"github.com/abhisek/symcheck/internal/symptom"
	"github.com/abhisek/symcheck/internal/triage"
)

//go:embed defaults.yaml
var defaultTables []byte

//go:embed schema.json
var tablesSchema []byte

// SupportedMajor is the tables document major version this build reads.
const SupportedMajor = "v1"

var (
	// ErrSchema indicates a tables document that does not match the schema.
	ErrSchema = errors.New("tables document does not match schema")

	// ErrVersion indicates a missing, malformed, or unsupported version.
	ErrVersion = errors.New("unsupported tables version")
)

// Document is the on-disk shape of a tables file (YAML or JSON).
type Document struct {
	Version    string            `json:"version" yaml:"version"`
	Symptoms   SymptomsDoc       `json:"symptoms" yaml:"symptoms"`
	Assessment AssessmentSection `json:"assessment" yaml:"assessment"`
}

type SymptomsDoc struct {
	Keywords    map[string]int            `json:"keywords" yaml:"keywords"`
	Thresholds  []ThresholdDoc            `json:"thresholds" yaml:"thresholds"`
	Suggestions map[string][]ConditionDoc `json:"suggestions,omitempty" yaml:"suggestions,omitempty"`
}

type AssessmentSection struct {
	Thresholds []ThresholdDoc       `json:"thresholds,omitempty" yaml:"thresholds,omitempty"`
	Advice     map[string]AdviceDoc `json:"advice,omitempty" yaml:"advice,omitempty"`
	Diseases   []DiseaseDoc         `json:"diseases" yaml:"diseases"`
}

type ThresholdDoc struct {
	MinScore    int    `json:"min_score" yaml:"min_score"`
	Tier        string `json:"tier" yaml:"tier"`
	Label       string `json:"label" yaml:"label"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

type ConditionDoc struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

type AdviceDoc struct {
	Recommendations []string `json:"recommendations,omitempty" yaml:"recommendations,omitempty"`
	NextStep        string   `json:"next_step,omitempty" yaml:"next_step,omitempty"`
	PreventionTips  []string `json:"prevention_tips,omitempty" yaml:"prevention_tips,omitempty"`
}

type DiseaseDoc struct {
	Name        string        `json:"name" yaml:"name"`
	Category    string        `json:"category,omitempty" yaml:"category,omitempty"`
	Description string        `json:"description,omitempty" yaml:"description,omitempty"`
	Questions   []QuestionDoc `json:"questions" yaml:"questions"`
}

type QuestionDoc struct {
	Text    string      `json:"text" yaml:"text"`
	Options []OptionDoc `json:"options" yaml:"options"`
}

type OptionDoc struct {
	Text  string `json:"text" yaml:"text"`
	Score int    `json:"score" yaml:"score"`
}

// Tables holds the validated, immutable scoring tables built from a
// Document. The two threshold tables are independent.
type Tables struct {
	Source               string
	Version              string
	Matcher              *symptom.Matcher
	Catalog              *assessment.Catalog
	AssessmentThresholds triage.ThresholdTable
	Advice               assessment.AdviceSet

	doc Document
}

// Document returns the document the tables were built from.
func (t *Tables) Document() Document {
	return t.doc
}

// DefaultTables returns the bundled tables.
func DefaultTables() (*Tables, error) {
	t, err := ParseTables(defaultTables)
	if err != nil {
		return nil, fmt.Errorf("bundled tables: %w", err)
	}
	t.Source = "builtin"
	return t, nil
}

// LoadTables reads a tables document from path. An empty path returns the
// bundled defaults.
func LoadTables(path string) (*Tables, error) {
	if path == "" {
		return DefaultTables()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tables: %w", err)
	}
	t, err := ParseTables(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	t.Source = path
	return t, nil
}

// DefaultDocument returns the raw bundled document.
func DefaultDocument() []byte {
	return bytes.Clone(defaultTables)
}

// ParseTables decodes, schema-checks, and builds tables from YAML or JSON.
func ParseTables(data []byte) (*Tables, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchema, err)
	}
	// YAML decodes into Go values; round-trip through JSON so the schema
	// validator and the typed decode see the same data.
	jsonBytes, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchema, err)
	}
	if err := validateDocument(jsonBytes); err != nil {
		return nil, err
	}

	var doc Document
	if err := json.Unmarshal(jsonBytes, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchema, err)
	}
	if err := checkVersion(doc.Version); err != nil {
		return nil, err
	}
	return build(doc)
}

func checkVersion(v string) error {
	canon := v
	if !strings.HasPrefix(canon, "v") {
		canon = "v" + canon
	}
	if !semver.IsValid(canon) {
		return fmt.Errorf("%w: %q is not a semantic version", ErrVersion, v)
	}
	if major := semver.Major(canon); major != SupportedMajor {
		return fmt.Errorf("%w: %s (want %s.x.y)", ErrVersion, v, SupportedMajor)
	}
	return nil
}

func build(doc Document) (*Tables, error) {
	keywords, err := symptom.NewKeywordTable(doc.Symptoms.Keywords)
	if err != nil {
		return nil, err
	}
	symptomThresholds, err := buildThresholds("symptom urgency", doc.Symptoms.Thresholds)
	if err != nil {
		return nil, err
	}
	suggestions := make(symptom.SuggestionSet, len(doc.Symptoms.Suggestions))
	for tier, conds := range doc.Symptoms.Suggestions {
		list := make([]symptom.Condition, len(conds))
		for i, c := range conds {
			list[i] = symptom.Condition{Name: c.Name, Description: c.Description}
		}
		suggestions[triage.Tier(tier)] = list
	}
	matcher, err := symptom.NewMatcher(keywords, symptomThresholds, suggestions)
	if err != nil {
		return nil, err
	}

	assessThresholds := assessment.DefaultThresholds()
	if len(doc.Assessment.Thresholds) > 0 {
		assessThresholds, err = buildThresholds("assessment risk", doc.Assessment.Thresholds)
		if err != nil {
			return nil, err
		}
	}

	advice := assessment.DefaultAdvice()
	for tier, a := range doc.Assessment.Advice {
		advice[triage.Tier(tier)] = assessment.Advice{
			Recommendations: a.Recommendations,
			NextStep:        a.NextStep,
			PreventionTips:  a.PreventionTips,
		}
	}

	defs := make([]assessment.Definition, len(doc.Assessment.Diseases))
	for i, d := range doc.Assessment.Diseases {
		qs := make([]assessment.Question, len(d.Questions))
		for j, q := range d.Questions {
			opts := make([]assessment.Option, len(q.Options))
			for k, o := range q.Options {
				opts[k] = assessment.Option{Text: o.Text, Score: o.Score}
			}
			qs[j] = assessment.Question{Text: q.Text, Options: opts}
		}
		defs[i] = assessment.Definition{
			Disease:     d.Name,
			Category:    d.Category,
			Description: d.Description,
			Questions:   qs,
		}
	}
	catalog, err := assessment.NewCatalog(defs)
	if err != nil {
		return nil, err
	}

	return &Tables{
		Version:              doc.Version,
		Matcher:              matcher,
		Catalog:              catalog,
		AssessmentThresholds: assessThresholds,
		Advice:               advice,
		doc:                  doc,
	}, nil
}

func buildThresholds(name string, docs []ThresholdDoc) (triage.ThresholdTable, error) {
	entries := make([]triage.Threshold, len(docs))
	for i, d := range docs {
		entries[i] = triage.Threshold{
			MinScore:    d.MinScore,
			Tier:        triage.Tier(d.Tier),
			Label:       d.Label,
			Description: d.Description,
		}
	}
	return triage.NewThresholdTable(name, entries...)
}

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

// getCompiledSchema compiles the embedded schema once.
func getCompiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		def, err := jsonschema.UnmarshalJSON(bytes.NewReader(tablesSchema))
		if err != nil {
			schemaErr = fmt.Errorf("parse schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		const url = "schema://symcheck-tables.json"
		if err := c.AddResource(url, def); err != nil {
			schemaErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiledSchema, schemaErr = c.Compile(url)
	})
	return compiledSchema, schemaErr
}

func validateDocument(jsonBytes []byte) error {
	schema, err := getCompiledSchema()
	if err != nil {
		return fmt.Errorf("compile tables schema: %w", err)
	}
	parsed, err := jsonschema.UnmarshalJSON(bytes.NewReader(jsonBytes))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSchema, err)
	}
	if err := schema.Validate(parsed); err != nil {
		return fmt.Errorf("%w: %v", ErrSchema, err)
	}
	return nil
}
