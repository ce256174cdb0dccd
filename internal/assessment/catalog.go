package assessment

import (
	"fmt"
	"slices"
	"strings"

	"github.com/abhisek/symcheck/internal/triage"
)

// CategoryAll matches every definition in Search.
const CategoryAll = "All"

// Catalog is the validated, read-only set of assessment definitions.
type Catalog struct {
	defs   []Definition
	byName map[string]int
}

// NewCatalog validates and indexes defs. Order is preserved for listing.
func NewCatalog(defs []Definition) (*Catalog, error) {
	if err := validateDefinitions(defs); err != nil {
		return nil, err
	}

	c := &Catalog{
		defs:   make([]Definition, len(defs)),
		byName: make(map[string]int, len(defs)),
	}
	for i, d := range defs {
		c.defs[i] = d.clone()
		c.byName[d.Disease] = i
	}
	return c, nil
}

// Lookup returns the definition for the exact disease name.
func (c *Catalog) Lookup(disease string) (*Definition, error) {
	i, ok := c.byName[disease]
	if !ok {
		return nil, fmt.Errorf("assessment %q: %w", disease, ErrNotFound)
	}
	d := c.defs[i].clone()
	return &d, nil
}

// Len returns the number of definitions.
func (c *Catalog) Len() int {
	return len(c.defs)
}

// Names returns disease names in catalog order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.defs))
	for i, d := range c.defs {
		names[i] = d.Disease
	}
	return names
}

// Categories returns the distinct non-empty categories, sorted.
func (c *Catalog) Categories() []string {
	seen := make(map[string]bool)
	var cats []string
	for _, d := range c.defs {
		if d.Category != "" && !seen[d.Category] {
			seen[d.Category] = true
			cats = append(cats, d.Category)
		}
	}
	slices.Sort(cats)
	return cats
}

// Search returns definitions whose name contains query (case-insensitive)
// and whose category equals category. An empty category or CategoryAll
// matches any category.
func (c *Catalog) Search(query, category string) []Definition {
	q := strings.ToLower(strings.TrimSpace(query))

	var out []Definition
	for _, d := range c.defs {
		if category != "" && category != CategoryAll && d.Category != category {
			continue
		}
		if !strings.Contains(strings.ToLower(d.Disease), q) {
			continue
		}
		out = append(out, d.clone())
	}
	return out
}

// validateDefinitions collects every structural problem in defs.
func validateDefinitions(defs []Definition) error {
	var errs []string

	names := make(map[string]bool, len(defs))
	for i, d := range defs {
		if strings.TrimSpace(d.Disease) == "" {
			errs = append(errs, fmt.Sprintf("definition %d: disease name is blank", i))
		} else if names[d.Disease] {
			errs = append(errs, fmt.Sprintf("duplicate disease %q", d.Disease))
		}
		names[d.Disease] = true

		if len(d.Questions) == 0 {
			errs = append(errs, fmt.Sprintf("disease %q: question list is empty", d.Disease))
		}
		for qi, q := range d.Questions {
			prefix := fmt.Sprintf("disease %q question %d", d.Disease, qi)
			if strings.TrimSpace(q.Text) == "" {
				errs = append(errs, prefix+": text is blank")
			}
			if len(q.Options) == 0 {
				errs = append(errs, prefix+": option list is empty")
			}
			for oi, o := range q.Options {
				if o.Score < 0 {
					errs = append(errs, fmt.Sprintf("%s option %d: score must be >= 0, got %d", prefix, oi, o.Score))
				}
			}
		}
	}

	if len(errs) > 0 {
		return &triage.ConfigError{Table: "assessment definitions", Problems: errs}
	}
	return nil
}
