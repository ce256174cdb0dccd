package triage

import "fmt"

// validateThresholds performs all structural checks on an ascending list of
// thresholds. Returns a *ConfigError describing every problem found, or nil.
func validateThresholds(name string, sorted []Threshold) error {
	var errs []string

	if len(sorted) == 0 {
		errs = append(errs, "table is empty")
	}

	for i, th := range sorted {
		prefix := fmt.Sprintf("threshold %d (tier %q)", i, th.Tier)
		if th.MinScore < 0 {
			errs = append(errs, fmt.Sprintf("%s: MinScore must be >= 0, got %d", prefix, th.MinScore))
		}
		if !th.Tier.Valid() {
			errs = append(errs, fmt.Sprintf("%s: unknown tier", prefix))
		}
		if th.Label == "" {
			errs = append(errs, fmt.Sprintf("%s: Label must not be empty", prefix))
		}
		if i > 0 && th.MinScore == sorted[i-1].MinScore {
			errs = append(errs, fmt.Sprintf("%s: duplicate MinScore %d", prefix, th.MinScore))
		}
	}

	// Tiers must rise with MinScore so a higher score never maps to a lower tier.
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Tier.Valid() && sorted[i-1].Tier.Valid() && sorted[i].Tier.Rank() <= sorted[i-1].Tier.Rank() {
			errs = append(errs, fmt.Sprintf("tier %q at MinScore %d does not rank above %q at MinScore %d",
				sorted[i].Tier, sorted[i].MinScore, sorted[i-1].Tier, sorted[i-1].MinScore))
		}
	}

	if len(sorted) > 0 && sorted[0].MinScore != 0 {
		errs = append(errs, fmt.Sprintf("no threshold with MinScore 0 (lowest is %d)", sorted[0].MinScore))
	}

	if len(errs) > 0 {
		return &ConfigError{Table: fmt.Sprintf("threshold table %q", name), Problems: errs}
	}
	return nil
}
