package snapshot

import (
	"fmt"
)

// ValidationError describes a single structural violation in a snapshot.
type ValidationError struct {
	Path    string
	Message string
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Path, v.Message)
}

// Validate checks a snapshot for structural validity. Out-of-range scores
// are not errors (the scoring core clamps them); malformed identities and
// unknown enum values are.
func (d *Document) Validate() []ValidationError {
	var errs []ValidationError

	ids := make(map[string]bool, len(d.Findings))
	for i, f := range d.Findings {
		prefix := fmt.Sprintf("findings[%d]", i)
		if f.ID == "" {
			errs = append(errs, ValidationError{prefix + ".id", "required"})
		} else if ids[f.ID] {
			errs = append(errs, ValidationError{prefix + ".id", fmt.Sprintf("duplicate ID: %q", f.ID)})
		} else {
			ids[f.ID] = true
		}
		if f.Detector == "" {
			errs = append(errs, ValidationError{prefix + ".detector", "required"})
		}
		if f.File == "" {
			errs = append(errs, ValidationError{prefix + ".file", "required"})
		}
		if !f.Status.Valid() {
			errs = append(errs, ValidationError{prefix + ".status", fmt.Sprintf("invalid: %q", f.Status)})
		}
		if !f.Confidence.Valid() {
			errs = append(errs, ValidationError{prefix + ".confidence", fmt.Sprintf("invalid: %q", f.Confidence)})
		}
		if f.Tier < 1 || f.Tier > 4 {
			errs = append(errs, ValidationError{prefix + ".tier", fmt.Sprintf("must be 1-4, got %d", f.Tier)})
		}
		if f.Zone != "" && !f.Zone.Valid() {
			errs = append(errs, ValidationError{prefix + ".zone", fmt.Sprintf("invalid: %q", f.Zone)})
		}
		if f.ReopenCount < 0 {
			errs = append(errs, ValidationError{prefix + ".reopen_count", "must be >= 0"})
		}
	}

	for lang, pots := range d.Potentials {
		for detector, count := range pots {
			if count < 0 {
				errs = append(errs, ValidationError{
					fmt.Sprintf("potentials[%s][%s]", lang, detector),
					fmt.Sprintf("must be >= 0, got %d", count),
				})
			}
		}
	}

	for key := range d.Assessments {
		if key == "" {
			errs = append(errs, ValidationError{"subjective_assessments", "empty dimension key"})
		}
	}

	return errs
}
