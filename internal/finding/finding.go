// Package finding defines the read-only input types for the scoring core:
// findings, per-detector opportunity counts, and subjective assessments.
package finding

// Detail carries detector-specific metadata attached to a finding.
type Detail struct {
	// LOCWeight is an explicit per-finding weight used by LOC-weighted
	// detectors (e.g. test coverage). Zero means "unset"; treated as 1.0.
	LOCWeight float64 `json:"loc_weight,omitempty"`
	// Holistic marks a codebase-wide finding (file "."). Holistic findings
	// are weighted x10 and bypass per-file capping.
	Holistic bool `json:"holistic,omitempty"`
	// Dimension is the subjective dimension key a review finding belongs to.
	Dimension string `json:"dimension,omitempty"`
	// DimensionName is the display form of Dimension.
	DimensionName string `json:"dimension_name,omitempty"`
	// Count is the occurrence count for aggregate findings.
	Count int `json:"count,omitempty"`
	// Investigation holds free-form triage notes.
	Investigation string `json:"investigation,omitempty"`
}

// Finding is one uniquely identified flagged issue with a lifecycle status.
// Findings are owned by the persistent store; the scoring core only reads them.
type Finding struct {
	ID          string     `json:"id"`
	Detector    string     `json:"detector"`
	File        string     `json:"file"`
	Tier        int        `json:"tier"`
	Confidence  Confidence `json:"confidence"`
	Status      Status     `json:"status"`
	Zone        Zone       `json:"zone,omitempty"`
	Lang        string     `json:"lang,omitempty"`
	Summary     string     `json:"summary"`
	Detail      Detail     `json:"detail"`
	ReopenCount int        `json:"reopen_count,omitempty"`
	Suppressed  bool       `json:"suppressed,omitempty"`
}

// Holistic reports whether the finding is codebase-wide.
func (f *Finding) Holistic() bool {
	return f.File == "." && f.Detail.Holistic
}

// EffectiveZone returns the finding's zone, defaulting to production.
func (f *Finding) EffectiveZone() Zone {
	if f.Zone == "" {
		return ZoneProduction
	}
	return f.Zone
}

// Weight returns the finding's scoring weight. When useLOC is set the
// explicit LOC weight wins (unset LOC weight counts as 1.0); otherwise
// the confidence weight applies.
func (f *Finding) Weight(useLOC bool) float64 {
	if useLOC {
		if f.Detail.LOCWeight > 0 {
			return f.Detail.LOCWeight
		}
		return 1.0
	}
	return f.Confidence.Weight()
}

// Potentials maps detector name to its opportunity count for one run.
// A zero count means "not applicable" and is never an error.
type Potentials map[string]int

// Merge sums potentials across per-language maps into one table.
func Merge(perLang map[string]Potentials) Potentials {
	merged := Potentials{}
	for _, pots := range perLang {
		for detector, count := range pots {
			merged[detector] += count
		}
	}
	return merged
}

// Assessment is an externally produced subjective score for one dimension.
// Only a fresh external review replaces it; the core never writes one.
type Assessment struct {
	Score            float64            `json:"score"`
	Placeholder      bool               `json:"placeholder,omitempty"`
	IntegrityPenalty string             `json:"integrity_penalty,omitempty"`
	ConfiguredWeight float64            `json:"configured_weight,omitempty"`
	Components       []string           `json:"components,omitempty"`
	ComponentScores  map[string]float64 `json:"component_scores,omitempty"`
}

// IntegrityPenaltyTargetMatch marks an assessment reset for clustering on
// the integrity target score.
const IntegrityPenaltyTargetMatch = "target_match_reset"

// Assessments maps normalized dimension key to its assessment.
type Assessments map[string]Assessment

// ClampScore bounds a score to [0, 100]. Upstream data is not fully
// trusted, so out-of-range values are clamped rather than rejected.
func ClampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
