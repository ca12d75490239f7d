package scoring

import (
	"math"

	"github.com/xyleth/codecritic/internal/finding"
	"github.com/xyleth/codecritic/internal/policy"
)

// SubjectiveMeta is attached to dimensions scored by external assessment
// rather than deterministic detectors.
type SubjectiveMeta struct {
	Key              string             `json:"dimension_key"`
	AssessmentScore  float64            `json:"assessment_score"`
	PassRate         float64            `json:"pass_rate"`
	Placeholder      bool               `json:"placeholder"`
	ConfiguredWeight float64            `json:"configured_weight,omitempty"`
	Components       []string           `json:"components,omitempty"`
	ComponentScores  map[string]float64 `json:"component_scores,omitempty"`
}

// DimensionScore is one dimension's aggregate under one scoring mode.
type DimensionScore struct {
	Score            float64                  `json:"score"`
	Tier             int                      `json:"tier"`
	Checks           int                      `json:"checks"`
	Issues           int                      `json:"issues"`
	WeightedFailures float64                  `json:"weighted_failures"`
	Detectors        map[string]DetectorStats `json:"detectors,omitempty"`
	Subjective       *SubjectiveMeta          `json:"subjective,omitempty"`
}

// IsSubjective reports whether the dimension is assessment-scored.
func (d DimensionScore) IsSubjective() bool { return d.Subjective != nil }

// DimensionScores maps dimension display name to its score entry.
type DimensionScores map[string]DimensionScore

// Mechanical returns the subset of entries not scored by assessment.
func (ds DimensionScores) Mechanical() DimensionScores {
	out := make(DimensionScores, len(ds))
	for name, data := range ds {
		if !data.IsSubjective() {
			out[name] = data
		}
	}
	return out
}

// ComputeDimensionScoresByMode aggregates detector stats into dimension
// scores for all three modes in one pass, then folds in subjective
// dimensions. Dimensions with zero total checks are omitted for the run.
func ComputeDimensionScoresByMode(snap *policy.Snapshot, findings []finding.Finding, potentials finding.Potentials, assessments finding.Assessments) map[Mode]DimensionScores {
	results := make(map[Mode]DimensionScores, len(Modes))
	for _, mode := range Modes {
		results[mode] = DimensionScores{}
	}

	for _, dim := range snap.Dimensions() {
		type totals struct {
			checks    int
			issues    int
			weighted  float64
			detectors map[string]DetectorStats
		}
		perMode := make(map[Mode]*totals, len(Modes))
		for _, mode := range Modes {
			perMode[mode] = &totals{detectors: map[string]DetectorStats{}}
		}

		for _, detector := range dim.Detectors {
			potential := potentials[detector]
			if potential <= 0 {
				continue
			}
			stats := DetectorStatsByMode(snap, detector, findings, potential)
			for _, mode := range Modes {
				t := perMode[mode]
				s := stats[mode]
				t.checks += potential
				t.issues += s.Issues
				t.weighted += s.WeightedFailures
				t.detectors[detector] = s
			}
		}

		for _, mode := range Modes {
			t := perMode[mode]
			if t.checks <= 0 {
				continue
			}
			score := (float64(t.checks) - t.weighted) / float64(t.checks) * 100
			if score < 0 {
				score = 0
			}
			results[mode][dim.Name] = DimensionScore{
				Score:            round1(score),
				Tier:             dim.Tier,
				Checks:           t.checks,
				Issues:           t.issues,
				WeightedFailures: t.weighted,
				Detectors:        t.detectors,
			}
		}
	}

	for _, mode := range Modes {
		appendSubjective(snap, results[mode], findings, assessments, mode)
	}
	return results
}

// ComputeDimensionScores is the single-mode convenience form.
func ComputeDimensionScores(snap *policy.Snapshot, findings []finding.Finding, potentials finding.Potentials, assessments finding.Assessments, mode Mode) DimensionScores {
	return ComputeDimensionScoresByMode(snap, findings, potentials, assessments)[mode]
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
