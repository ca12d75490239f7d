package scoring

import (
	"sort"

	"github.com/xyleth/codecritic/internal/finding"
	"github.com/xyleth/codecritic/internal/policy"
)

// BreakdownEntry explains one dimension's share of the blended score.
type BreakdownEntry struct {
	Name             string  `json:"name"`
	Pool             string  `json:"pool"`
	Score            float64 `json:"score"`
	Checks           float64 `json:"checks"`
	SampleFactor     float64 `json:"sample_factor"`
	ConfiguredWeight float64 `json:"configured_weight"`
	EffectiveWeight  float64 `json:"effective_weight"`
	PoolShare        float64 `json:"pool_share"`
	PerPoint         float64 `json:"overall_per_point"`
	Contribution     float64 `json:"overall_contribution"`
	Drag             float64 `json:"overall_drag"`
}

// Breakdown is the transparent decomposition of one blended score.
type Breakdown struct {
	Overall            float64          `json:"overall_score"`
	MechanicalFraction float64          `json:"mechanical_fraction"`
	SubjectiveFraction float64          `json:"subjective_fraction"`
	MechanicalAvg      float64          `json:"mechanical_avg"`
	SubjectiveAvg      *float64         `json:"subjective_avg"`
	Entries            []BreakdownEntry `json:"entries"`
}

type poolRow struct {
	name       string
	score      float64
	checks     float64
	sample     float64
	configured float64
	effective  float64
}

// ComputeBreakdown blends mechanical and subjective dimension scores into
// one headline score with full per-dimension attribution.
//
// Mechanical effective weight is the configured dimension weight dampened by
// min(1, checks/MinSample); subjective effective weight is the configured
// weight alone. When both pools are non-empty the subjective pool
// contributes a fixed 60%; a single non-empty pool takes 100%.
func ComputeBreakdown(snap *policy.Snapshot, scores DimensionScores) Breakdown {
	if len(scores) == 0 {
		return Breakdown{
			Overall:            100.0,
			MechanicalFraction: 1.0,
			MechanicalAvg:      100.0,
			Entries:            []BreakdownEntry{},
		}
	}

	names := make([]string, 0, len(scores))
	for name := range scores {
		names = append(names, name)
	}
	sort.Strings(names)

	var mechRows, subjRows []poolRow
	var mechSum, mechWeight, subjSum, subjWeight float64

	for _, name := range names {
		data := scores[name]
		if data.IsSubjective() {
			configured := data.Subjective.ConfiguredWeight
			if configured <= 0 {
				configured = snap.SubjectiveWeight(data.Subjective.Key)
			}
			if configured < 0 {
				configured = 0
			}
			subjSum += data.Score * configured
			subjWeight += configured
			subjRows = append(subjRows, poolRow{
				name: name, score: data.Score,
				sample: 1.0, configured: configured, effective: configured,
			})
			continue
		}

		checks := float64(data.Checks)
		sample := 0.0
		if checks > 0 {
			sample = checks / policy.MinSample
			if sample > 1 {
				sample = 1
			}
		}
		configured := snap.MechanicalWeight(name)
		effective := configured * sample
		mechSum += data.Score * effective
		mechWeight += effective
		mechRows = append(mechRows, poolRow{
			name: name, score: data.Score, checks: checks,
			sample: sample, configured: configured, effective: effective,
		})
	}

	mechAvg := 100.0
	if mechWeight > 0 {
		mechAvg = mechSum / mechWeight
	}
	var subjAvg *float64
	if subjWeight > 0 {
		v := subjSum / subjWeight
		subjAvg = &v
	}

	var mechFraction, subjFraction, overall float64
	switch {
	case subjAvg == nil:
		mechFraction, subjFraction = 1.0, 0.0
		overall = round1(mechAvg)
	case mechWeight == 0:
		mechFraction, subjFraction = 0.0, 1.0
		overall = round1(*subjAvg)
	default:
		mechFraction, subjFraction = policy.MechanicalFraction, policy.SubjectiveFraction
		overall = round1(mechAvg*mechFraction + *subjAvg*subjFraction)
	}

	entries := make([]BreakdownEntry, 0, len(mechRows)+len(subjRows))
	for _, row := range mechRows {
		entries = append(entries, breakdownEntry(row, "mechanical", mechFraction, mechWeight))
	}
	for _, row := range subjRows {
		entries = append(entries, breakdownEntry(row, "subjective", subjFraction, subjWeight))
	}

	return Breakdown{
		Overall:            overall,
		MechanicalFraction: mechFraction,
		SubjectiveFraction: subjFraction,
		MechanicalAvg:      mechAvg,
		SubjectiveAvg:      subjAvg,
		Entries:            entries,
	}
}

func breakdownEntry(row poolRow, pool string, fraction, poolWeight float64) BreakdownEntry {
	share := 0.0
	if poolWeight > 0 {
		share = row.effective / poolWeight
	}
	perPoint := fraction * share
	return BreakdownEntry{
		Name:             row.name,
		Pool:             pool,
		Score:            row.score,
		Checks:           row.checks,
		SampleFactor:     row.sample,
		ConfiguredWeight: row.configured,
		EffectiveWeight:  row.effective,
		PoolShare:        share,
		PerPoint:         perPoint,
		Contribution:     perPoint * row.score,
		Drag:             perPoint * (100.0 - row.score),
	}
}

// ComputeHealthScore is the blend without the attribution detail.
func ComputeHealthScore(snap *policy.Snapshot, scores DimensionScores) float64 {
	return ComputeBreakdown(snap, scores).Overall
}

// Bundle holds every score channel derived from one scoring pass.
type Bundle struct {
	Overall                  float64         `json:"overall_score"`
	Objective                float64         `json:"objective_score"`
	Strict                   float64         `json:"strict_score"`
	VerifiedStrict           float64         `json:"verified_strict_score"`
	Dimensions               DimensionScores `json:"dimension_scores"`
	StrictDimensions         DimensionScores `json:"strict_dimension_scores"`
	VerifiedStrictDimensions DimensionScores `json:"verified_strict_dimension_scores"`
}

// ComputeBundle derives all four score channels from one pass: overall,
// strict, and verified_strict blend the full dimension set at the matching
// failure mode; objective blends the lenient mechanical-only subset.
func ComputeBundle(snap *policy.Snapshot, findings []finding.Finding, potentials finding.Potentials, assessments finding.Assessments) Bundle {
	byMode := ComputeDimensionScoresByMode(snap, findings, potentials, assessments)
	lenient := byMode[ModeLenient]
	strict := byMode[ModeStrict]
	verified := byMode[ModeVerifiedStrict]

	return Bundle{
		Overall:                  ComputeHealthScore(snap, lenient),
		Objective:                ComputeHealthScore(snap, lenient.Mechanical()),
		Strict:                   ComputeHealthScore(snap, strict),
		VerifiedStrict:           ComputeHealthScore(snap, verified),
		Dimensions:               lenient,
		StrictDimensions:         strict,
		VerifiedStrictDimensions: verified,
	}
}
