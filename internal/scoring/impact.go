package scoring

import (
	"github.com/xyleth/codecritic/internal/policy"
)

// EstimateImpact simulates fixing n issues in one detector and returns the
// resulting change in the blended score, rounded to one decimal. Advisory
// only: the input dimension map is copied, never mutated. Unknown detectors,
// zero potential, and absent dimensions all report a 0.0 delta.
func EstimateImpact(snap *policy.Snapshot, scores DimensionScores, detector string, n int) float64 {
	dim, ok := snap.DimensionFor(detector)
	if !ok {
		return 0.0
	}
	dimData, ok := scores[dim.Name]
	if !ok {
		return 0.0
	}
	detData, ok := dimData.Detectors[detector]
	if !ok || detData.Potential <= 0 {
		return 0.0
	}

	oldScore := ComputeHealthScore(snap, scores)

	newWeighted := detData.WeightedFailures - float64(n)
	if newWeighted < 0 {
		newWeighted = 0
	}

	totalPotential := 0
	totalWeighted := 0.0
	for _, det := range dim.Detectors {
		stats, ok := dimData.Detectors[det]
		if !ok {
			continue
		}
		totalPotential += stats.Potential
		if det == detector {
			totalWeighted += newWeighted
		} else {
			totalWeighted += stats.WeightedFailures
		}
	}
	if totalPotential <= 0 {
		return 0.0
	}

	newDimScore := (float64(totalPotential) - totalWeighted) / float64(totalPotential) * 100
	if newDimScore < 0 {
		newDimScore = 0
	}

	simulated := make(DimensionScores, len(scores))
	for name, data := range scores {
		simulated[name] = data
	}
	adjusted := dimData
	adjusted.Score = round1(newDimScore)
	simulated[dim.Name] = adjusted

	return round1(ComputeHealthScore(snap, simulated) - oldScore)
}
