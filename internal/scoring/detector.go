package scoring

import (
	"github.com/xyleth/codecritic/internal/finding"
	"github.com/xyleth/codecritic/internal/policy"
)

// DetectorStats is the per-detector contribution to a dimension under one
// scoring mode.
type DetectorStats struct {
	Potential        int     `json:"potential"`
	PassRate         float64 `json:"pass_rate"`
	Issues           int     `json:"issues"`
	WeightedFailures float64 `json:"weighted_failures"`
}

func neutralStats(potential int) DetectorStats {
	return DetectorStats{Potential: potential, PassRate: 1.0}
}

// fileCountCap is the tiered per-file cap for non-LOC file-based detectors.
// Concentration dampening: one hot file cannot linearly blow out the penalty.
func fileCountCap(findingsInFile int) float64 {
	switch {
	case findingsInFile >= 6:
		return 2.0
	case findingsInFile >= 3:
		return 1.5
	default:
		return 1.0
	}
}

// DetectorStatsByMode computes (pass rate, issue count, weighted failures)
// for one detector under every scoring mode.
//
// Zero or negative potential means "no applicable checks" and is neutral,
// never penalizing. Review and concern findings are scored through
// subjective assessments only, so those detectors are always perfect here.
func DetectorStatsByMode(snap *policy.Snapshot, detector string, findings []finding.Finding, potential int) map[Mode]DetectorStats {
	out := make(map[Mode]DetectorStats, len(Modes))
	if potential <= 0 || detector == "review" || detector == "concerns" {
		for _, mode := range Modes {
			out[mode] = neutralStats(potential)
		}
		return out
	}

	pol := snap.Policy(detector)

	type acc struct {
		byFile      map[string]float64
		byFileCount map[string]int
		fileCap     map[string]float64
		holistic    float64
		flat        float64
		issues      int
	}
	accs := make(map[Mode]*acc, len(Modes))
	for _, mode := range Modes {
		accs[mode] = &acc{
			byFile:      map[string]float64{},
			byFileCount: map[string]int{},
			fileCap:     map[string]float64{},
		}
	}

	for i := range findings {
		f := &findings[i]
		if f.Detector != detector {
			continue
		}
		if pol.ZoneExcluded(f.EffectiveZone()) {
			continue
		}
		for _, mode := range Modes {
			if !mode.CountsAsFailure(f.Status) {
				continue
			}
			a := accs[mode]
			a.issues++

			// Holistic findings bypass per-file capping in every
			// weighting mode and always use the confidence weight.
			if f.Holistic() {
				a.holistic += f.Weight(false) * policy.HolisticMultiplier
				continue
			}

			if !pol.FileBased {
				a.flat += f.Weight(false)
				continue
			}

			w := f.Weight(pol.UseLOCWeight)
			a.byFile[f.File] += w
			a.byFileCount[f.File]++
			if pol.UseLOCWeight {
				if _, seen := a.fileCap[f.File]; !seen {
					a.fileCap[f.File] = w
				}
			}
		}
	}

	for _, mode := range Modes {
		a := accs[mode]
		weighted := a.flat + a.holistic
		for file, sum := range a.byFile {
			limit := sum
			if pol.UseLOCWeight {
				if c, ok := a.fileCap[file]; ok {
					limit = c
				}
			} else {
				limit = fileCountCap(a.byFileCount[file])
			}
			if sum < limit {
				limit = sum
			}
			weighted += limit
		}
		passRate := (float64(potential) - weighted) / float64(potential)
		if passRate < 0 {
			passRate = 0
		}
		out[mode] = DetectorStats{
			Potential:        potential,
			PassRate:         passRate,
			Issues:           a.issues,
			WeightedFailures: weighted,
		}
	}
	return out
}
