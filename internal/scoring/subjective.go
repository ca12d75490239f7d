package scoring

import (
	"math"
	"sort"

	"github.com/xyleth/codecritic/internal/finding"
	"github.com/xyleth/codecritic/internal/policy"
)

// appendSubjective folds externally assessed dimensions into the score map.
//
// Score priority per dimension: a placeholder or integrity-reset assessment
// scores 0; a present assessment scores its clamped value; no assessment
// scores 100 (absence of evidence is not penalized). Open review finding
// counts are attached for display only; resolving review findings never
// moves a subjective score, only a fresh external review does.
func appendSubjective(snap *policy.Snapshot, results DimensionScores, findings []finding.Finding, assessments finding.Assessments, mode Mode) {
	assessed := make(map[string]finding.Assessment, len(assessments))
	for rawKey, a := range assessments {
		key := policy.NormalizeKey(rawKey)
		if key == "" {
			continue
		}
		assessed[key] = a
	}

	var keys []string
	seen := map[string]bool{}
	for _, sd := range snap.SubjectiveDimensions() {
		if !sd.Default {
			continue
		}
		keys = append(keys, sd.Key)
		seen[sd.Key] = true
	}
	var extra []string
	for key := range assessed {
		if !seen[key] {
			extra = append(extra, key)
		}
	}
	sort.Strings(extra)
	keys = append(keys, extra...)

	existing := map[string]bool{}
	for name := range results {
		existing[policy.NormalizeName(name)] = true
	}

	for _, key := range keys {
		assessment, hasAssessment := assessed[key]

		display := snap.SubjectiveDisplay(key)
		if existing[policy.NormalizeName(display)] {
			display += " (subjective)"
		}

		issueCount := 0
		for i := range findings {
			f := &findings[i]
			if f.Detector != "review" && f.Detector != "concerns" {
				continue
			}
			if !mode.CountsAsFailure(f.Status) {
				continue
			}
			if policy.NormalizeKey(f.Detail.Dimension) == key {
				issueCount++
			}
		}

		var score float64
		switch {
		case hasAssessment && (assessment.Placeholder || assessment.IntegrityPenalty == finding.IntegrityPenaltyTargetMatch):
			score = 0
		case hasAssessment:
			score = finding.ClampScore(assessment.Score)
		default:
			score = 100
		}
		passRate := score / 100

		meta := &SubjectiveMeta{
			Key:             key,
			AssessmentScore: round1(finding.ClampScore(assessment.Score)),
			PassRate:        round4(passRate),
			Placeholder:     hasAssessment && assessment.Placeholder,
		}
		if hasAssessment {
			if assessment.ConfiguredWeight > 0 {
				meta.ConfiguredWeight = assessment.ConfiguredWeight
			}
			meta.Components = append([]string(nil), assessment.Components...)
			if len(assessment.ComponentScores) > 0 {
				meta.ComponentScores = make(map[string]float64, len(assessment.ComponentScores))
				for name, v := range assessment.ComponentScores {
					meta.ComponentScores[name] = round1(finding.ClampScore(v))
				}
			}
		}

		results[display] = DimensionScore{
			Score:            round1(score),
			Tier:             finding.TierMax,
			Checks:           policy.SubjectiveChecks,
			Issues:           issueCount,
			WeightedFailures: round4(policy.SubjectiveChecks * (1 - passRate)),
			Subjective:       meta,
		}
	}
}

// IntegrityMeta describes the outcome of the anti-gaming policy.
type IntegrityMeta struct {
	Status  string   `json:"status"`
	Target  float64  `json:"target_score"`
	Matched []string `json:"matched_dimensions"`
	Reset   []string `json:"reset_dimensions"`
}

// ApplyIntegrityPolicy resets any assessment whose score sits within the
// tolerance band of the caller-supplied target. The returned map is a copy;
// the input is never mutated. An assessment flagged here reads back as 0
// through appendSubjective.
func ApplyIntegrityPolicy(assessments finding.Assessments, target float64) (finding.Assessments, IntegrityMeta) {
	target = finding.ClampScore(target)
	meta := IntegrityMeta{Status: "pass", Target: math.Round(target*100) / 100}

	adjusted := make(finding.Assessments, len(assessments))
	for key, a := range assessments {
		if policy.MatchesTarget(finding.ClampScore(a.Score), target) {
			a.Score = 0
			a.IntegrityPenalty = finding.IntegrityPenaltyTargetMatch
			meta.Matched = append(meta.Matched, key)
		}
		adjusted[key] = a
	}
	sort.Strings(meta.Matched)
	if len(meta.Matched) > 0 {
		meta.Status = "penalized"
		meta.Reset = meta.Matched
	}
	return adjusted, meta
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
