// Package queue builds the ranked "what to do next" list: finding-backed
// work items plus synthetic items for under-scoring subjective dimensions,
// total-ordered deterministically with tier-aware fallback.
package queue

import "github.com/xyleth/codecritic/internal/finding"

// Item is one entry in the work queue. It is a closed set of two variants:
// FindingItem (backed by a stored finding) and GapItem (synthesized for a
// subjective dimension scoring below target). Callers must handle both.
type Item interface {
	// ItemID is the stable identifier used as the final sort tiebreak.
	ItemID() string
	// EffectiveTier is the tier used for selection and histograms.
	EffectiveTier() int

	queueItem()
}

// FindingItem wraps a finding with its queue-ranking attributes.
type FindingItem struct {
	Finding finding.Finding

	// IsReview marks review-detector findings, which always rank first.
	IsReview bool
	// IsSubjective marks assessment-backed findings, which always queue
	// at tier 4 behind mechanical items.
	IsSubjective bool
	// Tier is the effective tier: 1 for review, 4 for subjective,
	// otherwise the finding's own tier.
	Tier int
	// ReviewWeight orders review items (confidence weight, x10 holistic).
	ReviewWeight float64
	// DimensionScore is the current strict score of the finding's
	// subjective dimension; meaningful only when IsSubjective.
	DimensionScore float64
	// Command is the suggested remediation command.
	Command string
}

func (it FindingItem) ItemID() string     { return it.Finding.ID }
func (it FindingItem) EffectiveTier() int { return it.Tier }
func (FindingItem) queueItem()            {}

// GapItem is a synthetic tier-4 item surfacing a subjective dimension whose
// strict score is below the requested threshold, even when no granular
// findings exist for it.
type GapItem struct {
	ID                 string
	DimensionKey       string
	DimensionName      string
	StrictScore        float64
	Issues             int
	OpenReviewFindings int
	Unassessed         bool
	Summary            string
	Command            string
}

func (g GapItem) ItemID() string     { return g.ID }
func (g GapItem) EffectiveTier() int { return finding.TierMax }
func (GapItem) queueItem()           {}
