package queue

import (
	"fmt"

	"github.com/xyleth/codecritic/internal/finding"
)

// Explanation is the per-item ranking rationale: the exact tie-break chain
// as a machine-readable factor list plus a one-sentence rendering.
type Explanation struct {
	ID             string   `json:"id"`
	Kind           string   `json:"kind"`
	EffectiveTier  int      `json:"effective_tier"`
	Confidence     string   `json:"confidence,omitempty"`
	ConfidenceRank int      `json:"confidence_rank,omitempty"`
	ReviewWeight   float64  `json:"review_weight,omitempty"`
	Score          float64  `json:"subjective_score,omitempty"`
	Count          int      `json:"count,omitempty"`
	Factors        []string `json:"ranking_factors"`
	Sentence       string   `json:"sentence"`
}

// Explain decorates ranked items with their ranking rationale. It is a
// separate stage applied after ranking so the ranker itself stays pure.
func Explain(items []Item) []Explanation {
	out := make([]Explanation, 0, len(items))
	for _, it := range items {
		out = append(out, explainItem(it))
	}
	return out
}

func explainItem(it Item) Explanation {
	switch v := it.(type) {
	case FindingItem:
		if v.IsReview {
			return Explanation{
				ID:             v.Finding.ID,
				Kind:           "finding",
				EffectiveTier:  v.Tier,
				Confidence:     string(v.Finding.Confidence),
				ConfidenceRank: v.Finding.Confidence.Rank(),
				ReviewWeight:   v.ReviewWeight,
				Factors:        []string{"review_priority", "review_weight desc", "confidence asc", "id asc"},
				Sentence: fmt.Sprintf(
					"Open review findings always rank first; this one has review weight %.1f, %s confidence, and id %q breaks remaining ties.",
					v.ReviewWeight, v.Finding.Confidence, v.Finding.ID),
			}
		}
		if v.IsSubjective {
			return Explanation{
				ID:            v.Finding.ID,
				Kind:          "finding",
				EffectiveTier: v.Tier,
				Confidence:    string(v.Finding.Confidence),
				Score:         v.DimensionScore,
				Factors:       []string{"tier fixed to T4", "subjective_score asc", "id asc"},
				Sentence: fmt.Sprintf(
					"Subjective findings are forced to T%d behind mechanical items; its dimension scores %.1f and id %q breaks remaining ties.",
					finding.TierMax, v.DimensionScore, v.Finding.ID),
			}
		}
		return Explanation{
			ID:             v.Finding.ID,
			Kind:           "finding",
			EffectiveTier:  v.Tier,
			Confidence:     string(v.Finding.Confidence),
			ConfidenceRank: v.Finding.Confidence.Rank(),
			Count:          v.Finding.Detail.Count,
			Factors:        []string{"tier asc", "confidence asc", "count desc", "id asc"},
			Sentence: fmt.Sprintf(
				"Tier %d item ordered by %s confidence, then %d occurrences, and id %q breaks remaining ties.",
				v.Tier, v.Finding.Confidence, v.Finding.Detail.Count, v.Finding.ID),
		}
	case GapItem:
		return Explanation{
			ID:            v.ID,
			Kind:          "subjective_dimension",
			EffectiveTier: v.EffectiveTier(),
			Score:         v.StrictScore,
			Factors:       []string{"tier asc", "subjective_score asc", "id asc"},
			Sentence: fmt.Sprintf(
				"Subjective dimensions always queue as T%d and never outrank mechanical work; %s scores %.1f, worst first.",
				finding.TierMax, v.DimensionName, v.StrictScore),
		}
	}
	return Explanation{ID: it.ItemID(), Kind: "unknown", EffectiveTier: it.EffectiveTier()}
}
