package queue

import (
	"fmt"
	"sort"

	"github.com/xyleth/codecritic/internal/finding"
)

// key is the comparable total-order key for queue items.
//
// Review items sort in a group of their own ahead of every tier (primary 0),
// by descending review weight then ascending confidence rank. Within a tier,
// subjective/synthetic items (sub 1) sort after mechanical items (sub 0):
// subjective by ascending dimension score (worst first), mechanical by
// ascending confidence rank then descending occurrence count. The final
// tiebreak is always the item id, which makes the order fully deterministic.
type key struct {
	primary int
	sub     int
	a       float64
	b       float64
	id      string
}

func (k key) less(other key) bool {
	if k.primary != other.primary {
		return k.primary < other.primary
	}
	if k.sub != other.sub {
		return k.sub < other.sub
	}
	if k.a != other.a {
		return k.a < other.a
	}
	if k.b != other.b {
		return k.b < other.b
	}
	return k.id < other.id
}

func sortKey(it Item) key {
	switch v := it.(type) {
	case FindingItem:
		if v.IsReview {
			return key{
				primary: 0,
				a:       -v.ReviewWeight,
				b:       float64(confidenceRank(v.Finding.Confidence)),
				id:      v.Finding.ID,
			}
		}
		if v.IsSubjective {
			return key{primary: v.Tier, sub: 1, a: v.DimensionScore, id: v.Finding.ID}
		}
		return key{
			primary: v.Tier,
			a:       float64(confidenceRank(v.Finding.Confidence)),
			b:       -float64(v.Finding.Detail.Count),
			id:      v.Finding.ID,
		}
	case GapItem:
		return key{primary: v.EffectiveTier(), sub: 1, a: v.StrictScore, id: v.ID}
	}
	return key{primary: finding.TierMax + 1, id: it.ItemID()}
}

func confidenceRank(c finding.Confidence) int {
	return c.Rank()
}

func tierCounts(items []Item) map[int]int {
	counts := map[int]int{1: 0, 2: 0, 3: 0, 4: 0}
	for _, it := range items {
		counts[it.EffectiveTier()]++
	}
	return counts
}

func availableTiers(counts map[int]int) []int {
	var tiers []int
	for tier, n := range counts {
		if n > 0 {
			tiers = append(tiers, tier)
		}
	}
	sort.Ints(tiers)
	return tiers
}

func filterTier(items []Item, tier int) []Item {
	var out []Item
	for _, it := range items {
		if it.EffectiveTier() == tier {
			out = append(out, it)
		}
	}
	return out
}

// chooseFallbackTier picks the nearest non-empty tier by absolute distance,
// breaking ties toward the lower tier number.
func chooseFallbackTier(requested int, counts map[int]int) (int, bool) {
	best, found := 0, false
	for tier := finding.TierMin; tier <= finding.TierMax; tier++ {
		if counts[tier] <= 0 {
			continue
		}
		if !found || distance(tier, requested) < distance(best, requested) {
			best, found = tier, true
		}
	}
	return best, found
}

func distance(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}

// Group is one bucket of a grouped queue view.
type Group struct {
	Key   string
	Items []Item
}

// GroupItems re-buckets ranked items by file, detector, or tier. Buckets
// appear in first-occurrence order and preserve the ranked order within.
func GroupItems(items []Item, by string) []Group {
	index := map[string]int{}
	var groups []Group
	for _, it := range items {
		var k string
		switch by {
		case "file":
			if f, ok := it.(FindingItem); ok {
				k = f.Finding.File
			} else {
				k = "."
			}
		case "detector":
			if f, ok := it.(FindingItem); ok {
				k = f.Finding.Detector
			} else {
				k = "subjective_assessment"
			}
		case "tier":
			k = fmt.Sprintf("T%d", it.EffectiveTier())
		default:
			k = "items"
		}
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, Group{Key: k})
		}
		groups[i].Items = append(groups[i].Items, it)
	}
	return groups
}
