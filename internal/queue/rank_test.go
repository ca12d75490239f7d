package queue

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/xyleth/codecritic/internal/finding"
)

func TestChooseFallbackTier(t *testing.T) {
	tests := []struct {
		name      string
		requested int
		counts    map[int]int
		want      int
		wantFound bool
	}{
		{"nearest above", 1, map[int]int{1: 0, 2: 3, 3: 0, 4: 0}, 2, true},
		{"nearest below", 4, map[int]int{1: 0, 2: 0, 3: 2, 4: 0}, 3, true},
		{"tie prefers lower", 3, map[int]int{1: 0, 2: 1, 3: 0, 4: 1}, 2, true},
		{"all empty", 2, map[int]int{1: 0, 2: 0, 3: 0, 4: 0}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := chooseFallbackTier(tt.requested, tt.counts)
			if got != tt.want || found != tt.wantFound {
				t.Errorf("chooseFallbackTier(%d) = %d, %v; want %d, %v",
					tt.requested, got, found, tt.want, tt.wantFound)
			}
		})
	}
}

func TestSortKeyIDTiebreak(t *testing.T) {
	a := FindingItem{Finding: finding.Finding{ID: "F-A", Confidence: finding.ConfidenceHigh}, Tier: 2}
	b := FindingItem{Finding: finding.Finding{ID: "F-B", Confidence: finding.ConfidenceHigh}, Tier: 2}

	if !sortKey(a).less(sortKey(b)) {
		t.Error("identical keys must break ties by id")
	}
	if sortKey(b).less(sortKey(a)) {
		t.Error("tiebreak is not antisymmetric")
	}
}

func TestSortKeySubjectiveAfterMechanical(t *testing.T) {
	mech := FindingItem{Finding: finding.Finding{ID: "M-1", Confidence: finding.ConfidenceLow}, Tier: 4}
	subj := FindingItem{Finding: finding.Finding{ID: "A-1"}, IsSubjective: true, Tier: 4, DimensionScore: 0}

	// Even a zero-scoring subjective item stays behind tier-4 mechanical work.
	if !sortKey(mech).less(sortKey(subj)) {
		t.Error("subjective item outranked mechanical item in same tier")
	}
}

func TestAvailableTiers(t *testing.T) {
	got := availableTiers(map[int]int{1: 0, 2: 3, 3: 0, 4: 1})
	if diff := cmp.Diff([]int{2, 4}, got); diff != "" {
		t.Errorf("availableTiers mismatch (-want +got):\n%s", diff)
	}
}

func TestGroupItems(t *testing.T) {
	items := []Item{
		FindingItem{Finding: finding.Finding{ID: "F-1", Detector: "unused", File: "a.go"}, Tier: 2},
		FindingItem{Finding: finding.Finding{ID: "F-2", Detector: "smells", File: "b.go"}, Tier: 3},
		FindingItem{Finding: finding.Finding{ID: "F-3", Detector: "unused", File: "a.go"}, Tier: 2},
		GapItem{ID: "subjective::logic_clarity", DimensionName: "Logic Clarity"},
	}

	byFile := GroupItems(items, "file")
	wantKeys := []string{"a.go", "b.go", "."}
	for i, g := range byFile {
		if g.Key != wantKeys[i] {
			t.Errorf("file group %d = %q, want %q", i, g.Key, wantKeys[i])
		}
	}
	if len(byFile[0].Items) != 2 {
		t.Errorf("a.go group has %d items, want 2", len(byFile[0].Items))
	}

	byDetector := GroupItems(items, "detector")
	if byDetector[len(byDetector)-1].Key != "subjective_assessment" {
		t.Errorf("gap item grouped under %q", byDetector[len(byDetector)-1].Key)
	}

	byTier := GroupItems(items, "tier")
	if byTier[0].Key != "T2" {
		t.Errorf("first tier group = %q, want T2", byTier[0].Key)
	}

	flat := GroupItems(items, "")
	if len(flat) != 1 || flat[0].Key != "items" {
		t.Errorf("ungrouped = %+v", flat)
	}
}
