package scoring

import (
	"testing"

	"github.com/xyleth/codecritic/internal/finding"
)

func TestComputeDimensionScores(t *testing.T) {
	snap := testSnapshot(t)
	findings := []finding.Finding{
		open("F-1", "unused", "a.go", finding.ConfidenceHigh),
		open("F-2", "smells", "b.go", finding.ConfidenceMedium),
	}
	potentials := finding.Potentials{"unused": 60, "smells": 40}

	scores := ComputeDimensionScores(snap, findings, potentials, nil, ModeLenient)

	cq, ok := scores["Code quality"]
	if !ok {
		t.Fatal("missing Code quality dimension")
	}
	if cq.Checks != 100 {
		t.Errorf("checks = %d, want 100", cq.Checks)
	}
	if cq.Issues != 2 {
		t.Errorf("issues = %d, want 2", cq.Issues)
	}
	// weighted = 1.0 + 0.7; score = (100 - 1.7) / 100 * 100 = 98.3
	if cq.Score != 98.3 {
		t.Errorf("score = %v, want 98.3", cq.Score)
	}
	if cq.Tier != 3 {
		t.Errorf("tier = %d, want 3", cq.Tier)
	}
	if _, ok := cq.Detectors["unused"]; !ok {
		t.Error("missing per-detector stats for unused")
	}

	// Test health has no potentials this run and must be omitted.
	if _, ok := scores["Test health"]; ok {
		t.Error("zero-check dimension was not omitted")
	}
}

func TestDimensionScoreFloorsAtZero(t *testing.T) {
	snap := testSnapshot(t)
	var findings []finding.Finding
	for _, id := range []string{"F-1", "F-2", "F-3", "F-4"} {
		findings = append(findings, open(id, "unused", id+".go", finding.ConfidenceHigh))
	}

	scores := ComputeDimensionScores(snap, findings, finding.Potentials{"unused": 2}, nil, ModeLenient)
	if got := scores["Code quality"].Score; got != 0 {
		t.Errorf("score = %v, want 0", got)
	}
}

func TestModeOrdering(t *testing.T) {
	snap := testSnapshot(t)
	findings := []finding.Finding{
		open("F-1", "unused", "a.go", finding.ConfidenceHigh),
		{ID: "F-2", Detector: "unused", File: "b.go", Tier: 3,
			Confidence: finding.ConfidenceHigh, Status: finding.StatusWontfix},
		{ID: "F-3", Detector: "unused", File: "c.go", Tier: 3,
			Confidence: finding.ConfidenceHigh, Status: finding.StatusFixed},
	}
	potentials := finding.Potentials{"unused": 50}

	byMode := ComputeDimensionScoresByMode(snap, findings, potentials, nil)
	lenient := byMode[ModeLenient]["Code quality"].Score
	strict := byMode[ModeStrict]["Code quality"].Score
	verified := byMode[ModeVerifiedStrict]["Code quality"].Score

	if !(verified <= strict && strict <= lenient) {
		t.Errorf("mode ordering violated: verified %v, strict %v, lenient %v",
			verified, strict, lenient)
	}
	if lenient == strict || strict == verified {
		t.Errorf("expected strictly decreasing scores with these statuses: %v %v %v",
			lenient, strict, verified)
	}
}

func TestScoringIsIdempotent(t *testing.T) {
	snap := testSnapshot(t)
	findings := []finding.Finding{
		open("F-1", "unused", "a.go", finding.ConfidenceHigh),
		open("F-2", "smells", "b.go", finding.ConfidenceLow),
	}
	potentials := finding.Potentials{"unused": 60, "smells": 40}
	assessments := finding.Assessments{"logic_clarity": {Score: 70}}

	first := ComputeBundle(snap, findings, potentials, assessments)
	second := ComputeBundle(snap, findings, potentials, assessments)

	if first.Overall != second.Overall || first.Strict != second.Strict ||
		first.VerifiedStrict != second.VerifiedStrict || first.Objective != second.Objective {
		t.Errorf("repeated scoring diverged: %+v vs %+v", first, second)
	}
}
