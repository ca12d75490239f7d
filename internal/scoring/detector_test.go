package scoring

import (
	"testing"

	"github.com/xyleth/codecritic/internal/finding"
	"github.com/xyleth/codecritic/internal/policy"
)

// testSnapshot builds a small controlled policy table.
func testSnapshot(t *testing.T) *policy.Snapshot {
	t.Helper()
	r := policy.NewEmptyRegistry(
		[]policy.Dimension{
			{Name: "Code quality", Tier: 3, Weight: 1.0},
			{Name: "Test health", Tier: 4, Weight: 1.0},
		},
		[]policy.SubjectiveDimension{
			{Key: "logic_clarity", Display: "Logic Clarity", Weight: 6, Default: true},
		},
	)
	r.Register(policy.DetectorPolicy{Detector: "unused", Dimension: "Code quality", Tier: 3})
	r.Register(policy.DetectorPolicy{Detector: "smells", Dimension: "Code quality", Tier: 3, FileBased: true})
	r.Register(policy.DetectorPolicy{Detector: "test_coverage", Dimension: "Test health", Tier: 4, FileBased: true, UseLOCWeight: true})
	r.Register(policy.DetectorPolicy{Detector: "review", FileBased: true})
	return r.Snapshot()
}

func open(id, detector, file string, conf finding.Confidence) finding.Finding {
	return finding.Finding{
		ID: id, Detector: detector, File: file, Tier: 3,
		Confidence: conf, Status: finding.StatusOpen,
	}
}

func TestDetectorStatsModes(t *testing.T) {
	snap := testSnapshot(t)
	findings := []finding.Finding{
		open("F-1", "unused", "a.go", finding.ConfidenceHigh),
		{ID: "F-2", Detector: "unused", File: "b.go", Tier: 3,
			Confidence: finding.ConfidenceMedium, Status: finding.StatusWontfix},
		{ID: "F-3", Detector: "unused", File: "c.go", Tier: 3,
			Confidence: finding.ConfidenceLow, Status: finding.StatusFixed},
		{ID: "F-4", Detector: "unused", File: "d.go", Tier: 3,
			Confidence: finding.ConfidenceHigh, Status: finding.StatusAutoResolved},
	}

	stats := DetectorStatsByMode(snap, "unused", findings, 10)

	tests := []struct {
		mode         Mode
		wantWeighted float64
		wantIssues   int
	}{
		{ModeLenient, 1.0, 1},
		{ModeStrict, 1.7, 2},
		{ModeVerifiedStrict, 2.0, 3},
	}
	for _, tt := range tests {
		got := stats[tt.mode]
		if got.Issues != tt.wantIssues {
			t.Errorf("%s issues = %d, want %d", tt.mode, got.Issues, tt.wantIssues)
		}
		if !closeTo(got.WeightedFailures, tt.wantWeighted) {
			t.Errorf("%s weighted = %v, want %v", tt.mode, got.WeightedFailures, tt.wantWeighted)
		}
		if got.Potential != 10 {
			t.Errorf("%s potential = %d, want 10", tt.mode, got.Potential)
		}
	}

	// auto_resolved never counts.
	if stats[ModeVerifiedStrict].Issues != 3 {
		t.Errorf("auto_resolved counted as failure")
	}
}

func TestDetectorStatsNeutralCases(t *testing.T) {
	snap := testSnapshot(t)
	findings := []finding.Finding{open("F-1", "review", "a.go", finding.ConfidenceHigh)}

	for _, detector := range []string{"review", "concerns"} {
		stats := DetectorStatsByMode(snap, detector, findings, 10)
		for _, mode := range Modes {
			if got := stats[mode]; got.PassRate != 1.0 || got.WeightedFailures != 0 {
				t.Errorf("%s/%s = %+v, want neutral", detector, mode, got)
			}
		}
	}

	stats := DetectorStatsByMode(snap, "unused", findings, 0)
	if got := stats[ModeLenient]; got.PassRate != 1.0 || got.Potential != 0 {
		t.Errorf("zero potential = %+v, want neutral", got)
	}
}

func TestFileCapByCount(t *testing.T) {
	snap := testSnapshot(t)

	tests := []struct {
		name         string
		perFile      int
		conf         finding.Confidence
		wantWeighted float64
	}{
		{"2 findings stay uncapped", 2, finding.ConfidenceHigh, 2.0},
		{"3 findings cap at 1.5", 3, finding.ConfidenceHigh, 1.5},
		{"5 findings cap at 1.5", 5, finding.ConfidenceHigh, 1.5},
		{"6 findings cap at 2.0", 6, finding.ConfidenceHigh, 2.0},
		{"3 low stay under cap", 3, finding.ConfidenceLow, 0.9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var findings []finding.Finding
			for i := 0; i < tt.perFile; i++ {
				findings = append(findings, open(
					"F-"+string(rune('a'+i)), "smells", "hot.go", tt.conf))
			}
			stats := DetectorStatsByMode(snap, "smells", findings, 100)
			if got := stats[ModeLenient].WeightedFailures; !closeTo(got, tt.wantWeighted) {
				t.Errorf("weighted = %v, want %v", got, tt.wantWeighted)
			}
		})
	}
}

func TestFileCapPerFileIndependent(t *testing.T) {
	snap := testSnapshot(t)
	var findings []finding.Finding
	for i := 0; i < 6; i++ {
		findings = append(findings, open("A-"+string(rune('a'+i)), "smells", "a.go", finding.ConfidenceHigh))
	}
	findings = append(findings, open("B-1", "smells", "b.go", finding.ConfidenceHigh))

	stats := DetectorStatsByMode(snap, "smells", findings, 100)
	// a.go caps at 2.0, b.go contributes 1.0.
	if got := stats[ModeLenient].WeightedFailures; !closeTo(got, 3.0) {
		t.Errorf("weighted = %v, want 3.0", got)
	}
}

func TestLOCWeightCapUsesFirstFinding(t *testing.T) {
	snap := testSnapshot(t)
	findings := []finding.Finding{
		{ID: "F-1", Detector: "test_coverage", File: "a.go", Tier: 4,
			Confidence: finding.ConfidenceHigh, Status: finding.StatusOpen,
			Detail: finding.Detail{LOCWeight: 0.5}},
		{ID: "F-2", Detector: "test_coverage", File: "a.go", Tier: 4,
			Confidence: finding.ConfidenceHigh, Status: finding.StatusOpen,
			Detail: finding.Detail{LOCWeight: 2.0}},
	}

	stats := DetectorStatsByMode(snap, "test_coverage", findings, 100)
	// The file's penalty caps at its first qualifying finding's LOC weight.
	if got := stats[ModeLenient].WeightedFailures; !closeTo(got, 0.5) {
		t.Errorf("weighted = %v, want 0.5", got)
	}
}

func TestHolisticBypassesCapping(t *testing.T) {
	snap := testSnapshot(t)
	holistic := finding.Finding{
		ID: "H-1", Detector: "smells", File: ".", Tier: 3,
		Confidence: finding.ConfidenceMedium, Status: finding.StatusOpen,
		Detail: finding.Detail{Holistic: true},
	}

	stats := DetectorStatsByMode(snap, "smells", []finding.Finding{holistic}, 100)
	if got := stats[ModeLenient].WeightedFailures; !closeTo(got, 7.0) {
		t.Errorf("holistic weighted = %v, want 7.0 (0.7 x 10)", got)
	}

	// Same multiplier for non-file-based detectors.
	holistic.Detector = "unused"
	stats = DetectorStatsByMode(snap, "unused", []finding.Finding{holistic}, 100)
	if got := stats[ModeLenient].WeightedFailures; !closeTo(got, 7.0) {
		t.Errorf("whole-codebase holistic weighted = %v, want 7.0", got)
	}
}

func TestZoneExclusion(t *testing.T) {
	snap := testSnapshot(t)
	f := open("F-1", "smells", "a_test.go", finding.ConfidenceHigh)
	f.Zone = finding.ZoneTest

	stats := DetectorStatsByMode(snap, "smells", []finding.Finding{f}, 100)
	if got := stats[ModeLenient]; got.WeightedFailures != 0 || got.Issues != 0 {
		t.Errorf("test-zone finding scored: %+v", got)
	}
}

func TestPassRateFloorsAtZero(t *testing.T) {
	snap := testSnapshot(t)
	findings := []finding.Finding{
		open("F-1", "unused", "a.go", finding.ConfidenceHigh),
		open("F-2", "unused", "b.go", finding.ConfidenceHigh),
		open("F-3", "unused", "c.go", finding.ConfidenceHigh),
	}
	stats := DetectorStatsByMode(snap, "unused", findings, 2)
	if got := stats[ModeLenient].PassRate; got != 0 {
		t.Errorf("pass rate = %v, want 0", got)
	}
}

func closeTo(got, want float64) bool {
	diff := got - want
	if diff < 0 {
		diff = -diff
	}
	return diff < 1e-9
}
