package main

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/xyleth/codecritic/internal/finding"
	"github.com/xyleth/codecritic/internal/queue"
	"github.com/xyleth/codecritic/internal/scoring"
	"github.com/xyleth/codecritic/internal/snapshot"
)

func TestRenderScoreReportsJSON(t *testing.T) {
	reports := []scoreReport{{
		Tool: "codecritic", Version: "0.1.0",
		Snapshot: "snap.json", Hash: "sha256:abc",
		Scores: scoring.Bundle{Overall: 87.2, Objective: 99.7},
	}}

	out, err := renderScoreReports(reports, "json")
	if err != nil {
		t.Fatal(err)
	}

	// A single snapshot unwraps to one object.
	var rep scoreReport
	if err := json.Unmarshal([]byte(out), &rep); err != nil {
		t.Fatalf("output is not a single report object: %v", err)
	}
	if rep.Scores.Overall != 87.2 {
		t.Errorf("overall = %v, want 87.2", rep.Scores.Overall)
	}

	// Multiple snapshots marshal as an array.
	out, err = renderScoreReports(append(reports, reports[0]), "json")
	if err != nil {
		t.Fatal(err)
	}
	var reps []scoreReport
	if err := json.Unmarshal([]byte(out), &reps); err != nil {
		t.Fatalf("output is not a report array: %v", err)
	}
	if len(reps) != 2 {
		t.Errorf("reports = %d, want 2", len(reps))
	}
}

func TestRenderScoreReportsMarkdown(t *testing.T) {
	reports := []scoreReport{{
		Snapshot: "snap.json",
		Scores:   scoring.Bundle{Overall: 90.0},
	}}
	out, err := renderScoreReports(reports, "md")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "# Codebase Scorecard") {
		t.Errorf("markdown output missing scorecard heading:\n%s", out)
	}
}

func TestRenderScoreReportsUnknownFormat(t *testing.T) {
	_, err := renderScoreReports(nil, "yaml")
	if err == nil {
		t.Fatal("expected error for unknown format")
	}
	var ee *exitErr
	if !asExitErr(err, &ee) || ee.code != 3 {
		t.Errorf("err = %v, want exit code 3", err)
	}
}

func asExitErr(err error, target **exitErr) bool {
	ee, ok := err.(*exitErr)
	if ok {
		*target = ee
	}
	return ok
}

func TestMarshalItems(t *testing.T) {
	items := []queue.Item{
		queue.FindingItem{
			Finding: finding.Finding{ID: "M-1", Detector: "unused", File: "a.go",
				Confidence: finding.ConfidenceHigh, Summary: "unused helper"},
			Tier: 3, Command: "codecritic fix remove_unused --dry-run",
		},
		queue.GapItem{
			ID: "subjective::logic_clarity", DimensionName: "Logic Clarity",
			StrictScore: 60, Command: "codecritic issues",
		},
	}

	raw := marshalItems(items)
	if len(raw) != 2 {
		t.Fatalf("marshaled %d items, want 2", len(raw))
	}

	var first struct {
		Kind     string `json:"kind"`
		ID       string `json:"id"`
		Detector string `json:"detector"`
	}
	if err := json.Unmarshal(raw[0], &first); err != nil {
		t.Fatal(err)
	}
	if first.Kind != "finding" || first.ID != "M-1" || first.Detector != "unused" {
		t.Errorf("first item = %+v", first)
	}

	var second struct {
		Kind        string  `json:"kind"`
		ID          string  `json:"id"`
		StrictScore float64 `json:"strict_score"`
	}
	if err := json.Unmarshal(raw[1], &second); err != nil {
		t.Fatal(err)
	}
	if second.Kind != "subjective_dimension" || second.StrictScore != 60 {
		t.Errorf("second item = %+v", second)
	}
}

func TestCapabilityMapping(t *testing.T) {
	doc := &snapshot.Document{
		LangCaps: map[string]snapshot.LangCapability{
			"go": {Fixers: []string{"remove_unused"}},
		},
		Detectors: map[string]snapshot.DetectorCapability{
			"unused": {ActionType: "auto_fix", Fixers: []string{"remove_unused"}},
			"smells": {ActionType: "manual"},
		},
	}

	fixers := capabilityFixers(doc)
	if !fixers["unused"].AutoFix {
		t.Error("unused should be auto-fixable")
	}
	if fixers["smells"].AutoFix {
		t.Error("smells should not be auto-fixable")
	}

	langFixers := capabilityLangFixers(doc)
	if len(langFixers["go"]) != 1 || langFixers["go"][0] != "remove_unused" {
		t.Errorf("go fixers = %v", langFixers["go"])
	}
}
