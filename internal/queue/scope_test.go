package queue

import (
	"testing"

	"github.com/xyleth/codecritic/internal/finding"
)

func TestScopeMatches(t *testing.T) {
	item := FindingItem{
		Finding: finding.Finding{
			ID:       "unused::internal/auth/token.go::12",
			Detector: "unused",
			File:     "internal/auth/token.go",
			Summary:  "unused function validateLegacyToken",
			Detail:   finding.Detail{DimensionName: "Code quality"},
		},
		Tier: 3,
	}
	gap := GapItem{
		ID:            "subjective::logic_clarity",
		DimensionName: "Logic Clarity",
		Summary:       "Subjective dimension below target: Logic Clarity (40.0%)",
	}

	tests := []struct {
		name  string
		item  Item
		scope string
		want  bool
	}{
		{"empty scope matches everything", item, "", true},
		{"glob against file", item, "internal/auth/*.go", true},
		{"glob miss", item, "cmd/*", false},
		{"id prefix", item, "unused::internal/auth/token.go", true},
		{"id prefix miss", item, "smells::", false},
		{"exact detector", item, "unused", true},
		{"exact file", item, "internal/auth/token.go", true},
		{"directory prefix", item, "internal/auth", true},
		{"directory prefix with slash", item, "internal/auth/", true},
		{"unrelated directory", item, "internal/billing", false},
		{"gap substring on dimension", gap, "logic", true},
		{"gap substring case-insensitive", gap, "CLARITY", true},
		{"gap miss", gap, "naming", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := scopeMatches(tt.item, tt.scope); got != tt.want {
				t.Errorf("scopeMatches(%q) = %v, want %v", tt.scope, got, tt.want)
			}
		})
	}
}
