// Package snapshot handles reading and hashing scan-snapshot documents:
// the findings, potentials, assessments, and capability metadata produced
// by one scan run. The scoring core treats a loaded snapshot as read-only.
package snapshot

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"

	"github.com/xyleth/codecritic/internal/finding"
)

// LangCapability is the per-language fixer metadata supplied by plugins.
type LangCapability struct {
	Fixers []string `json:"fixers,omitempty"`
}

// DetectorCapability is the registered fix capability for one detector.
type DetectorCapability struct {
	ActionType string   `json:"action_type,omitempty"`
	Fixers     []string `json:"fixers,omitempty"`
}

// Document is one scan snapshot: everything the decision core consumes.
type Document struct {
	Findings    []finding.Finding             `json:"findings"`
	Potentials  map[string]finding.Potentials `json:"potentials"`
	Assessments finding.Assessments           `json:"subjective_assessments,omitempty"`
	LangCaps    map[string]LangCapability     `json:"lang_capabilities,omitempty"`
	Detectors   map[string]DetectorCapability `json:"detectors,omitempty"`

	FilePath string `json:"-"`
	Hash     string `json:"-"`
}

// Load reads a snapshot file and computes its SHA-256 content hash.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("snapshot.Load: %w", err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("snapshot.Load: parse %s: %w", path, err)
	}
	h := sha256.Sum256(data)
	doc.FilePath = path
	doc.Hash = fmt.Sprintf("sha256:%x", h)
	return &doc, nil
}

// MergedPotentials sums the per-language opportunity counts per detector.
func (d *Document) MergedPotentials() finding.Potentials {
	return finding.Merge(d.Potentials)
}
