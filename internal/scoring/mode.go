// Package scoring computes per-dimension and blended health scores from
// findings, opportunity counts, and subjective assessments. Every function
// is a pure derivation of its inputs; nothing is cached between calls.
package scoring

import "github.com/xyleth/codecritic/internal/finding"

// Mode selects which finding statuses count as failures.
type Mode string

const (
	// ModeLenient counts only open findings.
	ModeLenient Mode = "lenient"
	// ModeStrict also counts wontfix findings.
	ModeStrict Mode = "strict"
	// ModeVerifiedStrict additionally counts fixed and false_positive
	// findings: a self-reported fix only stops counting once a later scan
	// independently confirms the finding gone (status auto_resolved).
	ModeVerifiedStrict Mode = "verified_strict"
)

// Modes lists all scoring modes in increasing strictness.
var Modes = []Mode{ModeLenient, ModeStrict, ModeVerifiedStrict}

// CountsAsFailure reports whether a finding status is a failure under the mode.
func (m Mode) CountsAsFailure(st finding.Status) bool {
	switch m {
	case ModeLenient:
		return st == finding.StatusOpen
	case ModeStrict:
		return st == finding.StatusOpen || st == finding.StatusWontfix
	case ModeVerifiedStrict:
		return st == finding.StatusOpen || st == finding.StatusWontfix ||
			st == finding.StatusFixed || st == finding.StatusFalsePositive
	}
	return false
}

func (m Mode) Valid() bool {
	switch m {
	case ModeLenient, ModeStrict, ModeVerifiedStrict:
		return true
	}
	return false
}
