package queue

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/xyleth/codecritic/internal/finding"
	"github.com/xyleth/codecritic/internal/policy"
	"github.com/xyleth/codecritic/internal/scoring"
)

// ErrUnknownStatusFilter is the one caller-visible contract violation:
// a status filter outside the known lifecycle statuses (plus "all").
// It is distinct from an empty result.
var ErrUnknownStatusFilter = errors.New("unknown status filter")

// AttestExample is the attestation template embedded in generic resolve
// commands.
const AttestExample = "I have actually improved [WHAT YOU IMPROVED EXPLICITLY] enough " +
	"to honestly justify a score of [SCORE], and I am not gaming the score."

// DetectorFix describes the auto-fix capability registered for a detector.
type DetectorFix struct {
	AutoFix bool
	Fixers  []string
}

// Fixers maps detector name to its fix capability.
type Fixers map[string]DetectorFix

// LangFixers maps language name to the fixer names it supports.
type LangFixers map[string][]string

// Inputs are the read-only snapshots the builder consumes.
type Inputs struct {
	Findings []finding.Finding
	// StrictScores is the strict-mode dimension score map from the same
	// run; subjective entries drive synthetic items and sort scores.
	StrictScores scoring.DimensionScores
	Fixers       Fixers
	LangFixers   LangFixers
}

// Options configure queue construction and tier selection.
type Options struct {
	// Tier selects one tier (0 = all tiers).
	Tier int
	// Count caps the returned items (0 or negative = all).
	Count int
	// Scope filters items: "*" patterns glob across id/file/detector/
	// dimension/summary, "::" matches an id prefix, anything else matches
	// detector or file exactly (or as a directory prefix).
	Scope string
	// Status filters findings by lifecycle status; empty means open.
	Status string
	// IncludeSubjective enables synthetic subjective-gap items.
	IncludeSubjective bool
	// SubjectiveThreshold is the strict score below which a subjective
	// dimension surfaces as a gap item; clamped to [0, 100].
	SubjectiveThreshold float64
	// Chronic keeps only open findings reopened at least twice.
	Chronic bool
	// NoTierFallback disables nearest-tier fallback for empty tiers.
	NoTierFallback bool
}

// Result is a ranked queue plus its tier metadata.
type Result struct {
	Items          []Item
	Total          int
	TierCounts     map[int]int
	RequestedTier  int
	SelectedTier   int
	FallbackReason string
	AvailableTiers []int
}

var allStatuses = map[string]bool{
	"open": true, "fixed": true, "wontfix": true,
	"false_positive": true, "auto_resolved": true, "all": true,
}

// Build constructs the ranked work queue. It is a pure function of its
// inputs: the same snapshot, findings, and options produce byte-identical
// output, including order.
func Build(snap *policy.Snapshot, in Inputs, opts Options) (Result, error) {
	status := opts.Status
	if status == "" {
		status = "open"
	}
	if !allStatuses[status] {
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownStatusFilter, status)
	}
	threshold := finding.ClampScore(opts.SubjectiveThreshold)

	aliases := subjectiveAliasScores(snap, in.StrictScores)
	items := buildFindingItems(snap, in, status, opts, aliases)

	if opts.IncludeSubjective && (status == "open" || status == "all") && !opts.Chronic {
		for _, gap := range buildGapItems(snap, in, threshold) {
			if scopeMatches(gap, opts.Scope) {
				items = append(items, gap)
			}
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		return sortKey(items[i]).less(sortKey(items[j]))
	})

	counts := tierCounts(items)
	res := Result{
		TierCounts:     counts,
		RequestedTier:  opts.Tier,
		SelectedTier:   opts.Tier,
		AvailableTiers: availableTiers(counts),
	}

	filtered := items
	if opts.Tier != 0 {
		filtered = filterTier(items, opts.Tier)
		if len(filtered) == 0 && !opts.NoTierFallback {
			if chosen, ok := chooseFallbackTier(opts.Tier, counts); ok {
				res.SelectedTier = chosen
				filtered = filterTier(items, chosen)
				res.FallbackReason = fmt.Sprintf(
					"Requested T%d has 0 open -> showing T%d (nearest non-empty).",
					opts.Tier, chosen)
			} else {
				res.FallbackReason = fmt.Sprintf("Requested T%d has 0 open.", opts.Tier)
			}
		} else if len(filtered) == 0 {
			res.FallbackReason = fmt.Sprintf("Requested T%d has 0 open.", opts.Tier)
		}
	}

	res.Total = len(filtered)
	if opts.Count > 0 && len(filtered) > opts.Count {
		filtered = filtered[:opts.Count]
	}
	res.Items = filtered
	return res, nil
}

func buildFindingItems(snap *policy.Snapshot, in Inputs, status string, opts Options, aliases map[string]float64) []Item {
	var out []Item
	for _, f := range in.Findings {
		if f.Suppressed {
			continue
		}
		if status != "all" && string(f.Status) != status {
			continue
		}
		if opts.Chronic && !(f.Status == finding.StatusOpen && f.ReopenCount >= 2) {
			continue
		}

		it := FindingItem{
			Finding:      f,
			IsReview:     f.Detector == "review",
			IsSubjective: f.Detector == "subjective_assessment" || f.Detector == "holistic_review",
		}
		switch {
		case it.IsReview:
			it.Tier = 1
			it.ReviewWeight = reviewWeight(&f)
		case it.IsSubjective:
			it.Tier = finding.TierMax
			it.DimensionScore = dimensionScoreFor(&f, aliases)
		default:
			it.Tier = f.Tier
			if !finding.ValidTier(it.Tier) {
				it.Tier = 3
			}
		}
		it.Command = remediationCommand(&f, in.Fixers, in.LangFixers)

		if !scopeMatches(it, opts.Scope) {
			continue
		}
		out = append(out, it)
	}
	return out
}

// reviewWeight aligns queue ordering with the issues-list ordering:
// confidence weight, x10 for holistic findings.
func reviewWeight(f *finding.Finding) float64 {
	w := f.Confidence.Weight()
	if !f.Confidence.Valid() {
		w = finding.ConfidenceLow.Weight()
	}
	if f.Detail.Holistic {
		w *= policy.HolisticMultiplier
	}
	return w
}

func dimensionScoreFor(f *finding.Finding, aliases map[string]float64) float64 {
	dimKey := policy.NormalizeKey(f.Detail.Dimension)
	if dimKey == "" {
		dimKey = Slugify(f.Detail.DimensionName)
	}
	if score, ok := aliases[dimKey]; ok {
		return score
	}
	if score, ok := aliases[strings.ToLower(f.Detail.DimensionName)]; ok {
		return score
	}
	return 100.0
}

// subjectiveAliasScores indexes each subjective dimension's strict score
// under every normalized alias of its display name and canonical key.
func subjectiveAliasScores(snap *policy.Snapshot, strictScores scoring.DimensionScores) map[string]float64 {
	scores := map[string]float64{}
	for name, data := range strictScores {
		if !data.IsSubjective() {
			continue
		}
		for alias := range dimensionAliases(snap, name, data.Subjective.Key) {
			scores[alias] = data.Score
		}
	}
	return scores
}

func dimensionAliases(snap *policy.Snapshot, display, key string) map[string]bool {
	cleaned := strings.TrimSpace(strings.ReplaceAll(display, " (subjective)", ""))
	aliases := map[string]bool{
		strings.ToLower(cleaned):                          true,
		strings.ToLower(strings.ReplaceAll(cleaned, " ", "_")): true,
		Slugify(cleaned): true,
	}
	if key != "" {
		aliases[strings.ToLower(key)] = true
		aliases[Slugify(key)] = true
	}
	if sd, ok := snap.SubjectiveByKey(key); ok {
		aliases[strings.ToLower(sd.Display)] = true
		aliases[Slugify(sd.Display)] = true
	}
	delete(aliases, "")
	return aliases
}

func buildGapItems(snap *policy.Snapshot, in Inputs, threshold float64) []Item {
	// Review findings are keyed by raw dimension key (snake_case).
	openReviewByDim := map[string]int{}
	for _, f := range in.Findings {
		if f.Status != finding.StatusOpen || f.Detector != "review" {
			continue
		}
		key := policy.NormalizeKey(f.Detail.Dimension)
		if key == "" {
			continue
		}
		openReviewByDim[key]++
	}

	names := make([]string, 0, len(in.StrictScores))
	for name := range in.StrictScores {
		names = append(names, name)
	}
	sort.Strings(names)

	var out []Item
	for _, name := range names {
		data := in.StrictScores[name]
		if !data.IsSubjective() {
			continue
		}
		if data.Score >= threshold {
			continue
		}

		key := data.Subjective.Key
		openReview := 0
		for alias := range dimensionAliases(snap, name, key) {
			openReview += openReviewByDim[alias]
		}
		unassessed := data.Subjective.Placeholder ||
			(data.Score <= 0 && data.Issues == 0)

		gap := GapItem{
			ID:                 "subjective::" + Slugify(key),
			DimensionKey:       key,
			DimensionName:      name,
			StrictScore:        data.Score,
			Issues:             data.Issues,
			OpenReviewFindings: openReview,
			Unassessed:         unassessed,
			Summary:            fmt.Sprintf("Subjective dimension below target: %s (%.1f%%)", name, data.Score),
		}
		switch {
		case unassessed:
			gap.Command = "codecritic review --prepare"
		case openReview > 0:
			gap.Command = "codecritic issues"
		default:
			gap.Command = "codecritic review --prepare --dimensions " + key
		}
		out = append(out, gap)
	}
	return out
}

func remediationCommand(f *finding.Finding, fixers Fixers, langFixers LangFixers) string {
	if meta, ok := fixers[f.Detector]; ok && meta.AutoFix && len(meta.Fixers) > 0 {
		supported := supportedFixers(f.Lang, langFixers)
		for _, fixer := range meta.Fixers {
			if supported == nil || supported[fixer] {
				return "codecritic fix " + fixer + " --dry-run"
			}
		}
	}
	switch f.Detector {
	case "review":
		return "codecritic issues"
	case "subjective_review":
		if f.Detail.Holistic {
			return "codecritic review --prepare"
		}
		return "codecritic show subjective_review --status open"
	}
	return fmt.Sprintf("codecritic resolve fixed %q --note \"<what you did>\" --attest %q", f.ID, AttestExample)
}

// supportedFixers returns the fixer set for a language, or nil when the
// language is unknown (meaning: no capability data, allow everything).
func supportedFixers(lang string, langFixers LangFixers) map[string]bool {
	lang = strings.TrimSpace(lang)
	if lang == "" {
		return nil
	}
	names, ok := langFixers[lang]
	if !ok {
		return nil
	}
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}

var slugRe = regexp.MustCompile(`[^a-z0-9_]+`)

// Slugify lowercases text and collapses non-alphanumeric runs to underscores.
func Slugify(text string) string {
	return strings.Trim(slugRe.ReplaceAllString(strings.ToLower(text), "_"), "_")
}
