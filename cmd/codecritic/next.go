package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/xyleth/codecritic/internal/format"
	"github.com/xyleth/codecritic/internal/policy"
	"github.com/xyleth/codecritic/internal/queue"
	"github.com/xyleth/codecritic/internal/render"
	"github.com/xyleth/codecritic/internal/scoring"
	"github.com/xyleth/codecritic/internal/snapshot"
)

type nextFlags struct {
	tier                int
	count               int
	scope               string
	status              string
	subjective          bool
	subjectiveThreshold float64
	chronic             bool
	noTierFallback      bool
	explain             bool
	groupBy             string
}

// nextReport is the JSON output envelope for the work queue.
type nextReport struct {
	Tool           string              `json:"tool"`
	Version        string              `json:"version"`
	Snapshot       string              `json:"snapshot"`
	RequestedTier  int                 `json:"requested_tier,omitempty"`
	SelectedTier   int                 `json:"selected_tier,omitempty"`
	FallbackReason string              `json:"fallback_reason,omitempty"`
	TierCounts     map[int]int         `json:"tier_counts"`
	AvailableTiers []int               `json:"available_tiers"`
	Total          int                 `json:"total"`
	Items          []json.RawMessage   `json:"items"`
	Ranking        []queue.Explanation `json:"ranking,omitempty"`
}

func newNextCmd() *cobra.Command {
	f := &nextFlags{}

	cmd := &cobra.Command{
		Use:   "next <snapshot-file>",
		Short: "Rank open findings into a prioritized work queue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNext(args[0], f)
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&f.tier, "tier", 0, "Show only this tier, 1-4 (0 = all)")
	flags.IntVar(&f.count, "count", 0, "Cap the number of items shown (0 = all)")
	flags.StringVar(&f.scope, "scope", "", "Filter by detector, file, id prefix (foo::), or glob")
	flags.StringVar(&f.status, "status", "open", "Filter by finding status, or 'all'")
	flags.BoolVar(&f.subjective, "subjective", true, "Include under-scoring subjective dimensions as queue items")
	flags.Float64Var(&f.subjectiveThreshold, "subjective-threshold", 90, "Strict score below which a subjective dimension surfaces")
	flags.BoolVar(&f.chronic, "chronic", false, "Show only open findings reopened at least twice")
	flags.BoolVar(&f.noTierFallback, "no-tier-fallback", false, "Do not fall back to the nearest non-empty tier")
	flags.BoolVar(&f.explain, "explain", false, "Attach the ranking rationale per item")
	flags.StringVar(&f.groupBy, "group", "", "Group output by file, detector, or tier")

	return cmd
}

func runNext(path string, f *nextFlags) error {
	logger := log.New(os.Stderr, "", 0)
	verbose := func(msg string, args ...any) {
		if viper.GetBool("verbose") {
			logger.Printf(msg, args...)
		}
	}

	verbose("Loading snapshot: %s", path)
	doc, err := snapshot.Load(path)
	if err != nil {
		return exitError(3, "failed to load snapshot: %v", err)
	}

	registry := policy.NewRegistry()
	snap := registry.Snapshot()

	verbose("Scoring %d finding(s) for queue context", len(doc.Findings))
	strictScores := scoring.ComputeDimensionScores(
		snap, doc.Findings, doc.MergedPotentials(), doc.Assessments, scoring.ModeStrict)

	res, err := queue.Build(snap, queue.Inputs{
		Findings:     doc.Findings,
		StrictScores: strictScores,
		Fixers:       capabilityFixers(doc),
		LangFixers:   capabilityLangFixers(doc),
	}, queue.Options{
		Tier:                f.tier,
		Count:               f.count,
		Scope:               f.scope,
		Status:              f.status,
		IncludeSubjective:   f.subjective,
		SubjectiveThreshold: f.subjectiveThreshold,
		Chronic:             f.chronic,
		NoTierFallback:      f.noTierFallback,
	})
	if err != nil {
		if errors.Is(err, queue.ErrUnknownStatusFilter) {
			return exitError(3, "%v", err)
		}
		return err
	}
	verbose("Queue built: %d item(s), tier counts %v", res.Total, res.TierCounts)

	var explanations []queue.Explanation
	if f.explain {
		explanations = queue.Explain(res.Items)
	}

	switch outFormat := viper.GetString("format"); outFormat {
	case "json":
		rep := nextReport{
			Tool:           "codecritic",
			Version:        version,
			Snapshot:       path,
			RequestedTier:  res.RequestedTier,
			SelectedTier:   res.SelectedTier,
			FallbackReason: res.FallbackReason,
			TierCounts:     res.TierCounts,
			AvailableTiers: res.AvailableTiers,
			Total:          res.Total,
			Items:          marshalItems(res.Items),
			Ranking:        explanations,
		}
		data, err := json.MarshalIndent(rep, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal output: %w", err)
		}
		fmt.Println(string(data))
	case "md":
		fmt.Print(render.Queue(&res, explanations, f.groupBy, format.Markdown))
	case "table":
		fmt.Print(render.Queue(&res, explanations, f.groupBy, format.ASCII))
	default:
		return exitError(3, "unknown format: %s", outFormat)
	}
	return nil
}

// marshalItems flattens the two item variants into tagged JSON objects.
func marshalItems(items []queue.Item) []json.RawMessage {
	out := make([]json.RawMessage, 0, len(items))
	for _, it := range items {
		var payload any
		switch v := it.(type) {
		case queue.FindingItem:
			payload = struct {
				Kind           string  `json:"kind"`
				ID             string  `json:"id"`
				Tier           int     `json:"tier"`
				Detector       string  `json:"detector"`
				File           string  `json:"file"`
				Summary        string  `json:"summary"`
				Confidence     string  `json:"confidence"`
				ReviewWeight   float64 `json:"review_weight,omitempty"`
				DimensionScore float64 `json:"dimension_score,omitempty"`
				Command        string  `json:"command"`
			}{
				Kind: "finding", ID: v.Finding.ID, Tier: v.Tier,
				Detector: v.Finding.Detector, File: v.Finding.File,
				Summary: v.Finding.Summary, Confidence: string(v.Finding.Confidence),
				ReviewWeight: v.ReviewWeight, DimensionScore: v.DimensionScore,
				Command: v.Command,
			}
		case queue.GapItem:
			payload = struct {
				Kind               string  `json:"kind"`
				ID                 string  `json:"id"`
				Tier               int     `json:"tier"`
				Dimension          string  `json:"dimension"`
				StrictScore        float64 `json:"strict_score"`
				Issues             int     `json:"issues"`
				OpenReviewFindings int     `json:"open_review_findings"`
				Unassessed         bool    `json:"unassessed"`
				Summary            string  `json:"summary"`
				Command            string  `json:"command"`
			}{
				Kind: "subjective_dimension", ID: v.ID, Tier: v.EffectiveTier(),
				Dimension: v.DimensionName, StrictScore: v.StrictScore,
				Issues: v.Issues, OpenReviewFindings: v.OpenReviewFindings,
				Unassessed: v.Unassessed, Summary: v.Summary, Command: v.Command,
			}
		default:
			continue
		}
		data, err := json.Marshal(payload)
		if err != nil {
			continue
		}
		out = append(out, data)
	}
	return out
}

func capabilityFixers(doc *snapshot.Document) queue.Fixers {
	fixers := make(queue.Fixers, len(doc.Detectors))
	for name, capability := range doc.Detectors {
		fixers[name] = queue.DetectorFix{
			AutoFix: capability.ActionType == "auto_fix",
			Fixers:  capability.Fixers,
		}
	}
	return fixers
}

func capabilityLangFixers(doc *snapshot.Document) queue.LangFixers {
	langFixers := make(queue.LangFixers, len(doc.LangCaps))
	for lang, capability := range doc.LangCaps {
		langFixers[lang] = capability.Fixers
	}
	return langFixers
}
