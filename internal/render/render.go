// Package render produces Markdown and terminal output from score bundles
// and work queues.
package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/xyleth/codecritic/internal/format"
	"github.com/xyleth/codecritic/internal/queue"
	"github.com/xyleth/codecritic/internal/scoring"
)

// Scorecard renders the full score bundle with its blend breakdown.
func Scorecard(bundle *scoring.Bundle, breakdown *scoring.Breakdown, mode format.Mode) string {
	var b strings.Builder

	b.WriteString("# Codebase Scorecard\n\n")
	fmt.Fprintf(&b, "**Overall:** %s / 100\n", format.FmtScore(bundle.Overall))
	fmt.Fprintf(&b, "**Objective:** %s\n", format.FmtScore(bundle.Objective))
	fmt.Fprintf(&b, "**Strict:** %s\n", format.FmtScore(bundle.Strict))
	fmt.Fprintf(&b, "**Verified strict:** %s\n\n", format.FmtScore(bundle.VerifiedStrict))

	b.WriteString("## Dimensions\n\n")
	b.WriteString(dimensionTable(bundle, mode))
	b.WriteString("\n\n")

	if breakdown != nil && len(breakdown.Entries) > 0 {
		b.WriteString("## Blend Breakdown\n\n")
		fmt.Fprintf(&b, "Mechanical %s / subjective %s.\n\n",
			format.FmtWeight(breakdown.MechanicalFraction),
			format.FmtWeight(breakdown.SubjectiveFraction))
		b.WriteString(breakdownTable(breakdown, mode))
		b.WriteString("\n")
	}

	return b.String()
}

func dimensionTable(bundle *scoring.Bundle, mode format.Mode) string {
	tbl := format.NewTable(mode)
	tbl.Header("Dimension", "Tier", "Checks", "Issues", "Lenient", "Strict", "Verified")
	tbl.Columns(
		format.ColumnConfig{Number: 2, Align: format.AlignCenter},
		format.ColumnConfig{Number: 3, Align: format.AlignRight},
		format.ColumnConfig{Number: 4, Align: format.AlignRight},
		format.ColumnConfig{Number: 5, Align: format.AlignRight},
		format.ColumnConfig{Number: 6, Align: format.AlignRight},
		format.ColumnConfig{Number: 7, Align: format.AlignRight},
	)

	for _, name := range sortedNames(bundle.Dimensions) {
		data := bundle.Dimensions[name]
		tbl.Row(
			name,
			format.FmtTier(data.Tier),
			data.Checks,
			data.Issues,
			format.FmtScore(data.Score),
			modeScore(bundle.StrictDimensions, name),
			modeScore(bundle.VerifiedStrictDimensions, name),
		)
	}
	return tbl.String()
}

func breakdownTable(breakdown *scoring.Breakdown, mode format.Mode) string {
	tbl := format.NewTable(mode)
	tbl.Header("Dimension", "Pool", "Score", "Weight", "Share", "Contribution", "Drag")
	tbl.Columns(
		format.ColumnConfig{Number: 3, Align: format.AlignRight},
		format.ColumnConfig{Number: 4, Align: format.AlignRight},
		format.ColumnConfig{Number: 5, Align: format.AlignRight},
		format.ColumnConfig{Number: 6, Align: format.AlignRight},
		format.ColumnConfig{Number: 7, Align: format.AlignRight},
	)
	for _, e := range breakdown.Entries {
		tbl.Row(
			e.Name,
			e.Pool,
			format.FmtScore(e.Score),
			fmt.Sprintf("%.2f", e.EffectiveWeight),
			format.FmtWeight(e.PoolShare),
			format.FmtScore(e.Contribution),
			format.FmtScore(e.Drag),
		)
	}
	tbl.Footer("Overall", "", format.FmtScore(breakdown.Overall), "", "", "", "")
	return tbl.String()
}

// Queue renders a ranked work queue, honoring its tier-fallback note and
// optional per-item ranking rationale.
func Queue(res *queue.Result, explanations []queue.Explanation, groupBy string, mode format.Mode) string {
	var b strings.Builder

	b.WriteString("# Work Queue\n\n")
	fmt.Fprintf(&b, "%d item(s) shown of %d total", len(res.Items), res.Total)
	if res.SelectedTier > 0 {
		fmt.Fprintf(&b, " (tier %d)", res.SelectedTier)
	}
	b.WriteString(".\n")
	if res.FallbackReason != "" {
		fmt.Fprintf(&b, "\n> %s\n", res.FallbackReason)
	}
	b.WriteString("\n")

	if len(res.Items) == 0 {
		b.WriteString("Queue is empty.\n")
		return b.String()
	}

	if groupBy != "" {
		for _, group := range queue.GroupItems(res.Items, groupBy) {
			fmt.Fprintf(&b, "## %s\n\n", group.Key)
			b.WriteString(queueTable(group.Items, mode))
			b.WriteString("\n\n")
		}
	} else {
		b.WriteString(queueTable(res.Items, mode))
		b.WriteString("\n")
	}

	if len(explanations) > 0 {
		b.WriteString("\n## Ranking\n\n")
		for _, ex := range explanations {
			fmt.Fprintf(&b, "- `%s`: %s\n", ex.ID, ex.Sentence)
		}
	}

	return b.String()
}

func queueTable(items []queue.Item, mode format.Mode) string {
	tbl := format.NewTable(mode)
	tbl.Header("#", "ID", "Tier", "Kind", "Target", "Summary", "Next Step")
	tbl.Columns(
		format.ColumnConfig{Number: 1, Align: format.AlignRight},
		format.ColumnConfig{Number: 3, Align: format.AlignCenter},
		format.ColumnConfig{Number: 6, MaxWidth: 60},
	)

	for i, it := range items {
		switch v := it.(type) {
		case queue.FindingItem:
			tbl.Row(
				i+1,
				v.Finding.ID,
				format.FmtTier(v.Tier),
				itemKind(v),
				v.Finding.File,
				format.Truncate(v.Finding.Summary, 80),
				v.Command,
			)
		case queue.GapItem:
			tbl.Row(
				i+1,
				v.ID,
				format.FmtTier(v.EffectiveTier()),
				"assessment gap",
				v.DimensionName,
				format.Truncate(v.Summary, 80),
				v.Command,
			)
		}
	}
	return tbl.String()
}

func itemKind(v queue.FindingItem) string {
	switch {
	case v.IsReview:
		return "review"
	case v.IsSubjective:
		return "subjective"
	default:
		return v.Finding.Detector
	}
}

// Impact renders a single what-if estimate line.
func Impact(detector string, count int, delta float64) string {
	return fmt.Sprintf("Fixing %d %s finding(s) would move the overall score by %s.",
		count, detector, format.FmtDelta(delta))
}

func sortedNames(scores scoring.DimensionScores) []string {
	names := make([]string, 0, len(scores))
	for name := range scores {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func modeScore(scores scoring.DimensionScores, name string) string {
	if data, ok := scores[name]; ok {
		return format.FmtScore(data.Score)
	}
	return "-"
}
