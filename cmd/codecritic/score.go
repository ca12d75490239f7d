package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/xyleth/codecritic/internal/format"
	"github.com/xyleth/codecritic/internal/policy"
	"github.com/xyleth/codecritic/internal/render"
	"github.com/xyleth/codecritic/internal/scoring"
	"github.com/xyleth/codecritic/internal/snapshot"
)

type scoreFlags struct {
	out             string
	integrityTarget float64
	failUnder       float64
	skipValidation  bool
}

// scoreReport is the per-snapshot JSON output envelope.
type scoreReport struct {
	Tool      string                 `json:"tool"`
	Version   string                 `json:"version"`
	Snapshot  string                 `json:"snapshot"`
	Hash      string                 `json:"snapshot_hash"`
	Integrity *scoring.IntegrityMeta `json:"integrity,omitempty"`
	Scores    scoring.Bundle         `json:"scores"`
	Breakdown scoring.Breakdown      `json:"breakdown"`
}

func newScoreCmd() *cobra.Command {
	f := &scoreFlags{}

	cmd := &cobra.Command{
		Use:   "score <snapshot-file> [snapshot-file...]",
		Short: "Compute health scores for one or more scan snapshots",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScore(args, f)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.out, "out", "", "Output file path (default: stdout)")
	flags.Float64Var(&f.integrityTarget, "integrity-target", 0,
		"Reset assessments that sit suspiciously close to this target score (0 = off)")
	flags.Float64Var(&f.failUnder, "fail-under", 0, "Exit non-zero if any overall score is below this")
	flags.BoolVar(&f.skipValidation, "skip-validation", false, "Score snapshots even when structurally invalid")

	return cmd
}

func runScore(paths []string, f *scoreFlags) error {
	logger := log.New(os.Stderr, "", 0)
	verbose := func(msg string, args ...any) {
		if viper.GetBool("verbose") {
			logger.Printf(msg, args...)
		}
	}

	registry := policy.NewRegistry()
	snap := registry.Snapshot()

	reports := make([]scoreReport, len(paths))
	var g errgroup.Group
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			verbose("Loading snapshot: %s", path)
			doc, err := snapshot.Load(path)
			if err != nil {
				return exitError(3, "failed to load snapshot: %v", err)
			}

			if errs := doc.Validate(); len(errs) > 0 && !f.skipValidation {
				for _, e := range errs {
					fmt.Fprintf(os.Stderr, "  %s: %s\n", path, e)
				}
				return exitError(5, "snapshot %s failed validation (%d errors)", path, len(errs))
			}

			assessments := doc.Assessments
			var integrity *scoring.IntegrityMeta
			if f.integrityTarget > 0 {
				adjusted, meta := scoring.ApplyIntegrityPolicy(assessments, f.integrityTarget)
				assessments = adjusted
				integrity = &meta
				if meta.Status == "penalized" {
					verbose("Integrity policy reset %d assessment(s)", len(meta.Reset))
				}
			}

			verbose("Scoring %d finding(s) from %s", len(doc.Findings), path)
			bundle := scoring.ComputeBundle(snap, doc.Findings, doc.MergedPotentials(), assessments)
			breakdown := scoring.ComputeBreakdown(snap, bundle.Dimensions)

			reports[i] = scoreReport{
				Tool:      "codecritic",
				Version:   version,
				Snapshot:  path,
				Hash:      doc.Hash,
				Integrity: integrity,
				Scores:    bundle,
				Breakdown: breakdown,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	output, err := renderScoreReports(reports, viper.GetString("format"))
	if err != nil {
		return err
	}

	if f.out != "" {
		verbose("Writing output to %s", f.out)
		if err := os.WriteFile(f.out, []byte(output), 0644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	} else {
		fmt.Print(output)
	}

	if f.failUnder > 0 {
		for _, rep := range reports {
			if rep.Scores.Overall < f.failUnder {
				return exitError(2, "overall score %.1f is below threshold %.1f (%s)",
					rep.Scores.Overall, f.failUnder, rep.Snapshot)
			}
		}
	}
	return nil
}

func renderScoreReports(reports []scoreReport, outFormat string) (string, error) {
	switch outFormat {
	case "json":
		var payload any = reports
		if len(reports) == 1 {
			payload = reports[0]
		}
		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to marshal output: %w", err)
		}
		return string(data) + "\n", nil
	case "md", "table":
		mode := format.Markdown
		if outFormat == "table" {
			mode = format.ASCII
		}
		out := ""
		for _, rep := range reports {
			if len(reports) > 1 {
				out += fmt.Sprintf("<!-- %s -->\n", rep.Snapshot)
			}
			out += render.Scorecard(&rep.Scores, &rep.Breakdown, mode)
			out += "\n"
		}
		return out, nil
	default:
		return "", exitError(3, "unknown format: %s", outFormat)
	}
}
