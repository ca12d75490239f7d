package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/xyleth/codecritic/internal/policy"
	"github.com/xyleth/codecritic/internal/render"
	"github.com/xyleth/codecritic/internal/scoring"
	"github.com/xyleth/codecritic/internal/snapshot"
)

type impactFlags struct {
	count int
}

func newImpactCmd() *cobra.Command {
	f := &impactFlags{}

	cmd := &cobra.Command{
		Use:   "impact <snapshot-file> <detector>",
		Short: "Estimate the score change from fixing findings in one detector",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImpact(args[0], args[1], f)
		},
	}

	cmd.Flags().IntVar(&f.count, "count", 1, "Number of findings to simulate fixing")

	return cmd
}

func runImpact(path, detector string, f *impactFlags) error {
	doc, err := snapshot.Load(path)
	if err != nil {
		return exitError(3, "failed to load snapshot: %v", err)
	}
	if f.count < 0 {
		return exitError(3, "count must be >= 0, got %d", f.count)
	}

	registry := policy.NewRegistry()
	snap := registry.Snapshot()

	scores := scoring.ComputeDimensionScores(
		snap, doc.Findings, doc.MergedPotentials(), doc.Assessments, scoring.ModeLenient)
	delta := scoring.EstimateImpact(snap, scores, detector, f.count)

	if viper.GetString("format") == "json" {
		data, err := json.MarshalIndent(struct {
			Tool     string  `json:"tool"`
			Snapshot string  `json:"snapshot"`
			Detector string  `json:"detector"`
			Count    int     `json:"count"`
			Delta    float64 `json:"overall_delta"`
		}{"codecritic", path, detector, f.count, delta}, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal output: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}
	fmt.Println(render.Impact(detector, f.count, delta))
	return nil
}
