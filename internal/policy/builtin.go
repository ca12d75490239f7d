package policy

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/xyleth/codecritic/internal/finding"
)

//go:embed builtin/*.yaml
var builtinFS embed.FS

type builtinTable struct {
	Name       string `yaml:"name"`
	Version    int    `yaml:"version"`
	Dimensions []struct {
		Name   string  `yaml:"name"`
		Tier   int     `yaml:"tier"`
		Weight float64 `yaml:"weight"`
	} `yaml:"dimensions"`
	Detectors []struct {
		Name          string   `yaml:"name"`
		Dimension     string   `yaml:"dimension"`
		Tier          int      `yaml:"tier"`
		FileBased     bool     `yaml:"file_based"`
		UseLOCWeight  bool     `yaml:"use_loc_weight"`
		ExcludedZones []string `yaml:"excluded_zones"`
	} `yaml:"detectors"`
	Subjective []struct {
		Key     string  `yaml:"key"`
		Display string  `yaml:"display"`
		Weight  float64 `yaml:"weight"`
		Default bool    `yaml:"default"`
	} `yaml:"subjective"`
}

func newBuiltinRegistry() (*Registry, error) {
	data, err := builtinFS.ReadFile("builtin/default.yaml")
	if err != nil {
		return nil, fmt.Errorf("read builtin table: %w", err)
	}
	var tbl builtinTable
	if err := yaml.Unmarshal(data, &tbl); err != nil {
		return nil, fmt.Errorf("parse builtin table: %w", err)
	}

	dims := make([]Dimension, 0, len(tbl.Dimensions))
	for _, d := range tbl.Dimensions {
		dims = append(dims, Dimension{Name: d.Name, Tier: d.Tier, Weight: d.Weight})
	}
	subjective := make([]SubjectiveDimension, 0, len(tbl.Subjective))
	for _, sd := range tbl.Subjective {
		subjective = append(subjective, SubjectiveDimension{
			Key:     NormalizeKey(sd.Key),
			Display: sd.Display,
			Weight:  sd.Weight,
			Default: sd.Default,
		})
	}

	r := NewEmptyRegistry(dims, subjective)
	for _, det := range tbl.Detectors {
		p := DetectorPolicy{
			Detector:     det.Name,
			Dimension:    det.Dimension,
			Tier:         det.Tier,
			FileBased:    det.FileBased,
			UseLOCWeight: det.UseLOCWeight,
		}
		if len(det.ExcludedZones) > 0 {
			zones := make([]finding.Zone, 0, len(det.ExcludedZones))
			for _, z := range det.ExcludedZones {
				zones = append(zones, finding.Zone(z))
			}
			p.ExcludedZones = zones
		}
		r.Register(p)
	}
	return r, nil
}
