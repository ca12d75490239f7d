// Package policy holds the detector weighting table: which dimension and
// tier each detector scores under, how its findings are weighted, and which
// zones are excluded. Registration is init-time and single-writer; readers
// always see a complete, immutable snapshot.
package policy

import (
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/xyleth/codecritic/internal/finding"
)

const (
	// MinSample is the check count for full mechanical dimension weight.
	// Below it the weight is dampened proportionally, so small-sample
	// dimensions cannot swing the overall score.
	MinSample = 200

	// SubjectiveChecks is the synthetic check count assigned to subjective
	// dimensions so they share the weighting arithmetic with mechanical ones.
	SubjectiveChecks = 10

	// HolisticMultiplier is applied to holistic (codebase-wide) findings.
	HolisticMultiplier = 10.0

	// SubjectiveFraction of the blended score comes from the subjective
	// pool when both pools are non-empty; mechanical gets the remainder.
	SubjectiveFraction = 0.60
	MechanicalFraction = 1.0 - SubjectiveFraction

	// TargetMatchTolerance is the band around the integrity target score
	// within which an assessment is treated as gamed.
	TargetMatchTolerance = 0.05
)

// DetectorPolicy is the weighting policy for one detector. A zero Dimension
// means the detector scores under no mechanical dimension; a zero Tier means
// it has no intrinsic tier.
type DetectorPolicy struct {
	Detector      string
	Dimension     string
	Tier          int
	FileBased     bool
	UseLOCWeight  bool
	ExcludedZones []finding.Zone
}

// ZoneExcluded reports whether findings in zone are out of scope for this
// detector.
func (p DetectorPolicy) ZoneExcluded(zone finding.Zone) bool {
	for _, z := range p.ExcludedZones {
		if z == zone {
			return true
		}
	}
	return false
}

// DefaultExcludedZones are excluded from scoring for every detector unless
// the policy overrides them.
func DefaultExcludedZones() []finding.Zone {
	return []finding.Zone{finding.ZoneTest, finding.ZoneConfig, finding.ZoneGenerated, finding.ZoneVendor}
}

// Dimension is a named group of detectors that scores as one unit.
type Dimension struct {
	Name      string
	Tier      int
	Weight    float64
	Detectors []string
}

// SubjectiveDimension describes one externally assessed dimension.
type SubjectiveDimension struct {
	Key     string
	Display string
	Weight  float64
	Default bool
}

// Snapshot is an immutable view of the registry. All scoring and queue
// construction reads one snapshot for the whole call.
type Snapshot struct {
	policies   map[string]DetectorPolicy
	dimensions []Dimension
	byName     map[string]Dimension
	byDetector map[string]string
	subjective []SubjectiveDimension
	subjByKey  map[string]SubjectiveDimension
}

// Policy returns the weighting policy for a detector. Unknown detectors get
// a no-op policy (no dimension, no tier, default zone exclusions).
func (s *Snapshot) Policy(detector string) DetectorPolicy {
	if p, ok := s.policies[detector]; ok {
		return p
	}
	return DetectorPolicy{Detector: detector, ExcludedZones: DefaultExcludedZones()}
}

// Dimensions returns the mechanical dimensions in registration order.
func (s *Snapshot) Dimensions() []Dimension {
	return s.dimensions
}

// DimensionFor returns the dimension a detector scores under.
func (s *Snapshot) DimensionFor(detector string) (Dimension, bool) {
	name, ok := s.byDetector[detector]
	if !ok {
		return Dimension{}, false
	}
	d, ok := s.byName[name]
	return d, ok
}

// MechanicalWeight returns the configured pool weight for a mechanical
// dimension, defaulting to 1.0.
func (s *Snapshot) MechanicalWeight(name string) float64 {
	if d, ok := s.byName[NormalizeName(name)]; ok && d.Weight > 0 {
		return d.Weight
	}
	return 1.0
}

// SubjectiveDimensions returns the subjective catalog in declaration order.
func (s *Snapshot) SubjectiveDimensions() []SubjectiveDimension {
	return s.subjective
}

// SubjectiveByKey looks up a subjective dimension by normalized key.
func (s *Snapshot) SubjectiveByKey(key string) (SubjectiveDimension, bool) {
	d, ok := s.subjByKey[NormalizeKey(key)]
	return d, ok
}

// SubjectiveWeight returns the configured pool weight for a subjective
// dimension key, defaulting to 1.0.
func (s *Snapshot) SubjectiveWeight(key string) float64 {
	if d, ok := s.subjByKey[NormalizeKey(key)]; ok && d.Weight > 0 {
		return d.Weight
	}
	return 1.0
}

// SubjectiveDisplay returns the display name for a subjective dimension key.
func (s *Snapshot) SubjectiveDisplay(key string) string {
	if d, ok := s.subjByKey[NormalizeKey(key)]; ok && d.Display != "" {
		return d.Display
	}
	return displayFallback(key)
}

// Registry owns the mutable policy table. Register is single-writer and
// must complete before scoring begins; every mutation publishes a fresh
// snapshot atomically.
type Registry struct {
	mu         sync.Mutex
	policies   map[string]DetectorPolicy
	order      []string
	dimSpecs   []Dimension
	subjective []SubjectiveDimension
	snap       atomic.Pointer[Snapshot]
}

// NewRegistry returns a registry seeded with the builtin policy table.
func NewRegistry() *Registry {
	r, err := newBuiltinRegistry()
	if err != nil {
		// The builtin table is embedded and covered by tests; a parse
		// failure is a build defect, not a runtime condition.
		panic("policy: builtin table: " + err.Error())
	}
	return r
}

// NewEmptyRegistry returns a registry with the given dimension and
// subjective catalogs but no detector policies.
func NewEmptyRegistry(dims []Dimension, subjective []SubjectiveDimension) *Registry {
	r := &Registry{
		policies:   map[string]DetectorPolicy{},
		dimSpecs:   dims,
		subjective: subjective,
	}
	r.rebuild()
	return r
}

// Register adds or replaces the policy for one detector and rebuilds the
// derived dimension list and file-based set atomically.
func (r *Registry) Register(p DetectorPolicy) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ExcludedZones == nil {
		p.ExcludedZones = DefaultExcludedZones()
	}
	if _, exists := r.policies[p.Detector]; !exists {
		r.order = append(r.order, p.Detector)
	}
	r.policies[p.Detector] = p
	r.rebuild()
}

// Snapshot returns the current immutable policy view.
func (r *Registry) Snapshot() *Snapshot {
	return r.snap.Load()
}

func (r *Registry) rebuild() {
	grouped := map[string][]string{}
	byDetector := map[string]string{}
	for _, name := range r.order {
		p := r.policies[name]
		if p.Dimension == "" {
			continue
		}
		key := NormalizeName(p.Dimension)
		grouped[key] = append(grouped[key], p.Detector)
		byDetector[p.Detector] = key
	}

	dims := make([]Dimension, 0, len(r.dimSpecs))
	byName := map[string]Dimension{}
	for _, spec := range r.dimSpecs {
		d := Dimension{
			Name:      spec.Name,
			Tier:      spec.Tier,
			Weight:    spec.Weight,
			Detectors: grouped[NormalizeName(spec.Name)],
		}
		dims = append(dims, d)
		byName[NormalizeName(spec.Name)] = d
	}

	subjByKey := map[string]SubjectiveDimension{}
	for _, sd := range r.subjective {
		subjByKey[NormalizeKey(sd.Key)] = sd
	}

	policies := make(map[string]DetectorPolicy, len(r.policies))
	for k, v := range r.policies {
		policies[k] = v
	}

	r.snap.Store(&Snapshot{
		policies:   policies,
		dimensions: dims,
		byName:     byName,
		byDetector: byDetector,
		subjective: r.subjective,
		subjByKey:  subjByKey,
	})
}

// MatchesTarget reports whether score lies within the integrity tolerance
// band of target.
func MatchesTarget(score, target float64) bool {
	diff := score - target
	if diff < 0 {
		diff = -diff
	}
	return diff <= TargetMatchTolerance
}

// NormalizeName collapses whitespace and lowercases a dimension display name.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(name))), " ")
}

// NormalizeKey converts a dimension identifier to its canonical snake_case key.
func NormalizeKey(key string) string {
	cleaned := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(key)), "-", "_")
	return strings.Join(strings.Fields(cleaned), "_")
}

func displayFallback(key string) string {
	words := strings.Split(NormalizeKey(key), "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// SortedDetectors returns the registered detector names in sorted order.
// Used by presentation code that needs a stable listing.
func (s *Snapshot) SortedDetectors() []string {
	names := make([]string, 0, len(s.policies))
	for name := range s.policies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
