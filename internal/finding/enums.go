package finding

// Status is the lifecycle state of a finding.
type Status string

const (
	StatusOpen          Status = "open"
	StatusFixed         Status = "fixed"
	StatusWontfix       Status = "wontfix"
	StatusFalsePositive Status = "false_positive"
	StatusAutoResolved  Status = "auto_resolved"
)

func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusFixed, StatusWontfix, StatusFalsePositive, StatusAutoResolved:
		return true
	}
	return false
}

// Confidence indicates how certain a detector is about a finding.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

func (c Confidence) Valid() bool {
	switch c {
	case ConfidenceHigh, ConfidenceMedium, ConfidenceLow:
		return true
	}
	return false
}

// Weight returns the scoring weight for a confidence level.
// Unknown confidence falls back to the medium weight.
func (c Confidence) Weight() float64 {
	switch c {
	case ConfidenceHigh:
		return 1.0
	case ConfidenceMedium:
		return 0.7
	case ConfidenceLow:
		return 0.3
	default:
		return 0.7
	}
}

// Rank returns a sort key (lower = higher priority).
// Unknown confidence ranks last.
func (c Confidence) Rank() int {
	switch c {
	case ConfidenceHigh:
		return 0
	case ConfidenceMedium:
		return 1
	case ConfidenceLow:
		return 2
	default:
		return 9
	}
}

// Zone classifies a file's role in the codebase.
type Zone string

const (
	ZoneProduction Zone = "production"
	ZoneTest       Zone = "test"
	ZoneConfig     Zone = "config"
	ZoneGenerated  Zone = "generated"
	ZoneScript     Zone = "script"
	ZoneVendor     Zone = "vendor"
)

func (z Zone) Valid() bool {
	switch z {
	case ZoneProduction, ZoneTest, ZoneConfig, ZoneGenerated, ZoneScript, ZoneVendor:
		return true
	}
	return false
}

const (
	// TierMin and TierMax bound the severity/urgency tiers:
	// 1 is most actionable, 4 is least (or subjective).
	TierMin = 1
	TierMax = 4
)

// ValidTier reports whether t is within the tier range.
func ValidTier(t int) bool {
	return t >= TierMin && t <= TierMax
}
