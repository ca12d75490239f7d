package format

import "fmt"

// FmtScore formats a 0-100 score with one decimal place.
func FmtScore(s float64) string {
	return fmt.Sprintf("%.1f", s)
}

// FmtWeight formats a blend weight or pool share as a percentage.
func FmtWeight(w float64) string {
	return fmt.Sprintf("%.0f%%", w*100)
}

// FmtTier formats a priority tier as "T1".."T4".
func FmtTier(t int) string {
	return fmt.Sprintf("T%d", t)
}

// FmtDelta formats a signed score delta, always carrying the sign.
func FmtDelta(d float64) string {
	return fmt.Sprintf("%+.1f", d)
}

// Truncate shortens s to maxLen characters, appending "..." if truncated.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// BoolMark returns "✓" for true and "✗" for false.
func BoolMark(v bool) string {
	if v {
		return "✓"
	}
	return "✗"
}
