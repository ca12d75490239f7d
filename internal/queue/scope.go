package queue

import (
	"path"
	"strings"
)

// scopeMatches applies show-style pattern matching against a queue item.
// A pattern containing "*" globs across id, file, detector, dimension, and
// summary; a pattern containing "::" matches an id prefix; anything else
// matches the detector exactly, the file exactly, or the file as a
// directory prefix. Gap items additionally match by substring against
// their id, dimension, and summary.
func scopeMatches(it Item, scope string) bool {
	if scope == "" {
		return true
	}

	var id, file, detector, dimension, summary string
	switch v := it.(type) {
	case FindingItem:
		id = v.Finding.ID
		file = v.Finding.File
		detector = v.Finding.Detector
		dimension = v.Finding.Detail.DimensionName
		summary = v.Finding.Summary
	case GapItem:
		id = v.ID
		file = "."
		detector = "subjective_assessment"
		dimension = v.DimensionName
		summary = v.Summary
	}

	if strings.Contains(scope, "*") {
		for _, candidate := range []string{id, file, detector, dimension, summary} {
			if ok, err := path.Match(scope, candidate); err == nil && ok {
				return true
			}
		}
		return false
	}

	if strings.Contains(scope, "::") {
		return strings.HasPrefix(id, scope)
	}

	if _, isGap := it.(GapItem); isGap {
		lowered := strings.ToLower(scope)
		return strings.Contains(strings.ToLower(id), lowered) ||
			strings.Contains(strings.ToLower(dimension), lowered) ||
			strings.Contains(strings.ToLower(summary), lowered)
	}

	return detector == scope ||
		file == scope ||
		strings.HasPrefix(file, strings.TrimRight(scope, "/")+"/")
}
