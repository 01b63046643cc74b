package extract

import (
	"strings"

	"github.com/xrash/smetrics"
)

// similarityThreshold is the cutoff above which two entity values are
// treated as the same entity during merging.
const similarityThreshold = 0.8

// Similarity returns a normalized edit-distance score in [0, 1] between two
// values. 1 means identical, 0 means nothing in common. Comparison is
// case-insensitive.
func Similarity(a, b string) float64 {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == b {
		return 1
	}
	longest := len(a)
	if len(b) > longest {
		longest = len(b)
	}
	if longest == 0 {
		return 1
	}
	dist := smetrics.WagnerFischer(a, b, 1, 1, 1)
	return 1 - float64(dist)/float64(longest)
}
