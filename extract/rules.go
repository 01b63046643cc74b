package extract

import (
	"regexp"

	"github.com/sievedata/sift/core"
)

// Rule is one pattern with its fixed confidence weight. The first capture
// group is the entity value.
type Rule struct {
	Pattern    *regexp.Regexp
	Confidence float64
}

// Rules maps each entity type to its ordered pattern rules. All confidence
// weights live here rather than being scattered across the matching code.
type Rules map[core.EntityType][]Rule

// DefaultRules returns the built-in pattern tables. Explicit labels score
// highest; softer phrasing heuristics score lower.
func DefaultRules() Rules {
	return Rules{
		core.EntityDecision: {
			{regexp.MustCompile(`(?im)\bdecision:\s*(.+)$`), 0.95},
			{regexp.MustCompile(`(?i)\bwe (?:decided|agreed) to\s+([^.!?\n]+)`), 0.85},
			{regexp.MustCompile(`(?i)\b(?:it was|we've) (?:decided|agreed) (?:that|to)\s+([^.!?\n]+)`), 0.8},
		},
		core.EntityActionItem: {
			{regexp.MustCompile(`(?im)\baction item:\s*(.+)$`), 0.95},
			{regexp.MustCompile(`(?im)\btodo:?\s+(.+)$`), 0.9},
			{regexp.MustCompile(`(?i)\bwill follow up (?:on|with)\s+([^.!?\n]+)`), 0.75},
			{regexp.MustCompile(`(?i)\bneeds? to\s+([^.!?\n]+?)\s+by\b`), 0.7},
		},
		core.EntityDate: {
			{regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2})\b`), 0.95},
			{regexp.MustCompile(`(?i)\b((?:january|february|march|april|may|june|july|august|september|october|november|december)\s+\d{1,2}(?:st|nd|rd|th)?(?:,?\s+\d{4})?)\b`), 0.9},
			{regexp.MustCompile(`(?i)\b(?:due|by|before|on)\s+((?:mon|tues|wednes|thurs|fri|satur|sun)day)\b`), 0.7},
		},
		core.EntityPerson: {
			{regexp.MustCompile(`(?m)^(?:\[\d{1,2}:\d{2}(?::\d{2})?\]\s*)?([A-Z][a-z]+(?:\s[A-Z][a-z]+)?):`), 0.9},
			{regexp.MustCompile(`(?i)\b(?:assigned to|owner:)\s*([A-Z][a-z]+(?:\s[A-Z][a-z]+)?)`), 0.85},
			{regexp.MustCompile(`\b([A-Z][a-z]+\s[A-Z][a-z]+)\b`), 0.5},
		},
		core.EntityProject: {
			{regexp.MustCompile(`(?i)\bproject\s+([A-Z][\w-]+)`), 0.9},
			{regexp.MustCompile(`(?i)\bthe\s+([A-Z][\w-]+)\s+project\b`), 0.9},
			{regexp.MustCompile(`(?i)\binitiative\s+([A-Z][\w-]+)`), 0.7},
		},
		core.EntityClient: {
			{regexp.MustCompile(`(?im)\bclient:\s*(.+)$`), 0.95},
			{regexp.MustCompile(`(?i)\b(?:client|customer)\s+([A-Z][\w&-]+(?:\s[A-Z][\w&-]+)?)`), 0.8},
		},
		core.EntityRisk: {
			{regexp.MustCompile(`(?im)\brisk:\s*(.+)$`), 0.95},
			{regexp.MustCompile(`(?i)\bblocker:?\s+([^.!?\n]+)`), 0.85},
			{regexp.MustCompile(`(?i)\b(?:concerned|worried) (?:about|that)\s+([^.!?\n]+)`), 0.8},
		},
		core.EntityMilestone: {
			{regexp.MustCompile(`(?im)\bmilestone:\s*(.+)$`), 0.95},
			{regexp.MustCompile(`(?i)\b(?:launch|release|ship) (?:of|date for)\s+([^.!?\n]+)`), 0.75},
		},
	}
}
