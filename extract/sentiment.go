package extract

import (
	"strings"

	"github.com/sievedata/sift/core"
)

var positiveWords = []string{
	"great", "good", "excellent", "agreed", "success", "on track",
	"ahead of schedule", "resolved", "happy", "confident", "win",
}

var negativeWords = []string{
	"blocker", "blocked", "risk", "concern", "delay", "behind",
	"failure", "failed", "problem", "issue", "slip", "worried",
}

// ScoreSentiment counts lexicon hits and classifies the text. One polarity
// must dominate the other by better than 2:1 to be called; both present
// without dominance is mixed.
func ScoreSentiment(text string) core.Sentiment {
	lower := strings.ToLower(text)
	pos := countHits(lower, positiveWords)
	neg := countHits(lower, negativeWords)
	switch {
	case pos == 0 && neg == 0:
		return core.SentimentNeutral
	case pos > 2*neg:
		return core.SentimentPositive
	case neg > 2*pos:
		return core.SentimentNegative
	case pos > 0 && neg > 0:
		return core.SentimentMixed
	case pos > 0:
		return core.SentimentPositive
	default:
		return core.SentimentNegative
	}
}

func countHits(lower string, words []string) int {
	total := 0
	for _, w := range words {
		total += strings.Count(lower, w)
	}
	return total
}
