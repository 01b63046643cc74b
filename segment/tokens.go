package segment

// EstimateTokens estimates the token count of a text as characters divided
// by four, rounded up. This is a deliberate fixed heuristic rather than a
// tokenizer call: it is fast and independent of any embedding provider.
// Callers must not assume exactness.
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	return (len(text) + 3) / 4
}
