package search

import (
	"strings"
	"unicode"
)

// Common words carrying no search signal on their own.
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "be": true, "is": true, "are": true,
	"was": true, "to": true, "of": true, "and": true, "in": true, "that": true,
	"have": true, "it": true, "for": true, "not": true, "on": true, "with": true,
	"as": true, "you": true, "do": true, "at": true, "this": true, "but": true,
	"by": true, "from": true,
}

// queryTerms lowercases text, splits on anything that is not a letter or
// digit, and drops stop words.
func queryTerms(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	terms := fields[:0]
	for _, field := range fields {
		if !stopWords[field] {
			terms = append(terms, field)
		}
	}
	return terms
}

// matchesAllTerms reports whether every query term occurs in the content.
// A query of nothing but stop words never matches.
func matchesAllTerms(content, query string) bool {
	terms := queryTerms(query)
	if len(terms) == 0 {
		return false
	}

	seen := make(map[string]bool)
	for _, term := range queryTerms(content) {
		seen[term] = true
	}
	for _, term := range terms {
		if !seen[term] {
			return false
		}
	}
	return true
}
