// Package search provides semantic search over embedded chunks.
//
// The Searcher embeds a query, finds the nearest stored vectors by cosine
// similarity, hydrates the matching chunks, and applies a small verbatim
// keyword boost. Results are valid at any point in time: chunks whose
// vectors are not yet stored simply do not appear.
package search
