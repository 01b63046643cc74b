// Package extract pulls typed entities out of document text using ordered
// pattern rules with fixed confidence weights.
//
// Extraction runs over the whole document; near-duplicate surface forms of
// the same type are merged by edit-distance similarity, keeping the higher
// confidence. Extracted entities are then attached to the chunks that
// contain them, and chunks carrying decision or risk entities receive a
// lexicon-based sentiment tag.
//
// Each entity type is matched in isolation: one type's rules misbehaving
// never aborts extraction of the remaining types.
package extract
