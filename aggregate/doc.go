// Package aggregate rolls a document's chunks and entities up into
// document-level metadata: token totals, entity maps, topic and speaker
// sets, a chronological timeline of notable events, and a short extractive
// summary.
package aggregate
