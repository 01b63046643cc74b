// Package segment turns raw text into ordered, bounded chunks.
//
// The Engine inspects document structure (speaker turns, headers) and picks
// one of three strategies:
//   - speaker-aware: split on speaker changes in transcripts
//   - topic-aware: split on detected header boundaries
//   - sliding-window: sentence accumulation with overlap, the fallback
//
// Chunk sizes are bounded by a Config (target/max/min token estimates) and
// adjacent chunks share overlap for downstream context continuity.
// Segmentation is pure and synchronous; degenerate input yields zero chunks,
// never an error.
package segment
