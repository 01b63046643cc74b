// Package pipeline orchestrates document processing end to end.
//
// Process runs the synchronous stages in order: structure detection and
// segmentation, entity extraction and attachment, relationship building,
// and metadata aggregation. The results are persisted in one pass, a
// vectorize task is queued for the embedding worker, and the raw text is
// archived asynchronously on a worker pool. Archive errors are logged but
// never fail processing.
//
// IDs are content-addressed, so reprocessing identical input overwrites
// the same records instead of duplicating them.
package pipeline
