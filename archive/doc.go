// Package archive stores raw source text after a document has been
// processed. Archiving is best-effort: the pipeline submits it
// asynchronously and a failed archive never fails ingestion.
package archive
