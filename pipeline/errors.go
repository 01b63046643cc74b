package pipeline

import "errors"

var (
	// ErrStoreRequired is returned when a store is not provided.
	ErrStoreRequired = errors.New("store required")

	// ErrDocumentRequired is returned when Process is called without a document.
	ErrDocumentRequired = errors.New("document required")
)
