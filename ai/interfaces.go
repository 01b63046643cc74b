package ai

import "context"

// MaxBatchSize is the most texts an Embedder may be asked to embed in one
// call. Callers split larger workloads into sub-batches of at most this
// size.
const MaxBatchSize = 20

// Embedder generates vector embeddings from text for semantic similarity
// search. Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates embeddings for up to MaxBatchSize texts in one
	// request. The returned slice is the same length and order as the
	// input.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}
