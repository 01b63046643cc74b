package storage

import (
	"context"
	"time"

	"github.com/sievedata/sift/core"
)

// DocumentRepository provides operations for documents and their aggregated
// metadata. Implementations must be thread-safe.
type DocumentRepository interface {
	// PutDocument inserts or overwrites a document. Sets InsertedAt on
	// first write and UpdatedAt always.
	PutDocument(ctx context.Context, doc *core.Document) error

	// GetDocument retrieves a document by ID.
	// Returns ErrNotFound if the document doesn't exist.
	GetDocument(ctx context.Context, id core.ID) (*core.Document, error)

	// ListDocuments retrieves all documents.
	ListDocuments(ctx context.Context) ([]*core.Document, error)

	// DeleteDocument removes a document and cascades to its chunks,
	// relationships, vectors, search entries, and metadata.
	// Returns ErrNotFound if the document doesn't exist.
	DeleteDocument(ctx context.Context, id core.ID) error

	// MarkEmbeddingComplete flags a document as fully vectorized.
	MarkEmbeddingComplete(ctx context.Context, id core.ID) error

	// PutMetadata stores the aggregated metadata for a document.
	PutMetadata(ctx context.Context, meta *core.DocumentMetadata) error

	// GetMetadata retrieves a document's aggregated metadata.
	// Returns ErrNotFound if no metadata has been stored.
	GetMetadata(ctx context.Context, docId core.ID) (*core.DocumentMetadata, error)
}

// ChunkRepository provides operations for chunks.
type ChunkRepository interface {
	// PutChunks inserts or overwrites chunks and maintains the per-document
	// position index. Sets InsertedAt on first write and UpdatedAt always.
	PutChunks(ctx context.Context, chunks ...*core.Chunk) error

	// GetChunk retrieves a single chunk by ID.
	// Returns ErrNotFound if the chunk doesn't exist.
	GetChunk(ctx context.Context, id core.ID) (*core.Chunk, error)

	// GetChunks retrieves multiple chunks by their IDs.
	// Returns only the chunks that exist (no error for missing chunks).
	GetChunks(ctx context.Context, ids ...core.ID) ([]*core.Chunk, error)

	// GetDocumentChunks retrieves all chunks of a document ordered by
	// ascending position.
	GetDocumentChunks(ctx context.Context, docId core.ID) ([]*core.Chunk, error)
}

// RelationshipRepository provides operations for the chunk relationship
// graph. Edges are keyed by the (from, to, type) triple, so re-putting an
// edge overwrites it.
type RelationshipRepository interface {
	// PutRelationships stores edges.
	PutRelationships(ctx context.Context, rels ...*core.ChunkRelationship) error

	// GetChunkRelationships retrieves the outgoing edges of a chunk.
	GetChunkRelationships(ctx context.Context, chunkId core.ID) ([]*core.ChunkRelationship, error)
}

// TaskQueue is the durable queue backing the embedding subsystem. Tasks move
// through the pending/processing/completed/failed state machine; Claim
// guarantees each pending task is handed to exactly one caller.
type TaskQueue interface {
	// Enqueue inserts a task. Zero-valued fields are defaulted: a fresh
	// UUID, TaskTypeVectorize, DefaultTaskPriority, pending status.
	Enqueue(ctx context.Context, task *core.ProcessingTask) error

	// Claim atomically moves up to limit due pending tasks to processing
	// and returns them, ordered by priority descending then age. A task
	// whose ScheduledFor lies in the future is not due.
	Claim(ctx context.Context, limit int) ([]*core.ProcessingTask, error)

	// CompleteTask marks a processing task completed.
	CompleteTask(ctx context.Context, taskId string) error

	// FailTask records a failure on a processing task. Below the attempt
	// bound the task returns to pending with attempts+1 and ScheduledFor
	// pushed out by backoff; at the bound it becomes terminally failed.
	FailTask(ctx context.Context, taskId string, taskErr error, backoff time.Duration) error

	// ReleaseTask returns a processing task to pending without consuming
	// an attempt. For workers interrupted before finishing claimed work.
	ReleaseTask(ctx context.Context, taskId string) error

	// GetTask retrieves a task by ID.
	// Returns ErrNotFound if the task doesn't exist.
	GetTask(ctx context.Context, taskId string) (*core.ProcessingTask, error)

	// ListTasks retrieves all tasks, most recently created first.
	ListTasks(ctx context.Context) ([]*core.ProcessingTask, error)
}

// VectorRepository provides operations for embedding vectors and the
// denormalized search index.
type VectorRepository interface {
	// PutVector stores a chunk's embedding vector together with its search
	// entry.
	PutVector(ctx context.Context, chunkId core.ID, vector core.EmbeddingVector, entry *core.SearchEntry) error

	// GetVector retrieves a chunk's embedding vector.
	// Returns ErrNotFound if the chunk has no stored vector.
	GetVector(ctx context.Context, chunkId core.ID) (core.EmbeddingVector, error)

	// VectorCount returns how many of the given chunks have stored vectors.
	VectorCount(ctx context.Context, chunkIds ...core.ID) (int, error)

	// FindSimilar finds chunks whose vectors are similar to the query.
	// Returns matches with cosine similarity >= minSimilarity, up to limit,
	// ordered by similarity descending. Chunks without vectors are skipped,
	// so partial results before embedding completion are valid.
	FindSimilar(ctx context.Context, query []float32, minSimilarity float32, limit int) ([]*core.SimilarityMatch, error)
}

// Store aggregates all repositories over one backend.
type Store interface {
	DocumentRepository
	ChunkRepository
	RelationshipRepository
	TaskQueue
	VectorRepository

	// Close closes the storage backend and releases resources.
	Close() error
}
