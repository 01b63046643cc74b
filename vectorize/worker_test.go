package vectorize

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/sievedata/sift/ai/mock"
	"github.com/sievedata/sift/core"
	badgerstore "github.com/sievedata/sift/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *badgerstore.Store {
	t.Helper()
	store, err := badgerstore.NewMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func newTestWorker(t *testing.T, store *badgerstore.Store, embedder *mock.Embedder) *Worker {
	t.Helper()
	worker, err := NewWorker(store, embedder, "test-model",
		WithBatchPause(0),
		WithFailureBackoff(0),
		WithWriteRetry(1, time.Millisecond),
	)
	require.NoError(t, err)
	return worker
}

// seedDocument stores a document with n chunks and enqueues its vectorize task.
func seedDocument(t *testing.T, store *badgerstore.Store, docId core.ID, n int) []*core.Chunk {
	t.Helper()
	ctx := context.Background()
	doc := &core.Document{Id: docId, Title: fmt.Sprintf("doc-%d", docId), Kind: core.KindDocument}
	require.NoError(t, store.PutDocument(ctx, doc))

	chunks := make([]*core.Chunk, n)
	for i := 0; i < n; i++ {
		chunks[i] = &core.Chunk{
			Id:         docId*1000 + core.ID(i+1),
			DocumentId: docId,
			Position:   float64(i + 1),
			Type:       core.ChunkTypeSlidingWindow,
			Content:    fmt.Sprintf("doc %d chunk %d content", docId, i+1),
			TokenCount: 5,
			StartTime:  -1,
			EndTime:    -1,
		}
	}
	require.NoError(t, store.PutChunks(ctx, chunks...))
	require.NoError(t, store.Enqueue(ctx, &core.ProcessingTask{TargetId: docId}))
	return chunks
}

func taskFor(t *testing.T, store *badgerstore.Store, docId core.ID) *core.ProcessingTask {
	t.Helper()
	tasks, err := store.ListTasks(context.Background())
	require.NoError(t, err)
	for _, task := range tasks {
		if task.TargetId == docId {
			return task
		}
	}
	t.Fatalf("no task targeting document %d", docId)
	return nil
}

func TestProcessBatchCompletesDocument(t *testing.T) {
	store := newTestStore(t)
	embedder := mock.NewEmbedder()
	worker := newTestWorker(t, store, embedder)
	ctx := context.Background()

	chunks := seedDocument(t, store, 1, 25)

	completed, err := worker.ProcessBatch(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, completed)

	// 25 chunks means two provider calls: 20 then 5.
	assert.Equal(t, 2, embedder.CallCount())

	ids := make([]core.ID, len(chunks))
	for i, chunk := range chunks {
		ids[i] = chunk.Id
	}
	count, err := store.VectorCount(ctx, ids...)
	require.NoError(t, err)
	assert.Equal(t, 25, count)

	doc, err := store.GetDocument(ctx, 1)
	require.NoError(t, err)
	assert.True(t, doc.EmbeddingComplete)

	task := taskFor(t, store, 1)
	assert.Equal(t, core.TaskCompleted, task.Status)

	vector, err := store.GetVector(ctx, chunks[0].Id)
	require.NoError(t, err)
	assert.Equal(t, "test-model", vector.Model)
	assert.Greater(t, vector.Magnitude, float32(0))
}

func TestProcessBatchRetriesAfterProviderFailure(t *testing.T) {
	store := newTestStore(t)
	embedder := mock.NewEmbedder()
	worker := newTestWorker(t, store, embedder)
	ctx := context.Background()

	seedDocument(t, store, 1, 25)

	failures := 1
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		if failures > 0 {
			failures--
			return nil, errors.New("provider unavailable")
		}
		vectors := make([][]float32, len(texts))
		for i := range texts {
			vectors[i] = []float32{1, 0, 0}
		}
		return vectors, nil
	}

	completed, err := worker.ProcessBatch(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, 0, completed)

	task := taskFor(t, store, 1)
	assert.Equal(t, core.TaskPending, task.Status)
	assert.Equal(t, 1, task.Attempts)
	assert.Contains(t, task.LastError, "provider unavailable")

	// Second call drives the task to completion.
	completed, err = worker.ProcessBatch(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, completed)
	assert.Equal(t, core.TaskCompleted, taskFor(t, store, 1).Status)

	doc, err := store.GetDocument(ctx, 1)
	require.NoError(t, err)
	assert.True(t, doc.EmbeddingComplete)
}

func TestProcessBatchTerminalAfterMaxAttempts(t *testing.T) {
	store := newTestStore(t)
	embedder := mock.NewEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, errors.New("provider permanently down")
	}
	worker := newTestWorker(t, store, embedder)
	ctx := context.Background()

	seedDocument(t, store, 1, 5)

	for i := 0; i < core.DefaultMaxAttempts; i++ {
		completed, err := worker.ProcessBatch(ctx, 10)
		require.NoError(t, err)
		assert.Equal(t, 0, completed)
	}

	task := taskFor(t, store, 1)
	assert.Equal(t, core.TaskFailed, task.Status)
	assert.Equal(t, core.DefaultMaxAttempts, task.Attempts)

	// A further run finds nothing claimable.
	completed, err := worker.ProcessBatch(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, 0, completed)
	assert.Equal(t, core.DefaultMaxAttempts, taskFor(t, store, 1).Attempts)
}

func TestProcessBatchReleasesClaimedTasksOnCancellation(t *testing.T) {
	store := newTestStore(t)
	embedder := mock.NewEmbedder()
	worker := newTestWorker(t, store, embedder)

	seedDocument(t, store, 1, 3)
	seedDocument(t, store, 2, 3)

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	completed, err := worker.ProcessBatch(cancelled, 10)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, completed)

	// Every claimed task is back to pending, and the interruption did not
	// consume an attempt.
	for _, docId := range []core.ID{1, 2} {
		task := taskFor(t, store, docId)
		assert.Equal(t, core.TaskPending, task.Status)
		assert.Equal(t, 0, task.Attempts)
	}

	// A later run with a live context drains the whole queue.
	completed, err = worker.ProcessBatch(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, 2, completed)
	assert.Equal(t, core.TaskCompleted, taskFor(t, store, 1).Status)
	assert.Equal(t, core.TaskCompleted, taskFor(t, store, 2).Status)
}

func TestProcessBatchReleasesOnMidTaskCancellation(t *testing.T) {
	store := newTestStore(t)
	embedder := mock.NewEmbedder()
	worker := newTestWorker(t, store, embedder)

	seedDocument(t, store, 1, 3)
	seedDocument(t, store, 2, 3)

	ctx, cancel := context.WithCancel(context.Background())
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		// Simulate a shutdown arriving while the provider call is in flight.
		cancel()
		return nil, ctx.Err()
	}

	completed, err := worker.ProcessBatch(ctx, 10)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, completed)

	for _, docId := range []core.ID{1, 2} {
		task := taskFor(t, store, docId)
		assert.Equal(t, core.TaskPending, task.Status)
		assert.Equal(t, 0, task.Attempts)
	}
}

func TestProcessBatchIsolatesSiblingTasks(t *testing.T) {
	store := newTestStore(t)
	embedder := mock.NewEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		if strings.Contains(texts[0], "doc 1 ") {
			return nil, errors.New("doc 1 embeddings fail")
		}
		vectors := make([][]float32, len(texts))
		for i := range texts {
			vectors[i] = []float32{0, 1}
		}
		return vectors, nil
	}
	worker := newTestWorker(t, store, embedder)
	ctx := context.Background()

	seedDocument(t, store, 1, 3)
	seedDocument(t, store, 2, 3)

	completed, err := worker.ProcessBatch(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, completed)

	assert.Equal(t, core.TaskPending, taskFor(t, store, 1).Status)
	assert.Equal(t, core.TaskCompleted, taskFor(t, store, 2).Status)

	doc2, err := store.GetDocument(ctx, 2)
	require.NoError(t, err)
	assert.True(t, doc2.EmbeddingComplete)
}

func TestProcessTaskSkipsAlreadyEmbedded(t *testing.T) {
	store := newTestStore(t)
	embedder := mock.NewEmbedder()
	worker := newTestWorker(t, store, embedder)
	ctx := context.Background()

	chunks := seedDocument(t, store, 1, 4)

	// Two chunks already have vectors from a partially completed attempt.
	for _, chunk := range chunks[:2] {
		require.NoError(t, store.PutVector(ctx, chunk.Id, core.NewEmbeddingVector([]float32{1}, "test-model"), nil))
	}

	var embeddedTexts []string
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		embeddedTexts = append(embeddedTexts, texts...)
		vectors := make([][]float32, len(texts))
		for i := range texts {
			vectors[i] = []float32{1}
		}
		return vectors, nil
	}

	completed, err := worker.ProcessBatch(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, completed)
	assert.Len(t, embeddedTexts, 2)
}

func TestProcessBatchEmptyQueue(t *testing.T) {
	store := newTestStore(t)
	worker := newTestWorker(t, store, mock.NewEmbedder())

	completed, err := worker.ProcessBatch(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, 0, completed)
}
