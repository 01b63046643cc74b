package badger

import (
	"context"
	"testing"

	"github.com/sievedata/sift/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVectorRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	vector := core.NewEmbeddingVector([]float32{0.1, 0.2, 0.3}, "test-model")
	entry := &core.SearchEntry{ChunkId: 7, DocumentId: 42, Title: "Weekly planning", Preview: "preview", Relevance: 1}
	require.NoError(t, store.PutVector(ctx, 7, vector, entry))

	got, err := store.GetVector(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, vector.Values, got.Values)
	assert.Equal(t, vector.Magnitude, got.Magnitude)
	assert.Equal(t, "test-model", got.Model)

	gotEntry, err := store.GetSearchEntry(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "Weekly planning", gotEntry.Title)
}

func TestVectorCount(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.PutVector(ctx, 1, core.NewEmbeddingVector([]float32{1, 0}, "m"), nil))
	require.NoError(t, store.PutVector(ctx, 2, core.NewEmbeddingVector([]float32{0, 1}, "m"), nil))

	count, err := store.VectorCount(ctx, 1, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestFindSimilar(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.PutVector(ctx, 1, core.NewEmbeddingVector([]float32{1, 0, 0}, "m"), nil))
	require.NoError(t, store.PutVector(ctx, 2, core.NewEmbeddingVector([]float32{0.9, 0.1, 0}, "m"), nil))
	require.NoError(t, store.PutVector(ctx, 3, core.NewEmbeddingVector([]float32{0, 0, 1}, "m"), nil))

	matches, err := store.FindSimilar(ctx, []float32{1, 0, 0}, 0.5, 10)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, core.ID(1), matches[0].ChunkId)
	assert.Equal(t, core.ID(2), matches[1].ChunkId)
	assert.Greater(t, matches[0].Score, matches[1].Score)
}

func TestFindSimilarLimit(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		require.NoError(t, store.PutVector(ctx, core.ID(i), core.NewEmbeddingVector([]float32{1, 0}, "m"), nil))
	}

	matches, err := store.FindSimilar(ctx, []float32{1, 0}, 0.9, 3)
	require.NoError(t, err)
	assert.Len(t, matches, 3)
}

func TestFindSimilarSkipsUnembedded(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// Chunks exist but only one has a vector; partial results are valid.
	require.NoError(t, store.PutChunks(ctx, testChunk(1, 42, 1), testChunk(2, 42, 2)))
	require.NoError(t, store.PutVector(ctx, 1, core.NewEmbeddingVector([]float32{1, 0}, "m"), nil))

	matches, err := store.FindSimilar(ctx, []float32{1, 0}, 0, 10)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, core.ID(1), matches[0].ChunkId)
}
