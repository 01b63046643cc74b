package relate

import (
	"testing"

	"github.com/sievedata/sift/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chunk(id core.ID, speaker string, topics []string, entities ...core.ExtractedEntity) *core.Chunk {
	return &core.Chunk{Id: id, Speaker: speaker, Topics: topics, Entities: entities}
}

func edgesOfType(edges []*core.ChunkRelationship, relType core.RelationshipType) []*core.ChunkRelationship {
	var out []*core.ChunkRelationship
	for _, e := range edges {
		if e.Type == relType {
			out = append(out, e)
		}
	}
	return out
}

func TestBuildSequentialEdges(t *testing.T) {
	builder, err := NewBuilder()
	require.NoError(t, err)

	chunks := []*core.Chunk{chunk(1, "", nil), chunk(2, "", nil), chunk(3, "", nil)}
	edges := builder.Build(chunks)

	sequential := edgesOfType(edges, core.RelSequential)
	require.Len(t, sequential, 2)
	assert.Equal(t, core.ID(1), sequential[0].FromChunkId)
	assert.Equal(t, core.ID(2), sequential[0].ToChunkId)
	assert.Equal(t, 1.0, sequential[0].Strength)
	assert.Equal(t, core.ID(2), sequential[1].FromChunkId)
	assert.Equal(t, core.ID(3), sequential[1].ToChunkId)
}

func TestBuildTopicContinuation(t *testing.T) {
	builder, err := NewBuilder()
	require.NoError(t, err)

	chunks := []*core.Chunk{
		chunk(1, "", []string{"budget", "hiring"}),
		chunk(2, "", []string{"budget", "hiring"}),
		chunk(3, "", []string{"budget", "roadmap", "launch"}),
	}
	edges := builder.Build(chunks)

	topical := edgesOfType(edges, core.RelTopicContinuation)
	require.Len(t, topical, 1)
	assert.Equal(t, core.ID(1), topical[0].FromChunkId)
	assert.Equal(t, core.ID(2), topical[0].ToChunkId)
	assert.Equal(t, 1.0, topical[0].Strength)
	// Chunks 1 and 3 share only "budget": Jaccard 1/4 stays below the bar.
}

func TestBuildSpeakerContinuation(t *testing.T) {
	builder, err := NewBuilder()
	require.NoError(t, err)

	chunks := []*core.Chunk{
		chunk(1, "Alice", nil),
		chunk(2, "Bob", nil),
		chunk(3, "Alice", nil),
	}
	edges := builder.Build(chunks)

	spoken := edgesOfType(edges, core.RelSpeakerContinuation)
	require.Len(t, spoken, 1)
	assert.Equal(t, core.ID(1), spoken[0].FromChunkId)
	assert.Equal(t, core.ID(3), spoken[0].ToChunkId)
	assert.Equal(t, 0.8, spoken[0].Strength)
}

func TestBuildEntityReference(t *testing.T) {
	builder, err := NewBuilder()
	require.NoError(t, err)

	atlas := core.ExtractedEntity{Type: core.EntityProject, Value: "Atlas", Confidence: 0.9}
	alice := core.ExtractedEntity{Type: core.EntityPerson, Value: "Alice", Confidence: 0.9}
	chunks := []*core.Chunk{
		chunk(1, "", nil, atlas, alice),
		chunk(2, "", nil, atlas, alice),
		chunk(3, "", nil, atlas),
	}
	edges := builder.Build(chunks)

	refs := edgesOfType(edges, core.RelEntityReference)
	require.Len(t, refs, 3)
	byPair := make(map[[2]core.ID]float64)
	for _, e := range refs {
		byPair[[2]core.ID{e.FromChunkId, e.ToChunkId}] = e.Strength
	}
	assert.InDelta(t, 0.6, byPair[[2]core.ID{1, 2}], 1e-9)
	assert.InDelta(t, 0.3, byPair[[2]core.ID{1, 3}], 1e-9)
	assert.InDelta(t, 0.3, byPair[[2]core.ID{2, 3}], 1e-9)
}

func TestBuildEntityStrengthCapped(t *testing.T) {
	builder, err := NewBuilder()
	require.NoError(t, err)

	var shared []core.ExtractedEntity
	for _, value := range []string{"a1", "b2", "c3", "d4"} {
		shared = append(shared, core.ExtractedEntity{Type: core.EntityProject, Value: value, Confidence: 0.9})
	}
	chunks := []*core.Chunk{chunk(1, "", nil, shared...), chunk(2, "", nil, shared...)}
	edges := builder.Build(chunks)

	refs := edgesOfType(edges, core.RelEntityReference)
	require.Len(t, refs, 1)
	assert.Equal(t, 1.0, refs[0].Strength)
}

func TestBuildTripleUniqueness(t *testing.T) {
	builder, err := NewBuilder()
	require.NoError(t, err)

	chunks := []*core.Chunk{
		chunk(1, "Alice", []string{"budget"}),
		chunk(2, "Alice", []string{"budget"}),
	}
	edges := builder.Build(chunks)

	seen := make(map[edgeKey]int)
	for _, e := range edges {
		seen[edgeKey{e.FromChunkId, e.ToChunkId, e.Type}]++
	}
	for key, count := range seen {
		assert.Equal(t, 1, count, "duplicate edge %v", key)
	}
}

func TestBuildTooFewChunks(t *testing.T) {
	builder, err := NewBuilder()
	require.NoError(t, err)

	assert.Nil(t, builder.Build(nil))
	assert.Nil(t, builder.Build([]*core.Chunk{chunk(1, "Alice", nil)}))
}
