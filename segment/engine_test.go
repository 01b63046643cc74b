package segment

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sievedata/sift/core"
)

func newTestEngine(t *testing.T, config *Config) *Engine {
	t.Helper()
	engine, err := NewEngine(WithConfig(config))
	require.NoError(t, err)
	return engine
}

func TestSegment_EmptyInput(t *testing.T) {
	engine := newTestEngine(t, nil)
	assert.Empty(t, engine.Segment(1, "", core.KindMeeting))
	assert.Empty(t, engine.Segment(1, "   \n\t\n", core.KindDocument))
}

func TestSegment_SpeakerScenario(t *testing.T) {
	engine := newTestEngine(t, nil)
	text := "Alice: We decided to use Option B.\nBob: Sounds good, due by 2025-01-15."

	chunks := engine.Segment(1, text, core.KindMeeting)
	require.Len(t, chunks, 2)

	assert.Equal(t, "Alice", chunks[0].Speaker)
	assert.Equal(t, "Bob", chunks[1].Speaker)
	assert.Equal(t, core.ChunkTypeSpeakerTurn, chunks[0].Type)

	// Linked sequentially.
	assert.Equal(t, chunks[1].Id, chunks[0].NextChunkId)
	assert.Equal(t, chunks[0].Id, chunks[1].PreviousChunkId)
	assert.Zero(t, chunks[0].PreviousChunkId)
	assert.Zero(t, chunks[1].NextChunkId)
}

func TestSegment_SpeakerTimestamps(t *testing.T) {
	engine := newTestEngine(t, nil)
	text := "[00:10] Alice: opening remarks\n[00:45] Bob: response"

	chunks := engine.Segment(1, text, core.KindMeeting)
	require.Len(t, chunks, 2)
	assert.Equal(t, 10.0, chunks[0].StartTime)
	// The incoming turn's timestamp bounds the previous turn.
	assert.Equal(t, 45.0, chunks[0].EndTime)
	assert.Equal(t, 45.0, chunks[1].StartTime)
	assert.Equal(t, -1.0, chunks[1].EndTime)
}

func TestSegment_PositionsStrictlyIncreasing(t *testing.T) {
	engine := newTestEngine(t, nil)

	texts := map[string]core.DocumentKind{
		"Alice: one direction\nBob: two directions\nAlice: three points": core.KindMeeting,
		"# One\nbody one here\n# Two\nbody two here":                     core.KindDocument,
		strings.Repeat("A plain sentence of prose. ", 400):               core.KindDocument,
	}
	for text, kind := range texts {
		chunks := engine.Segment(1, text, kind)
		require.NotEmpty(t, chunks)
		for i := 1; i < len(chunks); i++ {
			assert.Greater(t, chunks[i].Position, chunks[i-1].Position,
				"positions must be strictly increasing")
		}
	}
}

func TestSegment_SlidingWindowFallback(t *testing.T) {
	engine := newTestEngine(t, nil)

	// ~3,000 estimated tokens of plain prose, no speakers, no headers.
	var b strings.Builder
	for i := 0; b.Len() < 12000; i++ {
		fmt.Fprintf(&b, "This is sentence number %d of a long plain document about nothing in particular. ", i)
	}

	chunks := engine.Segment(1, b.String(), core.KindDocument)
	require.NotEmpty(t, chunks)
	assert.GreaterOrEqual(t, len(chunks), 3)
	assert.LessOrEqual(t, len(chunks), 4)
	for _, chunk := range chunks {
		assert.Equal(t, core.ChunkTypeSlidingWindow, chunk.Type)
		assert.GreaterOrEqual(t, chunk.TokenCount, 100)
		assert.LessOrEqual(t, chunk.TokenCount, 1500)
	}
}

func TestSegment_NoSilentDataLoss(t *testing.T) {
	engine := newTestEngine(t, &Config{TargetTokens: 50, MaxTokens: 80, MinTokens: 5, OverlapTokens: 10})

	var sentences []string
	for i := 0; i < 40; i++ {
		sentences = append(sentences, fmt.Sprintf("Unique sentence marker %d appears here.", i))
	}
	text := strings.Join(sentences, " ")

	chunks := engine.Segment(1, text, core.KindDocument)
	require.NotEmpty(t, chunks)

	joined := ""
	for _, chunk := range chunks {
		joined += chunk.Content + "\n"
	}
	for _, sentence := range sentences {
		assert.Contains(t, joined, sentence, "every sentence must survive segmentation")
	}
}

func TestSegment_SlidingWindowOverlap(t *testing.T) {
	engine := newTestEngine(t, &Config{TargetTokens: 50, MaxTokens: 80, MinTokens: 5, OverlapTokens: 20})

	var sentences []string
	for i := 0; i < 30; i++ {
		sentences = append(sentences, fmt.Sprintf("Sentence number %d is right here.", i))
	}
	chunks := engine.Segment(1, strings.Join(sentences, " "), core.KindDocument)
	require.Greater(t, len(chunks), 1)

	// Each boundary shares at least one sentence.
	for i := 1; i < len(chunks); i++ {
		prev := splitSentences(chunks[i-1].Content)
		lastSentence := prev[len(prev)-1]
		assert.Contains(t, chunks[i].Content, lastSentence,
			"chunk %d should start with overlap from chunk %d", i, i-1)
	}
}

func TestSegment_TopicSections(t *testing.T) {
	engine := newTestEngine(t, nil)
	text := "# Planning\nWe planned the roadmap in detail.\n\n# Budget\nWe reviewed the numbers."

	chunks := engine.Segment(1, text, core.KindDocument)
	require.Len(t, chunks, 2)
	assert.Equal(t, core.ChunkTypeTopicSegment, chunks[0].Type)
	assert.Equal(t, []string{"planning"}, chunks[0].Topics)
	assert.Equal(t, []string{"budget"}, chunks[1].Topics)
}

func TestSegment_OversizedSectionSubChunks(t *testing.T) {
	engine := newTestEngine(t, &Config{TargetTokens: 40, MaxTokens: 60, MinTokens: 5, OverlapTokens: 8})

	var body strings.Builder
	for i := 0; i < 60; i++ {
		fmt.Fprintf(&body, "Filler sentence %d for a very long section. ", i)
	}
	text := "# Short\nsmall body here.\n# Long\n" + body.String()

	chunks := engine.Segment(1, text, core.KindDocument)
	require.Greater(t, len(chunks), 2)

	assert.Equal(t, core.ChunkTypeTopicSegment, chunks[0].Type)
	assert.Zero(t, chunks[0].ParentChunkId)

	subs := chunks[1:]
	var parent core.ID
	for i, sub := range subs {
		assert.Equal(t, core.ChunkTypeSlidingWindow, sub.Type)
		assert.NotZero(t, sub.ParentChunkId, "sub-chunk %d must reference its section", i)
		if i == 0 {
			parent = sub.ParentChunkId
		} else {
			assert.Equal(t, parent, sub.ParentChunkId, "siblings share one synthetic parent")
		}
		// Fractional positions stay inside the section's slot.
		assert.Greater(t, sub.Position, 1.0)
		assert.Less(t, sub.Position, 2.0)
	}
}

func TestSegment_ContextSnippets(t *testing.T) {
	engine := newTestEngine(t, nil)
	text := "Alice: first thing\nBob: second thing\nAlice: third thing"

	chunks := engine.Segment(1, text, core.KindMeeting)
	require.Len(t, chunks, 3)
	assert.Empty(t, chunks[0].ContextBefore)
	assert.Contains(t, chunks[1].ContextBefore, "first thing")
	assert.Contains(t, chunks[1].ContextAfter, "third thing")
	assert.Empty(t, chunks[2].ContextAfter)
}

func TestSegment_DeterministicIDs(t *testing.T) {
	engine := newTestEngine(t, nil)
	text := "Alice: a decision was made\nBob: noted"

	first := engine.Segment(7, text, core.KindMeeting)
	second := engine.Segment(7, text, core.KindMeeting)
	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Id, second[i].Id, "reprocessing must be idempotent")
	}

	// A different document id scopes chunk ids.
	other := engine.Segment(8, text, core.KindMeeting)
	assert.NotEqual(t, first[0].Id, other[0].Id)
}

func TestSegment_ImportanceBounds(t *testing.T) {
	engine := newTestEngine(t, nil)
	text := "Alice: we decided to proceed\nBob: agreed, action item for me\nAlice: closing"

	for _, chunk := range engine.Segment(1, text, core.KindMeeting) {
		assert.GreaterOrEqual(t, chunk.Importance, 0.0)
		assert.LessOrEqual(t, chunk.Importance, 1.0)
	}
}
