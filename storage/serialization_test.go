package storage

import (
	"testing"
	"time"

	"github.com/sievedata/sift/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentRoundTrip(t *testing.T) {
	doc := &core.Document{
		Id:                42,
		Title:             "Weekly planning",
		Kind:              core.KindMeeting,
		Timestamp:         time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
		Participants:      []string{"Alice", "Bob"},
		EmbeddingComplete: true,
		InsertedAt:        time.Date(2025, 3, 10, 9, 5, 0, 0, time.UTC),
		UpdatedAt:         time.Date(2025, 3, 10, 9, 6, 0, 0, time.UTC),
	}

	got, err := UnmarshalDocument(MarshalDocument(doc))
	require.NoError(t, err)
	assert.Equal(t, doc, got)
}

func TestChunkRoundTrip(t *testing.T) {
	chunk := &core.Chunk{
		Id:              7,
		DocumentId:      42,
		Position:        2.1,
		Type:            core.ChunkTypeSpeakerTurn,
		Content:         "Alice: We decided to use Option B.",
		Speaker:         "Alice",
		StartTime:       10,
		EndTime:         45,
		TokenCount:      9,
		Importance:      0.7,
		Sentiment:       core.SentimentNeutral,
		Topics:          []string{"budget"},
		ContextBefore:   "previous lines",
		ContextAfter:    "next lines",
		PreviousChunkId: 6,
		NextChunkId:     8,
		ParentChunkId:   3,
		Entities: []core.ExtractedEntity{
			{Type: core.EntityDecision, Value: "use Option B", Confidence: 0.85, SourcePosition: 7, Context: "ctx"},
		},
		InsertedAt: time.Date(2025, 3, 10, 9, 5, 0, 0, time.UTC),
		UpdatedAt:  time.Date(2025, 3, 10, 9, 6, 0, 0, time.UTC),
	}

	got, err := UnmarshalChunk(MarshalChunk(chunk))
	require.NoError(t, err)
	assert.Equal(t, chunk, got)
}

func TestChunkRoundTripUnknownTimes(t *testing.T) {
	chunk := &core.Chunk{Id: 1, DocumentId: 2, Content: "plain text", StartTime: -1, EndTime: -1}

	got, err := UnmarshalChunk(MarshalChunk(chunk))
	require.NoError(t, err)
	assert.Equal(t, -1.0, got.StartTime)
	assert.Equal(t, -1.0, got.EndTime)
}

func TestTaskRoundTrip(t *testing.T) {
	task := &core.ProcessingTask{
		Id:           "1b4e28ba-2fa1-11d2-883f-0016d3cca427",
		TargetId:     42,
		TaskType:     core.TaskTypeVectorize,
		Priority:     core.DefaultTaskPriority,
		Status:       core.TaskProcessing,
		Attempts:     2,
		LastError:    "embedding provider unavailable",
		ScheduledFor: time.Date(2025, 3, 10, 9, 10, 0, 0, time.UTC),
		CreatedAt:    time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
		UpdatedAt:    time.Date(2025, 3, 10, 9, 9, 0, 0, time.UTC),
	}

	got, err := UnmarshalTask(MarshalTask(task))
	require.NoError(t, err)
	assert.Equal(t, task, got)
}

func TestZeroTimeSurvivesRoundTrip(t *testing.T) {
	task := &core.ProcessingTask{Id: "t", Status: core.TaskPending}

	got, err := UnmarshalTask(MarshalTask(task))
	require.NoError(t, err)
	assert.True(t, got.ScheduledFor.IsZero())
	assert.True(t, got.CreatedAt.IsZero())
}

func TestMetadataRoundTrip(t *testing.T) {
	meta := &core.DocumentMetadata{
		DocumentId:  42,
		TotalTokens: 300,
		ChunkCount:  3,
		Entities: map[core.EntityType][]core.ExtractedEntity{
			core.EntityDecision: {{Type: core.EntityDecision, Value: "freeze the budget", Confidence: 0.85}},
			core.EntityPerson:   {{Type: core.EntityPerson, Value: "Alice", Confidence: 0.9}},
		},
		Topics:   []string{"budget", "hiring"},
		Speakers: []string{"Alice", "Bob"},
		Timeline: []core.TimelineEvent{
			{
				Id:            "evt-1",
				Timestamp:     time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
				Position:      1,
				Type:          core.EntityDecision,
				Description:   "freeze the budget",
				SourceChunkId: 7,
			},
			{Id: "evt-2", Position: 3, Type: core.EntityActionItem, Description: "assign next steps", SourceChunkId: 9},
		},
		Summary: "We agreed to freeze the budget.",
	}

	got, err := UnmarshalMetadata(MarshalMetadata(meta))
	require.NoError(t, err)
	assert.Equal(t, meta, got)
	assert.True(t, got.Timeline[1].Timestamp.IsZero())
}

func TestRelationshipRoundTrip(t *testing.T) {
	rel := &core.ChunkRelationship{FromChunkId: 1, ToChunkId: 2, Type: core.RelTopicContinuation, Strength: 0.75}

	got, err := UnmarshalRelationship(MarshalRelationship(rel))
	require.NoError(t, err)
	assert.Equal(t, rel, got)
}

func TestSearchEntryRoundTrip(t *testing.T) {
	entry := &core.SearchEntry{
		ChunkId:    7,
		DocumentId: 42,
		Title:      "Weekly planning",
		Timestamp:  time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
		Preview:    "Alice: We decided to use Option B.",
		Relevance:  1,
	}

	got, err := UnmarshalSearchEntry(MarshalSearchEntry(entry))
	require.NoError(t, err)
	assert.Equal(t, entry, got)
}

func TestUnmarshalTruncatedData(t *testing.T) {
	data := MarshalChunk(&core.Chunk{Id: 1, DocumentId: 2, Content: "some chunk content here"})

	_, err := UnmarshalChunk(data[:len(data)/2])
	assert.Error(t, err)
}
