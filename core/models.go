package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// Chunk and document IDs are generated with content-based hashing so that
// reprocessing the same input yields the same identifiers.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// Identical content always produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// DocumentKind classifies the source of a document.
type DocumentKind string

const (
	KindMeeting  DocumentKind = "meeting"
	KindDocument DocumentKind = "document"
	KindEmail    DocumentKind = "email"
	KindChat     DocumentKind = "chat"
)

// ChunkType identifies the segmentation strategy that produced a chunk.
type ChunkType string

const (
	ChunkTypeSpeakerTurn   ChunkType = "speaker-turn"
	ChunkTypeTopicSegment  ChunkType = "topic-segment"
	ChunkTypeSlidingWindow ChunkType = "sliding-window"
	ChunkTypeSummary       ChunkType = "summary"
)

// Sentiment is a coarse classification of a chunk's tone.
// Only chunks carrying decision or risk entities are classified.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentMixed    Sentiment = "mixed"
	SentimentNeutral  Sentiment = "neutral"
)

// Document represents one ingested source text (transcript, memo, email).
type Document struct {
	Id                ID
	Title             string
	Kind              DocumentKind
	Timestamp         time.Time // When the source was created (meeting start etc.)
	Participants      []string
	EmbeddingComplete bool // Set once every chunk has a stored vector
	InsertedAt        time.Time
	UpdatedAt         time.Time
}

// Chunk is a contiguous span of source text, the unit of embedding and retrieval.
// Created by the segmentation engine; the entity extractor attaches entities
// and the relationship builder populates the link fields.
type Chunk struct {
	Id         ID
	DocumentId ID
	Position   float64 // Ordinal within the document; fractional for sub-chunks
	Type       ChunkType
	Content    string
	Speaker    string  // Empty for non-speaker chunks
	StartTime  float64 // Seconds from document start; <0 means unknown
	EndTime    float64 // Seconds from document start; <0 means unknown
	TokenCount int
	Importance float64 // [0,1]
	Sentiment  Sentiment
	Topics     []string

	// Neighbor snippets for context-aware rendering.
	ContextBefore string
	ContextAfter  string

	// Links wired after segmentation. Zero means no link.
	PreviousChunkId ID
	NextChunkId     ID
	ParentChunkId   ID

	Entities []ExtractedEntity

	InsertedAt time.Time
	UpdatedAt  time.Time
}

// EntityType categorizes an extracted entity.
type EntityType string

const (
	EntityPerson     EntityType = "person"
	EntityProject    EntityType = "project"
	EntityDecision   EntityType = "decision"
	EntityActionItem EntityType = "action-item"
	EntityDate       EntityType = "date"
	EntityClient     EntityType = "client"
	EntityRisk       EntityType = "risk"
	EntityMilestone  EntityType = "milestone"
)

// EntityTypes lists all valid entity types.
var EntityTypes = []EntityType{
	EntityPerson,
	EntityProject,
	EntityDecision,
	EntityActionItem,
	EntityDate,
	EntityClient,
	EntityRisk,
	EntityMilestone,
}

// ExtractedEntity is a typed, confidence-scored fact extracted from text.
// Entities are derived data: they live attached to the chunks that contain
// them and duplicated into the document-level index in DocumentMetadata.
type ExtractedEntity struct {
	Type           EntityType
	Value          string
	Confidence     float64 // (0,1]; zero or negative confidence is a programming error
	SourcePosition int     // Byte offset of the first match in the document
	Context        string  // ±100 characters around the first match
}

// RelationshipType classifies an edge between two chunks.
type RelationshipType string

const (
	RelSequential          RelationshipType = "sequential"
	RelTopicContinuation   RelationshipType = "topic-continuation"
	RelSpeakerContinuation RelationshipType = "speaker-continuation"
	RelEntityReference     RelationshipType = "entity-reference"
)

// ChunkRelationship is a directed, typed, weighted edge between two chunks.
// The (From, To, Type) triple is unique.
type ChunkRelationship struct {
	FromChunkId ID
	ToChunkId   ID
	Type        RelationshipType
	Strength    float64 // [0,1]
}

// TimelineEvent is a notable moment derived from decision, action-item,
// milestone, or risk entities, ordered chronologically.
type TimelineEvent struct {
	Id            string // UUID
	Timestamp     time.Time
	Position      float64 // Source chunk position, the sort fallback when Timestamp is zero
	Type          EntityType
	Description   string
	SourceChunkId ID
}

// DocumentMetadata aggregates chunk, entity, and relationship data for one document.
type DocumentMetadata struct {
	DocumentId  ID
	TotalTokens int
	ChunkCount  int
	Entities    map[EntityType][]ExtractedEntity
	Topics      []string
	Speakers    []string
	Timeline    []TimelineEvent
	Summary     string
}

// SearchEntry is a denormalized search-index row written alongside each
// stored embedding vector.
type SearchEntry struct {
	ChunkId    ID
	DocumentId ID
	Title      string
	Timestamp  time.Time
	Preview    string  // Short text preview of the chunk
	Relevance  float64 // Placeholder relevance, tuned by consumers
}

// SimilarityMatch is a chunk match from vector similarity search.
type SimilarityMatch struct {
	ChunkId ID
	Score   float32
}

// SearchResult pairs a chunk with its similarity score.
type SearchResult struct {
	Chunk *Chunk
	Score float32
}
