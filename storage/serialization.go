// Copyright 2025 Sieve Data
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package storage

import (
	"math"
	"time"

	"github.com/mus-format/mus-go"
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"

	"github.com/sievedata/sift/core"
)

// stringKind adapts ord.String to string-derived types.
type stringKind[T ~string] struct{}

func (stringKind[T]) Marshal(v T, bs []byte) int {
	return ord.String.Marshal(string(v), bs)
}

func (stringKind[T]) Unmarshal(bs []byte) (T, int, error) {
	s, n, err := ord.String.Unmarshal(bs)
	return T(s), n, err
}

func (stringKind[T]) Size(v T) int {
	return ord.String.Size(string(v))
}

func (stringKind[T]) Skip(bs []byte) (int, error) {
	return ord.String.Skip(bs)
}

// idSerializer encodes core.ID as a varint.
type idSerializer struct{}

func (idSerializer) Marshal(id core.ID, bs []byte) int {
	return varint.Uint64.Marshal(uint64(id), bs)
}

func (idSerializer) Unmarshal(bs []byte) (core.ID, int, error) {
	v, n, err := varint.Uint64.Unmarshal(bs)
	return core.ID(v), n, err
}

func (idSerializer) Size(id core.ID) int {
	return varint.Uint64.Size(uint64(id))
}

func (idSerializer) Skip(bs []byte) (int, error) {
	return varint.Uint64.Skip(bs)
}

// timeSerializer encodes timestamps as microsecond Unix varints. The zero
// time is stored as a sentinel so IsZero survives a round trip.
type timeSerializer struct{}

const zeroTimeSentinel = math.MinInt64

func (timeSerializer) Marshal(t time.Time, bs []byte) int {
	if t.IsZero() {
		return varint.Int64.Marshal(zeroTimeSentinel, bs)
	}
	return varint.Int64.Marshal(t.UnixMicro(), bs)
}

func (timeSerializer) Unmarshal(bs []byte) (time.Time, int, error) {
	us, n, err := varint.Int64.Unmarshal(bs)
	if err != nil || us == zeroTimeSentinel {
		return time.Time{}, n, err
	}
	return time.UnixMicro(us).UTC(), n, nil
}

func (t timeSerializer) Size(v time.Time) int {
	if v.IsZero() {
		return varint.Int64.Size(zeroTimeSentinel)
	}
	return varint.Int64.Size(v.UnixMicro())
}

func (timeSerializer) Skip(bs []byte) (int, error) {
	return varint.Int64.Skip(bs)
}

var (
	idSer      = idSerializer{}
	timeSer    = timeSerializer{}
	stringsSer = ord.NewSliceSer[string](ord.String)

	entitySer   = entitySerializer{}
	entitiesSer = ord.NewSliceSer[core.ExtractedEntity](entitySer)
	eventSer    = timelineEventSerializer{}
	eventsSer   = ord.NewSliceSer[core.TimelineEvent](eventSer)

	entityMapSer = ord.NewMapSer[core.EntityType, []core.ExtractedEntity](
		stringKind[core.EntityType]{}, entitiesSer)

	documentSer     = documentSerializer{}
	chunkSer        = chunkSerializer{}
	relationshipSer = relationshipSerializer{}
	taskSer         = taskSerializer{}
	metadataSer     = metadataSerializer{}
	searchEntrySer  = searchEntrySerializer{}
)

var (
	_ mus.Serializer[core.Document]          = documentSer
	_ mus.Serializer[core.Chunk]             = chunkSer
	_ mus.Serializer[core.ChunkRelationship] = relationshipSer
	_ mus.Serializer[core.ProcessingTask]    = taskSer
	_ mus.Serializer[core.DocumentMetadata]  = metadataSer
	_ mus.Serializer[core.SearchEntry]       = searchEntrySer
)

type documentSerializer struct{}

func (documentSerializer) Marshal(d core.Document, bs []byte) (n int) {
	n = idSer.Marshal(d.Id, bs)
	n += ord.String.Marshal(d.Title, bs[n:])
	n += stringKind[core.DocumentKind]{}.Marshal(d.Kind, bs[n:])
	n += timeSer.Marshal(d.Timestamp, bs[n:])
	n += stringsSer.Marshal(d.Participants, bs[n:])
	n += ord.Bool.Marshal(d.EmbeddingComplete, bs[n:])
	n += timeSer.Marshal(d.InsertedAt, bs[n:])
	n += timeSer.Marshal(d.UpdatedAt, bs[n:])
	return n
}

func (documentSerializer) Unmarshal(bs []byte) (d core.Document, n int, err error) {
	var m int
	if d.Id, n, err = idSer.Unmarshal(bs); err != nil {
		return
	}
	if d.Title, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return d, n + m, err
	}
	n += m
	if d.Kind, m, err = (stringKind[core.DocumentKind]{}).Unmarshal(bs[n:]); err != nil {
		return d, n + m, err
	}
	n += m
	if d.Timestamp, m, err = timeSer.Unmarshal(bs[n:]); err != nil {
		return d, n + m, err
	}
	n += m
	if d.Participants, m, err = stringsSer.Unmarshal(bs[n:]); err != nil {
		return d, n + m, err
	}
	n += m
	if d.EmbeddingComplete, m, err = ord.Bool.Unmarshal(bs[n:]); err != nil {
		return d, n + m, err
	}
	n += m
	if d.InsertedAt, m, err = timeSer.Unmarshal(bs[n:]); err != nil {
		return d, n + m, err
	}
	n += m
	d.UpdatedAt, m, err = timeSer.Unmarshal(bs[n:])
	return d, n + m, err
}

func (documentSerializer) Size(d core.Document) (size int) {
	size = idSer.Size(d.Id)
	size += ord.String.Size(d.Title)
	size += stringKind[core.DocumentKind]{}.Size(d.Kind)
	size += timeSer.Size(d.Timestamp)
	size += stringsSer.Size(d.Participants)
	size += ord.Bool.Size(d.EmbeddingComplete)
	size += timeSer.Size(d.InsertedAt)
	size += timeSer.Size(d.UpdatedAt)
	return size
}

func (s documentSerializer) Skip(bs []byte) (int, error) {
	_, n, err := s.Unmarshal(bs)
	return n, err
}

type entitySerializer struct{}

func (entitySerializer) Marshal(e core.ExtractedEntity, bs []byte) (n int) {
	n = stringKind[core.EntityType]{}.Marshal(e.Type, bs)
	n += ord.String.Marshal(e.Value, bs[n:])
	n += raw.Float64.Marshal(e.Confidence, bs[n:])
	n += varint.Int.Marshal(e.SourcePosition, bs[n:])
	n += ord.String.Marshal(e.Context, bs[n:])
	return n
}

func (entitySerializer) Unmarshal(bs []byte) (e core.ExtractedEntity, n int, err error) {
	var m int
	if e.Type, n, err = (stringKind[core.EntityType]{}).Unmarshal(bs); err != nil {
		return
	}
	if e.Value, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return e, n + m, err
	}
	n += m
	if e.Confidence, m, err = raw.Float64.Unmarshal(bs[n:]); err != nil {
		return e, n + m, err
	}
	n += m
	if e.SourcePosition, m, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return e, n + m, err
	}
	n += m
	e.Context, m, err = ord.String.Unmarshal(bs[n:])
	return e, n + m, err
}

func (entitySerializer) Size(e core.ExtractedEntity) (size int) {
	size = stringKind[core.EntityType]{}.Size(e.Type)
	size += ord.String.Size(e.Value)
	size += raw.Float64.Size(e.Confidence)
	size += varint.Int.Size(e.SourcePosition)
	size += ord.String.Size(e.Context)
	return size
}

func (s entitySerializer) Skip(bs []byte) (int, error) {
	_, n, err := s.Unmarshal(bs)
	return n, err
}

type chunkSerializer struct{}

func (chunkSerializer) Marshal(c core.Chunk, bs []byte) (n int) {
	n = idSer.Marshal(c.Id, bs)
	n += idSer.Marshal(c.DocumentId, bs[n:])
	n += raw.Float64.Marshal(c.Position, bs[n:])
	n += stringKind[core.ChunkType]{}.Marshal(c.Type, bs[n:])
	n += ord.String.Marshal(c.Content, bs[n:])
	n += ord.String.Marshal(c.Speaker, bs[n:])
	n += raw.Float64.Marshal(c.StartTime, bs[n:])
	n += raw.Float64.Marshal(c.EndTime, bs[n:])
	n += varint.Int.Marshal(c.TokenCount, bs[n:])
	n += raw.Float64.Marshal(c.Importance, bs[n:])
	n += stringKind[core.Sentiment]{}.Marshal(c.Sentiment, bs[n:])
	n += stringsSer.Marshal(c.Topics, bs[n:])
	n += ord.String.Marshal(c.ContextBefore, bs[n:])
	n += ord.String.Marshal(c.ContextAfter, bs[n:])
	n += idSer.Marshal(c.PreviousChunkId, bs[n:])
	n += idSer.Marshal(c.NextChunkId, bs[n:])
	n += idSer.Marshal(c.ParentChunkId, bs[n:])
	n += entitiesSer.Marshal(c.Entities, bs[n:])
	n += timeSer.Marshal(c.InsertedAt, bs[n:])
	n += timeSer.Marshal(c.UpdatedAt, bs[n:])
	return n
}

func (chunkSerializer) Unmarshal(bs []byte) (c core.Chunk, n int, err error) {
	var m int
	if c.Id, n, err = idSer.Unmarshal(bs); err != nil {
		return
	}
	if c.DocumentId, m, err = idSer.Unmarshal(bs[n:]); err != nil {
		return c, n + m, err
	}
	n += m
	if c.Position, m, err = raw.Float64.Unmarshal(bs[n:]); err != nil {
		return c, n + m, err
	}
	n += m
	if c.Type, m, err = (stringKind[core.ChunkType]{}).Unmarshal(bs[n:]); err != nil {
		return c, n + m, err
	}
	n += m
	if c.Content, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return c, n + m, err
	}
	n += m
	if c.Speaker, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return c, n + m, err
	}
	n += m
	if c.StartTime, m, err = raw.Float64.Unmarshal(bs[n:]); err != nil {
		return c, n + m, err
	}
	n += m
	if c.EndTime, m, err = raw.Float64.Unmarshal(bs[n:]); err != nil {
		return c, n + m, err
	}
	n += m
	if c.TokenCount, m, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return c, n + m, err
	}
	n += m
	if c.Importance, m, err = raw.Float64.Unmarshal(bs[n:]); err != nil {
		return c, n + m, err
	}
	n += m
	if c.Sentiment, m, err = (stringKind[core.Sentiment]{}).Unmarshal(bs[n:]); err != nil {
		return c, n + m, err
	}
	n += m
	if c.Topics, m, err = stringsSer.Unmarshal(bs[n:]); err != nil {
		return c, n + m, err
	}
	n += m
	if c.ContextBefore, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return c, n + m, err
	}
	n += m
	if c.ContextAfter, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return c, n + m, err
	}
	n += m
	if c.PreviousChunkId, m, err = idSer.Unmarshal(bs[n:]); err != nil {
		return c, n + m, err
	}
	n += m
	if c.NextChunkId, m, err = idSer.Unmarshal(bs[n:]); err != nil {
		return c, n + m, err
	}
	n += m
	if c.ParentChunkId, m, err = idSer.Unmarshal(bs[n:]); err != nil {
		return c, n + m, err
	}
	n += m
	if c.Entities, m, err = entitiesSer.Unmarshal(bs[n:]); err != nil {
		return c, n + m, err
	}
	n += m
	if c.InsertedAt, m, err = timeSer.Unmarshal(bs[n:]); err != nil {
		return c, n + m, err
	}
	n += m
	c.UpdatedAt, m, err = timeSer.Unmarshal(bs[n:])
	return c, n + m, err
}

func (chunkSerializer) Size(c core.Chunk) (size int) {
	size = idSer.Size(c.Id)
	size += idSer.Size(c.DocumentId)
	size += raw.Float64.Size(c.Position)
	size += stringKind[core.ChunkType]{}.Size(c.Type)
	size += ord.String.Size(c.Content)
	size += ord.String.Size(c.Speaker)
	size += raw.Float64.Size(c.StartTime)
	size += raw.Float64.Size(c.EndTime)
	size += varint.Int.Size(c.TokenCount)
	size += raw.Float64.Size(c.Importance)
	size += stringKind[core.Sentiment]{}.Size(c.Sentiment)
	size += stringsSer.Size(c.Topics)
	size += ord.String.Size(c.ContextBefore)
	size += ord.String.Size(c.ContextAfter)
	size += idSer.Size(c.PreviousChunkId)
	size += idSer.Size(c.NextChunkId)
	size += idSer.Size(c.ParentChunkId)
	size += entitiesSer.Size(c.Entities)
	size += timeSer.Size(c.InsertedAt)
	size += timeSer.Size(c.UpdatedAt)
	return size
}

func (s chunkSerializer) Skip(bs []byte) (int, error) {
	_, n, err := s.Unmarshal(bs)
	return n, err
}

type relationshipSerializer struct{}

func (relationshipSerializer) Marshal(r core.ChunkRelationship, bs []byte) (n int) {
	n = idSer.Marshal(r.FromChunkId, bs)
	n += idSer.Marshal(r.ToChunkId, bs[n:])
	n += stringKind[core.RelationshipType]{}.Marshal(r.Type, bs[n:])
	n += raw.Float64.Marshal(r.Strength, bs[n:])
	return n
}

func (relationshipSerializer) Unmarshal(bs []byte) (r core.ChunkRelationship, n int, err error) {
	var m int
	if r.FromChunkId, n, err = idSer.Unmarshal(bs); err != nil {
		return
	}
	if r.ToChunkId, m, err = idSer.Unmarshal(bs[n:]); err != nil {
		return r, n + m, err
	}
	n += m
	if r.Type, m, err = (stringKind[core.RelationshipType]{}).Unmarshal(bs[n:]); err != nil {
		return r, n + m, err
	}
	n += m
	r.Strength, m, err = raw.Float64.Unmarshal(bs[n:])
	return r, n + m, err
}

func (relationshipSerializer) Size(r core.ChunkRelationship) (size int) {
	size = idSer.Size(r.FromChunkId)
	size += idSer.Size(r.ToChunkId)
	size += stringKind[core.RelationshipType]{}.Size(r.Type)
	size += raw.Float64.Size(r.Strength)
	return size
}

func (s relationshipSerializer) Skip(bs []byte) (int, error) {
	_, n, err := s.Unmarshal(bs)
	return n, err
}

type taskSerializer struct{}

func (taskSerializer) Marshal(t core.ProcessingTask, bs []byte) (n int) {
	n = ord.String.Marshal(t.Id, bs)
	n += idSer.Marshal(t.TargetId, bs[n:])
	n += ord.String.Marshal(t.TaskType, bs[n:])
	n += varint.Int.Marshal(t.Priority, bs[n:])
	n += varint.Int.Marshal(int(t.Status), bs[n:])
	n += varint.Int.Marshal(t.Attempts, bs[n:])
	n += ord.String.Marshal(t.LastError, bs[n:])
	n += timeSer.Marshal(t.ScheduledFor, bs[n:])
	n += timeSer.Marshal(t.CreatedAt, bs[n:])
	n += timeSer.Marshal(t.UpdatedAt, bs[n:])
	return n
}

func (taskSerializer) Unmarshal(bs []byte) (t core.ProcessingTask, n int, err error) {
	var m int
	var status int
	if t.Id, n, err = ord.String.Unmarshal(bs); err != nil {
		return
	}
	if t.TargetId, m, err = idSer.Unmarshal(bs[n:]); err != nil {
		return t, n + m, err
	}
	n += m
	if t.TaskType, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return t, n + m, err
	}
	n += m
	if t.Priority, m, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return t, n + m, err
	}
	n += m
	if status, m, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return t, n + m, err
	}
	t.Status = core.TaskStatus(status)
	n += m
	if t.Attempts, m, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return t, n + m, err
	}
	n += m
	if t.LastError, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return t, n + m, err
	}
	n += m
	if t.ScheduledFor, m, err = timeSer.Unmarshal(bs[n:]); err != nil {
		return t, n + m, err
	}
	n += m
	if t.CreatedAt, m, err = timeSer.Unmarshal(bs[n:]); err != nil {
		return t, n + m, err
	}
	n += m
	t.UpdatedAt, m, err = timeSer.Unmarshal(bs[n:])
	return t, n + m, err
}

func (taskSerializer) Size(t core.ProcessingTask) (size int) {
	size = ord.String.Size(t.Id)
	size += idSer.Size(t.TargetId)
	size += ord.String.Size(t.TaskType)
	size += varint.Int.Size(t.Priority)
	size += varint.Int.Size(int(t.Status))
	size += varint.Int.Size(t.Attempts)
	size += ord.String.Size(t.LastError)
	size += timeSer.Size(t.ScheduledFor)
	size += timeSer.Size(t.CreatedAt)
	size += timeSer.Size(t.UpdatedAt)
	return size
}

func (s taskSerializer) Skip(bs []byte) (int, error) {
	_, n, err := s.Unmarshal(bs)
	return n, err
}

type timelineEventSerializer struct{}

func (timelineEventSerializer) Marshal(e core.TimelineEvent, bs []byte) (n int) {
	n = ord.String.Marshal(e.Id, bs)
	n += timeSer.Marshal(e.Timestamp, bs[n:])
	n += raw.Float64.Marshal(e.Position, bs[n:])
	n += stringKind[core.EntityType]{}.Marshal(e.Type, bs[n:])
	n += ord.String.Marshal(e.Description, bs[n:])
	n += idSer.Marshal(e.SourceChunkId, bs[n:])
	return n
}

func (timelineEventSerializer) Unmarshal(bs []byte) (e core.TimelineEvent, n int, err error) {
	var m int
	if e.Id, n, err = ord.String.Unmarshal(bs); err != nil {
		return
	}
	if e.Timestamp, m, err = timeSer.Unmarshal(bs[n:]); err != nil {
		return e, n + m, err
	}
	n += m
	if e.Position, m, err = raw.Float64.Unmarshal(bs[n:]); err != nil {
		return e, n + m, err
	}
	n += m
	if e.Type, m, err = (stringKind[core.EntityType]{}).Unmarshal(bs[n:]); err != nil {
		return e, n + m, err
	}
	n += m
	if e.Description, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return e, n + m, err
	}
	n += m
	e.SourceChunkId, m, err = idSer.Unmarshal(bs[n:])
	return e, n + m, err
}

func (timelineEventSerializer) Size(e core.TimelineEvent) (size int) {
	size = ord.String.Size(e.Id)
	size += timeSer.Size(e.Timestamp)
	size += raw.Float64.Size(e.Position)
	size += stringKind[core.EntityType]{}.Size(e.Type)
	size += ord.String.Size(e.Description)
	size += idSer.Size(e.SourceChunkId)
	return size
}

func (s timelineEventSerializer) Skip(bs []byte) (int, error) {
	_, n, err := s.Unmarshal(bs)
	return n, err
}

type metadataSerializer struct{}

func (metadataSerializer) Marshal(d core.DocumentMetadata, bs []byte) (n int) {
	n = idSer.Marshal(d.DocumentId, bs)
	n += varint.Int.Marshal(d.TotalTokens, bs[n:])
	n += varint.Int.Marshal(d.ChunkCount, bs[n:])
	n += entityMapSer.Marshal(d.Entities, bs[n:])
	n += stringsSer.Marshal(d.Topics, bs[n:])
	n += stringsSer.Marshal(d.Speakers, bs[n:])
	n += eventsSer.Marshal(d.Timeline, bs[n:])
	n += ord.String.Marshal(d.Summary, bs[n:])
	return n
}

func (metadataSerializer) Unmarshal(bs []byte) (d core.DocumentMetadata, n int, err error) {
	var m int
	if d.DocumentId, n, err = idSer.Unmarshal(bs); err != nil {
		return
	}
	if d.TotalTokens, m, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return d, n + m, err
	}
	n += m
	if d.ChunkCount, m, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return d, n + m, err
	}
	n += m
	if d.Entities, m, err = entityMapSer.Unmarshal(bs[n:]); err != nil {
		return d, n + m, err
	}
	n += m
	if d.Topics, m, err = stringsSer.Unmarshal(bs[n:]); err != nil {
		return d, n + m, err
	}
	n += m
	if d.Speakers, m, err = stringsSer.Unmarshal(bs[n:]); err != nil {
		return d, n + m, err
	}
	n += m
	if d.Timeline, m, err = eventsSer.Unmarshal(bs[n:]); err != nil {
		return d, n + m, err
	}
	n += m
	d.Summary, m, err = ord.String.Unmarshal(bs[n:])
	return d, n + m, err
}

func (metadataSerializer) Size(d core.DocumentMetadata) (size int) {
	size = idSer.Size(d.DocumentId)
	size += varint.Int.Size(d.TotalTokens)
	size += varint.Int.Size(d.ChunkCount)
	size += entityMapSer.Size(d.Entities)
	size += stringsSer.Size(d.Topics)
	size += stringsSer.Size(d.Speakers)
	size += eventsSer.Size(d.Timeline)
	size += ord.String.Size(d.Summary)
	return size
}

func (s metadataSerializer) Skip(bs []byte) (int, error) {
	_, n, err := s.Unmarshal(bs)
	return n, err
}

type searchEntrySerializer struct{}

func (searchEntrySerializer) Marshal(e core.SearchEntry, bs []byte) (n int) {
	n = idSer.Marshal(e.ChunkId, bs)
	n += idSer.Marshal(e.DocumentId, bs[n:])
	n += ord.String.Marshal(e.Title, bs[n:])
	n += timeSer.Marshal(e.Timestamp, bs[n:])
	n += ord.String.Marshal(e.Preview, bs[n:])
	n += raw.Float64.Marshal(e.Relevance, bs[n:])
	return n
}

func (searchEntrySerializer) Unmarshal(bs []byte) (e core.SearchEntry, n int, err error) {
	var m int
	if e.ChunkId, n, err = idSer.Unmarshal(bs); err != nil {
		return
	}
	if e.DocumentId, m, err = idSer.Unmarshal(bs[n:]); err != nil {
		return e, n + m, err
	}
	n += m
	if e.Title, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return e, n + m, err
	}
	n += m
	if e.Timestamp, m, err = timeSer.Unmarshal(bs[n:]); err != nil {
		return e, n + m, err
	}
	n += m
	if e.Preview, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return e, n + m, err
	}
	n += m
	e.Relevance, m, err = raw.Float64.Unmarshal(bs[n:])
	return e, n + m, err
}

func (searchEntrySerializer) Size(e core.SearchEntry) (size int) {
	size = idSer.Size(e.ChunkId)
	size += idSer.Size(e.DocumentId)
	size += ord.String.Size(e.Title)
	size += timeSer.Size(e.Timestamp)
	size += ord.String.Size(e.Preview)
	size += raw.Float64.Size(e.Relevance)
	return size
}

func (s searchEntrySerializer) Skip(bs []byte) (int, error) {
	_, n, err := s.Unmarshal(bs)
	return n, err
}

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, idSer.Size(id))
	idSer.Marshal(id, buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	id, _, err := idSer.Unmarshal(data)
	return id, err
}

// MarshalDocument serializes a Document to bytes.
func MarshalDocument(doc *core.Document) []byte {
	buf := make([]byte, documentSer.Size(*doc))
	documentSer.Marshal(*doc, buf)
	return buf
}

// UnmarshalDocument deserializes a Document from bytes.
func UnmarshalDocument(data []byte) (*core.Document, error) {
	doc, _, err := documentSer.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// MarshalChunk serializes a Chunk to bytes.
func MarshalChunk(chunk *core.Chunk) []byte {
	buf := make([]byte, chunkSer.Size(*chunk))
	chunkSer.Marshal(*chunk, buf)
	return buf
}

// UnmarshalChunk deserializes a Chunk from bytes.
func UnmarshalChunk(data []byte) (*core.Chunk, error) {
	chunk, _, err := chunkSer.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &chunk, nil
}

// MarshalRelationship serializes a ChunkRelationship to bytes.
func MarshalRelationship(rel *core.ChunkRelationship) []byte {
	buf := make([]byte, relationshipSer.Size(*rel))
	relationshipSer.Marshal(*rel, buf)
	return buf
}

// UnmarshalRelationship deserializes a ChunkRelationship from bytes.
func UnmarshalRelationship(data []byte) (*core.ChunkRelationship, error) {
	rel, _, err := relationshipSer.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &rel, nil
}

// MarshalTask serializes a ProcessingTask to bytes.
func MarshalTask(task *core.ProcessingTask) []byte {
	buf := make([]byte, taskSer.Size(*task))
	taskSer.Marshal(*task, buf)
	return buf
}

// UnmarshalTask deserializes a ProcessingTask from bytes.
func UnmarshalTask(data []byte) (*core.ProcessingTask, error) {
	task, _, err := taskSer.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// MarshalMetadata serializes a DocumentMetadata to bytes.
func MarshalMetadata(meta *core.DocumentMetadata) []byte {
	buf := make([]byte, metadataSer.Size(*meta))
	metadataSer.Marshal(*meta, buf)
	return buf
}

// UnmarshalMetadata deserializes a DocumentMetadata from bytes.
func UnmarshalMetadata(data []byte) (*core.DocumentMetadata, error) {
	meta, _, err := metadataSer.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &meta, nil
}

// MarshalSearchEntry serializes a SearchEntry to bytes.
func MarshalSearchEntry(entry *core.SearchEntry) []byte {
	buf := make([]byte, searchEntrySer.Size(*entry))
	searchEntrySer.Marshal(*entry, buf)
	return buf
}

// UnmarshalSearchEntry deserializes a SearchEntry from bytes.
func UnmarshalSearchEntry(data []byte) (*core.SearchEntry, error) {
	entry, _, err := searchEntrySer.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}
