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

package aggregate

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sievedata/sift/core"
)

const summaryChunkCount = 3

// timelineTypes are the entity types worth a timeline entry.
var timelineTypes = map[core.EntityType]struct{}{
	core.EntityDecision:   {},
	core.EntityActionItem: {},
	core.EntityMilestone:  {},
	core.EntityRisk:       {},
}

// Aggregate builds document-level metadata from the finished chunk list.
// The entity map holds document-wide entities keyed by type; topics and
// speakers are deduplicated unions over all chunks.
func Aggregate(doc *core.Document, chunks []*core.Chunk, entities []*core.ExtractedEntity) *core.DocumentMetadata {
	meta := &core.DocumentMetadata{
		DocumentId: doc.Id,
		ChunkCount: len(chunks),
		Entities:   make(map[core.EntityType][]core.ExtractedEntity),
	}

	for _, entity := range entities {
		meta.Entities[entity.Type] = append(meta.Entities[entity.Type], *entity)
	}

	topics := make(map[string]struct{})
	speakers := make(map[string]struct{})
	for _, chunk := range chunks {
		meta.TotalTokens += chunk.TokenCount
		for _, topic := range chunk.Topics {
			topics[topic] = struct{}{}
		}
		if chunk.Speaker != "" {
			speakers[chunk.Speaker] = struct{}{}
		}
	}
	meta.Topics = sortedKeys(topics)
	meta.Speakers = sortedKeys(speakers)
	meta.Timeline = buildTimeline(doc, chunks)
	meta.Summary = extractiveSummary(chunks)
	return meta
}

// buildTimeline turns decision, action-item, milestone, and risk entities
// attached to chunks into chronological events. A chunk with a known start
// time yields a concrete timestamp offset from the document timestamp;
// otherwise the chunk position is kept as the sort fallback.
func buildTimeline(doc *core.Document, chunks []*core.Chunk) []core.TimelineEvent {
	var events []core.TimelineEvent
	for _, chunk := range chunks {
		for _, entity := range chunk.Entities {
			if _, notable := timelineTypes[entity.Type]; !notable {
				continue
			}
			event := core.TimelineEvent{
				Id:            uuid.NewString(),
				Position:      chunk.Position,
				Type:          entity.Type,
				Description:   entity.Value,
				SourceChunkId: chunk.Id,
			}
			if chunk.StartTime >= 0 && !doc.Timestamp.IsZero() {
				event.Timestamp = doc.Timestamp.Add(time.Duration(chunk.StartTime * float64(time.Second)))
			}
			events = append(events, event)
		}
	}

	sort.SliceStable(events, func(i, j int) bool {
		a, b := events[i], events[j]
		switch {
		case !a.Timestamp.IsZero() && !b.Timestamp.IsZero():
			return a.Timestamp.Before(b.Timestamp)
		case a.Timestamp.IsZero() != b.Timestamp.IsZero():
			// Timestamped events sort before position-only ones.
			return !a.Timestamp.IsZero()
		default:
			return a.Position < b.Position
		}
	})
	return events
}

// extractiveSummary joins the opening sentence of the highest-importance
// chunks, in document order.
func extractiveSummary(chunks []*core.Chunk) string {
	if len(chunks) == 0 {
		return ""
	}
	ranked := make([]*core.Chunk, len(chunks))
	copy(ranked, chunks)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Importance > ranked[j].Importance
	})
	if len(ranked) > summaryChunkCount {
		ranked = ranked[:summaryChunkCount]
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Position < ranked[j].Position
	})

	var parts []string
	for _, chunk := range ranked {
		if sentence := firstSentence(chunk.Content); sentence != "" {
			parts = append(parts, sentence)
		}
	}
	return strings.Join(parts, " ")
}

func firstSentence(text string) string {
	text = strings.TrimSpace(text)
	for i, r := range text {
		if r == '.' || r == '!' || r == '?' {
			return text[:i+1]
		}
		if r == '\n' {
			return strings.TrimSpace(text[:i])
		}
	}
	return text
}

func sortedKeys(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
