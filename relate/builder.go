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

package relate

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/sievedata/sift/core"
)

const (
	topicJaccardThreshold = 0.7
	speakerStrength       = 0.8
	entityStrengthStep    = 0.3

	// maxBucketSize caps how many chunks any one inverted-index bucket may
	// contribute to pairwise comparison. Buckets past this size are sampled
	// by taking the first entries in document order.
	maxBucketSize = 256
)

// Builder derives typed, weighted edges between the chunks of one document.
type Builder struct {
	logger *slog.Logger
}

type Option func(*Builder) error

func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) error {
		b.logger = logger.With("component", "relate")
		return nil
	}
}

func NewBuilder(opts ...Option) (*Builder, error) {
	b := &Builder{logger: slog.Default().With("component", "relate")}
	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// Build returns the relationship set for an ordered chunk list. Edges always
// point from the earlier chunk to the later one, and the (from, to, type)
// triple is unique in the result.
func (b *Builder) Build(chunks []*core.Chunk) []*core.ChunkRelationship {
	if len(chunks) < 2 {
		return nil
	}

	seen := make(map[edgeKey]struct{})
	var edges []*core.ChunkRelationship
	add := func(from, to int, relType core.RelationshipType, strength float64) {
		rel := &core.ChunkRelationship{
			FromChunkId: chunks[from].Id,
			ToChunkId:   chunks[to].Id,
			Type:        relType,
			Strength:    strength,
		}
		key := edgeKey{rel.FromChunkId, rel.ToChunkId, relType}
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		edges = append(edges, rel)
	}

	for i := 0; i < len(chunks)-1; i++ {
		add(i, i+1, core.RelSequential, 1.0)
	}

	forEachPair(indexTopics(chunks), func(i, j int) {
		score := jaccard(chunks[i].Topics, chunks[j].Topics)
		if score > topicJaccardThreshold {
			add(i, j, core.RelTopicContinuation, score)
		}
	})

	forEachPair(indexSpeakers(chunks), func(i, j int) {
		add(i, j, core.RelSpeakerContinuation, speakerStrength)
	})

	shared := sharedEntityCounts(chunks)
	for pair, count := range shared {
		strength := entityStrengthStep * float64(count)
		if strength > 1 {
			strength = 1
		}
		add(pair.i, pair.j, core.RelEntityReference, strength)
	}

	b.logger.Debug("relationship graph built", "chunks", len(chunks), "edges", len(edges))
	return edges
}

type edgeKey struct {
	from, to core.ID
	relType  core.RelationshipType
}

type pairKey struct {
	i, j int
}

// forEachPair visits every ordered pair of chunk indices that co-occur in
// some bucket, each pair at most once across all buckets.
func forEachPair(buckets map[string][]int, visit func(i, j int)) {
	keys := make([]string, 0, len(buckets))
	for key := range buckets {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	visited := make(map[pairKey]struct{})
	for _, key := range keys {
		bucket := buckets[key]
		if len(bucket) > maxBucketSize {
			bucket = bucket[:maxBucketSize]
		}
		for a := 0; a < len(bucket); a++ {
			for b := a + 1; b < len(bucket); b++ {
				pair := pairKey{bucket[a], bucket[b]}
				if _, done := visited[pair]; done {
					continue
				}
				visited[pair] = struct{}{}
				visit(pair.i, pair.j)
			}
		}
	}
}

func indexTopics(chunks []*core.Chunk) map[string][]int {
	index := make(map[string][]int)
	for i, chunk := range chunks {
		for _, topic := range chunk.Topics {
			index[topic] = append(index[topic], i)
		}
	}
	return index
}

func indexSpeakers(chunks []*core.Chunk) map[string][]int {
	index := make(map[string][]int)
	for i, chunk := range chunks {
		if chunk.Speaker == "" {
			continue
		}
		index[chunk.Speaker] = append(index[chunk.Speaker], i)
	}
	return index
}

// sharedEntityCounts returns, for each chunk pair sharing at least one
// entity, how many distinct (type, value) entities they share.
func sharedEntityCounts(chunks []*core.Chunk) map[pairKey]int {
	index := make(map[string][]int)
	for i, chunk := range chunks {
		keys := make(map[string]struct{}, len(chunk.Entities))
		for _, entity := range chunk.Entities {
			keys[string(entity.Type)+"\x00"+strings.ToLower(entity.Value)] = struct{}{}
		}
		for key := range keys {
			index[key] = append(index[key], i)
		}
	}

	counts := make(map[pairKey]int)
	for _, bucket := range index {
		if len(bucket) > maxBucketSize {
			bucket = bucket[:maxBucketSize]
		}
		for a := 0; a < len(bucket); a++ {
			for b := a + 1; b < len(bucket); b++ {
				counts[pairKey{bucket[a], bucket[b]}]++
			}
		}
	}
	return counts
}

func jaccard(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	setA := make(map[string]struct{}, len(a))
	for _, topic := range a {
		setA[topic] = struct{}{}
	}
	setB := make(map[string]struct{}, len(b))
	for _, topic := range b {
		setB[topic] = struct{}{}
	}
	intersection := 0
	union := len(setA)
	for topic := range setB {
		if _, ok := setA[topic]; ok {
			intersection++
		} else {
			union++
		}
	}
	return float64(intersection) / float64(union)
}
