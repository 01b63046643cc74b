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

package search

import (
	"context"
	"log/slog"
	"sort"

	"github.com/sievedata/sift/ai"
	"github.com/sievedata/sift/core"
	"github.com/sievedata/sift/storage"
)

// DefaultMinSimilarity is the cosine threshold callers typically pass when
// they have no tuning of their own.
const DefaultMinSimilarity = 0.6

// verbatimBoost is added when every query word appears in the chunk text.
const verbatimBoost = 0.3

// Searcher runs semantic queries over stored chunk vectors.
type Searcher struct {
	store    storage.Store
	embedder ai.Embedder
	logger   *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger.With("component", "search")
		return nil
	}
}

// NewSearcher creates a new searcher.
func NewSearcher(store storage.Store, embedder ai.Embedder, opts ...Option) (*Searcher, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	s := &Searcher{
		store:    store,
		embedder: embedder,
		logger:   slog.Default().With("component", "search"),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Search embeds the query, finds the closest stored vectors at or above
// minSimilarity, and returns up to limit chunks ranked by score. A verbatim
// match of all query words boosts a chunk's score.
func (s *Searcher) Search(ctx context.Context, query string, limit int, minSimilarity float32) ([]*core.SearchResult, error) {
	embedding, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		s.logger.Error("error generating embedding for query", "query", query, "err", err)
		return nil, err
	}

	matches, err := s.store.FindSimilar(ctx, embedding, minSimilarity, limit)
	if err != nil {
		s.logger.Error("error querying for similar chunks", "err", err)
		return nil, err
	}
	if len(matches) == 0 {
		return []*core.SearchResult{}, nil
	}

	ids := make([]core.ID, len(matches))
	scores := make(map[core.ID]float32, len(matches))
	for i, match := range matches {
		ids[i] = match.ChunkId
		scores[match.ChunkId] = match.Score
	}

	chunks, err := s.store.GetChunks(ctx, ids...)
	if err != nil {
		s.logger.Error("error retrieving chunks", "chunkCount", len(ids), "err", err)
		return nil, err
	}

	results := make([]*core.SearchResult, 0, len(chunks))
	for _, chunk := range chunks {
		score := scores[chunk.Id]
		if matchesAllTerms(chunk.Content, query) {
			score += verbatimBoost
		}
		results = append(results, &core.SearchResult{Chunk: chunk, Score: score})
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}
