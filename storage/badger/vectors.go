package badger

import (
	"context"
	"slices"

	badgerdb "github.com/dgraph-io/badger/v4"

	"github.com/sievedata/sift/core"
	"github.com/sievedata/sift/storage"
)

// PutVector stores a chunk's embedding vector and its denormalized search
// entry in one transaction.
func (s *Store) PutVector(ctx context.Context, chunkId core.ID, vector core.EmbeddingVector, entry *core.SearchEntry) error {
	return s.backend.WithTx(func(tx *badgerdb.Txn) error {
		if err := tx.Set(makeVectorKey(chunkId), vector.Encode()); err != nil {
			return err
		}
		if entry != nil {
			if err := tx.Set(makeSearchKey(chunkId), storage.MarshalSearchEntry(entry)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetVector retrieves a chunk's embedding vector.
func (s *Store) GetVector(ctx context.Context, chunkId core.ID) (core.EmbeddingVector, error) {
	var result core.EmbeddingVector
	err := s.backend.WithTx(func(tx *badgerdb.Txn) error {
		item, err := tx.Get(makeVectorKey(chunkId))
		if err != nil {
			if err == badgerdb.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var decodeErr error
			result, decodeErr = core.DecodeEmbeddingVector(val)
			return decodeErr
		})
	}, false)
	return result, err
}

// VectorCount returns how many of the given chunks have stored vectors.
func (s *Store) VectorCount(ctx context.Context, chunkIds ...core.ID) (int, error) {
	count := 0
	err := s.backend.WithTx(func(tx *badgerdb.Txn) error {
		for _, id := range chunkIds {
			if _, err := tx.Get(makeVectorKey(id)); err != nil {
				if err == badgerdb.ErrKeyNotFound {
					continue
				}
				return err
			}
			count++
		}
		return nil
	}, false)
	return count, err
}

// FindSimilar scans stored vectors and returns the chunks most similar to
// the query. Chunks without vectors never appear, so results are valid
// before a document's embedding completes.
func (s *Store) FindSimilar(ctx context.Context, query []float32, minSimilarity float32, limit int) ([]*core.SimilarityMatch, error) {
	queryMagnitude := core.NewEmbeddingVector(query, "").Magnitude

	var matches []*core.SimilarityMatch
	err := s.backend.WithTx(func(tx *badgerdb.Txn) error {
		opts := badgerdb.DefaultIteratorOptions
		opts.Prefix = []byte(vectorPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			item := iter.Item()
			chunkId, err := parseVectorKey(item.Key())
			if err != nil {
				return err
			}

			var vector core.EmbeddingVector
			if err := item.Value(func(val []byte) error {
				var decodeErr error
				vector, decodeErr = core.DecodeEmbeddingVector(val)
				return decodeErr
			}); err != nil {
				return err
			}

			score := vector.Cosine(query, queryMagnitude)
			if score >= minSimilarity {
				matches = append(matches, &core.SimilarityMatch{ChunkId: chunkId, Score: score})
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	slices.SortFunc(matches, func(a, b *core.SimilarityMatch) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		return 0
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

// GetSearchEntry retrieves the denormalized search entry for a chunk.
func (s *Store) GetSearchEntry(ctx context.Context, chunkId core.ID) (*core.SearchEntry, error) {
	var result *core.SearchEntry
	err := s.backend.WithTx(func(tx *badgerdb.Txn) error {
		item, err := tx.Get(makeSearchKey(chunkId))
		if err != nil {
			if err == badgerdb.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var unmarshalErr error
			result, unmarshalErr = storage.UnmarshalSearchEntry(val)
			return unmarshalErr
		})
	}, false)
	return result, err
}
