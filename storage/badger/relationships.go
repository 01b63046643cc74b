package badger

import (
	"context"

	badgerdb "github.com/dgraph-io/badger/v4"

	"github.com/sievedata/sift/core"
	"github.com/sievedata/sift/storage"
)

// PutRelationships stores edges, keyed by the (from, to, type) triple so
// re-putting an edge overwrites it.
func (s *Store) PutRelationships(ctx context.Context, rels ...*core.ChunkRelationship) error {
	return s.backend.WithTx(func(tx *badgerdb.Txn) error {
		for _, rel := range rels {
			key := makeRelKey(rel.FromChunkId, rel.ToChunkId, rel.Type)
			if err := tx.Set(key, storage.MarshalRelationship(rel)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetChunkRelationships retrieves the outgoing edges of a chunk.
func (s *Store) GetChunkRelationships(ctx context.Context, chunkId core.ID) ([]*core.ChunkRelationship, error) {
	var results []*core.ChunkRelationship
	err := s.backend.WithTx(func(tx *badgerdb.Txn) error {
		opts := badgerdb.DefaultIteratorOptions
		opts.Prefix = makeRelPrefix(chunkId)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var rel *core.ChunkRelationship
			err := iter.Item().Value(func(val []byte) error {
				var err error
				rel, err = storage.UnmarshalRelationship(val)
				return err
			})
			if err != nil {
				return err
			}
			results = append(results, rel)
		}
		return nil
	}, false)
	return results, err
}
