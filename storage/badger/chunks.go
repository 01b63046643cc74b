package badger

import (
	"context"

	badgerdb "github.com/dgraph-io/badger/v4"

	"github.com/sievedata/sift/core"
	"github.com/sievedata/sift/storage"
)

// PutChunks inserts or overwrites chunks and maintains the per-document
// position index. Content-addressed chunk IDs make reprocessing a document
// overwrite identical rows instead of duplicating them.
func (s *Store) PutChunks(ctx context.Context, chunks ...*core.Chunk) error {
	return s.backend.WithTx(func(tx *badgerdb.Txn) error {
		now := s.now().UTC()
		for _, chunk := range chunks {
			key := makeChunkKey(chunk.Id)

			old, err := readChunk(tx, key)
			if err != nil {
				return err
			}
			if old != nil {
				chunk.InsertedAt = old.InsertedAt
				if old.Position != chunk.Position || old.DocumentId != chunk.DocumentId {
					if err := tx.Delete(makeChunkPosKey(old.DocumentId, old.Position, old.Id)); err != nil {
						return err
					}
				}
			} else if chunk.InsertedAt.IsZero() {
				chunk.InsertedAt = now
			}
			chunk.UpdatedAt = now

			if err := tx.Set(key, storage.MarshalChunk(chunk)); err != nil {
				return err
			}
			posKey := makeChunkPosKey(chunk.DocumentId, chunk.Position, chunk.Id)
			if err := tx.Set(posKey, storage.MarshalID(chunk.Id)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetChunk retrieves a single chunk by ID.
func (s *Store) GetChunk(ctx context.Context, id core.ID) (*core.Chunk, error) {
	var result *core.Chunk
	err := s.backend.WithTx(func(tx *badgerdb.Txn) error {
		var err error
		result, err = readChunk(tx, makeChunkKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// GetChunks retrieves multiple chunks by their IDs, skipping missing ones.
func (s *Store) GetChunks(ctx context.Context, ids ...core.ID) ([]*core.Chunk, error) {
	var result []*core.Chunk
	err := s.backend.WithTx(func(tx *badgerdb.Txn) error {
		for _, id := range ids {
			chunk, err := readChunk(tx, makeChunkKey(id))
			if err != nil {
				return err
			}
			if chunk != nil {
				result = append(result, chunk)
			}
		}
		return nil
	}, false)
	return result, err
}

// GetDocumentChunks retrieves all chunks of a document in ascending position
// order, via the position index.
func (s *Store) GetDocumentChunks(ctx context.Context, docId core.ID) ([]*core.Chunk, error) {
	var results []*core.Chunk
	err := s.backend.WithTx(func(tx *badgerdb.Txn) error {
		ids, err := readChunkIdsByPosition(tx, docId)
		if err != nil {
			return err
		}
		for _, id := range ids {
			chunk, err := readChunk(tx, makeChunkKey(id))
			if err != nil {
				return err
			}
			if chunk != nil {
				results = append(results, chunk)
			}
		}
		return nil
	}, false)
	return results, err
}

// readChunk reads a chunk from the transaction, nil if absent.
func readChunk(tx *badgerdb.Txn, key []byte) (*core.Chunk, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badgerdb.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}
	var chunk *core.Chunk
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		chunk, unmarshalErr = storage.UnmarshalChunk(val)
		return unmarshalErr
	})
	return chunk, err
}

// readChunkIdsByPosition scans the position index for one document.
func readChunkIdsByPosition(tx *badgerdb.Txn, docId core.ID) ([]core.ID, error) {
	opts := badgerdb.DefaultIteratorOptions
	opts.Prefix = makeChunkPosPrefix(docId)
	iter := tx.NewIterator(opts)
	defer iter.Close()

	var ids []core.ID
	for iter.Rewind(); iter.Valid(); iter.Next() {
		var id core.ID
		err := iter.Item().Value(func(val []byte) error {
			var err error
			id, err = storage.UnmarshalID(val)
			return err
		})
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
