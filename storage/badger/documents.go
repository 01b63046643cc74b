package badger

import (
	"context"

	badgerdb "github.com/dgraph-io/badger/v4"

	"github.com/sievedata/sift/core"
	"github.com/sievedata/sift/storage"
)

// PutDocument inserts or overwrites a document.
func (s *Store) PutDocument(ctx context.Context, doc *core.Document) error {
	return s.backend.WithTx(func(tx *badgerdb.Txn) error {
		key := makeDocumentKey(doc.Id)

		now := s.now().UTC()
		old, err := readDocument(tx, key)
		if err != nil {
			return err
		}
		if old != nil {
			doc.InsertedAt = old.InsertedAt
		} else if doc.InsertedAt.IsZero() {
			doc.InsertedAt = now
		}
		doc.UpdatedAt = now

		if err := tx.Set(key, storage.MarshalDocument(doc)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// GetDocument retrieves a document by ID.
func (s *Store) GetDocument(ctx context.Context, id core.ID) (*core.Document, error) {
	var result *core.Document
	err := s.backend.WithTx(func(tx *badgerdb.Txn) error {
		var err error
		result, err = readDocument(tx, makeDocumentKey(id))
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

// ListDocuments retrieves all documents.
func (s *Store) ListDocuments(ctx context.Context) ([]*core.Document, error) {
	var results []*core.Document
	err := s.backend.WithTx(func(tx *badgerdb.Txn) error {
		opts := badgerdb.DefaultIteratorOptions
		opts.Prefix = []byte(documentPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var doc *core.Document
			err := iter.Item().Value(func(val []byte) error {
				var err error
				doc, err = storage.UnmarshalDocument(val)
				return err
			})
			if err != nil {
				return err
			}
			results = append(results, doc)
		}
		return nil
	}, false)
	return results, err
}

// DeleteDocument removes a document and everything derived from it: chunks,
// the position index, relationships, vectors, search entries, metadata, and
// queue tasks targeting the document.
func (s *Store) DeleteDocument(ctx context.Context, id core.ID) error {
	return s.backend.WithTx(func(tx *badgerdb.Txn) error {
		key := makeDocumentKey(id)
		doc, err := readDocument(tx, key)
		if err != nil {
			return err
		}
		if doc == nil {
			return storage.ErrNotFound
		}

		chunkIds, err := readChunkIdsByPosition(tx, id)
		if err != nil {
			return err
		}
		for _, chunkId := range chunkIds {
			chunk, err := readChunk(tx, makeChunkKey(chunkId))
			if err != nil {
				return err
			}
			if chunk != nil {
				if err := tx.Delete(makeChunkPosKey(chunk.DocumentId, chunk.Position, chunk.Id)); err != nil {
					return err
				}
				if err := tx.Delete(makeChunkKey(chunkId)); err != nil {
					return err
				}
			}
			if err := deleteByPrefix(tx, makeRelPrefix(chunkId)); err != nil {
				return err
			}
			if err := deleteIfExists(tx, makeVectorKey(chunkId)); err != nil {
				return err
			}
			if err := deleteIfExists(tx, makeSearchKey(chunkId)); err != nil {
				return err
			}
		}

		if err := deleteIfExists(tx, makeMetadataKey(id)); err != nil {
			return err
		}
		if err := s.deleteTasksForTarget(tx, id); err != nil {
			return err
		}
		if err := tx.Delete(key); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// MarkEmbeddingComplete flags a document as fully vectorized.
func (s *Store) MarkEmbeddingComplete(ctx context.Context, id core.ID) error {
	return s.backend.WithTx(func(tx *badgerdb.Txn) error {
		key := makeDocumentKey(id)
		doc, err := readDocument(tx, key)
		if err != nil {
			return err
		}
		if doc == nil {
			return storage.ErrNotFound
		}
		doc.EmbeddingComplete = true
		doc.UpdatedAt = s.now().UTC()
		if err := tx.Set(key, storage.MarshalDocument(doc)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// PutMetadata stores the aggregated metadata for a document.
func (s *Store) PutMetadata(ctx context.Context, meta *core.DocumentMetadata) error {
	return s.backend.WithTx(func(tx *badgerdb.Txn) error {
		if err := tx.Set(makeMetadataKey(meta.DocumentId), storage.MarshalMetadata(meta)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// GetMetadata retrieves a document's aggregated metadata.
func (s *Store) GetMetadata(ctx context.Context, docId core.ID) (*core.DocumentMetadata, error) {
	var result *core.DocumentMetadata
	err := s.backend.WithTx(func(tx *badgerdb.Txn) error {
		item, err := tx.Get(makeMetadataKey(docId))
		if err != nil {
			if err == badgerdb.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var err error
			result, err = storage.UnmarshalMetadata(val)
			return err
		})
	}, false)
	return result, err
}

// readDocument reads a document from the transaction, nil if absent.
func readDocument(tx *badgerdb.Txn, key []byte) (*core.Document, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badgerdb.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}
	var doc *core.Document
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		doc, unmarshalErr = storage.UnmarshalDocument(val)
		return unmarshalErr
	})
	return doc, err
}

// deleteIfExists deletes a key, tolerating its absence.
func deleteIfExists(tx *badgerdb.Txn, key []byte) error {
	if _, err := tx.Get(key); err != nil {
		if err == badgerdb.ErrKeyNotFound {
			return nil
		}
		return err
	}
	return tx.Delete(key)
}

// deleteByPrefix deletes all keys with the given prefix.
func deleteByPrefix(tx *badgerdb.Txn, prefix []byte) error {
	opts := badgerdb.DefaultIteratorOptions
	opts.Prefix = prefix
	opts.PrefetchValues = false
	iter := tx.NewIterator(opts)
	var keys [][]byte
	for iter.Rewind(); iter.Valid(); iter.Next() {
		keys = append(keys, iter.Item().KeyCopy(nil))
	}
	iter.Close()
	for _, key := range keys {
		if err := tx.Delete(key); err != nil {
			return err
		}
	}
	return nil
}
