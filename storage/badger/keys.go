package badger

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/sievedata/sift/core"
)

// Key prefixes for different data types
const (
	documentPrefix    = "docrec"
	metadataPrefix    = "docmeta"
	chunkPrefix       = "chkrec"
	chunkPosPrefix    = "chkpos"
	relPrefix         = "relrec"
	taskPrefix        = "tskrec"
	taskPendingPrefix = "tskpend"
	vectorPrefix      = "vecrec"
	searchPrefix      = "vecsrch"
)

func makeDocumentKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", documentPrefix, id))
}

func makeMetadataKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", metadataPrefix, id))
}

func makeChunkKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", chunkPrefix, id))
}

// makeChunkPosKey generates a composite key for the per-document position
// index. Format: prefix:docId:positionBits:chunkId, all BigEndian so
// lexicographic iteration returns chunks in ascending position order.
// Positions are non-negative, so raw IEEE 754 bits sort correctly.
func makeChunkPosKey(docId core.ID, position float64, chunkId core.ID) []byte {
	prefix := []byte(chunkPosPrefix + ":")
	buf := make([]byte, len(prefix)+24)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(docId))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], math.Float64bits(position))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(chunkId))
	return buf
}

// makeChunkPosPrefix generates the per-document prefix for position index scans.
func makeChunkPosPrefix(docId core.ID) []byte {
	prefix := []byte(chunkPosPrefix + ":")
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(docId))
	return buf
}

// makeRelKey generates a key for a relationship edge.
// Format: prefix:fromId:toId:type, the unique triple.
func makeRelKey(from, to core.ID, relType core.RelationshipType) []byte {
	prefix := []byte(relPrefix + ":")
	buf := make([]byte, len(prefix)+16+len(relType))
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(from))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(to))
	offset += 8
	copy(buf[offset:], relType)
	return buf
}

// makeRelPrefix generates the prefix for scanning a chunk's outgoing edges.
func makeRelPrefix(from core.ID) []byte {
	prefix := []byte(relPrefix + ":")
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(from))
	return buf
}

func makeTaskKey(id string) []byte {
	return []byte(taskPrefix + ":" + id)
}

// makeTaskPendingKey generates a composite key for the pending-task index.
// Format: prefix:(255-priority):createdAt:id. Inverting the priority byte
// makes higher priorities sort first; creation time breaks ties oldest
// first.
func makeTaskPendingKey(priority int, createdAt time.Time, id string) []byte {
	if priority < 0 {
		priority = 0
	}
	if priority > 255 {
		priority = 255
	}
	prefix := []byte(taskPendingPrefix + ":")
	buf := make([]byte, len(prefix)+9+len(id))
	offset := copy(buf, prefix)
	buf[offset] = byte(255 - priority)
	offset++
	binary.BigEndian.PutUint64(buf[offset:], uint64(createdAt.UnixMicro()))
	offset += 8
	copy(buf[offset:], id)
	return buf
}

func makeVectorKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", vectorPrefix, id))
}

func makeSearchKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", searchPrefix, id))
}

// parseVectorKey recovers the chunk ID from a vector key.
func parseVectorKey(key []byte) (core.ID, error) {
	raw := string(key[len(vectorPrefix)+1:])
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed vector key %q: %w", key, err)
	}
	return core.ID(id), nil
}
