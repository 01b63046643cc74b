package core

import (
	"encoding/binary"
	"fmt"
	"math"
)

// EmbeddingVector is a fixed-length float vector bound to exactly one chunk.
// The L2 magnitude is precomputed at creation so cosine similarity at query
// time only needs a dot product divided by the stored magnitude product.
type EmbeddingVector struct {
	Values    []float32
	Magnitude float32
	Model     string // Name/version of the embedding model that produced the vector
}

// NewEmbeddingVector builds a vector with its magnitude precomputed.
func NewEmbeddingVector(values []float32, model string) EmbeddingVector {
	return EmbeddingVector{
		Values:    values,
		Magnitude: magnitude(values),
		Model:     model,
	}
}

func magnitude(values []float32) float32 {
	var sum float64
	for _, v := range values {
		sum += float64(v) * float64(v)
	}
	return float32(math.Sqrt(sum))
}

// Cosine returns the cosine similarity between the stored vector and a query
// vector with the given magnitude. Zero-magnitude vectors yield 0.
func (v EmbeddingVector) Cosine(query []float32, queryMagnitude float32) float32 {
	if v.Magnitude == 0 || queryMagnitude == 0 {
		return 0
	}
	n := len(v.Values)
	if len(query) < n {
		n = len(query)
	}
	var dot float32
	for i := 0; i < n; i++ {
		dot += v.Values[i] * query[i]
	}
	return dot / (v.Magnitude * queryMagnitude)
}

// Encode serializes the vector as a compact binary blob: element count,
// 4 bytes per element, the magnitude, and the model string. Floats are
// stored as raw IEEE 754 bits to avoid JSON/text bloat.
func (v EmbeddingVector) Encode() []byte {
	buf := make([]byte, 4+4*len(v.Values)+4+2+len(v.Model))
	off := 0
	binary.LittleEndian.PutUint32(buf[off:], uint32(len(v.Values)))
	off += 4
	for _, f := range v.Values {
		binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(f))
		off += 4
	}
	binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(v.Magnitude))
	off += 4
	binary.LittleEndian.PutUint16(buf[off:], uint16(len(v.Model)))
	off += 2
	copy(buf[off:], v.Model)
	return buf
}

// DecodeEmbeddingVector deserializes a vector produced by Encode.
func DecodeEmbeddingVector(data []byte) (EmbeddingVector, error) {
	var v EmbeddingVector
	if len(data) < 4 {
		return v, fmt.Errorf("%w: vector blob too short", ErrCorruptVector)
	}
	off := 0
	n := int(binary.LittleEndian.Uint32(data[off:]))
	off += 4
	if len(data) < off+4*n+4+2 {
		return v, fmt.Errorf("%w: expected %d elements", ErrCorruptVector, n)
	}
	v.Values = make([]float32, n)
	for i := 0; i < n; i++ {
		v.Values[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[off:]))
		off += 4
	}
	v.Magnitude = math.Float32frombits(binary.LittleEndian.Uint32(data[off:]))
	off += 4
	modelLen := int(binary.LittleEndian.Uint16(data[off:]))
	off += 2
	if len(data) < off+modelLen {
		return v, fmt.Errorf("%w: truncated model name", ErrCorruptVector)
	}
	v.Model = string(data[off : off+modelLen])
	return v, nil
}
