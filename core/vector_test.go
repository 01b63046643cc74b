package core

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEmbeddingVector_Magnitude(t *testing.T) {
	v := NewEmbeddingVector([]float32{3, 4}, "test-model")
	assert.InDelta(t, 5.0, float64(v.Magnitude), 1e-6)
}

func TestEmbeddingVector_EncodeDecode(t *testing.T) {
	v := NewEmbeddingVector([]float32{0.1, -0.5, 2.25, 0}, "embeddinggemma")

	decoded, err := DecodeEmbeddingVector(v.Encode())
	require.NoError(t, err)

	assert.Equal(t, v.Values, decoded.Values)
	assert.Equal(t, v.Magnitude, decoded.Magnitude)
	assert.Equal(t, v.Model, decoded.Model)
}

func TestEmbeddingVector_EncodeIsCompact(t *testing.T) {
	// 4 bytes per element plus a fixed-size envelope; no text encoding.
	v := NewEmbeddingVector(make([]float32, 384), "m")
	assert.Equal(t, 4+384*4+4+2+1, len(v.Encode()))
}

func TestDecodeEmbeddingVector_Truncated(t *testing.T) {
	v := NewEmbeddingVector([]float32{1, 2, 3}, "model")
	blob := v.Encode()

	_, err := DecodeEmbeddingVector(blob[:5])
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCorruptVector)

	_, err = DecodeEmbeddingVector(nil)
	assert.ErrorIs(t, err, ErrCorruptVector)
}

func TestEmbeddingVector_Cosine(t *testing.T) {
	v := NewEmbeddingVector([]float32{1, 0}, "m")

	same := []float32{2, 0}
	assert.InDelta(t, 1.0, float64(v.Cosine(same, magnitude(same))), 1e-6)

	orthogonal := []float32{0, 3}
	assert.InDelta(t, 0.0, float64(v.Cosine(orthogonal, magnitude(orthogonal))), 1e-6)

	opposite := []float32{-1, 0}
	assert.InDelta(t, -1.0, float64(v.Cosine(opposite, magnitude(opposite))), 1e-6)
}

func TestEmbeddingVector_CosineZeroMagnitude(t *testing.T) {
	zero := NewEmbeddingVector([]float32{0, 0}, "m")
	q := []float32{1, 1}
	assert.Equal(t, float32(0), zero.Cosine(q, magnitude(q)))
	assert.False(t, math.IsNaN(float64(zero.Cosine(q, magnitude(q)))))
}
