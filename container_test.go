package sparsebitset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIsEmpty(t *testing.T) {
	b := New()
	assert.True(t, b.IsEmpty())
	assert.Equal(t, uint64(0), b.BitCount())
}

func TestFromArrayAndToArray(t *testing.T) {
	positions := []uint64{1, 2, 8191, 8192, 8193, 1_000_000}
	b := FromArray(positions)
	for _, p := range positions {
		assert.True(t, b.Test(p), "expected %d to be set", p)
	}
	got := b.ToArray(nil)
	require.Len(t, got, len(positions))
	assert.Equal(t, []uint64{1, 2, 8191, 8192, 8193, 1_000_000}, got)
}

func TestDuplicateIsIndependent(t *testing.T) {
	b := FromArray([]uint64{1, 2, 3})
	dup := b.Duplicate()
	dup.Set(4)
	b.Set(5)

	assert.False(t, b.Test(4))
	assert.True(t, dup.Test(4))
	assert.True(t, b.Test(5))
	assert.False(t, dup.Test(5))
}

func TestValueMatrixPreambleRoundTrips(t *testing.T) {
	p := Preamble{ValueWidth: 4, Rows: 10, Cols: 20}
	b := NewValueMatrix(p)

	got, ok := b.Preamble()
	require.True(t, ok)
	assert.Equal(t, p, got)

	_, ok = New().Preamble()
	assert.False(t, ok)
}

func TestChunkIDAndOffset(t *testing.T) {
	id, off := chunkIDAndOffset(0)
	assert.Equal(t, uint64(0), id)
	assert.Equal(t, uint16(0), off)

	id, off = chunkIDAndOffset(chunkWidth)
	assert.Equal(t, uint64(1), id)
	assert.Equal(t, uint16(0), off)

	id, off = chunkIDAndOffset(chunkWidth + 42)
	assert.Equal(t, uint64(1), id)
	assert.Equal(t, uint16(42), off)
}
