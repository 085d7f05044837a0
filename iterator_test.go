package sparsebitset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIteratorYieldsAscendingPositions(t *testing.T) {
	positions := []uint64{0, 1, 8191, 8192, 16383, 16384, 1_000_000}
	b := FromArray(positions)

	it := b.Iterator()
	var got []uint64
	for {
		p, ok := it.Next()
		if !ok {
			break
		}
		got = append(got, p)
	}
	assert.Equal(t, positions, got)
}

func TestIteratorOverEmptyBitset(t *testing.T) {
	it := New().Iterator()
	_, ok := it.Next()
	assert.False(t, ok)
}

func TestIteratorResetReplaysSnapshot(t *testing.T) {
	b := FromArray([]uint64{1, 2, 3})
	it := b.Iterator()

	first, ok := it.Next()
	require.True(t, ok)
	assert.Equal(t, uint64(1), first)

	it.Reset()
	first, ok = it.Next()
	require.True(t, ok)
	assert.Equal(t, uint64(1), first)
}

func TestIteratorSurvivesDeletionAfterSnapshot(t *testing.T) {
	b := FromArray([]uint64{1, 8192 + 1})
	it := b.Iterator() // snapshots both chunk ids

	b.Clear(8192 + 1) // second chunk becomes empty and is removed from the map

	var got []uint64
	for {
		p, ok := it.Next()
		if !ok {
			break
		}
		got = append(got, p)
	}
	assert.Equal(t, []uint64{1}, got)
}

func TestIteratorOverAllVariants(t *testing.T) {
	b := New()
	b.SetRange(0, chunkWidth)              // chunk 0: ALL_1
	b.Set(chunkWidth + 5)                  // chunk 1: SPARSE_SET
	b.SetRange(2*chunkWidth, chunkWidth/2) // chunk 2: DENSE_BITMAP band
	b.SetRange(3*chunkWidth, chunkWidth-1) // chunk 3: SPARSE_UNSET

	count := 0
	it := b.Iterator()
	for {
		_, ok := it.Next()
		if !ok {
			break
		}
		count++
	}
	assert.Equal(t, int(b.BitCount()), count)
}
