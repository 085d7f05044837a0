package sparsebitset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetManyAndTestMany(t *testing.T) {
	b := New()
	positions := []uint64{1, 2, 3, 8192}
	b.SetMany(positions)

	got := b.TestMany([]uint64{1, 2, 3, 8192, 5, 9999})
	assert.Equal(t, []bool{true, true, true, true, false, false}, got)
}

func TestSetRangeWithinSingleChunk(t *testing.T) {
	b := New()
	b.SetRange(10, 5) // [10, 15)
	for p := uint64(10); p < 15; p++ {
		assert.True(t, b.Test(p), "expected %d set", p)
	}
	assert.False(t, b.Test(9))
	assert.False(t, b.Test(15))
}

func TestSetRangeSpanningMultipleChunks(t *testing.T) {
	b := New()
	lo := uint64(chunkWidth - 5)
	extent := uint64(chunkWidth + 10) // crosses two chunk boundaries
	b.SetRange(lo, extent)

	last, ok := saturatingLast(lo, extent)
	require.True(t, ok)
	for p := lo; p <= last; p++ {
		assert.True(t, b.Test(p), "expected %d set", p)
	}
	assert.False(t, b.Test(lo-1))
	assert.False(t, b.Test(last+1))
}

func TestClearRangeOnlyTouchesExistingChunks(t *testing.T) {
	b := FromArray([]uint64{5, chunkWidth * 1000})
	b.ClearRange(0, chunkWidth*2000)

	assert.False(t, b.Test(5))
	assert.False(t, b.Test(chunkWidth*1000))
	assert.True(t, b.IsEmpty())
}

func TestFlipRangeTogglesAndMaterializesAbsentChunks(t *testing.T) {
	b := New()
	b.FlipRange(0, chunkWidth*2)
	assert.Equal(t, uint64(chunkWidth*2), b.BitCount())

	b.FlipRange(0, chunkWidth*2)
	assert.True(t, b.IsEmpty())
}

func TestRangeCountMatchesRankDifference(t *testing.T) {
	b := FromArray([]uint64{1, 2, 3, 100, 8192, 8193, 20000})
	assert.Equal(t, uint64(3), b.RangeCount(0, 4))
	assert.Equal(t, uint64(0), b.RangeCount(4, 4))
	assert.Equal(t, b.BitCount(), b.RangeCount(0, 1<<40))
}

func TestSaturatingLast(t *testing.T) {
	last, ok := saturatingLast(10, 0)
	assert.False(t, ok)
	assert.Equal(t, uint64(0), last)

	last, ok = saturatingLast(^uint64(0)-1, 5)
	require.True(t, ok)
	assert.Equal(t, ^uint64(0), last)
}
