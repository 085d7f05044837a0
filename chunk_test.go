package sparsebitset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompressFromPicksSmallestVariant(t *testing.T) {
	var dense [chunkBytes]byte
	assert.Nil(t, compressFrom(&dense), "all-zero chunk compresses to nil (delete)")

	for i := range dense {
		dense[i] = 0xFF
	}
	blob := compressFrom(&dense)
	require.NotNil(t, blob)
	assert.Equal(t, tagAll1, blobTag(blob))

	for i := range dense {
		dense[i] = 0
	}
	dense[0] = 0x01 // a single set bit, well under maxSparse
	blob = compressFrom(&dense)
	require.NotNil(t, blob)
	assert.Equal(t, tagSparseSet, blobTag(blob))

	for i := range dense {
		dense[i] = 0xFF
	}
	dense[0] = 0xFE // a single clear bit, well above minSparseUnset
	blob = compressFrom(&dense)
	require.NotNil(t, blob)
	assert.Equal(t, tagSparseUnset, blobTag(blob))
}

func TestCompressFromPicksDenseInMiddleBand(t *testing.T) {
	var dense [chunkBytes]byte
	// Set a population squarely between maxSparse and minSparseUnset.
	for i := 0; i < chunkWidth/2; i++ {
		dense[i/8] |= 1 << uint(i%8)
	}
	blob := compressFrom(&dense)
	require.NotNil(t, blob)
	assert.Equal(t, tagDenseBitmap, blobTag(blob))
}

func TestExpandIntoRoundTripsEveryVariant(t *testing.T) {
	positions := []uint16{0, 1, 13, 100, 629, 4095, 8191}

	var want [chunkBytes]byte
	for _, p := range positions {
		want[p/8] |= 1 << (p % 8)
	}

	blob := newSparseBlob(tagSparseSet, positions)
	var got [chunkBytes]byte
	expandInto(blob, &got)
	assert.Equal(t, want, got)

	blob = newDenseBlob(&want)
	got = [chunkBytes]byte{}
	expandInto(blob, &got)
	assert.Equal(t, want, got)
}

func TestFirstLastSetOffsetAgreeWithExpand(t *testing.T) {
	offsets := []uint16{3, 77, 8190}
	blob := newSparseBlob(tagSparseSet, offsets)

	first, ok := firstSetOffset(blob)
	require.True(t, ok)
	assert.Equal(t, uint16(3), first)

	last, ok := lastSetOffset(blob)
	require.True(t, ok)
	assert.Equal(t, uint16(8190), last)
}

func TestCountBelowAndNthSetOffsetAreInverses(t *testing.T) {
	offsets := []uint16{0, 5, 100, 4000, 8000}
	blob := newSparseBlob(tagSparseSet, offsets)

	for i, off := range offsets {
		assert.Equal(t, i, countBelow(blob, int(off)))
		got, ok := nthSetOffset(blob, i+1)
		require.True(t, ok)
		assert.Equal(t, off, got)
	}
	_, ok := nthSetOffset(blob, 0)
	assert.False(t, ok)
	_, ok = nthSetOffset(blob, len(offsets)+1)
	assert.False(t, ok)
}

func TestNextSetOffsetSkipsAheadOverSparseSet(t *testing.T) {
	offsets := []uint16{2, 3, 4, 500, 8191}
	blob := newSparseBlob(tagSparseSet, offsets)

	from := 0
	for _, w := range offsets {
		got, ok := nextSetOffset(blob, from)
		require.True(t, ok)
		assert.Equal(t, w, got)
		from = int(got) + 1
	}
	_, ok := nextSetOffset(blob, from)
	assert.False(t, ok)
}

func TestNextSetOffsetSkipsUnsetRunInSparseUnset(t *testing.T) {
	// Unset positions 2,3,4: the next set offset at or after 0 is 0, at or
	// after 2 must skip the unset run and land on 5.
	blob := newSparseBlob(tagSparseUnset, []uint16{2, 3, 4})

	got, ok := nextSetOffset(blob, 0)
	require.True(t, ok)
	assert.Equal(t, uint16(0), got)

	got, ok = nextSetOffset(blob, 2)
	require.True(t, ok)
	assert.Equal(t, uint16(5), got)

	got, ok = nextSetOffset(blob, chunkWidth-1)
	require.True(t, ok)
	assert.Equal(t, uint16(chunkWidth-1), got)
}

func TestPopulationMatchesPopcount(t *testing.T) {
	var dense [chunkBytes]byte
	offsets := []uint16{1, 2, 3, 4, 5}
	for _, o := range offsets {
		dense[o/8] |= 1 << (o % 8)
	}
	blob := newSparseBlob(tagSparseSet, offsets)
	assert.Equal(t, len(offsets), population(blob))

	blob = newDenseBlob(&dense)
	assert.Equal(t, len(offsets), population(blob))

	blob = newAll1Blob()
	assert.Equal(t, chunkWidth, population(blob))
}
