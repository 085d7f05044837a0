package sparsebitset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJaccardDiceOverlapHamming(t *testing.T) {
	a := FromArray([]uint64{1, 2, 3, 4})
	b := FromArray([]uint64{3, 4, 5, 6})
	// intersection = {3,4} = 2, union = {1,2,3,4,5,6} = 6

	assert.InDelta(t, 2.0/6.0, Jaccard(a, b), 1e-9)
	assert.InDelta(t, 2*2.0/8.0, Dice(a, b), 1e-9)
	assert.InDelta(t, 2.0/4.0, Overlap(a, b), 1e-9)
	assert.Equal(t, uint64(4), HammingDistance(a, b))
}

func TestSimilarityOnEmptySets(t *testing.T) {
	empty := New()
	assert.Equal(t, 1.0, Jaccard(empty, empty))
	assert.Equal(t, 1.0, Dice(empty, empty))
	assert.Equal(t, 0.0, Overlap(empty, empty))
	assert.Equal(t, uint64(0), HammingDistance(empty, empty))
}

func TestSimilarityWithOneEmptySide(t *testing.T) {
	a := FromArray([]uint64{1, 2, 3})
	empty := New()

	assert.Equal(t, 0.0, Jaccard(a, empty))
	assert.Equal(t, 0.0, Dice(a, empty))
	assert.Equal(t, 0.0, Overlap(a, empty))
	assert.Equal(t, 0.0, Overlap(empty, a))
	assert.Equal(t, uint64(3), HammingDistance(a, empty))
}

func TestSimilarityAcrossChunkBoundaries(t *testing.T) {
	a := FromArray([]uint64{1, chunkWidth + 1})
	b := FromArray([]uint64{chunkWidth + 1, chunkWidth * 5})

	assert.InDelta(t, 1.0/3.0, Jaccard(a, b), 1e-9)
}
