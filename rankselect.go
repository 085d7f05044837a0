package sparsebitset

// Rank returns the number of set bits at positions strictly less than p.
func (b *Bitset) Rank(p uint64) uint64 {
	targetID, offset := chunkIDAndOffset(p)
	var rank uint64
	b.chunks.ForwardIter(func(key uint64, value []byte) bool {
		switch {
		case key < targetID:
			rank += uint64(population(value))
			return true
		case key == targetID:
			rank += uint64(countBelow(value, int(offset)))
		}
		return false
	})
	return rank
}

// Select returns the position of the k-th set bit (1-indexed), or ok=false
// if k is 0 or exceeds the bitset's total population.
func (b *Bitset) Select(k uint64) (position uint64, ok bool) {
	if k == 0 {
		return 0, false
	}
	var running uint64
	b.chunks.ForwardIter(func(key uint64, value []byte) bool {
		pop := uint64(population(value))
		if running+pop < k {
			running += pop
			return true
		}
		target := int(k - running)
		if off, found := nthSetOffset(value, target); found {
			position = key*chunkWidth + uint64(off)
			ok = true
		}
		return false
	})
	return position, ok
}
