package sparsebitset

// Set sets position p, returning whether it was already set.
func (b *Bitset) Set(p uint64) (previously bool) {
	id, offset := chunkIDAndOffset(p)
	e, found := b.chunks.GetEntry(id)
	if !found {
		b.chunks.Insert(id, newSparseBlob(tagSparseSet, []uint16{offset}))
		return false
	}
	return setBit(b.chunks, e, offset)
}

// Test reports whether position p is set.
func (b *Bitset) Test(p uint64) bool {
	id, offset := chunkIDAndOffset(p)
	blob, found := b.chunks.Lookup(id)
	if !found {
		return false
	}
	return testOffset(blob, offset)
}

// Clear clears position p, returning whether it was previously set. Remove
// is an alias kept for readability at call sites that read as "remove this
// position from the set."
func (b *Bitset) Clear(p uint64) (previously bool) {
	id, offset := chunkIDAndOffset(p)
	e, found := b.chunks.GetEntry(id)
	if !found {
		return false
	}
	prev, becameEmpty := clearBit(b.chunks, e, offset)
	if becameEmpty {
		b.chunks.Delete(id)
	}
	return prev
}

// Remove is an alias for Clear.
func (b *Bitset) Remove(p uint64) (previously bool) {
	return b.Clear(p)
}
