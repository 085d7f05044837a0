package sparsebitset

// Iterator walks a Bitset's set positions in ascending order. It snapshots
// the chunk id list at creation time via entrymap.Keys, so chunks inserted
// after the Iterator is created are never visited, and snapshotted chunks
// deleted before the Iterator reaches them are skipped — the same
// invalidation-safe contract entrymap.Map documents for its other snapshot
// readers.
type Iterator struct {
	b          *Bitset
	keys       []uint64
	ki         int
	curBlob    []byte
	nextOffset int
}

// Iterator returns a fresh Iterator positioned before the first set position.
func (b *Bitset) Iterator() *Iterator {
	it := &Iterator{b: b, keys: b.chunks.Keys()}
	it.seekChunk(0)
	return it
}

// Reset repositions it before the first set position of its original
// snapshot.
func (it *Iterator) Reset() {
	it.seekChunk(0)
}

// seekChunk advances to the first chunk at or after index ki that is still
// present in the entry map, loading its blob as the current cursor target.
func (it *Iterator) seekChunk(ki int) {
	for ki < len(it.keys) {
		if blob, found := it.b.chunks.Lookup(it.keys[ki]); found {
			it.ki = ki
			it.curBlob = blob
			it.nextOffset = 0
			return
		}
		ki++
	}
	it.ki = len(it.keys)
	it.curBlob = nil
}

// Next returns the next set position in ascending order, or ok=false once
// the snapshot is exhausted.
func (it *Iterator) Next() (position uint64, ok bool) {
	for it.curBlob != nil {
		off, found := nextSetOffset(it.curBlob, it.nextOffset)
		if !found {
			it.seekChunk(it.ki + 1)
			continue
		}
		it.nextOffset = int(off) + 1
		return it.keys[it.ki]*chunkWidth + uint64(off), true
	}
	return 0, false
}
