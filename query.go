package sparsebitset

// BitCount returns the total number of set bits.
func (b *Bitset) BitCount() uint64 {
	var n uint64
	b.chunks.ForwardIter(func(_ uint64, value []byte) bool {
		n += uint64(population(value))
		return true
	})
	return n
}

// IsEmpty reports whether the bitset has no set bits.
func (b *Bitset) IsEmpty() bool {
	return b.chunks.Count() == 0
}

func sortedUnionKeys(a, b *Bitset) []uint64 {
	ak, bk := a.chunks.Keys(), b.chunks.Keys()
	out := make([]uint64, 0, len(ak)+len(bk))
	i, j := 0, 0
	for i < len(ak) && j < len(bk) {
		switch {
		case ak[i] < bk[j]:
			out = append(out, ak[i])
			i++
		case ak[i] > bk[j]:
			out = append(out, bk[j])
			j++
		default:
			out = append(out, ak[i])
			i++
			j++
		}
	}
	out = append(out, ak[i:]...)
	out = append(out, bk[j:]...)
	return out
}

// Equals reports whether a and b have exactly the same set positions. It
// compares logical content chunk by chunk (expanding each side to the
// canonical dense form), not raw blob bytes — hysteresis means two bitsets
// with identical membership can legitimately hold the same chunk in
// different variants depending on mutation history.
func Equals(a, b *Bitset) bool {
	for _, id := range sortedUnionKeys(a, b) {
		var da, db [chunkBytes]byte
		if blob, found := a.chunks.Lookup(id); found {
			expandInto(blob, &da)
		}
		if blob, found := b.chunks.Lookup(id); found {
			expandInto(blob, &db)
		}
		if da != db {
			return false
		}
	}
	return true
}

// IsSubset reports whether every position set in b is also set in other.
func (b *Bitset) IsSubset(other *Bitset) bool {
	result := true
	b.chunks.ForwardIter(func(key uint64, value []byte) bool {
		var da, db [chunkBytes]byte
		expandInto(value, &da)
		if ob, found := other.chunks.Lookup(key); found {
			expandInto(ob, &db)
		}
		for i := range da {
			if da[i]&^db[i] != 0 {
				result = false
				return false
			}
		}
		return true
	})
	return result
}

// Intersects reports whether b and other share at least one set position.
func (b *Bitset) Intersects(other *Bitset) bool {
	result := false
	b.chunks.ForwardIter(func(key uint64, value []byte) bool {
		ob, found := other.chunks.Lookup(key)
		if !found {
			return true
		}
		var da, db [chunkBytes]byte
		expandInto(value, &da)
		expandInto(ob, &db)
		for i := range da {
			if da[i]&db[i] != 0 {
				result = true
				return false
			}
		}
		return true
	})
	return result
}

// Min returns the smallest set position, or ok=false if the bitset is empty.
func (b *Bitset) Min() (uint64, bool) {
	return b.Select(1)
}

// Max returns the largest set position, or ok=false if the bitset is empty.
func (b *Bitset) Max() (uint64, bool) {
	n := b.BitCount()
	if n == 0 {
		return 0, false
	}
	return b.Select(n)
}

// MemoryUsage returns an estimate, in bytes, of the bitset's current
// in-memory footprint.
func (b *Bitset) MemoryUsage() int {
	n := b.chunks.TotalBytes()
	if b.preamble != nil {
		n += 17 // value-width byte + two uint64 dimensions
	}
	return n
}
