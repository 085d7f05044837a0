package sparsebitset

import "github.com/chronos-tachyon/sparsebitset/internal/bitops"

// intersectionPopcount streams chunk by chunk over the smaller side's
// entries, looking each one up in the other rather than materializing either
// bitset's full extent — the same "walk one side, probe the other" shape
// Intersects and IsSubset use, since only common ids contribute.
func intersectionPopcount(a, b *Bitset) uint64 {
	if b.chunks.Count() < a.chunks.Count() {
		a, b = b, a
	}
	var inter uint64
	a.chunks.ForwardIter(func(id uint64, ablob []byte) bool {
		bblob, found := b.chunks.Lookup(id)
		if !found {
			return true
		}
		var da, db, tmp [chunkBytes]byte
		expandInto(ablob, &da)
		expandInto(bblob, &db)
		for i := range tmp {
			tmp[i] = da[i] & db[i]
		}
		inter += uint64(bitops.Popcount(tmp[:]))
		return true
	})
	return inter
}

// Jaccard returns |a∩b| / |a∪b|, defined as 1 when both sets are empty.
func Jaccard(a, b *Bitset) float64 {
	inter := intersectionPopcount(a, b)
	union := a.BitCount() + b.BitCount() - inter
	if union == 0 {
		return 1
	}
	return float64(inter) / float64(union)
}

// Dice returns 2|a∩b| / (|a|+|b|), defined as 1 when both sets are empty.
func Dice(a, b *Bitset) float64 {
	inter := intersectionPopcount(a, b)
	denom := a.BitCount() + b.BitCount()
	if denom == 0 {
		return 1
	}
	return 2 * float64(inter) / float64(denom)
}

// Overlap returns |a∩b| / min(|a|,|b|), defined as 0 when either set is
// empty.
func Overlap(a, b *Bitset) float64 {
	inter := intersectionPopcount(a, b)
	pa, pb := a.BitCount(), b.BitCount()
	m := pa
	if pb < m {
		m = pb
	}
	if m == 0 {
		return 0
	}
	return float64(inter) / float64(m)
}

// HammingDistance returns the number of positions at which a and b differ:
// |a|+|b|-2|a∩b|.
func HammingDistance(a, b *Bitset) uint64 {
	inter := intersectionPopcount(a, b)
	return a.BitCount() + b.BitCount() - 2*inter
}
