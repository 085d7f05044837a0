package sparsebitset

// Set-algebra operations. Every pairwise combine goes through the canonical
// dense intermediate (expandInto/compressFrom) rather than attempting a
// variant-pair-specific fast path: chronos-tachyon-go-peggy's byteset took
// the opposite approach (asDense() only as a fallback inside a matcher-level
// dispatch), but with five chunk variants on each side that would be twenty
// five hand-written combine functions for a constant-factor win this package
// doesn't need.
//
// All in-place operations snapshot the key list they walk (the receiver's,
// or other's for Or and Xor) with entrymap.Map.Keys before mutating, since
// Delete/Replace/Insert during a
// ForwardIter over the same map is exactly the invalidation hazard Keys is
// documented to guard against.

// And mutates b in place to the intersection of b and other.
func (b *Bitset) And(other *Bitset) {
	for _, id := range b.chunks.Keys() {
		ob, found := other.chunks.Lookup(id)
		if !found {
			b.chunks.Delete(id)
			continue
		}
		e, _ := b.chunks.GetEntry(id)
		var da, db [chunkBytes]byte
		expandInto(e.Value, &da)
		expandInto(ob, &db)
		for i := range da {
			da[i] &= db[i]
		}
		if nb := compressFrom(&da); nb == nil {
			b.chunks.Delete(id)
		} else {
			b.chunks.Replace(e, nb)
		}
	}
}

// Or mutates b in place to the union of b and other.
func (b *Bitset) Or(other *Bitset) {
	for _, id := range other.chunks.Keys() {
		ob, _ := other.chunks.Lookup(id)
		if e, found := b.chunks.GetEntry(id); found {
			var da, db [chunkBytes]byte
			expandInto(e.Value, &da)
			expandInto(ob, &db)
			for i := range da {
				da[i] |= db[i]
			}
			if nb := compressFrom(&da); nb == nil {
				b.chunks.Delete(id)
			} else {
				b.chunks.Replace(e, nb)
			}
		} else {
			cp := make([]byte, len(ob))
			copy(cp, ob)
			b.chunks.Insert(id, cp)
		}
	}
}

// Xor mutates b in place to the symmetric difference of b and other.
func (b *Bitset) Xor(other *Bitset) {
	for _, id := range other.chunks.Keys() {
		ob, found := other.chunks.Lookup(id)
		if !found {
			continue
		}
		if e, found := b.chunks.GetEntry(id); found {
			var da, db [chunkBytes]byte
			expandInto(e.Value, &da)
			expandInto(ob, &db)
			for i := range da {
				da[i] ^= db[i]
			}
			if nb := compressFrom(&da); nb == nil {
				b.chunks.Delete(id)
			} else {
				b.chunks.Replace(e, nb)
			}
		} else {
			cp := make([]byte, len(ob))
			copy(cp, ob)
			b.chunks.Insert(id, cp)
		}
	}
}

// AndNot mutates b in place, removing every position also set in other.
func (b *Bitset) AndNot(other *Bitset) {
	for _, id := range b.chunks.Keys() {
		ob, found := other.chunks.Lookup(id)
		if !found {
			continue
		}
		e, _ := b.chunks.GetEntry(id)
		var da, db [chunkBytes]byte
		expandInto(e.Value, &da)
		expandInto(ob, &db)
		for i := range da {
			da[i] &^= db[i]
		}
		if nb := compressFrom(&da); nb == nil {
			b.chunks.Delete(id)
		} else {
			b.chunks.Replace(e, nb)
		}
	}
}

// Not mutates b in place to its complement, chunk by chunk. The complement
// is chunk-local, not domain-wide: a position whose chunk is entirely absent
// from b (the implicit ALL_0 representation) stays absent rather than
// materializing one ALL_1 entry per absent chunk id across all of uint64 —
// there are 2^64/chunkWidth such ids, so a domain-wide complement is not a
// representable Bitset. Callers that need "everything except b" within a
// known bound should AndNot against a bitset pre-populated with that bound
// via SetRange.
func (b *Bitset) Not() {
	for _, id := range b.chunks.Keys() {
		e, found := b.chunks.GetEntry(id)
		if !found {
			continue
		}
		var da [chunkBytes]byte
		expandInto(e.Value, &da)
		for i := range da {
			da[i] = ^da[i]
		}
		if nb := compressFrom(&da); nb == nil {
			b.chunks.Delete(id)
		} else {
			b.chunks.Replace(e, nb)
		}
	}
}

// AndN mutates b in place to the intersection of b and every set in others,
// stopping early the moment the running intersection is empty — the
// remaining operands cannot un-empty it.
func (b *Bitset) AndN(others ...*Bitset) {
	for _, o := range others {
		if b.IsEmpty() {
			return
		}
		b.And(o)
	}
}

// OrN mutates b in place to the union of b and every set in others.
func (b *Bitset) OrN(others ...*Bitset) {
	for _, o := range others {
		b.Or(o)
	}
}

// XorN mutates b in place to the running symmetric difference of b and every
// set in others, applied left to right.
func (b *Bitset) XorN(others ...*Bitset) {
	for _, o := range others {
		b.Xor(o)
	}
}

// NewAnd returns a new Bitset holding the intersection of a and c, without
// modifying either.
func NewAnd(a, c *Bitset) *Bitset {
	r := a.Duplicate()
	r.And(c)
	return r
}

// NewOr returns a new Bitset holding the union of a and c.
func NewOr(a, c *Bitset) *Bitset {
	r := a.Duplicate()
	r.Or(c)
	return r
}

// NewXor returns a new Bitset holding the symmetric difference of a and c.
func NewXor(a, c *Bitset) *Bitset {
	r := a.Duplicate()
	r.Xor(c)
	return r
}

// NewNot returns a new Bitset holding a's chunk-local complement.
func NewNot(a *Bitset) *Bitset {
	r := a.Duplicate()
	r.Not()
	return r
}

// NewAndNot returns a new Bitset holding a with every position also in c
// removed.
func NewAndNot(a, c *Bitset) *Bitset {
	r := a.Duplicate()
	r.AndNot(c)
	return r
}

// NewAndN returns a new Bitset holding the intersection of every set in
// sets, or an empty Bitset if sets is empty.
func NewAndN(sets ...*Bitset) *Bitset {
	if len(sets) == 0 {
		return New()
	}
	r := sets[0].Duplicate()
	r.AndN(sets[1:]...)
	return r
}

// NewOrN returns a new Bitset holding the union of every set in sets.
func NewOrN(sets ...*Bitset) *Bitset {
	r := New()
	r.OrN(sets...)
	return r
}

// NewXorN returns a new Bitset holding the running symmetric difference of
// every set in sets, applied left to right.
func NewXorN(sets ...*Bitset) *Bitset {
	r := New()
	r.XorN(sets...)
	return r
}
