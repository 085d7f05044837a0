// Package sparsebitset implements a compressed sparse bitset over uint64
// positions: a mapping from 64-bit integer positions to boolean membership
// that occupies space proportional to the information content of the set,
// not to its highest member.
//
// Positions are partitioned into fixed-width 8192-bit chunks; each chunk is
// stored in whichever of five representations (all-zero implicit, all-one,
// a sparse set of positions, a dense bitmap, or a sparse set of absences)
// minimizes bytes for that chunk's current population. The chunk codec is
// implemented in chunk.go/chunk_mutate.go; the container below owns the
// chunk-id-to-blob map and routes every public operation to it.
package sparsebitset

import "github.com/chronos-tachyon/sparsebitset/internal/entrymap"

// Preamble carries opaque "value matrix" metadata: a value-width byte plus row/column dimensions, set
// only when a Bitset is constructed in value-matrix mode. The chunk codec
// never inspects it — Bitset carries it through Duplicate and nothing else.
// The wire format has no field for it: Serialize does not write it, and
// Deserialize returns a Bitset without one.
type Preamble struct {
	ValueWidth uint8
	Rows       uint64
	Cols       uint64
}

// Bitset is a mutable, single-threaded compressed sparse bitset. The zero
// value is not usable; construct with New.
//
// A Bitset is safe for concurrent reads by multiple goroutines only while no
// goroutine is mutating it — the same rule as any other unsynchronized Go
// value. There is no internal locking: adding one would contradict the
// single-threaded design this package's source lineage assumes, and would
// cost every caller a lock acquisition whether or not they ever share a
// Bitset across goroutines.
type Bitset struct {
	chunks   *entrymap.Map
	preamble *Preamble
}

// New returns an empty Bitset.
func New() *Bitset {
	return &Bitset{chunks: entrymap.New()}
}

// NewValueMatrix returns an empty Bitset carrying the given opaque preamble.
func NewValueMatrix(p Preamble) *Bitset {
	b := New()
	b.preamble = &p
	return b
}

// Preamble returns the Bitset's value-matrix metadata, and whether it was
// constructed with one.
func (b *Bitset) Preamble() (Preamble, bool) {
	if b.preamble == nil {
		return Preamble{}, false
	}
	return *b.preamble, true
}

// FromArray returns a new Bitset with exactly the given positions set.
func FromArray(positions []uint64) *Bitset {
	b := New()
	b.SetMany(positions)
	return b
}

// Duplicate returns a deep copy of b: mutating the result never affects b,
// and vice versa.
func (b *Bitset) Duplicate() *Bitset {
	dup := New()
	if b.preamble != nil {
		p := *b.preamble
		dup.preamble = &p
	}
	b.chunks.ForwardIter(func(key uint64, value []byte) bool {
		cp := make([]byte, len(value))
		copy(cp, value)
		dup.chunks.Insert(key, cp)
		return true
	})
	return dup
}

func chunkIDAndOffset(p uint64) (id uint64, offset uint16) {
	return p / chunkWidth, uint16(p % chunkWidth)
}
