package sparsebitset

import (
	"encoding/binary"
	"math/bits"
	"sort"

	"github.com/chronos-tachyon/sparsebitset/internal/bitops"
	"github.com/chronos-tachyon/sparsebitset/internal/pack13"
)

// This file holds the chunk codec: inspecting a chunk blob (population,
// test, expandInto, first/last/countBelow/nth) and the pure blob
// constructors (newSparseBlob/newDenseBlob/newAll1Blob) used by both the
// transition automaton (chunk_mutate.go) and compressFrom, the set-algebra
// engine's re-compression step.
//
// The representation is a "tagged variant with discriminant in byte 0"
// idiom: one []byte blob, dispatched on blob[0] by a switch, rather than
// chronos-tachyon-go-peggy's Matcher interface with one struct per variant.
// The behavioral shape is still familiar: every variant answers the same
// small set of questions (population, test, expand, compress) the way every
// Matcher answers Match/ForEach/Optimize.

func uvarintLen(x uint64) int {
	n := 1
	for x >= 0x80 {
		x >>= 7
		n++
	}
	return n
}

// sparseCountAndOffset reads the tagged count varint following the tag byte
// of a SPARSE_SET or SPARSE_UNSET blob, returning the count and the byte
// offset at which the packed payload begins.
func sparseCountAndOffset(blob []byte) (count int, payloadOff int) {
	c, n := binary.Uvarint(blob[1:])
	return int(c), 1 + n
}

func sparsePayload(blob []byte) []byte {
	_, off := sparseCountAndOffset(blob)
	return blob[off:]
}

func densePayload(blob []byte) []byte {
	return blob[1 : 1+chunkBytes]
}

// newSparseBlob builds a complete SPARSE_SET or SPARSE_UNSET blob from a
// slice of ascending 13-bit offsets.
func newSparseBlob(tag byte, offsets []uint16) []byte {
	n := len(offsets)
	countLen := uvarintLen(uint64(n))
	payloadLen := pack13.ByteLen(n)
	blob := make([]byte, 1+countLen+payloadLen)
	blob[0] = tag
	binary.PutUvarint(blob[1:1+countLen], uint64(n))
	payload := blob[1+countLen:]
	for i, off := range offsets {
		pack13.Set(payload, i, off)
	}
	return blob
}

func newDenseBlob(dense *[chunkBytes]byte) []byte {
	blob := make([]byte, 1+chunkBytes)
	blob[0] = tagDenseBitmap
	copy(blob[1:], dense[:])
	return blob
}

func newAll1Blob() []byte {
	return []byte{tagAll1}
}

// population returns the popcount of a chunk blob.
func population(blob []byte) int {
	switch blobTag(blob) {
	case tagAll1:
		return chunkWidth
	case tagSparseSet:
		count, _ := sparseCountAndOffset(blob)
		return count
	case tagDenseBitmap:
		return bitops.Popcount(densePayload(blob))
	case tagSparseUnset:
		count, _ := sparseCountAndOffset(blob)
		return chunkWidth - count
	default:
		panic("sparsebitset: unknown chunk variant tag")
	}
}

// testOffset reports whether offset (0 <= offset < chunkWidth) is set in
// blob.
func testOffset(blob []byte, offset uint16) bool {
	switch blobTag(blob) {
	case tagAll1:
		return true
	case tagSparseSet:
		count, payloadOff := sparseCountAndOffset(blob)
		_, found := pack13.Member(blob[payloadOff:], count, offset)
		return found
	case tagDenseBitmap:
		payload := densePayload(blob)
		return payload[offset/8]&(1<<(offset%8)) != 0
	case tagSparseUnset:
		count, payloadOff := sparseCountAndOffset(blob)
		_, found := pack13.Member(blob[payloadOff:], count, offset)
		return !found
	default:
		panic("sparsebitset: unknown chunk variant tag")
	}
}

// expandInto renders blob as a flat chunkBytes-byte bitmap, the canonical
// dense intermediate form every set-algebra operation combines through.
func expandInto(blob []byte, out *[chunkBytes]byte) {
	switch blobTag(blob) {
	case tagAll1:
		for i := range out {
			out[i] = 0xFF
		}
	case tagSparseSet:
		for i := range out {
			out[i] = 0
		}
		count, payloadOff := sparseCountAndOffset(blob)
		payload := blob[payloadOff:]
		for i := 0; i < count; i++ {
			v := pack13.Get(payload, i)
			out[v/8] |= 1 << (v % 8)
		}
	case tagDenseBitmap:
		copy(out[:], densePayload(blob))
	case tagSparseUnset:
		for i := range out {
			out[i] = 0xFF
		}
		count, payloadOff := sparseCountAndOffset(blob)
		payload := blob[payloadOff:]
		for i := 0; i < count; i++ {
			v := pack13.Get(payload, i)
			out[v/8] &^= 1 << (v % 8)
		}
	default:
		panic("sparsebitset: unknown chunk variant tag")
	}
}

// ctzScan walks dense as 64-bit words and emits, in ascending order, the
// offset of every set bit (or, if complement is true, every clear bit). This
// is the CTZ scan, substantially cheaper than inserting
// one-by-one into the packed list, since it produces values already in
// ascending order for newSparseBlob to pack directly.
func ctzScan(dense []byte, complement bool) []uint16 {
	var out []uint16
	for wi := 0; wi < len(dense); wi += 8 {
		word := binary.LittleEndian.Uint64(dense[wi : wi+8])
		if complement {
			word = ^word
		}
		base := wi * 8
		for word != 0 {
			tz := bitops.TrailingZeros64(word)
			out = append(out, uint16(base+tz))
			word &= word - 1
		}
	}
	return out
}

// compressFrom chooses the smallest valid variant for dense's current
// density and returns a freshly built blob, or nil if dense is all-zero
// (meaning the chunk should be deleted from the entry map entirely).
func compressFrom(dense *[chunkBytes]byte) []byte {
	pop := bitops.Popcount(dense[:])
	switch {
	case pop == 0:
		return nil
	case pop == chunkWidth:
		return newAll1Blob()
	case pop <= maxSparse:
		return newSparseBlob(tagSparseSet, ctzScan(dense[:], false))
	case pop >= minSparseUnset:
		return newSparseBlob(tagSparseUnset, ctzScan(dense[:], true))
	default:
		return newDenseBlob(dense)
	}
}

// firstSetOffset returns the smallest set offset in blob, or ok=false if
// blob has no set bits (which should not occur for a blob actually stored
// in the entry map, since population 0 chunks are never kept).
func firstSetOffset(blob []byte) (offset uint16, ok bool) {
	switch blobTag(blob) {
	case tagAll1:
		return 0, true
	case tagSparseSet:
		count, payloadOff := sparseCountAndOffset(blob)
		if count == 0 {
			return 0, false
		}
		return pack13.Get(blob[payloadOff:], 0), true
	case tagDenseBitmap:
		payload := densePayload(blob)
		for wi := 0; wi < len(payload); wi += 8 {
			word := binary.LittleEndian.Uint64(payload[wi : wi+8])
			if word != 0 {
				return uint16(wi*8 + bitops.TrailingZeros64(word)), true
			}
		}
		return 0, false
	case tagSparseUnset:
		count, payloadOff := sparseCountAndOffset(blob)
		payload := blob[payloadOff:]
		cand := uint16(0)
		for i := 0; i < count; i++ {
			v := pack13.Get(payload, i)
			if v != cand {
				return cand, true
			}
			cand++
		}
		if int(cand) < chunkWidth {
			return cand, true
		}
		return 0, false
	default:
		panic("sparsebitset: unknown chunk variant tag")
	}
}

// lastSetOffset returns the largest set offset in blob, or ok=false if blob
// has no set bits.
func lastSetOffset(blob []byte) (offset uint16, ok bool) {
	switch blobTag(blob) {
	case tagAll1:
		return chunkWidth - 1, true
	case tagSparseSet:
		count, payloadOff := sparseCountAndOffset(blob)
		if count == 0 {
			return 0, false
		}
		return pack13.Get(blob[payloadOff:], count-1), true
	case tagDenseBitmap:
		payload := densePayload(blob)
		for wi := len(payload) - 8; wi >= 0; wi -= 8 {
			word := binary.LittleEndian.Uint64(payload[wi : wi+8])
			if word != 0 {
				return uint16(wi*8 + 63 - bits.LeadingZeros64(word)), true
			}
		}
		return 0, false
	case tagSparseUnset:
		count, payloadOff := sparseCountAndOffset(blob)
		payload := blob[payloadOff:]
		cand := chunkWidth - 1
		for i := count - 1; i >= 0; i-- {
			v := int(pack13.Get(payload, i))
			if v != cand {
				return uint16(cand), true
			}
			cand--
		}
		if cand >= 0 {
			return uint16(cand), true
		}
		return 0, false
	default:
		panic("sparsebitset: unknown chunk variant tag")
	}
}

// countBelow returns the number of set bits in blob strictly below offset
// (0 <= offset <= chunkWidth).
func countBelow(blob []byte, offset int) int {
	switch blobTag(blob) {
	case tagAll1:
		return offset
	case tagSparseSet:
		count, payloadOff := sparseCountAndOffset(blob)
		idx, _ := pack13.Member(blob[payloadOff:], count, uint16(offset))
		return idx
	case tagDenseBitmap:
		payload := densePayload(blob)
		fullBytes := offset / 8
		n := bitops.Popcount(payload[:fullBytes])
		if rem := offset % 8; rem > 0 {
			mask := byte(1<<uint(rem)) - 1
			n += bits.OnesCount8(payload[fullBytes] & mask)
		}
		return n
	case tagSparseUnset:
		count, payloadOff := sparseCountAndOffset(blob)
		idx, _ := pack13.Member(blob[payloadOff:], count, uint16(offset))
		return offset - idx
	default:
		panic("sparsebitset: unknown chunk variant tag")
	}
}

// nextSetOffset returns the smallest set offset in blob that is >= from, or
// ok=false if none exists. This is the primitive the Iterator advances with;
// for SPARSE_UNSET it binary-searches the stored unset list once, then walks
// it alongside the candidate offset with a second index (idx), a two-pointer
// merge that makes one call cost O(log count) plus the length of the run of
// unset offsets it skips.
func nextSetOffset(blob []byte, from int) (offset uint16, ok bool) {
	if from < 0 {
		from = 0
	}
	if from >= chunkWidth {
		return 0, false
	}
	switch blobTag(blob) {
	case tagAll1:
		return uint16(from), true
	case tagSparseSet:
		count, payloadOff := sparseCountAndOffset(blob)
		payload := blob[payloadOff:]
		idx := sort.Search(count, func(i int) bool { return int(pack13.Get(payload, i)) >= from })
		if idx >= count {
			return 0, false
		}
		return pack13.Get(payload, idx), true
	case tagDenseBitmap:
		payload := densePayload(blob)
		wi := (from / 64) * 8
		word := binary.LittleEndian.Uint64(payload[wi : wi+8])
		word &^= (uint64(1) << uint(from%64)) - 1
		for {
			if word != 0 {
				return uint16(wi*8 + bitops.TrailingZeros64(word)), true
			}
			wi += 8
			if wi >= len(payload) {
				return 0, false
			}
			word = binary.LittleEndian.Uint64(payload[wi : wi+8])
		}
	case tagSparseUnset:
		count, payloadOff := sparseCountAndOffset(blob)
		payload := blob[payloadOff:]
		cand := from
		idx := sort.Search(count, func(i int) bool { return int(pack13.Get(payload, i)) >= cand })
		for cand < chunkWidth {
			if idx < count && int(pack13.Get(payload, idx)) == cand {
				cand++
				idx++
				continue
			}
			return uint16(cand), true
		}
		return 0, false
	default:
		panic("sparsebitset: unknown chunk variant tag")
	}
}

// nthSetOffset returns the offset of the k-th set bit in blob (1-indexed),
// or ok=false if k is out of [1, population(blob)].
func nthSetOffset(blob []byte, k int) (offset uint16, ok bool) {
	switch blobTag(blob) {
	case tagAll1:
		if k < 1 || k > chunkWidth {
			return 0, false
		}
		return uint16(k - 1), true
	case tagSparseSet:
		count, payloadOff := sparseCountAndOffset(blob)
		if k < 1 || k > count {
			return 0, false
		}
		return pack13.Get(blob[payloadOff:], k-1), true
	case tagDenseBitmap:
		payload := densePayload(blob)
		remaining := k
		for bi := 0; bi < len(payload); bi++ {
			b := payload[bi]
			bcount := bits.OnesCount8(b)
			if remaining > bcount {
				remaining -= bcount
				continue
			}
			if remaining < 1 {
				return 0, false
			}
			for j := 0; j < 8; j++ {
				if b&(1<<uint(j)) != 0 {
					remaining--
					if remaining == 0 {
						return uint16(bi*8 + j), true
					}
				}
			}
		}
		return 0, false
	case tagSparseUnset:
		count, payloadOff := sparseCountAndOffset(blob)
		payload := blob[payloadOff:]
		pop := chunkWidth - count
		if k < 1 || k > pop {
			return 0, false
		}
		lo, hi := 0, chunkWidth-1
		for lo < hi {
			mid := int(uint(lo+hi) >> 1)
			idx, _ := pack13.Member(payload, count, uint16(mid+1))
			setAtMost := (mid + 1) - idx
			if setAtMost >= k {
				hi = mid
			} else {
				lo = mid + 1
			}
		}
		return uint16(lo), true
	default:
		panic("sparsebitset: unknown chunk variant tag")
	}
}
