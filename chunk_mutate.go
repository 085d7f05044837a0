package sparsebitset

import (
	"encoding/binary"

	"github.com/chronos-tachyon/sparsebitset/internal/entrymap"
	"github.com/chronos-tachyon/sparsebitset/internal/pack13"
)

// This file implements the transition automaton: the state
// tables driving what happens to a chunk blob on a single-bit set or clear.
//
// growSparseInsert and shrinkSparseDelete implement the resize discipline
// precisely: grow (or shrink) the entry in the entry map before/while
// touching the count field, shift the packed payload by the varint-width
// delta when the count's encoded width changes, and never hold a []byte
// borrow across the resize — every access below re-reads from the slice the
// entrymap call just returned.

// growSparseInsert inserts offset into a SPARSE_SET or SPARSE_UNSET blob
// already known not to contain it, growing the entry by exactly the bytes
// needed. Caller is responsible for checking that the chunk should remain in
// its current variant after the insert (i.e. the density transition, if any,
// has already been decided).
func growSparseInsert(m *entrymap.Map, e *entrymap.Entry, offset uint16) {
	blob := e.Value
	count, oldPayloadOff := sparseCountAndOffset(blob)
	oldCountLen := oldPayloadOff - 1
	newCount := count + 1
	newCountLen := uvarintLen(uint64(newCount))
	newPayloadLen := pack13.ByteLen(newCount)
	newPayloadOff := 1 + newCountLen
	newTotal := newPayloadOff + newPayloadLen

	grown := m.Resize(e, newTotal) // step 1: grow before writing the new count
	if newCountLen != oldCountLen {
		// step 2: the count varint widened (crossed the single-byte
		// boundary) — shift the existing payload right to make room.
		oldPayloadLen := pack13.ByteLen(count)
		copy(grown[newPayloadOff:newPayloadOff+oldPayloadLen], grown[oldPayloadOff:oldPayloadOff+oldPayloadLen])
	}
	binary.PutUvarint(grown[1:], uint64(newCount))
	// step 3: `grown` is the re-fetched borrow; insert directly into it.
	payload := grown[newPayloadOff:]
	pack13.InsertSorted(payload, count, offset)
}

// shrinkSparseDelete removes the value at packed index idx from a
// SPARSE_SET or SPARSE_UNSET blob known to have at least 2 entries before
// the removal (callers handle the 1-entry case, which deletes or replaces
// the whole blob, separately).
func shrinkSparseDelete(m *entrymap.Map, e *entrymap.Entry, idx int) {
	blob := e.Value
	count, payloadOff := sparseCountAndOffset(blob)
	payload := blob[payloadOff:]
	newCount := pack13.DeleteAt(payload, count, idx)

	oldCountLen := payloadOff - 1
	newCountLen := uvarintLen(uint64(newCount))
	newPayloadLen := pack13.ByteLen(newCount)

	if newCountLen == oldCountLen {
		binary.PutUvarint(blob[1:1+oldCountLen], uint64(newCount))
		m.Resize(e, payloadOff+newPayloadLen)
		return
	}

	// The count varint narrowed (e.g. 128 -> 127 entries): shift the
	// already-compacted payload left to reclaim the freed header byte
	// before truncating.
	newPayloadOff := 1 + newCountLen
	copy(blob[newPayloadOff:newPayloadOff+newPayloadLen], blob[payloadOff:payloadOff+newPayloadLen])
	binary.PutUvarint(blob[1:1+newCountLen], uint64(newCount))
	m.Resize(e, newPayloadOff+newPayloadLen)
}

// setBit sets offset in the chunk held by e, applying the transition
// automaton, and reports whether it was already set.
func setBit(m *entrymap.Map, e *entrymap.Entry, offset uint16) (previously bool) {
	switch blobTag(e.Value) {
	case tagAll1:
		return true
	case tagSparseSet:
		return setInSparseSet(m, e, offset)
	case tagDenseBitmap:
		return setInDense(m, e, offset)
	case tagSparseUnset:
		return setInSparseUnset(m, e, offset)
	default:
		panic("sparsebitset: unknown chunk variant tag")
	}
}

func setInSparseSet(m *entrymap.Map, e *entrymap.Entry, offset uint16) bool {
	count, payloadOff := sparseCountAndOffset(e.Value)
	_, found := pack13.Member(e.Value[payloadOff:], count, offset)
	if found {
		return true
	}
	if count+1 > maxSparse {
		var dense [chunkBytes]byte
		expandInto(e.Value, &dense)
		dense[offset/8] |= 1 << (offset % 8)
		m.Replace(e, newDenseBlob(&dense))
		return false
	}
	growSparseInsert(m, e, offset)
	return false
}

func setInDense(m *entrymap.Map, e *entrymap.Entry, offset uint16) bool {
	payload := densePayload(e.Value)
	byteIdx, mask := offset/8, byte(1)<<(offset%8)
	if payload[byteIdx]&mask != 0 {
		return true
	}
	payload[byteIdx] |= mask
	pop := population(e.Value)
	switch {
	case pop == chunkWidth:
		m.Replace(e, newAll1Blob())
	case pop >= minSparseUnset:
		m.Replace(e, newSparseBlob(tagSparseUnset, ctzScan(payload, true)))
	}
	return false
}

func setInSparseUnset(m *entrymap.Map, e *entrymap.Entry, offset uint16) bool {
	count, payloadOff := sparseCountAndOffset(e.Value)
	idx, found := pack13.Member(e.Value[payloadOff:], count, offset)
	if !found {
		return true
	}
	if count == 1 {
		m.Replace(e, newAll1Blob())
		return false
	}
	shrinkSparseDelete(m, e, idx)
	return false
}

// clearBit clears offset in the chunk held by e. It reports whether the bit
// was previously set, and whether the chunk's population dropped to zero —
// in which case the caller is responsible for deleting the entry from the
// map entirely.
func clearBit(m *entrymap.Map, e *entrymap.Entry, offset uint16) (previously, becameEmpty bool) {
	switch blobTag(e.Value) {
	case tagAll1:
		return clearInAll1(m, e, offset)
	case tagSparseSet:
		return clearInSparseSet(m, e, offset)
	case tagDenseBitmap:
		return clearInDense(m, e, offset)
	case tagSparseUnset:
		return clearInSparseUnset(m, e, offset)
	default:
		panic("sparsebitset: unknown chunk variant tag")
	}
}

func clearInAll1(m *entrymap.Map, e *entrymap.Entry, offset uint16) (bool, bool) {
	var dense [chunkBytes]byte
	for i := range dense {
		dense[i] = 0xFF
	}
	dense[offset/8] &^= 1 << (offset % 8)
	m.Replace(e, newDenseBlob(&dense))
	return true, false
}

func clearInSparseSet(m *entrymap.Map, e *entrymap.Entry, offset uint16) (bool, bool) {
	count, payloadOff := sparseCountAndOffset(e.Value)
	idx, found := pack13.Member(e.Value[payloadOff:], count, offset)
	if !found {
		return false, false
	}
	if count == 1 {
		return true, true
	}
	shrinkSparseDelete(m, e, idx)
	return true, false
}

func clearInDense(m *entrymap.Map, e *entrymap.Entry, offset uint16) (bool, bool) {
	payload := densePayload(e.Value)
	byteIdx, mask := offset/8, byte(1)<<(offset%8)
	if payload[byteIdx]&mask == 0 {
		return false, false
	}
	payload[byteIdx] &^= mask
	pop := population(e.Value)
	if pop == 0 {
		return true, true
	}
	if pop < shrinkThreshold {
		m.Replace(e, newSparseBlob(tagSparseSet, ctzScan(payload, false)))
	}
	return true, false
}

func clearInSparseUnset(m *entrymap.Map, e *entrymap.Entry, offset uint16) (bool, bool) {
	count, payloadOff := sparseCountAndOffset(e.Value)
	_, found := pack13.Member(e.Value[payloadOff:], count, offset)
	if found {
		return false, false
	}
	if chunkWidth-(count+1) < minSparseUnset {
		var dense [chunkBytes]byte
		expandInto(e.Value, &dense)
		dense[offset/8] &^= 1 << (offset % 8)
		m.Replace(e, newDenseBlob(&dense))
		return true, false
	}
	growSparseInsert(m, e, offset)
	return true, false
}
