package sparsebitset

import (
	"encoding/binary"

	"github.com/chronos-tachyon/sparsebitset/internal/pack13"
)

// Wire format, little-endian throughout:
//
//	offset 0  : 4 bytes magic "ROAR"
//	offset 4  : 1 byte  version = 1
//	offset 5  : 1 byte  flags = 0
//	offset 6  : LEB128 varint: chunk count
//	then, repeated chunk-count times:
//	    LEB128 varint: chunk id
//	    1 byte:        variant tag
//	    payload depending on tag (ALL_1: none; SPARSE_*: count + N LEB128
//	    offsets, re-expanded from the packed list; DENSE_BITMAP: 1024
//	    raw bytes).
//
// This is a distinct encoding from the in-memory 13-bit packed list: on the
// wire, positions are ordinary LEB128 varints, one per offset, the same
// continuation-bit varint encoding/binary.PutUvarint already implements —
// the format ShBar-prometheus's histogram chunk encoder and dolthub-dolt's
// prolly-tree message codec both use for exactly this kind of "framed list
// of small integers" payload.

var wireMagic = [4]byte{'R', 'O', 'A', 'R'}

const wireVersion = 1

func appendUvarint(buf []byte, x uint64) []byte {
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(tmp[:], x)
	return append(buf, tmp[:n]...)
}

func sparseOffsetsOf(blob []byte) []uint16 {
	count, payloadOff := sparseCountAndOffset(blob)
	payload := blob[payloadOff:]
	out := make([]uint16, count)
	for i := 0; i < count; i++ {
		out[i] = pack13.Get(payload, i)
	}
	return out
}

// SerializedSize returns the exact number of bytes Serialize would produce,
// without producing them — useful for callers that want to preallocate.
func (b *Bitset) SerializedSize() int {
	n := 4 + 1 + 1 + uvarintLen(uint64(b.chunks.Count()))
	b.chunks.ForwardIter(func(key uint64, value []byte) bool {
		n += uvarintLen(key) + 1
		switch blobTag(value) {
		case tagDenseBitmap:
			n += chunkBytes
		case tagSparseSet, tagSparseUnset:
			count, payloadOff := sparseCountAndOffset(value)
			n += uvarintLen(uint64(count))
			payload := value[payloadOff:]
			for i := 0; i < count; i++ {
				n += uvarintLen(uint64(pack13.Get(payload, i)))
			}
		}
		return true
	})
	return n
}

// AppendTo appends b's wire encoding to buf and returns the extended slice,
// growing buf as needed — the idiomatic Go shape of a
// "serialize(bitset, buf, cap) -> bytes-written" C-style contract.
func (b *Bitset) AppendTo(buf []byte) []byte {
	buf = append(buf, wireMagic[:]...)
	buf = append(buf, wireVersion, 0)
	ids := b.chunks.Keys()
	buf = appendUvarint(buf, uint64(len(ids)))
	for _, id := range ids {
		blob, _ := b.chunks.Lookup(id)
		buf = appendUvarint(buf, id)
		buf = append(buf, blobTag(blob))
		switch blobTag(blob) {
		case tagAll1:
			// no payload
		case tagDenseBitmap:
			buf = append(buf, densePayload(blob)...)
		case tagSparseSet, tagSparseUnset:
			offs := sparseOffsetsOf(blob)
			buf = appendUvarint(buf, uint64(len(offs)))
			for _, o := range offs {
				buf = appendUvarint(buf, uint64(o))
			}
		}
	}
	return buf
}

// Serialize returns b's wire encoding as a freshly allocated slice.
func (b *Bitset) Serialize() []byte {
	return b.AppendTo(make([]byte, 0, b.SerializedSize()))
}

func readUvarint(buf []byte) (value uint64, n int, err error) {
	value, n = binary.Uvarint(buf)
	switch {
	case n == 0:
		return 0, 0, ErrTruncated
	case n < 0:
		return 0, 0, ErrVarintOverflow
	default:
		return value, n, nil
	}
}

// Deserialize parses a wire-format buffer produced by Serialize/AppendTo. It
// returns a non-nil error — never a partial Bitset — on bad magic, an
// unsupported version, non-zero reserved flags, a truncated buffer, an
// unknown variant tag, a variant payload that would exceed the buffer, or
// varint overflow.
func Deserialize(buf []byte) (*Bitset, error) {
	pos := 0
	if len(buf) < 6 {
		return nil, &DecodeError{ErrTruncated, pos}
	}
	if buf[0] != wireMagic[0] || buf[1] != wireMagic[1] || buf[2] != wireMagic[2] || buf[3] != wireMagic[3] {
		return nil, &DecodeError{ErrBadMagic, pos}
	}
	pos = 4
	version := buf[4]
	flags := buf[5]
	if version != wireVersion {
		return nil, &DecodeError{ErrUnsupportedVersion, 4}
	}
	if flags != 0 {
		return nil, &DecodeError{ErrReservedFlags, 5}
	}
	pos = 6
	rest := buf[pos:]

	count, n, err := readUvarint(rest)
	if err != nil {
		return nil, &DecodeError{err, pos}
	}
	rest = rest[n:]
	pos += n

	b := New()
	for i := uint64(0); i < count; i++ {
		id, n, err := readUvarint(rest)
		if err != nil {
			return nil, &DecodeError{err, pos}
		}
		rest = rest[n:]
		pos += n

		if len(rest) < 1 {
			return nil, &DecodeError{ErrTruncated, pos}
		}
		tag := rest[0]
		rest = rest[1:]
		pos++

		switch tag {
		case tagAll1:
			b.chunks.Insert(id, newAll1Blob())
		case tagDenseBitmap:
			if len(rest) < chunkBytes {
				return nil, &DecodeError{ErrTruncated, pos}
			}
			var dense [chunkBytes]byte
			copy(dense[:], rest[:chunkBytes])
			rest = rest[chunkBytes:]
			pos += chunkBytes
			b.chunks.Insert(id, newDenseBlob(&dense))
		case tagSparseSet, tagSparseUnset:
			cnt, n, err := readUvarint(rest)
			if err != nil {
				return nil, &DecodeError{err, pos}
			}
			rest = rest[n:]
			pos += n

			// cnt is attacker-controlled: reject it before allocating if it
			// claims more offsets than the remaining buffer could possibly
			// hold (each offset needs at least 1 byte on the wire).
			if cnt > uint64(len(rest)) {
				return nil, &DecodeError{ErrPayloadOverrun, pos}
			}

			offs := make([]uint16, cnt)
			for j := uint64(0); j < cnt; j++ {
				v, n, err := readUvarint(rest)
				if err != nil {
					return nil, &DecodeError{err, pos}
				}
				rest = rest[n:]
				pos += n
				if v >= chunkWidth {
					return nil, &DecodeError{ErrPayloadOverrun, pos}
				}
				offs[j] = uint16(v)
			}
			b.chunks.Insert(id, newSparseBlob(tag, offs))
		default:
			return nil, &DecodeError{ErrUnknownVariant, pos}
		}
	}
	return b, nil
}
