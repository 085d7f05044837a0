// Package entrymap implements the ordered keyed multi-entry container the
// parent bitset package treats as an external collaborator: a map from
// uint64 chunk id to an owned, resizable byte slice (the chunk blob), kept
// in ascending key order so the bitset's rank/select/iteration machinery can
// walk chunks in position order for free.
//
// There is no off-the-shelf ordered-map package anywhere in the retrieval
// pack this repo was built from, so this is a small sorted-slice
// implementation of its own: entries are kept in a slice sorted by Key,
// looked up with binary search, the same sorted-slice-plus-sort.Search shape
// chronos-tachyon-go-peggy/byteset's (*mRange).Match uses, generalized here
// to support mutation in place rather than being built once and read.
package entrymap

import "sort"

// Entry is one chunk-id/blob pair. It is returned by pointer so that a
// caller holding a *Entry across a Resize or Replace on that same entry
// keeps referring to the same logical chunk — only Value's backing array is
// swapped out from under it. Entries are never reused across different
// keys: once removed, a *Entry must not be touched again.
type Entry struct {
	Key   uint64
	Value []byte
}

// Map is the ordered keyed container itself. The zero value is not usable;
// construct with New.
type Map struct {
	entries []*Entry
}

// New returns an empty Map.
func New() *Map {
	return &Map{}
}

// Count returns the number of entries currently stored.
func (m *Map) Count() int {
	return len(m.entries)
}

// TotalBytes returns the map's current memory footprint, for statistics:
// the sum of every entry's Value length plus a fixed per-entry overhead
// estimate for the key and slice header.
func (m *Map) TotalBytes() int {
	const perEntryOverhead = 8 + 24 // uint64 key + slice header
	n := 0
	for _, e := range m.entries {
		n += perEntryOverhead + len(e.Value)
	}
	return n
}

func (m *Map) search(key uint64) (idx int, found bool) {
	idx = sort.Search(len(m.entries), func(i int) bool {
		return m.entries[i].Key >= key
	})
	found = idx < len(m.entries) && m.entries[idx].Key == key
	return idx, found
}

// Lookup returns a read-only borrow of the value bytes stored under key, and
// whether key is present. The borrow is invalidated by the next mutation on
// this map.
func (m *Map) Lookup(key uint64) ([]byte, bool) {
	idx, found := m.search(key)
	if !found {
		return nil, false
	}
	return m.entries[idx].Value, true
}

// GetEntry returns the mutable entry handle for key, if present.
func (m *Map) GetEntry(key uint64) (*Entry, bool) {
	idx, found := m.search(key)
	if !found {
		return nil, false
	}
	return m.entries[idx], true
}

// Insert stores value under key, overwriting any existing entry for key,
// and returns the entry handle.
func (m *Map) Insert(key uint64, value []byte) *Entry {
	idx, found := m.search(key)
	if found {
		m.entries[idx].Value = value
		return m.entries[idx]
	}
	e := &Entry{Key: key, Value: value}
	m.entries = append(m.entries, nil)
	copy(m.entries[idx+1:], m.entries[idx:])
	m.entries[idx] = e
	return e
}

// Delete removes the entry for key, if present, and reports whether
// anything was removed.
func (m *Map) Delete(key uint64) bool {
	idx, found := m.search(key)
	if !found {
		return false
	}
	copy(m.entries[idx:], m.entries[idx+1:])
	m.entries[len(m.entries)-1] = nil
	m.entries = m.entries[:len(m.entries)-1]
	return true
}

// Replace overwrites e's value wholesale with value.
func (m *Map) Replace(e *Entry, value []byte) {
	e.Value = value
}

// Resize grows or shrinks e's value to exactly newLen bytes, preserving the
// existing content up to min(old length, newLen) and zero-filling any newly
// added bytes. It returns the resized slice, which the caller then writes
// into directly; any borrow obtained from e.Value before the call must be
// discarded and re-read after.
func (m *Map) Resize(e *Entry, newLen int) []byte {
	old := e.Value
	if newLen <= cap(old) {
		e.Value = old[:newLen]
		if newLen > len(old) {
			clear(e.Value[len(old):newLen])
		}
		return e.Value
	}
	grown := make([]byte, newLen)
	copy(grown, old)
	e.Value = grown
	return grown
}

// ForwardIter calls f once per entry in ascending key order. f returns false
// to stop iteration early. Any mutation of the map from within f is
// undefined behavior; callers needing to mutate while scanning must first
// snapshot with Keys.
func (m *Map) ForwardIter(f func(key uint64, value []byte) bool) {
	for _, e := range m.entries {
		if !f(e.Key, e.Value) {
			return
		}
	}
}

// ReverseIter calls f once per entry in descending key order.
func (m *Map) ReverseIter(f func(key uint64, value []byte) bool) {
	for i := len(m.entries) - 1; i >= 0; i-- {
		e := m.entries[i]
		if !f(e.Key, e.Value) {
			return
		}
	}
}

// Keys returns a snapshot copy of every key currently stored, in ascending
// order. Callers that need to mutate the map while processing each key
// (e.g. the set-algebra engine, which may replace or delete entries as it
// goes) take this snapshot first, since live iterators are invalidated by
// insert/delete.
func (m *Map) Keys() []uint64 {
	keys := make([]uint64, len(m.entries))
	for i, e := range m.entries {
		keys[i] = e.Key
	}
	return keys
}
