package sparsebitset

// chunkWidth (W) is the fixed number of bit positions one chunk covers.
// Every other size derived from it — the packed-list field width, the
// sparse/dense density thresholds — is computed here in one place, per the
// redesign note that a target implementation "should make W a constant but
// document the derived constants in one place."
const chunkWidth = 8192

// chunkBytes is W/8: the size of the canonical dense bitmap form.
const chunkBytes = chunkWidth / 8

// offsetBits is ceil(log2(chunkWidth)), the width of one packed-list field.
const offsetBits = 13

// maxSparse (M) is the largest population at which SPARSE_SET is used:
// floor(W/13) - 1.
const maxSparse = chunkWidth/offsetBits - 1

// minSparseUnset (W-M) is the smallest population at which SPARSE_UNSET is
// used.
const minSparseUnset = chunkWidth - maxSparse

// shrinkThreshold (M/2) is the hysteresis boundary: DENSE_BITMAP converts
// back down to SPARSE_SET only once population falls clearly below it,
// not merely below M, so that a population oscillating around M does not
// cause a variant flip on every single-bit mutation.
const shrinkThreshold = maxSparse / 2

// Chunk variant tags. ALL_0 is never stored: the absence of a chunk id from
// the entry map *is* the all-zero chunk.
const (
	tagAll1        byte = 1
	tagSparseSet   byte = 2
	tagDenseBitmap byte = 3
	tagSparseUnset byte = 4
)

func blobTag(blob []byte) byte {
	return blob[0]
}
