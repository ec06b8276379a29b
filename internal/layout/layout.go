// Package layout centralizes the byte-level constants and offset arithmetic
// shared by every other internal package: node size, the minimum data
// record granularity, trie fan-out, and the digit/alignment helpers derived
// from them. Keeping these in one leaf package (no imports of its own) is
// what lets header, bitmap, allocator, record, bucket and trie agree on the
// same units without importing each other.
package layout

const (
	// CacheLineSize is the assumed L1 cache line size. Index nodes are sized
	// to exactly one cache line to keep a single trie hop to one cache miss.
	CacheLineSize = 64

	// NodeSize is the size in bytes of one trie index node.
	NodeSize = CacheLineSize

	// MinDataRecord (MDR) is the granularity of data-block addressing: two
	// cache lines, so a handful of small fixed records can be packed into a
	// single bucket without forcing a burst for every insert.
	MinDataRecord = CacheLineSize * 2

	// PageSize is the allocation unit claimed from the global write cursor.
	PageSize = 4096

	// DefaultExtentSize is the default size of one extent, the bitmap's unit
	// of accounting. Must be a power of two multiple of PageSize.
	DefaultExtentSize = 2 << 20 // 2 MiB

	// TrieBits is the number of key bits consumed per trie level.
	TrieBits = 4
	// TrieFanout is the number of slots in one index node (2^TrieBits).
	TrieFanout = 1 << TrieBits
	// TrieKeyMask isolates one digit's worth of bits.
	TrieKeyMask = TrieFanout - 1

	// MaxKeyBits is the width of the hashed key used for trie descent.
	MaxKeyBits = 64
	// MaxDepth is the number of TrieBits-wide digits in a MaxKeyBits key.
	MaxDepth = MaxKeyBits / TrieBits

	// DBit flags a slot as addressing a data bucket rather than an index
	// node; the remaining bits are the shifted block index.
	DBit = uint32(1) << 31
	// OffsetMask isolates the block index bits of a slot.
	OffsetMask = DBit - 1

	// MaxRegionSize bounds a single table to the same 128 GiB ceiling the
	// original 31-bit block-index encoding implies for index nodes
	// (2^31 * NodeSize).
	MaxRegionSize = uint64(1) << 37
)

// Align8 rounds n up to the next multiple of 8; every record begins 8-byte
// aligned regardless of fixed or variable layout.
func Align8(n uint64) uint64 {
	return (n + 7) &^ 7
}

// AlignCacheLine rounds n up to the next multiple of CacheLineSize.
func AlignCacheLine(n uint64) uint64 {
	return (n + CacheLineSize - 1) &^ (CacheLineSize - 1)
}

// AlignMDR rounds n up to the next multiple of MinDataRecord. Every data
// allocation is handed out in MDR units so the offset/MDR encoding used by
// data slots and coll_next links stays exact.
func AlignMDR(n uint64) uint64 {
	return (n + MinDataRecord - 1) &^ (MinDataRecord - 1)
}

// Digit extracts the depth-th 4-bit group of key, most-significant group
// first (depth 0 selects bits [60,64), depth 1 selects bits [56,60), and so
// on through depth MaxDepth-1 selecting bits [0,4)).
func Digit(key uint64, depth int) uint8 {
	shift := uint(MaxKeyBits) - uint(depth+1)*TrieBits
	return uint8((key >> shift) & TrieKeyMask)
}

// Resolved reports whether depth has already consumed every bit of the key,
// meaning no further trie descent is possible and a slot at this depth must
// resolve directly to a bucket.
func Resolved(depth int) bool {
	return depth >= MaxDepth
}
