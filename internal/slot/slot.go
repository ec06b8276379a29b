// Package slot implements the tagged-offset sum type stored in every trie
// index node: a slot is either empty, an index-node reference, or a
// data-bucket reference, distinguished by the high bit the way htrie's
// TDB_HTRIE_DBIT does. Offsets are always block indices (of NodeSize for
// index slots, of MinDataRecord for data slots), never byte offsets or
// pointers, so a slot survives a region being remapped at a different base
// address between process runs.
package slot

import "github.com/iamNilotpal/htrie/internal/layout"

// Slot is the raw 32-bit value stored in an index node. Bit 31 distinguishes
// data (1) from index (0); the low 31 bits are a block index, never a byte
// offset.
type Slot uint32

// Empty returns the zero slot, meaning "nothing here yet".
func Empty() Slot { return 0 }

// IsEmpty reports whether the slot has never been published.
func (s Slot) IsEmpty() bool { return s == 0 }

// IsData reports whether the slot addresses a data bucket.
func (s Slot) IsData() bool { return uint32(s)&layout.DBit != 0 }

// IsIndex reports whether the slot addresses a child index node.
func (s Slot) IsIndex() bool { return !s.IsEmpty() && !s.IsData() }

func (s Slot) blockIndex() uint32 { return uint32(s) & layout.OffsetMask }

// IndexSlot builds a slot referencing the index node at nodeBlockIndex
// (byte offset / layout.NodeSize).
func IndexSlot(nodeBlockIndex uint32) Slot { return Slot(nodeBlockIndex & layout.OffsetMask) }

// DataSlot builds a slot referencing the bucket at dataBlockIndex (byte
// offset / layout.MinDataRecord).
func DataSlot(dataBlockIndex uint32) Slot {
	return Slot((dataBlockIndex & layout.OffsetMask) | layout.DBit)
}

// NodeOffset returns the byte offset of the index node this slot addresses.
// Only meaningful when IsIndex is true.
func (s Slot) NodeOffset() uint64 { return uint64(s.blockIndex()) * layout.NodeSize }

// DataOffset returns the byte offset of the bucket this slot addresses.
// Only meaningful when IsData is true.
func (s Slot) DataOffset() uint64 { return uint64(s.blockIndex()) * layout.MinDataRecord }
