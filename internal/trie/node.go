// Package trie implements the burst hash-trie index: fixed-fanout nodes of
// tagged slots, lock-free reader traversal via atomic loads, single-CAS
// publication of new slots, and the burst operation that replaces an
// overflowing collision chain with a fresh index node redistributing its
// live records one level deeper.
package trie

import (
	"sync/atomic"
	"unsafe"

	"github.com/iamNilotpal/htrie/internal/layout"
	"github.com/iamNilotpal/htrie/internal/slot"
)

// Node is a view over one TrieFanout-way index node: NodeSize bytes holding
// TrieFanout consecutive 32-bit slots, one cache line total.
type Node struct {
	region []byte
	offset uint64
}

// At wraps the index node beginning at offset within region.
func At(region []byte, offset uint64) Node {
	return Node{region: region, offset: offset}
}

// Offset returns the node's byte offset.
func (n Node) Offset() uint64 { return n.offset }

func (n Node) slotPtr(i int) *uint32 {
	base := n.offset + uint64(i)*4
	return (*uint32)(unsafe.Pointer(&n.region[base]))
}

// Slot atomically loads the slot at fan-out index i (0..TrieFanout-1). Safe
// to call without any lock: readers never block on a writer.
func (n Node) Slot(i int) slot.Slot {
	return slot.Slot(atomic.LoadUint32(n.slotPtr(i)))
}

// CompareAndSwapSlot atomically publishes new in place of old at fan-out
// index i, reporting whether it won the race. This is the only way a slot
// transitions from empty to occupied, or from data to index (burst), once
// the node is reachable from the trie.
func (n Node) CompareAndSwapSlot(i int, old, new slot.Slot) bool {
	return atomic.CompareAndSwapUint32(n.slotPtr(i), uint32(old), uint32(new))
}

// SetSlotRaw stores new at fan-out index i unconditionally. Only safe to
// call on a node that is not yet reachable from the trie (during burst
// construction, before the CAS that publishes the new node replaces the old
// slot) — after that point all writes must go through CompareAndSwapSlot.
func (n Node) SetSlotRaw(i int, s slot.Slot) {
	atomic.StoreUint32(n.slotPtr(i), uint32(s))
}

// digit returns the fan-out index key resolves to at depth.
func digit(key uint64, depth int) int { return int(layout.Digit(key, depth)) }
