package bucket

import (
	"github.com/iamNilotpal/htrie/internal/layout"
	"github.com/iamNilotpal/htrie/internal/record"
)

// Cursor identifies one matching record's position: the record itself, the
// bucket it lives in, and (for fixed records packed several-to-a-bucket)
// the byte offset within that bucket's record space, so a later NextRecord
// call knows where to resume scanning.
type Cursor struct {
	Rec    record.Record
	Bucket Bucket
	offset int
}

// ScanForRecord finds the first live record matching key reachable from
// start, following start's collision chain. Locking follows a strict
// hand-off order: the next bucket in the chain is read-locked before the
// current one is unlocked, so a concurrent burst or append can never see a
// gap where no bucket in the chain is held.
func ScanForRecord(recLen uint32, start Bucket, key uint64) (Cursor, bool) {
	b := start
	b.RLock()
	for {
		if recLen == 0 {
			v := b.VariableRecord()
			if v.Live() && v.Key() == key {
				return Cursor{Rec: v, Bucket: b}, true
			}
		} else {
			if f, off, ok := b.ScanFixed(recLen, 0, key); ok {
				return Cursor{Rec: f, Bucket: b, offset: off}, true
			}
		}

		next, ok := b.Next()
		if !ok {
			b.RUnlock()
			return Cursor{}, false
		}
		next.RLock()
		b.RUnlock()
		b = next
	}
}

// NextRecord continues a search for the same key past cur, used when the
// engine must step through every record sharing a key (duplicate keys
// always collision-chain rather than overwrite). For fixed records it first
// keeps scanning the current bucket's packing space past cur's offset, then
// falls through to the chain walk exactly like ScanForRecord; a variable
// bucket holds exactly one record, so it always falls through immediately.
func NextRecord(recLen uint32, cur Cursor, key uint64) (Cursor, bool) {
	b := cur.Bucket
	b.RLock()
	if recLen != 0 {
		stride := int(record.FixedSize(recLen))
		if f, off, ok := b.ScanFixed(recLen, cur.offset+stride, key); ok {
			b.RUnlock()
			return Cursor{Rec: f, Bucket: b, offset: off}, true
		}
	}

	for {
		next, ok := b.Next()
		if !ok {
			b.RUnlock()
			return Cursor{}, false
		}
		next.RLock()
		b.RUnlock()
		b = next

		if recLen == 0 {
			v := b.VariableRecord()
			if v.Live() && v.Key() == key {
				return Cursor{Rec: v, Bucket: b}, true
			}
		} else if f, off, ok := b.ScanFixed(recLen, 0, key); ok {
			return Cursor{Rec: f, Bucket: b, offset: off}, true
		}
	}
}

// dataIndex converts a byte offset within the region into the MDR-unit
// block index slot.DataSlot expects.
func dataIndex(offset uint64) uint32 { return uint32(offset / layout.MinDataRecord) }

// nodeIndex converts a byte offset within the region into the NodeSize-unit
// block index slot.IndexSlot expects.
func nodeIndex(offset uint64) uint32 { return uint32(offset / layout.NodeSize) }

// DataIndex exposes dataIndex for callers outside this package (the trie
// layer needs it when linking collision chains and chunk_next pointers).
func DataIndex(offset uint64) uint32 { return dataIndex(offset) }

// NodeIndex exposes nodeIndex for callers outside this package.
func NodeIndex(offset uint64) uint32 { return nodeIndex(offset) }
