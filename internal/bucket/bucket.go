// Package bucket implements the collision-bucket layer: the small header
// (coll_next + flags) prefixing either a run of packed fixed records or a
// single variable record, the per-bucket reader/writer lock that is the
// only synchronization primitive protecting a bucket's contents, and the
// scan/chain-walk operations (bscan_for_rec/next_rec) that find a record by
// key within a bucket and across its collision chain.
//
// Go cannot embed a real lock inside a raw mmap'd byte region (a
// sync.RWMutex isn't safely placed in arbitrary memory, and doesn't survive
// being reinterpreted after a remap), so the rwlock a bucket's header
// implies lives instead in a fixed-size, in-process stripe table indexed by
// the bucket's byte offset. Two different buckets landing on the same
// stripe simply share a lock, which only costs extra contention, never
// correctness.
package bucket

import (
	"encoding/binary"

	"github.com/iamNilotpal/htrie/internal/layout"
	"github.com/iamNilotpal/htrie/internal/record"
)

// HeaderSize is the size in bytes of a bucket's coll_next+flags header.
const HeaderSize = 8

const stripeCount = 1024

var locks = newStripes(stripeCount)

type stripeTable struct {
	mu []rwStripe
}

func newStripes(n int) *stripeTable {
	return &stripeTable{mu: make([]rwStripe, n)}
}

func (t *stripeTable) forOffset(off uint64) *rwStripe {
	return &t.mu[off%uint64(len(t.mu))]
}

// Bucket is a view over one collision bucket: its header plus whatever
// record(s) it holds.
type Bucket struct {
	region []byte
	offset uint64
}

// At wraps the bucket beginning at offset within region.
func At(region []byte, offset uint64) Bucket {
	return Bucket{region: region, offset: offset}
}

// Offset returns the bucket's byte offset.
func (b Bucket) Offset() uint64 { return b.offset }

// IsZero reports whether this is the zero Bucket (no bucket found).
func (b Bucket) IsZero() bool { return b.region == nil }

func (b Bucket) header() []byte { return b.region[b.offset : b.offset+HeaderSize] }

// CollNext returns the MDR block index of the next bucket in this bucket's
// collision chain, or 0 if this is the last bucket. Only safe to call while
// holding at least a read lock on b.
func (b Bucket) CollNext() uint32 { return binary.LittleEndian.Uint32(b.header()[0:4]) }

// SetCollNext links this bucket to the next one in its collision chain.
// Only safe to call while holding a write lock on b (or before the bucket
// is reachable from the trie at all, during burst construction).
func (b Bucket) SetCollNext(blockIndex uint32) {
	binary.LittleEndian.PutUint32(b.header()[0:4], blockIndex)
}

// Flags returns the bucket's flag word.
func (b Bucket) Flags() uint32 { return binary.LittleEndian.Uint32(b.header()[4:8]) }

// SetFlags sets the bucket's flag word.
func (b Bucket) SetFlags(v uint32) { binary.LittleEndian.PutUint32(b.header()[4:8], v) }

// Next returns the next bucket in the collision chain, or the zero Bucket
// and false if this is the last one. Only safe to call while holding at
// least a read lock on b.
func (b Bucket) Next() (Bucket, bool) {
	cn := b.CollNext()
	if cn == 0 {
		return Bucket{}, false
	}
	return At(b.region, uint64(cn)*layout.MinDataRecord), true
}

// RLock/RUnlock/Lock/Unlock acquire and release the bucket's stripe lock.
func (b Bucket) RLock()   { locks.forOffset(b.offset).RLock() }
func (b Bucket) RUnlock() { locks.forOffset(b.offset).RUnlock() }
func (b Bucket) Lock()    { locks.forOffset(b.offset).Lock() }
func (b Bucket) Unlock()  { locks.forOffset(b.offset).Unlock() }

// recordSpace returns the bucket's fixed-record packing area: everything
// after the header, up to one MDR block. Only meaningful for fixed-record
// buckets — a fixed bucket is always exactly one MDR block (Open Question
// (a) from spec.md §9, resolved by validating rec_len against bucket
// capacity at Init time so this slice is always the right size).
func (b Bucket) recordSpace() []byte {
	start := b.offset + HeaderSize
	end := b.offset + layout.MinDataRecord
	if end > uint64(len(b.region)) {
		end = uint64(len(b.region))
	}
	return b.region[start:end]
}

// ScanFixed looks for a live fixed record matching key starting at byte
// offset fromOffset within this bucket's record space, returning the
// record, its byte offset (for a subsequent NextRecord call), and whether
// one was found.
func (b Bucket) ScanFixed(recLen uint32, fromOffset int, key uint64) (record.Fixed, int, bool) {
	space := b.recordSpace()
	stride := int(record.FixedSize(recLen))
	for off := fromOffset; off+stride <= len(space); off += stride {
		f := record.Fixed{}
		f = record.NewFixed(b.region, b.offset+HeaderSize+uint64(off), recLen)
		if f.Live() && f.Key() == key {
			return f, off, true
		}
	}
	return record.Fixed{}, 0, false
}

// LiveFixed returns every live fixed record currently packed into this
// bucket, used by burst to redistribute a bucket's contents into a new
// node.
func (b Bucket) LiveFixed(recLen uint32) []record.Fixed {
	space := b.recordSpace()
	stride := int(record.FixedSize(recLen))
	var out []record.Fixed
	for off := 0; off+stride <= len(space); off += stride {
		f := record.NewFixed(b.region, b.offset+HeaderSize+uint64(off), recLen)
		if f.Live() {
			out = append(out, f)
		}
	}
	return out
}

// AppendFixed finds the first unused (never-written, all-zero) slot in this
// bucket's trailing packing space and returns a view over it, ready for the
// caller to write a key and payload into. Returns ok=false if the bucket's
// packing space is already full. The caller must hold this bucket's write
// lock for the duration of the write.
func (b Bucket) AppendFixed(recLen uint32) (record.Fixed, bool) {
	space := b.recordSpace()
	stride := int(record.FixedSize(recLen))
	for off := 0; off+stride <= len(space); off += stride {
		f := record.NewFixed(b.region, b.offset+HeaderSize+uint64(off), recLen)
		if !f.Live() {
			return f, true
		}
	}
	return record.Fixed{}, false
}

// VariableRecord returns a view over this bucket's single variable record,
// immediately following the bucket header.
func (b Bucket) VariableRecord() record.Variable {
	return record.NewVariable(b.region, b.offset+HeaderSize)
}
