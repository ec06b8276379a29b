// Package record implements the two on-disk record encodings: Fixed
// (FRec, a plain key + fixed-width payload) and Variable (VRec, a key plus
// a chunk_next link and a length so a logical value can span more than one
// allocation). Both are thin views over a live region slice — no copying,
// no separate in-memory shadow — matching htrie.h's TdbFRec/TdbVRec packed
// structs.
package record

import (
	"encoding/binary"

	"github.com/iamNilotpal/htrie/internal/layout"
)

// Record is the common interface both Fixed and Variable records satisfy,
// used by the bucket layer's generic scan/chain logic.
type Record interface {
	Key() uint64
	Live() bool
}

// FixedHeaderSize is the size in bytes of a Fixed record's key field.
const FixedHeaderSize = 8

// FixedSize returns the 8-byte-aligned total size of a fixed record with
// payload length recLen.
func FixedSize(recLen uint32) uint64 {
	return layout.Align8(uint64(FixedHeaderSize) + uint64(recLen))
}

// Fixed is a view over one fixed-length record: an 8-byte key followed by
// exactly recLen bytes of payload.
type Fixed struct {
	raw []byte
}

// NewFixed wraps the recLen-sized record beginning at offset within region.
func NewFixed(region []byte, offset uint64, recLen uint32) Fixed {
	end := offset + FixedSize(recLen)
	return Fixed{raw: region[offset:end]}
}

// Key returns the record's key.
func (f Fixed) Key() uint64 { return binary.LittleEndian.Uint64(f.raw[:8]) }

// SetKey sets the record's key. Callers write the key after the payload.
// Liveness is "any word nonzero", so a record already reads as live once a
// nonzero payload word is written, and a nonzero key makes it live the
// instant it's written.
func (f Fixed) SetKey(k uint64) { binary.LittleEndian.PutUint64(f.raw[:8], k) }

// Payload returns the mutable payload bytes following the key.
func (f Fixed) Payload() []byte { return f.raw[FixedHeaderSize:] }

// Live reports whether any 8-byte word of the record is nonzero, mirroring
// tdb_live_fsrec exactly (and inheriting its documented caveat: an
// all-zero key and all-zero payload is indistinguishable from an unused
// slot).
func (f Fixed) Live() bool {
	for i := 0; i+8 <= len(f.raw); i += 8 {
		if binary.LittleEndian.Uint64(f.raw[i:i+8]) != 0 {
			return true
		}
	}
	return false
}

// Raw exposes the record's full backing slice (key + payload), mainly for
// tests asserting exact byte layout.
func (f Fixed) Raw() []byte { return f.raw }

// vFreed flags a variable record's length field as logically deleted
// without reclaiming its space, mirroring TDB_HTRIE_VRFREED.
const vFreed = uint32(1) << 31

// VariableHeaderSize is the size in bytes of a Variable record's fixed
// fields: key (8) + chunk_next (4) + len (4).
const VariableHeaderSize = 16

// VariableSize returns the 8-byte-aligned total size of a variable record
// chunk carrying payloadLen bytes.
func VariableSize(payloadLen uint32) uint64 {
	return layout.Align8(uint64(VariableHeaderSize) + uint64(payloadLen))
}

// Variable is a view over one variable-length record chunk: key,
// chunk_next, len, then len bytes of payload. raw may be larger than the
// chunk itself (a generous tail slice is fine since every accessor bounds
// itself using the len field), the same way bucket.Bucket hands out
// variable record views without knowing their allocated capacity.
type Variable struct {
	raw []byte
}

// NewVariable wraps the variable record chunk beginning at offset within
// region. The returned view's raw slice runs to the end of region; accessors
// bound themselves with the stored len field.
func NewVariable(region []byte, offset uint64) Variable {
	return Variable{raw: region[offset:]}
}

// Key returns the record's key.
func (v Variable) Key() uint64 { return binary.LittleEndian.Uint64(v.raw[0:8]) }

// SetKey sets the record's key.
func (v Variable) SetKey(k uint64) { binary.LittleEndian.PutUint64(v.raw[0:8], k) }

// ChunkNext returns the MDR block index of the next chunk in this record's
// chain, or 0 if this is the last chunk.
func (v Variable) ChunkNext() uint32 { return binary.LittleEndian.Uint32(v.raw[8:12]) }

// SetChunkNext links this chunk to the next one.
func (v Variable) SetChunkNext(blockIndex uint32) {
	binary.LittleEndian.PutUint32(v.raw[8:12], blockIndex)
}

func (v Variable) rawLen() uint32 { return binary.LittleEndian.Uint32(v.raw[12:16]) }

// Len returns this chunk's payload length in bytes.
func (v Variable) Len() uint32 { return v.rawLen() &^ vFreed }

// Freed reports whether this chunk has been marked freed.
func (v Variable) Freed() bool { return v.rawLen()&vFreed != 0 }

// SetLen sets this chunk's payload length, clearing any freed flag.
func (v Variable) SetLen(n uint32) { binary.LittleEndian.PutUint32(v.raw[12:16], n) }

// MarkFreed sets the freed flag without altering the stored length,
// mirroring TDB_HTRIE_VRFREED: space is never reclaimed, only marked dead.
func (v Variable) MarkFreed() {
	binary.LittleEndian.PutUint32(v.raw[12:16], v.rawLen()|vFreed)
}

// Live reports whether this chunk has a nonzero length and isn't freed,
// mirroring tdb_live_vsrec.
func (v Variable) Live() bool { return v.Len() != 0 && !v.Freed() }

// Payload returns this chunk's payload bytes, bounded by the stored length.
func (v Variable) Payload() []byte {
	n := v.Len()
	return v.raw[VariableHeaderSize : VariableHeaderSize+uint64(n)]
}

// Concat walks head's chunk_next chain and concatenates every chunk's
// payload into one contiguous buffer, the read-side counterpart of
// extend_rec's chunked writes.
func Concat(region []byte, head Variable) []byte {
	var buf []byte
	cur := head
	for {
		buf = append(buf, cur.Payload()...)
		next := cur.ChunkNext()
		if next == 0 {
			break
		}
		cur = NewVariable(region, uint64(next)*layout.MinDataRecord)
	}
	return buf
}
