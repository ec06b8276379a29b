// Package header implements the persistent region header: the fixed byte
// layout at offset 0 of every region (magic, database size, the global
// next-writable-block cursor, the fixed record length, and the extent
// bitmap), matching htrie.h's packed TdbHdr. All field access goes through
// explicit offset arithmetic rather than a Go struct overlay, because the
// struct must describe bytes that outlive any particular process's view of
// them (spec.md §9's offset-not-pointer design note applies to the header
// itself, not just trie slots).
package header

import (
	"encoding/binary"
	"sync/atomic"
	"unsafe"

	"github.com/iamNilotpal/htrie/internal/layout"
	htrieErrors "github.com/iamNilotpal/htrie/pkg/errors"
)

// Magic identifies a region that has already been initialized by this
// engine. Chosen as the little-endian encoding of the ASCII string
// "HTRIE001".
var Magic = binary.LittleEndian.Uint64([]byte("HTRIE001"))

// Byte offsets of each header field, per spec.md §6's persistent header
// layout table.
const (
	offMagic   = 0
	offDBSize  = 8
	offNWB     = 16
	offPCPU    = 24 // runtime-only; always zero in the region, real per-shard
	                // state lives in internal/allocator's in-memory shards.
	offRecLen  = 32
	// Size is the total size of the fixed header area, before the trailing
	// extent bitmap.
	Size = 64
)

// Header is a view over a region's first Size+bitmap bytes. extentSize is
// not itself persisted (htrie.h doesn't reserve a field for it either); it
// is supplied by the caller on every Init and must agree across runs.
// Recovery does not check it: a different value silently yields a
// different bitmap size and root offset.
type Header struct {
	region     []byte
	extentSize uint64
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

func bitmapWordCount(dbSize, extentSize uint64) uint64 {
	extents := (dbSize + extentSize - 1) / extentSize
	return (extents + 63) / 64
}

// Init initializes a fresh region, or recovers an already-initialized one,
// detected by the magic value at offset 0. Returns the Header and the byte
// offset of the root trie node. A region whose magic is set but doesn't
// match Magic, or whose stored record length disagrees with recLen, yields
// ErrCorruptHeader; the caller decides whether to retry via ForceInit.
func Init(region []byte, recLen uint32, extentSize uint64) (*Header, uint64, error) {
	if len(region) == 0 {
		return nil, 0, htrieErrors.NewValidationError(
			htrieErrors.ErrBadArgument, htrieErrors.ErrorCodeBadArgument, "region must be non-empty",
		).WithField("region").WithRule("non_empty")
	}
	if extentSize == 0 || extentSize%layout.PageSize != 0 || extentSize&(extentSize-1) != 0 {
		return nil, 0, htrieErrors.NewValidationError(
			htrieErrors.ErrBadArgument, htrieErrors.ErrorCodeBadArgument, "extent size must be a power-of-two multiple of the page size",
		).WithField("extentSize").WithRule("power_of_two")
	}
	if uint64(len(region))%extentSize != 0 {
		return nil, 0, htrieErrors.NewValidationError(
			htrieErrors.ErrBadArgument, htrieErrors.ErrorCodeBadArgument, "region size must be a multiple of extent size",
		).WithField("region").WithRule("extent_aligned")
	}

	h := &Header{region: region, extentSize: extentSize}
	existing := h.Magic()
	switch existing {
	case Magic:
		return recover(h, recLen)
	case 0:
		return initFresh(h, recLen)
	default:
		return nil, 0, htrieErrors.NewEngineError(
			htrieErrors.ErrCorruptHeader, htrieErrors.ErrorCodeCorruptHeader, "region magic does not match and is not zero",
		).WithOperation("header.Init")
	}
}

// ForceInit behaves like Init but skips the magic check, reinitializing the
// region from scratch regardless of what was there before. Exists for
// callers that received ErrCorruptHeader from Init and have decided, out of
// band, that starting fresh is the right recovery action.
func ForceInit(region []byte, recLen uint32, extentSize uint64) (*Header, uint64, error) {
	if len(region) == 0 || extentSize == 0 || extentSize%layout.PageSize != 0 ||
		extentSize&(extentSize-1) != 0 || uint64(len(region))%extentSize != 0 {
		return nil, 0, htrieErrors.NewValidationError(
			htrieErrors.ErrBadArgument, htrieErrors.ErrorCodeBadArgument,
			"region and extent size must pass the same checks as Init",
		).WithField("region").WithRule("init_arguments")
	}
	h := &Header{region: region, extentSize: extentSize}
	return initFresh(h, recLen)
}

func initFresh(h *Header, recLen uint32) (*Header, uint64, error) {
	bmpWords := bitmapWordCount(uint64(len(h.region)), h.extentSize)
	rootOffset := layout.AlignCacheLine(uint64(Size) + bmpWords*8)
	if rootOffset+layout.NodeSize > h.extentSize {
		return nil, 0, htrieErrors.NewValidationError(
			htrieErrors.ErrBadArgument, htrieErrors.ErrorCodeBadArgument,
			"extent size too small to hold header, bitmap and root node",
		).WithField("extentSize").WithRule("min_capacity")
	}

	zero(h.region[:Size+int(bmpWords)*8])
	h.setMagic(Magic)
	h.setDBSize(uint64(len(h.region)))
	h.setRecordLength(recLen)
	h.setNWB(h.extentSize) // extent 0 is reserved for header+bitmap+root.

	bmp := h.bitmapWords(bmpWords)
	bmp[0] |= 1

	zero(h.region[rootOffset : rootOffset+layout.NodeSize])
	return h, rootOffset, nil
}

func recover(h *Header, recLen uint32) (*Header, uint64, error) {
	if h.DBSize() != uint64(len(h.region)) {
		return nil, 0, htrieErrors.NewEngineError(
			htrieErrors.ErrCorruptHeader, htrieErrors.ErrorCodeCorruptHeader, "stored database size does not match region length",
		).WithOperation("header.Init")
	}
	if h.RecordLength() != recLen {
		return nil, 0, htrieErrors.NewEngineError(
			htrieErrors.ErrCorruptHeader, htrieErrors.ErrorCodeCorruptHeader, "stored record length does not match requested record length",
		).WithOperation("header.Init").WithDetail("stored", h.RecordLength()).WithDetail("requested", recLen)
	}
	bmpWords := bitmapWordCount(h.DBSize(), h.extentSize)
	rootOffset := layout.AlignCacheLine(uint64(Size) + bmpWords*8)
	return h, rootOffset, nil
}

func (h *Header) Magic() uint64 { return binary.LittleEndian.Uint64(h.region[offMagic:]) }
func (h *Header) setMagic(v uint64) { binary.LittleEndian.PutUint64(h.region[offMagic:], v) }

// DBSize returns the total region size in bytes, as recorded at Init time.
func (h *Header) DBSize() uint64 { return binary.LittleEndian.Uint64(h.region[offDBSize:]) }
func (h *Header) setDBSize(v uint64) { binary.LittleEndian.PutUint64(h.region[offDBSize:], v) }

func (h *Header) nwbPtr() *uint64 { return (*uint64)(unsafe.Pointer(&h.region[offNWB])) }

// NextWriteBlock atomically loads the global next-writable-block cursor.
func (h *Header) NextWriteBlock() uint64 { return atomic.LoadUint64(h.nwbPtr()) }

func (h *Header) setNWB(v uint64) { atomic.StoreUint64(h.nwbPtr(), v) }

// AddNWB atomically fetch-adds delta to the next-writable-block cursor and
// returns the cursor's new value, the single primitive the allocator uses
// to hand out both index and data blocks.
func (h *Header) AddNWB(delta uint64) uint64 { return atomic.AddUint64(h.nwbPtr(), delta) }

// RecordLength returns the fixed record payload length, or 0 for
// variable-length records.
func (h *Header) RecordLength() uint32 { return binary.LittleEndian.Uint32(h.region[offRecLen:]) }
func (h *Header) setRecordLength(v uint32) {
	binary.LittleEndian.PutUint32(h.region[offRecLen:], v)
}

// ExtentSize returns the extent accounting granularity this header was
// opened with.
func (h *Header) ExtentSize() uint64 { return h.extentSize }

func (h *Header) bitmapWords(n uint64) []uint64 {
	return unsafe.Slice((*uint64)(unsafe.Pointer(&h.region[Size])), n)
}

// BitmapWords returns the live view over the extent bitmap, sized from the
// header's own DBSize/ExtentSize.
func (h *Header) BitmapWords() []uint64 {
	return h.bitmapWords(bitmapWordCount(h.DBSize(), h.extentSize))
}

// Region returns the full backing byte slice.
func (h *Header) Region() []byte { return h.region }
