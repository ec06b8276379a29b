// Package allocator implements the extent/block allocator: the global
// monotonic next-writable-block cursor (nwb) plus a bank of per-shard write
// cursors that hand out individual index nodes and data records without
// contending on nwb for every single allocation.
//
// htrie.h models the per-shard cursors as genuinely per-CPU data
// (TdbPerCpu, accessed with preemption disabled). Go exposes no portable,
// unprivileged way to read "which CPU am I running on" without reaching
// into runtime-internal linknames, so this package shards by an atomic
// round-robin counter instead of true CPU affinity, and protects each
// shard's cursor with its own sync.Mutex rather than disabling preemption.
// Correctness does not depend on which shard a given call lands on, only on
// each shard's cursor being mutated by one allocation at a time — the mutex
// gives that guarantee directly. This trades a small amount of possible
// cross-goroutine cursor sharing for something expressible in portable Go;
// see DESIGN.md.
package allocator

import (
	"runtime"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/iamNilotpal/htrie/internal/bitmap"
	"github.com/iamNilotpal/htrie/internal/header"
	"github.com/iamNilotpal/htrie/internal/layout"
	htrieErrors "github.com/iamNilotpal/htrie/pkg/errors"
)

type shard struct {
	mu          sync.Mutex
	iwcl, iwend uint64
	dwcl, dwend uint64
}

// Allocator hands out index-node and data-record offsets from a region
// governed by a header.Header and a bitmap.Bitmap.
type Allocator struct {
	region []byte
	hdr    *header.Header
	bmp    *bitmap.Bitmap
	dbsz   uint64
	extSz  uint64
	log    *zap.SugaredLogger

	shardMask uint64
	shards    []shard
	rr        atomic.Uint64
}

// New builds an Allocator over region, using hdr for the dbsz/nwb cursor
// and bmp for extent accounting. Shard count is the next power of two at or
// above GOMAXPROCS, bounding per-shard contention to roughly what the
// runtime can actually run concurrently.
func New(region []byte, hdr *header.Header, bmp *bitmap.Bitmap, log *zap.SugaredLogger) *Allocator {
	n := runtime.GOMAXPROCS(0)
	if n < 1 {
		n = 1
	}
	count := 1
	for count < n {
		count <<= 1
	}
	return &Allocator{
		region:    region,
		hdr:       hdr,
		bmp:       bmp,
		dbsz:      hdr.DBSize(),
		extSz:     hdr.ExtentSize(),
		log:       log,
		shardMask: uint64(count - 1),
		shards:    make([]shard, count),
	}
}

func (a *Allocator) pickShard() *shard {
	i := a.rr.Add(1) & a.shardMask
	return &a.shards[i]
}

// claimRun atomically fetch-adds n bytes to the global write cursor and
// returns the byte offset the caller now owns exclusively, marking every
// extent boundary the run crosses as used in the bitmap. Returns
// ErrOutOfSpace (never panics) once nwb would exceed dbsz; nwb itself is
// left past dbsz, matching the "ratchet never decreases" invariant — a
// failed claim still consumes cursor space rather than retrying, since the
// condition is terminal for this region's lifetime.
func (a *Allocator) claimRun(n uint64) (uint64, error) {
	next := a.hdr.AddNWB(n)
	cur := next - n
	if next > a.dbsz {
		if a.log != nil {
			a.log.Warnw("htrie: allocator out of space", "requested", n, "dbsz", a.dbsz, "nwb", next)
		}
		return 0, htrieErrors.NewEngineError(htrieErrors.ErrOutOfSpace, htrieErrors.ErrorCodeOutOfSpace, "allocator exhausted region").
			WithOperation("allocator.claimRun").WithOffset(cur)
	}

	startExt := cur / a.extSz
	endExt := (next - 1) / a.extSz
	for e := startExt; e <= endExt; e++ {
		if a.bmp.TestAndSet(e) && a.log != nil {
			a.log.Debugw("htrie: extent claimed", "extent", e)
		}
	}
	return cur, nil
}

// AllocIndexBlock returns the byte offset of a fresh, zero-filled
// NodeSize-byte block suitable for a trie index node.
func (a *Allocator) AllocIndexBlock() (uint64, error) {
	s := a.pickShard()
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.iwcl == 0 || s.iwcl+layout.NodeSize > s.iwend {
		blk, err := a.claimRun(layout.PageSize)
		if err != nil {
			return 0, err
		}
		s.iwcl, s.iwend = blk, blk+layout.PageSize
	}
	off := s.iwcl
	s.iwcl += layout.NodeSize
	return off, nil
}

// AllocDataBlock returns the byte offset of a fresh, zero-filled,
// MDR-aligned run of at least size bytes suitable for a bucket or record
// chunk. Requests larger than one page bypass the per-shard cursor and
// claim a dedicated, MDR-aligned run directly.
func (a *Allocator) AllocDataBlock(size uint64) (uint64, error) {
	need := layout.AlignMDR(size)
	if need > layout.PageSize {
		return a.claimRun(need)
	}

	s := a.pickShard()
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dwcl == 0 || s.dwcl+need > s.dwend {
		blk, err := a.claimRun(layout.PageSize)
		if err != nil {
			return 0, err
		}
		s.dwcl, s.dwend = blk, blk+layout.PageSize
	}
	off := s.dwcl
	s.dwcl += need
	return off, nil
}
