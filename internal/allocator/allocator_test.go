package allocator

import (
	"sync"
	"testing"

	"github.com/iamNilotpal/htrie/internal/bitmap"
	"github.com/iamNilotpal/htrie/internal/header"
	"github.com/iamNilotpal/htrie/internal/layout"
	htrieErrors "github.com/iamNilotpal/htrie/pkg/errors"
	"github.com/iamNilotpal/htrie/pkg/logger"
)

const testExtentSize = 8192

func newTestAllocator(t *testing.T, regionBytes int) (*Allocator, []byte) {
	t.Helper()
	region := make([]byte, regionBytes)
	hdr, _, err := header.Init(region, 16, testExtentSize)
	if err != nil {
		t.Fatalf("header.Init failed: %v", err)
	}
	bmp := bitmap.Over(hdr.BitmapWords())
	return New(region, hdr, bmp, logger.Nop()), region
}

func TestAllocIndexBlockReturnsDistinctAlignedOffsets(t *testing.T) {
	a, _ := newTestAllocator(t, testExtentSize*8)

	seen := make(map[uint64]bool)
	for i := 0; i < 100; i++ {
		off, err := a.AllocIndexBlock()
		if err != nil {
			t.Fatalf("AllocIndexBlock failed at i=%d: %v", i, err)
		}
		if off%layout.NodeSize != 0 {
			t.Fatalf("offset %d is not NodeSize-aligned", off)
		}
		if seen[off] {
			t.Fatalf("offset %d handed out twice", off)
		}
		seen[off] = true
	}
}

func TestAllocDataBlockAlignsToMDR(t *testing.T) {
	a, _ := newTestAllocator(t, testExtentSize*8)

	off, err := a.AllocDataBlock(layout.MinDataRecord)
	if err != nil {
		t.Fatalf("AllocDataBlock failed: %v", err)
	}
	if off%layout.MinDataRecord != 0 {
		t.Fatalf("offset %d is not MDR-aligned", off)
	}
}

func TestAllocDataBlockOversizedBypassesShardCursor(t *testing.T) {
	a, _ := newTestAllocator(t, testExtentSize*8)

	big := layout.PageSize * 2
	off, err := a.AllocDataBlock(uint64(big))
	if err != nil {
		t.Fatalf("AllocDataBlock(oversized) failed: %v", err)
	}
	if off%layout.MinDataRecord != 0 {
		t.Fatalf("oversized allocation must still be MDR-aligned, got %d", off)
	}
	for i := range a.shards {
		if a.shards[i].dwcl != 0 {
			t.Fatalf("oversized allocation must not claim a page for shard %d's data cursor", i)
		}
	}
}

func TestAllocatorReturnsOutOfSpace(t *testing.T) {
	a, _ := newTestAllocator(t, testExtentSize*2)

	var lastErr error
	for i := 0; i < 10_000; i++ {
		if _, err := a.AllocDataBlock(layout.PageSize); err != nil {
			lastErr = err
			break
		}
	}
	if lastErr == nil {
		t.Fatalf("expected allocator to eventually report out of space")
	}
	ee, ok := htrieErrors.AsEngineError(lastErr)
	if !ok {
		t.Fatalf("expected an *EngineError, got %T", lastErr)
	}
	if ee.Code() != htrieErrors.ErrorCodeOutOfSpace {
		t.Fatalf("Code() = %v, want ErrorCodeOutOfSpace", ee.Code())
	}
}

func TestConcurrentAllocationsNeverOverlap(t *testing.T) {
	a, _ := newTestAllocator(t, testExtentSize*64)

	const goroutines = 16
	const perGoroutine = 50

	type claim struct{ off, end uint64 }
	results := make(chan claim, goroutines*perGoroutine)

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				off, err := a.AllocDataBlock(layout.MinDataRecord)
				if err != nil {
					return
				}
				results <- claim{off, off + layout.MinDataRecord}
			}
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[uint64]bool)
	for c := range results {
		for o := c.off; o < c.end; o += layout.MinDataRecord {
			if seen[o] {
				t.Fatalf("offset %d claimed by more than one allocation", o)
			}
			seen[o] = true
		}
	}
}
