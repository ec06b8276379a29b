package ignite_test

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"github.com/iamNilotpal/htrie/pkg/ignite"
	"github.com/iamNilotpal/htrie/pkg/options"
)

func TestOpenInsertLookupFixed(t *testing.T) {
	ctx := context.Background()
	store, err := ignite.Open(ctx, "test",
		options.WithRegionSize(1<<20),
		options.WithExtentSize(1<<16),
		options.WithFixedRecordLength(16),
	)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer store.Close()

	key := uint64(0x0123456789ABCDEF)
	data := bytes.Repeat([]byte{0xAA}, 16)

	rec, n, err := store.Insert(key, data)
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if n != len(data) {
		t.Fatalf("Insert stored %d bytes, want %d", n, len(data))
	}
	if rec.Key() != key {
		t.Fatalf("Record.Key() = %#x, want %#x", rec.Key(), key)
	}

	got, ok := store.Lookup(key)
	if !ok {
		t.Fatalf("Lookup did not find the inserted key")
	}
	if !bytes.Equal(got.Value(), data) {
		t.Fatalf("Value() = %v, want %v", got.Value(), data)
	}
}

func TestLookupMissingKey(t *testing.T) {
	ctx := context.Background()
	store, err := ignite.Open(ctx, "test", options.WithRegionSize(1<<20), options.WithExtentSize(1<<16))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer store.Close()

	if _, ok := store.Lookup(12345); ok {
		t.Fatalf("Lookup of a never-inserted key must report not found")
	}
}

func TestScanIteratesDuplicateKeys(t *testing.T) {
	ctx := context.Background()
	store, err := ignite.Open(ctx, "test",
		options.WithRegionSize(1<<20),
		options.WithExtentSize(1<<16),
		options.WithFixedRecordLength(8),
	)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer store.Close()

	key := uint64(7)
	for i := 0; i < 10; i++ {
		if _, _, err := store.Insert(key, bytes.Repeat([]byte{byte(i)}, 8)); err != nil {
			t.Fatalf("Insert #%d failed: %v", i, err)
		}
	}

	it, ok := store.Scan(key)
	if !ok {
		t.Fatalf("Scan did not find any record for the shared key")
	}
	count := 1
	for it.Next() {
		count++
	}
	if count != 10 {
		t.Fatalf("Scan visited %d records, want 10", count)
	}
}

func TestExtendVariableRecord(t *testing.T) {
	ctx := context.Background()
	store, err := ignite.Open(ctx, "test",
		options.WithRegionSize(4<<20),
		options.WithExtentSize(1<<16),
	)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer store.Close()

	key := uint64(0xCAFEBABE)
	initial := bytes.Repeat([]byte{1}, 32)
	rec, _, err := store.Insert(key, initial)
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	rec, buf, err := store.Extend(rec, 4096)
	if err != nil {
		t.Fatalf("Extend failed: %v", err)
	}
	copy(buf, bytes.Repeat([]byte{2}, 4096))

	got, ok := store.Lookup(key)
	if !ok {
		t.Fatalf("Lookup after extend failed")
	}
	if len(got.Value()) != 32+4096 {
		t.Fatalf("Value() length = %d, want %d", len(got.Value()), 32+4096)
	}
	_ = rec
}

func TestExtendRejectsFixedEngine(t *testing.T) {
	ctx := context.Background()
	store, err := ignite.Open(ctx, "test",
		options.WithRegionSize(1<<20),
		options.WithExtentSize(1<<16),
		options.WithFixedRecordLength(16),
	)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer store.Close()

	rec, _, err := store.Insert(1, bytes.Repeat([]byte{1}, 16))
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if _, _, err := store.Extend(rec, 10); err == nil {
		t.Fatalf("Extend must fail on a fixed-length engine")
	}
}

func TestCloseRejectsFurtherOperations(t *testing.T) {
	ctx := context.Background()
	store, err := ignite.Open(ctx, "test", options.WithRegionSize(1<<20), options.WithExtentSize(1<<16))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := store.Close(); err == nil {
		t.Fatalf("second Close must report the engine as already closed")
	}
}

func TestConcurrentInsertAcrossGoroutines(t *testing.T) {
	ctx := context.Background()
	store, err := ignite.Open(ctx, "test",
		options.WithRegionSize(64<<20),
		options.WithExtentSize(1<<20),
		options.WithFixedRecordLength(16),
	)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer store.Close()

	const goroutines = 8
	const perGoroutine = 10_000

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				key := uint64(g)<<32 | uint64(i)
				if _, _, err := store.Insert(key, bytes.Repeat([]byte{byte(g)}, 16)); err != nil {
					t.Errorf("Insert(g=%d,i=%d) failed: %v", g, i, err)
					return
				}
			}
		}(g)
	}
	wg.Wait()

	for g := 0; g < goroutines; g++ {
		for i := 0; i < perGoroutine; i++ {
			key := uint64(g)<<32 | uint64(i)
			if _, ok := store.Lookup(key); !ok {
				t.Fatalf("key (g=%d,i=%d) missing after concurrent insert", g, i)
			}
		}
	}
}
