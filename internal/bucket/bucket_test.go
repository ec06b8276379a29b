package bucket

import (
	"testing"
	"time"

	"github.com/iamNilotpal/htrie/internal/layout"
)

func TestAppendFixedPacksAndLiveFixed(t *testing.T) {
	region := make([]byte, layout.MinDataRecord*2)
	b := At(region, 0)

	const recLen = 8
	f1, ok := b.AppendFixed(recLen)
	if !ok {
		t.Fatalf("expected room for a first record")
	}
	copy(f1.Payload(), []byte("aaaaaaaa"))
	f1.SetKey(1)

	f2, ok := b.AppendFixed(recLen)
	if !ok {
		t.Fatalf("expected room for a second record")
	}
	copy(f2.Payload(), []byte("bbbbbbbb"))
	f2.SetKey(2)

	live := b.LiveFixed(recLen)
	if len(live) != 2 {
		t.Fatalf("LiveFixed returned %d records, want 2", len(live))
	}
}

func TestAppendFixedReportsFullBucket(t *testing.T) {
	region := make([]byte, layout.MinDataRecord)
	b := At(region, 0)

	const recLen = uint32(layout.MinDataRecord) // deliberately larger than the available space
	if _, ok := b.AppendFixed(recLen); ok {
		t.Fatalf("AppendFixed should fail when no record fits")
	}
}

func TestScanFixedFindsByKey(t *testing.T) {
	region := make([]byte, layout.MinDataRecord)
	b := At(region, 0)

	const recLen = 8
	f, _ := b.AppendFixed(recLen)
	f.SetKey(77)

	got, _, ok := b.ScanFixed(recLen, 0, 77)
	if !ok {
		t.Fatalf("ScanFixed should find key 77")
	}
	if got.Key() != 77 {
		t.Fatalf("found record has key %d, want 77", got.Key())
	}

	if _, _, ok := b.ScanFixed(recLen, 0, 999); ok {
		t.Fatalf("ScanFixed should not find an absent key")
	}
}

func TestCollNextChain(t *testing.T) {
	region := make([]byte, layout.MinDataRecord*3)
	b0 := At(region, 0)
	b1 := At(region, layout.MinDataRecord)

	if _, ok := b0.Next(); ok {
		t.Fatalf("fresh bucket must have no CollNext")
	}

	b0.SetCollNext(1)
	next, ok := b0.Next()
	if !ok {
		t.Fatalf("expected CollNext to resolve")
	}
	if next.Offset() != b1.Offset() {
		t.Fatalf("Next() offset = %d, want %d", next.Offset(), b1.Offset())
	}
}

func TestVariableRecordView(t *testing.T) {
	region := make([]byte, layout.MinDataRecord)
	b := At(region, 0)

	v := b.VariableRecord()
	v.SetLen(3)
	copy(v.Payload(), []byte("xyz"))
	v.SetKey(5)

	v2 := b.VariableRecord()
	if v2.Key() != 5 || string(v2.Payload()) != "xyz" {
		t.Fatalf("VariableRecord did not round-trip: key=%d payload=%q", v2.Key(), v2.Payload())
	}
}

func TestLockingIsMutuallyExclusive(t *testing.T) {
	region := make([]byte, layout.MinDataRecord)
	b := At(region, 0)

	b.Lock()
	acquired := make(chan struct{})
	go func() {
		b.Lock()
		close(acquired)
		b.Unlock()
	}()

	time.Sleep(20 * time.Millisecond)
	select {
	case <-acquired:
		t.Fatalf("second Lock() should not succeed while the first is held")
	default:
	}
	b.Unlock()
	<-acquired
}
