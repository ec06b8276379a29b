package bucket

import (
	"testing"

	"github.com/iamNilotpal/htrie/internal/layout"
)

func TestScanForRecordFixedSingleBucket(t *testing.T) {
	region := make([]byte, layout.MinDataRecord)
	b := At(region, 0)

	const recLen = 8
	f, _ := b.AppendFixed(recLen)
	copy(f.Payload(), []byte("12345678"))
	f.SetKey(10)

	cur, ok := ScanForRecord(recLen, b, 10)
	if !ok {
		t.Fatalf("expected to find key 10")
	}
	if cur.Rec.Key() != 10 {
		t.Fatalf("found record key = %d, want 10", cur.Rec.Key())
	}

	if _, ok := ScanForRecord(recLen, b, 999); ok {
		t.Fatalf("should not find an absent key")
	}
}

func TestScanForRecordFollowsCollisionChain(t *testing.T) {
	region := make([]byte, layout.MinDataRecord*2)
	b0 := At(region, 0)
	b1 := At(region, layout.MinDataRecord)
	b0.SetCollNext(1)

	const recLen = 8
	f, _ := b1.AppendFixed(recLen)
	f.SetKey(55)

	cur, ok := ScanForRecord(recLen, b0, 55)
	if !ok {
		t.Fatalf("expected to find key 55 via the collision chain")
	}
	if cur.Bucket.Offset() != b1.Offset() {
		t.Fatalf("found in bucket at %d, want %d", cur.Bucket.Offset(), b1.Offset())
	}
}

func TestNextRecordFindsDuplicateKeysWithinOneBucket(t *testing.T) {
	region := make([]byte, layout.MinDataRecord)
	b := At(region, 0)

	const recLen = 8
	f1, _ := b.AppendFixed(recLen)
	f1.SetKey(3)
	f2, _ := b.AppendFixed(recLen)
	f2.SetKey(3)

	cur, ok := ScanForRecord(recLen, b, 3)
	if !ok {
		t.Fatalf("expected to find first record with key 3")
	}
	cur2, ok := NextRecord(recLen, cur, 3)
	if !ok {
		t.Fatalf("expected NextRecord to find the second record with key 3")
	}
	if cur2.offset == cur.offset {
		t.Fatalf("NextRecord returned the same slot as the first match")
	}

	if _, ok := NextRecord(recLen, cur2, 3); ok {
		t.Fatalf("NextRecord should report exhaustion after the second match")
	}
}

func TestNextRecordFollowsChainForVariableBuckets(t *testing.T) {
	region := make([]byte, layout.MinDataRecord*2)
	b0 := At(region, 0)
	b1 := At(region, layout.MinDataRecord)
	b0.SetCollNext(1)

	v0 := b0.VariableRecord()
	v0.SetLen(1)
	v0.SetKey(9)

	v1 := b1.VariableRecord()
	v1.SetLen(1)
	v1.SetKey(9)

	cur, ok := ScanForRecord(0, b0, 9)
	if !ok {
		t.Fatalf("expected to find first variable record with key 9")
	}
	cur2, ok := NextRecord(0, cur, 9)
	if !ok {
		t.Fatalf("expected to find second variable record via chain")
	}
	if cur2.Bucket.Offset() != b1.Offset() {
		t.Fatalf("second match should be in bucket at %d, got %d", b1.Offset(), cur2.Bucket.Offset())
	}
}

func TestDataIndexAndNodeIndexRoundTrip(t *testing.T) {
	if got := DataIndex(layout.MinDataRecord * 5); got != 5 {
		t.Fatalf("DataIndex = %d, want 5", got)
	}
	if got := NodeIndex(layout.NodeSize * 3); got != 3 {
		t.Fatalf("NodeIndex = %d, want 3", got)
	}
}
