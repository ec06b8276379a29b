package slot

import "testing"

func TestEmptySlot(t *testing.T) {
	var s Slot
	if !s.IsEmpty() {
		t.Fatalf("zero Slot should be empty")
	}
	if s.IsData() || s.IsIndex() {
		t.Fatalf("zero Slot should be neither data nor index")
	}
}

func TestDataSlotRoundTrip(t *testing.T) {
	s := DataSlot(12345)
	if !s.IsData() {
		t.Fatalf("DataSlot should report IsData")
	}
	if s.IsIndex() {
		t.Fatalf("DataSlot should not report IsIndex")
	}
	if got, want := s.DataOffset(), uint64(12345)*128; got != want {
		t.Fatalf("DataOffset() = %d, want %d", got, want)
	}
}

func TestIndexSlotRoundTrip(t *testing.T) {
	s := IndexSlot(42)
	if !s.IsIndex() {
		t.Fatalf("IndexSlot should report IsIndex")
	}
	if s.IsData() {
		t.Fatalf("IndexSlot should not report IsData")
	}
	if got, want := s.NodeOffset(), uint64(42)*64; got != want {
		t.Fatalf("NodeOffset() = %d, want %d", got, want)
	}
}

func TestDataAndIndexSlotsNeverCollide(t *testing.T) {
	d := DataSlot(7)
	i := IndexSlot(7)
	if d == i {
		t.Fatalf("data and index slots with the same block index must differ (DBIT)")
	}
}
