package record

import "testing"

func TestFixedLivenessAndRoundTrip(t *testing.T) {
	region := make([]byte, 256)
	f := NewFixed(region, 0, 16)

	if f.Live() {
		t.Fatalf("a freshly zeroed fixed record must not be live")
	}

	copy(f.Payload(), []byte("0123456789ABCDEF"))
	if !f.Live() {
		t.Fatalf("record with a nonzero payload word must be live")
	}

	f.SetKey(0xDEADBEEF)
	if !f.Live() {
		t.Fatalf("record with a nonzero key must be live")
	}
	if got := f.Key(); got != 0xDEADBEEF {
		t.Fatalf("Key() = %#x, want %#x", got, 0xDEADBEEF)
	}
	if string(f.Payload()) != "0123456789ABCDEF" {
		t.Fatalf("Payload() = %q", f.Payload())
	}
}

func TestFixedSizeIs8ByteAligned(t *testing.T) {
	if got, want := FixedSize(3), uint64(16); got != want {
		t.Fatalf("FixedSize(3) = %d, want %d", got, want)
	}
	if got, want := FixedSize(8), uint64(16); got != want {
		t.Fatalf("FixedSize(8) = %d, want %d", got, want)
	}
}

func TestVariableLifecycle(t *testing.T) {
	region := make([]byte, 256)
	v := NewVariable(region, 0)

	if v.Live() {
		t.Fatalf("a freshly zeroed variable record must not be live")
	}

	v.SetLen(5)
	copy(v.Payload(), []byte("hello"))
	v.SetKey(99)

	if !v.Live() {
		t.Fatalf("variable record with nonzero length must be live")
	}
	if string(v.Payload()) != "hello" {
		t.Fatalf("Payload() = %q", v.Payload())
	}

	v.MarkFreed()
	if v.Live() {
		t.Fatalf("freed variable record must not be live")
	}
	if v.Len() != 5 {
		t.Fatalf("MarkFreed must not alter the stored length, got %d", v.Len())
	}
}

func TestConcatWalksChunkChain(t *testing.T) {
	const mdr = 128
	region := make([]byte, mdr*3)

	head := NewVariable(region, 0)
	head.SetLen(3)
	copy(head.Payload(), []byte("foo"))
	head.SetChunkNext(1)

	mid := NewVariable(region, mdr*1)
	mid.SetLen(3)
	copy(mid.Payload(), []byte("bar"))
	mid.SetChunkNext(2)

	tail := NewVariable(region, mdr*2)
	tail.SetLen(3)
	copy(tail.Payload(), []byte("baz"))

	got := Concat(region, head)
	if string(got) != "foobarbaz" {
		t.Fatalf("Concat = %q, want %q", got, "foobarbaz")
	}
}
