package trie

import (
	"github.com/iamNilotpal/htrie/internal/allocator"
	"github.com/iamNilotpal/htrie/internal/bucket"
	"github.com/iamNilotpal/htrie/internal/header"
	"github.com/iamNilotpal/htrie/internal/layout"
	"github.com/iamNilotpal/htrie/internal/record"
	"github.com/iamNilotpal/htrie/internal/slot"
	htrieErrors "github.com/iamNilotpal/htrie/pkg/errors"
)

// Trie ties together a region, its header, its allocator, and the
// fixed-vs-variable record shape the engine was opened with, exposing the
// handful of operations the public facade needs: lookup, insert, and
// extending a variable-length record's chunk chain.
type Trie struct {
	region []byte
	hdr    *header.Header
	alloc  *allocator.Allocator
	recLen uint32
	root   Node
}

// New builds a Trie rooted at rootOffset.
func New(region []byte, hdr *header.Header, alloc *allocator.Allocator, recLen uint32, rootOffset uint64) *Trie {
	return &Trie{
		region: region,
		hdr:    hdr,
		alloc:  alloc,
		recLen: recLen,
		root:   At(region, rootOffset),
	}
}

// Lookup descends the trie for key and returns the bucket its slot
// addresses, or ok=false if the descent ends at an empty slot. ok=true does
// not by itself mean key is stored: the bucket may hold only other keys
// sharing the same digit prefix, so a scan of the bucket decides. The
// descent is entirely lock-free: every slot read is a single atomic load.
func (t *Trie) Lookup(key uint64) (bucket.Bucket, bool) {
	n := t.root
	for depth := 0; depth < layout.MaxDepth; depth++ {
		s := n.Slot(digit(key, depth))
		switch {
		case s.IsEmpty():
			return bucket.Bucket{}, false
		case s.IsData():
			return bucket.At(t.region, s.DataOffset()), true
		default:
			n = At(t.region, s.NodeOffset())
		}
	}
	return bucket.Bucket{}, false
}

// Insert stores data under key, returning a view over the record that now
// holds it. For variable-length engines, length bounds the payload and
// receives the stored payload length (which may be smaller than len(data)
// if the caller is bounding a larger buffer). For fixed-length engines it is
// not read as a bound; it receives the number of bytes copied into the
// record, min(len(data), recLen).
func (t *Trie) Insert(key uint64, data []byte, length *int) (record.Record, error) {
	return t.insertAt(t.root, 0, key, data, length)
}

func (t *Trie) insertAt(n Node, depth int, key uint64, data []byte, length *int) (record.Record, error) {
	d := digit(key, depth)
	s := n.Slot(d)

	switch {
	case s.IsEmpty():
		b, rec, err := t.newBucketWithRecord(key, data, length)
		if err != nil {
			return nil, err
		}
		newSlot := slot.DataSlot(bucket.DataIndex(b.Offset()))
		if n.CompareAndSwapSlot(d, s, newSlot) {
			return rec, nil
		}
		// Lost the race to publish; someone else's bucket is there now.
		return t.insertAt(n, depth, key, data, length)

	case s.IsIndex():
		child := At(t.region, s.NodeOffset())
		return t.insertAt(child, depth+1, key, data, length)

	default: // data
		b := bucket.At(t.region, s.DataOffset())
		if rec, ok := t.tryPackAppend(b, key, data, length); ok {
			return rec, nil
		}

		if layout.Resolved(depth + 1) {
			return t.chainNewBucket(b, key, data, length)
		}

		newNode, err := t.burstSlot(b, depth+1)
		if err != nil {
			return nil, err
		}
		newSlot := slot.IndexSlot(bucket.NodeIndex(newNode.Offset()))
		if n.CompareAndSwapSlot(d, s, newSlot) {
			return t.insertAt(newNode, depth+1, key, data, length)
		}
		// Someone else already burst this slot; retry against whatever is
		// there now (could be a different, newer index node).
		return t.insertAt(n, depth, key, data, length)
	}
}

// tryPackAppend attempts to write a new record into b's existing trailing
// space without allocating a new bucket. Only fixed-record buckets can ever
// succeed here: a variable bucket always holds exactly one record.
func (t *Trie) tryPackAppend(b bucket.Bucket, key uint64, data []byte, length *int) (record.Record, bool) {
	if t.recLen == 0 {
		return nil, false
	}
	b.Lock()
	defer b.Unlock()
	f, ok := b.AppendFixed(t.recLen)
	if !ok {
		return nil, false
	}
	n := copy(f.Payload(), data)
	if length != nil {
		*length = n
	}
	f.SetKey(key)
	return f, true
}

// newBucketWithRecord allocates a fresh bucket and writes the record's
// payload and key into it, key last. The bucket is not yet reachable from
// the trie while it is written; the caller publishes it afterwards.
func (t *Trie) newBucketWithRecord(key uint64, data []byte, length *int) (bucket.Bucket, record.Record, error) {
	if t.recLen != 0 {
		off, err := t.alloc.AllocDataBlock(layout.MinDataRecord)
		if err != nil {
			return bucket.Bucket{}, nil, err
		}
		b := bucket.At(t.region, off)
		f, ok := b.AppendFixed(t.recLen)
		if !ok {
			return bucket.Bucket{}, nil, htrieErrors.NewEngineError(
				htrieErrors.ErrBadArgument, htrieErrors.ErrorCodeBadArgument, "fixed record does not fit a data block",
			).WithOperation("trie.newBucketWithRecord")
		}
		n := copy(f.Payload(), data)
		if length != nil {
			*length = n
		}
		f.SetKey(key)
		return b, f, nil
	}

	payloadLen := len(data)
	if length != nil && *length >= 0 && *length < payloadLen {
		payloadLen = *length
	}
	need := bucket.HeaderSize + record.VariableSize(uint32(payloadLen))
	off, err := t.alloc.AllocDataBlock(need)
	if err != nil {
		return bucket.Bucket{}, nil, err
	}
	b := bucket.At(t.region, off)
	v := b.VariableRecord()
	v.SetLen(uint32(payloadLen))
	copy(v.Payload(), data[:payloadLen])
	v.SetKey(key)
	if length != nil {
		*length = payloadLen
	}
	return b, v, nil
}

// chainNewBucket allocates a fresh bucket and links it to the tail of
// head's collision chain, using acquire-next-before-release-current
// hand-off locking so the chain is never observably broken mid-walk.
func (t *Trie) chainNewBucket(head bucket.Bucket, key uint64, data []byte, length *int) (record.Record, error) {
	newB, rec, err := t.newBucketWithRecord(key, data, length)
	if err != nil {
		return nil, err
	}

	tail := head
	tail.Lock()
	for {
		cn := tail.CollNext()
		if cn == 0 {
			tail.SetCollNext(bucket.DataIndex(newB.Offset()))
			tail.Unlock()
			return rec, nil
		}
		next := bucket.At(t.region, uint64(cn)*layout.MinDataRecord)
		next.Lock()
		tail.Unlock()
		tail = next
	}
}

// ExtendRecord appends a new chunk of n bytes to a variable-length record's
// chunk_next chain, returning a view over the new tail chunk. The chunk's
// length is already set to n; the caller writes the payload into the
// returned chunk's Payload() slice (and may lower the length with SetLen if
// it writes less). Allocation happens before the chain is linked, so a
// failure here leaves the existing chain untouched.
func (t *Trie) ExtendRecord(head record.Variable, n int) (record.Variable, error) {
	if t.recLen != 0 {
		return record.Variable{}, htrieErrors.NewValidationError(
			htrieErrors.ErrBadArgument, htrieErrors.ErrorCodeBadArgument, "extend_rec is only valid for variable-length engines",
		).WithField("recLen").WithRule("variable_length")
	}

	tail := head
	for {
		cn := tail.ChunkNext()
		if cn == 0 {
			break
		}
		tail = record.NewVariable(t.region, uint64(cn)*layout.MinDataRecord)
	}

	chunkSize := layout.Align8(uint64(record.VariableHeaderSize) + uint64(n))
	off, err := t.alloc.AllocDataBlock(chunkSize)
	if err != nil {
		return record.Variable{}, err
	}
	newChunk := record.NewVariable(t.region, off)
	newChunk.SetLen(uint32(n))
	tail.SetChunkNext(bucket.DataIndex(off))
	return newChunk, nil
}
