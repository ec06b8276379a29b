package trie

import (
	"github.com/iamNilotpal/htrie/internal/bucket"
	"github.com/iamNilotpal/htrie/internal/layout"
	"github.com/iamNilotpal/htrie/internal/record"
	"github.com/iamNilotpal/htrie/internal/slot"
)

// burstSlot replaces an overflowing bucket chain with a fresh index node at
// newDepth, redistributing every live record from the old chain into the
// new node (and, transitively, into fresh sub-buckets of its own). The new
// node is built entirely off to the side — nothing reachable from the trie
// yet — so redistribute/placeInNode need no locking among themselves; the
// only lock taken here is a read lock on each old bucket while its live
// records are copied out, released as soon as that bucket's records are
// read and before the next bucket in the chain is locked (unlike a normal
// scan, the two locks never overlap). A record appended to an old bucket concurrently with this copy,
// after its snapshot but before the caller's CAS publishes the new node,
// can be lost if that CAS wins the race; this is the same window the
// original design's own single-pass burst leaves open, not a correctness
// regression introduced here.
func (t *Trie) burstSlot(head bucket.Bucket, newDepth int) (Node, error) {
	nodeOff, err := t.alloc.AllocIndexBlock()
	if err != nil {
		return Node{}, err
	}
	newNode := At(t.region, nodeOff)

	cur := head
	for {
		cur.RLock()
		if err := t.redistribute(newNode, newDepth, cur); err != nil {
			cur.RUnlock()
			return Node{}, err
		}
		cn := cur.CollNext()
		cur.RUnlock()
		if cn == 0 {
			break
		}
		cur = bucket.At(t.region, uint64(cn)*layout.MinDataRecord)
	}

	return newNode, nil
}

// redistribute copies every live record in src into dst, the node being
// built for the next trie depth.
func (t *Trie) redistribute(dst Node, depth int, src bucket.Bucket) error {
	if t.recLen != 0 {
		for _, f := range src.LiveFixed(t.recLen) {
			if err := t.placeInNode(dst, depth, f.Key(), f); err != nil {
				return err
			}
		}
		return nil
	}

	v := src.VariableRecord()
	if v.Live() {
		return t.placeInNode(dst, depth, v.Key(), v)
	}
	return nil
}

// placeInNode writes rec's payload into a fresh sub-bucket of dst at the
// fan-out index key resolves to at depth, packing it alongside an existing
// sub-bucket's trailing space when possible, or chaining a new bucket
// otherwise. dst is not yet published, so every slot touch here is a plain
// load/store — no CAS, no lock, no concurrent reader can observe it.
func (t *Trie) placeInNode(dst Node, depth int, key uint64, rec record.Record) error {
	d := digit(key, depth)
	s := dst.Slot(d)

	if s.IsEmpty() {
		b, err := t.copyIntoFreshBucket(key, rec)
		if err != nil {
			return err
		}
		dst.SetSlotRaw(d, slot.DataSlot(bucket.DataIndex(b.Offset())))
		return nil
	}

	// s.IsData(): append to the existing sub-bucket, or chain a new one.
	b := bucket.At(t.region, s.DataOffset())
	if t.recLen != 0 {
		f, ok := b.AppendFixed(t.recLen)
		if ok {
			fr := rec.(record.Fixed)
			copy(f.Payload(), fr.Payload())
			f.SetKey(fr.Key())
			return nil
		}
	}

	tail := b
	for {
		cn := tail.CollNext()
		if cn == 0 {
			break
		}
		tail = bucket.At(t.region, uint64(cn)*layout.MinDataRecord)
	}
	newB, err := t.copyIntoFreshBucket(key, rec)
	if err != nil {
		return err
	}
	tail.SetCollNext(bucket.DataIndex(newB.Offset()))
	return nil
}

// copyIntoFreshBucket allocates a new bucket and copies rec's payload into
// it verbatim, used while building a not-yet-published node during burst.
func (t *Trie) copyIntoFreshBucket(key uint64, rec record.Record) (bucket.Bucket, error) {
	if t.recLen != 0 {
		fr := rec.(record.Fixed)
		off, err := t.alloc.AllocDataBlock(layout.MinDataRecord)
		if err != nil {
			return bucket.Bucket{}, err
		}
		b := bucket.At(t.region, off)
		f, _ := b.AppendFixed(t.recLen)
		copy(f.Payload(), fr.Payload())
		f.SetKey(fr.Key())
		return b, nil
	}

	vr := rec.(record.Variable)
	need := bucket.HeaderSize + record.VariableSize(vr.Len())
	off, err := t.alloc.AllocDataBlock(need)
	if err != nil {
		return bucket.Bucket{}, err
	}
	b := bucket.At(t.region, off)
	v := b.VariableRecord()
	v.SetLen(vr.Len())
	copy(v.Payload(), vr.Payload())
	v.SetChunkNext(vr.ChunkNext())
	v.SetKey(key)
	return b, nil
}
