// Package ignite provides the public API surface for the htrie key/value
// engine: an embedded, memory-mapped, concurrent burst hash-trie index over
// a fixed-size byte region, supporting lookup, insertion, collision-chain
// iteration, and variable-length record extension, with concurrent access
// from multiple goroutines.
package ignite

import (
	"context"

	"github.com/iamNilotpal/htrie/internal/bucket"
	"github.com/iamNilotpal/htrie/internal/engine"
	"github.com/iamNilotpal/htrie/internal/record"
	htrieErrors "github.com/iamNilotpal/htrie/pkg/errors"
	"github.com/iamNilotpal/htrie/pkg/logger"
	"github.com/iamNilotpal/htrie/pkg/options"
	"github.com/iamNilotpal/htrie/pkg/region"
)

// Store is an instance of the htrie key/value engine. It encapsulates the
// core engine responsible for index traversal and record storage, plus
// (when Open, rather than OpenRegion, created it) the mmap'd region
// backing it.
type Store struct {
	engine  *engine.Engine
	region  *region.Region // nil when the caller supplied their own backing bytes
	options *options.Options
}

// Open creates and initializes a new Store backed by a freshly mmap'd
// anonymous region sized per the given options (WithRegionSize, default
// 64MiB). The region's lifecycle is owned by the returned Store; Close
// unmaps it.
func Open(ctx context.Context, service string, opts ...options.OptionFunc) (*Store, error) {
	o := options.NewDefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	log := o.Logger
	if log == nil {
		log = logger.New(service)
	}

	reg, err := region.New(o.RegionSize)
	if err != nil {
		return nil, err
	}

	eng, err := engine.New(ctx, &engine.Config{Region: reg.Bytes(), Options: &o, Logger: log})
	if err != nil {
		_ = reg.Close()
		return nil, err
	}

	return &Store{engine: eng, region: reg, options: &o}, nil
}

// OpenRegion initializes a Store over a caller-supplied backing slice
// (already the right size and extent-aligned) instead of having this
// package mmap its own. The caller remains responsible for that slice's
// lifecycle; Close does not touch it.
func OpenRegion(ctx context.Context, service string, data []byte, opts ...options.OptionFunc) (*Store, error) {
	o := options.NewDefaultOptions()
	o.RegionSize = uint64(len(data))
	for _, opt := range opts {
		opt(&o)
	}

	log := o.Logger
	if log == nil {
		log = logger.New(service)
	}

	eng, err := engine.New(ctx, &engine.Config{Region: data, Options: &o, Logger: log})
	if err != nil {
		return nil, err
	}
	return &Store{engine: eng, options: &o}, nil
}

// Record is a handle to one stored record: its key, and (via Value) its
// payload, reconstructed across chunk boundaries for variable-length
// engines. A Record is only valid as long as the Store that produced it
// remains open.
type Record struct {
	store *Store
	rec   record.Record
}

// Key returns the record's 64-bit key.
func (r Record) Key() uint64 { return r.rec.Key() }

// Value returns the record's full payload. For a fixed-length engine this
// is the record's single payload slice; for a variable-length engine it
// concatenates every chunk in the record's chunk_next chain.
func (r Record) Value() []byte {
	if v, ok := r.rec.(record.Variable); ok {
		return record.Concat(r.store.engine.Region(), v)
	}
	return r.rec.(record.Fixed).Payload()
}

// Insert stores data under key, implementing `insert(key, data, &len)`. It
// returns a Record handle and the number of bytes actually stored — for a
// variable-length engine this is always len(data); for a fixed-length
// engine it is min(len(data), the configured record length).
func (s *Store) Insert(key uint64, data []byte) (Record, int, error) {
	length := len(data)
	rec, err := s.engine.Insert(key, data, &length)
	if err != nil {
		return Record{}, 0, err
	}
	return Record{store: s, rec: rec}, length, nil
}

// Lookup implements `lookup(key) → bucket` followed immediately by
// `bscan_for_rec`, the common case of wanting the first matching record
// for key. Use Scan instead when duplicate keys (a collision chain of
// records sharing the same key) must all be visited.
func (s *Store) Lookup(key uint64) (Record, bool) {
	it, ok := s.Scan(key)
	if !ok {
		return Record{}, false
	}
	return it.Record(), true
}

// Iterator walks every record sharing one key across a collision chain,
// implementing `next_rec`'s continuation semantics.
type Iterator struct {
	store *Store
	key   uint64
	cur   bucket.Cursor
	done  bool
}

// Scan implements `bscan_for_rec(&bucket, key)`: it locates the bucket key
// hashes to and returns an Iterator positioned at the first matching
// record, or ok=false if key was never inserted.
func (s *Store) Scan(key uint64) (*Iterator, bool) {
	b, ok := s.engine.Lookup(key)
	if !ok {
		return nil, false
	}
	cur, ok := s.engine.ScanForRecord(b, key)
	if !ok {
		return nil, false
	}
	return &Iterator{store: s, key: key, cur: cur}, true
}

// Record returns the record the iterator currently points at.
func (it *Iterator) Record() Record { return Record{store: it.store, rec: it.cur.Rec} }

// Next advances to the next record sharing the iterator's key, implementing
// `next_rec`. Returns false once the collision chain is exhausted.
func (it *Iterator) Next() bool {
	if it.done {
		return false
	}
	cur, ok := it.store.engine.NextRecord(it.cur, it.key)
	if !ok {
		it.done = true
		return false
	}
	it.cur = cur
	return true
}

// Extend implements `extend_rec(rec, n)`: it allocates and links a new
// chunk of up to n bytes onto a variable-length record's chunk chain.
// Payload must be written into the returned chunk buffer before any other
// goroutine can observe it through Record.Value — extend, like insert,
// assumes a single writer per logical key. Returns ErrBadArgument if rec
// belongs to a fixed-length engine.
func (s *Store) Extend(rec Record, n int) (Record, []byte, error) {
	v, ok := rec.rec.(record.Variable)
	if !ok {
		return Record{}, nil, htrieErrors.NewValidationError(
			htrieErrors.ErrBadArgument, htrieErrors.ErrorCodeBadArgument, "extend is only valid for variable-length records",
		).WithField("rec").WithRule("variable_length")
	}
	chunk, err := s.engine.ExtendRecord(v, n)
	if err != nil {
		return Record{}, nil, err
	}
	return Record{store: s, rec: chunk}, chunk.Payload(), nil
}

// Close gracefully shuts down the Store, releasing the backing region if
// Open (rather than OpenRegion) created it.
func (s *Store) Close() error {
	err := s.engine.Close()
	if s.region != nil {
		if cerr := s.region.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}
