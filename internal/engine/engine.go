// Package engine assembles the header, extent bitmap, allocator, and trie
// layers into the handful of operations spec.md §4.6 names: init (done by
// New), insert, lookup, bscan_for_rec/next_rec (exposed through the bucket
// package's Cursor so callers never reach into internal/bucket directly),
// extend_rec, and exit (Close).
package engine

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/iamNilotpal/htrie/internal/allocator"
	"github.com/iamNilotpal/htrie/internal/bitmap"
	"github.com/iamNilotpal/htrie/internal/bucket"
	"github.com/iamNilotpal/htrie/internal/header"
	"github.com/iamNilotpal/htrie/internal/layout"
	"github.com/iamNilotpal/htrie/internal/record"
	"github.com/iamNilotpal/htrie/internal/trie"
	htrieErrors "github.com/iamNilotpal/htrie/pkg/errors"
	"github.com/iamNilotpal/htrie/pkg/options"
)

// ErrEngineClosed is returned when attempting to perform operations on a
// closed engine.
var ErrEngineClosed = htrieErrors.NewEngineError(
	nil, htrieErrors.ErrorCodeInvalidInput, "operation failed: cannot access closed engine",
).WithOperation("engine")

// Engine is the central coordinator wiring a caller-supplied backing region
// to the header/bitmap/allocator/trie subsystems. It does not own the
// region's lifecycle (mmap, file, or plain heap slice) — the caller opened
// it and is responsible for closing it once the Engine itself is closed.
type Engine struct {
	options *options.Options
	log     *zap.SugaredLogger
	closed  atomic.Bool

	region []byte
	hdr    *header.Header
	bmp    *bitmap.Bitmap
	alloc  *allocator.Allocator
	trie   *trie.Trie
}

// Config holds everything needed to initialize an Engine.
type Config struct {
	// Region is the backing byte slice, typically from pkg/region.New, an
	// os.File mmap the caller manages itself, or (in tests) a plain
	// make([]byte, n). Its length must already be a multiple of
	// Options.ExtentSize.
	Region  []byte
	Options *options.Options
	Logger  *zap.SugaredLogger
}

// New validates config and initializes (or recovers) the region's header,
// implementing spec.md's `init(ptr, size, rec_len)`.
func New(_ context.Context, config *Config) (*Engine, error) {
	if config == nil || config.Options == nil {
		return nil, htrieErrors.NewValidationError(
			htrieErrors.ErrBadArgument, htrieErrors.ErrorCodeBadArgument, "options must be provided",
		).WithField("options").WithRule("required")
	}

	log := config.Logger
	if log == nil {
		log = config.Options.Logger
	}

	if recLen := config.Options.RecordLength; recLen != 0 {
		if record.FixedSize(recLen) > layout.MinDataRecord-bucket.HeaderSize {
			return nil, htrieErrors.NewValidationError(
				htrieErrors.ErrBadArgument, htrieErrors.ErrorCodeBadArgument,
				"fixed record length exceeds a bucket's packing capacity",
			).WithField("RecordLength").WithRule("max_capacity").
				WithProvided(recLen).WithExpected(layout.MinDataRecord - bucket.HeaderSize - record.FixedHeaderSize)
		}
	}

	hdr, rootOffset, err := header.Init(config.Region, config.Options.RecordLength, config.Options.ExtentSize)
	if err != nil {
		return nil, err
	}

	bmp := bitmap.Over(hdr.BitmapWords())
	alloc := allocator.New(config.Region, hdr, bmp, log)
	tr := trie.New(config.Region, hdr, alloc, config.Options.RecordLength, rootOffset)

	return &Engine{
		options: config.Options,
		log:     log,
		region:  config.Region,
		hdr:     hdr,
		bmp:     bmp,
		alloc:   alloc,
		trie:    tr,
	}, nil
}

func (e *Engine) checkOpen() error {
	if e.closed.Load() {
		return ErrEngineClosed
	}
	return nil
}

// RecordLength returns the fixed payload length this engine was opened
// with, or 0 for variable-length records.
func (e *Engine) RecordLength() uint32 { return e.options.RecordLength }

// Region exposes the backing byte slice, needed by callers reconstructing
// a full variable-length value from a chunk chain.
func (e *Engine) Region() []byte { return e.region }

// Insert implements `insert(key, data, &len)`: traverse, then append or
// burst as needed. length, if non-nil, is both an upper bound on the bytes
// to store (for variable-length engines) and an out-parameter receiving
// the number actually stored.
func (e *Engine) Insert(key uint64, data []byte, length *int) (record.Record, error) {
	if err := e.checkOpen(); err != nil {
		return nil, err
	}
	return e.trie.Insert(key, data, length)
}

// Lookup implements `lookup(key) → bucket`: a pure read traversal.
func (e *Engine) Lookup(key uint64) (bucket.Bucket, bool) {
	if e.closed.Load() {
		return bucket.Bucket{}, false
	}
	return e.trie.Lookup(key)
}

// ScanForRecord implements `bscan_for_rec(&bucket, key)`.
func (e *Engine) ScanForRecord(b bucket.Bucket, key uint64) (bucket.Cursor, bool) {
	if e.closed.Load() {
		return bucket.Cursor{}, false
	}
	return bucket.ScanForRecord(e.options.RecordLength, b, key)
}

// NextRecord implements `next_rec(rec, &bucket, key)`.
func (e *Engine) NextRecord(cur bucket.Cursor, key uint64) (bucket.Cursor, bool) {
	if e.closed.Load() {
		return bucket.Cursor{}, false
	}
	return bucket.NextRecord(e.options.RecordLength, cur, key)
}

// ExtendRecord implements `extend_rec(rec, n)`.
func (e *Engine) ExtendRecord(head record.Variable, n int) (record.Variable, error) {
	if err := e.checkOpen(); err != nil {
		return record.Variable{}, err
	}
	return e.trie.ExtendRecord(head, n)
}

// Close implements `exit(handle)`: there is no persistence work beyond
// ensuring prior writes are visible, which Go's memory model already
// guarantees through the atomic operations every write path used; Close
// only needs to make the engine stop accepting new operations.
func (e *Engine) Close() error {
	if !e.closed.CompareAndSwap(false, true) {
		return ErrEngineClosed
	}
	return nil
}
