// Package options provides data structures and functions for configuring
// the htrie engine. It defines the parameters that control the backing
// region's size, the extent accounting granularity, and whether the engine
// stores fixed- or variable-length records.
package options

import "go.uber.org/zap"

// Defines the configuration parameters for an htrie engine instance.
// It provides control over the memory region's layout and the record
// shape stored in it.
type Options struct {
	// RegionSize is the total size in bytes of the backing region (spec.md's
	// `S`). Must be a multiple of ExtentSize.
	//
	//  - Default: 64MiB
	//  - Maximum: 128GiB
	RegionSize uint64 `json:"regionSize"`

	// ExtentSize is the granularity the extent bitmap accounts for. Must be
	// a power of two multiple of the 4KiB page size.
	//
	// Default: 2MiB
	ExtentSize uint64 `json:"extentSize"`

	// RecordLength is the fixed payload length in bytes for every record,
	// or zero to select variable-length records (chunked via extend_rec).
	//
	// Default: 0 (variable-length)
	RecordLength uint32 `json:"recordLength"`

	// Logger receives structured logs from the allocator (the only layer
	// that logs). May be left nil; pkg/ignite's Open/OpenRegion then build a
	// service-scoped logger with pkg/logger.New.
	Logger *zap.SugaredLogger `json:"-"`
}

// OptionFunc is a function type that modifies the engine's configuration.
type OptionFunc func(*Options)

// Applies a predefined set of default configuration values to the Options struct.
func WithDefaultOptions() OptionFunc {
	return func(o *Options) {
		opts := NewDefaultOptions()
		o.RegionSize = opts.RegionSize
		o.ExtentSize = opts.ExtentSize
		o.RecordLength = opts.RecordLength
	}
}

// Sets the total size of the backing region. Values outside
// [MinRegionSize, MaxRegionSize] are ignored and the current value is kept,
// matching the teacher's clamp-or-ignore validation idiom for bounded
// fields (WithSegmentSize's precedent).
func WithRegionSize(size uint64) OptionFunc {
	return func(o *Options) {
		if size >= MinRegionSize && size <= MaxRegionSize {
			o.RegionSize = size
		}
	}
}

// Sets the extent accounting granularity. Values that aren't a power of
// two, or that are smaller than MinExtentSize, are ignored.
func WithExtentSize(size uint64) OptionFunc {
	return func(o *Options) {
		if size >= MinExtentSize && size&(size-1) == 0 {
			o.ExtentSize = size
		}
	}
}

// Sets a fixed record length, switching the engine out of its default
// variable-length mode. A zero length is ignored. Any nonzero length is
// stored as given: a length that would make a single record exceed one
// bucket's packing capacity is not clamped here, and the caller gets
// ErrBadArgument from Init instead, since unlike region/extent size there's
// no sensible clamp for "the record almost fits".
func WithFixedRecordLength(length uint32) OptionFunc {
	return func(o *Options) {
		if length > 0 {
			o.RecordLength = length
		}
	}
}

// Sets the logger used by the allocator.
func WithLogger(logger *zap.SugaredLogger) OptionFunc {
	return func(o *Options) {
		if logger != nil {
			o.Logger = logger
		}
	}
}
