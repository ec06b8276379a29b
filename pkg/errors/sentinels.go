package errors

import stdErrors "errors"

// Sentinel values for the three failure modes spec.md's error handling
// design names explicitly. Callers compare with errors.Is; the concrete
// error returned up the stack is always an *EngineError or *ValidationError
// wrapping one of these as its cause, so both errors.Is and GetErrorCode
// work on the same value.
var (
	// ErrOutOfSpace is returned when an allocation would exceed the
	// region's capacity (nwb + size > dbsz).
	ErrOutOfSpace = stdErrors.New("htrie: out of space")

	// ErrCorruptHeader is returned when a region's magic is present but
	// doesn't match, or the stored layout disagrees with the caller's
	// arguments.
	ErrCorruptHeader = stdErrors.New("htrie: corrupt header")

	// ErrBadArgument is returned when a caller-supplied argument violates
	// an engine invariant.
	ErrBadArgument = stdErrors.New("htrie: bad argument")
)
