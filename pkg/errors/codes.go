package errors

// ErrorCode represents a standardized way to categorize different types of errors.
type ErrorCode string

// Base error codes represent the fundamental categories of failures that can
// occur across any software system. These codes provide the foundation layer
// of error classification.
const (
	// ErrorCodeIO represents failures in input/output operations across any
	// system boundary, including the backing region provider.
	ErrorCodeIO ErrorCode = "IO_ERROR"

	// ErrorCodeInvalidInput represents client-side errors where the provided
	// data doesn't meet the system's requirements or constraints. This maps
	// to HTTP 400-series errors and indicates problems with the request itself
	// rather than system failures.
	ErrorCodeInvalidInput ErrorCode = "INVALID_INPUT"

	// ErrorCodeInternal represents unexpected system failures that don't fit
	// into other categories: bugs, assertion failures, or invariant breaks
	// that shouldn't occur during normal operation.
	ErrorCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// Engine-specific error codes cover the failure modes of the hash-trie
// engine itself: exhausted region space, a header that doesn't match the
// expected on-disk layout, malformed call arguments, and a burst that could
// not complete.
const (
	// ErrorCodeOutOfSpace indicates the backing region has no room left for
	// the requested allocation; nwb plus the requested size would exceed
	// dbsz. This is a normal, expected terminal condition, not a bug.
	ErrorCodeOutOfSpace ErrorCode = "OUT_OF_SPACE"

	// ErrorCodeCorruptHeader indicates the region's magic value is present
	// but doesn't match, or the header fields are inconsistent with the
	// region size/record length the caller asked to open with.
	ErrorCodeCorruptHeader ErrorCode = "CORRUPT_HEADER"

	// ErrorCodeBadArgument indicates a caller-supplied argument violates an
	// engine invariant: misaligned region, oversized fixed record length,
	// zero-length region, extending a fixed-length record, and so on.
	ErrorCodeBadArgument ErrorCode = "BAD_ARGUMENT"

	// ErrorCodeBurstFailed indicates a node split could not complete,
	// typically because the allocator ran out of space mid-burst.
	ErrorCodeBurstFailed ErrorCode = "BURST_FAILED"
)
