package errors

// EngineError is a specialized error type for hash-trie engine operations.
// It embeds baseError to inherit chaining/code/detail support, then adds
// fields that pinpoint exactly where in the region the failure occurred:
// the byte offset in play, and (when known) the node or bucket block index
// involved.
type EngineError struct {
	*baseError
	offset       uint64 // Byte offset within the region where the problem happened.
	nodeOffset   uint32 // Index-node block index involved, if any.
	bucketOffset uint32 // Data-bucket block index involved, if any.
	operation    string // Which engine operation was running: Insert, Lookup, Burst, Extend...
}

// NewEngineError creates a new engine-specific error.
func NewEngineError(err error, code ErrorCode, msg string) *EngineError {
	return &EngineError{baseError: NewBaseError(err, code, msg)}
}

// WithOffset records the byte position within the region where the error occurred.
func (ee *EngineError) WithOffset(offset uint64) *EngineError {
	ee.offset = offset
	return ee
}

// WithNodeOffset captures which index-node block was involved.
func (ee *EngineError) WithNodeOffset(nodeOffset uint32) *EngineError {
	ee.nodeOffset = nodeOffset
	return ee
}

// WithBucketOffset captures which data-bucket block was involved.
func (ee *EngineError) WithBucketOffset(bucketOffset uint32) *EngineError {
	ee.bucketOffset = bucketOffset
	return ee
}

// WithOperation records which engine operation produced the error.
func (ee *EngineError) WithOperation(operation string) *EngineError {
	ee.operation = operation
	return ee
}

// Offset returns the byte offset within the region where the error happened.
func (ee *EngineError) Offset() uint64 { return ee.offset }

// NodeOffset returns the index-node block index associated with the error.
func (ee *EngineError) NodeOffset() uint32 { return ee.nodeOffset }

// BucketOffset returns the data-bucket block index associated with the error.
func (ee *EngineError) BucketOffset() uint32 { return ee.bucketOffset }

// Operation returns the name of the engine operation that failed.
func (ee *EngineError) Operation() string { return ee.operation }
