// Package errors gives the engine a single, structured error type per
// concern instead of bare sentinel values: a ValidationError for bad
// `Init`/`Open` arguments and an EngineError for everything that can go
// wrong once the region is live (allocator exhaustion, header corruption,
// a burst that couldn't complete). Both embed a baseError that carries a
// wrapped cause, an ErrorCode, and a free-form details map, so the same
// error value supports errors.Is/errors.As chains, programmatic dispatch on
// Code(), and structured logging via Details() all at once.
package errors

import (
	stdErrors "errors"
)

// IsValidationError checks if the given error is a ValidationError or contains one in its error chain.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return stdErrors.As(err, &ve)
}

// IsEngineError determines if an error originated from the hash-trie engine
// itself (allocator, trie, bucket, record layers) as opposed to argument
// validation.
func IsEngineError(err error) bool {
	var ee *EngineError
	return stdErrors.As(err, &ee)
}

// AsValidationError safely extracts a ValidationError from an error chain.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if stdErrors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// AsEngineError safely extracts an EngineError from an error chain, giving
// access to the offset/node/bucket/operation context captured at the
// failure site.
func AsEngineError(err error) (*EngineError, bool) {
	var ee *EngineError
	if stdErrors.As(err, &ee) {
		return ee, true
	}
	return nil, false
}

// GetErrorCode extracts the ErrorCode from any error in the chain that
// implements Code() ErrorCode, falling back to ErrorCodeInternal when none
// is found so callers always get a usable classification.
func GetErrorCode(err error) ErrorCode {
	var ve *ValidationError
	if stdErrors.As(err, &ve) {
		return ve.Code()
	}
	var ee *EngineError
	if stdErrors.As(err, &ee) {
		return ee.Code()
	}
	return ErrorCodeInternal
}

// GetErrorDetails extracts the structured details map from any error in the
// chain that carries one, or nil when none is found.
func GetErrorDetails(err error) map[string]any {
	var ve *ValidationError
	if stdErrors.As(err, &ve) {
		return ve.Details()
	}
	var ee *EngineError
	if stdErrors.As(err, &ee) {
		return ee.Details()
	}
	return nil
}
