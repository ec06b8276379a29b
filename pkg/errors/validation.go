package errors

// ValidationError reports a caller-supplied argument that violates an engine
// invariant: a nil Config, a fixed record length that overruns a bucket's
// packing capacity, a zero-sized region, and the like (see
// internal/engine.New and pkg/region.New for where these get built). It
// embeds baseError for the cause/code/message/detail machinery and adds the
// field/rule pair that pinpoints exactly what was wrong and why.
type ValidationError struct {
	*baseError

	// field names the argument or option that failed validation, e.g.
	// "RecordLength" or "options".
	field string

	// rule names the invariant that was violated, e.g. "max_capacity" or
	// "required".
	rule string

	// provided is the value that was actually given.
	provided any

	// expected describes what would have satisfied rule.
	expected any
}

// NewValidationError creates a new validation-specific error with the provided context.
func NewValidationError(err error, code ErrorCode, msg string) *ValidationError {
	return &ValidationError{baseError: NewBaseError(err, code, msg)}
}

// Overrides of baseError's fluent methods, so chaining stays typed as
// *ValidationError instead of decaying to *baseError.

// WithMessage updates the error message while maintaining the ValidationError type.
func (ve *ValidationError) WithMessage(msg string) *ValidationError {
	ve.baseError.WithMessage(msg)
	return ve
}

// WithCode sets the error code while preserving the ValidationError type.
func (ve *ValidationError) WithCode(code ErrorCode) *ValidationError {
	ve.baseError.WithCode(code)
	return ve
}

// WithDetail adds contextual information while maintaining the ValidationError type.
func (ve *ValidationError) WithDetail(key string, value any) *ValidationError {
	ve.baseError.WithDetail(key, value)
	return ve
}

// WithField sets which field or argument failed validation.
func (ve *ValidationError) WithField(field string) *ValidationError {
	ve.field = field
	return ve
}

// WithRule specifies which validation rule was violated.
func (ve *ValidationError) WithRule(rule string) *ValidationError {
	ve.rule = rule
	return ve
}

// WithProvided captures the value that was provided and failed validation.
func (ve *ValidationError) WithProvided(value any) *ValidationError {
	ve.provided = value
	return ve
}

// WithExpected describes what would have been a valid value.
func (ve *ValidationError) WithExpected(value any) *ValidationError {
	ve.expected = value
	return ve
}

// Field returns the field or argument name that failed validation.
func (ve *ValidationError) Field() string {
	return ve.field
}

// Rule returns the validation rule that was violated.
func (ve *ValidationError) Rule() string {
	return ve.rule
}

// Provided returns the value that was provided and failed validation.
func (ve *ValidationError) Provided() any {
	return ve.provided
}

// Expected returns what would have been a valid value.
func (ve *ValidationError) Expected() any {
	return ve.expected
}
