package errors

// baseError is the error type every htrie error (ValidationError,
// EngineError) embeds. It carries a cause, a code, a message, and a bag of
// structured details — the offset/block-index/operation fields that
// EngineError and ValidationError expose are built on top of this, not
// duplicated by it.
type baseError struct {
	cause   error          // The underlying error that triggered this one, if any.
	message string         // Human-readable description surfaced by Error().
	code    ErrorCode      // Categorizes the failure (see codes.go).
	details map[string]any // Extra context: block indices, stored vs requested values, and so on.
}

// NewBaseError creates a new baseError with the given underlying error and message.
func NewBaseError(err error, code ErrorCode, msg string) *baseError {
	return &baseError{cause: err, code: code, message: msg}
}

// WithMessage replaces the error message.
func (be *baseError) WithMessage(msg string) *baseError {
	be.message = msg
	return be
}

// WithCode replaces the error code.
func (be *baseError) WithCode(code ErrorCode) *baseError {
	be.code = code
	return be
}

// WithDetail attaches one piece of structured context, e.g. the stored vs
// requested record length on a header mismatch. Lazily allocates the
// details map.
func (be *baseError) WithDetail(key string, value any) *baseError {
	if be.details == nil {
		be.details = make(map[string]any)
	}
	be.details[key] = value
	return be
}

// Error implements the error interface.
func (b *baseError) Error() string {
	return b.message
}

// Unwrap exposes the wrapped cause so errors.Is/errors.As can see through it.
func (b *baseError) Unwrap() error {
	return b.cause
}

// Code returns the error code.
func (b *baseError) Code() ErrorCode {
	return b.code
}

// Details returns the structured context attached via WithDetail. The
// returned map is the internal one — callers should treat it as read-only.
func (b *baseError) Details() map[string]any {
	return b.details
}
