// Package logger constructs the service-scoped *zap.SugaredLogger used
// throughout the engine. It mirrors the construction style the rest of the
// module expects: a single New(service string) entry point producing a
// logger tagged with the service name, suitable for injection into
// engine.Config and on down into the allocator.
package logger

import "go.uber.org/zap"

// New builds a production zap logger scoped to service, falling back to a
// no-op logger if zap's own production config construction fails (should
// not happen with the defaults, but a logging failure must never prevent
// the engine from opening).
func New(service string) *zap.SugaredLogger {
	base, err := zap.NewProduction()
	if err != nil {
		return zap.NewNop().Sugar()
	}
	return base.Sugar().With("service", service)
}

// Nop returns a logger that discards everything, for tests.
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
