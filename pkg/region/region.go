// Package region is the backing-byte-region provider spec.md's External
// Collaborators list puts out of scope as a *required* dependency: callers
// remain free to hand the engine any []byte of the right size and
// alignment (a file-backed mmap they manage themselves, a plain heap slice
// for tests, shared memory from some other IPC layer). This package is the
// small, swappable convenience that lets the module be driven end-to-end
// without requiring every caller to write their own arena setup: it
// anonymously mmaps a zero-filled region of the requested size via
// golang.org/x/sys/unix, the same mmap/MAP_ANON pattern used across the
// retrieval pack for arena-style allocators.
package region

import (
	"golang.org/x/sys/unix"

	htrieErrors "github.com/iamNilotpal/htrie/pkg/errors"
)

// Region is a zero-initialized, page-aligned byte slice backing one engine
// instance, plus the bookkeeping needed to unmap it cleanly.
type Region struct {
	bytes []byte
}

// New anonymously mmaps size bytes with MAP_ANON|MAP_SHARED, matching the
// mmap-then-bump-allocate shape used by the arena allocators in the
// retrieval pack. The returned memory is zero-filled by the kernel, which
// is the precondition internal/header.Init relies on for a fresh database.
func New(size uint64) (*Region, error) {
	if size == 0 {
		return nil, htrieErrors.NewValidationError(
			htrieErrors.ErrBadArgument, htrieErrors.ErrorCodeBadArgument, "region size must be non-zero",
		).WithField("size").WithRule("non_zero")
	}

	b, err := unix.Mmap(-1, 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_SHARED)
	if err != nil {
		return nil, htrieErrors.NewEngineError(err, htrieErrors.ErrorCodeIO, "anonymous mmap failed").
			WithOperation("region.New")
	}
	return &Region{bytes: b}, nil
}

// Bytes returns the backing slice to pass to internal/header.Init.
func (r *Region) Bytes() []byte { return r.bytes }

// Close unmaps the region. Safe to call once; subsequent calls are no-ops.
func (r *Region) Close() error {
	if r.bytes == nil {
		return nil
	}
	err := unix.Munmap(r.bytes)
	r.bytes = nil
	if err != nil {
		return htrieErrors.NewEngineError(err, htrieErrors.ErrorCodeIO, "munmap failed").WithOperation("region.Close")
	}
	return nil
}
