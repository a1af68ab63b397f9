package backend

import "errors"

var (
	// ErrNotFound is returned when a remote file id does not exist.
	ErrNotFound = errors.New("backend: file not found")
	// ErrNotSupported is returned by mutating operations on read-only
	// backends. Distinct from ErrNotImplemented: the variant exists and
	// deliberately refuses the operation.
	ErrNotSupported = errors.New("backend: operation not supported")
	// ErrNotImplemented is returned by every operation of a declared but
	// unbuilt backend kind.
	ErrNotImplemented = errors.New("backend: not implemented")
	// ErrAccessDenied is returned when a path escapes the configured
	// sandbox. Distinct from ErrNotFound so callers can tell a denied
	// path from a missing one.
	ErrAccessDenied = errors.New("backend: access denied")
	// ErrProviderNotFound is returned by the registry for unknown
	// provider ids.
	ErrProviderNotFound = errors.New("backend: provider not found")
	// ErrProviderDisabled is returned by the registry when the provider
	// record exists but is disabled.
	ErrProviderDisabled = errors.New("backend: provider disabled")
)
