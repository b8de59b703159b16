// Package storage defines the error contract shared by all persistence
// backends. Stores classify their failures into these sentinels so callers
// can distinguish "record does not exist" from "backend is unreachable"
// without knowing which backend is configured.
package storage

import "errors"

var (
	// ErrNotFound is returned when the requested record does not exist
	// or has already expired. Callers must treat it as an expected
	// condition, not a system failure.
	ErrNotFound = errors.New("record not found")

	// ErrUnavailable is returned when the backend cannot be reached or
	// fails mid-operation. It is never downgraded to ErrNotFound.
	ErrUnavailable = errors.New("storage unavailable")
)

// IsNotFound reports whether err indicates a missing or expired record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsUnavailable reports whether err indicates a backend connectivity failure.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}
