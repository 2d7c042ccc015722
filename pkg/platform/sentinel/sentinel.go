// Package sentinel holds infrastructure error values. Stores return them,
// optionally wrapped, and services translate them into domain errors.
//
// Input problems are not sentinels; use pkg/domain-errors for those.
package sentinel

import "errors"

var (
	// ErrNotFound means the record does not exist, or expired out of the store.
	ErrNotFound = errors.New("not found")
	// ErrConflict means a uniqueness constraint rejected the write.
	ErrConflict = errors.New("conflict")
	// ErrInvalidState means the record exists but cannot take the requested change.
	ErrInvalidState = errors.New("invalid state")
	// ErrUnavailable means the backend could not be reached.
	ErrUnavailable = errors.New("unavailable")
)
