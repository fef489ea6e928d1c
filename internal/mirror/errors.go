package mirror

// Package-level sentinel errors for mirror operations.

import "errors"

var (
	// ErrStaleRemovalFailed indicates a pre-existing destination entry could not be removed.
	ErrStaleRemovalFailed = errors.New("stale destination removal failed")

	// ErrCopyFailed indicates the recursive content copy aborted on a read or write error.
	ErrCopyFailed = errors.New("content copy failed")
)
