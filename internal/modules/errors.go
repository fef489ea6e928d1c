package modules

// Package-level sentinel errors for module discovery operations.
// These enable consistent classification of configuration failures at the CLI boundary.

import "errors"

var (
	// ErrSourceRootUnreadable indicates the configured source root does not exist or cannot be listed.
	ErrSourceRootUnreadable = errors.New("source root unreadable")

	// ErrNoModules indicates no module directories matched the prefix convention.
	// The site would otherwise build with no content, so this is fatal.
	ErrNoModules = errors.New("no module directories found")
)
