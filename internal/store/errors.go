package store

import "errors"

// Sentinel errors.
var (
	// ErrCorrupt is returned when the stored bag cannot be decoded.
	ErrCorrupt = errors.New("stored settings are corrupt")

	// ErrClosed is returned by a store used after Close.
	ErrClosed = errors.New("store is closed")
)
