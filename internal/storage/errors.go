package storage

import "errors"

// Storage errors for append-only snapshot stores.
var (
	// ErrNotFound is returned when no snapshot exists for a token.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateKey is returned when a snapshot for the same
	// (token_address, snapshot_time) already exists. Snapshots are never updated.
	ErrDuplicateKey = errors.New("duplicate key: append-only store does not allow updates")

	// ErrInvalidInput is returned when input validation fails.
	ErrInvalidInput = errors.New("invalid input")
)
