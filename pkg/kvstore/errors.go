package kvstore

import "errors"

var (
	// ErrNotFound indicates the requested key does not exist
	ErrNotFound = errors.New("kvstore.not_found")

	// ErrCorrupted indicates the backing store is damaged beyond a single
	// failed operation
	ErrCorrupted = errors.New("kvstore.corrupted")

	// ErrUnavailable indicates the store cannot be reached right now
	ErrUnavailable = errors.New("kvstore.unavailable")

	// ErrClosed indicates an operation on a closed store
	ErrClosed = errors.New("kvstore.closed")
)
