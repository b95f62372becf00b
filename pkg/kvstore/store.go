package kvstore

import (
	"context"
	"errors"
	"strings"
)

// Store defines the persistence contract consumed by the credential vault.
// Implementations must be safe for concurrent use.
type Store interface {
	// Get retrieves the value stored under key. Returns ErrNotFound if the
	// key does not exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, overwriting any existing value.
	Set(ctx context.Context, key string, value []byte) error

	// Remove deletes key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error

	// RemoveAll deletes every key in keys, continuing past missing ones.
	RemoveAll(ctx context.Context, keys []string) error

	// ListKeys returns all keys currently present in the store.
	ListKeys(ctx context.Context) ([]string, error)
}

// Clearer is an optional interface for stores that can wipe themselves in
// one operation. The vault's recovery ladder prefers it over enumerating
// keys on a store that may already be failing.
type Clearer interface {
	Clear(ctx context.Context) error
}

// corruptionSignatures are substrings observed in device-store failures
// that indicate the store itself (not a single operation) is broken.
var corruptionSignatures = []string{
	"checksum",
	"manifest",
	"malformed",
	"row too big",
	"database or disk is full",
	"i/o error",
	"not a valid database",
}

// IsCorruption reports whether err carries a corruption signature, either
// as the ErrCorrupted sentinel or as a backend error whose text matches
// the known signature set.
func IsCorruption(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrCorrupted) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, sig := range corruptionSignatures {
		if strings.Contains(msg, sig) {
			return true
		}
	}
	return false
}
