// Package storage persists the shell's last session and URL history in a
// local key-value store.
package storage

import (
	"context"
	"errors"
	"fmt"
)

// Keys used by the shell.
const (
	KeyLastActiveURL = "lastActiveUrl"
	KeyURLHistory    = "urlHistory"
)

// Backend names accepted by Open.
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
)

// Sentinel errors for store operations.
var (
	ErrKeyNotFound = errors.New("key not found")
	ErrLoadFailed  = errors.New("load failed")
	ErrSaveFailed  = errors.New("save failed")
)

// Store is a string-keyed value store. Writes replace the whole value.
type Store interface {
	// Get returns the value for key, or ErrKeyNotFound.
	Get(ctx context.Context, key string) (string, error)
	// Set creates or overwrites key.
	Set(ctx context.Context, key, value string) error
	// Delete removes key. Missing keys are ignored.
	Delete(ctx context.Context, key string) error
	Close() error
}

// Open opens the store for the named backend inside dataDir.
func Open(backend, dataDir string) (Store, error) {
	switch backend {
	case BackendSQLite, "":
		return OpenDB(dataDir)
	case BackendFile:
		return NewFileStore(dataDir)
	default:
		return nil, fmt.Errorf("unknown store backend %q", backend)
	}
}
