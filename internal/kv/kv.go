// Package kv is the durable local-storage collaborator: an opaque blob per
// namespace. The cart store mirrors its full serialized state here on every
// mutation so a session survives process restarts.
package kv

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Load when no blob exists for the namespace.
var ErrNotFound = errors.New("kv: namespace not found")

// Store defines the local persistence contract.
// Implementations can use the filesystem or memory (tests, dev).
type Store interface {
	// Load returns the blob stored under namespace, or ErrNotFound.
	Load(ctx context.Context, namespace string) ([]byte, error)

	// Save stores the blob under namespace, replacing any previous value.
	Save(ctx context.Context, namespace string, blob []byte) error
}

// NewStore creates a Store implementation based on configuration.
// An empty dir selects the in-memory implementation.
func NewStore(dir string) (Store, error) {
	if dir == "" {
		return NewMemoryStore(), nil
	}
	return NewFileStore(dir)
}
