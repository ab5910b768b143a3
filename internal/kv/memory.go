package kv

import (
	"context"
	"slices"
	"sync"
)

// MemoryStore implements Store in process memory. Used by tests and by dev
// setups that don't care about durability across restarts.
type MemoryStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[string][]byte)}
}

// Load returns the blob stored for the namespace.
func (s *MemoryStore) Load(ctx context.Context, namespace string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	blob, ok := s.blobs[namespace]
	if !ok {
		return nil, ErrNotFound
	}

	return slices.Clone(blob), nil
}

// Save replaces the blob stored for the namespace.
func (s *MemoryStore) Save(ctx context.Context, namespace string, blob []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.blobs[namespace] = slices.Clone(blob)
	return nil
}
