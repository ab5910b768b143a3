package records

import (
	"context"
	"maps"
	"sync"

	"github.com/corinapavel/atelier/internal/domain"
	"github.com/google/uuid"
)

// MemoryStore implements domain.RecordStore in process memory. Used by tests
// and by dev setups without a database.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]domain.Record
	order       map[string][]string
}

// NewMemoryStore creates an empty in-memory record store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: make(map[string]map[string]domain.Record),
		order:       make(map[string][]string),
	}
}

// Seed writes a document without going through Create, for test fixtures.
func (s *MemoryStore) Seed(collection, key string, fields domain.Record) {
	_ = s.Write(context.Background(), collection, key, fields)
}

// Fetch retrieves one document by collection and key.
func (s *MemoryStore) Fetch(ctx context.Context, collection, key string) (domain.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.collections[collection][key]
	if !ok {
		return nil, domain.NotFound("records.fetch", collection, key)
	}

	out := maps.Clone(rec)
	out["id"] = key
	return out, nil
}

// Write creates or replaces the document at collection/key.
func (s *MemoryStore) Write(ctx context.Context, collection, key string, fields domain.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.collections[collection] == nil {
		s.collections[collection] = make(map[string]domain.Record)
	}
	if _, exists := s.collections[collection][key]; !exists {
		s.order[collection] = append(s.order[collection], key)
	}
	s.collections[collection][key] = maps.Clone(fields)

	return nil
}

// Create inserts a new document with a generated key and returns it.
func (s *MemoryStore) Create(ctx context.Context, collection string, fields domain.Record) (string, error) {
	key := uuid.NewString()
	if err := s.Write(ctx, collection, key, fields); err != nil {
		return "", err
	}
	return key, nil
}

// List returns all documents in a collection in insertion order.
func (s *MemoryStore) List(ctx context.Context, collection string) ([]domain.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := s.order[collection]
	out := make([]domain.Record, 0, len(keys))
	for _, key := range keys {
		rec := maps.Clone(s.collections[collection][key])
		rec["id"] = key
		out = append(out, rec)
	}

	return out, nil
}
