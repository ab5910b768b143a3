package cart

import (
	"context"
	"log/slog"
	"sync"

	"github.com/corinapavel/atelier/internal/kv"
	"github.com/corinapavel/atelier/internal/telemetry"
)

// Manager hands out one Store per session. The store is the only resource
// shared across views (header badge, cart page, checkout), so every view
// resolves it here and mutates only through the operations API.
type Manager struct {
	mu        sync.Mutex
	stores    map[string]*Store
	kv        kv.Store
	surcharge float64
	logger    *slog.Logger
	metrics   *telemetry.Metrics
}

// NewManager creates a session cart manager over the given local store.
func NewManager(kvs kv.Store, surcharge float64, logger *slog.Logger, metrics *telemetry.Metrics) *Manager {
	return &Manager{
		stores:    make(map[string]*Store),
		kv:        kvs,
		surcharge: surcharge,
		logger:    logger,
		metrics:   metrics,
	}
}

// ForSession returns the session's cart store, loading it from durable
// local storage on first access.
func (m *Manager) ForSession(ctx context.Context, sessionID string) *Store {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.stores[sessionID]; ok {
		return s
	}

	s := Open(ctx, m.kv, "cart:"+sessionID, m.surcharge, m.logger, m.metrics)
	m.stores[sessionID] = s
	return s
}
