// Package cart maintains the per-session line-item collection and keeps it
// durable: every mutation mirrors the full serialized collection to local
// storage. The in-memory state is authoritative for the current session; a
// failed mirror write is logged, never rolled back.
package cart

import (
	"context"
	"encoding/json"
	"log/slog"
	"slices"
	"sync"

	"github.com/corinapavel/atelier/internal/domain"
	"github.com/corinapavel/atelier/internal/kv"
	"github.com/corinapavel/atelier/internal/telemetry"
)

// SchemaVersion tags the persisted cart envelope so future line-item shape
// changes can migrate previously-serialized carts.
const SchemaVersion = 1

type envelope struct {
	Version int               `json:"version"`
	Items   []domain.LineItem `json:"items"`
}

// Store holds one session's ordered line-item collection. It is the sole
// mutator of the collection; all view access goes through its methods.
type Store struct {
	mu        sync.Mutex
	items     []domain.LineItem
	kv        kv.Store
	namespace string
	surcharge float64
	logger    *slog.Logger
	metrics   *telemetry.Metrics
}

// Open loads a session's cart from durable local storage. Malformed or
// unversioned stored data is treated as an empty cart, not a fatal error.
func Open(ctx context.Context, kvs kv.Store, namespace string, surcharge float64, logger *slog.Logger, metrics *telemetry.Metrics) *Store {
	s := &Store{
		kv:        kvs,
		namespace: namespace,
		surcharge: surcharge,
		logger:    logger,
		metrics:   metrics,
	}

	blob, err := kvs.Load(ctx, namespace)
	if err != nil {
		if err != kv.ErrNotFound {
			logger.Warn("failed to load persisted cart, starting empty",
				"namespace", namespace, "error", err)
		}
		return s
	}

	var env envelope
	if err := json.Unmarshal(blob, &env); err != nil {
		logger.Warn("corrupt persisted cart, starting empty",
			"namespace", namespace, "error", err)
		return s
	}
	if env.Version != SchemaVersion {
		logger.Warn("unknown cart schema version, starting empty",
			"namespace", namespace, "version", env.Version)
		return s
	}

	s.items = env.Items
	return s
}

// Add merges a selection into the cart. A selection matching an existing
// identity key increments that line's quantity and refreshes its gift-wrap
// flag; anything else appends a new line with quantity 1. A selection
// without a product ID never mutates the collection.
func (s *Store) Add(ctx context.Context, sel domain.Selection) domain.CartSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sel.ProductID == "" {
		s.logger.Warn("ignoring cart add without product id", "namespace", s.namespace)
		return s.summaryLocked()
	}

	key := sel.Key()
	if i := s.indexOfLocked(key); i >= 0 {
		s.items[i].Quantity++
		s.items[i].GiftWrap = sel.GiftWrap
	} else {
		s.items = append(s.items, domain.LineItem{
			ProductID: sel.ProductID,
			Name:      sel.Name,
			UnitPrice: sel.UnitPrice,
			Variant:   sel.Variant,
			Size:      sel.Size,
			Engraving: sel.Engraving,
			GiftWrap:  sel.GiftWrap,
			Quantity:  1,
		})
	}

	if s.metrics != nil {
		s.metrics.CartItemsAdded.Inc()
	}

	s.persistLocked(ctx)
	return s.summaryLocked()
}

// Decrement reduces the matching line's quantity by 1, removing the line
// when it would reach zero. No-op if no line matches.
func (s *Store) Decrement(ctx context.Context, key domain.ItemKey) domain.CartSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOfLocked(key)
	if i < 0 {
		return s.summaryLocked()
	}

	if s.items[i].Quantity > 1 {
		s.items[i].Quantity--
	} else {
		s.items = slices.Delete(s.items, i, i+1)
	}

	s.persistLocked(ctx)
	return s.summaryLocked()
}

// RemoveCompletely removes the matching line regardless of quantity.
// No-op if no line matches.
func (s *Store) RemoveCompletely(ctx context.Context, key domain.ItemKey) domain.CartSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOfLocked(key)
	if i < 0 {
		return s.summaryLocked()
	}

	s.items = slices.Delete(s.items, i, i+1)

	s.persistLocked(ctx)
	return s.summaryLocked()
}

// SetQuantity sets the matching line's quantity directly. n <= 0 behaves as
// RemoveCompletely. No-op if no line matches.
func (s *Store) SetQuantity(ctx context.Context, key domain.ItemKey, n int) domain.CartSummary {
	if n <= 0 {
		return s.RemoveCompletely(ctx, key)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOfLocked(key)
	if i < 0 {
		return s.summaryLocked()
	}

	s.items[i].Quantity = n

	s.persistLocked(ctx)
	return s.summaryLocked()
}

// Clear empties the collection. Privileged: reachable only through
// domain.CartCommitter, which is handed exclusively to the order composer's
// post-commit step.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil

	if s.metrics != nil {
		s.metrics.CartCleared.Inc()
	}

	s.persistLocked(ctx)
}

// Items returns a copy of the lines in insertion order.
func (s *Store) Items() []domain.LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.items)
}

// ItemCount is the sum of quantities across all lines.
func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.itemCountLocked()
}

// Total is the sum of all line totals, unrounded.
func (s *Store) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.totalLocked()
}

// Summary returns items, total, and item count in one call.
func (s *Store) Summary() domain.CartSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.summaryLocked()
}

func (s *Store) indexOfLocked(key domain.ItemKey) int {
	return slices.IndexFunc(s.items, func(li domain.LineItem) bool {
		return li.Key() == key
	})
}

func (s *Store) itemCountLocked() int {
	var n int
	for _, li := range s.items {
		n += li.Quantity
	}
	return n
}

func (s *Store) totalLocked() float64 {
	var total float64
	for _, li := range s.items {
		total += li.LineTotal(s.surcharge)
	}
	return total
}

func (s *Store) summaryLocked() domain.CartSummary {
	return domain.CartSummary{
		Items:     slices.Clone(s.items),
		Total:     s.totalLocked(),
		ItemCount: s.itemCountLocked(),
	}
}

// persistLocked mirrors the full collection to durable local storage. The
// write is synchronous; a failure is logged and the in-memory mutation
// stands.
func (s *Store) persistLocked(ctx context.Context) {
	blob, err := json.Marshal(envelope{Version: SchemaVersion, Items: s.items})
	if err != nil {
		s.logger.Error("failed to serialize cart", "namespace", s.namespace, "error", err)
		return
	}

	if err := s.kv.Save(ctx, s.namespace, blob); err != nil {
		s.logger.Error("failed to persist cart", "namespace", s.namespace, "error", err)
	}
}
