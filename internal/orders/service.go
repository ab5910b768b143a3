// Package orders reads committed orders back from the record store and
// applies the only mutations an order permits after creation: the
// processed and delivered flags.
package orders

import (
	"context"
	"encoding/json"
	"time"

	"github.com/corinapavel/atelier/internal/domain"
)

// Service provides access to committed orders.
type Service struct {
	records domain.RecordStore
}

// NewService creates an order service over the record store.
func NewService(records domain.RecordStore) *Service {
	return &Service{records: records}
}

// Get retrieves one order by ID.
func (s *Service) Get(ctx context.Context, id string) (*domain.Order, error) {
	rec, err := s.records.Fetch(ctx, domain.CollectionOrders, id)
	if err != nil {
		return nil, err
	}

	order, err := decodeOrder(rec)
	if err != nil {
		return nil, domain.Internal(err, "orders.get", "failed to decode order")
	}
	order.ID = id

	return order, nil
}

// ForOwner retrieves one order by ID, scoped to its owner. Another user's
// order reads as not found so order IDs leak nothing.
func (s *Service) ForOwner(ctx context.Context, id, ownerID string) (*domain.Order, error) {
	order, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if order.OwnerID != ownerID {
		return nil, domain.NotFound("orders.get", "order", id)
	}

	return order, nil
}

// List retrieves all orders, oldest first.
func (s *Service) List(ctx context.Context) ([]domain.Order, error) {
	recs, err := s.records.List(ctx, domain.CollectionOrders)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Order, 0, len(recs))
	for _, rec := range recs {
		order, err := decodeOrder(rec)
		if err != nil {
			return nil, domain.Internal(err, "orders.list", "failed to decode order")
		}
		order.ID = rec.GetString("id")
		out = append(out, *order)
	}

	return out, nil
}

// MarkProcessed flags the order as processed and stamps the time.
// Idempotent: an already-processed order keeps its original timestamp.
func (s *Service) MarkProcessed(ctx context.Context, id string) (*domain.Order, error) {
	return s.update(ctx, id, func(order *domain.Order) {
		if order.Processed {
			return
		}
		now := time.Now().UTC()
		order.Processed = true
		order.ProcessedAt = &now
	})
}

// MarkDelivered flags the order as delivered and stamps the time.
// Idempotent like MarkProcessed.
func (s *Service) MarkDelivered(ctx context.Context, id string) (*domain.Order, error) {
	return s.update(ctx, id, func(order *domain.Order) {
		if order.Delivered {
			return
		}
		now := time.Now().UTC()
		order.Delivered = true
		order.DeliveredAt = &now
	})
}

func (s *Service) update(ctx context.Context, id string, mutate func(*domain.Order)) (*domain.Order, error) {
	order, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	mutate(order)

	rec, err := encodeOrder(order)
	if err != nil {
		return nil, domain.Internal(err, "orders.update", "failed to encode order")
	}
	if err := s.records.Write(ctx, domain.CollectionOrders, id, rec); err != nil {
		return nil, err
	}

	return order, nil
}

func decodeOrder(rec domain.Record) (*domain.Order, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, err
	}

	var order domain.Order
	if err := json.Unmarshal(data, &order); err != nil {
		return nil, err
	}

	return &order, nil
}

func encodeOrder(order *domain.Order) (domain.Record, error) {
	data, err := json.Marshal(order)
	if err != nil {
		return nil, err
	}

	var rec domain.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}

	return rec, nil
}
