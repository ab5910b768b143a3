// Package catalog reads product entries from the record store.
package catalog

import (
	"context"
	"encoding/json"

	"github.com/corinapavel/atelier/internal/domain"
)

// Service provides read access to the product catalog.
type Service struct {
	records domain.RecordStore
}

// NewService creates a catalog service over the record store.
func NewService(records domain.RecordStore) *Service {
	return &Service{records: records}
}

// Get retrieves a single product by ID.
func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
	rec, err := s.records.Fetch(ctx, domain.CollectionProducts, id)
	if err != nil {
		return nil, err
	}

	p, err := decodeProduct(rec)
	if err != nil {
		return nil, domain.Internal(err, "catalog.get", "failed to decode product")
	}

	return p, nil
}

// List retrieves all products.
func (s *Service) List(ctx context.Context) ([]domain.Product, error) {
	recs, err := s.records.List(ctx, domain.CollectionProducts)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Product, 0, len(recs))
	for _, rec := range recs {
		p, err := decodeProduct(rec)
		if err != nil {
			return nil, domain.Internal(err, "catalog.list", "failed to decode product")
		}
		out = append(out, *p)
	}

	return out, nil
}

// decodeProduct converts a raw record into a Product through its JSON shape.
func decodeProduct(rec domain.Record) (*domain.Product, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, err
	}

	var p domain.Product
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}

	return &p, nil
}
