// Package events publishes storefront domain events. Publishing is
// best-effort: a failed publish is logged by the caller and never affects
// the primary flow.
package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/corinapavel/atelier/internal/domain"
	"github.com/nats-io/nats.go"
)

// SubjectOrderCreated is the NATS subject for committed orders.
const SubjectOrderCreated = "atelier.orders.created"

// Publisher emits domain events.
type Publisher interface {
	// OrderCreated announces a committed order.
	OrderCreated(ctx context.Context, order *domain.Order) error
}

// NATSPublisher implements Publisher over a NATS connection.
type NATSPublisher struct {
	conn *nats.Conn
}

// NewNATSPublisher connects to the given NATS URL.
func NewNATSPublisher(url string) (*NATSPublisher, error) {
	conn, err := nats.Connect(url, nats.Name("atelier"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &NATSPublisher{conn: conn}, nil
}

// OrderCreated publishes the order snapshot as JSON.
func (p *NATSPublisher) OrderCreated(ctx context.Context, order *domain.Order) error {
	data, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("failed to encode order event: %w", err)
	}

	if err := p.conn.Publish(SubjectOrderCreated, data); err != nil {
		return fmt.Errorf("failed to publish order event: %w", err)
	}

	return nil
}

// Close drains the connection.
func (p *NATSPublisher) Close() {
	p.conn.Close()
}

// NoopPublisher discards all events. Used when no NATS URL is configured.
type NoopPublisher struct{}

// OrderCreated discards the event.
func (NoopPublisher) OrderCreated(ctx context.Context, order *domain.Order) error {
	return nil
}
