package orders_test

import (
	"context"
	"testing"

	"github.com/corinapavel/atelier/internal/domain"
	"github.com/corinapavel/atelier/internal/orders"
	"github.com/corinapavel/atelier/internal/records"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedOrder(store *records.MemoryStore, id, ownerID string) {
	store.Seed(domain.CollectionOrders, id, domain.Record{
		"number":     "ORD-20260830-AB12",
		"ownerId":    ownerID,
		"fullName":   "Ioana Marinescu",
		"grandTotal": 49.0,
		"itemCount":  2,
	})
}

func TestGet(t *testing.T) {
	store := records.NewMemoryStore()
	seedOrder(store, "o1", "u1")

	order, err := orders.NewService(store).Get(context.Background(), "o1")
	require.NoError(t, err)
	assert.Equal(t, "o1", order.ID)
	assert.Equal(t, "ORD-20260830-AB12", order.Number)
	assert.Equal(t, 49.0, order.GrandTotal)
}

func TestForOwner_OtherOwnersOrderReadsAsNotFound(t *testing.T) {
	store := records.NewMemoryStore()
	seedOrder(store, "o1", "u1")

	svc := orders.NewService(store)

	order, err := svc.ForOwner(context.Background(), "o1", "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", order.OwnerID)

	_, err = svc.ForOwner(context.Background(), "o1", "u2")
	assert.True(t, domain.IsCode(err, domain.ENOTFOUND))
}

func TestMarkProcessed(t *testing.T) {
	store := records.NewMemoryStore()
	seedOrder(store, "o1", "u1")

	svc := orders.NewService(store)

	order, err := svc.MarkProcessed(context.Background(), "o1")
	require.NoError(t, err)
	assert.True(t, order.Processed)
	require.NotNil(t, order.ProcessedAt)
	first := *order.ProcessedAt

	// Idempotent: a second call keeps the original timestamp.
	again, err := svc.MarkProcessed(context.Background(), "o1")
	require.NoError(t, err)
	require.NotNil(t, again.ProcessedAt)
	assert.Equal(t, first, *again.ProcessedAt)

	// The flag survives a round trip through the store.
	reread, err := svc.Get(context.Background(), "o1")
	require.NoError(t, err)
	assert.True(t, reread.Processed)
}

func TestMarkDelivered(t *testing.T) {
	store := records.NewMemoryStore()
	seedOrder(store, "o1", "u1")

	svc := orders.NewService(store)

	order, err := svc.MarkDelivered(context.Background(), "o1")
	require.NoError(t, err)
	assert.True(t, order.Delivered)
	assert.NotNil(t, order.DeliveredAt)
	assert.False(t, order.Processed, "delivered does not imply processed")
}

func TestList(t *testing.T) {
	store := records.NewMemoryStore()
	seedOrder(store, "o1", "u1")
	seedOrder(store, "o2", "u2")

	list, err := orders.NewService(store).List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "o1", list[0].ID)
	assert.Equal(t, "o2", list[1].ID)
}
