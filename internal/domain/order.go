package domain

import "time"

// Record store collection names.
const (
	CollectionUsers          = "users"
	CollectionAddresses      = "addresses"
	CollectionPaymentMethods = "payment_methods"
	CollectionOrders         = "orders"
	CollectionProducts       = "products"
)

// OrderItem is a cart line frozen into an order, annotated with its own
// subtotal at time of purchase.
type OrderItem struct {
	LineItem
	Subtotal float64 `json:"subtotal"`
}

// PaymentSummary is the only payment data an order carries: the method and
// the last 4 digits. Raw card numbers are never persisted.
type PaymentSummary struct {
	Method string `json:"method"`
	Last4  string `json:"last4"`
}

// Order is an immutable snapshot created exactly once per checkout.
// After creation only the Processed/Delivered flags and their timestamps
// may change (via the admin surface); line items and totals never do.
type Order struct {
	ID        string    `json:"id,omitempty"`
	Number    string    `json:"number"`
	OrderedAt time.Time `json:"orderedAt"`
	OwnerID   string    `json:"ownerId"`

	// Shipping contact, captured from the checkout form.
	FullName string  `json:"fullName"`
	Email    string  `json:"email"`
	Phone    string  `json:"phone"`
	Address  Address `json:"address"`

	Items      []OrderItem    `json:"items"`
	GrandTotal float64        `json:"grandTotal"`
	ItemCount  int            `json:"itemCount"`
	Payment    PaymentSummary `json:"payment"`

	Processed   bool       `json:"processed"`
	ProcessedAt *time.Time `json:"processedAt,omitempty"`
	Delivered   bool       `json:"delivered"`
	DeliveredAt *time.Time `json:"deliveredAt,omitempty"`

	// IdempotencyKey is generated once per checkout attempt and stamped on
	// the write, so the store or a downstream consumer can dedupe retried
	// submissions.
	IdempotencyKey string `json:"idempotencyKey"`
}
