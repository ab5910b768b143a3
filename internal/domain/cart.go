package domain

import (
	"context"
	"math"
)

// Cart domain errors.
var (
	ErrItemNotFound = &Error{Code: ENOTFOUND, Message: "Cart item not found"}
)

// ItemKey is the identity of a cart line item: the tuple of fields that
// determines whether two selections are "the same" line. Gift wrap is
// deliberately excluded; toggling it mutates the existing line instead of
// creating a second one.
type ItemKey struct {
	ProductID string `json:"productId"`
	Variant   string `json:"variant,omitempty"`
	Size      string `json:"size,omitempty"`
	Engraving string `json:"engravingText,omitempty"`
}

// Selection is a provisional line item without quantity, as submitted by a
// product detail view. Name and UnitPrice are denormalized from the catalog
// at add time so the cart stays self-describing.
type Selection struct {
	ProductID string
	Name      string
	UnitPrice float64
	Variant   string
	Size      string
	Engraving string
	GiftWrap  bool
}

// Key computes the selection's line-item identity.
func (s Selection) Key() ItemKey {
	return ItemKey{
		ProductID: s.ProductID,
		Variant:   s.Variant,
		Size:      s.Size,
		Engraving: s.Engraving,
	}
}

// LineItem is one row in the cart: a specific configured selection of a
// product and its quantity.
type LineItem struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unitPrice"`
	Variant   string  `json:"variant,omitempty"`
	Size      string  `json:"size,omitempty"`
	Engraving string  `json:"engravingText,omitempty"`
	GiftWrap  bool    `json:"giftWrapRequested"`
	Quantity  int     `json:"quantity"`
}

// Key computes the line item's identity.
func (li LineItem) Key() ItemKey {
	return ItemKey{
		ProductID: li.ProductID,
		Variant:   li.Variant,
		Size:      li.Size,
		Engraving: li.Engraving,
	}
}

// EffectiveUnitPrice is the unit price including the gift-wrap surcharge
// when the line is gift wrapped.
func (li LineItem) EffectiveUnitPrice(surcharge float64) float64 {
	if li.GiftWrap {
		return li.UnitPrice + surcharge
	}
	return li.UnitPrice
}

// LineTotal is quantity × effective unit price. Stored unrounded; rounding
// to 2 decimals happens at the point of display only.
func (li LineItem) LineTotal(surcharge float64) float64 {
	return float64(li.Quantity) * li.EffectiveUnitPrice(surcharge)
}

// CartSummary aggregates the cart's lines with derived totals.
type CartSummary struct {
	Items     []LineItem `json:"items"`
	Total     float64    `json:"total"`
	ItemCount int        `json:"itemCount"`
}

// DisplayTotal rounds the running total to 2 decimals for presentation.
func (s CartSummary) DisplayTotal() float64 {
	return math.Round(s.Total*100) / 100
}

// CartService is the operations surface exposed to views. It is the sole
// mutator of the underlying collection; no other code touches it directly.
//
// Clear is deliberately absent: emptying the cart discards unrecoverable
// user selections and is only legal as the final step of a committed
// checkout. See CartCommitter.
type CartService interface {
	// Add merges a selection into the cart: an existing line with the same
	// identity key gains quantity 1, otherwise a new line with quantity 1 is
	// appended. A selection without a product ID is logged and ignored.
	Add(ctx context.Context, sel Selection) CartSummary

	// Decrement reduces the matching line's quantity by 1, removing the line
	// when it reaches zero. No-op if no line matches.
	Decrement(ctx context.Context, key ItemKey) CartSummary

	// RemoveCompletely removes the matching line regardless of quantity.
	// No-op if no line matches.
	RemoveCompletely(ctx context.Context, key ItemKey) CartSummary

	// SetQuantity sets the matching line's quantity to n. n <= 0 behaves as
	// RemoveCompletely.
	SetQuantity(ctx context.Context, key ItemKey, n int) CartSummary

	// Items returns a copy of the lines in insertion order.
	Items() []LineItem

	// ItemCount is the sum of quantities across all lines (badge count),
	// distinct from the number of lines.
	ItemCount() int

	// Total is the sum of all line totals, unrounded.
	Total() float64

	// Summary returns items, total, and item count in one call.
	Summary() CartSummary
}

// CartCommitter extends CartService with the privileged Clear operation.
// Only the order composer receives this interface, and it invokes Clear
// strictly after an order write has been confirmed and navigation initiated.
type CartCommitter interface {
	CartService

	// Clear empties the collection and mirrors the empty state to durable
	// local storage.
	Clear(ctx context.Context)
}
