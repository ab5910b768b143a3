package storefront

import (
	"log/slog"
	"net/http"

	"github.com/corinapavel/atelier/internal/cart"
	"github.com/corinapavel/atelier/internal/catalog"
	"github.com/corinapavel/atelier/internal/domain"
	"github.com/corinapavel/atelier/internal/handler"
	"github.com/corinapavel/atelier/internal/middleware"
)

// CartHandler handles all cart routes. It resolves the session's cart
// through the manager and never mutates the collection directly.
type CartHandler struct {
	carts   *cart.Manager
	catalog *catalog.Service
	logger  *slog.Logger
}

// NewCartHandler creates a cart handler.
func NewCartHandler(carts *cart.Manager, c *catalog.Service, logger *slog.Logger) *CartHandler {
	return &CartHandler{carts: carts, catalog: c, logger: logger}
}

// addRequest is the body of POST /cart/items.
type addRequest struct {
	ProductID     string `json:"productId"`
	Variant       string `json:"variant"`
	Size          string `json:"size"`
	EngravingText string `json:"engravingText"`
	GiftWrap      bool   `json:"giftWrap"`
}

// keyRequest identifies an existing line item.
type keyRequest struct {
	ProductID     string `json:"productId"`
	Variant       string `json:"variant"`
	Size          string `json:"size"`
	EngravingText string `json:"engravingText"`
}

func (k keyRequest) key() domain.ItemKey {
	return domain.ItemKey{
		ProductID: k.ProductID,
		Variant:   k.Variant,
		Size:      k.Size,
		Engraving: k.EngravingText,
	}
}

// quantityRequest is the body of PUT /cart/items/quantity.
type quantityRequest struct {
	keyRequest
	Quantity int `json:"quantity"`
}

// View handles GET /cart
func (h *CartHandler) View(w http.ResponseWriter, r *http.Request) {
	store := h.sessionCart(r)
	handler.RespondJSON(w, http.StatusOK, summaryPayload(store.Summary()))
}

// Add handles POST /cart/items. The product's name and price are
// denormalized from the catalog at add time.
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req addRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.RespondError(w, r, h.logger, err)
		return
	}

	product, err := h.catalog.Get(r.Context(), req.ProductID)
	if err != nil {
		handler.RespondError(w, r, h.logger, err)
		return
	}

	if req.EngravingText != "" && !product.Engravable {
		handler.RespondError(w, r, h.logger,
			domain.Invalid("cart.add", "This product cannot be engraved"))
		return
	}

	summary := h.sessionCart(r).Add(r.Context(), domain.Selection{
		ProductID: product.ID,
		Name:      product.Name,
		UnitPrice: product.Price,
		Variant:   req.Variant,
		Size:      req.Size,
		Engraving: req.EngravingText,
		GiftWrap:  req.GiftWrap,
	})

	handler.RespondJSON(w, http.StatusOK, summaryPayload(summary))
}

// Decrement handles POST /cart/items/decrement
func (h *CartHandler) Decrement(w http.ResponseWriter, r *http.Request) {
	var req keyRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.RespondError(w, r, h.logger, err)
		return
	}

	summary := h.sessionCart(r).Decrement(r.Context(), req.key())
	handler.RespondJSON(w, http.StatusOK, summaryPayload(summary))
}

// Remove handles DELETE /cart/items
func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	var req keyRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.RespondError(w, r, h.logger, err)
		return
	}

	summary := h.sessionCart(r).RemoveCompletely(r.Context(), req.key())
	handler.RespondJSON(w, http.StatusOK, summaryPayload(summary))
}

// SetQuantity handles PUT /cart/items/quantity
func (h *CartHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	var req quantityRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.RespondError(w, r, h.logger, err)
		return
	}

	summary := h.sessionCart(r).SetQuantity(r.Context(), req.key(), req.Quantity)
	handler.RespondJSON(w, http.StatusOK, summaryPayload(summary))
}

func (h *CartHandler) sessionCart(r *http.Request) *cart.Store {
	sess := middleware.GetSession(r.Context())
	return h.carts.ForSession(r.Context(), sess.ID)
}

// summaryPayload shapes a cart summary for the wire. Totals are rounded
// here, at the display boundary, and nowhere earlier.
func summaryPayload(s domain.CartSummary) map[string]any {
	items := s.Items
	if items == nil {
		items = []domain.LineItem{}
	}
	return map[string]any{
		"items":     items,
		"itemCount": s.ItemCount,
		"total":     s.DisplayTotal(),
	}
}
