// Package admin holds the back-office HTTP handlers.
package admin

import (
	"log/slog"
	"net/http"

	"github.com/corinapavel/atelier/internal/handler"
	"github.com/corinapavel/atelier/internal/orders"
)

// OrderHandler manages orders from the back office: listing and the two
// fulfillment flags.
type OrderHandler struct {
	orders *orders.Service
	logger *slog.Logger
}

// NewOrderHandler creates an admin order handler.
func NewOrderHandler(svc *orders.Service, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{orders: svc, logger: logger}
}

// List handles GET /admin/orders
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.orders.List(r.Context())
	if err != nil {
		handler.RespondError(w, r, h.logger, err)
		return
	}

	handler.RespondJSON(w, http.StatusOK, map[string]any{"orders": list})
}

// Get handles GET /admin/orders/{id}
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		handler.RespondError(w, r, h.logger, err)
		return
	}

	handler.RespondJSON(w, http.StatusOK, order)
}

// MarkProcessed handles POST /admin/orders/{id}/processed
func (h *OrderHandler) MarkProcessed(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.MarkProcessed(r.Context(), r.PathValue("id"))
	if err != nil {
		handler.RespondError(w, r, h.logger, err)
		return
	}

	h.logger.Info("order marked processed", "order_id", order.ID, "order_number", order.Number)
	handler.RespondJSON(w, http.StatusOK, order)
}

// MarkDelivered handles POST /admin/orders/{id}/delivered
func (h *OrderHandler) MarkDelivered(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.MarkDelivered(r.Context(), r.PathValue("id"))
	if err != nil {
		handler.RespondError(w, r, h.logger, err)
		return
	}

	h.logger.Info("order marked delivered", "order_id", order.ID, "order_number", order.Number)
	handler.RespondJSON(w, http.StatusOK, order)
}
