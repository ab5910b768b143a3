package storefront

import (
	"log/slog"
	"net/http"

	"github.com/corinapavel/atelier/internal/handler"
	"github.com/corinapavel/atelier/internal/middleware"
	"github.com/corinapavel/atelier/internal/orders"
)

// OrderHandler serves the order confirmation view.
type OrderHandler struct {
	orders *orders.Service
	logger *slog.Logger
}

// NewOrderHandler creates an order handler.
func NewOrderHandler(svc *orders.Service, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{orders: svc, logger: logger}
}

// Confirmation handles GET /orders/{id}. Orders are owner-scoped.
func (h *OrderHandler) Confirmation(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())

	order, err := h.orders.ForOwner(r.Context(), r.PathValue("id"), sess.UserID)
	if err != nil {
		handler.RespondError(w, r, h.logger, err)
		return
	}

	handler.RespondJSON(w, http.StatusOK, order)
}
