package storefront

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/corinapavel/atelier/internal/cart"
	"github.com/corinapavel/atelier/internal/checkout"
	"github.com/corinapavel/atelier/internal/handler"
	"github.com/corinapavel/atelier/internal/middleware"
	"github.com/corinapavel/atelier/internal/profile"
)

// CheckoutHandler drives the checkout flow: prefilled defaults on GET,
// the commit sequence on POST.
type CheckoutHandler struct {
	composer   *checkout.Composer
	carts      *cart.Manager
	reconciler *profile.Reconciler
	logger     *slog.Logger
}

// NewCheckoutHandler creates a checkout handler.
func NewCheckoutHandler(composer *checkout.Composer, carts *cart.Manager, reconciler *profile.Reconciler, logger *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{composer: composer, carts: carts, reconciler: reconciler, logger: logger}
}

// View handles GET /checkout. It verifies the checkout preconditions and
// returns the reconciled form defaults alongside the cart summary.
func (h *CheckoutHandler) View(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())
	store := h.carts.ForSession(r.Context(), sess.ID)

	if _, err := h.composer.Begin(r.Context(), sess.ID, sess.UserID, store); err != nil {
		h.respondCheckoutError(w, r, err)
		return
	}

	defaults := h.reconciler.CheckoutDefaults(r.Context(), sess.UserID, sess.Email, sess.DisplayName)

	handler.RespondJSON(w, http.StatusOK, map[string]any{
		"defaults": defaults,
		"cart":     summaryPayload(store.Summary()),
	})
}

// Submit handles POST /checkout. On success the response carries the
// confirmation target the client should navigate to.
func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())
	store := h.carts.ForSession(r.Context(), sess.ID)

	attempt, err := h.composer.Begin(r.Context(), sess.ID, sess.UserID, store)
	if err != nil {
		h.respondCheckoutError(w, r, err)
		return
	}

	var form checkout.Form
	if err := handler.DecodeJSON(r, &form); err != nil {
		handler.RespondError(w, r, h.logger, err)
		return
	}

	var confirmation string
	order, err := attempt.Submit(r.Context(), form, func(orderID string, grandTotal float64) error {
		confirmation = "/orders/" + orderID
		return nil
	})
	if err != nil {
		h.respondCheckoutError(w, r, err)
		return
	}

	handler.RespondJSON(w, http.StatusCreated, map[string]any{
		"orderId":     order.ID,
		"orderNumber": order.Number,
		"grandTotal":  order.GrandTotal,
		"redirect":    confirmation,
	})
}

// respondCheckoutError turns a precondition redirect into a See Other
// response; everything else goes through the standard error mapping.
func (h *CheckoutHandler) respondCheckoutError(w http.ResponseWriter, r *http.Request, err error) {
	var redirect *checkout.RedirectError
	if errors.As(err, &redirect) {
		w.Header().Set("Location", redirect.To)
		handler.RespondJSON(w, http.StatusSeeOther, map[string]string{"redirect": redirect.To})
		return
	}

	handler.RespondError(w, r, h.logger, err)
}
