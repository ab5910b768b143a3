// Package checkout validates the checkout form and composes immutable
// order records out of cart snapshots. The commit sequence is strict:
// validate, snapshot, write, navigate, clear. The cart is only emptied
// after the order write is confirmed and navigation has been initiated,
// so a failed submission always leaves the cart intact for retry.
package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/corinapavel/atelier/internal/domain"
	"github.com/corinapavel/atelier/internal/events"
	"github.com/corinapavel/atelier/internal/telemetry"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// State is the lifecycle phase of a checkout attempt.
type State int

const (
	// StateIdle accepts a submission. Failed attempts return here.
	StateIdle State = iota

	// StateRedirected means a precondition failed and the user was sent
	// away from checkout. Terminal for the attempt.
	StateRedirected

	// StateSubmitting means a submission is in flight. No second
	// submission is accepted.
	StateSubmitting

	// StateCommitted means the order write was confirmed. The cart still
	// holds its items until navigation is initiated.
	StateCommitted

	// StateCleared means the cart was emptied. Terminal.
	StateCleared
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRedirected:
		return "redirected"
	case StateSubmitting:
		return "submitting"
	case StateCommitted:
		return "committed"
	case StateCleared:
		return "cleared"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Redirect targets for failed checkout preconditions.
const (
	RedirectCart  = "/cart"
	RedirectLogin = "/login"
)

// RedirectError tells the caller to send the user elsewhere instead of
// rendering checkout.
type RedirectError struct {
	To string
}

func (e *RedirectError) Error() string {
	return "redirect to " + e.To
}

// NavigateFunc initiates navigation to the order confirmation view. It is
// called after the order write is confirmed and before the cart is cleared.
type NavigateFunc func(orderID string, grandTotal float64) error

// Composer runs the checkout flow. It owns one Attempt per session so a
// retried submission reuses the same idempotency key and cannot create a
// duplicate order.
type Composer struct {
	records   domain.RecordStore
	events    events.Publisher
	validate  *validator.Validate
	surcharge float64
	logger    *slog.Logger
	metrics   *telemetry.Metrics

	mu       sync.Mutex
	attempts map[string]*Attempt
}

// NewComposer creates the order composer.
func NewComposer(records domain.RecordStore, publisher events.Publisher, surcharge float64, logger *slog.Logger, metrics *telemetry.Metrics) *Composer {
	return &Composer{
		records:   records,
		events:    publisher,
		validate:  NewValidator(),
		surcharge: surcharge,
		logger:    logger,
		metrics:   metrics,
		attempts:  make(map[string]*Attempt),
	}
}

// Begin checks the checkout preconditions and returns the session's attempt.
// Without a signed-in owner the user is redirected to login; with an empty
// cart, back to the cart. An existing attempt for the session is reused so
// a retry after a transient failure keeps its idempotency key.
func (c *Composer) Begin(ctx context.Context, sessionID, ownerID string, cart domain.CartCommitter) (*Attempt, error) {
	if ownerID == "" {
		return nil, &RedirectError{To: RedirectLogin}
	}
	if cart.ItemCount() == 0 {
		return nil, &RedirectError{To: RedirectCart}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if a, ok := c.attempts[sessionID]; ok {
		a.cart = cart
		return a, nil
	}

	a := &Attempt{
		composer:       c,
		sessionID:      sessionID,
		ownerID:        ownerID,
		cart:           cart,
		idempotencyKey: uuid.NewString(),
		state:          StateIdle,
	}
	c.attempts[sessionID] = a

	if c.metrics != nil {
		c.metrics.CheckoutStarted.Inc()
	}
	c.logger.Info("checkout started",
		"session_id", sessionID, "owner_id", ownerID, "item_count", cart.ItemCount())

	return a, nil
}

func (c *Composer) forget(sessionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.attempts, sessionID)
}

// Attempt is one checkout attempt for one session. All mutation of the
// underlying cart during checkout goes through the attempt's Submit.
type Attempt struct {
	composer       *Composer
	sessionID      string
	ownerID        string
	cart           domain.CartCommitter
	idempotencyKey string

	inFlight atomic.Bool

	mu    sync.Mutex
	state State
}

// State returns the attempt's current lifecycle phase.
func (a *Attempt) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

func (a *Attempt) setState(s State) {
	a.mu.Lock()
	a.state = s
	a.mu.Unlock()
}

// IdempotencyKey returns the key stamped onto this attempt's order write.
func (a *Attempt) IdempotencyKey() string {
	return a.idempotencyKey
}

// Submit runs the commit sequence. On success the returned order carries
// the store-generated ID and the cart has been cleared. On failure the
// attempt returns to StateIdle and the cart is untouched.
func (a *Attempt) Submit(ctx context.Context, form Form, navigate NavigateFunc) (*domain.Order, error) {
	if !a.inFlight.CompareAndSwap(false, true) {
		return nil, domain.Invalid("checkout.submit", "Your order is already being placed")
	}
	defer a.inFlight.Store(false)

	c := a.composer

	if err := validateForm(c.validate, form); err != nil {
		if c.metrics != nil {
			c.metrics.CheckoutFailed.WithLabelValues("validation").Inc()
		}
		return nil, err
	}

	a.setState(StateSubmitting)

	// Totals come from this snapshot only. Any cart mutation from here on
	// cannot change what the order records.
	snapshot := a.cart.Items()
	if len(snapshot) == 0 {
		a.setState(StateRedirected)
		c.forget(a.sessionID)
		return nil, &RedirectError{To: RedirectCart}
	}

	order := a.buildOrder(snapshot, form)

	id, err := c.records.Create(ctx, domain.CollectionOrders, recordFromOrder(order))
	if err != nil {
		a.setState(StateIdle)
		classified := classifyWriteError(err)
		if c.metrics != nil {
			c.metrics.CheckoutFailed.WithLabelValues(domain.ErrorCode(classified)).Inc()
		}
		c.logger.Error("order write failed",
			"session_id", a.sessionID, "owner_id", a.ownerID,
			"idempotency_key", a.idempotencyKey, "error", err)
		return nil, classified
	}
	order.ID = id

	a.setState(StateCommitted)
	if c.metrics != nil {
		c.metrics.CheckoutCompleted.Inc()
		c.metrics.OrdersCreated.Inc()
		c.metrics.OrderValue.Observe(order.GrandTotal)
		c.metrics.OrderItemCount.Observe(float64(order.ItemCount))
	}
	c.logger.Info("order committed",
		"order_id", order.ID, "order_number", order.Number,
		"owner_id", a.ownerID, "grand_total", order.GrandTotal)

	// The view went away mid-commit. The order stands; skip navigation and
	// leave the cart for the session to find.
	if ctx.Err() != nil {
		c.logger.Warn("checkout abandoned after commit, cart left intact",
			"order_id", order.ID, "session_id", a.sessionID)
		c.forget(a.sessionID)
		return order, nil
	}

	a.upsertAddress(ctx, form)
	a.publishOrderCreated(ctx, order)

	if err := navigate(order.ID, order.GrandTotal); err != nil {
		c.logger.Warn("confirmation navigation failed",
			"order_id", order.ID, "error", err)
	}

	a.cart.Clear(ctx)
	a.setState(StateCleared)
	c.forget(a.sessionID)

	return order, nil
}

// buildOrder freezes the cart snapshot and form into an order. The grand
// total is computed from the snapshot's line totals, never re-read from
// the live cart.
func (a *Attempt) buildOrder(snapshot []domain.LineItem, form Form) *domain.Order {
	items := make([]domain.OrderItem, 0, len(snapshot))
	total := 0.0
	count := 0
	for _, li := range snapshot {
		sub := li.LineTotal(a.composer.surcharge)
		items = append(items, domain.OrderItem{LineItem: li, Subtotal: sub})
		total += sub
		count += li.Quantity
	}

	return &domain.Order{
		Number:    newOrderNumber(time.Now().UTC()),
		OrderedAt: time.Now().UTC(),
		OwnerID:   a.ownerID,
		FullName:  form.FullName,
		Email:     form.Email,
		Phone:     form.Phone,
		Address: domain.Address{
			Line1:      form.AddressLine1,
			Line2:      form.AddressLine2,
			City:       form.City,
			County:     form.County,
			PostalCode: form.PostalCode,
			Country:    form.Country,
		},
		Items:      items,
		GrandTotal: total,
		ItemCount:  count,
		Payment: domain.PaymentSummary{
			Method: "card",
			Last4:  form.CardNumber[len(form.CardNumber)-4:],
		},
		IdempotencyKey: a.idempotencyKey,
	}
}

// upsertAddress saves the shipping details as the owner's address record
// for next time. Best effort; a failure is logged and never surfaced.
func (a *Attempt) upsertAddress(ctx context.Context, form Form) {
	err := a.composer.records.Write(ctx, domain.CollectionAddresses, a.ownerID, domain.Record{
		"full_name":   form.FullName,
		"phone":       form.Phone,
		"line1":       form.AddressLine1,
		"line2":       form.AddressLine2,
		"city":        form.City,
		"county":      form.County,
		"postal_code": form.PostalCode,
		"country":     form.Country,
	})
	if err != nil {
		a.composer.logger.Warn("address upsert failed",
			"owner_id", a.ownerID, "error", err)
	}
}

// publishOrderCreated announces the order. Best effort.
func (a *Attempt) publishOrderCreated(ctx context.Context, order *domain.Order) {
	if err := a.composer.events.OrderCreated(ctx, order); err != nil {
		a.composer.logger.Warn("order event publish failed",
			"order_id", order.ID, "error", err)
	}
}

// classifyWriteError sorts an order-write failure into permission versus
// transient. A permission failure tells the user to sign in again; anything
// else is presented as retryable.
func classifyWriteError(err error) error {
	var de *domain.Error
	if errors.As(err, &de) {
		switch de.Code {
		case domain.EFORBIDDEN, domain.EUNAUTHORIZED:
			return err
		}
	}
	return domain.Unavailable(err, "checkout.submit",
		"Could not place your order right now. Your cart is untouched, please try again.")
}

// newOrderNumber produces a human-referenceable order number, e.g.
// ORD-20260830-7F3A. Uniqueness is guaranteed by the store-generated ID,
// not the number.
func newOrderNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:4])
	return fmt.Sprintf("ORD-%s-%s", now.Format("20060102"), suffix)
}

// recordFromOrder flattens the order into a store record via its JSON form.
func recordFromOrder(order *domain.Order) domain.Record {
	data, err := json.Marshal(order)
	if err != nil {
		// Order contains only marshalable fields.
		return domain.Record{}
	}

	var rec domain.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return domain.Record{}
	}
	return rec
}
