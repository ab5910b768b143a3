// Package telemetry holds Prometheus metrics for business-level
// observability of the storefront funnel.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the storefront's business metrics.
type Metrics struct {
	// Cart
	CartItemsAdded prometheus.Counter
	CartCleared    prometheus.Counter

	// Checkout funnel
	CheckoutStarted   prometheus.Counter
	CheckoutCompleted prometheus.Counter
	CheckoutFailed    *prometheus.CounterVec // labeled by failure class

	// Orders
	OrdersCreated  prometheus.Counter
	OrderValue     prometheus.Histogram
	OrderItemCount prometheus.Histogram
}

// NewMetrics creates and registers business metrics on the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		CartItemsAdded: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "atelier",
			Name:      "cart_items_added_total",
			Help:      "Selections merged into carts",
		}),
		CartCleared: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "atelier",
			Name:      "cart_cleared_total",
			Help:      "Carts emptied after a committed order",
		}),
		CheckoutStarted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "atelier",
			Name:      "checkout_started_total",
			Help:      "Checkout attempts begun",
		}),
		CheckoutCompleted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "atelier",
			Name:      "checkout_completed_total",
			Help:      "Checkout attempts that committed an order",
		}),
		CheckoutFailed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "atelier",
			Name:      "checkout_failed_total",
			Help:      "Checkout attempts that failed, by failure class",
		}, []string{"reason"}),
		OrdersCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "atelier",
			Name:      "orders_created_total",
			Help:      "Orders written to the record store",
		}),
		OrderValue: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "atelier",
			Name:      "order_value",
			Help:      "Grand total per committed order",
			Buckets:   []float64{25, 50, 100, 200, 400, 800, 1600},
		}),
		OrderItemCount: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "atelier",
			Name:      "order_item_count",
			Help:      "Item count per committed order",
			Buckets:   []float64{1, 2, 3, 5, 8, 13, 21},
		}),
	}
}
