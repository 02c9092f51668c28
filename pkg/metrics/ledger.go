package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// LedgerMetrics records order-fulfillment outcomes.
type LedgerMetrics struct {
	ordersCreated *prometheus.CounterVec
	orderTotal    prometheus.Histogram
}

// NewLedgerMetrics registers the ledger metrics on the provided registerer.
func NewLedgerMetrics(reg prometheus.Registerer) *LedgerMetrics {
	if reg == nil {
		return &LedgerMetrics{}
	}
	ordersCreated := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Orders created, labeled by outcome.",
	}, []string{"outcome"})
	orderTotal := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "order_total_cents",
		Help:    "Committed order totals in minor units.",
		Buckets: prometheus.ExponentialBuckets(100, 10, 6),
	})
	reg.MustRegister(ordersCreated, orderTotal)
	return &LedgerMetrics{
		ordersCreated: ordersCreated,
		orderTotal:    orderTotal,
	}
}

// IncCreated increments the created counter for the given outcome label.
func (m *LedgerMetrics) IncCreated(outcome string) {
	if m == nil || m.ordersCreated == nil {
		return
	}
	m.ordersCreated.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// ObserveTotal records a committed order total.
func (m *LedgerMetrics) ObserveTotal(totalCents int64) {
	if m == nil || m.orderTotal == nil {
		return
	}
	m.orderTotal.Observe(float64(totalCents))
}

func normalizeLabel(outcome string) string {
	if outcome == "" {
		return "unknown"
	}
	return outcome
}
