package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics records counters and timings for checkout flows.
type CheckoutMetrics struct {
	settlement *prometheus.HistogramVec
	attempts   *prometheus.CounterVec
	outcomes   *prometheus.CounterVec
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	settlement := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "checkout_settlement_duration_seconds",
		Help:    "Duration of checkout settlement in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"payment_method"})
	attempts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_attempts",
		Help: "Checkout sessions started.",
	}, []string{"payment_method"})
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_outcomes",
		Help: "Terminal checkout outcomes.",
	}, []string{"payment_method", "outcome"})
	reg.MustRegister(settlement, attempts, outcomes)
	return &CheckoutMetrics{
		settlement: settlement,
		attempts:   attempts,
		outcomes:   outcomes,
	}
}

// ObserveSettlement records how long settlement took for the payment method.
func (c *CheckoutMetrics) ObserveSettlement(method string, duration time.Duration) {
	if c == nil || c.settlement == nil {
		return
	}
	c.settlement.WithLabelValues(normalizeLabel(method)).Observe(duration.Seconds())
}

// IncAttempt increments the started-checkout counter for the payment method.
func (c *CheckoutMetrics) IncAttempt(method string) {
	if c == nil || c.attempts == nil {
		return
	}
	c.attempts.WithLabelValues(normalizeLabel(method)).Inc()
}

// IncOutcome increments the terminal outcome counter for the payment method.
func (c *CheckoutMetrics) IncOutcome(method, outcome string) {
	if c == nil || c.outcomes == nil {
		return
	}
	c.outcomes.WithLabelValues(normalizeLabel(method), normalizeLabel(outcome)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
