// Package metrics exposes storefront counters to Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	CheckoutSessions   prometheus.Counter
	StatusQueries      *prometheus.CounterVec
	PaymentsCompleted  *prometheus.CounterVec
	ConfirmationPhases *prometheus.CounterVec
	HTTPRequests       *prometheus.CounterVec
}

// New registers the storefront collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		CheckoutSessions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "arar",
			Name:      "checkout_sessions_created_total",
			Help:      "Checkout sessions created with the payment gateway.",
		}),
		StatusQueries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "arar",
			Name:      "checkout_status_queries_total",
			Help:      "Checkout status lookups by outcome.",
		}, []string{"result"}),
		PaymentsCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "arar",
			Name:      "payments_completed_total",
			Help:      "Orders marked paid, by the path that observed the payment.",
		}, []string{"source"}),
		ConfirmationPhases: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "arar",
			Name:      "checkout_confirmations_total",
			Help:      "Resolved confirmation views by terminal phase.",
		}, []string{"phase"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "arar",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"method", "route", "code"}),
	}
	reg.MustRegister(m.CheckoutSessions, m.StatusQueries, m.PaymentsCompleted, m.ConfirmationPhases, m.HTTPRequests)
	return m
}

// NewNop returns collectors attached to a throwaway registry.
func NewNop() *Metrics {
	return New(prometheus.NewRegistry())
}
