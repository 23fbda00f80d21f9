// Package metrics holds the Prometheus instruments for the app.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ExpensesCreated counts successfully recorded expenses.
	ExpensesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "splitsmart_expenses_created_total",
		Help: "Total number of expenses recorded.",
	})

	// Settlements counts successful settle-up operations.
	Settlements = promauto.NewCounter(prometheus.CounterOpts{
		Name: "splitsmart_settlements_total",
		Help: "Total number of settle-up operations.",
	})

	// AssistRequests counts AI assist calls by operation and outcome.
	AssistRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "splitsmart_assist_requests_total",
		Help: "Total number of AI assist requests.",
	}, []string{"op", "outcome"})

	// SnapshotErrors counts failed snapshot writes by key.
	SnapshotErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "splitsmart_snapshot_errors_total",
		Help: "Total number of failed snapshot writes.",
	}, []string{"key"})

	// HTTPRequestDuration observes request latency by route and status.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "splitsmart_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)
