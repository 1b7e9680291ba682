// Package observability holds the Prometheus collectors and OpenTelemetry
// setup shared by the HTTP layer, upstream clients and the query runner.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values.
const (
	OutcomeOK       = "ok"
	OutcomeError    = "error"
	OutcomeNotFound = "not_found"
)

var (
	// HTTPRequestsTotal counts inbound HTTP requests by route pattern and status.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inventory_hub_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)
	// HTTPRequestDuration is the latency of inbound HTTP requests.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "inventory_hub_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// UpstreamRequestsTotal counts calls to the products, orders and suppliers services.
	UpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inventory_hub_upstream_requests_total",
			Help: "Total number of upstream service calls",
		},
		[]string{"source", "outcome"},
	)
	// UpstreamRequestDuration is the latency of upstream service calls.
	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "inventory_hub_upstream_request_duration_seconds",
			Help:    "Upstream call latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source"},
	)
	// PartialFailuresTotal counts enrichment lookups that degraded to null.
	PartialFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inventory_hub_partial_failures_total",
			Help: "Total number of sub-fetches that failed inside an aggregated response",
		},
		[]string{"operation", "source"},
	)

	// QueryJobsTotal counts query jobs by engine and final state.
	QueryJobsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inventory_hub_query_jobs_total",
			Help: "Total number of query jobs by final state",
		},
		[]string{"engine", "state"},
	)
	// QueryJobDuration is the wall time from submission to a terminal state.
	QueryJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "inventory_hub_query_job_duration_seconds",
			Help:    "Query job duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 20, 30, 60},
		},
		[]string{"engine"},
	)
	// QueryPollAttempts is the number of status polls each job needed.
	QueryPollAttempts = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "inventory_hub_query_poll_attempts",
			Help:    "Status polls per query job",
			Buckets: []float64{1, 2, 3, 5, 10, 20, 30},
		},
	)
)
