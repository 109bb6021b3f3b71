// Package metrics defines the Prometheus collectors for the menu service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// BootstrapTotal counts bootstrap attempts by outcome
	// (populated, skipped, failed).
	BootstrapTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "littlelemon_bootstrap_total",
		Help: "Menu bootstrap attempts by outcome.",
	}, []string{"outcome"})

	// QueryDuration observes menu query latency by kind (filter, search).
	QueryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "littlelemon_query_duration_seconds",
		Help:    "Menu query latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})

	// HTTPRequestsTotal counts HTTP requests by route and status code.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "littlelemon_http_requests_total",
		Help: "HTTP requests by route and status.",
	}, []string{"route", "status"})
)
