package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "streamdoc_http_requests_total",
		Help: "HTTP requests by endpoint and status code.",
	}, []string{"endpoint", "code"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "streamdoc_http_request_duration_seconds",
		Help:    "HTTP request latency by endpoint.",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint"})

	lintResults = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "streamdoc_lint_results_total",
		Help: "Lint outcomes by validity.",
	}, []string{"valid"})

	fixesApplied = promauto.NewCounter(prometheus.CounterOpts{
		Name: "streamdoc_fixes_applied_total",
		Help: "Total auto-fix rewrites applied.",
	})
)
