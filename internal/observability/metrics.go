// Package observability provides prometheus metrics for the application.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "studyhall_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "studyhall_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// VotesTotal counts ledger outcomes by operation and result code.
	VotesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "studyhall_votes_total",
		Help: "Total vote ledger operations by operation and outcome",
	}, []string{"operation", "outcome"})

	// ReportsTotal counts report aggregator outcomes by result code.
	ReportsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "studyhall_reports_total",
		Help: "Total report operations by outcome",
	}, []string{"outcome"})

	// SuppressionsTotal counts automatic threshold suppressions by target kind.
	SuppressionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "studyhall_suppressions_total",
		Help: "Total automatic content suppressions by target kind",
	}, []string{"kind"})

	// RateLimitDenials counts governor denials by operation class.
	RateLimitDenials = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "studyhall_rate_limit_denials_total",
		Help: "Total rate-limited requests by operation class",
	}, []string{"class"})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}
