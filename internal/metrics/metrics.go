package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Label value constants to prevent typos
const (
	// Recompute triggers
	TriggerFull        = "full"
	TriggerIncremental = "incremental"

	// Run results
	ResultSuccess = "success"
	ResultFailure = "failure"

	// Ledger write operations
	LedgerOpCreate = "create"
	LedgerOpUpdate = "update"
	LedgerOpDelete = "delete"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"endpoint", "status_code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"endpoint", "status_code"},
	)

	HTTPRateLimitedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "http_rate_limited_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
	)
)

// Recompute Metrics
var (
	RecomputeRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recompute_runs_total",
			Help: "Total number of recomputation runs by trigger and result",
		},
		[]string{"trigger", "result"},
	)

	RecomputeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recompute_duration_seconds",
			Help:    "Time spent in one recomputation run",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
		},
		[]string{"trigger"},
	)

	RecomputeCoalescedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recompute_coalesced_total",
			Help: "Total number of triggers coalesced into an already pending run",
		},
	)

	RecomputeState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recompute_state",
			Help: "Driver state (0=idle, 1=aggregating, 2=ranking, 3=materializing, 4=failed)",
		},
	)
)

// Business Metrics
var (
	LedgerWritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_writes_total",
			Help: "Total number of activity ledger writes by operation",
		},
		[]string{"operation"},
	)

	LeaderboardEntries = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "leaderboard_entries",
			Help: "Number of materialized leaderboard entries per scope",
		},
		[]string{"scope"},
	)

	LedgerSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ledger_size",
			Help: "Number of activity records in the ledger",
		},
	)
)
