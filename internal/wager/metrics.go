package wager

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AttemptsTotal tracks wager attempts by classification.
	AttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "packs_wager_attempts_total",
			Help: "Total number of wager HTTP attempts by classification",
		},
		[]string{"classification"},
	)

	// RetriesTotal tracks retries scheduled after a retryable attempt.
	RetriesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "packs_wager_retries_total",
		Help: "Total number of wager retries after backoff",
	})

	// BackoffSeconds tracks the backoff delays slept between attempts.
	BackoffSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "packs_wager_backoff_seconds",
		Help:    "Backoff delay slept before a wager retry",
		Buckets: []float64{0.5, 1, 2, 4, 8, 9},
	})

	// RequestDurationSeconds tracks single-attempt latency.
	RequestDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "packs_wager_request_duration_seconds",
		Help:    "Duration of a single wager HTTP attempt",
		Buckets: prometheus.DefBuckets,
	})

	// TerminalFailuresTotal tracks wagers that resolved without success.
	TerminalFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "packs_wager_terminal_failures_total",
			Help: "Total number of wagers that ended in a terminal failure, by kind",
		},
		[]string{"kind"},
	)
)
