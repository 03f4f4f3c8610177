package circuitbreaker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// BreakerSkipsTotal tracks skipped wagers by failure classification.
	BreakerSkipsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "packs_failure_breaker_skips_total",
		Help: "Total number of wagers skipped after exhausting retries",
	}, []string{"kind"})

	// BreakerConsecutiveSkips tracks the current run of skipped wagers.
	BreakerConsecutiveSkips = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "packs_failure_breaker_consecutive_skips",
		Help: "Current number of consecutive skipped wagers",
	})

	// BreakerTripped indicates whether the breaker has halted the session (1=tripped).
	BreakerTripped = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "packs_failure_breaker_tripped",
		Help: "Whether the failure breaker has halted the session (1=tripped, 0=armed)",
	})

	// BreakerTripsTotal tracks the number of sessions halted by the breaker.
	BreakerTripsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "packs_failure_breaker_trips_total",
		Help: "Total number of times the failure breaker halted a session",
	})
)
