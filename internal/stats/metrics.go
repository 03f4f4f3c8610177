package stats

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RecordedOutcomesTotal tracks successful wagers folded into session state.
	RecordedOutcomesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "packs_stats_recorded_outcomes_total",
		Help: "Total number of wager outcomes recorded",
	})

	// CurrentStreak tracks the signed streak of the running session.
	CurrentStreak = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "packs_stats_current_streak",
		Help: "Current streak (positive = wins, negative = losses)",
	})
)
