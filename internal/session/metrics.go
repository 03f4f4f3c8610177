package session

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SessionStatus tracks the controller state (0=idle, 1=running, 2=stopped).
	SessionStatus = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "packs_session_status",
		Help: "Session controller state (0=idle, 1=running, 2=stopped)",
	})

	// SessionsStartedTotal tracks accepted session starts.
	SessionsStartedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "packs_session_started_total",
		Help: "Total number of betting sessions started",
	})

	// EventsTotal tracks published session events by type.
	EventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "packs_session_events_total",
		Help: "Total number of session events by type",
	}, []string{"type"})

	// SkippedWagersTotal tracks iterations skipped after a non-halting failure.
	SkippedWagersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "packs_session_skipped_wagers_total",
		Help: "Total number of wagers skipped after a non-halting terminal failure",
	}, []string{"kind"})

	// DiscardedResultsTotal tracks in-flight results dropped after a stop.
	DiscardedResultsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "packs_session_discarded_results_total",
		Help: "Total number of wager results discarded because the session was stopped",
	})

	// WageredTotal tracks the cumulative amount wagered across sessions.
	WageredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "packs_session_wagered_total",
		Help: "Cumulative amount wagered",
	})

	// PayoutTotal tracks the cumulative payout across sessions.
	PayoutTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "packs_session_payout_total",
		Help: "Cumulative payout received",
	})
)
