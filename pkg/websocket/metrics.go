package websocket

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ActiveClients tracks connected WebSocket clients.
	ActiveClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "packs_ws_active_clients",
		Help: "Number of connected WebSocket clients",
	})

	// FramesSentTotal tracks frames queued to clients by frame type.
	FramesSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "packs_ws_frames_sent_total",
			Help: "Total number of WebSocket frames queued to clients",
		},
		[]string{"frame_type"},
	)

	// FramesDroppedTotal tracks frames dropped for slow clients.
	FramesDroppedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "packs_ws_frames_dropped_total",
			Help: "Total number of WebSocket frames dropped",
		},
		[]string{"reason"},
	)

	// ConnectionDuration tracks WebSocket client lifetime.
	ConnectionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "packs_ws_connection_duration_seconds",
		Help:    "Duration of WebSocket client connections before disconnect",
		Buckets: []float64{1, 10, 60, 300, 600, 1800, 3600, 7200, 14400, 43200},
	})
)
