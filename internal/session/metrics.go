package session

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// --- Prometheus Metrics ---

var (
	// eventsTotal counts handled events by type
	eventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "xwplay_session_events_total",
		Help: "Events handled by puzzle sessions, by event type",
	}, []string{"type"})

	// generationsTotal counts generation requests by result
	generationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "xwplay_generations_total",
		Help: "Puzzle generation requests by result",
	}, []string{"result"})

	// generateDuration tracks generation latency
	generateDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "xwplay_generate_duration_seconds",
		Help:    "Puzzle generation duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 14), // 1ms to ~8s
	})

	// sessionsActive tracks open sessions
	sessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "xwplay_sessions_active",
		Help: "Number of open puzzle sessions",
	})
)
