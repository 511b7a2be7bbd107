package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ghostmaze",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ghostmaze",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
	moves = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ghostmaze",
			Subsystem: "game",
			Name:      "moves_total",
			Help:      "Moves attempted, by unit kind and whether the unit changed square.",
		},
		[]string{"kind", "moved"},
	)
	collisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ghostmaze",
			Subsystem: "game",
			Name:      "collisions_total",
			Help:      "Collisions resolved, by collider and collidee kind.",
		},
		[]string{"collider", "collidee"},
	)
	outcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ghostmaze",
			Subsystem: "game",
			Name:      "outcomes_total",
			Help:      "Finished games, by outcome.",
		},
		[]string{"outcome"},
	)
	activeSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "ghostmaze",
			Subsystem: "sessions",
			Name:      "active",
			Help:      "Sessions currently held in memory.",
		},
	)
)

// RegisterMetrics registers every collector with the default registry.
// It is safe to call more than once.
func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(httpRequests, httpDuration, moves, collisions, outcomes, activeSessions)
	})
}

func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(method, path, statusLabel).Observe(duration.Seconds())
}

func RecordMove(kind string, moved bool) {
	RegisterMetrics()
	moves.WithLabelValues(kind, strconv.FormatBool(moved)).Inc()
}

func RecordCollision(collider, collidee string) {
	RegisterMetrics()
	collisions.WithLabelValues(collider, collidee).Inc()
}

func RecordOutcome(outcome string) {
	RegisterMetrics()
	outcomes.WithLabelValues(outcome).Inc()
}

func SetActiveSessions(n int) {
	RegisterMetrics()
	activeSessions.Set(float64(n))
}
