package server

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"provincewar/internal/session"
)

const metricsNamespace = "provincewar"

// Metrics holds the server's Prometheus collectors. Each server owns its own
// registry so several servers can run in one process.
type Metrics struct {
	registry *prometheus.Registry

	actions        *prometheus.CounterVec
	turns          prometheus.Counter
	sessionsActive prometheus.Gauge
	reqDuration    *prometheus.HistogramVec
}

// NewMetrics creates and registers the collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "actions_total",
			Help:      "Session actions by action and outcome.",
		}, []string{"action", "outcome"}),
		turns: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "turns_total",
			Help:      "Turns advanced across all sessions.",
		}),
		sessionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "sessions_active",
			Help:      "Open websocket sessions.",
		}),
		reqDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		}, []string{"method", "path", "status"}),
	}
	m.registry.MustRegister(m.actions, m.turns, m.sessionsActive, m.reqDuration)
	return m
}

// Registry exposes the registry for tests and embedding.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveResult counts one session result.
func (m *Metrics) ObserveResult(r *session.Result) {
	if r == nil {
		return
	}
	m.actions.WithLabelValues(string(r.Action), string(r.Outcome)).Inc()
	if r.Action == session.ActionEndTurn && r.Success {
		m.turns.Inc()
	}
}

// Middleware records request latency. Websocket upgrades are observed when they close.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.reqDuration.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}
