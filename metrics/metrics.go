package metrics

import (
	"time"

	"github.com/belyalov/tinyweb/http/method"
	"github.com/belyalov/tinyweb/http/status"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics is the server's Prometheus instrumentation. A nil *Metrics is valid
// and records nothing, so the server never branches on whether metrics were
// configured.
type Metrics struct {
	requests    *prometheus.CounterVec
	duration    prometheus.Histogram
	connections prometheus.Gauge
	panics      prometheus.Counter
}

// New registers the server's collectors under namespace. A nil registry falls
// back to prometheus.DefaultRegisterer.
func New(namespace string, registry prometheus.Registerer) *Metrics {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}

	factory := promauto.With(registry)

	return &Metrics{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Requests served, by method and status code",
		}, []string{"method", "code"}),

		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "Time from accepting a connection to finishing its response",
			Buckets:   prometheus.DefBuckets,
		}),

		connections: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_connections",
			Help:      "Connections currently being served",
		}),

		panics: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "handler_panics_total",
			Help:      "Handler invocations that ended in a recovered panic",
		}),
	}
}

// ObserveRequest records one served request.
func (m *Metrics) ObserveRequest(me method.Method, code status.Code, took time.Duration) {
	if m == nil {
		return
	}

	m.requests.WithLabelValues(me.String(), status.StringCode(code)).Inc()
	m.duration.Observe(took.Seconds())
}

// ConnOpened marks a connection as accepted.
func (m *Metrics) ConnOpened() {
	if m == nil {
		return
	}

	m.connections.Inc()
}

// ConnClosed marks a connection as finished.
func (m *Metrics) ConnClosed() {
	if m == nil {
		return
	}

	m.connections.Dec()
}

// ObservePanic counts a recovered handler panic.
func (m *Metrics) ObservePanic() {
	if m == nil {
		return
	}

	m.panics.Inc()
}
