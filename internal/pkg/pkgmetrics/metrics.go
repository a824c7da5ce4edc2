package pkgmetrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/incubmainer/somegram-backend-sub002/internal/pkg/pkginstrument"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the application collectors and their registry.
type Metrics struct {
	registry *prometheus.Registry

	callsTotal    *prometheus.CounterVec
	callDuration  *prometheus.HistogramVec
	requestsTotal *prometheus.CounterVec
}

// New creates and registers the collectors under namespace.
//
// A nil registry gets a fresh one, so tests never collide on the global
// default registry.
func New(namespace string, registry *prometheus.Registry) *Metrics {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	m := &Metrics{
		registry: registry,
		callsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "calls_total",
				Help:      "Total number of instrumented calls by outcome",
			},
			[]string{"component", "method", "outcome"},
		),
		callDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "call_duration_seconds",
				Help:      "Duration of instrumented calls in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"component", "method"},
		),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests by route and status",
			},
			[]string{"method", "route", "status"},
		),
	}

	registry.MustRegister(m.callsTotal, m.callDuration, m.requestsTotal)

	return m
}

// ObserveCall implements pkginstrument.Observer.
func (m *Metrics) ObserveCall(component, method string, phase pkginstrument.Phase, elapsed time.Duration) {
	m.callsTotal.WithLabelValues(component, method, string(phase)).Inc()
	m.callDuration.WithLabelValues(component, method).Observe(elapsed.Seconds())
}

// ObserveRequest counts one served HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int) {
	m.requestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
		ErrorHandling:     promhttp.ContinueOnError,
	})
}
