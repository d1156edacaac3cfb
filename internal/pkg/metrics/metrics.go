package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "scolarite"

// Metrics holds the application collectors on a private registry.
type Metrics struct {
	registry    *prometheus.Registry
	transitions *prometheus.CounterVec
	documents   *prometheus.CounterVec
	httpLatency *prometheus.HistogramVec
}

// New registers every collector, including the Go runtime ones.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transitions_total",
			Help:      "Status transitions applied, by record kind and action.",
		}, []string{"kind", "action"}),
		documents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_generated_total",
			Help:      "PDF documents generated, by document type.",
		}, []string{"document"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method, route and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	m.registry.MustRegister(
		m.transitions,
		m.documents,
		m.httpLatency,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Transition counts one applied status change.
func (m *Metrics) Transition(kind, action string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(kind, action).Inc()
}

// Document counts one generated PDF.
func (m *Metrics) Document(document string) {
	if m == nil {
		return
	}
	m.documents.WithLabelValues(document).Inc()
}

// ObserveRequest records the latency of a served request.
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpLatency.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
