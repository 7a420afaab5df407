// Package metrics exports service metrics in Prometheus format.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/agenthands/jai/internal/core/summary"
)

const namespace = "jai"

var defaultBuckets = []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 20, 30, 60}

// Metrics owns a private registry; it implements summary.Recorder.
type Metrics struct {
	registry *prometheus.Registry

	summaryRequests *prometheus.CounterVec
	generateLatency prometheus.Histogram
	persistFailures prometheus.Counter
	httpRequests    *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.summaryRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "summary",
			Name:      "requests_total",
			Help:      "Summarize requests by outcome",
		},
		[]string{"outcome"},
	)

	m.generateLatency = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "summary",
			Name:      "generate_seconds",
			Help:      "Time spent waiting on the summary generator",
			Buckets:   defaultBuckets,
		},
	)

	m.persistFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "summary",
			Name:      "persist_failures_total",
			Help:      "Generated summaries that could not be written to their entry",
		},
	)

	m.httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route and status",
		},
		[]string{"route", "status"},
	)

	m.registry.MustRegister(
		m.summaryRequests,
		m.generateLatency,
		m.persistFailures,
		m.httpRequests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

var _ summary.Recorder = (*Metrics)(nil)

func (m *Metrics) SummaryRequested(outcome summary.Outcome) {
	m.summaryRequests.WithLabelValues(string(outcome)).Inc()
}

func (m *Metrics) GenerateObserved(d time.Duration) {
	m.generateLatency.Observe(d.Seconds())
}

func (m *Metrics) PersistFailed() {
	m.persistFailures.Inc()
}

// ObserveHTTP counts a finished request. route is the matched pattern, not
// the raw path.
func (m *Metrics) ObserveHTTP(route string, status int) {
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
