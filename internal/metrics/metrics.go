// Package metrics holds the Prometheus instrumentation for the service.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "clusterhealthz"

// Metrics holds all collectors, registered on a dedicated registry so the
// exposition contains only what this service emits.
type Metrics struct {
	registry      *prometheus.Registry
	checksTotal   *prometheus.CounterVec
	checkDuration prometheus.Histogram
	reloadTotal   *prometheus.CounterVec
	watchlistSize prometheus.Gauge
	backendErrors *prometheus.CounterVec
}

// New creates and registers all service metrics.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
	}

	m.checksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checks_total",
			Help:      "Total number of health evaluations by verdict",
		},
		[]string{"verdict"},
	)
	m.checkDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "check_duration_seconds",
			Help:      "Duration of one health evaluation cycle",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
	)
	m.reloadTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "watchlist_reload_total",
			Help:      "Total number of watch-list reload attempts by result",
		},
		[]string{"result"},
	)
	m.watchlistSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "watchlist_size",
			Help:      "Number of alert names on the active watch-list",
		},
	)
	m.backendErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "backend_errors_total",
			Help:      "Total number of backend query failures by kind",
		},
		[]string{"kind"},
	)

	m.registry.MustRegister(
		m.checksTotal,
		m.checkDuration,
		m.reloadTotal,
		m.watchlistSize,
		m.backendErrors,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// Handler returns the /metrics exposition handler.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveCheck records one completed evaluation.
func (m *Metrics) ObserveCheck(verdict string, elapsed time.Duration) {
	m.checksTotal.WithLabelValues(verdict).Inc()
	m.checkDuration.Observe(elapsed.Seconds())
}

// ObserveReload records one completed reload attempt. size is the active
// watch-list size after the attempt.
func (m *Metrics) ObserveReload(err error, size int) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	m.reloadTotal.WithLabelValues(result).Inc()
	m.watchlistSize.Set(float64(size))
}

// SetWatchlistSize records the active watch-list size.
func (m *Metrics) SetWatchlistSize(size int) {
	m.watchlistSize.Set(float64(size))
}

// ObserveBackendError records one backend query failure.
func (m *Metrics) ObserveBackendError(kind string) {
	m.backendErrors.WithLabelValues(kind).Inc()
}
