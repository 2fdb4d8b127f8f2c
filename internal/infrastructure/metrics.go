package infrastructure

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the process-level Prometheus instruments.
type Metrics struct {
	UploadsTotal    *prometheus.CounterVec
	AnalyzeDuration prometheus.Histogram
	RowsDropped     prometheus.Counter
	registry        *prometheus.Registry
}

// NewMetrics registers the application instruments on a fresh registry,
// alongside the standard Go and process collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	m := &Metrics{
		UploadsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "tradelens_uploads_total",
			Help: "Uploads processed, labeled by detected file type and outcome.",
		}, []string{"file_type", "outcome"}),
		AnalyzeDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "tradelens_analyze_duration_seconds",
			Help:    "Wall time of the full analyze pipeline per upload.",
			Buckets: prometheus.DefBuckets,
		}),
		RowsDropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "tradelens_rows_dropped_total",
			Help: "Input rows excluded from aggregation due to parse failures.",
		}),
		registry: reg,
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler returns the HTTP handler exposing the registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
