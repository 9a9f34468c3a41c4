package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// timeline service.
type Metrics struct {
	UpstreamRequests *prometheus.CounterVec   // labels: endpoint={daily-mean,realtime,stations}, outcome={success,error}
	UpstreamDuration *prometheus.HistogramVec // labels: endpoint
	RecordsSkipped   *prometheus.CounterVec   // labels: endpoint

	TimelinesBuilt  prometheus.Counter
	GapDaysObserved prometheus.Histogram

	StationCache *prometheus.CounterVec // labels: result={hit,miss}
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.UpstreamRequests,
		m.UpstreamDuration,
		m.RecordsSkipped,
		m.TimelinesBuilt,
		m.GapDaysObserved,
		m.StationCache,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "brownclaw",
			Name:      "upstream_requests_total",
			Help:      "Requests to GeoMet hydrometric endpoints by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		UpstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "brownclaw",
			Name:      "upstream_request_duration_seconds",
			Help:      "GeoMet request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"endpoint"}),
		RecordsSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "brownclaw",
			Name:      "records_skipped_total",
			Help:      "Malformed per-day records or per-sample readings dropped during parsing.",
		}, []string{"endpoint"}),
		TimelinesBuilt: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "brownclaw",
			Name:      "timelines_built_total",
			Help:      "Combined timelines assembled.",
		}),
		GapDaysObserved: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "brownclaw",
			Name:      "gap_days_observed",
			Help:      "Size in days of the historical/realtime gap per built timeline.",
			Buckets:   []float64{0, 1, 7, 30, 90, 180, 270, 365},
		}),
		StationCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "brownclaw",
			Name:      "station_cache_total",
			Help:      "Station catalog cache lookups by result.",
		}, []string{"result"}),
	}
}
