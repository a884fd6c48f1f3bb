package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the sync
// pipeline.
type Metrics struct {
	EventsFetched    *prometheus.CounterVec // label: source
	FetchErrors      *prometheus.CounterVec // label: source
	EventsRejected   *prometheus.CounterVec // label: reason
	DuplicatesMerged prometheus.Counter
	EventsWritten    prometheus.Counter
	SyncRunning      prometheus.Gauge
	SyncDuration     prometheus.Histogram

	// Geocoding metrics.
	GeocodeRequests *prometheus.CounterVec // label: outcome={resolved,unresolved,error}
	GeocodeCache    *prometheus.CounterVec // label: result={hit,miss}
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		EventsFetched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "event_sync",
			Name:      "events_fetched_total",
			Help:      "Events returned by each source adapter, pre-dedup.",
		}, []string{"source"}),
		FetchErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "event_sync",
			Name:      "fetch_errors_total",
			Help:      "Adapter-level fetch failures by source.",
		}, []string{"source"}),
		EventsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "event_sync",
			Name:      "events_rejected_total",
			Help:      "Records dropped by validation, by rejection reason.",
		}, []string{"reason"}),
		DuplicatesMerged: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "event_sync",
			Name:      "duplicates_merged_total",
			Help:      "Cross-source duplicates collapsed by the dedup engine.",
		}),
		EventsWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "event_sync",
			Name:      "events_written_total",
			Help:      "Events persisted to the snapshot file.",
		}),
		SyncRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "event_sync",
			Name:      "running",
			Help:      "1 while a sync run is in flight, 0 otherwise.",
		}),
		SyncDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "event_sync",
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete sync run.",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600, 1200},
		}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "event_sync",
			Name:      "geocode_requests_total",
			Help:      "Geocoding API requests by outcome.",
		}, []string{"outcome"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "event_sync",
			Name:      "geocode_cache_total",
			Help:      "Geocoding cache lookups by result.",
		}, []string{"result"}),
	}

	prometheus.MustRegister(
		m.EventsFetched,
		m.FetchErrors,
		m.EventsRejected,
		m.DuplicatesMerged,
		m.EventsWritten,
		m.SyncRunning,
		m.SyncDuration,
		m.GeocodeRequests,
		m.GeocodeCache,
	)

	return m
}

// NewMetricsForTesting creates Metrics with no registry registration to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		EventsFetched:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "event_sync", Name: "events_fetched_total"}, []string{"source"}),
		FetchErrors:      prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "event_sync", Name: "fetch_errors_total"}, []string{"source"}),
		EventsRejected:   prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "event_sync", Name: "events_rejected_total"}, []string{"reason"}),
		DuplicatesMerged: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "event_sync", Name: "duplicates_merged_total"}),
		EventsWritten:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "event_sync", Name: "events_written_total"}),
		SyncRunning:      prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "event_sync", Name: "running"}),
		SyncDuration:     prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "event_sync", Name: "run_duration_seconds"}),
		GeocodeRequests:  prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "event_sync", Name: "geocode_requests_total"}, []string{"outcome"}),
		GeocodeCache:     prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "event_sync", Name: "geocode_cache_total"}, []string{"result"}),
	}
}
