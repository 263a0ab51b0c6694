package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the service.
type Metrics struct {
	RowsRead        prometheus.Counter
	RowsDropped     prometheus.Counter
	ValidRecords    prometheus.Gauge
	Countries       prometheus.Gauge
	PipelineRunning prometheus.Gauge

	// Dataset load metrics.
	DatasetLoads *prometheus.CounterVec // labels: outcome={success,error,unchanged}
	LoadDuration prometheus.Histogram

	// Rendering metrics.
	SelectionChanges prometheus.Counter
	Renders          *prometheus.CounterVec // labels: format={html,svg,png}
	ChartCacheHits   prometheus.Counter
}

// NewMetrics creates and registers all service metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.RowsRead,
		m.RowsDropped,
		m.ValidRecords,
		m.Countries,
		m.PipelineRunning,
		m.DatasetLoads,
		m.LoadDuration,
		m.SelectionChanges,
		m.Renders,
		m.ChartCacheHits,
	)

	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		RowsRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "disaster_scatter",
			Name:      "rows_read_total",
			Help:      "Total rows read from the data source.",
		}),
		RowsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "disaster_scatter",
			Name:      "rows_dropped_total",
			Help:      "Total rows excluded by normalization.",
		}),
		ValidRecords: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "disaster_scatter",
			Name:      "valid_records",
			Help:      "Records in the currently published dataset.",
		}),
		Countries: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "disaster_scatter",
			Name:      "countries",
			Help:      "Distinct countries in the currently published dataset.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "disaster_scatter",
			Name:      "pipeline_running",
			Help:      "1 when the dataset pipeline is active, 0 when shut down.",
		}),
		DatasetLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "disaster_scatter",
			Name:      "dataset_loads_total",
			Help:      "Dataset load attempts by outcome.",
		}, []string{"outcome"}),
		LoadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "disaster_scatter",
			Name:      "dataset_load_duration_seconds",
			Help:      "Duration of reading and normalizing the data source.",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5},
		}),
		SelectionChanges: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "disaster_scatter",
			Name:      "selection_changes_total",
			Help:      "Country selection events applied.",
		}),
		Renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "disaster_scatter",
			Name:      "renders_total",
			Help:      "Charts rendered by output format.",
		}, []string{"format"}),
		ChartCacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "disaster_scatter",
			Name:      "chart_cache_hits_total",
			Help:      "Chart exports served from the render cache.",
		}),
	}
}
