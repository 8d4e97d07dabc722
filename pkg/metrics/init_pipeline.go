package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initPipelineMetrics() {
	r.StageRunsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "fairwaygraph_stage_runs_total",
			Help: "Total number of pipeline stage executions",
		},
		[]string{"stage", "status"},
	)

	r.StageDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fairwaygraph_stage_duration_seconds",
			Help:    "Pipeline stage duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300},
		},
		[]string{"stage"},
	)

	r.StageErrors = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "fairwaygraph_stage_errors_total",
			Help: "Total number of pipeline stage failures",
		},
		[]string{"stage"},
	)

	r.EnrichedEdgesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "fairwaygraph_enriched_edges_total",
			Help: "Total number of edges that received enrichment attributes",
		},
		[]string{"dataset"},
	)

	r.EnrichmentSkipTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "fairwaygraph_enrichment_skips_total",
			Help: "Total number of records skipped during enrichment",
		},
		[]string{"dataset"},
	)

	r.SnapshotBytes = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "fairwaygraph_snapshot_bytes",
			Help: "Size of the last written graph snapshot in bytes",
		},
		[]string{"name"},
	)

	r.SnapshotWriteDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fairwaygraph_snapshot_write_duration_seconds",
			Help:    "Snapshot serialization and write duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10},
		},
	)
}
