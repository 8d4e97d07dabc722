package metrics

import (
	"time"

	"github.com/fairwaynet/fairwaygraph/pkg/graph"
)

// RecordStage records a pipeline stage execution with its duration
func (r *Registry) RecordStage(stage, status string, duration time.Duration) {
	r.StageRunsTotal.WithLabelValues(stage, status).Inc()
	r.StageDuration.WithLabelValues(stage).Observe(duration.Seconds())
	if status != "ok" {
		r.StageErrors.WithLabelValues(stage).Inc()
	}
}

// ObserveGraph records the size of a built graph under the given label
func (r *Registry) ObserveGraph(name string, g *graph.Graph) {
	r.GraphNodesTotal.WithLabelValues(name).Set(float64(g.NodeCount()))
	r.GraphEdgesTotal.WithLabelValues(name).Set(float64(g.EdgeCount()))
	r.GraphComponentsTotal.WithLabelValues(name).Set(float64(len(g.ConnectedComponents())))
}

// RecordEnrichment records enriched and skipped edge counts for a dataset
func (r *Registry) RecordEnrichment(dataset string, enriched, skipped int) {
	r.EnrichedEdgesTotal.WithLabelValues(dataset).Add(float64(enriched))
	r.EnrichmentSkipTotal.WithLabelValues(dataset).Add(float64(skipped))
}

// RecordBorderConnections records the stitching outcome
func (r *Registry) RecordBorderConnections(gaps []float64) {
	r.BorderConnectionsTotal.Set(float64(len(gaps)))
	for _, gap := range gaps {
		r.BorderGapMeters.Observe(gap)
	}
}

// RecordSnapshot records a snapshot write
func (r *Registry) RecordSnapshot(name string, bytes int, duration time.Duration) {
	r.SnapshotBytes.WithLabelValues(name).Set(float64(bytes))
	r.SnapshotWriteDuration.Observe(duration.Seconds())
}
