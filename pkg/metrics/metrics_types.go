package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for the pipeline
type Registry struct {
	// Stage Metrics
	StageRunsTotal *prometheus.CounterVec
	StageDuration  *prometheus.HistogramVec
	StageErrors    *prometheus.CounterVec

	// Graph Metrics
	GraphNodesTotal      *prometheus.GaugeVec
	GraphEdgesTotal      *prometheus.GaugeVec
	GraphComponentsTotal *prometheus.GaugeVec

	// Enrichment Metrics
	EnrichedEdgesTotal  *prometheus.CounterVec
	EnrichmentSkipTotal *prometheus.CounterVec

	// Border Metrics
	BorderConnectionsTotal prometheus.Gauge
	BorderGapMeters        prometheus.Histogram

	// Snapshot Metrics
	SnapshotBytes         *prometheus.GaugeVec
	SnapshotWriteDuration prometheus.Histogram

	registry *prometheus.Registry
}

var (
	// Global registry instance
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
	}

	r.initPipelineMetrics()
	r.initGraphMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
