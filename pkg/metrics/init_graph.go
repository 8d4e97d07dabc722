package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initGraphMetrics() {
	r.GraphNodesTotal = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "fairwaygraph_graph_nodes_total",
			Help: "Total number of nodes per graph",
		},
		[]string{"graph"},
	)

	r.GraphEdgesTotal = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "fairwaygraph_graph_edges_total",
			Help: "Total number of edges per graph",
		},
		[]string{"graph"},
	)

	r.GraphComponentsTotal = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "fairwaygraph_graph_components_total",
			Help: "Number of connected components per graph",
		},
		[]string{"graph"},
	)

	r.BorderConnectionsTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "fairwaygraph_border_connections_total",
			Help: "Number of border connections established in the last run",
		},
	)

	r.BorderGapMeters = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fairwaygraph_border_gap_meters",
			Help:    "Bridged distance of border connections in meters",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250},
		},
	)
}
