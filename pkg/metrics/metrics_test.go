package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/fairwaynet/fairwaygraph/pkg/graph"
)

func TestRecordStage(t *testing.T) {
	r := NewRegistry()

	r.RecordStage("build_fairway", "ok", 2*time.Second)
	r.RecordStage("build_fairway", "error", time.Second)

	if got := testutil.ToFloat64(r.StageRunsTotal.WithLabelValues("build_fairway", "ok")); got != 1 {
		t.Errorf("ok runs = %v", got)
	}
	if got := testutil.ToFloat64(r.StageErrors.WithLabelValues("build_fairway")); got != 1 {
		t.Errorf("errors = %v", got)
	}
}

func TestObserveGraph(t *testing.T) {
	r := NewRegistry()

	g := graph.New()
	g.AddEdge("a", "b", nil)
	g.AddNode("c", nil)
	r.ObserveGraph("fairway", g)

	if got := testutil.ToFloat64(r.GraphNodesTotal.WithLabelValues("fairway")); got != 3 {
		t.Errorf("nodes = %v", got)
	}
	if got := testutil.ToFloat64(r.GraphEdgesTotal.WithLabelValues("fairway")); got != 1 {
		t.Errorf("edges = %v", got)
	}
	if got := testutil.ToFloat64(r.GraphComponentsTotal.WithLabelValues("fairway")); got != 2 {
		t.Errorf("components = %v", got)
	}
}

func TestRecordEnrichment(t *testing.T) {
	r := NewRegistry()
	r.RecordEnrichment("navigability", 4, 1)

	if got := testutil.ToFloat64(r.EnrichedEdgesTotal.WithLabelValues("navigability")); got != 4 {
		t.Errorf("enriched = %v", got)
	}
	if got := testutil.ToFloat64(r.EnrichmentSkipTotal.WithLabelValues("navigability")); got != 1 {
		t.Errorf("skipped = %v", got)
	}
}

func TestRecordBorderConnections(t *testing.T) {
	r := NewRegistry()
	r.RecordBorderConnections([]float64{5, 80})

	if got := testutil.ToFloat64(r.BorderConnectionsTotal); got != 2 {
		t.Errorf("connections = %v", got)
	}
}

func TestDefaultRegistryIsSingleton(t *testing.T) {
	if DefaultRegistry() != DefaultRegistry() {
		t.Error("DefaultRegistry must return the same instance")
	}
}
