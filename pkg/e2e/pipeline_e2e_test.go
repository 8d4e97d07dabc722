package e2e

import (
	"path/filepath"
	"testing"

	"github.com/paulmach/orb"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairwaynet/fairwaygraph/pkg/enrich"
	"github.com/fairwaynet/fairwaygraph/pkg/euris"
	"github.com/fairwaynet/fairwaygraph/pkg/fairway"
	"github.com/fairwaynet/fairwaygraph/pkg/integrate"
	"github.com/fairwaynet/fairwaygraph/pkg/logging"
	"github.com/fairwaynet/fairwaygraph/pkg/metrics"
	"github.com/fairwaynet/fairwaygraph/pkg/report"
	"github.com/fairwaynet/fairwaygraph/pkg/schema"
	"github.com/fairwaynet/fairwaygraph/pkg/snapshot"
	"github.com/fairwaynet/fairwaygraph/pkg/table"
)

// TestFullPipeline walks the complete flow: build both graphs from tables,
// enrich the primary one, stitch the networks at the border, merge,
// harmonize and validate, then round-trip the result through a snapshot.
//
// The fixture network is a tiny Rhine-like corridor: two primary junctions
// near the border, a secondary stub reaching across it, and a German pair
// continuing the waterway.
func TestFullPipeline(t *testing.T) {
	log := logging.NewNopLogger()
	reg := metrics.NewRegistry()

	// A primary network: junction 22638200 sits at the border.
	sections := table.New(fairway.ColID, fairway.ColStartJunction, fairway.ColEndJunction, fairway.ColGeometry)
	line := orb.LineString{{5.95, 51.84}, {6.03, 51.86}}
	sections.Append(table.Row{
		fairway.ColID: 1, fairway.ColStartJunction: 22638100, fairway.ColEndJunction: 22638200,
		fairway.ColGeometry: line, "FairwayId": 7,
	})
	junctions := table.New(fairway.ColID, fairway.ColGeometry)
	junctions.Append(table.Row{fairway.ColID: 22638100, fairway.ColGeometry: orb.Point{5.95, 51.84}})
	junctions.Append(table.Row{fairway.ColID: 22638200, fairway.ColGeometry: orb.Point{6.03, 51.86}})

	fb := fairway.NewBuilder(log)
	primary, filteredSections, _, err := fb.Build(sections, junctions)
	require.NoError(t, err)
	require.Equal(t, 2, primary.NodeCount())
	require.Equal(t, 1, primary.EdgeCount())

	// Enrich the primary edge with a CEMT class via exact geometry.
	enricher := enrich.NewEnricher(log)
	nav := table.New("geometry", "Code")
	nav.Append(table.Row{"geometry": line, "Code": "VIb"})
	lookup, err := enricher.BuildSectionEnrichment(enrich.Datasets{
		Sections:     filteredSections,
		Navigability: nav,
	})
	require.NoError(t, err)
	applied := enricher.Apply(primary, filteredSections, lookup)
	assert.Equal(t, 1, applied)
	reg.RecordEnrichment("navigability", applied, primary.EdgeCount()-applied)
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.EnrichedEdgesTotal.WithLabelValues("navigability")))

	edge, _ := primary.Edge("22638100", "22638200")
	cemt, _ := edge.Attributes.String(enrich.KeyCEMTClass)
	assert.Equal(t, "VIb", cemt)

	// A secondary network: a Dutch bridgehead right next to junction
	// 22638200, linked across the border to a German pair.
	eb := euris.NewBuilder(log)
	nodes, err := eb.ConcatNodes([]euris.File{{
		Name: "Node_NL_0.geojson",
		Table: rows(
			table.Row{"locode": "NLLOB", "objectcode": "J1", "sectionref": "SNL", "geometry": orb.Point{6.0301, 51.8601}, "borderpoint": "DEEMM"},
			table.Row{"locode": "NLTOL", "objectcode": "J2", "sectionref": "SNL", "geometry": orb.Point{6.01, 51.85}},
			table.Row{"locode": "DEEMM", "objectcode": "J9", "sectionref": "SDE", "geometry": orb.Point{6.1, 51.87}},
			table.Row{"locode": "DEDUI", "objectcode": "J8", "sectionref": "SDE", "geometry": orb.Point{6.4, 51.9}},
		),
	}})
	require.NoError(t, err)
	sectionsEU, err := eb.ConcatSections([]euris.File{{
		Name: "FairwaySection_NL_0.geojson",
		Table: rows(
			table.Row{"code": "SNL", "geometry": orb.LineString{{6.01, 51.85}, {6.0301, 51.8601}}},
			table.Row{"code": "SDE", "geometry": orb.LineString{{6.1, 51.87}, {6.4, 51.9}}},
		),
	}})
	require.NoError(t, err)

	secondary := eb.Build(nodes, sectionsEU)
	require.True(t, secondary.HasEdge("NL_J1", "DE_J9"), "border link must exist")

	// Stitch: the bridgehead NL_J1 sits well inside the 100 m default
	// threshold around primary junction 22638200.
	stitcher, err := integrate.NewStitcher(integrate.DefaultStitchConfig(), log)
	require.NoError(t, err)
	connections := stitcher.FindBorderConnections(primary, secondary)
	require.Len(t, connections, 1)
	assert.Equal(t, "DE_J9", connections[0].ForeignNode)
	assert.Equal(t, "NL_J1", connections[0].BridgeheadNode)
	assert.Equal(t, "22638200", connections[0].PrimaryNode)
	assert.Less(t, connections[0].Distance, 100.0)

	// Merge and harmonize.
	merger, err := integrate.NewMerger(integrate.DefaultMergeConfig(), log)
	require.NoError(t, err)
	combined := merger.Merge(primary, secondary, connections)

	assert.True(t, combined.HasEdge("FIS_22638200", "EURIS_DE_J9"))
	assert.False(t, combined.HasNode("EURIS_NL_J1"), "home-country secondary nodes stay out")

	mapping := schema.DefaultMapping()
	schema.NewHarmonizer(mapping, log).Apply(combined)
	fisEdge, _ := combined.Edge("FIS_22638100", "FIS_22638200")
	assert.True(t, fisEdge.Attributes.Has("fairway_id"), "FairwayId renamed to fairway_id")

	// Validate: one border connection, baseline 1, Lobith present.
	validator, err := report.NewValidator(report.Config{ExpectedBorderConnections: 1}, mapping, log)
	require.NoError(t, err)
	result := validator.Run(combined)

	assert.Equal(t, report.StatusPass, result.BorderIntegrity.Status)
	require.Len(t, result.CriticalConnections, 1)
	assert.Equal(t, report.StatusPass, result.CriticalConnections[0].Status)
	assert.Equal(t, 1, result.Statistics.ConnectedComponents,
		"the border edge must join both networks into one component")

	md := report.RenderMarkdown(result)
	assert.Contains(t, md, "Lobith Connection")

	// Snapshot round-trip preserves the combined graph.
	path := filepath.Join(t.TempDir(), "combined.snap")
	_, err = snapshot.Save(path, combined, log)
	require.NoError(t, err)
	loaded, err := snapshot.Load(path, log)
	require.NoError(t, err)
	assert.Equal(t, combined.NodeCount(), loaded.NodeCount())
	assert.Equal(t, combined.EdgeCount(), loaded.EdgeCount())
}

func rows(rs ...table.Row) *table.Table {
	t := table.New()
	for _, r := range rs {
		t.Append(r)
	}
	return t
}
