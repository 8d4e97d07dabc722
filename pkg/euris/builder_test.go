package euris

import (
	"testing"

	"github.com/paulmach/orb"

	"github.com/fairwaynet/fairwaygraph/pkg/graph"
	"github.com/fairwaynet/fairwaygraph/pkg/logging"
	"github.com/fairwaynet/fairwaygraph/pkg/table"
)

func nodeFile(name string, rows ...table.Row) File {
	t := table.New(ColLocode, ColObjectCode, ColSectionRef, ColBorderPoint, ColGeometry)
	for _, r := range rows {
		t.Append(r)
	}
	return File{Name: name, Table: t}
}

func sectionFile(name string, rows ...table.Row) File {
	t := table.New(ColCode, ColGeometry)
	for _, r := range rows {
		t.Append(r)
	}
	return File{Name: name, Table: t}
}

func TestConcatNodes_CompositeIDFromLocode(t *testing.T) {
	b := NewBuilder(logging.NewNopLogger())

	// File named DE but locode says NL: the locode wins.
	nodes, err := b.ConcatNodes([]File{
		nodeFile("Node_DE_0.geojson", table.Row{ColLocode: "NLRTM", ColObjectCode: "J1"}),
	})
	if err != nil {
		t.Fatalf("ConcatNodes: %v", err)
	}

	row := nodes.Rows()[0]
	if cc, _ := row.String(ColCountryCode); cc != "NL" {
		t.Errorf("countrycode = %q, want NL (from locode, not filename)", cc)
	}
	if id, _ := row.String(ColNodeID); id != "NL_J1" {
		t.Errorf("node_id = %q, want NL_J1", id)
	}
}

func TestConcatNodes_DeduplicatesIgnoringPath(t *testing.T) {
	b := NewBuilder(logging.NewNopLogger())

	nodes, err := b.ConcatNodes([]File{
		nodeFile("Node_NL_0.geojson", table.Row{ColLocode: "NLRTM", ColObjectCode: "J1"}),
		nodeFile("Node_NL_1.geojson", table.Row{ColLocode: "NLRTM", ColObjectCode: "J1"}),
	})
	if err != nil {
		t.Fatal(err)
	}
	if nodes.Len() != 1 {
		t.Errorf("Len() = %d, want 1 after dedupe", nodes.Len())
	}
}

func TestConcatNodes_MissingRequiredColumnFails(t *testing.T) {
	b := NewBuilder(logging.NewNopLogger())
	bad := File{Name: "Node_NL_0.geojson", Table: table.New("something")}
	if _, err := b.ConcatNodes([]File{bad}); err == nil {
		t.Error("expected error for missing locode/objectcode columns")
	}
}

func buildSmallNetwork(t *testing.T) (*Builder, *graph.Graph) {
	t.Helper()
	b := NewBuilder(logging.NewNopLogger())

	nodes, err := b.ConcatNodes([]File{
		nodeFile("Node_NL_0.geojson",
			table.Row{ColLocode: "NLRTM", ColObjectCode: "J1", ColSectionRef: "S1", ColGeometry: orb.Point{4.5, 51.9}},
			table.Row{ColLocode: "NLAMS", ColObjectCode: "J2", ColSectionRef: "S1", ColGeometry: orb.Point{4.9, 52.4}},
			table.Row{ColLocode: "NLNIJ", ColObjectCode: "J3", ColSectionRef: "S2", ColGeometry: orb.Point{5.9, 51.8}, ColBorderPoint: "DEEMM"},
			table.Row{ColLocode: "NLARN", ColObjectCode: "J4", ColSectionRef: "S2", ColGeometry: orb.Point{5.95, 51.98}},
			table.Row{ColLocode: "NLMAA", ColObjectCode: "J5", ColSectionRef: "S4", ColGeometry: orb.Point{5.7, 50.8}},
		),
		nodeFile("Node_DE_0.geojson",
			table.Row{ColLocode: "DEEMM", ColObjectCode: "J9", ColSectionRef: "S3", ColGeometry: orb.Point{6.3, 51.8}},
			table.Row{ColLocode: "DEDUI", ColObjectCode: "J8", ColSectionRef: "S3", ColGeometry: orb.Point{6.7, 51.4}},
		),
	})
	if err != nil {
		t.Fatal(err)
	}

	sections, err := b.ConcatSections([]File{
		sectionFile("FairwaySection_NL_0.geojson",
			table.Row{ColCode: "S1", ColGeometry: orb.LineString{{4.5, 51.9}, {4.9, 52.4}}},
			table.Row{ColCode: "S2", ColGeometry: orb.LineString{{5.9, 51.8}, {5.95, 51.98}}},
			table.Row{ColCode: "S4", ColGeometry: orb.LineString{{5.7, 50.8}, {5.8, 50.9}}},
		),
		sectionFile("FairwaySection_DE_0.geojson",
			table.Row{ColCode: "S3", ColGeometry: orb.LineString{{6.3, 51.8}, {6.7, 51.4}}},
		),
	})
	if err != nil {
		t.Fatal(err)
	}

	return b, b.Build(nodes, sections)
}

func TestBuild_EdgesFromSectionRefs(t *testing.T) {
	_, g := buildSmallNetwork(t)

	// S1 links its first and last referencing nodes.
	if !g.HasEdge("NL_J1", "NL_J2") {
		t.Error("edge NL_J1 - NL_J2 missing")
	}
	edge, _ := g.Edge("NL_J1", "NL_J2")
	if ref, _ := edge.Attributes.String(ColSectionRef); ref != "S1" {
		t.Errorf("sectionref = %q", ref)
	}
	if !g.HasEdge("DE_J9", "DE_J8") {
		t.Error("edge DE_J9 - DE_J8 missing")
	}

	// S4 has a single referencing node: no edge at all.
	for _, e := range g.Edges() {
		if ref, _ := e.Attributes.String(ColSectionRef); ref == "S4" {
			t.Error("degenerate single-reference section must not produce an edge")
		}
	}
	if g.HasNode("NL_J5") {
		t.Error("node referenced only by a degenerate section must not appear")
	}
}

func TestBuild_DuplicateSectionCodeLastWins(t *testing.T) {
	b := NewBuilder(logging.NewNopLogger())

	nodes, err := b.ConcatNodes([]File{
		nodeFile("Node_NL_0.geojson",
			table.Row{ColLocode: "NLRTM", ColObjectCode: "J1", ColSectionRef: "S1"},
			table.Row{ColLocode: "NLAMS", ColObjectCode: "J2", ColSectionRef: "S1"},
		),
	})
	if err != nil {
		t.Fatal(err)
	}

	sections := table.New(ColCode, "name")
	sections.Append(table.Row{ColCode: "S1", "name": "first"})
	sections.Append(table.Row{ColCode: "S1", "name": "second"})

	g := b.Build(nodes, sections)
	if g.EdgeCount() != 1 {
		t.Fatalf("EdgeCount() = %d, want 1", g.EdgeCount())
	}
	edge, _ := g.Edge("NL_J1", "NL_J2")
	if name, _ := edge.Attributes.String("name"); name != "second" {
		t.Errorf("name = %q, want the last row's attributes to win", name)
	}
}

func TestBuild_BorderLinks(t *testing.T) {
	_, g := buildSmallNetwork(t)

	// NL_J3 is only in the graph via its border link; the link resolves
	// borderpoint DEEMM to node DE_J9.
	if !g.HasEdge("NL_J3", "DE_J9") {
		t.Fatal("border link NL_J3 - DE_J9 missing")
	}
	edge, _ := g.Edge("NL_J3", "DE_J9")
	if isBorder, _ := edge.Attributes.Bool(graph.KeyIsBorder); !isBorder {
		t.Error("border link must carry is_border = true")
	}
	if _, ok := edge.Attributes.String(graph.KeyGeometryWKT); !ok {
		t.Error("border link should get a synthesized line geometry")
	}

	regular, _ := g.Edge("NL_J1", "NL_J2")
	if isBorder, ok := regular.Attributes.Bool(graph.KeyIsBorder); !ok || isBorder {
		t.Error("regular edges must carry is_border = false")
	}
}

func TestBuild_ComponentsAndLengths(t *testing.T) {
	_, g := buildSmallNetwork(t)

	// Two components: {NL_J1, NL_J2} and {NL_J3, DE_J9, DE_J8}.
	counts := map[int]int{}
	for _, n := range g.Nodes() {
		idx, ok := n.Attributes.Int(graph.KeySubgraph)
		if !ok {
			t.Fatalf("node %s missing subgraph", n.ID)
		}
		counts[idx]++
	}
	if len(counts) != 2 {
		t.Errorf("component count = %d, want 2", len(counts))
	}

	for _, e := range g.Edges() {
		if l, ok := e.Attributes.Float(graph.KeyLengthM); !ok || l <= 0 {
			t.Errorf("edge %s-%s length_m = %v, %v", e.U, e.V, l, ok)
		}
	}
}

func TestBuild_MissingJoinColumnsYieldEmptyGraph(t *testing.T) {
	b := NewBuilder(logging.NewNopLogger())

	nodes := table.New(ColNodeID) // no sectionref
	sections := table.New(ColCode)
	g := b.Build(nodes, sections)
	if g.EdgeCount() != 0 {
		t.Error("expected empty edge set")
	}
}

func TestBuild_AbsentBorderTargetSkipped(t *testing.T) {
	b := NewBuilder(logging.NewNopLogger())

	nodes, err := b.ConcatNodes([]File{
		nodeFile("Node_NL_0.geojson",
			table.Row{ColLocode: "NLRTM", ColObjectCode: "J1", ColSectionRef: "S1", ColBorderPoint: "XXNOP"},
			table.Row{ColLocode: "NLAMS", ColObjectCode: "J2", ColSectionRef: "S1"},
		),
	})
	if err != nil {
		t.Fatal(err)
	}
	sections, err := b.ConcatSections([]File{
		sectionFile("FairwaySection_NL_0.geojson", table.Row{ColCode: "S1"}),
	})
	if err != nil {
		t.Fatal(err)
	}

	g := b.Build(nodes, sections)
	if g.EdgeCount() != 1 {
		t.Errorf("EdgeCount() = %d, want only the section edge", g.EdgeCount())
	}
}
