package snapshot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fairwaynet/fairwaygraph/pkg/graph"
	"github.com/fairwaynet/fairwaygraph/pkg/logging"
)

func fixtureGraph() *graph.Graph {
	g := graph.New()
	g.AddNode("NL_J1", graph.Attributes{
		graph.KeyCountryCode: "NL",
		graph.KeyX:           4.5,
		graph.KeyY:           51.9,
	})
	g.AddEdge("NL_J1", "NL_J2", graph.Attributes{
		"sectionref":        "S1",
		graph.KeyLengthM:    1234.5,
		graph.KeyIsBorder:   false,
		graph.KeyDataSource: "EURIS",
	})
	return g
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.snap")

	g := fixtureGraph()
	size, err := Save(path, g, logging.NewNopLogger())
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if size <= 0 {
		t.Error("size must be positive")
	}

	loaded, err := Load(path, logging.NewNopLogger())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if loaded.NodeCount() != g.NodeCount() || loaded.EdgeCount() != g.EdgeCount() {
		t.Errorf("loaded %d/%d, want %d/%d",
			loaded.NodeCount(), loaded.EdgeCount(), g.NodeCount(), g.EdgeCount())
	}

	node, ok := loaded.Node("NL_J1")
	if !ok {
		t.Fatal("node NL_J1 missing")
	}
	if cc, _ := node.Attributes.String(graph.KeyCountryCode); cc != "NL" {
		t.Errorf("countrycode = %q", cc)
	}
	if x, _ := node.Attributes.Float(graph.KeyX); x != 4.5 {
		t.Errorf("x = %v", x)
	}

	edge, ok := loaded.Edge("NL_J2", "NL_J1")
	if !ok {
		t.Fatal("edge missing in reverse lookup")
	}
	if l, _ := edge.Attributes.Float(graph.KeyLengthM); l != 1234.5 {
		t.Errorf("length_m = %v", l)
	}
	if b, ok := edge.Attributes.Bool(graph.KeyIsBorder); !ok || b {
		t.Errorf("is_border = %v, %v", b, ok)
	}
}

func TestDecode_RejectsCorruptData(t *testing.T) {
	if _, err := Decode([]byte("not a snapshot")); err == nil {
		t.Error("expected error for corrupt data")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.snap"), nil); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestDescribe(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.snap")
	if _, err := Save(path, fixtureGraph(), nil); err != nil {
		t.Fatal(err)
	}

	s, err := Describe(path)
	if err != nil {
		t.Fatal(err)
	}
	if s.Nodes != 2 || s.Edges != 1 || s.Components != 1 {
		t.Errorf("summary = %+v", s)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if int64(s.Bytes) != info.Size() {
		t.Errorf("Bytes = %d, file is %d", s.Bytes, info.Size())
	}
}

func TestEncode_EmptyGraph(t *testing.T) {
	data, err := Encode(graph.New())
	if err != nil {
		t.Fatal(err)
	}
	g, err := Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	if g.NodeCount() != 0 || g.EdgeCount() != 0 {
		t.Error("expected empty graph")
	}
}
