package schema

import (
	"testing"

	"github.com/fairwaynet/fairwaygraph/pkg/graph"
	"github.com/fairwaynet/fairwaygraph/pkg/logging"
)

func TestApply_RenamesNodeAndEdgeKeys(t *testing.T) {
	g := graph.New()
	g.AddNode("a", graph.Attributes{"Id": 10, "Name": "Sluis A", "keep": true})
	g.AddEdge("a", "b", graph.Attributes{"Id": 100, "FairwayId": 7})

	h := NewHarmonizer(DefaultMapping(), logging.NewNopLogger())
	nodeRenames, edgeRenames := h.Apply(g)

	if nodeRenames != 2 || edgeRenames != 2 {
		t.Errorf("renames = %d/%d, want 2/2", nodeRenames, edgeRenames)
	}

	node, _ := g.Node("a")
	if node.Attributes.Has("Id") || node.Attributes.Has("Name") {
		t.Error("old keys must be removed")
	}
	if id, _ := node.Attributes.Int("id"); id != 10 {
		t.Errorf("id = %v", node.Attributes["id"])
	}
	if v, ok := node.Attributes.Bool("keep"); !ok || !v {
		t.Error("unmapped keys must survive untouched")
	}

	edge, _ := g.Edge("a", "b")
	if fw, _ := edge.Attributes.Int("fairway_id"); fw != 7 {
		t.Errorf("fairway_id = %v", edge.Attributes["fairway_id"])
	}
}

func TestApply_StrictRenameOverwrites(t *testing.T) {
	g := graph.New()
	g.AddNode("a", graph.Attributes{"Id": 10, "id": 99})

	h := NewHarmonizer(DefaultMapping(), logging.NewNopLogger())
	h.Apply(g)

	node, _ := g.Node("a")
	if id, _ := node.Attributes.Int("id"); id != 10 {
		t.Errorf("id = %d, strict rename must overwrite", id)
	}
}

func TestParseMapping(t *testing.T) {
	data := []byte("nodes:\n  Foo: foo\nedges:\n  Bar: bar\n")
	m, err := ParseMapping(data)
	if err != nil {
		t.Fatal(err)
	}
	if m.Nodes["Foo"] != "foo" || m.Edges["Bar"] != "bar" {
		t.Errorf("mapping = %+v", m)
	}
}

func TestCanonicalKeys_IncludeMappingTargets(t *testing.T) {
	m := DefaultMapping()

	nodeKeys := m.CanonicalNodeKeys()
	for _, k := range []string{"id", "name", graph.KeyDataSource, graph.KeyCountryCode} {
		if _, ok := nodeKeys[k]; !ok {
			t.Errorf("node key %q missing", k)
		}
	}

	edgeKeys := m.CanonicalEdgeKeys()
	for _, k := range []string{"fairway_id", "bridgehead", graph.KeyLengthM} {
		if _, ok := edgeKeys[k]; !ok {
			t.Errorf("edge key %q missing", k)
		}
	}
}
