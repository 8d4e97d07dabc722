// Package snapshot persists graphs between pipeline stages as
// snappy-compressed JSON documents.
package snapshot

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/golang/snappy"

	"github.com/fairwaynet/fairwaygraph/pkg/graph"
	"github.com/fairwaynet/fairwaygraph/pkg/logging"
)

// Numeric attribute values round-trip through JSON as float64. The typed
// accessors on graph.Attributes absorb that, so loaded graphs behave like
// freshly built ones.

type nodeDoc struct {
	ID         string           `json:"id"`
	Attributes graph.Attributes `json:"attributes,omitempty"`
}

type edgeDoc struct {
	U          string           `json:"u"`
	V          string           `json:"v"`
	Attributes graph.Attributes `json:"attributes,omitempty"`
}

type graphDoc struct {
	Version int       `json:"version"`
	Nodes   []nodeDoc `json:"nodes"`
	Edges   []edgeDoc `json:"edges"`
}

const formatVersion = 1

// Encode serializes a graph to compressed bytes.
func Encode(g *graph.Graph) ([]byte, error) {
	doc := graphDoc{
		Version: formatVersion,
		Nodes:   make([]nodeDoc, 0, g.NodeCount()),
		Edges:   make([]edgeDoc, 0, g.EdgeCount()),
	}
	for _, node := range g.Nodes() {
		doc.Nodes = append(doc.Nodes, nodeDoc{ID: node.ID, Attributes: node.Attributes})
	}
	for _, edge := range g.Edges() {
		doc.Edges = append(doc.Edges, edgeDoc{U: edge.U, V: edge.V, Attributes: edge.Attributes})
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal graph: %w", err)
	}
	return snappy.Encode(nil, raw), nil
}

// Decode deserializes a graph from compressed bytes.
func Decode(data []byte) (*graph.Graph, error) {
	raw, err := snappy.Decode(nil, data)
	if err != nil {
		return nil, fmt.Errorf("decompress snapshot: %w", err)
	}

	var doc graphDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal graph: %w", err)
	}
	if doc.Version != formatVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d", doc.Version)
	}

	g := graph.New()
	for _, n := range doc.Nodes {
		g.AddNode(n.ID, n.Attributes)
	}
	for _, e := range doc.Edges {
		g.AddEdge(e.U, e.V, e.Attributes)
	}
	return g, nil
}

// Save writes a graph snapshot to path and returns the compressed size.
func Save(path string, g *graph.Graph, log logging.Logger) (int, error) {
	if log == nil {
		log = logging.NewNopLogger()
	}

	data, err := Encode(g)
	if err != nil {
		return 0, err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return 0, fmt.Errorf("write snapshot: %w", err)
	}

	log.Info("saved graph snapshot",
		logging.Path(path),
		logging.Nodes(g.NodeCount()),
		logging.Edges(g.EdgeCount()),
		logging.Int("bytes", len(data)))
	return len(data), nil
}

// Load reads a graph snapshot from path.
func Load(path string, log logging.Logger) (*graph.Graph, error) {
	if log == nil {
		log = logging.NewNopLogger()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	g, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", path, err)
	}

	log.Info("loaded graph snapshot",
		logging.Path(path),
		logging.Nodes(g.NodeCount()),
		logging.Edges(g.EdgeCount()))
	return g, nil
}

// Summary describes a snapshot without exposing the graph.
type Summary struct {
	Path       string `json:"path"`
	Nodes      int    `json:"nodes"`
	Edges      int    `json:"edges"`
	Components int    `json:"components"`
	Bytes      int    `json:"bytes"`
}

// Describe loads a snapshot and returns its summary.
func Describe(path string) (Summary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Summary{}, fmt.Errorf("read snapshot: %w", err)
	}
	g, err := Decode(data)
	if err != nil {
		return Summary{}, err
	}
	return Summary{
		Path:       path,
		Nodes:      g.NodeCount(),
		Edges:      g.EdgeCount(),
		Components: len(g.ConnectedComponents()),
		Bytes:      len(data),
	}, nil
}
