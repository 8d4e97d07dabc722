// Package schema harmonizes attribute names across the merged graph. The
// source exports carry CamelCase column names; the canonical schema is
// lowercase snake_case.
package schema

import (
	"gopkg.in/yaml.v3"

	"github.com/fairwaynet/fairwaygraph/pkg/graph"
	"github.com/fairwaynet/fairwaygraph/pkg/logging"
)

// Mapping declares old→new attribute renames, separately for nodes and
// edges. A rename is strict: the old key is removed and its value moves to
// the new key, overwriting any existing value there.
type Mapping struct {
	Nodes map[string]string `yaml:"nodes"`
	Edges map[string]string `yaml:"edges"`
}

// DefaultMapping returns the canonical renames for the merged graph.
func DefaultMapping() Mapping {
	return Mapping{
		Nodes: map[string]string{
			"Id":   "id",
			"Name": "name",
		},
		Edges: map[string]string{
			"Id":        "id",
			"Name":      "name",
			"FairwayId": "fairway_id",
			"RouteId":   "route_id",
		},
	}
}

// ParseMapping reads a mapping from YAML.
func ParseMapping(data []byte) (Mapping, error) {
	var m Mapping
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Mapping{}, err
	}
	return m, nil
}

// CanonicalNodeKeys returns the node attribute names the merged graph is
// expected to carry: the rename targets plus the keys the pipeline stamps.
func (m Mapping) CanonicalNodeKeys() map[string]struct{} {
	keys := map[string]struct{}{
		graph.KeyDataSource:  {},
		graph.KeyGeometryWKT: {},
		graph.KeyCountryCode: {},
		"node_id":            {},
	}
	for _, target := range m.Nodes {
		keys[target] = struct{}{}
	}
	return keys
}

// CanonicalEdgeKeys returns the expected edge attribute names.
func (m Mapping) CanonicalEdgeKeys() map[string]struct{} {
	keys := map[string]struct{}{
		graph.KeyDataSource:  {},
		graph.KeyGeometryWKT: {},
		graph.KeyLengthM:     {},
		"bridgehead":         {},
		"distance_gap":       {},
		"connection_type":    {},
	}
	for _, target := range m.Edges {
		keys[target] = struct{}{}
	}
	return keys
}

// Harmonizer renames graph attributes per a mapping.
type Harmonizer struct {
	mapping Mapping
	log     logging.Logger
}

// NewHarmonizer creates a harmonizer for the given mapping.
func NewHarmonizer(mapping Mapping, log logging.Logger) *Harmonizer {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Harmonizer{mapping: mapping, log: log.With(logging.Component("schema"))}
}

// Apply renames attributes on every node and edge in place and returns the
// number of renames performed on each.
func (h *Harmonizer) Apply(g *graph.Graph) (nodeRenames, edgeRenames int) {
	h.log.Info("harmonizing node attributes", logging.Count(len(h.mapping.Nodes)))
	for _, node := range g.Nodes() {
		nodeRenames += renameKeys(node.Attributes, h.mapping.Nodes)
	}

	h.log.Info("harmonizing edge attributes", logging.Count(len(h.mapping.Edges)))
	for _, edge := range g.Edges() {
		edgeRenames += renameKeys(edge.Attributes, h.mapping.Edges)
	}

	h.log.Info("harmonized graph",
		logging.Int("node_renames", nodeRenames),
		logging.Int("edge_renames", edgeRenames))
	return nodeRenames, edgeRenames
}

func renameKeys(attrs graph.Attributes, mapping map[string]string) int {
	renamed := 0
	for old, target := range mapping {
		v, ok := attrs[old]
		if !ok {
			continue
		}
		delete(attrs, old)
		attrs[target] = v
		renamed++
	}
	return renamed
}
