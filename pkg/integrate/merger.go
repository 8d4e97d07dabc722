package integrate

import (
	"github.com/fairwaynet/fairwaygraph/pkg/graph"
	"github.com/fairwaynet/fairwaygraph/pkg/logging"
	"github.com/fairwaynet/fairwaygraph/pkg/validation"
)

// SourceBorder tags the bridging edges added between the networks.
const SourceBorder = "BORDER"

// Attribute keys carried by border edges.
const (
	KeyBridgehead     = "bridgehead"
	KeyDistanceGap    = "distance_gap"
	KeyConnectionType = "connection_type"
)

// MergeConfig parameterizes the combined-graph construction.
type MergeConfig struct {
	// PrimaryTag and SecondaryTag prefix node ids and stamp data_source.
	PrimaryTag   string `yaml:"primary_tag" validate:"required"`
	SecondaryTag string `yaml:"secondary_tag" validate:"required"`
	// HomeCountry selects which secondary nodes the primary network replaces.
	HomeCountry string `yaml:"home_country" validate:"required,len=2"`
	// PruneNodeIDs lists primary node ids dropped from the combined graph.
	// Their incident edges are dropped with them.
	PruneNodeIDs []string `yaml:"prune_node_ids"`
	// PruneEdgeIDs lists primary edge Id attributes dropped outright.
	PruneEdgeIDs []string `yaml:"prune_edge_ids"`
	// EdgeIDAttribute names the edge attribute PruneEdgeIDs matches against.
	EdgeIDAttribute string `yaml:"edge_id_attribute"`
}

// DefaultMergeConfig returns the production defaults, including the border
// corrections around the Lobith crossing where the secondary network
// represents the waterway better than the primary stubs do.
func DefaultMergeConfig() MergeConfig {
	return MergeConfig{
		PrimaryTag:      "FIS",
		SecondaryTag:    "EURIS",
		HomeCountry:     "NL",
		PruneNodeIDs:    []string{"22637860", "22638030"},
		PruneEdgeIDs:    []string{"22638449"},
		EdgeIDAttribute: "Id",
	}
}

// Validate checks the configuration.
func (c MergeConfig) Validate() error {
	return validation.NewConfigValidator("MergeConfig").
		Required("PrimaryTag", c.PrimaryTag).
		Required("SecondaryTag", c.SecondaryTag).
		CountryCode("HomeCountry", c.HomeCountry).
		Validate()
}

// Merger combines the two network graphs.
type Merger struct {
	cfg MergeConfig
	log logging.Logger
}

// NewMerger creates a merger. Zero config fields fall back to defaults.
func NewMerger(cfg MergeConfig, log logging.Logger) (*Merger, error) {
	def := DefaultMergeConfig()
	cfg.PrimaryTag = validation.DefaultOr(cfg.PrimaryTag, def.PrimaryTag)
	cfg.SecondaryTag = validation.DefaultOr(cfg.SecondaryTag, def.SecondaryTag)
	cfg.HomeCountry = validation.DefaultOr(cfg.HomeCountry, def.HomeCountry)
	cfg.EdgeIDAttribute = validation.DefaultOr(cfg.EdgeIDAttribute, def.EdgeIDAttribute)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Merger{cfg: cfg, log: log.With(logging.Component("merge"))}, nil
}

// Merge builds the combined graph: primary elements prefixed with the
// primary tag minus the pruned ids, secondary elements prefixed with the
// secondary tag minus everything in the home country, and one border edge
// per connection from the primary node straight to the foreign node. The
// bridgehead itself is excluded as a home-country secondary node; its id
// survives only as an attribute of the border edge.
func (m *Merger) Merge(primary, secondary *graph.Graph, connections []BorderConnection) *graph.Graph {
	combined := graph.New()

	pruneNodes := make(map[string]struct{}, len(m.cfg.PruneNodeIDs))
	for _, id := range m.cfg.PruneNodeIDs {
		pruneNodes[id] = struct{}{}
	}
	pruneEdges := make(map[string]struct{}, len(m.cfg.PruneEdgeIDs))
	for _, id := range m.cfg.PruneEdgeIDs {
		pruneEdges[id] = struct{}{}
	}

	m.log.Info("adding primary elements", logging.Source(m.cfg.PrimaryTag))
	prunedNodes, prunedEdges := 0, 0
	for _, node := range primary.Nodes() {
		if _, pruned := pruneNodes[node.ID]; pruned {
			m.log.Info("pruning primary node", logging.NodeID(node.ID))
			prunedNodes++
			continue
		}
		combined.AddNode(m.cfg.PrimaryTag+"_"+node.ID, sourced(node.Attributes, m.cfg.PrimaryTag))
	}
	for _, edge := range primary.Edges() {
		if id, ok := edge.Attributes.String(m.cfg.EdgeIDAttribute); ok {
			if _, pruned := pruneEdges[id]; pruned {
				m.log.Info("pruning primary edge",
					logging.String("edge_id", id),
					logging.String("u", edge.U), logging.String("v", edge.V))
				prunedEdges++
				continue
			}
		}
		if _, pruned := pruneNodes[edge.U]; pruned {
			continue
		}
		if _, pruned := pruneNodes[edge.V]; pruned {
			continue
		}
		combined.AddEdge(m.cfg.PrimaryTag+"_"+edge.U, m.cfg.PrimaryTag+"_"+edge.V,
			sourced(edge.Attributes, m.cfg.PrimaryTag))
	}

	m.log.Info("adding secondary elements excluding home country",
		logging.Source(m.cfg.SecondaryTag))
	for _, node := range secondary.Nodes() {
		if nodeCountry(secondary, node.ID) == m.cfg.HomeCountry {
			continue
		}
		combined.AddNode(m.cfg.SecondaryTag+"_"+node.ID, sourced(node.Attributes, m.cfg.SecondaryTag))
	}
	for _, edge := range secondary.Edges() {
		if nodeCountry(secondary, edge.U) == m.cfg.HomeCountry ||
			nodeCountry(secondary, edge.V) == m.cfg.HomeCountry {
			continue
		}
		combined.AddEdge(m.cfg.SecondaryTag+"_"+edge.U, m.cfg.SecondaryTag+"_"+edge.V,
			sourced(edge.Attributes, m.cfg.SecondaryTag))
	}

	m.log.Info("adding border connections", logging.Count(len(connections)))
	for _, conn := range connections {
		attrs := conn.EdgeAttrs.Clone()
		attrs[graph.KeyDataSource] = SourceBorder
		attrs[KeyBridgehead] = conn.BridgeheadNode
		attrs[KeyDistanceGap] = conn.Distance
		attrs[KeyConnectionType] = conn.Type
		combined.AddEdge(
			m.cfg.PrimaryTag+"_"+conn.PrimaryNode,
			m.cfg.SecondaryTag+"_"+conn.ForeignNode,
			attrs)
	}

	components := combined.ConnectedComponents()
	m.log.Info("merged graph",
		logging.Nodes(combined.NodeCount()),
		logging.Edges(combined.EdgeCount()),
		logging.Components(len(components)),
		logging.Int("pruned_nodes", prunedNodes),
		logging.Int("pruned_edges", prunedEdges))

	return combined
}

// sourced clones the attributes and stamps the data source.
func sourced(attrs graph.Attributes, source string) graph.Attributes {
	out := attrs.Clone()
	out[graph.KeyDataSource] = source
	return out
}
