// Package report validates the merged graph and renders the findings as a
// markdown report: statistics, border integrity, schema compliance and a
// handful of known-critical connections.
package report

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fairwaynet/fairwaygraph/pkg/graph"
	"github.com/fairwaynet/fairwaygraph/pkg/integrate"
	"github.com/fairwaynet/fairwaygraph/pkg/logging"
	"github.com/fairwaynet/fairwaygraph/pkg/schema"
	"github.com/fairwaynet/fairwaygraph/pkg/validation"
)

// Check outcome labels.
const (
	StatusPass    = "PASS"
	StatusWarning = "WARNING"
)

// CriticalConnection names a border crossing that must exist, identified by
// a substring of one of its endpoint ids.
type CriticalConnection struct {
	Name          string `yaml:"name" validate:"required"`
	NodeSubstring string `yaml:"node_substring" validate:"required"`
}

// Config parameterizes validation.
type Config struct {
	// ExpectedBorderConnections is the known-good baseline count.
	ExpectedBorderConnections int `yaml:"expected_border_connections" validate:"min=0"`
	// CriticalConnections lists crossings that must be present.
	CriticalConnections []CriticalConnection `yaml:"critical_connections"`
}

// DefaultConfig returns the production baseline: 14 border connections with
// the Lobith crossing present.
func DefaultConfig() Config {
	return Config{
		ExpectedBorderConnections: 14,
		CriticalConnections: []CriticalConnection{
			{Name: "Lobith Connection", NodeSubstring: "22638200"},
		},
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	v := validation.NewConfigValidator("ReportConfig").
		Positive("ExpectedBorderConnections", c.ExpectedBorderConnections)
	for _, cc := range c.CriticalConnections {
		v.Required("CriticalConnections.Name", cc.Name).
			Required("CriticalConnections.NodeSubstring", cc.NodeSubstring)
	}
	return v.Validate()
}

// SubgraphStat summarizes one connected component.
type SubgraphStat struct {
	SubgraphID int `json:"subgraph_id"`
	Nodes      int `json:"nodes"`
	Edges      int `json:"edges"`
}

// Statistics is the structural summary of the merged graph.
type Statistics struct {
	TotalNodes            int            `json:"total_nodes"`
	TotalEdges            int            `json:"total_edges"`
	NodesBySource         map[string]int `json:"nodes_by_source"`
	EdgesBySource         map[string]int `json:"edges_by_source"`
	ConnectedComponents   int            `json:"connected_components"`
	LargestComponentSize  int            `json:"largest_component_size"`
	Subgraphs             []SubgraphStat `json:"subgraphs"`
	UniqueFairwaySections int            `json:"unique_fairway_sections"`
}

// GapConnection is one border edge with its bridged distance.
type GapConnection struct {
	U   string  `json:"u"`
	V   string  `json:"v"`
	Gap float64 `json:"gap"`
}

// BorderIntegrity summarizes the border edges against the baseline.
type BorderIntegrity struct {
	TotalConnections    int             `json:"total_connections"`
	ExpectedConnections int             `json:"expected_connections"`
	Status              string          `json:"status"`
	MinGapMeters        float64         `json:"min_gap_meters"`
	MaxGapMeters        float64         `json:"max_gap_meters"`
	AvgGapMeters        float64         `json:"avg_gap_meters"`
	Connections         []GapConnection `json:"connections"`
}

// ElementCompliance tracks attribute conformance for nodes or edges.
type ElementCompliance struct {
	NonStandardKeys    []string       `json:"non_standard_attributes_detected"`
	NonStandardCounts  map[string]int `json:"attribute_counts"`
	MissingCounts      map[string]int `json:"missing_counts"`
	ExpectedAttributes []string       `json:"expected_attributes"`
}

// SchemaCompliance covers both element kinds.
type SchemaCompliance struct {
	Nodes ElementCompliance `json:"nodes"`
	Edges ElementCompliance `json:"edges"`
}

// CriticalCheck is the outcome of one critical connection check.
type CriticalCheck struct {
	Name    string `json:"name"`
	Status  string `json:"status"`
	Details string `json:"details"`
}

// Report is the complete validation result.
type Report struct {
	ID                  string           `json:"id"`
	GeneratedAt         time.Time        `json:"generated_at"`
	Statistics          Statistics       `json:"statistics"`
	BorderIntegrity     BorderIntegrity  `json:"border_integrity"`
	SchemaCompliance    SchemaCompliance `json:"schema_compliance"`
	CriticalConnections []CriticalCheck  `json:"critical_connections"`
}

// Validator runs the checks over a merged graph.
type Validator struct {
	cfg     Config
	mapping schema.Mapping
	log     logging.Logger
}

// NewValidator creates a validator. A zero expected-connections count falls
// back to the default baseline.
func NewValidator(cfg Config, mapping schema.Mapping, log logging.Logger) (*Validator, error) {
	def := DefaultConfig()
	cfg.ExpectedBorderConnections = validation.DefaultOr(cfg.ExpectedBorderConnections, def.ExpectedBorderConnections)
	if cfg.CriticalConnections == nil {
		cfg.CriticalConnections = def.CriticalConnections
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Validator{cfg: cfg, mapping: mapping, log: log.With(logging.Component("report"))}, nil
}

// Run executes every check and assembles the report.
func (v *Validator) Run(g *graph.Graph) *Report {
	stage := logging.StartStage(v.log, "validate graph")
	report := &Report{
		ID:                  uuid.NewString(),
		GeneratedAt:         time.Now().UTC(),
		Statistics:          v.CheckStatistics(g),
		BorderIntegrity:     v.CheckBorderIntegrity(g),
		SchemaCompliance:    v.CheckSchemaCompliance(g),
		CriticalConnections: v.CheckCriticalConnections(g),
	}
	stage.End()
	return report
}

// CheckStatistics tallies nodes and edges per source and summarizes the
// connected components, largest first.
func (v *Validator) CheckStatistics(g *graph.Graph) Statistics {
	v.log.Info("running statistical checks")

	fairwayIDs := make(map[string]struct{})
	for _, edge := range g.Edges() {
		if id, ok := edge.Attributes.String("fairway_id"); ok && id != "" {
			fairwayIDs[id] = struct{}{}
		}
	}

	components := g.ConnectedComponents()
	sort.SliceStable(components, func(i, j int) bool {
		return len(components[i]) > len(components[j])
	})

	var subgraphs []SubgraphStat
	for i, comp := range components {
		if i >= 10 && len(comp) <= 1 {
			continue
		}
		subgraphs = append(subgraphs, SubgraphStat{
			SubgraphID: i,
			Nodes:      len(comp),
			Edges:      edgesWithin(g, comp),
		})
	}

	largest := 0
	if len(components) > 0 {
		largest = len(components[0])
	}

	return Statistics{
		TotalNodes:            g.NodeCount(),
		TotalEdges:            g.EdgeCount(),
		NodesBySource:         g.CountNodesBy(graph.KeyDataSource),
		EdgesBySource:         g.CountEdgesBy(graph.KeyDataSource),
		ConnectedComponents:   len(components),
		LargestComponentSize:  largest,
		Subgraphs:             subgraphs,
		UniqueFairwaySections: len(fairwayIDs),
	}
}

// CheckBorderIntegrity compares the border edge count against the baseline
// and summarizes the bridged gaps. Fewer connections than expected is a
// warning, never a hard failure.
func (v *Validator) CheckBorderIntegrity(g *graph.Graph) BorderIntegrity {
	v.log.Info("checking border integrity")

	var connections []GapConnection
	minGap, maxGap, sum := 0.0, 0.0, 0.0
	for _, edge := range g.Edges() {
		if src, _ := edge.Attributes.String(graph.KeyDataSource); src != integrate.SourceBorder {
			continue
		}
		gap, _ := edge.Attributes.Float(integrate.KeyDistanceGap)
		if len(connections) == 0 || gap < minGap {
			minGap = gap
		}
		if gap > maxGap {
			maxGap = gap
		}
		sum += gap
		connections = append(connections, GapConnection{U: edge.U, V: edge.V, Gap: gap})
	}

	avg := 0.0
	if len(connections) > 0 {
		avg = sum / float64(len(connections))
	}
	status := StatusPass
	if len(connections) < v.cfg.ExpectedBorderConnections {
		status = StatusWarning
	}

	return BorderIntegrity{
		TotalConnections:    len(connections),
		ExpectedConnections: v.cfg.ExpectedBorderConnections,
		Status:              status,
		MinGapMeters:        minGap,
		MaxGapMeters:        maxGap,
		AvgGapMeters:        avg,
		Connections:         connections,
	}
}

// CheckSchemaCompliance flags attribute keys that look like unmapped legacy
// columns (any uppercase letter) and counts missing canonical attributes.
func (v *Validator) CheckSchemaCompliance(g *graph.Graph) SchemaCompliance {
	v.log.Info("checking schema compliance")

	nodeKeys := v.mapping.CanonicalNodeKeys()
	nodes := ElementCompliance{
		NonStandardCounts:  make(map[string]int),
		MissingCounts:      zeroCounts(nodeKeys),
		ExpectedAttributes: sortedKeys(nodeKeys),
	}
	for _, node := range g.Nodes() {
		tallyCompliance(&nodes, node.Attributes, nodeKeys)
	}
	nodes.NonStandardKeys = sortedMapKeys(nodes.NonStandardCounts)

	edgeKeys := v.mapping.CanonicalEdgeKeys()
	edges := ElementCompliance{
		NonStandardCounts:  make(map[string]int),
		MissingCounts:      zeroCounts(edgeKeys),
		ExpectedAttributes: sortedKeys(edgeKeys),
	}
	for _, edge := range g.Edges() {
		tallyCompliance(&edges, edge.Attributes, edgeKeys)
	}
	edges.NonStandardKeys = sortedMapKeys(edges.NonStandardCounts)

	return SchemaCompliance{Nodes: nodes, Edges: edges}
}

// CheckCriticalConnections verifies that each configured crossing appears
// among the border edges.
func (v *Validator) CheckCriticalConnections(g *graph.Graph) []CriticalCheck {
	v.log.Info("checking critical connections")

	checks := make([]CriticalCheck, 0, len(v.cfg.CriticalConnections))
	for _, critical := range v.cfg.CriticalConnections {
		found := false
		for _, edge := range g.Edges() {
			if src, _ := edge.Attributes.String(graph.KeyDataSource); src != integrate.SourceBorder {
				continue
			}
			if strings.Contains(edge.U, critical.NodeSubstring) || strings.Contains(edge.V, critical.NodeSubstring) {
				checks = append(checks, CriticalCheck{
					Name:    critical.Name,
					Status:  StatusPass,
					Details: edge.U + " <-> " + edge.V,
				})
				found = true
				break
			}
		}
		if !found {
			checks = append(checks, CriticalCheck{
				Name:    critical.Name,
				Status:  StatusWarning,
				Details: critical.NodeSubstring + " not found in border connections",
			})
		}
	}
	return checks
}

func edgesWithin(g *graph.Graph, component []string) int {
	members := make(map[string]struct{}, len(component))
	for _, id := range component {
		members[id] = struct{}{}
	}
	count := 0
	for _, edge := range g.Edges() {
		if _, uIn := members[edge.U]; !uIn {
			continue
		}
		if _, vIn := members[edge.V]; !vIn {
			continue
		}
		count++
	}
	return count
}

func tallyCompliance(c *ElementCompliance, attrs graph.Attributes, canonical map[string]struct{}) {
	for key := range attrs {
		if _, ok := canonical[key]; ok {
			continue
		}
		if key != "geometry" && strings.ContainsFunc(key, func(r rune) bool { return r >= 'A' && r <= 'Z' }) {
			c.NonStandardCounts[key]++
		}
	}
	for key := range canonical {
		v, present := attrs[key]
		if !present || v == nil || v == "" {
			c.MissingCounts[key]++
		}
	}
}

func zeroCounts(keys map[string]struct{}) map[string]int {
	out := make(map[string]int, len(keys))
	for k := range keys {
		out[k] = 0
	}
	return out
}

func sortedKeys(keys map[string]struct{}) []string {
	out := make([]string, 0, len(keys))
	for k := range keys {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func sortedMapKeys(m map[string]int) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
