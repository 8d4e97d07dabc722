// Package integrate stitches the primary and secondary network graphs into
// one combined graph, bridging them at geometric border connections.
package integrate

import (
	"github.com/paulmach/orb"

	"github.com/fairwaynet/fairwaygraph/pkg/geometry"
	"github.com/fairwaynet/fairwaygraph/pkg/graph"
	"github.com/fairwaynet/fairwaygraph/pkg/logging"
	"github.com/fairwaynet/fairwaygraph/pkg/validation"
)

// ConnectionTypeGeometric marks connections found by nearest-node matching.
const ConnectionTypeGeometric = "geometric"

// StitchConfig parameterizes border connection discovery.
type StitchConfig struct {
	// HomeCountry is the country code of the primary network.
	HomeCountry string `yaml:"home_country" validate:"required,len=2"`
	// DistanceThreshold is the maximum bridgehead-to-node gap in meters.
	DistanceThreshold float64 `yaml:"distance_threshold" validate:"gt=0"`
	// UTMZone is the northern-hemisphere zone used for metric distances.
	UTMZone int `yaml:"utm_zone" validate:"min=1,max=60"`
}

// DefaultStitchConfig returns the production defaults.
func DefaultStitchConfig() StitchConfig {
	return StitchConfig{
		HomeCountry:       "NL",
		DistanceThreshold: 100.0,
		UTMZone:           31,
	}
}

// Validate checks the configuration.
func (c StitchConfig) Validate() error {
	return validation.NewConfigValidator("StitchConfig").
		CountryCode("HomeCountry", c.HomeCountry).
		PositiveFloat("DistanceThreshold", c.DistanceThreshold).
		RangeInt("UTMZone", c.UTMZone, 1, 60).
		Validate()
}

// BorderConnection is one resolved crossing between the networks.
//
// The secondary network reaches into the home country with a short stub
// ending at a bridgehead node; the connection replaces that stub with a
// direct link from the foreign node to the nearest primary node.
type BorderConnection struct {
	ForeignNode    string
	ForeignCountry string
	BridgeheadNode string
	PrimaryNode    string
	Distance       float64
	Type           string
	EdgeAttrs      graph.Attributes
}

// Stitcher finds border connections between the two networks.
type Stitcher struct {
	cfg StitchConfig
	log logging.Logger
}

// NewStitcher creates a stitcher. Zero config fields fall back to defaults.
func NewStitcher(cfg StitchConfig, log logging.Logger) (*Stitcher, error) {
	def := DefaultStitchConfig()
	cfg.HomeCountry = validation.DefaultOr(cfg.HomeCountry, def.HomeCountry)
	cfg.DistanceThreshold = validation.DefaultOrFloat(cfg.DistanceThreshold, def.DistanceThreshold)
	cfg.UTMZone = validation.DefaultOr(cfg.UTMZone, def.UTMZone)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Stitcher{cfg: cfg, log: log.With(logging.Component("integrate"))}, nil
}

type crossing struct {
	foreign    string
	bridgehead string
	foreignCC  string
}

type match struct {
	primaryNode string
	distance    float64
}

// FindBorderConnections locates edges of the secondary graph crossing into
// the home country, matches each home-side bridgehead to the nearest
// primary node in projected meters, and returns one connection per crossing
// whose gap is under the threshold. Nodes without usable geometry are
// skipped; no primary geometry at all yields no connections.
func (s *Stitcher) FindBorderConnections(primary, secondary *graph.Graph) []BorderConnection {
	projector := geometry.NewProjector(s.cfg.UTMZone)

	primaryIDs, primaryPoints := projectNodes(primary, projector)
	if len(primaryIDs) == 0 {
		s.log.Warn("no primary nodes with usable geometry")
		return nil
	}

	crossings, bridgeheads := s.findCrossings(secondary)
	s.log.Info("found cross-border edges",
		logging.Count(len(crossings)),
		logging.Int("bridgeheads", len(bridgeheads)))

	matches := make(map[string]match, len(bridgeheads))
	for bridgehead := range bridgeheads {
		node, ok := secondary.Node(bridgehead)
		if !ok {
			continue
		}
		pt, ok := nodePoint(node.Attributes)
		if !ok {
			continue
		}
		projected := projector.Project(pt)

		nearest, distance := nearestPoint(projected, primaryIDs, primaryPoints)
		if distance < s.cfg.DistanceThreshold {
			matches[bridgehead] = match{primaryNode: nearest, distance: distance}
			s.log.Debug("matched bridgehead",
				logging.NodeID(bridgehead),
				logging.String("primary_node", nearest),
				logging.Float64("distance_m", distance))
		}
	}

	var connections []BorderConnection
	for _, c := range crossings {
		m, ok := matches[c.bridgehead]
		if !ok {
			continue
		}
		attrs := graph.Attributes{}
		if edge, found := secondary.Edge(c.foreign, c.bridgehead); found {
			attrs = edge.Attributes.Clone()
		}
		connections = append(connections, BorderConnection{
			ForeignNode:    c.foreign,
			ForeignCountry: c.foreignCC,
			BridgeheadNode: c.bridgehead,
			PrimaryNode:    m.primaryNode,
			Distance:       m.distance,
			Type:           ConnectionTypeGeometric,
			EdgeAttrs:      attrs,
		})
	}

	s.log.Info("established border connections", logging.Count(len(connections)))
	return connections
}

// findCrossings returns the foreign→bridgehead pairs of edges linking a
// home-country node to a foreign one, plus the set of bridgeheads.
func (s *Stitcher) findCrossings(secondary *graph.Graph) ([]crossing, map[string]struct{}) {
	var crossings []crossing
	bridgeheads := make(map[string]struct{})

	home := s.cfg.HomeCountry
	for _, edge := range secondary.Edges() {
		uCC := nodeCountry(secondary, edge.U)
		vCC := nodeCountry(secondary, edge.V)

		switch {
		case uCC == home && vCC != "" && vCC != home:
			crossings = append(crossings, crossing{foreign: edge.V, bridgehead: edge.U, foreignCC: vCC})
			bridgeheads[edge.U] = struct{}{}
		case vCC == home && uCC != "" && uCC != home:
			crossings = append(crossings, crossing{foreign: edge.U, bridgehead: edge.V, foreignCC: uCC})
			bridgeheads[edge.V] = struct{}{}
		}
	}
	return crossings, bridgeheads
}

func nodeCountry(g *graph.Graph, id string) string {
	node, ok := g.Node(id)
	if !ok {
		return ""
	}
	cc, _ := node.Attributes.String(graph.KeyCountryCode)
	return cc
}

// nodePoint extracts a lon/lat point from node attributes, preferring the
// x/y cells and falling back to a WKT point geometry.
func nodePoint(attrs graph.Attributes) (orb.Point, bool) {
	x, xOK := attrs.Float(graph.KeyX)
	y, yOK := attrs.Float(graph.KeyY)
	if xOK && yOK {
		return orb.Point{x, y}, true
	}
	if wktText, ok := attrs.String(graph.KeyGeometryWKT); ok {
		if pt, err := geometry.ParsePoint(wktText); err == nil {
			return pt, true
		}
	}
	return orb.Point{}, false
}

func projectNodes(g *graph.Graph, projector *geometry.Projector) ([]string, []orb.Point) {
	ids := make([]string, 0, g.NodeCount())
	points := make([]orb.Point, 0, g.NodeCount())
	for _, node := range g.Nodes() {
		pt, ok := nodePoint(node.Attributes)
		if !ok {
			continue
		}
		ids = append(ids, node.ID)
		points = append(points, projector.Project(pt))
	}
	return ids, points
}

func nearestPoint(target orb.Point, ids []string, points []orb.Point) (string, float64) {
	best := -1
	bestDist := 0.0
	for i, pt := range points {
		d := geometry.PlanarDistance(target, pt)
		if best < 0 || d < bestDist {
			best = i
			bestDist = d
		}
	}
	return ids[best], bestDist
}
