// Package enrich joins auxiliary attribute tables onto graph edges, either
// by exact geometry match or by route/kilometre interval overlap.
package enrich

import (
	"github.com/fairwaynet/fairwaygraph/pkg/fairway"
	"github.com/fairwaynet/fairwaygraph/pkg/geometry"
	"github.com/fairwaynet/fairwaygraph/pkg/graph"
	"github.com/fairwaynet/fairwaygraph/pkg/logging"
	"github.com/fairwaynet/fairwaygraph/pkg/table"
)

// Route interval columns shared by sections and the interval-keyed datasets.
const (
	ColRouteID      = "RouteId"
	ColRouteKmBegin = "RouteKmBegin"
	ColRouteKmEnd   = "RouteKmEnd"
	ColSectionRef   = "sectionref"
)

// Attribute prefixes per dataset, keeping the source of each enrichment
// column recognizable on the edge.
const (
	PrefixDimensions = "dim_"
	PrefixNavigation = "nav_"
	PrefixSpeed      = "speed_"
	PrefixDepth      = "depth_"
	PrefixType       = "type_"
	PrefixTidal      = "tidal_"
)

// KeyCEMTClass aliases the navigability code under a stable name.
const KeyCEMTClass = "cemt_class"

// KeyIsTidal flags sections covered by a tidal area.
const KeyIsTidal = "is_tidal"

// Column selections per dataset.
var (
	DimensionColumns = []string{
		"GeneralDepth", "GeneralLength", "GeneralWidth", "GeneralHeight",
		"SeaFairingDepth", "SeaFairingLength", "SeaFairingWidth", "SeaFairingHeight",
		"PushedDepth", "PushedLength", "PushedWidth",
		"CoupledDepth", "CoupledLength", "CoupledWidth",
	}
	NavigabilityColumns = []string{"Classification", "Code", "Description"}
	SpeedColumns        = []string{"Speed", "MaxSpeedUp", "MaxSpeedDown", "CalibratedSpeedUp", "CalibratedSpeedDown"}
	DepthColumns        = []string{"MinimalDepthLowerLimit", "MinimalDepthUpperLimit", "ReferenceLevel"}
	TypeColumns         = []string{"CharacterTypeCode"}
	TidalColumns        = []string{"Name"}
	SailingSpeedColumns = []string{"maxspeed", "calspeed", "direction", "shipcategory"}
)

// Datasets bundles the auxiliary tables for the primary network. Sections is
// required; the rest may be nil.
type Datasets struct {
	Sections          *table.Table
	MaximumDimensions *table.Table
	Navigability      *table.Table
	NavigationSpeed   *table.Table
	FairwayDepth      *table.Table
	FairwayType       *table.Table
	TidalArea         *table.Table
}

// Enricher joins auxiliary tables onto graphs.
type Enricher struct {
	log logging.Logger
}

// NewEnricher creates an enricher logging through the given logger.
func NewEnricher(log logging.Logger) *Enricher {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Enricher{log: log.With(logging.Component("enrich"))}
}

// MatchByGeometry matches auxiliary rows to sections by exact geometry key.
// Both sides are keyed on canonical WKT; when several auxiliary rows share a
// key, the first occurrence wins. The result holds an entry for every
// section, empty where nothing matched, with the selected columns prefixed.
func (e *Enricher) MatchByGeometry(sections, data *table.Table, columns []string, prefix string) *Lookup {
	lookup := NewLookup()
	for _, row := range sections.Rows() {
		if id, ok := row.String(fairway.ColID); ok {
			lookup.Set(id, nil)
		}
	}

	available := availableColumns(data, columns)
	if len(available) == 0 {
		return lookup
	}

	byKey := make(map[string]table.Row, data.Len())
	for _, row := range data.Rows() {
		key, ok := geometryKey(row)
		if !ok {
			continue
		}
		if _, dup := byKey[key]; !dup {
			byKey[key] = row
		}
	}

	matched := 0
	for _, row := range sections.Rows() {
		id, ok := row.String(fairway.ColID)
		if !ok {
			continue
		}
		key, ok := geometryKey(row)
		if !ok {
			continue
		}
		aux, found := byKey[key]
		if !found {
			continue
		}
		attrs := prefixedAttributes(aux, available, prefix)
		if len(attrs) > 0 {
			lookup.Set(id, attrs)
			matched++
		}
	}

	e.log.Info("matched sections by geometry",
		logging.String("prefix", prefix), logging.Count(matched))
	return lookup
}

// MatchByRouteKm matches auxiliary rows to sections sharing a route id whose
// kilometre intervals overlap. Intervals are normalized so a reversed
// begin/end pair behaves identically; for each section the first overlapping
// auxiliary row in input order wins. A missing route column on either side
// degrades to an unmatched lookup with a warning.
func (e *Enricher) MatchByRouteKm(sections, data *table.Table, columns []string, prefix string) *Lookup {
	lookup := NewLookup()
	for _, row := range sections.Rows() {
		if id, ok := row.String(fairway.ColID); ok {
			lookup.Set(id, nil)
		}
	}

	available := availableColumns(data, columns)
	if len(available) == 0 {
		return lookup
	}

	for _, col := range []string{ColRouteID, ColRouteKmBegin, ColRouteKmEnd} {
		if !sections.HasColumn(col) || !data.HasColumn(col) {
			e.log.Warn("missing route column, skipping interval matching",
				logging.String("column", col), logging.String("prefix", prefix))
			return lookup
		}
	}

	byRoute := make(map[string][]table.Row, data.Len())
	for _, row := range data.Rows() {
		route, _, _, ok := routeInterval(row)
		if !ok {
			continue
		}
		byRoute[route] = append(byRoute[route], row)
	}

	matched := 0
	for _, row := range sections.Rows() {
		id, ok := row.String(fairway.ColID)
		if !ok {
			continue
		}
		route, sLo, sHi, ok := routeInterval(row)
		if !ok {
			continue
		}
		for _, aux := range byRoute[route] {
			_, aLo, aHi, _ := routeInterval(aux)
			if !intervalsOverlap(sLo, sHi, aLo, aHi) {
				continue
			}
			attrs := prefixedAttributes(aux, available, prefix)
			if len(attrs) > 0 {
				lookup.Set(id, attrs)
				matched++
			}
			break
		}
	}

	e.log.Info("matched sections by route interval",
		logging.String("prefix", prefix), logging.Count(matched))
	return lookup
}

// BuildSectionEnrichment joins every auxiliary dataset onto the sections and
// combines the results into one per-section lookup. Dimensions and
// navigability match by geometry, the rest by route interval. The
// navigability code is aliased as cemt_class; the tidal match collapses to
// an is_tidal flag on every section. The flag stays absent when no tidal
// data joins, so a missing key means unknown rather than non-tidal.
func (e *Enricher) BuildSectionEnrichment(d Datasets) (*Lookup, error) {
	if err := d.Sections.RequireColumns(fairway.ColID); err != nil {
		return nil, err
	}

	combined := NewLookup()
	for _, row := range d.Sections.Rows() {
		if id, ok := row.String(fairway.ColID); ok {
			combined.Set(id, nil)
		}
	}

	if d.MaximumDimensions != nil {
		combined.MergeFrom(e.MatchByGeometry(d.Sections, d.MaximumDimensions, DimensionColumns, PrefixDimensions))
	}
	if d.Navigability != nil {
		nav := e.MatchByGeometry(d.Sections, d.Navigability, NavigabilityColumns, PrefixNavigation)
		for _, id := range nav.SectionIDs() {
			attrs, _ := nav.Get(id)
			if code, ok := attrs[PrefixNavigation+"Code"]; ok {
				attrs[KeyCEMTClass] = code
			}
		}
		combined.MergeFrom(nav)
	}
	if d.NavigationSpeed != nil {
		combined.MergeFrom(e.MatchByRouteKm(d.Sections, d.NavigationSpeed, SpeedColumns, PrefixSpeed))
	}
	if d.FairwayDepth != nil {
		combined.MergeFrom(e.MatchByRouteKm(d.Sections, d.FairwayDepth, DepthColumns, PrefixDepth))
	}
	if d.FairwayType != nil {
		combined.MergeFrom(e.MatchByRouteKm(d.Sections, d.FairwayType, TypeColumns, PrefixType))
	}
	if d.TidalArea != nil {
		if hasRouteColumns(d.Sections) && hasRouteColumns(d.TidalArea) &&
			len(availableColumns(d.TidalArea, TidalColumns)) > 0 {
			tidal := e.MatchByRouteKm(d.Sections, d.TidalArea, TidalColumns, PrefixTidal)
			for _, id := range combined.SectionIDs() {
				attrs, _ := tidal.Get(id)
				_, hit := attrs[PrefixTidal+"Name"]
				delete(attrs, PrefixTidal+"Name")
				combined.Set(id, graph.Attributes{KeyIsTidal: hit})
			}
		} else {
			e.log.Warn("tidal dataset missing join columns, leaving is_tidal unset")
		}
	}

	e.log.Info("built section enrichment",
		logging.Int("sections", len(combined.SectionIDs())),
		logging.Int("with_attributes", combined.MatchedCount()))
	return combined, nil
}

// Apply merges the per-section attributes onto the matching graph edges.
// Edges map to sections through the junction id pair in either orientation;
// nil cells never overwrite existing edge attributes. Returns the number of
// edges that received at least one attribute.
func (e *Enricher) Apply(g *graph.Graph, sections *table.Table, lookup *Lookup) int {
	type pair struct{ u, v string }
	edgeToSection := make(map[pair]string, sections.Len()*2)
	for _, row := range sections.Rows() {
		id, ok := row.String(fairway.ColID)
		if !ok {
			continue
		}
		u, uOK := row.String(fairway.ColStartJunction)
		v, vOK := row.String(fairway.ColEndJunction)
		if !uOK || !vOK {
			continue
		}
		edgeToSection[pair{u, v}] = id
		edgeToSection[pair{v, u}] = id
	}
	e.log.Info("mapped edges to sections", logging.Count(len(edgeToSection)/2))

	enriched := 0
	for _, edge := range g.Edges() {
		sectionID, ok := edgeToSection[pair{edge.U, edge.V}]
		if !ok {
			continue
		}
		attrs, ok := lookup.Get(sectionID)
		if !ok || len(attrs) == 0 {
			continue
		}
		edge.Attributes.MergeNonNil(attrs)
		enriched++
	}

	e.log.Info("enriched edges",
		logging.Count(enriched), logging.Edges(g.EdgeCount()))
	return enriched
}

// ApplyBySectionRef merges auxiliary attributes onto edges keyed by their
// sectionref attribute. When several rows share a sectionref the first wins.
// Returns the number of edges enriched.
func (e *Enricher) ApplyBySectionRef(g *graph.Graph, data *table.Table, columns []string, prefix string) int {
	if data == nil || data.Len() == 0 || !data.HasColumn(ColSectionRef) {
		e.log.Warn("no sectionref data, skipping enrichment", logging.String("prefix", prefix))
		return 0
	}

	available := availableColumns(data, columns)
	byRef := make(map[string]graph.Attributes, data.Len())
	for _, row := range data.Rows() {
		ref, ok := row.String(ColSectionRef)
		if !ok || ref == "" {
			continue
		}
		if _, dup := byRef[ref]; dup {
			continue
		}
		byRef[ref] = prefixedAttributes(row, available, prefix)
	}
	e.log.Info("built sectionref lookup", logging.Count(len(byRef)))

	enriched := 0
	for _, edge := range g.Edges() {
		ref, ok := edge.Attributes.String(ColSectionRef)
		if !ok || ref == "" {
			continue
		}
		attrs, found := byRef[ref]
		if !found || len(attrs) == 0 {
			continue
		}
		edge.Attributes.MergeNonNil(attrs)
		enriched++
	}

	e.log.Info("enriched edges by sectionref",
		logging.Count(enriched), logging.String("prefix", prefix))
	return enriched
}

// intervalsOverlap reports whether [aLo, aHi] and [bLo, bHi] share any point.
func intervalsOverlap(aLo, aHi, bLo, bHi float64) bool {
	return !(aHi < bLo || bHi < aLo)
}

func hasRouteColumns(t *table.Table) bool {
	for _, col := range []string{ColRouteID, ColRouteKmBegin, ColRouteKmEnd} {
		if !t.HasColumn(col) {
			return false
		}
	}
	return true
}

func routeInterval(row table.Row) (route string, lo, hi float64, ok bool) {
	route, rOK := row.String(ColRouteID)
	begin, bOK := row.Float(ColRouteKmBegin)
	end, eOK := row.Float(ColRouteKmEnd)
	if !rOK || !bOK || !eOK {
		return "", 0, 0, false
	}
	if begin <= end {
		return route, begin, end, true
	}
	return route, end, begin, true
}

func availableColumns(data *table.Table, columns []string) []string {
	if data == nil {
		return nil
	}
	out := make([]string, 0, len(columns))
	for _, c := range columns {
		if data.HasColumn(c) {
			out = append(out, c)
		}
	}
	return out
}

func prefixedAttributes(row table.Row, columns []string, prefix string) graph.Attributes {
	attrs := make(graph.Attributes, len(columns))
	for _, c := range columns {
		if v, ok := row[c]; ok && v != nil {
			attrs[prefix+c] = v
		}
	}
	return attrs
}

func geometryKey(row table.Row) (string, bool) {
	v, ok := row["geometry"]
	if !ok || v == nil {
		return "", false
	}
	geom, err := geometry.Coerce(v)
	if err != nil {
		return "", false
	}
	return geometry.CanonicalWKT(geom), true
}
