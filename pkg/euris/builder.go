// Package euris builds the secondary pan-European network graph from many
// per-region node and section files sharing one schema.
package euris

import (
	"github.com/paulmach/orb"

	"github.com/fairwaynet/fairwaygraph/pkg/geometry"
	"github.com/fairwaynet/fairwaygraph/pkg/graph"
	"github.com/fairwaynet/fairwaygraph/pkg/logging"
	"github.com/fairwaynet/fairwaygraph/pkg/table"
)

// SourceTag identifies elements originating from the secondary network.
const SourceTag = "EURIS"

// Input and derived column names of the secondary export.
const (
	ColLocode      = "locode"
	ColObjectCode  = "objectcode"
	ColSectionRef  = "sectionref"
	ColBorderPoint = "borderpoint"
	ColCode        = "code"
	ColGeometry    = "geometry"
	ColPath        = "path"
	ColCountryCode = graph.KeyCountryCode
	ColNodeID      = "node_id"
)

// File is one per-region table tagged with the name of the file it came
// from. The name feeds the "path" column used only for duplicate tracing —
// never for country derivation.
type File struct {
	Name  string
	Table *table.Table
}

// Builder constructs the secondary network graph.
type Builder struct {
	log logging.Logger
}

// NewBuilder creates a builder logging through the given logger.
func NewBuilder(log logging.Logger) *Builder {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Builder{log: log.With(logging.Component("euris"))}
}

// ConcatNodes concatenates per-region node files, removes exact-duplicate
// rows (ignoring the source-file column) and derives each node's country
// code and composite id. The country code comes from the locode field, not
// the filename, to tolerate file naming mismatches.
func (b *Builder) ConcatNodes(files []File) (*table.Table, error) {
	combined, err := b.concat(files)
	if err != nil {
		return nil, err
	}
	if err := combined.RequireColumns(ColLocode, ColObjectCode); err != nil {
		return nil, err
	}

	deduped, removed := combined.DropDuplicates(ColPath)
	b.log.Info("deduplicated nodes", logging.Removed(removed), logging.Count(deduped.Len()))

	for _, row := range deduped.Rows() {
		locode, _ := row.String(ColLocode)
		countryCode := ""
		if len(locode) >= 2 {
			countryCode = locode[:2]
		}
		objectCode, _ := row.String(ColObjectCode)
		row[ColCountryCode] = countryCode
		row[ColNodeID] = countryCode + "_" + objectCode
	}
	deduped.DeclareColumn(ColCountryCode)
	deduped.DeclareColumn(ColNodeID)

	return deduped, nil
}

// ConcatSections concatenates per-region section files and removes
// exact-duplicate rows ignoring the source-file column.
func (b *Builder) ConcatSections(files []File) (*table.Table, error) {
	combined, err := b.concat(files)
	if err != nil {
		return nil, err
	}
	if err := combined.RequireColumns(ColCode); err != nil {
		return nil, err
	}

	deduped, removed := combined.DropDuplicates(ColPath)
	b.log.Info("deduplicated sections", logging.Removed(removed), logging.Count(deduped.Len()))
	return deduped, nil
}

func (b *Builder) concat(files []File) (*table.Table, error) {
	b.log.Info("concatenating files", logging.Count(len(files)))
	tagged := make([]*table.Table, 0, len(files))
	for _, f := range files {
		t := f.Table
		t.SetColumn(ColPath, f.Name)
		tagged = append(tagged, t)
	}
	return table.Concat(tagged...), nil
}

// Build constructs the graph from concatenated nodes and sections.
//
// For each section code the edge endpoints are the first and last node (in
// row order) whose sectionref equals that code; when several rows share a
// code the last row's attributes win. Sections with a referencing-node count
// other than two are counted and logged; a single
// referencing node produces no edge. Border-flagged nodes are then linked
// to the node owning their referenced locode, components are stamped, and
// every edge gets its ellipsoidal length.
//
// Missing join columns degrade to an empty edge set; an edge referencing an
// absent node is skipped silently.
func (b *Builder) Build(nodes, sections *table.Table) *graph.Graph {
	g := graph.New()

	if !nodes.HasColumn(ColNodeID) || !nodes.HasColumn(ColSectionRef) || !sections.HasColumn(ColCode) {
		b.log.Warn("missing join columns, producing empty edge set")
		return g
	}

	// Group referencing node ids per section code, preserving row order.
	refs := make(map[string][]string, sections.Len())
	for _, row := range nodes.Rows() {
		ref, ok := row.String(ColSectionRef)
		if !ok {
			continue
		}
		id, _ := row.String(ColNodeID)
		refs[ref] = append(refs[ref], id)
	}

	b.log.Info("building edges from sections", logging.Count(sections.Len()))
	degenerate := make(map[string]struct{})
	for _, row := range sections.Rows() {
		code, ok := row.String(ColCode)
		if !ok {
			continue
		}

		ids := refs[code]
		if len(ids) != 2 {
			degenerate[code] = struct{}{}
		}
		if len(ids) < 2 {
			continue
		}
		g.AddEdge(ids[0], ids[len(ids)-1], sectionAttributes(row, code))
	}
	if len(degenerate) > 0 {
		b.log.Warn("sections without exactly two referencing nodes", logging.Count(len(degenerate)))
	}

	// Attach node attributes; remember coordinates for border geometry.
	points := make(map[string]orb.Point, nodes.Len())
	for _, row := range nodes.Rows() {
		id, _ := row.String(ColNodeID)
		if !g.HasNode(id) {
			continue
		}
		attrs, pt, hasPt := nodeAttributes(row)
		g.AddNode(id, attrs)
		if hasPt {
			points[id] = pt
		}
	}

	b.connectBorders(g, nodes, points)

	componentCount := g.StampComponents()
	stamped, skipped := geometry.StampEdgeLengths(g, b.log)

	b.log.Info("built euris graph",
		logging.Nodes(g.NodeCount()),
		logging.Edges(g.EdgeCount()),
		logging.Components(componentCount),
		logging.Int("lengths_stamped", stamped),
		logging.Int("lengths_skipped", skipped))

	return g
}

// connectBorders links nodes flagged as border points to the node owning
// the referenced locode and marks every edge with the border flag.
func (b *Builder) connectBorders(g *graph.Graph, nodes *table.Table, points map[string]orb.Point) {
	if !nodes.HasColumn(ColBorderPoint) {
		b.log.Warn("no borderpoint column, skipping intra-network border links")
		markBorderEdges(g, nil)
		return
	}

	byLocode := make(map[string]string, nodes.Len())
	for _, row := range nodes.Rows() {
		locode, ok := row.String(ColLocode)
		if !ok {
			continue
		}
		if _, exists := byLocode[locode]; !exists {
			id, _ := row.String(ColNodeID)
			byLocode[locode] = id
		}
	}

	type pair struct{ u, v string }
	var links []pair
	for _, row := range nodes.Rows() {
		borderRef, ok := row.String(ColBorderPoint)
		if !ok || borderRef == "" {
			continue
		}
		source, _ := row.String(ColNodeID)
		target, found := byLocode[borderRef]
		if !found || !g.HasNode(source) || !g.HasNode(target) {
			continue
		}
		links = append(links, pair{source, target})
	}
	b.log.Info("found border connections", logging.Count(len(links)))

	borderKeys := make(map[[2]string]struct{}, len(links))
	for _, link := range links {
		attrs := graph.Attributes{}
		src, srcOK := points[link.u]
		dst, dstOK := points[link.v]
		if srcOK && dstOK {
			attrs[graph.KeyGeometryWKT] = geometry.LineBetween(src, dst)
		}
		g.AddEdge(link.u, link.v, attrs)
		borderKeys[orderedPair(link.u, link.v)] = struct{}{}
	}
	markBorderEdges(g, borderKeys)
}

func markBorderEdges(g *graph.Graph, borderKeys map[[2]string]struct{}) {
	for _, edge := range g.Edges() {
		_, isBorder := borderKeys[orderedPair(edge.U, edge.V)]
		edge.Attributes[graph.KeyIsBorder] = isBorder
	}
}

func orderedPair(u, v string) [2]string {
	if u <= v {
		return [2]string{u, v}
	}
	return [2]string{v, u}
}

// sectionAttributes copies section columns onto the edge, replacing the
// geometry cell with WKT and stamping the section code as sectionref.
func sectionAttributes(row table.Row, code string) graph.Attributes {
	attrs := make(graph.Attributes, len(row))
	for k, v := range row {
		if v == nil {
			continue
		}
		if k == ColGeometry {
			if geom, err := geometry.Coerce(v); err == nil {
				attrs[graph.KeyGeometryWKT] = geometry.CanonicalWKT(geom)
			}
			continue
		}
		attrs[k] = v
	}
	attrs[ColSectionRef] = code
	return attrs
}

// nodeAttributes copies node columns onto the node and extracts its point.
func nodeAttributes(row table.Row) (graph.Attributes, orb.Point, bool) {
	attrs := make(graph.Attributes, len(row))
	var pt orb.Point
	hasPt := false
	for k, v := range row {
		if v == nil {
			continue
		}
		if k == ColGeometry {
			geom, err := geometry.Coerce(v)
			if err != nil {
				continue
			}
			attrs[graph.KeyGeometryWKT] = geometry.CanonicalWKT(geom)
			if p, ok := geom.(orb.Point); ok {
				pt = p
				hasPt = true
				attrs[graph.KeyX] = p[0]
				attrs[graph.KeyY] = p[1]
			}
			continue
		}
		attrs[k] = v
	}
	return attrs, pt, hasPt
}
