// Package fairway builds the primary national network graph from a single
// tabular export of sections (edges) and junctions (nodes).
package fairway

import (
	"github.com/paulmach/orb"

	"github.com/fairwaynet/fairwaygraph/pkg/geometry"
	"github.com/fairwaynet/fairwaygraph/pkg/graph"
	"github.com/fairwaynet/fairwaygraph/pkg/logging"
	"github.com/fairwaynet/fairwaygraph/pkg/table"
)

// SourceTag identifies elements originating from the primary network.
const SourceTag = "FIS"

// Input column names of the primary export.
const (
	ColID            = "Id"
	ColStartJunction = "StartJunctionId"
	ColEndJunction   = "EndJunctionId"
	ColGeometry      = "geometry"
)

// Builder constructs the primary network graph.
type Builder struct {
	log logging.Logger
}

// NewBuilder creates a builder logging through the given logger.
func NewBuilder(log logging.Logger) *Builder {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Builder{log: log.With(logging.Component("fairway"))}
}

// FilterSections drops sections missing either junction id. Missing ids
// mean the section cannot become an edge; the removed count is reported.
func (b *Builder) FilterSections(sections *table.Table) (*table.Table, error) {
	if err := sections.RequireColumns(ColID, ColStartJunction, ColEndJunction); err != nil {
		return nil, err
	}

	valid := sections.Filter(func(r table.Row) bool {
		return !r.IsNull(ColStartJunction) && !r.IsNull(ColEndJunction)
	})

	b.log.Info("filtered sections",
		logging.Int("before", sections.Len()),
		logging.Int("after", valid.Len()),
		logging.Removed(sections.Len()-valid.Len()))

	return valid, nil
}

// FilterJunctions keeps only junctions referenced by a retained section.
func (b *Builder) FilterJunctions(junctions, sections *table.Table) (*table.Table, error) {
	if err := junctions.RequireColumns(ColID); err != nil {
		return nil, err
	}

	referenced := make(map[string]struct{}, sections.Len()*2)
	for _, row := range sections.Rows() {
		if id, ok := row.String(ColStartJunction); ok {
			referenced[id] = struct{}{}
		}
		if id, ok := row.String(ColEndJunction); ok {
			referenced[id] = struct{}{}
		}
	}

	valid := junctions.Filter(func(r table.Row) bool {
		id, ok := r.String(ColID)
		if !ok {
			return false
		}
		_, ok = referenced[id]
		return ok
	})

	b.log.Info("filtered junctions",
		logging.Int("before", junctions.Len()),
		logging.Int("after", valid.Len()))

	return valid, nil
}

// Build constructs the graph: one undirected edge per retained section
// carrying all section columns plus its geometry as WKT, junction columns
// attached to matching nodes. Repeated endpoint pairs and repeated junction
// ids resolve last write wins. An empty result is valid.
// Returns the graph together with the filtered sections and junctions.
func (b *Builder) Build(sections, junctions *table.Table) (*graph.Graph, *table.Table, *table.Table, error) {
	filteredSections, err := b.FilterSections(sections)
	if err != nil {
		return nil, nil, nil, err
	}
	filteredJunctions, err := b.FilterJunctions(junctions, filteredSections)
	if err != nil {
		return nil, nil, nil, err
	}

	g := graph.New()

	b.log.Info("building graph from sections", logging.Count(filteredSections.Len()))
	for _, row := range filteredSections.Rows() {
		u, _ := row.String(ColStartJunction)
		v, _ := row.String(ColEndJunction)
		g.AddEdge(u, v, sectionAttributes(row))
	}

	b.log.Info("attaching junction attributes", logging.Count(filteredJunctions.Len()))
	for _, row := range filteredJunctions.Rows() {
		id, _ := row.String(ColID)
		if !g.HasNode(id) {
			continue
		}
		g.AddNode(id, junctionAttributes(row))
	}

	stamped, skipped := geometry.StampEdgeLengths(g, b.log)
	components := g.ConnectedComponents()

	b.log.Info("built fairway graph",
		logging.Nodes(g.NodeCount()),
		logging.Edges(g.EdgeCount()),
		logging.Components(len(components)),
		logging.Int("lengths_stamped", stamped),
		logging.Int("lengths_skipped", skipped))

	return g, filteredSections, filteredJunctions, nil
}

// sectionAttributes copies every descriptive column onto the edge and
// replaces the geometry cell with its WKT form.
func sectionAttributes(row table.Row) graph.Attributes {
	attrs := make(graph.Attributes, len(row))
	for k, v := range row {
		if k == ColStartJunction || k == ColEndJunction || v == nil {
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
	return attrs
}

// junctionAttributes copies junction columns onto the node, deriving
// geometry_wkt plus x/y from the point geometry.
func junctionAttributes(row table.Row) graph.Attributes {
	attrs := make(graph.Attributes, len(row))
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
			if pt, ok := geom.(orb.Point); ok {
				attrs[graph.KeyX] = pt[0]
				attrs[graph.KeyY] = pt[1]
			}
			continue
		}
		attrs[k] = v
	}
	return attrs
}
