package geometry

import (
	"fmt"

	"github.com/paulmach/orb"

	"github.com/fairwaynet/fairwaygraph/pkg/graph"
	"github.com/fairwaynet/fairwaygraph/pkg/logging"
)

// Coerce converts a tabular geometry cell into a geometry. Loaders hand
// geometry cells through either as parsed geometries or as WKT text.
func Coerce(v any) (orb.Geometry, error) {
	switch g := v.(type) {
	case nil:
		return nil, fmt.Errorf("geometry cell is null")
	case orb.Geometry:
		return g, nil
	case string:
		return ParseWKT(g)
	default:
		return nil, fmt.Errorf("unsupported geometry cell type %T", v)
	}
}

// StampEdgeLengths computes the ellipsoidal length of every edge carrying a
// geometry and stores it under "length_m". Malformed geometries are warned
// about and skipped; the rest of the batch is still produced. Returns the
// number of edges stamped and the number skipped.
func StampEdgeLengths(g *graph.Graph, log logging.Logger) (stamped, skipped int) {
	for _, edge := range g.Edges() {
		wktText, ok := edge.Attributes.String(graph.KeyGeometryWKT)
		if !ok {
			skipped++
			continue
		}
		length, err := GeodesicLengthWKT(wktText)
		if err != nil {
			log.Warn("skipping edge with malformed geometry",
				logging.String("edge", edge.U+"-"+edge.V), logging.Err(err))
			skipped++
			continue
		}
		edge.Attributes[graph.KeyLengthM] = length
		stamped++
	}
	return stamped, skipped
}
