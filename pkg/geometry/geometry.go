// Package geometry covers the geodesy needs of the pipeline: WKT
// round-trips for exact-geometry join keys, lon/lat → UTM projection for
// metric nearest-neighbor math, and ellipsoidal edge lengths.
package geometry

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
	"github.com/tidwall/geodesic"
)

// CanonicalWKT returns the canonical textual form of a geometry. The source
// systems reuse byte-identical geometries across related tables, so this
// string is a valid exact join key — no snapping or tolerance involved.
func CanonicalWKT(g orb.Geometry) string {
	return wkt.MarshalString(g)
}

// ParseWKT parses a WKT string into a geometry.
func ParseWKT(s string) (orb.Geometry, error) {
	return wkt.Unmarshal(s)
}

// ParsePoint parses a WKT POINT.
func ParsePoint(s string) (orb.Point, error) {
	return wkt.UnmarshalPoint(s)
}

// LineBetween returns the WKT of the straight two-point line from a to b.
// Used to synthesize geometries for border link edges.
func LineBetween(a, b orb.Point) string {
	return wkt.MarshalString(orb.LineString{a, b})
}

// GeodesicDistance returns the WGS84 ellipsoidal distance in meters
// between two lon/lat points.
func GeodesicDistance(a, b orb.Point) float64 {
	var meters float64
	geodesic.WGS84.Inverse(a[1], a[0], b[1], b[0], &meters, nil, nil)
	return meters
}

// GeodesicLength returns the WGS84 ellipsoidal length in meters of a
// geometry. Points have zero length; lines and multi-lines sum their
// segments; other geometry types are rejected.
func GeodesicLength(g orb.Geometry) (float64, error) {
	switch geom := g.(type) {
	case orb.Point:
		return 0, nil
	case orb.LineString:
		return lineLength(geom), nil
	case orb.MultiLineString:
		total := 0.0
		for _, line := range geom {
			total += lineLength(line)
		}
		return total, nil
	default:
		return 0, fmt.Errorf("unsupported geometry type %T for length computation", g)
	}
}

// GeodesicLengthWKT parses a WKT geometry and returns its ellipsoidal
// length. A parse failure or unsupported type is a local error; callers
// skip the record and keep the batch going.
func GeodesicLengthWKT(s string) (float64, error) {
	g, err := ParseWKT(s)
	if err != nil {
		return 0, fmt.Errorf("parse geometry: %w", err)
	}
	return GeodesicLength(g)
}

func lineLength(line orb.LineString) float64 {
	total := 0.0
	for i := 1; i < len(line); i++ {
		total += GeodesicDistance(line[i-1], line[i])
	}
	return total
}
