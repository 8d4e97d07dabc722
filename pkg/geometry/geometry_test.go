package geometry

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
)

func TestCanonicalWKT_RoundTrip(t *testing.T) {
	line := orb.LineString{{4.9, 51.8}, {5.0, 51.9}}
	s := CanonicalWKT(line)

	g, err := ParseWKT(s)
	if err != nil {
		t.Fatalf("ParseWKT(%q): %v", s, err)
	}
	if CanonicalWKT(g) != s {
		t.Errorf("round trip changed canonical form: %q -> %q", s, CanonicalWKT(g))
	}
}

func TestCanonicalWKT_IdenticalGeometriesShareKey(t *testing.T) {
	a := orb.LineString{{4.9, 51.8}, {5.0, 51.9}}
	b := orb.LineString{{4.9, 51.8}, {5.0, 51.9}}
	if CanonicalWKT(a) != CanonicalWKT(b) {
		t.Error("identical geometries must produce identical keys")
	}
}

func TestGeodesicDistance_KnownBaseline(t *testing.T) {
	// One degree of latitude along a meridian is ~111.1-111.7 km on WGS84.
	a := orb.Point{5.0, 51.0}
	b := orb.Point{5.0, 52.0}
	d := GeodesicDistance(a, b)
	if d < 110_000 || d > 112_500 {
		t.Errorf("distance = %.0f m, want ~111 km", d)
	}
}

func TestGeodesicLength(t *testing.T) {
	a := orb.Point{5.0, 51.0}
	b := orb.Point{5.0, 52.0}
	want := GeodesicDistance(a, b)

	got, err := GeodesicLength(orb.LineString{a, b})
	if err != nil {
		t.Fatalf("GeodesicLength: %v", err)
	}
	if math.Abs(got-want) > 1e-6 {
		t.Errorf("line length %.6f != segment distance %.6f", got, want)
	}

	// Points have zero length.
	if l, err := GeodesicLength(a); err != nil || l != 0 {
		t.Errorf("point length = %v, %v", l, err)
	}

	// Polygons are not edge geometries.
	poly := orb.Polygon{{{0, 0}, {1, 0}, {1, 1}, {0, 0}}}
	if _, err := GeodesicLength(poly); err == nil {
		t.Error("expected error for polygon geometry")
	}
}

func TestGeodesicLengthWKT_Malformed(t *testing.T) {
	if _, err := GeodesicLengthWKT("LINESTRING(4.9"); err == nil {
		t.Error("expected parse error")
	}
}

func TestProjector_RoundTrip(t *testing.T) {
	p := NewProjector(31)
	// Lobith area, on the NL/DE border.
	pt := orb.Point{6.1, 51.85}

	proj := p.Project(pt)
	back := p.Unproject(proj)

	if math.Abs(back[0]-pt[0]) > 1e-6 || math.Abs(back[1]-pt[1]) > 1e-6 {
		t.Errorf("round trip drifted: %v -> %v", pt, back)
	}
}

func TestProjector_MetricDistances(t *testing.T) {
	p := NewProjector(31)
	a := orb.Point{5.0, 52.0}
	b := orb.Point{5.0, 52.001} // ~111 m north

	d := PlanarDistance(p.Project(a), p.Project(b))
	geod := GeodesicDistance(a, b)

	// Projected planar distance should agree with the ellipsoid within the
	// UTM scale distortion (well under 1 m at this separation).
	if math.Abs(d-geod) > 1.0 {
		t.Errorf("planar %.2f m vs geodesic %.2f m", d, geod)
	}
}
