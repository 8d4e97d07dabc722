package geometry

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/wroge/wgs84"
)

// Projector reprojects lon/lat coordinates into a metric UTM zone so that
// Euclidean distances are true meters near the area of interest. Zone 31
// north covers the primary network's home country.
type Projector struct {
	zone    int
	forward wgs84.Func
	inverse wgs84.Func
}

// NewProjector creates a projector for the given northern-hemisphere UTM zone.
func NewProjector(zone int) *Projector {
	utm := wgs84.UTM(float64(zone), true)
	return &Projector{
		zone:    zone,
		forward: wgs84.LonLat().To(utm),
		inverse: utm.To(wgs84.LonLat()),
	}
}

// Zone returns the configured UTM zone.
func (p *Projector) Zone() int {
	return p.zone
}

// Project converts a lon/lat point to UTM easting/northing meters.
func (p *Projector) Project(pt orb.Point) orb.Point {
	east, north, _ := p.forward(pt[0], pt[1], 0)
	return orb.Point{east, north}
}

// Unproject converts a UTM easting/northing point back to lon/lat.
func (p *Projector) Unproject(pt orb.Point) orb.Point {
	lon, lat, _ := p.inverse(pt[0], pt[1], 0)
	return orb.Point{lon, lat}
}

// PlanarDistance returns the Euclidean distance between two projected points.
func PlanarDistance(a, b orb.Point) float64 {
	return math.Hypot(a[0]-b[0], a[1]-b[1])
}
