package geovec

import (
	"fmt"
	"strings"

	"github.com/golang/geo/s2"
	"github.com/paulmach/orb"
)

const earthRadiusMeters = 6371000.0

// Summary describes a layer the way a GIS console would print it:
// extent, reference system, geometry type and table shape.
type Summary struct {
	Name         string
	CRS          string
	GeometryType GeometryType
	Shapes       int
	FieldCount   int
	Bound        orb.Bound

	// Width and Height are the extent dimensions in meters. For
	// geographic layers they are measured along great circles; for
	// projected layers they are planar differences.
	Width  float64
	Height float64
}

// Summary computes the layer summary.
func (l *Layer) Summary() Summary {
	bound := l.Bound()
	s := Summary{
		Name:         l.name,
		CRS:          l.crs,
		GeometryType: l.geomType,
		Shapes:       l.Len(),
		FieldCount:   len(l.fields),
		Bound:        bound,
	}

	if l.Len() == 0 {
		return s
	}

	if l.crs == EPSG4326 {
		midLat := (bound.Min[1] + bound.Max[1]) / 2
		s.Width = greatCircleMeters(midLat, bound.Min[0], midLat, bound.Max[0])
		s.Height = greatCircleMeters(bound.Min[1], bound.Min[0], bound.Max[1], bound.Min[0])
	} else {
		s.Width = bound.Max[0] - bound.Min[0]
		s.Height = bound.Max[1] - bound.Min[1]
	}
	return s
}

// greatCircleMeters measures the distance between two lat/lon pairs
// on the sphere.
func greatCircleMeters(lat1, lon1, lat2, lon2 float64) float64 {
	a := s2.LatLngFromDegrees(lat1, lon1)
	b := s2.LatLngFromDegrees(lat2, lon2)
	return a.Distance(b).Radians() * earthRadiusMeters
}

// String formats the summary for terminal output.
func (s Summary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Layer:    %s\n", s.Name)
	fmt.Fprintf(&b, "Type:     %s\n", s.GeometryType)
	fmt.Fprintf(&b, "CRS:      %s\n", s.CRS)
	fmt.Fprintf(&b, "Shapes:   %d\n", s.Shapes)
	fmt.Fprintf(&b, "Fields:   %d\n", s.FieldCount)
	fmt.Fprintf(&b, "Extent:   [%.6f, %.6f] to [%.6f, %.6f]\n",
		s.Bound.Min[0], s.Bound.Min[1], s.Bound.Max[0], s.Bound.Max[1])
	fmt.Fprintf(&b, "Size:     %.0f m x %.0f m", s.Width, s.Height)
	return b.String()
}
