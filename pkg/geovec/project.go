package geovec

import (
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"
)

// Supported CRS identifiers.
const (
	// EPSG4326 is geographic lon/lat on WGS-84, the pivot system all
	// transforms compose through.
	EPSG4326 = "EPSG:4326"

	// EPSG3857 is spherical web mercator (meters).
	EPSG3857 = "EPSG:3857"

	// EPSG27700 is the Ordnance Survey British National Grid
	// (transverse mercator on the Airy 1830 ellipsoid, meters).
	EPSG27700 = "EPSG:27700"
)

// projection converts between EPSG:4326 and one target system.
type projection struct {
	forward func(orb.Point) orb.Point // lon/lat -> target
	inverse func(orb.Point) orb.Point // target -> lon/lat
}

var projections = map[string]projection{
	EPSG4326: {
		forward: func(p orb.Point) orb.Point { return p },
		inverse: func(p orb.Point) orb.Point { return p },
	},
	EPSG3857: {
		forward: project.WGS84.ToMercator,
		inverse: project.Mercator.ToWGS84,
	},
	EPSG27700: {
		forward: nationalGridForward,
		inverse: nationalGridInverse,
	},
}

// SupportedCRS returns the registered CRS identifiers, sorted.
func SupportedCRS() []string {
	out := make([]string, 0, len(projections))
	for crs := range projections {
		out = append(out, crs)
	}
	sort.Strings(out)
	return out
}

// Reproject returns a new layer with every coordinate transformed to
// the target reference system. The input layer is not modified.
//
// Transforms compose through EPSG:4326, so any supported pair works.
// Unknown identifiers fail with *UnsupportedProjectionError.
//
// Note: the datum shift between OSGB 1936 and WGS-84 (on the order of
// 100 m) is not applied; coordinates are converted projection-to-
// projection as instructional GIS workflows do.
func Reproject(l *Layer, target string) (*Layer, error) {
	src, ok := projections[l.crs]
	if !ok {
		return nil, &UnsupportedProjectionError{CRS: l.crs}
	}
	dst, ok := projections[target]
	if !ok {
		return nil, &UnsupportedProjectionError{CRS: target}
	}

	transform := func(p orb.Point) orb.Point {
		return dst.forward(src.inverse(p))
	}

	out := NewLayer(l.name, target, l.geomType)
	out.fields = append([]Field(nil), l.fields...)
	for i, g := range l.geoms {
		var projected orb.Geometry
		if g != nil {
			projected = project.Geometry(orb.Clone(g), transform)
		}
		out.geoms = append(out.geoms, projected)
		out.rows = append(out.rows, copyRow(l.rows[i]))
	}
	return out, nil
}
