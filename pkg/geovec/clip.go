package geovec

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// ClipMode selects the containment semantic used by Clip.
//
// GIS "clipping" is ambiguous between bounding-box filtering and true
// polygon containment; both are offered explicitly.
type ClipMode int

const (
	// ClipWithin keeps shapes whose anchor point lies inside one of
	// the boundary polygons. The anchor is the point itself for point
	// shapes and the bounding-box center otherwise. This is the
	// default semantic.
	ClipWithin ClipMode = iota

	// ClipBounds keeps shapes whose bounding box intersects the
	// boundary layer's extent. Faster, coarser.
	ClipBounds
)

// String returns the name of the clip mode.
func (m ClipMode) String() string {
	switch m {
	case ClipWithin:
		return "within"
	case ClipBounds:
		return "bounds"
	default:
		return "unknown"
	}
}

// Clip returns the subset of l's shapes that fall within the boundary
// layer, per the chosen mode. Attribute rows travel with their shapes.
//
// Both layers must share a CRS. For ClipWithin the boundary must be a
// polygon layer.
func Clip(l, boundary *Layer, mode ClipMode) (*Layer, error) {
	if l.crs != boundary.crs {
		return nil, &CRSMismatchError{A: l.crs, B: boundary.crs}
	}

	out := l.emptyLike(l.name)

	switch mode {
	case ClipBounds:
		for _, i := range l.ShapesInBounds(boundary.Bound()) {
			out.geoms = append(out.geoms, l.geoms[i])
			out.rows = append(out.rows, copyRow(l.rows[i]))
		}
		return out, nil

	case ClipWithin:
		if boundary.geomType != GeometryPolygon {
			return nil, fmt.Errorf("clip boundary must be a polygon layer, got %v", boundary.geomType)
		}
		// R-tree prefilter on the boundary extent, then the exact
		// point-in-polygon test per candidate.
		for _, i := range l.ShapesInBounds(boundary.Bound()) {
			g := l.geoms[i]
			if g == nil {
				continue
			}
			if containsPoint(boundary, anchorPoint(g)) {
				out.geoms = append(out.geoms, g)
				out.rows = append(out.rows, copyRow(l.rows[i]))
			}
		}
		return out, nil
	}

	return nil, fmt.Errorf("unknown clip mode %d", mode)
}

// anchorPoint returns the representative point used for containment
// tests: the point itself for points, the bound center otherwise.
func anchorPoint(g orb.Geometry) orb.Point {
	if pt, ok := g.(orb.Point); ok {
		return pt
	}
	return g.Bound().Center()
}

// containsPoint reports whether any polygon in the layer contains the
// point (boundary inclusive).
func containsPoint(polygons *Layer, pt orb.Point) bool {
	for _, g := range polygons.geoms {
		poly, ok := g.(orb.Polygon)
		if !ok {
			continue
		}
		if planar.PolygonContains(poly, pt) {
			return true
		}
	}
	return false
}
