package geovec

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// CountIn spatially aggregates a point layer into a polygon layer:
// the result is a copy of the polygon layer with an added numeric
// field holding the number of points inside each polygon, in polygon
// input order.
//
// A point lying on a boundary shared by several polygons is assigned
// to the first containing polygon only, so given non-overlapping
// polygons covering all points the counts sum to the point count.
// Polygons with no points get a count of zero.
func CountIn(points, polygons *Layer, field string) (*Layer, error) {
	if points.crs != polygons.crs {
		return nil, &CRSMismatchError{A: points.crs, B: polygons.crs}
	}
	if points.geomType != GeometryPoint {
		return nil, fmt.Errorf("aggregation input must be a point layer, got %v", points.geomType)
	}
	if polygons.geomType != GeometryPolygon {
		return nil, fmt.Errorf("aggregation target must be a polygon layer, got %v", polygons.geomType)
	}

	counts := make([]int64, polygons.Len())

	for _, g := range points.geoms {
		pt, ok := g.(orb.Point)
		if !ok {
			continue
		}
		// R-tree candidates come back sorted by index, so the first
		// containing polygon is the first in input order.
		for _, j := range polygons.ShapesInBounds(orb.Bound{Min: pt, Max: pt}) {
			poly, ok := polygons.geoms[j].(orb.Polygon)
			if !ok {
				continue
			}
			if planar.PolygonContains(poly, pt) {
				counts[j]++
				break
			}
		}
	}

	out := polygons.emptyLike(polygons.name)
	out.AddField(Field{Name: field, Type: FieldNumeric, Length: 12})
	for i, g := range polygons.geoms {
		row := copyRow(polygons.rows[i])
		row[field] = counts[i]
		out.geoms = append(out.geoms, g)
		out.rows = append(out.rows, row)
	}
	return out, nil
}

// Normalize replaces missing (nil or NaN) values of a numeric field
// with int64(0) and returns how many rows were rewritten. Rendering
// requires every polygon to carry a value; run this after any
// aggregation that can leave gaps.
func Normalize(l *Layer, field string) int {
	replaced := 0
	for _, row := range l.rows {
		v, ok := row[field]
		if !ok || v == nil {
			row[field] = int64(0)
			replaced++
			continue
		}
		if f, isFloat := v.(float64); isFloat && math.IsNaN(f) {
			row[field] = int64(0)
			replaced++
		}
	}
	return replaced
}
