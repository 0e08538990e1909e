package geovec

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/clip"
	"github.com/paulmach/orb/planar"
)

// Intersect trims the cells of a grid layer to an irregular boundary
// polygon layer.
//
// Per cell:
//   - fully covered by a boundary polygon: the cell passes through
//     unchanged;
//   - partially covered: the cell geometry is replaced by the
//     boundary clipped to the cell's rectangle (one output record per
//     resulting piece, attributes duplicated);
//   - fully outside: the cell is dropped.
//
// Both layers must be polygon layers sharing a CRS.
func Intersect(grid, boundary *Layer) (*Layer, error) {
	if grid.crs != boundary.crs {
		return nil, &CRSMismatchError{A: grid.crs, B: boundary.crs}
	}
	if grid.geomType != GeometryPolygon || boundary.geomType != GeometryPolygon {
		return nil, fmt.Errorf("intersection requires polygon layers, got %v and %v",
			grid.geomType, boundary.geomType)
	}

	polys := make([]orb.Polygon, 0, boundary.Len())
	for _, g := range boundary.geoms {
		if poly, ok := g.(orb.Polygon); ok {
			polys = append(polys, poly)
		}
	}

	out := grid.emptyLike(grid.name)
	for i, g := range grid.geoms {
		cell, ok := g.(orb.Polygon)
		if !ok {
			continue
		}
		cb := cell.Bound()
		cellArea := math.Abs(planar.Area(cell))

		for _, poly := range polys {
			clipped := clip.Polygon(cb, poly.Clone())
			if len(clipped) == 0 || len(clipped[0]) < 4 {
				continue
			}
			area := math.Abs(planar.Area(clipped))
			// Edge-touching cells clip to zero-area slivers.
			if area == 0 {
				continue
			}
			// A clip covering the whole rectangle means the polygon
			// contains the cell: keep the exact cell geometry. Corner
			// containment alone is not enough, a concave notch can
			// cross a cell whose corners are all inside.
			if area >= cellArea*(1-1e-9) {
				out.geoms = append(out.geoms, cell)
				out.rows = append(out.rows, copyRow(grid.rows[i]))
				break
			}
			out.geoms = append(out.geoms, clipped)
			out.rows = append(out.rows, copyRow(grid.rows[i]))
		}
	}
	return out, nil
}
