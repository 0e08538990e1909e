package geovec

import (
	"fmt"

	"github.com/paulmach/orb"
)

// BuildGrid tiles an extent into a regular cells × cells polygon
// layer sharing the given CRS.
//
// Cell edges are interpolated so the union bounding box of all cells
// equals the input extent exactly. Cells are emitted row-major from
// the south-west corner with attributes id ("cell_<row>_<col>"), row
// and col.
func BuildGrid(extent orb.Bound, cells int, crs string) (*Layer, error) {
	if cells < 1 {
		return nil, fmt.Errorf("grid needs at least 1 cell per axis, got %d", cells)
	}
	if extent.Min[0] >= extent.Max[0] || extent.Min[1] >= extent.Max[1] {
		return nil, fmt.Errorf("degenerate extent %v", extent)
	}

	// edge(i) interpolates between min and max so edge(0) == min and
	// edge(cells) == max without floating point drift.
	edge := func(min, max float64, i int) float64 {
		t := float64(i) / float64(cells)
		return min*(1-t) + max*t
	}

	out := NewLayer("grid", crs, GeometryPolygon)
	out.AddField(Field{Name: "id", Type: FieldString, Length: 16})
	out.AddField(Field{Name: "row", Type: FieldNumeric, Length: 6})
	out.AddField(Field{Name: "col", Type: FieldNumeric, Length: 6})

	for r := 0; r < cells; r++ {
		south := edge(extent.Min[1], extent.Max[1], r)
		north := edge(extent.Min[1], extent.Max[1], r+1)
		for c := 0; c < cells; c++ {
			west := edge(extent.Min[0], extent.Max[0], c)
			east := edge(extent.Min[0], extent.Max[0], c+1)

			cell := orb.Polygon{orb.Ring{
				{west, south},
				{east, south},
				{east, north},
				{west, north},
				{west, south},
			}}
			row := Row{
				"id":  fmt.Sprintf("cell_%d_%d", r, c),
				"row": int64(r),
				"col": int64(c),
			}
			if err := out.Append(cell, row); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}
