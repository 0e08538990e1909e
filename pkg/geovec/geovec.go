// Package geovec provides a clean public API for working with vector
// geospatial layers backed by ESRI Shapefiles.
//
// A Layer pairs a geometry collection with an attribute table and a
// coordinate reference system. The package covers the full batch
// pipeline: reading, inspection, reprojection, clipping, spatial
// aggregation, gridding, polygon intersection, choropleth rendering,
// and writing back to a shapefile.
package geovec

import (
	"fmt"
	"sort"

	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"
)

// GeometryType represents the geometry type shared by every shape in
// a layer.
type GeometryType int

const (
	// GeometryPoint represents single point locations.
	GeometryPoint GeometryType = iota

	// GeometryLine represents polylines (one or more parts).
	GeometryLine

	// GeometryPolygon represents closed polygon areas.
	GeometryPolygon
)

// String returns the string representation of the geometry type.
func (g GeometryType) String() string {
	switch g {
	case GeometryPoint:
		return "Point"
	case GeometryLine:
		return "PolyLine"
	case GeometryPolygon:
		return "Polygon"
	default:
		return "Unknown"
	}
}

// FieldType identifies an attribute column type.
type FieldType byte

const (
	// FieldString is a text column.
	FieldString FieldType = 'C'

	// FieldNumeric is a decimal column. Decimals controls precision;
	// zero decimals round-trips as int64.
	FieldNumeric FieldType = 'N'

	// FieldLogical is a boolean column.
	FieldLogical FieldType = 'L'

	// FieldDate is a YYYYMMDD text column.
	FieldDate FieldType = 'D'
)

// Field describes one attribute column of a layer.
type Field struct {
	Name     string
	Type     FieldType
	Length   uint8
	Decimals uint8
}

// Row holds the attribute values of a single shape, keyed by field
// name. Values are string, int64, float64, bool, or nil for missing.
type Row map[string]interface{}

// Layer is a geometry collection plus its attribute table.
//
// Invariants: every shape shares the layer's geometry type and CRS,
// and row i of the attribute table describes shape i.
//
// All fields are private to maintain encapsulation; mutate through
// Append, AddField and SetValue.
type Layer struct {
	name     string
	crs      string
	geomType GeometryType

	geoms  []orb.Geometry
	fields []Field
	rows   []Row

	index *spatialIndex // built lazily, invalidated by Append
}

// NewLayer creates an empty layer with the given name, CRS identifier
// (EPSG-style, e.g. "EPSG:4326") and geometry type.
func NewLayer(name, crs string, geomType GeometryType) *Layer {
	return &Layer{
		name:     name,
		crs:      crs,
		geomType: geomType,
	}
}

// Name returns the layer name (the shapefile base name on disk).
func (l *Layer) Name() string { return l.name }

// CRS returns the coordinate reference system identifier.
func (l *Layer) CRS() string { return l.crs }

// GeometryType returns the geometry type shared by all shapes.
func (l *Layer) GeometryType() GeometryType { return l.geomType }

// Len returns the number of shapes (and attribute rows).
func (l *Layer) Len() int { return len(l.geoms) }

// Geometry returns the geometry of shape i.
func (l *Layer) Geometry(i int) orb.Geometry { return l.geoms[i] }

// Row returns the attribute row describing shape i.
func (l *Layer) Row(i int) Row { return l.rows[i] }

// Fields returns the attribute columns in table order.
func (l *Layer) Fields() []Field { return l.fields }

// Bound returns the minimal axis-aligned extent of all shapes.
func (l *Layer) Bound() orb.Bound {
	var bound orb.Bound
	first := true
	for _, g := range l.geoms {
		if g == nil {
			continue
		}
		if first {
			bound = g.Bound()
			first = false
			continue
		}
		bound = bound.Union(g.Bound())
	}
	return bound
}

// Append adds a shape with its attribute row. The geometry must match
// the layer's geometry type.
func (l *Layer) Append(g orb.Geometry, row Row) error {
	if g != nil && !matchesType(g, l.geomType) {
		return fmt.Errorf("geometry %T does not match layer type %v", g, l.geomType)
	}
	if row == nil {
		row = Row{}
	}
	l.geoms = append(l.geoms, g)
	l.rows = append(l.rows, row)
	l.index = nil
	return nil
}

// AddField registers an attribute column. Adding an existing name is
// a no-op.
func (l *Layer) AddField(f Field) {
	for _, existing := range l.fields {
		if existing.Name == f.Name {
			return
		}
	}
	l.fields = append(l.fields, f)
}

// SetValue sets the value of a field on row i.
func (l *Layer) SetValue(i int, field string, v interface{}) {
	l.rows[i][field] = v
}

// Value returns the value of a field on row i and whether it is set
// and non-nil.
func (l *Layer) Value(i int, field string) (interface{}, bool) {
	v, ok := l.rows[i][field]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// ShapesInBounds returns the indices of shapes whose bounding boxes
// intersect the given extent, in ascending order.
//
// Queries use an R-tree built on first use, so repeated viewport
// queries are O(log n).
func (l *Layer) ShapesInBounds(b orb.Bound) []int {
	if l.index == nil {
		l.buildIndex()
	}
	if l.index == nil {
		return nil // empty layer
	}

	spatials := l.index.rtree.SearchIntersect(boundToRect(b))
	result := make([]int, 0, len(spatials))
	for _, spatial := range spatials {
		result = append(result, spatial.(*indexedShape).idx)
	}
	sort.Ints(result)
	return result
}

// matchesType reports whether a geometry can live in a layer of the
// given type.
func matchesType(g orb.Geometry, t GeometryType) bool {
	switch g.(type) {
	case orb.Point:
		return t == GeometryPoint
	case orb.LineString, orb.MultiLineString:
		return t == GeometryLine
	case orb.Polygon:
		return t == GeometryPolygon
	default:
		return false
	}
}

// spatialIndex provides O(log n) extent queries using an R-tree.
type spatialIndex struct {
	rtree *rtreego.Rtree
}

// indexedShape wraps a shape index for R-tree storage.
type indexedShape struct {
	idx   int
	bound orb.Bound
}

// Bounds implements rtreego.Spatial.
func (s *indexedShape) Bounds() rtreego.Rect {
	return boundToRect(s.bound)
}

// boundToRect converts an orb bound to an R-tree rectangle. Every
// rectangle grows by epsilon past its max edge: the R-tree treats
// rectangles that merely touch as disjoint, so without the padding a
// shape lying exactly on a query bound's max edge would never be
// returned. The epsilon is ~11 meters at the equator in degree units.
func boundToRect(b orb.Bound) rtreego.Rect {
	const epsilon = 0.0001

	width := b.Max[0] - b.Min[0] + epsilon
	height := b.Max[1] - b.Min[1] + epsilon

	rect, _ := rtreego.NewRect(rtreego.Point{b.Min[0], b.Min[1]}, []float64{width, height})
	return rect
}

func (l *Layer) buildIndex() {
	if len(l.geoms) == 0 {
		return
	}

	rtree := rtreego.NewTree(2, 25, 50)
	for i, g := range l.geoms {
		if g == nil {
			continue
		}
		rtree.Insert(&indexedShape{idx: i, bound: g.Bound()})
	}
	l.index = &spatialIndex{rtree: rtree}
}

// emptyLike returns an empty layer that shares name, CRS, geometry
// type and field schema with l.
func (l *Layer) emptyLike(name string) *Layer {
	out := NewLayer(name, l.crs, l.geomType)
	out.fields = append([]Field(nil), l.fields...)
	return out
}

// copyRow deep-copies an attribute row.
func copyRow(row Row) Row {
	out := make(Row, len(row))
	for k, v := range row {
		out[k] = v
	}
	return out
}
