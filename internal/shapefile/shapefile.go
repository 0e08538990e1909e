// Package shapefile implements reading and writing of ESRI Shapefile
// triples (.shp geometry, .shx offset index, .dbf attribute table).
//
// The format reference is the ESRI Shapefile Technical Description
// (July 1998). Geometry is decoded into paulmach/orb types so callers
// can use the orb ecosystem directly.
package shapefile

import "github.com/paulmach/orb"

// ShapeType identifies the geometry type stored in a .shp file.
// All non-null records in one file share a single shape type.
type ShapeType int32

const (
	// TypeNull is a placeholder record with no geometry.
	TypeNull ShapeType = 0

	// TypePoint is a single X,Y coordinate.
	TypePoint ShapeType = 1

	// TypePolyLine is an ordered set of vertices in one or more parts.
	TypePolyLine ShapeType = 3

	// TypePolygon is one or more closed rings. Ring order follows the
	// file; no outer/hole classification is performed here.
	TypePolygon ShapeType = 5
)

// String returns the ESRI name of the shape type.
func (t ShapeType) String() string {
	switch t {
	case TypeNull:
		return "Null"
	case TypePoint:
		return "Point"
	case TypePolyLine:
		return "PolyLine"
	case TypePolygon:
		return "Polygon"
	default:
		return "Unknown"
	}
}

// FieldType identifies a DBF column type.
type FieldType byte

const (
	// FieldCharacter is a fixed-width text column ('C').
	FieldCharacter FieldType = 'C'

	// FieldNumeric is a right-aligned decimal column ('N').
	FieldNumeric FieldType = 'N'

	// FieldFloat is a floating point column ('F'), read like 'N'.
	FieldFloat FieldType = 'F'

	// FieldLogical is a single-byte boolean column ('L').
	FieldLogical FieldType = 'L'

	// FieldDate is a YYYYMMDD text column ('D').
	FieldDate FieldType = 'D'
)

// FieldDesc describes a single DBF column.
//
// Name is at most 10 bytes (the DBF descriptor stores 11 bytes with a
// null terminator). Decimals is only meaningful for numeric columns.
type FieldDesc struct {
	Name     string
	Type     FieldType
	Length   uint8
	Decimals uint8
}

// File is a fully decoded shapefile: geometry records from the .shp
// file plus the attribute table from the .dbf file.
//
// The invariant len(Rows) == len(Geometries) is enforced on read and
// required on write: row i describes geometry i.
type File struct {
	Type       ShapeType
	Bound      orb.Bound
	Geometries []orb.Geometry
	Fields     []FieldDesc
	Rows       []map[string]interface{}
}

// NumRecords returns the number of geometry records.
func (f *File) NumRecords() int {
	return len(f.Geometries)
}

const (
	shpMagic      = 9994
	shpVersion    = 1000
	shpHeaderSize = 100

	dbfVersion    = 0x03
	dbfFieldSize  = 32
	dbfTerminator = 0x0D
	dbfEOF        = 0x1A
)
