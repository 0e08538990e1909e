package shapefile

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"

	"github.com/paulmach/orb"
)

// ReadDir reads the shapefile triple <dir>/<layer>.{shp,shx,dbf}.
//
// All three component files must exist; a missing file yields a
// *NotFoundError. Inconsistencies between them (record counts, bad
// headers, truncated records) yield a *FormatError.
func ReadDir(dir, layer string) (*File, error) {
	base := filepath.Join(dir, layer)

	shpData, err := readComponent(base + ".shp")
	if err != nil {
		return nil, err
	}
	shxData, err := readComponent(base + ".shx")
	if err != nil {
		return nil, err
	}
	dbfData, err := readComponent(base + ".dbf")
	if err != nil {
		return nil, err
	}

	shapeType, bound, geoms, err := parseSHP(base+".shp", shpData)
	if err != nil {
		return nil, err
	}

	// The .shx index is 100 bytes of header plus 8 bytes per record.
	// Use it to cross-check the record count.
	if len(shxData) < shpHeaderSize {
		return nil, &FormatError{Path: base + ".shx", Reason: "truncated header"}
	}
	indexed := (len(shxData) - shpHeaderSize) / 8
	if indexed != len(geoms) {
		return nil, &FormatError{
			Path:   base + ".shx",
			Reason: "index/geometry record count mismatch",
		}
	}

	fields, rows, err := parseDBF(base+".dbf", dbfData)
	if err != nil {
		return nil, err
	}
	if len(rows) != len(geoms) {
		return nil, &FormatError{
			Path:   base + ".dbf",
			Reason: "attribute/geometry record count mismatch",
		}
	}

	return &File{
		Type:       shapeType,
		Bound:      bound,
		Geometries: geoms,
		Fields:     fields,
		Rows:       rows,
	}, nil
}

func readComponent(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{Path: path}
		}
		return nil, err
	}
	return data, nil
}

// parseSHP decodes the .shp main file header and all geometry records.
func parseSHP(path string, data []byte) (ShapeType, orb.Bound, []orb.Geometry, error) {
	var bound orb.Bound

	if len(data) < shpHeaderSize {
		return 0, bound, nil, &FormatError{Path: path, Reason: "truncated header"}
	}

	// File code is big-endian, the rest of the header little-endian.
	if binary.BigEndian.Uint32(data[0:4]) != shpMagic {
		return 0, bound, nil, &FormatError{Path: path, Reason: "bad file code"}
	}
	if binary.LittleEndian.Uint32(data[28:32]) != shpVersion {
		return 0, bound, nil, &FormatError{Path: path, Reason: "unsupported version"}
	}

	shapeType := ShapeType(binary.LittleEndian.Uint32(data[32:36]))
	switch shapeType {
	case TypePoint, TypePolyLine, TypePolygon:
	default:
		return 0, bound, nil, &FormatError{Path: path, Reason: "unsupported shape type"}
	}

	bound = orb.Bound{
		Min: orb.Point{
			math.Float64frombits(binary.LittleEndian.Uint64(data[36:44])),
			math.Float64frombits(binary.LittleEndian.Uint64(data[44:52])),
		},
		Max: orb.Point{
			math.Float64frombits(binary.LittleEndian.Uint64(data[52:60])),
			math.Float64frombits(binary.LittleEndian.Uint64(data[60:68])),
		},
	}

	geoms := make([]orb.Geometry, 0, 64)
	offset := shpHeaderSize
	for offset < len(data) {
		if offset+8 > len(data) {
			return 0, bound, nil, &FormatError{Path: path, Reason: "truncated record header"}
		}
		// Record header: number and content length, both big-endian,
		// content length counted in 16-bit words.
		contentLen := int(binary.BigEndian.Uint32(data[offset+4:offset+8])) * 2
		offset += 8
		if offset+contentLen > len(data) {
			return 0, bound, nil, &FormatError{Path: path, Reason: "truncated record content"}
		}

		geom, err := parseRecord(data[offset:offset+contentLen], shapeType)
		if err != nil {
			return 0, bound, nil, &FormatError{Path: path, Reason: err.Error()}
		}
		geoms = append(geoms, geom)
		offset += contentLen
	}

	return shapeType, bound, geoms, nil
}

// parseRecord decodes one record's content into an orb geometry.
func parseRecord(content []byte, fileType ShapeType) (orb.Geometry, error) {
	if len(content) < 4 {
		return nil, &GeometryError{Reason: "record too short"}
	}
	recType := ShapeType(binary.LittleEndian.Uint32(content[0:4]))

	// Null records are legal in any file and carry no coordinates.
	if recType == TypeNull {
		return nil, nil
	}
	if recType != fileType {
		return nil, &GeometryError{Reason: "record shape type differs from file shape type"}
	}

	body := content[4:]
	switch recType {
	case TypePoint:
		if len(body) < 16 {
			return nil, &GeometryError{Reason: "truncated point record"}
		}
		return orb.Point{
			readFloat(body, 0),
			readFloat(body, 8),
		}, nil

	case TypePolyLine, TypePolygon:
		return parseMultipart(body, recType)
	}

	return nil, &GeometryError{Reason: "unsupported record type"}
}

// parseMultipart decodes the shared PolyLine/Polygon layout:
// box (4 doubles), numParts, numPoints, part offsets, then points.
func parseMultipart(body []byte, recType ShapeType) (orb.Geometry, error) {
	if len(body) < 40 {
		return nil, &GeometryError{Reason: "truncated multipart record"}
	}
	numParts := int(binary.LittleEndian.Uint32(body[32:36]))
	numPoints := int(binary.LittleEndian.Uint32(body[36:40]))
	if numParts <= 0 || numPoints <= 0 {
		return nil, &GeometryError{Reason: "empty multipart record"}
	}

	need := 40 + numParts*4 + numPoints*16
	if len(body) < need {
		return nil, &GeometryError{Reason: "multipart record shorter than declared"}
	}

	parts := make([]int, numParts+1)
	for i := 0; i < numParts; i++ {
		parts[i] = int(binary.LittleEndian.Uint32(body[40+i*4 : 44+i*4]))
	}
	parts[numParts] = numPoints

	pointsBase := 40 + numParts*4
	readPoint := func(i int) orb.Point {
		off := pointsBase + i*16
		return orb.Point{readFloat(body, off), readFloat(body, off+8)}
	}

	if recType == TypePolygon {
		poly := make(orb.Polygon, 0, numParts)
		for p := 0; p < numParts; p++ {
			start, end := parts[p], parts[p+1]
			if end <= start {
				return nil, &GeometryError{Reason: "invalid part offsets"}
			}
			ring := make(orb.Ring, 0, end-start)
			for i := start; i < end; i++ {
				ring = append(ring, readPoint(i))
			}
			if !ring.Closed() {
				ring = append(ring, ring[0])
			}
			poly = append(poly, ring)
		}
		return poly, nil
	}

	// PolyLine: a single part decodes to a LineString, multiple parts
	// to a MultiLineString.
	if numParts == 1 {
		ls := make(orb.LineString, 0, numPoints)
		for i := 0; i < numPoints; i++ {
			ls = append(ls, readPoint(i))
		}
		return ls, nil
	}
	mls := make(orb.MultiLineString, 0, numParts)
	for p := 0; p < numParts; p++ {
		start, end := parts[p], parts[p+1]
		if end <= start {
			return nil, &GeometryError{Reason: "invalid part offsets"}
		}
		ls := make(orb.LineString, 0, end-start)
		for i := start; i < end; i++ {
			ls = append(ls, readPoint(i))
		}
		mls = append(mls, ls)
	}
	return mls, nil
}

func readFloat(b []byte, off int) float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(b[off : off+8]))
}
