package shapefile

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/paulmach/orb"
)

// WriteDir writes the shapefile triple <dir>/<layer>.{shp,shx,dbf}.
//
// When overwrite is false and any component file already exists, the
// write fails with *AlreadyExistsError and nothing is touched.
func WriteDir(dir, layer string, f *File, overwrite bool) error {
	if len(f.Rows) != len(f.Geometries) {
		return &FormatError{Reason: "attribute/geometry record count mismatch"}
	}

	base := filepath.Join(dir, layer)
	components := []string{base + ".shp", base + ".shx", base + ".dbf"}
	if !overwrite {
		for _, path := range components {
			if _, err := os.Stat(path); err == nil {
				return &AlreadyExistsError{Path: path}
			}
		}
	}

	shpData, shxData, err := encodeSHP(f)
	if err != nil {
		return err
	}
	dbfData, err := encodeDBF(f.Fields, f.Rows)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create destination: %w", err)
	}
	for i, data := range [][]byte{shpData, shxData, dbfData} {
		if err := os.WriteFile(components[i], data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", components[i], err)
		}
	}
	return nil
}

// encodeSHP serializes geometry records and the matching .shx index.
func encodeSHP(f *File) (shp, shx []byte, err error) {
	var records bytes.Buffer
	var index bytes.Buffer

	bound := fileBound(f)
	offsetWords := shpHeaderSize / 2

	for i, geom := range f.Geometries {
		content, err := encodeRecord(geom, f.Type)
		if err != nil {
			return nil, nil, &GeometryError{Record: i, Reason: err.Error()}
		}

		recHeader := make([]byte, 8)
		binary.BigEndian.PutUint32(recHeader[0:4], uint32(i+1)) // 1-based
		binary.BigEndian.PutUint32(recHeader[4:8], uint32(len(content)/2))
		records.Write(recHeader)
		records.Write(content)

		idx := make([]byte, 8)
		binary.BigEndian.PutUint32(idx[0:4], uint32(offsetWords))
		binary.BigEndian.PutUint32(idx[4:8], uint32(len(content)/2))
		index.Write(idx)

		offsetWords += (8 + len(content)) / 2
	}

	shpLen := shpHeaderSize + records.Len()
	shxLen := shpHeaderSize + index.Len()

	shp = append(encodeHeader(f.Type, bound, shpLen), records.Bytes()...)
	shx = append(encodeHeader(f.Type, bound, shxLen), index.Bytes()...)
	return shp, shx, nil
}

func encodeHeader(t ShapeType, bound orb.Bound, fileLen int) []byte {
	h := make([]byte, shpHeaderSize)
	binary.BigEndian.PutUint32(h[0:4], shpMagic)
	binary.BigEndian.PutUint32(h[24:28], uint32(fileLen/2)) // length in words
	binary.LittleEndian.PutUint32(h[28:32], shpVersion)
	binary.LittleEndian.PutUint32(h[32:36], uint32(t))
	putFloat(h, 36, bound.Min[0])
	putFloat(h, 44, bound.Min[1])
	putFloat(h, 52, bound.Max[0])
	putFloat(h, 60, bound.Max[1])
	// Z and M ranges stay zero for 2D data.
	return h
}

// fileBound recomputes the extent from the geometry rather than
// trusting a stale File.Bound.
func fileBound(f *File) orb.Bound {
	var bound orb.Bound
	first := true
	for _, g := range f.Geometries {
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

func encodeRecord(geom orb.Geometry, fileType ShapeType) ([]byte, error) {
	if geom == nil {
		content := make([]byte, 4)
		binary.LittleEndian.PutUint32(content, uint32(TypeNull))
		return content, nil
	}

	switch fileType {
	case TypePoint:
		pt, ok := geom.(orb.Point)
		if !ok {
			return nil, fmt.Errorf("geometry %T cannot be written as Point", geom)
		}
		content := make([]byte, 20)
		binary.LittleEndian.PutUint32(content[0:4], uint32(TypePoint))
		putFloat(content, 4, pt[0])
		putFloat(content, 12, pt[1])
		return content, nil

	case TypePolyLine:
		var parts []orb.LineString
		switch g := geom.(type) {
		case orb.LineString:
			parts = []orb.LineString{g}
		case orb.MultiLineString:
			parts = g
		default:
			return nil, fmt.Errorf("geometry %T cannot be written as PolyLine", geom)
		}
		rings := make([][]orb.Point, len(parts))
		for i, ls := range parts {
			rings[i] = ls
		}
		return encodeMultipart(TypePolyLine, geom.Bound(), rings), nil

	case TypePolygon:
		poly, ok := geom.(orb.Polygon)
		if !ok {
			return nil, fmt.Errorf("geometry %T cannot be written as Polygon", geom)
		}
		rings := make([][]orb.Point, len(poly))
		for i, ring := range poly {
			r := ring
			if !r.Closed() && len(r) > 0 {
				r = append(append(orb.Ring{}, r...), r[0])
			}
			rings[i] = r
		}
		return encodeMultipart(TypePolygon, geom.Bound(), rings), nil
	}

	return nil, fmt.Errorf("unsupported shape type %v", fileType)
}

func encodeMultipart(t ShapeType, bound orb.Bound, parts [][]orb.Point) []byte {
	numPoints := 0
	for _, p := range parts {
		numPoints += len(p)
	}

	size := 4 + 32 + 8 + len(parts)*4 + numPoints*16
	content := make([]byte, size)
	binary.LittleEndian.PutUint32(content[0:4], uint32(t))
	putFloat(content, 4, bound.Min[0])
	putFloat(content, 12, bound.Min[1])
	putFloat(content, 20, bound.Max[0])
	putFloat(content, 28, bound.Max[1])
	binary.LittleEndian.PutUint32(content[36:40], uint32(len(parts)))
	binary.LittleEndian.PutUint32(content[40:44], uint32(numPoints))

	off := 44
	start := 0
	for _, p := range parts {
		binary.LittleEndian.PutUint32(content[off:off+4], uint32(start))
		off += 4
		start += len(p)
	}
	for _, p := range parts {
		for _, pt := range p {
			putFloat(content, off, pt[0])
			putFloat(content, off+8, pt[1])
			off += 16
		}
	}
	return content
}

func putFloat(b []byte, off int, v float64) {
	binary.LittleEndian.PutUint64(b[off:off+8], math.Float64bits(v))
}
