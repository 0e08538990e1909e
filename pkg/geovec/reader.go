package geovec

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/cartona/geovec/internal/shapefile"
)

// Open reads the shapefile triple <dir>/<layer>.{shp,shx,dbf} with
// default options.
//
// Example:
//
//	crimes, err := geovec.Open("data", "crimes")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(crimes.Summary())
func Open(dir, layer string) (*Layer, error) {
	return OpenWithOptions(dir, layer, DefaultOpenOptions())
}

// OpenWithOptions reads a shapefile with custom options.
//
// A *NotFoundError is returned when a component file is missing, a
// *FormatError when the components are malformed or disagree.
func OpenWithOptions(dir, layer string, opts OpenOptions) (*Layer, error) {
	f, err := shapefile.ReadDir(dir, layer)
	if err != nil {
		return nil, mapError(err)
	}

	out := NewLayer(layer, readCRS(dir, layer, opts.CRS), fromShapeType(f.Type))
	for _, fd := range f.Fields {
		out.fields = append(out.fields, Field{
			Name:     fd.Name,
			Type:     FieldType(fd.Type),
			Length:   fd.Length,
			Decimals: fd.Decimals,
		})
	}

	for i, g := range f.Geometries {
		if opts.ValidateGeometry {
			if err := shapefile.ValidateGeometry(i, g); err != nil {
				if opts.SkipBrokenRecords {
					continue
				}
				return nil, &FormatError{Reason: err.Error()}
			}
		}
		out.geoms = append(out.geoms, g)
		out.rows = append(out.rows, Row(f.Rows[i]))
	}

	return out, nil
}

// mapError converts internal codec errors to the public error types.
func mapError(err error) error {
	var nf *shapefile.NotFoundError
	if errors.As(err, &nf) {
		return &NotFoundError{Path: nf.Path}
	}
	var fe *shapefile.FormatError
	if errors.As(err, &fe) {
		return &FormatError{Path: fe.Path, Reason: fe.Reason}
	}
	var ae *shapefile.AlreadyExistsError
	if errors.As(err, &ae) {
		return &AlreadyExistsError{Path: ae.Path}
	}
	var ge *shapefile.GeometryError
	if errors.As(err, &ge) {
		return &FormatError{Reason: ge.Error()}
	}
	return err
}

func fromShapeType(t shapefile.ShapeType) GeometryType {
	switch t {
	case shapefile.TypePolyLine:
		return GeometryLine
	case shapefile.TypePolygon:
		return GeometryPolygon
	default:
		return GeometryPoint
	}
}

func toShapeType(t GeometryType) shapefile.ShapeType {
	switch t {
	case GeometryLine:
		return shapefile.TypePolyLine
	case GeometryPolygon:
		return shapefile.TypePolygon
	default:
		return shapefile.TypePoint
	}
}

// readCRS resolves the layer CRS from the optional .prj sidecar.
// Unknown or missing sidecars fall back to the override, then to
// EPSG:4326.
func readCRS(dir, layer, override string) string {
	fallback := override
	if fallback == "" {
		fallback = EPSG4326
	}

	data, err := os.ReadFile(filepath.Join(dir, layer+".prj"))
	if err != nil {
		return fallback
	}
	if crs := sniffCRS(string(data)); crs != "" {
		return crs
	}
	return fallback
}

// sniffCRS maps a .prj body to a supported EPSG identifier. Accepts
// either a bare "EPSG:NNNN" string or the usual WKT from desktop GIS
// tools.
func sniffCRS(prj string) string {
	s := strings.TrimSpace(prj)
	switch {
	case strings.HasPrefix(s, "EPSG:"):
		return s
	case strings.Contains(s, "British_National_Grid") || strings.Contains(s, "OSGB"):
		return EPSG27700
	case strings.Contains(s, "Web_Mercator") || strings.Contains(s, "Pseudo-Mercator") || strings.Contains(s, "3857"):
		return EPSG3857
	case strings.Contains(s, "WGS_1984") || strings.Contains(s, "WGS 84"):
		return EPSG4326
	default:
		return ""
	}
}
