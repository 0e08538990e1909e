package geovec

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cartona/geovec/internal/shapefile"
)

// Write persists the layer as the shapefile triple
// <dir>/<name>.{shp,shx,dbf} plus a .prj sidecar naming the CRS.
//
// When overwrite is false and any component file already exists, the
// write fails with *AlreadyExistsError and nothing is written.
//
// A layer read back from the written files preserves shape count,
// geometry type, attribute columns and values.
func Write(l *Layer, dir, name string, overwrite bool) error {
	f := &shapefile.File{
		Type:  toShapeType(l.geomType),
		Bound: l.Bound(),
	}
	for _, fd := range l.fields {
		f.Fields = append(f.Fields, shapefile.FieldDesc{
			Name:     fd.Name,
			Type:     shapefile.FieldType(fd.Type),
			Length:   fd.Length,
			Decimals: fd.Decimals,
		})
	}
	f.Geometries = append(f.Geometries, l.geoms...)
	for _, row := range l.rows {
		f.Rows = append(f.Rows, map[string]interface{}(row))
	}

	if err := shapefile.WriteDir(dir, name, f, overwrite); err != nil {
		return mapError(err)
	}

	if wkt := wktFor(l.crs); wkt != "" {
		prj := filepath.Join(dir, name+".prj")
		if err := os.WriteFile(prj, []byte(wkt), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", prj, err)
		}
	}
	return nil
}

// wktFor returns the .prj body for a supported CRS, or "" when the
// identifier has no registered WKT.
func wktFor(crs string) string {
	switch crs {
	case EPSG4326:
		return wkt4326
	case EPSG3857:
		return wkt3857
	case EPSG27700:
		return wkt27700
	default:
		return ""
	}
}

// Minimal ESRI-style WKT bodies, enough for sniffCRS and for desktop
// GIS tools to identify the layer.
const (
	wkt4326 = `GEOGCS["GCS_WGS_1984",DATUM["D_WGS_1984",SPHEROID["WGS_1984",6378137.0,298.257223563]],PRIMEM["Greenwich",0.0],UNIT["Degree",0.0174532925199433]]`

	wkt3857 = `PROJCS["WGS_1984_Web_Mercator_Auxiliary_Sphere",GEOGCS["GCS_WGS_1984",DATUM["D_WGS_1984",SPHEROID["WGS_1984",6378137.0,298.257223563]],PRIMEM["Greenwich",0.0],UNIT["Degree",0.0174532925199433]],PROJECTION["Mercator_Auxiliary_Sphere"],PARAMETER["False_Easting",0.0],PARAMETER["False_Northing",0.0],PARAMETER["Central_Meridian",0.0],UNIT["Meter",1.0]]`

	wkt27700 = `PROJCS["British_National_Grid",GEOGCS["GCS_OSGB_1936",DATUM["D_OSGB_1936",SPHEROID["Airy_1830",6377563.396,299.3249646]],PRIMEM["Greenwich",0.0],UNIT["Degree",0.0174532925199433]],PROJECTION["Transverse_Mercator"],PARAMETER["False_Easting",400000.0],PARAMETER["False_Northing",-100000.0],PARAMETER["Central_Meridian",-2.0],PARAMETER["Scale_Factor",0.9996012717],PARAMETER["Latitude_Of_Origin",49.0],UNIT["Meter",1.0]]`
)
