package geovec

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/paulmach/orb"
)

func TestWriteOpenRoundTrip(t *testing.T) {
	l := NewLayer("boroughs", EPSG27700, GeometryPolygon)
	l.AddField(Field{Name: "name", Type: FieldString, Length: 16})
	l.AddField(Field{Name: "count", Type: FieldNumeric, Length: 12})
	polys := []orb.Polygon{
		square(530000, 180000, 531000, 181000),
		square(531000, 180000, 532000, 181000),
	}
	for i, p := range polys {
		row := Row{"name": []string{"camden", "islington"}[i], "count": int64(i + 3)}
		if err := l.Append(p, row); err != nil {
			t.Fatal(err)
		}
	}

	dir := t.TempDir()
	if err := Write(l, dir, "boroughs", false); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := Open(dir, "boroughs")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if got.Len() != l.Len() {
		t.Fatalf("shapes: got %d, expected %d", got.Len(), l.Len())
	}
	if got.GeometryType() != GeometryPolygon {
		t.Errorf("type: got %v", got.GeometryType())
	}
	// The .prj sidecar restores the reference system.
	if got.CRS() != EPSG27700 {
		t.Errorf("crs: got %s", got.CRS())
	}
	for i := range polys {
		if !got.Geometry(i).(orb.Polygon).Equal(polys[i]) {
			t.Errorf("shape %d: got %v", i, got.Geometry(i))
		}
	}
	if v, _ := got.Value(0, "name"); v != "camden" {
		t.Errorf("name: got %v", v)
	}
	if v, _ := got.Value(1, "count"); v != int64(4) {
		t.Errorf("count: got %v", v)
	}
}

func TestWriteRefusesOverwrite(t *testing.T) {
	l := NewLayer("pts", EPSG4326, GeometryPoint)
	if err := l.Append(orb.Point{1, 2}, nil); err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	if err := Write(l, dir, "pts", false); err != nil {
		t.Fatalf("first write: %v", err)
	}

	err := Write(l, dir, "pts", false)
	var exists *AlreadyExistsError
	if !errors.As(err, &exists) {
		t.Fatalf("expected AlreadyExistsError, got %v", err)
	}

	if err := Write(l, dir, "pts", true); err != nil {
		t.Errorf("overwrite: %v", err)
	}
}

func TestOpenMissingLayer(t *testing.T) {
	_, err := Open(t.TempDir(), "nothing")
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestOpenMalformed(t *testing.T) {
	dir := t.TempDir()
	for _, ext := range []string{".shp", ".shx", ".dbf"} {
		if err := os.WriteFile(filepath.Join(dir, "bad"+ext), []byte("not a shapefile"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	_, err := Open(dir, "bad")
	var format *FormatError
	if !errors.As(err, &format) {
		t.Fatalf("expected FormatError, got %v", err)
	}
}

func TestOpenCRSOverride(t *testing.T) {
	l := NewLayer("pts", EPSG4326, GeometryPoint)
	if err := l.Append(orb.Point{-0.1, 51.5}, nil); err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	if err := Write(l, dir, "pts", false); err != nil {
		t.Fatal(err)
	}
	// No sidecar: the override wins.
	if err := os.Remove(filepath.Join(dir, "pts.prj")); err != nil {
		t.Fatal(err)
	}

	opts := DefaultOpenOptions()
	opts.CRS = EPSG27700
	got, err := OpenWithOptions(dir, "pts", opts)
	if err != nil {
		t.Fatal(err)
	}
	if got.CRS() != EPSG27700 {
		t.Errorf("crs: got %s", got.CRS())
	}
}

func TestSniffCRS(t *testing.T) {
	tests := []struct {
		prj  string
		want string
	}{
		{"EPSG:27700", EPSG27700},
		{wkt27700, EPSG27700},
		{wkt3857, EPSG3857},
		{wkt4326, EPSG4326},
		{`PROJCS["NAD83 / Conus Albers",...]`, ""},
		{"", ""},
	}
	for _, test := range tests {
		if got := sniffCRS(test.prj); got != test.want {
			t.Errorf("sniffCRS(%.30q): got %q, expected %q", test.prj, got, test.want)
		}
	}
}

func TestOpenSkipBrokenRecords(t *testing.T) {
	l := NewLayer("lines", EPSG4326, GeometryLine)
	if err := l.Append(orb.LineString{{0, 0}, {1, 1}}, nil); err != nil {
		t.Fatal(err)
	}
	// A one-vertex line survives the codec but fails validation.
	if err := l.Append(orb.LineString{{2, 2}}, nil); err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	if err := Write(l, dir, "lines", false); err != nil {
		t.Fatal(err)
	}

	if _, err := Open(dir, "lines"); err == nil {
		t.Error("expected validation to reject the broken record")
	}

	opts := DefaultOpenOptions()
	opts.SkipBrokenRecords = true
	got, err := OpenWithOptions(dir, "lines", opts)
	if err != nil {
		t.Fatalf("open with skip: %v", err)
	}
	if got.Len() != 1 {
		t.Errorf("expected 1 shape after skipping, got %d", got.Len())
	}
}
