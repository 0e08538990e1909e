package geovec

import (
	"errors"
	"testing"

	"github.com/paulmach/orb"
)

// square returns a closed unit-style ring polygon.
func square(minX, minY, maxX, maxY float64) orb.Polygon {
	return orb.Polygon{{
		{minX, minY}, {maxX, minY}, {maxX, maxY}, {minX, maxY}, {minX, minY},
	}}
}

func boundaryLayer(t *testing.T, polys ...orb.Polygon) *Layer {
	t.Helper()
	l := NewLayer("boundary", EPSG4326, GeometryPolygon)
	for _, p := range polys {
		if err := l.Append(p, nil); err != nil {
			t.Fatal(err)
		}
	}
	return l
}

func TestClipWithinKeepsContainedPoints(t *testing.T) {
	pts := NewLayer("pts", EPSG4326, GeometryPoint)
	coords := []orb.Point{
		{0.5, 0.5}, // inside
		{5, 5},     // far outside
		{0.9, 0.1}, // inside
		{1.5, 0.5}, // inside the extent of nothing, outside the polygon
	}
	for i, p := range coords {
		if err := pts.Append(p, Row{"id": int64(i)}); err != nil {
			t.Fatal(err)
		}
	}
	boundary := boundaryLayer(t, square(0, 0, 1, 1))

	got, err := Clip(pts, boundary, ClipWithin)
	if err != nil {
		t.Fatalf("clip: %v", err)
	}
	if got.Len() != 2 {
		t.Fatalf("expected 2 shapes, got %d", got.Len())
	}
	if v, _ := got.Value(0, "id"); v != int64(0) {
		t.Errorf("row 0 id: got %v", v)
	}
	if v, _ := got.Value(1, "id"); v != int64(2) {
		t.Errorf("row 1 id: got %v", v)
	}
}

func TestClipWithinUsesBoundCenterForPolygons(t *testing.T) {
	cells := NewLayer("cells", EPSG4326, GeometryPolygon)
	inside := square(0.2, 0.2, 0.4, 0.4)
	straddling := square(0.9, 0.9, 1.3, 1.3) // center (1.1, 1.1) outside
	for _, p := range []orb.Polygon{inside, straddling} {
		if err := cells.Append(p, nil); err != nil {
			t.Fatal(err)
		}
	}
	boundary := boundaryLayer(t, square(0, 0, 1, 1))

	got, err := Clip(cells, boundary, ClipWithin)
	if err != nil {
		t.Fatalf("clip: %v", err)
	}
	if got.Len() != 1 {
		t.Errorf("expected 1 shape, got %d", got.Len())
	}
}

func TestClipBoundsKeepsIntersectingBoxes(t *testing.T) {
	pts := NewLayer("pts", EPSG4326, GeometryPoint)
	for _, p := range []orb.Point{{0.5, 0.5}, {5, 5}, {0.99, 0.99}} {
		if err := pts.Append(p, nil); err != nil {
			t.Fatal(err)
		}
	}
	boundary := boundaryLayer(t, square(0, 0, 1, 1))

	got, err := Clip(pts, boundary, ClipBounds)
	if err != nil {
		t.Fatalf("clip: %v", err)
	}
	if got.Len() != 2 {
		t.Errorf("expected 2 shapes, got %d", got.Len())
	}
}

func TestClipCRSMismatch(t *testing.T) {
	pts := NewLayer("pts", EPSG27700, GeometryPoint)
	boundary := boundaryLayer(t, square(0, 0, 1, 1))

	_, err := Clip(pts, boundary, ClipWithin)
	var mismatch *CRSMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected CRSMismatchError, got %v", err)
	}
}

func TestClipWithinRejectsNonPolygonBoundary(t *testing.T) {
	pts := NewLayer("pts", EPSG4326, GeometryPoint)
	lines := NewLayer("lines", EPSG4326, GeometryLine)

	if _, err := Clip(pts, lines, ClipWithin); err == nil {
		t.Error("expected error for a line boundary")
	}
}

func TestClipModeString(t *testing.T) {
	if ClipWithin.String() != "within" || ClipBounds.String() != "bounds" {
		t.Errorf("got %q, %q", ClipWithin, ClipBounds)
	}
}
