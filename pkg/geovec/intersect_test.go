package geovec

import (
	"errors"
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

func TestIntersect(t *testing.T) {
	// A 4x4 grid over [0,4]x[0,4] against the inner square
	// [0.5,3.5]x[0.5,3.5]: the 4 center cells are fully inside, the
	// 12 edge cells straddle the boundary, nothing is fully outside.
	grid, err := BuildGrid(orb.Bound{Max: orb.Point{4, 4}}, 4, EPSG27700)
	if err != nil {
		t.Fatal(err)
	}
	boundary := NewLayer("boundary", EPSG27700, GeometryPolygon)
	if err := boundary.Append(square(0.5, 0.5, 3.5, 3.5), nil); err != nil {
		t.Fatal(err)
	}

	got, err := Intersect(grid, boundary)
	if err != nil {
		t.Fatalf("intersect: %v", err)
	}
	if got.Len() != 16 {
		t.Errorf("expected 16 cells, got %d", got.Len())
	}

	// Inner cells keep their exact geometry.
	inner := 0
	for i := 0; i < got.Len(); i++ {
		b := got.Geometry(i).(orb.Polygon).Bound()
		if b == (orb.Bound{Min: orb.Point{1, 1}, Max: orb.Point{2, 2}}) {
			inner++
		}
	}
	if inner != 1 {
		t.Errorf("expected cell (1,1)-(2,2) unchanged, found %d matches", inner)
	}

	// The union of the result never exceeds the boundary.
	want := orb.Bound{Min: orb.Point{0.5, 0.5}, Max: orb.Point{3.5, 3.5}}
	if b := got.Bound(); b != want {
		t.Errorf("result bound: got %v, expected %v", b, want)
	}
}

func TestIntersectDropsOutsideCells(t *testing.T) {
	grid, err := BuildGrid(orb.Bound{Max: orb.Point{4, 4}}, 4, EPSG27700)
	if err != nil {
		t.Fatal(err)
	}
	// Boundary covering only the south-west cell.
	boundary := NewLayer("boundary", EPSG27700, GeometryPolygon)
	if err := boundary.Append(square(0, 0, 1, 1), nil); err != nil {
		t.Fatal(err)
	}

	got, err := Intersect(grid, boundary)
	if err != nil {
		t.Fatalf("intersect: %v", err)
	}
	for i := 0; i < got.Len(); i++ {
		b := got.Geometry(i).(orb.Polygon).Bound()
		if b.Max[0] > 1 || b.Max[1] > 1 {
			t.Errorf("cell %d extends past the boundary: %v", i, b)
		}
	}
	if got.Len() == 0 {
		t.Error("expected at least the covered cell to survive")
	}
}

func TestIntersectShrinksCellsCrossedByNotch(t *testing.T) {
	grid, err := BuildGrid(orb.Bound{Max: orb.Point{3, 3}}, 3, EPSG27700)
	if err != nil {
		t.Fatal(err)
	}
	// A U-shaped boundary: [0,3]x[0,3] with the slot
	// [1.25,1.75]x[1,3] removed. The center cell [1,2]x[1,2] has all
	// four corners inside but the slot crosses its interior.
	boundary := NewLayer("boundary", EPSG27700, GeometryPolygon)
	u := orb.Polygon{{
		{0, 0}, {3, 0}, {3, 3}, {1.75, 3}, {1.75, 1}, {1.25, 1}, {1.25, 3}, {0, 3}, {0, 0},
	}}
	if err := boundary.Append(u, nil); err != nil {
		t.Fatal(err)
	}

	got, err := Intersect(grid, boundary)
	if err != nil {
		t.Fatalf("intersect: %v", err)
	}

	slot := orb.Point{1.5, 1.5}
	for i := 0; i < got.Len(); i++ {
		if planar.PolygonContains(got.Geometry(i).(orb.Polygon), slot) {
			t.Errorf("cell %d covers area outside the boundary", i)
		}
	}

	// The crossed cell shrinks to the two side strips.
	for i := 0; i < got.Len(); i++ {
		poly := got.Geometry(i).(orb.Polygon)
		b := poly.Bound()
		if b.Min[0] == 1 && b.Min[1] == 1 && b.Max[0] == 2 && b.Max[1] == 2 {
			if a := math.Abs(planar.Area(poly)); a >= 1 {
				t.Errorf("crossed cell not shrunk, area %v", a)
			}
		}
	}
}

func TestIntersectCopiesAttributes(t *testing.T) {
	grid, err := BuildGrid(orb.Bound{Max: orb.Point{2, 2}}, 2, EPSG27700)
	if err != nil {
		t.Fatal(err)
	}
	boundary := NewLayer("boundary", EPSG27700, GeometryPolygon)
	if err := boundary.Append(square(0, 0, 2, 2), nil); err != nil {
		t.Fatal(err)
	}

	got, err := Intersect(grid, boundary)
	if err != nil {
		t.Fatalf("intersect: %v", err)
	}
	for i := 0; i < got.Len(); i++ {
		if _, ok := got.Value(i, "id"); !ok {
			t.Errorf("cell %d lost its id", i)
		}
	}
}

func TestIntersectErrors(t *testing.T) {
	grid, err := BuildGrid(orb.Bound{Max: orb.Point{1, 1}}, 1, EPSG27700)
	if err != nil {
		t.Fatal(err)
	}

	mismatched := NewLayer("boundary", EPSG4326, GeometryPolygon)
	var mismatch *CRSMismatchError
	if _, err := Intersect(grid, mismatched); !errors.As(err, &mismatch) {
		t.Errorf("expected CRSMismatchError, got %v", err)
	}

	lines := NewLayer("lines", EPSG27700, GeometryLine)
	if _, err := Intersect(grid, lines); err == nil {
		t.Error("expected error for a line boundary")
	}
}
