package shapefile

import (
	"math"

	"github.com/paulmach/orb"
)

// ValidateGeometry checks a decoded record for coordinate sanity.
//
// Shapefiles carry no CRS metadata in the binary, so only structural
// checks are possible here: finite coordinates, enough vertices per
// type, closed polygon rings.
func ValidateGeometry(record int, geom orb.Geometry) error {
	if geom == nil {
		return nil // null records are legal
	}

	switch g := geom.(type) {
	case orb.Point:
		return validatePoints(record, []orb.Point(nil), g)
	case orb.LineString:
		if len(g) < 2 {
			return &GeometryError{Record: record, Reason: "line with fewer than 2 vertices"}
		}
		return validatePoints(record, g)
	case orb.MultiLineString:
		for _, ls := range g {
			if len(ls) < 2 {
				return &GeometryError{Record: record, Reason: "line part with fewer than 2 vertices"}
			}
			if err := validatePoints(record, ls); err != nil {
				return err
			}
		}
		return nil
	case orb.Polygon:
		for _, ring := range g {
			if len(ring) < 4 {
				return &GeometryError{Record: record, Reason: "ring with fewer than 4 vertices"}
			}
			if !ring.Closed() {
				return &GeometryError{Record: record, Reason: "unclosed polygon ring"}
			}
			if err := validatePoints(record, ring); err != nil {
				return err
			}
		}
		return nil
	default:
		return &GeometryError{Record: record, Reason: "unsupported geometry type"}
	}
}

func validatePoints(record int, pts []orb.Point, extra ...orb.Point) error {
	check := func(p orb.Point) error {
		if math.IsNaN(p[0]) || math.IsNaN(p[1]) || math.IsInf(p[0], 0) || math.IsInf(p[1], 0) {
			return &GeometryError{Record: record, Reason: "non-finite coordinate"}
		}
		return nil
	}
	for _, p := range pts {
		if err := check(p); err != nil {
			return err
		}
	}
	for _, p := range extra {
		if err := check(p); err != nil {
			return err
		}
	}
	return nil
}
