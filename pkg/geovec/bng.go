package geovec

import (
	"math"

	"github.com/paulmach/orb"
)

// British National Grid (EPSG:27700) transverse mercator on the Airy
// 1830 ellipsoid, using the series expansion from the Ordnance Survey
// publication "A guide to coordinate systems in Great Britain".
const (
	airyA = 6377563.396 // semi-major axis
	airyB = 6356256.909 // semi-minor axis

	bngF0   = 0.9996012717        // central meridian scale factor
	bngLat0 = 49.0 * math.Pi / 180 // true origin latitude
	bngLon0 = -2.0 * math.Pi / 180 // true origin longitude
	bngE0   = 400000.0             // false easting
	bngN0   = -100000.0            // false northing
)

// nationalGridForward converts lon/lat degrees to easting/northing.
func nationalGridForward(p orb.Point) orb.Point {
	lat := p[1] * math.Pi / 180
	lon := p[0] * math.Pi / 180

	e2 := 1 - (airyB*airyB)/(airyA*airyA)
	sinLat := math.Sin(lat)
	cosLat := math.Cos(lat)
	tanLat := math.Tan(lat)

	nu := airyA * bngF0 / math.Sqrt(1-e2*sinLat*sinLat)
	rho := airyA * bngF0 * (1 - e2) / math.Pow(1-e2*sinLat*sinLat, 1.5)
	eta2 := nu/rho - 1

	m := meridionalArc(lat)

	tan2 := tanLat * tanLat
	cos3 := cosLat * cosLat * cosLat
	cos5 := cos3 * cosLat * cosLat

	i := m + bngN0
	ii := nu / 2 * sinLat * cosLat
	iii := nu / 24 * sinLat * cos3 * (5 - tan2 + 9*eta2)
	iiia := nu / 720 * sinLat * cos5 * (61 - 58*tan2 + tan2*tan2)
	iv := nu * cosLat
	v := nu / 6 * cos3 * (nu/rho - tan2)
	vi := nu / 120 * cos5 * (5 - 18*tan2 + tan2*tan2 + 14*eta2 - 58*tan2*eta2)

	dl := lon - bngLon0
	dl2 := dl * dl

	north := i + ii*dl2 + iii*dl2*dl2 + iiia*dl2*dl2*dl2
	east := bngE0 + iv*dl + v*dl*dl2 + vi*dl*dl2*dl2

	return orb.Point{east, north}
}

// nationalGridInverse converts easting/northing to lon/lat degrees.
func nationalGridInverse(p orb.Point) orb.Point {
	east, north := p[0], p[1]

	e2 := 1 - (airyB*airyB)/(airyA*airyA)

	// Iterate the footpoint latitude until the meridional arc
	// converges to within a tenth of a millimetre.
	lat := (north-bngN0)/(airyA*bngF0) + bngLat0
	for {
		m := meridionalArc(lat)
		delta := north - bngN0 - m
		if math.Abs(delta) < 1e-4 {
			break
		}
		lat += delta / (airyA * bngF0)
	}

	sinLat := math.Sin(lat)
	cosLat := math.Cos(lat)
	tanLat := math.Tan(lat)
	secLat := 1 / cosLat

	nu := airyA * bngF0 / math.Sqrt(1-e2*sinLat*sinLat)
	rho := airyA * bngF0 * (1 - e2) / math.Pow(1-e2*sinLat*sinLat, 1.5)
	eta2 := nu/rho - 1

	tan2 := tanLat * tanLat
	tan4 := tan2 * tan2
	nu3 := nu * nu * nu
	nu5 := nu3 * nu * nu
	nu7 := nu5 * nu * nu

	vii := tanLat / (2 * rho * nu)
	viii := tanLat / (24 * rho * nu3) * (5 + 3*tan2 + eta2 - 9*tan2*eta2)
	ix := tanLat / (720 * rho * nu5) * (61 + 90*tan2 + 45*tan4)
	x := secLat / nu
	xi := secLat / (6 * nu3) * (nu/rho + 2*tan2)
	xii := secLat / (120 * nu5) * (5 + 28*tan2 + 24*tan4)
	xiia := secLat / (5040 * nu7) * (61 + 662*tan2 + 1320*tan4 + 720*tan4*tan2)

	de := east - bngE0
	de2 := de * de

	outLat := lat - vii*de2 + viii*de2*de2 - ix*de2*de2*de2
	outLon := bngLon0 + x*de - xi*de*de2 + xii*de*de2*de2 - xiia*de*de2*de2*de2

	return orb.Point{outLon * 180 / math.Pi, outLat * 180 / math.Pi}
}

// meridionalArc computes the developed meridian arc M from the true
// origin to the given latitude.
func meridionalArc(lat float64) float64 {
	n := (airyA - airyB) / (airyA + airyB)
	n2 := n * n
	n3 := n2 * n

	dLat := lat - bngLat0
	sLat := lat + bngLat0

	return airyB * bngF0 * ((1+n+1.25*n2+1.25*n3)*dLat -
		(3*n+3*n2+21.0/8*n3)*math.Sin(dLat)*math.Cos(sLat) +
		(15.0/8*n2+15.0/8*n3)*math.Sin(2*dLat)*math.Cos(2*sLat) -
		35.0/24*n3*math.Sin(3*dLat)*math.Cos(3*sLat))
}
