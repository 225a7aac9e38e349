package evds

import (
	"math"

	"github.com/gonum/matrix/mat64"
)

// Datum describes a reference ellipsoid for geodetic conversions. Values
// default to WGS84-like constants but are plain fields rather than a
// third-party ellipsoid type, since the evidenced meeus/globe API surface
// could not be confirmed against the vendored source (see DESIGN.md).
type Datum struct {
	SemiMajorAxis float64 // equatorial radius, meters
	Flattening    float64 // f, not the inverse flattening 1/f
}

// WGS84 is the standard terrestrial reference ellipsoid.
var WGS84 = Datum{SemiMajorAxis: 6378137.0, Flattening: 1 / 298.257223563}

func (d Datum) eccentricitySquared() float64 {
	f := d.Flattening
	return f * (2 - f)
}

// GeodeticToECEF converts geodetic latitude/longitude (radians) and height
// above the ellipsoid (meters) to Earth-Centered-Earth-Fixed Cartesian
// coordinates, via the prime-vertical radius of curvature.
func (d Datum) GeodeticToECEF(latRad, lonRad, height float64) (x, y, z float64) {
	e2 := d.eccentricitySquared()
	sinLat, cosLat := math.Sincos(latRad)
	sinLon, cosLon := math.Sincos(lonRad)
	n := d.SemiMajorAxis / math.Sqrt(1-e2*sinLat*sinLat)
	x = (n + height) * cosLat * cosLon
	y = (n + height) * cosLat * sinLon
	z = (n*(1-e2) + height) * sinLat
	return
}

// ECEFToGeodetic converts Cartesian ECEF coordinates back to geodetic
// latitude/longitude (radians) and height (meters), via Bowring's
// closed-form-seeded Newton iteration: iterate to 8 steps or until the
// latitude correction drops below 1e-12 rad.
func (d Datum) ECEFToGeodetic(x, y, z float64) (latRad, lonRad, height float64) {
	a := d.SemiMajorAxis
	e2 := d.eccentricitySquared()
	b := a * (1 - d.Flattening)
	lonRad = math.Atan2(y, x)

	p := math.Hypot(x, y)
	if p < epsilon {
		// On the polar axis: latitude is +/-90, height measured along z.
		lat := math.Pi / 2
		if z < 0 {
			lat = -lat
		}
		return lat, lonRad, math.Abs(z) - b
	}

	ep2 := (a*a - b*b) / (b * b)
	theta := math.Atan2(z*a, p*b)
	sinTheta, cosTheta := math.Sincos(theta)
	lat := math.Atan2(z+ep2*b*sinTheta*sinTheta*sinTheta, p-e2*a*cosTheta*cosTheta*cosTheta)

	for i := 0; i < 8; i++ {
		sinLat := math.Sin(lat)
		n := a / math.Sqrt(1-e2*sinLat*sinLat)
		next := math.Atan2(z+e2*n*sinLat, p)
		if math.Abs(next-lat) < 1e-12 {
			lat = next
			break
		}
		lat = next
	}

	sinLat := math.Sin(lat)
	n := a / math.Sqrt(1-e2*sinLat*sinLat)
	if math.Abs(lat) < math.Pi/2-1e-9 {
		height = p/math.Cos(lat) - n
	} else {
		height = math.Abs(z) - b
	}
	latRad = lat
	return
}

// LVLHOrientation returns the local-vertical-local-horizontal attitude
// quaternion for an object at the given position/velocity, expressed in
// the same frame as those vectors: +Z toward nadir (opposite position),
// +Y along the negative orbit-normal, +X completing the right-handed
// triad.
func LVLHOrientation(pos, vel *Vector) (*Quaternion, error) {
	if pos.Frame != vel.Frame {
		return nil, NewError(BadParameter, "LVLHOrientation requires position/velocity in the same frame")
	}
	nx, ny, nz := unit3(-pos.X, -pos.Y, -pos.Z) // +Z: nadir
	hx, hy, hz := cross3(pos.X, pos.Y, pos.Z, vel.X, vel.Y, vel.Z)
	yx, yy, yz := unit3(-hx, -hy, -hz) // +Y: negative orbit-normal
	xx, xy, xz := cross3(yx, yy, yz, nx, ny, nz)
	xx, xy, xz = unit3(xx, xy, xz)

	// Rows [x y z]^T form the world-to-body rotation matrix.
	m := mat64.NewDense(3, 3, []float64{
		xx, xy, xz,
		yx, yy, yz,
		nx, ny, nz,
	})
	return denseToQuaternion(pos.Frame, m), nil
}
