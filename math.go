package evds

import (
	"math"

	"github.com/gonum/floats"
	"github.com/gonum/matrix/mat64"
)

const (
	deg2rad = math.Pi / 180
	rad2deg = 1 / deg2rad
	// epsilon is the small positive floor used to clamp mass and other
	// quantities that must never reach zero.
	epsilon = 1e-10
)

// norm returns the Euclidean norm of a 3-vector given as raw components.
func norm(x, y, z float64) float64 {
	return math.Sqrt(x*x + y*y + z*z)
}

// unit3 returns the unit vector of the raw components, or the zero vector
// if the input is (numerically) the zero vector.
func unit3(x, y, z float64) (float64, float64, float64) {
	n := norm(x, y, z)
	if floats.EqualWithinAbs(n, 0, 1e-15) {
		return 0, 0, 0
	}
	return x / n, y / n, z / n
}

// cross3 computes the raw cross product a×b of two 3-vectors.
func cross3(ax, ay, az, bx, by, bz float64) (float64, float64, float64) {
	return ay*bz - az*by, az*bx - ax*bz, ax*by - ay*bx
}

// dot3 computes the inner product of two 3-vectors via gonum/floats.
func dot3(ax, ay, az, bx, by, bz float64) float64 {
	return floats.Dot([]float64{ax, ay, az}, []float64{bx, by, bz})
}

// sign returns the sign of v, treating (numerically) zero as positive.
func sign(v float64) float64 {
	if floats.EqualWithinAbs(v, 0, 1e-12) {
		return 1
	}
	return v / math.Abs(v)
}

// deg2radf converts degrees to radians.
func deg2radf(a float64) float64 { return a * deg2rad }

// rad2degf converts radians to degrees.
func rad2degf(a float64) float64 { return a * rad2deg }

// normalizeLongitudeDeg renormalizes a longitude in degrees to [-180, 180),
// mapping the boundary value +180 to -180.
func normalizeLongitudeDeg(lon float64) float64 {
	lon = math.Mod(lon+180, 360)
	if lon < 0 {
		lon += 360
	}
	return lon - 180
}

// clampMass floors a mass value to epsilon.
func clampMass(m float64) float64 {
	if m < epsilon {
		return epsilon
	}
	return m
}

// denseIdentity returns an n×n identity matrix of type mat64.Dense.
func denseIdentity(n int) *mat64.Dense {
	return scaledDenseIdentity(n, 1)
}

// scaledDenseIdentity returns an n×n matrix equal to s times the identity.
func scaledDenseIdentity(n int, s float64) *mat64.Dense {
	vals := make([]float64, n*n)
	for j := 0; j < n*n; j++ {
		if j%(n+1) == 0 {
			vals[j] = s
		}
	}
	return mat64.NewDense(n, n, vals)
}
