package evds

import (
	"math"

	"github.com/gonum/matrix/mat64"
)

// R1 rotation about the 1st axis, for building rotation matrices from Euler
// angles. LVLHOrientation does not use it; it builds its matrix from axes.
func R1(x float64) *mat64.Dense {
	s, c := math.Sincos(x)
	return mat64.NewDense(3, 3, []float64{1, 0, 0, 0, c, s, 0, -s, c})
}

// R2 rotation about the 2nd axis.
func R2(x float64) *mat64.Dense {
	s, c := math.Sincos(x)
	return mat64.NewDense(3, 3, []float64{c, 0, -s, 0, 1, 0, s, 0, c})
}

// R3 rotation about the 3rd axis.
func R3(x float64) *mat64.Dense {
	s, c := math.Sincos(x)
	return mat64.NewDense(3, 3, []float64{c, s, 0, -s, c, 0, 0, 0, 1})
}

// MxV33 multiplies a 3x3 matrix with a 3-vector given as raw components.
func MxV33(m *mat64.Dense, x, y, z float64) (float64, float64, float64) {
	col := mat64.NewDense(3, 1, []float64{x, y, z})
	var out mat64.Dense
	out.Mul(m, col)
	return out.At(0, 0), out.At(1, 0), out.At(2, 0)
}

// quaternionToDense converts a unit quaternion to its equivalent 3x3
// rotation matrix (shared by Tensor3.RotateByQuaternion and any caller that
// needs the explicit matrix form rather than the quaternion sandwich
// product).
func quaternionToDense(q *Quaternion) *mat64.Dense {
	w, x, y, z := q.W, q.X, q.Y, q.Z
	return mat64.NewDense(3, 3, []float64{
		1 - 2*(y*y+z*z), 2 * (x*y - w*z), 2 * (x*z + w*y),
		2 * (x*y + w*z), 1 - 2*(x*x+z*z), 2 * (y*z - w*x),
		2 * (x*z - w*y), 2 * (y*z + w*x), 1 - 2*(x*x+y*y),
	})
}

// denseToQuaternion extracts the quaternion equivalent to a row-major
// rotation matrix via the standard trace-based extraction (used by
// LVLHOrientation, which builds its result as a body-axes matrix first).
func denseToQuaternion(frame *Object, m *mat64.Dense) *Quaternion {
	m00, m01, m02 := m.At(0, 0), m.At(0, 1), m.At(0, 2)
	m10, m11, m12 := m.At(1, 0), m.At(1, 1), m.At(1, 2)
	m20, m21, m22 := m.At(2, 0), m.At(2, 1), m.At(2, 2)

	trace := m00 + m11 + m22
	var w, x, y, z float64
	switch {
	case trace > 0:
		s := 0.5 / math.Sqrt(trace+1)
		w = 0.25 / s
		x = (m21 - m12) * s
		y = (m02 - m20) * s
		z = (m10 - m01) * s
	case m00 > m11 && m00 > m22:
		s := 2 * math.Sqrt(1+m00-m11-m22)
		w = (m21 - m12) / s
		x = 0.25 * s
		y = (m01 + m10) / s
		z = (m02 + m20) / s
	case m11 > m22:
		s := 2 * math.Sqrt(1+m11-m00-m22)
		w = (m02 - m20) / s
		x = (m01 + m10) / s
		y = 0.25 * s
		z = (m12 + m21) / s
	default:
		s := 2 * math.Sqrt(1+m22-m00-m11)
		w = (m10 - m01) / s
		x = (m02 + m20) / s
		y = (m12 + m21) / s
		z = 0.25 * s
	}
	return (&Quaternion{W: w, X: x, Y: y, Z: z, Frame: frame}).Normalize()
}
