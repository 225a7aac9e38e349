package evds

import "github.com/gonum/matrix/mat64"

// Tensor3 is a 3x3 inertia (or other rank-2) tensor. The spec describes the
// rotation operation in 4x4 homogeneous form; here it is done directly as
// Q M Q^T on the 3x3 matrix, which is algebraically equivalent and avoids
// carrying a throwaway translation row/column that is always identity for
// a tensor (see DESIGN.md).
type Tensor3 struct {
	m *mat64.Dense
}

// NewTensor3 builds a tensor from its symmetric components.
func NewTensor3(jxx, jyy, jzz, jxy, jxz, jyz float64) *Tensor3 {
	return &Tensor3{m: mat64.NewDense(3, 3, []float64{
		jxx, jxy, jxz,
		jxy, jyy, jyz,
		jxz, jyz, jzz,
	})}
}

// DiagonalTensor3 builds a diagonal tensor (the common case for a primitive
// rigid body before composition).
func DiagonalTensor3(jxx, jyy, jzz float64) *Tensor3 {
	return NewTensor3(jxx, jyy, jzz, 0, 0, 0)
}

// ZeroTensor3 returns the zero tensor, the accumulator's starting point.
func ZeroTensor3() *Tensor3 {
	return &Tensor3{m: mat64.NewDense(3, 3, make([]float64, 9))}
}

// At returns the (i,j) component.
func (t *Tensor3) At(i, j int) float64 { return t.m.At(i, j) }

// Add returns t+o.
func (t *Tensor3) Add(o *Tensor3) *Tensor3 {
	var out mat64.Dense
	out.Add(t.m, o.m)
	return &Tensor3{m: &out}
}

// MultiplyVector returns t*v, a raw 3-vector.
func (t *Tensor3) MultiplyVector(x, y, z float64) (float64, float64, float64) {
	col := mat64.NewDense(3, 1, []float64{x, y, z})
	var out mat64.Dense
	out.Mul(t.m, col)
	return out.At(0, 0), out.At(1, 0), out.At(2, 0)
}

// parallelAxis returns the parallel-axis correction for a point mass m
// offset by (dx,dy,dz) from the reference point: m*(|d|^2 I - d d^T).
func parallelAxis(m, dx, dy, dz float64) *Tensor3 {
	d2 := dx*dx + dy*dy + dz*dz
	return NewTensor3(
		m*(d2-dx*dx), m*(d2-dy*dy), m*(d2-dz*dz),
		m*(-dx*dy), m*(-dx*dz), m*(-dy*dz),
	)
}

// RotateByQuaternion returns Q M Q^T, transporting a tensor expressed in
// q's source frame into q's target frame (the usual rotation of rank-2
// quantities, applied here to inertia tensors rather than vectors).
func (t *Tensor3) RotateByQuaternion(q *Quaternion) *Tensor3 {
	qn := q.Normalize()
	rot := quaternionToDense(qn)
	var tmp, out mat64.Dense
	tmp.Mul(rot, t.m)
	out.Mul(&tmp, rot.T())
	return &Tensor3{m: &out}
}

// InvertSymmetric inverts a symmetric positive-definite 3x3 tensor via the
// closed-form cofactor expansion, symmetrizing the input first: the
// off-diagonal terms are averaged before inverting so the result is always
// the exact inverse of a genuinely symmetric matrix, even when accumulated
// composition error has left the tensor slightly asymmetric.
func (t *Tensor3) InvertSymmetric() (*Tensor3, error) {
	jxx, jyy, jzz := t.m.At(0, 0), t.m.At(1, 1), t.m.At(2, 2)
	jxy := 0.5 * (t.m.At(0, 1) + t.m.At(1, 0))
	jxz := 0.5 * (t.m.At(0, 2) + t.m.At(2, 0))
	jyz := 0.5 * (t.m.At(1, 2) + t.m.At(2, 1))

	det := jxx*(jyy*jzz-jyz*jyz) - jxy*(jxy*jzz-jyz*jxz) + jxz*(jxy*jyz-jyy*jxz)
	if det == 0 {
		return nil, NewError(BadState, "inertia tensor is singular")
	}
	invDet := 1 / det
	cxx := (jyy*jzz - jyz*jyz) * invDet
	cyy := (jxx*jzz - jxz*jxz) * invDet
	czz := (jxx*jyy - jxy*jxy) * invDet
	cxy := -(jxy*jzz - jyz*jxz) * invDet
	cxz := (jxy*jyz - jyy*jxz) * invDet
	cyz := -(jxx*jyz - jxy*jxz) * invDet
	return NewTensor3(cxx, cyy, czz, cxy, cxz, cyz), nil
}

// Invert performs a general 3x3 matrix inversion (non-symmetric case, used
// when a caller composes tensors in a frame where off-diagonal drift is
// expected, e.g. mid-integration diagnostics).
func (t *Tensor3) Invert() (*Tensor3, error) {
	var inv mat64.Dense
	err := inv.Inverse(t.m)
	if err != nil {
		return nil, Wrap(BadState, "inertia tensor inversion failed", err)
	}
	return &Tensor3{m: &inv}, nil
}
