package evds

import "math"

// Quaternion is a frame-aware attitude quaternion, [w,x,y,z] plus a back
// reference to the frame it is expressed in.
type Quaternion struct {
	W, X, Y, Z float64
	Frame      *Object
}

// IdentityQuaternion returns the no-rotation quaternion in the given frame.
func IdentityQuaternion(frame *Object) *Quaternion {
	return &Quaternion{W: 1, Frame: frame}
}

// NewQuaternion builds a Quaternion from raw components.
func NewQuaternion(frame *Object, w, x, y, z float64) *Quaternion {
	return &Quaternion{W: w, X: x, Y: y, Z: z, Frame: frame}
}

// Clone returns a shallow copy.
func (q *Quaternion) Clone() *Quaternion {
	if q == nil {
		return nil
	}
	c := *q
	return &c
}

// Norm returns the quaternion's 4-vector norm.
func (q *Quaternion) Norm() float64 {
	return math.Sqrt(q.W*q.W + q.X*q.X + q.Y*q.Y + q.Z*q.Z)
}

// Normalize returns q scaled to unit norm. A (numerically) zero-magnitude
// quaternion is treated as already normalized, returning the identity.
func (q *Quaternion) Normalize() *Quaternion {
	n := q.Norm()
	if n < 1e-15 {
		return &Quaternion{W: 1, Frame: q.Frame}
	}
	return &Quaternion{W: q.W / n, X: q.X / n, Y: q.Y / n, Z: q.Z / n, Frame: q.Frame}
}

// multiplyRaw returns the Hamilton product a⊗b as raw components.
func multiplyRaw(aw, ax, ay, az, bw, bx, by, bz float64) (float64, float64, float64, float64) {
	return aw*bw - ax*bx - ay*by - az*bz,
		aw*bx + ax*bw + ay*bz - az*by,
		aw*by - ax*bz + ay*bw + az*bx,
		aw*bz + ax*by - ay*bx + az*bw
}

// Multiply returns q⊗o. Both must share a Frame.
func (q *Quaternion) Multiply(o *Quaternion) (*Quaternion, error) {
	if q.Frame != o.Frame {
		return nil, NewError(BadParameter, "Multiply requires operands in the same frame")
	}
	w, x, y, z := multiplyRaw(q.W, q.X, q.Y, q.Z, o.W, o.X, o.Y, o.Z)
	return NewQuaternion(q.Frame, w, x, y, z), nil
}

// conjugate returns the conjugate [w,-x,-y,-z]; for a unit quaternion this
// equals the inverse.
func (q *Quaternion) conjugate() *Quaternion {
	return &Quaternion{W: q.W, X: -q.X, Y: -q.Y, Z: -q.Z, Frame: q.Frame}
}

// MultiplyConjugated returns q⊗conj(o).
func (q *Quaternion) MultiplyConjugated(o *Quaternion) (*Quaternion, error) {
	if q.Frame != o.Frame {
		return nil, NewError(BadParameter, "MultiplyConjugated requires operands in the same frame")
	}
	oc := o.conjugate()
	w, x, y, z := multiplyRaw(q.W, q.X, q.Y, q.Z, oc.W, oc.X, oc.Y, oc.Z)
	return NewQuaternion(q.Frame, w, x, y, z), nil
}

// rotateComponents rotates the raw vector (x,y,z) by this quaternion via
// v' = q⊗v⊗q⁻¹, treating v as a pure quaternion [0,x,y,z].
func (q *Quaternion) rotateComponents(x, y, z float64) (float64, float64, float64) {
	qn := q.Normalize()
	qi := qn.conjugate()
	iw, ix, iy, iz := multiplyRaw(qn.W, qn.X, qn.Y, qn.Z, 0, x, y, z)
	_, ox, oy, oz := multiplyRaw(iw, ix, iy, iz, qi.W, qi.X, qi.Y, qi.Z)
	return ox, oy, oz
}

// RotateVector rotates v (a plain 3-vector, ignoring any Frame it may
// carry) by this quaternion, returning the rotated components tagged with
// q's Frame.
func (q *Quaternion) RotateVector(v *Vector) *Vector {
	x, y, z := q.rotateComponents(v.X, v.Y, v.Z)
	return NewVector(v.Level, q.Frame, x, y, z)
}

// shortConvertQuaternion transports an attitude quaternion across a single
// parent/child edge, attitude-only (no non-inertial terms).
func shortConvertQuaternion(q *Quaternion, child *Object, down bool) (*Quaternion, error) {
	childQ := child.PublicState().Orientation
	if down {
		res, err := childQ.conjugate().Multiply(&Quaternion{W: q.W, X: q.X, Y: q.Y, Z: q.Z, Frame: childQ.Frame})
		if err != nil {
			return nil, err
		}
		res.Frame = child
		return res, nil
	}
	res, err := childQ.Multiply(&Quaternion{W: q.W, X: q.X, Y: q.Y, Z: q.Z, Frame: childQ.Frame})
	if err != nil {
		return nil, err
	}
	res.Frame = child.parent
	return res, nil
}

// Convert transports q into target's frame, walking the shared ancestry
// the same way Vector.Convert does, but without any transport terms.
func (q *Quaternion) Convert(target *Object) (*Quaternion, error) {
	if q.Frame == target {
		return q.Clone(), nil
	}
	if target.parent == q.Frame {
		return shortConvertQuaternion(q, target, true)
	}
	if q.Frame.parent == target {
		return shortConvertQuaternion(q, q.Frame, false)
	}
	srcChain, err := ancestryTo(q.Frame, maxConversionDepth)
	if err != nil {
		return nil, err
	}
	dstChain, err := ancestryTo(target, maxConversionDepth)
	if err != nil {
		return nil, err
	}
	lca := lowestCommonAncestor(srcChain, dstChain)
	if lca == nil {
		return nil, NewError(Internal, "no common ancestor")
	}
	cur := q
	for _, step := range srcChain {
		if step == lca {
			break
		}
		cur, err = shortConvertQuaternion(cur, step, false)
		if err != nil {
			return nil, err
		}
	}
	var downPath []*Object
	for _, step := range dstChain {
		if step == lca {
			break
		}
		downPath = append(downPath, step)
	}
	for i := len(downPath) - 1; i >= 0; i-- {
		cur, err = shortConvertQuaternion(cur, downPath[i], true)
		if err != nil {
			return nil, err
		}
	}
	return cur, nil
}

// IntegrateKinematic applies one kinematic-update step q' = q + ½Δt·[0,ω]⊗q
// followed by renormalization.
func (q *Quaternion) IntegrateKinematic(omega *Vector, dt float64) *Quaternion {
	dw, dx, dy, dz := multiplyRaw(0, omega.X, omega.Y, omega.Z, q.W, q.X, q.Y, q.Z)
	half := 0.5 * dt
	next := &Quaternion{
		W:     q.W + half*dw,
		X:     q.X + half*dx,
		Y:     q.Y + half*dy,
		Z:     q.Z + half*dz,
		Frame: q.Frame,
	}
	return next.Normalize()
}

// ToEuler returns the 3-2-1 (yaw-pitch-roll) roll/pitch/yaw angles (in
// radians) equivalent to this quaternion, the inverse of FromEuler.
func (q *Quaternion) ToEuler() (roll, pitch, yaw float64) {
	qn := q.Normalize()
	sinr := 2 * (qn.W*qn.X + qn.Y*qn.Z)
	cosr := 1 - 2*(qn.X*qn.X+qn.Y*qn.Y)
	roll = math.Atan2(sinr, cosr)

	sinp := 2 * (qn.W*qn.Y - qn.Z*qn.X)
	if math.Abs(sinp) >= 1 {
		pitch = math.Copysign(math.Pi/2, sinp)
	} else {
		pitch = math.Asin(sinp)
	}

	siny := 2 * (qn.W*qn.Z + qn.X*qn.Y)
	cosy := 1 - 2*(qn.Y*qn.Y+qn.Z*qn.Z)
	yaw = math.Atan2(siny, cosy)
	return
}

// FromEuler builds a quaternion from 3-2-1 (yaw-pitch-roll) roll/pitch/yaw
// angles (radians).
func FromEuler(frame *Object, roll, pitch, yaw float64) *Quaternion {
	sr, cr := math.Sincos(roll * 0.5)
	sp, cp := math.Sincos(pitch * 0.5)
	sy, cy := math.Sincos(yaw * 0.5)
	return &Quaternion{
		W:     cr*cp*cy + sr*sp*sy,
		X:     sr*cp*cy - cr*sp*sy,
		Y:     cr*sp*cy + sr*cp*sy,
		Z:     cr*cp*sy - sr*sp*cy,
		Frame: frame,
	}
}

// AxisAngle returns the quaternion representing a rotation of angle
// radians about unit axis (ax,ay,az), used by tests verifying attitude
// propagation against the closed-form analytic solution.
func AxisAngle(frame *Object, ax, ay, az, angle float64) *Quaternion {
	s, c := math.Sincos(angle / 2)
	return &Quaternion{W: c, X: ax * s, Y: ay * s, Z: az * s, Frame: frame}
}
