package evds

import "fmt"

// maxConversionDepth bounds the ancestry walk a general conversion may
// perform on each side before giving up.
const maxConversionDepth = 32

// Vector is a frame-aware vector: its numeric components are meaningless
// without the Frame they are expressed in. DerivativeLevel controls both
// the non-inertial transport terms used by Convert and the promotion
// rules used by Cross.
type Vector struct {
	X, Y, Z float64
	Level   DerivativeLevel
	Frame   *Object

	// PositionInFrame and VelocityInFrame optionally describe the point
	// this vector is attached to and its velocity, each in its own frame
	// (possibly different from Frame). When nil, the point defaults to
	// Frame's own origin.
	PositionInFrame *Vector
	VelocityInFrame *Vector
}

// NewVector builds a Vector with the given level and frame.
func NewVector(level DerivativeLevel, frame *Object, x, y, z float64) *Vector {
	return &Vector{X: x, Y: y, Z: z, Level: level, Frame: frame}
}

// Clone returns a deep-enough copy (position/velocity-in-frame pointers
// are shared, since they are treated as immutable once attached).
func (v *Vector) Clone() *Vector {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// Norm returns the Euclidean norm of the vector's components.
func (v *Vector) Norm() float64 { return norm(v.X, v.Y, v.Z) }

// SetPositionInFrame attaches the point this vector acts at/describes.
func (v *Vector) SetPositionInFrame(p *Vector) { v.PositionInFrame = p }

// SetVelocityInFrame attaches the velocity of the point this vector acts at.
func (v *Vector) SetVelocityInFrame(vel *Vector) { v.VelocityInFrame = vel }

// Add returns v+o; both must share a Frame.
func (v *Vector) Add(o *Vector) (*Vector, error) {
	if v.Frame != o.Frame {
		return nil, NewError(BadParameter, "Add requires operands in the same frame")
	}
	return NewVector(v.Level, v.Frame, v.X+o.X, v.Y+o.Y, v.Z+o.Z), nil
}

// Subtract returns v-o; both must share a Frame.
func (v *Vector) Subtract(o *Vector) (*Vector, error) {
	if v.Frame != o.Frame {
		return nil, NewError(BadParameter, "Subtract requires operands in the same frame")
	}
	return NewVector(v.Level, v.Frame, v.X-o.X, v.Y-o.Y, v.Z-o.Z), nil
}

// MultiplyScalar returns v scaled by s.
func (v *Vector) MultiplyScalar(s float64) *Vector {
	return NewVector(v.Level, v.Frame, v.X*s, v.Y*s, v.Z*s)
}

// MultiplyAndAdd returns v + o*s.
func (v *Vector) MultiplyAndAdd(o *Vector, s float64) (*Vector, error) {
	if v.Frame != o.Frame {
		return nil, NewError(BadParameter, "MultiplyAndAdd requires operands in the same frame")
	}
	return NewVector(v.Level, v.Frame, v.X+o.X*s, v.Y+o.Y*s, v.Z+o.Z*s), nil
}

// Dot returns the inner product of v and o; both must share a Frame.
func (v *Vector) Dot(o *Vector) (float64, error) {
	if v.Frame != o.Frame {
		return 0, NewError(BadParameter, "Dot requires operands in the same frame")
	}
	return dot3(v.X, v.Y, v.Z, o.X, o.Y, o.Z), nil
}

// Cross returns v×o, promoting the result's DerivativeLevel per the
// static promotion table (promoteCross).
func (v *Vector) Cross(o *Vector) (*Vector, error) {
	if v.Frame != o.Frame {
		return nil, NewError(BadParameter, "Cross requires operands in the same frame")
	}
	x, y, z := cross3(v.X, v.Y, v.Z, o.X, o.Y, o.Z)
	return NewVector(promoteCross(v.Level, o.Level), v.Frame, x, y, z), nil
}

// Normalize returns the unit vector of v, preserving Level and Frame.
func (v *Vector) Normalize() *Vector {
	x, y, z := unit3(v.X, v.Y, v.Z)
	return NewVector(v.Level, v.Frame, x, y, z)
}

// rotationOnly reports whether this DerivativeLevel's short conversion is
// rotation-only (no transport terms).
func rotationOnly(level DerivativeLevel) bool {
	switch level {
	case Direction, AngularVelocity, AngularAcceleration, Force, Torque:
		return true
	default:
		return false
	}
}

// shortConvert transports v across a single parent/child edge. down
// indicates the direction: true means parent(child)→child, false means
// child→parent. child is always the object on the child side of the edge,
// whose state vector (given in the parent frame) supplies the transport
// terms.
func shortConvert(v *Vector, child *Object, down bool) (*Vector, error) {
	st := child.PublicState()
	q := st.Orientation

	rotate := func(x, y, z float64) (float64, float64, float64) {
		if down {
			return q.rotateComponents(x, y, z)
		}
		return q.conjugate().rotateComponents(x, y, z)
	}

	targetFrame := child.parent
	if down {
		targetFrame = child
	}

	if rotationOnly(v.Level) {
		x, y, z := rotate(v.X, v.Y, v.Z)
		return NewVector(v.Level, targetFrame, x, y, z), nil
	}

	// Δr: the point's position relative to the child, expressed in the
	// parent frame. Defaults to zero (point at the child's own origin).
	// Only meaningful for Velocity/Acceleration, whose transport terms
	// depend on where the vector is anchored; Position's own transport is
	// simply the child's own position (handled directly below).
	var dx, dy, dz float64
	if v.PositionInFrame != nil {
		pInParent, err := convertVector(v.PositionInFrame, child.parent)
		if err != nil {
			return nil, err
		}
		dx, dy, dz = pInParent.X-st.Position.X, pInParent.Y-st.Position.Y, pInParent.Z-st.Position.Z
	}

	switch v.Level {
	case Position:
		cx, cy, cz := st.Position.X, st.Position.Y, st.Position.Z
		var x, y, z float64
		if down {
			x, y, z = rotate(v.X-cx, v.Y-cy, v.Z-cz)
		} else {
			rx, ry, rz := rotate(v.X, v.Y, v.Z)
			x, y, z = rx+cx, ry+cy, rz+cz
		}
		return NewVector(Position, targetFrame, x, y, z), nil

	case Velocity:
		owx, owy, owz := cross3(st.AngularVelocity.X, st.AngularVelocity.Y, st.AngularVelocity.Z, dx, dy, dz)
		cx, cy, cz := st.Velocity.X+owx, st.Velocity.Y+owy, st.Velocity.Z+owz
		var x, y, z float64
		if down {
			x, y, z = rotate(v.X-cx, v.Y-cy, v.Z-cz)
		} else {
			rx, ry, rz := rotate(v.X, v.Y, v.Z)
			x, y, z = rx+cx, ry+cy, rz+cz
		}
		return NewVector(Velocity, targetFrame, x, y, z), nil

	case Acceleration:
		// v_P/B: the point's velocity in the child frame, for the
		// Coriolis term. Defaults to zero (point co-moving with child).
		var vx, vy, vz float64
		if v.VelocityInFrame != nil {
			vInChild, err := convertVector(v.VelocityInFrame, child)
			if err != nil {
				return nil, err
			}
			vx, vy, vz = vInChild.X, vInChild.Y, vInChild.Z
		}
		ax, ay, az := cross3(st.AngularAcceleration.X, st.AngularAcceleration.Y, st.AngularAcceleration.Z, dx, dy, dz)
		oox, ooy, ooz := cross3(st.AngularVelocity.X, st.AngularVelocity.Y, st.AngularVelocity.Z, dx, dy, dz)
		oo2x, oo2y, oo2z := cross3(st.AngularVelocity.X, st.AngularVelocity.Y, st.AngularVelocity.Z, oox, ooy, ooz)
		corx, cory, corz := cross3(st.AngularVelocity.X, st.AngularVelocity.Y, st.AngularVelocity.Z, vx, vy, vz)
		cx := st.Acceleration.X + ax + oo2x + 2*corx
		cy := st.Acceleration.Y + ay + oo2y + 2*cory
		cz := st.Acceleration.Z + az + oo2z + 2*corz
		var x, y, z float64
		if down {
			x, y, z = rotate(v.X-cx, v.Y-cy, v.Z-cz)
		} else {
			rx, ry, rz := rotate(v.X, v.Y, v.Z)
			x, y, z = rx+cx, ry+cy, rz+cz
		}
		return NewVector(Acceleration, targetFrame, x, y, z), nil

	default:
		x, y, z := rotate(v.X, v.Y, v.Z)
		return NewVector(v.Level, targetFrame, x, y, z), nil
	}
}

// Convert transports v into target, walking the shared ancestry.
func (v *Vector) Convert(target *Object) (*Vector, error) {
	return convertVector(v, target)
}

func convertVector(v *Vector, target *Object) (*Vector, error) {
	if v.Frame == nil || target == nil {
		return nil, NewError(BadParameter, "Convert requires non-nil frames")
	}
	if v.Frame == target {
		return v.Clone(), nil
	}
	if target.parent == v.Frame {
		return shortConvert(v, target, true)
	}
	if v.Frame.parent == target {
		return shortConvert(v, v.Frame, false)
	}

	// General case: climb both sides to the lowest common ancestor.
	srcChain, err := ancestryTo(v.Frame, maxConversionDepth)
	if err != nil {
		return nil, err
	}
	dstChain, err := ancestryTo(target, maxConversionDepth)
	if err != nil {
		return nil, err
	}
	lca := lowestCommonAncestor(srcChain, dstChain)
	if lca == nil {
		return nil, NewError(Internal, fmt.Sprintf("no common ancestor between %q and %q", v.Frame.name, target.name))
	}

	cur := v
	for _, step := range srcChain {
		if step == lca {
			break
		}
		cur, err = shortConvert(cur, step, false)
		if err != nil {
			return nil, err
		}
	}
	// dstChain runs from target up to the root; walk it in reverse
	// (lca downwards to target), converting down at each step.
	var downPath []*Object
	for _, step := range dstChain {
		if step == lca {
			break
		}
		downPath = append(downPath, step)
	}
	for i := len(downPath) - 1; i >= 0; i-- {
		cur, err = shortConvert(cur, downPath[i], true)
		if err != nil {
			return nil, err
		}
	}
	return cur, nil
}

// ancestryTo returns [obj, parent(obj), ..., root], bounded by maxDepth.
func ancestryTo(obj *Object, maxDepth int) ([]*Object, error) {
	chain := make([]*Object, 0, maxDepth)
	cur := obj
	for i := 0; i < maxDepth; i++ {
		chain = append(chain, cur)
		if cur.parent == nil {
			return chain, nil
		}
		cur = cur.parent
	}
	return nil, NewError(Internal, "conversion exceeded max ancestry depth")
}

func lowestCommonAncestor(a, b []*Object) *Object {
	set := make(map[*Object]bool, len(b))
	for _, o := range b {
		set[o] = true
	}
	for _, o := range a {
		if set[o] {
			return o
		}
	}
	return nil
}
