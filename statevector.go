package evds

// StateVector is the full per-object kinematic state: time plus
// position/velocity/acceleration/orientation/angular velocity/angular
// acceleration, all expressed in the owning object's parent frame.
type StateVector struct {
	Time                float64 // MJD
	Position             *Vector
	Velocity             *Vector
	Acceleration         *Vector
	Orientation          *Quaternion
	AngularVelocity      *Vector
	AngularAcceleration  *Vector
}

// NewStateVector returns a zeroed state vector expressed in frame.
func NewStateVector(frame *Object) *StateVector {
	return &StateVector{
		Position:            NewVector(Position, frame, 0, 0, 0),
		Velocity:            NewVector(Velocity, frame, 0, 0, 0),
		Acceleration:        NewVector(Acceleration, frame, 0, 0, 0),
		Orientation:         IdentityQuaternion(frame),
		AngularVelocity:     NewVector(AngularVelocity, frame, 0, 0, 0),
		AngularAcceleration: NewVector(AngularAcceleration, frame, 0, 0, 0),
	}
}

// Clone returns a deep-enough copy of s (the leaf Vector/Quaternion values
// are copied; the Frame pointers they reference are shared, as intended).
func (s *StateVector) Clone() *StateVector {
	return &StateVector{
		Time:                s.Time,
		Position:            s.Position.Clone(),
		Velocity:            s.Velocity.Clone(),
		Acceleration:        s.Acceleration.Clone(),
		Orientation:         s.Orientation.Clone(),
		AngularVelocity:     s.AngularVelocity.Clone(),
		AngularAcceleration: s.AngularAcceleration.Clone(),
	}
}

// Derivative is a state-vector derivative: what OnIntegrate returns. Force
// and Torque are an alternative way for a child body to report its
// contribution to its parent's accumulator instead of (or in addition to)
// Acceleration/AngularAcceleration.
type Derivative struct {
	Velocity            *Vector
	Acceleration        *Vector
	AngularVelocity     *Vector
	AngularAcceleration *Vector
	Force               *Vector
	Torque              *Vector
}

// NewDerivative returns a zeroed derivative expressed in obj's parent frame.
func NewDerivative(obj *Object) *Derivative {
	frame := obj.parent
	return &Derivative{
		Velocity:            NewVector(Velocity, frame, 0, 0, 0),
		Acceleration:        NewVector(Acceleration, frame, 0, 0, 0),
		AngularVelocity:     NewVector(AngularVelocity, frame, 0, 0, 0),
		AngularAcceleration: NewVector(AngularAcceleration, frame, 0, 0, 0),
		Force:               NewVector(Force, frame, 0, 0, 0),
		Torque:              NewVector(Torque, frame, 0, 0, 0),
	}
}

// MultiplyAndAdd returns state + d*dt as a new StateVector, including the
// quaternion kinematic update followed by renormalization.
func (s *StateVector) MultiplyAndAdd(d *Derivative, dt float64) *StateVector {
	out := &StateVector{Time: s.Time + dt}
	out.Position, _ = s.Position.MultiplyAndAdd(d.Velocity, dt)
	out.Velocity, _ = s.Velocity.MultiplyAndAdd(d.Acceleration, dt)
	out.Acceleration = d.Acceleration.Clone()
	out.AngularVelocity, _ = s.AngularVelocity.MultiplyAndAdd(d.AngularAcceleration, dt)
	out.AngularAcceleration = d.AngularAcceleration.Clone()
	out.Orientation = s.Orientation.IntegrateKinematic(s.AngularVelocity, dt)
	return out
}

// Interpolate linearly blends previous and current for t in [0,1]; t=0
// returns previous, t=1 returns current.
func Interpolate(previous, current *StateVector, t float64) *StateVector {
	out := &StateVector{Time: previous.Time + (current.Time-previous.Time)*t}
	lerp := func(a, b *Vector) *Vector {
		return NewVector(a.Level, a.Frame, a.X+(b.X-a.X)*t, a.Y+(b.Y-a.Y)*t, a.Z+(b.Z-a.Z)*t)
	}
	out.Position = lerp(previous.Position, current.Position)
	out.Velocity = lerp(previous.Velocity, current.Velocity)
	out.Acceleration = lerp(previous.Acceleration, current.Acceleration)
	out.AngularVelocity = lerp(previous.AngularVelocity, current.AngularVelocity)
	out.AngularAcceleration = lerp(previous.AngularAcceleration, current.AngularAcceleration)
	// Orientation interpolation uses a normalized linear blend (nlerp),
	// adequate for the rendering use-case.
	qw := previous.Orientation.W + (current.Orientation.W-previous.Orientation.W)*t
	qx := previous.Orientation.X + (current.Orientation.X-previous.Orientation.X)*t
	qy := previous.Orientation.Y + (current.Orientation.Y-previous.Orientation.Y)*t
	qz := previous.Orientation.Z + (current.Orientation.Z-previous.Orientation.Z)*t
	out.Orientation = (&Quaternion{W: qw, X: qx, Y: qy, Z: qz, Frame: previous.Orientation.Frame}).Normalize()
	return out
}
