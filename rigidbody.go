package evds

import "fmt"

// rigidBody is the mass/inertia/force accumulator solver. It claims
// any object carrying a "mass" variable, recursively composes the mass,
// center of mass, and inertia tensor of its initialized children (parallel-
// axis theorem) during OnSolve, and during OnIntegrate applies Newton's and
// Euler's equations against the force/torque an integration step receives
// from its own children's derivatives, plus any local gravity the object's
// userdata supplies.
type rigidBody struct {
	DefaultSolver

	mass   float64
	comX   float64
	comY   float64
	comZ   float64
	tensor *Tensor3
	static bool
}

// NewRigidBodySolver returns the rigid-body accumulator solver.
func NewRigidBodySolver() Solver { return &rigidBody{} }

func (r *rigidBody) OnInitialize(sys *System, obj *Object) (Claim, error) {
	if _, err := obj.vars.Get("mass"); err != nil {
		return Ignore, nil
	}
	return Claimed, nil
}

// OnSolve recomposes obj's effective mass/CoM/inertia from its own
// "mass"/"jxx"/"jyy"/"jzz" variables plus every initialized child's
// contribution, offset by the parallel-axis theorem. A "static"
// boolean variable set true zeroes the body's response to integration.
func (r *rigidBody) OnSolve(sys *System, obj *Object, dt float64) error {
	if err := r.DefaultSolver.OnSolve(sys, obj, dt); err != nil {
		return err
	}
	massVar, _ := obj.vars.Get("mass")
	mass := clampMass(massVar.Float())
	jxx, jyy, jzz := 0.0, 0.0, 0.0
	if v, err := obj.vars.Get("jxx"); err == nil {
		jxx = v.Float()
	}
	if v, err := obj.vars.Get("jyy"); err == nil {
		jyy = v.Float()
	}
	if v, err := obj.vars.Get("jzz"); err == nil {
		jzz = v.Float()
	}
	tensor := DiagonalTensor3(jxx, jyy, jzz)

	comX, comY, comZ := 0.0, 0.0, 0.0

	for _, child := range obj.Children() {
		if !child.IsInitialized() {
			continue
		}
		childMassVar, err := child.vars.Get("mass")
		if err != nil {
			continue
		}
		childMass := clampMass(childMassVar.Float())
		pos := child.PublicState().Position
		mass += childMass
		comX += childMass * pos.X
		comY += childMass * pos.Y
		comZ += childMass * pos.Z

		var childTensor *Tensor3
		if cr, ok := child.solver.(*rigidBody); ok && cr.tensor != nil {
			childTensor = cr.tensor.RotateByQuaternion(child.PublicState().Orientation)
		} else {
			childTensor = ZeroTensor3()
		}
		tensor = tensor.Add(childTensor).Add(parallelAxis(childMass, pos.X, pos.Y, pos.Z))
	}
	if mass > epsilon {
		comX, comY, comZ = comX/mass, comY/mass, comZ/mass
	}

	r.mass, r.comX, r.comY, r.comZ, r.tensor = mass, comX, comY, comZ, tensor
	if s, err := obj.vars.Get("static"); err == nil {
		r.static = s.Float() != 0
	}
	return nil
}

// OnIntegrate applies Euler's rigid-body equation α = I^-1(T - ω x Iω) to
// the accumulated force/torque plus any local gravity supplied via obj's
// userdata (an EnvironmentField). A static body always returns a
// zero derivative.
func (r *rigidBody) OnIntegrate(sys *System, obj *Object, dt float64, state *StateVector) (*Derivative, error) {
	d := NewDerivative(obj)
	if r.static {
		return d, nil
	}

	force := NewVector(Force, obj.parent, 0, 0, 0)
	torque := NewVector(Torque, obj.parent, 0, 0, 0)
	for _, child := range obj.Children() {
		childDeriv, err := child.Integrate(dt, child.PublicState())
		if err != nil {
			return nil, Wrap(Internal, fmt.Sprintf("rigidbody: integrate child %q", child.name), err)
		}
		var addErr error
		force, addErr = force.Add(childDeriv.Force)
		if addErr != nil {
			return nil, addErr
		}
		torque, addErr = torque.Add(childDeriv.Torque)
		if addErr != nil {
			return nil, addErr
		}
	}

	if field, ok := obj.GetUserdata().(*EnvironmentField); ok && field != nil {
		g, err := field.AccelerationAt(obj.parent, state.Position)
		if err != nil {
			return nil, err
		}
		gForce := g.MultiplyScalar(r.mass)
		gForce.Level = Force
		force, _ = force.Add(gForce)
	}

	mass := r.mass
	if mass < epsilon {
		mass = epsilon
	}
	d.Acceleration = force.MultiplyScalar(1 / mass)
	d.Acceleration.Level = Acceleration

	iw, err := r.tensor.MultiplyOmega(state.AngularVelocity)
	if err != nil {
		return nil, err
	}
	gyroscopic, err := state.AngularVelocity.Cross(iw)
	if err != nil {
		return nil, err
	}
	net, err := torque.Subtract(reinterpretLevel(gyroscopic, Torque))
	if err != nil {
		return nil, err
	}
	inv, err := r.tensor.InvertSymmetric()
	if err != nil {
		return nil, err
	}
	ax, ay, az := inv.MultiplyVector(net.X, net.Y, net.Z)
	d.AngularAcceleration = NewVector(AngularAcceleration, obj.parent, ax, ay, az)
	d.Velocity = state.Velocity.Clone()
	d.Velocity.Level = Velocity
	d.AngularVelocity = state.AngularVelocity.Clone()
	return d, nil
}

// MultiplyOmega returns t*omega as a Vector tagged AngularVelocity, used
// only as an intermediate for the gyroscopic term omega x (I omega).
func (t *Tensor3) MultiplyOmega(omega *Vector) (*Vector, error) {
	x, y, z := t.MultiplyVector(omega.X, omega.Y, omega.Z)
	return NewVector(AngularVelocity, omega.Frame, x, y, z), nil
}

func reinterpretLevel(v *Vector, level DerivativeLevel) *Vector {
	return NewVector(level, v.Frame, v.X, v.Y, v.Z)
}
