package evds

// propagatorEuler advances every child of the object it claims by a single
// forward-Euler step: state' = state + f(state)*dt. Each child is solved
// before it is integrated, so a child's own accumulator (the rigid-body
// solver, for instance) has a chance to update its internal state before
// the propagator reads a derivative from it.
type propagatorEuler struct {
	DefaultSolver
	typ string
}

// NewEulerPropagator returns a solver that claims objects of typ and
// advances their children with forward-Euler integration.
func NewEulerPropagator(typ string) Solver { return &propagatorEuler{typ: typ} }

func (p *propagatorEuler) OnInitialize(sys *System, obj *Object) (Claim, error) {
	if obj.typ == p.typ {
		return Claimed, nil
	}
	return Ignore, nil
}

func (p *propagatorEuler) OnSolve(sys *System, obj *Object, dt float64) error {
	for _, child := range obj.Children() {
		if err := child.Solve(dt); err != nil {
			sys.logger.Log("level", "warn", "subsys", "evds", "object", child.name, "err", err, "status", "skipped")
			continue
		}
		st := child.PublicState()
		d, err := child.Integrate(dt, st)
		if err != nil {
			sys.logger.Log("level", "warn", "subsys", "evds", "object", child.name, "err", err, "status", "skipped")
			continue
		}
		child.SetStateVector(st.MultiplyAndAdd(d, dt))
	}
	return nil
}

// propagatorHeun advances children with Heun's predictor-corrector method:
// a forward-Euler predictor followed by iterated averaging of the
// predictor's and corrector's derivatives until the step converges or a
// fixed iteration cap is hit.
type propagatorHeun struct {
	DefaultSolver
	typ       string
	maxIters  int
	tolerance float64
}

// NewHeunPropagator returns a Heun predictor-corrector solver for typ.
func NewHeunPropagator(typ string) Solver {
	return &propagatorHeun{typ: typ, maxIters: 8, tolerance: 1e-10}
}

func (p *propagatorHeun) OnInitialize(sys *System, obj *Object) (Claim, error) {
	if obj.typ == p.typ {
		return Claimed, nil
	}
	return Ignore, nil
}

func (p *propagatorHeun) OnSolve(sys *System, obj *Object, dt float64) error {
	for _, child := range obj.Children() {
		if err := child.Solve(dt); err != nil {
			sys.logger.Log("level", "warn", "subsys", "evds", "object", child.name, "err", err, "status", "skipped")
			continue
		}
		st := child.PublicState()
		d0, err := child.Integrate(dt, st)
		if err != nil {
			sys.logger.Log("level", "warn", "subsys", "evds", "object", child.name, "err", err, "status", "skipped")
			continue
		}
		predicted := st.MultiplyAndAdd(d0, dt)

		corrected := predicted
		failed := false
		for iter := 0; iter < p.maxIters; iter++ {
			d1, err := child.Integrate(dt, predicted)
			if err != nil {
				sys.logger.Log("level", "warn", "subsys", "evds", "object", child.name, "err", err, "status", "skipped")
				failed = true
				break
			}
			avg := averageDerivative(d0, d1)
			corrected = st.MultiplyAndAdd(avg, dt)
			if stateDeltaSquared(predicted, corrected) < p.tolerance {
				predicted = corrected
				break
			}
			predicted = corrected
		}
		if failed {
			continue
		}
		child.SetStateVector(corrected)
	}
	return nil
}

// stateDeltaSquared returns the squared position plus squared velocity
// change between two successive corrected states, the quantity Heun's
// iteration converges on.
func stateDeltaSquared(a, b *StateVector) float64 {
	dpx, dpy, dpz := b.Position.X-a.Position.X, b.Position.Y-a.Position.Y, b.Position.Z-a.Position.Z
	dvx, dvy, dvz := b.Velocity.X-a.Velocity.X, b.Velocity.Y-a.Velocity.Y, b.Velocity.Z-a.Velocity.Z
	return dpx*dpx + dpy*dpy + dpz*dpz + dvx*dvx + dvy*dvy + dvz*dvz
}

func averageDerivative(a, b *Derivative) *Derivative {
	avg := func(x, y *Vector) *Vector {
		return NewVector(x.Level, x.Frame, (x.X+y.X)/2, (x.Y+y.Y)/2, (x.Z+y.Z)/2)
	}
	return &Derivative{
		Velocity:            avg(a.Velocity, b.Velocity),
		Acceleration:        avg(a.Acceleration, b.Acceleration),
		AngularVelocity:     avg(a.AngularVelocity, b.AngularVelocity),
		AngularAcceleration: avg(a.AngularAcceleration, b.AngularAcceleration),
		Force:               avg(a.Force, b.Force),
		Torque:              avg(a.Torque, b.Torque),
	}
}

// propagatorRK4 advances children with classical 4th-order Runge-Kutta:
// k1..k4 evaluated at state, state+k1*dt/2, state+k2*dt/2, state+k3*dt,
// combined as state + dt/6*(k1+2k2+2k3+k4).
type propagatorRK4 struct {
	DefaultSolver
	typ string
}

// NewRK4Propagator returns an RK4 solver for typ.
func NewRK4Propagator(typ string) Solver { return &propagatorRK4{typ: typ} }

func (p *propagatorRK4) OnInitialize(sys *System, obj *Object) (Claim, error) {
	if obj.typ == p.typ {
		return Claimed, nil
	}
	return Ignore, nil
}

func (p *propagatorRK4) OnSolve(sys *System, obj *Object, dt float64) error {
	for _, child := range obj.Children() {
		if err := child.Solve(dt); err != nil {
			sys.logger.Log("level", "warn", "subsys", "evds", "object", child.name, "err", err, "status", "skipped")
			continue
		}
		st := child.PublicState()

		k1, err := child.Integrate(dt, st)
		if err != nil {
			sys.logger.Log("level", "warn", "subsys", "evds", "object", child.name, "err", err, "status", "skipped")
			continue
		}
		s2 := st.MultiplyAndAdd(k1, dt/2)
		k2, err := child.Integrate(dt, s2)
		if err != nil {
			sys.logger.Log("level", "warn", "subsys", "evds", "object", child.name, "err", err, "status", "skipped")
			continue
		}
		s3 := st.MultiplyAndAdd(k2, dt/2)
		k3, err := child.Integrate(dt, s3)
		if err != nil {
			sys.logger.Log("level", "warn", "subsys", "evds", "object", child.name, "err", err, "status", "skipped")
			continue
		}
		s4 := st.MultiplyAndAdd(k3, dt)
		k4, err := child.Integrate(dt, s4)
		if err != nil {
			sys.logger.Log("level", "warn", "subsys", "evds", "object", child.name, "err", err, "status", "skipped")
			continue
		}

		combined := combineRK4(k1, k2, k3, k4)
		child.SetStateVector(st.MultiplyAndAdd(combined, dt/6))
	}
	return nil
}

func combineRK4(k1, k2, k3, k4 *Derivative) *Derivative {
	mix := func(a, b, c, d *Vector) *Vector {
		return NewVector(a.Level, a.Frame,
			a.X+2*b.X+2*c.X+d.X,
			a.Y+2*b.Y+2*c.Y+d.Y,
			a.Z+2*b.Z+2*c.Z+d.Z,
		)
	}
	return &Derivative{
		Velocity:            mix(k1.Velocity, k2.Velocity, k3.Velocity, k4.Velocity),
		Acceleration:        mix(k1.Acceleration, k2.Acceleration, k3.Acceleration, k4.Acceleration),
		AngularVelocity:     mix(k1.AngularVelocity, k2.AngularVelocity, k3.AngularVelocity, k4.AngularVelocity),
		AngularAcceleration: mix(k1.AngularAcceleration, k2.AngularAcceleration, k3.AngularAcceleration, k4.AngularAcceleration),
		Force:               mix(k1.Force, k2.Force, k3.Force, k4.Force),
		Torque:              mix(k1.Torque, k2.Torque, k3.Torque, k4.Torque),
	}
}
