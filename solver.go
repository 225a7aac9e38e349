package evds

// Solver is the interface registered solvers implement. Every
// method is optional in the source; here the claim/solve/integrate
// methods are required but given sensible default behaviour via
// DefaultSolver, which concrete solvers embed.
type Solver interface {
	// OnInitialize is polled in registration order during object
	// initialization. It returns (Claimed, nil) to bind obj to this solver,
	// (Ignore, nil) to let the next solver try, or a non-nil error to
	// abort initialization entirely.
	OnInitialize(sys *System, obj *Object) (Claim, error)
	// OnDeinitialize runs when a claimed object is destroyed.
	OnDeinitialize(sys *System, obj *Object)
	// OnSolve advances obj's internal state by dt (the user-visible
	// "solve" half of the solver contract).
	OnSolve(sys *System, obj *Object, dt float64) error
	// OnIntegrate is pure with respect to stored state: given a
	// hypothetical state, it returns a derivative without committing
	// anything.
	OnIntegrate(sys *System, obj *Object, dt float64, state *StateVector) (*Derivative, error)
}

// Claim is the result of a solver's OnInitialize call.
type Claim uint8

const (
	// Ignore means "move to the next solver in the registry".
	Ignore Claim = iota
	// Claimed means "this object is now bound to me; stop polling".
	Claimed
)

type registeredSolver struct {
	solver Solver
}

// DefaultSolver provides the default OnSolve/OnIntegrate/OnDeinitialize
// bodies: OnSolve recurses into children, OnIntegrate
// copies velocities/accelerations from the hypothetical state. Concrete
// solvers embed this and override OnInitialize (and whichever of the
// other methods they need).
type DefaultSolver struct{}

// OnDeinitialize is a no-op by default.
func (DefaultSolver) OnDeinitialize(sys *System, obj *Object) {}

// OnSolve recurses into every initialized child.
func (DefaultSolver) OnSolve(sys *System, obj *Object, dt float64) error {
	for _, child := range obj.Children() {
		if err := child.Solve(dt); err != nil {
			sys.logger.Log("level", "warn", "subsys", "evds", "object", child.name, "err", err, "status", "skipped")
		}
	}
	return nil
}

// OnIntegrate copies the velocities and accelerations already present in
// state into the returned Derivative.
func (DefaultSolver) OnIntegrate(sys *System, obj *Object, dt float64, state *StateVector) (*Derivative, error) {
	d := NewDerivative(obj)
	d.Velocity = state.Velocity.Clone()
	d.Acceleration = state.Acceleration.Clone()
	d.AngularVelocity = state.AngularVelocity.Clone()
	d.AngularAcceleration = state.AngularAcceleration.Clone()
	return d, nil
}
