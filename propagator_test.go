package evds

import (
	"math"
	"testing"
)

// constAccelSolver reports a fixed acceleration independent of state, for
// exercising the propagators against an exactly-integrable case (uniform
// acceleration: position(t) = x0 + v0*t + 0.5*a*t^2, exact for any of the
// three methods since the derivative is state-independent).
type constAccelSolver struct {
	DefaultSolver
	accel float64
}

func (c *constAccelSolver) OnInitialize(sys *System, obj *Object) (Claim, error) {
	if obj.typ == "particle" {
		return Claimed, nil
	}
	return Ignore, nil
}

func (c *constAccelSolver) OnIntegrate(sys *System, obj *Object, dt float64, state *StateVector) (*Derivative, error) {
	d := NewDerivative(obj)
	d.Velocity = state.Velocity.Clone()
	d.Acceleration = NewVector(Acceleration, obj.parent, c.accel, 0, 0)
	return d, nil
}

func setupPropagatorScenario(t *testing.T, propagator Solver) (*System, *Object) {
	t.Helper()
	sys := NewSystem()
	token := NewToken()
	sys.RegisterSolver(&constAccelSolver{accel: 2})
	sys.RegisterSolver(propagator)

	root := sys.NewObject(nil, token, "propagator", "root")
	if err := root.Initialize(token, sys); err != nil {
		t.Fatalf("init root: %v", err)
	}
	particle := sys.NewObject(root, token, "particle", "p1")
	if err := particle.Initialize(token, sys); err != nil {
		t.Fatalf("init particle: %v", err)
	}
	return sys, root
}

func runConstAccelCase(t *testing.T, propagator Solver) float64 {
	t.Helper()
	sys, root := setupPropagatorScenario(t, propagator)
	particle := root.Children()[0]

	dt := 0.1
	steps := 10
	for i := 0; i < steps; i++ {
		if err := root.Solve(dt); err != nil {
			t.Fatalf("Solve step %d: %v", i, err)
		}
	}
	_ = sys
	return particle.PublicState().Position.X
}

func TestEulerPropagatorAdvancesPosition(t *testing.T) {
	got := runConstAccelCase(t, NewEulerPropagator("propagator"))
	// Forward-Euler accumulates velocity a step late, so it should trail
	// the exact solution a*t^2/2 for constant acceleration.
	exact := 0.5 * 2 * 1.0 * 1.0
	if got >= exact {
		t.Fatalf("expected Euler to trail the exact solution %v, got %v", exact, got)
	}
}

func TestRK4PropagatorMatchesExactForConstantAcceleration(t *testing.T) {
	got := runConstAccelCase(t, NewRK4Propagator("propagator"))
	exact := 0.5 * 2 * 1.0 * 1.0
	if math.Abs(got-exact) > 1e-6 {
		t.Fatalf("RK4 should be exact for constant acceleration: got %v, want %v", got, exact)
	}
}

func TestHeunPropagatorMatchesExactForConstantAcceleration(t *testing.T) {
	got := runConstAccelCase(t, NewHeunPropagator("propagator"))
	exact := 0.5 * 2 * 1.0 * 1.0
	if math.Abs(got-exact) > 1e-6 {
		t.Fatalf("Heun should be exact for constant acceleration: got %v, want %v", got, exact)
	}
}
