package evds

import (
	"math"
	"testing"
)

func TestRigidBodyClaimsObjectsWithMass(t *testing.T) {
	sys := NewSystem()
	token := NewToken()
	sys.RegisterSolver(NewRigidBodySolver())

	obj := sys.NewObject(nil, token, "vessel", "bus")
	obj.Variables().AddFloat("mass", 100)
	if err := obj.Initialize(token, sys); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if obj.solver == nil {
		t.Fatal("expected rigid body solver to claim the object")
	}
}

func TestRigidBodyIgnoresMasslessObjects(t *testing.T) {
	sys := NewSystem()
	token := NewToken()
	sys.RegisterSolver(NewRigidBodySolver())

	obj := sys.NewObject(nil, token, "frame", "f")
	if err := obj.Initialize(token, sys); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if obj.solver != nil {
		t.Fatal("expected massless object to remain unclaimed")
	}
}

func TestRigidBodyComposesChildMassIntoParent(t *testing.T) {
	sys := NewSystem()
	token := NewToken()
	sys.RegisterSolver(NewRigidBodySolver())

	parent := sys.NewObject(nil, token, "vessel", "bus")
	parent.Variables().AddFloat("mass", 100)
	child := sys.NewObject(parent, token, "gimbal", "g1")
	child.Variables().AddFloat("mass", 20)
	if err := child.Initialize(token, sys); err != nil {
		t.Fatalf("init child: %v", err)
	}
	if err := parent.Initialize(token, sys); err != nil {
		t.Fatalf("init parent: %v", err)
	}

	if err := parent.Solve(0.1); err != nil {
		t.Fatalf("Solve: %v", err)
	}
	rb, ok := parent.solver.(*rigidBody)
	if !ok {
		t.Fatal("expected parent to be claimed by rigidBody")
	}
	if !floatsClose(rb.mass, 120) {
		t.Fatalf("expected composed mass 120, got %v", rb.mass)
	}
}

func TestRigidBodyStaticBodyHasZeroDerivative(t *testing.T) {
	sys := NewSystem()
	token := NewToken()
	sys.RegisterSolver(NewRigidBodySolver())

	obj := sys.NewObject(nil, token, "planet_surface", "pad")
	obj.Variables().AddFloat("mass", 1000)
	obj.Variables().AddFloat("static", 1)
	if err := obj.Initialize(token, sys); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if err := obj.Solve(0.1); err != nil {
		t.Fatalf("Solve: %v", err)
	}
	d, err := obj.Integrate(0.1, obj.PublicState())
	if err != nil {
		t.Fatalf("Integrate: %v", err)
	}
	if d.Acceleration.Norm() != 0 || d.AngularAcceleration.Norm() != 0 {
		t.Fatalf("expected zero derivative for static body, got %+v", d)
	}
}

func TestTensor3ParallelAxisIncreasesMoment(t *testing.T) {
	base := DiagonalTensor3(1, 1, 1)
	offset := parallelAxis(2, 3, 0, 0)
	combined := base.Add(offset)
	if combined.At(1, 1) <= base.At(1, 1) {
		t.Fatal("expected parallel-axis offset to increase the off-axis moment")
	}
}

func TestTensor3InvertSymmetricRoundTrip(t *testing.T) {
	tensor := DiagonalTensor3(2, 3, 4)
	inv, err := tensor.InvertSymmetric()
	if err != nil {
		t.Fatalf("InvertSymmetric: %v", err)
	}
	x, y, z := tensor.MultiplyVector(1, 1, 1)
	ix, iy, iz := inv.MultiplyVector(x, y, z)
	if math.Abs(ix-1) > 1e-9 || math.Abs(iy-1) > 1e-9 || math.Abs(iz-1) > 1e-9 {
		t.Fatalf("expected round trip to recover (1,1,1), got (%v,%v,%v)", ix, iy, iz)
	}
}
