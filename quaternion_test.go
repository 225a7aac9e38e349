package evds

import (
	"math"
	"testing"
)

func TestIdentityQuaternionRotationIsNoop(t *testing.T) {
	sys := NewSystem()
	q := IdentityQuaternion(sys.Root())
	v := NewVector(Direction, sys.Root(), 1, 2, 3)
	rotated := q.RotateVector(v)
	if !floatsClose(rotated.X, 1) || !floatsClose(rotated.Y, 2) || !floatsClose(rotated.Z, 3) {
		t.Fatalf("identity rotation changed vector: %+v", rotated)
	}
}

func TestAxisAngleRotatesAroundOwnAxisIsNoop(t *testing.T) {
	sys := NewSystem()
	q := AxisAngle(sys.Root(), 0, 0, 1, math.Pi/2)
	v := NewVector(Direction, sys.Root(), 0, 0, 5)
	rotated := q.RotateVector(v)
	if !floatsClose(rotated.X, 0) || !floatsClose(rotated.Y, 0) || !floatsClose(rotated.Z, 5) {
		t.Fatalf("rotation around own axis should not move it: %+v", rotated)
	}
}

func TestAxisAngle90DegreesAboutZ(t *testing.T) {
	sys := NewSystem()
	q := AxisAngle(sys.Root(), 0, 0, 1, math.Pi/2)
	v := NewVector(Direction, sys.Root(), 1, 0, 0)
	rotated := q.RotateVector(v)
	if !floatsClose(rotated.X, 0) || !floatsClose(rotated.Y, 1) || !floatsClose(rotated.Z, 0) {
		t.Fatalf("expected (0,1,0), got %+v", rotated)
	}
}

func TestQuaternionNormalizeGuardsZeroMagnitude(t *testing.T) {
	q := &Quaternion{W: 0, X: 0, Y: 0, Z: 0}
	n := q.Normalize()
	if n.W != 1 || n.X != 0 || n.Y != 0 || n.Z != 0 {
		t.Fatalf("expected identity for zero-magnitude quaternion, got %+v", n)
	}
}

func TestIntegrateKinematicMatchesClosedFormRotation(t *testing.T) {
	sys := NewSystem()
	omega := NewVector(AngularVelocity, sys.Root(), 0, 0, 1) // 1 rad/s about z
	q := IdentityQuaternion(sys.Root())

	dt := 0.0001
	steps := int(math.Pi / 2 / dt) // integrate to ~90 degrees
	for i := 0; i < steps; i++ {
		q = q.IntegrateKinematic(omega, dt)
	}

	closedForm := AxisAngle(sys.Root(), 0, 0, 1, math.Pi/2)
	dot := q.W*closedForm.W + q.X*closedForm.X + q.Y*closedForm.Y + q.Z*closedForm.Z
	if math.Abs(dot) < 0.999 {
		t.Fatalf("integrated quaternion diverged from closed form: dot=%v", dot)
	}
}

func TestToEulerFromEulerRoundTrip(t *testing.T) {
	sys := NewSystem()
	roll, pitch, yaw := 0.3, -0.2, 1.1
	q := FromEuler(sys.Root(), roll, pitch, yaw)
	gotRoll, gotPitch, gotYaw := q.ToEuler()
	if !floatsClose(gotRoll, roll) || !floatsClose(gotPitch, pitch) || !floatsClose(gotYaw, yaw) {
		t.Fatalf("got (%v,%v,%v), want (%v,%v,%v)", gotRoll, gotPitch, gotYaw, roll, pitch, yaw)
	}
}
