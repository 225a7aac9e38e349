package evds

import "testing"

func newTestFrame(t *testing.T, sys *System, token Token, parent *Object, name string) *Object {
	t.Helper()
	if parent == nil {
		parent = sys.Root()
	}
	obj := sys.NewObject(parent, token, "frame", name)
	if err := obj.Initialize(token, sys); err != nil {
		t.Fatalf("initializing %s: %v", name, err)
	}
	return obj
}

func TestVectorConvertSameFrameIsNoop(t *testing.T) {
	sys := NewSystem()
	token := NewToken()
	a := newTestFrame(t, sys, token, nil, "a")

	v := NewVector(Position, a, 1, 2, 3)
	got, err := v.Convert(a)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if got.X != 1 || got.Y != 2 || got.Z != 3 {
		t.Fatalf("expected identity conversion, got %+v", got)
	}
}

func TestVectorConvertParentChildRoundTrip(t *testing.T) {
	sys := NewSystem()
	token := NewToken()
	child := newTestFrame(t, sys, token, nil, "child")

	st := child.PublicState()
	st.Position = NewVector(Position, sys.Root(), 10, 0, 0)
	child.SetStateVector(st)

	v := NewVector(Position, sys.Root(), 12, 3, 0)
	inChild, err := v.Convert(child)
	if err != nil {
		t.Fatalf("Convert down: %v", err)
	}
	back, err := inChild.Convert(sys.Root())
	if err != nil {
		t.Fatalf("Convert up: %v", err)
	}
	if !floatsClose(back.X, v.X) || !floatsClose(back.Y, v.Y) || !floatsClose(back.Z, v.Z) {
		t.Fatalf("round trip mismatch: got %+v, want %+v", back, v)
	}
}

func TestVectorConvertRotationOnlyLevelsIgnoreTransport(t *testing.T) {
	sys := NewSystem()
	token := NewToken()
	child := newTestFrame(t, sys, token, nil, "child")

	st := child.PublicState()
	st.AngularVelocity = NewVector(AngularVelocity, sys.Root(), 0, 0, 0.5)
	child.SetStateVector(st)

	dir := NewVector(Direction, sys.Root(), 1, 0, 0)
	converted, err := dir.Convert(child)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if floatsClose(converted.Norm(), 0) {
		t.Fatal("direction vector should not collapse to zero under rotation")
	}
}

func TestCrossProductPromotion(t *testing.T) {
	sys := NewSystem()
	token := NewToken()
	frame := newTestFrame(t, sys, token, nil, "f")

	omega := NewVector(AngularVelocity, frame, 0, 0, 1)
	r := NewVector(Position, frame, 1, 0, 0)
	v, err := omega.Cross(r)
	if err != nil {
		t.Fatalf("Cross: %v", err)
	}
	if v.Level != Velocity {
		t.Fatalf("expected Velocity, got %v", v.Level)
	}
}

func TestVectorGeneralConversionThroughCommonAncestor(t *testing.T) {
	sys := NewSystem()
	token := NewToken()
	a := newTestFrame(t, sys, token, nil, "a")
	b := newTestFrame(t, sys, token, nil, "b")

	aSt := a.PublicState()
	aSt.Position = NewVector(Position, sys.Root(), 5, 0, 0)
	a.SetStateVector(aSt)
	bSt := b.PublicState()
	bSt.Position = NewVector(Position, sys.Root(), 0, 5, 0)
	b.SetStateVector(bSt)

	child := sys.NewObject(a, token, "frame", "child")
	if err := child.Initialize(token, sys); err != nil {
		t.Fatalf("init child: %v", err)
	}

	v := NewVector(Position, child, 1, 0, 0)
	got, err := v.Convert(b)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	// child is at (5,0,0)+1 in root = (6,0,0); relative to b at (0,5,0):
	// (6,-5,0).
	if !floatsClose(got.X, 6) || !floatsClose(got.Y, -5) {
		t.Fatalf("got %+v", got)
	}
}

func floatsClose(a, b float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < 1e-6
}
