package evds

import (
	"math"
	"testing"
)

func TestGeodeticECEFRoundTrip(t *testing.T) {
	cases := []struct {
		name              string
		lat, lon, height float64
	}{
		{"equator_prime_meridian", 0, 0, 0},
		{"mid_latitude", 37.7749 * math.Pi / 180, -122.4194 * math.Pi / 180, 15},
		{"southern_hemisphere", -33.8688 * math.Pi / 180, 151.2093 * math.Pi / 180, 100},
		{"high_altitude", 45 * math.Pi / 180, 90 * math.Pi / 180, 400000},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			x, y, z := WGS84.GeodeticToECEF(c.lat, c.lon, c.height)
			gotLat, gotLon, gotHeight := WGS84.ECEFToGeodetic(x, y, z)
			if math.Abs(gotLat-c.lat) > 1e-9 {
				t.Errorf("lat: got %v want %v", gotLat, c.lat)
			}
			if math.Abs(gotLon-c.lon) > 1e-9 {
				t.Errorf("lon: got %v want %v", gotLon, c.lon)
			}
			if math.Abs(gotHeight-c.height) > 1e-6 {
				t.Errorf("height: got %v want %v", gotHeight, c.height)
			}
		})
	}
}

func TestGeodeticPolarAxisEdgeCase(t *testing.T) {
	lat, lon, height := WGS84.ECEFToGeodetic(0, 0, 6356752.314245)
	if math.Abs(lat-math.Pi/2) > 1e-6 {
		t.Fatalf("expected latitude ~90deg at the pole, got %v rad", lat)
	}
	_ = lon
	if math.Abs(height) > 1 {
		t.Fatalf("expected ~0 height at the reference pole radius, got %v", height)
	}
}

func TestGeodeticToECEFEquatorMatchesSemiMajorAxis(t *testing.T) {
	x, y, z := WGS84.GeodeticToECEF(0, 0, 0)
	if math.Abs(x-WGS84.SemiMajorAxis) > 1e-6 {
		t.Fatalf("expected x ~= semi-major axis, got %v", x)
	}
	if math.Abs(y) > 1e-9 || math.Abs(z) > 1e-9 {
		t.Fatalf("expected y=z=0 at (0,0,0), got (%v,%v)", y, z)
	}
}

func TestLVLHOrientationIsOrthonormalRightHandedTriad(t *testing.T) {
	sys := NewSystem()
	pos := NewVector(Position, sys.Root(), 7000, 0, 0)
	vel := NewVector(Velocity, sys.Root(), 0, 7.5, 0)

	q, err := LVLHOrientation(pos, vel)
	if err != nil {
		t.Fatalf("LVLHOrientation: %v", err)
	}
	if n := q.Norm(); math.Abs(n-1) > 1e-9 {
		t.Fatalf("expected unit quaternion, got norm %v", n)
	}

	// +Z of the LVLH frame should point toward nadir. q maps parent-frame
	// components to body components (as an Orientation does in
	// shortConvert), so the body (0,0,1) axis expressed in the parent frame
	// is rotated by q's conjugate and should be anti-parallel to pos.
	nadir := q.conjugate().RotateVector(NewVector(Direction, sys.Root(), 0, 0, 1))
	posUnit := pos.Normalize()
	dot := nadir.X*posUnit.X + nadir.Y*posUnit.Y + nadir.Z*posUnit.Z
	if dot > -0.999 {
		t.Fatalf("expected +Z to point toward nadir, dot=%v", dot)
	}
}

func TestLVLHOrientationRejectsMismatchedFrames(t *testing.T) {
	sys := NewSystem()
	token := NewToken()
	other := sys.NewObject(nil, token, "frame", "other")

	pos := NewVector(Position, sys.Root(), 7000, 0, 0)
	vel := NewVector(Velocity, other, 0, 7.5, 0)
	if _, err := LVLHOrientation(pos, vel); err == nil {
		t.Fatal("expected error for mismatched frames")
	}
}
