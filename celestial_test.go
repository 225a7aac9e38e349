package evds

import "testing"

func TestSeedPlanetPopulatesVariables(t *testing.T) {
	sys := NewSystem()
	token := NewToken()
	sys.RegisterSolver(NewPlanetSolver())

	earth, err := SeedPlanet(sys, token, nil, Earth)
	if err != nil {
		t.Fatalf("SeedPlanet: %v", err)
	}
	if !earth.IsInitialized() {
		t.Fatal("expected earth to be initialized")
	}
	mu, err := earth.Query("mass_mu")
	if err != nil {
		t.Fatalf("query mass_mu: %v", err)
	}
	if mu.Float() != Earth.Mu {
		t.Fatalf("mass_mu = %v, want %v", mu.Float(), Earth.Mu)
	}
	if len(sys.ObjectsByType("planet")) != 1 {
		t.Fatalf("expected 1 planet object, got %d", len(sys.ObjectsByType("planet")))
	}
}

func TestSeedPlanetUsesDefaultParentRoot(t *testing.T) {
	sys := NewSystem()
	token := NewToken()
	sys.RegisterSolver(NewPlanetSolver())

	moon, err := SeedPlanet(sys, token, nil, Moon)
	if err != nil {
		t.Fatalf("SeedPlanet: %v", err)
	}
	if moon.Parent() != sys.Root() {
		t.Fatal("expected moon's parent to default to the system root")
	}
}

func TestCatalogRadiiArePositive(t *testing.T) {
	for _, body := range []CelestialObject{Sun, Mercury, Venus, Earth, Moon, Mars, Jupiter} {
		if body.Radius <= 0 {
			t.Fatalf("%s: radius must be positive, got %v", body.Name, body.Radius)
		}
		if body.Mu <= 0 {
			t.Fatalf("%s: mu must be positive, got %v", body.Name, body.Mu)
		}
	}
}
