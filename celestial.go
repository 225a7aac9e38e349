package evds

// CelestialObject is a named set of gravity/shape constants for a solar
// system body, grounded on the teacher's CelestialObject catalog (mass,
// radius, J2) but stripped of the orbit/ephemeris fields that belonged to
// the trajectory-design tooling this kernel does not implement.
type CelestialObject struct {
	Name   string
	Mu     float64 // GM, m^3/s^2
	Radius float64 // equatorial radius, meters
	J2     float64
	SOI    float64 // sphere-of-influence radius, meters
}

// Catalog of bodies available to seed "planet" objects, values converted
// from the teacher's km/km^3 units to the SI meters this kernel uses
// throughout.
var (
	Sun = CelestialObject{Name: "Sun", Mu: 1.32712440018e20, Radius: 6.95700e8, SOI: 1e300}

	Mercury = CelestialObject{Name: "Mercury", Mu: 2.2032e13, Radius: 2.4397e6, SOI: 1.1266e8}
	Venus   = CelestialObject{Name: "Venus", Mu: 3.24859e14, Radius: 6.0518e6, SOI: 6.1645e8}
	Earth   = CelestialObject{Name: "Earth", Mu: 3.986004418e14, Radius: 6.378137e6, J2: 1.08262668e-3, SOI: 9.24645e8}
	Moon    = CelestialObject{Name: "Moon", Mu: 4.9048695e12, Radius: 1.7374e6, SOI: 6.6168e7}
	Mars    = CelestialObject{Name: "Mars", Mu: 4.282837e13, Radius: 3.3895e6, J2: 1.96045e-3, SOI: 5.77255e8}
	Jupiter = CelestialObject{Name: "Jupiter", Mu: 1.26686534e17, Radius: 7.1492e7, J2: 1.4736e-2, SOI: 4.82194e10}
)

// SeedPlanet creates a "planet"-typed object under parent (or the system
// root if nil), populates its mass_mu/radius/j2/soi_radius variables from
// body, and initializes it. The object claims itself via planetSolver, so
// sys must already have a NewPlanetSolver registered.
func SeedPlanet(sys *System, token Token, parent *Object, body CelestialObject) (*Object, error) {
	obj := sys.NewObject(parent, token, "planet", body.Name)
	obj.vars.AddFloat("mass_mu", body.Mu)
	obj.vars.AddFloat("radius", body.Radius)
	obj.vars.AddFloat("j2", body.J2)
	obj.vars.AddFloat("soi_radius", body.SOI)
	if err := obj.Initialize(token, sys); err != nil {
		return nil, err
	}
	return obj, nil
}
