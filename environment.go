package evds

import "fmt"

// planetSolver claims objects typed "planet" and exposes their gravity
// parameters to EnvironmentField, which depends on a planet registry; this
// solver is that registry's population mechanism. A planet
// object must carry "mass_mu" (GM, m^3/s^2), "radius" (equatorial, m), and
// may optionally carry "j2" and "soi_radius".
type planetSolver struct {
	DefaultSolver
}

// NewPlanetSolver returns the solver that claims "planet"-typed objects.
func NewPlanetSolver() Solver { return &planetSolver{} }

func (p *planetSolver) OnInitialize(sys *System, obj *Object) (Claim, error) {
	if obj.typ != "planet" {
		return Ignore, nil
	}
	if _, err := obj.vars.Get("mass_mu"); err != nil {
		return Ignore, NewError(BadParameter, fmt.Sprintf("planet %q missing mass_mu", obj.name))
	}
	return Claimed, nil
}

// PlanetParams is the gravity-relevant data read from a claimed planet
// object's variable tree.
type PlanetParams struct {
	Object   *Object
	Mu       float64
	Radius   float64
	J2       float64
	SOI      float64
}

func planetParams(obj *Object) PlanetParams {
	p := PlanetParams{Object: obj}
	if v, err := obj.vars.Get("mass_mu"); err == nil {
		p.Mu = v.Float()
	}
	if v, err := obj.vars.Get("radius"); err == nil {
		p.Radius = v.Float()
	}
	if v, err := obj.vars.Get("j2"); err == nil {
		p.J2 = v.Float()
	}
	if v, err := obj.vars.Get("soi_radius"); err == nil {
		p.SOI = v.Float()
	} else {
		p.SOI = 1e300 // unbounded by default
	}
	return p
}

// GravityModel computes the gravitational acceleration contributed by a
// single planet at a position expressed in that planet's own frame.
type GravityModel func(p PlanetParams, posInPlanetFrame *Vector) (*Vector, error)

// SphericalJ2Gravity is the default GravityModel: point-mass spherical
// gravity plus the J2 oblateness correction, in closed form, ported from
// the teacher's zonal-harmonic perturbation formulas.
func SphericalJ2Gravity(p PlanetParams, pos *Vector) (*Vector, error) {
	r := pos.Norm()
	if r < epsilon {
		return nil, NewError(BadState, "position coincides with planet center")
	}
	r2 := r * r
	r3 := r2 * r
	ax := -p.Mu * pos.X / r3
	ay := -p.Mu * pos.Y / r3
	az := -p.Mu * pos.Z / r3

	if p.J2 != 0 && p.Radius > 0 {
		factor := 1.5 * p.J2 * p.Mu * p.Radius * p.Radius / (r2 * r3)
		zr2 := pos.Z * pos.Z / r2
		ax += factor * pos.X * (5*zr2 - 1)
		ay += factor * pos.Y * (5*zr2 - 1)
		az += factor * pos.Z * (5*zr2 - 3)
	}
	return NewVector(Acceleration, pos.Frame, ax, ay, az), nil
}

// EnvironmentField aggregates gravity from every planet in a system,
// honoring each planet's sphere-of-influence / physical-radius boundary
// handling: zero contribution inside 0.9x the physical radius, to avoid a
// singular well dominating the integrator right at a surface collision
// instead of letting contact logic handle it.
type EnvironmentField struct {
	sys   *System
	model GravityModel
}

// NewEnvironmentField builds a field aggregator over every "planet"-typed
// object currently registered in sys, using the default spherical+J2
// model unless overridden with SetModel.
func NewEnvironmentField(sys *System) *EnvironmentField {
	return &EnvironmentField{sys: sys, model: SphericalJ2Gravity}
}

// SetModel overrides the gravity model used for every planet.
func (f *EnvironmentField) SetModel(model GravityModel) { f.model = model }

// AccelerationAt returns the summed gravitational acceleration at pos
// (expressed in frame) from every planet object known to the system,
// converting pos into each planet's own frame to evaluate its model.
func (f *EnvironmentField) AccelerationAt(frame *Object, pos *Vector) (*Vector, error) {
	total := NewVector(Acceleration, frame, 0, 0, 0)
	for _, planet := range f.sys.ObjectsByType("planet") {
		params := planetParams(planet)
		posInPlanet, err := pos.Convert(planet)
		if err != nil {
			return nil, err
		}
		r := posInPlanet.Norm()
		if r < 0.9*params.Radius {
			continue // inside the body; boundary handled by contact logic, not gravity
		}
		if r > params.SOI {
			continue // outside the planet's sphere of influence
		}
		accelInPlanet, err := f.model(params, posInPlanet)
		if err != nil {
			return nil, err
		}
		accelInFrame, err := accelInPlanet.Convert(frame)
		if err != nil {
			return nil, err
		}
		total, err = total.Add(accelInFrame)
		if err != nil {
			return nil, err
		}
	}
	return total, nil
}

// PotentialAt returns the summed gravitational potential at pos, used for
// energy-conservation checks.
func (f *EnvironmentField) PotentialAt(frame *Object, pos *Vector) (float64, error) {
	total := 0.0
	for _, planet := range f.sys.ObjectsByType("planet") {
		params := planetParams(planet)
		posInPlanet, err := pos.Convert(planet)
		if err != nil {
			return 0, err
		}
		r := posInPlanet.Norm()
		if r < 0.9*params.Radius || r > params.SOI || params.Mu == 0 {
			continue
		}
		pot := -params.Mu / r
		if params.J2 != 0 && params.Radius > 0 {
			zr2 := posInPlanet.Z * posInPlanet.Z / (r * r)
			pot += 0.5 * params.J2 * params.Mu * params.Radius * params.Radius / (r * r * r) * (3*zr2 - 1)
		}
		total += pot
	}
	return total, nil
}
