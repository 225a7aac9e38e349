package evds

import "fmt"

// Initialize runs the create, populate, initialize pipeline's final step
// for obj: recurse depth-first into children, run the system's global
// pre-init hook, poll registered solvers in order until one claims obj,
// auto-derive mass/inertia when applicable, then publish obj into the
// system's type index. token must match (or have been transferred from) the
// token that created obj, modelling the single-thread-during-init
// constraint a real OS would enforce via thread affinity.
func (obj *Object) Initialize(token Token, sys *System) error {
	if obj.initialized {
		return nil
	}
	if !token.Equal(obj.creatorToken) && !token.Equal(obj.initializerToken) {
		return NewError(InterthreadCall, fmt.Sprintf("token mismatch initializing %q", obj.name))
	}
	for _, child := range obj.Children() {
		if err := child.Initialize(token, sys); err != nil {
			return err
		}
	}
	if sys.preInitHook != nil {
		if err := sys.preInitHook(sys, obj); err != nil {
			return Wrap(Internal, "pre-init hook failed", err)
		}
	}
	if err := obj.runClaimLoop(sys); err != nil {
		return err
	}
	obj.deriveMassProperties()
	obj.initialized = true
	sys.indexByType(obj)
	return nil
}

// TransferInitialization hands initialization rights for obj's still-
// uninitialized subtree to a new token, modelling a handoff between
// goroutines that must not run concurrently.
func (obj *Object) TransferInitialization(newToken Token) {
	obj.initializerToken = newToken
	for _, child := range obj.Children() {
		if !child.initialized {
			child.TransferInitialization(newToken)
		}
	}
}

// runClaimLoop polls every registered solver's OnInitialize until one
// returns Claimed, per the solver claim protocol. An object with no claiming
// solver is left unclaimed (obj.solver stays nil); DefaultSolver's
// behaviour is only reached through objects that did claim it.
func (obj *Object) runClaimLoop(sys *System) error {
	sys.solverMu.Lock()
	solvers := make([]*registeredSolver, len(sys.solvers))
	copy(solvers, sys.solvers)
	sys.solverMu.Unlock()

	for _, rs := range solvers {
		claim, err := rs.solver.OnInitialize(sys, obj)
		if err != nil {
			return Wrap(Internal, fmt.Sprintf("solver rejected %q", obj.name), err)
		}
		if claim == Claimed {
			obj.solver = rs.solver
			return nil
		}
	}
	return nil
}

// Mesher is implemented by external geometry providers that can derive mass
// properties from a triangulated surface when an object only specifies
// total mass. It is intentionally an external collaborator: this package
// ships no mesh generator.
type Mesher interface {
	GenerateMesh(obj *Object) (MeshProperties, error)
}

// MeshProperties is what a Mesher reports back.
type MeshProperties struct {
	TotalVolume float64
	TotalArea   float64
	CenterOfMass [3]float64
	BoundingBox  [2][3]float64
}

// deriveMassProperties fills in jxx/jyy/jzz from mass when only mass (and,
// optionally, a uniform-sphere or box assumption) is present: an object
// with a "mass" variable but no inertia tensor gets one derived as a solid
// sphere of that mass and an explicit "radius" variable, falling back to a
// unit sphere when no radius is given. This step only covers the sphere
// default; no solver in this package consults a Mesher.
func (obj *Object) deriveMassProperties() {
	massVar, err := obj.vars.Get("mass")
	if err != nil {
		return
	}
	if _, err := obj.vars.Get("jxx"); err == nil {
		return // inertia already supplied explicitly
	}
	mass := clampMass(massVar.Float())
	radius := 1.0
	if r, err := obj.vars.Get("radius"); err == nil {
		radius = r.Float()
	}
	j := 0.4 * mass * radius * radius // solid sphere: (2/5) m r^2
	obj.vars.AddFloat("jxx", j)
	obj.vars.AddFloat("jyy", j)
	obj.vars.AddFloat("jzz", j)
}
