package evds

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// Object is a node in the coordinate-frame tree. Every
// object's state vector is expressed in its parent's frame; the automatic
// root object returned by System.Root is the only object with a nil parent.
//
// State is held in up to four snapshots: public (last-committed, readable by any goroutine), previous (the one
// before that, for Interpolate/GetPreviousStateVector), integrator-private
// (only touched by the object's own solver while it is mid-OnSolve/
// OnIntegrate), and render (a copy a renderer can read without blocking the
// simulation thread). The integrator-private buffer belongs to whichever
// Token currently holds initialization/solve rights over this object.
type Object struct {
	sys *System

	uid  uint32
	typ  string
	name string

	parent      *Object
	children    []*Object
	depth       int

	mu           sync.RWMutex
	public       *StateVector
	previous     *StateVector
	integrator   *StateVector
	render       *StateVector

	vars *Variable // root of this object's variable tree

	solver     Solver
	solverData interface{}
	userData   interface{}

	initialized bool
	destroyed   int32 // atomic bool
	refcount    int32 // atomic

	creatorToken      Token
	initializerToken  Token
}

// newObject allocates an Object under parent (nil only for the automatic
// root), owned by token. It does not register it with sys or attach it to
// parent's child list; callers (System.NewObject, Object.CreateBy) do that
// after populating type/name, matching the create, populate, initialize
// pipeline.
func newObject(sys *System, parent *Object, token Token) *Object {
	depth := 0
	if parent != nil {
		depth = parent.depth + 1
	}
	frame := parent
	sv := NewStateVector(frame)
	obj := &Object{
		sys:          sys,
		parent:       parent,
		depth:        depth,
		public:       sv,
		previous:     sv.Clone(),
		integrator:   sv.Clone(),
		render:       sv.Clone(),
		vars:         NewNestedVariable("root"),
		creatorToken: token,
		refcount:     1,
	}
	return obj
}

// NewObject creates a child of parent (or of sys.Root() if parent is nil)
// with the given type and name, owned by token. The caller
// must still call Initialize before the object participates in simulation.
func (sys *System) NewObject(parent *Object, token Token, typ, name string) *Object {
	if parent == nil {
		parent = sys.root
	}
	obj := newObject(sys, parent, token)
	obj.typ = typ
	obj.name = name
	obj.uid = sys.allocateUID()
	parent.mu.Lock()
	parent.children = append(parent.children, obj)
	parent.mu.Unlock()
	sys.registerObject(obj)
	return obj
}

// Children returns a snapshot of obj's direct children.
func (obj *Object) Children() []*Object {
	obj.mu.RLock()
	defer obj.mu.RUnlock()
	out := make([]*Object, len(obj.children))
	copy(out, obj.children)
	return out
}

// AllChildren returns every descendant, depth-first pre-order.
func (obj *Object) AllChildren() []*Object {
	var out []*Object
	for _, c := range obj.Children() {
		out = append(out, c)
		out = append(out, c.AllChildren()...)
	}
	return out
}

// Parent returns obj's parent frame, or nil for the automatic root.
func (obj *Object) Parent() *Object { return obj.parent }

// Depth returns the cached distance from the inertial root.
func (obj *Object) Depth() int { return obj.depth }

func (obj *Object) SetType(typ string) { obj.typ = typ }
func (obj *Object) GetType() string    { return obj.typ }

func (obj *Object) SetName(name string) { obj.name = name }
func (obj *Object) GetName() string     { return obj.name }

func (obj *Object) GetUID() uint32 { return obj.uid }

// PublicState returns the last-committed state vector, safe to call from
// any goroutine.
func (obj *Object) PublicState() *StateVector {
	obj.mu.RLock()
	defer obj.mu.RUnlock()
	return obj.public
}

// GetPreviousStateVector returns the state committed before the current
// public one, used for interpolation.
func (obj *Object) GetPreviousStateVector() *StateVector {
	obj.mu.RLock()
	defer obj.mu.RUnlock()
	return obj.previous
}

// GetInterpolatedStateVector blends previous and public by t in [0,1].
func (obj *Object) GetInterpolatedStateVector(t float64) *StateVector {
	obj.mu.RLock()
	defer obj.mu.RUnlock()
	return Interpolate(obj.previous, obj.public, t)
}

// SetStateVector commits a new public state, first rotating the previous
// public snapshot into previous.
func (obj *Object) SetStateVector(sv *StateVector) {
	obj.mu.Lock()
	defer obj.mu.Unlock()
	obj.previous = obj.public
	obj.public = sv
}

// renderSnapshot returns a copy intended for a renderer thread that must
// not block the simulation.
func (obj *Object) renderSnapshot() *StateVector {
	obj.mu.RLock()
	defer obj.mu.RUnlock()
	return obj.render
}

// publishRenderSnapshot copies the current public state into the render
// buffer. Nothing in this package calls it.
func (obj *Object) publishRenderSnapshot() {
	obj.mu.Lock()
	defer obj.mu.Unlock()
	obj.render = obj.public.Clone()
}

// Variables returns the root of obj's variable tree.
func (obj *Object) Variables() *Variable { return obj.vars }

// SetUserdata/GetUserdata hold an opaque value for the object's owner,
// distinct from solver-private data.
func (obj *Object) SetUserdata(v interface{}) { obj.userData = v }
func (obj *Object) GetUserdata() interface{}  { return obj.userData }

// SetSolverdata/GetSolverdata hold an opaque value private to whichever
// solver has claimed obj.
func (obj *Object) SetSolverdata(v interface{}) { obj.solverData = v }
func (obj *Object) GetSolverdata() interface{}  { return obj.solverData }

// IsInitialized reports whether obj has completed the solver claim loop.
func (obj *Object) IsInitialized() bool { return obj.initialized }

// IsDestroyed reports whether Destroy has been called on obj.
func (obj *Object) IsDestroyed() bool { return atomic.LoadInt32(&obj.destroyed) != 0 }

// Store increments obj's reference count.
func (obj *Object) Store() { atomic.AddInt32(&obj.refcount, 1) }

// Release decrements obj's reference count. It never frees memory directly;
// System.CleanupObjects reclaims destroyed objects once their count reaches
// zero.
func (obj *Object) Release() {
	if atomic.AddInt32(&obj.refcount, -1) < 0 {
		atomic.StoreInt32(&obj.refcount, 0)
	}
}

// Destroy marks obj (and, transitively, its children) destroyed, calls the
// claimed solver's OnDeinitialize, unindexes it, and queues it for deferred
// cleanup. Destroy is idempotent.
func (obj *Object) Destroy() error {
	if !atomic.CompareAndSwapInt32(&obj.destroyed, 0, 1) {
		return nil
	}
	for _, child := range obj.Children() {
		if err := child.Destroy(); err != nil {
			return err
		}
	}
	if obj.solver != nil {
		obj.solver.OnDeinitialize(obj.sys, obj)
	}
	obj.sys.unindex(obj)
	obj.sys.enqueueForCleanup(obj)
	return nil
}

// SetParent reattaches obj to a new parent, re-expressing its current
// public state in the new parent's frame and updating cached depth for obj
// and its descendants.
func (obj *Object) SetParent(newParent *Object) error {
	if newParent == nil {
		return NewError(BadParameter, "SetParent requires a non-nil parent")
	}
	converted, err := obj.convertStateTo(newParent)
	if err != nil {
		return err
	}
	if obj.parent != nil {
		obj.parent.mu.Lock()
		for i, c := range obj.parent.children {
			if c == obj {
				obj.parent.children = append(obj.parent.children[:i], obj.parent.children[i+1:]...)
				break
			}
		}
		obj.parent.mu.Unlock()
	}
	obj.parent = newParent
	obj.depth = newParent.depth + 1
	newParent.mu.Lock()
	newParent.children = append(newParent.children, obj)
	newParent.mu.Unlock()
	obj.SetStateVector(converted)
	obj.fixupDescendantDepth()
	return nil
}

func (obj *Object) fixupDescendantDepth() {
	for _, c := range obj.Children() {
		c.depth = obj.depth + 1
		c.fixupDescendantDepth()
	}
}

// convertStateTo re-expresses obj's public state in newParent's frame,
// used by SetParent to preserve physical continuity across a reparent.
func (obj *Object) convertStateTo(newParent *Object) (*StateVector, error) {
	st := obj.PublicState()
	pos, err := st.Position.Convert(newParent)
	if err != nil {
		return nil, err
	}
	vel, err := st.Velocity.Convert(newParent)
	if err != nil {
		return nil, err
	}
	acc, err := st.Acceleration.Convert(newParent)
	if err != nil {
		return nil, err
	}
	orient, err := st.Orientation.Convert(newParent)
	if err != nil {
		return nil, err
	}
	angVel, err := st.AngularVelocity.Convert(newParent)
	if err != nil {
		return nil, err
	}
	angAcc, err := st.AngularAcceleration.Convert(newParent)
	if err != nil {
		return nil, err
	}
	return &StateVector{
		Time:                st.Time,
		Position:            pos,
		Velocity:            vel,
		Acceleration:        acc,
		Orientation:         orient,
		AngularVelocity:     angVel,
		AngularAcceleration: angAcc,
	}, nil
}

// MoveInList moves obj to the front (head true) or the back (head false) of
// its parent's child list, which sets its place in iteration and solve order.
func (obj *Object) MoveInList(head bool) {
	if obj.parent == nil {
		return
	}
	p := obj.parent
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, c := range p.children {
		if c == obj {
			p.children = append(p.children[:i], p.children[i+1:]...)
			break
		}
	}
	if head {
		p.children = append([]*Object{obj}, p.children...)
	} else {
		p.children = append(p.children, obj)
	}
}

// GetParentCoordinateSystem returns obj's parent frame (alias kept for
// readers translating from the frame-tree terminology).
func (obj *Object) GetParentCoordinateSystem() *Object { return obj.parent }

// GetParentInertialCoordinateSystem walks up from obj to the nearest
// ancestor whose type is "inertial_space" (the automatic root, or any
// object explicitly given that type).
func (obj *Object) GetParentInertialCoordinateSystem() *Object {
	cur := obj
	for cur != nil {
		if cur.typ == "inertial_space" {
			return cur
		}
		cur = cur.parent
	}
	return nil
}

// Query resolves a '/'-separated path rooted at obj's variable tree, e.g.
// "tank/mass" for a "mass" variable nested under "tank".
func (obj *Object) Query(path string) (*Variable, error) {
	return obj.vars.Query(path)
}

// Solve runs the claimed solver's OnSolve for obj, recursing into children
// by way of DefaultSolver.OnSolve when a concrete solver embeds it.
func (obj *Object) Solve(dt float64) error {
	if obj.IsDestroyed() {
		return NewError(InvalidObject, fmt.Sprintf("object %q destroyed", obj.name))
	}
	if obj.solver == nil {
		return nil
	}
	return obj.solver.OnSolve(obj.sys, obj, dt)
}

// Integrate runs the claimed solver's OnIntegrate for a hypothetical state,
// without committing anything; propagators call this directly.
func (obj *Object) Integrate(dt float64, state *StateVector) (*Derivative, error) {
	if obj.solver == nil {
		d := NewDerivative(obj)
		return d, nil
	}
	return obj.solver.OnIntegrate(obj.sys, obj, dt, state)
}

// CreateBy is sugar for System.NewObject using obj as the parent.
func (obj *Object) CreateBy(token Token, typ, name string) *Object {
	return obj.sys.NewObject(obj, token, typ, name)
}

// CopySingle duplicates obj (type, name, variable tree, current state) as a
// new sibling, without copying children.
func (obj *Object) CopySingle(token Token) *Object {
	dup := obj.sys.NewObject(obj.parent, token, obj.typ, obj.name+"_copy")
	dup.SetStateVector(obj.PublicState().Clone())
	dup.vars = obj.vars.Clone()
	return dup
}

// Copy duplicates obj and its full subtree.
func (obj *Object) Copy(token Token) *Object {
	dup := obj.CopySingle(token)
	for _, child := range obj.Children() {
		childDup := child.Copy(token)
		childDup.SetParent(dup)
	}
	return dup
}
