package evds

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	kitlog "github.com/go-kit/kit/log"
	"github.com/soniakeys/meeus/julian"
)

// PreInitHook is the system-wide callback invoked once per object, before
// the solver claim loop, during initialization.
type PreInitHook func(sys *System, obj *Object) error

// System is the container owning every Object, the solver registry, named
// databases, the type→object index, simulation time, and the deferred
// cleanup queue.
type System struct {
	logger kitlog.Logger

	mu        sync.RWMutex
	objects   map[uint32]*Object
	typeIndex map[string][]*Object
	nextUID   uint32

	root *Object // the inertial root frame, created automatically

	solverMu sync.Mutex
	solvers  []*registeredSolver

	preInitHook PreInitHook

	databaseMu sync.RWMutex
	databases  map[string]*Variable

	timeMu   sync.RWMutex
	timeMJD  float64
	realtime bool

	deletedMu sync.Mutex
	deleted   []*Object
	cleaning  bool
}

// NewSystem creates a System with its automatic inertial-root frame.
func NewSystem() *System {
	sys := &System{
		logger:    kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stdout)),
		objects:   make(map[uint32]*Object),
		typeIndex: make(map[string][]*Object),
		databases: make(map[string]*Variable),
	}
	sys.logger = kitlog.With(sys.logger, "subsys", "evds")
	root := newObject(sys, nil, NewToken())
	root.typ = "inertial_space"
	root.name = "inertial"
	root.initialized = true
	root.depth = 0
	sys.registerObject(root)
	sys.root = root
	return sys
}

// Root returns the automatic inertial-space frame that owns every object
// created with a nil parent.
func (sys *System) Root() *Object { return sys.root }

// Log exposes the system's structured logger so solvers and drivers can
// attach contextual fields the way spacecraft.go's logger does.
func (sys *System) Log() kitlog.Logger { return sys.logger }

// SetTime sets the simulation time as a Modified Julian Date and switches
// out of realtime mode.
func (sys *System) SetTime(mjd float64) {
	sys.timeMu.Lock()
	defer sys.timeMu.Unlock()
	sys.timeMJD = mjd
	sys.realtime = false
}

// SetRealtime switches the system to realtime mode: GetTime reads the
// wall-clock MJD on demand.
func (sys *System) SetRealtime() {
	sys.timeMu.Lock()
	defer sys.timeMu.Unlock()
	sys.realtime = true
}

// GetTime returns the current simulation time as an MJD.
func (sys *System) GetTime() float64 {
	sys.timeMu.RLock()
	defer sys.timeMu.RUnlock()
	if sys.realtime {
		return julian.TimeToJD(time.Now().UTC()) - 2400000.5
	}
	return sys.timeMJD
}

// SetPreInitHook installs the global pre-init callback.
func (sys *System) SetPreInitHook(hook PreInitHook) {
	sys.preInitHook = hook
}

// RegisterSolver appends solver to the registry and invokes its Startup
// hook.
func (sys *System) RegisterSolver(solver Solver) {
	sys.solverMu.Lock()
	rs := &registeredSolver{solver: solver}
	sys.solvers = append(sys.solvers, rs)
	sys.solverMu.Unlock()
	if s, ok := solver.(interface{ OnStartup(*System) }); ok {
		s.OnStartup(sys)
	}
	sys.logger.Log("level", "info", "subsys", "evds", "solver", fmt.Sprintf("%T", solver), "status", "registered")
}

// Shutdown calls OnShutdown on every registered solver, in registration order.
func (sys *System) Shutdown() {
	sys.solverMu.Lock()
	defer sys.solverMu.Unlock()
	for _, rs := range sys.solvers {
		if s, ok := rs.solver.(interface{ OnShutdown(*System) }); ok {
			s.OnShutdown(sys)
		}
	}
}

// AddDatabase attaches a named top-level nested variable as a database.
func (sys *System) AddDatabase(name string, root *Variable) {
	sys.databaseMu.Lock()
	defer sys.databaseMu.Unlock()
	sys.databases[name] = root
}

// Database returns a previously-added database by name.
func (sys *System) Database(name string) (*Variable, error) {
	sys.databaseMu.RLock()
	defer sys.databaseMu.RUnlock()
	v, ok := sys.databases[name]
	if !ok {
		return nil, NewError(NotFound, fmt.Sprintf("no such database %q", name))
	}
	return v, nil
}

func (sys *System) allocateUID() uint32 {
	return atomic.AddUint32(&sys.nextUID, 1)
}

func (sys *System) registerObject(obj *Object) {
	sys.mu.Lock()
	defer sys.mu.Unlock()
	sys.objects[obj.uid] = obj
}

func (sys *System) indexByType(obj *Object) {
	sys.mu.Lock()
	defer sys.mu.Unlock()
	sys.typeIndex[obj.typ] = append(sys.typeIndex[obj.typ], obj)
}

// ObjectsByType returns every initialized, non-destroyed object of the
// given type.
func (sys *System) ObjectsByType(typ string) []*Object {
	sys.mu.RLock()
	defer sys.mu.RUnlock()
	var out []*Object
	for _, obj := range sys.typeIndex[typ] {
		if !obj.IsDestroyed() {
			out = append(out, obj)
		}
	}
	return out
}

// ObjectByUID performs a global lookup by UID.
func (sys *System) ObjectByUID(uid uint32) (*Object, error) {
	sys.mu.RLock()
	defer sys.mu.RUnlock()
	obj, ok := sys.objects[uid]
	if !ok || obj.IsDestroyed() {
		return nil, NewError(NotFound, fmt.Sprintf("no object with uid %d", uid))
	}
	return obj, nil
}

// enqueueForCleanup queues a destroyed object for later reclamation.
func (sys *System) enqueueForCleanup(obj *Object) {
	sys.deletedMu.Lock()
	defer sys.deletedMu.Unlock()
	sys.deleted = append(sys.deleted, obj)
}

// unindex removes obj from the global maps and its type index.
func (sys *System) unindex(obj *Object) {
	sys.mu.Lock()
	defer sys.mu.Unlock()
	delete(sys.objects, obj.uid)
	list := sys.typeIndex[obj.typ]
	for i, o := range list {
		if o == obj {
			sys.typeIndex[obj.typ] = append(list[:i], list[i+1:]...)
			break
		}
	}
}

// CleanupObjects reclaims every destroyed object whose reference count has
// dropped to zero. It is safe to call from a dedicated
// background goroutine; it blocks concurrent Destroy calls while running.
func (sys *System) CleanupObjects() int {
	sys.deletedMu.Lock()
	sys.cleaning = true
	defer func() {
		sys.cleaning = false
		sys.deletedMu.Unlock()
	}()
	remaining := sys.deleted[:0]
	released := 0
	for _, obj := range sys.deleted {
		if atomic.LoadInt32(&obj.refcount) == 0 {
			released++
			continue // drop our last reference, let the GC reclaim it
		}
		remaining = append(remaining, obj)
	}
	sys.deleted = remaining
	return released
}
