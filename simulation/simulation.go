package simulation

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/kinematic/assert"
	"github.com/oomph-ac/kinematic/body"
	"github.com/oomph-ac/kinematic/game"
	"github.com/oomph-ac/kinematic/ground"
	"github.com/oomph-ac/kinematic/intent"
	"github.com/oomph-ac/kinematic/movement"
	"github.com/oomph-ac/kinematic/oerror"
	"github.com/oomph-ac/kinematic/physics"
	"github.com/oomph-ac/kinematic/resolver"
	"github.com/oomph-ac/kinematic/utils"
	"github.com/sirupsen/logrus"
)

const defaultTimingWindow = 128

// Options configures a Simulation.
type Options struct {
	// Timestep is the fixed length of a tick in seconds. It must be positive.
	Timestep float32
	// ParallelResolve resolves the contacts of different controllers on the worker pool.
	ParallelResolve bool
	// Debug lists the debug modes enabled from the start.
	Debug []DebugMode
	// TimingWindow is the number of recent ticks kept for timing statistics.
	TimingWindow int
}

// GroundedFunc is called after a tick for every body whose grounded state changed during it.
type GroundedFunc func(id physics.BodyID, grounded bool)

// Simulation runs the controller pipeline on top of a physics engine, one fixed tick at a time:
// gravity, intents, damping, engine step, ground detection and collision resolution.
type Simulation struct {
	log  *logrus.Logger
	opts Options
	Dbg  *Debugger

	// mu guards everything below as well as the bodies in the set.
	mu        sync.Mutex
	engine    physics.Engine
	bodies    *body.Set
	processor *intent.Processor
	ground    *ground.Detector
	resolver  *resolver.Resolver
	timings   *utils.CircularQueue[float64]
	tick      uint64

	observerMu sync.RWMutex
	observers  []GroundedFunc

	intents *intent.Queue
	paused  atomic.Bool
}

// New creates a Simulation over the bodies in the set. The engine must simulate the same bodies.
func New(log *logrus.Logger, engine physics.Engine, bodies *body.Set, opts Options) *Simulation {
	assert.IsTrue(opts.Timestep > 0, game.ErrorInvalidTimestep, opts.Timestep)
	if opts.TimingWindow <= 0 {
		opts.TimingWindow = defaultTimingWindow
	}

	return &Simulation{
		log:       log,
		opts:      opts,
		Dbg:       NewDebugger(log, opts.Debug...),
		engine:    engine,
		bodies:    bodies,
		processor: intent.NewProcessor(log),
		ground:    ground.NewDetector(),
		resolver:  &resolver.Resolver{Kinds: engine.Kind, Parallel: opts.ParallelResolve},
		timings:   utils.NewCircularQueue[float64](opts.TimingWindow),
		intents:   intent.NewQueue(),
	}
}

// Submit queues an intent for the next tick. It is safe to call from any goroutine.
func (s *Simulation) Submit(i intent.Intent) {
	s.intents.Push(i)
}

// Walk queues a walk along direction on the XZ plane for the target body.
func (s *Simulation) Walk(target physics.BodyID, direction mgl32.Vec2) {
	s.Submit(intent.Walk(target, direction))
}

// Jump queues a jump for the target body.
func (s *Simulation) Jump(target physics.BodyID) {
	s.Submit(intent.Jump(target))
}

// Stop queues a stop for the target body.
func (s *Simulation) Stop(target physics.BodyID) {
	s.Submit(intent.Stop(target))
}

// OnGroundedChange registers f to be called whenever a body lands or leaves the ground.
func (s *Simulation) OnGroundedChange(f GroundedFunc) {
	s.observerMu.Lock()
	s.observers = append(s.observers, f)
	s.observerMu.Unlock()
}

// SetPaused pauses or resumes the whole pipeline. Intents queued while paused are discarded when
// the simulation resumes.
func (s *Simulation) SetPaused(paused bool) {
	if was := s.paused.Swap(paused); was && !paused {
		if dropped := s.intents.Drain(); len(dropped) > 0 {
			s.log.Debugf("discarded %d intents queued while paused", len(dropped))
		}
	}
}

// Paused ...
func (s *Simulation) Paused() bool {
	return s.paused.Load()
}

// Tick returns the number of ticks run so far.
func (s *Simulation) Tick() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tick
}

// Grounded returns the grounded state of the body. ok is false if the body is unknown or does not
// take part in ground detection.
func (s *Simulation) Grounded(id physics.BodyID) (grounded, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, found := s.bodies.Get(id)
	if !found || !b.Groundable {
		return false, false
	}
	return b.Grounded(), true
}

// Position returns the current position of the body.
func (s *Simulation) Position(id physics.BodyID) (mgl32.Vec3, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bodies.Get(id)
	if !ok {
		return mgl32.Vec3{}, false
	}
	return b.Position, true
}

// Spawn adds a body to the simulation. The body takes part from the next tick on.
func (s *Simulation) Spawn(b *body.Body) error {
	if b.Collider.Empty() {
		return oerror.New(game.ErrorNilCollider, b.ID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.bodies.Add(b) {
		return oerror.New(game.ErrorDuplicateBody, b.ID)
	}
	if b.Controller != nil && !b.Groundable {
		s.log.Warnf(game.ErrorControllerNotGroundable, b.ID)
	}
	return nil
}

// Despawn removes a body and the state kept for it.
func (s *Simulation) Despawn(id physics.BodyID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ground.Forget(id)
	return s.bodies.Remove(id)
}

// Step runs a single tick. It returns false without doing anything while the simulation is paused.
func (s *Simulation) Step() bool {
	if s.paused.Load() {
		return false
	}

	changes := s.step()

	if len(changes) == 0 {
		return true
	}
	s.observerMu.RLock()
	observers := slices.Clone(s.observers)
	s.observerMu.RUnlock()

	for _, change := range changes {
		for _, f := range observers {
			f(change.Body.ID, change.Grounded)
		}
	}
	return true
}

func (s *Simulation) step() []ground.Change {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	dt := s.opts.Timestep
	s.tick++
	s.Dbg.Notify(DebugModeTiming, true, "BEGIN tick %d", s.tick)

	for b := range s.bodies.Controllers() {
		movement.ApplyGravity(b, dt)
	}

	intents := s.intents.Drain()
	res := s.processor.Apply(dt, intents, s.bodies)
	s.Dbg.Notify(DebugModeIntents, len(intents) > 0, "tick %d: %d intents (applied=%d ignored=%d dropped=%d)",
		s.tick, len(intents), res.Applied, res.Ignored, res.Dropped)

	for b := range s.bodies.Controllers() {
		movement.ApplyDamping(b)
	}
	for _, b := range res.Walked {
		movement.ClampSpeed(b)
	}

	manifolds := s.engine.Step(dt)

	changes := s.ground.Update(s.engine, s.bodies)
	for _, change := range changes {
		s.Dbg.Notify(DebugModeGround, true, "tick %d: body %d grounded=%t at %v",
			s.tick, change.Body.ID, change.Grounded, change.Body.Position)
	}

	st := s.resolver.Resolve(dt, manifolds, s.bodies)
	if st.Manifolds > 0 && s.Dbg.Enabled(DebugModeCollisions) {
		s.Dbg.Notify(DebugModeCollisions, true, "tick %d: %s", s.tick, utils.OrderedMapToString(st.Map()))
	}

	s.timings.Append(float64(time.Since(start).Nanoseconds()) / 1e6)
	if s.timings.Full() && s.tick%uint64(s.opts.TimingWindow) == 0 {
		mean, stdDev, median := s.timingStats()
		s.Dbg.Notify(DebugModeTiming, true, "last %d ticks: mean=%.4fms median=%.4fms stddev=%.4fms",
			s.timings.Len(), mean, median, stdDev)
	}
	return changes
}

// TimingStats returns the mean, standard deviation and median tick duration in milliseconds over
// the recent timing window.
func (s *Simulation) TimingStats() (mean, stdDev, median float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timingStats()
}

func (s *Simulation) timingStats() (mean, stdDev, median float64) {
	samples := s.timings.Values()
	return game.Mean(samples), game.StandardDeviation(samples), game.Median(samples)
}

// Run steps the simulation once per timestep until ctx is cancelled.
func (s *Simulation) Run(ctx context.Context) error {
	t := time.NewTicker(time.Duration(float64(s.opts.Timestep) * float64(time.Second)))
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			s.Step()
		}
	}
}
