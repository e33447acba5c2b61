package simulation

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/kinematic/body"
	"github.com/oomph-ac/kinematic/game"
	"github.com/oomph-ac/kinematic/intent"
	"github.com/oomph-ac/kinematic/oerror"
	"github.com/oomph-ac/kinematic/physics"
	"github.com/oomph-ac/kinematic/world"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

var (
	floorCollider  = physics.BoxCollider(mgl32.Vec3{10, 0.5, 10})
	playerCollider = physics.BoxCollider(mgl32.Vec3{0.5, 0.5, 0.5})
)

type fixture struct {
	sim    *Simulation
	hook   *test.Hook
	player *body.Body
}

// newFixture places a controller resting on a large floor whose top face is at y=0.
func newFixture(t *testing.T, dt float32, gravity mgl32.Vec3, opts Options, controllerOpts ...body.Option) *fixture {
	t.Helper()
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)

	controllerOpts = append([]body.Option{
		body.WithPosition(mgl32.Vec3{0, 0.5, 0}),
		body.WithMaxSlopeAngle(mgl32.DegToRad(45)),
	}, controllerOpts...)
	player := body.NewController(1, playerCollider, gravity, controllerOpts...)
	floor := body.New(2, physics.RigidBodyStatic, floorCollider, body.WithPosition(mgl32.Vec3{0, -0.5, 0}))

	set := body.NewSet()
	set.Add(player)
	set.Add(floor)
	engine := world.New(set, world.Options{Gravity: gravity, SpeculativeMargin: 0.05})

	opts.Timestep = dt
	return &fixture{sim: New(log, engine, set, opts), hook: hook, player: player}
}

func TestNewRejectsZeroTimestep(t *testing.T) {
	defer func() {
		r := recover()
		if _, ok := r.(*oerror.Error); !ok {
			t.Fatalf("expected *oerror.Error panic, got %v", r)
		}
	}()
	log, _ := test.NewNullLogger()
	New(log, world.New(body.NewSet(), world.Options{}), body.NewSet(), Options{})
}

func TestStepGroundsRestingController(t *testing.T) {
	f := newFixture(t, 0.05, mgl32.Vec3{0, -10, 0}, Options{})

	var events []bool
	f.sim.OnGroundedChange(func(id physics.BodyID, grounded bool) {
		if id != f.player.ID {
			t.Fatalf("unexpected body %d", id)
		}
		events = append(events, grounded)
	})

	for range 5 {
		if !f.sim.Step() {
			t.Fatalf("expected step to run")
		}
	}
	if grounded, ok := f.sim.Grounded(f.player.ID); !ok || !grounded {
		t.Fatalf("expected controller to be grounded, got grounded=%v ok=%v", grounded, ok)
	}
	if len(events) != 1 || !events[0] {
		t.Fatalf("expected a single landing event, got %v", events)
	}
	if !game.Float32ApproxEq(f.player.Position.Y(), 0.5) {
		t.Fatalf("expected controller to rest at y=0.5, got %v", f.player.Position.Y())
	}
	if f.player.LinearVelocity.Y() < 0 {
		t.Fatalf("expected no downward speed while resting, got %v", f.player.LinearVelocity)
	}
	if f.sim.Tick() != 5 {
		t.Fatalf("expected 5 ticks, got %d", f.sim.Tick())
	}
}

// stepWithin fails the test if a single step does not return in time.
func stepWithin(t *testing.T, s *Simulation, d time.Duration) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		s.Step()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(d):
		t.Fatalf("step did not return within %v", d)
	}
}

func TestObserversCanCallBack(t *testing.T) {
	t.Run("register observer", func(t *testing.T) {
		f := newFixture(t, 0.05, mgl32.Vec3{0, -10, 0}, Options{})

		var late int
		f.sim.OnGroundedChange(func(physics.BodyID, bool) {
			f.sim.OnGroundedChange(func(physics.BodyID, bool) { late++ })
		})
		stepWithin(t, f.sim, 2*time.Second)
		if late != 0 {
			t.Fatalf("expected an observer registered during a tick to wait for the next change, got %d calls", late)
		}

		f.sim.Jump(f.player.ID)
		stepWithin(t, f.sim, 2*time.Second)
		if late != 1 {
			t.Fatalf("expected the registered observer to see the take-off, got %d calls", late)
		}
	})
	t.Run("query and despawn", func(t *testing.T) {
		f := newFixture(t, 0.05, mgl32.Vec3{0, -10, 0}, Options{})

		var seen, despawned bool
		f.sim.OnGroundedChange(func(id physics.BodyID, grounded bool) {
			seen, _ = f.sim.Grounded(id)
			despawned = f.sim.Despawn(id)
		})
		stepWithin(t, f.sim, 2*time.Second)
		if !seen || !despawned {
			t.Fatalf("expected observer to read grounded=true and despawn, got %v %v", seen, despawned)
		}
		if _, ok := f.sim.Grounded(f.player.ID); ok {
			t.Fatalf("expected despawned body to be unknown")
		}
		stepWithin(t, f.sim, 2*time.Second)
	})
}

func TestCollisionDebugOnlyWhenEnabled(t *testing.T) {
	f := newFixture(t, 0.05, mgl32.Vec3{0, -10, 0}, Options{})
	collisionLines := func() (lines []string) {
		for _, e := range f.hook.AllEntries() {
			if e.Data["debug"] == DebugModeCollisions.String() {
				lines = append(lines, e.Message)
			}
		}
		return lines
	}

	f.sim.Step()
	if lines := collisionLines(); len(lines) != 0 {
		t.Fatalf("expected no collision output while disabled, got %v", lines)
	}

	f.sim.Dbg.Toggle(DebugModeCollisions)
	f.sim.Step()
	lines := collisionLines()
	if len(lines) != 1 || !strings.Contains(lines[0], "manifolds=1") {
		t.Fatalf("expected a single collision line, got %v", lines)
	}
}

func TestWalkIsClampedOncePerStep(t *testing.T) {
	f := newFixture(t, 1, mgl32.Vec3{}, Options{},
		body.WithAcceleration(10), body.WithMaxMovementSpeed(5), body.WithDamping(0))

	f.sim.Step()
	if grounded, _ := f.sim.Grounded(f.player.ID); !grounded {
		t.Fatalf("expected controller to be grounded after the first step")
	}

	f.sim.Walk(f.player.ID, mgl32.Vec2{1, 0})
	f.sim.Step()
	if !game.Vec3ApproxEq(f.player.LinearVelocity, mgl32.Vec3{5, 0, 0}) {
		t.Fatalf("expected velocity (5, 0, 0), got %v", f.player.LinearVelocity)
	}
	if pos, ok := f.sim.Position(f.player.ID); !ok || !game.Float32ApproxEq(pos.X(), 5) {
		t.Fatalf("expected controller to move 5 units, got %v", pos)
	}
}

func TestWalkWhileAirborneIsIgnored(t *testing.T) {
	f := newFixture(t, 0.05, mgl32.Vec3{}, Options{}, body.WithPosition(mgl32.Vec3{0, 5, 0}))

	f.sim.Walk(f.player.ID, mgl32.Vec2{1, 0})
	f.sim.Step()
	if f.player.LinearVelocity != (mgl32.Vec3{}) {
		t.Fatalf("expected airborne walk to be ignored, got %v", f.player.LinearVelocity)
	}
}

func TestJumpLeavesGround(t *testing.T) {
	f := newFixture(t, 0.05, mgl32.Vec3{0, -10, 0}, Options{})

	var events []bool
	f.sim.OnGroundedChange(func(_ physics.BodyID, grounded bool) {
		events = append(events, grounded)
	})

	f.sim.Step()
	f.sim.Jump(f.player.ID)
	f.sim.Step()

	if f.player.LinearVelocity.Y() != game.DefaultJumpImpulse {
		t.Fatalf("expected vertical speed %v, got %v", game.DefaultJumpImpulse, f.player.LinearVelocity.Y())
	}
	if grounded, _ := f.sim.Grounded(f.player.ID); grounded {
		t.Fatalf("expected controller to be airborne after jumping")
	}
	if len(events) != 2 || !events[0] || events[1] {
		t.Fatalf("expected landing then take-off events, got %v", events)
	}
}

func TestIntentsAreAppliedInOrder(t *testing.T) {
	tests := []struct {
		name     string
		intents  []intent.Intent
		expected mgl32.Vec3
	}{
		{"walk then stop", []intent.Intent{intent.Walk(1, mgl32.Vec2{1, 0}), intent.Stop(1)}, mgl32.Vec3{}},
		{"stop then walk", []intent.Intent{intent.Stop(1), intent.Walk(1, mgl32.Vec2{0, 1})}, mgl32.Vec3{0, 0, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, 0.1, mgl32.Vec3{}, Options{},
				body.WithAcceleration(20), body.WithDamping(0))
			f.sim.Step()
			f.player.LinearVelocity = mgl32.Vec3{3, 0, 0}

			for _, i := range tt.intents {
				f.sim.Submit(i)
			}
			f.sim.Step()
			if !game.Vec3ApproxEq(f.player.LinearVelocity, tt.expected) {
				t.Fatalf("expected %v, got %v", tt.expected, f.player.LinearVelocity)
			}
		})
	}
}

func TestIntentsDoNotCarryOver(t *testing.T) {
	f := newFixture(t, 0.1, mgl32.Vec3{}, Options{}, body.WithVelocity(mgl32.Vec3{1, 0, 0}), body.WithDamping(0))

	f.sim.Step()
	f.sim.Stop(f.player.ID)
	f.sim.Step()
	f.player.LinearVelocity = mgl32.Vec3{1, 0, 0}
	f.sim.Step()
	if f.player.LinearVelocity != (mgl32.Vec3{1, 0, 0}) {
		t.Fatalf("expected stop to apply only once, got %v", f.player.LinearVelocity)
	}
}

func TestUnknownTargetIsLoggedAndDropped(t *testing.T) {
	f := newFixture(t, 0.1, mgl32.Vec3{}, Options{})

	f.sim.Jump(99)
	f.sim.Walk(2, mgl32.Vec2{1, 0})
	f.sim.Step()

	var errs int
	for _, e := range f.hook.AllEntries() {
		if e.Level == logrus.ErrorLevel {
			errs++
		}
	}
	if errs != 2 {
		t.Fatalf("expected 2 logged errors, got %d", errs)
	}
}

func TestPauseSkipsTheWholeTick(t *testing.T) {
	f := newFixture(t, 0.05, mgl32.Vec3{0, -10, 0}, Options{}, body.WithPosition(mgl32.Vec3{0, 3, 0}))

	f.sim.SetPaused(true)
	if !f.sim.Paused() {
		t.Fatalf("expected simulation to be paused")
	}
	f.sim.Jump(f.player.ID)
	if f.sim.Step() {
		t.Fatalf("expected paused step to be skipped")
	}
	if f.sim.Tick() != 0 || f.player.Position != (mgl32.Vec3{0, 3, 0}) || f.player.LinearVelocity != (mgl32.Vec3{}) {
		t.Fatalf("expected paused simulation to leave the controller untouched")
	}

	f.sim.SetPaused(false)
	if !f.sim.Step() {
		t.Fatalf("expected step to run after resuming")
	}
	if !game.Float32ApproxEq(f.player.LinearVelocity.Y(), -0.5) {
		t.Fatalf("expected only gravity to apply after resuming, got %v", f.player.LinearVelocity)
	}
}

func TestSpawnAndDespawn(t *testing.T) {
	f := newFixture(t, 0.05, mgl32.Vec3{}, Options{})

	if err := f.sim.Spawn(body.New(2, physics.RigidBodyStatic, floorCollider)); err == nil {
		t.Fatalf("expected duplicate body to be rejected")
	}
	if err := f.sim.Spawn(body.New(3, physics.RigidBodyStatic, physics.Collider{})); err == nil {
		t.Fatalf("expected empty collider to be rejected")
	}

	other := body.NewController(4, playerCollider, mgl32.Vec3{}, body.WithPosition(mgl32.Vec3{3, 0.5, 0}))
	if err := f.sim.Spawn(other); err != nil {
		t.Fatalf("unexpected spawn error: %v", err)
	}
	f.sim.Step()
	if grounded, ok := f.sim.Grounded(other.ID); !ok || !grounded {
		t.Fatalf("expected spawned controller to be grounded")
	}

	if !f.sim.Despawn(other.ID) {
		t.Fatalf("expected despawn to succeed")
	}
	if _, ok := f.sim.Grounded(other.ID); ok {
		t.Fatalf("expected despawned body to be unknown")
	}
	if f.sim.Despawn(other.ID) {
		t.Fatalf("expected second despawn to fail")
	}
}

func TestSpawnWarnsForUngroundableController(t *testing.T) {
	f := newFixture(t, 0.05, mgl32.Vec3{}, Options{})

	b := body.NewController(5, playerCollider, mgl32.Vec3{}, body.WithGroundable(false), body.WithPosition(mgl32.Vec3{5, 5, 5}))
	if err := f.sim.Spawn(b); err != nil {
		t.Fatalf("unexpected spawn error: %v", err)
	}
	if e := f.hook.LastEntry(); e == nil || e.Level != logrus.WarnLevel {
		t.Fatalf("expected a warning, got %v", e)
	}
}

func TestParallelResolveMatchesSequential(t *testing.T) {
	run := func(parallel bool) []mgl32.Vec3 {
		f := newFixture(t, 0.05, mgl32.Vec3{0, -10, 0}, Options{ParallelResolve: parallel})
		others := make([]*body.Body, 0, 4)
		for i := range 4 {
			b := body.NewController(physics.BodyID(10+i), playerCollider, mgl32.Vec3{0, -10, 0},
				body.WithPosition(mgl32.Vec3{float32(2 * (i + 1)), 1, 0}), body.WithMaxSlopeAngle(mgl32.DegToRad(45)))
			if err := f.sim.Spawn(b); err != nil {
				t.Fatalf("unexpected spawn error: %v", err)
			}
			others = append(others, b)
		}

		for tick := range 20 {
			for i, b := range others {
				f.sim.Walk(b.ID, mgl32.Vec2{float32(i%2*2 - 1), 1})
			}
			if tick == 10 {
				f.sim.Jump(f.player.ID)
			}
			f.sim.Step()
		}

		positions := []mgl32.Vec3{f.player.Position}
		for _, b := range others {
			positions = append(positions, b.Position)
		}
		return positions
	}

	sequential, parallel := run(false), run(true)
	for i := range sequential {
		if sequential[i] != parallel[i] {
			t.Fatalf("body %d: sequential %v, parallel %v", i, sequential[i], parallel[i])
		}
	}
}

func TestTimingStats(t *testing.T) {
	f := newFixture(t, 0.05, mgl32.Vec3{}, Options{TimingWindow: 4})
	for range 6 {
		f.sim.Step()
	}
	mean, stdDev, median := f.sim.TimingStats()
	if mean < 0 || stdDev < 0 || median < 0 {
		t.Fatalf("unexpected timing stats %v %v %v", mean, stdDev, median)
	}
}

func TestRunStopsWithContext(t *testing.T) {
	f := newFixture(t, 0.001, mgl32.Vec3{}, Options{})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := f.sim.Run(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", err)
	}
	if f.sim.Tick() == 0 {
		t.Fatalf("expected at least one tick to run")
	}
}
