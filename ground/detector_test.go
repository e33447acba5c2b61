package ground

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/kinematic/body"
	"github.com/oomph-ac/kinematic/game"
	"github.com/oomph-ac/kinematic/physics"
)

type mockEngine struct {
	hits       []physics.ShapeHit
	lastCaster physics.ShapeCaster
	lastOrigin mgl32.Vec3
	casts      int
}

func (*mockEngine) Step(float32) []physics.Manifold { return nil }

func (m *mockEngine) CastShape(c physics.ShapeCaster, origin mgl32.Vec3, _ mgl32.Quat, _ physics.BodyID) []physics.ShapeHit {
	m.casts++
	m.lastCaster = c
	m.lastOrigin = origin
	return m.hits
}

func (*mockEngine) Kind(physics.BodyID) (physics.RigidBody, bool) {
	return physics.RigidBodyStatic, true
}

var floorHit = physics.ShapeHit{Body: 99, Distance: 0.01, Normal: mgl32.Vec3{0, -1, 0}}

func newBodies(opts ...body.Option) (*body.Set, *body.Body) {
	b := body.NewController(1, physics.BoxCollider(mgl32.Vec3{0.5, 1, 0.5}), game.DefaultGravity, opts...)
	set := body.NewSet()
	set.Add(b)
	return set, b
}

func TestNewCaster(t *testing.T) {
	c := NewCaster(physics.BoxCollider(mgl32.Vec3{0.5, 1, 0.5}), mgl32.Vec3{2, 2, 2})
	bb := c.Shape.BBox()
	if !game.Vec3ApproxEq(bb.Max(), mgl32.Vec3{0.99, 1.98, 0.99}) {
		t.Fatalf("expected caster shape to be 99%% of the scaled collider, got %v", bb.Max())
	}
	if c.Direction != (mgl32.Vec3{0, -1, 0}) {
		t.Fatalf("expected caster to point down, got %v", c.Direction)
	}
	if !game.Float32ApproxEq(c.MaxDistance, 0.4) {
		t.Fatalf("expected max distance 0.4, got %v", c.MaxDistance)
	}
}

func TestCasterRebuildsOnlyOnChange(t *testing.T) {
	_, b := newBodies()
	d := NewDetector()

	if _, rebuilt := d.Caster(b); !rebuilt {
		t.Fatalf("expected first call to build the caster")
	}
	if _, rebuilt := d.Caster(b); rebuilt {
		t.Fatalf("expected unchanged body to reuse its caster")
	}

	b.Scale = mgl32.Vec3{1, 2, 1}
	c, rebuilt := d.Caster(b)
	if !rebuilt || !game.Float32ApproxEq(c.MaxDistance, 0.4) {
		t.Fatalf("expected scale change to rebuild the caster, got %v (rebuilt=%v)", c.MaxDistance, rebuilt)
	}

	b.Collider = physics.BoxCollider(mgl32.Vec3{0.3, 1, 0.3})
	if _, rebuilt := d.Caster(b); !rebuilt {
		t.Fatalf("expected collider change to rebuild the caster")
	}
	if d.Rebuilds() != 3 {
		t.Fatalf("expected 3 rebuilds, got %d", d.Rebuilds())
	}

	d.Forget(b.ID)
	if _, rebuilt := d.Caster(b); !rebuilt {
		t.Fatalf("expected forgotten body to rebuild its caster")
	}
}

func TestUpdate(t *testing.T) {
	set, b := newBodies(body.WithPosition(mgl32.Vec3{0, 5, 0}))
	engine := &mockEngine{hits: []physics.ShapeHit{floorHit}}
	d := NewDetector()

	changes := d.Update(engine, set)
	if len(changes) != 1 || !changes[0].Grounded || !b.Grounded() {
		t.Fatalf("expected body to become grounded, got %v", changes)
	}
	if engine.lastOrigin != b.Position {
		t.Fatalf("expected cast from the body position, got %v", engine.lastOrigin)
	}

	if changes := d.Update(engine, set); len(changes) != 0 {
		t.Fatalf("expected no change while staying grounded, got %v", changes)
	}

	engine.hits = nil
	changes = d.Update(engine, set)
	if len(changes) != 1 || changes[0].Grounded || b.Grounded() {
		t.Fatalf("expected body to leave the ground without hits, got %v", changes)
	}
}

func TestUpdateSkipsUngroundable(t *testing.T) {
	set, _ := newBodies(body.WithGroundable(false))
	engine := &mockEngine{hits: []physics.ShapeHit{floorHit}}

	if changes := NewDetector().Update(engine, set); len(changes) != 0 || engine.casts != 0 {
		t.Fatalf("expected ungroundable body to be skipped")
	}
}

func TestIsGroundHit(t *testing.T) {
	limit := mgl32.DegToRad(45)
	slope := mgl32.Vec3{-0.5, -0.8660254, 0}
	wall := physics.ShapeHit{Normal: mgl32.Vec3{-1, 0, 0}}

	tests := []struct {
		name     string
		rotation mgl32.Quat
		maxSlope *float32
		hit      physics.ShapeHit
		want     bool
	}{
		{"floor", mgl32.QuatIdent(), &limit, floorHit, true},
		{"30 degree slope", mgl32.QuatIdent(), &limit, physics.ShapeHit{Normal: slope}, true},
		{"wall", mgl32.QuatIdent(), &limit, wall, false},
		{"wall without limit", mgl32.QuatIdent(), nil, wall, true},
		{"rotated body on wall", mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 0, 1}), &limit, wall, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsGroundHit(tt.rotation, tt.maxSlope, tt.hit); got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}
