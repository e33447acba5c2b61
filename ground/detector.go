package ground

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/kinematic/body"
	"github.com/oomph-ac/kinematic/game"
	"github.com/oomph-ac/kinematic/physics"
)

// Change is reported when the grounded state of a body flips.
type Change struct {
	Body     *body.Body
	Grounded bool
}

type casterState struct {
	caster      physics.ShapeCaster
	fingerprint uint64
	scale       mgl32.Vec3
}

// Detector keeps a downward shape caster per groundable body and derives the grounded state of
// each body from the caster's hits.
type Detector struct {
	casters map[physics.BodyID]*casterState
	// rebuilds counts caster constructions, including the first one of each body.
	rebuilds int
}

// NewDetector ...
func NewDetector() *Detector {
	return &Detector{casters: make(map[physics.BodyID]*casterState)}
}

// Caster returns the ground caster of b, rebuilding it only when the collider or the scale of the
// body changed since the last call. The boolean is true if the caster was rebuilt.
func (d *Detector) Caster(b *body.Body) (physics.ShapeCaster, bool) {
	fp := b.Collider.Fingerprint()
	if st, ok := d.casters[b.ID]; ok && st.fingerprint == fp && st.scale == b.Scale {
		return st.caster, false
	}

	st := &casterState{
		caster:      NewCaster(b.Collider, b.Scale),
		fingerprint: fp,
		scale:       b.Scale,
	}
	d.casters[b.ID] = st
	d.rebuilds++
	return st.caster, true
}

// Update casts every groundable body in bodies against the engine, stores the derived grounded
// state on the body and returns the bodies whose state changed.
func (d *Detector) Update(engine physics.Engine, bodies *body.Set) []Change {
	var changes []Change
	for b := range bodies.All() {
		if !b.Groundable {
			continue
		}
		caster, _ := d.Caster(b)
		hits := engine.CastShape(caster, b.Position, b.Rotation, b.ID)

		var maxSlope *float32
		if b.Controller != nil {
			maxSlope = b.Controller.MaxSlopeAngle
		}
		grounded := false
		for _, hit := range hits {
			if IsGroundHit(b.Rotation, maxSlope, hit) {
				grounded = true
				break
			}
		}
		if b.SetGrounded(grounded) {
			changes = append(changes, Change{Body: b, Grounded: grounded})
		}
	}
	return changes
}

// Forget drops the caster of a body that no longer exists.
func (d *Detector) Forget(id physics.BodyID) {
	delete(d.casters, id)
}

// Rebuilds returns how many casters were constructed so far.
func (d *Detector) Rebuilds() int {
	return d.rebuilds
}

// NewCaster builds the ground caster for a collider with the given scale: a slightly shrunk copy of
// the collider swept along local -Y for a fraction of the vertical scale.
func NewCaster(collider physics.Collider, scale mgl32.Vec3) physics.ShapeCaster {
	return physics.ShapeCaster{
		Shape:       collider.Scaled(scale.Mul(game.GroundCasterScale)),
		Direction:   mgl32.Vec3{0, -1, 0},
		MaxDistance: scale.Y() * game.GroundCastDistance,
	}
}

// IsGroundHit reports whether a cast hit counts as ground for a body with the given rotation. With
// no max slope angle every hit is ground.
func IsGroundHit(rotation mgl32.Quat, maxSlope *float32, hit physics.ShapeHit) bool {
	if maxSlope == nil {
		return true
	}
	surface := rotation.Rotate(hit.Normal.Mul(-1))
	angle := game.AngleBetween(surface, game.WorldUp)
	if angle < 0 {
		angle = -angle
	}
	return angle <= *maxSlope
}
