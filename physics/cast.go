package physics

import "github.com/go-gl/mathgl/mgl32"

// ShapeCaster sweeps Shape along Direction. Direction is expressed in the caster's local space and
// is rotated by the rotation the cast is performed with.
type ShapeCaster struct {
	Shape       Collider
	Direction   mgl32.Vec3
	MaxDistance float32
}

// ShapeHit is a single result of a shape cast.
type ShapeHit struct {
	Body     BodyID
	Distance float32
	// Normal is the outward normal of the cast shape at the point of impact, in the caster's local
	// space. A body resting on flat ground with no rotation reports (0, -1, 0).
	Normal mgl32.Vec3
}
