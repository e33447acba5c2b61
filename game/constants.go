package game

import "github.com/go-gl/mathgl/mgl32"

const (
	// GroundCasterScale is applied to a body's collider when building its ground caster, so the
	// caster never starts inside the surface the body is resting on.
	GroundCasterScale = float32(0.99)
	// GroundCastDistance is the cast distance as a fraction of the body's vertical scale.
	GroundCastDistance = float32(0.2)

	DefaultMovementAcceleration  = float32(30)
	DefaultMovementDampingFactor = float32(0.9)
	DefaultJumpImpulse           = float32(7)
	DefaultMass                  = float32(1)
)

var (
	// WorldUp is the direction slopes are measured against.
	WorldUp = mgl32.Vec3{0, 1, 0}
	// DefaultGravity is used when no gravity is configured.
	DefaultGravity = mgl32.Vec3{0, -9.81, 0}
)
