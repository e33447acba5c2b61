package movement

import (
	"github.com/oomph-ac/kinematic/body"
	"github.com/oomph-ac/kinematic/game"
)

// ApplyGravity adds the controller gravity for dt seconds to the body's linear velocity.
func ApplyGravity(b *body.Body, dt float32) {
	if b.Controller == nil {
		return
	}
	b.LinearVelocity = b.LinearVelocity.Add(b.Controller.Gravity.Mul(dt))
}

// ApplyDamping scales the horizontal velocity of the body by its damping factor. A factor <= 0
// leaves the velocity untouched.
func ApplyDamping(b *body.Body) {
	if b.Controller == nil {
		return
	}
	factor := b.Controller.MovementDampingFactor
	if factor <= 0 {
		return
	}
	b.LinearVelocity[0] *= factor
	b.LinearVelocity[2] *= factor
}

// ClampSpeed caps the horizontal velocity of the body to its max movement speed, if one is set.
// The vertical velocity is never changed.
func ClampSpeed(b *body.Body) {
	if b.Controller == nil || b.Controller.MaxMovementSpeed == nil {
		return
	}
	b.LinearVelocity = game.ClampHorizontal(b.LinearVelocity, *b.Controller.MaxMovementSpeed)
}
