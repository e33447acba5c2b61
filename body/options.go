package body

import "github.com/go-gl/mathgl/mgl32"

func WithPosition(pos mgl32.Vec3) Option {
	return func(b *Body) { b.Position = pos }
}

func WithRotation(rot mgl32.Quat) Option {
	return func(b *Body) { b.Rotation = rot }
}

func WithScale(scale mgl32.Vec3) Option {
	return func(b *Body) { b.Scale = scale }
}

func WithVelocity(vel mgl32.Vec3) Option {
	return func(b *Body) { b.LinearVelocity = vel }
}

func WithMass(mass float32) Option {
	return func(b *Body) { b.Mass = mass }
}

func WithGroundable(groundable bool) Option {
	return func(b *Body) { b.Groundable = groundable }
}

func WithRotationLocked(locked bool) Option {
	return func(b *Body) { b.RotationLocked = locked }
}

func WithSensor(sensor bool) Option {
	return func(b *Body) { b.Sensor = sensor }
}

// The options below only apply to bodies created with NewController.

func WithMode(mode ControllerMode) Option {
	return controllerOption(func(c *Controller) { c.Mode = mode })
}

func WithAcceleration(acc float32) Option {
	return controllerOption(func(c *Controller) { c.MovementAcceleration = acc })
}

func WithDamping(factor float32) Option {
	return controllerOption(func(c *Controller) { c.MovementDampingFactor = factor })
}

func WithJumpImpulse(impulse float32) Option {
	return controllerOption(func(c *Controller) { c.JumpImpulse = impulse })
}

// WithMaxSlopeAngle sets the steepest climbable slope in radians.
func WithMaxSlopeAngle(rad float32) Option {
	return controllerOption(func(c *Controller) { c.MaxSlopeAngle = &rad })
}

func WithMaxMovementSpeed(speed float32) Option {
	return controllerOption(func(c *Controller) { c.MaxMovementSpeed = &speed })
}

func controllerOption(f func(c *Controller)) Option {
	return func(b *Body) {
		if b.Controller != nil {
			f(b.Controller)
		}
	}
}
