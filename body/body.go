package body

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/kinematic/game"
	"github.com/oomph-ac/kinematic/physics"
)

// Body is a rigid body as seen by the controller layer. Position and rotation belong to the physics
// engine; the controller layer only writes them for kinematic corrections.
type Body struct {
	ID   physics.BodyID
	Kind physics.RigidBody

	Collider physics.Collider
	Scale    mgl32.Vec3

	Position mgl32.Vec3
	Rotation mgl32.Quat

	LinearVelocity  mgl32.Vec3
	AngularVelocity mgl32.Vec3

	// ExternalForce and ExternalImpulse are consumed by the engine on its next step.
	ExternalForce   mgl32.Vec3
	ExternalImpulse mgl32.Vec3
	Mass            float32

	RotationLocked bool
	// Groundable marks bodies that take part in ground detection.
	Groundable bool
	// Sensor bodies report contacts but never receive collision response.
	Sensor bool

	// Controller is nil for bodies that are not character controllers.
	Controller *Controller

	grounded bool
}

// Option configures a Body on creation.
type Option func(b *Body)

// New creates a body of the given kind with unit scale, identity rotation and default mass.
func New(id physics.BodyID, kind physics.RigidBody, collider physics.Collider, opts ...Option) *Body {
	b := &Body{
		ID:       id,
		Kind:     kind,
		Collider: collider,
		Scale:    mgl32.Vec3{1, 1, 1},
		Rotation: mgl32.QuatIdent(),
		Mass:     game.DefaultMass,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// NewController creates a kinematic character controller. The controller gravity is taken from the
// gravity passed, so later changes to the world gravity do not affect the body.
func NewController(id physics.BodyID, collider physics.Collider, gravity mgl32.Vec3, opts ...Option) *Body {
	b := New(id, physics.RigidBodyKinematic, collider)
	b.RotationLocked = true
	b.Groundable = true
	b.Controller = &Controller{
		Mode:                  ControllerModeVelocity,
		MovementAcceleration:  game.DefaultMovementAcceleration,
		MovementDampingFactor: game.DefaultMovementDampingFactor,
		JumpImpulse:           game.DefaultJumpImpulse,
		Gravity:               gravity,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Grounded returns whether the body was standing on ground during the last ground update.
func (b *Body) Grounded() bool {
	return b.grounded
}

// SetGrounded sets the grounded state and reports whether it changed.
func (b *Body) SetGrounded(grounded bool) bool {
	changed := b.grounded != grounded
	b.grounded = grounded
	return changed
}

// IsController returns true if the body carries a controller configuration.
func (b *Body) IsController() bool {
	return b.Controller != nil
}

// WorldCollider returns the collider scaled by the body's scale.
func (b *Body) WorldCollider() physics.Collider {
	return b.Collider.Scaled(b.Scale)
}
