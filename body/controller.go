package body

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// ControllerMode selects how horizontal movement and jumps are fed into a body.
type ControllerMode uint8

const (
	// ControllerModeVelocity writes movement straight into the linear velocity.
	ControllerModeVelocity ControllerMode = iota
	// ControllerModeForce accumulates movement into the external force and impulse channels.
	ControllerModeForce
)

func (m ControllerMode) String() string {
	switch m {
	case ControllerModeVelocity:
		return "velocity"
	case ControllerModeForce:
		return "force"
	default:
		return fmt.Sprintf("ControllerMode(%d)", uint8(m))
	}
}

// ParseControllerMode parses the lower case name of a controller mode. An empty string selects
// ControllerModeVelocity.
func ParseControllerMode(s string) (ControllerMode, error) {
	switch s {
	case "", "velocity":
		return ControllerModeVelocity, nil
	case "force":
		return ControllerModeForce, nil
	}
	return 0, fmt.Errorf("body: unknown controller mode %q", s)
}

// Controller holds the movement configuration of a character controller body.
type Controller struct {
	Mode ControllerMode

	MovementAcceleration float32
	// MovementDampingFactor scales horizontal velocity every step. Values <= 0 disable damping.
	MovementDampingFactor float32
	JumpImpulse           float32
	Gravity               mgl32.Vec3

	// MaxSlopeAngle is the steepest climbable slope in radians. When nil every ground cast hit
	// counts as ground, but no contact is climbable for collision response.
	MaxSlopeAngle *float32
	// MaxMovementSpeed caps the horizontal speed of the body when set.
	MaxMovementSpeed *float32
}

// SlopeClimbable reports whether a surface with the given slope angle can be walked on.
func (c *Controller) SlopeClimbable(angle float32) bool {
	if c.MaxSlopeAngle == nil {
		return false
	}
	if angle < 0 {
		angle = -angle
	}
	return angle <= *c.MaxSlopeAngle
}
