package physics

import "fmt"

// BodyID identifies a rigid body owned by the physics engine.
type BodyID uint64

// RigidBody is the simulation kind of a body.
type RigidBody uint8

const (
	// RigidBodyDynamic bodies are fully simulated by the engine.
	RigidBodyDynamic RigidBody = iota
	// RigidBodyKinematic bodies are moved by game logic. The engine does not resolve their penetrations.
	RigidBodyKinematic
	// RigidBodyStatic bodies never move.
	RigidBodyStatic
)

func (r RigidBody) String() string {
	switch r {
	case RigidBodyDynamic:
		return "dynamic"
	case RigidBodyKinematic:
		return "kinematic"
	case RigidBodyStatic:
		return "static"
	default:
		return fmt.Sprintf("RigidBody(%d)", uint8(r))
	}
}

// ParseRigidBody parses the lower case name of a body kind.
func ParseRigidBody(s string) (RigidBody, error) {
	switch s {
	case "dynamic":
		return RigidBodyDynamic, nil
	case "kinematic":
		return RigidBodyKinematic, nil
	case "static":
		return RigidBodyStatic, nil
	}
	return 0, fmt.Errorf("physics: unknown rigid body kind %q", s)
}
