package intent

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/kinematic/physics"
)

// Action is the kind of movement an intent requests.
type Action uint8

const (
	// ActionWalk accelerates the body horizontally along the intent's direction.
	ActionWalk Action = iota
	// ActionJump launches a grounded body upwards.
	ActionJump
	// ActionStop zeroes the horizontal velocity of the body.
	ActionStop
)

func (a Action) String() string {
	switch a {
	case ActionWalk:
		return "walk"
	case ActionJump:
		return "jump"
	case ActionStop:
		return "stop"
	default:
		return fmt.Sprintf("Action(%d)", uint8(a))
	}
}

// Intent is a single movement request addressed to a body. Intents are consumed exactly once.
type Intent struct {
	Target physics.BodyID
	Action Action
	// Direction is the walk direction on the XZ plane: X maps to world X and Y maps to world Z.
	Direction mgl32.Vec2
}

func Walk(target physics.BodyID, direction mgl32.Vec2) Intent {
	return Intent{Target: target, Action: ActionWalk, Direction: direction}
}

func Jump(target physics.BodyID) Intent {
	return Intent{Target: target, Action: ActionJump}
}

func Stop(target physics.BodyID) Intent {
	return Intent{Target: target, Action: ActionStop}
}

func (i Intent) String() string {
	if i.Action == ActionWalk {
		return fmt.Sprintf("walk(%.3f, %.3f)->%d", i.Direction.X(), i.Direction.Y(), i.Target)
	}
	return fmt.Sprintf("%s->%d", i.Action, i.Target)
}
