package intent

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/kinematic/body"
	"github.com/oomph-ac/kinematic/game"
	"github.com/oomph-ac/kinematic/physics"
	"github.com/sirupsen/logrus"
)

// Result summarises a batch of processed intents.
type Result struct {
	// Applied counts intents that changed the state of their body.
	Applied int
	// Ignored counts intents that were valid but had no effect, such as walking while airborne.
	Ignored int
	// Dropped counts intents addressed to unknown bodies or to bodies without a controller.
	Dropped int
	// Walked holds the bodies that received at least one applied walk intent, in the order they
	// first walked. The speed clamp runs once for each of them after damping.
	Walked []*body.Body
}

// Processor applies intents to the bodies they target.
type Processor struct {
	log *logrus.Logger
}

// NewProcessor creates a Processor that reports dropped intents to log.
func NewProcessor(log *logrus.Logger) *Processor {
	return &Processor{log: log}
}

// Apply applies intents in order with a step of dt seconds.
func (p *Processor) Apply(dt float32, intents []Intent, bodies *body.Set) Result {
	var (
		res    Result
		walked = make(map[physics.BodyID]struct{})
	)
	for _, i := range intents {
		b, ok := bodies.Get(i.Target)
		if !ok {
			p.log.Errorf(game.ErrorUnknownBody, i.Target)
			res.Dropped++
			continue
		}
		if b.Controller == nil {
			p.log.Errorf(game.ErrorMissingController, i.Action, i.Target)
			res.Dropped++
			continue
		}

		var applied bool
		switch i.Action {
		case ActionWalk:
			applied = walk(b, i.Direction, dt)
			if _, seen := walked[b.ID]; applied && !seen {
				walked[b.ID] = struct{}{}
				res.Walked = append(res.Walked, b)
			}
		case ActionJump:
			applied = jump(b)
		case ActionStop:
			applied = stop(b)
		default:
			p.log.Errorf(game.ErrorUnknownIntent, i.Action, i.Target)
			res.Dropped++
			continue
		}

		if applied {
			res.Applied++
		} else {
			res.Ignored++
		}
	}
	return res
}

// walk accelerates a grounded body along direction. Airborne bodies cannot walk.
func walk(b *body.Body, direction mgl32.Vec2, dt float32) bool {
	if !b.Grounded() {
		return false
	}

	c := b.Controller
	delta := mgl32.Vec3{
		direction.X() * c.MovementAcceleration * dt,
		0,
		direction.Y() * c.MovementAcceleration * dt,
	}
	if delta[0] == 0 && delta[2] == 0 {
		return false
	}

	switch c.Mode {
	case body.ControllerModeForce:
		b.ExternalForce = b.ExternalForce.Add(delta)
	default:
		b.LinearVelocity = b.LinearVelocity.Add(delta)
	}
	return true
}

// jump launches a grounded body unless it is already moving upwards at the jump impulse.
func jump(b *body.Body) bool {
	c := b.Controller
	if !b.Grounded() || b.LinearVelocity.Y() == c.JumpImpulse {
		return false
	}

	switch c.Mode {
	case body.ControllerModeForce:
		b.ExternalImpulse[1] = c.JumpImpulse
	default:
		b.LinearVelocity[1] = c.JumpImpulse
	}
	return true
}

// stop zeroes the horizontal velocity. Vertical motion, such as falling, continues.
func stop(b *body.Body) bool {
	if b.LinearVelocity.X() == 0 && b.LinearVelocity.Z() == 0 {
		return false
	}
	b.LinearVelocity[0], b.LinearVelocity[2] = 0, 0
	return true
}
