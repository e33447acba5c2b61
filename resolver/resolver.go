package resolver

import (
	"github.com/chewxy/math32"
	"github.com/elliotchance/orderedmap/v2"
	"github.com/oomph-ac/kinematic/body"
	"github.com/oomph-ac/kinematic/game"
	"github.com/oomph-ac/kinematic/physics"
	"github.com/oomph-ac/kinematic/worker"
)

// Stats counts what a call to Resolve did.
type Stats struct {
	// Manifolds is the number of manifolds that involved a kinematic controller.
	Manifolds   int
	PushOuts    int
	Slides      int
	SlopeSnaps  int
	Speculative int
}

// Add returns the sum of two Stats.
func (s Stats) Add(o Stats) Stats {
	return Stats{
		Manifolds:   s.Manifolds + o.Manifolds,
		PushOuts:    s.PushOuts + o.PushOuts,
		Slides:      s.Slides + o.Slides,
		SlopeSnaps:  s.SlopeSnaps + o.SlopeSnaps,
		Speculative: s.Speculative + o.Speculative,
	}
}

// Map returns the stats as an ordered map for logging.
func (s Stats) Map() *orderedmap.OrderedMap[string, any] {
	m := orderedmap.NewOrderedMap[string, any]()
	m.Set("manifolds", s.Manifolds)
	m.Set("pushOuts", s.PushOuts)
	m.Set("slides", s.Slides)
	m.Set("slopeSnaps", s.SlopeSnaps)
	m.Set("speculative", s.Speculative)
	return m
}

// Resolver corrects kinematic controller bodies against the contacts reported by the physics engine.
// The engine resolves dynamic bodies on its own; kinematic bodies would otherwise pass through
// world geometry.
//
// Each manifold is handled in a single pass and manifolds touching the same body compose
// additively. This is not an iterative solve.
type Resolver struct {
	// Kinds looks up the kind of bodies that are not part of the body set, usually Engine.Kind.
	Kinds func(id physics.BodyID) (physics.RigidBody, bool)
	// Parallel resolves the manifolds of different controllers on the worker pool. Manifolds of the
	// same controller are always resolved in order by a single worker.
	Parallel bool
}

type contact struct {
	character *body.Body
	otherKind physics.RigidBody
	manifold  physics.Manifold
	// first is true when the character is BodyA of the manifold.
	first bool
}

// Resolve applies every manifold in the order given to the controllers of bodies, adjusting their
// position and linear velocity. dt must be positive.
func (r *Resolver) Resolve(dt float32, manifolds []physics.Manifold, bodies *body.Set) Stats {
	if !r.Parallel {
		var st Stats
		for _, m := range manifolds {
			if c, ok := r.contact(m, bodies); ok {
				resolveContact(dt, c, &st)
			}
		}
		return st
	}

	groups := orderedmap.NewOrderedMap[physics.BodyID, []contact]()
	for _, m := range manifolds {
		c, ok := r.contact(m, bodies)
		if !ok {
			continue
		}
		list, _ := groups.Get(c.character.ID)
		groups.Set(c.character.ID, append(list, c))
	}

	var (
		g       worker.Group
		results = make([]Stats, groups.Len())
		index   int
	)
	for el := groups.Front(); el != nil; el = el.Next() {
		contacts, st := el.Value, &results[index]
		g.Go(func() {
			for _, c := range contacts {
				resolveContact(dt, c, st)
			}
		})
		index++
	}
	g.Wait()

	var total Stats
	for _, st := range results {
		total = total.Add(st)
	}
	return total
}

// contact finds the kinematic controller taking part in m. Manifolds without one are expected and
// skipped silently.
func (r *Resolver) contact(m physics.Manifold, bodies *body.Set) (contact, bool) {
	if m.Sensor || len(m.Points) == 0 {
		return contact{}, false
	}

	first := true
	character, ok := bodies.Get(m.BodyA)
	otherID := m.BodyB
	if !ok || character.Controller == nil {
		first = false
		character, ok = bodies.Get(m.BodyB)
		otherID = m.BodyA
		if !ok || character.Controller == nil {
			return contact{}, false
		}
	}
	if character.Kind != physics.RigidBodyKinematic {
		return contact{}, false
	}

	return contact{character: character, otherKind: r.kind(otherID, bodies), manifold: m, first: first}, true
}

// kind returns the kind of the other body of a contact. Bodies unknown to both the set and Kinds
// are treated as static geometry.
func (r *Resolver) kind(id physics.BodyID, bodies *body.Set) physics.RigidBody {
	if b, ok := bodies.Get(id); ok {
		return b.Kind
	}
	if r.Kinds != nil {
		if k, ok := r.Kinds(id); ok {
			return k
		}
	}
	return physics.RigidBodyStatic
}

func resolveContact(dt float32, c contact, st *Stats) {
	st.Manifolds++

	b, ctrl := c.character, c.character.Controller
	normal := c.manifold.Normal
	if c.first {
		normal = normal.Mul(-1)
	}

	slope := game.AngleBetween(normal, game.WorldUp)
	climbable := ctrl.SlopeClimbable(slope)

	deepest := float32(-math32.MaxFloat32)
	for _, p := range c.manifold.Points {
		if p.Penetration > 0 {
			b.Position = b.Position.Add(normal.Mul(p.Penetration))
			st.PushOuts++
		}
		deepest = max(deepest, p.Penetration)
	}

	// Contacts with dynamic bodies are left to the engine.
	if c.otherKind == physics.RigidBodyDynamic {
		return
	}

	v := b.LinearVelocity
	if deepest > 0 {
		if climbable {
			// Keep the body on the slope instead of letting it bounce off or sink into it.
			dirXZ := game.NormalizeOrZero(game.RejectFrom(normal, game.WorldUp))
			alongSlope := v.Dot(dirXZ)
			v[1] = max(v[1], -alongSlope*math32.Tan(slope))
			st.SlopeSnaps++
		} else {
			if v.Dot(normal) > 0 {
				return
			}
			v = game.RejectFrom(v, normal)
			st.Slides++
		}
	} else {
		normalSpeed := v.Dot(normal)
		if normalSpeed > 0 {
			return
		}

		// deepest is the negated separation here. The impulse leaves just enough speed along the
		// normal to close the gap within one step.
		impulse := normal.Mul(normalSpeed - deepest/dt)
		if climbable {
			v[1] -= min(impulse[1], 0)
		} else {
			impulse[1] = max(impulse[1], 0)
			v = v.Sub(impulse)
		}
		st.Speculative++
	}
	b.LinearVelocity = v
}
