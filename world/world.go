package world

import (
	"cmp"
	"slices"

	"github.com/ethaniccc/float32-cube/cube"
	"github.com/ethaniccc/float32-cube/cube/trace"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/kinematic/body"
	"github.com/oomph-ac/kinematic/game"
	"github.com/oomph-ac/kinematic/physics"
	"github.com/oomph-ac/kinematic/utils"
)

// Options configures a World.
type Options struct {
	// Gravity is applied to dynamic bodies. Controllers carry their own gravity.
	Gravity mgl32.Vec3
	// SpeculativeMargin is the largest gap between two boxes that is still reported as a contact.
	SpeculativeMargin float32
}

// World is a small axis aligned physics engine over a body.Set. Collider boxes are never rotated;
// the rotation of a body only affects the direction of its shape casts.
//
// Dynamic bodies are integrated and pushed out of the geometry they touch. Kinematic bodies are
// only integrated: the contacts they are part of are reported and left to the caller.
type World struct {
	bodies *body.Set
	opts   Options
}

// New creates a World simulating the bodies in the set.
func New(bodies *body.Set, opts Options) *World {
	return &World{bodies: bodies, opts: opts}
}

// Bodies returns the set the world simulates.
func (w *World) Bodies() *body.Set {
	return w.bodies
}

// Kind ...
func (w *World) Kind(id physics.BodyID) (physics.RigidBody, bool) {
	b, ok := w.bodies.Get(id)
	if !ok {
		return 0, false
	}
	return b.Kind, true
}

// Step integrates every body by dt and returns the contacts of the new positions, ordered by body
// insertion order.
func (w *World) Step(dt float32) []physics.Manifold {
	for b := range w.bodies.All() {
		w.integrate(b, dt)
	}
	manifolds := w.contacts()
	w.solveDynamic(manifolds)
	return manifolds
}

func (w *World) integrate(b *body.Body, dt float32) {
	if b.Kind == physics.RigidBodyStatic {
		b.LinearVelocity, b.AngularVelocity = mgl32.Vec3{}, mgl32.Vec3{}
		return
	}

	invMass := float32(0)
	if b.Mass > 0 {
		invMass = 1 / b.Mass
	}
	// Kinematic bodies consume the force channels too, so that controllers in force mode move.
	v := b.LinearVelocity.Add(b.ExternalForce.Mul(invMass * dt)).Add(b.ExternalImpulse.Mul(invMass))
	if b.Kind == physics.RigidBodyDynamic {
		v = v.Add(w.opts.Gravity.Mul(dt))
	}
	b.LinearVelocity = v
	b.ExternalForce, b.ExternalImpulse = mgl32.Vec3{}, mgl32.Vec3{}
	b.Position = b.Position.Add(v.Mul(dt))

	if b.RotationLocked {
		b.AngularVelocity = mgl32.Vec3{}
		return
	}
	if b.AngularVelocity.LenSqr() > 0 {
		spin := mgl32.Quat{V: b.AngularVelocity.Mul(0.5 * dt)}.Mul(b.Rotation)
		b.Rotation = b.Rotation.Add(spin).Normalize()
	}
}

// contacts returns a manifold for every pair of touching boxes between two bodies that are not both
// static.
func (w *World) contacts() []physics.Manifold {
	var (
		manifolds []physics.Manifold
		list      = make([]*body.Body, 0, w.bodies.Len())
	)
	for b := range w.bodies.All() {
		if !b.Collider.Empty() {
			list = append(list, b)
		}
	}

	boxesA, boxesB := utils.GetBBoxList(), utils.GetBBoxList()
	defer utils.PutBBoxList(boxesA)
	defer utils.PutBBoxList(boxesB)

	for i, a := range list {
		*boxesA = worldBoxes((*boxesA)[:0], a.WorldCollider().Boxes, a.Position)
		for _, b := range list[i+1:] {
			if a.Kind == physics.RigidBodyStatic && b.Kind == physics.RigidBodyStatic {
				continue
			}
			*boxesB = worldBoxes((*boxesB)[:0], b.WorldCollider().Boxes, b.Position)
			for _, ba := range *boxesA {
				for _, bb := range *boxesB {
					normal, penetration, ok := boxContact(ba, bb, w.opts.SpeculativeMargin)
					if !ok {
						continue
					}
					manifolds = append(manifolds, physics.Manifold{
						BodyA:  a.ID,
						BodyB:  b.ID,
						Normal: normal,
						Points: []physics.ContactPoint{{Penetration: penetration}},
						Sensor: a.Sensor || b.Sensor,
					})
				}
			}
		}
	}
	return manifolds
}

// solveDynamic pushes dynamic bodies out of penetrating contacts and removes the velocity driving
// them further in. Two dynamic bodies share the push equally.
func (w *World) solveDynamic(manifolds []physics.Manifold) {
	for _, m := range manifolds {
		penetration, _ := m.DeepestPenetration()
		if m.Sensor || penetration <= 0 {
			continue
		}
		a, okA := w.bodies.Get(m.BodyA)
		b, okB := w.bodies.Get(m.BodyB)
		if !okA || !okB {
			continue
		}
		dynA, dynB := a.Kind == physics.RigidBodyDynamic, b.Kind == physics.RigidBodyDynamic

		share := penetration
		if dynA && dynB {
			share *= 0.5
		}
		if dynA {
			separate(a, m.Normal.Mul(-1), share)
		}
		if dynB {
			separate(b, m.Normal, share)
		}
	}
}

// separate moves b by depth along n, which points away from the surface b touches.
func separate(b *body.Body, n mgl32.Vec3, depth float32) {
	b.Position = b.Position.Add(n.Mul(depth))
	if into := b.LinearVelocity.Dot(n); into < 0 {
		b.LinearVelocity = b.LinearVelocity.Sub(n.Mul(into))
	}
}

// CastShape sweeps every box of the caster from origin along the rotated cast direction. Each body
// is reported at most once, at its closest hit. Sensor bodies are never hit.
func (w *World) CastShape(caster physics.ShapeCaster, origin mgl32.Vec3, rotation mgl32.Quat, exclude physics.BodyID) []physics.ShapeHit {
	dir := game.NormalizeOrZero(rotation.Rotate(caster.Direction))
	if dir.LenSqr() == 0 || caster.Shape.Empty() {
		return nil
	}
	sweep := dir.Mul(caster.MaxDistance)
	inverse := rotation.Inverse()

	targets := utils.GetBBoxList()
	defer utils.PutBBoxList(targets)

	var hits []physics.ShapeHit
	for b := range w.bodies.All() {
		if b.ID == exclude || b.Sensor || b.Collider.Empty() {
			continue
		}
		*targets = worldBoxes((*targets)[:0], b.WorldCollider().Boxes, b.Position)

		hit, ok := physics.ShapeHit{Body: b.ID}, false
		for _, shape := range caster.Shape.Boxes {
			start := origin.Add(boxCenter(shape))
			half := boxHalfExtents(shape)
			for _, target := range *targets {
				distance, normal, found := sweepBox(target, half, start, sweep)
				if !found || (ok && distance >= hit.Distance) {
					continue
				}
				// The caster touches the target with the face opposite to the target's face.
				hit.Distance, hit.Normal, ok = distance, inverse.Rotate(normal.Mul(-1)), true
			}
		}
		if ok {
			hits = append(hits, hit)
		}
	}

	slices.SortStableFunc(hits, func(a, b physics.ShapeHit) int {
		return cmp.Compare(a.Distance, b.Distance)
	})
	return hits
}

// sweepBox sweeps a box with the given half extents from start by sweep against target. It returns
// the travelled distance and the outward normal of the target face that was hit.
func sweepBox(target cube.BBox, half, start, sweep mgl32.Vec3) (float32, mgl32.Vec3, bool) {
	expanded := cube.Box(
		target.Min()[0]-half[0], target.Min()[1]-half[1], target.Min()[2]-half[2],
		target.Max()[0]+half[0], target.Max()[1]+half[1], target.Max()[2]+half[2],
	)
	if strictlyWithin(expanded, start) {
		return 0, faceNormal(expanded, start), true
	}

	res, ok := trace.BBoxIntercept(expanded, start, start.Add(sweep))
	if !ok {
		return 0, mgl32.Vec3{}, false
	}
	pos := res.Position()
	return pos.Sub(start).Len(), faceNormal(expanded, pos), true
}
