package physics

import "github.com/go-gl/mathgl/mgl32"

// Engine is the rigid body simulation the controller layer runs on top of. The engine integrates
// bodies, generates contacts and answers shape casts; it resolves contacts only for dynamic bodies.
type Engine interface {
	// Step integrates every body by dt seconds and returns the contact manifolds of the step,
	// including speculative contacts, in a stable order.
	Step(dt float32) []Manifold
	// CastShape sweeps the caster from origin with the given rotation and returns every hit
	// ordered by distance. The body excluded is never reported.
	CastShape(caster ShapeCaster, origin mgl32.Vec3, rotation mgl32.Quat, exclude BodyID) []ShapeHit
	// Kind returns the kind of the body with the given ID.
	Kind(id BodyID) (RigidBody, bool)
}
