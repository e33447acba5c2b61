package physics

import "github.com/go-gl/mathgl/mgl32"

// ContactPoint is a single point of a contact manifold. A positive penetration means the colliders
// overlap; zero or negative values describe a speculative contact whose separation is -Penetration.
type ContactPoint struct {
	Penetration float32
}

// Manifold describes the contact between two bodies in one step. Normal points from BodyA
// towards BodyB.
type Manifold struct {
	BodyA, BodyB BodyID
	Normal       mgl32.Vec3
	Points       []ContactPoint
	// Sensor is set when either side is a sensor collider. Sensors report overlaps but never
	// take part in collision response.
	Sensor bool
}

// DeepestPenetration returns the largest penetration of the manifold's points and false if the
// manifold has no points.
func (m Manifold) DeepestPenetration() (float32, bool) {
	if len(m.Points) == 0 {
		return 0, false
	}
	deepest := m.Points[0].Penetration
	for _, p := range m.Points[1:] {
		deepest = max(deepest, p.Penetration)
	}
	return deepest, true
}

// Involves reports whether id is one of the two bodies of the manifold.
func (m Manifold) Involves(id BodyID) bool {
	return m.BodyA == id || m.BodyB == id
}
