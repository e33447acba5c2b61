package body

import (
	"iter"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/oomph-ac/kinematic/physics"
)

// Set is a registry of bodies iterated in insertion order. It is not safe for concurrent mutation.
type Set struct {
	bodies *orderedmap.OrderedMap[physics.BodyID, *Body]
}

// NewSet creates an empty Set.
func NewSet() *Set {
	return &Set{bodies: orderedmap.NewOrderedMap[physics.BodyID, *Body]()}
}

// Add registers b and returns false if a body with the same ID is already present.
func (s *Set) Add(b *Body) bool {
	if _, ok := s.bodies.Get(b.ID); ok {
		return false
	}
	s.bodies.Set(b.ID, b)
	return true
}

// Remove unregisters the body with the given ID.
func (s *Set) Remove(id physics.BodyID) bool {
	return s.bodies.Delete(id)
}

// Get returns the body with the given ID.
func (s *Set) Get(id physics.BodyID) (*Body, bool) {
	return s.bodies.Get(id)
}

func (s *Set) Len() int {
	return s.bodies.Len()
}

// All yields every body in insertion order.
func (s *Set) All() iter.Seq[*Body] {
	return func(yield func(*Body) bool) {
		for el := s.bodies.Front(); el != nil; el = el.Next() {
			if !yield(el.Value) {
				return
			}
		}
	}
}

// Controllers yields every body carrying a controller configuration, in insertion order.
func (s *Set) Controllers() iter.Seq[*Body] {
	return func(yield func(*Body) bool) {
		for b := range s.All() {
			if b.Controller != nil && !yield(b) {
				return
			}
		}
	}
}
