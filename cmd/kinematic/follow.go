package main

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/kinematic/physics"
)

// controls is the part of the simulation the follower drives.
type controls interface {
	Position(id physics.BodyID) (mgl32.Vec3, bool)
	Walk(id physics.BodyID, direction mgl32.Vec2)
	Jump(id physics.BodyID)
	Stop(id physics.BodyID)
}

// follower walks a body along a loop of waypoints, stopping at each one before heading for the
// next. It jumps every jumpEvery ticks while walking.
type follower struct {
	id        physics.BodyID
	waypoints []mgl32.Vec3
	stopRange float32
	jumpEvery uint64

	next    int
	ticks   uint64
	stopped bool
}

func (f *follower) drive(c controls) {
	f.ticks++
	pos, ok := c.Position(f.id)
	if !ok || len(f.waypoints) == 0 {
		return
	}

	target := f.waypoints[f.next]
	delta := mgl32.Vec2{target.X() - pos.X(), target.Z() - pos.Z()}
	if delta.Len() <= f.stopRange {
		if !f.stopped {
			c.Stop(f.id)
			f.stopped = true
		}
		f.next = (f.next + 1) % len(f.waypoints)
		return
	}

	// Far targets walk at full strength, close ones slow down.
	dir := delta
	if dir.Len() > 1 {
		dir = dir.Normalize()
	}
	c.Walk(f.id, dir)
	f.stopped = false

	if f.jumpEvery > 0 && f.ticks%f.jumpEvery == 0 {
		c.Jump(f.id)
	}
}
