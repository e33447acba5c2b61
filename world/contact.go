package world

import (
	"github.com/chewxy/math32"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
)

// boxContact computes the contact between two world space boxes. The normal points from a towards
// b along the axis of least overlap. Boxes separated along a single axis by no more than margin
// produce a speculative contact with a penetration of minus the separation. ok is false if the
// boxes are too far apart or only meet at an edge or corner.
func boxContact(a, b cube.BBox, margin float32) (normal mgl32.Vec3, penetration float32, ok bool) {
	amin, amax, bmin, bmax := a.Min(), a.Max(), b.Min(), b.Max()

	var (
		overlap   mgl32.Vec3
		separated = -1
	)
	for i := range 3 {
		overlap[i] = min(amax[i], bmax[i]) - max(amin[i], bmin[i])
		if overlap[i] <= 0 {
			if separated != -1 {
				return normal, 0, false
			}
			separated = i
		}
	}

	axis := separated
	if axis == -1 {
		axis = 0
		for i := 1; i < 3; i++ {
			if overlap[i] < overlap[axis] {
				axis = i
			}
		}
	} else if -overlap[axis] > margin {
		return normal, 0, false
	}

	if bmin[axis]+bmax[axis] >= amin[axis]+amax[axis] {
		normal[axis] = 1
	} else {
		normal[axis] = -1
	}
	return normal, overlap[axis], true
}

// worldBoxes appends the boxes of a collider placed at pos to dst.
func worldBoxes(dst []cube.BBox, local []cube.BBox, pos mgl32.Vec3) []cube.BBox {
	for _, bb := range local {
		dst = append(dst, bb.Translate(pos))
	}
	return dst
}

// faceNormal returns the outward normal of the face of bb closest to pos.
func faceNormal(bb cube.BBox, pos mgl32.Vec3) mgl32.Vec3 {
	bmin, bmax := bb.Min(), bb.Max()

	var (
		normal mgl32.Vec3
		best   = float32(math32.MaxFloat32)
	)
	for i := range 3 {
		if d := math32.Abs(pos[i] - bmin[i]); d < best {
			best = d
			normal = mgl32.Vec3{}
			normal[i] = -1
		}
		if d := math32.Abs(bmax[i] - pos[i]); d < best {
			best = d
			normal = mgl32.Vec3{}
			normal[i] = 1
		}
	}
	return normal
}

// strictlyWithin reports whether pos lies inside bb and not on its surface.
func strictlyWithin(bb cube.BBox, pos mgl32.Vec3) bool {
	bmin, bmax := bb.Min(), bb.Max()
	for i := range 3 {
		if pos[i] <= bmin[i] || pos[i] >= bmax[i] {
			return false
		}
	}
	return true
}

func boxCenter(bb cube.BBox) mgl32.Vec3 {
	return bb.Min().Add(bb.Max()).Mul(0.5)
}

func boxHalfExtents(bb cube.BBox) mgl32.Vec3 {
	return bb.Max().Sub(bb.Min()).Mul(0.5)
}
