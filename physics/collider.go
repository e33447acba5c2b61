package physics

import (
	"encoding/binary"
	"math"

	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/kinematic/internal"
	"github.com/zeebo/xxh3"
)

// Collider is a compound shape made of boxes in the body's local space.
type Collider struct {
	Boxes []cube.BBox
}

// BoxCollider returns a collider made of a single box centred on the local origin.
func BoxCollider(halfExtents mgl32.Vec3) Collider {
	return Collider{Boxes: []cube.BBox{cube.Box(
		-halfExtents[0], -halfExtents[1], -halfExtents[2],
		halfExtents[0], halfExtents[1], halfExtents[2],
	)}}
}

// Empty reports whether the collider has no geometry.
func (c Collider) Empty() bool {
	return len(c.Boxes) == 0
}

// Scaled returns a copy of the collider scaled component-wise about the local origin.
func (c Collider) Scaled(scale mgl32.Vec3) Collider {
	out := Collider{Boxes: make([]cube.BBox, len(c.Boxes))}
	for i, bb := range c.Boxes {
		out.Boxes[i] = ScaleBox(bb, scale)
	}
	return out
}

// BBox returns the smallest box enclosing every box of the collider.
func (c Collider) BBox() cube.BBox {
	if c.Empty() {
		return cube.Box(0, 0, 0, 0, 0, 0)
	}
	bb := c.Boxes[0]
	for _, other := range c.Boxes[1:] {
		bb = UnionBox(bb, other)
	}
	return bb
}

// Fingerprint returns a hash of the collider geometry. Two colliders with the same boxes in the
// same order have the same fingerprint.
func (c Collider) Fingerprint() uint64 {
	buf := internal.GetBuffer()
	defer internal.PutBuffer(buf)

	var scratch [4]byte
	for _, bb := range c.Boxes {
		for _, v := range [2]mgl32.Vec3{bb.Min(), bb.Max()} {
			for _, f := range v {
				binary.LittleEndian.PutUint32(scratch[:], math.Float32bits(f))
				buf.Write(scratch[:])
			}
		}
	}
	return xxh3.Hash(buf.Bytes())
}

// ScaleBox scales bb component-wise about the origin, keeping min below max for negative scales.
func ScaleBox(bb cube.BBox, scale mgl32.Vec3) cube.BBox {
	a, b := bb.Min(), bb.Max()
	var min, max mgl32.Vec3
	for i := range 3 {
		x, y := a[i]*scale[i], b[i]*scale[i]
		if x > y {
			x, y = y, x
		}
		min[i], max[i] = x, y
	}
	return cube.Box(min[0], min[1], min[2], max[0], max[1], max[2])
}

// UnionBox returns the smallest box enclosing a and b.
func UnionBox(a, b cube.BBox) cube.BBox {
	amin, amax, bmin, bmax := a.Min(), a.Max(), b.Min(), b.Max()
	return cube.Box(
		min(amin[0], bmin[0]), min(amin[1], bmin[1]), min(amin[2], bmin[2]),
		max(amax[0], bmax[0]), max(amax[1], bmax[1]), max(amax[2], bmax[2]),
	)
}
