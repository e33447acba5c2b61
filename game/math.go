package game

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Round32 will round a float32 to a given precision.
func Round32(val float32, precision int) float32 {
	pwr := math32.Pow(10, float32(precision))
	return math32.Round(val*pwr) / pwr
}

// Float32ApproxEq determines whether two floating point numbers are close enough to each other
// by a threshold of 1e-5.
func Float32ApproxEq(a, b float32) bool {
	return math32.Abs(a-b) <= 1e-5
}

// Vec3ApproxEq compares two vectors component-wise with Float32ApproxEq.
func Vec3ApproxEq(a, b mgl32.Vec3) bool {
	return Float32ApproxEq(a[0], b[0]) && Float32ApproxEq(a[1], b[1]) && Float32ApproxEq(a[2], b[2])
}

// Vec3HzDistSqr returns the squared horizontal distance in a vector.
func Vec3HzDistSqr(vec3 mgl32.Vec3) float32 {
	return vec3.X()*vec3.X() + vec3.Z()*vec3.Z()
}

// NormalizeOrZero returns the unit vector of v, or the zero vector if v has no usable length.
func NormalizeOrZero(v mgl32.Vec3) mgl32.Vec3 {
	l := v.Len()
	if l <= 0 || math32.IsInf(l, 0) || math32.IsNaN(l) {
		return mgl32.Vec3{}
	}
	return v.Mul(1 / l)
}

// AngleBetween returns the unsigned angle in radians between a and b. Zero-length inputs yield 0.
func AngleBetween(a, b mgl32.Vec3) float32 {
	denom := math32.Sqrt(a.LenSqr() * b.LenSqr())
	if denom == 0 {
		return 0
	}
	cos := a.Dot(b) / denom
	return math32.Acos(ClampFloat(cos, -1, 1))
}

// RejectFrom returns the component of v perpendicular to the normal n.
func RejectFrom(v, n mgl32.Vec3) mgl32.Vec3 {
	ls := n.LenSqr()
	if ls == 0 {
		return v
	}
	return v.Sub(n.Mul(v.Dot(n) / ls))
}

// ClampHorizontal scales the X and Z components of v so that their combined length does not
// exceed max. The Y component is left untouched.
func ClampHorizontal(v mgl32.Vec3, max float32) mgl32.Vec3 {
	hz := Vec3HzDistSqr(v)
	if hz <= max*max || hz <= 0 {
		return v
	}
	scale := max / math32.Sqrt(hz)
	return mgl32.Vec3{v[0] * scale, v[1], v[2] * scale}
}

// ClampFloat clamps num between min and max.
func ClampFloat(num, min, max float32) float32 {
	if num < min {
		return min
	}
	if num > max {
		return max
	}
	return num
}

// AbsVec32 will return the given vector, but all the values of it are switched to their absolute values.
func AbsVec32(vec mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{math32.Abs(vec.X()), math32.Abs(vec.Y()), math32.Abs(vec.Z())}
}
