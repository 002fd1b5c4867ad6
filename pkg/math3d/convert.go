package math3d

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/exp/constraints"
)

// Mgl32 narrows the matrix to float32. Both types are column-major so the
// element order is unchanged.
func (m Mat4) Mgl32() mgl32.Mat4 {
	var out mgl32.Mat4
	for i, v := range m {
		out[i] = float32(v)
	}
	return out
}

// Mgl32 narrows the vector to float32.
func (a Vec3) Mgl32() mgl32.Vec3 {
	return mgl32.Vec3{float32(a.X), float32(a.Y), float32(a.Z)}
}

// FromMgl32 widens a float32 vector.
func FromMgl32(v mgl32.Vec3) Vec3 {
	return Vec3{float64(v[0]), float64(v[1]), float64(v[2])}
}

func (a Vec3) gl() mgl64.Vec3 { return mgl64.Vec3{a.X, a.Y, a.Z} }

func fromGL(v mgl64.Vec3) Vec3 { return Vec3{v[0], v[1], v[2]} }

// Clamp limits x to [lo, hi].
func Clamp[T constraints.Ordered](x, lo, hi T) T {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
