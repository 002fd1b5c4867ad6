package math3d

import "github.com/go-gl/mathgl/mgl64"

// Mat4 is a 4x4 matrix in column-major order; element (row, col) is
// m[row+col*4]. The layout is shared with mgl64.Mat4 and mgl32.Mat4, and the
// constructors follow OpenGL conventions (right handed, camera looking down
// -Z, clip z in [-w, w]).
type Mat4 mgl64.Mat4

func (m Mat4) gl() mgl64.Mat4 { return mgl64.Mat4(m) }

// Identity returns the identity matrix.
func Identity() Mat4 {
	return Mat4(mgl64.Ident4())
}

// Translate creates a translation matrix.
func Translate(v Vec3) Mat4 {
	return Mat4(mgl64.Translate3D(v.X, v.Y, v.Z))
}

// Scale creates a scaling matrix.
func Scale(v Vec3) Mat4 {
	return Mat4(mgl64.Scale3D(v.X, v.Y, v.Z))
}

// ScaleUniform creates a uniform scaling matrix.
func ScaleUniform(s float64) Mat4 {
	return Scale(V3(s, s, s))
}

// RotateX rotates counter-clockwise about +X by angle radians.
func RotateX(angle float64) Mat4 {
	return Mat4(mgl64.HomogRotate3DX(angle))
}

// RotateY rotates counter-clockwise about +Y by angle radians.
func RotateY(angle float64) Mat4 {
	return Mat4(mgl64.HomogRotate3DY(angle))
}

// RotateZ rotates counter-clockwise about +Z by angle radians.
func RotateZ(angle float64) Mat4 {
	return Mat4(mgl64.HomogRotate3DZ(angle))
}

// LookAt creates a view matrix looking from eye towards center.
func LookAt(eye, center, up Vec3) Mat4 {
	return Mat4(mgl64.LookAtV(eye.gl(), center.gl(), up.gl()))
}

// Perspective creates a perspective projection. fovy is the vertical field
// of view in radians and aspect is width/height.
func Perspective(fovy, aspect, near, far float64) Mat4 {
	return Mat4(mgl64.Perspective(fovy, aspect, near, far))
}

// Mul returns a * b, which applies b first.
func (a Mat4) Mul(b Mat4) Mat4 {
	return Mat4(a.gl().Mul4(b.gl()))
}

// MulVec3 transforms v as a point (w=1) and divides by the resulting w
// unless it is zero.
func (m Mat4) MulVec3(v Vec3) Vec3 {
	return m.MulVec4(V4FromV3(v, 1)).PerspectiveDivide()
}

// MulVec3Dir transforms v as a direction (w=0, no translation).
func (m Mat4) MulVec3Dir(v Vec3) Vec3 {
	return fromGL(m.gl().Mat3().Mul3x1(v.gl()))
}

// MulVec4 transforms a homogeneous point.
func (m Mat4) MulVec4(v Vec4) Vec4 {
	r := m.gl().Mul4x1(mgl64.Vec4{v.X, v.Y, v.Z, v.W})
	return Vec4{r[0], r[1], r[2], r[3]}
}

// Inverse returns the inverse of m, or the identity when m is singular.
func (m Mat4) Inverse() Mat4 {
	g := m.gl()
	if g.Det() == 0 {
		return Identity()
	}
	return Mat4(g.Inv())
}
