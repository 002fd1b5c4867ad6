package render

import "github.com/taigrr/tripipe/pkg/math3d"

// Plane is the half space Normal·p + D >= 0.
type Plane struct {
	Normal math3d.Vec3
	D      float64
}

func (p *Plane) normalize() {
	l := p.Normal.Len()
	if l == 0 {
		return
	}
	p.Normal = p.Normal.Scale(1 / l)
	p.D /= l
}

// Distance returns the signed distance from the plane to point; positive on
// the inside.
func (p Plane) Distance(point math3d.Vec3) float64 {
	return p.Normal.Dot(point) + p.D
}

// Frustum holds six inward facing planes in the same order as the vertex
// clip flags: near, far, left, right, bottom, top.
type Frustum struct {
	Planes [6]Plane
}

// NewFrustumFromMatrix extracts the frustum of a view-projection matrix
// (Gribb/Hartmann). Each plane is the clip plane w ± coordinate >= 0 pulled
// back into the matrix's source space.
func NewFrustumFromMatrix(m math3d.Mat4) Frustum {
	// Column-major: row r, column c is m[r+c*4].
	row := func(r int) [4]float64 {
		return [4]float64{m[r], m[r+4], m[r+8], m[r+12]}
	}
	w := row(3)
	plane := func(r int, sign float64) Plane {
		v := row(r)
		return Plane{
			Normal: math3d.V3(w[0]+sign*v[0], w[1]+sign*v[1], w[2]+sign*v[2]),
			D:      w[3] + sign*v[3],
		}
	}

	f := Frustum{Planes: [6]Plane{
		plane(2, 1),  // near
		plane(2, -1), // far
		plane(0, 1),  // left
		plane(0, -1), // right
		plane(1, 1),  // bottom
		plane(1, -1), // top
	}}
	for i := range f.Planes {
		f.Planes[i].normalize()
	}
	return f
}

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min math3d.Vec3
	Max math3d.Vec3
}

// NewAABB creates an AABB from its corners.
func NewAABB(min, max math3d.Vec3) AABB {
	return AABB{Min: min, Max: max}
}

// Center returns the middle of the box.
func (b AABB) Center() math3d.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Transform returns the box bounding all eight corners of b after m.
func (b AABB) Transform(m math3d.Mat4) AABB {
	var out AABB
	for i := range 8 {
		c := b.Min
		if i&1 != 0 {
			c.X = b.Max.X
		}
		if i&2 != 0 {
			c.Y = b.Max.Y
		}
		if i&4 != 0 {
			c.Z = b.Max.Z
		}
		t := m.MulVec3(c)
		if i == 0 {
			out = AABB{Min: t, Max: t}
			continue
		}
		out.Min = out.Min.Min(t)
		out.Max = out.Max.Max(t)
	}
	return out
}

// IntersectAABB reports whether any part of box may be inside the frustum.
// It tests the corner furthest along each plane normal, so boxes near a
// frustum edge can pass without being visible.
func (f Frustum) IntersectAABB(box AABB) bool {
	for _, p := range f.Planes {
		if p.Distance(pick(p.Normal, box.Max, box.Min)) < 0 {
			return false
		}
	}
	return true
}

// ContainsAABB reports whether box is entirely inside the frustum.
func (f Frustum) ContainsAABB(box AABB) bool {
	for _, p := range f.Planes {
		if p.Distance(pick(p.Normal, box.Min, box.Max)) < 0 {
			return false
		}
	}
	return true
}

// ContainsPoint reports whether point is inside the frustum.
func (f Frustum) ContainsPoint(point math3d.Vec3) bool {
	for _, p := range f.Planes {
		if p.Distance(point) < 0 {
			return false
		}
	}
	return true
}

// pick selects per axis from pos where n is non-negative and from neg
// elsewhere.
func pick(n, pos, neg math3d.Vec3) math3d.Vec3 {
	out := neg
	if n.X >= 0 {
		out.X = pos.X
	}
	if n.Y >= 0 {
		out.Y = pos.Y
	}
	if n.Z >= 0 {
		out.Z = pos.Z
	}
	return out
}
