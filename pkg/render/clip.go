package render

import "github.com/go-gl/mathgl/mgl32"

// clipCapacity bounds the polygon produced by clipping a triangle: each of
// the six planes adds at most one vertex.
const clipCapacity = 3 + len(clipPlanes)

// clipper owns the scratch polygons used while clipping one triangle.
type clipper struct {
	a, b [clipCapacity]VertexPair
}

// clipTriangle clips the triangle against every plane at least one of its
// vertices lies outside. It returns the resulting convex polygon, which
// aliases the clipper's scratch space, or nil when fewer than three vertices
// survive.
func (c *clipper) clipTriangle(face [3]*VertexPair) []VertexPair {
	inside := face[0].NDC.Flag & face[1].NDC.Flag & face[2].NDC.Flag
	c.a[0], c.a[1], c.a[2] = *face[0], *face[1], *face[2]

	src, dst := &c.a, &c.b
	n := 3
	for i, plane := range clipPlanes {
		if inside&(1<<i) != 0 {
			continue
		}
		n = clipPolygon(dst[:], src[:n], plane)
		if n < 3 {
			return nil
		}
		src, dst = dst, src
	}
	return src[:n]
}

// clipPolygon clips the polygon src against one plane (Sutherland-Hodgman)
// and writes the result to dst, returning the output vertex count. dst must
// have room for len(src)+1 vertices.
func clipPolygon(dst, src []VertexPair, plane mgl32.Vec4) int {
	n := len(src)
	if n == 0 {
		return 0
	}
	out := 0
	prev := &src[n-1]
	prevDot := prev.NDC.Pos.Dot(plane)

	for i := range src {
		cur := &src[i]
		curDot := cur.NDC.Pos.Dot(plane)

		if curDot <= 0 {
			if prevDot > 0 {
				lerpPair(&dst[out], cur, prev, prevDot/(prevDot-curDot))
				out++
			}
			dst[out] = *cur
			out++
		} else if prevDot <= 0 {
			lerpPair(&dst[out], cur, prev, prevDot/(prevDot-curDot))
			out++
		}

		prev, prevDot = cur, curDot
	}
	return out
}

// lerpPair writes the clip vertex between a and b into dst. The device half
// is left unprojected.
func lerpPair(dst, a, b *VertexPair, t float32) {
	lerpVertex(&dst.NDC, &a.NDC, &b.NDC, t)
	dst.NDC.Flag = a.NDC.Flag&FormatMask | clipFlags(dst.NDC.Pos)
	dst.Dev.Flag = 0
}

// lerpVertex sets every attribute of dst to b + (a-b)*t. The format bits are
// taken from a.
func lerpVertex(dst, a, b *Vertex, t float32) {
	dst.Flag = a.Flag & FormatMask
	dst.Pos = b.Pos.Add(a.Pos.Sub(b.Pos).Mul(t))
	for i := range a.Flag.TextureCount() {
		dst.Tex[i] = b.Tex[i].Add(a.Tex[i].Sub(b.Tex[i]).Mul(t))
	}
	for i := range a.Flag.ColorCount() {
		dst.Color[i] = b.Color[i].Add(a.Color[i].Sub(b.Color[i]).Mul(t))
	}
	for i := range a.Flag.TangentCount() {
		dst.LightTangent[i] = b.LightTangent[i].Add(a.LightTangent[i].Sub(b.LightTangent[i]).Mul(t))
	}
}
