package render

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// edgeCoeffs returns A, B, C for the edge function
// edge(x,y) = A*x + B*y + C of the directed edge (x0,y0)->(x1,y1).
// Positive = left of edge, negative = right of edge, zero = on edge.
func edgeCoeffs(x0, y0, x1, y1 float32) (A, B, C float32) {
	A = y0 - y1 // dy
	B = x1 - x0 // -dx
	C = x0*y1 - x1*y0
	return
}

func min3(a, b, c float32) float32 { return min(a, b, c) }
func max3(a, b, c float32) float32 { return max(a, b, c) }

// fragment holds perspective-corrected attributes at one pixel.
type fragment struct {
	diffuse  mgl32.Vec4
	specular mgl32.Vec4
	tex      [MaxTextureStages]mgl32.Vec2
	tangent  [MaxLightTangents]mgl32.Vec3
}

// drawTriangle fills a projected triangle. area is twice its signed device
// area as returned by screenArea and must be non-zero.
func (r *rasterizer) drawTriangle(a, b, c *Vertex, area float32) {
	if r.kind == ShaderWireframe {
		r.drawLine(a, b)
		r.drawLine(b, c)
		r.drawLine(c, a)
		return
	}
	if area < 0 {
		b, c = c, b
		area = -area
	}

	// Bounding box (clamped to scissor)
	sc := r.scissor
	minX := max(sc.Min.X, int(math.Floor(float64(min3(a.Pos[0], b.Pos[0], c.Pos[0])))))
	maxX := min(sc.Max.X-1, int(math.Ceil(float64(max3(a.Pos[0], b.Pos[0], c.Pos[0])))))
	minY := max(sc.Min.Y, int(math.Floor(float64(min3(a.Pos[1], b.Pos[1], c.Pos[1])))))
	maxY := min(sc.Max.Y-1, int(math.Ceil(float64(max3(a.Pos[1], b.Pos[1], c.Pos[1])))))
	if minX > maxX || minY > maxY {
		return
	}

	// Edge 0: b -> c, Edge 1: c -> a, Edge 2: a -> b
	A0, B0, C0 := edgeCoeffs(b.Pos[0], b.Pos[1], c.Pos[0], c.Pos[1])
	A1, B1, C1 := edgeCoeffs(c.Pos[0], c.Pos[1], a.Pos[0], a.Pos[1])
	A2, B2, C2 := edgeCoeffs(a.Pos[0], a.Pos[1], b.Pos[0], b.Pos[1])
	invArea := 1 / area

	depthIdx := 2
	if r.depthMode == DepthInvW {
		depthIdx = 3
	}

	px := float32(minX) + 0.5
	py := float32(minY) + 0.5
	w0Row := A0*px + B0*py + C0
	w1Row := A1*px + B1*py + C1
	w2Row := A2*px + B2*py + C2

	t := r.target
	width := t.Width()
	var frag fragment

	for y := minY; y <= maxY; y++ {
		w0, w1, w2 := w0Row, w1Row, w2Row
		rowOffset := y * width

		for x := minX; x <= maxX; x++ {
			if w0 >= 0 && w1 >= 0 && w2 >= 0 {
				bc0, bc1, bc2 := w0*invArea, w1*invArea, w2*invArea
				idx := rowOffset + x

				z := bc0*a.Pos[depthIdx] + bc1*b.Pos[depthIdx] + bc2*c.Pos[depthIdx]
				if r.depthPass(z, t.Depth[idx]) && r.stencilPass(t.Stencil[idx]) {
					r.interpolate(&frag, a, b, c, bc0, bc1, bc2)
					if out, ok := r.shade(&frag, t.Color.Pixels[idx]); ok {
						t.Color.Pixels[idx] = out
						if r.zwrite {
							t.Depth[idx] = z
						}
						if r.stencil == StencilWrite {
							t.Stencil[idx] = r.stencilRef
						}
					}
				}
			}

			w0 += A0
			w1 += A1
			w2 += A2
		}

		w0Row += B0
		w1Row += B1
		w2Row += B2
	}
}

func (r *rasterizer) depthPass(z, stored float32) bool {
	if !r.ztest {
		return true
	}
	if r.depthMode == DepthInvW {
		return z > stored
	}
	return z < stored
}

func (r *rasterizer) stencilPass(v uint8) bool {
	return r.stencil != StencilEqual || v == r.stencilRef
}

// interpolate recovers attributes at barycentric (bc0, bc1, bc2) from the
// 1/w premultiplied device vertices.
func (r *rasterizer) interpolate(f *fragment, a, b, c *Vertex, bc0, bc1, bc2 float32) {
	invW := bc0*a.Pos[3] + bc1*b.Pos[3] + bc2*c.Pos[3]
	var w float32
	if invW != 0 {
		w = 1 / invW
	}
	s0, s1, s2 := bc0*w, bc1*w, bc2*w

	f.diffuse = a.Color[0].Mul(s0).Add(b.Color[0].Mul(s1)).Add(c.Color[0].Mul(s2))
	f.specular = a.Color[1].Mul(s0).Add(b.Color[1].Mul(s1)).Add(c.Color[1].Mul(s2))
	for i := range a.Flag.TextureCount() {
		f.tex[i] = a.Tex[i].Mul(s0).Add(b.Tex[i].Mul(s1)).Add(c.Tex[i].Mul(s2))
	}
	if r.kind == ShaderNormalMap {
		for i := range a.Flag.TangentCount() {
			f.tangent[i] = a.LightTangent[i].Mul(s0).Add(b.LightTangent[i].Mul(s1)).Add(c.LightTangent[i].Mul(s2))
		}
	}
}

// sample reads a stage at the fragment's coordinates as a 0..1 color.
func (r *rasterizer) sample(f *fragment, stage int) mgl32.Vec4 {
	t := r.level(stage)
	if t == nil {
		return mgl32.Vec4{1, 1, 1, 1}
	}
	uv := f.tex[stage]
	return colorVec(t.SampleWrap(float64(uv[0]), float64(uv[1]), r.wrap[stage], r.wrap[stage]))
}

// shade combines the fragment with the bound textures and the pixel already
// in the target. It returns false when the fragment is discarded.
func (r *rasterizer) shade(f *fragment, dst Color) (Color, bool) {
	var out mgl32.Vec4
	alpha := float32(1)

	switch r.kind {
	case ShaderGouraud, ShaderGouraudNoZ:
		out = f.diffuse.Add(f.specular)

	case ShaderTextured, ShaderTexturedNoZ:
		out = mulVec4(r.sample(f, 0), f.diffuse).Add(f.specular)

	case ShaderAlphaRef:
		t0 := r.sample(f, 0)
		if t0[3] < r.alphaRef {
			return dst, false
		}
		out = mulVec4(t0, f.diffuse)

	case ShaderTransparentAdd:
		out = colorVec(dst).Add(mulVec4(r.sample(f, 0), f.diffuse))

	case ShaderTransparentAlpha:
		src := mulVec4(r.sample(f, 0), f.diffuse)
		out, alpha = src, src[3]

	case ShaderTransparentVertexAlpha:
		out, alpha = mulVec4(r.sample(f, 0), f.diffuse), f.diffuse[3]

	case ShaderTwoLayer:
		t0, t1 := r.sample(f, 0), r.sample(f, 1)
		k := f.diffuse[3]
		out = mulVec4(t0.Mul(1-k).Add(t1.Mul(k)), f.diffuse)

	case ShaderLightMap:
		out = mulVec4(r.sample(f, 0), r.sample(f, 1))

	case ShaderLightMapAdd:
		out = r.sample(f, 0).Add(r.sample(f, 1))

	case ShaderDetailMap:
		detail := r.sample(f, 1).Sub(mgl32.Vec4{0.5, 0.5, 0.5, 0.5})
		out = mulVec4(r.sample(f, 0).Add(detail), f.diffuse)

	case ShaderNormalMap:
		nm := r.sample(f, 1)
		n := mgl32.Vec3{nm[0]*2 - 1, nm[1]*2 - 1, nm[2]*2 - 1}
		lit := float32(1)
		if f.tangent != ([MaxLightTangents]mgl32.Vec3{}) {
			lit = 0
			for _, l := range f.tangent {
				lit += max(0, n.Dot(safeNormalize(l)))
			}
			lit = min(lit, 1)
		}
		out = mulVec4(r.sample(f, 0), f.diffuse).Mul(lit)

	default:
		out = f.diffuse
	}

	if alpha < 1 {
		d := colorVec(dst)
		out = d.Add(out.Sub(d).Mul(max(alpha, 0)))
	}
	return toColor(out), true
}

// toColor clamps a 0..1 color to 8 bits per channel with opaque alpha.
func toColor(c mgl32.Vec4) Color {
	q := func(v float32) uint8 {
		return uint8(min(max(v, 0), 1)*255 + 0.5)
	}
	return Color{R: q(c[0]), G: q(c[1]), B: q(c[2]), A: 255}
}
