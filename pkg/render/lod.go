package render

import "math"

// NoLOD marks a texture stage that is not sampled.
const NoLOD = -1

// screenArea returns twice the signed device-space area of a triangle.
// Positive is front facing.
func screenArea(a, b, c *Vertex) float32 {
	return (b.Pos[0]-a.Pos[0])*(c.Pos[1]-a.Pos[1]) -
		(b.Pos[1]-a.Pos[1])*(c.Pos[0]-a.Pos[0])
}

// texelArea returns twice the absolute area of a triangle's coordinates on
// one stage, measured in texels of a w x h texture.
func texelArea(a, b, c *Vertex, stage int, w, h int) float32 {
	ta, tb, tc := a.Tex[stage], b.Tex[stage], c.Tex[stage]
	area := (tb[0]-ta[0])*(tc[1]-ta[1]) - (tb[1]-ta[1])*(tc[0]-ta[0])
	if area < 0 {
		area = -area
	}
	return area * float32(w) * float32(h)
}

// lodLevel turns a texel/screen area ratio into a mip level. Each level
// halves both dimensions, so it quarters the area.
func lodLevel(texel, screen float32) int {
	if screen < 0 {
		screen = -screen
	}
	if texel <= 0 || screen == 0 {
		return 0
	}
	lod := int(math.Round(0.5 * math.Log2(float64(texel)/float64(screen))))
	return max(lod, 0)
}

// culled reports whether a triangle with the given signed area is dropped by
// the material's face culling. Degenerate triangles are always dropped.
func culled(area float32, m *Material) bool {
	switch {
	case area == 0:
		return true
	case area < 0:
		return m.BackfaceCulling
	default:
		return m.FrontfaceCulling
	}
}

// selectLOD picks a mip level per stage for a triangle given as NDC/device
// pairs. Unbound stages get NoLOD.
func selectLOD(lod *[MaxTextureStages]int, tex *[MaxTextureStages]*Texture, a, b, c *VertexPair, area float32) {
	for stage := range lod {
		t := tex[stage]
		if t == nil || stage >= a.NDC.Flag.TextureCount() {
			lod[stage] = NoLOD
			continue
		}
		lod[stage] = lodLevel(texelArea(&a.NDC, &b.NDC, &c.NDC, stage, t.Width, t.Height), area)
	}
}
