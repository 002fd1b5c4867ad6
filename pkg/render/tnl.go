package render

import (
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// clipPlanes are the six frustum planes in homogeneous space, in flag bit
// order. A vertex v is inside plane p when dot(v, p) <= 0.
var clipPlanes = [6]mgl32.Vec4{
	{0, 0, -1, -1}, // near:   -z - w
	{0, 0, 1, -1},  // far:     z - w
	{-1, 0, 0, -1}, // left:   -x - w
	{1, 0, 0, -1},  // right:   x - w
	{0, -1, 0, -1}, // bottom: -y - w
	{0, 1, 0, -1},  // top:     y - w
}

// clipFlags returns the containment bits for a clip-space position.
func clipFlags(p mgl32.Vec4) VertexFlag {
	var f VertexFlag
	for i, plane := range clipPlanes {
		if p.Dot(plane) <= 0 {
			f |= 1 << i
		}
	}
	return f
}

func colorVec(c color.RGBA) mgl32.Vec4 {
	const s = 1.0 / 255
	return mgl32.Vec4{float32(c.R) * s, float32(c.G) * s, float32(c.B) * s, float32(c.A) * s}
}

func clampColor(c mgl32.Vec4) mgl32.Vec4 {
	for i := range c {
		c[i] = min(max(c[i], 0), 1)
	}
	return c
}

// transformVertex runs transform and lighting for one source vertex into the
// NDC half of dst and invalidates its device half.
func (p *Pipeline) transformVertex(index uint32, dst *VertexPair) {
	p.stats.Transforms++
	dst.Dev.Flag = 0

	v := &dst.NDC
	if int(index) >= len(p.vb.Vertices) {
		// Out of range indices produce a vertex outside every plane.
		*v = Vertex{Flag: p.format, Pos: mgl32.Vec4{0, 0, 0, -1}}
		return
	}
	src := &p.vb.Vertices[index]
	pos := src.Pos.Vec4(1)

	v.Pos = p.xf.clip.Mul4x1(pos)
	v.Flag = p.format | clipFlags(v.Pos)

	base := colorVec(src.Color)
	needEye := p.material.Lighting ||
		p.material.texGen(0) != TexGenNone || p.material.texGen(1) != TexGenNone
	var eye, n mgl32.Vec3
	if needEye {
		eye = p.xf.worldView.Mul4x1(pos).Vec3()
		n = safeNormalize(p.xf.normal.Mul3x1(src.Normal))
	}

	if p.material.Lighting {
		p.lightVertex(v, eye, n, base)
	} else {
		v.Color[0] = base
		v.Color[1] = mgl32.Vec4{}
	}

	for stage := range v.Flag.TextureCount() {
		tc := src.TCoords
		if stage == 1 && p.vb.Format == VertexTwoTCoords {
			tc = src.TCoords2
		}
		switch p.material.texGen(stage) {
		case TexGenSphereMap:
			tc = sphereMap(eye, n)
		case TexGenReflection:
			tc = reflectionMap(eye, n)
		default:
			if !p.xf.texIdt[stage] {
				t := p.xf.m[TransformTexture0+TransformState(stage)].Mul4x1(mgl32.Vec4{tc[0], tc[1], 0, 1})
				tc = mgl32.Vec2{t[0], t[1]}
			}
		}
		v.Tex[stage] = tc
	}

	if v.Flag.TangentCount() > 0 {
		p.lightTangents(v, src, eye, n)
	}
}

// lightVertex fills the diffuse and specular channels from the eye-space
// light list.
func (p *Pipeline) lightVertex(v *Vertex, eye, n mgl32.Vec3, base mgl32.Vec4) {
	m := &p.material
	diffuse := m.EmissiveColor
	var specular mgl32.Vec4
	view := safeNormalize(eye.Mul(-1))

	for i := range p.eyeLights {
		l := &p.eyeLights[i]
		ldir, att := l.direction(eye)
		if att == 0 {
			continue
		}

		amb := mulVec4(l.ambient, m.AmbientColor)
		ndl := max(0, n.Dot(ldir))
		dif := mulVec4(mulVec4(l.diffuse, m.DiffuseColor), base).Mul(ndl)
		diffuse = diffuse.Add(amb.Add(dif).Mul(att))

		if m.Shininess > 0 && ndl > 0 {
			r := reflect(ldir.Mul(-1), n)
			s := float32(math.Pow(float64(max(0, r.Dot(view))), float64(m.Shininess)))
			specular = specular.Add(mulVec4(l.specular, m.SpecularColor).Mul(att * s))
		}
	}

	diffuse[3] = m.DiffuseColor[3] * base[3]
	specular[3] = 0
	v.Color[0] = clampColor(diffuse)
	v.Color[1] = clampColor(specular)
}

// lightTangents stores, per light, the light vector in the vertex's tangent
// frame for normal mapping.
func (p *Pipeline) lightTangents(v *Vertex, src *SourceVertex, eye, n mgl32.Vec3) {
	for i := range v.LightTangent {
		v.LightTangent[i] = mgl32.Vec3{}
	}
	if !p.material.Lighting {
		return
	}
	t := safeNormalize(p.xf.normal.Mul3x1(src.Tangent))
	b := safeNormalize(p.xf.normal.Mul3x1(src.Binormal))
	for i := 0; i < len(p.eyeLights) && i < MaxLightTangents; i++ {
		ldir, att := p.eyeLights[i].direction(eye)
		v.LightTangent[i] = mgl32.Vec3{ldir.Dot(t), ldir.Dot(b), ldir.Dot(n)}.Mul(att)
	}
}

// sphereMap generates sphere environment coordinates from the reflected
// view vector.
func sphereMap(eye, n mgl32.Vec3) mgl32.Vec2 {
	r := reflect(safeNormalize(eye), n)
	m := 2 * float32(math.Sqrt(float64(r[0]*r[0]+r[1]*r[1]+(r[2]+1)*(r[2]+1))))
	if m == 0 {
		return mgl32.Vec2{0.5, 0.5}
	}
	return mgl32.Vec2{r[0]/m + 0.5, r[1]/m + 0.5}
}

// reflectionMap generates planar reflection coordinates.
func reflectionMap(eye, n mgl32.Vec3) mgl32.Vec2 {
	r := reflect(safeNormalize(eye), n)
	return mgl32.Vec2{0.5 + 0.5*r[0], 0.5 - 0.5*r[1]}
}

// reflect mirrors i about the unit normal n.
func reflect(i, n mgl32.Vec3) mgl32.Vec3 {
	return i.Sub(n.Mul(2 * n.Dot(i)))
}

func mulVec4(a, b mgl32.Vec4) mgl32.Vec4 {
	return mgl32.Vec4{a[0] * b[0], a[1] * b[1], a[2] * b[2], a[3] * b[3]}
}
