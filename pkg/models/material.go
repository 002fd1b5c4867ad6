package models

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/taigrr/tripipe/pkg/render"
)

// AlphaMode is how a material's alpha channel is used.
type AlphaMode int

const (
	AlphaOpaque AlphaMode = iota
	AlphaMask             // alpha tested against AlphaCutoff
	AlphaBlend            // blended over the target
)

// Material represents a PBR material from glTF.
type Material struct {
	Name        string
	BaseColor   [4]float64 // RGBA in 0-1 range
	Metallic    float64    // 0 = dielectric, 1 = metal
	Roughness   float64    // 0 = smooth, 1 = rough
	BaseMap     *render.Texture
	DoubleSided bool
	Alpha       AlphaMode
	AlphaCutoff float64
}

// HasTexture reports whether a base color texture is bound.
func (m *Material) HasTexture() bool { return m.BaseMap != nil }

// RenderMaterial converts the PBR parameters into a lit pipeline material.
// Roughness maps onto the specular exponent; metals tint their highlight.
func (m *Material) RenderMaterial() render.Material {
	out := render.DefaultMaterial()
	base := mgl32.Vec4{
		float32(m.BaseColor[0]), float32(m.BaseColor[1]),
		float32(m.BaseColor[2]), float32(m.BaseColor[3]),
	}
	out.Lighting = true
	out.DiffuseColor = base
	out.AmbientColor = base
	out.BackfaceCulling = !m.DoubleSided
	out.Textures[0] = m.BaseMap

	if m.Roughness < 1 {
		out.Shininess = float32(2 + (1-m.Roughness)*126)
		spec := mgl32.Vec4{1, 1, 1, 1}
		f := float32(m.Metallic)
		for i := range 3 {
			spec[i] = spec[i]*(1-f) + base[i]*f
		}
		out.SpecularColor = spec
	}

	switch m.Alpha {
	case AlphaMask:
		if m.HasTexture() {
			out.Type = render.MaterialTransparentAlphaChannelRef
			out.AlphaRef = float32(m.AlphaCutoff)
		}
	case AlphaBlend:
		if m.HasTexture() {
			out.Type = render.MaterialTransparentAlphaChannel
		} else {
			out.Type = render.MaterialTransparentVertexAlpha
		}
		out.ZWrite = false
	}
	return out
}
