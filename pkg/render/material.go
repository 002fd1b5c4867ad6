package render

import "github.com/go-gl/mathgl/mgl32"

// MaterialType selects how texture layers and vertex colors are combined.
type MaterialType int

const (
	MaterialSolid MaterialType = iota
	MaterialSolid2Layer
	MaterialLightMap
	MaterialLightMapAdd
	MaterialDetailMap
	MaterialSphereMap
	MaterialReflection2Layer
	MaterialTransparentAddColor
	MaterialTransparentAlphaChannel
	MaterialTransparentAlphaChannelRef
	MaterialTransparentVertexAlpha
	MaterialTransparentReflection2Layer
	MaterialNormalMap
)

var materialNames = [...]string{
	"solid",
	"solid_2layer",
	"lightmap",
	"lightmap_add",
	"detail_map",
	"sphere_map",
	"reflection_2layer",
	"trans_add",
	"trans_alphach",
	"trans_alphach_ref",
	"trans_vertex_alpha",
	"trans_reflection_2layer",
	"normalmap",
}

func (t MaterialType) String() string {
	if t < 0 || int(t) >= len(materialNames) {
		return "unknown"
	}
	return materialNames[t]
}

// TexGenMode selects how texture coordinates of a stage are produced.
type TexGenMode int

const (
	TexGenNone       TexGenMode = iota // copy through the texture matrix
	TexGenSphereMap                    // sphere environment map
	TexGenReflection                   // planar reflection map
)

// StencilMode selects what the rasterizer does with the stencil buffer.
type StencilMode int

const (
	StencilOff   StencilMode = iota
	StencilWrite             // write StencilRef where pixels pass
	StencilEqual             // draw only where stencil == StencilRef
)

// Material is the render state for a draw call. The pipeline keeps a copy;
// textures are shared handles and must outlive the draw calls that use them.
type Material struct {
	Type     MaterialType
	Textures [MaxTextureStages]*Texture
	Wrap     [MaxTextureStages]WrapMode
	TexGen   [MaxTextureStages]TexGenMode

	ZTest            bool
	ZWrite           bool
	Lighting         bool
	BackfaceCulling  bool
	FrontfaceCulling bool
	Wireframe        bool
	Mipmaps          bool

	AmbientColor  mgl32.Vec4
	DiffuseColor  mgl32.Vec4
	SpecularColor mgl32.Vec4
	EmissiveColor mgl32.Vec4
	Shininess     float32

	// AlphaRef is the alpha test threshold in [0, 1].
	AlphaRef float32

	Stencil    StencilMode
	StencilRef uint8
}

// DefaultMaterial returns an opaque, depth-tested, back-face culled material
// with white colors and lighting disabled.
func DefaultMaterial() Material {
	white := mgl32.Vec4{1, 1, 1, 1}
	return Material{
		Type:            MaterialSolid,
		ZTest:           true,
		ZWrite:          true,
		BackfaceCulling: true,
		Mipmaps:         true,
		AmbientColor:    white,
		DiffuseColor:    white,
		SpecularColor:   white,
		AlphaRef:        0.5,
	}
}

// textureCount returns the number of bound stages counted from stage 0.
func (m *Material) textureCount() int {
	n := 0
	for _, t := range m.Textures {
		if t == nil {
			break
		}
		n++
	}
	return n
}

// texGen returns the coordinate generator for a stage. Environment material
// types imply their generator regardless of TexGen.
func (m *Material) texGen(stage int) TexGenMode {
	switch {
	case m.Type == MaterialSphereMap && stage == 0:
		return TexGenSphereMap
	case (m.Type == MaterialReflection2Layer || m.Type == MaterialTransparentReflection2Layer) && stage == 1:
		return TexGenReflection
	}
	return m.TexGen[stage]
}
