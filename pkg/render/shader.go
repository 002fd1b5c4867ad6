package render

import "image"

// ShaderKind identifies one rasterization strategy.
type ShaderKind int

const (
	ShaderGouraud ShaderKind = iota
	ShaderGouraudNoZ
	ShaderTextured
	ShaderTexturedNoZ
	ShaderAlphaRef
	ShaderTransparentAdd
	ShaderTransparentAlpha
	ShaderTransparentVertexAlpha
	ShaderTwoLayer
	ShaderLightMap
	ShaderLightMapAdd
	ShaderDetailMap
	ShaderNormalMap
	ShaderWireframe

	shaderKindCount
)

var shaderNames = [shaderKindCount]string{
	"gouraud",
	"gouraud_noz",
	"textured",
	"textured_noz",
	"alpha_ref",
	"trans_add",
	"trans_alpha",
	"trans_vertex_alpha",
	"two_layer",
	"lightmap",
	"lightmap_add",
	"detail_map",
	"normal_map",
	"wireframe",
}

func (k ShaderKind) String() string {
	if k < 0 || k >= shaderKindCount {
		return "unknown"
	}
	return shaderNames[k]
}

// dispatchKey is the part of the render state that selects and configures a
// strategy. Two equal keys bind identically.
type dispatchKey struct {
	typ        MaterialType
	tex        [MaxTextureStages]*Texture
	wrap       [MaxTextureStages]WrapMode
	format     VertexFormat
	ztest      bool
	zwrite     bool
	wireframe  bool
	mipmaps    bool
	alphaRef   float32
	stencil    StencilMode
	stencilRef uint8
}

func newDispatchKey(m *Material, format VertexFormat) dispatchKey {
	return dispatchKey{
		typ:        m.Type,
		tex:        m.Textures,
		wrap:       m.Wrap,
		format:     format,
		ztest:      m.ZTest,
		zwrite:     m.ZWrite,
		wireframe:  m.Wireframe,
		mipmaps:    m.Mipmaps,
		alphaRef:   m.AlphaRef,
		stencil:    m.Stencil,
		stencilRef: m.StencilRef,
	}
}

// selectShader maps render state to a strategy. Kinds that need a texture
// layer which is not bound fall back to the plain default. The second result
// is false when the material type is not recognized.
func selectShader(k *dispatchKey) (ShaderKind, bool) {
	if k.wireframe {
		return ShaderWireframe, true
	}

	textured := k.tex[0] != nil
	layered := textured && k.tex[1] != nil

	def := ShaderGouraud
	if textured {
		def = ShaderTextured
	}
	if !k.ztest {
		def++ // the NoZ variant follows each base kind
	}

	switch k.typ {
	case MaterialSolid, MaterialSphereMap:
		return def, true
	case MaterialSolid2Layer, MaterialReflection2Layer:
		if layered {
			return ShaderTwoLayer, true
		}
	case MaterialLightMap:
		if layered {
			return ShaderLightMap, true
		}
	case MaterialLightMapAdd:
		if layered {
			return ShaderLightMapAdd, true
		}
	case MaterialDetailMap:
		if layered {
			return ShaderDetailMap, true
		}
	case MaterialTransparentAddColor:
		if textured {
			return ShaderTransparentAdd, true
		}
	case MaterialTransparentAlphaChannel:
		if textured {
			return ShaderTransparentAlpha, true
		}
	case MaterialTransparentAlphaChannelRef:
		if textured {
			return ShaderAlphaRef, true
		}
	case MaterialTransparentVertexAlpha, MaterialTransparentReflection2Layer:
		return ShaderTransparentVertexAlpha, true
	case MaterialNormalMap:
		if layered && k.format == VertexTangents {
			return ShaderNormalMap, true
		}
	default:
		return def, false
	}
	return def, true
}

// bindShader selects the strategy for the current state and binds target,
// viewport and parameters into it. Nothing happens when neither the state
// nor the target or viewport changed since the last bind.
func (p *Pipeline) bindShader() {
	key := newDispatchKey(&p.material, p.vb.Format)
	if p.bound && key == p.boundKey && p.boundTarget == p.target && p.boundViewport == p.viewport {
		return
	}

	kind, known := selectShader(&key)
	if !known {
		p.log.Debug("unknown material type, using default shader",
			"type", int(key.typ), "shader", kind.String())
	}

	r := &p.raster
	r.kind = kind
	r.target = p.target
	r.scissor = p.viewport.Intersect(p.target.Bounds())
	r.depthMode = p.opts.depthMode
	r.ztest = key.ztest
	r.zwrite = key.zwrite
	r.alphaRef = key.alphaRef
	r.stencil = key.stencil
	r.stencilRef = key.stencilRef
	r.tex = key.tex
	r.wrap = key.wrap
	for i, t := range key.tex {
		r.mips[i] = nil
		if t != nil && key.mipmaps {
			r.mips[i] = p.mips.chain(t)
		}
	}

	p.bound = true
	p.boundKey = key
	p.boundTarget = p.target
	p.boundViewport = p.viewport
	p.stats.ShaderBinds++
	p.log.Debug("bound shader", "shader", kind.String(), "material", key.typ.String())
}

// rasterizer is the bound strategy. It lives in the pipeline and is
// rebound by bindShader.
type rasterizer struct {
	kind       ShaderKind
	target     *RenderTarget
	scissor    image.Rectangle
	depthMode  DepthMode
	ztest      bool
	zwrite     bool
	alphaRef   float32
	stencil    StencilMode
	stencilRef uint8

	tex  [MaxTextureStages]*Texture
	mips [MaxTextureStages][]*Texture
	wrap [MaxTextureStages]WrapMode
	lod  [MaxTextureStages]int
}

// level returns the texture to sample on a stage for the current LOD.
func (r *rasterizer) level(stage int) *Texture {
	chain := r.mips[stage]
	if len(chain) == 0 || r.lod[stage] <= 0 {
		return r.tex[stage]
	}
	return chain[min(r.lod[stage], len(chain)-1)]
}
