package render

import (
	"image"
	"log/slog"

	"github.com/taigrr/tripipe/pkg/math3d"
)

// Stats counts pipeline work since the last ResetStats.
type Stats struct {
	DrawCalls   int
	Primitives  int // primitives submitted
	Transforms  int // transform and lighting invocations
	Rejected    int // triangles entirely outside one frustum plane
	Clipped     int // triangles sent through the clipper
	Culled      int // triangles dropped by area or face culling
	Triangles   int // rasterization strategy invocations
	ShaderBinds int

	MeshesTested int
	MeshesCulled int
}

// Pipeline carries all state of the software pipeline. Calls run to
// completion on the calling goroutine; a Pipeline and its render target must
// not be used concurrently.
type Pipeline struct {
	opts options
	log  *slog.Logger

	xf        transformSet
	lights    LightList
	eyeLights []eyeLight
	seenLight uint64
	lightsOK  bool

	material Material
	target   *RenderTarget
	viewport image.Rectangle
	scale    clipScale

	cache  *vertexCache
	clip   clipper
	raster rasterizer
	mips   *mipCache

	bound         bool
	boundKey      dispatchKey
	boundTarget   *RenderTarget
	boundViewport image.Rectangle

	// per draw call
	vb     VertexBuffer
	format VertexFlag

	stats Stats
}

// NewPipeline creates a pipeline drawing into target.
func NewPipeline(target *RenderTarget, opts ...Option) *Pipeline {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	p := &Pipeline{
		opts:     o,
		log:      o.logger,
		xf:       newTransformSet(),
		material: DefaultMaterial(),
	}
	if p.log == nil {
		p.log = Logger()
	}
	p.cache = newVertexCache(p.transformVertex)
	p.mips = newMipCache(o.mipCacheSize, p.log)
	p.SetRenderTarget(target)
	return p
}

// SetTransform replaces one of the pipeline matrices.
func (p *Pipeline) SetTransform(s TransformState, m math3d.Mat4) {
	p.xf.set(s, m)
	if s == TransformView {
		p.lightsOK = false
	}
}

// Transform returns one of the pipeline matrices.
func (p *Pipeline) Transform(s TransformState) math3d.Mat4 {
	if s < 0 || s >= transformCount {
		return math3d.Identity()
	}
	return p.xf.host[s]
}

// SetCamera sets the view and projection matrices from a camera.
func (p *Pipeline) SetCamera(c *Camera) {
	p.SetTransform(TransformView, c.ViewMatrix())
	p.SetTransform(TransformProjection, c.ProjectionMatrix())
}

// SetMaterial copies m as the state for following draw calls.
func (p *Pipeline) SetMaterial(m Material) {
	p.material = m
}

// Material returns the current material.
func (p *Pipeline) Material() Material {
	return p.material
}

// Lights returns the light list. Changes take effect on the next draw call.
func (p *Pipeline) Lights() *LightList {
	return &p.lights
}

// SetRenderTarget switches the target and resets the viewport to cover it.
func (p *Pipeline) SetRenderTarget(t *RenderTarget) {
	p.target = t
	if t != nil {
		p.SetViewport(t.Bounds())
	}
}

// RenderTarget returns the current target.
func (p *Pipeline) RenderTarget() *RenderTarget {
	return p.target
}

// SetViewport sets the device rectangle clip space maps to.
func (p *Pipeline) SetViewport(r image.Rectangle) {
	p.viewport = r.Canon()
	p.scale = newClipScale(p.viewport)
}

// Viewport returns the current viewport.
func (p *Pipeline) Viewport() image.Rectangle {
	return p.viewport
}

// Clear clears the target to c, the far depth of the pipeline's depth mode
// and a zero stencil.
func (p *Pipeline) Clear(c Color) {
	if p.target == nil {
		return
	}
	p.target.Clear(c, p.opts.depthMode.clearValue(), 0)
}

// DepthMode returns the depth mode chosen at creation.
func (p *Pipeline) DepthMode() DepthMode {
	return p.opts.depthMode
}

// InvalidateTexture drops the cached mip chain of t. Call it after changing
// the pixels of a texture that has been drawn with mipmaps.
func (p *Pipeline) InvalidateTexture(t *Texture) {
	p.mips.forget(t)
	p.bound = false
}

// Stats returns the counters accumulated since the last ResetStats.
func (p *Pipeline) Stats() Stats {
	return p.stats
}

// ResetStats zeroes the counters.
func (p *Pipeline) ResetStats() {
	p.stats = Stats{}
}

// DrawIndexedPrimitives draws primitiveCount primitives of type pt from vb.
// A nil ib reads vertices sequentially. Primitives that reference vertices
// outside vb, lie outside the frustum, or are degenerate or culled produce no
// pixels; the call itself never fails.
func (p *Pipeline) DrawIndexedPrimitives(vb VertexBuffer, ib IndexBuffer, primitiveCount int, pt PrimitiveType) {
	if p.target == nil {
		p.log.Warn("draw without render target")
		return
	}
	if primitiveCount <= 0 || len(vb.Vertices) == 0 {
		return
	}
	available := len(vb.Vertices)
	if ib != nil {
		available = ib.Len()
	}
	primitiveCount = min(primitiveCount, pt.primitiveCount(available))
	if primitiveCount == 0 {
		return
	}

	p.begin(vb)
	defer p.end()

	p.stats.DrawCalls++
	p.stats.Primitives += primitiveCount
	p.cache.reset(ib, pt, primitiveCount, !p.opts.vertexCache)

	switch pt.vertices() {
	case 1:
		p.drawPoints(primitiveCount)
	case 2:
		p.drawLines(primitiveCount)
	default:
		p.drawTriangles(primitiveCount)
	}
}

// begin brings derived state up to date for a draw call.
func (p *Pipeline) begin(vb VertexBuffer) {
	p.vb = vb
	p.format = vb.Format.flag(p.material.textureCount())
	p.xf.update()
	if !p.lightsOK || p.seenLight != p.lights.version {
		p.eyeLights = buildEyeLights(p.eyeLights, &p.lights, p.xf.host[TransformView])
		p.seenLight = p.lights.version
		p.lightsOK = true
	}
	p.bindShader()
}

// end drops the borrowed vertex buffer.
func (p *Pipeline) end() {
	p.vb = VertexBuffer{}
}

func (p *Pipeline) validIndices(idx [3]uint32, n int) bool {
	for i := range n {
		if int(idx[i]) >= len(p.vb.Vertices) {
			return false
		}
	}
	return true
}

func (p *Pipeline) drawTriangles(count int) {
	for range count {
		face, idx := p.cache.next()
		if !p.validIndices(idx, 3) {
			continue
		}

		f0, f1, f2 := face[0].NDC.Flag, face[1].NDC.Flag, face[2].NDC.Flag
		switch {
		case (f0&f1&f2)&ClipMask == ClipMask:
			for _, v := range face {
				p.scale.project(v, p.opts.depthMode)
			}
			p.rasterTriangle(face[0], face[1], face[2])

		case (f0|f1|f2)&ClipMask != ClipMask:
			p.stats.Rejected++

		default:
			p.stats.Clipped++
			poly := p.clip.clipTriangle(face)
			if poly == nil {
				continue
			}
			for i := range poly {
				p.scale.project(&poly[i], p.opts.depthMode)
			}
			for i := 1; i+1 < len(poly); i++ {
				p.rasterTriangle(&poly[0], &poly[i], &poly[i+1])
			}
		}
	}
}

// rasterTriangle culls a projected triangle, selects its mip levels and
// hands it to the bound strategy.
func (p *Pipeline) rasterTriangle(a, b, c *VertexPair) {
	area := screenArea(&a.Dev, &b.Dev, &c.Dev)
	if culled(area, &p.material) {
		p.stats.Culled++
		return
	}
	selectLOD(&p.raster.lod, &p.raster.tex, a, b, c, area)
	p.stats.Triangles++
	p.raster.drawTriangle(&a.Dev, &b.Dev, &c.Dev, area)
}

func (p *Pipeline) drawLines(count int) {
	for range count {
		face, idx := p.cache.next()
		if !p.validIndices(idx, 2) {
			continue
		}
		if !face[0].NDC.Flag.Inside() || !face[1].NDC.Flag.Inside() {
			p.stats.Rejected++
			continue
		}
		p.scale.project(face[0], p.opts.depthMode)
		p.scale.project(face[1], p.opts.depthMode)
		p.raster.drawLine(&face[0].Dev, &face[1].Dev)
	}
}

func (p *Pipeline) drawPoints(count int) {
	for range count {
		face, idx := p.cache.next()
		if !p.validIndices(idx, 1) {
			continue
		}
		if !face[0].NDC.Flag.Inside() {
			p.stats.Rejected++
			continue
		}
		p.scale.project(face[0], p.opts.depthMode)
		p.raster.drawPoint(&face[0].Dev)
	}
}
