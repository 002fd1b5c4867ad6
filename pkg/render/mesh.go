package render

import "github.com/taigrr/tripipe/pkg/math3d"

// MeshBuffer is one drawable part of a mesh.
type MeshBuffer struct {
	Vertices  VertexBuffer
	Indices   IndexBuffer // nil for sequential
	Primitive PrimitiveType
	Count     int // primitive count
}

// MeshSource is anything DrawMesh can draw.
type MeshSource interface {
	BufferCount() int
	Buffer(i int) MeshBuffer
}

// BoundedMesh is a MeshSource with a local-space bounding box, which lets
// DrawMesh skip meshes outside the view frustum.
type BoundedMesh interface {
	MeshSource
	GetBounds() (min, max math3d.Vec3)
}

// DrawMesh sets the world transform and draws every buffer of mesh with the
// current material. It returns false when the mesh was culled as a whole.
func (p *Pipeline) DrawMesh(mesh MeshSource, world math3d.Mat4) bool {
	p.SetTransform(TransformWorld, world)
	if p.frustumCull(mesh, world) {
		return false
	}
	for i := range mesh.BufferCount() {
		b := mesh.Buffer(i)
		p.DrawIndexedPrimitives(b.Vertices, b.Indices, b.Count, b.Primitive)
	}
	return true
}

// Visible reports whether mesh may be visible when drawn with world. Meshes
// without bounds are always visible. The test is counted in Stats.
func (p *Pipeline) Visible(mesh MeshSource, world math3d.Mat4) bool {
	return !p.frustumCull(mesh, world)
}

// frustumCull reports whether a bounded mesh lies entirely outside the view
// frustum.
func (p *Pipeline) frustumCull(mesh MeshSource, world math3d.Mat4) bool {
	bounded, ok := mesh.(BoundedMesh)
	if !ok {
		return false
	}
	p.stats.MeshesTested++

	lo, hi := bounded.GetBounds()
	box := NewAABB(lo, hi).Transform(world)
	if !NewFrustumFromMatrix(p.xf.viewProjection()).IntersectAABB(box) {
		p.stats.MeshesCulled++
		return true
	}
	return false
}
