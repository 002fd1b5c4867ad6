// Package models loads glTF scenes into vertex and index buffers the render
// pipeline can draw directly.
package models

import (
	"slices"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/taigrr/tripipe/pkg/math3d"
	"github.com/taigrr/tripipe/pkg/render"
)

// Mesh is a set of drawable parts sharing one material table. It satisfies
// render.BoundedMesh.
type Mesh struct {
	Name      string
	Parts     []Part
	Materials []Material

	// Bounding box (calculated on load)
	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3
}

// Part is one primitive batch: vertices, indices and a material reference.
// Triangles wind clockwise when viewed from the front in a y-up space.
type Part struct {
	Format    render.VertexFormat
	Vertices  []render.SourceVertex
	Indices   render.Index32
	Primitive render.PrimitiveType
	Material  int // Index into Mesh.Materials (-1 for no material)
}

// Count returns the number of whole primitives in the part.
func (p *Part) Count() int {
	return p.Primitive.PrimitiveCount(len(p.Indices))
}

// isTriangles reports whether the part describes filled triangles.
func (p *Part) isTriangles() bool {
	switch p.Primitive {
	case render.TriangleList, render.TriangleStrip, render.TriangleFan:
		return true
	}
	return false
}

// triangles calls fn with the indices of every triangle in draw order.
func (p *Part) triangles(fn func(a, b, c uint32)) {
	if !p.isTriangles() {
		return
	}
	idx := p.Indices
	for i := range p.Count() {
		switch p.Primitive {
		case render.TriangleList:
			fn(idx[3*i], idx[3*i+1], idx[3*i+2])
		case render.TriangleStrip:
			if i&1 == 0 {
				fn(idx[i], idx[i+1], idx[i+2])
			} else {
				fn(idx[i], idx[i+2], idx[i+1])
			}
		case render.TriangleFan:
			fn(idx[0], idx[i+1], idx[i+2])
		}
	}
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{Name: name}
}

// BufferCount returns the number of parts.
func (m *Mesh) BufferCount() int { return len(m.Parts) }

// Buffer returns part i as a pipeline draw call.
func (m *Mesh) Buffer(i int) render.MeshBuffer {
	p := &m.Parts[i]
	return render.MeshBuffer{
		Vertices:  render.VertexBuffer{Format: p.Format, Vertices: p.Vertices},
		Indices:   p.Indices,
		Primitive: p.Primitive,
		Count:     p.Count(),
	}
}

// GetBounds returns the axis-aligned bounding box.
func (m *Mesh) GetBounds() (min, max math3d.Vec3) {
	return m.BoundsMin, m.BoundsMax
}

// CalculateBounds computes the axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	first := true
	for _, p := range m.Parts {
		for _, v := range p.Vertices {
			pos := math3d.FromMgl32(v.Pos)
			if first {
				m.BoundsMin, m.BoundsMax = pos, pos
				first = false
				continue
			}
			m.BoundsMin = m.BoundsMin.Min(pos)
			m.BoundsMax = m.BoundsMax.Max(pos)
		}
	}
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	return m.BoundsMin.Add(m.BoundsMax).Scale(0.5)
}

// Size returns the size of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	return m.BoundsMax.Sub(m.BoundsMin)
}

// TriangleCount returns the number of filled triangles.
func (m *Mesh) TriangleCount() int {
	n := 0
	for i := range m.Parts {
		if m.Parts[i].isTriangles() {
			n += m.Parts[i].Count()
		}
	}
	return n
}

// VertexCount returns the number of vertices over all parts.
func (m *Mesh) VertexCount() int {
	n := 0
	for _, p := range m.Parts {
		n += len(p.Vertices)
	}
	return n
}

// CalculateSmoothNormals replaces vertex normals with the area-weighted
// average of the adjacent face normals.
func (m *Mesh) CalculateSmoothNormals() {
	for i := range m.Parts {
		p := &m.Parts[i]
		if !p.isTriangles() {
			continue
		}
		for j := range p.Vertices {
			p.Vertices[j].Normal = mgl32.Vec3{}
		}
		p.triangles(func(a, b, c uint32) {
			if int(max(a, b, c)) >= len(p.Vertices) {
				return
			}
			va, vb, vc := &p.Vertices[a], &p.Vertices[b], &p.Vertices[c]
			// Front faces wind clockwise, so the outward normal is (c-a)x(b-a).
			n := vc.Pos.Sub(va.Pos).Cross(vb.Pos.Sub(va.Pos))
			va.Normal = va.Normal.Add(n)
			vb.Normal = vb.Normal.Add(n)
			vc.Normal = vc.Normal.Add(n)
		})
		for j := range p.Vertices {
			p.Vertices[j].Normal = normalize(p.Vertices[j].Normal)
		}
	}
}

// hasNormals reports whether any vertex carries a usable normal.
func (m *Mesh) hasNormals() bool {
	for _, p := range m.Parts {
		for _, v := range p.Vertices {
			if v.Normal.Len() > 0.001 {
				return true
			}
		}
	}
	return false
}

// Transform applies a transformation matrix to all vertices. Normals go
// through the inverse transpose so non-uniform scales keep them
// perpendicular.
func (m *Mesh) Transform(mat math3d.Mat4) {
	xf := mat.Mgl32()
	nm := xf.Mat3().Inv().Transpose()
	for i := range m.Parts {
		for j := range m.Parts[i].Vertices {
			v := &m.Parts[i].Vertices[j]
			v.Pos = mgl32.TransformCoordinate(v.Pos, xf)
			v.Normal = normalize(nm.Mul3x1(v.Normal))
			v.Tangent = normalize(mgl32.TransformNormal(v.Tangent, xf))
			v.Binormal = normalize(mgl32.TransformNormal(v.Binormal, xf))
		}
	}
	m.CalculateBounds()
}

// Clone creates a copy of the mesh. Vertex and index storage is copied;
// textures stay shared.
func (m *Mesh) Clone() *Mesh {
	clone := &Mesh{
		Name:      m.Name,
		Parts:     make([]Part, len(m.Parts)),
		Materials: slices.Clone(m.Materials),
		BoundsMin: m.BoundsMin,
		BoundsMax: m.BoundsMax,
	}
	for i, p := range m.Parts {
		p.Vertices = slices.Clone(p.Vertices)
		p.Indices = slices.Clone(p.Indices)
		clone.Parts[i] = p
	}
	return clone
}

// GetPartMaterial returns the material index for part i.
// Returns -1 if no material assigned.
func (m *Mesh) GetPartMaterial(i int) int {
	return m.Parts[i].Material
}

// GetMaterial returns the material at index i.
// Returns nil if index is out of bounds or -1.
func (m *Mesh) GetMaterial(i int) *Material {
	if i < 0 || i >= len(m.Materials) {
		return nil
	}
	return &m.Materials[i]
}

// MaterialCount returns the number of materials.
func (m *Mesh) MaterialCount() int {
	return len(m.Materials)
}

func normalize(v mgl32.Vec3) mgl32.Vec3 {
	l := v.Len()
	if l == 0 {
		return v
	}
	return v.Mul(1 / l)
}

// Draw draws every part with the pipeline material pick returns for the
// part's material, which is nil for parts without one. It returns false when
// the whole mesh lies outside the view frustum.
func (m *Mesh) Draw(p *render.Pipeline, world math3d.Mat4, pick func(*Material) render.Material) bool {
	p.SetTransform(render.TransformWorld, world)
	if !p.Visible(m, world) {
		return false
	}
	for i := range m.Parts {
		p.SetMaterial(pick(m.GetMaterial(m.Parts[i].Material)))
		b := m.Buffer(i)
		p.DrawIndexedPrimitives(b.Vertices, b.Indices, b.Count, b.Primitive)
	}
	return true
}
