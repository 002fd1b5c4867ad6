package render

import (
	"math"
	"testing"

	"github.com/taigrr/tripipe/pkg/math3d"
)

type testMesh struct {
	buffers  []MeshBuffer
	min, max math3d.Vec3
}

func (m *testMesh) BufferCount() int        { return len(m.buffers) }
func (m *testMesh) Buffer(i int) MeshBuffer { return m.buffers[i] }

type boundedTestMesh struct{ testMesh }

func (m *boundedTestMesh) GetBounds() (min, max math3d.Vec3) { return m.min, m.max }

func unitQuadMesh() testMesh {
	vb, ib := quad(-0.5, -0.5, 0.5, 0.5, 0, ColorGreen)
	return testMesh{
		buffers: []MeshBuffer{{Vertices: vb, Indices: ib, Primitive: TriangleList, Count: 2}},
		min:     math3d.V3(-0.5, -0.5, 0),
		max:     math3d.V3(0.5, 0.5, 0),
	}
}

func meshPipeline() *Pipeline {
	p := newTestPipeline(32, 32)
	cam := NewCamera()
	cam.SetAspectRatio(1)
	cam.SetPosition(math3d.V3(0, 0, 3))
	p.SetCamera(cam)
	return p
}

func TestDrawMesh(t *testing.T) {
	p := meshPipeline()
	mesh := &boundedTestMesh{unitQuadMesh()}

	if !p.DrawMesh(mesh, math3d.Identity()) {
		t.Fatal("visible mesh reported as culled")
	}
	s := p.Stats()
	if s.MeshesTested != 1 || s.MeshesCulled != 0 || s.Triangles != 2 {
		t.Errorf("stats = %+v", s)
	}
	if got := p.RenderTarget().Color.GetPixel(16, 16); got != ColorGreen {
		t.Errorf("center pixel = %v, want green", got)
	}
}

func TestDrawMeshFrustumCulled(t *testing.T) {
	p := meshPipeline()
	mesh := &boundedTestMesh{unitQuadMesh()}

	// Behind the camera.
	if p.DrawMesh(mesh, math3d.Translate(math3d.V3(0, 0, 10))) {
		t.Fatal("mesh behind the camera was drawn")
	}
	s := p.Stats()
	if s.MeshesCulled != 1 || s.DrawCalls != 0 {
		t.Errorf("stats = %+v, want one culled mesh and no draw calls", s)
	}
}

func TestDrawMeshUnbounded(t *testing.T) {
	p := meshPipeline()
	mesh := unitQuadMesh()

	if !p.DrawMesh(&mesh, math3d.RotateY(math.Pi/8)) {
		t.Fatal("unbounded mesh should never be culled")
	}
	if s := p.Stats(); s.MeshesTested != 0 || s.DrawCalls != 1 {
		t.Errorf("stats = %+v", s)
	}
	if p.Transform(TransformWorld) != math3d.RotateY(math.Pi/8) {
		t.Error("DrawMesh did not set the world transform")
	}
}
