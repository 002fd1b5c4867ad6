package models

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/taigrr/tripipe/pkg/math3d"
	"github.com/taigrr/tripipe/pkg/render"
)

// quadMesh is a unit quad in the z=0 plane facing +z, drawn as a fan.
func quadMesh() *Mesh {
	mesh := NewMesh("quad")
	mesh.Parts = []Part{{
		Format: render.VertexStandard,
		Vertices: []render.SourceVertex{
			{Pos: mgl32.Vec3{-1, -1, 0}},
			{Pos: mgl32.Vec3{-1, 1, 0}},
			{Pos: mgl32.Vec3{1, 1, 0}},
			{Pos: mgl32.Vec3{1, -1, 0}},
		},
		Indices:   render.Index32{0, 1, 2, 3},
		Primitive: render.TriangleFan,
		Material:  -1,
	}}
	mesh.CalculateBounds()
	return mesh
}

func TestRenderMaterial(t *testing.T) {
	tex := render.NewTexture(2, 2)

	tests := []struct {
		name      string
		mat       Material
		wantType  render.MaterialType
		wantCull  bool
		wantZW    bool
		shininess bool
	}{
		{"opaque rough", Material{BaseColor: [4]float64{1, 0, 0, 1}, Roughness: 1}, render.MaterialSolid, true, true, false},
		{"double sided", Material{BaseColor: [4]float64{1, 1, 1, 1}, Roughness: 1, DoubleSided: true}, render.MaterialSolid, false, true, false},
		{"shiny", Material{BaseColor: [4]float64{1, 1, 1, 1}, Roughness: 0.2}, render.MaterialSolid, true, true, true},
		{"mask", Material{BaseColor: [4]float64{1, 1, 1, 1}, Roughness: 1, BaseMap: tex, Alpha: AlphaMask, AlphaCutoff: 0.3}, render.MaterialTransparentAlphaChannelRef, true, true, false},
		{"mask untextured", Material{BaseColor: [4]float64{1, 1, 1, 1}, Roughness: 1, Alpha: AlphaMask}, render.MaterialSolid, true, true, false},
		{"blend", Material{BaseColor: [4]float64{1, 1, 1, 0.5}, Roughness: 1, BaseMap: tex, Alpha: AlphaBlend}, render.MaterialTransparentAlphaChannel, true, false, false},
		{"blend untextured", Material{BaseColor: [4]float64{1, 1, 1, 0.5}, Roughness: 1, Alpha: AlphaBlend}, render.MaterialTransparentVertexAlpha, true, false, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.mat.RenderMaterial()
			if got.Type != tc.wantType {
				t.Errorf("Type = %v, want %v", got.Type, tc.wantType)
			}
			if got.BackfaceCulling != tc.wantCull {
				t.Errorf("BackfaceCulling = %v", got.BackfaceCulling)
			}
			if got.ZWrite != tc.wantZW {
				t.Errorf("ZWrite = %v", got.ZWrite)
			}
			if (got.Shininess > 0) != tc.shininess {
				t.Errorf("Shininess = %v", got.Shininess)
			}
			if !got.Lighting {
				t.Error("converted materials are lit")
			}
			if got.Textures[0] != tc.mat.BaseMap {
				t.Error("base map not bound to stage 0")
			}
			b := tc.mat.BaseColor
			want := mgl32.Vec4{float32(b[0]), float32(b[1]), float32(b[2]), float32(b[3])}
			if got.DiffuseColor != want {
				t.Errorf("DiffuseColor = %v, want %v", got.DiffuseColor, want)
			}
		})
	}
}

func TestRenderMaterialMetalTintsSpecular(t *testing.T) {
	m := Material{BaseColor: [4]float64{1, 0.5, 0, 1}, Metallic: 1, Roughness: 0}
	got := m.RenderMaterial()
	if !got.SpecularColor.ApproxEqual(mgl32.Vec4{1, 0.5, 0, 1}) {
		t.Errorf("SpecularColor = %v, want the base color", got.SpecularColor)
	}
	if got.Shininess != 128 {
		t.Errorf("Shininess = %v, want 128", got.Shininess)
	}
}

func TestMaterialLookup(t *testing.T) {
	mesh := NewMesh("test")
	mesh.Materials = []Material{{Name: "red"}, {Name: "green"}}

	if mat := mesh.GetMaterial(0); mat == nil || mat.Name != "red" {
		t.Errorf("GetMaterial(0) should return 'red' material")
	}
	if mesh.GetMaterial(-1) != nil {
		t.Errorf("GetMaterial(-1) should return nil")
	}
	if mesh.GetMaterial(99) != nil {
		t.Errorf("GetMaterial(99) should return nil for out-of-bounds")
	}
	if mesh.MaterialCount() != 2 {
		t.Errorf("MaterialCount = %d, want 2", mesh.MaterialCount())
	}
}

func TestMeshClone(t *testing.T) {
	mesh := quadMesh()
	mesh.Materials = []Material{{Name: "mat1"}}

	clone := mesh.Clone()
	clone.Materials[0].Name = "modified"
	clone.Parts[0].Vertices[0].Pos = mgl32.Vec3{9, 9, 9}
	clone.Parts[0].Indices[0] = 3

	if mesh.Materials[0].Name == "modified" {
		t.Error("Clone should have independent material copy")
	}
	if mesh.Parts[0].Vertices[0].Pos[0] == 9 || mesh.Parts[0].Indices[0] == 3 {
		t.Error("Clone should have independent vertex and index storage")
	}
}

func TestMeshBufferAndBounds(t *testing.T) {
	mesh := quadMesh()

	b := mesh.Buffer(0)
	if b.Primitive != render.TriangleFan || b.Count != 2 || b.Indices.Len() != 4 {
		t.Errorf("buffer = %+v", b)
	}
	if mesh.TriangleCount() != 2 {
		t.Errorf("TriangleCount = %d, want 2", mesh.TriangleCount())
	}
	if mesh.Center() != math3d.V3(0, 0, 0) || mesh.Size() != math3d.V3(2, 2, 0) {
		t.Errorf("center %v size %v", mesh.Center(), mesh.Size())
	}
}

func TestMeshSmoothNormals(t *testing.T) {
	mesh := quadMesh()
	mesh.CalculateSmoothNormals()
	for i, v := range mesh.Parts[0].Vertices {
		if !v.Normal.ApproxEqual(mgl32.Vec3{0, 0, 1}) {
			t.Errorf("vertex %d normal = %v, want +z", i, v.Normal)
		}
	}
}

func TestMeshTransform(t *testing.T) {
	mesh := quadMesh()
	mesh.CalculateSmoothNormals()
	mesh.Transform(math3d.Translate(math3d.V3(0, 0, -5)).Mul(math3d.Scale(math3d.V3(2, 1, 1))))

	lo, hi := mesh.GetBounds()
	if lo != math3d.V3(-2, -1, -5) || hi != math3d.V3(2, 1, -5) {
		t.Errorf("bounds = %v..%v", lo, hi)
	}
	if n := mesh.Parts[0].Vertices[0].Normal; !n.ApproxEqual(mgl32.Vec3{0, 0, 1}) {
		t.Errorf("normal = %v, want +z after a scale in x", n)
	}
}

func TestMeshDrawPicksMaterialPerPart(t *testing.T) {
	mesh := quadMesh()
	for i := range mesh.Parts[0].Vertices {
		mesh.Parts[0].Vertices[i].Color = render.ColorWhite
	}
	back := mesh.Clone().Parts[0]
	back.Material = 0
	mesh.Parts = append(mesh.Parts, back)
	mesh.Materials = []Material{{Name: "hidden"}}

	p := render.NewPipeline(render.NewRenderTarget(16, 16))
	p.Clear(render.ColorBlack)
	cam := render.NewCamera()
	cam.SetAspectRatio(1)
	cam.SetPosition(math3d.V3(0, 0, 3))
	p.SetCamera(cam)

	var picked []string
	pick := func(m *Material) render.Material {
		out := render.DefaultMaterial()
		if m == nil {
			picked = append(picked, "none")
			return out
		}
		picked = append(picked, m.Name)
		out.ZTest = true
		out.Stencil = render.StencilEqual
		out.StencilRef = 1
		return out
	}

	if !mesh.Draw(p, math3d.Identity(), pick) {
		t.Fatal("mesh culled")
	}
	if len(picked) != 2 || picked[0] != "none" || picked[1] != "hidden" {
		t.Errorf("picked = %v", picked)
	}
	if got := p.RenderTarget().Color.GetPixel(8, 8); got != render.ColorWhite {
		t.Errorf("center pixel = %v, want white", got)
	}
	if s := p.Stats(); s.MeshesTested != 1 || s.DrawCalls != 2 {
		t.Errorf("stats = %+v", s)
	}

	if mesh.Draw(p, math3d.Translate(math3d.V3(0, 0, 10)), pick) {
		t.Error("mesh behind the camera was drawn")
	}
}
