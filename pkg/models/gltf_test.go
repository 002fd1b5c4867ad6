package models

import (
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/taigrr/tripipe/pkg/math3d"
	"github.com/taigrr/tripipe/pkg/render"
)

// triangleDoc builds a document with one counter-clockwise triangle facing +z.
func triangleDoc(withNormals bool) *gltf.Document {
	doc := gltf.NewDocument()
	attrs := gltf.PrimitiveAttributes{
		gltf.POSITION: modeler.WritePosition(doc, [][3]float32{{-1, -1, 0}, {1, -1, 0}, {0, 1, 0}}),
		gltf.TEXCOORD_0: modeler.WriteTextureCoord(doc, [][2]float32{{0, 1}, {1, 1}, {0.5, 0}}),
	}
	if withNormals {
		attrs[gltf.NORMAL] = modeler.WriteNormal(doc, [][3]float32{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}})
	}
	doc.Meshes = []*gltf.Mesh{{
		Name: "tri",
		Primitives: []*gltf.Primitive{{
			Attributes: attrs,
			Indices:    gltf.Index(modeler.WriteIndices(doc, []uint16{0, 1, 2})),
			Material:   gltf.Index(0),
		}},
	}}
	doc.Materials = []*gltf.Material{{
		Name: "red",
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: &[4]float64{1, 0, 0, 1},
		},
	}}
	return doc
}

func TestLoadGLBInvalidPath(t *testing.T) {
	_, err := LoadGLB("/nonexistent/path.glb")
	if err == nil {
		t.Error("Expected error for nonexistent file")
	}
}

func TestGLTFLoaderCreation(t *testing.T) {
	loader := NewGLTFLoader()
	if !loader.CalculateNormals {
		t.Error("CalculateNormals should default to true")
	}
	if !loader.Textures {
		t.Error("Textures should default to true")
	}
}

func TestDecodeTriangle(t *testing.T) {
	mesh, err := NewGLTFLoader().Decode(triangleDoc(true), "dir/tri.glb")
	if err != nil {
		t.Fatal(err)
	}

	if mesh.Name != "tri.glb" {
		t.Errorf("Name = %q", mesh.Name)
	}
	if mesh.BufferCount() != 1 || mesh.TriangleCount() != 1 || mesh.VertexCount() != 3 {
		t.Fatalf("buffers=%d triangles=%d vertices=%d", mesh.BufferCount(), mesh.TriangleCount(), mesh.VertexCount())
	}

	part := mesh.Parts[0]
	if part.Primitive != render.TriangleList || part.Format != render.VertexStandard {
		t.Errorf("primitive %v format %v", part.Primitive, part.Format)
	}
	want := render.Index32{0, 2, 1}
	for i := range want {
		if part.Indices[i] != want[i] {
			t.Fatalf("indices = %v, want reversed winding %v", part.Indices, want)
		}
	}
	if got := part.Vertices[2].TCoords; got != (mgl32.Vec2{0.5, 1}) {
		t.Errorf("uv = %v, want V flipped", got)
	}
	if part.Vertices[0].Color != render.ColorWhite {
		t.Errorf("vertex color = %v, want white without COLOR_0", part.Vertices[0].Color)
	}

	lo, hi := mesh.GetBounds()
	if lo != math3d.V3(-1, -1, 0) || hi != math3d.V3(1, 1, 0) {
		t.Errorf("bounds = %v..%v", lo, hi)
	}

	if mesh.MaterialCount() != 1 || mesh.GetPartMaterial(0) != 0 {
		t.Fatalf("materials = %d, part material %d", mesh.MaterialCount(), mesh.GetPartMaterial(0))
	}
	mat := mesh.GetMaterial(0)
	if mat.BaseColor != [4]float64{1, 0, 0, 1} || mat.Metallic != 1 || mat.Roughness != 1 {
		t.Errorf("material = %+v", mat)
	}
}

func TestDecodeCalculatesOutwardNormals(t *testing.T) {
	mesh, err := NewGLTFLoader().Decode(triangleDoc(false), "tri.glb")
	if err != nil {
		t.Fatal(err)
	}
	for i, v := range mesh.Parts[0].Vertices {
		if !v.Normal.ApproxEqual(mgl32.Vec3{0, 0, 1}) {
			t.Errorf("vertex %d normal = %v, want +z", i, v.Normal)
		}
	}
}

func TestDecodedTriangleIsFrontFacing(t *testing.T) {
	mesh, err := NewGLTFLoader().Decode(triangleDoc(true), "tri.glb")
	if err != nil {
		t.Fatal(err)
	}

	p := render.NewPipeline(render.NewRenderTarget(32, 32))
	p.Clear(render.ColorBlack)
	cam := render.NewCamera()
	cam.SetAspectRatio(1)
	cam.SetPosition(math3d.V3(0, 0, 3))
	p.SetCamera(cam)

	m := render.DefaultMaterial()
	m.BackfaceCulling = true
	p.SetMaterial(m)
	if !p.DrawMesh(mesh, math3d.Identity()) {
		t.Fatal("mesh culled")
	}
	if got := p.RenderTarget().Color.GetPixel(16, 16); got != render.ColorWhite {
		t.Errorf("center pixel = %v, want white", got)
	}
	if s := p.Stats(); s.Culled != 0 {
		t.Errorf("stats = %+v, want no culled triangles", s)
	}
}

func TestLoadGLBRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tri.glb")
	if err := gltf.SaveBinary(triangleDoc(true), path); err != nil {
		t.Fatal(err)
	}

	mesh, tex, err := LoadGLBWithTexture(path)
	if err != nil {
		t.Fatal(err)
	}
	if tex != nil {
		t.Error("untextured file returned a texture")
	}
	if mesh.TriangleCount() != 1 {
		t.Errorf("TriangleCount = %d, want 1", mesh.TriangleCount())
	}
}

func TestConvertTopology(t *testing.T) {
	tests := []struct {
		name string
		mode gltf.PrimitiveMode
		in   []uint32
		pt   render.PrimitiveType
		want render.Index32
	}{
		{"triangles", gltf.PrimitiveTriangles, []uint32{0, 1, 2, 3, 4, 5, 6}, render.TriangleList, render.Index32{0, 2, 1, 3, 5, 4}},
		{"strip", gltf.PrimitiveTriangleStrip, []uint32{0, 1, 2, 3}, render.TriangleStrip, render.Index32{0, 0, 1, 2, 3}},
		{"fan", gltf.PrimitiveTriangleFan, []uint32{0, 1, 2, 3}, render.TriangleFan, render.Index32{0, 3, 2, 1}},
		{"points", gltf.PrimitivePoints, []uint32{4, 5}, render.Points, render.Index32{4, 5}},
		{"lines", gltf.PrimitiveLines, []uint32{0, 1}, render.Lines, render.Index32{0, 1}},
		{"line strip", gltf.PrimitiveLineStrip, []uint32{0, 1, 2}, render.LineStrip, render.Index32{0, 1, 2}},
		{"line loop", gltf.PrimitiveLineLoop, []uint32{0, 1, 2}, render.LineStrip, render.Index32{0, 1, 2, 0}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pt, got := convertTopology(tc.mode, tc.in)
			if pt != tc.pt {
				t.Errorf("type = %v, want %v", pt, tc.pt)
			}
			if len(got) != len(tc.want) {
				t.Fatalf("indices = %v, want %v", got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("indices = %v, want %v", got, tc.want)
				}
			}
		})
	}
}

func TestConvertTopologyReversesStripWinding(t *testing.T) {
	// Every non-degenerate strip triangle must be the mirror of the glTF one.
	part := Part{Primitive: render.TriangleStrip}
	_, part.Indices = convertTopology(gltf.PrimitiveTriangleStrip, []uint32{0, 1, 2, 3, 4})

	// glTF strip triangles: (0,1,2) (1,3,2) (2,3,4). Reversed, as sets in
	// cyclic order: (0,2,1) (1,2,3) (2,4,3).
	want := [][3]uint32{{0, 2, 1}, {1, 2, 3}, {2, 4, 3}}
	var got [][3]uint32
	part.triangles(func(a, b, c uint32) {
		if a == b || b == c || a == c {
			return
		}
		got = append(got, [3]uint32{a, b, c})
	})
	if len(got) != len(want) {
		t.Fatalf("triangles = %v, want %v", got, want)
	}
	for i := range want {
		if !sameCycle(got[i], want[i]) {
			t.Errorf("triangle %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func sameCycle(a, b [3]uint32) bool {
	for r := range 3 {
		if a[r] == b[0] && a[(r+1)%3] == b[1] && a[(r+2)%3] == b[2] {
			return true
		}
	}
	return false
}
