package render

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func clipPair(x, y, z, w float32) VertexPair {
	pos := mgl32.Vec4{x, y, z, w}
	return VertexPair{NDC: Vertex{
		Flag: formatFlag(1, 2, 0) | clipFlags(pos),
		Pos:  pos,
	}}
}

func TestClipFlags(t *testing.T) {
	tests := []struct {
		name string
		pos  mgl32.Vec4
		want VertexFlag
	}{
		{"center", mgl32.Vec4{0, 0, 0, 1}, ClipMask},
		{"on every plane", mgl32.Vec4{1, 1, 1, 1}, ClipMask},
		{"right of frustum", mgl32.Vec4{2, 0, 0, 1}, ClipMask &^ ClipRight},
		{"behind near", mgl32.Vec4{0, 0, -2, 1}, ClipMask &^ ClipNear},
		{"above and left", mgl32.Vec4{-2, 2, 0, 1}, ClipMask &^ (ClipLeft | ClipTop)},
		{"negative w", mgl32.Vec4{0, 0, 0, -1}, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := clipFlags(tc.pos); got != tc.want {
				t.Errorf("clipFlags(%v) = %06b, want %06b", tc.pos, got, tc.want)
			}
		})
	}
}

func TestClipTriangleInside(t *testing.T) {
	a, b, c := clipPair(-0.5, -0.5, 0, 1), clipPair(0, 0.5, 0, 1), clipPair(0.5, -0.5, 0, 1)
	var cl clipper
	poly := cl.clipTriangle([3]*VertexPair{&a, &b, &c})
	if len(poly) != 3 {
		t.Fatalf("got %d vertices, want 3", len(poly))
	}
	for i, want := range []VertexPair{a, b, c} {
		if poly[i].NDC.Pos != want.NDC.Pos {
			t.Errorf("vertex %d = %v, want %v", i, poly[i].NDC.Pos, want.NDC.Pos)
		}
	}
}

func TestClipTriangleOutside(t *testing.T) {
	a, b, c := clipPair(2, 0, 0, 1), clipPair(3, 1, 0, 1), clipPair(3, -1, 0, 1)
	var cl clipper
	if poly := cl.clipTriangle([3]*VertexPair{&a, &b, &c}); poly != nil {
		t.Errorf("got %d vertices, want nil", len(poly))
	}
}

func TestClipTriangleRightPlane(t *testing.T) {
	// One vertex beyond x = w: the triangle becomes a quad with two vertices
	// on the plane.
	a, b, c := clipPair(0, -0.5, 0, 1), clipPair(0, 0.5, 0, 1), clipPair(2, 0, 0, 1)
	var cl clipper
	poly := cl.clipTriangle([3]*VertexPair{&a, &b, &c})
	if len(poly) != 4 {
		t.Fatalf("got %d vertices, want 4", len(poly))
	}

	onPlane := 0
	for i, v := range poly {
		if !v.NDC.Flag.Inside() {
			t.Errorf("vertex %d at %v is outside", i, v.NDC.Pos)
		}
		if v.NDC.Flag&FormatMask != a.NDC.Flag&FormatMask {
			t.Errorf("vertex %d lost its format bits", i)
		}
		if v.Projected() {
			t.Errorf("vertex %d has a stale device half", i)
		}
		if math.Abs(float64(v.NDC.Pos[0]-v.NDC.Pos[3])) < 1e-6 {
			onPlane++
			if y := math.Abs(float64(v.NDC.Pos[1])); math.Abs(y-0.25) > 1e-6 {
				t.Errorf("vertex %d y = %v, want ±0.25", i, v.NDC.Pos[1])
			}
		}
	}
	if onPlane != 2 {
		t.Errorf("%d vertices on x = w, want 2", onPlane)
	}
}

func TestClipPolygonGrowsByAtMostOne(t *testing.T) {
	planes := clipPlanes
	src := []VertexPair{
		clipPair(-2, -0.5, 0, 1),
		clipPair(0, 2, 0, 1),
		clipPair(2, -0.5, 0, 1),
		clipPair(0, -2, 0, 1),
	}
	dst := make([]VertexPair, len(src)+1)
	for i, plane := range planes {
		n := clipPolygon(dst, src, plane)
		if n > len(src)+1 {
			t.Errorf("plane %d: %d vertices from %d", i, n, len(src))
		}
	}
}

func TestClipTriangleCorner(t *testing.T) {
	// A large triangle crossing four side planes still fits the scratch
	// space.
	a, b, c := clipPair(-3, -3, 0, 1), clipPair(0, 5, 0, 1), clipPair(3, -3, 0, 1)
	var cl clipper
	poly := cl.clipTriangle([3]*VertexPair{&a, &b, &c})
	if len(poly) < 3 || len(poly) > clipCapacity {
		t.Fatalf("got %d vertices, want 3..%d", len(poly), clipCapacity)
	}
	for i, v := range poly {
		for axis := range 2 {
			if math.Abs(float64(v.NDC.Pos[axis])) > 1+1e-5 {
				t.Errorf("vertex %d at %v escapes the unit square", i, v.NDC.Pos)
			}
		}
	}
}

func TestLerpVertex(t *testing.T) {
	a := Vertex{
		Flag:  formatFlag(2, 2, 1),
		Pos:   mgl32.Vec4{2, 4, 6, 1},
		Tex:   [MaxTextureStages]mgl32.Vec2{{1, 1}, {0, 2}},
		Color: [MaxColors]mgl32.Vec4{{1, 0, 0, 1}, {0, 0, 0, 0}},
		LightTangent: [MaxLightTangents]mgl32.Vec3{
			{1, 0, 0},
		},
	}
	b := Vertex{Flag: a.Flag}

	for _, tt := range []float32{0, 0.25, 0.5, 1} {
		var d Vertex
		lerpVertex(&d, &a, &b, tt)
		want := a.Pos.Mul(tt)
		if !d.Pos.ApproxEqual(want) {
			t.Errorf("t=%v: pos = %v, want %v", tt, d.Pos, want)
		}
		if !d.Tex[1].ApproxEqual(a.Tex[1].Mul(tt)) {
			t.Errorf("t=%v: tex1 = %v", tt, d.Tex[1])
		}
		if !d.Color[0].ApproxEqual(a.Color[0].Mul(tt)) {
			t.Errorf("t=%v: color = %v", tt, d.Color[0])
		}
		if !d.LightTangent[0].ApproxEqual(a.LightTangent[0].Mul(tt)) {
			t.Errorf("t=%v: tangent = %v", tt, d.LightTangent[0])
		}
		if d.Flag != a.Flag&FormatMask {
			t.Errorf("t=%v: flag = %x", tt, d.Flag)
		}
	}
}
