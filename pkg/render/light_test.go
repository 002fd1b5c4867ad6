package render

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/taigrr/tripipe/pkg/math3d"
)

func TestLightListVersion(t *testing.T) {
	var l LightList
	v := l.version

	i := l.Add(NewDirectionalLight(math3d.V3(0, -1, 0)))
	if l.version == v || l.Len() != 1 {
		t.Fatalf("Add: version %d, len %d", l.version, l.Len())
	}

	v = l.version
	l.Enable(i, true) // already enabled
	if l.version != v {
		t.Error("no-op Enable bumped the version")
	}
	l.Enable(i, false)
	if l.version == v || l.At(i).Enabled {
		t.Error("Enable(false) did not take effect")
	}

	l.Remove(5)
	l.Remove(i)
	if l.Len() != 0 {
		t.Errorf("Len = %d after Remove", l.Len())
	}
}

func TestBuildEyeLights(t *testing.T) {
	var l LightList
	l.Add(NewDirectionalLight(math3d.V3(0, 0, -2)))
	off := NewPointLight(math3d.V3(1, 2, 3), [3]float32{1, 0, 0})
	off.Enabled = false
	l.Add(off)
	l.Add(NewPointLight(math3d.V3(0, 0, 5), [3]float32{1, 0, 0}))

	view := math3d.Translate(math3d.V3(0, 0, -5))
	eye := buildEyeLights(nil, &l, view)
	if len(eye) != 2 {
		t.Fatalf("got %d eye lights, want 2", len(eye))
	}
	if eye[0].dir != (mgl32.Vec3{0, 0, -1}) {
		t.Errorf("directional dir = %v, want normalized (0,0,-1)", eye[0].dir)
	}
	if eye[1].pos != (mgl32.Vec3{}) {
		t.Errorf("point light eye position = %v, want origin", eye[1].pos)
	}

	// The snapshot does not alias the list.
	l.lights[2].Diffuse = mgl32.Vec4{}
	if eye[1].diffuse == (mgl32.Vec4{}) {
		t.Error("eye light shares state with the list")
	}
}

func TestEyeLightDirection(t *testing.T) {
	tests := []struct {
		name    string
		light   eyeLight
		eye     mgl32.Vec3
		wantDir mgl32.Vec3
		wantAtt float32
	}{
		{
			name:    "directional",
			light:   eyeLight{typ: LightDirectional, dir: mgl32.Vec3{0, -1, 0}},
			wantDir: mgl32.Vec3{0, 1, 0},
			wantAtt: 1,
		},
		{
			name:    "point with quadratic falloff",
			light:   eyeLight{typ: LightPoint, pos: mgl32.Vec3{0, 0, 2}, atten: [3]float32{1, 0, 1}},
			wantDir: mgl32.Vec3{0, 0, 1},
			wantAtt: 0.2,
		},
		{
			name: "spot inside cone",
			light: eyeLight{
				typ: LightSpot, pos: mgl32.Vec3{0, 3, 0}, dir: mgl32.Vec3{0, -1, 0},
				atten: [3]float32{1, 0, 0}, spotCos: float32(math.Cos(0.5)),
			},
			wantDir: mgl32.Vec3{0, 1, 0},
			wantAtt: 1,
		},
		{
			name: "spot outside cone",
			light: eyeLight{
				typ: LightSpot, pos: mgl32.Vec3{3, 0, 0}, dir: mgl32.Vec3{0, -1, 0},
				atten: [3]float32{1, 0, 0}, spotCos: float32(math.Cos(0.5)),
			},
			wantDir: mgl32.Vec3{1, 0, 0},
			wantAtt: 0,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dir, att := tc.light.direction(tc.eye)
			if !dir.ApproxEqual(tc.wantDir) {
				t.Errorf("dir = %v, want %v", dir, tc.wantDir)
			}
			if math.Abs(float64(att-tc.wantAtt)) > 1e-6 {
				t.Errorf("att = %v, want %v", att, tc.wantAtt)
			}
		})
	}
}

func TestTexGen(t *testing.T) {
	// Looking straight at a surface facing the viewer reflects back to the
	// center of the environment map.
	eye := mgl32.Vec3{0, 0, -5}
	n := mgl32.Vec3{0, 0, 1}
	if got := sphereMap(eye, n); !got.ApproxEqual(mgl32.Vec2{0.5, 0.5}) {
		t.Errorf("sphereMap = %v, want (0.5, 0.5)", got)
	}
	if got := reflectionMap(eye, n); !got.ApproxEqual(mgl32.Vec2{0.5, 0.5}) {
		t.Errorf("reflectionMap = %v, want (0.5, 0.5)", got)
	}

	m := DefaultMaterial()
	m.Type = MaterialSphereMap
	if m.texGen(0) != TexGenSphereMap || m.texGen(1) != TexGenNone {
		t.Error("sphere map material should generate stage 0 only")
	}
	m.Type = MaterialReflection2Layer
	if m.texGen(0) != TexGenNone || m.texGen(1) != TexGenReflection {
		t.Error("reflection material should generate stage 1 only")
	}
}
