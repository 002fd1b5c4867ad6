package render

import (
	"math"

	"github.com/brunoga/deep"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/taigrr/tripipe/pkg/math3d"
)

// LightType is the kind of a light source.
type LightType int

const (
	LightDirectional LightType = iota
	LightPoint
	LightSpot
)

func (t LightType) String() string {
	switch t {
	case LightDirectional:
		return "directional"
	case LightPoint:
		return "point"
	case LightSpot:
		return "spot"
	default:
		return "unknown"
	}
}

// Light is a light source in world space.
type Light struct {
	Type      LightType
	Position  math3d.Vec3 // point and spot
	Direction math3d.Vec3 // directional and spot; the direction light travels

	// Attenuation holds the constant, linear and quadratic coefficients.
	Attenuation [3]float32

	Ambient  mgl32.Vec4
	Diffuse  mgl32.Vec4
	Specular mgl32.Vec4

	SpotCutoff   float32 // half angle in radians
	SpotExponent float32

	Enabled bool
}

// NewDirectionalLight returns an enabled white directional light.
func NewDirectionalLight(dir math3d.Vec3) Light {
	return Light{
		Type:        LightDirectional,
		Direction:   dir,
		Attenuation: [3]float32{1, 0, 0},
		Diffuse:     mgl32.Vec4{1, 1, 1, 1},
		Specular:    mgl32.Vec4{1, 1, 1, 1},
		Enabled:     true,
	}
}

// NewPointLight returns an enabled white point light.
func NewPointLight(pos math3d.Vec3, attenuation [3]float32) Light {
	return Light{
		Type:        LightPoint,
		Position:    pos,
		Attenuation: attenuation,
		Diffuse:     mgl32.Vec4{1, 1, 1, 1},
		Specular:    mgl32.Vec4{1, 1, 1, 1},
		Enabled:     true,
	}
}

// LightList is an ordered set of lights that persists across draw calls.
type LightList struct {
	lights  []Light
	version uint64
}

// Add appends a light and returns its index.
func (l *LightList) Add(light Light) int {
	l.lights = append(l.lights, light)
	l.version++
	return len(l.lights) - 1
}

// Set replaces the light at index i.
func (l *LightList) Set(i int, light Light) {
	if i < 0 || i >= len(l.lights) {
		return
	}
	l.lights[i] = light
	l.version++
}

// Remove deletes the light at index i. Later lights shift down by one.
func (l *LightList) Remove(i int) {
	if i < 0 || i >= len(l.lights) {
		return
	}
	l.lights = append(l.lights[:i], l.lights[i+1:]...)
	l.version++
}

// Enable switches the light at index i on or off.
func (l *LightList) Enable(i int, on bool) {
	if i < 0 || i >= len(l.lights) || l.lights[i].Enabled == on {
		return
	}
	l.lights[i].Enabled = on
	l.version++
}

// Clear removes all lights.
func (l *LightList) Clear() {
	l.lights = l.lights[:0]
	l.version++
}

// Len returns the number of lights, enabled or not.
func (l *LightList) Len() int { return len(l.lights) }

// At returns the light at index i.
func (l *LightList) At(i int) Light { return l.lights[i] }

// eyeLight is a light transformed into view space, ready for per-vertex use.
type eyeLight struct {
	typ      LightType
	pos      mgl32.Vec3
	dir      mgl32.Vec3 // normalized
	atten    [3]float32
	ambient  mgl32.Vec4
	diffuse  mgl32.Vec4
	specular mgl32.Vec4
	spotCos  float32
	spotExp  float32
}

// buildEyeLights snapshots the enabled lights and moves them into view space.
func buildEyeLights(dst []eyeLight, list *LightList, view math3d.Mat4) []eyeLight {
	dst = dst[:0]
	for _, l := range deep.MustCopy(list.lights) {
		if !l.Enabled {
			continue
		}
		dst = append(dst, eyeLight{
			typ:      l.Type,
			pos:      view.MulVec3(l.Position).Mgl32(),
			dir:      safeNormalize(view.MulVec3Dir(l.Direction).Mgl32()),
			atten:    l.Attenuation,
			ambient:  l.Ambient,
			diffuse:  l.Diffuse,
			specular: l.Specular,
			spotCos:  float32(math.Cos(float64(l.SpotCutoff))),
			spotExp:  l.SpotExponent,
		})
	}
	return dst
}

// direction returns the unit vector from eye toward the light and the
// combined attenuation and spot factor. A zero factor means the light does
// not reach the point.
func (l *eyeLight) direction(eye mgl32.Vec3) (mgl32.Vec3, float32) {
	if l.typ == LightDirectional {
		return l.dir.Mul(-1), 1
	}

	d := l.pos.Sub(eye)
	dist := d.Len()
	var dir mgl32.Vec3
	if dist > 0 {
		dir = d.Mul(1 / dist)
	}

	att := float32(1)
	if den := l.atten[0] + l.atten[1]*dist + l.atten[2]*dist*dist; den > 0 {
		att = 1 / den
	}

	if l.typ == LightSpot {
		cos := -dir.Dot(l.dir)
		if cos < l.spotCos {
			return dir, 0
		}
		if l.spotExp > 0 {
			att *= float32(math.Pow(float64(cos), float64(l.spotExp)))
		}
	}
	return dir, att
}

func safeNormalize(v mgl32.Vec3) mgl32.Vec3 {
	l := v.Len()
	if l == 0 {
		return v
	}
	return v.Mul(1 / l)
}
