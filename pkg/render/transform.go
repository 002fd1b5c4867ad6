package render

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/taigrr/tripipe/pkg/math3d"
)

// TransformState names one of the matrices the pipeline applies.
type TransformState int

const (
	TransformWorld TransformState = iota
	TransformView
	TransformProjection
	TransformTexture0
	TransformTexture1

	transformCount
)

// transformSet holds the caller matrices plus the products derived from them.
// Derived values are recomputed lazily at the start of a draw call.
type transformSet struct {
	host   [transformCount]math3d.Mat4
	m      [transformCount]mgl32.Mat4
	texIdt [MaxTextureStages]bool

	worldView mgl32.Mat4
	clip      mgl32.Mat4 // Projection * View * World
	normal    mgl32.Mat3 // inverse transpose of WorldView

	dirty bool
}

func newTransformSet() transformSet {
	var t transformSet
	for i := range t.m {
		t.host[i] = math3d.Identity()
		t.m[i] = mgl32.Ident4()
	}
	for i := range t.texIdt {
		t.texIdt[i] = true
	}
	t.dirty = true
	return t
}

func (t *transformSet) set(s TransformState, m math3d.Mat4) {
	if s < 0 || s >= transformCount {
		return
	}
	t.host[s] = m
	t.m[s] = m.Mgl32()
	if s >= TransformTexture0 {
		t.texIdt[s-TransformTexture0] = t.m[s] == mgl32.Ident4()
	}
	t.dirty = true
}

func (t *transformSet) update() {
	if !t.dirty {
		return
	}
	t.worldView = t.m[TransformView].Mul4(t.m[TransformWorld])
	t.clip = t.m[TransformProjection].Mul4(t.worldView)
	wv := t.worldView.Mat3()
	if wv.Det() != 0 {
		t.normal = wv.Inv().Transpose()
	} else {
		t.normal = wv
	}
	t.dirty = false
}

// viewProjection returns Projection * View in host precision.
func (t *transformSet) viewProjection() math3d.Mat4 {
	return t.host[TransformProjection].Mul(t.host[TransformView])
}
