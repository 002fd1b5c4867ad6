package render

import (
	"path/filepath"
	"testing"
)

func TestRenderTargetClear(t *testing.T) {
	rt := NewRenderTarget(7, 5)
	rt.Clear(ColorBlue, 0.75, 3)

	for i := range rt.Depth {
		if rt.Depth[i] != 0.75 || rt.Stencil[i] != 3 || rt.Color.Pixels[i] != ColorBlue {
			t.Fatalf("element %d = %v/%v/%v", i, rt.Color.Pixels[i], rt.Depth[i], rt.Stencil[i])
		}
	}
	if rt.Width() != 7 || rt.Height() != 5 || rt.Bounds().Dx() != 7 {
		t.Errorf("size = %dx%d", rt.Width(), rt.Height())
	}
}

func TestFill(t *testing.T) {
	for _, n := range []int{0, 1, 2, 3, 17, 64} {
		s := make([]int, n)
		fill(s, 9)
		for i, v := range s {
			if v != 9 {
				t.Fatalf("n=%d: s[%d] = %d", n, i, v)
			}
		}
	}
}

func TestPipelineClearUsesDepthMode(t *testing.T) {
	for _, mode := range []DepthMode{DepthZ, DepthInvW} {
		p := NewPipeline(NewRenderTarget(2, 2), WithDepthMode(mode))
		p.Clear(ColorBlack)
		if got := p.RenderTarget().Depth[0]; got != mode.clearValue() {
			t.Errorf("%v: depth = %v, want %v", mode, got, mode.clearValue())
		}
	}
}

func TestFramebufferSavePNG(t *testing.T) {
	fb := NewFramebuffer(4, 2)
	fb.Clear(ColorRed)
	fb.SetPixel(1, 1, ColorGreen)
	fb.SetPixel(9, 9, ColorGreen) // ignored

	path := filepath.Join(t.TempDir(), "out.png")
	if err := fb.SavePNG(path); err != nil {
		t.Fatalf("SavePNG: %v", err)
	}
	tex, err := LoadTexture(path)
	if err != nil {
		t.Fatalf("LoadTexture: %v", err)
	}
	if tex.GetPixel(1, 1) != ColorGreen || tex.GetPixel(0, 0) != ColorRed {
		t.Errorf("round trip pixels = %v, %v", tex.GetPixel(1, 1), tex.GetPixel(0, 0))
	}
}
