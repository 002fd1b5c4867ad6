package render

import "image"

// RenderTarget is a color framebuffer with matching depth and stencil
// buffers. It is owned by the caller and written by one pipeline at a time.
type RenderTarget struct {
	Color   *Framebuffer
	Depth   []float32
	Stencil []uint8
}

// NewRenderTarget allocates a target of the given size.
func NewRenderTarget(width, height int) *RenderTarget {
	return &RenderTarget{
		Color:   NewFramebuffer(width, height),
		Depth:   make([]float32, width*height),
		Stencil: make([]uint8, width*height),
	}
}

// Width returns the target width in pixels.
func (t *RenderTarget) Width() int { return t.Color.Width }

// Height returns the target height in pixels.
func (t *RenderTarget) Height() int { return t.Color.Height }

// Bounds returns the full target rectangle.
func (t *RenderTarget) Bounds() image.Rectangle {
	return image.Rect(0, 0, t.Color.Width, t.Color.Height)
}

// Clear fills all three buffers.
func (t *RenderTarget) Clear(c Color, depth float32, stencil uint8) {
	t.Color.Clear(c)
	t.ClearDepth(depth)
	t.ClearStencil(stencil)
}

// ClearDepth fills the depth buffer.
func (t *RenderTarget) ClearDepth(depth float32) {
	fill(t.Depth, depth)
}

// ClearStencil fills the stencil buffer.
func (t *RenderTarget) ClearStencil(v uint8) {
	fill(t.Stencil, v)
}

// fill sets every element of s to v by doubling copies.
func fill[T any](s []T, v T) {
	if len(s) == 0 {
		return
	}
	s[0] = v
	for i := 1; i < len(s); i *= 2 {
		copy(s[i:], s[:i])
	}
}
