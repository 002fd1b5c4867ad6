package render

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"

	"golang.org/x/image/draw"
)

// WrapMode controls texture addressing outside [0,1].
type WrapMode int

const (
	WrapRepeat WrapMode = iota
	WrapClamp
)

// FilterMode controls how a sample between texel centers is resolved.
type FilterMode int

const (
	FilterNearest FilterMode = iota
	FilterBilinear
)

// Texture is an RGBA image with non-premultiplied alpha, shared between
// materials by pointer. Row 0 is the top of the image; V=0 samples the
// bottom row.
type Texture struct {
	Width      int
	Height     int
	Pixels     []Color
	WrapU      WrapMode
	WrapV      WrapMode
	FilterMode FilterMode
}

// NewTexture creates a transparent black texture.
func NewTexture(width, height int) *Texture {
	return &Texture{
		Width:  width,
		Height: height,
		Pixels: make([]Color, width*height),
	}
}

// LoadTexture decodes a PNG or JPEG file.
func LoadTexture(path string) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open texture: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode texture %s: %w", path, err)
	}
	return TextureFromImage(img), nil
}

// TextureFromImage converts any image to a texture.
func TextureFromImage(img image.Image) *Texture {
	b := img.Bounds()
	n, ok := img.(*image.NRGBA)
	if !ok || n.Stride != 4*b.Dx() {
		n = image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(n, n.Bounds(), img, b.Min, draw.Src)
	}

	tex := NewTexture(b.Dx(), b.Dy())
	for i := range tex.Pixels {
		p := n.Pix[i*4 : i*4+4 : i*4+4]
		tex.Pixels[i] = Color{R: p[0], G: p[1], B: p[2], A: p[3]}
	}
	return tex
}

// RGBA copies the pixels unchanged into an image. Mip generation scales this
// image and reads it back, so the alpha convention round-trips.
func (t *Texture) RGBA() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, t.Width, t.Height))
	for i, c := range t.Pixels {
		copy(img.Pix[i*4:i*4+4], []uint8{c.R, c.G, c.B, c.A})
	}
	return img
}

// NewCheckerTexture creates a checkerboard of size-pixel squares starting
// with a in the top left corner.
func NewCheckerTexture(width, height, size int, a, b Color) *Texture {
	tex := NewTexture(width, height)
	for y := range height {
		for x := range width {
			c := a
			if (x/size+y/size)&1 == 1 {
				c = b
			}
			tex.Pixels[y*width+x] = c
		}
	}
	return tex
}

// SetPixel ignores coordinates outside the texture.
func (t *Texture) SetPixel(x, y int, c Color) {
	if uint(x) < uint(t.Width) && uint(y) < uint(t.Height) {
		t.Pixels[y*t.Width+x] = c
	}
}

// GetPixel returns transparent black outside the texture.
func (t *Texture) GetPixel(x, y int) Color {
	if uint(x) < uint(t.Width) && uint(y) < uint(t.Height) {
		return t.Pixels[y*t.Width+x]
	}
	return Color{}
}

// Sample samples at (u, v) using the texture's own wrap modes.
func (t *Texture) Sample(u, v float64) Color {
	return t.SampleWrap(u, v, t.WrapU, t.WrapV)
}

// SampleWrap samples at (u, v) with the wrap modes of a material stage.
func (t *Texture) SampleWrap(u, v float64, wrapU, wrapV WrapMode) Color {
	if len(t.Pixels) == 0 {
		return Color{}
	}
	u = wrapUnit(u, wrapU)
	v = 1 - wrapUnit(v, wrapV)

	if t.FilterMode == FilterBilinear {
		return t.bilinear(u*float64(t.Width)-0.5, v*float64(t.Height)-0.5, wrapU, wrapV)
	}
	x := min(int(u*float64(t.Width)), t.Width-1)
	y := min(int(v*float64(t.Height)), t.Height-1)
	return t.Pixels[y*t.Width+x]
}

func wrapUnit(c float64, mode WrapMode) float64 {
	if mode == WrapClamp {
		return math.Max(0, math.Min(1, c))
	}
	return c - math.Floor(c)
}

func wrapTexel(i, size int, mode WrapMode) int {
	if mode == WrapClamp {
		return max(0, min(i, size-1))
	}
	i %= size
	if i < 0 {
		i += size
	}
	return i
}

// bilinear blends the four texels around the texel-space point (fx, fy).
func (t *Texture) bilinear(fx, fy float64, wrapU, wrapV WrapMode) Color {
	x0f, y0f := math.Floor(fx), math.Floor(fy)
	tx, ty := fx-x0f, fy-y0f
	x0, y0 := int(x0f), int(y0f)

	xa, xb := wrapTexel(x0, t.Width, wrapU), wrapTexel(x0+1, t.Width, wrapU)
	ya, yb := wrapTexel(y0, t.Height, wrapV), wrapTexel(y0+1, t.Height, wrapV)

	top := lerpColor(t.Pixels[ya*t.Width+xa], t.Pixels[ya*t.Width+xb], tx)
	bottom := lerpColor(t.Pixels[yb*t.Width+xa], t.Pixels[yb*t.Width+xb], tx)
	return lerpColor(top, bottom, ty)
}

func lerpColor(a, b Color, t float64) Color {
	mix := func(x, y uint8) uint8 {
		return uint8(float64(x) + (float64(y)-float64(x))*t + 0.5)
	}
	return Color{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: mix(a.A, b.A)}
}
