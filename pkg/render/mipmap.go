package render

import (
	"image"
	"log/slog"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/image/draw"
)

// DefaultMipCacheSize is the number of textures whose mip chains are kept.
const DefaultMipCacheSize = 64

// BuildMipChain returns t followed by successively halved copies down to
// 1x1. Level 0 is t itself.
func BuildMipChain(t *Texture) []*Texture {
	chain := []*Texture{t}
	if t.Width <= 0 || t.Height <= 0 {
		return chain
	}

	src := t.RGBA()
	w, h := t.Width, t.Height
	for w > 1 || h > 1 {
		w, h = max(w/2, 1), max(h/2, 1)
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

		level := NewTexture(w, h)
		for i := range level.Pixels {
			p := dst.Pix[i*4 : i*4+4 : i*4+4]
			level.Pixels[i] = Color{R: p[0], G: p[1], B: p[2], A: p[3]}
		}
		level.WrapU, level.WrapV, level.FilterMode = t.WrapU, t.WrapV, t.FilterMode
		chain = append(chain, level)
		src = dst
	}
	return chain
}

// mipCache keeps recently used mip chains keyed by texture handle. A texture
// whose pixels change after its chain was built must be evicted with forget.
type mipCache struct {
	chains *lru.Cache[*Texture, []*Texture]
	log    *slog.Logger
}

func newMipCache(size int, log *slog.Logger) *mipCache {
	if size <= 0 {
		size = DefaultMipCacheSize
	}
	chains, err := lru.New[*Texture, []*Texture](size)
	if err != nil {
		// lru.New only fails for non-positive sizes.
		panic(err)
	}
	return &mipCache{chains: chains, log: log}
}

// chain returns the mip chain of t, building it on first use.
func (c *mipCache) chain(t *Texture) []*Texture {
	if t == nil {
		return nil
	}
	if ch, ok := c.chains.Get(t); ok {
		return ch
	}
	ch := BuildMipChain(t)
	c.chains.Add(t, ch)
	c.log.Debug("built mip chain", "width", t.Width, "height", t.Height, "levels", len(ch))
	return ch
}

func (c *mipCache) forget(t *Texture) {
	c.chains.Remove(t)
}
