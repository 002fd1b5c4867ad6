package render

import (
	"image"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// vertexColor returns a projected vertex's diffuse color without the 1/w
// premultiplication.
func vertexColor(v *Vertex) Color {
	if v.Pos[3] == 0 {
		return toColor(v.Color[0])
	}
	return toColor(v.Color[0].Mul(1 / v.Pos[3]))
}

// drawLine draws a projected segment with Bresenham's algorithm in the
// color of its first endpoint. Depth is neither tested nor written.
func (r *rasterizer) drawLine(a, b *Vertex) {
	c := vertexColor(a)
	x0, y0 := pixel(a.Pos)
	x1, y1 := pixel(b.Pos)

	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		r.plot(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// drawPoint plots a single projected vertex.
func (r *rasterizer) drawPoint(v *Vertex) {
	x, y := pixel(v.Pos)
	r.plot(x, y, vertexColor(v))
}

// plot writes one pixel inside the scissor, honoring the stencil test.
func (r *rasterizer) plot(x, y int, c Color) {
	if !image.Pt(x, y).In(r.scissor) {
		return
	}
	idx := y*r.target.Width() + x
	if !r.stencilPass(r.target.Stencil[idx]) {
		return
	}
	r.target.Color.Pixels[idx] = c
	if r.stencil == StencilWrite {
		r.target.Stencil[idx] = r.stencilRef
	}
}

func pixel(p mgl32.Vec4) (int, int) {
	return int(math.Floor(float64(p[0]))), int(math.Floor(float64(p[1])))
}
