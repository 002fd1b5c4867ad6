package render

import "image"

// DepthMode selects what the depth buffer stores.
type DepthMode int

const (
	// DepthZ stores z/w and passes smaller values.
	DepthZ DepthMode = iota
	// DepthInvW stores 1/w and passes larger values.
	DepthInvW
)

func (m DepthMode) String() string {
	if m == DepthInvW {
		return "invw"
	}
	return "z"
}

// clearValue is the depth a cleared buffer holds.
func (m DepthMode) clearValue() float32 {
	if m == DepthInvW {
		return 0
	}
	return 1
}

// clipScale maps clip space to device pixels for a viewport.
type clipScale struct {
	sx, ox float32
	sy, oy float32
}

func newClipScale(vp image.Rectangle) clipScale {
	w := float32(vp.Dx()) * 0.5
	h := float32(vp.Dy()) * 0.5
	return clipScale{
		sx: w,
		ox: float32(vp.Min.X) + w,
		sy: -h,
		oy: float32(vp.Min.Y) + h,
	}
}

// project fills pair.Dev from pair.NDC unless it is already projected.
func (s clipScale) project(pair *VertexPair, mode DepthMode) {
	if pair.Projected() {
		return
	}
	src, dst := &pair.NDC, &pair.Dev

	var invW float32
	if src.Pos[3] != 0 {
		invW = 1 / src.Pos[3]
	}

	dst.Flag = src.Flag | FlagProjected
	dst.Pos[0] = src.Pos[0]*invW*s.sx + s.ox
	dst.Pos[1] = src.Pos[1]*invW*s.sy + s.oy
	if mode == DepthInvW {
		dst.Pos[2] = src.Pos[3]
	} else {
		dst.Pos[2] = src.Pos[2] * invW
	}
	dst.Pos[3] = invW

	for i := range src.Flag.TextureCount() {
		dst.Tex[i] = src.Tex[i].Mul(invW)
	}
	for i := range src.Flag.ColorCount() {
		dst.Color[i] = src.Color[i].Mul(invW)
	}
	for i := range src.Flag.TangentCount() {
		dst.LightTangent[i] = src.LightTangent[i].Mul(invW)
	}
}
