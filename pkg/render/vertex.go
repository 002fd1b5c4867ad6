// Package render implements a software triangle pipeline: vertex transform
// and lighting, a small transformed-vertex cache, homogeneous clipping,
// perspective projection, mip level selection and rasterization into
// color/depth/stencil targets.
package render

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
)

// Fixed capacities of the internal vertex record.
const (
	MaxTextureStages = 2
	MaxColors        = 2 // diffuse, specular
	MaxLightTangents = 2
)

// VertexFlag classifies a pipeline vertex. The low six bits record frustum
// plane containment (set = inside), bit 8 marks a projected device vertex and
// the upper bits carry the vertex format.
type VertexFlag uint32

const (
	ClipNear VertexFlag = 1 << iota
	ClipFar
	ClipLeft
	ClipRight
	ClipBottom
	ClipTop

	ClipMask VertexFlag = 0x3f
)

const (
	FlagProjected VertexFlag = 1 << 8

	formatTexShift     = 16
	formatColorShift   = 20
	formatTangentShift = 24

	FormatMask VertexFlag = 0x3<<formatTexShift | 0x3<<formatColorShift | 0x3<<formatTangentShift
)

func formatFlag(textures, colors, tangents int) VertexFlag {
	return VertexFlag(textures)<<formatTexShift |
		VertexFlag(colors)<<formatColorShift |
		VertexFlag(tangents)<<formatTangentShift
}

// Inside reports whether all six plane bits are set.
func (f VertexFlag) Inside() bool { return f&ClipMask == ClipMask }

// TextureCount returns the number of active texture coordinate sets.
func (f VertexFlag) TextureCount() int { return int(f>>formatTexShift) & 0x3 }

// ColorCount returns the number of active color channels.
func (f VertexFlag) ColorCount() int { return int(f>>formatColorShift) & 0x3 }

// TangentCount returns the number of active light-tangent vectors.
func (f VertexFlag) TangentCount() int { return int(f>>formatTangentShift) & 0x3 }

// Vertex is the pipeline-internal vertex record. Colors, texture coordinates
// and light tangents of a projected vertex are premultiplied by 1/w, and
// Pos.W holds 1/w.
type Vertex struct {
	Flag         VertexFlag
	Pos          mgl32.Vec4
	Tex          [MaxTextureStages]mgl32.Vec2
	Color        [MaxColors]mgl32.Vec4
	LightTangent [MaxLightTangents]mgl32.Vec3
}

// VertexPair holds a clip-space vertex and its lazily computed device-space
// counterpart. Dev is valid only when Dev.Flag has FlagProjected set.
type VertexPair struct {
	NDC Vertex
	Dev Vertex
}

// Projected reports whether Dev holds the projection of NDC.
func (p *VertexPair) Projected() bool { return p.Dev.Flag&FlagProjected != 0 }

// VertexFormat selects which SourceVertex fields are meaningful.
type VertexFormat int

const (
	VertexStandard   VertexFormat = iota // position, normal, color, one texcoord
	VertexTwoTCoords                     // plus a second texcoord
	VertexTangents                       // plus tangent and binormal
)

func (f VertexFormat) String() string {
	switch f {
	case VertexStandard:
		return "standard"
	case VertexTwoTCoords:
		return "2tcoords"
	case VertexTangents:
		return "tangents"
	default:
		return "unknown"
	}
}

// flag returns the format bits of a vertex in this format drawn with the
// given number of bound texture stages.
func (f VertexFormat) flag(stages int) VertexFlag {
	stages = min(max(stages, 1), MaxTextureStages)
	switch f {
	case VertexTangents:
		// The normal map is sampled with the base coordinates.
		return formatFlag(MaxTextureStages, MaxColors, MaxLightTangents)
	default:
		return formatFlag(stages, MaxColors, 0)
	}
}

// SourceVertex is one caller-owned input vertex.
type SourceVertex struct {
	Pos      mgl32.Vec3
	Normal   mgl32.Vec3
	Color    color.RGBA
	TCoords  mgl32.Vec2
	TCoords2 mgl32.Vec2 // VertexTwoTCoords only
	Tangent  mgl32.Vec3 // VertexTangents only
	Binormal mgl32.Vec3 // VertexTangents only
}

// VertexBuffer is a read-only view of caller vertices for one draw call.
type VertexBuffer struct {
	Format   VertexFormat
	Vertices []SourceVertex
}

// IndexBuffer provides vertex indices. A nil IndexBuffer means sequential
// access.
type IndexBuffer interface {
	Len() int
	At(i int) uint32
}

// Index16 is a 16-bit index buffer.
type Index16 []uint16

func (b Index16) Len() int        { return len(b) }
func (b Index16) At(i int) uint32 { return uint32(b[i]) }

// Index32 is a 32-bit index buffer.
type Index32 []uint32

func (b Index32) Len() int        { return len(b) }
func (b Index32) At(i int) uint32 { return b[i] }

// PrimitiveType describes how indices form primitives.
type PrimitiveType int

const (
	TriangleList PrimitiveType = iota
	TriangleStrip
	TriangleFan
	// Point and line types take the uncached path and are drawn only when
	// every endpoint is inside the frustum.
	Points
	Lines
	LineStrip
)

func (pt PrimitiveType) String() string {
	switch pt {
	case TriangleList:
		return "triangles"
	case TriangleStrip:
		return "strip"
	case TriangleFan:
		return "fan"
	case Points:
		return "points"
	case Lines:
		return "lines"
	case LineStrip:
		return "linestrip"
	default:
		return "unknown"
	}
}

// vertices returns how many vertices one primitive consumes.
func (pt PrimitiveType) vertices() int {
	switch pt {
	case Points:
		return 1
	case Lines, LineStrip:
		return 2
	default:
		return 3
	}
}

// pitch returns how far the index cursor advances per primitive.
func (pt PrimitiveType) pitch() int {
	switch pt {
	case TriangleList:
		return 3
	case Lines:
		return 2
	default:
		return 1
	}
}

// indexCount returns the indices needed for n primitives.
func (pt PrimitiveType) indexCount(n int) int {
	if n <= 0 {
		return 0
	}
	return (n-1)*pt.pitch() + pt.vertices()
}

// primitiveCount returns how many whole primitives fit in n indices.
func (pt PrimitiveType) primitiveCount(n int) int {
	if n < pt.vertices() {
		return 0
	}
	return (n-pt.vertices())/pt.pitch() + 1
}

// PrimitiveCount returns how many whole primitives n indices describe.
func (pt PrimitiveType) PrimitiveCount(n int) int { return pt.primitiveCount(n) }
