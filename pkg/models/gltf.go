package models

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/taigrr/tripipe/pkg/render"
)

// GLTFLoader loads glTF/GLB files into Mesh format.
type GLTFLoader struct {
	// CalculateNormals fills in smooth normals when the file has none.
	CalculateNormals bool
	// Textures decodes base color textures into the materials.
	Textures bool
}

// NewGLTFLoader creates a new glTF loader with default options.
func NewGLTFLoader() *GLTFLoader {
	return &GLTFLoader{
		CalculateNormals: true,
		Textures:         true,
	}
}

// LoadGLB loads a binary glTF (.glb) file with default options.
func LoadGLB(path string) (*Mesh, error) {
	return NewGLTFLoader().Load(path)
}

// LoadGLBWithTexture loads a GLB file and returns the mesh plus the first
// base color texture it references. The texture may be nil.
func LoadGLBWithTexture(path string) (*Mesh, *render.Texture, error) {
	mesh, err := LoadGLB(path)
	if err != nil {
		return nil, nil, err
	}
	for i := range mesh.Materials {
		if tex := mesh.Materials[i].BaseMap; tex != nil {
			return mesh, tex, nil
		}
	}
	return mesh, nil, nil
}

// Load loads a glTF or GLB file and returns a Mesh.
func (l *GLTFLoader) Load(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}
	return l.Decode(doc, path)
}

// Decode converts an already parsed document. path locates external image
// files and names the mesh.
func (l *GLTFLoader) Decode(doc *gltf.Document, path string) (*Mesh, error) {
	mesh := NewMesh(filepath.Base(path))

	images := make(map[int]*render.Texture)
	for i, m := range doc.Materials {
		mat, err := l.material(doc, m, filepath.Dir(path), images)
		if err != nil {
			return nil, fmt.Errorf("material %d: %w", i, err)
		}
		mesh.Materials = append(mesh.Materials, mat)
	}

	for _, m := range doc.Meshes {
		for j, prim := range m.Primitives {
			part, ok, err := readPrimitive(doc, prim)
			if err != nil {
				return nil, fmt.Errorf("process mesh %q primitive %d: %w", m.Name, j, err)
			}
			if ok {
				mesh.Parts = append(mesh.Parts, part)
			}
		}
	}

	if l.CalculateNormals && !mesh.hasNormals() {
		mesh.CalculateSmoothNormals()
	}
	mesh.CalculateBounds()

	return mesh, nil
}

// readPrimitive converts one glTF primitive. ok is false for primitives
// without positions.
func readPrimitive(doc *gltf.Document, prim *gltf.Primitive) (part Part, ok bool, err error) {
	posIdx, found := prim.Attributes[gltf.POSITION]
	if !found {
		return Part{}, false, nil
	}

	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return Part{}, false, fmt.Errorf("read positions: %w", err)
	}

	var normals [][3]float32
	if idx, found := prim.Attributes[gltf.NORMAL]; found {
		if normals, err = modeler.ReadNormal(doc, doc.Accessors[idx], nil); err != nil {
			return Part{}, false, fmt.Errorf("read normals: %w", err)
		}
	}

	var uv0, uv1 [][2]float32
	if idx, found := prim.Attributes[gltf.TEXCOORD_0]; found {
		if uv0, err = modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil); err != nil {
			return Part{}, false, fmt.Errorf("read uvs: %w", err)
		}
	}
	if idx, found := prim.Attributes[gltf.TEXCOORD_1]; found {
		if uv1, err = modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil); err != nil {
			return Part{}, false, fmt.Errorf("read second uvs: %w", err)
		}
	}

	var colors [][4]uint8
	if idx, found := prim.Attributes[gltf.COLOR_0]; found {
		if colors, err = modeler.ReadColor(doc, doc.Accessors[idx], nil); err != nil {
			return Part{}, false, fmt.Errorf("read colors: %w", err)
		}
	}

	var tangents [][4]float32
	if idx, found := prim.Attributes[gltf.TANGENT]; found {
		if tangents, err = modeler.ReadTangent(doc, doc.Accessors[idx], nil); err != nil {
			return Part{}, false, fmt.Errorf("read tangents: %w", err)
		}
	}

	part = Part{Format: render.VertexStandard, Material: -1}
	switch {
	case len(tangents) >= len(positions):
		part.Format = render.VertexTangents
	case len(uv1) >= len(positions):
		part.Format = render.VertexTwoTCoords
	}
	if prim.Material != nil {
		part.Material = *prim.Material
	}

	part.Vertices = make([]render.SourceVertex, len(positions))
	for i, p := range positions {
		v := render.SourceVertex{
			Pos:   mgl32.Vec3(p),
			Color: render.ColorWhite,
		}
		if i < len(normals) {
			v.Normal = mgl32.Vec3(normals[i])
		}
		// glTF puts V=0 at the top of the image; the sampler expects it at
		// the bottom.
		if i < len(uv0) {
			v.TCoords = mgl32.Vec2{uv0[i][0], 1 - uv0[i][1]}
		}
		if i < len(uv1) {
			v.TCoords2 = mgl32.Vec2{uv1[i][0], 1 - uv1[i][1]}
		}
		if i < len(colors) {
			c := colors[i]
			v.Color = render.RGBA(c[0], c[1], c[2], c[3])
		}
		if i < len(tangents) {
			t := tangents[i]
			v.Tangent = mgl32.Vec3{t[0], t[1], t[2]}
			v.Binormal = v.Normal.Cross(v.Tangent).Mul(t[3])
		}
		part.Vertices[i] = v
	}

	var indices []uint32
	if prim.Indices != nil {
		if indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil); err != nil {
			return Part{}, false, fmt.Errorf("read indices: %w", err)
		}
	} else {
		indices = make([]uint32, len(positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}

	part.Primitive, part.Indices = convertTopology(prim.Mode, indices)
	return part, true, nil
}

// convertTopology maps a glTF primitive mode onto a pipeline primitive type.
// glTF front faces wind counter-clockwise while the pipeline's wind
// clockwise (screen space has y down), so every triangle is reversed here.
func convertTopology(mode gltf.PrimitiveMode, idx []uint32) (render.PrimitiveType, render.Index32) {
	switch mode {
	case gltf.PrimitivePoints:
		return render.Points, idx
	case gltf.PrimitiveLines:
		return render.Lines, idx
	case gltf.PrimitiveLineStrip:
		return render.LineStrip, idx
	case gltf.PrimitiveLineLoop:
		if len(idx) > 0 {
			idx = append(idx, idx[0])
		}
		return render.LineStrip, idx
	case gltf.PrimitiveTriangleStrip:
		// A repeated first index adds one degenerate triangle and flips the
		// parity of every following one.
		if len(idx) == 0 {
			return render.TriangleStrip, nil
		}
		return render.TriangleStrip, append(render.Index32{idx[0]}, idx...)
	case gltf.PrimitiveTriangleFan:
		out := make(render.Index32, len(idx))
		for i := range idx {
			if i == 0 {
				out[0] = idx[0]
				continue
			}
			out[i] = idx[len(idx)-i]
		}
		return render.TriangleFan, out
	default:
		out := make(render.Index32, 0, len(idx))
		for i := 0; i+2 < len(idx); i += 3 {
			out = append(out, idx[i], idx[i+2], idx[i+1])
		}
		return render.TriangleList, out
	}
}

// material converts a glTF material, decoding its base color texture once
// per image.
func (l *GLTFLoader) material(doc *gltf.Document, m *gltf.Material, dir string, images map[int]*render.Texture) (Material, error) {
	out := Material{
		Name:        m.Name,
		BaseColor:   [4]float64{1, 1, 1, 1},
		Metallic:    1,
		Roughness:   1,
		DoubleSided: m.DoubleSided,
		AlphaCutoff: m.AlphaCutoffOrDefault(),
	}
	switch m.AlphaMode {
	case gltf.AlphaMask:
		out.Alpha = AlphaMask
	case gltf.AlphaBlend:
		out.Alpha = AlphaBlend
	}

	pbr := m.PBRMetallicRoughness
	if pbr == nil {
		return out, nil
	}
	out.BaseColor = pbr.BaseColorFactorOrDefault()
	out.Metallic = pbr.MetallicFactorOrDefault()
	out.Roughness = pbr.RoughnessFactorOrDefault()

	if !l.Textures || pbr.BaseColorTexture == nil {
		return out, nil
	}
	ti := pbr.BaseColorTexture.Index
	if ti < 0 || ti >= len(doc.Textures) || doc.Textures[ti].Source == nil {
		return out, nil
	}
	src := *doc.Textures[ti].Source
	if tex, ok := images[src]; ok {
		out.BaseMap = tex
		return out, nil
	}
	img, err := decodeImage(doc, src, dir)
	if err != nil {
		return out, fmt.Errorf("decode image %d: %w", src, err)
	}
	tex := render.TextureFromImage(img)
	images[src] = tex
	out.BaseMap = tex
	return out, nil
}

// decodeImage decodes an embedded or external glTF image.
func decodeImage(doc *gltf.Document, i int, dir string) (image.Image, error) {
	if i < 0 || i >= len(doc.Images) {
		return nil, fmt.Errorf("image index %d out of range", i)
	}
	src := doc.Images[i]

	var data []byte
	switch {
	case src.BufferView != nil:
		bv := doc.BufferViews[*src.BufferView]
		buf := doc.Buffers[bv.Buffer]
		if bv.ByteOffset+bv.ByteLength > len(buf.Data) {
			return nil, fmt.Errorf("buffer view %d exceeds its buffer", *src.BufferView)
		}
		data = buf.Data[bv.ByteOffset : bv.ByteOffset+bv.ByteLength]
	case src.IsEmbeddedResource():
		var err error
		if data, err = src.MarshalData(); err != nil {
			return nil, err
		}
	case src.URI != "":
		var err error
		if data, err = os.ReadFile(filepath.Join(dir, src.URI)); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("image has no data")
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return img, nil
}
