package main

import (
	"fmt"
	"log/slog"
	"math"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/taigrr/tripipe/pkg/math3d"
	"github.com/taigrr/tripipe/pkg/models"
	"github.com/taigrr/tripipe/pkg/render"
)

var (
	flatColor = mgl32.Vec4{0.8, 0.8, 0.8, 1}
	wireColor = mgl32.Vec4{0, 1, 0.5, 1}
)

// scene is a loaded model and the pipeline drawing it.
type scene struct {
	mesh     *models.Mesh
	texture  *render.Texture // fallback for untextured materials
	camera   *render.Camera
	pipeline *render.Pipeline
	bg       render.Color
	light    int // index into the pipeline's light list
	log      *slog.Logger
}

// loadModel loads a glTF model and fits it into a 2-unit cube at the origin.
func loadModel(path string) (*models.Mesh, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".glb", ".gltf":
	default:
		return nil, fmt.Errorf("unsupported format: %s (use .glb or .gltf)", ext)
	}

	mesh, err := models.LoadGLB(path)
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}

	size := mesh.Size()
	if maxDim := math.Max(size.X, math.Max(size.Y, size.Z)); maxDim > 0 {
		s := 2 / maxDim
		mesh.Transform(math3d.ScaleUniform(s).Mul(math3d.Translate(mesh.Center().Scale(-1))))
	}
	return mesh, nil
}

// newScene sets up a pipeline with a camera five units back and a single
// directional light.
func newScene(mesh *models.Mesh, texture *render.Texture, width, height int, bg render.Color, opts ...render.Option) *scene {
	if texture == nil {
		texture = render.NewCheckerTexture(64, 64, 8, render.RGB(200, 200, 200), render.RGB(100, 100, 100))
	}
	s := &scene{
		mesh:     mesh,
		texture:  texture,
		camera:   render.NewCamera(),
		pipeline: render.NewPipeline(render.NewRenderTarget(width, height), opts...),
		bg:       bg,
		log:      render.Logger(),
	}
	s.camera.SetClipPlanes(0.1, 100)
	s.camera.SetPosition(math3d.V3(0, 0, 5))
	s.camera.LookAt(math3d.V3(0, 0, 0))
	s.resize(width, height)

	light := render.NewDirectionalLight(math3d.V3(0.5, 1, 0.3).Normalize().Negate())
	light.Ambient = mgl32.Vec4{0.15, 0.15, 0.15, 1}
	s.light = s.pipeline.Lights().Add(light)
	return s
}

// resize replaces the render target after a terminal size change.
func (s *scene) resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	if t := s.pipeline.RenderTarget(); t == nil || t.Width() != width || t.Height() != height {
		s.pipeline.SetRenderTarget(render.NewRenderTarget(width, height))
	}
	s.camera.SetAspectRatio(float64(width) / float64(height))
}

// setDistance moves the camera along +z.
func (s *scene) setDistance(z float64) {
	s.camera.SetPosition(math3d.V3(0, 0, z))
}

// setLight points the light so it shines from dir toward the origin.
func (s *scene) setLight(dir math3d.Vec3) {
	l := s.pipeline.Lights().At(s.light)
	l.Direction = dir.Negate()
	s.pipeline.Lights().Set(s.light, l)
}

// material returns the pipeline material for one mesh part.
func (s *scene) material(mode drawMode, textures bool, m *models.Material) render.Material {
	var out render.Material
	if m != nil {
		out = m.RenderMaterial()
	} else {
		out = render.DefaultMaterial()
		out.Lighting = true
		out.DiffuseColor = flatColor
		out.AmbientColor = flatColor
	}

	switch mode {
	case modeWireframe:
		out = render.DefaultMaterial()
		out.Wireframe = true
		out.BackfaceCulling = false
		out.Lighting = true
		out.AmbientColor = mgl32.Vec4{}
		out.DiffuseColor = mgl32.Vec4{0, 0, 0, 1}
		out.EmissiveColor = wireColor
	case modeFlat:
		out.Textures = [render.MaxTextureStages]*render.Texture{}
	default:
		switch {
		case !textures:
			out.Textures = [render.MaxTextureStages]*render.Texture{}
		case out.Textures[0] == nil:
			out.Textures[0] = s.texture
		}
	}
	return out
}

// frame renders one image of the model rotated by world and returns the
// pipeline counters for it.
func (s *scene) frame(world math3d.Mat4, v *viewState) render.Stats {
	p := s.pipeline
	p.ResetStats()
	p.Clear(s.bg)
	p.SetCamera(s.camera)
	s.setLight(v.activeLight())

	pick := func(m *models.Material) render.Material {
		return s.material(v.Mode, v.Textures, m)
	}
	if !s.mesh.Draw(p, world, pick) {
		s.log.Debug("model outside the view frustum")
	}
	return p.Stats()
}
