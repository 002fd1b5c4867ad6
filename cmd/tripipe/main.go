// tripipe - software triangle pipeline viewer
// Draws glTF models through the render pipeline, either live in the terminal
// or once into a PNG file.
//
// Controls:
//
//	Mouse drag  - Rotate model (yaw/pitch)
//	Scroll      - Zoom in/out
//	W/S         - Pitch up/down
//	A/D         - Yaw left/right
//	Q/E         - Roll left/right
//	Space       - Apply random impulse
//	R           - Reset rotation
//	T           - Toggle textures
//	X           - Cycle textured, flat and wireframe drawing
//	L           - Light positioning mode (move mouse, click to set, Esc to cancel)
//	?           - Toggle HUD overlay (FPS, pipeline counters)
//	+/-         - Adjust zoom
//	Esc         - Quit (or cancel light mode)
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/taigrr/tripipe/pkg/models"
	"github.com/taigrr/tripipe/pkg/render"
)

var (
	texturePath = flag.String("texture", "", "Path to texture image (PNG/JPG) for untextured materials")
	targetFPS   = flag.Int("fps", 60, "Target FPS")
	bgColor     = flag.String("bg", "30,30,40", "Background color (R,G,B)")
	pngOut      = flag.String("png", "", "Render one frame into this PNG file and exit")
	pngSize     = flag.String("size", "640x480", "Image size for -png (WxH)")
	depthMode   = flag.String("depth", "z", "Depth buffer contents: z or invw")
	noCache     = flag.Bool("no-vertex-cache", false, "Transform every vertex reference")
	logLevel    = flag.String("log-level", "info", "Log level: debug, info, warn, error")
	logDir      = flag.String("log-dir", "", "Directory for log files (default: user config dir)")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "tripipe - software triangle pipeline viewer\n\n")
		fmt.Fprintf(os.Stderr, "Usage: tripipe [options] <model.glb|model.gltf>\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nControls:\n")
		fmt.Fprintf(os.Stderr, "  Mouse drag  - Rotate model\n")
		fmt.Fprintf(os.Stderr, "  Scroll      - Zoom in/out\n")
		fmt.Fprintf(os.Stderr, "  W/S/A/D     - Pitch and yaw\n")
		fmt.Fprintf(os.Stderr, "  Q/E         - Roll left/right\n")
		fmt.Fprintf(os.Stderr, "  Space       - Random spin\n")
		fmt.Fprintf(os.Stderr, "  R           - Reset view\n")
		fmt.Fprintf(os.Stderr, "  T           - Toggle textures\n")
		fmt.Fprintf(os.Stderr, "  X           - Cycle draw mode\n")
		fmt.Fprintf(os.Stderr, "  L           - Position light (mouse to aim, click to set)\n")
		fmt.Fprintf(os.Stderr, "  ?           - Toggle HUD overlay\n")
		fmt.Fprintf(os.Stderr, "  Esc         - Quit\n")
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	if err := run(flag.Arg(0)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(modelPath string) error {
	logger, closer, err := newLogger(*logLevel, *logDir)
	if err != nil {
		return err
	}
	defer closer.Close()
	render.SetLogger(logger)

	bg, err := parseColor(*bgColor)
	if err != nil {
		return err
	}
	opts, err := pipelineOptions(*depthMode, *noCache)
	if err != nil {
		return err
	}

	var texture *render.Texture
	if *texturePath != "" {
		if texture, err = render.LoadTexture(*texturePath); err != nil {
			return fmt.Errorf("load texture: %w", err)
		}
	}

	mesh, err := loadModel(modelPath)
	if err != nil {
		return err
	}
	logger.Info("model loaded",
		"path", modelPath,
		"parts", mesh.BufferCount(),
		"vertices", mesh.VertexCount(),
		"triangles", mesh.TriangleCount(),
		"materials", mesh.MaterialCount())

	if *pngOut != "" {
		w, h, err := parseSize(*pngSize)
		if err != nil {
			return err
		}
		return renderPNG(mesh, texture, w, h, bg, *pngOut, opts...)
	}
	return runInteractive(modelPath, mesh, texture, bg, opts...)
}

// renderPNG draws a single frame of the model at rest.
func renderPNG(mesh *models.Mesh, texture *render.Texture, w, h int, bg render.Color, path string, opts ...render.Option) error {
	s := newScene(mesh, texture, w, h, bg, opts...)
	v := newViewState()
	stats := s.frame(newSpin(*targetFPS).World(), v)
	s.log.Info("frame rendered", "stats", stats)

	if err := s.pipeline.RenderTarget().Color.SavePNG(path); err != nil {
		return fmt.Errorf("save frame: %w", err)
	}
	return nil
}

// parseColor parses "R,G,B".
func parseColor(s string) (render.Color, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return render.Color{}, fmt.Errorf("parse color %q: want R,G,B", s)
	}
	var rgb [3]uint8
	for i, p := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 8)
		if err != nil {
			return render.Color{}, fmt.Errorf("parse color %q: %w", s, err)
		}
		rgb[i] = uint8(v)
	}
	return render.RGB(rgb[0], rgb[1], rgb[2]), nil
}

// parseSize parses "WxH".
func parseSize(s string) (int, int, error) {
	ws, hs, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return 0, 0, fmt.Errorf("parse size %q: want WxH", s)
	}
	w, err := strconv.Atoi(ws)
	if err != nil {
		return 0, 0, fmt.Errorf("parse size %q: %w", s, err)
	}
	h, err := strconv.Atoi(hs)
	if err != nil {
		return 0, 0, fmt.Errorf("parse size %q: %w", s, err)
	}
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("parse size %q: dimensions must be positive", s)
	}
	return w, h, nil
}

// pipelineOptions maps the depth and cache flags onto pipeline options.
func pipelineOptions(depth string, noCache bool) ([]render.Option, error) {
	var opts []render.Option
	switch strings.ToLower(depth) {
	case "z", "":
		opts = append(opts, render.WithDepthMode(render.DepthZ))
	case "invw", "w":
		opts = append(opts, render.WithDepthMode(render.DepthInvW))
	default:
		return nil, fmt.Errorf("unknown depth mode %q", depth)
	}
	if noCache {
		opts = append(opts, render.WithVertexCache(false))
	}
	return opts, nil
}
