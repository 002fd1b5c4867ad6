package main

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/charmbracelet/harmonica"
	"github.com/taigrr/tripipe/pkg/math3d"
	"github.com/taigrr/tripipe/pkg/render"
)

// spinAxis is one rotation axis whose velocity springs back to rest.
type spinAxis struct {
	Angle    float64
	Velocity float64
	spring   harmonica.Spring
	accel    float64 // spring state for Velocity
}

func newSpinAxis(fps int) spinAxis {
	// Critically damped so the spin never reverses.
	return spinAxis{spring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0)}
}

func (a *spinAxis) step() {
	a.Angle += a.Velocity
	a.Velocity, a.accel = a.spring.Update(a.Velocity, a.accel, 0)
}

// spin is the model orientation driven by user impulses.
type spin struct {
	Pitch, Yaw, Roll spinAxis
	fps              int
}

func newSpin(fps int) *spin {
	s := &spin{fps: fps}
	s.Reset()
	return s
}

// Step advances every axis by one frame.
func (s *spin) Step() {
	s.Pitch.step()
	s.Yaw.step()
	s.Roll.step()
}

// Impulse adds angular velocity in radians per frame.
func (s *spin) Impulse(pitch, yaw, roll float64) {
	s.Pitch.Velocity += pitch
	s.Yaw.Velocity += yaw
	s.Roll.Velocity += roll
}

// Reset returns to the initial orientation at rest.
func (s *spin) Reset() {
	s.Pitch = newSpinAxis(s.fps)
	s.Yaw = newSpinAxis(s.fps)
	s.Roll = newSpinAxis(s.fps)
}

// World returns the model rotation.
func (s *spin) World() math3d.Mat4 {
	return math3d.RotateX(s.Pitch.Angle).
		Mul(math3d.RotateY(s.Yaw.Angle)).
		Mul(math3d.RotateZ(s.Roll.Angle))
}

// drawMode selects the materials the scene is drawn with.
type drawMode int

const (
	modeTextured  drawMode = iota // model materials and textures, lit
	modeFlat                      // lit, untextured
	modeWireframe                 // emissive edges
)

func (m drawMode) String() string {
	switch m {
	case modeFlat:
		return "flat"
	case modeWireframe:
		return "wireframe"
	default:
		return "textured"
	}
}

// viewState is UI state owned by the event loop.
type viewState struct {
	Mode         drawMode
	Textures     bool
	LightMode    bool        // positioning the light with the mouse
	LightDir     math3d.Vec3 // unit vector toward the light
	PendingLight math3d.Vec3
	ShowHUD      bool
}

func newViewState() *viewState {
	return &viewState{
		Mode:     modeTextured,
		Textures: true,
		LightDir: math3d.V3(0.5, 1, 0.3).Normalize(),
	}
}

// activeLight returns the light direction to draw with.
func (v *viewState) activeLight() math3d.Vec3 {
	if v.LightMode {
		return v.PendingLight
	}
	return v.LightDir
}

// screenToLightDir maps a cell position onto the hemisphere facing the
// viewer, so the light comes from where the mouse points.
func screenToLightDir(x, y, width, height int) math3d.Vec3 {
	nx := (float64(x)/float64(width))*2 - 1
	ny := (float64(y)/float64(height))*2 - 1

	lenSq := nx*nx + ny*ny
	if lenSq > 1 {
		l := math.Sqrt(lenSq)
		nx /= l
		ny /= l
		lenSq = 1
	}
	return math3d.V3(nx, -ny, math.Sqrt(1-lenSq)).Normalize()
}

// hud is the text overlay with frame rate and pipeline counters.
type hud struct {
	filename  string
	triangles int
	fps       float64
	frames    int
	since     time.Time
}

func newHUD(filename string, triangles int) *hud {
	return &hud{filename: filename, triangles: triangles, since: time.Now()}
}

// tick counts a frame and refreshes the rate once a second.
func (h *hud) tick(now time.Time) {
	h.frames++
	if elapsed := now.Sub(h.since); elapsed >= time.Second {
		h.fps = float64(h.frames) / elapsed.Seconds()
		h.frames = 0
		h.since = now
	}
}

const (
	ansiReset     = "\x1b[0m"
	ansiBold      = "\x1b[1m"
	ansiDim       = "\x1b[2m"
	ansiBgBlack   = "\x1b[40m"
	ansiFgWhite   = "\x1b[97m"
	ansiFgGreen   = "\x1b[92m"
	ansiFgYellow  = "\x1b[93m"
	ansiFgCyan    = "\x1b[96m"
	ansiClearLine = "\x1b[2K"
)

func moveTo(row, col int) string {
	return fmt.Sprintf("\x1b[%d;%dH", row, col)
}

// draw writes the overlay on the top and bottom terminal rows. Both rows are
// cleared first so hiding the HUD takes effect.
func (h *hud) draw(w io.Writer, width, height int, v *viewState, s render.Stats) {
	fmt.Fprint(w, moveTo(1, 1)+ansiClearLine)
	fmt.Fprint(w, moveTo(height, 1)+ansiClearLine)

	if v.LightMode {
		msg := fmt.Sprintf("%s%s%s ◉ LIGHT MODE - move mouse to aim, click to set, Esc to cancel %s",
			ansiBgBlack, ansiBold, ansiFgYellow, ansiReset)
		fmt.Fprint(w, moveTo(height, max((width-62)/2, 1))+msg)
		return
	}
	if !v.ShowHUD {
		return
	}

	fmt.Fprintf(w, "%s%s%s %.0f FPS %s", moveTo(1, 1), ansiBgBlack, ansiFgGreen, h.fps, ansiReset)
	fmt.Fprint(w, moveTo(1, max((width-len(h.filename)-2)/2, 1))+
		fmt.Sprintf("%s%s%s %s %s", ansiBold, ansiBgBlack, ansiFgWhite, h.filename, ansiReset))
	tris := fmt.Sprintf(" %d tris ", h.triangles)
	fmt.Fprint(w, moveTo(1, max(width-len(tris), 1))+ansiBgBlack+ansiFgCyan+ansiBold+tris+ansiReset)

	fmt.Fprint(w, moveTo(height, 1)+
		fmt.Sprintf("%s%s [%s] xf %d  clip %d  cull %d  raster %d  binds %d %s",
			ansiBgBlack, ansiFgWhite, v.Mode, s.Transforms, s.Clipped, s.Culled, s.Triangles, s.ShaderBinds, ansiReset))
	hint := " L: light  T: texture  X: mode "
	fmt.Fprint(w, moveTo(height, max(width-len(hint), 1))+ansiBgBlack+ansiDim+ansiFgYellow+hint+ansiReset)
}
