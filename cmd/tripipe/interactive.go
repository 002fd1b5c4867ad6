package main

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/taigrr/tripipe/pkg/models"
	"github.com/taigrr/tripipe/pkg/render"
)

const (
	torqueStrength = 3.0
	minDistance    = 1.0
	maxDistance    = 20.0
)

// runInteractive shows the model in the terminal until the user quits.
func runInteractive(modelPath string, mesh *models.Mesh, texture *render.Texture, bg render.Color, opts ...render.Option) error {
	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}
	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	fmt.Fprint(os.Stdout, "\x1b[?1003h") // any-event mouse tracking
	fmt.Fprint(os.Stdout, "\x1b[?1006h") // SGR extended mouse mode

	cleanup := func() {
		fmt.Fprint(os.Stdout, "\x1b[?1003l")
		fmt.Fprint(os.Stdout, "\x1b[?1006l")
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}

	screen := render.NewTerminalRenderer(term, width, height)
	s := newScene(mesh, texture, 1, 1, bg, opts...)
	s.resize(screen.FramebufferSize())

	rotation := newSpin(*targetFPS)
	view := newViewState()
	overlay := newHUD(filepath.Base(modelPath), mesh.TriangleCount())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	// Events are applied on the render goroutine so the scene and view state
	// have a single owner.
	events := make(chan uv.Event, 64)
	go func() {
		for ev := range term.Events() {
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	var torque struct{ pitch, yaw, roll float64 }
	var mouseDown bool
	var lastX, lastY int
	distance := 5.0

	handle := func(ev uv.Event) {
		switch ev := ev.(type) {
		case uv.WindowSizeEvent:
			width, height = ev.Width, ev.Height
			term.Erase()
			term.Resize(width, height)
			screen = render.NewTerminalRenderer(term, width, height)
			s.resize(screen.FramebufferSize())
			s.log.Debug("resized", "cols", width, "rows", height)

		case uv.KeyPressEvent:
			switch {
			case ev.MatchString("escape"):
				if view.LightMode {
					view.LightMode = false
				} else {
					cancel()
				}
			case ev.MatchString("ctrl+c"):
				cancel()
			case ev.MatchString("q"):
				torque.roll = -torqueStrength
			case ev.MatchString("e"):
				torque.roll = torqueStrength
			case ev.MatchString("w", "up"):
				torque.pitch = -torqueStrength
			case ev.MatchString("s", "down"):
				torque.pitch = torqueStrength
			case ev.MatchString("a", "left"):
				torque.yaw = -torqueStrength
			case ev.MatchString("d", "right"):
				torque.yaw = torqueStrength
			case ev.MatchString("r"):
				rotation.Reset()
				distance = 5
			case ev.MatchString("space"):
				rotation.Impulse(
					(rand.Float64()-0.5)*1.5,
					(rand.Float64()-0.5)*1.5,
					(rand.Float64()-0.5)*1.5,
				)
			case ev.MatchString("+", "="):
				distance = math.Max(minDistance, distance-0.5)
			case ev.MatchString("-", "_"):
				distance = math.Min(maxDistance, distance+0.5)
			case ev.MatchString("t"):
				view.Textures = !view.Textures
			case ev.MatchString("x"):
				view.Mode = (view.Mode + 1) % 3
			case ev.MatchString("l"):
				view.LightMode = true
				view.PendingLight = view.LightDir
			case ev.MatchString("?"), ev.MatchString("shift+/"):
				view.ShowHUD = !view.ShowHUD
			}

		case uv.KeyReleaseEvent:
			switch {
			case ev.MatchString("w", "up", "s", "down"):
				torque.pitch = 0
			case ev.MatchString("a", "left", "d", "right"):
				torque.yaw = 0
			case ev.MatchString("q", "e"):
				torque.roll = 0
			}

		case uv.MouseClickEvent:
			if view.LightMode {
				view.LightDir = view.PendingLight
				view.LightMode = false
			} else {
				mouseDown = true
				lastX, lastY = ev.X, ev.Y
			}

		case uv.MouseReleaseEvent:
			if !view.LightMode {
				mouseDown = false
			}

		case uv.MouseMotionEvent:
			if view.LightMode {
				view.PendingLight = screenToLightDir(ev.X, ev.Y, width, height)
			} else if mouseDown {
				rotation.Impulse(float64(ev.Y-lastY)*0.03, float64(ev.X-lastX)*0.03, 0)
				lastX, lastY = ev.X, ev.Y
			}

		case uv.MouseWheelEvent:
			switch ev.Button {
			case uv.MouseWheelUp:
				distance = math.Max(minDistance, distance-0.5)
			case uv.MouseWheelDown:
				distance = math.Min(maxDistance, distance+0.5)
			}
		}
	}

	targetDuration := time.Second / time.Duration(*targetFPS)
	lastFrame := time.Now()

	for {
		select {
		case <-ctx.Done():
			cleanup()
			return nil
		default:
		}

	drain:
		for {
			select {
			case ev := <-events:
				handle(ev)
			default:
				break drain
			}
		}

		now := time.Now()
		dt := math.Min(now.Sub(lastFrame).Seconds(), 0.1)
		lastFrame = now

		// Key release events are unreliable, so torque decays on its own.
		rotation.Impulse(torque.pitch*dt, torque.yaw*dt, torque.roll*dt)
		torque.pitch *= 0.9
		torque.yaw *= 0.9
		torque.roll *= 0.9
		rotation.Step()

		s.setDistance(distance)
		stats := s.frame(rotation.World(), view)

		screen.Render(s.pipeline.RenderTarget().Color)
		if err := screen.Flush(); err != nil {
			cleanup()
			return fmt.Errorf("flush: %w", err)
		}

		overlay.tick(now)
		overlay.draw(os.Stdout, width, height, view, stats)

		if elapsed := time.Since(now); elapsed < targetDuration {
			time.Sleep(targetDuration - elapsed)
		}
	}
}
