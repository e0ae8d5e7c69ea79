// Package update turns raw pointer and keyboard input into camera edits and
// transport commands.
package update

import (
	"math"

	"github.com/ThatOtherAndrew/fragview/internal/models"
)

type Key int

const (
	KeyUnknown Key = iota
	KeySpace
	KeyS
	KeyQ
	KeyLeft
	KeyRight
	KeyEscape
	Key0
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
)

const (
	// ScrubStep is one frame at 30 fps.
	ScrubStep = 1.0 / 30
	// ZoomStep scales the zoom per scroll notch.
	ZoomStep = 1.1

	MinZoom = 0.01
	MaxZoom = 100
)

// Controller receives the commands the bindings produce.
type Controller interface {
	PlayPause()
	Stop()
	Scrub(delta float64)
	ToggleQuadView()
	SetRenderMode(mode int32)
	CameraChanged()
	Close()
}

type App struct {
	app *models.App
	ctl Controller

	dragging     bool
	lastX, lastY float64
	hasLast      bool
}

func New(app *models.App, ctl Controller) *App {
	return &App{app: app, ctl: ctl}
}

// OnButton tracks the primary button. Orbiting only happens while it is held.
func (a *App) OnButton(pressed bool) {
	a.dragging = pressed
	if !pressed {
		a.hasLast = false
	}
}

// OnCursor orbits the free camera by the pointer delta, one canvas width or
// height per full turn.
func (a *App) OnCursor(x, y float64) {
	if !a.dragging {
		return
	}
	if !a.hasLast {
		a.lastX, a.lastY, a.hasLast = x, y, true
		return
	}
	dx, dy := x-a.lastX, y-a.lastY
	a.lastX, a.lastY = x, y

	width, height := a.app.Resolution()
	if width <= 0 || height <= 0 || (dx == 0 && dy == 0) {
		return
	}
	rotation := a.app.Camera.Rotation
	rotation[0] -= float32(dx / float64(width))
	rotation[1] -= float32(dy / float64(height))
	a.app.Camera.Rotation = rotation
	a.ctl.CameraChanged()
}

// OnScroll zooms by ZoomStep per notch; scrolling up moves the camera closer.
func (a *App) OnScroll(dy float64) {
	if dy == 0 {
		return
	}
	zoom := float64(a.app.Camera.Zoom) * math.Pow(ZoomStep, -dy)
	zoom = math.Max(MinZoom, math.Min(MaxZoom, zoom))
	a.app.Camera.Zoom = float32(zoom)
	a.ctl.CameraChanged()
}

func (a *App) OnKey(key Key) {
	switch key {
	case KeySpace:
		a.ctl.PlayPause()
	case KeyS:
		a.ctl.Stop()
	case KeyQ:
		a.ctl.ToggleQuadView()
	case KeyLeft:
		a.ctl.Scrub(-ScrubStep)
	case KeyRight:
		a.ctl.Scrub(ScrubStep)
	case KeyEscape:
		a.ctl.Close()
	default:
		if key >= Key0 && key <= Key9 {
			a.ctl.SetRenderMode(int32(key - Key0))
		}
	}
}
