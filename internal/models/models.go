package models

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Camera is the orbit camera as edited by the user. Rotation components are
// fractions of a full turn.
type Camera struct {
	Rotation mgl32.Vec2
	Origin   mgl32.Vec3
	Zoom     float32
}

type Viewport struct {
	QuadView  bool
	QuadSplit mgl32.Vec2
	Width     int
	Height    int
}

// App is the state the preview window edits and the renderer reads on every
// draw. Only the render thread touches it.
type App struct {
	Camera     Camera
	Viewport   Viewport
	RenderMode int32
}

func (a *App) Rotation() mgl32.Vec2 {
	return a.Camera.Rotation
}

func (a *App) Origin() mgl32.Vec3 {
	return a.Camera.Origin
}

func (a *App) Zoom() float32 {
	return a.Camera.Zoom
}

func (a *App) QuadView() bool {
	return a.Viewport.QuadView
}

func (a *App) QuadSplitPoint() mgl32.Vec2 {
	return a.Viewport.QuadSplit
}

func (a *App) Resolution() (int, int) {
	return a.Viewport.Width, a.Viewport.Height
}

func (a *App) Mode() int32 {
	return a.RenderMode
}
