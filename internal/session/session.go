// Package session ties the timeline, the renderer and the render loop
// together behind the commands the window, the file watcher and remote
// editors issue. Every method runs on the render thread.
package session

import (
	"fmt"
	"time"

	"github.com/ThatOtherAndrew/fragview/internal/draw"
	"github.com/ThatOtherAndrew/fragview/internal/logx"
	"github.com/ThatOtherAndrew/fragview/internal/models"
	"github.com/ThatOtherAndrew/fragview/internal/output"
	"github.com/ThatOtherAndrew/fragview/internal/renderloop"
	"github.com/ThatOtherAndrew/fragview/internal/timeline"
	"github.com/go-gl/mathgl/mgl32"
)

type Options struct {
	Draw draw.Options
	// Autoplay lets the first frame start playback.
	Autoplay bool
	// OnClose is called when the user asks to quit.
	OnClose func()
}

// Status is a snapshot for remote editors.
type Status struct {
	T     float64 `json:"t"`
	State string  `json:"state"`
	Ready bool    `json:"ready"`
}

type Session struct {
	app      *models.App
	timer    *timeline.Timer
	renderer *draw.Renderer
	loop     *renderloop.Loop
	out      *output.Channel
	opts     Options
}

func New(
	app *models.App,
	timer *timeline.Timer,
	dev draw.Device,
	refresher renderloop.Refresher,
	out *output.Channel,
	opts Options,
) (*Session, error) {
	s := &Session{app: app, timer: timer, out: out, opts: opts}

	renderer, err := draw.New(dev, draw.Inputs{
		Time:           timer.T,
		RenderMode:     app.Mode,
		Rotation:       app.Rotation,
		Origin:         app.Origin,
		Zoom:           app.Zoom,
		QuadView:       app.QuadView,
		QuadSplitPoint: app.QuadSplitPoint,
		Resolution:     app.Resolution,
	}, opts.Draw)
	if err != nil {
		return nil, err
	}
	s.renderer = renderer
	s.loop = renderloop.New(refresher, s.frame)
	return s, nil
}

func (s *Session) animating() bool {
	switch s.timer.State() {
	case timeline.Playing:
		return true
	case timeline.Ambivalent:
		return s.opts.Autoplay
	}
	return false
}

func (s *Session) frame(elapsed float64) {
	if s.animating() {
		s.timer.Tick(elapsed, true)
	}
	s.renderer.Clear()
	s.renderer.Draw()
	if s.timer.State() == timeline.Playing {
		s.loop.Schedule()
	}
}

// Start draws the first frame.
func (s *Session) Start() {
	s.loop.Schedule()
}

// Refresh redraws without touching the clock.
func (s *Session) Refresh() {
	s.loop.Schedule()
}

// Recompile installs source as the fragment program and reports the outcome
// on the output channel.
func (s *Session) Recompile(source string) error {
	skipped := s.renderer.Current(source)
	start := time.Now()
	err := s.renderer.RecompileShader(source)
	s.loop.Schedule()
	if err != nil {
		s.out.Error(err)
		return err
	}
	if !skipped {
		elapsed := time.Since(start)
		logx.Logger().Info("shader compiled", "duration", elapsed)
		s.out.Printf("compiled shader in %d ms", elapsed.Milliseconds())
	}
	return nil
}

func (s *Session) PlayPause() {
	s.timer.PlayPause()
	s.loop.Schedule()
}

func (s *Session) Stop() {
	s.timer.Stop()
	s.loop.Schedule()
}

// Scrub moves the clock by delta seconds without starting playback.
func (s *Session) Scrub(delta float64) {
	s.timer.Tick(delta, false)
	s.loop.Schedule()
}

func (s *Session) SetLoop(start, end float64, mode string) error {
	loopMode, err := timeline.ParseLoopMode(mode)
	if err != nil {
		return err
	}
	if err := s.timer.UpdateLoop(start, end, loopMode); err != nil {
		return err
	}
	s.loop.Schedule()
	return nil
}

// CameraChanged must follow every edit of the camera state.
func (s *Session) CameraChanged() {
	s.renderer.UpdateCamera()
	s.loop.Schedule()
}

func (s *Session) SetCamera(rotation mgl32.Vec2, zoom float32, origin mgl32.Vec3) error {
	if zoom <= 0 {
		return fmt.Errorf("zoom must be positive, got %g", zoom)
	}
	s.app.Camera = models.Camera{Rotation: rotation, Zoom: zoom, Origin: origin}
	s.CameraChanged()
	return nil
}

func (s *Session) SetQuadView(enabled bool, split mgl32.Vec2) {
	s.app.Viewport.QuadView = enabled
	s.app.Viewport.QuadSplit = mgl32.Vec2{
		mgl32.Clamp(split.X(), 0, 1),
		mgl32.Clamp(split.Y(), 0, 1),
	}
	s.loop.Schedule()
}

func (s *Session) ToggleQuadView() {
	s.app.Viewport.QuadView = !s.app.Viewport.QuadView
	s.loop.Schedule()
}

func (s *Session) SetRenderMode(mode int32) {
	s.app.RenderMode = mode
	s.loop.Schedule()
}

func (s *Session) Resize(width, height int) {
	s.app.Viewport.Width = width
	s.app.Viewport.Height = height
	s.loop.Schedule()
}

func (s *Session) Close() {
	if s.opts.OnClose != nil {
		s.opts.OnClose()
	}
}

func (s *Session) Status() Status {
	return Status{
		T:     s.timer.T(),
		State: s.timer.State().String(),
		Ready: s.renderer.Ready(),
	}
}

// Release frees the GPU objects. The context must still be current.
func (s *Session) Release() {
	s.renderer.Release()
}
