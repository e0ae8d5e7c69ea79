// Package window owns the glfw window, its GL context and the event loop
// that paces frames to the display refresh.
package window

import (
	"fmt"
	"sync"
	"time"

	"github.com/ThatOtherAndrew/fragview/internal/logx"
	"github.com/go-gl/glfw/v3.3/glfw"
)

type Options struct {
	Width   int
	Height  int
	Title   string
	VSync   bool
	Visible bool
}

// Window must be created and driven from the locked main thread. Post is the
// only method safe to call from other goroutines.
type Window struct {
	win   *glfw.Window
	start time.Time

	frames []func(now time.Duration)

	mu     sync.Mutex
	posted []func()
}

func New(opts Options) (*Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize GLFW: %w", err)
	}

	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	if opts.Visible {
		glfw.WindowHint(glfw.Visible, glfw.True)
	} else {
		glfw.WindowHint(glfw.Visible, glfw.False)
	}

	win, err := glfw.CreateWindow(opts.Width, opts.Height, opts.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to create window: %w", err)
	}
	win.MakeContextCurrent()
	if opts.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	logx.Logger().Info("window created", "width", opts.Width, "height", opts.Height, "vsync", opts.VSync)
	return &Window{win: win, start: time.Now()}, nil
}

// GLFW exposes the underlying window for callback registration.
func (w *Window) GLFW() *glfw.Window {
	return w.win
}

func (w *Window) FramebufferSize() (int, int) {
	return w.win.GetFramebufferSize()
}

// RequestFrame runs fn once at the next refresh. Render thread only.
func (w *Window) RequestFrame(fn func(now time.Duration)) {
	w.frames = append(w.frames, fn)
}

// Post queues fn to run on the render thread and wakes the event loop.
func (w *Window) Post(fn func()) {
	w.mu.Lock()
	w.posted = append(w.posted, fn)
	w.mu.Unlock()
	glfw.PostEmptyEvent()
}

func (w *Window) Close() {
	w.win.SetShouldClose(true)
}

// Run processes events until the window is asked to close. It blocks in
// WaitEvents while no frame is pending, so an idle preview costs nothing.
func (w *Window) Run() {
	for !w.win.ShouldClose() {
		if len(w.frames) == 0 {
			glfw.WaitEvents()
		} else {
			glfw.PollEvents()
		}
		w.runPosted()

		if len(w.frames) == 0 {
			continue
		}
		frames := w.frames
		w.frames = nil
		now := time.Since(w.start)
		for _, fn := range frames {
			fn(now)
		}
		w.win.SwapBuffers()
	}
}

func (w *Window) runPosted() {
	w.mu.Lock()
	posted := w.posted
	w.posted = nil
	w.mu.Unlock()

	for _, fn := range posted {
		fn()
	}
}

func (w *Window) Destroy() {
	w.win.Destroy()
	glfw.Terminate()
}
