package window

import (
	"github.com/ThatOtherAndrew/fragview/internal/update"
	"github.com/go-gl/glfw/v3.3/glfw"
)

var keys = map[glfw.Key]update.Key{
	glfw.KeySpace:  update.KeySpace,
	glfw.KeyS:      update.KeyS,
	glfw.KeyQ:      update.KeyQ,
	glfw.KeyLeft:   update.KeyLeft,
	glfw.KeyRight:  update.KeyRight,
	glfw.KeyEscape: update.KeyEscape,
	glfw.Key0:      update.Key0,
	glfw.Key1:      update.Key1,
	glfw.Key2:      update.Key2,
	glfw.Key3:      update.Key3,
	glfw.Key4:      update.Key4,
	glfw.Key5:      update.Key5,
	glfw.Key6:      update.Key6,
	glfw.Key7:      update.Key7,
	glfw.Key8:      update.Key8,
	glfw.Key9:      update.Key9,
}

// Surface reacts to changes of the drawable area.
type Surface interface {
	Resize(width, height int)
	Refresh()
}

// Bind routes glfw input to the bindings and framebuffer changes to surface.
func (w *Window) Bind(input *update.App, surface Surface) {
	w.win.SetMouseButtonCallback(func(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		if button == glfw.MouseButtonLeft {
			input.OnButton(action == glfw.Press)
		}
	})
	w.win.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		input.OnCursor(x, y)
	})
	w.win.SetScrollCallback(func(_ *glfw.Window, _, yoff float64) {
		input.OnScroll(yoff)
	})
	w.win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if action == glfw.Release {
			return
		}
		// Held arrows repeat so scrubbing can be continuous; toggles do not.
		k, ok := keys[key]
		if !ok || (action == glfw.Repeat && k != update.KeyLeft && k != update.KeyRight) {
			return
		}
		input.OnKey(k)
	})
	w.win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		surface.Resize(width, height)
	})
	w.win.SetRefreshCallback(func(_ *glfw.Window) {
		surface.Refresh()
	})
}
