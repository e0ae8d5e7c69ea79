package draw

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Rect is a viewport rectangle in device pixels with a bottom-left origin.
type Rect struct {
	X, Y          int
	Width, Height int
}

// Panes is the quad-view layout. The free camera lives in TopLeft.
type Panes struct {
	BottomLeft  Rect
	BottomRight Rect
	TopLeft     Rect
	TopRight    Rect
}

// SplitPanes divides a width×height canvas at split, measured from the
// bottom-left corner as a fraction of each axis. The left column and the
// bottom row are kept at least minSize pixels wide, and so is the opposite
// side whenever the canvas is large enough for both.
func SplitPanes(split mgl32.Vec2, width, height, minSize int) Panes {
	left := clamp(round(split.X()*float32(width)), minSize, width-minSize)
	bottom := clamp(round(split.Y()*float32(height)), minSize, height-minSize)
	right := width - left
	top := height - bottom

	return Panes{
		BottomLeft:  Rect{X: 0, Y: 0, Width: left, Height: bottom},
		BottomRight: Rect{X: left, Y: 0, Width: right, Height: bottom},
		TopLeft:     Rect{X: 0, Y: bottom, Width: left, Height: top},
		TopRight:    Rect{X: left, Y: bottom, Width: right, Height: top},
	}
}

func round(v float32) int {
	return int(math.Round(float64(v)))
}

// clamp lets lo win over hi, so a canvas narrower than two minimum panes
// still gets a minimum-sized first pane.
func clamp(v, lo, hi int) int {
	return max(min(v, hi), lo)
}
