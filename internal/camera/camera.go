// Package camera holds the rotation math shared by the free orbit camera and
// the fixed quad-view panes.
package camera

import (
	"math"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	Tau = 2 * math.Pi

	// DefaultBaseDistance is the distance between the free camera and its
	// target at zoom 1, in world units.
	DefaultBaseDistance = 512
)

// RotateXY returns the rotation by x radians about the vertical axis followed
// by y radians about the horizontal axis, written out in closed form.
func RotateXY(x, y float32) mgl32.Mat3 {
	sx, cx := math32.Sincos(x)
	sy, cy := math32.Sincos(y)

	// mgl32 is column-major.
	return mgl32.Mat3{
		cx, 0, -sx,
		sx * sy, cy, cx * sy,
		sx * cy, -sy, cx * cy,
	}
}

// Fixed orientations for the quad-view panes, named by the plane each one
// looks at.
var (
	PlaneXY = RotateXY(0, 0)
	PlaneZY = RotateXY(-0.5*math.Pi, 0)
	PlaneXZ = RotateXY(0, -0.5*math.Pi)
)

// FreeOrigin places the camera distance units along +Z, rotates it by m and
// moves it to orbit target.
func FreeOrigin(m mgl32.Mat3, target mgl32.Vec3, distance float32) mgl32.Vec3 {
	return m.Mul3x1(mgl32.Vec3{0, 0, distance}).Add(target)
}

// Cache keeps the free camera matrix and origin until Invalidate is called.
// Inputs are only read when the cache is dirty.
type Cache struct {
	baseDistance float32
	dirty        bool
	matrix       mgl32.Mat3
	origin       mgl32.Vec3
}

func NewCache(baseDistance float32) *Cache {
	return &Cache{baseDistance: baseDistance, dirty: true}
}

func (c *Cache) Invalidate() {
	c.dirty = true
}

func (c *Cache) Dirty() bool {
	return c.dirty
}

func (c *Cache) BaseDistance() float32 {
	return c.baseDistance
}

func (c *Cache) Resolve(
	rotation func() mgl32.Vec2,
	zoom func() float32,
	target func() mgl32.Vec3,
) (mgl32.Mat3, mgl32.Vec3) {
	if c.dirty {
		r := rotation()
		c.matrix = RotateXY(r.X()*Tau, r.Y()*Tau)
		c.origin = FreeOrigin(c.matrix, target(), c.baseDistance*zoom())
		c.dirty = false
	}
	return c.matrix, c.origin
}
