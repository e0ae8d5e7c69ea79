package camera

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

const tol = 1e-5

func assertVec3(t *testing.T, want, got mgl32.Vec3) {
	t.Helper()
	for i := range 3 {
		assert.InDelta(t, want[i], got[i], 1e-3, "component %d of %v", i, got)
	}
}

func assertMat3(t *testing.T, want, got mgl32.Mat3) {
	t.Helper()
	for i := range 9 {
		assert.InDelta(t, want[i], got[i], tol, "element %d of %v", i, got)
	}
}

func TestRotateXYIdentity(t *testing.T) {
	assertMat3(t, mgl32.Ident3(), RotateXY(0, 0))
	assertMat3(t, mgl32.Ident3(), PlaneXY)
}

func TestRotateXYClosedForm(t *testing.T) {
	x, y := float32(0.7), float32(-1.3)
	got := RotateXY(x, y)

	sx, cx := float32(math.Sin(float64(x))), float32(math.Cos(float64(x)))
	sy, cy := float32(math.Sin(float64(y))), float32(math.Cos(float64(y)))
	rows := [3][3]float32{
		{cx, sx * sy, sx * cy},
		{0, cy, -sy},
		{-sx, cx * sy, cx * cy},
	}
	for r := range 3 {
		for c := range 3 {
			assert.InDelta(t, rows[r][c], got.At(r, c), tol, "row %d col %d", r, c)
		}
	}
}

func TestRotateXYMatchesComposition(t *testing.T) {
	x, y := float32(0.4), float32(1.1)
	want := mgl32.Rotate3DY(x).Mul3(mgl32.Rotate3DX(y))
	assertMat3(t, want, RotateXY(x, y))
}

func TestFixedPlanes(t *testing.T) {
	// A point on the +Z axis ends up on -X for the ZY pane and on +Y for
	// the XZ pane, matching where those panes place their cameras.
	assertVec3(t, mgl32.Vec3{-1, 0, 0}, PlaneZY.Mul3x1(mgl32.Vec3{0, 0, 1}))
	assertVec3(t, mgl32.Vec3{0, 1, 0}, PlaneXZ.Mul3x1(mgl32.Vec3{0, 0, 1}))
}

func TestFreeOrigin(t *testing.T) {
	target := mgl32.Vec3{1, 2, 3}
	assertVec3(t, mgl32.Vec3{1, 2, 3 + 512}, FreeOrigin(mgl32.Ident3(), target, 512))

	// Quarter turn about the vertical axis swings the camera onto +X.
	m := RotateXY(math.Pi/2, 0)
	assertVec3(t, mgl32.Vec3{1 + 256, 2, 3}, FreeOrigin(m, target, 256))
}

func TestCacheRecomputesOnlyWhenDirty(t *testing.T) {
	c := NewCache(DefaultBaseDistance)
	reads := 0
	rotation := func() mgl32.Vec2 { reads++; return mgl32.Vec2{0.25, 0} }
	zoom := func() float32 { return 2 }
	target := func() mgl32.Vec3 { return mgl32.Vec3{} }

	assert.True(t, c.Dirty())
	m, origin := c.Resolve(rotation, zoom, target)
	assert.Equal(t, 1, reads)
	assert.False(t, c.Dirty())
	assertVec3(t, mgl32.Vec3{1024, 0, 0}, origin)
	assertMat3(t, RotateXY(Tau/4, 0), m)

	c.Resolve(rotation, zoom, target)
	assert.Equal(t, 1, reads)

	c.Invalidate()
	c.Resolve(rotation, zoom, target)
	assert.Equal(t, 2, reads)
}
