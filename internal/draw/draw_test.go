package draw

import (
	"errors"
	"testing"

	"github.com/ThatOtherAndrew/fragview/internal/camera"
	"github.com/ThatOtherAndrew/fragview/internal/draw/drawtest"
	"github.com/ThatOtherAndrew/fragview/internal/shaders"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type inputs struct {
	time     float64
	mode     int32
	rotation mgl32.Vec2
	origin   mgl32.Vec3
	zoom     float32
	quad     bool
	split    mgl32.Vec2
	width    int
	height   int

	rotationReads int
}

func (in *inputs) accessors() Inputs {
	return Inputs{
		Time:       func() float64 { return in.time },
		RenderMode: func() int32 { return in.mode },
		Rotation: func() mgl32.Vec2 {
			in.rotationReads++
			return in.rotation
		},
		Origin:         func() mgl32.Vec3 { return in.origin },
		Zoom:           func() float32 { return in.zoom },
		QuadView:       func() bool { return in.quad },
		QuadSplitPoint: func() mgl32.Vec2 { return in.split },
		Resolution:     func() (int, int) { return in.width, in.height },
	}
}

func newRenderer(t *testing.T) (*Renderer, *drawtest.Device, *inputs) {
	t.Helper()
	dev := drawtest.New()
	in := &inputs{zoom: 1, split: mgl32.Vec2{0.5, 0.5}, width: 800, height: 600}
	r, err := New(dev, in.accessors(), DefaultOptions())
	require.NoError(t, err)
	return r, dev, in
}

const goodSource = "void main() {}"

func TestNewRequiresAccessors(t *testing.T) {
	in := (&inputs{}).accessors()
	in.Zoom = nil
	_, err := New(drawtest.New(), in, DefaultOptions())
	assert.Error(t, err)
}

func TestNewAttachesVertexStage(t *testing.T) {
	r, dev, _ := newRenderer(t)
	assert.Equal(t, 1, dev.Compiles)
	assert.Equal(t, []uint32{r.vertex}, dev.Attached[r.program])
	assert.False(t, r.Ready())
}

func TestRecompileSameSourceIsCacheHit(t *testing.T) {
	r, dev, _ := newRenderer(t)
	require.NoError(t, r.RecompileShader(goodSource))
	compiles, links := dev.Compiles, dev.Links
	fragment := r.fragment

	require.NoError(t, r.RecompileShader(goodSource))
	assert.Equal(t, compiles, dev.Compiles)
	assert.Equal(t, links, dev.Links)
	assert.Equal(t, fragment, r.fragment)
	assert.True(t, r.Current(goodSource))
}

func TestRecompileReplacesPreviousStage(t *testing.T) {
	r, dev, _ := newRenderer(t)
	require.NoError(t, r.RecompileShader(goodSource))
	first := r.fragment

	require.NoError(t, r.RecompileShader("void main() { }"))
	assert.True(t, dev.Deleted[first])
	assert.ElementsMatch(t, []uint32{r.vertex, r.fragment}, dev.Attached[r.program])
}

func TestCompileErrorLeavesNoFragment(t *testing.T) {
	r, dev, _ := newRenderer(t)
	require.NoError(t, r.RecompileShader(goodSource))
	previous := r.fragment

	err := r.RecompileShader(drawtest.CompileFailure)
	var compileErr *shaders.CompileError
	require.True(t, errors.As(err, &compileErr))
	assert.Contains(t, compileErr.Log, drawtest.CompileFailure)
	assert.False(t, r.Ready())
	assert.True(t, dev.Deleted[previous], "previous stage is not rolled back")
	assert.Equal(t, []uint32{r.vertex}, dev.Attached[r.program])

	draws := dev.Draws
	calls := len(dev.Calls)
	r.Draw()
	assert.Equal(t, draws, dev.Draws)
	assert.Len(t, dev.Calls, calls, "draw issues no GPU calls without a fragment stage")

	// The failing source is not cached, so a retry compiles again.
	compiles := dev.Compiles
	assert.Error(t, r.RecompileShader(drawtest.CompileFailure))
	assert.Equal(t, compiles+1, dev.Compiles)

	// The last good source is no longer attached, so it compiles too.
	require.NoError(t, r.RecompileShader(goodSource))
	assert.Equal(t, compiles+2, dev.Compiles)
	assert.True(t, r.Ready())
}

func TestLinkErrorDetachesNewStage(t *testing.T) {
	r, dev, _ := newRenderer(t)
	err := r.RecompileShader(drawtest.LinkFailure)
	var linkErr *shaders.LinkError
	require.True(t, errors.As(err, &linkErr))
	assert.False(t, r.Ready())
	assert.Equal(t, []uint32{r.vertex}, dev.Attached[r.program])

	require.NoError(t, r.RecompileShader(goodSource))
	assert.True(t, r.Ready())
}

func TestRelinkInvalidatesAttribLocation(t *testing.T) {
	r, dev, _ := newRenderer(t)
	require.NoError(t, r.RecompileShader(goodSource))
	r.Draw()
	r.Draw()
	assert.Equal(t, 1, dev.Count("AttribLocation position"))

	require.NoError(t, r.RecompileShader("void main() { discard; }"))
	r.Draw()
	assert.Equal(t, 2, dev.Count("AttribLocation position"))
}

func TestDrawSingleView(t *testing.T) {
	r, dev, in := newRenderer(t)
	in.time = 1.5
	in.mode = 2
	in.zoom = 2
	in.origin = mgl32.Vec3{1, 2, 3}
	require.NoError(t, r.RecompileShader(goodSource))

	r.Draw()
	assert.Equal(t, 1, dev.Draws)
	assert.Equal(t, 1, dev.Count("DrawTriangles 6"), "one quad is two triangles")
	assert.Equal(t, float32(1.5), dev.Uniforms["t"])
	assert.Equal(t, int32(2), dev.Uniforms["render_type"])
	assert.Equal(t, []drawtest.Viewport{{0, 0, 800, 600}}, dev.Viewports)
	assert.Equal(t, mgl32.Vec4{0, 0, 800, 600}, dev.Uniforms["viewport"])
	require.Len(t, dev.Origins, 1)
	assert.InDelta(t, 3+1024, dev.Origins[0].Z(), 1e-3)
}

func TestDrawRecomputesCameraOnlyWhenDirty(t *testing.T) {
	r, _, in := newRenderer(t)
	require.NoError(t, r.RecompileShader(goodSource))

	r.Draw()
	r.Draw()
	assert.Equal(t, 1, in.rotationReads)

	in.rotation = mgl32.Vec2{0.25, 0}
	r.Draw()
	assert.Equal(t, 1, in.rotationReads, "changes are ignored until UpdateCamera")

	r.UpdateCamera()
	r.Draw()
	assert.Equal(t, 2, in.rotationReads)
}

func TestDrawQuadView(t *testing.T) {
	r, dev, in := newRenderer(t)
	in.quad = true
	in.origin = mgl32.Vec3{10, 20, 30}
	require.NoError(t, r.RecompileShader(goodSource))

	r.Draw()
	assert.Equal(t, 4, dev.Draws)
	assert.Equal(t, 4, dev.Count("DrawTriangles 6"))
	assert.Equal(t, []drawtest.Viewport{
		{0, 0, 400, 300},
		{400, 0, 400, 300},
		{0, 300, 400, 300},
		{400, 300, 400, 300},
	}, dev.Viewports)

	const d = camera.DefaultBaseDistance
	require.Len(t, dev.Origins, 4)
	assert.Equal(t, mgl32.Vec3{10, 20, 30 + d}, dev.Origins[0])
	assert.Equal(t, mgl32.Vec3{10 - d, 20, 30}, dev.Origins[1])
	assert.InDelta(t, 30+d, dev.Origins[2].Z(), 1e-3)
	assert.Equal(t, mgl32.Vec3{10, 20 + d, 30}, dev.Origins[3])

	require.Len(t, dev.Matrices, 4)
	assert.Equal(t, camera.PlaneXY, dev.Matrices[0])
	assert.Equal(t, camera.PlaneZY, dev.Matrices[1])
	assert.Equal(t, camera.PlaneXZ, dev.Matrices[3])
}

func TestDrawQuadViewClampsPanes(t *testing.T) {
	r, dev, in := newRenderer(t)
	in.quad = true
	in.split = mgl32.Vec2{0.01, 0.01}
	require.NoError(t, r.RecompileShader(goodSource))

	r.Draw()
	require.Len(t, dev.Viewports, 4)
	assert.Equal(t, drawtest.Viewport{0, 0, 64, 64}, dev.Viewports[0])
}

func TestDrawSkipsEmptyCanvas(t *testing.T) {
	r, dev, in := newRenderer(t)
	in.width = 0
	require.NoError(t, r.RecompileShader(goodSource))
	r.Draw()
	assert.Zero(t, dev.Draws)
}
