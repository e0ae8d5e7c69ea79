// Package draw renders a user fragment program over a full-screen quad,
// either through one free camera or as a four-pane quad view.
package draw

import (
	"errors"

	"github.com/ThatOtherAndrew/fragview/internal/camera"
	"github.com/ThatOtherAndrew/fragview/internal/shaders"
	"github.com/go-gl/mathgl/mgl32"
)

// Inputs are read on every draw. The renderer never caches them across
// frames, only the camera matrix derived from them.
type Inputs struct {
	Time           func() float64
	RenderMode     func() int32
	Rotation       func() mgl32.Vec2
	Origin         func() mgl32.Vec3
	Zoom           func() float32
	QuadView       func() bool
	QuadSplitPoint func() mgl32.Vec2
	Resolution     func() (width, height int)
}

func (in Inputs) validate() error {
	if in.Time == nil || in.RenderMode == nil || in.Rotation == nil || in.Origin == nil ||
		in.Zoom == nil || in.QuadView == nil || in.QuadSplitPoint == nil || in.Resolution == nil {
		return errors.New("draw: every input accessor must be set")
	}
	return nil
}

type Options struct {
	BaseDistance float32
	MinPaneSize  int
}

func DefaultOptions() Options {
	return Options{
		BaseDistance: camera.DefaultBaseDistance,
		MinPaneSize:  64,
	}
}

type Renderer struct {
	dev  Device
	in   Inputs
	opts Options

	program  uint32
	vertex   uint32
	fragment uint32
	source   string

	positionLocation int32
	positionKnown    bool

	vao uint32
	vbo uint32

	camera *camera.Cache
}

// New builds the program with its fixed vertex stage and uploads the quad.
// Nothing is drawn until RecompileShader succeeds.
func New(dev Device, in Inputs, opts Options) (*Renderer, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	defaults := DefaultOptions()
	if opts.BaseDistance <= 0 {
		opts.BaseDistance = defaults.BaseDistance
	}
	if opts.MinPaneSize <= 0 {
		opts.MinPaneSize = defaults.MinPaneSize
	}

	vertex, err := dev.CompileShader(shaders.Vertex, shaders.VertexSource)
	if err != nil {
		return nil, err
	}
	r := &Renderer{
		dev:     dev,
		in:      in,
		opts:    opts,
		program: dev.CreateProgram(),
		vertex:  vertex,
		camera:  camera.NewCache(opts.BaseDistance),
	}
	dev.AttachShader(r.program, vertex)
	r.vao, r.vbo = dev.CreateVertices(quadVertices[:])
	return r, nil
}

// UpdateCamera marks the free camera stale. The matrix is rebuilt by the
// next draw that needs it.
func (r *Renderer) UpdateCamera() {
	r.camera.Invalidate()
}

// Ready reports whether a fragment stage is attached.
func (r *Renderer) Ready() bool {
	return r.fragment != 0
}

// Current reports whether source is the attached fragment program.
func (r *Renderer) Current(source string) bool {
	return r.Ready() && source == r.source
}

// Clear blanks the whole framebuffer. It is separate from Draw so a program
// that failed to build still leaves a clean canvas behind.
func (r *Renderer) Clear() {
	width, height := r.in.Resolution()
	r.dev.Viewport(0, 0, int32(width), int32(height))
	r.dev.Clear()
}

func (r *Renderer) Draw() {
	if !r.Ready() {
		return
	}
	width, height := r.in.Resolution()
	if width <= 0 || height <= 0 {
		return
	}

	r.dev.UseProgram(r.program)
	r.setSimpleUniforms()
	r.dev.BindVertices(r.vao, r.vbo, r.attribPosition(), quadComponents)

	if r.in.QuadView() {
		r.drawQuadView(width, height)
	} else {
		r.drawSingleView(width, height)
	}
}

func (r *Renderer) Release() {
	if r.fragment != 0 {
		r.dev.DetachShader(r.program, r.fragment)
		r.dev.DeleteShader(r.fragment)
		r.fragment = 0
	}
	r.dev.DetachShader(r.program, r.vertex)
	r.dev.DeleteShader(r.vertex)
	r.dev.DeleteVertices(r.vao, r.vbo)
	r.dev.DeleteProgram(r.program)
}

func (r *Renderer) setSimpleUniforms() {
	tLoc := r.dev.UniformLocation(r.program, "t")
	r.dev.Uniform1f(tLoc, float32(r.in.Time()))

	renderTypeLoc := r.dev.UniformLocation(r.program, "render_type")
	r.dev.Uniform1i(renderTypeLoc, r.in.RenderMode())
}

func (r *Renderer) setViewport(rect Rect) {
	viewportLoc := r.dev.UniformLocation(r.program, "viewport")
	r.dev.Uniform4f(viewportLoc, mgl32.Vec4{
		float32(rect.X), float32(rect.Y), float32(rect.Width), float32(rect.Height),
	})
	r.dev.Viewport(int32(rect.X), int32(rect.Y), int32(rect.Width), int32(rect.Height))
}

func (r *Renderer) setCamera(m mgl32.Mat3, origin mgl32.Vec3) {
	originLoc := r.dev.UniformLocation(r.program, "camera_origin")
	r.dev.Uniform3f(originLoc, origin)
	matrixLoc := r.dev.UniformLocation(r.program, "camera_matrix")
	r.dev.UniformMatrix3f(matrixLoc, m)
}

func (r *Renderer) freeCamera() (mgl32.Mat3, mgl32.Vec3) {
	return r.camera.Resolve(r.in.Rotation, r.in.Zoom, r.in.Origin)
}

func (r *Renderer) drawSingleView(width, height int) {
	r.setCamera(r.freeCamera())
	r.setViewport(Rect{Width: width, Height: height})
	r.dev.DrawTriangles(quadVertexCount)
}

func (r *Renderer) drawQuadView(width, height int) {
	panes := SplitPanes(r.in.QuadSplitPoint(), width, height, r.opts.MinPaneSize)
	distance := r.opts.BaseDistance * r.in.Zoom()
	target := r.in.Origin()

	// bottom left: XY
	r.setCamera(camera.PlaneXY, target.Add(mgl32.Vec3{0, 0, distance}))
	r.setViewport(panes.BottomLeft)
	r.dev.DrawTriangles(quadVertexCount)

	// bottom right: ZY
	r.setCamera(camera.PlaneZY, target.Sub(mgl32.Vec3{distance, 0, 0}))
	r.setViewport(panes.BottomRight)
	r.dev.DrawTriangles(quadVertexCount)

	// top left: free camera
	r.setCamera(r.freeCamera())
	r.setViewport(panes.TopLeft)
	r.dev.DrawTriangles(quadVertexCount)

	// top right: XZ, looking down
	r.setCamera(camera.PlaneXZ, target.Add(mgl32.Vec3{0, distance, 0}))
	r.setViewport(panes.TopRight)
	r.dev.DrawTriangles(quadVertexCount)
}
