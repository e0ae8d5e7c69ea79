package draw

import (
	"github.com/ThatOtherAndrew/fragview/internal/shaders"
	"github.com/go-gl/mathgl/mgl32"
)

// Device is the slice of the GPU API the renderer drives. It is implemented
// by opengl.Device.
type Device interface {
	CreateProgram() uint32
	// CompileShader returns a *shaders.CompileError on failure and leaves no
	// shader object behind.
	CompileShader(stage shaders.Stage, source string) (uint32, error)
	AttachShader(program, shader uint32)
	DetachShader(program, shader uint32)
	DeleteShader(shader uint32)
	// LinkProgram returns a *shaders.LinkError on failure.
	LinkProgram(program uint32) error
	UseProgram(program uint32)
	DeleteProgram(program uint32)

	AttribLocation(program uint32, name string) int32
	UniformLocation(program uint32, name string) int32
	Uniform1f(location int32, v float32)
	Uniform1i(location int32, v int32)
	Uniform3f(location int32, v mgl32.Vec3)
	Uniform4f(location int32, v mgl32.Vec4)
	UniformMatrix3f(location int32, m mgl32.Mat3)

	// CreateVertices uploads static vertex data and returns its vertex array
	// and buffer names.
	CreateVertices(data []float32) (vao, vbo uint32)
	BindVertices(vao, vbo uint32, location int32, size int32)
	DeleteVertices(vao, vbo uint32)

	Viewport(x, y, width, height int32)
	DrawTriangles(count int32)
	Clear()
}
