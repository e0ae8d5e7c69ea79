// Package drawtest provides a recording draw.Device for tests.
package drawtest

import (
	"fmt"
	"strings"

	"github.com/ThatOtherAndrew/fragview/internal/shaders"
	"github.com/go-gl/mathgl/mgl32"
)

// Sources containing these markers fail at the matching step.
const (
	CompileFailure = "syntax error"
	LinkFailure    = "link error"
)

type Viewport struct {
	X, Y, Width, Height int32
}

// Device records every call instead of talking to a GPU.
type Device struct {
	next uint32

	Calls    []string
	Attached map[uint32][]uint32
	Deleted  map[uint32]bool
	sources  map[uint32]string

	Compiles int
	Links    int
	Draws    int
	Clears   int

	Viewports []Viewport
	Origins   []mgl32.Vec3
	Matrices  []mgl32.Mat3
	Uniforms  map[string]any
}

func New() *Device {
	return &Device{
		Attached: map[uint32][]uint32{},
		Deleted:  map[uint32]bool{},
		sources:  map[uint32]string{},
		Uniforms: map[string]any{},
	}
}

// Count returns how many recorded calls equal call.
func (d *Device) Count(call string) int {
	n := 0
	for _, c := range d.Calls {
		if c == call {
			n++
		}
	}
	return n
}

func (d *Device) record(format string, args ...any) {
	d.Calls = append(d.Calls, fmt.Sprintf(format, args...))
}

func (d *Device) alloc() uint32 {
	d.next++
	return d.next
}

func (d *Device) CreateProgram() uint32 {
	p := d.alloc()
	d.record("CreateProgram %d", p)
	return p
}

func (d *Device) CompileShader(stage shaders.Stage, source string) (uint32, error) {
	d.Compiles++
	d.record("CompileShader %s", stage)
	if strings.Contains(source, CompileFailure) {
		return 0, &shaders.CompileError{Stage: stage, Log: "0:1: " + CompileFailure}
	}
	s := d.alloc()
	d.sources[s] = source
	return s, nil
}

func (d *Device) AttachShader(program, shader uint32) {
	d.record("AttachShader %d %d", program, shader)
	d.Attached[program] = append(d.Attached[program], shader)
}

func (d *Device) DetachShader(program, shader uint32) {
	d.record("DetachShader %d %d", program, shader)
	var kept []uint32
	for _, s := range d.Attached[program] {
		if s != shader {
			kept = append(kept, s)
		}
	}
	d.Attached[program] = kept
}

func (d *Device) DeleteShader(shader uint32) {
	d.record("DeleteShader %d", shader)
	d.Deleted[shader] = true
}

func (d *Device) LinkProgram(program uint32) error {
	d.Links++
	d.record("LinkProgram %d", program)
	for _, s := range d.Attached[program] {
		if strings.Contains(d.sources[s], LinkFailure) {
			return &shaders.LinkError{Log: "undefined reference"}
		}
	}
	return nil
}

func (d *Device) UseProgram(program uint32)    { d.record("UseProgram %d", program) }
func (d *Device) DeleteProgram(program uint32) { d.record("DeleteProgram %d", program) }

func (d *Device) AttribLocation(program uint32, name string) int32 {
	d.record("AttribLocation %s", name)
	return 0
}

// Uniform locations index into uniformNames so values can be read back by
// name.
var uniformNames = []string{"t", "render_type", "viewport", "camera_origin", "camera_matrix"}

func (d *Device) UniformLocation(program uint32, name string) int32 {
	for i, n := range uniformNames {
		if n == name {
			return int32(i)
		}
	}
	return -1
}

func (d *Device) set(location int32, v any) {
	if location >= 0 {
		d.Uniforms[uniformNames[location]] = v
	}
}

func (d *Device) Uniform1f(location int32, v float32) { d.set(location, v) }
func (d *Device) Uniform1i(location int32, v int32)   { d.set(location, v) }
func (d *Device) Uniform4f(location int32, v mgl32.Vec4) {
	d.set(location, v)
}

func (d *Device) Uniform3f(location int32, v mgl32.Vec3) {
	d.set(location, v)
	d.Origins = append(d.Origins, v)
}

func (d *Device) UniformMatrix3f(location int32, m mgl32.Mat3) {
	d.set(location, m)
	d.Matrices = append(d.Matrices, m)
}

func (d *Device) CreateVertices(data []float32) (uint32, uint32) {
	d.record("CreateVertices %d", len(data))
	return d.alloc(), d.alloc()
}

func (d *Device) BindVertices(vao, vbo uint32, location int32, size int32) {
	d.record("BindVertices %d", size)
}

func (d *Device) DeleteVertices(vao, vbo uint32) { d.record("DeleteVertices") }

func (d *Device) Viewport(x, y, width, height int32) {
	d.Viewports = append(d.Viewports, Viewport{x, y, width, height})
}

func (d *Device) DrawTriangles(count int32) {
	d.Draws++
	d.record("DrawTriangles %d", count)
}

func (d *Device) Clear() {
	d.Clears++
}

// Reset forgets recorded draws so a test can look at a single frame.
func (d *Device) Reset() {
	d.Draws = 0
	d.Viewports = nil
	d.Origins = nil
	d.Matrices = nil
}
