package shaders

import (
	"fmt"
	"strings"
)

// CompileError carries the compiler diagnostic for a stage that failed to
// compile.
type CompileError struct {
	Stage Stage
	Log   string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("failed to compile %s shader: %s", e.Stage, strings.TrimSpace(e.Log))
}

// LinkError carries the linker diagnostic for a program whose stages
// compiled but did not link.
type LinkError struct {
	Log string
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("failed to link shader program: %s", strings.TrimSpace(e.Log))
}
