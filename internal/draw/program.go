package draw

import (
	"github.com/ThatOtherAndrew/fragview/internal/logx"
	"github.com/ThatOtherAndrew/fragview/internal/shaders"
)

// RecompileShader replaces the fragment stage. Source identical to the
// attached program is skipped. The previous stage is destroyed before the
// new one is compiled, so on a CompileError or LinkError the program is left
// without a fragment stage and Draw does nothing until a later call succeeds.
func (r *Renderer) RecompileShader(source string) error {
	if r.Current(source) {
		logx.Logger().Debug("skipping shader compilation")
		return nil
	}

	if r.fragment != 0 {
		r.dev.DetachShader(r.program, r.fragment)
		r.dev.DeleteShader(r.fragment)
		r.fragment = 0
		r.source = ""
	}

	fragment, err := r.dev.CompileShader(shaders.Fragment, source)
	if err != nil {
		logx.Logger().Warn("fragment shader failed to compile", "err", err)
		return err
	}
	r.dev.AttachShader(r.program, fragment)
	err = r.dev.LinkProgram(r.program)
	// Attribute locations may move on every relink.
	r.positionKnown = false
	if err != nil {
		r.dev.DetachShader(r.program, fragment)
		r.dev.DeleteShader(fragment)
		logx.Logger().Warn("shader program failed to link", "err", err)
		return err
	}

	r.dev.UseProgram(r.program)
	r.fragment = fragment
	r.source = source
	return nil
}

func (r *Renderer) attribPosition() int32 {
	if !r.positionKnown {
		r.positionLocation = r.dev.AttribLocation(r.program, "position")
		r.positionKnown = true
	}
	return r.positionLocation
}
