package gles

import (
	"fmt"

	"github.com/go-gl/gl/v3.1/gles2"

	"github.com/devblok/koru-gles/shader"
)

// Use makes p the current program.
func Use(p shader.Program) {
	gles2.UseProgram(p.Handle)
}

// UniformLocation looks up a uniform of p. Unused uniforms are
// optimised away by the compiler, so a missing one is an error.
func UniformLocation(p shader.Program, name string) (int32, error) {
	loc := gles2.GetUniformLocation(p.Handle, gles2.Str(name+"\x00"))
	if loc < 0 {
		return -1, fmt.Errorf("uniform %q not found in program %d", name, p.Handle)
	}
	return loc, nil
}

// AttribLocation looks up a vertex attribute of p.
func AttribLocation(p shader.Program, name string) (uint32, error) {
	loc := gles2.GetAttribLocation(p.Handle, gles2.Str(name+"\x00"))
	if loc < 0 {
		return 0, fmt.Errorf("attribute %q not found in program %d", name, p.Handle)
	}
	return uint32(loc), nil
}

// Dispatch runs a compute program with the given work group counts
// and waits for its writes to be visible to vertex attribute fetches
// and buffer mappings.
func Dispatch(p shader.Program, x, y, z uint32) error {
	if !p.IsCompute() {
		return fmt.Errorf("program %d has no compute stage", p.Handle)
	}
	gles2.UseProgram(p.Handle)
	gles2.DispatchCompute(x, y, z)
	gles2.UseProgram(0)
	gles2.MemoryBarrier(gles2.VERTEX_ATTRIB_ARRAY_BARRIER_BIT | gles2.BUFFER_UPDATE_BARRIER_BIT)
	return nil
}
