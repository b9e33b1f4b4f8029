// Package gles binds the shader pipeline and the example helpers to
// OpenGL ES 3.1 through go-gl. Every function here needs a current
// context on the calling thread.
package gles

import (
	"errors"
	"strings"
	"unsafe"

	"github.com/go-gl/gl/v3.1/gles2"

	"github.com/devblok/koru-gles/shader"
)

// Init loads the GLES entry points. When getProcAddr is nil the
// default loader of the platform is used.
func Init(getProcAddr func(name string) unsafe.Pointer) error {
	if getProcAddr == nil {
		return gles2.Init()
	}
	return gles2.InitWithProcAddrFunc(getProcAddr)
}

// Version returns the GL_VERSION and GL_SHADING_LANGUAGE_VERSION strings.
func Version() (string, string) {
	return gles2.GoStr(gles2.GetString(gles2.VERSION)),
		gles2.GoStr(gles2.GetString(gles2.SHADING_LANGUAGE_VERSION))
}

var stageTypes = map[shader.Kind]uint32{
	shader.Vertex:   gles2.VERTEX_SHADER,
	shader.Fragment: gles2.FRAGMENT_SHADER,
	shader.Compute:  gles2.COMPUTE_SHADER,
}

// Driver implements shader.Driver on the current GLES context.
type Driver struct{}

// NewDriver returns a Driver. Init must have been called.
func NewDriver() *Driver {
	return &Driver{}
}

// CreateShader implements interface
func (Driver) CreateShader(kind shader.Kind) (uint32, error) {
	typ, ok := stageTypes[kind]
	if !ok {
		return 0, shader.ErrUnknownKind
	}
	handle := gles2.CreateShader(typ)
	if handle == 0 {
		return 0, errors.New("glCreateShader(" + kind.String() + "): " + errorName(gles2.GetError()))
	}
	return handle, nil
}

// ShaderSource implements interface
func (Driver) ShaderSource(handle uint32, text string) {
	if !strings.HasSuffix(text, "\x00") {
		text += "\x00"
	}
	csources, free := gles2.Strs(text)
	gles2.ShaderSource(handle, 1, csources, nil)
	free()
}

// CompileShader implements interface
func (Driver) CompileShader(handle uint32) {
	gles2.CompileShader(handle)
}

// ShaderCompiled implements interface
func (Driver) ShaderCompiled(handle uint32) bool {
	var status int32
	gles2.GetShaderiv(handle, gles2.COMPILE_STATUS, &status)
	return status != gles2.FALSE
}

// ShaderInfoLog implements interface
func (Driver) ShaderInfoLog(handle uint32, limit int) string {
	var length int32
	gles2.GetShaderiv(handle, gles2.INFO_LOG_LENGTH, &length)
	size := shader.LogBufferSize(length, limit)
	if size == 0 {
		return ""
	}
	info := make([]uint8, size)
	gles2.GetShaderInfoLog(handle, size, nil, &info[0])
	return trimLog(info)
}

// DeleteShader implements interface
func (Driver) DeleteShader(handle uint32) {
	gles2.DeleteShader(handle)
}

// CreateProgram implements interface
func (Driver) CreateProgram() (uint32, error) {
	handle := gles2.CreateProgram()
	if handle == 0 {
		return 0, errors.New("glCreateProgram(): " + errorName(gles2.GetError()))
	}
	return handle, nil
}

// AttachShader implements interface
func (Driver) AttachShader(program, handle uint32) {
	gles2.AttachShader(program, handle)
}

// LinkProgram implements interface
func (Driver) LinkProgram(program uint32) {
	gles2.LinkProgram(program)
}

// ProgramLinked implements interface
func (Driver) ProgramLinked(program uint32) bool {
	var status int32
	gles2.GetProgramiv(program, gles2.LINK_STATUS, &status)
	return status != gles2.FALSE
}

// ValidateProgram implements interface
func (Driver) ValidateProgram(program uint32) {
	gles2.ValidateProgram(program)
}

// ProgramValidated implements interface
func (Driver) ProgramValidated(program uint32) bool {
	var status int32
	gles2.GetProgramiv(program, gles2.VALIDATE_STATUS, &status)
	return status != gles2.FALSE
}

// ProgramInfoLog implements interface
func (Driver) ProgramInfoLog(program uint32, limit int) string {
	var length int32
	gles2.GetProgramiv(program, gles2.INFO_LOG_LENGTH, &length)
	size := shader.LogBufferSize(length, limit)
	if size == 0 {
		return ""
	}
	info := make([]uint8, size)
	gles2.GetProgramInfoLog(program, size, nil, &info[0])
	return trimLog(info)
}

// DeleteProgram implements interface
func (Driver) DeleteProgram(program uint32) {
	gles2.DeleteProgram(program)
}

func trimLog(info []uint8) string {
	return strings.TrimRight(gles2.GoStr(&info[0]), "\n")
}
