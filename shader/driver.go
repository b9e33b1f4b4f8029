package shader

// Driver describes the graphics API calls the Builder relies on.
// Implementations are bound to a current context and are not
// expected to be safe for concurrent use.
type Driver interface {

	// CreateShader creates an empty shader object of the given kind.
	CreateShader(Kind) (uint32, error)

	// ShaderSource replaces the source text of a shader object.
	ShaderSource(shader uint32, text string)

	// CompileShader compiles the source attached to a shader object.
	CompileShader(shader uint32)

	// ShaderCompiled reports the compile status of a shader object.
	ShaderCompiled(shader uint32) bool

	// ShaderInfoLog returns at most limit bytes of the compiler log.
	ShaderInfoLog(shader uint32, limit int) string

	// DeleteShader releases a shader object.
	DeleteShader(shader uint32)

	// CreateProgram creates an empty program object.
	CreateProgram() (uint32, error)

	// AttachShader attaches a compiled shader to a program.
	AttachShader(program, shader uint32)

	// LinkProgram links all attached shaders of a program.
	LinkProgram(program uint32)

	// ProgramLinked reports the link status of a program.
	ProgramLinked(program uint32) bool

	// ValidateProgram checks whether the program can run in the
	// current state.
	ValidateProgram(program uint32)

	// ProgramValidated reports the validate status of a program.
	ProgramValidated(program uint32) bool

	// ProgramInfoLog returns at most limit bytes of the linker log.
	ProgramInfoLog(program uint32, limit int) string

	// DeleteProgram releases a program object.
	DeleteProgram(program uint32)
}
