package shader

import (
	log "github.com/sirupsen/logrus"
)

// DefaultInfoLogLimit bounds the diagnostic text fetched from the driver.
const DefaultInfoLogLimit = 512

// LogBufferSize returns how many bytes to fetch for a diagnostic log
// the driver reports as length bytes long, terminator included. At
// most limit bytes of text are fetched, no limit applies below 1.
func LogBufferSize(length int32, limit int) int32 {
	if length <= 0 {
		return 0
	}
	if limit > 0 && int(length) > limit+1 {
		return int32(limit + 1)
	}
	return length
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the logger that receives pipeline progress.
func WithLogger(logger log.FieldLogger) Option {
	return func(b *Builder) {
		b.logger = logger
	}
}

// WithInfoLogLimit sets how many bytes of compiler and linker
// diagnostics are fetched. Values below 1 are ignored.
func WithInfoLogLimit(limit int) Option {
	return func(b *Builder) {
		if limit > 0 {
			b.infoLogLimit = limit
		}
	}
}

// NewBuilder creates a Builder on top of driver. The driver's context
// must be current whenever the Builder is used.
func NewBuilder(driver Driver, opts ...Option) *Builder {
	b := &Builder{
		driver:       driver,
		logger:       log.StandardLogger(),
		infoLogLimit: DefaultInfoLogLimit,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Builder compiles and links shader programs.
type Builder struct {
	driver       Driver
	logger       log.FieldLogger
	infoLogLimit int
}

// CompileStage creates a shader object for src and compiles it.
// On failure the shader object is released and a *CompileError
// carrying the compiler log is returned.
func (b *Builder) CompileStage(src Source) (Stage, error) {
	if src.Kind <= Unknown || src.Kind > Compute {
		return Stage{}, ErrUnknownKind
	}
	if src.Text == "" {
		return Stage{}, ErrEmptySource
	}

	handle, err := b.driver.CreateShader(src.Kind)
	if err != nil {
		return Stage{}, err
	}
	b.driver.ShaderSource(handle, src.Text)
	b.driver.CompileShader(handle)

	if !b.driver.ShaderCompiled(handle) {
		info := b.driver.ShaderInfoLog(handle, b.infoLogLimit)
		b.driver.DeleteShader(handle)
		return Stage{}, &CompileError{
			Kind: src.Kind,
			Name: src.Name,
			Log:  info,
		}
	}

	b.logger.WithFields(log.Fields{
		"stage":  src.Kind,
		"name":   src.Name,
		"handle": handle,
	}).Debug("stage compiled")
	return Stage{Kind: src.Kind, Handle: handle}, nil
}

// LinkProgram links stages into a new program. Stages stay owned by the
// caller and may be released as soon as LinkProgram returns. On failure
// the program object is deleted and a *LinkError is returned.
func (b *Builder) LinkProgram(stages ...Stage) (Program, error) {
	kinds := make([]Kind, len(stages))
	for idx, st := range stages {
		kinds[idx] = st.Kind
	}
	if err := checkStageSet(kinds); err != nil {
		return Program{}, err
	}

	handle, err := b.driver.CreateProgram()
	if err != nil {
		return Program{}, err
	}
	for _, st := range stages {
		b.driver.AttachShader(handle, st.Handle)
	}
	b.driver.LinkProgram(handle)

	if !b.driver.ProgramLinked(handle) {
		info := b.driver.ProgramInfoLog(handle, b.infoLogLimit)
		b.driver.DeleteProgram(handle)
		return Program{}, &LinkError{Log: info}
	}
	return Program{Handle: handle, Kinds: kinds}, nil
}

// Build compiles every source in order and links the results.
// It stops at the first stage that fails to compile. All stages
// compiled along the way are released before Build returns.
func (b *Builder) Build(sources ...Source) (Program, error) {
	kinds := make([]Kind, len(sources))
	for idx, src := range sources {
		kinds[idx] = src.Kind
	}
	if err := checkStageSet(kinds); err != nil {
		return Program{}, err
	}

	logger := b.logger.WithField("stages", kinds)
	state := Created
	stages := make([]Stage, 0, len(sources))
	defer func() {
		for _, st := range stages {
			b.Release(st)
		}
		entry := logger.WithField("state", state)
		if !state.Terminal() {
			entry.Warn("build interrupted")
			return
		}
		entry.Debug("build finished")
	}()

	state = Compiling
	for _, src := range sources {
		st, err := b.CompileStage(src)
		if err != nil {
			state = CompileFailed
			return Program{}, err
		}
		stages = append(stages, st)
	}

	state = Linking
	program, err := b.LinkProgram(stages...)
	if err != nil {
		state = LinkFailed
		return Program{}, err
	}
	state = Linked
	logger = logger.WithField("program", program.Handle)
	return program, nil
}

// Validate asks the driver whether p can execute in the current state.
func (b *Builder) Validate(p Program) error {
	b.driver.ValidateProgram(p.Handle)
	if !b.driver.ProgramValidated(p.Handle) {
		return &ValidateError{
			Handle: p.Handle,
			Log:    b.driver.ProgramInfoLog(p.Handle, b.infoLogLimit),
		}
	}
	return nil
}

// Release frees a compiled stage.
func (b *Builder) Release(st Stage) {
	b.driver.DeleteShader(st.Handle)
}

// Delete frees a linked program.
func (b *Builder) Delete(p Program) {
	if p.Handle == 0 {
		return
	}
	b.driver.DeleteProgram(p.Handle)
}

// checkStageSet accepts a single compute stage or exactly one
// vertex and one fragment stage.
func checkStageSet(kinds []Kind) error {
	switch len(kinds) {
	case 1:
		if kinds[0] == Compute {
			return nil
		}
	case 2:
		if (kinds[0] == Vertex && kinds[1] == Fragment) ||
			(kinds[0] == Fragment && kinds[1] == Vertex) {
			return nil
		}
	}
	return ErrStageSet
}
