package shader_test

import (
	"errors"
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/devblok/koru-gles/core"
	"github.com/devblok/koru-gles/shader"
)

const (
	vertexSrc = `#version 310 es
precision highp float;

out vec3 fragColor;

void main() {
    fragColor = vec3(1.0, 0.5, 0.1);
    gl_Position = vec4(0.0, 0.0, 0.0, 1.0);
}
`
	fragmentSrc = `#version 310 es
precision highp float;

in vec3 fragColor;
out vec4 outColor;

void main() {
    outColor = vec4(fragColor, 1.0);
}
`
	mismatchedFragmentSrc = `#version 310 es
precision highp float;

in vec4 vertexColor;
out vec4 outColor;

void main() {
    outColor = vertexColor;
}
`
	brokenVertexSrc = `#version 310 es
#error unexpected IDENTIFIER
void main() {
`
	computeSrc = `#version 310 es
layout (local_size_x = 1, local_size_y = 1, local_size_z = 1) in;

layout(std140, binding=0) buffer destBuffer {
  vec4 data[3];
} outVertices;

void main() {
    outVertices.data[gl_GlobalInvocationID.x] = vec4(0.0);
}
`
)

var (
	vertex   = shader.Source{Kind: shader.Vertex, Name: "triangle", Text: vertexSrc}
	fragment = shader.Source{Kind: shader.Fragment, Name: "triangle", Text: fragmentSrc}
	compute  = shader.Source{Kind: shader.Compute, Name: "vertices", Text: computeSrc}
)

func TestBuildVertexFragment(t *testing.T) {
	c := qt.New(t)
	driver := newFakeDriver()
	builder := shader.NewBuilder(driver)

	program, err := builder.Build(vertex, fragment)
	c.Assert(err, qt.IsNil)
	c.Assert(program.Handle, qt.Not(qt.Equals), uint32(0))
	c.Assert(program.Kinds, qt.DeepEquals, []shader.Kind{shader.Vertex, shader.Fragment})
	c.Assert(program.IsCompute(), qt.IsFalse)

	c.Assert(driver.shaders, qt.HasLen, 0)
	c.Assert(driver.programs, qt.HasLen, 1)
	c.Assert(driver.called("DeleteShader"), qt.Equals, 2)
}

func TestBuildFragmentFirst(t *testing.T) {
	c := qt.New(t)
	driver := newFakeDriver()

	program, err := shader.NewBuilder(driver).Build(fragment, vertex)
	c.Assert(err, qt.IsNil)
	c.Assert(program.Kinds, qt.DeepEquals, []shader.Kind{shader.Fragment, shader.Vertex})
	c.Assert(driver.shaders, qt.HasLen, 0)
}

func TestBuildCompileFailureShortCircuits(t *testing.T) {
	c := qt.New(t)
	driver := newFakeDriver()
	builder := shader.NewBuilder(driver)

	broken := shader.Source{Kind: shader.Vertex, Name: "broken", Text: brokenVertexSrc}
	_, err := builder.Build(broken, fragment)

	var compileErr *shader.CompileError
	c.Assert(errors.As(err, &compileErr), qt.IsTrue)
	c.Assert(compileErr.Kind, qt.Equals, shader.Vertex)
	c.Assert(compileErr.Name, qt.Equals, "broken")
	c.Assert(compileErr.Log, qt.Not(qt.Equals), "")
	c.Assert(err, qt.ErrorMatches, `vertex shader "broken" failed to compile: .*unexpected IDENTIFIER.*`)

	c.Assert(driver.called("CreateShader fragment"), qt.Equals, 0)
	c.Assert(driver.called("CreateProgram"), qt.Equals, 0)
	c.Assert(driver.called("LinkProgram"), qt.Equals, 0)
	c.Assert(driver.shaders, qt.HasLen, 0)
}

func TestBuildCompileFailureReleasesEarlierStages(t *testing.T) {
	c := qt.New(t)
	driver := newFakeDriver()

	broken := shader.Source{Kind: shader.Fragment, Text: "precision highp float;"}
	_, err := shader.NewBuilder(driver).Build(vertex, broken)

	var compileErr *shader.CompileError
	c.Assert(errors.As(err, &compileErr), qt.IsTrue)
	c.Assert(compileErr.Kind, qt.Equals, shader.Fragment)
	c.Assert(err, qt.ErrorMatches, `fragment shader failed to compile: .*missing entry point`)
	c.Assert(driver.shaders, qt.HasLen, 0)
	c.Assert(driver.called("DeleteShader"), qt.Equals, 2)
}

func TestBuildLinkFailure(t *testing.T) {
	c := qt.New(t)
	driver := newFakeDriver()
	builder := shader.NewBuilder(driver)

	mismatched := shader.Source{Kind: shader.Fragment, Text: mismatchedFragmentSrc}
	_, err := builder.Build(vertex, mismatched)

	var linkErr *shader.LinkError
	c.Assert(errors.As(err, &linkErr), qt.IsTrue)
	c.Assert(linkErr.Log, qt.Not(qt.Equals), "")
	c.Assert(linkErr.Log, qt.Contains, "vertexColor")

	var compileErr *shader.CompileError
	c.Assert(errors.As(err, &compileErr), qt.IsFalse)

	c.Assert(driver.called("CompileShader"), qt.Equals, 2)
	c.Assert(driver.called("LinkProgram"), qt.Equals, 1)
	c.Assert(driver.shaders, qt.HasLen, 0)
	c.Assert(driver.programs, qt.HasLen, 0)
}

func TestBuildCompute(t *testing.T) {
	c := qt.New(t)
	driver := newFakeDriver()

	program, err := shader.NewBuilder(driver).Build(compute)
	c.Assert(err, qt.IsNil)
	c.Assert(program.IsCompute(), qt.IsTrue)
	c.Assert(driver.called("CreateShader compute"), qt.Equals, 1)
	c.Assert(driver.called("AttachShader"), qt.Equals, 1)
	c.Assert(driver.shaders, qt.HasLen, 0)
}

func TestBuildTwiceIsIndependent(t *testing.T) {
	c := qt.New(t)
	driver := newFakeDriver()
	builder := shader.NewBuilder(driver)

	first, err := builder.Build(vertex, fragment)
	c.Assert(err, qt.IsNil)
	second, err := builder.Build(vertex, fragment)
	c.Assert(err, qt.IsNil)

	c.Assert(first.Handle, qt.Not(qt.Equals), second.Handle)
	c.Assert(driver.programs, qt.HasLen, 2)

	builder.Delete(first)
	c.Assert(driver.programs, qt.HasLen, 1)
	_, ok := driver.programs[second.Handle]
	c.Assert(ok, qt.IsTrue)
}

func TestBuildRejectsStageSets(t *testing.T) {
	tests := []struct {
		name    string
		sources []shader.Source
	}{
		{"empty", nil},
		{"vertex only", []shader.Source{vertex}},
		{"fragment only", []shader.Source{fragment}},
		{"two fragments", []shader.Source{fragment, fragment}},
		{"vertex and compute", []shader.Source{vertex, compute}},
		{"three stages", []shader.Source{vertex, fragment, compute}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			c := qt.New(t)
			driver := newFakeDriver()
			_, err := shader.NewBuilder(driver).Build(test.sources...)
			c.Assert(err, qt.Equals, shader.ErrStageSet)
			c.Assert(driver.calls, qt.HasLen, 0)
		})
	}
}

func TestCompileStageErrors(t *testing.T) {
	c := qt.New(t)
	driver := newFakeDriver()
	builder := shader.NewBuilder(driver)

	_, err := builder.CompileStage(shader.Source{Kind: shader.Vertex})
	c.Assert(err, qt.Equals, shader.ErrEmptySource)

	_, err = builder.CompileStage(shader.Source{Kind: shader.Unknown, Text: vertexSrc})
	c.Assert(err, qt.Equals, shader.ErrUnknownKind)
	c.Assert(driver.calls, qt.HasLen, 0)

	driver.failCreate = true
	_, err = builder.CompileStage(vertex)
	c.Assert(err, qt.ErrorMatches, "out of handles")
}

func TestBuildEmptySourceReleasesStages(t *testing.T) {
	c := qt.New(t)
	driver := newFakeDriver()

	_, err := shader.NewBuilder(driver).Build(vertex, shader.Source{Kind: shader.Fragment})
	c.Assert(err, qt.Equals, shader.ErrEmptySource)
	c.Assert(driver.shaders, qt.HasLen, 0)
}

func TestLinkProgramKeepsStages(t *testing.T) {
	c := qt.New(t)
	driver := newFakeDriver()
	builder := shader.NewBuilder(driver)

	vs, err := builder.CompileStage(vertex)
	c.Assert(err, qt.IsNil)
	fs, err := builder.CompileStage(fragment)
	c.Assert(err, qt.IsNil)

	program, err := builder.LinkProgram(vs, fs)
	c.Assert(err, qt.IsNil)
	c.Assert(driver.shaders, qt.HasLen, 2)

	builder.Release(vs)
	builder.Release(fs)
	c.Assert(driver.shaders, qt.HasLen, 0)
	_, ok := driver.programs[program.Handle]
	c.Assert(ok, qt.IsTrue)
}

func TestInfoLogLimit(t *testing.T) {
	c := qt.New(t)
	driver := newFakeDriver()
	builder := shader.NewBuilder(driver, shader.WithInfoLogLimit(8))

	broken := shader.Source{Kind: shader.Vertex, Text: brokenVertexSrc}
	_, err := builder.Build(broken, fragment)

	var compileErr *shader.CompileError
	c.Assert(errors.As(err, &compileErr), qt.IsTrue)
	c.Assert(compileErr.Log, qt.HasLen, 8)
}

func TestDiagnosticsAreNotFabricated(t *testing.T) {
	c := qt.New(t)
	driver := newFakeDriver()
	driver.silent = true

	broken := shader.Source{Kind: shader.Vertex, Text: brokenVertexSrc}
	_, err := shader.NewBuilder(driver).Build(broken, fragment)

	var compileErr *shader.CompileError
	c.Assert(errors.As(err, &compileErr), qt.IsTrue)
	c.Assert(compileErr.Log, qt.Equals, "")
}

func TestValidate(t *testing.T) {
	c := qt.New(t)
	driver := newFakeDriver()
	builder := shader.NewBuilder(driver)

	program, err := builder.Build(vertex, fragment)
	c.Assert(err, qt.IsNil)
	c.Assert(builder.Validate(program), qt.IsNil)

	driver.invalid = true
	err = builder.Validate(program)
	var validateErr *shader.ValidateError
	c.Assert(errors.As(err, &validateErr), qt.IsTrue)
	c.Assert(validateErr.Handle, qt.Equals, program.Handle)
	c.Assert(strings.Contains(validateErr.Log, "vertex array"), qt.IsTrue)
}

func TestDeleteZeroProgram(t *testing.T) {
	c := qt.New(t)
	driver := newFakeDriver()
	shader.NewBuilder(driver).Delete(shader.Program{})
	c.Assert(driver.calls, qt.HasLen, 0)
}

func TestLogBufferSize(t *testing.T) {
	tests := []struct {
		name   string
		length int32
		limit  int
		want   int32
	}{
		{"empty", 0, 8, 0},
		{"negative", -1, 8, 0},
		{"under limit", 5, 8, 5},
		{"exactly limit", 9, 8, 9},
		{"over limit", 100, 8, 9},
		{"no limit", 100, 0, 100},
		{"negative limit", 100, -1, 100},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			c := qt.New(t)
			c.Assert(shader.LogBufferSize(test.length, test.limit), qt.Equals, test.want)
		})
	}
}

func TestBuildEmbeddedPrograms(t *testing.T) {
	c := qt.New(t)
	sources, err := core.LoadShaderBox(core.ShaderBox)
	c.Assert(err, qt.IsNil)
	sets, err := core.ProgramSets(sources)
	c.Assert(err, qt.IsNil)
	c.Assert(len(sets) > 0, qt.IsTrue)

	driver := newFakeDriver()
	builder := shader.NewBuilder(driver)
	for _, set := range sets {
		program, err := builder.Build(set.Sources...)
		c.Assert(err, qt.IsNil, qt.Commentf("program %s", set.Name))
		builder.Delete(program)
	}
}
