package shader_test

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/devblok/koru-gles/shader"
)

var (
	outDecl = regexp.MustCompile(`(?m)^\s*out\s+(\w+)\s+(\w+)\s*;`)
	inDecl  = regexp.MustCompile(`(?m)^\s*in\s+(\w+)\s+(\w+)\s*;`)
)

type fakeShader struct {
	kind     shader.Kind
	text     string
	compiled bool
	log      string
}

type fakeProgram struct {
	attached  []uint32
	linked    bool
	validated bool
	log       string
}

// fakeDriver mimics just enough of a GLSL compiler to exercise the
// builder: a stage compiles when it has a main function and no
// #error directive, and a vertex/fragment pair links when every
// fragment input is written by the vertex stage with the same type.
type fakeDriver struct {
	next     uint32
	shaders  map[uint32]*fakeShader
	programs map[uint32]*fakeProgram
	calls    []string

	silent     bool
	failCreate bool
	invalid    bool
}

func newFakeDriver() *fakeDriver {
	return &fakeDriver{
		shaders:  make(map[uint32]*fakeShader),
		programs: make(map[uint32]*fakeProgram),
	}
}

func (d *fakeDriver) record(format string, args ...interface{}) {
	d.calls = append(d.calls, fmt.Sprintf(format, args...))
}

func (d *fakeDriver) called(prefix string) int {
	var n int
	for _, c := range d.calls {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

func (d *fakeDriver) CreateShader(kind shader.Kind) (uint32, error) {
	d.record("CreateShader %s", kind)
	if d.failCreate {
		return 0, errors.New("out of handles")
	}
	d.next++
	d.shaders[d.next] = &fakeShader{kind: kind}
	return d.next, nil
}

func (d *fakeDriver) ShaderSource(id uint32, text string) {
	d.record("ShaderSource %d", id)
	d.shaders[id].text = text
}

func (d *fakeDriver) CompileShader(id uint32) {
	d.record("CompileShader %d", id)
	sh := d.shaders[id]
	switch {
	case strings.Contains(sh.text, "#error"):
		rest := strings.TrimSpace(strings.SplitN(sh.text, "#error", 2)[1])
		sh.log = "0:1: '#error' : " + strings.SplitN(rest, "\n", 2)[0]
	case !strings.Contains(sh.text, "void main()"):
		sh.log = "0:1: 'main' : missing entry point"
	default:
		sh.compiled = true
	}
	if d.silent {
		sh.log = ""
	}
}

func (d *fakeDriver) ShaderCompiled(id uint32) bool {
	return d.shaders[id].compiled
}

func (d *fakeDriver) ShaderInfoLog(id uint32, limit int) string {
	return truncate(d.shaders[id].log, limit)
}

func (d *fakeDriver) DeleteShader(id uint32) {
	d.record("DeleteShader %d", id)
	delete(d.shaders, id)
}

func (d *fakeDriver) CreateProgram() (uint32, error) {
	d.record("CreateProgram")
	d.next++
	d.programs[d.next] = &fakeProgram{}
	return d.next, nil
}

func (d *fakeDriver) AttachShader(program, id uint32) {
	d.record("AttachShader %d %d", program, id)
	p := d.programs[program]
	p.attached = append(p.attached, id)
}

func (d *fakeDriver) LinkProgram(program uint32) {
	d.record("LinkProgram %d", program)
	p := d.programs[program]
	var vert, frag *fakeShader
	for _, id := range p.attached {
		sh := d.shaders[id]
		switch sh.kind {
		case shader.Vertex:
			vert = sh
		case shader.Fragment:
			frag = sh
		}
	}
	p.linked = true
	if vert != nil && frag != nil {
		outputs := make(map[string]string)
		for _, m := range outDecl.FindAllStringSubmatch(vert.text, -1) {
			outputs[m[2]] = m[1]
		}
		for _, m := range inDecl.FindAllStringSubmatch(frag.text, -1) {
			if typ, ok := outputs[m[2]]; !ok || typ != m[1] {
				p.linked = false
				p.log = fmt.Sprintf("error: %s %s is not written by the vertex shader", m[1], m[2])
				break
			}
		}
	}
	if d.silent {
		p.log = ""
	}
}

func (d *fakeDriver) ProgramLinked(program uint32) bool {
	return d.programs[program].linked
}

func (d *fakeDriver) ValidateProgram(program uint32) {
	d.record("ValidateProgram %d", program)
	p := d.programs[program]
	p.validated = !d.invalid
	if d.invalid {
		p.log = "validation failed: no vertex array object bound"
	}
}

func (d *fakeDriver) ProgramValidated(program uint32) bool {
	return d.programs[program].validated
}

func (d *fakeDriver) ProgramInfoLog(program uint32, limit int) string {
	return truncate(d.programs[program].log, limit)
}

func (d *fakeDriver) DeleteProgram(program uint32) {
	d.record("DeleteProgram %d", program)
	delete(d.programs, program)
}

func truncate(s string, limit int) string {
	if len(s) > limit {
		return s[:limit]
	}
	return s
}
