package shader_test

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/devblok/koru-gles/shader"
)

func TestNewSource(t *testing.T) {
	tests := []struct {
		filename string
		ok       bool
		kind     shader.Kind
		name     string
	}{
		{"triangle.vert", true, shader.Vertex, "triangle"},
		{"shaders/triangle.frag", true, shader.Fragment, "triangle"},
		{"vertices.comp", true, shader.Compute, "vertices"},
		{"triangle.vert.spv", false, shader.Unknown, ""},
		{"README.md", false, shader.Unknown, ""},
		{".vert", false, shader.Unknown, ""},
		{"triangle", false, shader.Unknown, ""},
	}
	for _, test := range tests {
		t.Run(test.filename, func(t *testing.T) {
			c := qt.New(t)
			src, ok := shader.NewSource(test.filename, "void main() {}")
			c.Assert(ok, qt.Equals, test.ok)
			c.Assert(src.Kind, qt.Equals, test.kind)
			c.Assert(src.Name, qt.Equals, test.name)
		})
	}
}

func TestKindSuffixRoundTrip(t *testing.T) {
	c := qt.New(t)
	for _, kind := range []shader.Kind{shader.Vertex, shader.Fragment, shader.Compute} {
		c.Assert(shader.KindFromSuffix(kind.Suffix()), qt.Equals, kind)
		c.Assert(shader.KindFromSuffix("."+kind.Suffix()), qt.Equals, kind)
	}
	c.Assert(shader.KindFromSuffix("geom"), qt.Equals, shader.Unknown)
	c.Assert(shader.Unknown.Suffix(), qt.Equals, "")
}

func TestStateTerminal(t *testing.T) {
	c := qt.New(t)
	c.Assert(shader.CompileFailed.Terminal(), qt.IsTrue)
	c.Assert(shader.LinkFailed.Terminal(), qt.IsTrue)
	c.Assert(shader.Linked.Terminal(), qt.IsTrue)
	c.Assert(shader.Compiling.Terminal(), qt.IsFalse)
	c.Assert(shader.Linking.String(), qt.Equals, "linking")
}
