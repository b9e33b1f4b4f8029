// Package shader turns GLSL ES source text into linked program objects.
//
// A Builder drives a two phase pipeline against a Driver: every stage is
// compiled first, then the compiled stages are linked. The first failure
// ends the attempt and is returned as a typed error (*CompileError or
// *LinkError). Stage objects created during an attempt are always released
// before Build returns, whatever the outcome.
//
// A Builder must only be used from the thread that owns the current
// graphics context.
package shader

import (
	"path"
	"strings"
)

// Kind represents the type of a shader stage
type Kind int

// Identifies shader stages with their types
const (
	Unknown Kind = iota
	Vertex
	Fragment
	Compute
)

func (k Kind) String() string {
	switch k {
	case Vertex:
		return "vertex"
	case Fragment:
		return "fragment"
	case Compute:
		return "compute"
	default:
		return "unknown"
	}
}

// Suffix returns the file suffix used for sources of this kind.
func (k Kind) Suffix() string {
	switch k {
	case Vertex:
		return "vert"
	case Fragment:
		return "frag"
	case Compute:
		return "comp"
	default:
		return ""
	}
}

// KindFromSuffix maps a file suffix (vert, frag, comp) to a Kind.
// Returns Unknown for anything else.
func KindFromSuffix(suffix string) Kind {
	switch strings.TrimPrefix(suffix, ".") {
	case "vert":
		return Vertex
	case "frag":
		return Fragment
	case "comp":
		return Compute
	default:
		return Unknown
	}
}

// Source is the text of a single stage along with its kind.
// Name is only used in diagnostics and may be empty.
type Source struct {
	Kind Kind
	Name string
	Text string
}

// NewSource creates a Source for a file called <name>.<kind suffix>.
// The second return value is false when the file name does not
// follow that pattern.
func NewSource(filename, text string) (Source, bool) {
	base := path.Base(filename)
	nodes := strings.Split(base, ".")
	if len(nodes) != 2 || nodes[0] == "" {
		return Source{}, false
	}
	kind := KindFromSuffix(nodes[1])
	if kind == Unknown {
		return Source{}, false
	}
	return Source{Kind: kind, Name: nodes[0], Text: text}, true
}

// Stage is a compiled shader object owned by the driver. It is valid
// until released with Builder.Release.
type Stage struct {
	Kind   Kind
	Handle uint32
}

// Program is a linked program object. It stays valid after the stages
// it was linked from are released.
type Program struct {
	Handle uint32
	Kinds  []Kind
}

// IsCompute reports whether the program was linked from a compute stage.
func (p Program) IsCompute() bool {
	return len(p.Kinds) == 1 && p.Kinds[0] == Compute
}

// State is the position of a build attempt in the pipeline.
type State int

// Build attempt states
const (
	Created State = iota
	Compiling
	CompileFailed
	Compiled
	Linking
	LinkFailed
	Linked
)

func (s State) String() string {
	switch s {
	case Created:
		return "created"
	case Compiling:
		return "compiling"
	case CompileFailed:
		return "compile-failed"
	case Compiled:
		return "compiled"
	case Linking:
		return "linking"
	case LinkFailed:
		return "link-failed"
	case Linked:
		return "linked"
	default:
		return "invalid"
	}
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s == CompileFailed || s == LinkFailed || s == Linked
}
