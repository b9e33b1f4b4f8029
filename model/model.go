package model

import (
	"sync"
	"unsafe"

	glm "github.com/go-gl/mathgl/mgl32"
)

// Object represents a drawable placed in the scene
type Object interface {

	// SetPosition sets the object's current position in space.
	// Has to be thread-safe
	SetPosition(glm.Mat4)

	// Position gets the object's current position in space.
	// Has to be thread-safe
	Position() glm.Mat4

	// SetRotation sets the object's rotation matrix.
	// Has to be thread-safe
	SetRotation(glm.Mat4)

	// Rotation gets the object's rotation matrix.
	// Has to be thread-safe
	Rotation() glm.Mat4

	// Vertices returns the vertices for Renderer use,
	// so it has to match the attributes exactly
	Vertices() []Vertex
}

// Vertex is a model vertex
type Vertex struct {
	Pos   glm.Vec3
	Color glm.Vec4
	UV    glm.Vec2
}

// Attribute describes where a vertex attribute lives inside Vertex
type Attribute struct {
	Name   string
	Size   int32
	Offset uintptr
}

// VertexStride is the size of one Vertex in bytes
const VertexStride = int32(unsafe.Sizeof(Vertex{}))

// VertexAttributes returns the attribute layout of Vertex, named
// after the shader inputs that consume them
func VertexAttributes() []Attribute {
	return []Attribute{
		{
			Name:   "aPos",
			Size:   3,
			Offset: unsafe.Offsetof(Vertex{}.Pos),
		},
		{
			Name:   "aColor",
			Size:   4,
			Offset: unsafe.Offsetof(Vertex{}.Color),
		},
		{
			Name:   "aUV",
			Size:   2,
			Offset: unsafe.Offsetof(Vertex{}.UV),
		},
	}
}

// Uniform defines a model-view-projection object
type Uniform struct {
	Model      glm.Mat4
	View       glm.Mat4
	Projection glm.Mat4
}

// MVP returns Projection * View * Model
func (u Uniform) MVP() glm.Mat4 {
	return u.Projection.Mul4(u.View).Mul4(u.Model)
}

// Camera returns a Uniform looking at the origin from eye with a
// perspective projection for the given aspect ratio
func Camera(eye glm.Vec3, aspect float32) Uniform {
	return Uniform{
		Model:      glm.Ident4(),
		View:       glm.LookAtV(eye, glm.Vec3{0, 0, 0}, glm.Vec3{0, 1, 0}),
		Projection: glm.Perspective(glm.DegToRad(45), aspect, 0.1, 100),
	}
}

// NewMesh creates an Object out of vertices, placed at the origin
func NewMesh(vertices []Vertex) *Mesh {
	return &Mesh{
		vertices: vertices,
		position: glm.Ident4(),
		rotation: glm.Ident4(),
	}
}

// Mesh is a basic Object
type Mesh struct {
	Object

	mutex    sync.RWMutex
	vertices []Vertex
	position glm.Mat4
	rotation glm.Mat4
}

// SetPosition implements interface
func (m *Mesh) SetPosition(p glm.Mat4) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.position = p
}

// Position implements interface
func (m *Mesh) Position() glm.Mat4 {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return m.position
}

// SetRotation implements interface
func (m *Mesh) SetRotation(r glm.Mat4) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.rotation = r
}

// Rotation implements interface
func (m *Mesh) Rotation() glm.Mat4 {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return m.rotation
}

// Vertices implements interface
func (m *Mesh) Vertices() []Vertex {
	return m.vertices
}

// Transform returns Position * Rotation, the model matrix of o
func Transform(o Object) glm.Mat4 {
	return o.Position().Mul4(o.Rotation())
}
