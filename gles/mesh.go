package gles

import (
	"github.com/go-gl/gl/v3.1/gles2"

	"github.com/devblok/koru-gles/model"
	"github.com/devblok/koru-gles/shader"
)

// Mesh is a vertex array backed by one buffer of model.Vertex.
type Mesh struct {
	VAO   uint32
	VBO   uint32
	Count int32
}

// NewMesh uploads vertices and binds the model.Vertex layout to the
// attributes of p. Attributes p does not use are left disabled.
func NewMesh(p shader.Program, vertices []model.Vertex) *Mesh {
	m := &Mesh{Count: int32(len(vertices))}
	gles2.GenVertexArrays(1, &m.VAO)
	gles2.GenBuffers(1, &m.VBO)

	gles2.BindVertexArray(m.VAO)
	gles2.BindBuffer(gles2.ARRAY_BUFFER, m.VBO)
	if len(vertices) > 0 {
		gles2.BufferData(gles2.ARRAY_BUFFER, len(vertices)*int(model.VertexStride), gles2.Ptr(vertices), gles2.STATIC_DRAW)
	}
	m.bindAttributes(p)
	gles2.BindVertexArray(0)
	gles2.BindBuffer(gles2.ARRAY_BUFFER, 0)
	return m
}

// NewStorageMesh allocates room for count vertices without data. The
// buffer is also bound as shader storage at binding so a compute
// program can fill it.
func NewStorageMesh(p shader.Program, count int, binding uint32) *Mesh {
	m := &Mesh{Count: int32(count)}
	gles2.GenVertexArrays(1, &m.VAO)
	gles2.GenBuffers(1, &m.VBO)

	gles2.BindVertexArray(m.VAO)
	gles2.BindBuffer(gles2.ARRAY_BUFFER, m.VBO)
	gles2.BufferData(gles2.ARRAY_BUFFER, count*int(model.VertexStride), nil, gles2.DYNAMIC_COPY)
	m.bindAttributes(p)
	gles2.BindVertexArray(0)
	gles2.BindBuffer(gles2.ARRAY_BUFFER, 0)

	gles2.BindBufferBase(gles2.SHADER_STORAGE_BUFFER, binding, m.VBO)
	return m
}

func (m *Mesh) bindAttributes(p shader.Program) {
	for _, attr := range model.VertexAttributes() {
		loc, err := AttribLocation(p, attr.Name)
		if err != nil {
			continue
		}
		gles2.EnableVertexAttribArray(loc)
		gles2.VertexAttribPointerWithOffset(loc, attr.Size, gles2.FLOAT, false, model.VertexStride, attr.Offset)
	}
}

// Draw draws the mesh as triangles.
func (m *Mesh) Draw() {
	gles2.BindVertexArray(m.VAO)
	gles2.DrawArrays(gles2.TRIANGLES, 0, m.Count)
	gles2.BindVertexArray(0)
}

// Delete releases the buffer and the vertex array.
func (m *Mesh) Delete() {
	gles2.DeleteBuffers(1, &m.VBO)
	gles2.DeleteVertexArrays(1, &m.VAO)
}
