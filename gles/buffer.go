package gles

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v3.1/gles2"
)

// Buffer is a buffer object without a fixed role, used for shader
// storage that the host writes and reads back.
type Buffer struct {
	Handle uint32
	Size   int
}

// NewBuffer allocates size zeroed bytes with the given usage hint.
func NewBuffer(size int, usage uint32) (*Buffer, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid buffer size %d", size)
	}
	b := &Buffer{Size: size}
	gles2.GenBuffers(1, &b.Handle)
	gles2.BindBuffer(gles2.ARRAY_BUFFER, b.Handle)
	gles2.BufferData(gles2.ARRAY_BUFFER, size, gles2.Ptr(make([]byte, size)), usage)
	gles2.BindBuffer(gles2.ARRAY_BUFFER, 0)
	return b, nil
}

// Write copies data to the start of the buffer through a write
// mapping.
func (b *Buffer) Write(data []byte) error {
	if len(data) > b.Size {
		return fmt.Errorf("%d bytes do not fit a %d byte buffer", len(data), b.Size)
	}
	if len(data) == 0 {
		return nil
	}
	return b.mapped(len(data), gles2.MAP_WRITE_BIT, func(dst []byte) {
		copy(dst, data)
	})
}

// Read maps the whole buffer for reading and returns a copy of its
// contents. Writes made by a compute dispatch must be made visible
// with a barrier first, Dispatch does that.
func (b *Buffer) Read() ([]byte, error) {
	out := make([]byte, b.Size)
	err := b.mapped(b.Size, gles2.MAP_READ_BIT, func(src []byte) {
		copy(out, src)
	})
	return out, err
}

func (b *Buffer) mapped(length int, access uint32, fn func([]byte)) error {
	gles2.BindBuffer(gles2.ARRAY_BUFFER, b.Handle)
	defer gles2.BindBuffer(gles2.ARRAY_BUFFER, 0)

	ptr := gles2.MapBufferRange(gles2.ARRAY_BUFFER, 0, length, access)
	if ptr == nil {
		return errors.New("buffer mapping failed")
	}
	fn(unsafe.Slice((*byte)(ptr), length))
	if !gles2.UnmapBuffer(gles2.ARRAY_BUFFER) {
		return errors.New("buffer contents lost while mapped")
	}
	return nil
}

// BindBase binds the buffer to an indexed target such as
// SHADER_STORAGE_BUFFER.
func (b *Buffer) BindBase(target, index uint32) {
	gles2.BindBufferBase(target, index, b.Handle)
}

// Delete releases the buffer.
func (b *Buffer) Delete() {
	gles2.DeleteBuffers(1, &b.Handle)
}
