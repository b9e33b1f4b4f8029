package gles

import (
	"image"

	"github.com/go-gl/gl/v3.1/gles2"

	"github.com/devblok/koru-gles/capture"
)

// Texture is a 2D RGBA8 texture.
type Texture struct {
	Handle uint32
	Width  int
	Height int
}

// NewTexture uploads img with linear filtering and edge clamping.
func NewTexture(img image.Image) *Texture {
	bounds := img.Bounds()
	t := &Texture{Width: bounds.Dx(), Height: bounds.Dy()}

	gles2.GenTextures(1, &t.Handle)
	gles2.BindTexture(gles2.TEXTURE_2D, t.Handle)
	gles2.TexParameteri(gles2.TEXTURE_2D, gles2.TEXTURE_MIN_FILTER, gles2.LINEAR)
	gles2.TexParameteri(gles2.TEXTURE_2D, gles2.TEXTURE_MAG_FILTER, gles2.LINEAR)
	gles2.TexParameteri(gles2.TEXTURE_2D, gles2.TEXTURE_WRAP_S, gles2.CLAMP_TO_EDGE)
	gles2.TexParameteri(gles2.TEXTURE_2D, gles2.TEXTURE_WRAP_T, gles2.CLAMP_TO_EDGE)
	gles2.PixelStorei(gles2.UNPACK_ALIGNMENT, 4)
	gles2.TexImage2D(gles2.TEXTURE_2D, 0, gles2.RGBA8, int32(t.Width), int32(t.Height), 0,
		gles2.RGBA, gles2.UNSIGNED_BYTE, gles2.Ptr(capture.ToGL(img)))
	gles2.BindTexture(gles2.TEXTURE_2D, 0)
	return t
}

// Bind binds the texture to the given texture unit.
func (t *Texture) Bind(unit uint32) {
	gles2.ActiveTexture(gles2.TEXTURE0 + unit)
	gles2.BindTexture(gles2.TEXTURE_2D, t.Handle)
}

// Delete releases the texture.
func (t *Texture) Delete() {
	gles2.DeleteTextures(1, &t.Handle)
}

// newTargetTexture allocates an empty texture a framebuffer renders
// into.
func newTargetTexture(width, height int, internalFormat int32, format, xtype uint32, filter int32) *Texture {
	t := &Texture{Width: width, Height: height}
	gles2.GenTextures(1, &t.Handle)
	gles2.BindTexture(gles2.TEXTURE_2D, t.Handle)
	gles2.TexParameteri(gles2.TEXTURE_2D, gles2.TEXTURE_MIN_FILTER, filter)
	gles2.TexParameteri(gles2.TEXTURE_2D, gles2.TEXTURE_MAG_FILTER, filter)
	gles2.TexParameteri(gles2.TEXTURE_2D, gles2.TEXTURE_WRAP_S, gles2.CLAMP_TO_EDGE)
	gles2.TexParameteri(gles2.TEXTURE_2D, gles2.TEXTURE_WRAP_T, gles2.CLAMP_TO_EDGE)
	gles2.TexImage2D(gles2.TEXTURE_2D, 0, internalFormat, int32(width), int32(height), 0,
		format, xtype, nil)
	gles2.BindTexture(gles2.TEXTURE_2D, 0)
	return t
}
