package gles

import (
	"github.com/go-gl/gl/v3.1/gles2"
)

// ReadPixels reads back the RGBA8 contents of the bound read
// framebuffer. Rows are bottom-up, as GL stores them.
func ReadPixels(width, height int) []byte {
	pixels := make([]byte, width*height*4)
	gles2.PixelStorei(gles2.PACK_ALIGNMENT, 4)
	gles2.ReadPixels(0, 0, int32(width), int32(height), gles2.RGBA, gles2.UNSIGNED_BYTE, gles2.Ptr(pixels))
	return pixels
}
