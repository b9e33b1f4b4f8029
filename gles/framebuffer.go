package gles

import (
	"errors"
	"fmt"
	"image"

	"github.com/go-gl/gl/v3.1/gles2"
)

// Attachment selects what backs one framebuffer attachment point.
type Attachment int

const (
	// AttachNone leaves the attachment point empty
	AttachNone Attachment = iota
	// AttachRenderbuffer backs it with a renderbuffer, which can be
	// blitted and read but not sampled
	AttachRenderbuffer
	// AttachTexture backs it with a texture a later pass can sample
	AttachTexture
)

// FramebufferConfiguration describes the attachments of a Framebuffer.
// Color is RGBA8, depth is 24 bit.
type FramebufferConfiguration struct {
	Width  int
	Height int
	Color  Attachment
	Depth  Attachment
}

// Framebuffer is an offscreen render target.
type Framebuffer struct {
	Handle uint32
	Width  int
	Height int

	// ColorTexture and DepthTexture are set for texture attachments
	ColorTexture *Texture
	DepthTexture *Texture

	renderbuffers []uint32
}

// NewFramebuffer creates a complete framebuffer of the given size
// with an RGBA8 color and a 24 bit depth renderbuffer.
func NewFramebuffer(width, height int) (*Framebuffer, error) {
	return NewFramebufferWith(FramebufferConfiguration{
		Width:  width,
		Height: height,
		Color:  AttachRenderbuffer,
		Depth:  AttachRenderbuffer,
	})
}

// NewFramebufferWith creates a complete framebuffer as cfg describes.
// Without a color attachment the draw and read buffers are disabled,
// leaving a depth only target.
func NewFramebufferWith(cfg FramebufferConfiguration) (*Framebuffer, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("invalid framebuffer size %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.Color == AttachNone && cfg.Depth == AttachNone {
		return nil, errors.New("framebuffer needs at least one attachment")
	}

	f := &Framebuffer{Width: cfg.Width, Height: cfg.Height}
	gles2.GenFramebuffers(1, &f.Handle)
	gles2.BindFramebuffer(gles2.FRAMEBUFFER, f.Handle)

	switch cfg.Color {
	case AttachRenderbuffer:
		f.attachRenderbuffer(gles2.COLOR_ATTACHMENT0, gles2.RGBA8)
	case AttachTexture:
		f.ColorTexture = newTargetTexture(f.Width, f.Height,
			gles2.RGBA8, gles2.RGBA, gles2.UNSIGNED_BYTE, gles2.LINEAR)
		gles2.FramebufferTexture2D(gles2.FRAMEBUFFER, gles2.COLOR_ATTACHMENT0,
			gles2.TEXTURE_2D, f.ColorTexture.Handle, 0)
	default:
		none := uint32(gles2.NONE)
		gles2.DrawBuffers(1, &none)
		gles2.ReadBuffer(gles2.NONE)
	}

	switch cfg.Depth {
	case AttachRenderbuffer:
		f.attachRenderbuffer(gles2.DEPTH_ATTACHMENT, gles2.DEPTH_COMPONENT24)
	case AttachTexture:
		// depth textures are not filterable in ES 3
		f.DepthTexture = newTargetTexture(f.Width, f.Height,
			gles2.DEPTH_COMPONENT24, gles2.DEPTH_COMPONENT, gles2.UNSIGNED_INT, gles2.NEAREST)
		gles2.FramebufferTexture2D(gles2.FRAMEBUFFER, gles2.DEPTH_ATTACHMENT,
			gles2.TEXTURE_2D, f.DepthTexture.Handle, 0)
	}

	status := gles2.CheckFramebufferStatus(gles2.FRAMEBUFFER)
	gles2.BindFramebuffer(gles2.FRAMEBUFFER, 0)
	if status != gles2.FRAMEBUFFER_COMPLETE {
		f.Delete()
		return nil, fmt.Errorf("framebuffer incomplete: 0x%x", status)
	}
	return f, nil
}

func (f *Framebuffer) attachRenderbuffer(point, format uint32) {
	var rb uint32
	gles2.GenRenderbuffers(1, &rb)
	gles2.BindRenderbuffer(gles2.RENDERBUFFER, rb)
	gles2.RenderbufferStorage(gles2.RENDERBUFFER, format, int32(f.Width), int32(f.Height))
	gles2.FramebufferRenderbuffer(gles2.FRAMEBUFFER, point, gles2.RENDERBUFFER, rb)
	gles2.BindRenderbuffer(gles2.RENDERBUFFER, 0)
	f.renderbuffers = append(f.renderbuffers, rb)
}

// Bind makes f the draw and read target and sets the viewport to
// cover it.
func (f *Framebuffer) Bind() {
	gles2.BindFramebuffer(gles2.FRAMEBUFFER, f.Handle)
	Viewport(f.Width, f.Height)
}

// Unbind restores the default framebuffer.
func (f *Framebuffer) Unbind() {
	gles2.BindFramebuffer(gles2.FRAMEBUFFER, 0)
}

// Blit copies the whole color image of f into the rectangle to of
// framebuffer dst, scaling with filter (NEAREST or LINEAR). dst stays
// bound as the draw and read target afterwards.
func (f *Framebuffer) Blit(dst uint32, to image.Rectangle, filter uint32) {
	gles2.BindFramebuffer(gles2.READ_FRAMEBUFFER, f.Handle)
	gles2.BindFramebuffer(gles2.DRAW_FRAMEBUFFER, dst)
	gles2.BlitFramebuffer(0, 0, int32(f.Width), int32(f.Height),
		int32(to.Min.X), int32(to.Min.Y), int32(to.Max.X), int32(to.Max.Y),
		gles2.COLOR_BUFFER_BIT, filter)
	gles2.BindFramebuffer(gles2.FRAMEBUFFER, dst)
}

// Delete releases f and its attachments.
func (f *Framebuffer) Delete() {
	if len(f.renderbuffers) > 0 {
		gles2.DeleteRenderbuffers(int32(len(f.renderbuffers)), &f.renderbuffers[0])
		f.renderbuffers = nil
	}
	if f.ColorTexture != nil {
		f.ColorTexture.Delete()
		f.ColorTexture = nil
	}
	if f.DepthTexture != nil {
		f.DepthTexture.Delete()
		f.DepthTexture = nil
	}
	gles2.DeleteFramebuffers(1, &f.Handle)
}

// CurrentFramebuffer returns the framebuffer bound for drawing, so a
// pass that renders into its own target can return to it.
func CurrentFramebuffer() uint32 {
	var handle int32
	gles2.GetIntegerv(gles2.DRAW_FRAMEBUFFER_BINDING, &handle)
	return uint32(handle)
}

// Viewport maps clip space onto a width by height target.
func Viewport(width, height int) {
	gles2.Viewport(0, 0, int32(width), int32(height))
}
