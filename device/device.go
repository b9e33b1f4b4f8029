// Package device creates the OpenGL ES contexts the examples render
// into: an SDL2 window, or a GLFW window backed by EGL that can be
// kept hidden for offscreen renders.
package device

import (
	log "github.com/sirupsen/logrus"

	"github.com/devblok/koru-gles/gles"
)

// Configuration describes the context to create
type Configuration struct {
	Title  string
	Width  int
	Height int

	// Hidden keeps the window unmapped, used for offscreen renders.
	Hidden bool

	// DebugMode requests a debug context.
	DebugMode bool
}

// Info describes the driver behind a context
type Info struct {
	Version         string
	ShadingLanguage string
}

// Device describes a window with a current GLES 3.1 context
type Device interface {
	// MakeCurrent binds the context to the calling thread
	MakeCurrent() error

	// SwapBuffers presents the back buffer
	SwapBuffers()

	// PollEvents processes pending window events and returns
	// false once the window was asked to close
	PollEvents() bool

	// Size returns the drawable size in pixels
	Size() (int, int)

	// Info returns driver strings of the current context
	Info() Info

	// Destroy destroys the context and the window
	Destroy()
}

func driverInfo() Info {
	version, sl := gles.Version()
	return Info{
		Version:         version,
		ShadingLanguage: sl,
	}
}

func logContext(d Device) {
	info := d.Info()
	width, height := d.Size()
	log.WithFields(log.Fields{
		"version": info.Version,
		"glsl":    info.ShadingLanguage,
		"width":   width,
		"height":  height,
	}).Info("Context created")
}
