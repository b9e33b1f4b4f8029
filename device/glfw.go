package device

import (
	"errors"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/devblok/koru-gles/gles"
)

// NewGLFW opens a GLFW window whose GLES 3.1 context is created
// through EGL, and makes it current. With cfg.Hidden set the window
// is never shown, which stands in for an EGL pbuffer surface.
func NewGLFW(cfg Configuration) (Device, error) {
	if err := glfw.Init(); err != nil {
		return nil, errors.New("glfw.Init(): " + err.Error())
	}

	glfw.DefaultWindowHints()
	glfw.WindowHint(glfw.ClientAPI, glfw.OpenGLESAPI)
	glfw.WindowHint(glfw.ContextCreationAPI, glfw.EGLContextAPI)
	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.DepthBits, 24)
	if cfg.Hidden {
		glfw.WindowHint(glfw.Visible, glfw.False)
	}
	if cfg.DebugMode {
		glfw.WindowHint(glfw.OpenGLDebugContext, glfw.True)
	}

	window, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, errors.New("glfw.CreateWindow(): " + err.Error())
	}

	g := &GLFW{window: window}
	if err := g.MakeCurrent(); err != nil {
		g.Destroy()
		return nil, err
	}
	if err := gles.Init(glfw.GetProcAddress); err != nil {
		g.Destroy()
		return nil, errors.New("gles.Init(): " + err.Error())
	}
	logContext(g)
	return g, nil
}

// GLFW is a Device backed by a GLFW window
type GLFW struct {
	Device

	window *glfw.Window
}

// MakeCurrent implements interface
func (g *GLFW) MakeCurrent() error {
	g.window.MakeContextCurrent()
	return nil
}

// SwapBuffers implements interface
func (g *GLFW) SwapBuffers() {
	g.window.SwapBuffers()
}

// PollEvents implements interface
func (g *GLFW) PollEvents() bool {
	glfw.PollEvents()
	if g.window.GetKey(glfw.KeyEscape) == glfw.Press {
		g.window.SetShouldClose(true)
	}
	return !g.window.ShouldClose()
}

// Size implements interface
func (g *GLFW) Size() (int, int) {
	return g.window.GetFramebufferSize()
}

// Info implements interface
func (g *GLFW) Info() Info {
	return driverInfo()
}

// Destroy implements interface
func (g *GLFW) Destroy() {
	g.window.Destroy()
	glfw.Terminate()
}
