package device

import (
	"errors"

	log "github.com/sirupsen/logrus"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/devblok/koru-gles/gles"
)

// NewSDL opens an SDL2 window with a GLES 3.1 context and makes the
// context current. SDL is initialised here and shut down by Destroy.
func NewSDL(cfg Configuration) (Device, error) {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return nil, errors.New("sdl.Init(): " + err.Error())
	}

	setAttribute := func(attr sdl.GLattr, value int) error {
		if err := sdl.GLSetAttribute(attr, value); err != nil {
			sdl.Quit()
			return errors.New("sdl.GLSetAttribute(): " + err.Error())
		}
		return nil
	}
	if err := setAttribute(sdl.GL_CONTEXT_PROFILE_MASK, sdl.GL_CONTEXT_PROFILE_ES); err != nil {
		return nil, err
	}
	if err := setAttribute(sdl.GL_CONTEXT_MAJOR_VERSION, 3); err != nil {
		return nil, err
	}
	if err := setAttribute(sdl.GL_CONTEXT_MINOR_VERSION, 1); err != nil {
		return nil, err
	}
	if err := setAttribute(sdl.GL_DEPTH_SIZE, 24); err != nil {
		return nil, err
	}
	if cfg.DebugMode {
		if err := setAttribute(sdl.GL_CONTEXT_FLAGS, sdl.GL_CONTEXT_DEBUG_FLAG); err != nil {
			return nil, err
		}
	}

	var flags uint32 = sdl.WINDOW_OPENGL
	if cfg.Hidden {
		flags |= sdl.WINDOW_HIDDEN
	}
	window, err := sdl.CreateWindow(cfg.Title,
		sdl.WINDOWPOS_UNDEFINED,
		sdl.WINDOWPOS_UNDEFINED,
		int32(cfg.Width),
		int32(cfg.Height),
		flags)
	if err != nil {
		sdl.Quit()
		return nil, errors.New("sdl.CreateWindow(): " + err.Error())
	}

	glContext, err := window.GLCreateContext()
	if err != nil {
		window.Destroy()
		sdl.Quit()
		return nil, errors.New("sdl.GLCreateContext(): " + err.Error())
	}

	s := &SDL{
		window:  window,
		context: glContext,
	}
	if err := s.MakeCurrent(); err != nil {
		s.Destroy()
		return nil, err
	}
	if err := sdl.GLSetSwapInterval(1); err != nil {
		log.WithError(err).Warn("vsync unavailable")
	}
	if err := gles.Init(sdl.GLGetProcAddress); err != nil {
		s.Destroy()
		return nil, errors.New("gles.Init(): " + err.Error())
	}
	logContext(s)
	return s, nil
}

// SDL is a Device backed by an SDL2 window
type SDL struct {
	Device

	window  *sdl.Window
	context sdl.GLContext
}

// MakeCurrent implements interface
func (s *SDL) MakeCurrent() error {
	return s.window.GLMakeCurrent(s.context)
}

// SwapBuffers implements interface
func (s *SDL) SwapBuffers() {
	s.window.GLSwap()
}

// PollEvents implements interface
func (s *SDL) PollEvents() bool {
	open := true
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch et := event.(type) {
		case *sdl.KeyboardEvent:
			if et.Keysym.Sym == sdl.K_ESCAPE {
				open = false
			}
		case *sdl.QuitEvent:
			open = false
		}
	}
	return open
}

// Size implements interface
func (s *SDL) Size() (int, int) {
	w, h := s.window.GLGetDrawableSize()
	return int(w), int(h)
}

// Info implements interface
func (s *SDL) Info() Info {
	return driverInfo()
}

// Destroy implements interface
func (s *SDL) Destroy() {
	sdl.GLDeleteContext(s.context)
	s.window.Destroy()
	sdl.Quit()
}
