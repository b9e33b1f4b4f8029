// Package renderer drives a Scene on a device.Device, either in a
// window until it is closed or for a single offscreen frame.
package renderer

import (
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/devblok/koru-gles/core"
	"github.com/devblok/koru-gles/device"
	"github.com/devblok/koru-gles/gles"
	"github.com/devblok/koru-gles/shader"
)

// Scene describes what an example renders.
// All methods are called on the thread owning the context.
type Scene interface {
	// Initialise builds the programs and uploads the resources
	// the scene needs
	Initialise(*shader.Builder) error

	// Draw renders one frame, elapsed is the time since start
	Draw(elapsed time.Duration)

	// Destroy releases everything Initialise created
	Destroy()
}

// NewBuilder creates a shader.Builder on the current context,
// configured from cfg.
func NewBuilder(cfg core.RendererConfiguration) *shader.Builder {
	return shader.NewBuilder(gles.NewDriver(),
		shader.WithLogger(log.StandardLogger()),
		shader.WithInfoLogLimit(cfg.InfoLogLimit),
	)
}

// Run initialises scene and draws it on dev at the configured rate
// until the window is closed.
func Run(dev device.Device, scene Scene, cfg core.Configuration) error {
	builder := NewBuilder(cfg.Renderer)
	if err := scene.Initialise(builder); err != nil {
		return err
	}
	defer scene.Destroy()
	if err := gles.CheckError(log.StandardLogger(), "initialise"); err != nil {
		return err
	}

	clock := core.NewTime(cfg.Time)
	defer clock.Stop()
	log.WithFields(log.Fields{
		"fps":      clock.Fps(),
		"interval": clock.Interval(),
	}).Debug("Event loop started")

	var frames int
	for range clock.FpsTicker().C {
		if !dev.PollEvents() {
			break
		}
		gles.Viewport(dev.Size())
		scene.Draw(clock.Elapsed())
		dev.SwapBuffers()
		frames++
	}
	log.WithFields(log.Fields{
		"frames":  frames,
		"elapsed": clock.Elapsed(),
	}).Info("Event loop exited")
	return nil
}

// RenderOnce initialises scene, draws a single frame into an
// offscreen framebuffer the size of dev and returns the RGBA pixels
// read back from it, bottom row first.
func RenderOnce(dev device.Device, scene Scene, cfg core.RendererConfiguration) ([]byte, int, int, error) {
	width, height := dev.Size()
	target, err := gles.NewFramebuffer(width, height)
	if err != nil {
		return nil, 0, 0, err
	}
	defer target.Delete()

	builder := NewBuilder(cfg)
	if err := scene.Initialise(builder); err != nil {
		return nil, 0, 0, err
	}
	defer scene.Destroy()

	target.Bind()
	scene.Draw(0)
	pixels := gles.ReadPixels(width, height)
	target.Unbind()
	if err := gles.CheckError(log.StandardLogger(), "draw"); err != nil {
		return nil, 0, 0, err
	}
	return pixels, width, height, nil
}
