// Command triangle renders one colored triangle offscreen and writes
// the frame to an image file.
package main

import (
	"flag"
	"runtime"
	"time"

	"github.com/go-gl/gl/v3.1/gles2"
	log "github.com/sirupsen/logrus"

	"github.com/devblok/koru-gles/capture"
	"github.com/devblok/koru-gles/core"
	"github.com/devblok/koru-gles/core/renderer"
	"github.com/devblok/koru-gles/device"
	"github.com/devblok/koru-gles/gles"
	"github.com/devblok/koru-gles/model"
	"github.com/devblok/koru-gles/shader"
)

func init() {
	runtime.LockOSThread()
}

var (
	envFile = flag.String("env", "", "Load environment variables from this file first")
	output  = flag.String("o", "", "Output image (.ppm, .png or .bmp), overrides KORU_OUTPUT")
)

type triangleScene struct {
	sources []shader.Source

	builder *shader.Builder
	program shader.Program
	mesh    *gles.Mesh
}

func (s *triangleScene) Initialise(b *shader.Builder) error {
	program, err := b.Build(s.sources...)
	if err != nil {
		return err
	}
	s.builder, s.program = b, program
	s.mesh = gles.NewMesh(program, model.Triangle())
	return nil
}

func (s *triangleScene) Draw(time.Duration) {
	gles2.ClearColor(0, 0, 0, 1)
	gles2.Clear(gles2.COLOR_BUFFER_BIT)
	gles.Use(s.program)
	s.mesh.Draw()
}

func (s *triangleScene) Destroy() {
	s.mesh.Delete()
	s.builder.Delete(s.program)
}

func run() error {
	cfg, err := core.LoadConfiguration(*envFile)
	if err != nil {
		return err
	}
	if *output != "" {
		cfg.Renderer.Output = *output
	}
	if err := core.ConfigureLogging(cfg.Log); err != nil {
		return err
	}

	sources, err := core.LoadShaders(cfg.Shaders)
	if err != nil {
		return err
	}
	sets, err := core.ProgramSets(sources)
	if err != nil {
		return err
	}
	set, err := core.FindProgramSet(sets, "triangle")
	if err != nil {
		return err
	}

	dev, err := device.NewGLFW(device.Configuration{
		Title:     "triangle",
		Width:     int(cfg.Renderer.ScreenWidth),
		Height:    int(cfg.Renderer.ScreenHeight),
		Hidden:    true,
		DebugMode: cfg.Renderer.DebugMode,
	})
	if err != nil {
		return err
	}
	defer dev.Destroy()

	pixels, width, height, err := renderer.RenderOnce(dev, &triangleScene{sources: set.Sources}, cfg.Renderer)
	if err != nil {
		return err
	}
	img, err := capture.FromGL(pixels, width, height)
	if err != nil {
		return err
	}
	if err := capture.WriteFile(cfg.Renderer.Output, img); err != nil {
		return err
	}
	log.WithFields(log.Fields{
		"output": cfg.Renderer.Output,
		"width":  width,
		"height": height,
	}).Info("Frame written")
	return nil
}

func main() {
	flag.Parse()
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
