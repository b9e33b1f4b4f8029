// Command cube draws a depth tested spinning cube through a
// model-view-projection uniform, in a window or as a single offscreen
// frame written to disk.
package main

import (
	"flag"
	"runtime"
	"time"

	"github.com/go-gl/gl/v3.1/gles2"
	glm "github.com/go-gl/mathgl/mgl32"
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
	envFile   = flag.String("env", "", "Load environment variables from this file first")
	offscreen = flag.Bool("offscreen", false, "Render one frame to KORU_OUTPUT instead of opening a window")
	output    = flag.String("o", "", "Output image, overrides KORU_OUTPUT")
)

type cubeScene struct {
	sources []shader.Source
	camera  model.Uniform

	builder *shader.Builder
	program shader.Program
	cube    *model.Mesh
	mesh    *gles.Mesh
	mvp     int32
}

func (s *cubeScene) Initialise(b *shader.Builder) error {
	program, err := b.Build(s.sources...)
	if err != nil {
		return err
	}
	s.builder, s.program = b, program
	if s.mvp, err = gles.UniformLocation(program, "uMVP"); err != nil {
		b.Delete(program)
		return err
	}

	s.cube = model.NewMesh(model.Cube())
	s.mesh = gles.NewMesh(program, s.cube.Vertices())

	gles2.Enable(gles2.DEPTH_TEST)
	gles2.DepthFunc(gles2.LESS)
	gles2.Enable(gles2.CULL_FACE)
	return nil
}

func (s *cubeScene) Draw(elapsed time.Duration) {
	angle := float32(elapsed.Seconds()) + glm.DegToRad(30)
	s.cube.SetRotation(glm.HomogRotate3D(angle, glm.Vec3{0.5, 1, 0.2}.Normalize()))

	uniform := s.camera
	uniform.Model = model.Transform(s.cube)
	mvp := uniform.MVP()

	gles2.ClearColor(0.05, 0.05, 0.1, 1)
	gles2.Clear(gles2.COLOR_BUFFER_BIT | gles2.DEPTH_BUFFER_BIT)
	gles.Use(s.program)
	gles2.UniformMatrix4fv(s.mvp, 1, false, &mvp[0])
	s.mesh.Draw()
}

func (s *cubeScene) Destroy() {
	gles2.Disable(gles2.CULL_FACE)
	gles2.Disable(gles2.DEPTH_TEST)
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
	set, err := core.FindProgramSet(sets, "cube")
	if err != nil {
		return err
	}

	dev, err := device.NewGLFW(device.Configuration{
		Title:     "cube",
		Width:     int(cfg.Renderer.ScreenWidth),
		Height:    int(cfg.Renderer.ScreenHeight),
		Hidden:    *offscreen,
		DebugMode: cfg.Renderer.DebugMode,
	})
	if err != nil {
		return err
	}
	defer dev.Destroy()

	width, height := dev.Size()
	scene := &cubeScene{
		sources: set.Sources,
		camera:  model.Camera(glm.Vec3{1.5, 1.2, 2.5}, float32(width)/float32(height)),
	}
	if !*offscreen {
		return renderer.Run(dev, scene, cfg)
	}

	pixels, width, height, err := renderer.RenderOnce(dev, scene, cfg.Renderer)
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
	log.WithField("output", cfg.Renderer.Output).Info("Frame written")
	return nil
}

func main() {
	flag.Parse()
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
