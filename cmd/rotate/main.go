// Command rotate spins a textured quad in a window. The rotation is
// passed to the vertex stage as a matrix uniform every frame.
package main

import (
	"flag"
	"image"
	"image/color"
	"runtime"
	"time"

	"github.com/disintegration/imaging"
	"github.com/go-gl/gl/v3.1/gles2"
	glm "github.com/go-gl/mathgl/mgl32"
	log "github.com/sirupsen/logrus"

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
	imagePath = flag.String("image", "", "Texture to show, a checkerboard when empty")
	speed     = flag.Float64("speed", 90, "Rotation speed in degrees per second")
)

const maxTextureSize = 1024

type rotateScene struct {
	sources []shader.Source
	texture image.Image

	builder   *shader.Builder
	program   shader.Program
	quad      *model.Mesh
	mesh      *gles.Mesh
	tex       *gles.Texture
	transform int32
	sampler   int32
}

func (s *rotateScene) Initialise(b *shader.Builder) error {
	program, err := b.Build(s.sources...)
	if err != nil {
		return err
	}
	s.builder, s.program = b, program

	if s.transform, err = gles.UniformLocation(program, "uTransform"); err != nil {
		b.Delete(program)
		return err
	}
	if s.sampler, err = gles.UniformLocation(program, "uTexture"); err != nil {
		b.Delete(program)
		return err
	}

	s.quad = model.NewMesh(model.Quad())
	s.quad.SetPosition(glm.Scale3D(0.7, 0.7, 1))
	s.mesh = gles.NewMesh(program, s.quad.Vertices())
	s.tex = gles.NewTexture(s.texture)
	return nil
}

func (s *rotateScene) Draw(elapsed time.Duration) {
	angle := glm.DegToRad(float32(*speed * elapsed.Seconds()))
	s.quad.SetRotation(glm.HomogRotate3DZ(angle))
	transform := model.Transform(s.quad)

	gles2.ClearColor(0.1, 0.1, 0.1, 1)
	gles2.Clear(gles2.COLOR_BUFFER_BIT)
	gles.Use(s.program)
	gles2.UniformMatrix4fv(s.transform, 1, false, &transform[0])
	s.tex.Bind(0)
	gles2.Uniform1i(s.sampler, 0)
	s.mesh.Draw()
}

func (s *rotateScene) Destroy() {
	s.tex.Delete()
	s.mesh.Delete()
	s.builder.Delete(s.program)
}

func checkerboard(size, cells int) image.Image {
	img := imaging.New(size, size, color.NRGBA{255, 255, 255, 255})
	cell := size / cells
	dark := color.NRGBA{40, 40, 160, 255}
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if (x/cell+y/cell)%2 == 1 {
				img.SetNRGBA(x, y, dark)
			}
		}
	}
	return img
}

func loadTexture() (image.Image, error) {
	if *imagePath == "" {
		return checkerboard(256, 8), nil
	}
	img, err := imaging.Open(*imagePath)
	if err != nil {
		return nil, err
	}
	return imaging.Fit(img, maxTextureSize, maxTextureSize, imaging.Lanczos), nil
}

func run() error {
	cfg, err := core.LoadConfiguration(*envFile)
	if err != nil {
		return err
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
	set, err := core.FindProgramSet(sets, "textured")
	if err != nil {
		return err
	}
	texture, err := loadTexture()
	if err != nil {
		return err
	}

	dev, err := device.NewSDL(device.Configuration{
		Title:     "rotate",
		Width:     int(cfg.Renderer.ScreenWidth),
		Height:    int(cfg.Renderer.ScreenHeight),
		DebugMode: cfg.Renderer.DebugMode,
	})
	if err != nil {
		return err
	}
	defer dev.Destroy()

	return renderer.Run(dev, &rotateScene{sources: set.Sources, texture: texture}, cfg)
}

func main() {
	flag.Parse()
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
