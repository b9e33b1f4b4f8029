// Command fbo draws the triangle into a texture backed framebuffer,
// blits it inset onto the output and shows the texture itself in a
// corner, in a window or as a single offscreen frame.
package main

import (
	"flag"
	"image"
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
	margin    = flag.Int("margin", 200, "Distance in pixels between the blitted image and the output edges")
	preview   = flag.Bool("preview", true, "Also sample the framebuffer texture in the bottom left corner")
)

type fboScene struct {
	triangleSources []shader.Source
	texturedSources []shader.Source
	width, height   int

	builder   *shader.Builder
	triangle  shader.Program
	textured  shader.Program
	target    *gles.Framebuffer
	shape     *gles.Mesh
	quad      *gles.Mesh
	transform int32
	sampler   int32
}

func (s *fboScene) Initialise(b *shader.Builder) (err error) {
	s.builder = b
	if s.triangle, err = b.Build(s.triangleSources...); err != nil {
		return err
	}
	if s.textured, err = b.Build(s.texturedSources...); err != nil {
		b.Delete(s.triangle)
		return err
	}
	defer func() {
		if err != nil {
			b.Delete(s.textured)
			b.Delete(s.triangle)
		}
	}()
	if s.transform, err = gles.UniformLocation(s.textured, "uTransform"); err != nil {
		return err
	}
	if s.sampler, err = gles.UniformLocation(s.textured, "uTexture"); err != nil {
		return err
	}

	s.target, err = gles.NewFramebufferWith(gles.FramebufferConfiguration{
		Width:  s.width,
		Height: s.height,
		Color:  gles.AttachTexture,
	})
	if err != nil {
		return err
	}
	s.shape = gles.NewMesh(s.triangle, model.Triangle())
	s.quad = gles.NewMesh(s.textured, model.Quad())
	return nil
}

// inset shrinks a width by height area by m pixels on every side,
// keeping at least one pixel.
func inset(width, height, m int) image.Rectangle {
	limit := width
	if height < limit {
		limit = height
	}
	if most := (limit - 1) / 2; m > most {
		m = most
	}
	if m < 0 {
		m = 0
	}
	return image.Rect(m, m, width-m, height-m)
}

func (s *fboScene) Draw(elapsed time.Duration) {
	dst := gles.CurrentFramebuffer()
	gles2.ClearColor(0.1, 0.1, 0.1, 1)
	gles2.Clear(gles2.COLOR_BUFFER_BIT)

	s.target.Bind()
	gles2.ClearColor(0, 0.3, 0.3, 1)
	gles2.Clear(gles2.COLOR_BUFFER_BIT)
	gles.Use(s.triangle)
	s.shape.Draw()

	s.target.Blit(dst, inset(s.width, s.height, *margin), gles2.LINEAR)
	gles.Viewport(s.width, s.height)
	if !*preview {
		return
	}

	transform := glm.Translate3D(-0.75, -0.75, 0).Mul4(glm.Scale3D(0.2, 0.2, 1))
	gles.Use(s.textured)
	gles2.UniformMatrix4fv(s.transform, 1, false, &transform[0])
	s.target.ColorTexture.Bind(0)
	gles2.Uniform1i(s.sampler, 0)
	s.quad.Draw()
}

func (s *fboScene) Destroy() {
	s.quad.Delete()
	s.shape.Delete()
	s.target.Delete()
	s.builder.Delete(s.textured)
	s.builder.Delete(s.triangle)
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
	triangle, err := core.FindProgramSet(sets, "triangle")
	if err != nil {
		return err
	}
	textured, err := core.FindProgramSet(sets, "textured")
	if err != nil {
		return err
	}

	dev, err := device.NewGLFW(device.Configuration{
		Title:     "fbo",
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
	scene := &fboScene{
		triangleSources: triangle.Sources,
		texturedSources: textured.Sources,
		width:           width,
		height:          height,
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
