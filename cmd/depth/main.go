// Command depth renders a checkered cube into a framebuffer whose
// depth attachment is a texture, copies the color image to the output
// and shows the depth texture in a scissored corner view. With
// -no-color the framebuffer is depth only and the depth view fills
// the output.
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
	noColor   = flag.Bool("no-color", false, "Render depth only and show the depth texture full size")
	viewSize  = flag.Int("view", 300, "Size in pixels of the depth view in the corner")
)

const (
	depthUnit   = 5
	viewPadding = 10
)

type depthScene struct {
	checkerSources []shader.Source
	viewSources    []shader.Source
	width, height  int
	depthOnly      bool

	builder *shader.Builder
	checker shader.Program
	view    shader.Program
	target  *gles.Framebuffer
	cube    *model.Mesh
	cubeVAO *gles.Mesh
	quadVAO *gles.Mesh
	camera  model.Uniform
	mvp     int32
	color   int32
	sampler int32
}

func (s *depthScene) Initialise(b *shader.Builder) (err error) {
	s.builder = b
	if s.checker, err = b.Build(s.checkerSources...); err != nil {
		return err
	}
	if s.view, err = b.Build(s.viewSources...); err != nil {
		b.Delete(s.checker)
		return err
	}
	defer func() {
		if err != nil {
			b.Delete(s.view)
			b.Delete(s.checker)
		}
	}()
	if s.mvp, err = gles.UniformLocation(s.checker, "uMVP"); err != nil {
		return err
	}
	if s.color, err = gles.UniformLocation(s.checker, "uColor"); err != nil {
		return err
	}
	if s.sampler, err = gles.UniformLocation(s.view, "uDepth"); err != nil {
		return err
	}

	color := gles.AttachRenderbuffer
	if s.depthOnly {
		color = gles.AttachNone
	}
	s.target, err = gles.NewFramebufferWith(gles.FramebufferConfiguration{
		Width:  s.width,
		Height: s.height,
		Color:  color,
		Depth:  gles.AttachTexture,
	})
	if err != nil {
		return err
	}

	s.camera = model.Uniform{
		Model:      glm.Ident4(),
		View:       glm.Translate3D(0, 0, -1.5),
		Projection: glm.Perspective(glm.DegToRad(45), float32(s.width)/float32(s.height), 0.1, 100),
	}
	s.cube = model.NewMesh(model.Cube())
	s.cubeVAO = gles.NewMesh(s.checker, s.cube.Vertices())
	s.quadVAO = gles.NewMesh(s.view, model.Quad())
	return nil
}

// cornerView is the square in the bottom left corner the depth image
// is shown in, shrunk to fit small outputs.
func cornerView(width, height, size int) image.Rectangle {
	limit := width
	if height < limit {
		limit = height
	}
	if most := limit - 2*viewPadding; size > most {
		size = most
	}
	if size < 1 {
		size = 1
	}
	return image.Rect(viewPadding, viewPadding, viewPadding+size, viewPadding+size)
}

func (s *depthScene) drawCube(elapsed time.Duration) {
	angle := float32(elapsed.Seconds()) * glm.DegToRad(50)
	s.cube.SetRotation(glm.HomogRotate3D(angle, glm.Vec3{0.5, 1, 0}.Normalize()))
	uniform := s.camera
	uniform.Model = model.Transform(s.cube)
	mvp := uniform.MVP()

	s.target.Bind()
	gles2.Enable(gles2.DEPTH_TEST)
	gles2.ClearColor(0, 0.3, 0.3, 1)
	gles2.Clear(gles2.COLOR_BUFFER_BIT | gles2.DEPTH_BUFFER_BIT)
	gles.Use(s.checker)
	gles2.UniformMatrix4fv(s.mvp, 1, false, &mvp[0])
	gles2.Uniform3f(s.color, 0.1, 0.8, 0.9)
	s.cubeVAO.Draw()
	gles2.Disable(gles2.DEPTH_TEST)
}

func (s *depthScene) drawDepth() {
	gles.Use(s.view)
	s.target.DepthTexture.Bind(depthUnit)
	gles2.Uniform1i(s.sampler, depthUnit)
	s.quadVAO.Draw()
}

func (s *depthScene) Draw(elapsed time.Duration) {
	dst := gles.CurrentFramebuffer()
	s.drawCube(elapsed)

	if s.depthOnly {
		gles2.BindFramebuffer(gles2.FRAMEBUFFER, dst)
		gles.Viewport(s.width, s.height)
		s.drawDepth()
		return
	}

	s.target.Blit(dst, image.Rect(0, 0, s.width, s.height), gles2.NEAREST)

	view := cornerView(s.width, s.height, *viewSize)
	x, y := int32(view.Min.X), int32(view.Min.Y)
	w, h := int32(view.Dx()), int32(view.Dy())
	gles2.Enable(gles2.SCISSOR_TEST)
	gles2.Scissor(x, y, w, h)
	gles2.Viewport(x, y, w, h)
	gles2.ClearColor(0, 0, 0, 1)
	gles2.Clear(gles2.COLOR_BUFFER_BIT)
	s.drawDepth()
	gles2.Disable(gles2.SCISSOR_TEST)
	gles.Viewport(s.width, s.height)
}

func (s *depthScene) Destroy() {
	s.quadVAO.Delete()
	s.cubeVAO.Delete()
	s.target.Delete()
	s.builder.Delete(s.view)
	s.builder.Delete(s.checker)
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
	checker, err := core.FindProgramSet(sets, "checker")
	if err != nil {
		return err
	}
	view, err := core.FindProgramSet(sets, "depthview")
	if err != nil {
		return err
	}

	dev, err := device.NewGLFW(device.Configuration{
		Title:     "depth",
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
	scene := &depthScene{
		checkerSources: checker.Sources,
		viewSources:    view.Sources,
		width:          width,
		height:         height,
		depthOnly:      *noColor,
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
