// Command compute fills a vertex buffer from a compute program every
// frame and draws it with the triangle program. With -readback it
// instead runs the values program once on a hidden context and prints
// the storage buffer it updated.
package main

import (
	"flag"
	"fmt"
	"runtime"
	"time"

	"github.com/go-gl/gl/v3.1/gles2"
	log "github.com/sirupsen/logrus"

	"github.com/devblok/koru-gles/capture"
	"github.com/devblok/koru-gles/core"
	"github.com/devblok/koru-gles/core/renderer"
	"github.com/devblok/koru-gles/device"
	"github.com/devblok/koru-gles/gles"
	"github.com/devblok/koru-gles/shader"
)

func init() {
	runtime.LockOSThread()
}

var (
	envFile   = flag.String("env", "", "Load environment variables from this file first")
	offscreen = flag.Bool("offscreen", false, "Render one frame to KORU_OUTPUT instead of opening a window")
	output    = flag.String("o", "", "Output image, overrides KORU_OUTPUT")
	segments  = flag.Int("segments", 48, "Number of triangles the compute program generates")
	readback  = flag.Int("readback", 0, "Dispatch the values program over this many elements and print them")
)

const (
	localSize      = 64
	storageBinding = 0
	// ivec2 in a std430 array
	valueStride = 8
)

type computeScene struct {
	compute []shader.Source
	draw    []shader.Source
	count   int

	builder *shader.Builder
	fill    shader.Program
	render  shader.Program
	mesh    *gles.Mesh
	uCount  int32
	uTime   int32
}

func (s *computeScene) Initialise(b *shader.Builder) (err error) {
	s.builder = b
	if s.fill, err = b.Build(s.compute...); err != nil {
		return err
	}
	if s.render, err = b.Build(s.draw...); err != nil {
		b.Delete(s.fill)
		return err
	}
	defer func() {
		if err != nil {
			b.Delete(s.render)
			b.Delete(s.fill)
		}
	}()
	if s.uCount, err = gles.UniformLocation(s.fill, "uCount"); err != nil {
		return err
	}
	if s.uTime, err = gles.UniformLocation(s.fill, "uTime"); err != nil {
		return err
	}
	s.mesh = gles.NewStorageMesh(s.render, s.count, storageBinding)
	return nil
}

func (s *computeScene) Draw(elapsed time.Duration) {
	gles.Use(s.fill)
	gles2.Uniform1ui(s.uCount, uint32(s.count))
	gles2.Uniform1f(s.uTime, float32(elapsed.Seconds()))
	groups := uint32((s.count + localSize - 1) / localSize)
	if err := gles.Dispatch(s.fill, groups, 1, 1); err != nil {
		log.WithError(err).Error("Dispatch failed")
		return
	}

	gles2.ClearColor(0, 0, 0, 1)
	gles2.Clear(gles2.COLOR_BUFFER_BIT)
	gles.Use(s.render)
	s.mesh.Draw()
}

func (s *computeScene) Destroy() {
	s.mesh.Delete()
	s.builder.Delete(s.render)
	s.builder.Delete(s.fill)
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
	if *segments < 1 {
		return fmt.Errorf("need at least one segment, got %d", *segments)
	}

	sources, err := core.LoadShaders(cfg.Shaders)
	if err != nil {
		return err
	}
	sets, err := core.ProgramSets(sources)
	if err != nil {
		return err
	}
	if *readback > 0 {
		return runReadback(sets, cfg)
	}
	fill, err := core.FindProgramSet(sets, "vertices")
	if err != nil {
		return err
	}
	draw, err := core.FindProgramSet(sets, "triangle")
	if err != nil {
		return err
	}

	dev, err := device.NewGLFW(device.Configuration{
		Title:     "compute",
		Width:     int(cfg.Renderer.ScreenWidth),
		Height:    int(cfg.Renderer.ScreenHeight),
		Hidden:    *offscreen,
		DebugMode: cfg.Renderer.DebugMode,
	})
	if err != nil {
		return err
	}
	defer dev.Destroy()

	scene := &computeScene{
		compute: fill.Sources,
		draw:    draw.Sources,
		count:   *segments * 3,
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

func runReadback(sets []core.ProgramSet, cfg core.Configuration) error {
	set, err := core.FindProgramSet(sets, "values")
	if err != nil {
		return err
	}
	dev, err := device.NewGLFW(device.Configuration{
		Title:     "compute",
		Width:     1,
		Height:    1,
		Hidden:    true,
		DebugMode: cfg.Renderer.DebugMode,
	})
	if err != nil {
		return err
	}
	defer dev.Destroy()

	builder := renderer.NewBuilder(cfg.Renderer)
	program, err := builder.Build(set.Sources...)
	if err != nil {
		return err
	}
	defer builder.Delete(program)

	buffer, err := gles.NewBuffer(*readback*valueStride, gles2.STATIC_DRAW)
	if err != nil {
		return err
	}
	defer buffer.Delete()
	input := make([]int32, 0, *readback*2)
	for idx := 0; idx < *readback; idx++ {
		input = append(input, int32(idx), int32(idx))
	}
	if err := buffer.Write(core.Int32Bytes(input)); err != nil {
		return err
	}
	buffer.BindBase(gles2.SHADER_STORAGE_BUFFER, storageBinding)

	if err := gles.Dispatch(program, uint32(*readback), 1, 1); err != nil {
		return err
	}
	data, err := buffer.Read()
	if err != nil {
		return err
	}
	if err := gles.CheckError(log.StandardLogger(), "readback"); err != nil {
		return err
	}

	values := core.SliceInt32(data)
	for idx := 0; idx+1 < len(values); idx += 2 {
		fmt.Printf("-> pos: %2d => %4d %4d\n", idx/2, values[idx], values[idx+1])
	}
	return nil
}

func main() {
	flag.Parse()
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
