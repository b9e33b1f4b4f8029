// Command shadercheck builds every program found in a shader set on a
// hidden GLES context and reports which ones compile and link.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"runtime"

	log "github.com/sirupsen/logrus"

	"github.com/devblok/koru-gles/core"
	"github.com/devblok/koru-gles/core/renderer"
	"github.com/devblok/koru-gles/device"
	"github.com/devblok/koru-gles/shader"
)

func init() {
	runtime.LockOSThread()
}

var (
	envFile  = flag.String("env", "", "Load environment variables from this file first")
	dir      = flag.String("d", "", "Shader directory, overrides KORU_SHADERS")
	archive  = flag.String("a", "", "Shader kar archive, overrides KORU_ARCHIVE")
	embedded = flag.Bool("embedded", false, "Check the shaders built into the binary")
	asJSON   = flag.Bool("json", false, "Print the report as JSON")
	validate = flag.Bool("validate", true, "Also validate every linked program")
)

// Result is the outcome of building one program set
type Result struct {
	Program string   `json:"program"`
	Stages  []string `json:"stages"`
	State   string   `json:"state"`
	Stage   string   `json:"stage,omitempty"`
	Log     string   `json:"log,omitempty"`
	Error   string   `json:"error,omitempty"`
}

// OK reports whether the program linked (and validated when asked)
func (r Result) OK() bool {
	return r.Error == ""
}

func check(b *shader.Builder, set core.ProgramSet) Result {
	result := Result{Program: set.Name}
	for _, src := range set.Sources {
		result.Stages = append(result.Stages, src.Kind.String())
	}

	program, err := b.Build(set.Sources...)
	var (
		compileErr  *shader.CompileError
		linkErr     *shader.LinkError
		validateErr *shader.ValidateError
	)
	switch {
	case errors.As(err, &compileErr):
		result.State = shader.CompileFailed.String()
		result.Stage = compileErr.Kind.String()
		result.Log = compileErr.Log
		result.Error = err.Error()
		return result
	case errors.As(err, &linkErr):
		result.State = shader.LinkFailed.String()
		result.Log = linkErr.Log
		result.Error = err.Error()
		return result
	case err != nil:
		result.State = shader.Created.String()
		result.Error = err.Error()
		return result
	}
	defer b.Delete(program)

	result.State = shader.Linked.String()
	if *validate {
		if err := b.Validate(program); errors.As(err, &validateErr) {
			result.Log = validateErr.Log
			result.Error = err.Error()
		} else if err != nil {
			result.Error = err.Error()
		}
	}
	return result
}

func loadSources(cfg core.ShaderConfiguration) ([]shader.Source, error) {
	if *embedded {
		return core.LoadShaderBox(core.ShaderBox)
	}
	return core.LoadShaders(cfg)
}

func run() (int, error) {
	cfg, err := core.LoadConfiguration(*envFile)
	if err != nil {
		return 0, err
	}
	if *dir != "" {
		cfg.Shaders.Directory = *dir
	}
	if *archive != "" {
		cfg.Shaders.Archive = *archive
	}
	if err := core.ConfigureLogging(cfg.Log); err != nil {
		return 0, err
	}

	sources, err := loadSources(cfg.Shaders)
	if err != nil {
		return 0, err
	}
	sets, err := core.ProgramSets(sources)
	if err != nil {
		return 0, err
	}

	dev, err := device.NewGLFW(device.Configuration{
		Title:     "shadercheck",
		Width:     1,
		Height:    1,
		Hidden:    true,
		DebugMode: cfg.Renderer.DebugMode,
	})
	if err != nil {
		return 0, err
	}
	defer dev.Destroy()

	builder := renderer.NewBuilder(cfg.Renderer)
	results := make([]Result, 0, len(sets))
	var failed int
	for _, set := range sets {
		result := check(builder, set)
		if !result.OK() {
			failed++
		}
		results = append(results, result)
	}

	if *asJSON {
		bytes, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return failed, err
		}
		fmt.Printf("%s\n", bytes)
		return failed, nil
	}
	for _, result := range results {
		entry := log.WithFields(log.Fields{
			"program": result.Program,
			"stages":  result.Stages,
			"state":   result.State,
		})
		if result.OK() {
			entry.Info("Program built")
			continue
		}
		entry.WithField("log", result.Log).Error(result.Error)
	}
	return failed, nil
}

func main() {
	flag.Parse()
	failed, err := run()
	if err != nil {
		log.Fatal(err)
	}
	if failed > 0 {
		log.WithField("failed", failed).Error("Some programs did not build")
		os.Exit(1)
	}
}
