package core

import (
	"fmt"
	"strconv"

	"github.com/gobuffalo/envy"
	"github.com/joho/godotenv"

	"github.com/devblok/koru-gles/shader"
)

// Environment variables read by LoadConfiguration
const (
	EnvWidth        = "KORU_WIDTH"
	EnvHeight       = "KORU_HEIGHT"
	EnvFPS          = "KORU_FPS"
	EnvOutput       = "KORU_OUTPUT"
	EnvDebug        = "KORU_DEBUG"
	EnvInfoLogLimit = "KORU_INFO_LOG_LIMIT"
	EnvShaders      = "KORU_SHADERS"
	EnvArchive      = "KORU_ARCHIVE"
	EnvLogLevel     = "KORU_LOG_LEVEL"
	EnvLogFormat    = "KORU_LOG_FORMAT"
)

// Configuration defines a global configuration setting
type Configuration struct {
	Time     TimeConfiguration
	Renderer RendererConfiguration
	Shaders  ShaderConfiguration
	Log      LogConfiguration
}

// TimeConfiguration is used to configure time services
type TimeConfiguration struct {
	// FramesPerSecond caps frames per second that is put out
	// To unlimit, set to 0
	FramesPerSecond int
}

// RendererConfiguration is used to configure the render target
type RendererConfiguration struct {
	ScreenWidth  uint32
	ScreenHeight uint32

	// Output is the file an offscreen render is written to
	Output string

	// DebugMode requests a debug context
	DebugMode bool

	// InfoLogLimit bounds compiler and linker diagnostics
	InfoLogLimit int
}

// ShaderConfiguration tells where shader sources are loaded from.
// Archive wins over Directory when both are set.
type ShaderConfiguration struct {
	Directory string
	Archive   string
}

// LogConfiguration is used to configure logging
type LogConfiguration struct {
	Level  string
	Format string
}

// DefaultConfiguration is used for anything the environment does not set
var DefaultConfiguration = Configuration{
	Time: TimeConfiguration{
		FramesPerSecond: 60,
	},
	Renderer: RendererConfiguration{
		ScreenWidth:  256,
		ScreenHeight: 256,
		Output:       "out.ppm",
		InfoLogLimit: shader.DefaultInfoLogLimit,
	},
	Shaders: ShaderConfiguration{
		Directory: "./shaders",
	},
	Log: LogConfiguration{
		Level:  "info",
		Format: "text",
	},
}

// LoadConfiguration builds a Configuration from the environment.
// When envFile is not empty it is loaded first and must exist,
// variables already set in the environment take precedence over it.
func LoadConfiguration(envFile string) (Configuration, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return Configuration{}, fmt.Errorf("godotenv.Load(%s): %w", envFile, err)
		}
	}
	envy.Reload()

	cfg := DefaultConfiguration
	var err error
	if cfg.Renderer.ScreenWidth, err = envUint32(EnvWidth, cfg.Renderer.ScreenWidth); err != nil {
		return Configuration{}, err
	}
	if cfg.Renderer.ScreenHeight, err = envUint32(EnvHeight, cfg.Renderer.ScreenHeight); err != nil {
		return Configuration{}, err
	}
	if cfg.Time.FramesPerSecond, err = envInt(EnvFPS, cfg.Time.FramesPerSecond); err != nil {
		return Configuration{}, err
	}
	if cfg.Renderer.InfoLogLimit, err = envInt(EnvInfoLogLimit, cfg.Renderer.InfoLogLimit); err != nil {
		return Configuration{}, err
	}
	if cfg.Renderer.DebugMode, err = envBool(EnvDebug, cfg.Renderer.DebugMode); err != nil {
		return Configuration{}, err
	}
	cfg.Renderer.Output = envy.Get(EnvOutput, cfg.Renderer.Output)
	cfg.Shaders.Directory = envy.Get(EnvShaders, cfg.Shaders.Directory)
	cfg.Shaders.Archive = envy.Get(EnvArchive, cfg.Shaders.Archive)
	cfg.Log.Level = envy.Get(EnvLogLevel, cfg.Log.Level)
	cfg.Log.Format = envy.Get(EnvLogFormat, cfg.Log.Format)

	if cfg.Time.FramesPerSecond < 0 {
		return Configuration{}, fmt.Errorf("%s must not be negative", EnvFPS)
	}
	return cfg, nil
}

func envInt(key string, def int) (int, error) {
	raw := envy.Get(key, "")
	if raw == "" {
		return def, nil
	}
	num, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return num, nil
}

func envUint32(key string, def uint32) (uint32, error) {
	raw := envy.Get(key, "")
	if raw == "" {
		return def, nil
	}
	num, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if num == 0 {
		return 0, fmt.Errorf("%s must be positive", key)
	}
	return uint32(num), nil
}

func envBool(key string, def bool) (bool, error) {
	raw := envy.Get(key, "")
	if raw == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}
