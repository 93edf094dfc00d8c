// Package config loads the engine settings from a TOML file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/Carmen-Shannon/oxy-shadow/engine/light"
	"github.com/Carmen-Shannon/oxy-shadow/engine/renderer"
	"github.com/Carmen-Shannon/oxy-shadow/engine/renderpass"
	"github.com/Carmen-Shannon/oxy-shadow/engine/window"
	"github.com/pelletier/go-toml/v2"
)

// ErrInvalid is wrapped by every error Validate reports.
var ErrInvalid = errors.New("config: invalid value")

// maxShadowMapResolution bounds the shadow map edge length.
const maxShadowMapResolution = 8192

// Config is the root of the settings file:
//
//	workers = 4
//
//	[window]
//	title = "shadow world"
//	width = 1280
//	height = 720
//
//	[engine]
//	tick_rate = 60
//	profiling = true
//
//	[shadow]
//	resolution = 2048
//	light_distance = 50
//	ortho_height = 50
//	depth_cutoff = 20
//	shadow_cutoff = 20
type Config struct {
	// Workers is the size of the distance worker pool of every pass; zero measures serially.
	Workers int `toml:"workers"`

	Window WindowConfig `toml:"window"`
	Engine EngineConfig `toml:"engine"`
	Shadow ShadowConfig `toml:"shadow"`
}

// WindowConfig holds the window settings.
type WindowConfig struct {
	Title  string `toml:"title"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
}

// EngineConfig holds the main loop settings.
type EngineConfig struct {
	// TickRate is the target frames per second.
	TickRate  float64 `toml:"tick_rate"`
	Profiling bool    `toml:"profiling"`
}

// ShadowConfig holds the shadow rendering settings. Cutoffs are plain distances in world
// units; the passes compare squared distances.
type ShadowConfig struct {
	Resolution    int     `toml:"resolution"`
	LightDistance float32 `toml:"light_distance"`
	OrthoHeight   float32 `toml:"ortho_height"`
	DepthCutoff   float32 `toml:"depth_cutoff"`
	ShadowCutoff  float32 `toml:"shadow_cutoff"`
}

// Default returns the settings used for every field a file leaves out.
//
// Returns:
//   - Config: the defaults
func Default() Config {
	return Config{
		Window: WindowConfig{
			Title:  "oxy-shadow",
			Width:  1280,
			Height: 720,
		},
		Engine: EngineConfig{
			TickRate: 60,
		},
		Shadow: ShadowConfig{
			Resolution:    renderer.DefaultShadowMapResolution,
			LightDistance: light.DefaultLightDistance,
			OrthoHeight:   light.DefaultOrthoHeight,
			DepthCutoff:   25,
			ShadowCutoff:  25,
		},
	}
}

// Open reads and validates a settings file. Missing fields take their default value.
//
// Parameters:
//   - path: the TOML file
//
// Returns:
//   - Config: the settings
//   - error: a wrapped error if the file cannot be read, parsed or validated
func Open(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	defer f.Close()

	cfg, err := Read(f)
	if err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	log.Printf("[Config] loaded %s", path)
	return cfg, nil
}

// Read decodes and validates settings from a reader. Unknown keys are rejected so typos
// do not go unnoticed.
//
// Parameters:
//   - r: the TOML source
//
// Returns:
//   - Config: the settings
//   - error: a decode or validation error
func Read(r io.Reader) (Config, error) {
	var cfg Config
	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode: %w", err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Save writes the settings as TOML.
//
// Parameters:
//   - cfg: the settings
//   - path: the destination file, created or truncated
//
// Returns:
//   - error: a wrapped encode or write error
func Save(cfg Config, path string) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// ApplyDefaults replaces every zero field with its default. Profiling and Workers
// have zero as their default.
func (c *Config) ApplyDefaults() {
	d := Default()
	if c.Window.Title == "" {
		c.Window.Title = d.Window.Title
	}
	if c.Window.Width == 0 {
		c.Window.Width = d.Window.Width
	}
	if c.Window.Height == 0 {
		c.Window.Height = d.Window.Height
	}
	if c.Engine.TickRate == 0 {
		c.Engine.TickRate = d.Engine.TickRate
	}
	if c.Shadow.Resolution == 0 {
		c.Shadow.Resolution = d.Shadow.Resolution
	}
	if c.Shadow.LightDistance == 0 {
		c.Shadow.LightDistance = d.Shadow.LightDistance
	}
	if c.Shadow.OrthoHeight == 0 {
		c.Shadow.OrthoHeight = d.Shadow.OrthoHeight
	}
	if c.Shadow.DepthCutoff == 0 {
		c.Shadow.DepthCutoff = d.Shadow.DepthCutoff
	}
	if c.Shadow.ShadowCutoff == 0 {
		c.Shadow.ShadowCutoff = d.Shadow.ShadowCutoff
	}
}

// Validate reports every out-of-range field.
//
// Returns:
//   - error: nil, or the joined errors of each invalid field, each wrapping ErrInvalid
func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, field string, v any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%s = %v: %w", field, v, ErrInvalid))
		}
	}
	check(c.Workers >= 0, "workers", c.Workers)
	check(c.Window.Width > 0, "window.width", c.Window.Width)
	check(c.Window.Height > 0, "window.height", c.Window.Height)
	check(c.Engine.TickRate > 0, "engine.tick_rate", c.Engine.TickRate)
	check(c.Shadow.Resolution > 0 && c.Shadow.Resolution <= maxShadowMapResolution, "shadow.resolution", c.Shadow.Resolution)
	check(c.Shadow.LightDistance > 0, "shadow.light_distance", c.Shadow.LightDistance)
	check(c.Shadow.OrthoHeight > 0, "shadow.ortho_height", c.Shadow.OrthoHeight)
	check(c.Shadow.DepthCutoff > 0, "shadow.depth_cutoff", c.Shadow.DepthCutoff)
	check(c.Shadow.ShadowCutoff > 0, "shadow.shadow_cutoff", c.Shadow.ShadowCutoff)
	return errors.Join(errs...)
}

// WindowOptions returns the window options of the settings.
func (c Config) WindowOptions() []window.WindowBuilderOption {
	return []window.WindowBuilderOption{
		window.WithTitle(c.Window.Title),
		window.WithWidth(c.Window.Width),
		window.WithHeight(c.Window.Height),
	}
}

// LightOptions returns the shadow light options of the settings.
func (c Config) LightOptions() []light.LightBuilderOption {
	return []light.LightBuilderOption{
		light.WithDistance(c.Shadow.LightDistance),
		light.WithOrthoHeight(c.Shadow.OrthoHeight),
	}
}

// DepthPassOptions returns the options of the depth passes: shadow map size, the squared
// depth cutoff and the worker pool.
//
// Returns:
//   - []renderpass.PassBuilderOption: the options
func (c Config) DepthPassOptions() []renderpass.PassBuilderOption {
	return []renderpass.PassBuilderOption{
		renderpass.WithShadowMapResolution(c.Shadow.Resolution),
		renderpass.WithCutoff(c.Shadow.DepthCutoff * c.Shadow.DepthCutoff),
		renderpass.WithWorkers(c.Workers),
	}
}

// ShadowPassOptions returns the options of the shadow map passes: the filter resolution,
// the squared shadow cutoff and the worker pool.
//
// Returns:
//   - []renderpass.PassBuilderOption: the options
func (c Config) ShadowPassOptions() []renderpass.PassBuilderOption {
	return []renderpass.PassBuilderOption{
		renderpass.WithShadowMapResolution(c.Shadow.Resolution),
		renderpass.WithCutoff(c.Shadow.ShadowCutoff * c.Shadow.ShadowCutoff),
		renderpass.WithWorkers(c.Workers),
	}
}
