// Package config holds the viewer configuration surface: buffer
// dimensions, iteration cap, parallelism, zoom factors, palette and
// initial region. Values come from defaults, optionally overlaid by a
// TOML file.
package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/themetalleg/mandelbrot"
	"github.com/themetalleg/mandelbrot/render"
)

// Config is the full configuration of a viewer session.
type Config struct {
	Width         int     `toml:"width"`
	Height        int     `toml:"height"`
	MaxIter       int     `toml:"max_iter"`
	WorkerCount   int     `toml:"worker_count"` // 0 means GOMAXPROCS
	TileSize      int     `toml:"tile_size"`
	ZoomInFactor  float64 `toml:"zoom_in_factor"`
	ZoomOutFactor float64 `toml:"zoom_out_factor"`
	Palette       string  `toml:"palette"`
	InitialRegion string  `toml:"initial_region"`
	CorrectAspect bool    `toml:"correct_aspect"`
	ListenAddr    string  `toml:"listen_addr"` // serve mode only
}

// Default returns the baseline configuration: an 800×800 window over the
// home region at 256 iterations.
func Default() Config {
	return Config{
		Width:         800,
		Height:        800,
		MaxIter:       256,
		WorkerCount:   0,
		TileSize:      64,
		ZoomInFactor:  0.5,
		ZoomOutFactor: 2.0,
		Palette:       "classic",
		InitialRegion: "home",
		ListenAddr:    ":8080",
	}
}

// Load overlays the TOML file at path onto the defaults. Unknown keys are
// rejected so typos do not silently fall back to defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("decode %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, &mandelbrot.ConfigError{
			Field:  "config",
			Reason: "unknown keys: " + strings.Join(keys, ", "),
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every option against its allowed range.
func (c Config) Validate() error {
	if c.Width <= 0 {
		return &mandelbrot.ConfigError{Field: "width", Reason: "must be positive"}
	}
	if c.Height <= 0 {
		return &mandelbrot.ConfigError{Field: "height", Reason: "must be positive"}
	}
	if c.MaxIter <= 0 {
		return &mandelbrot.ConfigError{Field: "max_iter", Reason: "must be positive"}
	}
	if c.WorkerCount < 0 {
		return &mandelbrot.ConfigError{Field: "worker_count", Reason: "must not be negative"}
	}
	if c.TileSize <= 0 {
		return &mandelbrot.ConfigError{Field: "tile_size", Reason: "must be positive"}
	}
	if c.ZoomInFactor <= 0 || c.ZoomInFactor >= 1 {
		return &mandelbrot.ConfigError{Field: "zoom_in_factor", Reason: "must be between 0 and 1"}
	}
	if c.ZoomOutFactor <= 1 {
		return &mandelbrot.ConfigError{Field: "zoom_out_factor", Reason: "must be greater than 1"}
	}
	if _, err := render.PaletteByName(c.Palette); err != nil {
		return err
	}
	if _, ok := mandelbrot.RegionByName(c.InitialRegion); !ok {
		return &mandelbrot.ConfigError{
			Field:  "initial_region",
			Reason: fmt.Sprintf("unknown region %q, known: %s", c.InitialRegion, strings.Join(mandelbrot.RegionNames(), ", ")),
		}
	}
	if c.ListenAddr == "" {
		return &mandelbrot.ConfigError{Field: "listen_addr", Reason: "must not be empty"}
	}
	return nil
}

// Viewport returns the initial viewport: the configured region, aspect
// corrected for the buffer dimensions when correct_aspect is set.
func (c Config) Viewport() mandelbrot.Viewport {
	v, _ := mandelbrot.RegionByName(c.InitialRegion)
	if c.CorrectAspect {
		v = v.CorrectAspect(c.Width, c.Height)
	}
	return v
}

// Renderer builds a render.Renderer from the configured parallelism and
// palette. onTile may be nil.
func (c Config) Renderer(onTile func(done, total int)) *render.Renderer {
	p, _ := render.PaletteByName(c.Palette) // Validate has already vetted the name
	opts := []render.Option{
		render.WithWorkers(c.WorkerCount),
		render.WithTileSize(c.TileSize),
		render.WithPalette(p),
	}
	if onTile != nil {
		opts = append(opts, render.WithProgress(onTile))
	}
	return render.New(opts...)
}
