package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/themetalleg/mandelbrot"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mandelbrot.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
width = 1024
height = 768
palette = "gradient"
initial_region = "seahorse-valley"
correct_aspect = true
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Width != 1024 || cfg.Height != 768 {
		t.Errorf("dimensions = %dx%d, want 1024x768", cfg.Width, cfg.Height)
	}
	if cfg.Palette != "gradient" {
		t.Errorf("palette = %q, want gradient", cfg.Palette)
	}
	// Untouched keys keep their defaults.
	if cfg.MaxIter != 256 {
		t.Errorf("max_iter = %d, want default 256", cfg.MaxIter)
	}
	if cfg.ZoomInFactor != 0.5 {
		t.Errorf("zoom_in_factor = %g, want default 0.5", cfg.ZoomInFactor)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, "widht = 1024\n")
	if _, err := Load(path); err == nil {
		t.Fatal("misspelled key accepted")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Fatal("missing file accepted")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero width", func(c *Config) { c.Width = 0 }},
		{"negative height", func(c *Config) { c.Height = -1 }},
		{"zero max iter", func(c *Config) { c.MaxIter = 0 }},
		{"negative workers", func(c *Config) { c.WorkerCount = -1 }},
		{"zero tile size", func(c *Config) { c.TileSize = 0 }},
		{"zoom in factor too big", func(c *Config) { c.ZoomInFactor = 1.5 }},
		{"zoom in factor zero", func(c *Config) { c.ZoomInFactor = 0 }},
		{"zoom out factor too small", func(c *Config) { c.ZoomOutFactor = 0.5 }},
		{"unknown palette", func(c *Config) { c.Palette = "neon" }},
		{"unknown region", func(c *Config) { c.InitialRegion = "nowhere" }},
		{"empty listen addr", func(c *Config) { c.ListenAddr = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() accepted invalid config")
			}
			if !mandelbrot.IsConfigError(err) {
				t.Errorf("Validate() = %T, want *ConfigError", err)
			}
		})
	}
}

func TestViewportAspectCorrection(t *testing.T) {
	cfg := Default()
	cfg.Width = 800
	cfg.Height = 400
	cfg.CorrectAspect = true

	v := cfg.Viewport()
	px := v.Dx() / float64(cfg.Width)
	py := v.Dy() / float64(cfg.Height)
	if diff := px - py; diff > 1e-12 || diff < -1e-12 {
		t.Errorf("pixel scale not square after correction: px %g, py %g", px, py)
	}

	cfg.CorrectAspect = false
	if got, _ := mandelbrot.RegionByName(cfg.InitialRegion); cfg.Viewport() != got {
		t.Error("viewport altered although correct_aspect is off")
	}
}
