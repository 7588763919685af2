package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/mandelbrot/internal/fractal"
	"github.com/san-kum/mandelbrot/internal/palette"
	"github.com/san-kum/mandelbrot/internal/render"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Width != 350 || cfg.Height != 200 {
		t.Errorf("expected 350x200, got %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.Viewport != fractal.Classic {
		t.Errorf("expected classic viewport, got %+v", cfg.Viewport)
	}
	if cfg.Workers != 1 || cfg.Supersample != 1 {
		t.Error("defaults should render sequentially without supersampling")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "render.yaml")
	data := []byte(`
width: 640
iterations: 256
colorizer: gradient
workers: 4
viewport:
  xmin: -0.8
  xmax: -0.7
  ymin: 0.05
  ymax: 0.15
start:
  x: 0.1
`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Width != 640 || cfg.Iterations != 256 || cfg.Workers != 4 {
		t.Errorf("unexpected values: %+v", cfg)
	}
	if cfg.Colorizer != "gradient" {
		t.Errorf("expected gradient colorizer, got %s", cfg.Colorizer)
	}
	if cfg.Viewport.XMin != -0.8 || cfg.Viewport.YMax != 0.15 {
		t.Errorf("unexpected viewport %+v", cfg.Viewport)
	}
	if cfg.Start.X != 0.1 || cfg.Start.Y != 0 {
		t.Errorf("unexpected start %+v", cfg.Start)
	}
	// Unset keys keep their defaults.
	if cfg.Height != DefaultHeight || cfg.Supersample != DefaultSupersample {
		t.Errorf("defaults lost: height=%d supersample=%d", cfg.Height, cfg.Supersample)
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("width: [1, 2"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	cfg := DefaultConfig()
	cfg.Colorizer = "gradient"
	cfg.GradientPeriod = 80
	cfg.Start = fractal.Start{X: 0.25, Y: -0.5}

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", loaded, cfg)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		target error
	}{
		{"zero width", func(c *Config) { c.Width = 0 }, fractal.ErrNonPositive},
		{"zero iterations", func(c *Config) { c.Iterations = 0 }, fractal.ErrNonPositive},
		{"negative workers", func(c *Config) { c.Workers = -1 }, fractal.ErrNonPositive},
		{"bad viewport", func(c *Config) { c.Viewport.XMax = c.Viewport.XMin }, fractal.ErrInvalidViewport},
		{"unknown colorizer", func(c *Config) { c.Colorizer = "sepia" }, palette.ErrUnknown},
		{"negative period", func(c *Config) { c.GradientPeriod = -5 }, fractal.ErrNonPositive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			if err := cfg.Validate(); !errors.Is(err, tt.target) {
				t.Errorf("expected %v, got %v", tt.target, err)
			}
		})
	}
}

func TestResolveHeight(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width = 300
	cfg.Height = 0
	cfg.ResolveHeight()
	if cfg.Height != 171 {
		t.Errorf("expected derived height 171, got %d", cfg.Height)
	}

	cfg.Height = 50
	cfg.ResolveHeight()
	if cfg.Height != 50 {
		t.Errorf("explicit height overwritten: %d", cfg.Height)
	}
}

func TestRenderOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Filter = "bilinear"
	opts := cfg.RenderOptions()
	if opts.Width != cfg.Width || opts.MaxIter != cfg.Iterations || opts.Viewport != cfg.Viewport {
		t.Errorf("options do not mirror config: %+v", opts)
	}
	if opts.Filter != render.FilterBilinear {
		t.Errorf("expected bilinear filter, got %s", opts.Filter)
	}
}

func TestMapper(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Colorizer = "gradient"
	cfg.GradientPeriod = 100

	m, err := cfg.Mapper()
	if err != nil {
		t.Fatal(err)
	}
	g, ok := m.(*palette.Gradient)
	if !ok {
		t.Fatalf("expected *palette.Gradient, got %T", m)
	}
	if got := g.Table()[0].End; got != 70 {
		t.Errorf("expected first segment to end at 70, got %f", got)
	}
}

func TestPresets(t *testing.T) {
	names := ListPresets()
	if len(names) != len(Presets) {
		t.Fatalf("expected %d presets, got %d", len(Presets), len(names))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Errorf("presets not sorted: %v", names)
		}
	}
	for _, name := range names {
		p, ok := GetPreset(name)
		if !ok {
			t.Fatalf("preset %s missing", name)
		}
		if err := p.Viewport.Validate(); err != nil {
			t.Errorf("preset %s: %v", name, err)
		}
		if p.Iterations <= 0 {
			t.Errorf("preset %s: iterations %d", name, p.Iterations)
		}
	}
}

func TestApplyPreset(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.ApplyPreset("seahorse_valley"); err != nil {
		t.Fatal(err)
	}
	if cfg.Viewport.XMin != -0.8 || cfg.Iterations != 1024 {
		t.Errorf("preset not applied: %+v", cfg)
	}

	if err := cfg.ApplyPreset("nonexistent"); !errors.Is(err, ErrUnknownPreset) {
		t.Errorf("expected ErrUnknownPreset, got %v", err)
	}
}
