package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/mandelbrot/internal/fractal"
	"github.com/san-kum/mandelbrot/internal/palette"
	"github.com/san-kum/mandelbrot/internal/render"
)

const (
	DefaultWidth       = 350
	DefaultHeight      = 200
	DefaultIterations  = 1024
	DefaultSupersample = 1
	DefaultWorkers     = 1
	DefaultColorizer   = "bw"
)

type Config struct {
	Width  int `yaml:"width" json:"width"`
	Height int `yaml:"height" json:"height"`
	// Iterations is the escape-time cap per pixel.
	Iterations     int              `yaml:"iterations" json:"iterations"`
	Supersample    int              `yaml:"supersample" json:"supersample"`
	Workers        int              `yaml:"workers" json:"workers"`
	BatchRows      int              `yaml:"batch_rows" json:"batch_rows"`
	Colorizer      string           `yaml:"colorizer" json:"colorizer"`
	GradientPeriod int              `yaml:"gradient_period,omitempty" json:"gradient_period,omitempty"`
	Filter         string           `yaml:"filter" json:"filter"`
	Viewport       fractal.Viewport `yaml:"viewport" json:"viewport"`
	Start          fractal.Start    `yaml:"start" json:"start"`
}

func DefaultConfig() *Config {
	return &Config{
		Width:       DefaultWidth,
		Height:      DefaultHeight,
		Iterations:  DefaultIterations,
		Supersample: DefaultSupersample,
		Workers:     DefaultWorkers,
		BatchRows:   render.DefaultBatchRows,
		Colorizer:   DefaultColorizer,
		Filter:      string(render.FilterBox),
		Viewport:    fractal.Classic,
	}
}

func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := LoadInto(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadInto overlays the file at path onto cfg. Keys absent from the file
// keep their current values.
func LoadInto(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ResolveHeight derives a square-pixel height from the width and viewport
// when no height is set.
func (c *Config) ResolveHeight() {
	if c.Height <= 0 && c.Width > 0 && c.Viewport.Validate() == nil {
		c.Height = max(1, c.Viewport.HeightFor(c.Width))
	}
}

// RenderOptions converts the configuration into engine options.
func (c *Config) RenderOptions() render.Options {
	return render.Options{
		Width:         c.Width,
		Height:        c.Height,
		MaxIter:       c.Iterations,
		Supersample:   c.Supersample,
		Workers:       c.Workers,
		BatchRows:     c.BatchRows,
		ProgressEvery: render.DefaultProgressEvery,
		Viewport:      c.Viewport,
		Start:         c.Start,
		Filter:        render.Filter(c.Filter),
	}
}

// Mapper builds the configured color mapper.
func (c *Config) Mapper() (palette.Mapper, error) {
	if c.Colorizer == "gradient" && c.GradientPeriod > 0 {
		return palette.NewGradientPeriod(c.Iterations, c.GradientPeriod)
	}
	return palette.New(c.Colorizer, c.Iterations)
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if err := c.RenderOptions().Validate(); err != nil {
		return err
	}
	if c.GradientPeriod < 0 {
		return fractal.RequirePositive("gradient_period", c.GradientPeriod)
	}
	_, err := c.Mapper()
	return err
}
