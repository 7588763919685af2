package config

import (
	"errors"
	"fmt"
	"sort"

	"github.com/san-kum/mandelbrot/internal/fractal"
)

var ErrUnknownPreset = errors.New("config: unknown preset")

// Preset is a named region worth rendering.
type Preset struct {
	Description string
	Viewport    fractal.Viewport
	Start       fractal.Start
	Iterations  int
}

var Presets = map[string]Preset{
	"classic": {
		Description: "the whole set",
		Viewport:    fractal.Classic,
		Iterations:  DefaultIterations,
	},
	"seahorse_valley": {
		Description: "dense filaments and repeating seahorse curls",
		Viewport:    fractal.Viewport{XMin: -0.8, XMax: -0.7, YMin: 0.05, YMax: 0.15},
		Iterations:  1024,
	},
	"elephant_valley": {
		Description: "large bulb with trunk-like tendrils",
		Viewport:    fractal.Viewport{XMin: -1.85, XMax: -1.75, YMin: -0.10, YMax: -0.02},
		Iterations:  1024,
	},
	"spiral_minibrot": {
		Description: "small copy of the set with tight spiral arms",
		Viewport:    fractal.Viewport{XMin: -0.7435, XMax: -0.7420, YMin: 0.1310, YMax: 0.1325},
		Iterations:  2048,
	},
	"triple_spiral": {
		Description: "threefold symmetric spiral",
		Viewport:    fractal.Viewport{XMin: -0.7480, XMax: -0.7450, YMin: 0.0950, YMax: 0.0980},
		Iterations:  2048,
	},
	"valley_of_the_dragon": {
		Description: "deep spiral filaments",
		Viewport:    fractal.Viewport{XMin: -0.7400, XMax: -0.7350, YMin: 0.1800, YMax: 0.1850},
		Iterations:  2048,
	},
	"minibrot_in_mini_spiral": {
		Description: "self-similar copy inside a spiral arm",
		Viewport:    fractal.Viewport{XMin: -1.7390, XMax: -1.7375, YMin: -0.0235, YMax: -0.0220},
		Iterations:  2048,
	},
	"shifted_seed": {
		Description: "whole set iterated from z0 = 0.3 - 0.2i",
		Viewport:    fractal.Classic,
		Start:       fractal.Start{X: 0.3, Y: -0.2},
		Iterations:  512,
	},
}

func GetPreset(name string) (Preset, bool) {
	p, ok := Presets[name]
	return p, ok
}

// ListPresets returns the preset names in sorted order.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ApplyPreset overwrites the region, start point and iteration cap.
func (c *Config) ApplyPreset(name string) error {
	p, ok := GetPreset(name)
	if !ok {
		return fmt.Errorf("%w: %s (available: %v)", ErrUnknownPreset, name, ListPresets())
	}
	c.Viewport = p.Viewport
	c.Start = p.Start
	c.Iterations = p.Iterations
	return nil
}
