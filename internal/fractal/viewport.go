package fractal

import "math"

// Viewport is the visible region of the complex plane.
type Viewport struct {
	XMin float64 `yaml:"xmin" json:"xmin"`
	XMax float64 `yaml:"xmax" json:"xmax"`
	YMin float64 `yaml:"ymin" json:"ymin"`
	YMax float64 `yaml:"ymax" json:"ymax"`
}

// Classic frames the whole Mandelbrot set.
var Classic = Viewport{XMin: -2.5, XMax: 1, YMin: -1, YMax: 1}

// Validate reports ErrInvalidViewport unless XMax > XMin and YMax > YMin.
// NaN bounds fail the comparison and are rejected as well.
func (v Viewport) Validate() error {
	if !(v.XMax > v.XMin) {
		return &ConfigError{Field: "viewport.x", Value: [2]float64{v.XMin, v.XMax}, Wrapped: ErrInvalidViewport}
	}
	if !(v.YMax > v.YMin) {
		return &ConfigError{Field: "viewport.y", Value: [2]float64{v.YMin, v.YMax}, Wrapped: ErrInvalidViewport}
	}
	return nil
}

func (v Viewport) XRange() float64 { return v.XMax - v.XMin }
func (v Viewport) YRange() float64 { return v.YMax - v.YMin }

// HeightFor returns the raster height that keeps pixels square for the
// given width.
func (v Viewport) HeightFor(width int) int {
	return int(math.Round(float64(width) * v.YRange() / v.XRange()))
}

// PixelToCoordinate maps the centre of pixel (px, py) of a width×height
// raster onto the viewport. Row 0 is the top of the image, so y is flipped.
func (v Viewport) PixelToCoordinate(px, py, width, height int) (x, y float64) {
	fx := float64(px) + 0.5
	fy := float64(py) + 0.5
	x = v.XMin + fx/float64(width)*(v.XMax-v.XMin)
	y = v.YMin + (float64(height)-fy)/float64(height)*(v.YMax-v.YMin)
	return x, y
}

// PixelToCoordinate is the free-function form of Viewport.PixelToCoordinate.
func PixelToCoordinate(px, py, width, height int, vp Viewport) (x, y float64) {
	return vp.PixelToCoordinate(px, py, width, height)
}

// Sample is a pixel paired with its mapped coordinate.
type Sample struct {
	PX, PY int
	X, Y   float64
}

// SampleAt builds the Sample for pixel (px, py).
func (v Viewport) SampleAt(px, py, width, height int) Sample {
	x, y := v.PixelToCoordinate(px, py, width, height)
	return Sample{PX: px, PY: py, X: x, Y: y}
}
