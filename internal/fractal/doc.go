// Package fractal provides the numeric core of the escape-time renderer.
//
// The package maps raster pixels onto a region of the complex plane and
// iterates the quadratic recurrence z' = z² + c for each sampled point:
//
//   - [Viewport]: rectangular region of the complex plane
//   - [Viewport.PixelToCoordinate]: pixel centre to complex coordinate
//   - [Solve]: escape-time iteration count for one point
//   - [Start]: initial z, (0, 0) for the Mandelbrot set
//
// # Example
//
//	vp := fractal.Classic
//	x, y := vp.PixelToCoordinate(px, py, width, height)
//	n := fractal.Solve(x, y, 512, 0, 0)
//	if n == 512 {
//	    // interior point
//	}
//
// # Precision
//
// All arithmetic is float64. Deep zooms show visible precision artifacts;
// this is accepted.
package fractal
