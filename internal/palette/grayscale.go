package palette

import "math"

// Grayscale colors escaping points on a linear gray ramp and interior
// points black.
type Grayscale struct{}

func (Grayscale) Colorize(n, maxIter int) RGB {
	if n+1 >= maxIter {
		return Black
	}
	if n < 0 {
		n = 0
	}
	v := uint8(math.Floor(float64(n) / float64(maxIter) * 255))
	return RGB{R: v, G: v, B: v}
}
