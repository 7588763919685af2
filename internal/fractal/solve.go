package fractal

// Bailout is the squared escape radius.
const Bailout = 4.0

// Start is the initial value of z. The zero value renders the Mandelbrot
// set; a non-zero start renders the corresponding perturbed variant.
type Start struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
}

// Solve iterates z' = z² + c from z = (zx0, zy0) and returns the number of
// completed steps before |z|² exceeded Bailout. The magnitude is tested
// before each step, so a start outside the bailout circle returns 0.
// Points that never escape return maxIter.
func Solve(cx, cy float64, maxIter int, zx0, zy0 float64) int {
	x, y := zx0, zy0
	for i := 0; i < maxIter; i++ {
		x2 := x * x
		y2 := y * y
		if x2+y2 > Bailout {
			return i
		}
		y = 2*x*y + cy
		x = x2 - y2 + cx
	}
	return maxIter
}

// SolveFrom is Solve with the start point taken from s.
func (s Start) SolveFrom(cx, cy float64, maxIter int) int {
	return Solve(cx, cy, maxIter, s.X, s.Y)
}
