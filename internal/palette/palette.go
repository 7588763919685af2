package palette

import (
	"errors"
	"fmt"
	"image/color"
	"sort"
)

// ErrUnknown is returned by New for an unregistered mapper name.
var ErrUnknown = errors.New("palette: unknown colorizer")

// RGB is an 8-bit color triple.
type RGB struct {
	R, G, B uint8
}

// Black is the conventional interior color.
var Black = RGB{}

// RGBA returns c as an opaque color.RGBA.
func (c RGB) RGBA() color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff}
}

// Gray reports whether all three channels are equal.
func (c RGB) Gray() bool {
	return c.R == c.G && c.G == c.B
}

// Mapper turns an iteration count in [0, maxIter] into a color.
// Implementations are immutable after construction and safe for
// concurrent use.
type Mapper interface {
	Colorize(n, maxIter int) RGB
}

// MapperFunc adapts a plain function to Mapper.
type MapperFunc func(n, maxIter int) RGB

func (f MapperFunc) Colorize(n, maxIter int) RGB { return f(n, maxIter) }

type constructor func(maxIter int) (Mapper, error)

var registry = map[string]constructor{
	"bw":        func(int) (Mapper, error) { return Grayscale{}, nil },
	"grayscale": func(int) (Mapper, error) { return Grayscale{}, nil },
	"gradient":  func(maxIter int) (Mapper, error) { return NewGradient(maxIter) },
}

// New builds the mapper registered under name for a render of maxIter
// iterations.
func New(name string, maxIter int) (Mapper, error) {
	fn, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknown, name, Names())
	}
	return fn(maxIter)
}

// Names lists the registered mapper names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
