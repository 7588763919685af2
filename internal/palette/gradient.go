package palette

import (
	"fmt"
	"sort"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// DefaultPeriod is the number of iterations one palette color spans.
const DefaultPeriod = 50

// Colors is the cyclic gradient palette.
var Colors = []RGB{
	{0x17, 0x35, 0x5f},
	{0x20, 0x63, 0x9b},
	{0x3c, 0xae, 0xa3},
	{0xf6, 0xd5, 0x5c},
	{0xed, 0x55, 0x3b},
	{0xbf, 0xa0, 0xff},
}

// Near-black navy for the fastest escaping points.
var startColor = RGB{0x00, 0x00, 0x1f}

// HSV holds hue in degrees [0, 360) and saturation/value in [0, 1].
type HSV struct {
	H, S, V float64
}

// ToHSV converts an 8-bit color to HSV.
func ToHSV(c RGB) HSV {
	h, s, v := colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}.Hsv()
	return HSV{H: h, S: s, V: v}
}

// ToRGB converts back to an 8-bit color, rounding each channel.
func (c HSV) ToRGB() RGB {
	r, g, b := colorful.Hsv(c.H, c.S, c.V).Clamped().RGB255()
	return RGB{R: r, G: g, B: b}
}

// Lerp interpolates each channel independently; the hue does not wrap.
func (c HSV) Lerp(to HSV, t float64) HSV {
	return HSV{
		H: c.H + (to.H-c.H)*t,
		S: c.S + (to.S-c.S)*t,
		V: c.V + (to.V-c.V)*t,
	}
}

// Stop anchors a color at an iteration threshold.
type Stop struct {
	At    float64
	Color RGB
}

// Segment is the half-open range [Start, End) between two stops.
type Segment struct {
	Start, End float64
	From, To   HSV
}

// GradientTable is a sorted, gap-free list of segments.
type GradientTable []Segment

// Stops returns the gradient stops for a render of maxIter iterations.
// Each palette color holds for the last 30% of its period and blends into
// the next one over the first 70%. The interior region past maxIter-1 is
// pure black.
func Stops(maxIter, period int) []Stop {
	if period <= 0 {
		period = DefaultPeriod
	}
	knee := period * 7 / 10

	stops := []Stop{{At: 0, Color: startColor}}
	c := 0
	for i := 0; i+period+1 < maxIter; i += period {
		col := Colors[c]
		c = (c + 1) % len(Colors)
		stops = append(stops,
			Stop{At: float64(i + knee), Color: col},
			Stop{At: float64(i + period), Color: col},
		)
	}
	stops = append(stops,
		Stop{At: float64(maxIter - 1), Color: Black},
		Stop{At: float64(maxIter + 2), Color: Black},
	)
	return stops
}

// BuildTable pairs consecutive stops into segments. Stops that do not
// strictly advance the threshold are skipped, so every segment has a
// positive span. A stop tying the previous threshold replaces its color,
// so the next segment starts from the later stop.
func BuildTable(stops []Stop) (GradientTable, error) {
	if len(stops) < 2 {
		return nil, fmt.Errorf("palette: gradient needs at least 2 stops, got %d", len(stops))
	}

	table := make(GradientTable, 0, len(stops)-1)
	prev := stops[0]
	for _, s := range stops[1:] {
		if s.At <= prev.At {
			if s.At == prev.At {
				prev = s
			}
			continue
		}
		table = append(table, Segment{
			Start: prev.At,
			End:   s.At,
			From:  ToHSV(prev.Color),
			To:    ToHSV(s.Color),
		})
		prev = s
	}
	if len(table) == 0 {
		return nil, fmt.Errorf("palette: gradient stops span no range")
	}
	return table, nil
}

// Lookup returns the interpolated color for v. Values below the first
// segment clamp to its start color; values at or past the last end clamp
// to its end color.
func (t GradientTable) Lookup(v float64) HSV {
	i := sort.Search(len(t), func(i int) bool { return v < t[i].End })
	if i == len(t) {
		return t[len(t)-1].To
	}
	seg := t[i]
	if v < seg.Start {
		return seg.From
	}
	factor := (v - seg.Start) / (seg.End - seg.Start)
	return seg.From.Lerp(seg.To, factor)
}

// Gradient colors iteration counts through a precomputed GradientTable.
type Gradient struct {
	maxIter int
	table   GradientTable
}

// NewGradient builds the default gradient for maxIter iterations.
func NewGradient(maxIter int) (*Gradient, error) {
	return NewGradientPeriod(maxIter, DefaultPeriod)
}

// NewGradientPeriod builds a gradient whose palette repeats every period
// iterations.
func NewGradientPeriod(maxIter, period int) (*Gradient, error) {
	if maxIter <= 0 {
		return nil, fmt.Errorf("palette: gradient iterations must be positive, got %d", maxIter)
	}
	table, err := BuildTable(Stops(maxIter, period))
	if err != nil {
		return nil, err
	}
	return &Gradient{maxIter: maxIter, table: table}, nil
}

// Table exposes the segment table. Callers must not modify it.
func (g *Gradient) Table() GradientTable { return g.table }

// MaxIter is the iteration cap the table was built for.
func (g *Gradient) MaxIter() int { return g.maxIter }

// Colorize ignores maxIter; the table was fixed at construction.
func (g *Gradient) Colorize(n, _ int) RGB {
	return g.table.Lookup(float64(n)).ToRGB()
}

// At colors a fractional iteration value.
func (g *Gradient) At(v float64) RGB {
	return g.table.Lookup(v).ToRGB()
}
