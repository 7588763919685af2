package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/mandelbrot/internal/analysis"
	"github.com/san-kum/mandelbrot/internal/palette"
)

// HistogramSVG draws the escape histogram as a bar chart. Each bar is
// filled with the color the mapper gives the bucket's lower bound, so the
// chart doubles as a legend for the rendered image.
func HistogramSVG(hist []analysis.Bucket, mapper palette.Mapper, maxIter, width, height int) string {
	if len(hist) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	peak := 0
	for _, b := range hist {
		peak = max(peak, b.Count)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	barWidth := float64(width) / float64(len(hist))
	for i, b := range hist {
		if b.Count == 0 {
			continue
		}
		h := float64(height) * float64(b.Count) / float64(peak)
		c := mapper.Colorize(b.Lo, maxIter)
		sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="#%02x%02x%02x"><title>[%d, %d): %d</title></rect>
`, float64(i)*barWidth, float64(height)-h, barWidth, h, c.R, c.G, c.B, b.Lo, b.Hi, b.Count))
	}

	sb.WriteString("</svg>")
	return sb.String()
}
