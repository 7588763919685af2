package render

import (
	"fmt"
	"image"

	xdraw "golang.org/x/image/draw"

	"github.com/san-kum/mandelbrot/internal/fractal"
	"github.com/san-kum/mandelbrot/internal/palette"
)

// Filter selects the resampling kernel used after supersampling.
type Filter string

const (
	// FilterBox averages each factor×factor block.
	FilterBox        Filter = "box"
	FilterBilinear   Filter = "bilinear"
	FilterCatmullRom Filter = "catmullrom"
)

// ParseFilter validates a filter name. The empty string selects FilterBox.
func ParseFilter(s string) (Filter, error) {
	switch f := Filter(s); f {
	case "":
		return FilterBox, nil
	case FilterBox, FilterBilinear, FilterCatmullRom:
		return f, nil
	default:
		return "", fmt.Errorf("render: unknown filter %q", s)
	}
}

// Downsample box-filters r by factor in both axes. A factor of 1 returns r
// itself.
func Downsample(r *Raster, factor int) (*Raster, error) {
	return DownsampleWith(r, factor, FilterBox)
}

// DownsampleWith shrinks r by factor using the given filter. The output is
// (Width/factor)×(Height/factor); trailing pixels that do not fill a whole
// block are dropped.
func DownsampleWith(r *Raster, factor int, f Filter) (*Raster, error) {
	if err := fractal.RequirePositive("supersample", factor); err != nil {
		return nil, err
	}
	if factor == 1 {
		return r, nil
	}

	w, h := r.Width/factor, r.Height/factor
	if w == 0 || h == 0 {
		return nil, fmt.Errorf("render: %dx%d raster too small for factor %d", r.Width, r.Height, factor)
	}

	switch f {
	case FilterBox, "":
		return boxDownsample(r, factor, w, h), nil
	case FilterBilinear:
		return kernelDownsample(r, xdraw.BiLinear, factor, w, h), nil
	case FilterCatmullRom:
		return kernelDownsample(r, xdraw.CatmullRom, factor, w, h), nil
	default:
		return nil, fmt.Errorf("render: unknown filter %q", f)
	}
}

func boxDownsample(r *Raster, factor, w, h int) *Raster {
	out := NewRaster(w, h)
	n := factor * factor
	half := n / 2

	for oy := 0; oy < h; oy++ {
		for ox := 0; ox < w; ox++ {
			var sr, sg, sb int
			for dy := 0; dy < factor; dy++ {
				row := (oy*factor + dy) * r.Width
				for dx := 0; dx < factor; dx++ {
					c := r.Pix[row+ox*factor+dx]
					sr += int(c.R)
					sg += int(c.G)
					sb += int(c.B)
				}
			}
			out.Pix[oy*w+ox] = palette.RGB{
				R: uint8((sr + half) / n),
				G: uint8((sg + half) / n),
				B: uint8((sb + half) / n),
			}
		}
	}
	return out
}

func kernelDownsample(r *Raster, s xdraw.Scaler, factor, w, h int) *Raster {
	src := r.Image()
	// Only the whole blocks take part, matching the box filter's output.
	srcRect := image.Rect(0, 0, w*factor, h*factor)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	s.Scale(dst, dst.Bounds(), src, srcRect, xdraw.Src, nil)
	return FromImage(dst)
}
