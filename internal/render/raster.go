package render

import (
	"bytes"
	"image"
	"image/color"

	"github.com/san-kum/mandelbrot/internal/palette"
)

// Raster is a row-major grid of colors.
type Raster struct {
	Width  int
	Height int
	Pix    []palette.RGB
}

func NewRaster(width, height int) *Raster {
	return &Raster{
		Width:  width,
		Height: height,
		Pix:    make([]palette.RGB, width*height),
	}
}

func (r *Raster) At(x, y int) palette.RGB {
	return r.Pix[y*r.Width+x]
}

func (r *Raster) Set(x, y int, c palette.RGB) {
	r.Pix[y*r.Width+x] = c
}

// Bytes packs the raster as consecutive RGB bytes.
func (r *Raster) Bytes() []byte {
	b := make([]byte, 0, len(r.Pix)*3)
	for _, c := range r.Pix {
		b = append(b, c.R, c.G, c.B)
	}
	return b
}

// Equal reports whether both rasters have the same size and pixels.
func (r *Raster) Equal(o *Raster) bool {
	if r.Width != o.Width || r.Height != o.Height {
		return false
	}
	return bytes.Equal(r.Bytes(), o.Bytes())
}

// Image converts the raster to an opaque *image.RGBA for encoding.
func (r *Raster) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, r.Width, r.Height))
	for i, c := range r.Pix {
		o := i * 4
		img.Pix[o] = c.R
		img.Pix[o+1] = c.G
		img.Pix[o+2] = c.B
		img.Pix[o+3] = 0xff
	}
	return img
}

// FromImage copies any image into a raster, dropping alpha.
func FromImage(img image.Image) *Raster {
	b := img.Bounds()
	r := NewRaster(b.Dx(), b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
			r.Set(x-b.Min.X, y-b.Min.Y, palette.RGB{R: c.R, G: c.G, B: c.B})
		}
	}
	return r
}
