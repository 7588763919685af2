package render

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/mandelbrot/internal/fractal"
	"github.com/san-kum/mandelbrot/internal/palette"
)

const (
	DefaultBatchRows     = 1
	DefaultProgressEvery = 500
)

// Options fixes everything a render depends on. It is copied into the
// Engine and never modified during sampling.
type Options struct {
	Width       int
	Height      int
	MaxIter     int
	Supersample int
	Workers     int
	// BatchRows is the number of rows handed to a worker at once.
	BatchRows int
	// ProgressEvery is the pixel granularity of Progress.Advance calls.
	ProgressEvery int
	Viewport      fractal.Viewport
	Start         fractal.Start
	Filter        Filter
}

// DefaultOptions renders the classic view sequentially.
func DefaultOptions() Options {
	return Options{
		Width:         350,
		Height:        200,
		MaxIter:       512,
		Supersample:   1,
		Workers:       1,
		BatchRows:     DefaultBatchRows,
		ProgressEvery: DefaultProgressEvery,
		Viewport:      fractal.Classic,
		Filter:        FilterBox,
	}
}

// Validate checks the options before any sampling starts.
func (o Options) Validate() error {
	checks := []struct {
		field string
		value int
	}{
		{"width", o.Width},
		{"height", o.Height},
		{"iterations", o.MaxIter},
		{"workers", o.Workers},
		{"supersample", o.Supersample},
	}
	for _, c := range checks {
		if err := fractal.RequirePositive(c.field, c.value); err != nil {
			return err
		}
	}
	if o.BatchRows < 0 {
		return fractal.RequirePositive("batch_rows", o.BatchRows)
	}
	if o.ProgressEvery < 0 {
		return fractal.RequirePositive("progress_every", o.ProgressEvery)
	}
	if _, err := ParseFilter(string(o.Filter)); err != nil {
		return err
	}
	return o.Viewport.Validate()
}

// SampleSize is the size of the raster actually sampled.
func (o Options) SampleSize() (width, height int) {
	return o.Width * o.Supersample, o.Height * o.Supersample
}

// Result is a finished render.
type Result struct {
	// Raster has the requested output size.
	Raster *Raster
	// Counts holds the escape time of every sampled pixel, row-major, at
	// SampleWidth×SampleHeight.
	Counts       []int
	SampleWidth  int
	SampleHeight int
	Elapsed      time.Duration
}

// Engine renders one fixed set of options.
type Engine struct {
	opts     Options
	mapper   palette.Mapper
	progress Progress
}

// New validates opts and returns an engine. A nil progress is replaced by
// NopProgress.
func New(opts Options, mapper palette.Mapper, progress Progress) (*Engine, error) {
	if mapper == nil {
		return nil, fmt.Errorf("render: nil color mapper")
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if opts.BatchRows == 0 {
		opts.BatchRows = DefaultBatchRows
	}
	if opts.ProgressEvery == 0 {
		opts.ProgressEvery = DefaultProgressEvery
	}
	if opts.Filter == "" {
		opts.Filter = FilterBox
	}
	if progress == nil {
		progress = NopProgress{}
	}
	return &Engine{opts: opts, mapper: mapper, progress: progress}, nil
}

// Render is shorthand for New followed by Engine.Render.
func Render(ctx context.Context, opts Options, mapper palette.Mapper, progress Progress) (*Result, error) {
	e, err := New(opts, mapper, progress)
	if err != nil {
		return nil, err
	}
	return e.Render(ctx)
}

// Options returns the engine's resolved options.
func (e *Engine) Options() Options { return e.opts }

// Render samples every pixel and returns the finished raster. On failure
// no raster is returned.
func (e *Engine) Render(ctx context.Context) (*Result, error) {
	w, h := e.opts.SampleSize()
	log := Logger()
	log.Info("render start",
		"width", e.opts.Width, "height", e.opts.Height,
		"sample_width", w, "sample_height", h,
		"iterations", e.opts.MaxIter, "workers", e.opts.Workers)
	log.Debug("render options",
		"viewport", e.opts.Viewport, "start", e.opts.Start,
		"batch_rows", e.opts.BatchRows, "progress_every", e.opts.ProgressEvery,
		"filter", e.opts.Filter)

	start := time.Now()
	raster := NewRaster(w, h)
	counts := make([]int, w*h)

	e.progress.Start(w * h)
	err := e.sample(ctx, raster, counts)
	e.progress.Finish()
	if err != nil {
		log.Error("render failed", "err", err)
		return nil, err
	}

	out, err := DownsampleWith(raster, e.opts.Supersample, e.opts.Filter)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Raster:       out,
		Counts:       counts,
		SampleWidth:  w,
		SampleHeight: h,
		Elapsed:      time.Since(start),
	}
	log.Info("render done", "elapsed", res.Elapsed)
	return res, nil
}

func (e *Engine) sample(ctx context.Context, raster *Raster, counts []int) error {
	h := raster.Height
	batch := e.opts.BatchRows

	if e.opts.Workers == 1 {
		for y0 := 0; y0 < h; y0 += batch {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := e.rows(raster, counts, y0, min(y0+batch, h)); err != nil {
				return err
			}
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.Workers)
	for y0 := 0; y0 < h; y0 += batch {
		y1 := min(y0+batch, h)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return e.rows(raster, counts, y0, y1)
		})
	}
	return g.Wait()
}

// rows renders rows [y0, y1). It writes only those rows of raster and
// counts.
func (e *Engine) rows(raster *Raster, counts []int, y0, y1 int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &Error{Row: y0, Wrapped: fmt.Errorf("%w: %v", ErrWorkerFailed, r)}
		}
	}()

	w, h := raster.Width, raster.Height
	vp := e.opts.Viewport
	zx, zy := e.opts.Start.X, e.opts.Start.Y
	maxIter := e.opts.MaxIter
	every := e.opts.ProgressEvery

	pending := 0
	for py := y0; py < y1; py++ {
		row := py * w
		for px := 0; px < w; px++ {
			x, y := vp.PixelToCoordinate(px, py, w, h)
			n := fractal.Solve(x, y, maxIter, zx, zy)
			counts[row+px] = n
			raster.Pix[row+px] = e.mapper.Colorize(n, maxIter)

			pending++
			if pending == every {
				e.progress.Advance(pending)
				pending = 0
			}
		}
	}
	if pending > 0 {
		e.progress.Advance(pending)
	}
	return nil
}
