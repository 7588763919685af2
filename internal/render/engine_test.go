package render

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/san-kum/mandelbrot/internal/fractal"
	"github.com/san-kum/mandelbrot/internal/palette"
)

func smallOptions() Options {
	opts := DefaultOptions()
	opts.Width = 4
	opts.Height = 4
	opts.MaxIter = 50
	opts.Viewport = fractal.Viewport{XMin: -2.5, XMax: 1, YMin: -1, YMax: 1}
	return opts
}

func TestRender_GrayscaleScenario(t *testing.T) {
	res, err := Render(context.Background(), smallOptions(), palette.Grayscale{}, nil)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}

	if res.Raster.Width != 4 || res.Raster.Height != 4 {
		t.Fatalf("expected 4x4 raster, got %dx%d", res.Raster.Width, res.Raster.Height)
	}
	if len(res.Raster.Pix) != 16 || len(res.Counts) != 16 {
		t.Fatalf("expected 16 pixels and counts, got %d and %d", len(res.Raster.Pix), len(res.Counts))
	}
	for i, c := range res.Raster.Pix {
		if !c.Gray() {
			t.Errorf("pixel %d = %v is not gray", i, c)
		}
	}
}

func TestRender_CountsMatchSolver(t *testing.T) {
	opts := smallOptions()
	opts.Width, opts.Height = 9, 5
	opts.Start = fractal.Start{X: 0.1, Y: -0.05}

	res, err := Render(context.Background(), opts, palette.Grayscale{}, nil)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	for py := 0; py < opts.Height; py++ {
		for px := 0; px < opts.Width; px++ {
			x, y := opts.Viewport.PixelToCoordinate(px, py, opts.Width, opts.Height)
			want := fractal.Solve(x, y, opts.MaxIter, 0.1, -0.05)
			if got := res.Counts[py*opts.Width+px]; got != want {
				t.Errorf("pixel (%d, %d): count %d, want %d", px, py, got, want)
			}
			if got, want := res.Raster.At(px, py), (palette.Grayscale{}).Colorize(want, opts.MaxIter); got != want {
				t.Errorf("pixel (%d, %d): color %v, want %v", px, py, got, want)
			}
		}
	}
}

func TestRender_DeterministicAcrossWorkers(t *testing.T) {
	opts := DefaultOptions()
	opts.Width, opts.Height = 70, 40
	opts.MaxIter = 200

	grad, err := palette.NewGradient(opts.MaxIter)
	if err != nil {
		t.Fatal(err)
	}

	base, err := Render(context.Background(), opts, grad, nil)
	if err != nil {
		t.Fatalf("sequential render failed: %v", err)
	}

	for _, workers := range []int{2, 3, 8} {
		for _, batch := range []int{1, 3, 7, 100} {
			o := opts
			o.Workers = workers
			o.BatchRows = batch
			res, err := Render(context.Background(), o, grad, nil)
			if err != nil {
				t.Fatalf("workers=%d batch=%d: %v", workers, batch, err)
			}
			if !res.Raster.Equal(base.Raster) {
				t.Errorf("workers=%d batch=%d: raster differs from sequential render", workers, batch)
			}
		}
	}
}

func TestRender_InvalidOptions(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Options)
		target error
	}{
		{"zero width", func(o *Options) { o.Width = 0 }, fractal.ErrNonPositive},
		{"negative height", func(o *Options) { o.Height = -1 }, fractal.ErrNonPositive},
		{"zero iterations", func(o *Options) { o.MaxIter = 0 }, fractal.ErrNonPositive},
		{"zero workers", func(o *Options) { o.Workers = 0 }, fractal.ErrNonPositive},
		{"zero supersample", func(o *Options) { o.Supersample = 0 }, fractal.ErrNonPositive},
		{"negative batch", func(o *Options) { o.BatchRows = -2 }, fractal.ErrNonPositive},
		{"inverted x", func(o *Options) { o.Viewport.XMin, o.Viewport.XMax = 1, -2.5 }, fractal.ErrInvalidViewport},
		{"flat y", func(o *Options) { o.Viewport.YMax = o.Viewport.YMin }, fractal.ErrInvalidViewport},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := smallOptions()
			tt.modify(&opts)
			var calls atomic.Int64
			m := palette.MapperFunc(func(n, maxIter int) palette.RGB {
				calls.Add(1)
				return palette.Black
			})
			res, err := Render(context.Background(), opts, m, nil)
			if !errors.Is(err, tt.target) {
				t.Fatalf("expected %v, got %v", tt.target, err)
			}
			if res != nil {
				t.Error("expected no result")
			}
			if calls.Load() != 0 {
				t.Errorf("sampling ran %d times before validation failed", calls.Load())
			}
		})
	}
}

func TestRender_NilMapper(t *testing.T) {
	if _, err := Render(context.Background(), smallOptions(), nil, nil); err == nil {
		t.Error("expected error for nil mapper")
	}
}

func TestRender_UnknownFilter(t *testing.T) {
	opts := smallOptions()
	opts.Filter = "lanczos"
	if _, err := Render(context.Background(), opts, palette.Grayscale{}, nil); err == nil {
		t.Error("expected error for unknown filter")
	}
}

func TestRender_WorkerFailureAborts(t *testing.T) {
	for _, workers := range []int{1, 4} {
		opts := smallOptions()
		opts.Width, opts.Height = 16, 16
		opts.Workers = workers

		m := palette.MapperFunc(func(n, maxIter int) palette.RGB {
			panic("out of paint")
		})
		res, err := Render(context.Background(), opts, m, nil)
		if !errors.Is(err, ErrWorkerFailed) {
			t.Fatalf("workers=%d: expected ErrWorkerFailed, got %v", workers, err)
		}
		var renderErr *Error
		if !errors.As(err, &renderErr) {
			t.Fatalf("workers=%d: expected *Error, got %T", workers, err)
		}
		if res != nil {
			t.Errorf("workers=%d: expected no partial result", workers)
		}
	}
}

func TestRender_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, workers := range []int{1, 3} {
		opts := smallOptions()
		opts.Workers = workers
		_, err := Render(ctx, opts, palette.Grayscale{}, nil)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("workers=%d: expected context.Canceled, got %v", workers, err)
		}
	}
}

type countingProgress struct {
	total    atomic.Int64
	done     atomic.Int64
	calls    atomic.Int64
	maxStep  atomic.Int64
	finished atomic.Bool
}

func (p *countingProgress) Start(total int) { p.total.Store(int64(total)) }
func (p *countingProgress) Finish()         { p.finished.Store(true) }
func (p *countingProgress) Advance(n int) {
	p.done.Add(int64(n))
	p.calls.Add(1)
	for {
		cur := p.maxStep.Load()
		if int64(n) <= cur || p.maxStep.CompareAndSwap(cur, int64(n)) {
			return
		}
	}
}

func TestRender_Progress(t *testing.T) {
	for _, workers := range []int{1, 4} {
		opts := smallOptions()
		opts.Width, opts.Height = 30, 20
		opts.Supersample = 2
		opts.Workers = workers
		opts.BatchRows = 3
		opts.ProgressEvery = 7

		p := &countingProgress{}
		if _, err := Render(context.Background(), opts, palette.Grayscale{}, p); err != nil {
			t.Fatalf("render failed: %v", err)
		}

		want := int64(60 * 40)
		if p.total.Load() != want {
			t.Errorf("workers=%d: Start(%d), want %d", workers, p.total.Load(), want)
		}
		if p.done.Load() != want {
			t.Errorf("workers=%d: advanced %d pixels, want %d", workers, p.done.Load(), want)
		}
		if p.maxStep.Load() > 7 {
			t.Errorf("workers=%d: single advance of %d exceeds granularity", workers, p.maxStep.Load())
		}
		if !p.finished.Load() {
			t.Errorf("workers=%d: Finish not called", workers)
		}
	}
}

func TestRender_SupersampleDimensions(t *testing.T) {
	opts := smallOptions()
	opts.Width, opts.Height = 8, 6

	plain, err := Render(context.Background(), opts, palette.Grayscale{}, nil)
	if err != nil {
		t.Fatal(err)
	}

	for _, factor := range []int{2, 3} {
		for _, filter := range []Filter{FilterBox, FilterBilinear, FilterCatmullRom} {
			o := opts
			o.Supersample = factor
			o.Filter = filter
			res, err := Render(context.Background(), o, palette.Grayscale{}, nil)
			if err != nil {
				t.Fatalf("factor=%d filter=%s: %v", factor, filter, err)
			}
			if res.Raster.Width != plain.Raster.Width || res.Raster.Height != plain.Raster.Height {
				t.Errorf("factor=%d filter=%s: got %dx%d, want %dx%d", factor, filter,
					res.Raster.Width, res.Raster.Height, plain.Raster.Width, plain.Raster.Height)
			}
			if res.SampleWidth != 8*factor || res.SampleHeight != 6*factor {
				t.Errorf("factor=%d: sampled %dx%d", factor, res.SampleWidth, res.SampleHeight)
			}
			if len(res.Counts) != res.SampleWidth*res.SampleHeight {
				t.Errorf("factor=%d: %d counts", factor, len(res.Counts))
			}
		}
	}
}

func BenchmarkRender(b *testing.B) {
	opts := DefaultOptions()
	opts.MaxIter = 256
	grad, err := palette.NewGradient(opts.MaxIter)
	if err != nil {
		b.Fatal(err)
	}
	for _, workers := range []int{1, 4} {
		opts.Workers = workers
		b.Run(fmt.Sprintf("workers-%d", workers), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				if _, err := Render(context.Background(), opts, grad, nil); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
