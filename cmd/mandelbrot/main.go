package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/mandelbrot/internal/analysis"
	"github.com/san-kum/mandelbrot/internal/config"
	"github.com/san-kum/mandelbrot/internal/export"
	"github.com/san-kum/mandelbrot/internal/palette"
	"github.com/san-kum/mandelbrot/internal/progress"
	"github.com/san-kum/mandelbrot/internal/render"
	"github.com/san-kum/mandelbrot/internal/storage"
)

var (
	dataDir    string
	verbose    bool
	configFile string
	preset     string
	outFile    string
	label      string
	progressTo string
	noSave     bool

	width       int
	height      int
	iterations  int
	supersample int
	workers     int
	batchRows   int
	colorizer   string
	period      int
	filter      string
	xmin, xmax  float64
	ymin, ymax  float64
	zx, zy      float64

	svgFile string
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "mandelbrot",
		Short:         "escape-time fractal renderer",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogger(os.Stderr, verbose)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".mandelbrot", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "render an image",
		Args:  cobra.NoArgs,
		RunE:  runRender,
	}
	addSceneFlags(renderCmd)
	renderCmd.Flags().StringVarP(&outFile, "out", "o", "", "also write the png to this path")
	renderCmd.Flags().StringVar(&label, "label", "", "run label (default: preset name or 'render')")
	renderCmd.Flags().StringVar(&progressTo, "progress", "log", "progress reporter: bar, log or none")
	renderCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	configCmd := &cobra.Command{
		Use:   "config [path]",
		Short: "write the resolved configuration as yaml",
		Args:  cobra.ExactArgs(1),
		RunE:  writeConfig,
	}
	addSceneFlags(configCmd)

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list presets",
		RunE:  listPresets,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "print run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	histCmd := &cobra.Command{
		Use:   "histogram [run_id]",
		Short: "plot the escape-time distribution of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotHistogram,
	}
	histCmd.Flags().StringVar(&svgFile, "svg", "", "also write the histogram as svg to this path")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark the renderer across worker counts",
		Args:  cobra.NoArgs,
		RunE:  benchRender,
	}
	addSceneFlags(benchCmd)

	rootCmd.AddCommand(renderCmd, configCmd, presetsCmd, listCmd, showCmd, histCmd, benchCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func setupLogger(w io.Writer, debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	render.SetLogger(logger)
	slog.SetDefault(logger)
}

func addSceneFlags(cmd *cobra.Command) {
	def := config.DefaultConfig()
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "start from a preset region")
	f.IntVar(&width, "width", def.Width, "output width in pixels")
	f.IntVar(&height, "height", def.Height, "output height in pixels (0 derives it from the viewport)")
	f.IntVarP(&iterations, "iterations", "i", def.Iterations, "iteration cap")
	f.IntVarP(&supersample, "supersample", "s", def.Supersample, "supersampling factor")
	f.IntVarP(&workers, "workers", "w", def.Workers, "worker goroutines")
	f.IntVar(&batchRows, "batch-rows", def.BatchRows, "rows per work unit")
	f.StringVarP(&colorizer, "colorizer", "c", def.Colorizer, fmt.Sprintf("color mapper %v", palette.Names()))
	f.IntVar(&period, "period", palette.DefaultPeriod, "gradient period in iterations")
	f.StringVar(&filter, "filter", def.Filter, "downsampling filter: box, bilinear or catmullrom")
	f.Float64Var(&xmin, "xmin", def.Viewport.XMin, "viewport left edge")
	f.Float64Var(&xmax, "xmax", def.Viewport.XMax, "viewport right edge")
	f.Float64Var(&ymin, "ymin", def.Viewport.YMin, "viewport bottom edge")
	f.Float64Var(&ymax, "ymax", def.Viewport.YMax, "viewport top edge")
	f.Float64Var(&zx, "zx", 0, "real part of the starting point")
	f.Float64Var(&zy, "zy", 0, "imaginary part of the starting point")
}

// resolveConfig layers defaults, preset, config file and explicit flags,
// in that order.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		if err := cfg.ApplyPreset(preset); err != nil {
			return nil, err
		}
	}

	if configFile != "" {
		if err := config.LoadInto(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	flags := cmd.Flags()
	ints := []struct {
		name string
		src  int
		dst  *int
	}{
		{"width", width, &cfg.Width},
		{"height", height, &cfg.Height},
		{"iterations", iterations, &cfg.Iterations},
		{"supersample", supersample, &cfg.Supersample},
		{"workers", workers, &cfg.Workers},
		{"batch-rows", batchRows, &cfg.BatchRows},
		{"period", period, &cfg.GradientPeriod},
	}
	for _, f := range ints {
		if flags.Changed(f.name) {
			*f.dst = f.src
		}
	}
	floats := []struct {
		name string
		src  float64
		dst  *float64
	}{
		{"xmin", xmin, &cfg.Viewport.XMin},
		{"xmax", xmax, &cfg.Viewport.XMax},
		{"ymin", ymin, &cfg.Viewport.YMin},
		{"ymax", ymax, &cfg.Viewport.YMax},
		{"zx", zx, &cfg.Start.X},
		{"zy", zy, &cfg.Start.Y},
	}
	for _, f := range floats {
		if flags.Changed(f.name) {
			*f.dst = f.src
		}
	}
	if flags.Changed("colorizer") {
		cfg.Colorizer = colorizer
	}
	if flags.Changed("filter") {
		cfg.Filter = filter
	}

	cfg.ResolveHeight()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	slog.Debug("config",
		"width", cfg.Width, "height", cfg.Height,
		"iterations", cfg.Iterations, "supersample", cfg.Supersample,
		"workers", cfg.Workers, "batch_rows", cfg.BatchRows,
		"colorizer", cfg.Colorizer, "filter", cfg.Filter,
		"xmin", cfg.Viewport.XMin, "xmax", cfg.Viewport.XMax,
		"ymin", cfg.Viewport.YMin, "ymax", cfg.Viewport.YMax,
		"zx", cfg.Start.X, "zy", cfg.Start.Y)
	return cfg, nil
}

func newProgress(kind string) (render.Progress, error) {
	switch kind {
	case "bar":
		return progress.NewTUI("rendering", os.Stderr), nil
	case "log":
		return progress.NewLog(slog.Default(), 0.1), nil
	case "none", "":
		return render.NopProgress{}, nil
	}
	return nil, fmt.Errorf("unknown progress reporter: %s", kind)
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	mapper, err := cfg.Mapper()
	if err != nil {
		return err
	}
	prog, err := newProgress(progressTo)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	result, err := render.Render(ctx, cfg.RenderOptions(), mapper, prog)
	if err != nil {
		return err
	}

	if outFile != "" {
		if err := storage.WritePNG(outFile, result.Raster); err != nil {
			return err
		}
	}

	summary := analysis.Summarize(result.Counts, cfg.Iterations)
	fmt.Println(progress.Title.Render("render complete"))
	fmt.Printf("size: %dx%d (sampled %dx%d)\n",
		result.Raster.Width, result.Raster.Height, result.SampleWidth, result.SampleHeight)
	fmt.Printf("elapsed: %v\n", result.Elapsed)
	fmt.Printf("interior: %.2f%%\n", summary.InteriorFraction()*100)
	fmt.Printf("escape: mean %.2f, range [%d, %d]\n", summary.MeanEscape, summary.MinEscape, summary.MaxEscape)
	if outFile != "" {
		fmt.Printf("image: %s\n", outFile)
	}

	if noSave {
		return nil
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	name := label
	if name == "" {
		name = preset
	}
	if name == "" {
		name = "render"
	}
	runID, err := st.Save(name, cfg, result)
	if err != nil {
		return err
	}
	fmt.Printf("run id: %s\n", runID)
	fmt.Println(progress.Subtle.Render(st.ImagePath(runID)))
	return nil
}

func writeConfig(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if err := config.Save(args[0], cfg); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", args[0])
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tITER\tX\tY\tDESCRIPTION")
	for _, name := range config.ListPresets() {
		p, _ := config.GetPreset(name)
		vp := p.Viewport
		fmt.Fprintf(w, "%s\t%d\t[%g, %g]\t[%g, %g]\t%s\n",
			name, p.Iterations, vp.XMin, vp.XMax, vp.YMin, vp.YMax, p.Description)
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tSIZE\tITER\tCOLOR\tELAPSED\tINTERIOR")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%dx%d\t%d\t%s\t%v\t%.1f%%\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Width, run.Height,
			run.Config.Iterations,
			run.Config.Colorizer,
			run.Elapsed.Truncate(time.Millisecond),
			run.Metrics["interior_fraction"]*100,
		)
	}
	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func plotHistogram(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	hist, err := st.LoadHistogram(runID)
	if err != nil {
		return err
	}
	if len(hist) == 0 {
		return fmt.Errorf("no histogram data for %s", runID)
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("iterations: %d\n", meta.Config.Iterations)
	fmt.Printf("interior: %.2f%%\n\n", meta.Metrics["interior_fraction"]*100)

	graph := asciigraph.Plot(analysis.Series(hist),
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("escaping pixels per %d-iteration bucket", hist[0].Hi-hist[0].Lo)),
	)
	fmt.Println(graph)

	if svgFile == "" {
		return nil
	}
	mapper, err := meta.Config.Mapper()
	if err != nil {
		return err
	}
	svg := export.HistogramSVG(hist, mapper, meta.Config.Iterations, 800, 300)
	if err := os.WriteFile(svgFile, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("\nsvg: %s\n", svgFile)
	return nil
}

func benchRender(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	mapper, err := cfg.Mapper()
	if err != nil {
		return err
	}

	counts := []int{1, 2, 4, 8}
	if n := runtime.NumCPU(); n > 8 {
		counts = append(counts, n)
	}

	fmt.Printf("benchmarking %dx%d at %d iterations (supersample %d)\n\n",
		cfg.Width, cfg.Height, cfg.Iterations, cfg.Supersample)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "WORKERS\tPIXELS\tTIME\tPIXELS/SEC\tSPEEDUP")

	var base time.Duration
	for _, n := range counts {
		opts := cfg.RenderOptions()
		opts.Workers = n

		result, err := render.Render(context.Background(), opts, mapper, nil)
		if err != nil {
			return err
		}
		if base == 0 {
			base = result.Elapsed
		}
		pixels := len(result.Counts)
		fmt.Fprintf(w, "%d\t%d\t%v\t%.0f\t%.2fx\n",
			n, pixels, result.Elapsed.Truncate(time.Microsecond),
			float64(pixels)/result.Elapsed.Seconds(),
			base.Seconds()/result.Elapsed.Seconds())
	}
	return w.Flush()
}
