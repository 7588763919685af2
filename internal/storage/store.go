package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/san-kum/mandelbrot/internal/analysis"
	"github.com/san-kum/mandelbrot/internal/config"
	"github.com/san-kum/mandelbrot/internal/render"
)

// HistogramBuckets is the resolution of the stored escape histogram.
const HistogramBuckets = 32

const (
	imageFile     = "image.png"
	metadataFile  = "metadata.json"
	histogramFile = "histogram.csv"
)

var ErrNotFound = errors.New("storage: run not found")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Label     string             `json:"label"`
	Timestamp time.Time          `json:"timestamp"`
	Config    config.Config      `json:"config"`
	Elapsed   time.Duration      `json:"elapsed_ns"`
	Width     int                `json:"width"`
	Height    int                `json:"height"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Save writes the image, metadata and escape histogram of a render into a
// new run directory and returns the run id.
func (s *Store) Save(label string, cfg *config.Config, result *render.Result) (string, error) {
	now := time.Now()
	label = SanitizeLabel(label)
	runID := fmt.Sprintf("%s_%d", label, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	if err := WritePNG(filepath.Join(runDir, imageFile), result.Raster); err != nil {
		return "", err
	}

	summary := analysis.Summarize(result.Counts, cfg.Iterations)
	meta := RunMetadata{
		ID:        runID,
		Label:     label,
		Timestamp: now,
		Config:    *cfg,
		Elapsed:   result.Elapsed,
		Width:     result.Raster.Width,
		Height:    result.Raster.Height,
		Metrics:   summary.Metrics(),
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	hist := analysis.Histogram(result.Counts, cfg.Iterations, HistogramBuckets)
	if err := writeHistogram(filepath.Join(runDir, histogramFile), hist); err != nil {
		return "", err
	}

	return runID, nil
}

// SanitizeLabel maps a user label onto a single safe path element. Every
// rune outside [A-Za-z0-9_-] becomes '_'; an empty label becomes "render".
func SanitizeLabel(label string) string {
	if label == "" {
		return "render"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, label)
}

// WritePNG encodes the raster as an opaque PNG at path.
func WritePNG(path string, r *render.Raster) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, r.Image()); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeHistogram(path string, hist []analysis.Bucket) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"lo", "hi", "count"}); err != nil {
		return err
	}
	for _, b := range hist {
		row := []string{strconv.Itoa(b.Lo), strconv.Itoa(b.Hi), strconv.Itoa(b.Count)}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) LoadHistogram(runID string) ([]analysis.Bucket, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, histogramFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []analysis.Bucket{}, nil
	}

	hist := make([]analysis.Bucket, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) != 3 {
			continue
		}
		var b analysis.Bucket
		var errs [3]error
		b.Lo, errs[0] = strconv.Atoi(record[0])
		b.Hi, errs[1] = strconv.Atoi(record[1])
		b.Count, errs[2] = strconv.Atoi(record[2])
		if err := errors.Join(errs[:]...); err != nil {
			return nil, fmt.Errorf("storage: histogram %s: %w", runID, err)
		}
		hist = append(hist, b)
	}
	return hist, nil
}

// ImagePath is where the run's PNG lives.
func (s *Store) ImagePath(runID string) string {
	return filepath.Join(s.baseDir, runID, imageFile)
}
