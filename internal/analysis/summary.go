package analysis

// Summary describes a set of escape counts.
type Summary struct {
	Pixels   int `json:"pixels"`
	Interior int `json:"interior"`
	// MeanEscape, MinEscape and MaxEscape cover escaping points only and
	// are zero when every point is interior.
	MeanEscape float64 `json:"mean_escape"`
	MinEscape  int     `json:"min_escape"`
	MaxEscape  int     `json:"max_escape"`
}

// Summarize scans counts once. A count equal to maxIter is interior.
func Summarize(counts []int, maxIter int) Summary {
	s := Summary{Pixels: len(counts)}
	sum := 0
	escaped := 0
	for _, n := range counts {
		if n >= maxIter {
			s.Interior++
			continue
		}
		if escaped == 0 || n < s.MinEscape {
			s.MinEscape = n
		}
		if n > s.MaxEscape {
			s.MaxEscape = n
		}
		sum += n
		escaped++
	}
	if escaped > 0 {
		s.MeanEscape = float64(sum) / float64(escaped)
	}
	return s
}

// InteriorFraction is the share of pixels that never escaped.
func (s Summary) InteriorFraction() float64 {
	if s.Pixels == 0 {
		return 0
	}
	return float64(s.Interior) / float64(s.Pixels)
}

// Metrics flattens the summary for run metadata.
func (s Summary) Metrics() map[string]float64 {
	return map[string]float64{
		"pixels":            float64(s.Pixels),
		"interior":          float64(s.Interior),
		"interior_fraction": s.InteriorFraction(),
		"mean_escape":       s.MeanEscape,
		"min_escape":        float64(s.MinEscape),
		"max_escape":        float64(s.MaxEscape),
	}
}
