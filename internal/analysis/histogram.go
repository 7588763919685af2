package analysis

// Bucket counts escape times in [Lo, Hi).
type Bucket struct {
	Lo, Hi int
	Count  int
}

// Histogram splits [0, maxIter) into at most buckets equal ranges and
// counts the escaping points in each. Interior points are not counted.
func Histogram(counts []int, maxIter, buckets int) []Bucket {
	if maxIter <= 0 || buckets <= 0 {
		return nil
	}
	if buckets > maxIter {
		buckets = maxIter
	}

	// n lands in bucket n*buckets/maxIter, so bucket i holds exactly the
	// n in [ceil(i*maxIter/buckets), ceil((i+1)*maxIter/buckets)).
	hist := make([]Bucket, buckets)
	for i := range hist {
		hist[i].Lo = (i*maxIter + buckets - 1) / buckets
		hist[i].Hi = ((i+1)*maxIter + buckets - 1) / buckets
	}
	for _, n := range counts {
		if n < 0 || n >= maxIter {
			continue
		}
		hist[n*buckets/maxIter].Count++
	}
	return hist
}

// Series returns the bucket counts as plot data.
func Series(hist []Bucket) []float64 {
	data := make([]float64, len(hist))
	for i, b := range hist {
		data[i] = float64(b.Count)
	}
	return data
}
