// Package metrics collects per-request outcomes and summarizes their latency
// distribution for the periodic report and the end-of-run totals.
package metrics

import (
	"math"
	"sort"
)

// Distribution is the five-number summary plus mean and tail estimates of one
// latency sample set, in seconds. All fields are NaN for an empty set.
type Distribution struct {
	Min    float64 `json:"min"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	P95    float64 `json:"p95"`
	P99    float64 `json:"p99"`
}

// Summarize sorts samples in place and computes its Distribution.
//
// Quartiles are Tukey hinges: Q1 is the median of the first ⌊n/2⌋ sorted
// samples and Q3 the median of the remaining n-⌊n/2⌋. The tail estimates are
// the medians of the top 10% and top 2% slices with truncating integer index
// arithmetic, not interpolated percentiles. The report consumers expect these
// exact values, so none of this may be swapped for a textbook estimator.
func Summarize(samples []float64) Distribution {
	n := len(samples)
	if n == 0 {
		nan := math.NaN()
		return Distribution{Min: nan, Q1: nan, Median: nan, Q3: nan, Max: nan, Mean: nan, P95: nan, P99: nan}
	}

	sort.Float64s(samples)

	sum := 0.0
	for _, s := range samples {
		sum += s
	}

	return Distribution{
		Min:    samples[0],
		Q1:     median(samples[:n/2]),
		Median: median(samples),
		Q3:     median(samples[n/2:]),
		Max:    samples[n-1],
		Mean:   sum / float64(n),
		P95:    median(samples[90*n/100:]),
		P99:    median(samples[98*n/100:]),
	}
}

// Median returns the exact (non-interpolated) median of samples: the middle
// element, or the average of the two middle elements for even-sized input.
// NaN for an empty set. The input is not modified.
func Median(samples []float64) float64 {
	sorted := append([]float64(nil), samples...)
	sort.Float64s(sorted)
	return median(sorted)
}

// median is Median over an already-sorted slice.
func median(v []float64) float64 {
	n := len(v)
	if n == 0 {
		return math.NaN()
	}
	mid := (n - 1) / 2
	if n%2 == 1 {
		return v[mid]
	}
	return (v[mid] + v[mid+1]) / 2
}
