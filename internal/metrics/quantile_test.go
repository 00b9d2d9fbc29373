package metrics

import (
	"math"
	"math/rand"
	"testing"
)

func TestMedian(t *testing.T) {
	tests := []struct {
		name    string
		samples []float64
		want    float64
	}{
		{
			name:    "odd count",
			samples: []float64{1, 2, 3, 4, 5},
			want:    3,
		},
		{
			name:    "even count",
			samples: []float64{1, 2, 3, 4},
			want:    2.5,
		},
		{
			name:    "single sample",
			samples: []float64{7},
			want:    7,
		},
		{
			name:    "two samples",
			samples: []float64{2, 4},
			want:    3,
		},
		{
			name:    "unsorted input",
			samples: []float64{5, 1, 4, 2, 3},
			want:    3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Median(tt.samples); got != tt.want {
				t.Errorf("Median(%v) = %v, want %v", tt.samples, got, tt.want)
			}
		})
	}
}

func TestMedian_Empty(t *testing.T) {
	if got := Median(nil); !math.IsNaN(got) {
		t.Errorf("Median(nil) = %v, want NaN", got)
	}
}

func TestSummarize_TukeyHinges(t *testing.T) {
	d := Summarize([]float64{1, 2, 3, 4, 5, 6, 7, 8})

	if d.Min != 1 {
		t.Errorf("Min = %v, want 1", d.Min)
	}
	if d.Q1 != 2.5 {
		t.Errorf("Q1 = %v, want 2.5", d.Q1)
	}
	if d.Median != 4.5 {
		t.Errorf("Median = %v, want 4.5", d.Median)
	}
	if d.Q3 != 6.5 {
		t.Errorf("Q3 = %v, want 6.5", d.Q3)
	}
	if d.Max != 8 {
		t.Errorf("Max = %v, want 8", d.Max)
	}
	if d.Mean != 4.5 {
		t.Errorf("Mean = %v, want 4.5", d.Mean)
	}
}

func TestSummarize_OddCountHinges(t *testing.T) {
	// Odd n splits into a lower half of ⌊n/2⌋ samples and an upper half that
	// keeps the middle element.
	d := Summarize([]float64{1, 2, 3, 4, 5})

	if d.Q1 != 1.5 {
		t.Errorf("Q1 = %v, want 1.5", d.Q1)
	}
	if d.Median != 3 {
		t.Errorf("Median = %v, want 3", d.Median)
	}
	if d.Q3 != 4 {
		t.Errorf("Q3 = %v, want 4", d.Q3)
	}
}

func TestSummarize_TailPercentiles(t *testing.T) {
	// 1..100: the top 10% slice is 91..100 and the top 2% slice is 99..100.
	samples := make([]float64, 100)
	for i := range samples {
		samples[i] = float64(i + 1)
	}

	d := Summarize(samples)

	if d.P95 != 95.5 {
		t.Errorf("P95 = %v, want 95.5", d.P95)
	}
	if d.P99 != 99.5 {
		t.Errorf("P99 = %v, want 99.5", d.P99)
	}
}

func TestSummarize_TailPercentilesSmallSet(t *testing.T) {
	// Truncating index arithmetic: with n=10 both tail slices start at index
	// 9, so both estimates collapse to the maximum.
	samples := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

	d := Summarize(samples)

	if d.P95 != 10 {
		t.Errorf("P95 = %v, want 10", d.P95)
	}
	if d.P99 != 10 {
		t.Errorf("P99 = %v, want 10", d.P99)
	}
}

func TestSummarize_Empty(t *testing.T) {
	d := Summarize(nil)

	for name, v := range map[string]float64{
		"Min": d.Min, "Q1": d.Q1, "Median": d.Median, "Q3": d.Q3,
		"Max": d.Max, "Mean": d.Mean, "P95": d.P95, "P99": d.P99,
	} {
		if !math.IsNaN(v) {
			t.Errorf("%s = %v, want NaN", name, v)
		}
	}
}

func TestSummarize_SingleSample(t *testing.T) {
	// A single sample leaves the lower half empty, so Q1 is NaN while
	// everything else collapses to the sample.
	d := Summarize([]float64{0.25})

	if d.Min != 0.25 || d.Median != 0.25 || d.Q3 != 0.25 || d.Max != 0.25 {
		t.Errorf("Summarize({0.25}) = %+v, want all 0.25 except Q1", d)
	}
	if !math.IsNaN(d.Q1) {
		t.Errorf("Q1 = %v, want NaN", d.Q1)
	}
}

func TestSummarize_OrderInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	sorted := make([]float64, 1000)
	for i := range sorted {
		sorted[i] = float64(i)
	}
	shuffled := append([]float64(nil), sorted...)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	if got, want := Summarize(shuffled), Summarize(sorted); got != want {
		t.Errorf("Summarize(shuffled) = %+v, want %+v", got, want)
	}
}

func TestSummarize_QuartileOrdering(t *testing.T) {
	rng := rand.New(rand.NewSource(2))

	for n := 1; n <= 50; n++ {
		samples := make([]float64, n)
		for i := range samples {
			samples[i] = rng.Float64() * 10
		}

		d := Summarize(samples)

		// Q1 is NaN for n == 1; skip the comparisons it takes part in.
		if n > 1 && (d.Min > d.Q1 || d.Q1 > d.Median) {
			t.Errorf("n=%d: want Min <= Q1 <= Median, got %v, %v, %v", n, d.Min, d.Q1, d.Median)
		}
		if d.Median > d.Q3 || d.Q3 > d.Max {
			t.Errorf("n=%d: want Median <= Q3 <= Max, got %v, %v, %v", n, d.Median, d.Q3, d.Max)
		}
		if d.P95 > d.Max || d.P99 > d.Max || d.P95 > d.P99 {
			t.Errorf("n=%d: want P95 <= P99 <= Max, got %v, %v, %v", n, d.P95, d.P99, d.Max)
		}
	}
}
