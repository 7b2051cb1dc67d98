package stats

import (
	"math"
	"testing"
)

func TestMedian(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{"even count averages central pair", []float64{1, 2, 3, 4}, 2.5},
		{"odd count", []float64{1, 2, 3}, 2},
		{"unsorted input", []float64{9, 1, 5}, 5},
		{"single value", []float64{7}, 7},
		{"duplicates", []float64{2, 2, 2, 3}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Median(tt.values); got != tt.want {
				t.Errorf("Median(%v) = %v, want %v", tt.values, got, tt.want)
			}
		})
	}
}

func TestMedianDoesNotSortInput(t *testing.T) {
	values := []float64{3, 1, 2}
	Median(values)
	if values[0] != 3 || values[1] != 1 || values[2] != 2 {
		t.Errorf("Median reordered its input: %v", values)
	}
}

func TestVarianceIsPopulation(t *testing.T) {
	values := []float64{2, 4, 4, 4, 5, 5, 7, 9}

	mean := Mean(values)
	if mean != 5 {
		t.Fatalf("Mean = %v, want 5", mean)
	}
	if got := Variance(values, mean); got != 4 {
		t.Errorf("Variance = %v, want 4", got)
	}
	if got := StdDev(Variance(values, mean)); got != 2 {
		t.Errorf("StdDev = %v, want 2", got)
	}
}

func TestPercentile(t *testing.T) {
	sorted := []float64{10, 20, 30, 40, 50}

	tests := []struct {
		p    float64
		want float64
	}{
		{0, 10},
		{50, 30},
		{100, 50},
		{25, 20},
		{90, 46},
	}

	for _, tt := range tests {
		if got := Percentile(sorted, tt.p); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Percentile(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}

	if got := Percentile(nil, 50); got != 0 {
		t.Errorf("Percentile(nil) = %v, want 0", got)
	}
}

func TestSummarize(t *testing.T) {
	values := []float64{9, 2, 4, 4, 5, 5, 7, 4}
	s := Summarize(values, Mean(values))

	if s.Mean != 5 || s.Median != 4.5 || s.Variance != 4 || s.StdDev != 2 {
		t.Errorf("Summarize = %+v", s)
	}
	if s.Min != 2 || s.Max != 9 {
		t.Errorf("Min/Max = %v/%v, want 2/9", s.Min, s.Max)
	}
}
