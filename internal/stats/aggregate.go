// Package stats provides the numeric aggregates reported for a simulation run.
//
// The functions assume a non-empty input unless stated otherwise; the
// simulator never calls them with zero samples.
package stats

import (
	"math"
	"sort"
)

// Mean returns the arithmetic mean.
func Mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Median sorts a copy of values and returns the middle element, or the average
// of the two central elements for an even count.
func Median(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return medianSorted(sorted)
}

func medianSorted(sorted []float64) float64 {
	n := len(sorted)
	mid := n / 2
	if n%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2.0
	}
	return sorted[mid]
}

// Variance returns the population variance around a precomputed mean
// (divisor N, not N-1).
func Variance(values []float64, mean float64) float64 {
	var sumSq float64
	for _, v := range values {
		d := v - mean
		sumSq += d * d
	}
	return sumSq / float64(len(values))
}

// StdDev returns the square root of a variance.
func StdDev(variance float64) float64 {
	return math.Sqrt(variance)
}

// Percentile returns the p-th percentile (0-100) of sorted values using linear
// interpolation between the closest ranks. Returns 0 for empty input.
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}

	index := (p / 100.0) * float64(len(sorted)-1)
	lower := int(math.Floor(index))
	upper := int(math.Ceil(index))

	if lower == upper {
		return sorted[lower]
	}

	fraction := index - float64(lower)
	return sorted[lower]*(1-fraction) + sorted[upper]*fraction
}

// Summary bundles the aggregates of one sample.
type Summary struct {
	Mean     float64 `json:"mean"`
	Median   float64 `json:"median"`
	Variance float64 `json:"variance"`
	StdDev   float64 `json:"std_dev"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	P5       float64 `json:"p5"`
	P95      float64 `json:"p95"`
}

// Summarize computes every aggregate with a single sort of a copy of values.
// mean is passed in so callers that accumulate a running total can reuse it.
func Summarize(values []float64, mean float64) Summary {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	variance := Variance(values, mean)
	return Summary{
		Mean:     mean,
		Median:   medianSorted(sorted),
		Variance: variance,
		StdDev:   StdDev(variance),
		Min:      sorted[0],
		Max:      sorted[len(sorted)-1],
		P5:       Percentile(sorted, 5),
		P95:      Percentile(sorted, 95),
	}
}
