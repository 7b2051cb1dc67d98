package stats

import (
	"fmt"
	"math"
)

// Bin is one bucket of a score distribution: the half-open range [Low, High),
// except the last bin which also includes High.
type Bin struct {
	Low   float64 `json:"low"`
	High  float64 `json:"high"`
	Count int     `json:"count"`
}

// Label renders the bin range for chart axes.
func (b Bin) Label() string {
	return fmt.Sprintf("%.2f-%.2f", b.Low, b.High)
}

// Distribution buckets values into n equal-width bins between min and max.
// When every value is equal a single bin is returned. Returns nil for empty
// input or n <= 0.
func Distribution(values []float64, n int) []Bin {
	if len(values) == 0 || n <= 0 {
		return nil
	}

	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}

	if lo == hi {
		return []Bin{{Low: lo, High: hi, Count: len(values)}}
	}

	width := (hi - lo) / float64(n)
	bins := make([]Bin, n)
	for i := range bins {
		bins[i].Low = lo + float64(i)*width
		bins[i].High = lo + float64(i+1)*width
	}
	bins[n-1].High = hi

	for _, v := range values {
		i := int((v - lo) / width)
		if i >= n {
			i = n - 1
		}
		bins[i].Count++
	}
	return bins
}
