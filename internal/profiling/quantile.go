package profiling

import (
	"fmt"
	"math"
	"sort"
)

// IQRFactor is the fence multiplier applied to the interquartile range
const IQRFactor = 1.5

// Bounds is the Tukey fence [Q1 - 1.5*IQR, Q3 + 1.5*IQR] of a sample
type Bounds struct {
	Q1    float64 `json:"q1"`
	Q3    float64 `json:"q3"`
	IQR   float64 `json:"iqr"`
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// Clip returns v limited to the bounds
func (b Bounds) Clip(v float64) float64 {
	if v < b.Lower {
		return b.Lower
	}
	if v > b.Upper {
		return b.Upper
	}
	return v
}

// Contains reports whether v lies inside the fence
func (b Bounds) Contains(v float64) bool {
	return v >= b.Lower && v <= b.Upper
}

// Percentile returns the p-th percentile (0..100) by linear interpolation
// between closest ranks, position p/100 * (n-1) in the sorted sample.
func Percentile(data []float64, p float64) (float64, error) {
	if len(data) == 0 {
		return math.NaN(), fmt.Errorf("percentile of empty sample")
	}
	if p < 0 || p > 100 || math.IsNaN(p) {
		return math.NaN(), fmt.Errorf("percentile %v out of range [0, 100]", p)
	}

	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)

	return percentileSorted(sorted, p), nil
}

func percentileSorted(sorted []float64, p float64) float64 {
	index := (p / 100.0) * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1

	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// IQRBounds computes the quartiles and fence of a non-empty sample
func IQRBounds(data []float64) (Bounds, error) {
	if len(data) == 0 {
		return Bounds{}, fmt.Errorf("quartiles of empty sample")
	}

	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)

	q1 := percentileSorted(sorted, 25)
	q3 := percentileSorted(sorted, 75)
	iqr := q3 - q1

	return Bounds{
		Q1:    q1,
		Q3:    q3,
		IQR:   iqr,
		Lower: q1 - IQRFactor*iqr,
		Upper: q3 + IQRFactor*iqr,
	}, nil
}
