package common

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Basic statistics shared by the envelope, thickness and spectral packages.
// Empty input yields NaN rather than zero so callers never mistake "no data"
// for a real measurement.

// Mean calculates the arithmetic mean of a slice using gonum
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return math.NaN()
	}
	return stat.Mean(data, nil)
}

// PopVariance is the population (divide by N) variance, matching numpy's
// default np.var.
func PopVariance(data []float64) float64 {
	if len(data) == 0 {
		return math.NaN()
	}
	_, variance := stat.PopMeanVariance(data, nil)
	return variance
}

// PopStdDev is the population standard deviation.
func PopStdDev(data []float64) float64 {
	return math.Sqrt(PopVariance(data))
}

// Median returns the middle value, averaging the two central values for
// even-length input.
func Median(data []float64) float64 {
	if len(data) == 0 {
		return math.NaN()
	}

	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2.0
	}
	return sorted[mid]
}

// Diff returns the first differences data[i+1]-data[i].
func Diff(data []float64) []float64 {
	if len(data) < 2 {
		return []float64{}
	}
	out := make([]float64, len(data)-1)
	floats.SubTo(out, data[1:], data[:len(data)-1])
	return out
}

// Span returns n evenly spaced values from lo to hi inclusive.
func Span(lo, hi float64, n int) []float64 {
	if n <= 0 {
		return []float64{}
	}
	if n == 1 {
		return []float64{lo}
	}
	return floats.Span(make([]float64, n), lo, hi)
}

// IsFinite reports whether v is neither NaN nor ±Inf.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// AllFinite reports whether every element of data is finite.
func AllFinite(data []float64) bool {
	for _, v := range data {
		if !IsFinite(v) {
			return false
		}
	}
	return true
}

// NonFiniteIndices lists the positions of NaN or infinite values.
func NonFiniteIndices(data []float64) []int {
	var idx []int
	for i, v := range data {
		if !IsFinite(v) {
			idx = append(idx, i)
		}
	}
	return idx
}

// Clamp constrains a value to a range
func Clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// StrictlyIncreasing reports whether data[i] < data[i+1] for all i.
func StrictlyIncreasing(data []float64) bool {
	for i := 1; i < len(data); i++ {
		if !(data[i] > data[i-1]) {
			return false
		}
	}
	return true
}
