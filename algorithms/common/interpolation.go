package common

import (
	"math"
	"sort"
)

// Interpolate evaluates the piecewise-linear curve through (x, y) at xi.
// x must be ascending. Outside [x[0], x[len-1]] the nearest end value is
// returned (flat extrapolation, the np.interp convention). A single point
// yields a constant curve; no points yield NaN.
func Interpolate(x, y []float64, xi float64) float64 {
	n := min(len(x), len(y))
	if n == 0 || math.IsNaN(xi) {
		return math.NaN()
	}
	if n == 1 || xi <= x[0] {
		return y[0]
	}
	if xi >= x[n-1] {
		return y[n-1]
	}

	// first index with x[right] > xi
	right := sort.Search(n, func(i int) bool { return x[i] > xi })
	left := right - 1

	// exact grid hits must not pick up a NaN neighbour
	if xi == x[left] {
		return y[left]
	}
	t := (xi - x[left]) / (x[right] - x[left])
	return y[left] + t*(y[right]-y[left])
}

// InterpolateAll evaluates Interpolate at every point of query.
func InterpolateAll(x, y, query []float64) []float64 {
	out := make([]float64, len(query))
	for i, q := range query {
		out[i] = Interpolate(x, y, q)
	}
	return out
}

// MovingAverage applies a centered moving average of width windowSize.
// Samples beyond either edge repeat the edge value, so every output is the
// mean of exactly windowSize inputs (scipy uniform_filter1d, mode="nearest").
// windowSize <= 1 returns a copy.
func MovingAverage(data []float64, windowSize int) []float64 {
	out := make([]float64, len(data))
	if len(data) == 0 {
		return out
	}
	if windowSize <= 1 {
		copy(out, data)
		return out
	}

	// for even widths the extra sample sits on the left, as in scipy
	left := windowSize / 2
	right := windowSize - 1 - left
	last := len(data) - 1

	for i := range data {
		sum := 0.0
		for j := i - left; j <= i+right; j++ {
			sum += data[min(max(j, 0), last)]
		}
		out[i] = sum / float64(windowSize)
	}

	return out
}
