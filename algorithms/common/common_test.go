package common

import (
	"math"
	"testing"

	"github.com/RyanBlaney/swanepoel/internal/testutil"
)

func TestInterpolateFlatExtrapolation(t *testing.T) {
	x := []float64{10, 20, 30}
	y := []float64{1, 3, 2}

	tests := []struct {
		name string
		xi   float64
		want float64
	}{
		{"below range", 0, 1},
		{"left edge", 10, 1},
		{"midpoint", 15, 2},
		{"knot", 20, 3},
		{"second segment", 25, 2.5},
		{"right edge", 30, 2},
		{"above range", 99, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Interpolate(x, y, tt.xi); !testutil.AlmostEqual(got, tt.want, 1e-12) {
				t.Fatalf("Interpolate(%v) = %v, want %v", tt.xi, got, tt.want)
			}
		})
	}
}

func TestInterpolateDegenerate(t *testing.T) {
	if got := Interpolate(nil, nil, 5); !math.IsNaN(got) {
		t.Fatalf("empty input: got %v, want NaN", got)
	}
	if got := Interpolate([]float64{3}, []float64{0.7}, -100); got != 0.7 {
		t.Fatalf("single point: got %v, want 0.7", got)
	}

	y := []float64{1.5, math.NaN(), 2.5}
	if got := Interpolate([]float64{0, 1, 2}, y, 0); got != 1.5 {
		t.Fatalf("grid hit next to NaN: got %v, want 1.5", got)
	}
	if got := Interpolate([]float64{0, 1, 2}, y, 0.5); !math.IsNaN(got) {
		t.Fatalf("between a NaN neighbour: got %v, want NaN", got)
	}
}

func TestMovingAverageNearestEdges(t *testing.T) {
	data := []float64{1, 2, 3, 4, 5}
	got := MovingAverage(data, 3)
	// edges repeat: (1+1+2)/3 and (4+5+5)/3
	want := []float64{4.0 / 3, 2, 3, 4, 14.0 / 3}
	testutil.RequireSliceNearlyEqual(t, got, want, 1e-12)
}

func TestMovingAverageWindowLongerThanData(t *testing.T) {
	got := MovingAverage([]float64{2, 4}, 5)
	// index 0: 2,2,2,4,4 ; index 1: 2,2,4,4,4
	want := []float64{14.0 / 5, 16.0 / 5}
	testutil.RequireSliceNearlyEqual(t, got, want, 1e-12)
}

func TestMovingAverageIdentity(t *testing.T) {
	data := []float64{0.3, 0.1, 0.9}
	got := MovingAverage(data, 1)
	testutil.RequireSliceNearlyEqual(t, got, data, 0)
	got[0] = 42
	if data[0] == 42 {
		t.Fatal("MovingAverage must not alias its input")
	}
}

func TestPopVarianceMatchesDefinition(t *testing.T) {
	data := []float64{1, 2, 3, 4}
	if got := PopVariance(data); !testutil.AlmostEqual(got, 1.25, 1e-12) {
		t.Fatalf("PopVariance = %v, want 1.25", got)
	}
	if got := PopStdDev([]float64{5, 5, 5}); got != 0 {
		t.Fatalf("PopStdDev of constant = %v, want 0", got)
	}
	if !math.IsNaN(Mean(nil)) || !math.IsNaN(PopVariance(nil)) {
		t.Fatal("empty statistics should be NaN")
	}
}

func TestMedian(t *testing.T) {
	if got := Median([]float64{3, 1, 2}); got != 2 {
		t.Fatalf("odd median = %v", got)
	}
	if got := Median([]float64{4, 1, 3, 2}); got != 2.5 {
		t.Fatalf("even median = %v", got)
	}
}

func TestSpanAndDiff(t *testing.T) {
	grid := Span(600, 900, 4)
	testutil.RequireSliceNearlyEqual(t, grid, []float64{600, 700, 800, 900}, 1e-9)
	testutil.RequireSliceNearlyEqual(t, Diff(grid), []float64{100, 100, 100}, 1e-9)
	if len(Diff([]float64{1})) != 0 {
		t.Fatal("Diff of one sample should be empty")
	}
}

func TestNonFiniteIndices(t *testing.T) {
	data := []float64{1, math.NaN(), 2, math.Inf(-1)}
	got := NonFiniteIndices(data)
	if len(got) != 2 || got[0] != 1 || got[1] != 3 {
		t.Fatalf("NonFiniteIndices = %v, want [1 3]", got)
	}
	if AllFinite(data) {
		t.Fatal("AllFinite should be false")
	}
}

func TestStrictlyIncreasing(t *testing.T) {
	if !StrictlyIncreasing([]float64{1, 2, 3}) {
		t.Fatal("ascending rejected")
	}
	if StrictlyIncreasing([]float64{1, 2, 2}) {
		t.Fatal("duplicate accepted")
	}
	if StrictlyIncreasing([]float64{1, math.NaN(), 3}) {
		t.Fatal("NaN accepted")
	}
}
