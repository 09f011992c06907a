package spectral

import (
	"math"
	"testing"

	"github.com/RyanBlaney/swanepoel/internal/testutil"
)

func TestFrequencies(t *testing.T) {
	got := Frequencies(8, 0.5)
	want := []float64{0, 0.25, 0.5, 0.75, 1}
	testutil.RequireSliceNearlyEqual(t, got, want, 1e-12)

	if len(Frequencies(0, 1)) != 0 || len(Frequencies(4, 0)) != 0 {
		t.Fatal("degenerate inputs should give an empty axis")
	}
}

func TestOneSidedMagnitudeLength(t *testing.T) {
	f := NewFFT()
	for _, n := range []int{1, 2, 7, 8, 301} {
		if got := len(f.OneSidedMagnitude(make([]float64, n))); got != n/2+1 {
			t.Errorf("n=%d: got %d bins, want %d", n, got, n/2+1)
		}
	}
	if len(f.OneSidedMagnitude(nil)) != 0 {
		t.Fatal("empty input should give no bins")
	}
}

func TestCompareDominantFringe(t *testing.T) {
	band := testutil.Grid(600, 900, 301)
	const period = 30.0

	measured := testutil.SineFringes(band, 0.8, 0.05, period)
	theory := testutil.SineFringes(band, 0.7, 0.08, period)

	cmp, err := Compare(band, measured, theory)
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if math.Abs(cmp.Step-1) > 1e-9 {
		t.Fatalf("step = %g, want 1", cmp.Step)
	}
	if len(cmp.Frequency) != len(cmp.Measured) || len(cmp.Theory) != len(cmp.Measured) {
		t.Fatalf("axis/spectrum length mismatch: %d %d %d", len(cmp.Frequency), len(cmp.Measured), len(cmp.Theory))
	}

	binWidth := 1 / (float64(len(band)) * cmp.Step)
	fm, ft := cmp.DominantFrequencies()
	if math.Abs(fm-1/period) > binWidth {
		t.Errorf("measured dominant %g, want %g ± %g", fm, 1/period, binWidth)
	}
	if fm != ft {
		t.Errorf("dominant frequencies differ: measured %g theory %g", fm, ft)
	}

	// the mean is removed before transforming
	if cmp.Measured[0] > 0.1*cmp.Measured[int(math.Round(1/period/binWidth))] {
		t.Errorf("DC bin not suppressed: %g", cmp.Measured[0])
	}
}

func TestCompareErrors(t *testing.T) {
	band := []float64{1, 2, 3}
	if _, err := Compare(band, []float64{1, 2}, []float64{1, 2, 3}); err == nil {
		t.Error("expected length mismatch error")
	}
	if _, err := Compare([]float64{1}, []float64{1}, []float64{1}); err == nil {
		t.Error("expected error for a single sample")
	}
	if _, err := Compare([]float64{3, 2, 1}, []float64{1, 2, 3}, []float64{1, 2, 3}); err == nil {
		t.Error("expected error for a descending band")
	}
}
