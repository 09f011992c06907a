package extrema

import (
	"math"
	"slices"
	"testing"

	"github.com/RyanBlaney/swanepoel/internal/testutil"
)

func TestDetectSineRecoversFringes(t *testing.T) {
	lam := testutil.Grid(600, 900, 301) // 1 nm step
	signal := testutil.SineFringes(lam, 0.5, 0.3, 40)

	set := NewDetector(2).Detect(lam, signal)

	var wantPeaks, wantValleys []float64
	for l := 610.0; l < 900; l += 40 {
		wantPeaks = append(wantPeaks, l)
	}
	for l := 630.0; l < 900; l += 40 {
		wantValleys = append(wantValleys, l)
	}

	checkPositions(t, "peaks", lam, set.Peaks, wantPeaks)
	checkPositions(t, "valleys", lam, set.Valleys, wantValleys)
}

func checkPositions(t *testing.T, name string, lam []float64, got []int, want []float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("%s: got %d extrema, want %d", name, len(got), len(want))
	}
	step := lam[1] - lam[0]
	for k, i := range got {
		if math.Abs(lam[i]-want[k]) > step {
			t.Fatalf("%s[%d] at %v nm, want %v nm ±%v", name, k, lam[i], want[k], step)
		}
	}
}

func TestDetectGreedyThinning(t *testing.T) {
	lam := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	signal := []float64{0, 0.5, 1, 0.5, 1, 0.5, 0.2, 0.5, 1, 0.5}

	set := NewDetector(3).Detect(lam, signal)

	if !slices.Equal(set.Peaks, []int{2, 8}) {
		t.Fatalf("peaks = %v, want [2 8]", set.Peaks)
	}
	if !slices.Equal(set.Valleys, []int{3, 6}) {
		t.Fatalf("valleys = %v, want [3 6]", set.Valleys)
	}
}

func TestDetectPlateauIsNotExtremum(t *testing.T) {
	lam := []float64{1, 2, 3, 4, 5}
	signal := []float64{0, 1, 1, 0, 0}

	set := NewDetector(0).Detect(lam, signal)
	if len(set.Peaks) != 0 || len(set.Valleys) != 0 {
		t.Fatalf("plateau produced extrema: %+v", set)
	}
}

func TestDetectTooShort(t *testing.T) {
	for n := 0; n < 3; n++ {
		lam := testutil.Grid(600, 602, n)
		sig := make([]float64, n)
		set := NewDetector(1).Detect(lam, sig)
		if set.Peaks == nil || set.Valleys == nil || len(set.Peaks)+len(set.Valleys) != 0 {
			t.Fatalf("n=%d: want empty non-nil sets, got %+v", n, set)
		}
	}
}

func TestDetectInvariantsUnderNoise(t *testing.T) {
	lam := testutil.Grid(500, 1000, 1001)
	base := testutil.SineFringes(lam, 0.6, 0.2, 55)
	noise := testutil.DeterministicNoise(7, 0.02, len(lam))
	for i := range base {
		base[i] += noise[i]
	}

	const minSep = 4.0
	set := NewDetector(minSep).Detect(lam, base)

	for name, idx := range map[string][]int{"peaks": set.Peaks, "valleys": set.Valleys} {
		if len(idx) == 0 {
			t.Fatalf("%s: none detected", name)
		}
		for k, i := range idx {
			if i == 0 || i == len(lam)-1 {
				t.Fatalf("%s: endpoint index %d returned", name, i)
			}
			if k > 0 && lam[i]-lam[idx[k-1]] < minSep {
				t.Fatalf("%s: %v and %v closer than %v nm", name, lam[idx[k-1]], lam[i], minSep)
			}
		}
	}
}

func TestGather(t *testing.T) {
	lam, val := Gather([]int{1, 3}, []float64{10, 11, 12, 13}, []float64{0, 0.1, 0.2, 0.3})
	testutil.RequireSliceNearlyEqual(t, lam, []float64{11, 13}, 0)
	testutil.RequireSliceNearlyEqual(t, val, []float64{0.1, 0.3}, 0)
}

func TestKindString(t *testing.T) {
	if Peak.String() != "peak" || Valley.String() != "valley" {
		t.Fatal("unexpected Kind names")
	}
}
