package envelope

import (
	"math"
	"testing"

	"github.com/RyanBlaney/swanepoel/algorithms/common"
	"github.com/RyanBlaney/swanepoel/internal/testutil"
)

func cubic(x float64) float64 {
	u := x - 700
	return 0.5 + 1e-3*u - 2e-6*u*u + 1e-9*u*u*u
}

func hasWarning(ws []common.Warning, kind common.WarningKind) bool {
	for _, w := range ws {
		if w.Kind == kind {
			return true
		}
	}
	return false
}

func TestFitPolynomialRoundTrip(t *testing.T) {
	x := []float64{610, 655, 702, 748, 801, 850, 893}
	y := make([]float64, len(x))
	for i := range x {
		y[i] = cubic(x[i])
	}

	p, err := FitPolynomial(x, y, 3)
	if err != nil {
		t.Fatalf("FitPolynomial: %v", err)
	}
	for _, xi := range []float64{600, 640, 777, 900} {
		if got, want := p.Eval(xi), cubic(xi); math.Abs(got-want) > 1e-10 {
			t.Fatalf("Eval(%v) = %v, want %v", xi, got, want)
		}
	}
}

func TestFitPolynomialTooFewPoints(t *testing.T) {
	if _, err := FitPolynomial([]float64{1, 2, 3}, []float64{1, 2, 3}, 3); err == nil {
		t.Fatal("expected error for 3 points at degree 3")
	}
	if _, err := FitPolynomial([]float64{1, 2}, []float64{1}, 1); err == nil {
		t.Fatal("expected error for length mismatch")
	}
}

func TestFitCurveReproducesPolynomialData(t *testing.T) {
	lam := []float64{620, 680, 740, 800, 860}
	vals := make([]float64, len(lam))
	for i := range lam {
		vals[i] = cubic(lam[i])
	}
	band := testutil.Grid(600, 900, 61)

	// window 1 disables smoothing so the data stays exactly cubic
	curve, method, _ := NewFitter(1).FitCurve("upper", band, lam, vals)

	if method != MethodPolynomial {
		t.Fatalf("method = %v, want %v", method, MethodPolynomial)
	}
	for i, b := range band {
		if math.Abs(curve[i]-cubic(b)) > 1e-9 {
			t.Fatalf("band %v nm: got %v, want %v", b, curve[i], cubic(b))
		}
	}
}

func TestPolynomialPathExtrapolatesUnclamped(t *testing.T) {
	lam := []float64{700, 720, 740, 760}
	vals := []float64{0.70, 0.72, 0.74, 0.76} // slope 1e-3 per nm
	band := []float64{600, 700, 760, 900}

	curve, method, warnings := NewFitter(1).FitCurve("upper", band, lam, vals)

	if method != MethodPolynomial {
		t.Fatalf("method = %v", method)
	}
	testutil.RequireSliceNearlyEqual(t, curve, []float64{0.60, 0.70, 0.76, 0.90}, 1e-9)
	if !hasWarning(warnings, common.WarnExtrapolation) {
		t.Fatalf("missing extrapolation warning: %v", warnings)
	}
}

func TestLinearFallbackClampsFlat(t *testing.T) {
	lam := []float64{700, 750, 800}
	vals := []float64{0.6, 0.8, 0.7}
	band := []float64{600, 700, 725, 800, 900}

	curve, method, warnings := NewFitter(1).FitCurve("lower", band, lam, vals)

	if method != MethodLinear {
		t.Fatalf("method = %v, want %v", method, MethodLinear)
	}
	testutil.RequireSliceNearlyEqual(t, curve, []float64{0.6, 0.6, 0.7, 0.7, 0.7}, 1e-12)
	if !hasWarning(warnings, common.WarnEnvelopeFallback) {
		t.Fatalf("missing fallback warning: %v", warnings)
	}
}

func TestLinearFallbackUsesSmoothedValues(t *testing.T) {
	lam := []float64{700, 750, 800}
	vals := []float64{0.3, 0.9, 0.3}
	band := []float64{650, 750, 850}

	curve, _, _ := NewFitter(3).FitCurve("upper", band, lam, vals)

	// nearest-edge smoothing: (0.3+0.3+0.9)/3, (0.3+0.9+0.3)/3, (0.9+0.3+0.3)/3
	testutil.RequireSliceNearlyEqual(t, curve, []float64{0.5, 0.5, 0.5}, 1e-12)
}

func TestEmptyClassYieldsNaN(t *testing.T) {
	band := []float64{600, 700}
	curve, method, warnings := NewFitter(5).FitCurve("upper", band, nil, nil)

	if method != MethodNone {
		t.Fatalf("method = %v", method)
	}
	for _, v := range curve {
		if !math.IsNaN(v) {
			t.Fatalf("curve = %v, want all NaN", curve)
		}
	}
	if !hasWarning(warnings, common.WarnEmptyEnvelope) {
		t.Fatal("missing empty envelope warning")
	}
}

func TestFitReportsCrossings(t *testing.T) {
	band := []float64{600, 700, 800}
	env, warnings := NewFitter(1).Fit(band,
		[]float64{650, 750}, []float64{0.5, 0.5},
		[]float64{650, 750}, []float64{0.6, 0.6})

	if got := env.Crossings(); len(got) != 3 {
		t.Fatalf("Crossings = %v, want all three points", got)
	}
	if !hasWarning(warnings, common.WarnEnvelopeCrossing) {
		t.Fatal("missing crossing warning")
	}
	if env.UpperMethod != MethodLinear || env.LowerMethod != MethodLinear {
		t.Fatalf("methods = %v/%v", env.UpperMethod, env.LowerMethod)
	}
}

func TestNewFitterDefaultsWindow(t *testing.T) {
	if got := NewFitter(0).WindowSize(); got != DefaultWindowSize {
		t.Fatalf("WindowSize = %d, want %d", got, DefaultWindowSize)
	}
}
