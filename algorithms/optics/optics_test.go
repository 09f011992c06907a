package optics

import (
	"errors"
	"math"
	"testing"

	"github.com/RyanBlaney/swanepoel/internal/testutil"
)

func TestParseModel(t *testing.T) {
	tests := []struct {
		in   string
		want ModelKind
	}{
		{"sellmeier", Sellmeier},
		{"Cauchy", Cauchy},
		{" cauchy_alt ", CauchyAlt},
		{"const", Constant},
		{"CONSTANT", Constant},
	}
	for _, tt := range tests {
		got, err := ParseModel(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseModel(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}

	if _, err := ParseModel("lorentz"); !errors.Is(err, ErrInvalidModel) {
		t.Fatalf("unknown model error = %v, want ErrInvalidModel", err)
	}
}

func TestNewSubstrateArity(t *testing.T) {
	tests := []struct {
		name   string
		coeffs []float64
		ok     bool
	}{
		{"cauchy", []float64{1.569, 0.00531}, true},
		{"cauchy", []float64{1.569, 0.00531, 0.1}, false},
		{"cauchy_alt", []float64{1.5, 0, 0.004}, true},
		{"sellmeier", []float64{1, 0.006, 0.2, 0.02}, false},
		{"constant", []float64{1.52}, true},
		{"constant", []float64{1.52, 9}, true},
		{"constant", nil, false},
	}
	for _, tt := range tests {
		_, err := NewSubstrate(tt.name, tt.coeffs)
		if tt.ok && err != nil {
			t.Errorf("%s%v: unexpected error %v", tt.name, tt.coeffs, err)
		}
		if !tt.ok && !errors.Is(err, ErrInvalidCoefficients) {
			t.Errorf("%s%v: error = %v, want ErrInvalidCoefficients", tt.name, tt.coeffs, err)
		}
	}

	if _, err := NewSubstrate("glass", []float64{1.5}); !errors.Is(err, ErrInvalidModel) {
		t.Fatalf("error = %v, want ErrInvalidModel", err)
	}
}

func TestSubstrateIndexFormulas(t *testing.T) {
	bk7, _ := NewSubstrate("sellmeier", []float64{
		1.03961212, 0.00600069867,
		0.231792344, 0.0200179144,
		1.01046945, 103.560653,
	})
	cauchy, _ := NewSubstrate("cauchy", []float64{1.5690, 0.00531})
	alt, _ := NewSubstrate("cauchy_alt", []float64{1.5, 0.01, 0.004})
	constant, _ := NewSubstrate("const", []float64{1.52})

	tests := []struct {
		name string
		s    Substrate
		lam  float64
		want float64
		tol  float64
	}{
		{"BK7 sodium d-line", bk7, 587.6, 1.5168, 2e-4},
		{"cauchy at 1 µm", cauchy, 1000, 1.5690 + 0.00531, 1e-12},
		{"cauchy at 500 nm", cauchy, 500, 1.5690 + 0.00531/0.25, 1e-12},
		{"cauchy_alt at 1 µm", alt, 1000, 1.5 + 0.01 + 0.004, 1e-12},
		{"constant", constant, 731, 1.52, 0},
	}
	for _, tt := range tests {
		if got := tt.s.Index(tt.lam); math.Abs(got-tt.want) > tt.tol {
			t.Errorf("%s: Index(%v) = %v, want %v", tt.name, tt.lam, got, tt.want)
		}
	}

	profile := cauchy.Profile([]float64{500, 1000})
	testutil.RequireSliceNearlyEqual(t, profile, []float64{cauchy.Index(500), cauchy.Index(1000)}, 0)
}

func TestFilmIndexInvertsIdealEnvelopes(t *testing.T) {
	const n, s = 2.3, 1.52
	got := FilmIndex(testutil.UpperEnvelope(s), testutil.LowerEnvelope(n, s), s)
	if math.Abs(got-n) > 1e-9 {
		t.Fatalf("FilmIndex = %v, want %v", got, n)
	}
}

func TestFilmIndexDegenerateEnvelopes(t *testing.T) {
	const s = 1.5

	// Touching envelopes carry no fringe contrast: N = (s²+1)/2 and the
	// inversion collapses onto the substrate index without failing.
	if got := FilmIndex(0.8, 0.8, s); math.Abs(got-s) > 1e-12 {
		t.Fatalf("FilmIndex(TM=Tm) = %v, want %v", got, s)
	}

	// Crossed envelopes push N² below s²: the result must be NaN, not a
	// clamped number and not a panic.
	if got := FilmIndex(0.5, 0.9, s); !math.IsNaN(got) {
		t.Fatalf("FilmIndex(TM<Tm) = %v, want NaN", got)
	}

	// Zero envelopes divide 0 by 0.
	if got := FilmIndex(0, 0, s); !math.IsNaN(got) {
		t.Fatalf("FilmIndex(0, 0) = %v, want NaN", got)
	}
}

func TestFilmProfileAndNonFinite(t *testing.T) {
	lam := []float64{600, 700, 800}
	upper := []float64{0.9, 0.5, 0.9}
	lower := []float64{0.7, 0.9, 0.7}
	s := []float64{1.5, 1.5, 1.5}

	profile := FilmProfile(upper, lower, s)
	if len(profile) != 3 {
		t.Fatalf("len = %d", len(profile))
	}
	bad := NonFinite(lam, profile)
	if len(bad) != 1 || bad[0] != 700 {
		t.Fatalf("NonFinite = %v, want [700]", bad)
	}
}

func TestTheoreticalSpectrumMatchesReference(t *testing.T) {
	lam := testutil.Grid(600, 900, 50)
	n := make([]float64, len(lam))
	s := make([]float64, len(lam))
	for i := range lam {
		n[i], s[i] = 2.3, 1.52
	}

	got := TheoreticalSpectrum(lam, n, s, 2.0e-6)
	want := testutil.FilmTransmission(lam, 2.3, 1.52, 2000)
	testutil.RequireSliceNearlyEqual(t, got, want, 1e-12)

	for _, v := range got {
		if v < testutil.LowerEnvelope(2.3, 1.52)-1e-12 || v > testutil.UpperEnvelope(1.52)+1e-12 {
			t.Fatalf("T = %v outside envelope band", v)
		}
	}
}

func TestTheoreticalSpectrumKeepsNaN(t *testing.T) {
	got := TheoreticalSpectrum([]float64{700}, []float64{math.NaN()}, []float64{1.5}, 1e-6)
	if !math.IsNaN(got[0]) {
		t.Fatalf("got %v, want NaN", got[0])
	}
}
