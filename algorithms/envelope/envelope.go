// Package envelope fits the upper (TM) and lower (Tm) Swanepoel envelopes
// through smoothed fringe extrema.
//
// Each class is smoothed with a centered moving average (edges clamped) and
// then fitted with a cubic least-squares polynomial when at least four
// points are available. The cubic is evaluated across the whole band and is
// NOT clamped outside the extrema's wavelength range, so it can diverge near
// the band edges; such fits are reported with an extrapolation warning.
// With fewer points the curve falls back to piecewise-linear interpolation,
// which holds the nearest known value flat outside the extrema range.
package envelope

import (
	"math"

	"github.com/RyanBlaney/swanepoel/algorithms/common"
)

const (
	// DefaultWindowSize is the moving-average width used by NewFitter when
	// given a non-positive size.
	DefaultWindowSize = 5

	polyDegree = 3
	minPolyPts = polyDegree + 1
)

// Method records how an envelope curve was produced.
type Method string

const (
	MethodPolynomial Method = "poly3"
	MethodLinear     Method = "linear"
	MethodNone       Method = "none"
)

// Envelope is the band grid with both envelope curves and the extrema
// wavelengths they were built from.
type Envelope struct {
	Band              []float64 `json:"band_nm"`
	Upper             []float64 `json:"upper"`
	Lower             []float64 `json:"lower"`
	PeakWavelengths   []float64 `json:"peaks_nm"`
	ValleyWavelengths []float64 `json:"valleys_nm"`
	UpperMethod       Method    `json:"upper_method"`
	LowerMethod       Method    `json:"lower_method"`
}

// Crossings returns band indices where the upper curve falls below the
// lower one, which only happens for degenerate or extrapolated fits.
func (e Envelope) Crossings() []int {
	var idx []int
	for i := range e.Band {
		if e.Upper[i] < e.Lower[i] {
			idx = append(idx, i)
		}
	}
	return idx
}

// Fitter smooths extrema and fits envelope curves.
type Fitter struct {
	windowSize int
}

// NewFitter creates a fitter with the given moving-average window.
func NewFitter(windowSize int) *Fitter {
	if windowSize <= 0 {
		windowSize = DefaultWindowSize
	}
	return &Fitter{windowSize: windowSize}
}

// WindowSize returns the smoothing width.
func (f *Fitter) WindowSize() int {
	return f.windowSize
}

// Fit builds both envelopes over band. Peak and valley slices must be
// ascending in wavelength.
func (f *Fitter) Fit(band, peakLam, peakT, valleyLam, valleyT []float64) (Envelope, []common.Warning) {
	upper, upperMethod, warnings := f.FitCurve("upper", band, peakLam, peakT)
	lower, lowerMethod, lowerWarnings := f.FitCurve("lower", band, valleyLam, valleyT)
	warnings = append(warnings, lowerWarnings...)

	env := Envelope{
		Band:              band,
		Upper:             upper,
		Lower:             lower,
		PeakWavelengths:   peakLam,
		ValleyWavelengths: valleyLam,
		UpperMethod:       upperMethod,
		LowerMethod:       lowerMethod,
	}

	if crossings := env.Crossings(); len(crossings) > 0 {
		warnings = append(warnings, common.NewWarning(common.WarnEnvelopeCrossing, band[crossings[0]],
			"upper envelope below lower envelope at %d band points", len(crossings)))
	}

	return env, warnings
}

// FitCurve smooths one extremum class and evaluates its envelope over band.
// name only labels warnings.
func (f *Fitter) FitCurve(name string, band, lam, values []float64) ([]float64, Method, []common.Warning) {
	var warnings []common.Warning

	if len(lam) == 0 {
		curve := make([]float64, len(band))
		for i := range curve {
			curve[i] = math.NaN()
		}
		warnings = append(warnings, common.NewWarning(common.WarnEmptyEnvelope, 0,
			"%s envelope has no extrema; curve is NaN", name))
		return curve, MethodNone, warnings
	}

	smoothed := common.MovingAverage(values, f.windowSize)

	if len(lam) >= minPolyPts {
		poly, err := FitPolynomial(lam, smoothed, polyDegree)
		if err == nil {
			if len(band) > 0 && (band[0] < lam[0] || band[len(band)-1] > lam[len(lam)-1]) {
				warnings = append(warnings, common.NewWarning(common.WarnExtrapolation, 0,
					"%s envelope cubic extrapolated from [%.1f, %.1f] nm to [%.1f, %.1f] nm",
					name, lam[0], lam[len(lam)-1], band[0], band[len(band)-1]))
			}
			return poly.EvalAll(band), MethodPolynomial, warnings
		}
		warnings = append(warnings, common.NewWarning(common.WarnEnvelopeFallback, 0,
			"%s envelope cubic fit failed (%v); using linear interpolation", name, err))
	} else {
		warnings = append(warnings, common.NewWarning(common.WarnEnvelopeFallback, 0,
			"%s envelope has %d extrema (< %d); using linear interpolation", name, len(lam), minPolyPts))
	}

	return common.InterpolateAll(lam, smoothed, band), MethodLinear, warnings
}
