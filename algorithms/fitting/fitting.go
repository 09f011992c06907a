// Package fitting refines a film thickness by least squares against the
// measured transmission band. The Swanepoel estimate seeds the fit; the
// residual is the k=0 model spectrum minus the measurement.
package fitting

import (
	"errors"
	"fmt"
	"math"

	"github.com/RyanBlaney/swanepoel/algorithms/common"
	"github.com/RyanBlaney/swanepoel/algorithms/optics"
	"github.com/maorshutman/lm"
)

// DefaultIterations bounds the Levenberg–Marquardt loop.
const DefaultIterations = 100

// ErrNoOverlap means no band sample had finite model inputs.
var ErrNoOverlap = errors.New("no finite samples to fit")

// Settings controls the optimiser.
type Settings struct {
	Iterations   int
	ObjectiveTol float64
}

// DefaultSettings mirrors the tolerances used for the other curve fits in
// this module.
func DefaultSettings() Settings {
	return Settings{Iterations: DefaultIterations, ObjectiveTol: 1e-16}
}

// FitResult is the outcome of a thickness fit. Thicknesses are in metres.
type FitResult struct {
	Initial    float64 `json:"initial_m"`
	Thickness  float64 `json:"thickness_m"`
	InitialRMS float64 `json:"initial_rms"`
	RMS        float64 `json:"rms"`
	Samples    int     `json:"samples"`
	Iterations int     `json:"max_iterations"`
}

// Shift returns the fitted minus the initial thickness in metres.
func (r FitResult) Shift() float64 {
	return r.Thickness - r.Initial
}

// FitThickness minimises TheoreticalSpectrum(band, n, s, d) − measured over
// d, starting from initial (metres). Samples where the measurement or the
// model inputs are non-finite are left out of the residual.
func FitThickness(band, measured, n, s []float64, initial float64, settings Settings) (FitResult, error) {
	size := len(band)
	if len(measured) != size || len(n) != size || len(s) != size {
		return FitResult{}, fmt.Errorf("length mismatch: band=%d measured=%d n=%d s=%d", size, len(measured), len(n), len(s))
	}
	if !common.IsFinite(initial) || initial <= 0 {
		return FitResult{}, fmt.Errorf("initial thickness must be positive, got %g", initial)
	}
	if settings.Iterations <= 0 {
		settings.Iterations = DefaultIterations
	}

	var lam, meas, ni, si []float64
	for i := range band {
		if common.IsFinite(measured[i]) && common.IsFinite(n[i]) && common.IsFinite(s[i]) {
			lam = append(lam, band[i])
			meas = append(meas, measured[i])
			ni = append(ni, n[i])
			si = append(si, s[i])
		}
	}
	if len(lam) == 0 {
		return FitResult{}, ErrNoOverlap
	}

	// the parameter is carried in nm so the Jacobian is well scaled
	residual := func(dst, params []float64) {
		model := optics.TheoreticalSpectrum(lam, ni, si, params[0]*1e-9)
		for i := range dst {
			dst[i] = model[i] - meas[i]
		}
	}

	jac := &lm.NumJac{Func: residual}
	problem := lm.LMProblem{
		Dim:        1,
		Size:       len(lam),
		Func:       residual,
		Jac:        jac.Jac,
		InitParams: []float64{initial * 1e9},
		Tau:        1e-6,
		Eps1:       1e-8,
		Eps2:       1e-8,
	}

	result, err := lm.LM(problem, &lm.Settings{Iterations: settings.Iterations, ObjectiveTol: settings.ObjectiveTol})
	if err != nil {
		return FitResult{}, fmt.Errorf("levenberg-marquardt: %w", err)
	}

	fitted := math.Abs(result.X[0]) * 1e-9

	return FitResult{
		Initial:    initial,
		Thickness:  fitted,
		InitialRMS: rms(residual, initial*1e9, len(lam)),
		RMS:        rms(residual, fitted*1e9, len(lam)),
		Samples:    len(lam),
		Iterations: settings.Iterations,
	}, nil
}

func rms(residual func(dst, params []float64), dNm float64, size int) float64 {
	r := make([]float64, size)
	residual(r, []float64{dNm})
	sum := 0.0
	for _, v := range r {
		sum += v * v
	}
	return math.Sqrt(sum / float64(size))
}
