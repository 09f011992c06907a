// Package thickness estimates film thickness from fringe extrema.
//
// Stage 1 (Initial) is Swanepoel's pairwise estimate from adjacent extrema of
// one class. Stage 2 (Refine) turns the stage-1 mean into an interference
// order per extremum and recomputes thickness from d = mλ/(2n). Stage 3
// (Summarize) reduces the refined array to mean, spread and a 95% interval.
//
// Wavelengths are taken in nm; thicknesses are returned in metres.
package thickness

import (
	"errors"
	"fmt"
	"math"

	"github.com/RyanBlaney/swanepoel/algorithms/common"
	"github.com/RyanBlaney/swanepoel/algorithms/extrema"
)

var (
	// ErrInsufficientExtrema means neither peaks nor valleys have the two
	// points a pairwise estimate needs.
	ErrInsufficientExtrema = errors.New("insufficient extrema")

	// ErrInsufficientData means there is nothing usable to refine: the
	// stage-1 array is empty or non-finite, or no order assignment produced
	// a finite variance.
	ErrInsufficientData = errors.New("insufficient data")
)

const nmToM = 1e-9

// Extrema is one class of extrema: ascending wavelengths (nm) and the film
// index at each of them.
type Extrema struct {
	Kind       extrema.Kind
	Wavelength []float64
	Index      []float64
}

// Peaks tags wavelengths and indices as a peak class.
func Peaks(lamNm, n []float64) Extrema {
	return Extrema{Kind: extrema.Peak, Wavelength: lamNm, Index: n}
}

// Valleys tags wavelengths and indices as a valley class.
func Valleys(lamNm, n []float64) Extrema {
	return Extrema{Kind: extrema.Valley, Wavelength: lamNm, Index: n}
}

// Len returns the number of usable points.
func (e Extrema) Len() int {
	return min(len(e.Wavelength), len(e.Index))
}

// Initial computes d = |λᵢλᵢ₊₁ / (2(λᵢnᵢ₊₁ − λᵢ₊₁nᵢ))| for each adjacent
// pair. A pair whose denominator is exactly zero is skipped with a warning.
func Initial(lamNm, n []float64) ([]float64, []common.Warning) {
	size := min(len(lamNm), len(n))
	d := make([]float64, 0, max(size-1, 0))
	var warnings []common.Warning

	for i := 0; i+1 < size; i++ {
		l1, l2 := lamNm[i]*nmToM, lamNm[i+1]*nmToM
		den := 2 * (l1*n[i+1] - l2*n[i])
		if den == 0 {
			warnings = append(warnings, common.NewWarning(common.WarnDegenerateDenominator, lamNm[i],
				"zero denominator for pair %d (%.2f nm, %.2f nm); pair skipped", i, lamNm[i], lamNm[i+1]))
			continue
		}
		d = append(d, math.Abs(l1*l2/den))
	}

	return d, warnings
}

// InitialByClass runs Initial on peaks and valleys independently and
// concatenates the results (peaks first). A class with fewer than two points
// contributes nothing and a warning; ErrInsufficientExtrema is returned only
// when neither class can be used.
func InitialByClass(peaks, valleys Extrema) ([]float64, []common.Warning, error) {
	var (
		all      []float64
		warnings []common.Warning
		usable   int
	)

	for _, class := range []Extrema{peaks, valleys} {
		if class.Len() < 2 {
			warnings = append(warnings, common.NewWarning(common.WarnInsufficientExtrema, 0,
				"%d %s(s); pairwise estimate needs 2", class.Len(), class.Kind))
			continue
		}
		usable++
		d, w := Initial(class.Wavelength, class.Index)
		all = append(all, d...)
		warnings = append(warnings, w...)
	}

	if usable == 0 {
		return nil, warnings, fmt.Errorf("%w: peaks=%d valleys=%d", ErrInsufficientExtrema, peaks.Len(), valleys.Len())
	}
	return all, warnings, nil
}
