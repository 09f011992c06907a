// Package spectral compares a measured transmission band with its
// reconstructed theoretical counterpart in the fringe-frequency domain.
// A matching dominant fringe frequency is a quick sanity check on the
// refined thickness; it is a validation aid and plays no part in the
// estimate itself.
package spectral

import (
	"fmt"

	"github.com/RyanBlaney/swanepoel/algorithms/common"
	"github.com/mjibson/go-dsp/window"
	"gonum.org/v1/gonum/floats"
)

// Comparison holds the one-sided magnitude spectra of both signals.
type Comparison struct {
	Frequency []float64 `json:"frequency_per_nm"`
	Measured  []float64 `json:"measured"`
	Theory    []float64 `json:"theory"`
	Step      float64   `json:"step_nm"`
}

// DominantFrequencies returns the strongest non-DC fringe frequency of the
// measured and theoretical spectra.
func (c Comparison) DominantFrequencies() (measured, theory float64) {
	return dominant(c.Frequency, c.Measured), dominant(c.Frequency, c.Theory)
}

func dominant(freq, mag []float64) float64 {
	if len(mag) < 2 {
		return 0
	}
	k := floats.MaxIdx(mag[1:]) + 1
	return freq[k]
}

// Compare windows both mean-removed signals with a Hann window and returns
// their rfft magnitudes on a shared axis. The sampling step is the median
// wavelength spacing of band.
func Compare(band, measured, theory []float64) (Comparison, error) {
	n := len(band)
	if len(measured) != n || len(theory) != n {
		return Comparison{}, fmt.Errorf("length mismatch: band=%d measured=%d theory=%d", n, len(measured), len(theory))
	}
	if n < 2 {
		return Comparison{}, fmt.Errorf("need at least 2 samples, got %d", n)
	}

	step := common.Median(common.Diff(band))
	if !(step > 0) {
		return Comparison{}, fmt.Errorf("non-positive sampling step %g nm", step)
	}

	hann := window.Hann(n)
	f := NewFFT()

	return Comparison{
		Frequency: Frequencies(n, step),
		Measured:  f.OneSidedMagnitude(prepare(measured, hann)),
		Theory:    f.OneSidedMagnitude(prepare(theory, hann)),
		Step:      step,
	}, nil
}

// prepare removes the mean and applies the window.
func prepare(x, win []float64) []float64 {
	out := make([]float64, len(x))
	copy(out, x)
	floats.AddConst(-common.Mean(x), out)
	floats.Mul(out, win)
	return out
}
