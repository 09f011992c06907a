package spectral

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// FFT wraps mjibson/go-dsp for the real-valued spectra this module handles.
type FFT struct{}

// NewFFT creates a new FFT calculator
func NewFFT() *FFT {
	return &FFT{}
}

// Compute returns the full complex transform of x. go-dsp handles
// non-power-of-two lengths, so band grids are transformed as sampled.
func (f *FFT) Compute(x []float64) []complex128 {
	if len(x) == 0 {
		return []complex128{}
	}
	return fft.FFTReal(x)
}

// OneSidedMagnitude returns |X[k]| for k = 0…N/2, the rfft magnitudes.
func (f *FFT) OneSidedMagnitude(x []float64) []float64 {
	if len(x) == 0 {
		return []float64{}
	}

	spectrum := f.Compute(x)
	out := make([]float64, len(x)/2+1)
	for k := range out {
		out[k] = cmplx.Abs(spectrum[k])
	}
	return out
}

// Frequencies returns the rfft frequency axis k/(N·step) for k = 0…N/2.
// With step in nm the axis is in cycles per nm.
func Frequencies(n int, step float64) []float64 {
	if n <= 0 || step <= 0 {
		return []float64{}
	}
	out := make([]float64, n/2+1)
	for k := range out {
		out[k] = float64(k) / (float64(n) * step)
	}
	return out
}
