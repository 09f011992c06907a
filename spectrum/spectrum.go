// Package spectrum holds measured transmission spectra and loads them from
// the CSV exports of common spectrophotometers.
package spectrum

import (
	"errors"
	"fmt"

	"github.com/RyanBlaney/swanepoel/algorithms/common"
)

// ErrNoData is returned when a source yields no usable rows.
var ErrNoData = errors.New("spectrum has no usable samples")

// Spectrum is a transmission spectrum. Wavelength is in nm and
// Transmittance is a fraction, nominally in [0, 1].
type Spectrum struct {
	Wavelength    []float64 `json:"wavelength_nm"`
	Transmittance []float64 `json:"transmittance"`
	Source        string    `json:"source,omitempty"`
}

// Len returns the number of samples.
func (s Spectrum) Len() int {
	return min(len(s.Wavelength), len(s.Transmittance))
}

// Validate checks that the two columns line up, hold only finite values and
// that wavelengths increase strictly.
func (s Spectrum) Validate() error {
	if len(s.Wavelength) != len(s.Transmittance) {
		return fmt.Errorf("wavelength/transmittance length mismatch: %d vs %d", len(s.Wavelength), len(s.Transmittance))
	}
	if len(s.Wavelength) == 0 {
		return ErrNoData
	}
	if idx := common.NonFiniteIndices(s.Wavelength); len(idx) > 0 {
		return fmt.Errorf("non-finite wavelength at sample %d", idx[0])
	}
	if idx := common.NonFiniteIndices(s.Transmittance); len(idx) > 0 {
		return fmt.Errorf("non-finite transmittance at sample %d", idx[0])
	}
	if !common.StrictlyIncreasing(s.Wavelength) {
		return errors.New("wavelengths must be strictly increasing")
	}
	return nil
}

// Bandpass returns the samples with lo <= λ <= hi. The result does not alias s.
func Bandpass(s Spectrum, lo, hi float64) Spectrum {
	out := Spectrum{Source: s.Source, Wavelength: []float64{}, Transmittance: []float64{}}
	for i := range s.Len() {
		if lam := s.Wavelength[i]; lam >= lo && lam <= hi {
			out.Wavelength = append(out.Wavelength, lam)
			out.Transmittance = append(out.Transmittance, s.Transmittance[i])
		}
	}
	return out
}
