// Package optics holds the refractive-index side of the Swanepoel method:
// substrate dispersion models, the envelope inversion for the film index
// (Swanepoel eq. 11) and the k=0 forward model used to reconstruct a
// theoretical spectrum.
package optics

import (
	"math"

	"github.com/RyanBlaney/swanepoel/algorithms/common"
)

// FilmIndex inverts the envelopes at one wavelength:
//
//	N = 2s(TM−Tm)/(TM·Tm) + (s²+1)/2
//	n = √(N + √(N² − s²))
//
// When N² < s² the result is NaN. The value is not clamped so callers can
// see which wavelengths are unusable.
func FilmIndex(upper, lower, s float64) float64 {
	N := 2*s*(upper-lower)/(upper*lower) + (s*s+1)/2
	return math.Sqrt(N + math.Sqrt(N*N-s*s))
}

// FilmProfile applies FilmIndex pointwise. The three slices must share a
// length; the shortest one bounds the output.
func FilmProfile(upper, lower, s []float64) []float64 {
	n := min(len(upper), len(lower), len(s))
	out := make([]float64, n)
	for i := range n {
		out[i] = FilmIndex(upper[i], lower[i], s[i])
	}
	return out
}

// NonFinite returns the wavelengths at which profile is NaN or infinite.
func NonFinite(lamNm, profile []float64) []float64 {
	var out []float64
	for _, i := range common.NonFiniteIndices(profile) {
		if i < len(lamNm) {
			out = append(out, lamNm[i])
		}
	}
	return out
}
