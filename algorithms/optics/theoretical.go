package optics

import (
	"math"

	"github.com/RyanBlaney/swanepoel/algorithms/common"
)

// TheoreticalSpectrum reconstructs the transmission of a transparent (k=0)
// film of thickness thicknessM metres from n(λ) and s(λ) on the band
// (Swanepoel appendix A1 with x = 1):
//
//	φ = 4πnd/λ
//	T = A / (B − C·cos φ + D)
//	A = 16sn², B = (n+1)³(n+s²), C = 2(n²−1)(n²−s²), D = (n−1)³(n−s²)
//
// Results are clipped to [0, 1]; non-finite inputs stay NaN.
func TheoreticalSpectrum(lamNm, n, s []float64, thicknessM float64) []float64 {
	size := min(len(lamNm), len(n), len(s))
	out := make([]float64, size)

	for i := range size {
		lam := lamNm[i] * 1e-9
		ni, si := n[i], s[i]
		n2, s2 := ni*ni, si*si

		phi := 4 * math.Pi * ni * thicknessM / lam
		a := 16 * si * n2
		b := math.Pow(ni+1, 3) * (ni + s2)
		c := 2 * (n2 - 1) * (n2 - s2) * math.Cos(phi)
		d := math.Pow(ni-1, 3) * (ni - s2)

		t := a / (b - c + d)
		if math.IsNaN(t) {
			out[i] = t
			continue
		}
		out[i] = common.Clamp(t, 0, 1)
	}

	return out
}
