package testutil

import (
	"math"
	"math/rand"
)

// Grid returns n evenly spaced wavelengths from lo to hi inclusive.
func Grid(lo, hi float64, n int) []float64 {
	out := make([]float64, n)
	if n == 1 {
		out[0] = lo
		return out
	}
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + step*float64(i)
	}
	return out
}

// SineFringes returns T(λ) = mean + amplitude·sin(2πλ/period).
func SineFringes(lam []float64, mean, amplitude, period float64) []float64 {
	out := make([]float64, len(lam))
	for i, l := range lam {
		out[i] = mean + amplitude*math.Sin(2*math.Pi*l/period)
	}
	return out
}

// FilmTransmission is the k=0 Swanepoel transmission of a uniform film of
// index n and thickness dNm on a substrate of index s. It is written out
// independently of the optics package so tests can cross-check it.
func FilmTransmission(lam []float64, n, s, dNm float64) []float64 {
	out := make([]float64, len(lam))
	a := 16 * s * n * n
	b := math.Pow(n+1, 3) * (n + s*s)
	c := 2 * (n*n - 1) * (n*n - s*s)
	d := math.Pow(n-1, 3) * (n - s*s)
	for i, l := range lam {
		phi := 4 * math.Pi * n * dNm / l
		out[i] = a / (b - c*math.Cos(phi) + d)
	}
	return out
}

// UpperEnvelope and LowerEnvelope are the ideal k=0 envelope levels.
func UpperEnvelope(s float64) float64 {
	return 2 * s / (s*s + 1)
}

func LowerEnvelope(n, s float64) float64 {
	n2 := n * n
	return 4 * n2 * s / (n2*n2 + n2*(s*s+1) + s*s)
}

// DeterministicNoise generates uniform noise in [-amplitude, amplitude)
// with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}
