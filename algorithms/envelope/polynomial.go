package envelope

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Polynomial is a least-squares polynomial in a normalised abscissa
// t = (x - center) / scale, which keeps the Vandermonde system well
// conditioned for wavelengths in the hundreds of nm.
type Polynomial struct {
	Coeffs []float64 // ascending powers of t
	center float64
	scale  float64
}

// FitPolynomial fits a polynomial of the given degree to (x, y) by least
// squares (QR through gonum's SolveVec). It needs at least degree+1 points.
func FitPolynomial(x, y []float64, degree int) (*Polynomial, error) {
	if len(x) != len(y) {
		return nil, fmt.Errorf("x and y length mismatch: %d vs %d", len(x), len(y))
	}
	if degree < 0 {
		return nil, fmt.Errorf("negative polynomial degree %d", degree)
	}
	if len(x) < degree+1 {
		return nil, fmt.Errorf("need %d points for degree %d, got %d", degree+1, degree, len(x))
	}

	lo, hi := floats.Min(x), floats.Max(x)
	p := &Polynomial{center: (lo + hi) / 2, scale: (hi - lo) / 2}
	if p.scale == 0 {
		p.scale = 1
	}

	cols := degree + 1
	vander := mat.NewDense(len(x), cols, nil)
	for i, xi := range x {
		t := p.normalise(xi)
		v := 1.0
		for j := range cols {
			vander.Set(i, j, v)
			v *= t
		}
	}

	var coef mat.VecDense
	if err := coef.SolveVec(vander, mat.NewVecDense(len(y), append([]float64(nil), y...))); err != nil {
		return nil, fmt.Errorf("polynomial least squares: %w", err)
	}

	p.Coeffs = make([]float64, cols)
	for j := range cols {
		p.Coeffs[j] = coef.AtVec(j)
	}
	return p, nil
}

func (p *Polynomial) normalise(x float64) float64 {
	return (x - p.center) / p.scale
}

// Eval evaluates the polynomial at x with Horner's scheme.
func (p *Polynomial) Eval(x float64) float64 {
	t := p.normalise(x)
	sum := 0.0
	for j := len(p.Coeffs) - 1; j >= 0; j-- {
		sum = sum*t + p.Coeffs[j]
	}
	return sum
}

// EvalAll evaluates the polynomial at every x.
func (p *Polynomial) EvalAll(xs []float64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = p.Eval(x)
	}
	return out
}
