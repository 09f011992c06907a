package optics

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	// ErrInvalidModel is returned for an unrecognised substrate model name.
	ErrInvalidModel = errors.New("invalid substrate model")

	// ErrInvalidCoefficients is returned when the coefficient count does not
	// match the model.
	ErrInvalidCoefficients = errors.New("invalid substrate coefficients")
)

// ModelKind selects one of the closed set of substrate dispersion formulas.
type ModelKind string

const (
	// Sellmeier: n² = 1 + Σ Bᵢλ²/(λ²−Cᵢ), coefficients B1,C1,B2,C2,B3,C3 with C in µm².
	Sellmeier ModelKind = "sellmeier"
	// Cauchy: n = A + B/λ², coefficients A,B.
	Cauchy ModelKind = "cauchy"
	// CauchyAlt: n = A + Bλ² + C/λ², coefficients A,B,C.
	CauchyAlt ModelKind = "cauchy_alt"
	// Constant: n = c, first coefficient used.
	Constant ModelKind = "constant"
)

// Models lists the supported model kinds.
func Models() []ModelKind {
	return []ModelKind{Sellmeier, Cauchy, CauchyAlt, Constant}
}

// ParseModel resolves a case-insensitive model name. "const" is accepted
// as an alias of constant.
func ParseModel(name string) (ModelKind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "sellmeier":
		return Sellmeier, nil
	case "cauchy":
		return Cauchy, nil
	case "cauchy_alt":
		return CauchyAlt, nil
	case "const", "constant":
		return Constant, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidModel, name)
	}
}

// Arity returns the number of coefficients a model takes. Constant reports
// one even though it tolerates extra trailing values.
func (m ModelKind) Arity() int {
	switch m {
	case Sellmeier:
		return 6
	case Cauchy:
		return 2
	case CauchyAlt:
		return 3
	case Constant:
		return 1
	default:
		return 0
	}
}

// Substrate is a validated model plus its coefficients.
type Substrate struct {
	Model  ModelKind `json:"model"`
	Coeffs []float64 `json:"coeffs"`
}

// NewSubstrate parses name and checks the coefficient count.
func NewSubstrate(name string, coeffs []float64) (Substrate, error) {
	model, err := ParseModel(name)
	if err != nil {
		return Substrate{}, err
	}

	want := model.Arity()
	switch {
	case model == Constant && len(coeffs) < 1:
		return Substrate{}, fmt.Errorf("%w: %s needs at least 1 coefficient, got 0", ErrInvalidCoefficients, model)
	case model != Constant && len(coeffs) != want:
		return Substrate{}, fmt.Errorf("%w: %s needs %d coefficients, got %d", ErrInvalidCoefficients, model, want, len(coeffs))
	}

	return Substrate{Model: model, Coeffs: append([]float64(nil), coeffs...)}, nil
}

// Index evaluates the substrate index at a wavelength in nm.
func (s Substrate) Index(lamNm float64) float64 {
	lam := lamNm * 1e-3 // µm
	l2 := lam * lam
	c := s.Coeffs

	switch s.Model {
	case Sellmeier:
		n2 := 1.0 +
			c[0]*l2/(l2-c[1]) +
			c[2]*l2/(l2-c[3]) +
			c[4]*l2/(l2-c[5])
		return math.Sqrt(n2)
	case Cauchy:
		return c[0] + c[1]/l2
	case CauchyAlt:
		return c[0] + c[1]*l2 + c[2]/l2
	case Constant:
		return c[0]
	default:
		return math.NaN()
	}
}

// Profile evaluates Index over a wavelength grid.
func (s Substrate) Profile(lamNm []float64) []float64 {
	out := make([]float64, len(lamNm))
	for i, l := range lamNm {
		out[i] = s.Index(l)
	}
	return out
}

func (s Substrate) String() string {
	return fmt.Sprintf("%s%v", s.Model, s.Coeffs)
}
