package common

import "fmt"

// WarningKind classifies a recoverable numerical condition.
type WarningKind string

const (
	WarnDegenerateDenominator WarningKind = "degenerate_denominator"
	WarnInsufficientExtrema   WarningKind = "insufficient_extrema"
	WarnEmptyEnvelope         WarningKind = "empty_envelope"
	WarnEnvelopeFallback      WarningKind = "envelope_fallback"
	WarnExtrapolation         WarningKind = "unclamped_extrapolation"
	WarnEnvelopeCrossing      WarningKind = "envelope_crossing"
	WarnNonFiniteIndex        WarningKind = "non_finite_index"
	WarnValidationSkipped     WarningKind = "validation_skipped"
)

// Warning is a structured diagnostic returned next to a result instead of
// being printed. Wavelength is in nm and is zero when not applicable.
type Warning struct {
	Kind       WarningKind `json:"kind"`
	Message    string      `json:"message"`
	Wavelength float64     `json:"wavelength_nm,omitempty"`
}

func (w Warning) String() string {
	if w.Wavelength != 0 {
		return fmt.Sprintf("%s at %.2f nm: %s", w.Kind, w.Wavelength, w.Message)
	}
	return fmt.Sprintf("%s: %s", w.Kind, w.Message)
}

// NewWarning builds a Warning with a formatted message.
func NewWarning(kind WarningKind, wavelength float64, format string, args ...any) Warning {
	return Warning{
		Kind:       kind,
		Message:    fmt.Sprintf(format, args...),
		Wavelength: wavelength,
	}
}
