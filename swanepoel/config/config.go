package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/RyanBlaney/swanepoel/algorithms/envelope"
	"github.com/RyanBlaney/swanepoel/algorithms/fitting"
	"github.com/RyanBlaney/swanepoel/algorithms/optics"
	"github.com/RyanBlaney/swanepoel/algorithms/thickness"
)

// ErrInvalidConfig wraps structural configuration problems.
var ErrInvalidConfig = errors.New("invalid analysis config")

// AnalysisConfig holds every tunable of a Swanepoel analysis run.
type AnalysisConfig struct {
	// Band
	LamMin float64 `json:"lam_min"` // nm
	LamMax float64 `json:"lam_max"` // nm

	// Extrema and envelopes
	MinSeparationNm float64 `json:"min_sep_nm"`
	WindowSize      int     `json:"window_size"` // odd, moving-average width

	// Substrate
	SubstrateModel  string    `json:"substrate_model"` // "sellmeier", "cauchy", "cauchy_alt", "constant"
	SubstrateCoeffs []float64 `json:"substrate_coeffs"`

	// Order search radius
	Trials int `json:"trials"`

	Validation ValidationConfig `json:"validation"`
}

// ValidationConfig switches the optional cross-checks run after the
// thickness estimate.
type ValidationConfig struct {
	Theoretical  bool `json:"theoretical"`
	FFT          bool `json:"fft"` // requires Theoretical
	LMFit        bool `json:"lm_fit"`
	LMIterations int  `json:"lm_iterations"`
}

// DefaultAnalysisConfig returns the 600–900 nm setup with a Cauchy glass
// substrate.
func DefaultAnalysisConfig() *AnalysisConfig {
	return &AnalysisConfig{
		LamMin:          600,
		LamMax:          900,
		MinSeparationNm: 2.0,
		WindowSize:      envelope.DefaultWindowSize,
		SubstrateModel:  string(optics.Cauchy),
		SubstrateCoeffs: []float64{1.5690, 0.00531},
		Trials:          thickness.DefaultTrials,
		Validation: ValidationConfig{
			Theoretical:  true,
			FFT:          true,
			LMFit:        false,
			LMIterations: fitting.DefaultIterations,
		},
	}
}

// Validate reports the first problem found. Substrate errors keep their
// optics sentinel so callers can match them with errors.Is.
func (c *AnalysisConfig) Validate() error {
	switch {
	case !(c.LamMin < c.LamMax):
		return fmt.Errorf("%w: band [%g, %g] nm is empty", ErrInvalidConfig, c.LamMin, c.LamMax)
	case !(c.MinSeparationNm > 0):
		return fmt.Errorf("%w: min_sep_nm must be positive, got %g", ErrInvalidConfig, c.MinSeparationNm)
	case c.WindowSize < 1 || c.WindowSize%2 == 0:
		return fmt.Errorf("%w: window_size must be odd and >= 1, got %d", ErrInvalidConfig, c.WindowSize)
	case c.Trials < 0:
		return fmt.Errorf("%w: trials must be >= 0, got %d", ErrInvalidConfig, c.Trials)
	case c.Validation.LMIterations < 0:
		return fmt.Errorf("%w: lm_iterations must be >= 0, got %d", ErrInvalidConfig, c.Validation.LMIterations)
	}

	if _, err := c.Substrate(); err != nil {
		return err
	}
	return nil
}

// Substrate resolves the configured substrate model.
func (c *AnalysisConfig) Substrate() (optics.Substrate, error) {
	return optics.NewSubstrate(c.SubstrateModel, c.SubstrateCoeffs)
}

// LoadFile reads a JSON config. Fields absent from the file keep their
// defaults.
func LoadFile(path string) (*AnalysisConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultAnalysisConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
