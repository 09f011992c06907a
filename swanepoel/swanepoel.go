// Package swanepoel runs the Swanepoel envelope analysis end to end: band
// cropping, extrema detection, envelope fitting, refractive-index recovery
// and the staged thickness estimate, followed by optional validation
// against a reconstructed spectrum.
package swanepoel

import (
	"context"
	"fmt"
	"time"

	"github.com/RyanBlaney/swanepoel/algorithms/common"
	"github.com/RyanBlaney/swanepoel/algorithms/envelope"
	"github.com/RyanBlaney/swanepoel/algorithms/extrema"
	"github.com/RyanBlaney/swanepoel/algorithms/fitting"
	"github.com/RyanBlaney/swanepoel/algorithms/optics"
	"github.com/RyanBlaney/swanepoel/algorithms/spectral"
	"github.com/RyanBlaney/swanepoel/algorithms/thickness"
	"github.com/RyanBlaney/swanepoel/logging"
	"github.com/RyanBlaney/swanepoel/spectrum"
	"github.com/RyanBlaney/swanepoel/swanepoel/config"
)

// Points are the extrema of one class after cropping to the band.
type Points struct {
	Positions     []int     `json:"positions"` // indices into Result.Band
	Wavelength    []float64 `json:"wavelength_nm"`
	Transmittance []float64 `json:"transmittance"`
	Index         []float64 `json:"n"`
}

// Len returns the number of extrema.
func (p Points) Len() int {
	return len(p.Wavelength)
}

// Result is everything one analysis run produces.
type Result struct {
	ID        string    `json:"id"`
	Source    string    `json:"source,omitempty"`
	Timestamp time.Time `json:"timestamp"`

	Band          []float64         `json:"band_nm"`
	Transmittance []float64         `json:"transmittance"`
	Envelope      envelope.Envelope `json:"envelope"`
	Substrate     optics.Substrate  `json:"substrate"`
	SubstrateIdx  []float64         `json:"s"`
	FilmIdx       []float64         `json:"n"`
	NonFiniteAt   []float64         `json:"non_finite_n_nm,omitempty"`

	Peaks   Points `json:"peaks"`
	Valleys Points `json:"valleys"`

	Initial    []float64            `json:"d1_m"`
	Assignment thickness.Assignment `json:"assignment"`
	Refined    []float64            `json:"d2_m"`
	Summary    thickness.Summary    `json:"summary"`

	Theoretical []float64            `json:"theoretical,omitempty"`
	Spectral    *spectral.Comparison `json:"spectral,omitempty"`
	Fit         *fitting.FitResult   `json:"fit,omitempty"`

	Warnings []common.Warning `json:"warnings,omitempty"`
	Metadata map[string]any   `json:"metadata,omitempty"`
	Elapsed  time.Duration    `json:"elapsed"`
}

// Analyzer runs the pipeline for one configuration. It holds no per-run
// state and may be shared between goroutines.
type Analyzer struct {
	config    *config.AnalysisConfig
	substrate optics.Substrate
	detector  *extrema.Detector
	fitter    *envelope.Fitter
	logger    logging.Logger
}

// NewAnalyzer validates cfg and resolves the substrate model. A nil cfg
// uses DefaultAnalysisConfig.
func NewAnalyzer(cfg *config.AnalysisConfig) (*Analyzer, error) {
	if cfg == nil {
		cfg = config.DefaultAnalysisConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	substrate, err := cfg.Substrate()
	if err != nil {
		return nil, err
	}

	logger := logging.WithFields(logging.Fields{
		"component": "swanepoel_analyzer",
	})

	return &Analyzer{
		config:    cfg,
		substrate: substrate,
		detector:  extrema.NewDetector(cfg.MinSeparationNm),
		fitter:    envelope.NewFitter(cfg.WindowSize),
		logger:    logger,
	}, nil
}

// SetLogger replaces the analyzer's logger. nil installs a no-op logger.
func (a *Analyzer) SetLogger(l logging.Logger) {
	if l == nil {
		l = &logging.NoOpLogger{}
	}
	a.logger = l.WithFields(logging.Fields{"component": "swanepoel_analyzer"})
}

// Config returns the configuration the analyzer was built with.
func (a *Analyzer) Config() *config.AnalysisConfig {
	return a.config
}

// Analyze runs the full pipeline on s. Recoverable numerical problems are
// collected in Result.Warnings; an error is returned only when no thickness
// can be estimated or ctx is cancelled.
func (a *Analyzer) Analyze(ctx context.Context, s spectrum.Spectrum) (*Result, error) {
	start := time.Now()

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid spectrum: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	logger := a.logger.WithContext(ctx).WithFields(logging.Fields{
		"function": "Analyze",
		"samples":  s.Len(),
	})
	if s.Source != "" {
		logger = logger.WithFields(logging.Fields{"source": s.Source})
	}

	res := &Result{
		ID:        generateID(s),
		Source:    s.Source,
		Timestamp: start,
		Substrate: a.substrate,
	}

	// 1) crop
	band := spectrum.Bandpass(s, a.config.LamMin, a.config.LamMax)
	res.Band, res.Transmittance = band.Wavelength, band.Transmittance
	logger.Debug("Band selected", logging.Fields{
		"lam_min":      a.config.LamMin,
		"lam_max":      a.config.LamMax,
		"band_samples": band.Len(),
	})

	// 2) extrema and envelopes
	set := a.detector.Detect(res.Band, res.Transmittance)
	res.Peaks = gatherPoints(set.Peaks, res.Band, res.Transmittance)
	res.Valleys = gatherPoints(set.Valleys, res.Band, res.Transmittance)
	logger.Debug("Extrema detected", logging.Fields{
		"peaks":   res.Peaks.Len(),
		"valleys": res.Valleys.Len(),
	})

	env, warnings := a.fitter.Fit(res.Band,
		res.Peaks.Wavelength, res.Peaks.Transmittance,
		res.Valleys.Wavelength, res.Valleys.Transmittance)
	res.Envelope = env
	a.record(logger, res, warnings)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// 3) refractive indices on the band, sampled at the extrema
	res.SubstrateIdx = a.substrate.Profile(res.Band)
	res.FilmIdx = optics.FilmProfile(env.Upper, env.Lower, res.SubstrateIdx)
	res.NonFiniteAt = optics.NonFinite(res.Band, res.FilmIdx)
	if len(res.NonFiniteAt) > 0 && len(res.Band) > 0 {
		a.record(logger, res, []common.Warning{common.NewWarning(common.WarnNonFiniteIndex, res.NonFiniteAt[0],
			"film index undefined at %d of %d band points", len(res.NonFiniteAt), len(res.Band))})
	}

	res.Peaks.Index = common.InterpolateAll(res.Band, res.FilmIdx, res.Peaks.Wavelength)
	res.Valleys.Index = common.InterpolateAll(res.Band, res.FilmIdx, res.Valleys.Wavelength)

	peaks, dropped := finiteClass(thickness.Peaks(res.Peaks.Wavelength, res.Peaks.Index))
	a.record(logger, res, dropped)
	valleys, dropped := finiteClass(thickness.Valleys(res.Valleys.Wavelength, res.Valleys.Index))
	a.record(logger, res, dropped)

	// 4) stage 1 and stage 2
	initial, warnings, err := thickness.InitialByClass(peaks, valleys)
	a.record(logger, res, warnings)
	if err != nil {
		logger.Error(err, "Pairwise thickness estimate failed")
		return nil, err
	}
	res.Initial = initial

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	assignment, err := thickness.Refine(peaks, valleys, initial, a.config.Trials)
	if err != nil {
		logger.Error(err, "Order refinement failed")
		return nil, err
	}
	res.Assignment = assignment
	res.Refined = assignment.Thickness()

	// 5) summary
	res.Summary = thickness.Summarize(res.Refined)
	logger.Info("Thickness estimated", logging.Fields{
		"mean_um":   res.Summary.Mean * 1e6,
		"std_nm":    res.Summary.StdDev * 1e9,
		"n":         res.Summary.N,
		"offset":    assignment.Offset,
		"start_ord": assignment.StartOrder,
	})

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// 6) optional validation
	a.validate(logger, res)

	addMetadata(res, a.config)
	res.Elapsed = time.Since(start)

	return res, nil
}

// record appends warnings to the result and logs each one.
func (a *Analyzer) record(logger logging.Logger, res *Result, warnings []common.Warning) {
	for _, w := range warnings {
		fields := logging.Fields{"kind": string(w.Kind)}
		if w.Wavelength != 0 {
			fields["wavelength_nm"] = w.Wavelength
		}
		logger.Warn(w.Message, fields)
	}
	res.Warnings = append(res.Warnings, warnings...)
}

func gatherPoints(idx []int, band, t []float64) Points {
	lam, val := extrema.Gather(idx, band, t)
	return Points{Positions: idx, Wavelength: lam, Transmittance: val}
}

// finiteClass removes extrema whose film index is not finite.
func finiteClass(class thickness.Extrema) (thickness.Extrema, []common.Warning) {
	out := thickness.Extrema{Kind: class.Kind}
	var warnings []common.Warning
	for i := range class.Len() {
		lam, n := class.Wavelength[i], class.Index[i]
		if !common.IsFinite(n) {
			warnings = append(warnings, common.NewWarning(common.WarnNonFiniteIndex, lam,
				"%s dropped: film index is not finite", class.Kind))
			continue
		}
		out.Wavelength = append(out.Wavelength, lam)
		out.Index = append(out.Index, n)
	}
	return out, warnings
}
