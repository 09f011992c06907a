package swanepoel

import (
	"github.com/RyanBlaney/swanepoel/algorithms/common"
	"github.com/RyanBlaney/swanepoel/algorithms/fitting"
	"github.com/RyanBlaney/swanepoel/algorithms/optics"
	"github.com/RyanBlaney/swanepoel/algorithms/spectral"
	"github.com/RyanBlaney/swanepoel/logging"
)

// validate runs the cross-checks enabled in the config. None of them change
// the thickness estimate; failures become warnings.
func (a *Analyzer) validate(logger logging.Logger, res *Result) {
	v := a.config.Validation
	if !v.Theoretical && !v.FFT && !v.LMFit {
		return
	}

	mean := res.Summary.Mean
	if !common.IsFinite(mean) || mean <= 0 {
		a.record(logger, res, []common.Warning{common.NewWarning(common.WarnValidationSkipped, 0,
			"no finite mean thickness; validation skipped")})
		return
	}

	if v.Theoretical || v.FFT {
		res.Theoretical = optics.TheoreticalSpectrum(res.Band, res.FilmIdx, res.SubstrateIdx, mean)
	}

	if v.FFT {
		a.compareSpectra(logger, res)
	}

	if v.LMFit {
		settings := fitting.DefaultSettings()
		if v.LMIterations > 0 {
			settings.Iterations = v.LMIterations
		}
		fit, err := fitting.FitThickness(res.Band, res.Transmittance, res.FilmIdx, res.SubstrateIdx, mean, settings)
		if err != nil {
			a.record(logger, res, []common.Warning{common.NewWarning(common.WarnValidationSkipped, 0,
				"least-squares fit failed: %v", err)})
			return
		}
		res.Fit = &fit
		logger.Info("Least-squares thickness", logging.Fields{
			"fit_um":   fit.Thickness * 1e6,
			"shift_nm": fit.Shift() * 1e9,
			"rms":      fit.RMS,
		})
	}
}

func (a *Analyzer) compareSpectra(logger logging.Logger, res *Result) {
	if idx := common.NonFiniteIndices(res.Theoretical); len(idx) > 0 {
		a.record(logger, res, []common.Warning{common.NewWarning(common.WarnValidationSkipped, res.Band[idx[0]],
			"theoretical spectrum undefined at %d points; FFT comparison skipped", len(idx))})
		return
	}

	cmp, err := spectral.Compare(res.Band, res.Transmittance, res.Theoretical)
	if err != nil {
		a.record(logger, res, []common.Warning{common.NewWarning(common.WarnValidationSkipped, 0,
			"FFT comparison failed: %v", err)})
		return
	}
	res.Spectral = &cmp

	measured, theory := cmp.DominantFrequencies()
	logger.Debug("Fringe frequency comparison", logging.Fields{
		"measured_per_nm": measured,
		"theory_per_nm":   theory,
	})
}
