// Package plotting renders analysis results with gonum/plot.
package plotting

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"github.com/RyanBlaney/swanepoel/algorithms/common"
	"github.com/RyanBlaney/swanepoel/algorithms/optics"
	"github.com/RyanBlaney/swanepoel/swanepoel"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// ErrNothingToPlot is returned when the result lacks the data a figure needs.
var ErrNothingToPlot = errors.New("nothing to plot")

// Size is the edge length of saved figures.
var Size = 6 * vg.Inch

var (
	black  = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	red    = color.RGBA{R: 214, G: 39, B: 40, A: 255}
	blue   = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	orange = color.RGBA{R: 255, G: 127, B: 14, A: 255}
	green  = color.RGBA{R: 44, G: 160, B: 44, A: 255}
	grey   = color.RGBA{R: 128, G: 128, B: 128, A: 160}
)

func newPlot(title, xlabel, ylabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xlabel
	p.Y.Label.Text = ylabel
	p.Add(plotter.NewGrid())
	return p
}

// xys pairs x and y, skipping points where either is not finite.
func xys(x, y []float64) plotter.XYs {
	n := min(len(x), len(y))
	pts := make(plotter.XYs, 0, n)
	for i := range n {
		if common.IsFinite(x[i]) && common.IsFinite(y[i]) {
			pts = append(pts, plotter.XY{X: x[i], Y: y[i]})
		}
	}
	return pts
}

func addLine(p *plot.Plot, label string, c color.Color, width vg.Length, x, y []float64) error {
	pts := xys(x, y)
	if len(pts) == 0 {
		return nil
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("%s: %w", label, err)
	}
	line.LineStyle.Color = c
	line.LineStyle.Width = width
	p.Add(line)
	p.Legend.Add(label, line)
	return nil
}

func addScatter(p *plot.Plot, label string, c color.Color, shape draw.GlyphDrawer, x, y []float64) error {
	pts := xys(x, y)
	if len(pts) == 0 {
		return nil
	}
	sc, err := plotter.NewScatter(pts)
	if err != nil {
		return fmt.Errorf("%s: %w", label, err)
	}
	sc.GlyphStyle.Color = c
	sc.GlyphStyle.Radius = vg.Points(3)
	sc.Shape = shape
	p.Add(sc)
	p.Legend.Add(label, sc)
	return nil
}

// Envelopes draws the band transmission, both envelopes and the extrema.
func Envelopes(res *swanepoel.Result) (*plot.Plot, error) {
	if res == nil || len(res.Band) == 0 {
		return nil, ErrNothingToPlot
	}

	p := newPlot("Swanepoel envelopes", "Wavelength [nm]", "Transmittance")
	env := res.Envelope

	if err := addLine(p, "T (band)", grey, vg.Points(1), res.Band, res.Transmittance); err != nil {
		return nil, err
	}
	if err := addLine(p, "Upper envelope TM", blue, vg.Points(1.5), env.Band, env.Upper); err != nil {
		return nil, err
	}
	if err := addLine(p, "Lower envelope Tm", orange, vg.Points(1.5), env.Band, env.Lower); err != nil {
		return nil, err
	}

	peakT := common.InterpolateAll(env.Band, env.Upper, res.Peaks.Wavelength)
	if err := addScatter(p, "peaks", blue, draw.TriangleGlyph{}, res.Peaks.Wavelength, peakT); err != nil {
		return nil, err
	}
	valleyT := common.InterpolateAll(env.Band, env.Lower, res.Valleys.Wavelength)
	if err := addScatter(p, "valleys", orange, draw.CircleGlyph{}, res.Valleys.Wavelength, valleyT); err != nil {
		return nil, err
	}

	return p, nil
}

// FilmIndex draws n(λ) and s(λ) over the band.
func FilmIndex(res *swanepoel.Result) (*plot.Plot, error) {
	if res == nil || len(res.FilmIdx) == 0 {
		return nil, ErrNothingToPlot
	}

	p := newPlot("Film refractive index", "Wavelength [nm]", "n")
	if err := addLine(p, "n(λ) film", blue, vg.Points(1.5), res.Band, res.FilmIdx); err != nil {
		return nil, err
	}
	if err := addLine(p, "s(λ) substrate", grey, vg.Points(1), res.Band, res.SubstrateIdx); err != nil {
		return nil, err
	}
	return p, nil
}

// ThicknessHistogram bins the refined per-extremum thicknesses in µm.
func ThicknessHistogram(res *swanepoel.Result) (*plot.Plot, error) {
	if res == nil {
		return nil, ErrNothingToPlot
	}

	values := make(plotter.Values, 0, len(res.Refined))
	for _, d := range res.Refined {
		if common.IsFinite(d) {
			values = append(values, d*1e6)
		}
	}
	if len(values) == 0 {
		return nil, ErrNothingToPlot
	}

	p := newPlot("Thickness distribution (d2)", "Thickness [µm]", "Count")
	hist, err := plotter.NewHist(values, 0)
	if err != nil {
		return nil, err
	}
	hist.FillColor = blue
	p.Add(hist)
	return p, nil
}

// FFT draws the measured and theoretical fringe spectra.
func FFT(res *swanepoel.Result) (*plot.Plot, error) {
	if res == nil || res.Spectral == nil {
		return nil, ErrNothingToPlot
	}

	cmp := res.Spectral
	p := newPlot("FFT of fringes", "Spatial frequency [1/nm]", "|FFT|")
	if err := addLine(p, "Measured", black, vg.Points(1.3), cmp.Frequency, cmp.Measured); err != nil {
		return nil, err
	}
	if err := addLine(p, "Theory", red, vg.Points(1.5), cmp.Frequency, cmp.Theory); err != nil {
		return nil, err
	}
	return p, nil
}

// MeasuredVsTheory overlays the measurement and the reconstructed spectrum.
func MeasuredVsTheory(res *swanepoel.Result) (*plot.Plot, error) {
	if res == nil || len(res.Theoretical) == 0 {
		return nil, ErrNothingToPlot
	}

	title := "Measured vs Theoretical"
	if common.IsFinite(res.Summary.Mean) {
		title = fmt.Sprintf("%s (d = %.4f µm)", title, res.Summary.Mean*1e6)
	}

	p := newPlot(title, "Wavelength [nm]", "Transmittance")
	if err := addLine(p, "Measured", black, vg.Points(1.3), res.Band, res.Transmittance); err != nil {
		return nil, err
	}
	if err := addLine(p, "Theoretical", red, vg.Points(1.5), res.Band, res.Theoretical); err != nil {
		return nil, err
	}
	if res.Fit != nil {
		fitted := optics.TheoreticalSpectrum(res.Band, res.FilmIdx, res.SubstrateIdx, res.Fit.Thickness)
		label := fmt.Sprintf("LM fit (d = %.4f µm)", res.Fit.Thickness*1e6)
		if err := addLine(p, label, green, vg.Points(1), res.Band, fitted); err != nil {
			return nil, err
		}
	}
	return p, nil
}

type figure struct {
	name   string
	render func(*swanepoel.Result) (*plot.Plot, error)
}

var figures = []figure{
	{"envelopes", Envelopes},
	{"n_band", FilmIndex},
	{"d_hist", ThicknessHistogram},
	{"fft", FFT},
	{"measured_vs_theory", MeasuredVsTheory},
}

// SaveAll writes every figure the result supports into dir as
// <prefix>_<figure>.<ext>. ext is any format gonum/plot knows (png, svg,
// pdf). Figures without data are skipped. The written paths are returned.
func SaveAll(res *swanepoel.Result, dir, prefix, ext string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create plot dir: %w", err)
	}
	if ext == "" {
		ext = "png"
	}

	var written []string
	for _, fig := range figures {
		p, err := fig.render(res)
		if errors.Is(err, ErrNothingToPlot) {
			continue
		}
		if err != nil {
			return written, fmt.Errorf("%s: %w", fig.name, err)
		}

		name := fig.name
		if prefix != "" {
			name = prefix + "_" + name
		}
		path := filepath.Join(dir, name+"."+ext)
		if err := p.Save(Size, Size, path); err != nil {
			return written, fmt.Errorf("save %s: %w", path, err)
		}
		written = append(written, path)
	}
	return written, nil
}
