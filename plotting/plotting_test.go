package plotting

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/RyanBlaney/swanepoel/internal/testutil"
	"github.com/RyanBlaney/swanepoel/logging"
	"github.com/RyanBlaney/swanepoel/spectrum"
	"github.com/RyanBlaney/swanepoel/swanepoel"
	"github.com/RyanBlaney/swanepoel/swanepoel/config"
)

func analyzed(t *testing.T) *swanepoel.Result {
	t.Helper()
	cfg := config.DefaultAnalysisConfig()
	cfg.SubstrateModel = "constant"
	cfg.SubstrateCoeffs = []float64{1.52}

	a, err := swanepoel.NewAnalyzer(cfg)
	if err != nil {
		t.Fatalf("NewAnalyzer: %v", err)
	}
	a.SetLogger(&logging.NoOpLogger{})

	lam := testutil.Grid(600, 900, 200)
	res, err := a.Analyze(context.Background(), spectrum.Spectrum{
		Wavelength:    lam,
		Transmittance: testutil.FilmTransmission(lam, 2.3, 1.52, 2000),
	})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	return res
}

func TestSaveAllWritesFigures(t *testing.T) {
	res := analyzed(t)
	dir := filepath.Join(t.TempDir(), "plots")

	paths, err := SaveAll(res, dir, "sample", "png")
	if err != nil {
		t.Fatalf("SaveAll: %v", err)
	}
	if len(paths) != len(figures) {
		t.Fatalf("wrote %d figures, want %d: %v", len(paths), len(figures), paths)
	}
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			t.Fatalf("stat %s: %v", p, err)
		}
		if info.Size() == 0 {
			t.Errorf("%s is empty", p)
		}
	}
	if filepath.Base(paths[0]) != "sample_envelopes.png" {
		t.Errorf("unexpected file name %s", paths[0])
	}
}

func TestSaveAllSkipsMissingValidation(t *testing.T) {
	res := analyzed(t)
	res.Spectral = nil
	res.Theoretical = nil

	paths, err := SaveAll(res, t.TempDir(), "", "svg")
	if err != nil {
		t.Fatalf("SaveAll: %v", err)
	}
	if len(paths) != 3 {
		t.Fatalf("wrote %d figures, want 3: %v", len(paths), paths)
	}
}

func TestRenderersRejectEmptyResults(t *testing.T) {
	empty := &swanepoel.Result{}
	for _, fig := range figures {
		if _, err := fig.render(empty); !errors.Is(err, ErrNothingToPlot) {
			t.Errorf("%s: err = %v, want ErrNothingToPlot", fig.name, err)
		}
		if _, err := fig.render(nil); !errors.Is(err, ErrNothingToPlot) {
			t.Errorf("%s(nil): err = %v, want ErrNothingToPlot", fig.name, err)
		}
	}
}

func TestXYsSkipsNonFinite(t *testing.T) {
	x := []float64{1, 2, 3}
	y := []float64{0.5, math.NaN(), 0.7}
	pts := xys(x, y)
	if len(pts) != 2 || pts[1].X != 3 {
		t.Fatalf("unexpected points: %v", pts)
	}
}
