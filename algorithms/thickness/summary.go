package thickness

import (
	"fmt"
	"math"

	"github.com/RyanBlaney/swanepoel/algorithms/common"
	"gonum.org/v1/gonum/stat/distuv"
)

// z975 is the 97.5th percentile of the standard normal (≈1.959964).
var z975 = distuv.UnitNormal.Quantile(0.975)

// Summary describes a finalized thickness array in metres.
type Summary struct {
	Mean   float64    `json:"mean_m"`
	StdDev float64    `json:"std_m"` // population standard deviation
	CI95   [2]float64 `json:"ci95_m"`
	N      int        `json:"n"`
}

// Summarize computes mean, population standard deviation and the normal
// 95% confidence interval mean ± z·σ/√N.
//
// The interval is undefined for N ≤ 1: an empty array gives NaN everywhere
// and a single value gives σ = 0 with an unbounded interval.
func Summarize(d []float64) Summary {
	s := Summary{N: len(d)}

	switch len(d) {
	case 0:
		nan := math.NaN()
		s.Mean, s.StdDev, s.CI95 = nan, nan, [2]float64{nan, nan}
		return s
	case 1:
		s.Mean = d[0]
		s.StdDev = 0
		s.CI95 = [2]float64{math.Inf(-1), math.Inf(1)}
		return s
	}

	s.Mean = common.Mean(d)
	s.StdDev = common.PopStdDev(d)
	sem := s.StdDev / math.Sqrt(float64(len(d)))
	s.CI95 = [2]float64{s.Mean - z975*sem, s.Mean + z975*sem}
	return s
}

// HalfWidth returns half the confidence interval width.
func (s Summary) HalfWidth() float64 {
	return (s.CI95[1] - s.CI95[0]) / 2
}

func (s Summary) String() string {
	return fmt.Sprintf("d = %.4f µm ± %.1f nm (95%% CI [%.1f, %.1f] nm, N=%d)",
		s.Mean*1e6, s.StdDev*1e9, s.CI95[0]*1e9, s.CI95[1]*1e9, s.N)
}
