package thickness

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/RyanBlaney/swanepoel/algorithms/common"
	"github.com/RyanBlaney/swanepoel/algorithms/extrema"
)

// DefaultTrials is the default search radius around the seed order.
const DefaultTrials = 3

// Candidate is one extremum with its assigned interference order and the
// thickness that order implies.
type Candidate struct {
	Kind       extrema.Kind `json:"kind"`
	Wavelength float64      `json:"wavelength_nm"`
	Index      float64      `json:"n"`
	Order      float64      `json:"order"`
	Thickness  float64      `json:"thickness_m"`
}

// Assignment is the winning order assignment of a Refine search.
type Assignment struct {
	Candidates []Candidate `json:"candidates"`
	Seed       float64     `json:"seed_m"`      // stage-1 mean used for raw orders
	StartOrder float64     `json:"start_order"` // order of the shortest-wavelength extremum
	Offset     int         `json:"offset"`      // StartOrder − floor(raw start order), minus 0.5 for a valley
	Variance   float64     `json:"variance_m2"`
}

// Thickness returns the per-extremum thickness array in wavelength order.
func (a Assignment) Thickness() []float64 {
	out := make([]float64, len(a.Candidates))
	for i, c := range a.Candidates {
		out[i] = c.Thickness
	}
	return out
}

// Orders returns the assigned orders in wavelength order.
func (a Assignment) Orders() []float64 {
	out := make([]float64, len(a.Candidates))
	for i, c := range a.Candidates {
		out[i] = c.Order
	}
	return out
}

type trialResult struct {
	offset     int
	start      float64
	candidates []Candidate
	variance   float64
}

// Refine assigns an interference order to every extremum (integer for
// peaks, half-integer for valleys) so that d = mλ/(2n) is as consistent as
// possible across the spectrum.
//
// The mean of seed gives raw orders m = 2nd̄/λ. Starting orders
// floor(m₀)+k for k in [−trials, trials] are tried for the shortest
// wavelength extremum; every other order follows by shifting its raw order by
// the same amount and snapping to its class lattice. The assignment with the
// smallest population variance of thickness wins, ties going to the smaller
// k. trials bounds the search radius only: a poor seed can put the true
// minimum outside it.
func Refine(peaks, valleys Extrema, seed []float64, trials int) (Assignment, error) {
	return refine(peaks, valleys, seed, trials, true)
}

func refine(peaks, valleys Extrema, seed []float64, trials int, parallel bool) (Assignment, error) {
	if trials < 0 {
		return Assignment{}, fmt.Errorf("trials must be non-negative, got %d", trials)
	}
	if len(seed) == 0 {
		return Assignment{}, fmt.Errorf("%w: empty stage-1 thickness array", ErrInsufficientData)
	}
	dSeed := common.Mean(seed)
	if !common.IsFinite(dSeed) || dSeed <= 0 {
		return Assignment{}, fmt.Errorf("%w: stage-1 mean %g is not a positive finite thickness", ErrInsufficientData, dSeed)
	}

	points := merge(peaks, valleys)
	if len(points) == 0 {
		return Assignment{}, fmt.Errorf("%w: no extrema to assign", ErrInsufficientData)
	}

	raw := make([]float64, len(points))
	for i, p := range points {
		raw[i] = 2 * p.Index * dSeed / (p.Wavelength * nmToM)
	}

	base := math.Floor(raw[0])
	half := 0.0
	if points[0].Kind == extrema.Valley {
		half = 0.5
	}

	results := make([]trialResult, 2*trials+1)
	run := func(slot int) {
		offset := slot - trials
		start := base + float64(offset) + half
		results[slot] = evaluate(points, raw, start, offset)
	}

	if parallel {
		var wg sync.WaitGroup
		for slot := range results {
			wg.Add(1)
			go func() {
				defer wg.Done()
				run(slot)
			}()
		}
		wg.Wait()
	} else {
		for slot := range results {
			run(slot)
		}
	}

	// reduce in ascending offset order so the first minimum wins ties
	best := -1
	for slot, r := range results {
		if math.IsNaN(r.variance) {
			continue
		}
		if best < 0 || r.variance < results[best].variance {
			best = slot
		}
	}
	if best < 0 {
		return Assignment{}, fmt.Errorf("%w: no order assignment has a finite variance", ErrInsufficientData)
	}

	winner := results[best]
	return Assignment{
		Candidates: winner.candidates,
		Seed:       dSeed,
		StartOrder: winner.start,
		Offset:     winner.offset,
		Variance:   winner.variance,
	}, nil
}

// evaluate propagates one starting order across all points.
func evaluate(points []Candidate, raw []float64, start float64, offset int) trialResult {
	candidates := make([]Candidate, len(points))
	d := make([]float64, len(points))

	for i, p := range points {
		m := start
		if i > 0 {
			m = snap(raw[i]-raw[0]+start, p.Kind)
		}
		p.Order = m
		p.Thickness = m * p.Wavelength * nmToM / (2 * p.Index)
		candidates[i] = p
		d[i] = p.Thickness
	}

	return trialResult{
		offset:     offset,
		start:      start,
		candidates: candidates,
		variance:   common.PopVariance(d),
	}
}

// snap rounds m to the nearest integer for peaks and the nearest
// half-integer for valleys. Exact halves round to even, as numpy does.
func snap(m float64, kind extrema.Kind) float64 {
	if kind == extrema.Valley {
		return math.RoundToEven(m-0.5) + 0.5
	}
	return math.RoundToEven(m)
}

// merge combines both classes into one wavelength-ordered sequence.
func merge(peaks, valleys Extrema) []Candidate {
	points := make([]Candidate, 0, peaks.Len()+valleys.Len())
	for _, class := range []Extrema{peaks, valleys} {
		for i := range class.Len() {
			points = append(points, Candidate{
				Kind:       class.Kind,
				Wavelength: class.Wavelength[i],
				Index:      class.Index[i],
			})
		}
	}
	sort.SliceStable(points, func(a, b int) bool {
		return points[a].Wavelength < points[b].Wavelength
	})
	return points
}
