// Package extrema locates interference fringe peaks and valleys in a
// transmittance spectrum.
//
// Candidates are interior samples that are strictly greater (peak) or
// strictly smaller (valley) than both neighbours. Each class is then thinned
// with a single forward greedy pass over wavelength: the first candidate is
// kept and every later one only if it lies at least the configured minimum
// separation beyond the last kept candidate. The greedy pass is a
// deterministic tie-break policy, not a search for the best-spaced subset.
package extrema

import (
	"sort"
)

// Kind tags an extremum as a peak or a valley.
type Kind int

const (
	Peak Kind = iota
	Valley
)

func (k Kind) String() string {
	switch k {
	case Peak:
		return "peak"
	case Valley:
		return "valley"
	default:
		return "unknown"
	}
}

// Set holds ascending sample indices of the kept peaks and valleys.
type Set struct {
	Peaks   []int `json:"peaks"`
	Valleys []int `json:"valleys"`
}

// Detector finds and thins extrema.
type Detector struct {
	minSeparation float64 // nm
}

// NewDetector creates a detector that keeps same-class extrema at least
// minSeparationNm apart.
func NewDetector(minSeparationNm float64) *Detector {
	return &Detector{minSeparation: minSeparationNm}
}

// MinSeparation returns the configured thinning distance in nm.
func (d *Detector) MinSeparation() float64 {
	return d.minSeparation
}

// Detect returns the peaks and valleys of signal sampled on wavelength.
// Fewer than three samples yields an empty Set.
func (d *Detector) Detect(wavelength, signal []float64) Set {
	n := min(len(wavelength), len(signal))
	if n < 3 {
		return Set{Peaks: []int{}, Valleys: []int{}}
	}

	var peaks, valleys []int
	for i := 1; i < n-1; i++ {
		switch {
		case signal[i] > signal[i-1] && signal[i] > signal[i+1]:
			peaks = append(peaks, i)
		case signal[i] < signal[i-1] && signal[i] < signal[i+1]:
			valleys = append(valleys, i)
		}
	}

	return Set{
		Peaks:   d.thin(wavelength, peaks),
		Valleys: d.thin(wavelength, valleys),
	}
}

// thin applies the greedy minimum-separation pass to one class.
func (d *Detector) thin(wavelength []float64, idx []int) []int {
	kept := make([]int, 0, len(idx))
	if len(idx) == 0 {
		return kept
	}

	sort.SliceStable(idx, func(a, b int) bool {
		return wavelength[idx[a]] < wavelength[idx[b]]
	})

	kept = append(kept, idx[0])
	for _, i := range idx[1:] {
		if wavelength[i]-wavelength[kept[len(kept)-1]] >= d.minSeparation {
			kept = append(kept, i)
		}
	}
	return kept
}

// Gather returns wavelength[i] and values[i] for each index.
func Gather(idx []int, wavelength, values []float64) (lam, val []float64) {
	lam = make([]float64, len(idx))
	val = make([]float64, len(idx))
	for k, i := range idx {
		lam[k] = wavelength[i]
		val[k] = values[i]
	}
	return lam, val
}
