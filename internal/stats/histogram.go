package stats

import "slices"

// DefaultBins is the bin count used for duration and damage distributions.
const DefaultBins = 20

// Bin is one histogram bucket covering [Lower, Upper). The last bin also
// includes Upper.
type Bin struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Count int     `json:"count"`
}

// Histogram buckets values into bins equal-width bins spanning the observed
// [min, max]. Every value lands in exactly one bin, so the counts always sum
// to len(values). When every value is equal they all go to the first bin.
func Histogram(values []float64, bins int) []Bin {
	if len(values) == 0 || bins <= 0 {
		return nil
	}
	lo, hi := slices.Min(values), slices.Max(values)
	width := (hi - lo) / float64(bins)

	out := make([]Bin, bins)
	for i := range out {
		out[i].Lower = lo + float64(i)*width
		out[i].Upper = lo + float64(i+1)*width
	}
	out[bins-1].Upper = hi

	for _, v := range values {
		i := 0
		if width > 0 {
			i = int((v - lo) / width)
		}
		if i >= bins {
			i = bins - 1
		}
		if i < 0 {
			i = 0
		}
		out[i].Count++
	}
	return out
}
