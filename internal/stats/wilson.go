// Package stats holds the small numeric helpers the Monte Carlo aggregator
// folds battle records with.
package stats

import "math"

// Z95 is the normal quantile for a two-sided 95% interval.
const Z95 = 1.96

// Interval is a confidence interval for a proportion.
type Interval struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// Wilson returns the 95% Wilson score interval for successes out of n.
// n == 0 yields the zero interval. The bounds are exact at the edges:
// successes == 0 gives Lower 0 and successes == n gives Upper 1.
func Wilson(successes, n int) Interval {
	if n <= 0 {
		return Interval{}
	}
	z := Z95
	fn := float64(n)
	p := float64(successes) / fn
	z2 := z * z
	denom := 1 + z2/fn
	center := (p + z2/(2*fn)) / denom
	margin := z * math.Sqrt(p*(1-p)/fn+z2/(4*fn*fn)) / denom

	iv := Interval{
		Lower: math.Max(0, center-margin),
		Upper: math.Min(1, center+margin),
	}
	if successes <= 0 {
		iv.Lower = 0
	}
	if successes >= n {
		iv.Upper = 1
	}
	return iv
}

// Contains reports whether p lies inside the interval.
func (iv Interval) Contains(p float64) bool {
	return p >= iv.Lower && p <= iv.Upper
}
