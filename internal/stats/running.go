package stats

// Running tracks count, sum, min and max of a stream. The zero value is
// empty and ready to use. Merging is associative.
type Running struct {
	N   int
	Sum float64
	Min float64
	Max float64
}

func (r *Running) Add(v float64) {
	if r.N == 0 || v < r.Min {
		r.Min = v
	}
	if r.N == 0 || v > r.Max {
		r.Max = v
	}
	r.N++
	r.Sum += v
}

func (r *Running) Merge(o Running) {
	if o.N == 0 {
		return
	}
	if r.N == 0 {
		*r = o
		return
	}
	if o.Min < r.Min {
		r.Min = o.Min
	}
	if o.Max > r.Max {
		r.Max = o.Max
	}
	r.N += o.N
	r.Sum += o.Sum
}

// Mean is Sum/N, or 0 when empty.
func (r Running) Mean() float64 {
	if r.N == 0 {
		return 0
	}
	return r.Sum / float64(r.N)
}

// Ratio divides a by b, returning 0 when b is 0.
func Ratio(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}
