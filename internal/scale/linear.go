// Package scale maps data values onto pixel ranges for the chart renderers.
package scale

import "math"

// Linear maps a continuous domain onto a continuous range.
type Linear struct {
	d0, d1 float64
	r0, r1 float64
}

// NewLinear returns a linear scale. A collapsed domain (d0 == d1) is widened
// to [v-1, v+1]; a non-finite domain falls back to [0, 1].
func NewLinear(d0, d1, r0, r1 float64) Linear {
	d0, d1 = guardDomain(d0, d1)
	return Linear{d0: d0, d1: d1, r0: r0, r1: r1}
}

// Extent returns the [min, max] of the finite values in vs. ok is false when
// there are none.
func Extent(vs []float64) (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
		ok = true
	}
	if !ok {
		return 0, 1, false
	}
	return lo, hi, true
}

func guardDomain(d0, d1 float64) (float64, float64) {
	if math.IsNaN(d0) || math.IsNaN(d1) || math.IsInf(d0, 0) || math.IsInf(d1, 0) {
		return 0, 1
	}
	if d0 == d1 {
		return d0 - 1, d1 + 1
	}
	return d0, d1
}

// Domain returns the domain bounds.
func (s Linear) Domain() (float64, float64) { return s.d0, s.d1 }

// Range returns the range bounds.
func (s Linear) Range() (float64, float64) { return s.r0, s.r1 }

// Map projects v into the range without clamping.
func (s Linear) Map(v float64) float64 {
	return s.r0 + (v-s.d0)/(s.d1-s.d0)*(s.r1-s.r0)
}

// Nice extends the domain outward to round tick values for roughly count
// ticks.
func (s Linear) Nice(count int) Linear {
	start, stop := s.d0, s.d1
	reversed := stop < start
	if reversed {
		start, stop = stop, start
	}
	var prestep float64
loop:
	for iter := 0; iter < 10; iter++ {
		step := tickIncrement(start, stop, count)
		if step == prestep {
			break
		}
		switch {
		case step > 0:
			start = math.Floor(start/step) * step
			stop = math.Ceil(stop/step) * step
		case step < 0:
			start = math.Ceil(start*step) / step
			stop = math.Floor(stop*step) / step
		default:
			break loop
		}
		prestep = step
	}
	if reversed {
		start, stop = stop, start
	}
	s.d0, s.d1 = start, stop
	return s
}

// Ticks returns round values inside the domain, roughly count of them.
func (s Linear) Ticks(count int) []float64 {
	start, stop := s.d0, s.d1
	if stop < start {
		start, stop = stop, start
	}
	step := tickIncrement(start, stop, count)
	if step == 0 || math.IsNaN(step) || math.IsInf(step, 0) {
		return nil
	}
	var out []float64
	if step > 0 {
		i0, i1 := math.Ceil(start/step), math.Floor(stop/step)
		for i := i0; i <= i1; i++ {
			out = append(out, i*step)
		}
		return out
	}
	inc := -step
	i0, i1 := math.Ceil(start*inc), math.Floor(stop*inc)
	for i := i0; i <= i1; i++ {
		out = append(out, i/inc)
	}
	return out
}

var (
	e10 = math.Sqrt(50)
	e5  = math.Sqrt(10)
	e2  = math.Sqrt(2)
)

// tickIncrement returns a power-of-ten multiple of 1, 2 or 5 spanning
// [start, stop] in about count steps. Negative results are inverted
// increments (-10 means 0.1) so fractional steps stay exact.
func tickIncrement(start, stop float64, count int) float64 {
	if count < 1 {
		count = 1
	}
	step := (stop - start) / float64(count)
	if step <= 0 {
		return 0
	}
	power := math.Floor(math.Log10(step))
	e := step / math.Pow(10, power)
	factor := 1.0
	switch {
	case e >= e10:
		factor = 10
	case e >= e5:
		factor = 5
	case e >= e2:
		factor = 2
	}
	if power >= 0 {
		return factor * math.Pow(10, power)
	}
	return -math.Pow(10, -power) / factor
}
