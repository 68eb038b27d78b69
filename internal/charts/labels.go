package charts

// Extremum classifies a point against its neighbours.
type Extremum int

const (
	Neither Extremum = iota
	Peak
	Valley
)

const (
	peakLabelOffset   = -10.0
	valleyLabelOffset = 15.0
)

// LocalExtrema marks strict interior peaks and valleys of values. The first
// and last points are never extrema.
func LocalExtrema(values []float64) []Extremum {
	out := make([]Extremum, len(values))
	for i := 1; i < len(values)-1; i++ {
		prev, cur, next := values[i-1], values[i], values[i+1]
		switch {
		case cur > prev && cur > next:
			out[i] = Peak
		case cur < prev && cur < next:
			out[i] = Valley
		}
	}
	return out
}

// LabelOffset is the vertical label displacement for an extremum: above a
// peak, below a valley.
func LabelOffset(e Extremum) float64 {
	if e == Valley {
		return valleyLabelOffset
	}
	return peakLabelOffset
}
