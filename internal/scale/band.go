package scale

// Band divides a range into n equal bands separated by padding. Padding is a
// fraction of the step applied both between bands and at the outer edges.
type Band struct {
	start     float64
	step      float64
	bandwidth float64
	n         int
}

// NewBand lays out n bands over [r0, r1].
func NewBand(n int, r0, r1, padding float64) Band {
	if padding < 0 {
		padding = 0
	}
	if padding > 1 {
		padding = 1
	}
	span := r1 - r0
	denom := float64(n) - padding + 2*padding
	if denom < 1 {
		denom = 1
	}
	step := span / denom
	start := r0 + (span-step*(float64(n)-padding))/2
	return Band{start: start, step: step, bandwidth: step * (1 - padding), n: n}
}

// Pos returns the leading edge of band i.
func (b Band) Pos(i int) float64 { return b.start + float64(i)*b.step }

// Bandwidth is the extent of one band.
func (b Band) Bandwidth() float64 { return b.bandwidth }

// Step is the distance between the leading edges of consecutive bands.
func (b Band) Step() float64 { return b.step }

// Len is the number of bands.
func (b Band) Len() int { return b.n }
