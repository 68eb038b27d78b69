package dom

import (
	"math"
	"strings"
)

// Point is a position in SVG user units.
type Point struct {
	X, Y float64
}

const epsilon = 1e-12

// Runs splits indexes [0, n) into maximal runs where defined holds. Undefined
// indexes end the current run; they are never bridged.
func Runs(n int, defined func(i int) bool) [][]int {
	var out [][]int
	var cur []int
	for i := 0; i < n; i++ {
		if defined(i) {
			cur = append(cur, i)
			continue
		}
		if len(cur) > 0 {
			out = append(out, cur)
			cur = nil
		}
	}
	if len(cur) > 0 {
		out = append(out, cur)
	}
	return out
}

// LinearPath returns straight segments through pts.
func LinearPath(pts []Point) string {
	if len(pts) == 0 {
		return ""
	}
	var b strings.Builder
	for i, p := range pts {
		if i == 0 {
			b.WriteByte('M')
		} else {
			b.WriteByte('L')
		}
		b.WriteString(Num(p.X))
		b.WriteByte(',')
		b.WriteString(Num(p.Y))
	}
	return b.String()
}

// ClosedPath returns a closed polygon through pts.
func ClosedPath(pts []Point) string {
	if len(pts) == 0 {
		return ""
	}
	return LinearPath(pts) + "Z"
}

// CatmullRomPath returns a centripetal Catmull-Rom spline (alpha 0.5) through
// pts as cubic Bézier segments. Fewer than two points yield an empty path;
// two points yield a straight line.
func CatmullRomPath(pts []Point) string {
	if len(pts) < 2 {
		return ""
	}
	c := &catmullRom{b: &strings.Builder{}}
	for _, p := range pts {
		c.point(p.X, p.Y)
	}
	c.end()
	return c.b.String()
}

// catmullRom tracks the last three points and their chord lengths raised to
// alpha (l..a) and 2*alpha (l.._2a).
type catmullRom struct {
	b *strings.Builder
	n int

	x0, y0, x1, y1, x2, y2 float64
	l01a, l12a, l23a       float64
	l01_2a, l12_2a, l23_2a float64
}

func (c *catmullRom) moveTo(x, y float64) {
	c.b.WriteByte('M')
	c.b.WriteString(Num(x) + "," + Num(y))
}

func (c *catmullRom) lineTo(x, y float64) {
	c.b.WriteByte('L')
	c.b.WriteString(Num(x) + "," + Num(y))
}

func (c *catmullRom) curveTo(x1, y1, x2, y2, x, y float64) {
	c.b.WriteByte('C')
	c.b.WriteString(Num(x1) + "," + Num(y1) + "," + Num(x2) + "," + Num(y2) + "," + Num(x) + "," + Num(y))
}

func (c *catmullRom) point(x, y float64) {
	if c.n > 0 {
		dx, dy := c.x2-x, c.y2-y
		c.l23_2a = math.Sqrt(dx*dx + dy*dy)
		c.l23a = math.Sqrt(c.l23_2a)
	}

	switch c.n {
	case 0:
		c.n = 1
		c.moveTo(x, y)
	case 1:
		c.n = 2
	default:
		c.n = 3
		c.segment(x, y)
	}

	c.l01a, c.l12a = c.l12a, c.l23a
	c.l01_2a, c.l12_2a = c.l12_2a, c.l23_2a
	c.x0, c.x1, c.x2 = c.x1, c.x2, x
	c.y0, c.y1, c.y2 = c.y1, c.y2, y
}

func (c *catmullRom) segment(x, y float64) {
	x1, y1, x2, y2 := c.x1, c.y1, c.x2, c.y2
	if c.l01a > epsilon {
		a := 2*c.l01_2a + 3*c.l01a*c.l12a + c.l12_2a
		n := 3 * c.l01a * (c.l01a + c.l12a)
		x1 = (x1*a - c.x0*c.l12_2a + c.x2*c.l01_2a) / n
		y1 = (y1*a - c.y0*c.l12_2a + c.y2*c.l01_2a) / n
	}
	if c.l23a > epsilon {
		b := 2*c.l23_2a + 3*c.l23a*c.l12a + c.l12_2a
		m := 3 * c.l23a * (c.l23a + c.l12a)
		x2 = (x2*b + c.x1*c.l23_2a - x*c.l12_2a) / m
		y2 = (y2*b + c.y1*c.l23_2a - y*c.l12_2a) / m
	}
	c.curveTo(x1, y1, x2, y2, c.x2, c.y2)
}

func (c *catmullRom) end() {
	switch c.n {
	case 2:
		c.lineTo(c.x2, c.y2)
	case 3:
		c.point(c.x2, c.y2)
	}
}
