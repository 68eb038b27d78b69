package export

import (
	"bytes"
	"fmt"
	"math"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/dgnsrekt/filmscope/internal/charts"
	"github.com/dgnsrekt/filmscope/internal/dom"
	"github.com/dgnsrekt/filmscope/internal/films"
)

const (
	radarPNGSize   = charts.RadarSize * 2
	radarPNGMargin = 120
	radarPNGLevels = 5
	circleSegments = 72
)

// radarPNG draws the radar directly on a go-chart raster renderer, since
// go-chart has no polar chart type.
func radarPNG(records []films.FilmRecord, focus films.FilmID) ([]byte, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: radar", ErrNothingToDraw)
	}

	r, err := chart.PNG(radarPNGSize, radarPNGSize)
	if err != nil {
		return nil, fmt.Errorf("radar renderer: %w", err)
	}
	font, err := chart.GetDefaultFont()
	if err != nil {
		return nil, fmt.Errorf("radar font: %w", err)
	}
	r.SetFont(font)

	const center = radarPNGSize / 2.0
	const radius = center - radarPNGMargin

	r.SetFillColor(drawing.ColorWhite)
	polygon(r, []dom.Point{{X: 0, Y: 0}, {X: radarPNGSize, Y: 0}, {X: radarPNGSize, Y: radarPNGSize}, {X: 0, Y: radarPNGSize}}, 0, 0)
	r.Fill()

	grid := hexColor("#cccccc")
	for lvl := 1; lvl <= radarPNGLevels; lvl++ {
		r.SetStrokeColor(grid)
		r.SetStrokeWidth(1)
		polygon(r, circlePoints(radius*float64(lvl)/radarPNGLevels), center, center)
		r.Stroke()
	}

	r.SetFontSize(12)
	r.SetFontColor(hexColor("#555555"))
	outer := charts.RadarPoints([films.NumScores]float64{100, 100, 100, 100, 100, 100, 100}, radius)
	for i, p := range outer {
		r.SetStrokeColor(hexColor("#bbbbbb"))
		r.SetStrokeWidth(1)
		r.MoveTo(int(center), int(center))
		r.LineTo(int(center+p.X), int(center+p.Y))
		r.Stroke()

		label := charts.RadarLabels[i]
		lw := r.MeasureText(label).Width()
		lx := center + p.X*1.12
		ly := center + p.Y*1.12
		switch {
		case math.Abs(p.X) < 1:
			lx -= float64(lw) / 2
		case p.X < 0:
			lx -= float64(lw)
		}
		r.Text(label, int(lx), int(ly)+4)
	}

	background := hexColor("#999999").WithAlpha(40)
	for _, f := range records {
		r.SetStrokeColor(background)
		r.SetStrokeWidth(1)
		polygon(r, charts.RadarPoints(charts.RadarValues(f), radius), center, center)
		r.Stroke()
	}

	for _, f := range records {
		if f.ID != focus || !f.HasAllScores() {
			continue
		}
		r.SetFillColor(hexColor("#007bff").WithAlpha(50))
		r.SetStrokeColor(hexColor("#007bff"))
		r.SetStrokeWidth(3)
		polygon(r, charts.RadarPoints(f.Scores, radius), center, center)
		r.FillStroke()

		r.SetFontSize(16)
		r.SetFontColor(hexColor("#007bff"))
		title := f.Film
		r.Text(title, int(center)-r.MeasureText(title).Width()/2, 32)
		r.SetFontSize(12)
		r.SetFontColor(hexColor("#555555"))
		sub := f.YearLabel() + " • " + f.Genre
		r.Text(sub, int(center)-r.MeasureText(sub).Width()/2, 54)
		break
	}

	var buf bytes.Buffer
	if err := r.Save(&buf); err != nil {
		return nil, fmt.Errorf("radar encode: %w", err)
	}
	return buf.Bytes(), nil
}

func circlePoints(radius float64) []dom.Point {
	pts := make([]dom.Point, circleSegments)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / circleSegments
		pts[i] = dom.Point{X: radius * math.Cos(a), Y: radius * math.Sin(a)}
	}
	return pts
}

func polygon(r chart.Renderer, pts []dom.Point, dx, dy float64) {
	for i, p := range pts {
		x, y := int(math.Round(p.X+dx)), int(math.Round(p.Y+dy))
		if i == 0 {
			r.MoveTo(x, y)
			continue
		}
		r.LineTo(x, y)
	}
	r.Close()
}
