package charts

import (
	"fmt"
	"math"

	"github.com/dgnsrekt/filmscope/internal/dom"
	"github.com/dgnsrekt/filmscope/internal/films"
)

// Radar geometry.
const (
	RadarSize   = 420
	radarMargin = 60
	radarLevels = 5
)

// RadarLabels are the axis captions, in ScoreKeys order.
var RadarLabels = [films.NumScores]string{
	"Combined",
	"RT Critic",
	"RT Audience",
	"Meta Critic",
	"Meta Audience",
	"Letterboxd",
	"CinemaScore",
}

// RadarValues returns the seven scores of f with 0 in place of any missing
// value. f is not modified.
func RadarValues(f films.FilmRecord) [films.NumScores]float64 {
	var out [films.NumScores]float64
	for i, v := range f.Scores {
		if !films.IsMissing(v) {
			out[i] = v
		}
	}
	return out
}

func radarAngle(i int) float64 {
	return 2*math.Pi/films.NumScores*float64(i) - math.Pi/2
}

// RadarPoints projects seven 0..100 values onto axes of the given radius,
// relative to the chart centre. Axis 0 points straight up.
func RadarPoints(values [films.NumScores]float64, radius float64) []dom.Point {
	pts := make([]dom.Point, films.NumScores)
	for i, v := range values {
		r := v / 100 * radius
		a := radarAngle(i)
		pts[i] = dom.Point{X: r * math.Cos(a), Y: r * math.Sin(a)}
	}
	return pts
}

// RenderRadar draws every record as a faint background polygon and, when the
// focus film has all seven scores, a highlighted polygon with its details.
// An empty record set yields an empty chart.
func RenderRadar(records []films.FilmRecord, focus films.FilmID) *dom.Node {
	svg := dom.El("svg").Attr("id", "radar-chart").
		Attr("viewBox", fmt.Sprintf("0 0 %d %d", RadarSize, RadarSize)).
		Attr("width", RadarSize).Attr("height", RadarSize)
	if len(records) == 0 {
		return svg
	}

	const center = RadarSize / 2.0
	const radius = center - radarMargin

	svg.Append(dom.El("circle").
		Attr("cx", center).Attr("cy", center).Attr("r", radius).
		Attr("fill", "#f8f9fa").Attr("stroke", "#ddd"))

	levels := dom.El("g").Class("levels")
	for lvl := 1; lvl <= radarLevels; lvl++ {
		r := radius * float64(lvl) / radarLevels
		levels.Append(dom.El("circle").
			Attr("cx", center).Attr("cy", center).Attr("r", r).
			Attr("fill", "none").Attr("stroke", "#ccc").
			Attr("stroke-width", 0.5).Attr("stroke-opacity", 0.8))
		if lvl < radarLevels {
			levels.Append(dom.El("text").
				Attr("x", center).Attr("y", center-r).
				Attr("text-anchor", "middle").Attr("dominant-baseline", "middle").
				Attr("font-size", "9px").Attr("fill", "#777").
				SetText(fmt.Sprint(lvl * 100 / radarLevels)))
		}
	}
	svg.Append(levels)

	axes := dom.El("g").Class("axis-grid")
	for i, label := range RadarLabels {
		a := radarAngle(i)
		axes.Append(dom.El("line").
			Attr("x1", center).Attr("y1", center).
			Attr("x2", center+radius*math.Cos(a)).Attr("y2", center+radius*math.Sin(a)).
			Attr("stroke", "#bbb").Attr("stroke-width", 0.6))
		d := radius + 15
		axes.Append(dom.El("text").
			Attr("x", center+d*math.Cos(a)).Attr("y", center+d*math.Sin(a)).
			Attr("text-anchor", radarAnchor(a)).Attr("dominant-baseline", "middle").
			Attr("font-size", "9px").Attr("fill", "#555").
			SetText(label))
	}
	svg.Append(axes)

	background := dom.El("g").Class("data-points").Attr("transform", translate(center, center))
	for _, f := range records {
		background.Append(dom.El("path").Class("radar-area").
			Attr("data-film", int(f.ID)).
			Attr("d", dom.ClosedPath(RadarPoints(RadarValues(f), radius))).
			Attr("fill", "#bbb").Attr("fill-opacity", 0.05).
			Attr("stroke", "#999").Attr("stroke-width", 0.5).Attr("stroke-opacity", 0.3))
	}
	svg.Append(background)

	var film films.FilmRecord
	found := false
	for _, f := range records {
		if f.ID == focus {
			film, found = f, true
			break
		}
	}
	if !found || !film.HasAllScores() {
		return svg
	}

	svg.Append(
		dom.El("g").Class("focus-group").Attr("transform", translate(center, center)).Append(
			dom.El("path").Class("radar-area-focus").
				Attr("data-film", int(film.ID)).
				Attr("d", dom.ClosedPath(RadarPoints(film.Scores, radius))).
				Attr("fill", "rgba(0,123,255,0.2)").
				Attr("stroke", "#007bff").Attr("stroke-width", 2)),
		dom.El("g").Class("film-info").Attr("transform", translate(center, center)).Append(
			dom.El("text").Class("focus-title").
				Attr("text-anchor", "middle").Attr("font-size", "12px").
				Attr("font-weight", "bold").Attr("fill", "#007bff").
				SetText(film.Film)),
		dom.El("text").Class("focus-subtitle").
			Attr("x", center).Attr("y", center+16).
			Attr("text-anchor", "middle").Attr("font-size", "10px").Attr("fill", "#555").
			SetText(film.YearLabel()+" • "+film.Genre),
	)

	legend := dom.El("g").Class("radar-legend").
		Attr("transform", translate(center-radius/2, center+radius/2))
	for i, label := range RadarLabels {
		legend.Append(dom.El("text").
			Attr("x", 0).Attr("y", i*12).
			Attr("font-size", "8px").Attr("fill", "#555").
			SetText(fmt.Sprintf("%s: %d", label, Round(film.Scores[i]))))
	}
	return svg.Append(legend)
}

func radarAnchor(a float64) string {
	if math.Abs(a) < 0.1 || math.Abs(a-math.Pi) < 0.1 {
		return "middle"
	}
	if a > math.Pi/2 && a < 3*math.Pi/2 {
		return "end"
	}
	return "start"
}
