package charts

import (
	"fmt"
	"strings"

	"github.com/dgnsrekt/filmscope/internal/dom"
	"github.com/dgnsrekt/filmscope/internal/films"
	"github.com/dgnsrekt/filmscope/internal/scale"
)

// Line chart geometry.
const (
	LineWidth  = 460
	LineHeight = 320

	lineMarginTop    = 40
	lineMarginRight  = 30
	lineMarginBottom = 40
	lineMarginLeft   = 50

	pointRadius      = 5
	hoverPointRadius = 8
)

// LineTarget names the animation target of one score line.
func LineTarget(title string, k films.ScoreKey) string {
	slug := strings.ToLower(strings.Join(strings.FieldsFunc(title, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9')
	}), "-"))
	return fmt.Sprintf("line-%s-%d", slug, k.Index())
}

// LineTitle is the heading drawn above a line chart.
func LineTitle(title string, activeKey films.ScoreKey, showAll bool) string {
	if showAll {
		return title + " – All Scores"
	}
	return title + " – " + string(activeKey)
}

// RenderLineChart draws records over time for the active key, or for every
// key when showAll is set. Records without a year are not drawn.
func RenderLineChart(records []films.FilmRecord, title string, activeKey films.ScoreKey, showAll bool) *dom.Node {
	sorted := films.Filter(films.SortByYear(records), films.FilmRecord.HasYear)

	years := make([]float64, len(sorted))
	for i, f := range sorted {
		years[i] = f.Year
	}
	lo, hi, _ := scale.Extent(years)
	x := scale.NewLinear(lo, hi, lineMarginLeft, LineWidth-lineMarginRight).Nice(10)
	y := scale.NewLinear(0, 100, LineHeight-lineMarginBottom, lineMarginTop)
	xTicks := x.Ticks(LineWidth / 80)
	yTicks := y.Ticks(10)

	svg := dom.El("svg").Class("chart-svg").
		Attr("viewBox", fmt.Sprintf("0 0 %d %d", LineWidth, LineHeight)).
		Attr("width", LineWidth).Attr("height", LineHeight)

	svg.Append(
		dom.El("rect").Attr("width", LineWidth).Attr("height", LineHeight).Attr("fill", "#fff"),
		verticalGrid(x, xTicks, lineMarginTop, LineHeight-lineMarginBottom),
		horizontalGrid(y, yTicks, lineMarginLeft, LineWidth-lineMarginRight),
		axisBottom("x-axis", x, xTicks, LineHeight-lineMarginBottom, formatInt),
		axisLeft("y-axis", y, yTicks, lineMarginLeft, dom.Num),
		dom.El("text").Class("axis-label").Attr("text-anchor", "middle").
			Attr("x", LineWidth/2).Attr("y", LineHeight-5).SetText("Year"),
		dom.El("text").Class("axis-label").Attr("text-anchor", "middle").
			Attr("transform", "rotate(-90)").Attr("x", -LineHeight/2).Attr("y", 15).SetText("Score"),
	)

	keys := []films.ScoreKey{activeKey}
	if showAll {
		keys = films.ScoreKeys[:]
	}
	for _, k := range keys {
		if p := scoreLine(sorted, title, k, x, y, !showAll); p != nil {
			svg.Append(p)
		}
	}

	if !showAll {
		svg.Append(dataPoints(sorted, activeKey, x, y))
		svg.Append(extremaLabels(sorted, activeKey, x, y))
	}

	svg.Append(dom.El("text").Class("chart-title").
		Attr("x", LineWidth/2).Attr("y", 16).Attr("text-anchor", "middle").
		SetText(LineTitle(title, activeKey, showAll)))

	return dom.El("div").Class("chart-container").Append(svg)
}

func scoreLine(sorted []films.FilmRecord, title string, k films.ScoreKey, x, y scale.Linear, active bool) *dom.Node {
	var d strings.Builder
	for _, run := range dom.Runs(len(sorted), func(i int) bool { return sorted[i].HasScore(k) }) {
		if len(run) < 2 {
			continue
		}
		pts := make([]dom.Point, len(run))
		for j, i := range run {
			pts[j] = dom.Point{X: x.Map(sorted[i].Year), Y: y.Map(sorted[i].Score(k))}
		}
		d.WriteString(dom.CatmullRomPath(pts))
	}
	if d.Len() == 0 {
		return nil
	}
	width := 2.0
	if active {
		width = 2.5
	}
	return dom.El("path").Class("score-line").
		Attr("data-key", string(k)).
		Attr("data-anim", LineTarget(title, k)).
		Attr("fill", "none").
		Attr("stroke", ScoreColor(k)).
		Attr("stroke-width", width).
		Attr("pathLength", 1).
		Attr("stroke-dasharray", 1).
		Attr("d", d.String())
}

func dataPoints(sorted []films.FilmRecord, k films.ScoreKey, x, y scale.Linear) *dom.Node {
	g := dom.El("g").Class("data-points")
	for _, f := range sorted {
		if !f.HasScore(k) {
			continue
		}
		rating := "negative"
		if f.IsPositive {
			rating = "positive"
		}
		g.Append(dom.El("circle").Class("film-point", rating).
			Attr("data-film", int(f.ID)).
			Attr("cx", x.Map(f.Year)).
			Attr("cy", y.Map(f.Score(k))).
			Attr("r", pointRadius).
			Attr("fill", ratingColor(f.IsPositive)).
			Attr("stroke", "#fff").
			Attr("stroke-width", 1))
	}
	return g
}

// extremaLabels names the films sitting at local peaks and valleys of the
// plotted series.
func extremaLabels(sorted []films.FilmRecord, k films.ScoreKey, x, y scale.Linear) *dom.Node {
	plotted := films.Filter(sorted, func(f films.FilmRecord) bool { return f.HasScore(k) })
	values := make([]float64, len(plotted))
	for i, f := range plotted {
		values[i] = f.Score(k)
	}

	g := dom.El("g").Class("film-labels").Attr("font-size", 10).Attr("text-anchor", "middle")
	for i, e := range LocalExtrema(values) {
		if e == Neither {
			continue
		}
		f := plotted[i]
		g.Append(dom.El("text").Class("film-label").
			Attr("data-film", int(f.ID)).
			Attr("x", x.Map(f.Year)).
			Attr("y", y.Map(values[i])+LabelOffset(e)).
			Attr("fill", "currentColor").
			Attr("stroke", "white").
			Attr("paint-order", "stroke").
			SetText(f.Film))
	}
	return g
}

// HighlightPoint enlarges the markers of film id in a rendered line chart.
func HighlightPoint(chart *dom.Node, id films.FilmID) {
	if id == films.NoFilm {
		return
	}
	want := fmt.Sprint(int(id))
	for _, p := range chart.ByClass("film-point") {
		if v, ok := p.Get("data-film"); ok && v == want {
			p.Class("hovered").Attr("r", hoverPointRadius)
		}
	}
}
