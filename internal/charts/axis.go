package charts

import (
	"fmt"

	"github.com/dgnsrekt/filmscope/internal/dom"
	"github.com/dgnsrekt/filmscope/internal/scale"
)

func translate(x, y float64) string {
	return fmt.Sprintf("translate(%s,%s)", dom.Num(x), dom.Num(y))
}

// axisBottom draws a horizontal axis at y with outward ticks.
func axisBottom(class string, s scale.Linear, ticks []float64, y float64, format func(float64) string) *dom.Node {
	g := dom.El("g").Class(class).Attr("transform", translate(0, y)).
		Attr("font-size", 10).Attr("text-anchor", "middle")
	r0, r1 := s.Range()
	g.Append(dom.El("path").Class("domain").
		Attr("stroke", "currentColor").Attr("fill", "none").
		Attr("d", fmt.Sprintf("M%s,6V0H%sV6", dom.Num(r0), dom.Num(r1))))
	for _, t := range ticks {
		g.Append(dom.El("g").Class("tick").Attr("transform", translate(s.Map(t), 0)).Append(
			dom.El("line").Attr("stroke", "currentColor").Attr("y2", 6),
			dom.El("text").Attr("fill", "currentColor").Attr("y", 9).Attr("dy", "0.71em").SetText(format(t)),
		))
	}
	return g
}

// axisLeft draws a vertical axis at x with outward ticks.
func axisLeft(class string, s scale.Linear, ticks []float64, x float64, format func(float64) string) *dom.Node {
	g := dom.El("g").Class(class).Attr("transform", translate(x, 0)).
		Attr("font-size", 10).Attr("text-anchor", "end")
	r0, r1 := s.Range()
	g.Append(dom.El("path").Class("domain").
		Attr("stroke", "currentColor").Attr("fill", "none").
		Attr("d", fmt.Sprintf("M-6,%sH0V%sH-6", dom.Num(r0), dom.Num(r1))))
	for _, t := range ticks {
		g.Append(dom.El("g").Class("tick").Attr("transform", translate(0, s.Map(t))).Append(
			dom.El("line").Attr("stroke", "currentColor").Attr("x2", -6),
			dom.El("text").Attr("fill", "currentColor").Attr("x", -9).Attr("dy", "0.32em").SetText(format(t)),
		))
	}
	return g
}

// verticalGrid draws one line per tick spanning [top, bottom].
func verticalGrid(s scale.Linear, ticks []float64, top, bottom float64) *dom.Node {
	g := dom.El("g").Class("grid")
	for _, t := range ticks {
		x := s.Map(t)
		g.Append(dom.El("line").
			Attr("x1", x).Attr("x2", x).Attr("y1", top).Attr("y2", bottom).
			Attr("stroke", "#e0e0e0"))
	}
	return g
}

// horizontalGrid draws one line per tick spanning [left, right].
func horizontalGrid(s scale.Linear, ticks []float64, left, right float64) *dom.Node {
	g := dom.El("g").Class("grid")
	for _, t := range ticks {
		y := s.Map(t)
		g.Append(dom.El("line").
			Attr("x1", left).Attr("x2", right).Attr("y1", y).Attr("y2", y).
			Attr("stroke", "#e0e0e0"))
	}
	return g
}

func formatInt(v float64) string { return fmt.Sprintf("%d", int(v)) }

func formatSigned(v float64) string {
	switch {
	case v > 0:
		return "+" + dom.Num(v)
	case v == 0:
		return "0"
	}
	return dom.Num(v)
}
