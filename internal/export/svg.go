package export

import (
	"fmt"
	"strconv"

	"github.com/dgnsrekt/filmscope/internal/charts"
	"github.com/dgnsrekt/filmscope/internal/dom"
	"github.com/dgnsrekt/filmscope/internal/films"
	"github.com/dgnsrekt/filmscope/internal/snapshot"
	"github.com/dgnsrekt/filmscope/internal/viewstate"
)

const svgHeader = `<?xml version="1.0" encoding="UTF-8"?>` + "\n"

var standaloneStyle = fmt.Sprintf(
	":root{--pos-color:%s;--neg-color:%s}text{font-family:sans-serif;font-size:10px}",
	charts.PositiveHex, charts.NegativeHex)

func renderSVG(kind Kind, s viewstate.State, d films.Datasets) (Image, error) {
	var root *dom.Node
	switch kind {
	case LineHorror, LineNonHorror:
		records, title := lineInput(kind, d)
		root = charts.RenderLineChart(records, title, s.View.ActiveScoreKey, s.View.ShowAllScores)
	case Radar:
		root = charts.RenderRadar(d.All(), s.View.FocusedFilm)
	case ComparisonRT, ComparisonMetacritic:
		p := comparisonPair(kind)
		root = charts.RenderComparison(d.All(), p.Title, p.Critic, p.Audience, s.Comparison.SortMode, s.Comparison.DisplayCount)
	default:
		return Image{}, fmt.Errorf("unknown chart %q", kind)
	}

	svg := root
	if root.Tag != "svg" {
		found := root.ByTag("svg")
		if len(found) == 0 {
			return Image{}, fmt.Errorf("export %s: renderer produced no svg", kind)
		}
		svg = found[0]
	}
	svg.Attr("xmlns", "http://www.w3.org/2000/svg")
	svg.Append(dom.El("style").SetText(standaloneStyle))

	return Image{
		Data:   []byte(svgHeader + svg.String()),
		Format: snapshot.FormatSVG,
		Width:  dimension(svg, "width"),
		Height: dimension(svg, "height"),
	}, nil
}

func dimension(n *dom.Node, name string) int {
	v, ok := n.Get(name)
	if !ok {
		return 0
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}
	return int(f)
}
