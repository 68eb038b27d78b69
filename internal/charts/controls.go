package charts

import (
	"github.com/dgnsrekt/filmscope/internal/dom"
	"github.com/dgnsrekt/filmscope/internal/films"
	"github.com/dgnsrekt/filmscope/internal/viewstate"
)

// FilmCountChoices are the display counts offered by the film-count selector.
var FilmCountChoices = []viewstate.Limit{
	viewstate.LimitOf(10),
	viewstate.LimitOf(20),
	viewstate.LimitOf(30),
	viewstate.LimitOf(50),
	viewstate.LimitAll,
}

// ScoreButtons renders one button per score key plus the all-scores toggle.
func ScoreButtons(v viewstate.ViewState) []*dom.Node {
	out := make([]*dom.Node, 0, films.NumScores+1)
	for i, k := range films.ScoreKeys {
		b := dom.El("button").
			Attr("type", "button").
			Attr("data-intent", viewstate.KindSelectScoreKey).
			Attr("data-key", string(k)).
			Attr("style", "border-color: "+ScoreColors[i]).
			SetText(k.ShortLabel())
		if !v.ShowAllScores && v.ActiveScoreKey == k {
			b.Class("active")
		}
		out = append(out, b)
	}
	all := dom.El("button").
		Attr("type", "button").
		Attr("id", "btn-all").
		Attr("data-intent", viewstate.KindToggleAllScores).
		SetText("All Scores")
	if v.ShowAllScores {
		all.Class("active")
	}
	return append(out, all)
}

// Legend renders the rating swatches and, in all-scores mode, one swatch per
// score key.
func Legend(showAll bool) []*dom.Node {
	out := []*dom.Node{
		legendItem(PositiveColor, "Positive Rating"),
		legendItem(NegativeColor, "Negative Rating"),
		dom.El("div").Class("legend-separator").
			Attr("style", "width: 1px; height: 20px; background: #ddd; margin: 0 10px"),
	}
	display := "none"
	if showAll {
		display = "flex"
	}
	for i, k := range films.ScoreKeys {
		out = append(out, legendItem(ScoreColors[i], k.ShortLabel()).
			Class("score-legend").
			Attr("data-key", string(k)).
			Attr("style", "display: "+display))
	}
	return out
}

func legendItem(color, label string) *dom.Node {
	return dom.El("div").Class("legend-item").Append(
		dom.El("div").Class("legend-color").Attr("style", "background: "+color),
		dom.El("div").SetText(label),
	)
}

// FilmCountOptions renders the film-count selector options. A current limit
// that is not one of the standard choices is offered too.
func FilmCountOptions(current viewstate.Limit) []*dom.Node {
	choices := FilmCountChoices
	known := false
	for _, c := range choices {
		if c == current {
			known = true
		}
	}
	if !known {
		choices = append([]viewstate.Limit{current}, choices...)
	}
	out := make([]*dom.Node, 0, len(choices))
	for _, c := range choices {
		label := c.String()
		if c.All {
			label = "All"
		}
		o := dom.El("option").Attr("value", c.String()).SetText(label)
		if c == current {
			o.Attr("selected", "selected")
		}
		out = append(out, o)
	}
	return out
}

// SortMethodOptions renders the sort-method selector options.
func SortMethodOptions(current viewstate.SortMode) []*dom.Node {
	out := make([]*dom.Node, 0, len(viewstate.SortModes))
	for _, m := range viewstate.SortModes {
		o := dom.El("option").Attr("value", string(m)).SetText(m.Label())
		if m == current {
			o.Attr("selected", "selected")
		}
		out = append(out, o)
	}
	return out
}
