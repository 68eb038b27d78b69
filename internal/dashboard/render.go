package dashboard

import (
	"html/template"
	"log/slog"

	"github.com/dgnsrekt/filmscope/internal/charts"
	"github.com/dgnsrekt/filmscope/internal/config"
	"github.com/dgnsrekt/filmscope/internal/dom"
	"github.com/dgnsrekt/filmscope/internal/films"
	"github.com/dgnsrekt/filmscope/internal/viewstate"
)

// Chart titles used on the page.
const (
	HorrorTitle    = "Horror Movies"
	NonHorrorTitle = "Non-Horror Movies"
)

// Data is what the renderers draw from. Until Loaded is set nothing but the
// loading overlay is rendered; Err holds the last load failure.
type Data struct {
	Datasets films.Datasets
	Loaded   bool
	Err      error
}

type builder func(s viewstate.State, d Data) []*dom.Node

var builders = map[string]builder{
	config.ScoreButtons: func(s viewstate.State, _ Data) []*dom.Node {
		return charts.ScoreButtons(s.View)
	},
	config.LegendContainer: func(s viewstate.State, _ Data) []*dom.Node {
		return charts.Legend(s.View.ShowAllScores)
	},
	config.GraphContainer: func(s viewstate.State, d Data) []*dom.Node {
		out := []*dom.Node{
			charts.RenderLineChart(d.Datasets.Horror, HorrorTitle, s.View.ActiveScoreKey, s.View.ShowAllScores),
			charts.RenderLineChart(d.Datasets.NonHorror, NonHorrorTitle, s.View.ActiveScoreKey, s.View.ShowAllScores),
		}
		for _, chart := range out {
			charts.HighlightPoint(chart, s.View.HoveredFilm())
		}
		return out
	},
	config.ComparisonContainer: func(s viewstate.State, d Data) []*dom.Node {
		all := d.Datasets.All()
		c := s.Comparison
		return []*dom.Node{
			charts.RenderComparison(all, charts.RottenTomatoes.Title, charts.RottenTomatoes.Critic, charts.RottenTomatoes.Audience, c.SortMode, c.DisplayCount),
			charts.RenderComparison(all, charts.Metacritic.Title, charts.Metacritic.Critic, charts.Metacritic.Audience, c.SortMode, c.DisplayCount),
		}
	},
	config.RadarContainer: radarPanel,
	config.Tooltip:        tooltip,
	config.FilmCount: func(s viewstate.State, _ Data) []*dom.Node {
		return charts.FilmCountOptions(s.Comparison.DisplayCount)
	},
	config.SortMethod: func(s viewstate.State, _ Data) []*dom.Node {
		return charts.SortMethodOptions(s.Comparison.SortMode)
	},
}

// RerenderAll clears every container on the page and rebuilds it from s and
// d. Containers the layout leaves out are skipped. Until the data is loaded
// only the loading overlay has content.
func RerenderAll(p *Page, s viewstate.State, d Data) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for id, n := range p.containers {
		n.Clear()
		if id == config.LoadingOverlay {
			n.Append(overlay(d)...)
			continue
		}
		if !d.Loaded {
			continue
		}
		if build, ok := builders[id]; ok {
			n.Append(build(s, d)...)
		}
	}
	p.version++
	slog.Debug("page rendered", "version", p.version, "loaded", d.Loaded)
}

func overlay(d Data) []*dom.Node {
	switch {
	case d.Err != nil:
		return []*dom.Node{dom.El("div").Class("error-message").Append(
			dom.El("h3").SetText("Error Loading Data"),
			dom.El("p").SetText(d.Err.Error()),
			dom.El("button").Attr("type", "button").Attr("data-action", "reload").SetText("Try Again"),
		)}
	case !d.Loaded:
		return []*dom.Node{dom.El("div").Class("loading-message").SetText("Loading film data…")}
	}
	return nil
}

func radarPanel(s viewstate.State, d Data) []*dom.Node {
	panel := dom.El("div").Class("radar-panel")
	if !s.View.ShowRadarPanel {
		return []*dom.Node{panel}
	}
	panel.Class("visible").Append(
		dom.El("div").Class("radar-header").Append(
			dom.El("h3").SetText("Film Score Profile"),
			dom.El("button").Attr("type", "button").Attr("id", "close-radar").
				Attr("data-intent", viewstate.KindCloseRadar).SetText("×"),
		),
		charts.RenderRadar(d.Datasets.All(), s.View.FocusedFilm),
	)
	if !s.View.HasFocus() {
		panel.Append(dom.El("p").Class("radar-hint").SetText("Click a point on a line chart to profile a film."))
	}
	return []*dom.Node{panel}
}

func tooltip(s viewstate.State, d Data) []*dom.Node {
	id := s.View.HoveredFilm()
	if id == films.NoFilm {
		return nil
	}
	f, ok := d.Datasets.Lookup(id)
	if !ok {
		return nil
	}
	html, err := charts.FilmTooltip(f)
	if err != nil {
		slog.Warn("tooltip render failed", "film", f.Film, "error", err)
		return nil
	}
	return []*dom.Node{dom.Raw(string(html))}
}

// TooltipHTML renders the tooltip for a film, as a difference tooltip when
// both comparison keys are given.
func TooltipHTML(f films.FilmRecord, critic, audience films.ScoreKey) (template.HTML, error) {
	if critic != "" && audience != "" {
		return charts.DifferenceTooltip(f, critic, audience)
	}
	return charts.FilmTooltip(f)
}

// AnimationTargets lists the animated line targets present in the graph
// container.
func AnimationTargets(p *Page) []string {
	var out []string
	p.Inspect(config.GraphContainer, func(n *dom.Node) {
		for _, path := range n.ByClass("score-line") {
			if t, ok := path.Get("data-anim"); ok {
				out = append(out, t)
			}
		}
	})
	return out
}
