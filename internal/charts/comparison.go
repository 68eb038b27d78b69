package charts

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/dgnsrekt/filmscope/internal/dom"
	"github.com/dgnsrekt/filmscope/internal/films"
	"github.com/dgnsrekt/filmscope/internal/scale"
	"github.com/dgnsrekt/filmscope/internal/viewstate"
)

// Comparison chart geometry.
const (
	ComparisonWidth = 700

	barHeight        = 22
	barGap           = 8
	barPadding       = 0.3
	cmpMarginTop     = 20
	cmpMarginRight   = 160
	cmpMarginBottom  = 40
	cmpMarginLeft    = 160
	minHalfDomain    = 20.0
	filmLabelMaxRune = 24
)

// ComparisonPair names the critic and audience columns of one comparison.
type ComparisonPair struct {
	Title    string
	Critic   films.ScoreKey
	Audience films.ScoreKey
}

// The two comparisons on the dashboard.
var (
	RottenTomatoes = ComparisonPair{
		Title:    "Rotten Tomatoes: Critic vs Audience Scores",
		Critic:   films.RTCriticScore,
		Audience: films.RTAudienceScore,
	}
	Metacritic = ComparisonPair{
		Title:    "Metacritic: Critic vs Audience Scores",
		Critic:   films.MetacriticCriticScore,
		Audience: films.MetacriticAudienceScore,
	}
)

// ComparisonRow is one film with both scores present.
type ComparisonRow struct {
	Film       films.FilmRecord `json:"-"`
	Critic     float64          `json:"critic"`
	Audience   float64          `json:"audience"`
	Difference float64          `json:"difference"`
}

// ComparisonResult is the sorted, truncated row set plus the number of films
// that had both scores.
type ComparisonResult struct {
	Rows       []ComparisonRow
	ValidCount int
}

// PrepareComparison keeps records with both scores numeric, orders them by
// mode and truncates to limit. Every ordering is stable. critic-higher keeps
// only positive differences and audience-higher only negative ones; unknown
// modes order by absolute difference.
func PrepareComparison(records []films.FilmRecord, critic, audience films.ScoreKey, mode viewstate.SortMode, limit viewstate.Limit) ComparisonResult {
	var rows []ComparisonRow
	for _, f := range records {
		if !f.HasScore(critic) || !f.HasScore(audience) {
			continue
		}
		c, a := f.Score(critic), f.Score(audience)
		rows = append(rows, ComparisonRow{Film: f, Critic: c, Audience: a, Difference: c - a})
	}
	valid := len(rows)

	switch mode {
	case viewstate.SortCriticHigher:
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].Difference > rows[j].Difference })
		rows = keepRows(rows, func(r ComparisonRow) bool { return r.Difference > 0 })
	case viewstate.SortAudienceHigher:
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].Difference < rows[j].Difference })
		rows = keepRows(rows, func(r ComparisonRow) bool { return r.Difference < 0 })
	case viewstate.SortYearAsc:
		sort.SliceStable(rows, func(i, j int) bool { return films.YearBefore(rows[i].Film, rows[j].Film, false) })
	case viewstate.SortYearDesc:
		sort.SliceStable(rows, func(i, j int) bool { return films.YearBefore(rows[i].Film, rows[j].Film, true) })
	default:
		sort.SliceStable(rows, func(i, j int) bool {
			return math.Abs(rows[i].Difference) > math.Abs(rows[j].Difference)
		})
	}

	rows = rows[:limit.Apply(len(rows))]
	return ComparisonResult{Rows: rows, ValidCount: valid}
}

func keepRows(rows []ComparisonRow, keep func(ComparisonRow) bool) []ComparisonRow {
	out := rows[:0]
	for _, r := range rows {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

// ComparisonHeight is the SVG height for n displayed rows.
func ComparisonHeight(n int) int {
	return n*(barHeight+barGap) + cmpMarginTop + cmpMarginBottom
}

// HalfDomain is the symmetric x extent: the largest displayed |difference|,
// never below 20 points.
func HalfDomain(rows []ComparisonRow) float64 {
	m := minHalfDomain
	for _, r := range rows {
		m = math.Max(m, math.Abs(r.Difference))
	}
	return m
}

// RenderComparison draws a divergent bar chart of critic minus audience
// scores with its title, legend and count header.
func RenderComparison(records []films.FilmRecord, title string, critic, audience films.ScoreKey, mode viewstate.SortMode, limit viewstate.Limit) *dom.Node {
	res := PrepareComparison(records, critic, audience, mode, limit)
	return renderComparisonResult(res, title, critic, audience)
}

func renderComparisonResult(res ComparisonResult, title string, critic, audience films.ScoreKey) *dom.Node {
	box := dom.El("div").Class("comparison-chart").
		Attr("data-critic", string(critic)).Attr("data-audience", string(audience))
	box.Append(
		dom.El("div").Class("bar-chart-title").SetText(title),
		dom.El("div").Class("comparison-legend").Append(
			legendBox(CriticColor, "Critics Rate Higher"),
			legendBox(AudienceColor, "Audience Rates Higher"),
		),
		dom.El("div").Class("count-info").
			SetText(fmt.Sprintf("Showing %d of %d films", len(res.Rows), res.ValidCount)),
	)

	height := ComparisonHeight(len(res.Rows))
	bottom := float64(height - cmpMarginBottom)
	half := HalfDomain(res.Rows)
	x := scale.NewLinear(-half, half, cmpMarginLeft, ComparisonWidth-cmpMarginRight)
	y := scale.NewBand(len(res.Rows), cmpMarginTop, bottom, barPadding)
	ticks := x.Ticks(10)
	zero := x.Map(0)
	bw := y.Bandwidth()

	svg := dom.El("svg").
		Attr("width", ComparisonWidth).Attr("height", height).
		Attr("viewBox", fmt.Sprintf("0 0 %d %d", ComparisonWidth, height)).
		Attr("style", "max-width: 100%; height: auto;")
	svg.Append(
		dom.El("rect").Attr("width", ComparisonWidth).Attr("height", height).Attr("fill", "white"),
		verticalGrid(x, ticks, cmpMarginTop, bottom),
		dom.El("line").Class("zero-line").
			Attr("x1", zero).Attr("x2", zero).
			Attr("y1", cmpMarginTop-10).Attr("y2", bottom).
			Attr("stroke", "#555"),
		axisBottom("x-axis", x, ticks, bottom, formatSigned),
		dom.El("text").
			Attr("x", ComparisonWidth/2).Attr("y", height-5).
			Attr("text-anchor", "middle").Attr("font-size", "12px").
			SetText("Score Difference (Critic - Audience)"),
	)

	labels := dom.El("g").Class("film-labels").
		Attr("transform", translate(cmpMarginLeft, 0)).
		Attr("font-size", 10).Attr("text-anchor", "end")
	bars := dom.El("g").Class("bars")
	scores := dom.El("g").Class("score-labels")
	for i, r := range res.Rows {
		top := y.Pos(i)
		mid := top + bw/2
		d := r.Difference
		id := int(r.Film.ID)

		text := dom.El("text").Class("film-label").Attr("data-film", id).Attr("y", mid)
		for j, line := range WrapWords(r.Film.Film, filmLabelMaxRune) {
			text.Append(dom.El("tspan").
				Attr("x", -5).Attr("y", mid).
				Attr("dy", dom.Num(float64(j)*1.1+0.32)+"em").
				SetText(line))
		}
		labels.Append(text)

		barX, fill := zero, CriticColor
		if d < 0 {
			barX, fill = x.Map(d), AudienceColor
		}
		opacity := 0.7
		if r.Film.IsHorror() {
			opacity = 1
		}
		bars.Append(dom.El("rect").Class("film-bar").
			Attr("data-film", id).
			Attr("x", barX).Attr("y", top).
			Attr("width", math.Abs(x.Map(d)-zero)).Attr("height", bw).
			Attr("fill", fill).Attr("fill-opacity", opacity).
			Attr("rx", 2).Attr("ry", 2))

		cx, canchor := zero-5, "end"
		if d > 0 {
			cx, canchor = x.Map(d)+5, "start"
		}
		ax, aanchor := zero+5, "start"
		if d < 0 {
			ax, aanchor = x.Map(d)-5, "end"
		}
		scores.Append(
			dom.El("text").Class("score-label", "critic-score").
				Attr("x", cx).Attr("y", mid-5).Attr("text-anchor", canchor).
				Attr("fill", CriticColor).Attr("dy", "0.35em").
				SetText(fmt.Sprintf("Critic: %d", Round(r.Critic))),
			dom.El("text").Class("score-label", "audience-score").
				Attr("x", ax).Attr("y", mid+5).Attr("text-anchor", aanchor).
				Attr("fill", AudienceColor).Attr("dy", "0.35em").
				SetText(fmt.Sprintf("Audience: %d", Round(r.Audience))),
			dom.El("text").Class("score-label", "info-label").
				Attr("x", ComparisonWidth-cmpMarginRight+10).Attr("y", mid).
				Attr("text-anchor", "start").Attr("fill", "#777").Attr("dy", "0.35em").
				SetText(r.Film.YearLabel()+" · "+r.Film.Genre),
		)
	}
	svg.Append(labels, bars, scores)
	return box.Append(svg)
}

func legendBox(color, label string) *dom.Node {
	return dom.El("div").Class("comparison-legend-item").Append(
		dom.El("div").Class("legend-color-box").Attr("style", "background-color: "+color+";"),
		dom.El("span").SetText(label),
	)
}

// WrapWords greedily packs words into lines of at most max runes. A single
// word longer than max gets a line of its own.
func WrapWords(s string, max int) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return []string{""}
	}
	var lines []string
	cur := words[0]
	for _, w := range words[1:] {
		if len([]rune(cur))+1+len([]rune(w)) > max {
			lines = append(lines, cur)
			cur = w
			continue
		}
		cur += " " + w
	}
	return append(lines, cur)
}
