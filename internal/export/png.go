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
	"github.com/dgnsrekt/filmscope/internal/scale"
	"github.com/dgnsrekt/filmscope/internal/snapshot"
	"github.com/dgnsrekt/filmscope/internal/viewstate"
)

// PNG canvas sizes. Line charts are drawn at twice the page size.
const (
	linePNGWidth  = charts.LineWidth * 2
	linePNGHeight = charts.LineHeight * 2

	barWidth       = 28
	barSpacing     = 12
	barPNGHeight   = 640
	barPNGMinWidth = 640
	barLabelRunes  = 14
)

func renderPNG(kind Kind, s viewstate.State, d films.Datasets) (Image, error) {
	var (
		data []byte
		w, h int
		err  error
	)
	switch kind {
	case LineHorror, LineNonHorror:
		records, title := lineInput(kind, d)
		data, err = linePNG(records, title, s.View.ActiveScoreKey, s.View.ShowAllScores)
		w, h = linePNGWidth, linePNGHeight
	case Radar:
		data, err = radarPNG(d.All(), s.View.FocusedFilm)
		w, h = radarPNGSize, radarPNGSize
	case ComparisonRT, ComparisonMetacritic:
		p := comparisonPair(kind)
		res := charts.PrepareComparison(d.All(), p.Critic, p.Audience, s.Comparison.SortMode, s.Comparison.DisplayCount)
		data, w, err = comparisonPNG(res, p.Title)
		h = barPNGHeight
	default:
		return Image{}, fmt.Errorf("unknown chart %q", kind)
	}
	if err != nil {
		return Image{}, err
	}
	return Image{Data: data, Format: snapshot.FormatPNG, Width: w, Height: h}, nil
}

func hexColor(hex string) drawing.Color {
	return drawing.ColorFromHex(hex[1:])
}

// linePNG mirrors the page line chart: one series per contiguous run of a
// key's scores, plus rating-colored dots when a single key is shown.
func linePNG(records []films.FilmRecord, title string, activeKey films.ScoreKey, showAll bool) ([]byte, error) {
	sorted := films.Filter(films.SortByYear(records), films.FilmRecord.HasYear)
	if len(sorted) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNothingToDraw, title)
	}

	years := make([]float64, len(sorted))
	for i, f := range sorted {
		years[i] = f.Year
	}
	lo, hi, _ := scale.Extent(years)
	x := scale.NewLinear(lo, hi, 0, 1).Nice(10)
	x0, x1 := x.Domain()

	var xTicks []chart.Tick
	for _, v := range x.Ticks(linePNGWidth / 80) {
		xTicks = append(xTicks, chart.Tick{Value: v, Label: fmt.Sprintf("%d", int(v))})
	}
	var yTicks []chart.Tick
	for v := 0; v <= 100; v += 10 {
		yTicks = append(yTicks, chart.Tick{Value: float64(v), Label: fmt.Sprintf("%d", v)})
	}

	keys := []films.ScoreKey{activeKey}
	if showAll {
		keys = films.ScoreKeys[:]
	}

	var series []chart.Series
	named := 0
	for _, k := range keys {
		first := true
		for _, run := range dom.Runs(len(sorted), func(i int) bool { return sorted[i].HasScore(k) }) {
			if len(run) < 2 {
				continue
			}
			xs := make([]float64, len(run))
			ys := make([]float64, len(run))
			for j, i := range run {
				xs[j], ys[j] = sorted[i].Year, sorted[i].Score(k)
			}
			name := ""
			if first {
				name, first = string(k), false
				named++
			}
			width := 2.0
			if !showAll {
				width = 2.5
			}
			series = append(series, chart.ContinuousSeries{
				Name:    name,
				XValues: xs,
				YValues: ys,
				Style:   chart.Style{StrokeColor: hexColor(charts.ScoreColor(k)), StrokeWidth: width},
			})
		}
	}

	if !showAll {
		for _, positive := range []bool{true, false} {
			var xs, ys []float64
			for _, f := range sorted {
				if f.HasScore(activeKey) && f.IsPositive == positive {
					xs = append(xs, f.Year)
					ys = append(ys, f.Score(activeKey))
				}
			}
			if len(xs) == 0 {
				continue
			}
			// go-chart needs two x values to lay out a series.
			if len(xs) == 1 {
				xs, ys = append(xs, xs[0]), append(ys, ys[0])
			}
			col := hexColor(charts.NegativeHex)
			if positive {
				col = hexColor(charts.PositiveHex)
			}
			series = append(series, chart.ContinuousSeries{
				XValues: xs,
				YValues: ys,
				Style:   chart.Style{StrokeWidth: 0, StrokeColor: drawing.ColorTransparent, DotWidth: 5, DotColor: col},
			})
		}
	}

	if len(series) == 0 {
		series = append(series, chart.ContinuousSeries{
			XValues: []float64{x0, x1},
			YValues: []float64{0, 0},
			Style:   chart.Style{StrokeWidth: 0, StrokeColor: drawing.ColorTransparent},
		})
	}

	ch := chart.Chart{
		Title:      charts.LineTitle(title, activeKey, showAll),
		Width:      linePNGWidth,
		Height:     linePNGHeight,
		Background: chart.Style{Padding: chart.Box{Top: 50, Left: 20, Right: 20, Bottom: 20}},
		XAxis:      chart.XAxis{Name: "Year", Range: &chart.ContinuousRange{Min: x0, Max: x1}, Ticks: xTicks},
		YAxis:      chart.YAxis{Name: "Score", Range: &chart.ContinuousRange{Min: 0, Max: 100}, Ticks: yTicks},
		Series:     series,
	}
	if named > 0 {
		ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render line chart %q: %w", title, err)
	}
	return buf.Bytes(), nil
}

// comparisonPNG draws critic minus audience differences as bars around a
// zero baseline. It returns the image and its width.
func comparisonPNG(res charts.ComparisonResult, title string) ([]byte, int, error) {
	if len(res.Rows) == 0 {
		return nil, 0, fmt.Errorf("%w: %s", ErrNothingToDraw, title)
	}

	bars := make([]chart.Value, len(res.Rows))
	for i, r := range res.Rows {
		col := hexColor(charts.CriticColor)
		if r.Difference < 0 {
			col = hexColor(charts.AudienceColor)
		}
		bars[i] = chart.Value{
			Value: r.Difference,
			Label: truncate(r.Film.Film, barLabelRunes),
			Style: chart.Style{FillColor: col, StrokeColor: col, StrokeWidth: 1},
		}
	}

	width := len(bars)*(barWidth+barSpacing) + 120
	if width < barPNGMinWidth {
		width = barPNGMinWidth
	}
	half := math.Ceil(charts.HalfDomain(res.Rows))

	bc := chart.BarChart{
		Title:        fmt.Sprintf("%s (%d of %d films)", title, len(res.Rows), res.ValidCount),
		Width:        width,
		Height:       barPNGHeight,
		BarWidth:     barWidth,
		BarSpacing:   barSpacing,
		Background:   chart.Style{Padding: chart.Box{Top: 50, Left: 20, Right: 20, Bottom: 20}},
		YAxis:        chart.YAxis{Range: &chart.ContinuousRange{Min: -half, Max: half}},
		UseBaseValue: true,
		BaseValue:    0,
		Bars:         bars,
	}

	var buf bytes.Buffer
	if err := bc.Render(chart.PNG, &buf); err != nil {
		return nil, 0, fmt.Errorf("render comparison %q: %w", title, err)
	}
	return buf.Bytes(), width, nil
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
