package charts

import (
	"math"
	"strings"
	"testing"

	"github.com/dgnsrekt/filmscope/internal/films"
	"github.com/dgnsrekt/filmscope/internal/viewstate"
)

var nan = math.NaN()

func film(id int, name string, year float64, genre string, scores ...float64) films.FilmRecord {
	f := films.FilmRecord{ID: films.FilmID(id), Film: name, Year: year, Genre: genre}
	for i := range f.Scores {
		f.Scores[i] = nan
	}
	copy(f.Scores[:], scores)
	return f
}

// rt builds a record with only the Rotten Tomatoes pair set.
func rt(id int, name string, year, critic, audience float64) films.FilmRecord {
	return film(id, name, year, "Drama", nan, critic, audience)
}

func TestComparisonAbsDiffTieKeepsInputOrder(t *testing.T) {
	recs := []films.FilmRecord{rt(0, "A", 2000, 90, 60), rt(1, "B", 2001, 50, 80)}
	res := PrepareComparison(recs, films.RTCriticScore, films.RTAudienceScore, viewstate.SortAbsDiff, viewstate.LimitOf(2))
	if len(res.Rows) != 2 {
		t.Fatalf("rows = %d; want 2", len(res.Rows))
	}
	if res.Rows[0].Film.Film != "A" || res.Rows[0].Difference != 30 {
		t.Fatalf("row 0 = %s %v; want A +30", res.Rows[0].Film.Film, res.Rows[0].Difference)
	}
	if res.Rows[1].Film.Film != "B" || res.Rows[1].Difference != -30 {
		t.Fatalf("row 1 = %s %v; want B -30", res.Rows[1].Film.Film, res.Rows[1].Difference)
	}
}

func TestComparisonYearDesc(t *testing.T) {
	recs := []films.FilmRecord{rt(0, "a", 1999, 70, 60), rt(1, "b", 2005, 70, 60), rt(2, "c", 2001, 70, 60)}
	res := PrepareComparison(recs, films.RTCriticScore, films.RTAudienceScore, viewstate.SortYearDesc, viewstate.LimitAll)
	var got []float64
	for _, r := range res.Rows {
		got = append(got, r.Film.Year)
	}
	want := []float64{2005, 2001, 1999}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("years = %v; want %v", got, want)
		}
	}
}

func TestComparisonMissingCriticOnlyLeavesThatChart(t *testing.T) {
	f := film(0, "Gap", 2010, "Horror", 60, nan, 70, 55, 65, 50, 60)
	rtRes := PrepareComparison([]films.FilmRecord{f}, films.RTCriticScore, films.RTAudienceScore, viewstate.SortAbsDiff, viewstate.LimitAll)
	if len(rtRes.Rows) != 0 || rtRes.ValidCount != 0 {
		t.Fatalf("RT rows = %d; want none", len(rtRes.Rows))
	}
	mcRes := PrepareComparison([]films.FilmRecord{f}, films.MetacriticCriticScore, films.MetacriticAudienceScore, viewstate.SortAbsDiff, viewstate.LimitAll)
	if len(mcRes.Rows) != 1 || mcRes.Rows[0].Difference != -10 {
		t.Fatalf("Metacritic rows = %+v; want one row with -10", mcRes.Rows)
	}
}

func TestComparisonSortModeProperties(t *testing.T) {
	recs := []films.FilmRecord{
		rt(0, "a", 2000, 90, 60),
		rt(1, "b", 1995, 40, 80),
		rt(2, "c", nan, 70, 70),
		rt(3, "d", 2010, 85, 80),
		rt(4, "e", 1980, 30, 35),
	}
	crit := PrepareComparison(recs, films.RTCriticScore, films.RTAudienceScore, viewstate.SortCriticHigher, viewstate.LimitAll)
	for _, r := range crit.Rows {
		if r.Difference <= 0 {
			t.Fatalf("critic-higher returned difference %v", r.Difference)
		}
	}
	if len(crit.Rows) != 2 || crit.Rows[0].Film.Film != "a" {
		t.Fatalf("critic-higher rows = %d, first %q", len(crit.Rows), crit.Rows[0].Film.Film)
	}
	aud := PrepareComparison(recs, films.RTCriticScore, films.RTAudienceScore, viewstate.SortAudienceHigher, viewstate.LimitAll)
	for _, r := range aud.Rows {
		if r.Difference >= 0 {
			t.Fatalf("audience-higher returned difference %v", r.Difference)
		}
	}
	if len(aud.Rows) != 2 || aud.Rows[0].Film.Film != "b" {
		t.Fatalf("audience-higher rows = %d", len(aud.Rows))
	}

	for _, mode := range []viewstate.SortMode{viewstate.SortAbsDiff, viewstate.SortYearAsc, viewstate.SortYearDesc, "unknown"} {
		res := PrepareComparison(recs, films.RTCriticScore, films.RTAudienceScore, mode, viewstate.LimitAll)
		if len(res.Rows) != len(recs) || res.ValidCount != len(recs) {
			t.Fatalf("%s returned %d rows; want a permutation of %d", mode, len(res.Rows), len(recs))
		}
		seen := map[films.FilmID]bool{}
		for _, r := range res.Rows {
			seen[r.Film.ID] = true
		}
		if len(seen) != len(recs) {
			t.Fatalf("%s dropped or duplicated rows", mode)
		}
	}

	asc := PrepareComparison(recs, films.RTCriticScore, films.RTAudienceScore, viewstate.SortYearAsc, viewstate.LimitAll)
	if last := asc.Rows[len(asc.Rows)-1].Film; last.Film != "c" {
		t.Fatalf("year-asc last = %q; want the film without a year", last.Film)
	}
}

func TestComparisonLimitTakesPrefix(t *testing.T) {
	var recs []films.FilmRecord
	for i := 0; i < 8; i++ {
		recs = append(recs, rt(i, string(rune('a'+i)), 2000, float64(50+i), 50))
	}
	full := PrepareComparison(recs, films.RTCriticScore, films.RTAudienceScore, viewstate.SortAbsDiff, viewstate.LimitAll)
	cut := PrepareComparison(recs, films.RTCriticScore, films.RTAudienceScore, viewstate.SortAbsDiff, viewstate.LimitOf(3))
	if len(cut.Rows) != 3 || cut.ValidCount != 8 {
		t.Fatalf("rows = %d valid = %d; want 3 of 8", len(cut.Rows), cut.ValidCount)
	}
	for i := range cut.Rows {
		if cut.Rows[i].Film.ID != full.Rows[i].Film.ID {
			t.Fatalf("row %d = %d; want prefix of full order", i, cut.Rows[i].Film.ID)
		}
	}
	over := PrepareComparison(recs, films.RTCriticScore, films.RTAudienceScore, viewstate.SortAbsDiff, viewstate.LimitOf(50))
	if len(over.Rows) != 8 {
		t.Fatalf("limit above count rows = %d; want 8", len(over.Rows))
	}
}

func TestRenderComparisonMarkup(t *testing.T) {
	recs := []films.FilmRecord{
		film(0, "Scream", 1996, "Horror", nan, 80, 70),
		rt(1, "Loud Drama", 2003, 40, 75),
	}
	n := RenderComparison(recs, RottenTomatoes.Title, films.RTCriticScore, films.RTAudienceScore, viewstate.SortAbsDiff, viewstate.LimitOf(20))
	if got := n.ByClass("count-info")[0].TextContent(); got != "Showing 2 of 2 films" {
		t.Fatalf("count-info = %q", got)
	}
	bars := n.ByClass("film-bar")
	if len(bars) != 2 {
		t.Fatalf("bars = %d; want 2", len(bars))
	}
	// Sorted by |d|: Loud Drama (-35) then Scream (+10).
	if fill, _ := bars[0].Get("fill"); fill != AudienceColor {
		t.Fatalf("first bar fill = %s; want audience color", fill)
	}
	if op, _ := bars[1].Get("fill-opacity"); op != "1" {
		t.Fatalf("horror bar opacity = %s; want 1", op)
	}
	if op, _ := bars[0].Get("fill-opacity"); op != "0.7" {
		t.Fatalf("non-horror bar opacity = %s; want 0.7", op)
	}
	out := n.String()
	for _, want := range []string{"Critic: 80", "Audience: 75", "1996 · Horror", "Critics Rate Higher", "Audience Rates Higher", "Score Difference (Critic - Audience)"} {
		if !strings.Contains(out, want) {
			t.Fatalf("markup missing %q", want)
		}
	}
}

func TestHalfDomainFloor(t *testing.T) {
	if got := HalfDomain(nil); got != 20 {
		t.Fatalf("HalfDomain(nil) = %v; want 20", got)
	}
	if got := HalfDomain([]ComparisonRow{{Difference: -42}, {Difference: 5}}); got != 42 {
		t.Fatalf("HalfDomain = %v; want 42", got)
	}
	if got := ComparisonHeight(3); got != 150 {
		t.Fatalf("ComparisonHeight(3) = %d; want 150", got)
	}
}

func TestWrapWords(t *testing.T) {
	got := WrapWords("The Texas Chain Saw Massacre Part Two", 15)
	want := []string{"The Texas Chain", "Saw Massacre", "Part Two"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("WrapWords() = %q; want %q", got, want)
	}
}

func TestRadarValuesAlwaysSeven(t *testing.T) {
	f := film(0, "Sparse", 2001, "Horror", 50, nan, 70)
	before := f.Scores
	vals := RadarValues(f)
	if len(vals) != films.NumScores {
		t.Fatalf("len = %d", len(vals))
	}
	want := [films.NumScores]float64{50, 0, 70, 0, 0, 0, 0}
	if vals != want {
		t.Fatalf("RadarValues() = %v; want %v", vals, want)
	}
	if !math.IsNaN(f.Scores[1]) || !math.IsNaN(before[1]) {
		t.Fatalf("RadarValues mutated the record")
	}
	if pts := RadarPoints(vals, 100); len(pts) != films.NumScores || math.Abs(pts[0].Y+50) > 1e-9 {
		t.Fatalf("RadarPoints() = %v; want axis 0 pointing up", pts)
	}
}

func TestRadarFocusOnlyWhenComplete(t *testing.T) {
	complete := film(0, "Full", 1999, "Horror", 70, 80, 60, 75, 65, 70, 55)
	partial := film(1, "Partial", 2004, "Drama", 70, nan, 60, 75, 65, 70, 55)
	recs := []films.FilmRecord{complete, partial}

	n := RenderRadar(recs, complete.ID)
	if len(n.ByClass("radar-area")) != 2 {
		t.Fatalf("background polygons = %d; want 2", len(n.ByClass("radar-area")))
	}
	if len(n.ByClass("radar-area-focus")) != 1 {
		t.Fatalf("focus polygon missing for complete film")
	}
	if !strings.Contains(n.String(), "1999 • Horror") || !strings.Contains(n.String(), "RT Critic: 80") {
		t.Fatalf("focus details missing: %s", n.String())
	}

	if n := RenderRadar(recs, partial.ID); len(n.ByClass("radar-area-focus")) != 0 {
		t.Fatalf("focus polygon drawn for incomplete film")
	}
	if n := RenderRadar(recs, films.NoFilm); len(n.ByClass("radar-area-focus")) != 0 {
		t.Fatalf("focus polygon drawn without focus")
	}
	if n := RenderRadar(nil, complete.ID); len(n.Children()) != 0 {
		t.Fatalf("empty collection rendered %d children", len(n.Children()))
	}
}

func TestLineChartSingleKey(t *testing.T) {
	recs := []films.FilmRecord{
		film(0, "C", 2010, "Horror", 40),
		film(1, "A", 1990, "Horror", 60),
		film(2, "NoYear", nan, "Horror", 99),
		film(3, "B", 2000, "Horror", 80),
		film(4, "D", 2020, "Horror", 70),
	}
	recs[3].IsPositive = true

	n := RenderLineChart(recs, "Horror Movies", films.CombinedScore, false)
	paths := n.ByClass("score-line")
	if len(paths) != 1 {
		t.Fatalf("score lines = %d; want 1", len(paths))
	}
	if w, _ := paths[0].Get("stroke-width"); w != "2.5" {
		t.Fatalf("active stroke width = %s; want 2.5", w)
	}
	points := n.ByClass("film-point")
	if len(points) != 4 {
		t.Fatalf("points = %d; want 4 (year-less film excluded)", len(points))
	}
	if fill, _ := points[1].Get("fill"); fill != PositiveColor {
		t.Fatalf("positive film fill = %s", fill)
	}
	if id, _ := points[0].Get("data-film"); id != "1" {
		t.Fatalf("first point film = %s; want 1 (earliest year)", id)
	}
	title := n.ByClass("chart-title")[0].TextContent()
	if title != "Horror Movies – Combined Score" {
		t.Fatalf("title = %q", title)
	}

	// Series 60, 80, 40, 70: B is a peak and C a valley.
	labels := n.ByClass("film-label")
	if len(labels) != 2 || labels[0].TextContent() != "B" || labels[1].TextContent() != "C" {
		t.Fatalf("labels = %d", len(labels))
	}
}

func TestLineChartGapsSplitCurve(t *testing.T) {
	recs := []films.FilmRecord{
		film(0, "a", 1990, "Drama", 50),
		film(1, "b", 1991, "Drama", 60),
		film(2, "c", 1992, "Drama", nan),
		film(3, "d", 1993, "Drama", 55),
		film(4, "e", 1994, "Drama", nan),
		film(5, "f", 1995, "Drama", 65),
		film(6, "g", 1996, "Drama", 70),
	}
	n := RenderLineChart(recs, "Non-Horror Movies", films.CombinedScore, false)
	d, _ := n.ByClass("score-line")[0].Get("d")
	if got := strings.Count(d, "M"); got != 2 {
		t.Fatalf("sub-paths = %d; want 2 (single-point run dropped): %s", got, d)
	}
}

func TestLineChartAllScoresAndEmpty(t *testing.T) {
	recs := []films.FilmRecord{
		film(0, "a", 1990, "Drama", 50, 60, 70, 55, 65, 60, 60),
		film(1, "b", 2000, "Drama", 55, 65, 75, 50, 70, nan, 62),
	}
	n := RenderLineChart(recs, "Non-Horror Movies", films.CombinedScore, true)
	if got := len(n.ByClass("score-line")); got != 6 {
		t.Fatalf("lines = %d; want 6 (Letterboxd has one point)", got)
	}
	if len(n.ByClass("film-point")) != 0 {
		t.Fatalf("points drawn in all-scores mode")
	}
	if !strings.HasSuffix(n.ByClass("chart-title")[0].TextContent(), "All Scores") {
		t.Fatalf("title does not name All Scores")
	}

	empty := RenderLineChart(nil, "Horror Movies", films.RTCriticScore, false)
	if len(empty.ByClass("x-axis")) != 1 || len(empty.ByClass("y-axis")) != 1 {
		t.Fatalf("empty chart lacks axes")
	}
	if len(empty.ByClass("score-line")) != 0 {
		t.Fatalf("empty chart drew a line")
	}
}

func TestLocalExtrema(t *testing.T) {
	got := LocalExtrema([]float64{10, 20, 15, 15, 5, 30})
	want := []Extremum{Neither, Peak, Neither, Neither, Valley, Neither}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("LocalExtrema()[%d] = %v; want %v", i, got[i], want[i])
		}
	}
	if LabelOffset(Peak) != -10 || LabelOffset(Valley) != 15 {
		t.Fatalf("LabelOffset mismatch")
	}
}

func TestTooltips(t *testing.T) {
	f := film(0, "It <Follows>", 2014, "Horror", 81.6, 95, 66)
	f.IsPositive = true
	html, err := FilmTooltip(f)
	if err != nil {
		t.Fatalf("FilmTooltip() error = %v", err)
	}
	s := string(html)
	for _, want := range []string{"It &lt;Follows&gt; (2014)", "Positive", "Combined:", "82", "RT Crit.:", "RT Aud.:"} {
		if !strings.Contains(s, want) {
			t.Fatalf("tooltip missing %q: %s", want, s)
		}
	}
	if strings.Contains(s, "Letterboxd") {
		t.Fatalf("tooltip lists a missing score")
	}

	diff, err := DifferenceTooltip(f, films.RTCriticScore, films.RTAudienceScore)
	if err != nil {
		t.Fatalf("DifferenceTooltip() error = %v", err)
	}
	if !strings.Contains(string(diff), "&#43;29 points") || !strings.Contains(string(diff), "Critics rated this higher by 29.0 points") {
		t.Fatalf("difference tooltip = %s", diff)
	}
	if _, err := DifferenceTooltip(f, films.MetacriticCriticScore, films.MetacriticAudienceScore); err == nil {
		t.Fatalf("DifferenceTooltip() with missing scores = nil error")
	}
}

func TestScoreButtonsAndOptions(t *testing.T) {
	v := viewstate.Initial().View
	btns := ScoreButtons(v)
	if len(btns) != films.NumScores+1 {
		t.Fatalf("buttons = %d", len(btns))
	}
	if !btns[0].HasClass("active") || btns[len(btns)-1].HasClass("active") {
		t.Fatalf("active button mismatch")
	}
	if btns[5].TextContent() != "Letterboxd (Adj.)" {
		t.Fatalf("label = %q", btns[5].TextContent())
	}

	opts := FilmCountOptions(viewstate.LimitOf(15))
	if len(opts) != len(FilmCountChoices)+1 {
		t.Fatalf("options = %d; want custom limit added", len(opts))
	}
	if _, ok := opts[0].Get("selected"); !ok {
		t.Fatalf("custom limit not selected")
	}
	if got := len(SortMethodOptions(viewstate.SortYearAsc)); got != len(viewstate.SortModes) {
		t.Fatalf("sort options = %d", got)
	}

	legend := Legend(false)
	for _, item := range legend {
		if item.HasClass("score-legend") {
			if style, _ := item.Get("style"); style != "display: none" {
				t.Fatalf("score legend visible outside all-scores mode")
			}
		}
	}
}
