package charts

import (
	"bytes"
	"fmt"
	"html/template"
	"math"

	"github.com/dgnsrekt/filmscope/internal/films"
)

type tooltipRow struct {
	Label string
	Value string
	Style template.CSS
}

type tooltipData struct {
	Heading string
	Rows    []tooltipRow
	Note    string
}

var tooltipTmpl = template.Must(template.New("tooltip").Parse(
	`<h3>{{.Heading}}</h3>` +
		`{{range .Rows}}<div class="tooltip-row"><span class="tooltip-label">{{.Label}}:</span>` +
		`<span{{if .Style}} style="{{.Style}}"{{end}}>{{.Value}}</span></div>{{end}}` +
		`{{with .Note}}<div class="tooltip-row tooltip-note">{{.}}</div>{{end}}`))

func renderTooltip(d tooltipData) (template.HTML, error) {
	var buf bytes.Buffer
	if err := tooltipTmpl.Execute(&buf, d); err != nil {
		return "", fmt.Errorf("render tooltip: %w", err)
	}
	return template.HTML(buf.String()), nil
}

// FilmTooltip describes one film: genre, rating and every present score.
func FilmTooltip(f films.FilmRecord) (template.HTML, error) {
	rating, color := "Negative", NegativeColor
	if f.IsPositive {
		rating, color = "Positive", PositiveColor
	}
	d := tooltipData{
		Heading: fmt.Sprintf("%s (%s)", f.Film, f.YearLabel()),
		Rows: []tooltipRow{
			{Label: "Genre", Value: f.Genre},
			{Label: "Rating", Value: rating, Style: template.CSS("color: " + color)},
		},
	}
	for _, k := range films.ScoreKeys {
		if f.HasScore(k) {
			d.Rows = append(d.Rows, tooltipRow{Label: k.ShortLabel(), Value: fmt.Sprint(Round(f.Score(k)))})
		}
	}
	return renderTooltip(d)
}

// DifferenceTooltip describes a film's critic/audience gap. Both scores must
// be present.
func DifferenceTooltip(f films.FilmRecord, critic, audience films.ScoreKey) (template.HTML, error) {
	if !f.HasScore(critic) || !f.HasScore(audience) {
		return "", fmt.Errorf("film %q lacks %s or %s", f.Film, critic, audience)
	}
	c, a := f.Score(critic), f.Score(audience)
	diff := c - a

	sign, diffColor, who := "", AudienceColor, "Audiences rated this higher"
	if diff > 0 {
		sign, diffColor, who = "+", CriticColor, "Critics rated this higher"
	}
	d := tooltipData{
		Heading: fmt.Sprintf("%s (%s)", f.Film, f.YearLabel()),
		Rows: []tooltipRow{
			{Label: "Genre", Value: f.Genre},
			{Label: "Critic Score", Value: fmt.Sprint(Round(c)), Style: template.CSS("color: " + CriticColor + "; font-weight: bold")},
			{Label: "Audience Score", Value: fmt.Sprint(Round(a)), Style: template.CSS("color: " + AudienceColor + "; font-weight: bold")},
			{Label: "Difference", Value: fmt.Sprintf("%s%d points", sign, Round(diff)), Style: template.CSS("font-weight: bold; color: " + diffColor)},
		},
		Note: fmt.Sprintf("%s by %.1f points", who, math.Abs(diff)),
	}
	return renderTooltip(d)
}
