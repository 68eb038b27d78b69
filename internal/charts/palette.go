// Package charts renders the dashboard charts as SVG/HTML node trees. Every
// renderer is a pure function of its inputs and builds a fresh tree per call.
package charts

import (
	"math"

	"github.com/dgnsrekt/filmscope/internal/films"
)

// ScoreColors holds one color per score key, in ScoreKeys order.
var ScoreColors = [films.NumScores]string{
	"#4e79a7",
	"#f28e2c",
	"#e15759",
	"#76b7b2",
	"#59a14f",
	"#edc949",
	"#af7aa1",
}

// Rating colors resolve through CSS variables so the page theme controls
// them. PositiveHex and NegativeHex are their values outside the page.
const (
	PositiveColor = "var(--pos-color)"
	NegativeColor = "var(--neg-color)"
	PositiveHex   = "#2ca02c"
	NegativeHex   = "#d62728"
	CriticColor   = "#4e79a7"
	AudienceColor = "#e15759"
)

// ScoreColor returns the palette color for k, black for unknown keys.
func ScoreColor(k films.ScoreKey) string {
	if i := k.Index(); i >= 0 {
		return ScoreColors[i]
	}
	return "#000"
}

func ratingColor(positive bool) string {
	if positive {
		return PositiveColor
	}
	return NegativeColor
}

// Round rounds half up, matching how score labels have always been shown
// (-2.5 rounds to -2).
func Round(v float64) int {
	return int(math.Floor(v + 0.5))
}
