// Package export turns dashboard charts into standalone image files. SVG
// exports reuse the page renderers; PNG exports are drawn with go-chart.
package export

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dgnsrekt/filmscope/internal/charts"
	"github.com/dgnsrekt/filmscope/internal/dashboard"
	"github.com/dgnsrekt/filmscope/internal/films"
	"github.com/dgnsrekt/filmscope/internal/snapshot"
	"github.com/dgnsrekt/filmscope/internal/viewstate"
)

// Kind names an exportable chart.
type Kind string

const (
	LineHorror           Kind = "line-horror"
	LineNonHorror        Kind = "line-nonhorror"
	Radar                Kind = "radar"
	ComparisonRT         Kind = "comparison-rt"
	ComparisonMetacritic Kind = "comparison-metacritic"
)

// Kinds lists every exportable chart.
var Kinds = []Kind{LineHorror, LineNonHorror, Radar, ComparisonRT, ComparisonMetacritic}

// ErrNothingToDraw is returned for a PNG export of a chart with no data.
var ErrNothingToDraw = errors.New("export: chart has no data to draw")

// ParseKind validates a chart kind.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	names := make([]string, len(Kinds))
	for i, k := range Kinds {
		names[i] = string(k)
	}
	return "", fmt.Errorf("unknown chart %q (want one of %s)", s, strings.Join(names, ", "))
}

// ParseFormat validates an image format; empty means svg.
func ParseFormat(s string) (string, error) {
	switch strings.ToLower(s) {
	case "", snapshot.FormatSVG:
		return snapshot.FormatSVG, nil
	case snapshot.FormatPNG:
		return snapshot.FormatPNG, nil
	}
	return "", fmt.Errorf("unknown format %q (want svg or png)", s)
}

// Image is one rendered export.
type Image struct {
	Data   []byte
	Format string
	Width  int
	Height int
}

// Render draws kind in format for the given state and data.
func Render(kind Kind, format string, s viewstate.State, d films.Datasets) (Image, error) {
	switch format {
	case snapshot.FormatSVG:
		return renderSVG(kind, s, d)
	case snapshot.FormatPNG:
		return renderPNG(kind, s, d)
	}
	return Image{}, fmt.Errorf("unknown format %q", format)
}

func lineInput(kind Kind, d films.Datasets) ([]films.FilmRecord, string) {
	if kind == LineNonHorror {
		return d.NonHorror, dashboard.NonHorrorTitle
	}
	return d.Horror, dashboard.HorrorTitle
}

func comparisonPair(kind Kind) charts.ComparisonPair {
	if kind == ComparisonMetacritic {
		return charts.Metacritic
	}
	return charts.RottenTomatoes
}
