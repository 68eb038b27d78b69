// Package report prints comparison rows for the command line as a colored
// table, CSV or JSON.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/dgnsrekt/filmscope/internal/charts"
	"github.com/dgnsrekt/filmscope/internal/films"
	"github.com/dgnsrekt/filmscope/internal/viewstate"
)

// Output formats.
const (
	TextOut = "text"
	CSVOut  = "csv"
	JSONOut = "json"
)

const maxFilmWidth = 32

var (
	criticHigher   = color.New(color.FgBlue, color.Bold)
	audienceHigher = color.New(color.FgRed, color.Bold)
	even           = color.New(color.FgHiBlack)
)

// ParseFormat validates an output format name; empty means text.
func ParseFormat(s string) (string, error) {
	switch f := strings.ToLower(strings.TrimSpace(s)); f {
	case "", TextOut:
		return TextOut, nil
	case CSVOut, JSONOut:
		return f, nil
	}
	return "", fmt.Errorf("unknown output format %q (want text, csv or json)", s)
}

// Comparison is one prepared critic/audience comparison.
type Comparison struct {
	Critic   films.ScoreKey
	Audience films.ScoreKey
	SortMode viewstate.SortMode
	Limit    viewstate.Limit
	Result   charts.ComparisonResult
}

// Row is the flat form written to CSV and JSON.
type Row struct {
	Rank       int     `json:"rank"`
	Film       string  `json:"film"`
	Year       string  `json:"year"`
	Genre      string  `json:"genre"`
	Critic     float64 `json:"critic"`
	Audience   float64 `json:"audience"`
	Difference float64 `json:"difference"`
}

// Rows flattens the comparison in display order.
func (c Comparison) Rows() []Row {
	out := make([]Row, len(c.Result.Rows))
	for i, r := range c.Result.Rows {
		out[i] = Row{
			Rank:       i + 1,
			Film:       r.Film.Film,
			Year:       r.Film.YearLabel(),
			Genre:      r.Film.Genre,
			Critic:     r.Critic,
			Audience:   r.Audience,
			Difference: r.Difference,
		}
	}
	return out
}

// Write prints c to w in the given format.
func Write(w io.Writer, c Comparison, format string) error {
	switch format {
	case JSONOut:
		return writeJSON(w, c)
	case CSVOut:
		return writeCSV(w, c)
	default:
		return writeTable(w, c)
	}
}

func writeJSON(w io.Writer, c Comparison) error {
	doc := struct {
		Critic     films.ScoreKey     `json:"critic"`
		Audience   films.ScoreKey     `json:"audience"`
		SortMode   viewstate.SortMode `json:"sort_mode"`
		Limit      viewstate.Limit    `json:"limit"`
		Shown      int                `json:"shown"`
		ValidCount int                `json:"valid_count"`
		Rows       []Row              `json:"rows"`
	}{c.Critic, c.Audience, c.SortMode, c.Limit, len(c.Result.Rows), c.Result.ValidCount, c.Rows()}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func writeCSV(w io.Writer, c Comparison) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"rank", "film", "year", "genre", "critic", "audience", "difference"}); err != nil {
		return err
	}
	for _, r := range c.Rows() {
		rec := []string{
			strconv.Itoa(r.Rank),
			r.Film,
			r.Year,
			r.Genre,
			formatScore(r.Critic),
			formatScore(r.Audience),
			formatScore(r.Difference),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeTable(w io.Writer, c Comparison) error {
	fmt.Fprintf(w, "%s vs %s · %s\n", c.Critic, c.Audience, c.SortMode.Label())

	table := tablewriter.NewWriter(w)
	table.Header([]string{"#", "Film", "Year", "Genre", "Critic", "Audience", "Difference"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, r := range c.Rows() {
		data = append(data, []string{
			strconv.Itoa(r.Rank),
			truncate(r.Film, maxFilmWidth),
			r.Year,
			r.Genre,
			formatScore(r.Critic),
			formatScore(r.Audience),
			colorDiff(r.Difference),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Showing %d of %d films\n", len(c.Result.Rows), c.Result.ValidCount)
	return err
}

func colorDiff(d float64) string {
	switch {
	case d > 0:
		return criticHigher.Sprintf("+%s ▲", formatScore(d))
	case d < 0:
		return audienceHigher.Sprintf("%s ▼", formatScore(d))
	}
	return even.Sprint(formatScore(0))
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
