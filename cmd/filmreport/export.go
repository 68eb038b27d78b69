package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dgnsrekt/filmscope/internal/export"
	"github.com/dgnsrekt/filmscope/internal/films"
	"github.com/dgnsrekt/filmscope/internal/viewstate"
)

var exportOpts struct {
	chart   string
	format  string
	key     string
	all     bool
	focus   int
	sort    string
	limit   string
	outFile string
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Render one dashboard chart to an SVG or PNG file",
	Long: `Render one of the dashboard charts for the given view settings.

Charts: line-horror, line-nonhorror, radar, comparison-rt, comparison-metacritic.

Examples:
  filmreport export --chart line-horror --key "RT Critic Score" --out horror.svg
  filmreport export --chart radar --focus 12 --format png --out profile.png
  filmreport export --chart comparison-metacritic --sort year-desc --limit all --format png`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		kind, err := export.ParseKind(exportOpts.chart)
		if err != nil {
			return err
		}
		format, err := export.ParseFormat(exportOpts.format)
		if err != nil {
			return err
		}
		s, err := exportState()
		if err != nil {
			return err
		}

		d, err := loadDatasets(cmd.Context())
		if err != nil {
			return err
		}
		if s.View.HasFocus() {
			if _, ok := d.Lookup(s.View.FocusedFilm); !ok {
				return fmt.Errorf("film %d not found", exportOpts.focus)
			}
		}

		img, err := export.Render(kind, format, s, d)
		if err != nil {
			return err
		}
		out := exportOpts.outFile
		if out == "" {
			out = string(kind) + "." + format
		}
		if err := os.WriteFile(out, img.Data, 0o644); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%dx%d, %d bytes)\n", out, img.Width, img.Height, len(img.Data))
		return nil
	},
}

func exportState() (viewstate.State, error) {
	s := viewstate.Initial()
	if exportOpts.key != "" {
		k, err := films.ParseScoreKey(exportOpts.key)
		if err != nil {
			return s, err
		}
		s.View.ActiveScoreKey = k
	}
	s.View.ShowAllScores = exportOpts.all
	if exportOpts.focus >= 0 {
		s.View.FocusedFilm = films.FilmID(exportOpts.focus)
		s.View.ShowRadarPanel = true
	}
	mode, err := viewstate.ParseSortMode(exportOpts.sort)
	if err != nil {
		return s, err
	}
	limit, err := viewstate.ParseLimit(exportOpts.limit)
	if err != nil {
		return s, err
	}
	return s.WithComparison(viewstate.ComparisonSettings{DisplayCount: limit, SortMode: mode}), nil
}

func init() {
	f := exportCmd.Flags()
	f.StringVar(&exportOpts.chart, "chart", "", "chart to render (required)")
	f.StringVar(&exportOpts.format, "format", "svg", "svg or png")
	f.StringVar(&exportOpts.key, "key", "", "active score key for line charts")
	f.BoolVar(&exportOpts.all, "all", false, "draw every score key on line charts")
	f.IntVar(&exportOpts.focus, "focus", int(films.NoFilm), "film ID to profile on the radar chart")
	f.StringVar(&exportOpts.sort, "sort", string(viewstate.SortAbsDiff), "comparison sort mode")
	f.StringVar(&exportOpts.limit, "limit", "20", "comparison film count, or all")
	f.StringVarP(&exportOpts.outFile, "out", "o", "", "output file (default <chart>.<format>)")
	_ = exportCmd.MarkFlagRequired("chart")
}
