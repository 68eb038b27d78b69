package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dgnsrekt/filmscope/internal/charts"
	"github.com/dgnsrekt/filmscope/internal/films"
	"github.com/dgnsrekt/filmscope/internal/report"
	"github.com/dgnsrekt/filmscope/internal/viewstate"
)

var compareOpts struct {
	critic   string
	audience string
	sort     string
	limit    string
	output   string
	outFile  string
}

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Print critic vs audience score differences",
	Long: `Print the films with both scores present, ordered and truncated the same
way as the dashboard comparison charts.

Examples:
  # Rotten Tomatoes, largest differences first
  filmreport compare

  # Metacritic films the audience liked more, all of them, as CSV
  filmreport compare --critic "Metacritic Critic Score" --audience "Metacritic Audience Score" \
    --sort audience-higher --limit all --output csv --out metacritic.csv`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		critic, err := films.ParseScoreKey(compareOpts.critic)
		if err != nil {
			return err
		}
		audience, err := films.ParseScoreKey(compareOpts.audience)
		if err != nil {
			return err
		}
		mode, err := viewstate.ParseSortMode(compareOpts.sort)
		if err != nil {
			return err
		}
		limit, err := viewstate.ParseLimit(compareOpts.limit)
		if err != nil {
			return err
		}
		format, err := report.ParseFormat(compareOpts.output)
		if err != nil {
			return err
		}

		d, err := loadDatasets(cmd.Context())
		if err != nil {
			return err
		}
		c := report.Comparison{
			Critic:   critic,
			Audience: audience,
			SortMode: mode,
			Limit:    limit,
			Result:   charts.PrepareComparison(d.All(), critic, audience, mode, limit),
		}

		var w io.Writer = cmd.OutOrStdout()
		if compareOpts.outFile != "" {
			f, err := os.Create(compareOpts.outFile)
			if err != nil {
				return err
			}
			defer func() { _ = f.Close() }()
			w = f
		}
		if err := report.Write(w, c, format); err != nil {
			return fmt.Errorf("write %s report: %w", format, err)
		}
		if compareOpts.outFile != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d rows to %s\n", len(c.Result.Rows), compareOpts.outFile)
		}
		return nil
	},
}

func init() {
	f := compareCmd.Flags()
	f.StringVar(&compareOpts.critic, "critic", string(charts.RottenTomatoes.Critic), "critic score key")
	f.StringVar(&compareOpts.audience, "audience", string(charts.RottenTomatoes.Audience), "audience score key")
	f.StringVar(&compareOpts.sort, "sort", string(viewstate.SortAbsDiff), "abs-diff, critic-higher, audience-higher, year-asc or year-desc")
	f.StringVar(&compareOpts.limit, "limit", "20", "number of films to show, or all")
	f.StringVarP(&compareOpts.output, "output", "o", report.TextOut, "text, csv or json")
	f.StringVar(&compareOpts.outFile, "out", "", "write to file instead of stdout")
}
