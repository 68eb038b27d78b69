package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dgnsrekt/filmscope/internal/config"
	"github.com/dgnsrekt/filmscope/internal/films"
)

// Linker flags.
var (
	version = "dev"
	commit  = "none"
)

var (
	horrorCSV    string
	nonHorrorCSV string
	loadTimeout  time.Duration
	verbose      bool
)

var rootCmd = &cobra.Command{
	Use:   "filmreport",
	Short: "Offline critic vs audience reports over the film datasets.",
	Long: `filmreport reads the horror and non-horror CSV datasets and prints the
critic/audience comparison or exports a dashboard chart to a file, without
starting the server.

Dataset locations default to FILMSCOPE_HORROR_CSV and FILMSCOPE_NONHORROR_CSV
(from the environment or .env) and may be file paths or http(s) URLs.`,
	Version:       fmt.Sprintf("%s (%s)", version, commit),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	},
}

func init() {
	cfg, err := config.Load()
	if err != nil {
		cfg = &config.Config{LoadTimeoutMS: 10000}
	}
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&horrorCSV, "horror", cfg.HorrorCSV, "horror dataset path or URL")
	pf.StringVar(&nonHorrorCSV, "nonhorror", cfg.NonHorrorCSV, "non-horror dataset path or URL")
	pf.DurationVar(&loadTimeout, "timeout", cfg.LoadTimeout(), "dataset load timeout")
	pf.BoolVarP(&verbose, "verbose", "v", false, "debug logging on stderr")

	rootCmd.AddCommand(compareCmd, exportCmd)
}

func loadDatasets(ctx context.Context) (films.Datasets, error) {
	ctx, cancel := context.WithTimeout(ctx, loadTimeout)
	defer cancel()
	d, err := films.Load(ctx, films.SourceFor(horrorCSV), films.SourceFor(nonHorrorCSV))
	if err != nil {
		return films.Datasets{}, fmt.Errorf("load datasets: %w", err)
	}
	slog.Debug("datasets loaded", "horror", len(d.Horror), "non_horror", len(d.NonHorror))
	return d, nil
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "filmreport:", err)
		os.Exit(1)
	}
}
