package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/couchcryptid/floodhub-etl/internal/adapter/csvfile"
	"github.com/couchcryptid/floodhub-etl/internal/config"
	"github.com/couchcryptid/floodhub-etl/internal/domain"
	"github.com/couchcryptid/floodhub-etl/internal/observability"
	"github.com/spf13/cobra"
)

// app carries what every subcommand needs once the root has run.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	store   *csvfile.Store
	country string
	from    string
	to      string
}

func getRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "analyze",
		Short: "Subset, summarise and plot extracted flood forecasts",
		Long: `Analyze works on the flat files written by extract. Select them with
--country and the --from/--to issue dates (YYYY-MM-DD) used for the extraction.

Statistics: min, max, mean, dev (sample standard deviation, alias std),
var (sample variance), pdev and pvar (population).

Plots are written under PLOTS_DIR/<country>/.`,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			a.cfg = cfg
			a.logger = observability.NewLogger(cfg, cmd.ErrOrStderr())
			a.store = csvfile.NewStore(cfg.DataDir, a.logger)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.country, "country", "", "country name as passed to extract (required)")
	rootCmd.PersistentFlags().StringVar(&a.from, "from", "", "first issue date of the extraction, YYYY-MM-DD")
	rootCmd.PersistentFlags().StringVar(&a.to, "to", "", "last issue date of the extraction, YYYY-MM-DD")
	_ = rootCmd.MarkPersistentFlagRequired("country")

	rootCmd.AddCommand(
		getSubsetCmd(a),
		getStatsCmd(a),
		getCoordsCmd(a),
		getPlotCmd(a),
	)
	return rootCmd
}

func (a *app) interval() (domain.Interval, error) {
	if a.from == "" || a.to == "" {
		return domain.Interval{}, errors.New("--from and --to are required to locate the forecast file")
	}
	start, err := time.Parse(time.DateOnly, a.from)
	if err != nil {
		return domain.Interval{}, fmt.Errorf("--from: %w", err)
	}
	end, err := time.Parse(time.DateOnly, a.to)
	if err != nil {
		return domain.Interval{}, fmt.Errorf("--to: %w", err)
	}
	return domain.Interval{Start: start, End: end}, nil
}

func (a *app) forecasts() ([]domain.ForecastRecord, error) {
	interval, err := a.interval()
	if err != nil {
		return nil, err
	}
	return a.store.ReadForecasts(a.country, interval)
}

// parseIssueTime accepts a date or a timestamp. The time of day is kept
// because the aggregate range check measures from it.
func parseIssueTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{time.RFC3339, time.DateTime, time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("--issue-date %q: %w", s, domain.ErrUnrecognizedDate)
}
