package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/couchcryptid/floodhub-etl/internal/adapter/shapefile"
	"github.com/couchcryptid/floodhub-etl/internal/cli"
	"github.com/couchcryptid/floodhub-etl/internal/config"
	"github.com/couchcryptid/floodhub-etl/internal/domain"
	"github.com/couchcryptid/floodhub-etl/internal/plot"
	"github.com/spf13/cobra"
	gonumplot "gonum.org/v1/plot"
)

type plotFlags struct {
	format    string
	gauge     string
	gauges    []string
	issueDate string
	days      int
	delta     int
	stat      string
	bins      int
}

func getPlotCmd(a *app) *cobra.Command {
	f := &plotFlags{}

	cmd := &cobra.Command{
		Use:   "plot",
		Short: "Render forecast, statistic, threshold and map plots",
	}
	cmd.PersistentFlags().StringVar(&f.format, "format", "png", "output format: png, svg, pdf, jpg")

	cmd.AddCommand(
		getPlotForecastCmd(a, f),
		getPlotRangeCmd(a, f),
		getPlotZNormCmd(a, f),
		getPlotThresholdsCmd(a, f),
		getPlotMapCmd(a, f),
		getPlotAllCmd(a, f),
	)
	return cmd
}

func getPlotForecastCmd(a *app, f *plotFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Plot one gauge's forecasts for consecutive issue dates",
		RunE: func(cmd *cobra.Command, _ []string) error {
			issueTime, err := parseIssueTime(f.issueDate)
			if err != nil {
				return err
			}
			records, err := a.forecasts()
			if err != nil {
				return err
			}
			return a.renderForecast(cmd, f, records, f.gauge, issueTime)
		},
	}
	addGaugeFlags(cmd, f)
	cmd.Flags().IntVar(&f.days, "days", 5, "number of consecutive issue dates")
	return cmd
}

func getPlotRangeCmd(a *app, f *plotFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "range",
		Short: "Plot one gauge's daily min, mean and max",
		RunE: func(cmd *cobra.Command, _ []string) error {
			issueTime, err := parseIssueTime(f.issueDate)
			if err != nil {
				return err
			}
			records, err := a.forecasts()
			if err != nil {
				return err
			}
			return a.renderRange(cmd, f, records, f.gauge, issueTime)
		},
	}
	addGaugeFlags(cmd, f)
	cmd.Flags().IntVar(&f.delta, "delta", 3, "number of issue dates to aggregate")
	return cmd
}

func getPlotZNormCmd(a *app, f *plotFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "znorm",
		Short: "Plot a z-normalised statistic for several gauges",
		RunE: func(cmd *cobra.Command, _ []string) error {
			stat, err := domain.ParseStatistic(f.stat)
			if err != nil {
				return err
			}
			issueTime, err := parseIssueTime(f.issueDate)
			if err != nil {
				return err
			}
			records, err := a.forecasts()
			if err != nil {
				return err
			}
			p, err := plot.ZNormalized(records, issueTime, f.gauges, f.delta, stat)
			if err != nil {
				return err
			}
			return a.save(cmd, f, p, fmt.Sprintf("znorm_%s_%s", stat, domain.FormatDate(issueTime)))
		},
	}
	cmd.Flags().StringSliceVar(&f.gauges, "gauges", nil, "gauge ids in river order, comma separated")
	cmd.Flags().StringVar(&f.issueDate, "issue-date", "", "first issue date, YYYY-MM-DD or RFC3339")
	cmd.Flags().IntVar(&f.delta, "delta", 3, "number of issue dates to aggregate")
	cmd.Flags().StringVar(&f.stat, "stat", string(domain.StatMean), "statistic to normalise")
	_ = cmd.MarkFlagRequired("gauges")
	_ = cmd.MarkFlagRequired("issue-date")
	return cmd
}

func getPlotThresholdsCmd(a *app, f *plotFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "thresholds",
		Short: "Plot histograms of warning, danger and extreme-danger levels",
		RunE: func(cmd *cobra.Command, _ []string) error {
			models, err := a.store.ReadGaugeModels(a.country)
			if err != nil {
				return err
			}
			return a.renderThresholds(cmd, f, models)
		},
	}
	cmd.Flags().IntVar(&f.bins, "bins", 20, "histogram bins")
	return cmd
}

func getPlotMapCmd(a *app, f *plotFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "map",
		Short: "Plot gauge locations over the country outline",
		RunE: func(cmd *cobra.Command, _ []string) error {
			gauges, err := a.store.ReadGauges(a.country)
			if err != nil {
				return err
			}
			return a.renderMap(cmd, f, gauges)
		},
	}
}

func getPlotAllCmd(a *app, f *plotFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "all",
		Short: "Render every plot for every gauge in the forecast table",
		RunE: func(cmd *cobra.Command, _ []string) error {
			issueTime, err := parseIssueTime(f.issueDate)
			if err != nil {
				return err
			}
			records, err := a.forecasts()
			if err != nil {
				return err
			}

			gauges := domain.ForecastGaugeIDs(records)
			bar := cli.NewBar(cmd.ErrOrStderr(), len(gauges), "plotting gauges")
			for _, gauge := range gauges {
				if err := a.renderForecast(cmd, f, records, gauge, issueTime); err != nil {
					a.logger.Warn("forecast plot skipped", "gauge", gauge, "error", err)
				}
				if err := a.renderRange(cmd, f, records, gauge, issueTime); err != nil {
					a.logger.Warn("range plot skipped", "gauge", gauge, "error", err)
				}
				_ = bar.Add(1)
			}

			if models, err := a.store.ReadGaugeModels(a.country); err != nil {
				a.logger.Warn("threshold plots skipped", "error", err)
			} else if err := a.renderThresholds(cmd, f, models); err != nil {
				return err
			}

			if listed, err := a.store.ReadGauges(a.country); err != nil {
				a.logger.Warn("map skipped", "error", err)
			} else if err := a.renderMap(cmd, f, listed); err != nil {
				a.logger.Warn("map skipped", "error", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&f.issueDate, "issue-date", "", "first issue date, YYYY-MM-DD or RFC3339")
	cmd.Flags().IntVar(&f.days, "days", 5, "issue dates per forecast plot")
	cmd.Flags().IntVar(&f.delta, "delta", 3, "issue dates per range plot")
	cmd.Flags().IntVar(&f.bins, "bins", 20, "histogram bins")
	_ = cmd.MarkFlagRequired("issue-date")
	return cmd
}

func addGaugeFlags(cmd *cobra.Command, f *plotFlags) {
	cmd.Flags().StringVar(&f.gauge, "gauge", "", "gauge id")
	cmd.Flags().StringVar(&f.issueDate, "issue-date", "", "first issue date, YYYY-MM-DD or RFC3339")
	_ = cmd.MarkFlagRequired("gauge")
	_ = cmd.MarkFlagRequired("issue-date")
}

func (a *app) renderForecast(cmd *cobra.Command, f *plotFlags, records []domain.ForecastRecord, gauge string, issueTime time.Time) error {
	p, err := plot.ForecastDays(records, gauge, issueTime, f.days, a.country)
	if err != nil {
		return err
	}
	return a.save(cmd, f, p, fmt.Sprintf("forecast_%s_%s_%dd", gauge, domain.FormatDate(issueTime), f.days))
}

func (a *app) renderRange(cmd *cobra.Command, f *plotFlags, records []domain.ForecastRecord, gauge string, issueTime time.Time) error {
	p, err := plot.MinMeanMax(records, issueTime, gauge, f.delta)
	if err != nil {
		return err
	}
	return a.save(cmd, f, p, fmt.Sprintf("range_%s_%s_%dd", gauge, domain.FormatDate(issueTime), f.delta))
}

func (a *app) renderThresholds(cmd *cobra.Command, f *plotFlags, models []domain.GaugeModel) error {
	for _, level := range domain.ThresholdLevels {
		p, err := plot.ThresholdHistogram(models, level, a.country, f.bins)
		if errors.Is(err, plot.ErrNoData) {
			a.logger.Info("no thresholds published", "level", level)
			continue
		}
		if err != nil {
			return err
		}
		if err := a.save(cmd, f, p, "thresholds_"+string(level)); err != nil {
			return err
		}
	}
	return nil
}

func (a *app) renderMap(cmd *cobra.Command, f *plotFlags, gauges []domain.Gauge) error {
	iso, err := a.isoA3()
	if err != nil {
		return err
	}
	rings, err := shapefile.CountryRings(a.cfg.ShapefilePath, iso)
	if err != nil {
		return err
	}
	p, err := plot.GaugeMap(rings, domain.PointLayer(gauges), a.country)
	if err != nil {
		return err
	}
	return a.save(cmd, f, p, "gauge_map")
}

// isoA3 resolves the country name to its ISO-A3 code through the region code.
func (a *app) isoA3() (string, error) {
	regions, err := config.LoadCodeMap(a.cfg.CountryCodesFile)
	if err != nil {
		return "", err
	}
	region, err := regions.Lookup(a.country)
	if err != nil {
		return "", err
	}
	isoCodes, err := config.LoadCodeMap(a.cfg.ISOA3File)
	if err != nil {
		return "", err
	}
	return isoCodes.Lookup(region)
}

func (a *app) save(cmd *cobra.Command, f *plotFlags, p *gonumplot.Plot, name string) error {
	path := filepath.Join(a.cfg.PlotsDir, strings.ReplaceAll(strings.ToLower(a.country), " ", "_"), name+"."+f.format)
	if err := plot.Save(p, path); err != nil {
		return err
	}
	a.logger.Debug("plot written", "path", path)
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
	return nil
}
