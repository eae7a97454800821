package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/couchcryptid/floodhub-etl/internal/adapter/csvfile"
	"github.com/couchcryptid/floodhub-etl/internal/adapter/floodhub"
	"github.com/couchcryptid/floodhub-etl/internal/adapter/kafka"
	"github.com/couchcryptid/floodhub-etl/internal/config"
	"github.com/couchcryptid/floodhub-etl/internal/domain"
	"github.com/couchcryptid/floodhub-etl/internal/observability"
	"github.com/couchcryptid/floodhub-etl/internal/pipeline"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func getRootCmd() *cobra.Command {
	var req pipeline.Request

	cmd := &cobra.Command{
		Use:   "extract <Country> <DD-MM-YYYY> <DD-MM-YYYY>",
		Short: "Extract flood-gauge forecasts for one country",
		Long: `Extract lists the gauges of a country, fetches their models and thresholds,
and queries the forecasts issued between the two dates (inclusive).

Each table is written under DATA_DIR as a semicolon-separated file:
  processed/ListGauges/<country>_gauges_listed.csv
  processed/GetGaugeModel/<country>_gauge_models_metadata.csv
  floods_data/<country>/<start>_to_<end>.csv

The API holds no forecasts issued before July 2024.

Environment Variables:
  FLOODHUB_KEY_FILE      API key file (default data/keys/key.txt)
  COUNTRY_CODES_FILE     country name to region code JSON
  DATA_DIR               output root (default data)
  EXPORT_ENABLED         write flat files (default true)
  KAFKA_BROKERS          also publish forecasts to Kafka when set
  METRICS_TEXTFILE       write Prometheus metrics here after the run
  LOG_LEVEL, LOG_FORMAT  debug/info/warn/error, text/json`,
		Example:       "  extract Mali 01-10-2024 10-10-2024",
		SilenceErrors: true,
		Args: func(_ *cobra.Command, args []string) error {
			var err error
			req, err = pipeline.ParseArgs(args)
			return err
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			return runExtract(cmd.Context(), cmd, req)
		},
	}
	return cmd
}

func runExtract(ctx context.Context, cmd *cobra.Command, req pipeline.Request) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := observability.NewLogger(cfg, cmd.ErrOrStderr())
	metrics := observability.NewMetrics()

	key, err := config.LoadAPIKey(cfg.KeyFile)
	if err != nil {
		return err
	}
	codes, err := config.LoadCodeMap(cfg.CountryCodesFile)
	if err != nil {
		return err
	}

	client := floodhub.NewClient(key, cfg.BaseURL, cfg.HTTPTimeout, metrics, logger)

	var exporter pipeline.Exporter
	if cfg.ExportEnabled {
		exporter = csvfile.NewStore(cfg.DataDir, logger)
	}

	var publisher pipeline.Publisher
	if cfg.SinkEnabled() {
		writer := kafka.NewWriter(cfg, logger)
		defer func() {
			if err := writer.Close(); err != nil {
				logger.Error("kafka writer close error", "error", err)
			}
		}()
		publisher = writer
	}

	res, runErr := pipeline.New(client, codes, exporter, publisher, logger, metrics).Run(ctx, req)

	if cfg.MetricsTextfile != "" {
		if err := metrics.WriteTextfile(cfg.MetricsTextfile); err != nil {
			logger.Warn("metrics textfile not written", "error", err)
		}
	}
	if runErr != nil {
		return runErr
	}

	printSummary(cmd.OutOrStdout(), res)
	return nil
}

func printSummary(w io.Writer, res pipeline.Result) {
	fmt.Fprintf(w, "Extraction successful for %s with issue date %s and %d issue days of data\n",
		res.Request.Country, domain.FormatDate(res.Request.Interval.Start), res.Request.Interval.Days())
	fmt.Fprintf(w, "  gauges:        %s\n", humanize.Comma(int64(len(res.Gauges))))
	fmt.Fprintf(w, "  gauge models:  %s\n", humanize.Comma(int64(len(res.GaugeModels))))
	fmt.Fprintf(w, "  forecast rows: %s\n", humanize.Comma(int64(len(res.Forecasts))))
	fmt.Fprintf(w, "  issue dates:   %d\n", len(domain.IssueDates(res.Forecasts)))
	for _, f := range res.Files {
		fmt.Fprintf(w, "  wrote %s\n", f)
	}
	fmt.Fprintf(w, "  run %s took %s\n", res.RunID, res.Duration().Round(time.Millisecond))
}
