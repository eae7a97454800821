package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/floodhub-etl/internal/domain"
	"github.com/couchcryptid/floodhub-etl/internal/observability"
	"github.com/google/uuid"
)

// Provider fetches the three tables from the forecasting API.
type Provider interface {
	ListGauges(ctx context.Context, regionCode string) ([]domain.Gauge, error)
	GetGaugeModels(ctx context.Context, gaugeIDs []string) ([]domain.GaugeModel, error)
	QueryGaugeForecasts(ctx context.Context, gaugeIDs []string, interval domain.Interval) ([]domain.ForecastRecord, error)
}

// RegionResolver maps a country name to the provider's region code.
type RegionResolver interface {
	Lookup(country string) (string, error)
}

// Exporter persists each table as it is fetched and returns the file written.
type Exporter interface {
	WriteGauges(country string, gauges []domain.Gauge) (string, error)
	WriteGaugeModels(country string, models []domain.GaugeModel) (string, error)
	WriteForecasts(country string, interval domain.Interval, records []domain.ForecastRecord) (string, error)
}

// Publisher forwards forecast records to a downstream sink.
type Publisher interface {
	Publish(ctx context.Context, runID string, records []domain.ForecastRecord) error
}

// Result holds everything one run produced. The tables are populated whether
// or not export is enabled.
type Result struct {
	RunID       string
	Request     Request
	Gauges      []domain.Gauge
	GaugeModels []domain.GaugeModel
	Forecasts   []domain.ForecastRecord
	Files       []string
	StartedAt   time.Time
	FinishedAt  time.Time
}

// Duration is the wall time of the run.
func (r Result) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Extractor runs gauge listing, gauge model and forecast fetches in order.
type Extractor struct {
	provider  Provider
	regions   RegionResolver
	exporter  Exporter
	publisher Publisher
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// New creates an Extractor. exporter and publisher may be nil to skip
// writing files or publishing records.
func New(provider Provider, regions RegionResolver, exporter Exporter, publisher Publisher, logger *slog.Logger, metrics *observability.Metrics) *Extractor {
	return &Extractor{
		provider:  provider,
		regions:   regions,
		exporter:  exporter,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
	}
}

// Run performs one extraction. The first failing step aborts the run and its
// error is returned unchanged apart from wrapping.
func (e *Extractor) Run(ctx context.Context, req Request) (Result, error) {
	res := Result{
		RunID:     uuid.NewString(),
		Request:   req,
		StartedAt: clock.Now(),
	}
	logger := e.logger.With("run_id", res.RunID, "country", req.Country)
	logger.Info("extraction started", "interval", req.Interval.String())

	if req.Interval.PredatesHistory() {
		logger.Warn("requested issue dates predate provider history; expect missing forecasts",
			"start", domain.FormatDate(req.Interval.Start),
			"earliest", domain.FormatDate(domain.EarliestIssueDate))
	}

	regionCode, err := e.regions.Lookup(req.Country)
	if err != nil {
		return res, err
	}

	res.Gauges, err = e.provider.ListGauges(ctx, regionCode)
	if err != nil {
		return res, fmt.Errorf("list gauges: %w", err)
	}
	e.metrics.RowsExtracted.WithLabelValues(observability.TableGauges).Add(float64(len(res.Gauges)))
	if err := e.export(&res, func() (string, error) { return e.exporter.WriteGauges(req.Country, res.Gauges) }); err != nil {
		return res, err
	}

	res.GaugeModels, err = e.provider.GetGaugeModels(ctx, domain.ListedGaugeIDs(res.Gauges))
	if err != nil {
		return res, fmt.Errorf("get gauge models: %w", err)
	}
	e.metrics.RowsExtracted.WithLabelValues(observability.TableGaugeModels).Add(float64(len(res.GaugeModels)))
	if err := e.export(&res, func() (string, error) { return e.exporter.WriteGaugeModels(req.Country, res.GaugeModels) }); err != nil {
		return res, err
	}

	res.Forecasts, err = e.provider.QueryGaugeForecasts(ctx, domain.GaugeIDs(res.GaugeModels), req.Interval)
	if err != nil {
		return res, fmt.Errorf("query gauge forecasts: %w", err)
	}
	e.metrics.RowsExtracted.WithLabelValues(observability.TableForecasts).Add(float64(len(res.Forecasts)))
	if err := e.export(&res, func() (string, error) {
		return e.exporter.WriteForecasts(req.Country, req.Interval, res.Forecasts)
	}); err != nil {
		return res, err
	}

	if e.publisher != nil {
		if err := e.publisher.Publish(ctx, res.RunID, res.Forecasts); err != nil {
			return res, err
		}
	}

	res.FinishedAt = clock.Now()
	e.metrics.RunDuration.Set(res.Duration().Seconds())
	e.metrics.LastSuccess.Set(float64(res.FinishedAt.Unix()))
	logger.Info("extraction finished",
		"gauges", len(res.Gauges),
		"gauge_models", len(res.GaugeModels),
		"forecasts", len(res.Forecasts),
		"duration", res.Duration())
	return res, nil
}

func (e *Extractor) export(res *Result, write func() (string, error)) error {
	if e.exporter == nil {
		return nil
	}
	path, err := write()
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	res.Files = append(res.Files, path)
	return nil
}
