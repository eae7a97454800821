package observability

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
)

// Table labels for RowsExtracted.
const (
	TableGauges      = "gauges"
	TableGaugeModels = "gauge_models"
	TableForecasts   = "forecasts"
)

// Outcome labels for APIRequests.
const (
	OutcomeSuccess      = "success"
	OutcomeHTTPError    = "http_error"
	OutcomePayloadError = "payload_error"
	OutcomeNotAvailable = "not_available"
	OutcomeTransport    = "transport_error"
)

// Metrics holds the Prometheus collectors for one extraction run. Each
// instance owns its registry, so a batch process can dump it to a textfile
// on exit and tests can build as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	APIRequests        *prometheus.CounterVec   // labels: endpoint, outcome
	APIRequestDuration *prometheus.HistogramVec // labels: endpoint
	RowsExtracted      *prometheus.CounterVec   // labels: table
	RunDuration        prometheus.Gauge
	LastSuccess        prometheus.Gauge
}

// NewMetrics creates and registers all extractor metrics on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		APIRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "floodhub_etl",
			Name:      "api_requests_total",
			Help:      "Flood Forecasting API requests by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		APIRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "floodhub_etl",
			Name:      "api_request_duration_seconds",
			Help:      "Flood Forecasting API request duration in seconds.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"endpoint"}),
		RowsExtracted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "floodhub_etl",
			Name:      "rows_extracted_total",
			Help:      "Rows extracted per table.",
		}, []string{"table"}),
		RunDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "floodhub_etl",
			Name:      "run_duration_seconds",
			Help:      "Wall time of the last extraction run.",
		}),
		LastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "floodhub_etl",
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time the last successful extraction finished.",
		}),
	}

	m.registry.MustRegister(
		m.APIRequests,
		m.APIRequestDuration,
		m.RowsExtracted,
		m.RunDuration,
		m.LastSuccess,
	)

	return m
}

// Gatherer exposes the underlying registry.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

// WriteTextfile writes all metrics in the text exposition format, for the
// node exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create metrics dir: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
