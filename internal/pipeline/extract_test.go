package pipeline_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/couchcryptid/floodhub-etl/internal/config"
	"github.com/couchcryptid/floodhub-etl/internal/domain"
	"github.com/couchcryptid/floodhub-etl/internal/observability"
	"github.com/couchcryptid/floodhub-etl/internal/pipeline"
	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockProvider struct {
	gauges    []domain.Gauge
	models    []domain.GaugeModel
	forecasts []domain.ForecastRecord
	err       map[string]error

	calls       []string
	regionCode  string
	modelIDs    []string
	forecastIDs []string
	interval    domain.Interval
}

func (m *mockProvider) ListGauges(_ context.Context, regionCode string) ([]domain.Gauge, error) {
	m.calls = append(m.calls, domain.EndpointSearchGauges)
	m.regionCode = regionCode
	return m.gauges, m.err[domain.EndpointSearchGauges]
}

func (m *mockProvider) GetGaugeModels(_ context.Context, ids []string) ([]domain.GaugeModel, error) {
	m.calls = append(m.calls, domain.EndpointGaugeModels)
	m.modelIDs = ids
	return m.models, m.err[domain.EndpointGaugeModels]
}

func (m *mockProvider) QueryGaugeForecasts(_ context.Context, ids []string, interval domain.Interval) ([]domain.ForecastRecord, error) {
	m.calls = append(m.calls, domain.EndpointQueryForecasts)
	m.forecastIDs = ids
	m.interval = interval
	return m.forecasts, m.err[domain.EndpointQueryForecasts]
}

type mockExporter struct {
	written []string
	err     error
}

func (m *mockExporter) WriteGauges(country string, _ []domain.Gauge) (string, error) {
	m.written = append(m.written, "gauges/"+country)
	return "gauges/" + country, m.err
}

func (m *mockExporter) WriteGaugeModels(country string, _ []domain.GaugeModel) (string, error) {
	m.written = append(m.written, "models/"+country)
	return "models/" + country, m.err
}

func (m *mockExporter) WriteForecasts(country string, interval domain.Interval, _ []domain.ForecastRecord) (string, error) {
	p := "forecasts/" + country + "/" + interval.String()
	m.written = append(m.written, p)
	return p, m.err
}

type mockPublisher struct {
	runID   string
	records []domain.ForecastRecord
	err     error
}

func (m *mockPublisher) Publish(_ context.Context, runID string, records []domain.ForecastRecord) error {
	m.runID = runID
	m.records = records
	return m.err
}

// --- fixtures ---

var (
	issue = time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC)
	codes = config.CodeMap{"Mali": "ML"}
)

func testRequest() pipeline.Request {
	return pipeline.Request{
		Country:  "Mali",
		Interval: domain.Interval{Start: issue, End: issue.AddDate(0, 0, 9)},
	}
}

func testProvider() *mockProvider {
	return &mockProvider{
		gauges: []domain.Gauge{{GaugeID: "G1"}, {GaugeID: "G2"}, {GaugeID: "G3"}},
		// G3 has no model and must not be queried for forecasts.
		models: []domain.GaugeModel{{GaugeID: "G1"}, {GaugeID: "G2"}},
		forecasts: []domain.ForecastRecord{
			{GaugeID: "G1", IssueDate: issue, ForecastDate: issue.AddDate(0, 0, -1), Value: 1},
			{GaugeID: "G2", IssueDate: issue, ForecastDate: issue.AddDate(0, 0, -1), Value: 2},
		},
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func withFakeClock(t *testing.T) *clockwork.FakeClock {
	t.Helper()
	fc := clockwork.NewFakeClockAt(time.Date(2024, 10, 12, 8, 0, 0, 0, time.UTC))
	pipeline.SetClock(fc)
	t.Cleanup(func() { pipeline.SetClock(nil) })
	return fc
}

// --- tests ---

func TestExtractor_Run_HappyPath(t *testing.T) {
	fc := withFakeClock(t)
	prov := testProvider()
	exp := &mockExporter{}
	pub := &mockPublisher{}
	metrics := observability.NewMetrics()

	p := pipeline.New(prov, codes, exp, pub, discardLogger(), metrics)
	res, err := p.Run(context.Background(), testRequest())
	require.NoError(t, err)

	assert.Equal(t, []string{domain.EndpointSearchGauges, domain.EndpointGaugeModels, domain.EndpointQueryForecasts}, prov.calls)
	assert.Equal(t, "ML", prov.regionCode)
	assert.Equal(t, []string{"G1", "G2", "G3"}, prov.modelIDs)
	assert.Equal(t, []string{"G1", "G2"}, prov.forecastIDs)
	assert.Equal(t, testRequest().Interval, prov.interval)

	if diff := cmp.Diff(prov.forecasts, res.Forecasts); diff != "" {
		t.Errorf("forecasts mismatch (-want +got):\n%s", diff)
	}
	assert.Len(t, res.Gauges, 3)
	assert.Len(t, res.GaugeModels, 2)
	assert.Equal(t, []string{"gauges/Mali", "models/Mali", "forecasts/Mali/2024-10-01_to_2024-10-10"}, res.Files)
	assert.Equal(t, exp.written, res.Files)

	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, res.RunID, pub.runID)
	assert.Len(t, pub.records, 2)

	assert.Equal(t, fc.Now(), res.StartedAt)
	assert.Equal(t, fc.Now(), res.FinishedAt)
	assert.Zero(t, res.Duration())

	assert.InDelta(t, 3, testutil.ToFloat64(metrics.RowsExtracted.WithLabelValues(observability.TableGauges)), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(metrics.RowsExtracted.WithLabelValues(observability.TableForecasts)), 0)
	assert.InDelta(t, float64(fc.Now().Unix()), testutil.ToFloat64(metrics.LastSuccess), 0)
}

func TestExtractor_Run_ExportDisabled(t *testing.T) {
	withFakeClock(t)
	prov := testProvider()

	p := pipeline.New(prov, codes, nil, nil, discardLogger(), observability.NewMetrics())
	res, err := p.Run(context.Background(), testRequest())
	require.NoError(t, err)

	assert.Empty(t, res.Files)
	assert.Len(t, res.Gauges, 3)
	assert.Len(t, res.GaugeModels, 2)
	assert.Len(t, res.Forecasts, 2)
}

func TestExtractor_Run_UnknownCountry(t *testing.T) {
	prov := testProvider()
	p := pipeline.New(prov, codes, nil, nil, discardLogger(), observability.NewMetrics())

	req := testRequest()
	req.Country = "Atlantis"
	_, err := p.Run(context.Background(), req)

	require.ErrorIs(t, err, domain.ErrUnknownCountry)
	assert.Empty(t, prov.calls)
}

func TestExtractor_Run_StopsAtFirstFailure(t *testing.T) {
	tests := []struct {
		name      string
		failAt    string
		err       error
		wantCalls int
		wantFiles int
	}{
		{"gauges missing", domain.EndpointSearchGauges, domain.ErrGaugesNotAvailable, 1, 0},
		{"models http error", domain.EndpointGaugeModels, &domain.HTTPError{Endpoint: domain.EndpointGaugeModels, StatusCode: 500}, 2, 1},
		{"forecasts missing", domain.EndpointQueryForecasts, domain.ErrForecastsNotAvailable, 3, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prov := testProvider()
			prov.err = map[string]error{tt.failAt: tt.err}
			exp := &mockExporter{}
			pub := &mockPublisher{}

			p := pipeline.New(prov, codes, exp, pub, discardLogger(), observability.NewMetrics())
			res, err := p.Run(context.Background(), testRequest())

			require.ErrorIs(t, err, tt.err)
			assert.Len(t, prov.calls, tt.wantCalls)
			assert.Len(t, res.Files, tt.wantFiles)
			assert.Empty(t, pub.runID)
		})
	}
}

func TestExtractor_Run_ExportError(t *testing.T) {
	prov := testProvider()
	exp := &mockExporter{err: errors.New("disk full")}

	p := pipeline.New(prov, codes, exp, nil, discardLogger(), observability.NewMetrics())
	_, err := p.Run(context.Background(), testRequest())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Len(t, prov.calls, 1)
}

func TestExtractor_Run_PublishError(t *testing.T) {
	pub := &mockPublisher{err: errors.New("broker down")}

	p := pipeline.New(testProvider(), codes, nil, pub, discardLogger(), observability.NewMetrics())
	_, err := p.Run(context.Background(), testRequest())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker down")
}

func TestExtractor_Run_WarnsBeforeHistory(t *testing.T) {
	withFakeClock(t)
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	req := testRequest()
	req.Interval.Start = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	p := pipeline.New(testProvider(), codes, nil, nil, logger, observability.NewMetrics())
	_, err := p.Run(context.Background(), req)
	require.NoError(t, err)

	assert.Contains(t, logs.String(), "level=WARN")
	assert.Contains(t, logs.String(), "earliest=2024-07-01")
	assert.Contains(t, logs.String(), "run_id=")
}
