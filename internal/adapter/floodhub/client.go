package floodhub

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/couchcryptid/floodhub-etl/internal/domain"
	"github.com/couchcryptid/floodhub-etl/internal/observability"
)

// Client fetches gauges, gauge models and forecasts from the Google Flood
// Forecasting API. Calls are sequential and never retried.
type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a Flood Forecasting API client. A zero timeout leaves
// requests bounded only by their context.
func NewClient(apiKey, baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
		metrics: metrics,
		logger:  logger,
	}
}

// ListGauges returns every gauge the API lists for a region code.
func (c *Client) ListGauges(ctx context.Context, regionCode string) ([]domain.Gauge, error) {
	body, err := json.Marshal(searchGaugesRequest{RegionCode: regionCode})
	if err != nil {
		return nil, fmt.Errorf("encode search request: %w", err)
	}

	u := c.baseURL + "/gauges:searchGaugesByArea?" + url.Values{"key": {c.apiKey}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var resp searchGaugesResponse
	raw, err := c.do(req, domain.EndpointSearchGauges, &resp)
	if err != nil {
		return nil, err
	}
	if resp.Gauges == nil {
		return nil, c.notAvailable(domain.EndpointSearchGauges, raw,
			fmt.Errorf("%w for region %q: check the country name and that the API covers it",
				domain.ErrGaugesNotAvailable, regionCode))
	}

	gauges := make([]domain.Gauge, len(resp.Gauges))
	for i, g := range resp.Gauges {
		gauges[i] = g.toDomain()
	}
	c.succeeded(domain.EndpointSearchGauges)
	c.logger.Info("gauges listed", "region_code", regionCode, "rows", len(gauges))
	return gauges, nil
}

// GetGaugeModels fetches the models of the given gauges in one batch call.
func (c *Client) GetGaugeModels(ctx context.Context, gaugeIDs []string) ([]domain.GaugeModel, error) {
	names := make([]string, len(gaugeIDs))
	for i, id := range gaugeIDs {
		names[i] = "gaugeModels/" + id
	}
	params := url.Values{
		"key":   {c.apiKey},
		"names": names,
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/gaugeModels:batchGet?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	var resp batchGetGaugeModelsResponse
	raw, err := c.do(req, domain.EndpointGaugeModels, &resp)
	if err != nil {
		return nil, err
	}
	if resp.GaugeModels == nil {
		return nil, c.notAvailable(domain.EndpointGaugeModels, raw,
			fmt.Errorf("%w for %d gauges", domain.ErrGaugeModelsNotAvailable, len(gaugeIDs)))
	}

	models := make([]domain.GaugeModel, len(resp.GaugeModels))
	for i, m := range resp.GaugeModels {
		models[i] = m.toDomain()
	}
	c.succeeded(domain.EndpointGaugeModels)
	c.logger.Info("gauge models fetched", "gauges", len(gaugeIDs), "rows", len(models))
	return models, nil
}

// QueryGaugeForecasts fetches forecasts issued within interval for the given
// gauges and flattens them into long format.
func (c *Client) QueryGaugeForecasts(ctx context.Context, gaugeIDs []string, interval domain.Interval) ([]domain.ForecastRecord, error) {
	params := url.Values{
		"key":             {c.apiKey},
		"gaugeIds":        gaugeIDs,
		"issuedTimeStart": {domain.FormatDate(interval.Start)},
		"issuedTimeEnd":   {domain.FormatDate(interval.End)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/gauges:queryGaugeForecasts?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	var resp queryGaugeForecastsResponse
	raw, err := c.do(req, domain.EndpointQueryForecasts, &resp)
	if err != nil {
		return nil, err
	}
	if resp.Forecasts == nil {
		return nil, c.notAvailable(domain.EndpointQueryForecasts, raw,
			fmt.Errorf("%w for %s: the API holds no forecasts issued before %s",
				domain.ErrForecastsNotAvailable, interval, domain.FormatDate(domain.EarliestIssueDate)))
	}

	records, err := domain.FlattenForecasts(resp.Forecasts)
	if err != nil {
		c.metrics.APIRequests.WithLabelValues(domain.EndpointQueryForecasts, observability.OutcomePayloadError).Inc()
		return nil, &domain.PayloadError{Endpoint: domain.EndpointQueryForecasts, Err: err}
	}
	c.succeeded(domain.EndpointQueryForecasts)
	c.logger.Info("forecasts fetched", "gauges", len(gaugeIDs), "interval", interval.String(), "rows", len(records))
	return records, nil
}

// do sends req, checks the status and decodes the body into out. The raw body
// is returned for logging when the payload lacks its expected key. Failed
// calls are counted here; callers count successes once the payload is checked.
func (c *Client) do(req *http.Request, endpoint string, out any) ([]byte, error) {
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.APIRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.APIRequests.WithLabelValues(endpoint, observability.OutcomeTransport).Inc()
		return nil, fmt.Errorf("%s request: %w", endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.APIRequests.WithLabelValues(endpoint, observability.OutcomeTransport).Inc()
		return nil, fmt.Errorf("%s read body: %w", endpoint, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.metrics.APIRequests.WithLabelValues(endpoint, observability.OutcomeHTTPError).Inc()
		return nil, &domain.HTTPError{Endpoint: endpoint, StatusCode: resp.StatusCode, Body: string(body)}
	}

	if err := json.Unmarshal(body, out); err != nil {
		c.metrics.APIRequests.WithLabelValues(endpoint, observability.OutcomePayloadError).Inc()
		return nil, &domain.PayloadError{Endpoint: endpoint, Err: err}
	}

	c.logger.Debug("api call complete", "endpoint", endpoint, "status", resp.StatusCode,
		"bytes", len(body), "duration", time.Since(start))
	return body, nil
}

// notAvailable logs the full payload and records the outcome.
func (c *Client) notAvailable(endpoint string, raw []byte, err error) error {
	c.metrics.APIRequests.WithLabelValues(endpoint, observability.OutcomeNotAvailable).Inc()
	c.logger.Error("expected key missing from response", "endpoint", endpoint, "error", err, "payload", string(raw))
	return err
}

func (c *Client) succeeded(endpoint string) {
	c.metrics.APIRequests.WithLabelValues(endpoint, observability.OutcomeSuccess).Inc()
}
