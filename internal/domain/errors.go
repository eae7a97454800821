package domain

import (
	"errors"
	"fmt"
)

// Endpoint names used in errors, logs and metric labels.
const (
	EndpointSearchGauges   = "searchGaugesByArea"
	EndpointGaugeModels    = "gaugeModels.batchGet"
	EndpointQueryForecasts = "queryGaugeForecasts"
)

var (
	// ErrGaugesNotAvailable is returned when the gauge listing has no "gauges"
	// key. Usually a typo in the country name, a country without a region code,
	// or a region the API does not cover.
	ErrGaugesNotAvailable = errors.New("gauges not available")

	// ErrGaugeModelsNotAvailable is returned when the batch response has no
	// "gaugeModels" key.
	ErrGaugeModelsNotAvailable = errors.New("gauge models not available")

	// ErrForecastsNotAvailable is returned when the forecast query has no
	// "forecasts" key, typically because the window predates EarliestIssueDate.
	ErrForecastsNotAvailable = errors.New("forecasts not available")

	// ErrRangeExceeded is returned by Aggregate when the requested window runs
	// past the last forecast date in the table.
	ErrRangeExceeded = errors.New("forecast range exceeded")

	ErrUnknownStatistic = errors.New("unknown statistic")
	ErrUnrecognizedDate = errors.New("unrecognized date format")
	ErrUnknownCountry   = errors.New("unknown country")
)

// HTTPError reports a non-2xx response from the provider.
type HTTPError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("floodhub API error: %s: status %d: %s", e.Endpoint, e.StatusCode, e.Body)
}

// PayloadError reports a response body that is not valid JSON for the endpoint.
type PayloadError struct {
	Endpoint string
	Err      error
}

func (e *PayloadError) Error() string {
	return fmt.Sprintf("decode %s response: %v", e.Endpoint, e.Err)
}

func (e *PayloadError) Unwrap() error {
	return e.Err
}
