// Package cli holds helpers shared by the command-line binaries.
package cli

import (
	"errors"
	"fmt"

	"github.com/couchcryptid/floodhub-etl/internal/domain"
	"github.com/couchcryptid/floodhub-etl/internal/pipeline"
)

// Describe turns an error returned by a command into the message shown to
// the user, naming its class and the likely fix.
func Describe(err error) string {
	var (
		argErr     *pipeline.ArgError
		httpErr    *domain.HTTPError
		payloadErr *domain.PayloadError
	)
	switch {
	case errors.As(err, &argErr):
		return "Invalid argument: " + argErr.Error()
	case errors.As(err, &httpErr):
		return fmt.Sprintf("HTTP error from %s (status %d): check the API key and the request.\n%s",
			httpErr.Endpoint, httpErr.StatusCode, httpErr.Body)
	case errors.As(err, &payloadErr):
		return fmt.Sprintf("Malformed response from %s: %v", payloadErr.Endpoint, payloadErr.Err)
	case errors.Is(err, domain.ErrGaugesNotAvailable):
		return "Gauges not available: check the country name for typos, that it has a region code, and that the API covers it.\n" + err.Error()
	case errors.Is(err, domain.ErrGaugeModelsNotAvailable):
		return "Gauge models not available.\n" + err.Error()
	case errors.Is(err, domain.ErrForecastsNotAvailable):
		return fmt.Sprintf("Forecasts not available: the API holds no forecasts issued before %s.\n%s",
			domain.FormatDate(domain.EarliestIssueDate), err.Error())
	case errors.Is(err, domain.ErrUnknownCountry):
		return "Unknown country: " + err.Error()
	case errors.Is(err, domain.ErrRangeExceeded):
		return "Range exceeded: pick an earlier issue date or a smaller delta.\n" + err.Error()
	case errors.Is(err, domain.ErrUnknownStatistic):
		return "Unknown statistic: use min, max, mean, dev, var, pdev or pvar.\n" + err.Error()
	case errors.Is(err, domain.ErrUnrecognizedDate):
		return "Unrecognized date in data file: " + err.Error()
	default:
		return "Unexpected error: " + err.Error()
	}
}
