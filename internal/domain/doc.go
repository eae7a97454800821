// Package domain models flood-gauge forecast data served by the Google Flood
// Forecasting API.
//
// # Data Source
//
// Three endpoints are consumed, always in this order during an extraction run:
//
//	gauges:searchGaugesByArea   POST {"regionCode": "ML"}        -> {"gauges": [...]}
//	gaugeModels:batchGet        GET  names=gaugeModels/<id> ...  -> {"gaugeModels": [...]}
//	gauges:queryGaugeForecasts  GET  gaugeIds=<id> ...           -> {"forecasts": {<id>: ...}}
//
// Every call carries the API key as the "key" query parameter. A well-formed
// response that lacks its top-level key is reported as one of the
// Err*NotAvailable sentinels, distinct from transport (HTTPError) and decoding
// (PayloadError) failures.
//
// # Forecast Payload
//
// Forecasts are nested three levels deep:
//
//	forecasts
//	  └── <gaugeId>
//	        └── forecasts[]            issuedTime
//	              └── forecastRanges[] forecastStartTime, forecastEndTime, value
//
// [FlattenForecasts] turns this into long format: one [ForecastRecord] per
// (gauge, issue date, forecast date). Values are discharge in m³/s.
//
// Dates:
//
//	Issue date is the calendar date of issuedTime. Forecast date is the date
//	part of forecastStartTime (the first ten characters).
//	Both are stored as midnight UTC; see [DateOf].
//
// Lead window:
//
//	An issued forecast covers about 7–8 days. The provider's first forecast
//	date is one day BEFORE the issue date. This offset is kept exactly as
//	delivered because downstream consumers rely on it; it has been reported to
//	the data owner rather than corrected here.
//
// History:
//
//	The API holds no forecasts issued before [EarliestIssueDate]. Requests that
//	reach further back usually come back without a "forecasts" key.
//
// # Thresholds
//
// Gauge models carry optional warning, danger and extreme-danger levels. A level
// the provider omits is nil, never zero: plots and statistics treat a missing
// threshold as absent, not as a boundary at 0 m³/s.
package domain
