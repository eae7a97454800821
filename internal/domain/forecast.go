package domain

import (
	"fmt"
	"slices"
	"time"
)

// ForecastRecord is one row of the long-format forecast table.
type ForecastRecord struct {
	GaugeID      string    `json:"gaugeId"`
	IssueDate    time.Time `json:"issueDate"`
	IssueTime    time.Time `json:"issueTime"`
	ForecastDate time.Time `json:"forecastDate"`
	Value        float64   `json:"value"`
}

// Provider forecast payload, as nested under "forecasts".

// GaugeForecasts holds every forecast issued for one gauge.
type GaugeForecasts struct {
	Forecasts []IssuedForecast `json:"forecasts"`
}

// IssuedForecast is a single issued forecast and its lead window.
type IssuedForecast struct {
	IssuedTime     string          `json:"issuedTime"`
	ForecastRanges []ForecastRange `json:"forecastRanges"`
}

// ForecastRange is one forecast step.
type ForecastRange struct {
	ForecastStartTime string  `json:"forecastStartTime"`
	ForecastEndTime   string  `json:"forecastEndTime"`
	Value             float64 `json:"value"`
}

// FlattenForecasts converts the nested provider payload into ForecastRecords,
// ordered by gauge id and then by provider order within a gauge.
func FlattenForecasts(forecasts map[string]GaugeForecasts) ([]ForecastRecord, error) {
	ids := make([]string, 0, len(forecasts))
	for id := range forecasts {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	var records []ForecastRecord
	for _, id := range ids {
		for _, issued := range forecasts[id].Forecasts {
			issueTime, err := time.Parse(time.RFC3339, issued.IssuedTime)
			if err != nil {
				return nil, fmt.Errorf("gauge %s: parse issued time %q: %w", id, issued.IssuedTime, err)
			}
			for _, r := range issued.ForecastRanges {
				fcDate, err := forecastDate(r.ForecastStartTime)
				if err != nil {
					return nil, fmt.Errorf("gauge %s: %w", id, err)
				}
				records = append(records, ForecastRecord{
					GaugeID:      id,
					IssueDate:    DateOf(issueTime),
					IssueTime:    issueTime,
					ForecastDate: fcDate,
					Value:        r.Value,
				})
			}
		}
	}
	return records, nil
}

// forecastDate takes the date part of a forecast start time.
func forecastDate(start string) (time.Time, error) {
	if len(start) < len(time.DateOnly) {
		return time.Time{}, fmt.Errorf("parse forecast start time %q: too short", start)
	}
	t, err := time.Parse(time.DateOnly, start[:len(time.DateOnly)])
	if err != nil {
		return time.Time{}, fmt.Errorf("parse forecast start time %q: %w", start, err)
	}
	return t, nil
}

// MaxForecastDate returns the latest forecast date in records and false when
// records is empty.
func MaxForecastDate(records []ForecastRecord) (time.Time, bool) {
	if len(records) == 0 {
		return time.Time{}, false
	}
	maxDate := records[0].ForecastDate
	for _, r := range records[1:] {
		if r.ForecastDate.After(maxDate) {
			maxDate = r.ForecastDate
		}
	}
	return maxDate, true
}

// IssueDates returns the distinct issue dates in records, sorted.
func IssueDates(records []ForecastRecord) []time.Time {
	seen := make(map[time.Time]struct{})
	var dates []time.Time
	for _, r := range records {
		d := DateOf(r.IssueDate)
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		dates = append(dates, d)
	}
	slices.SortFunc(dates, func(a, b time.Time) int { return a.Compare(b) })
	return dates
}

// ForecastGaugeIDs returns the distinct gauge ids in records, in first-seen order.
func ForecastGaugeIDs(records []ForecastRecord) []string {
	seen := make(map[string]struct{})
	var ids []string
	for _, r := range records {
		if _, ok := seen[r.GaugeID]; ok {
			continue
		}
		seen[r.GaugeID] = struct{}{}
		ids = append(ids, r.GaugeID)
	}
	return ids
}
