package domain

import "time"

// Subset returns the rows for one gauge issued on the calendar date of
// issueDate, in table order. It never returns an error; an absent pair
// yields an empty slice.
func Subset(records []ForecastRecord, gauge string, issueDate time.Time) []ForecastRecord {
	day := DateOf(issueDate)
	var out []ForecastRecord
	for _, r := range records {
		if r.GaugeID == gauge && DateOf(r.IssueDate).Equal(day) {
			out = append(out, r)
		}
	}
	return out
}

// Values extracts the forecast values of records in order.
func Values(records []ForecastRecord) []float64 {
	vs := make([]float64, len(records))
	for i, r := range records {
		vs[i] = r.Value
	}
	return vs
}
