package domain

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Statistic is a reduction applied to the values of one issue date.
type Statistic string

const (
	StatMin  Statistic = "min"
	StatMax  Statistic = "max"
	StatMean Statistic = "mean"
	StatDev  Statistic = "dev"  // sample standard deviation
	StatVar  Statistic = "var"  // sample variance
	StatPDev Statistic = "pdev" // population standard deviation
	StatPVar Statistic = "pvar" // population variance
)

// leadMarginDays is how far past the last aggregated issue date the table
// must still hold forecasts.
const leadMarginDays = 4

// ParseStatistic maps a name to a Statistic. "std" is accepted as an alias of
// "dev".
func ParseStatistic(name string) (Statistic, error) {
	switch s := Statistic(strings.ToLower(strings.TrimSpace(name))); s {
	case StatMin, StatMax, StatMean, StatDev, StatVar, StatPDev, StatPVar:
		return s, nil
	case "std":
		return StatDev, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStatistic, name)
	}
}

// Reduce applies the statistic to xs. Sample statistics of a single value are
// NaN.
func (s Statistic) Reduce(xs []float64) (float64, error) {
	if len(xs) == 0 {
		return math.NaN(), nil
	}
	switch s {
	case StatMin:
		return floats.Min(xs), nil
	case StatMax:
		return floats.Max(xs), nil
	case StatMean:
		return stat.Mean(xs, nil), nil
	case StatDev:
		return stat.StdDev(xs, nil), nil
	case StatVar:
		return stat.Variance(xs, nil), nil
	case StatPDev:
		_, v := stat.PopMeanVariance(xs, nil)
		return math.Sqrt(v), nil
	case StatPVar:
		_, v := stat.PopMeanVariance(xs, nil)
		return v, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownStatistic, string(s))
	}
}

// DatedValue is one aggregated value keyed by issue date.
type DatedValue struct {
	Date  time.Time
	Value float64
}

// Aggregate reduces the forecasts of one gauge over delta consecutive issue
// dates starting at the date of issueTime, one value per issue date.
//
// The table must reach at least delta+4 days past issueTime, measured from
// issueTime itself rather than its date. Days with no rows produce no value.
func Aggregate(records []ForecastRecord, issueTime time.Time, gauge string, delta int, s Statistic) ([]DatedValue, error) {
	if _, err := ParseStatistic(string(s)); err != nil {
		return nil, err
	}

	maxDate, ok := MaxForecastDate(records)
	limit := AddDays(issueTime, delta+leadMarginDays)
	if !ok || limit.After(maxDate) {
		return nil, fmt.Errorf("%w: issue time %s plus %d days is past the last forecast date %s",
			ErrRangeExceeded, issueTime.Format(time.RFC3339), delta+leadMarginDays, FormatDate(maxDate))
	}

	groups := make(map[time.Time][]float64)
	start := DateOf(issueTime)
	for i := range delta {
		for _, r := range Subset(records, gauge, AddDays(start, i)) {
			d := DateOf(r.IssueDate)
			groups[d] = append(groups[d], r.Value)
		}
	}

	out := make([]DatedValue, 0, len(groups))
	for d, xs := range groups {
		v, err := s.Reduce(xs)
		if err != nil {
			return nil, err
		}
		out = append(out, DatedValue{Date: d, Value: v})
	}
	slices.SortFunc(out, func(a, b DatedValue) int { return a.Date.Compare(b.Date) })
	return out, nil
}

// ZNormalize returns (x - mean) / sd for each value, using the sample standard
// deviation. A constant series has sd 0 and yields all NaN.
func ZNormalize(xs []float64) []float64 {
	mean, sd := stat.MeanStdDev(xs, nil)
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = (x - mean) / sd
	}
	return out
}

// DatedValues extracts the values of a series in order.
func DatedValues(series []DatedValue) []float64 {
	vs := make([]float64, len(series))
	for i, d := range series {
		vs[i] = d.Value
	}
	return vs
}
