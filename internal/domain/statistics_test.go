package domain

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// leadWindow builds eight forecasts for one issue date, starting the day
// before it the way the provider does.
func leadWindow(gauge string, issue time.Time, values ...float64) []ForecastRecord {
	out := make([]ForecastRecord, len(values))
	for i, v := range values {
		out[i] = ForecastRecord{
			GaugeID:      gauge,
			IssueDate:    issue,
			IssueTime:    issue.Add(6 * time.Hour),
			ForecastDate: AddDays(issue, i-1),
			Value:        v,
		}
	}
	return out
}

func TestParseStatistic(t *testing.T) {
	tests := map[string]Statistic{
		"min": StatMin, "MAX": StatMax, " mean ": StatMean,
		"dev": StatDev, "std": StatDev, "var": StatVar,
		"pdev": StatPDev, "pvar": StatPVar,
	}
	for in, want := range tests {
		got, err := ParseStatistic(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseStatistic("median")
	assert.ErrorIs(t, err, ErrUnknownStatistic)
}

func TestStatistic_Reduce(t *testing.T) {
	xs := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	tests := []struct {
		stat Statistic
		want float64
	}{
		{StatMin, 2},
		{StatMax, 9},
		{StatMean, 5},
		{StatPVar, 4},
		{StatPDev, 2},
		{StatVar, 32.0 / 7},
		{StatDev, math.Sqrt(32.0 / 7)},
	}
	for _, tt := range tests {
		t.Run(string(tt.stat), func(t *testing.T) {
			got, err := tt.stat.Reduce(xs)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}

	_, err := Statistic("mode").Reduce(xs)
	assert.ErrorIs(t, err, ErrUnknownStatistic)
}

func TestAggregate_MeanOneDay(t *testing.T) {
	issue := day(2024, 10, 1)
	records := leadWindow("G1", issue, 1, 2, 3, 4, 5, 6, 7, 8)
	records = append(records, leadWindow("G2", issue, 100, 100, 100, 100, 100, 100, 100, 100)...)

	got, err := Aggregate(records, issue, "G1", 1, StatMean)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, issue, got[0].Date)
	assert.InDelta(t, 4.5, got[0].Value, 1e-9)
}

func TestAggregate_SeveralDaysSorted(t *testing.T) {
	d1, d2, d3 := day(2024, 10, 1), day(2024, 10, 2), day(2024, 10, 3)
	var records []ForecastRecord
	records = append(records, leadWindow("G1", d3, 30, 31, 32, 33, 34, 35, 36, 37)...)
	records = append(records, leadWindow("G1", d1, 10, 11, 12, 13, 14, 15, 16, 17)...)
	records = append(records, leadWindow("G1", d2, 20, 21, 22, 23, 24, 25, 26, 27)...)

	got, err := Aggregate(records, d1, "G1", 3, StatMax)
	require.NoError(t, err)
	assert.Equal(t, []DatedValue{{d1, 17}, {d2, 27}, {d3, 37}}, got)
}

func TestAggregate_SkipsDaysWithoutRows(t *testing.T) {
	d1, d3 := day(2024, 10, 1), day(2024, 10, 3)
	records := leadWindow("G1", d1, 1, 1, 1, 1, 1, 1, 1, 1)
	records = append(records, leadWindow("G1", d3, 2, 2, 2, 2, 2, 2, 2, 2)...)

	got, err := Aggregate(records, d1, "G1", 3, StatMin)
	require.NoError(t, err)
	assert.Equal(t, []DatedValue{{d1, 1}, {d3, 2}}, got)
}

func TestAggregate_RangeCheck(t *testing.T) {
	issue := day(2024, 10, 1)
	// Forecast dates run 2024-09-30 through 2024-10-07.
	records := leadWindow("G1", issue, 1, 2, 3, 4, 5, 6, 7, 8)

	t.Run("exact equality is allowed", func(t *testing.T) {
		_, err := Aggregate(records, issue, "G1", 2, StatMean)
		require.NoError(t, err)
	})

	t.Run("one day over fails", func(t *testing.T) {
		_, err := Aggregate(records, issue, "G1", 3, StatMean)
		assert.ErrorIs(t, err, ErrRangeExceeded)
	})

	t.Run("time of day counts", func(t *testing.T) {
		_, err := Aggregate(records, issue.Add(6*time.Hour), "G1", 2, StatMean)
		assert.ErrorIs(t, err, ErrRangeExceeded)
	})

	t.Run("empty table is out of range", func(t *testing.T) {
		_, err := Aggregate(nil, issue, "G1", 1, StatMean)
		assert.ErrorIs(t, err, ErrRangeExceeded)
	})
}

func TestAggregate_UnknownStatistic(t *testing.T) {
	issue := day(2024, 10, 1)
	_, err := Aggregate(leadWindow("G1", issue, 1, 2, 3, 4, 5, 6, 7, 8), issue, "G1", 1, "median")
	assert.ErrorIs(t, err, ErrUnknownStatistic)
}

func TestZNormalize(t *testing.T) {
	t.Run("ascending series", func(t *testing.T) {
		got := ZNormalize([]float64{1, 2, 3})
		require.Len(t, got, 3)
		assert.InDelta(t, -1, got[0], 1e-9)
		assert.InDelta(t, 0, got[1], 1e-9)
		assert.InDelta(t, 1, got[2], 1e-9)
	})

	t.Run("constant series is NaN", func(t *testing.T) {
		for _, v := range ZNormalize([]float64{5, 5, 5}) {
			assert.True(t, math.IsNaN(v))
		}
	})
}
