package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSubset(t *testing.T) {
	records := []ForecastRecord{
		{GaugeID: "G1", IssueDate: day(2024, 10, 1), Value: 1},
		{GaugeID: "G1", IssueDate: day(2024, 10, 2), Value: 2},
		{GaugeID: "G2", IssueDate: day(2024, 10, 1), Value: 3},
	}

	t.Run("matches gauge and date", func(t *testing.T) {
		got := Subset(records, "G1", day(2024, 10, 1))
		assert.Equal(t, []ForecastRecord{records[0]}, got)
	})

	t.Run("ignores time of day", func(t *testing.T) {
		got := Subset(records, "G1", time.Date(2024, 10, 2, 18, 30, 0, 0, time.UTC))
		assert.Equal(t, []ForecastRecord{records[1]}, got)
	})

	t.Run("absent pair is empty", func(t *testing.T) {
		assert.Empty(t, Subset(records, "G3", day(2024, 10, 1)))
		assert.Empty(t, Subset(records, "G2", day(2024, 10, 2)))
	})
}

func TestValues(t *testing.T) {
	records := []ForecastRecord{{Value: 1.5}, {Value: 2.5}}
	assert.Equal(t, []float64{1.5, 2.5}, Values(records))
}
