package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIssueDate(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2024-10-01", day(2024, 10, 1)},
		{"2024-10-01 06:00:00", day(2024, 10, 1)},
		{"2024-10-01T23:59:59Z", day(2024, 10, 1)},
		{"2024-10-01T01:00:00+02:00", day(2024, 10, 1)},
		{" 2024-10-01 ", day(2024, 10, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseIssueDate(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseIssueDate_Unrecognized(t *testing.T) {
	for _, in := range []string{"", "01-10-2024", "2024/10/01", "October 1st"} {
		_, err := ParseIssueDate(in)
		assert.ErrorIs(t, err, ErrUnrecognizedDate, in)
	}
}

func TestDateOf_KeepsLocalCalendarDay(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*3600)
	got := DateOf(time.Date(2024, 10, 1, 1, 0, 0, 0, loc))
	assert.Equal(t, day(2024, 10, 1), got)
}

func TestInterval(t *testing.T) {
	i := Interval{Start: day(2024, 10, 1), End: day(2024, 10, 10)}
	assert.Equal(t, 9, i.Days())
	assert.Equal(t, "2024-10-01_to_2024-10-10", i.String())
	assert.False(t, i.PredatesHistory())

	old := Interval{Start: day(2024, 6, 30), End: day(2024, 7, 2)}
	assert.True(t, old.PredatesHistory())
}
