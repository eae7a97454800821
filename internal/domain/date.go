package domain

import (
	"fmt"
	"strings"
	"time"
)

// EarliestIssueDate is the first issue date the provider holds data for.
var EarliestIssueDate = time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC)

// issueDateLayouts are tried in order when reading issue dates back from files.
var issueDateLayouts = []string{
	time.DateOnly,
	time.DateTime,
	time.RFC3339,
}

// DateOf returns the calendar date of t, in t's own location, as midnight UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// AddDays shifts a date by n calendar days.
func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

// ParseIssueDate parses a date written as YYYY-MM-DD, "YYYY-MM-DD HH:MM:SS" or
// RFC3339 and returns its calendar date.
func ParseIssueDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range issueDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return DateOf(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrUnrecognizedDate, s)
}

// FormatDate renders a date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(time.DateOnly)
}

// Interval is a closed range of issue dates.
type Interval struct {
	Start time.Time
	End   time.Time
}

// Days returns the number of whole days between Start and End.
func (i Interval) Days() int {
	return int(DateOf(i.End).Sub(DateOf(i.Start)).Hours() / 24)
}

// PredatesHistory reports whether the interval starts before EarliestIssueDate.
func (i Interval) PredatesHistory() bool {
	return DateOf(i.Start).Before(EarliestIssueDate)
}

func (i Interval) String() string {
	return FormatDate(i.Start) + "_to_" + FormatDate(i.End)
}
