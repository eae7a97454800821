package csvfile

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/floodhub-etl/internal/domain"
)

// Flat-file row types. Column names follow the provider's field names so the
// files read the same as the API payloads; the forecast table keeps the
// short snake_case names its consumers already use.

type gaugeRow struct {
	GaugeID         string  `csv:"gaugeId"`
	SiteName        string  `csv:"siteName"`
	River           string  `csv:"river"`
	Source          string  `csv:"source"`
	CountryCode     string  `csv:"countryCode"`
	QualityVerified bool    `csv:"qualityVerified"`
	HasModel        bool    `csv:"hasModel"`
	Latitude        float64 `csv:"latitude"`
	Longitude       float64 `csv:"longitude"`
}

type gaugeModelRow struct {
	GaugeID            string `csv:"gaugeId"`
	GaugeModelID       string `csv:"gaugeModelId"`
	GaugeValueUnit     string `csv:"gaugeValueUnit"`
	QualityVerified    bool   `csv:"qualityVerified"`
	WarningLevel       string `csv:"warningLevel"`
	DangerLevel        string `csv:"dangerLevel"`
	ExtremeDangerLevel string `csv:"extremeDangerLevel"`
}

type forecastRow struct {
	Index        int     `csv:"index"`
	GaugeID      string  `csv:"gaugeId"`
	IssueDate    string  `csv:"issue_date"`
	IssueTime    string  `csv:"issue_time"`
	ForecastDate string  `csv:"fc_date"`
	Value        float64 `csv:"fc_value"`
}

type coordRow struct {
	GaugeID   string  `csv:"gaugeId"`
	Latitude  float64 `csv:"latitude"`
	Longitude float64 `csv:"longitude"`
}

func newGaugeRow(g domain.Gauge) *gaugeRow {
	return &gaugeRow{
		GaugeID:         g.GaugeID,
		SiteName:        g.SiteName,
		River:           g.River,
		Source:          g.Source,
		CountryCode:     g.CountryCode,
		QualityVerified: g.QualityVerified,
		HasModel:        g.HasModel,
		Latitude:        g.Latitude,
		Longitude:       g.Longitude,
	}
}

func (r *gaugeRow) toDomain() domain.Gauge {
	return domain.Gauge{
		GaugeID:         r.GaugeID,
		SiteName:        r.SiteName,
		River:           r.River,
		Source:          r.Source,
		CountryCode:     r.CountryCode,
		QualityVerified: r.QualityVerified,
		HasModel:        r.HasModel,
		Latitude:        r.Latitude,
		Longitude:       r.Longitude,
	}
}

func newGaugeModelRow(m domain.GaugeModel) *gaugeModelRow {
	return &gaugeModelRow{
		GaugeID:            m.GaugeID,
		GaugeModelID:       m.GaugeModelID,
		GaugeValueUnit:     m.GaugeValueUnit,
		QualityVerified:    m.QualityVerified,
		WarningLevel:       formatThreshold(m.WarningLevel),
		DangerLevel:        formatThreshold(m.DangerLevel),
		ExtremeDangerLevel: formatThreshold(m.ExtremeDangerLevel),
	}
}

func (r *gaugeModelRow) toDomain() (domain.GaugeModel, error) {
	m := domain.GaugeModel{
		GaugeID:         r.GaugeID,
		GaugeModelID:    r.GaugeModelID,
		GaugeValueUnit:  r.GaugeValueUnit,
		QualityVerified: r.QualityVerified,
	}
	var err error
	if m.WarningLevel, err = parseThreshold(r.WarningLevel); err != nil {
		return m, fmt.Errorf("gauge %s warningLevel: %w", r.GaugeID, err)
	}
	if m.DangerLevel, err = parseThreshold(r.DangerLevel); err != nil {
		return m, fmt.Errorf("gauge %s dangerLevel: %w", r.GaugeID, err)
	}
	if m.ExtremeDangerLevel, err = parseThreshold(r.ExtremeDangerLevel); err != nil {
		return m, fmt.Errorf("gauge %s extremeDangerLevel: %w", r.GaugeID, err)
	}
	return m, nil
}

func newForecastRow(i int, rec domain.ForecastRecord) *forecastRow {
	return &forecastRow{
		Index:        i,
		GaugeID:      rec.GaugeID,
		IssueDate:    domain.FormatDate(rec.IssueDate),
		IssueTime:    rec.IssueTime.Format(time.RFC3339Nano),
		ForecastDate: domain.FormatDate(rec.ForecastDate),
		Value:        rec.Value,
	}
}

func (r *forecastRow) toDomain() (domain.ForecastRecord, error) {
	issueDate, err := domain.ParseIssueDate(r.IssueDate)
	if err != nil {
		return domain.ForecastRecord{}, fmt.Errorf("row %d issue_date: %w", r.Index, err)
	}
	issueTime, err := parseIssueTime(r.IssueTime)
	if err != nil {
		return domain.ForecastRecord{}, fmt.Errorf("row %d issue_time: %w", r.Index, err)
	}
	fcDate, err := domain.ParseIssueDate(r.ForecastDate)
	if err != nil {
		return domain.ForecastRecord{}, fmt.Errorf("row %d fc_date: %w", r.Index, err)
	}
	return domain.ForecastRecord{
		GaugeID:      r.GaugeID,
		IssueDate:    issueDate,
		IssueTime:    issueTime,
		ForecastDate: fcDate,
		Value:        r.Value,
	}, nil
}

// formatThreshold writes nil as an empty cell.
func formatThreshold(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func parseThreshold(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// parseIssueTime keeps the time of day, unlike domain.ParseIssueDate.
func parseIssueTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{time.RFC3339, time.DateTime, time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", domain.ErrUnrecognizedDate, s)
}
