package floodhub

import "github.com/couchcryptid/floodhub-etl/internal/domain"

// Flood Forecasting API request and response types. Top-level collections
// are left nil when the key is absent so callers can tell "missing" from
// "empty".

type searchGaugesRequest struct {
	RegionCode string `json:"regionCode"`
}

type searchGaugesResponse struct {
	Gauges []gauge `json:"gauges"`
}

type gauge struct {
	GaugeID         string   `json:"gaugeId"`
	SiteName        string   `json:"siteName"`
	River           string   `json:"river"`
	Source          string   `json:"source"`
	CountryCode     string   `json:"countryCode"`
	QualityVerified bool     `json:"qualityVerified"`
	HasModel        bool     `json:"hasModel"`
	Location        location `json:"location"`
}

type location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (g gauge) toDomain() domain.Gauge {
	return domain.Gauge{
		GaugeID:         g.GaugeID,
		SiteName:        g.SiteName,
		River:           g.River,
		Source:          g.Source,
		CountryCode:     g.CountryCode,
		QualityVerified: g.QualityVerified,
		HasModel:        g.HasModel,
		Latitude:        g.Location.Latitude,
		Longitude:       g.Location.Longitude,
	}
}

type batchGetGaugeModelsResponse struct {
	GaugeModels []gaugeModel `json:"gaugeModels"`
}

type gaugeModel struct {
	GaugeID         string      `json:"gaugeId"`
	GaugeModelID    string      `json:"gaugeModelId"`
	GaugeValueUnit  string      `json:"gaugeValueUnit"`
	QualityVerified bool        `json:"qualityVerified"`
	Thresholds      *thresholds `json:"thresholds"`
}

type thresholds struct {
	WarningLevel       *float64 `json:"warningLevel"`
	DangerLevel        *float64 `json:"dangerLevel"`
	ExtremeDangerLevel *float64 `json:"extremeDangerLevel"`
}

func (m gaugeModel) toDomain() domain.GaugeModel {
	out := domain.GaugeModel{
		GaugeID:         m.GaugeID,
		GaugeModelID:    m.GaugeModelID,
		GaugeValueUnit:  m.GaugeValueUnit,
		QualityVerified: m.QualityVerified,
	}
	if m.Thresholds != nil {
		out.WarningLevel = m.Thresholds.WarningLevel
		out.DangerLevel = m.Thresholds.DangerLevel
		out.ExtremeDangerLevel = m.Thresholds.ExtremeDangerLevel
	}
	return out
}

type queryGaugeForecastsResponse struct {
	Forecasts map[string]domain.GaugeForecasts `json:"forecasts"`
}
