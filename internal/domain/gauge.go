package domain

// Gauge is a river-level measurement station as listed for a region.
type Gauge struct {
	GaugeID         string  `json:"gaugeId"`
	SiteName        string  `json:"siteName"`
	River           string  `json:"river"`
	Source          string  `json:"source"`
	CountryCode     string  `json:"countryCode"`
	QualityVerified bool    `json:"qualityVerified"`
	HasModel        bool    `json:"hasModel"`
	Latitude        float64 `json:"latitude"`
	Longitude       float64 `json:"longitude"`
}

// GaugeModel holds a gauge's model metadata and alert thresholds.
// Thresholds are nil when the provider does not publish them.
type GaugeModel struct {
	GaugeID            string   `json:"gaugeId"`
	GaugeModelID       string   `json:"gaugeModelId"`
	GaugeValueUnit     string   `json:"gaugeValueUnit"`
	QualityVerified    bool     `json:"qualityVerified"`
	WarningLevel       *float64 `json:"warningLevel,omitempty"`
	DangerLevel        *float64 `json:"dangerLevel,omitempty"`
	ExtremeDangerLevel *float64 `json:"extremeDangerLevel,omitempty"`
}

// ThresholdLevel names one of the three alert thresholds.
type ThresholdLevel string

const (
	WarningLevel       ThresholdLevel = "warningLevel"
	DangerLevel        ThresholdLevel = "dangerLevel"
	ExtremeDangerLevel ThresholdLevel = "extremeDangerLevel"
)

// ThresholdLevels lists the levels in increasing severity.
var ThresholdLevels = []ThresholdLevel{WarningLevel, DangerLevel, ExtremeDangerLevel}

// Threshold returns the model's value for level, or nil if absent.
func (m GaugeModel) Threshold(level ThresholdLevel) *float64 {
	switch level {
	case WarningLevel:
		return m.WarningLevel
	case DangerLevel:
		return m.DangerLevel
	case ExtremeDangerLevel:
		return m.ExtremeDangerLevel
	default:
		return nil
	}
}

// ThresholdValues collects the non-nil values of level across models.
func ThresholdValues(models []GaugeModel, level ThresholdLevel) []float64 {
	var out []float64
	for _, m := range models {
		if v := m.Threshold(level); v != nil {
			out = append(out, *v)
		}
	}
	return out
}

// GaugeIDs returns the gauge ids of models in order.
func GaugeIDs(models []GaugeModel) []string {
	ids := make([]string, len(models))
	for i, m := range models {
		ids[i] = m.GaugeID
	}
	return ids
}

// ListedGaugeIDs returns the ids of listed gauges in order.
func ListedGaugeIDs(gauges []Gauge) []string {
	ids := make([]string, len(gauges))
	for i, g := range gauges {
		ids[i] = g.GaugeID
	}
	return ids
}
