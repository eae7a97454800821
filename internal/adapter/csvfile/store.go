package csvfile

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/couchcryptid/floodhub-etl/internal/domain"
	"github.com/gocarina/gocsv"
)

// Separator is the field delimiter of every flat file.
const Separator = ';'

// Store reads and writes the extractor's flat files under a data directory.
// Files are overwritten whole; there is no locking.
type Store struct {
	dataDir string
	logger  *slog.Logger
}

// NewStore creates a Store rooted at dataDir.
func NewStore(dataDir string, logger *slog.Logger) *Store {
	return &Store{dataDir: dataDir, logger: logger}
}

// GaugesPath is where the gauge listing of a country is kept.
func (s *Store) GaugesPath(country string) string {
	return filepath.Join(s.dataDir, "processed", "ListGauges", slug(country)+"_gauges_listed.csv")
}

// GaugeModelsPath is where the gauge model metadata of a country is kept.
func (s *Store) GaugeModelsPath(country string) string {
	return filepath.Join(s.dataDir, "processed", "GetGaugeModel", slug(country)+"_gauge_models_metadata.csv")
}

// ForecastsPath is where the forecasts of a country for an issue interval are kept.
func (s *Store) ForecastsPath(country string, interval domain.Interval) string {
	return filepath.Join(s.dataDir, "floods_data", slug(country), interval.String()+".csv")
}

// GaugeCoordsPath is where the gauge coordinates of a country are kept. The
// GeoJSON layer sits next to it with a .geojson extension.
func (s *Store) GaugeCoordsPath(country string) string {
	return filepath.Join(s.dataDir, "processed", "gauge_coords", slug(country)+"_gauge_coords.csv")
}

// WriteGauges writes the gauge listing and returns its path.
func (s *Store) WriteGauges(country string, gauges []domain.Gauge) (string, error) {
	rows := make([]*gaugeRow, len(gauges))
	for i, g := range gauges {
		rows[i] = newGaugeRow(g)
	}
	path := s.GaugesPath(country)
	return path, s.write(path, rows, len(rows))
}

// WriteGaugeModels writes gauge model metadata and returns its path.
func (s *Store) WriteGaugeModels(country string, models []domain.GaugeModel) (string, error) {
	rows := make([]*gaugeModelRow, len(models))
	for i, m := range models {
		rows[i] = newGaugeModelRow(m)
	}
	path := s.GaugeModelsPath(country)
	return path, s.write(path, rows, len(rows))
}

// WriteForecasts writes the forecast table with a leading index column and
// returns its path.
func (s *Store) WriteForecasts(country string, interval domain.Interval, records []domain.ForecastRecord) (string, error) {
	rows := make([]*forecastRow, len(records))
	for i, r := range records {
		rows[i] = newForecastRow(i, r)
	}
	path := s.ForecastsPath(country, interval)
	return path, s.write(path, rows, len(rows))
}

// WriteGaugeCoords writes gauge coordinates as CSV and as a GeoJSON point
// layer, returning both paths.
func (s *Store) WriteGaugeCoords(country string, gauges []domain.Gauge) (string, string, error) {
	rows := make([]*coordRow, len(gauges))
	for i, g := range gauges {
		rows[i] = &coordRow{GaugeID: g.GaugeID, Latitude: g.Latitude, Longitude: g.Longitude}
	}
	csvPath := s.GaugeCoordsPath(country)
	if err := s.write(csvPath, rows, len(rows)); err != nil {
		return "", "", err
	}

	data, err := domain.PointLayer(gauges).MarshalJSON()
	if err != nil {
		return "", "", fmt.Errorf("encode point layer: %w", err)
	}
	geoPath := strings.TrimSuffix(csvPath, ".csv") + ".geojson"
	if err := os.WriteFile(geoPath, data, 0o644); err != nil {
		return "", "", fmt.Errorf("write %s: %w", geoPath, err)
	}
	return csvPath, geoPath, nil
}

// ReadGauges reads back a gauge listing.
func (s *Store) ReadGauges(country string) ([]domain.Gauge, error) {
	var rows []*gaugeRow
	if err := read(s.GaugesPath(country), &rows); err != nil {
		return nil, err
	}
	gauges := make([]domain.Gauge, len(rows))
	for i, r := range rows {
		gauges[i] = r.toDomain()
	}
	return gauges, nil
}

// ReadGaugeModels reads back gauge model metadata. Empty threshold cells are nil.
func (s *Store) ReadGaugeModels(country string) ([]domain.GaugeModel, error) {
	path := s.GaugeModelsPath(country)
	var rows []*gaugeModelRow
	if err := read(path, &rows); err != nil {
		return nil, err
	}
	models := make([]domain.GaugeModel, len(rows))
	for i, r := range rows {
		m, err := r.toDomain()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		models[i] = m
	}
	return models, nil
}

// ReadForecasts reads back a forecast table. Dates that match none of the
// accepted layouts fail the read with domain.ErrUnrecognizedDate.
func (s *Store) ReadForecasts(country string, interval domain.Interval) ([]domain.ForecastRecord, error) {
	path := s.ForecastsPath(country, interval)
	var rows []*forecastRow
	if err := read(path, &rows); err != nil {
		return nil, err
	}
	records := make([]domain.ForecastRecord, len(rows))
	for i, r := range rows {
		rec, err := r.toDomain()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		records[i] = rec
	}
	return records, nil
}

func (s *Store) write(path string, rows any, n int) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create dir for %s: %w", path, err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	w.Comma = Separator
	if err := gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(w)); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}

	s.logger.Info("table written", "path", path, "rows", n)
	return file.Close()
}

func read(path string, out any) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.Comma = Separator
	if err := gocsv.UnmarshalCSV(r, out); err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	return nil
}

// slug lower-cases a country name for use in file names.
func slug(country string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(country), " ", "_"))
}
