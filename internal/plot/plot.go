// Package plot renders forecast tables, aggregates and gauge locations with
// gonum/plot. Renderers return a *plot.Plot; Save writes it in the format
// named by the file extension.
package plot

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/couchcryptid/floodhub-etl/internal/domain"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// ErrNoData is returned when a renderer has nothing to draw.
var ErrNoData = errors.New("no data to plot")

const (
	dischargeLabel = "Discharge (m³/s)"
	dateFormat     = "2006-01-02"
)

var (
	paletteStart = color.RGBA{R: 0xDB, G: 0x0A, B: 0x13, A: 0xFF}
	paletteEnd   = color.RGBA{R: 0x09, G: 0x24, B: 0x48, A: 0xFF}
	landColor    = color.RGBA{R: 0xD3, G: 0xD3, B: 0xD3, A: 0xFF}
)

// Default output size.
var (
	Width  = 10 * vg.Inch
	Height = 6 * vg.Inch
)

// Palette returns n colours interpolated linearly from red to dark blue.
func Palette(n int) []color.Color {
	out := make([]color.Color, n)
	for i := range n {
		t := 0.0
		if n > 1 {
			t = float64(i) / float64(n-1)
		}
		out[i] = color.RGBA{
			R: lerp(paletteStart.R, paletteEnd.R, t),
			G: lerp(paletteStart.G, paletteEnd.G, t),
			B: lerp(paletteStart.B, paletteEnd.B, t),
			A: 0xFF,
		}
	}
	return out
}

func lerp(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*t + 0.5)
}

// LeadWindow lists the forecast dates of an issue date's lead window, which
// starts the day before the issue date.
func LeadWindow(issueDate time.Time, days int) []time.Time {
	start := domain.DateOf(issueDate)
	out := make([]time.Time, days)
	for i := range days {
		out[i] = domain.AddDays(start, i-1)
	}
	return out
}

// ForecastDays draws one line per issue date for days consecutive issue
// dates of a gauge. Drawing stops at the first issue date without rows.
func ForecastDays(records []domain.ForecastRecord, gauge string, issueDate time.Time, days int, country string) (*plot.Plot, error) {
	p := newTimePlot(fmt.Sprintf("%s gauge %s: forecasts issued from %s", country, gauge, domain.FormatDate(issueDate)))
	colors := Palette(days)

	var last time.Time
	drawn := 0
	for i := range days {
		day := domain.AddDays(domain.DateOf(issueDate), i)
		subset := domain.Subset(records, gauge, day)
		if len(subset) == 0 {
			break
		}
		xys := make(plotter.XYs, len(subset))
		for j, r := range subset {
			xys[j] = plotter.XY{X: unix(r.ForecastDate), Y: r.Value}
			if r.ForecastDate.After(last) {
				last = r.ForecastDate
			}
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return nil, fmt.Errorf("forecast line %s: %w", domain.FormatDate(day), err)
		}
		line.LineStyle.Color = colors[i]
		line.LineStyle.Width = vg.Points(1.5)
		p.Add(line)
		p.Legend.Add(domain.FormatDate(day), line)
		drawn++
	}
	if drawn == 0 {
		return nil, fmt.Errorf("%w: gauge %s issued %s", ErrNoData, gauge, domain.FormatDate(issueDate))
	}

	window := LeadWindow(issueDate, 1)
	p.X.Min = unix(window[0])
	p.X.Max = unix(last)
	return p, nil
}

// MinMeanMax draws the min, mean and max of each issue date's forecasts
// over delta issue dates.
func MinMeanMax(records []domain.ForecastRecord, issueTime time.Time, gauge string, delta int) (*plot.Plot, error) {
	p := newTimePlot(fmt.Sprintf("Gauge %s: daily min, mean and max from %s", gauge, domain.FormatDate(issueTime)))
	colors := Palette(3)

	for i, s := range []domain.Statistic{domain.StatMin, domain.StatMean, domain.StatMax} {
		series, err := domain.Aggregate(records, issueTime, gauge, delta, s)
		if err != nil {
			return nil, err
		}
		if len(series) == 0 {
			return nil, fmt.Errorf("%w: gauge %s", ErrNoData, gauge)
		}
		line, points, err := plotter.NewLinePoints(datedXYs(series, domain.DatedValues(series)))
		if err != nil {
			return nil, fmt.Errorf("%s line: %w", s, err)
		}
		line.LineStyle.Color = colors[i]
		points.GlyphStyle.Color = colors[i]
		p.Add(line, points)
		p.Legend.Add(string(s), line, points)
	}
	return p, nil
}

// ZNormalized draws the z-normalised statistic of each gauge over delta
// issue dates, in the order the gauges are given.
func ZNormalized(records []domain.ForecastRecord, issueTime time.Time, gauges []string, delta int, s domain.Statistic) (*plot.Plot, error) {
	if len(gauges) == 0 {
		return nil, ErrNoData
	}
	p := newTimePlot(fmt.Sprintf("Z-normalised %s from %s", s, domain.FormatDate(issueTime)))
	p.Y.Label.Text = "z-score"
	colors := Palette(len(gauges))

	drawn := 0
	for i, gauge := range gauges {
		series, err := domain.Aggregate(records, issueTime, gauge, delta, s)
		if err != nil {
			return nil, fmt.Errorf("gauge %s: %w", gauge, err)
		}
		z := domain.ZNormalize(domain.DatedValues(series))
		// Constant or single-day series have no z-score.
		if len(z) == 0 || slices.ContainsFunc(z, math.IsNaN) {
			continue
		}
		line, err := plotter.NewLine(datedXYs(series, z))
		if err != nil {
			return nil, fmt.Errorf("gauge %s line: %w", gauge, err)
		}
		line.LineStyle.Color = colors[i]
		p.Add(line)
		p.Legend.Add(gauge, line)
		drawn++
	}
	if drawn == 0 {
		return nil, fmt.Errorf("%w: no gauge has a varying %s", ErrNoData, s)
	}
	return p, nil
}

// ThresholdHistogram draws the distribution of one threshold level across
// gauge models. Models without that level are skipped.
func ThresholdHistogram(models []domain.GaugeModel, level domain.ThresholdLevel, country string, bins int) (*plot.Plot, error) {
	values := domain.ThresholdValues(models, level)
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: no %s thresholds", ErrNoData, level)
	}

	h, err := plotter.NewHist(plotter.Values(values), bins)
	if err != nil {
		return nil, fmt.Errorf("%s histogram: %w", level, err)
	}
	h.FillColor = paletteStart

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s: %s across %d gauges", country, level, len(values))
	p.X.Label.Text = dischargeLabel
	p.Y.Label.Text = "Gauges"
	p.Add(h)
	return p, nil
}

// GaugeMap draws the country outline with one point per gauge.
func GaugeMap(rings []orb.Ring, layer *geojson.FeatureCollection, country string) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s gauges (%s)", country, domain.CRS)
	p.X.Label.Text = "Longitude"
	p.Y.Label.Text = "Latitude"

	if len(rings) > 0 {
		outline := make([]plotter.XYer, len(rings))
		for i, ring := range rings {
			xys := make(plotter.XYs, len(ring))
			for j, pt := range ring {
				xys[j] = plotter.XY{X: pt.Lon(), Y: pt.Lat()}
			}
			outline[i] = xys
		}
		poly, err := plotter.NewPolygon(outline...)
		if err != nil {
			return nil, fmt.Errorf("country outline: %w", err)
		}
		poly.Color = landColor
		p.Add(poly)
	}

	var xys plotter.XYs
	for _, f := range layer.Features {
		if pt, ok := f.Geometry.(orb.Point); ok {
			xys = append(xys, plotter.XY{X: pt.Lon(), Y: pt.Lat()})
		}
	}
	if len(xys) == 0 {
		return nil, fmt.Errorf("%w: no gauge points", ErrNoData)
	}
	scatter, err := plotter.NewScatter(xys)
	if err != nil {
		return nil, fmt.Errorf("gauge points: %w", err)
	}
	scatter.GlyphStyle.Color = paletteEnd
	scatter.GlyphStyle.Radius = vg.Points(3)
	scatter.GlyphStyle.Shape = draw.CircleGlyph{}
	p.Add(scatter)
	p.Legend.Add("gauge", scatter)
	return p, nil
}

// Save writes p to path, creating parent directories. The format follows the
// extension (png, svg, pdf, ...).
func Save(p *plot.Plot, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create plot dir: %w", err)
	}
	if err := p.Save(Width, Height, path); err != nil {
		return fmt.Errorf("save plot %s: %w", path, err)
	}
	return nil
}

func newTimePlot(title string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Date"
	p.Y.Label.Text = dischargeLabel
	p.X.Tick.Marker = plot.TimeTicks{Format: dateFormat}
	p.Legend.Top = true
	p.Add(plotter.NewGrid())
	return p
}

func datedXYs(series []domain.DatedValue, ys []float64) plotter.XYs {
	xys := make(plotter.XYs, len(series))
	for i, d := range series {
		xys[i] = plotter.XY{X: unix(d.Date), Y: ys[i]}
	}
	return xys
}

func unix(t time.Time) float64 {
	return float64(t.Unix())
}
