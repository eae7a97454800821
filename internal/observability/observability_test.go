package observability

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/couchcryptid/floodhub-etl/internal/config"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestNewLogger_Text(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&config.Config{LogLevel: "info", LogFormat: "text"}, &buf)

	logger.Debug("hidden")
	logger.Info("extraction started", "country", "Mali")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "level=INFO")
	assert.Contains(t, out, "country=Mali")
}

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&config.Config{LogLevel: "debug", LogFormat: "json"}, &buf)

	logger.Debug("fetched", "rows", 3)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "DEBUG", entry["level"])
	assert.Equal(t, "fetched", entry["msg"])
	assert.InDelta(t, 3, entry["rows"], 0)
}

func TestMetrics_Independent(t *testing.T) {
	a := NewMetrics()
	b := NewMetrics()

	a.RowsExtracted.WithLabelValues(TableForecasts).Add(10)
	a.APIRequests.WithLabelValues("queryGaugeForecasts", OutcomeSuccess).Inc()

	assert.InDelta(t, 10, testutil.ToFloat64(a.RowsExtracted.WithLabelValues(TableForecasts)), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(b.RowsExtracted.WithLabelValues(TableForecasts)), 0)
	assert.Equal(t, 1, testutil.CollectAndCount(a.APIRequests))
}

func TestMetrics_WriteTextfile(t *testing.T) {
	m := NewMetrics()
	m.LastSuccess.Set(1727740800)
	m.RowsExtracted.WithLabelValues(TableGauges).Add(42)

	path := filepath.Join(t.TempDir(), "textfile", "floodhub.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `floodhub_etl_rows_extracted_total{table="gauges"} 42`)
	assert.Contains(t, string(data), "floodhub_etl_last_success_timestamp_seconds 1.7277408e+09")
}
