package shapefile

import (
	"path/filepath"
	"testing"

	"github.com/jonas-p/go-shp"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolygonRings(t *testing.T) {
	points := []shp.Point{
		{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 0},
		{X: 5, Y: 5}, {X: 6, Y: 5}, {X: 5, Y: 5},
	}

	rings := polygonRings([]int32{0, 4}, points)
	require.Len(t, rings, 2)
	assert.Equal(t, orb.Ring{{0, 0}, {1, 0}, {1, 1}, {0, 0}}, rings[0])
	assert.Equal(t, orb.Ring{{5, 5}, {6, 5}, {5, 5}}, rings[1])
}

// writeCountries creates a two-record polygon shapefile with a SOV_A3 column.
func writeCountries(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "countries.shp")

	w, err := shp.Create(path, shp.POLYGON)
	require.NoError(t, err)
	require.NoError(t, w.SetFields([]shp.Field{shp.StringField(SovereignField, 3)}))

	mali := shp.NewPolyLine([][]shp.Point{{{X: -12, Y: 10}, {X: 4, Y: 10}, {X: 4, Y: 25}, {X: -12, Y: 10}}})
	niger := shp.NewPolyLine([][]shp.Point{{{X: 0, Y: 11}, {X: 16, Y: 11}, {X: 16, Y: 23}, {X: 0, Y: 11}}})
	for i, c := range []struct {
		code string
		line *shp.PolyLine
	}{{"MLI", mali}, {"NER", niger}} {
		poly := shp.Polygon(*c.line)
		w.Write(&poly)
		require.NoError(t, w.WriteAttribute(i, 0, c.code))
	}
	w.Close()
	return path
}

func TestCountryRings(t *testing.T) {
	path := writeCountries(t)

	rings, err := CountryRings(path, "NER")
	require.NoError(t, err)
	require.Len(t, rings, 1)
	assert.Equal(t, orb.Point{0, 11}, rings[0][0])
	assert.Len(t, rings[0], 4)
}

func TestCountryRings_NotFound(t *testing.T) {
	path := writeCountries(t)

	_, err := CountryRings(path, "ATL")
	assert.ErrorIs(t, err, ErrCountryNotFound)
}

func TestCountryRings_MissingFile(t *testing.T) {
	_, err := CountryRings(filepath.Join(t.TempDir(), "none.shp"), "MLI")
	require.Error(t, err)
}
