package domain

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// CRS is the coordinate reference system of every geometry built here.
const CRS = "EPSG:4326"

// PointLayer builds a GeoJSON point per gauge at [longitude, latitude].
func PointLayer(gauges []Gauge) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, g := range gauges {
		f := geojson.NewFeature(orb.Point{g.Longitude, g.Latitude})
		f.Properties["gaugeId"] = g.GaugeID
		fc.Append(f)
	}
	return fc
}

// Bounds returns the bounding box of the gauges, or an empty bound when
// there are none.
func Bounds(gauges []Gauge) orb.Bound {
	if len(gauges) == 0 {
		return orb.Bound{}
	}
	mp := make(orb.MultiPoint, len(gauges))
	for i, g := range gauges {
		mp[i] = orb.Point{g.Longitude, g.Latitude}
	}
	return mp.Bound()
}
