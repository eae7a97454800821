// Package shapefile reads country outlines from the Natural Earth
// admin-0 countries shapefile.
package shapefile

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/paulmach/orb"
)

// SovereignField is the attribute matched against the ISO-A3 code.
const SovereignField = "SOV_A3"

// ErrCountryNotFound is returned when no record carries the requested code.
var ErrCountryNotFound = errors.New("country not found in shapefile")

// CountryRings returns the outline of the first record whose SOV_A3
// attribute equals isoA3, one ring per polygon part, in lon/lat.
func CountryRings(path, isoA3 string) ([]orb.Ring, error) {
	reader, err := shp.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open shapefile: %w", err)
	}
	defer reader.Close()

	field := -1
	for i, f := range reader.Fields() {
		if f.String() == SovereignField {
			field = i
			break
		}
	}
	if field < 0 {
		return nil, fmt.Errorf("shapefile %s has no %s attribute", path, SovereignField)
	}

	for reader.Next() {
		n, shape := reader.Shape()
		if strings.TrimSpace(reader.ReadAttribute(n, field)) != isoA3 {
			continue
		}
		poly, ok := shape.(*shp.Polygon)
		if !ok {
			return nil, fmt.Errorf("record %d for %s is %T, not a polygon", n, isoA3, shape)
		}
		return polygonRings(poly.Parts, poly.Points), nil
	}
	if err := reader.Err(); err != nil {
		return nil, fmt.Errorf("read shapefile: %w", err)
	}
	return nil, fmt.Errorf("%w: %s", ErrCountryNotFound, isoA3)
}

// polygonRings splits a shapefile point list into rings at the part offsets.
func polygonRings(parts []int32, points []shp.Point) []orb.Ring {
	rings := make([]orb.Ring, 0, len(parts))
	for i, start := range parts {
		end := int32(len(points))
		if i+1 < len(parts) {
			end = parts[i+1]
		}
		ring := make(orb.Ring, 0, end-start)
		for _, p := range points[start:end] {
			ring = append(ring, orb.Point{p.X, p.Y})
		}
		rings = append(rings, ring)
	}
	return rings
}
