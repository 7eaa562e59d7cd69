package geo

import (
	"encoding/hex"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/ewkb"
	"github.com/paulmach/orb/planar"
)

// ParseEWKB decodes a hex-encoded EWKB value, the textual form PostGIS
// uses for geometry columns.
func ParseEWKB(hexData string) (orb.Geometry, error) {
	data, err := hex.DecodeString(hexData)
	if err != nil {
		return nil, fmt.Errorf("decode geometry hex: %w", err)
	}
	g, _, err := ewkb.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("unmarshal ewkb geometry: %w", err)
	}
	return g, nil
}

// Centroid returns the geometric center of the geometry.
func Centroid(g orb.Geometry) orb.Point {
	c, _ := planar.CentroidArea(g)
	return c
}
