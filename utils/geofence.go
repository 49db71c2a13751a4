package utils

import (
	"errors"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
)

// ParseServiceArea decodes a community's stored GeoJSON geometry into a
// polygon. Accepts Polygon geometry or a Feature wrapping one.
func ParseServiceArea(raw []byte) (orb.Polygon, error) {
	if len(raw) == 0 {
		return nil, errors.New("empty service area")
	}

	geom, err := geojson.UnmarshalGeometry(raw)
	if err != nil {
		// Editors often export a full Feature rather than bare geometry.
		feat, ferr := geojson.UnmarshalFeature(raw)
		if ferr != nil {
			return nil, fmt.Errorf("invalid service area geometry: %w", err)
		}
		geom = geojson.NewGeometry(feat.Geometry)
	}

	poly, ok := geom.Geometry().(orb.Polygon)
	if !ok {
		return nil, fmt.Errorf("service area must be a polygon, got %s", geom.Type)
	}
	if len(poly) == 0 || len(poly[0]) < 4 {
		return nil, errors.New("service area polygon needs at least 3 distinct points")
	}
	return poly, nil
}

// ServiceAreaContains reports whether the coordinate falls inside the
// polygon. GeoJSON positions are lng,lat ordered.
func ServiceAreaContains(poly orb.Polygon, lat, lng float64) bool {
	return planar.PolygonContains(poly, orb.Point{lng, lat})
}

// ValidateCoordinate rejects latitudes and longitudes outside their valid
// ranges.
func ValidateCoordinate(lat, lng float64) error {
	if lat < -90 || lat > 90 {
		return fmt.Errorf("latitude %.6f is out of valid range [-90, 90]", lat)
	}
	if lng < -180 || lng > 180 {
		return fmt.Errorf("longitude %.6f is out of valid range [-180, 180]", lng)
	}
	return nil
}
