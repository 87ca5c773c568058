// Package region loads and holds the immutable area-of-interest polygon for
// the study region.
package region

import (
	"errors"
	"fmt"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
)

// Region is the study-region polygon. It is loaded once at startup and shared
// by reference; it is never mutated afterward.
type Region struct {
	geom orb.Geometry
}

// Load reads one polygon from a GeoJSON file. The file may hold a bare
// geometry, a feature, or a feature collection whose first polygonal feature
// is used. Any missing or malformed resource is a hard failure: no partial
// region is ever returned.
func Load(path string) (*Region, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read region file %s: %w", path, err)
	}

	geom, err := parseGeometry(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse region file %s: %w", path, err)
	}

	switch geom.(type) {
	case orb.Polygon, orb.MultiPolygon:
	default:
		return nil, fmt.Errorf("region file %s does not contain a polygon", path)
	}

	return &Region{geom: geom}, nil
}

func parseGeometry(raw []byte) (orb.Geometry, error) {
	if fc, err := geojson.UnmarshalFeatureCollection(raw); err == nil {
		for _, feat := range fc.Features {
			switch feat.Geometry.(type) {
			case orb.Polygon, orb.MultiPolygon:
				return feat.Geometry, nil
			}
		}
		return nil, errors.New("feature collection holds no polygonal feature")
	}
	if feat, err := geojson.UnmarshalFeature(raw); err == nil {
		return feat.Geometry, nil
	}
	g, err := geojson.UnmarshalGeometry(raw)
	if err != nil {
		return nil, err
	}
	return g.Geometry(), nil
}

// Geometry returns the region geometry.
func (r *Region) Geometry() orb.Geometry {
	return r.geom
}

// Centroid returns the area-weighted centroid of the region.
func (r *Region) Centroid() (orb.Point, error) {
	centroid, area := planar.CentroidArea(r.geom)
	if area <= 0 {
		return orb.Point{}, errors.New("region has no area")
	}
	return centroid, nil
}

// Contains reports whether the point lies inside the region.
func (r *Region) Contains(pt orb.Point) bool {
	switch g := r.geom.(type) {
	case orb.Polygon:
		return planar.PolygonContains(g, pt)
	case orb.MultiPolygon:
		return planar.MultiPolygonContains(g, pt)
	}
	return false
}
