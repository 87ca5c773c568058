package ee

import (
	"encoding/json"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Geometry wraps a client-side geometry for use in expressions and requests.
// It serializes as GeoJSON.
type Geometry struct {
	geom orb.Geometry
}

func NewGeometry(g orb.Geometry) *Geometry {
	return &Geometry{geom: g}
}

func (g *Geometry) MarshalJSON() ([]byte, error) {
	return json.Marshal(geojson.NewGeometry(g.geom))
}

// Feature is one point to sample, carrying the stable row id of the
// originating input row.
type Feature struct {
	ID    int
	Point orb.Point
}

// FeatureCollection is an ordered set of points for a bulk sampling request.
type FeatureCollection struct {
	Features []Feature
}

// NewFeatureCollection builds a feature per (id, lon, lat) point.
func NewFeatureCollection(features ...Feature) *FeatureCollection {
	return &FeatureCollection{Features: features}
}

func (fc *FeatureCollection) MarshalJSON() ([]byte, error) {
	out := geojson.NewFeatureCollection()
	for _, f := range fc.Features {
		feat := geojson.NewFeature(f.Point)
		feat.Properties = geojson.Properties{"id": f.ID}
		out.Append(feat)
	}
	return json.Marshal(out)
}
