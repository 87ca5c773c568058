package composite

import (
	"fmt"

	"github.com/agrimap/landcover-sampling-poc/internal/ee"
)

const radarCollection = "COPERNICUS/S1_GRD"

// RadarBands is the sampled column set of a radar composite, in output order.
var RadarBands = []string{"VV", "VH", "VH_VV"}

// RadarBuilder describes monthly radar backscatter composites over the study
// region: a per-pixel median of the VV and VH channels, restricted to IW-mode
// 10 m descending acquisitions, plus the VH/VV ratio computed on the median.
type RadarBuilder struct {
	geometry *ee.Geometry
}

func NewRadarBuilder(geometry *ee.Geometry) *RadarBuilder {
	return &RadarBuilder{geometry: geometry}
}

// Build returns the composite expression for one month. Construction is
// deferred: no backend work happens until the composite is sampled.
func (b *RadarBuilder) Build(year int, month Month) (*ee.Image, error) {
	if b.geometry == nil {
		return nil, fmt.Errorf("radar builder has no region geometry")
	}
	if year <= 0 {
		return nil, fmt.Errorf("invalid processing year %d", year)
	}

	start, end := month.DateRange(year)
	scenes := ee.Collection(radarCollection).
		FilterBounds(b.geometry).
		FilterDate(start, end).
		Filter(ee.FilterListContains("transmitterReceiverPolarisation", "VV")).
		Filter(ee.FilterEq("instrumentMode", "IW")).
		Filter(ee.FilterEq("resolution_meters", 10)).
		Filter(ee.FilterEq("orbitProperties_pass", "DESCENDING")).
		Select("VV", "VH")

	median := scenes.Median().Clip(b.geometry)

	// The ratio is derived from the median composite, never per scene, so
	// speckle in individual acquisitions cannot leak into it.
	ratio := median.Select("VH").Divide(median.Select("VV")).Rename("VH_VV")

	return median.AddBands(ratio), nil
}
