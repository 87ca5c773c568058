package dataset

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/agrimap/landcover-sampling-poc/internal/composite"
	"github.com/agrimap/landcover-sampling-poc/internal/ee"
	"github.com/gocarina/gocsv"
	"github.com/sirupsen/logrus"
)

// Sampler issues one bulk point-sampling request against a composite. It is
// the only call that triggers remote evaluation of the expression graph.
type Sampler interface {
	SampleRegions(ctx context.Context, img *ee.Image, fc *ee.FeatureCollection, scale float64) ([]ee.SampledFeature, error)
}

// RadarRow is one exported radar sample.
type RadarRow struct {
	ID        int     `csv:"id"`
	Longitude float64 `csv:"Longitude"`
	Latitude  float64 `csv:"Latitude"`
	VV        float64 `csv:"VV"`
	VH        float64 `csv:"VH"`
	VHVV      float64 `csv:"VH_VV"`
}

// OpticalRow is one exported optical sample.
type OpticalRow struct {
	ID        int     `csv:"id"`
	Longitude float64 `csv:"Longitude"`
	Latitude  float64 `csv:"Latitude"`
	NDVI      float64 `csv:"NDVI"`
	EVI       float64 `csv:"EVI"`
	GNDVI     float64 `csv:"GNDVI"`
	SAVI      float64 `csv:"SAVI"`
	NDWI      float64 `csv:"NDWI"`
	NDMI      float64 `csv:"NDMI"`
	RENDVI    float64 `csv:"RENDVI"`
}

// Exporter samples cached composites at batch points and writes one CSV per
// (sensor, month, batch) unit.
type Exporter struct {
	Sampler   Sampler
	Cache     *composite.Cache
	OutputDir string
	Year      int
	Scale     float64
}

// OutputFile returns the deterministic file name of one export unit.
func (e *Exporter) OutputFile(sensor composite.Sensor, month composite.Month, batchIdx int) string {
	name := fmt.Sprintf("%s_%s_%d_batch%d.csv", sensor, month.Lower(), e.Year, batchIdx)
	return filepath.Join(e.OutputDir, name)
}

// Export samples the cached (sensor, month) composite at every point of the
// batch in a single request and writes the rows. A failure is terminal for
// this unit only: the caller logs it, no file is produced, and sibling units
// are unaffected.
func (e *Exporter) Export(ctx context.Context, sensor composite.Sensor, month composite.Month, batchIdx int, batch []Coordinate) error {
	img, ok := e.Cache.Get(composite.Key{Sensor: sensor, Month: month})
	if !ok {
		return fmt.Errorf("no %s composite built for %s %d", sensor, month, e.Year)
	}

	features := make([]ee.Feature, 0, len(batch))
	for _, coord := range batch {
		features = append(features, ee.Feature{ID: coord.ID, Point: coord.Point()})
	}

	sampled, err := e.Sampler.SampleRegions(ctx, img, ee.NewFeatureCollection(features...), e.Scale)
	if err != nil {
		return fmt.Errorf("failed to sample %s composite for %s %d batch %d: %w", sensor, month, e.Year, batchIdx, err)
	}

	var rows any
	var missing int
	switch sensor {
	case composite.SensorRadar:
		rows, missing = radarRows(sampled)
	case composite.SensorOptical:
		rows, missing = opticalRows(sampled)
	default:
		return fmt.Errorf("unknown sensor %q", sensor)
	}

	if missing > 0 {
		// Absent properties are written as 0 to keep the column schema
		// stable, but the gap itself is worth surfacing per unit.
		logrus.Warnf("%s %s batch %d: %d sampled properties were absent and defaulted to 0", sensor, month, batchIdx, missing)
	}

	path := e.OutputFile(sensor, month, batchIdx)
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %s: %w", path, err)
	}
	defer file.Close()

	if err := gocsv.MarshalFile(rows, file); err != nil {
		return fmt.Errorf("failed to write output file %s: %w", path, err)
	}

	logrus.Infof("saved %d %s rows for %s %d batch %d to %s", len(sampled), sensor, month, e.Year, batchIdx, path)
	return nil
}

func radarRows(sampled []ee.SampledFeature) (*[]RadarRow, int) {
	rows := make([]RadarRow, 0, len(sampled))
	missing := 0
	for _, feature := range sampled {
		id, _ := feature.ID()
		row := RadarRow{
			ID:        id,
			Longitude: feature.Longitude(),
			Latitude:  feature.Latitude(),
		}
		row.VV, missing = takeValue(feature, "VV", missing)
		row.VH, missing = takeValue(feature, "VH", missing)
		row.VHVV, missing = takeValue(feature, "VH_VV", missing)
		rows = append(rows, row)
	}
	return &rows, missing
}

func opticalRows(sampled []ee.SampledFeature) (*[]OpticalRow, int) {
	rows := make([]OpticalRow, 0, len(sampled))
	missing := 0
	for _, feature := range sampled {
		id, _ := feature.ID()
		row := OpticalRow{
			ID:        id,
			Longitude: feature.Longitude(),
			Latitude:  feature.Latitude(),
		}
		row.NDVI, missing = takeValue(feature, "NDVI", missing)
		row.EVI, missing = takeValue(feature, "EVI", missing)
		row.GNDVI, missing = takeValue(feature, "GNDVI", missing)
		row.SAVI, missing = takeValue(feature, "SAVI", missing)
		row.NDWI, missing = takeValue(feature, "NDWI", missing)
		row.NDMI, missing = takeValue(feature, "NDMI", missing)
		row.RENDVI, missing = takeValue(feature, "RENDVI", missing)
		rows = append(rows, row)
	}
	return &rows, missing
}

func takeValue(feature ee.SampledFeature, band string, missing int) (float64, int) {
	v, ok := feature.Value(band)
	if !ok {
		return 0, missing + 1
	}
	return v, missing
}
