package composite

import (
	"fmt"

	"github.com/agrimap/landcover-sampling-poc/internal/ee"
)

const (
	opticalCollection   = "COPERNICUS/S2_SR_HARMONIZED"
	cloudProbCollection = "COPERNICUS/S2_CLOUD_PROBABILITY"

	// Scene-level filter: drop acquisitions above this cloudy-pixel share.
	sceneCloudFilter = 70

	// Pixel-level cloud flag: s2cloudless probability above this cutoff.
	cloudProbThreshold = 70

	// Dark-pixel detection for shadows, expressed as a fraction of the
	// surface-reflectance band scale.
	nirDarkThreshold = 0.15
	srBandScale      = 1e4

	// Shadow projection distance from cloud edge, in units of 10 px, and
	// the coarse scale the projection is resolved at.
	shadowProjectDistance = 1
	shadowProjectScale    = 100

	// Morphology over the combined flag: erode to drop isolated false
	// positives, then dilate to buffer real cloud and shadow edges.
	maskErodeRadius  = 2
	maskBufferMeters = 40
	maskWorkingScale = 20

	waterClass = 6
)

// measurementBands are the reflectance bands kept for the median reduction.
var measurementBands = []string{"B2", "B3", "B4", "B5", "B8", "B11", "B12"}

// OpticalIndexBands is the sampled column set of an optical composite, in
// output order.
var OpticalIndexBands = []string{"NDVI", "EVI", "GNDVI", "SAVI", "NDWI", "NDMI", "RENDVI"}

// OpticalBuilder describes monthly cloud/shadow-free optical composites:
// every scene of the month is masked through a five-stage pipeline, the
// masked collection is reduced by per-pixel median, and seven spectral
// indices are derived from the reduced bands.
type OpticalBuilder struct {
	geometry *ee.Geometry
}

func NewOpticalBuilder(geometry *ee.Geometry) *OpticalBuilder {
	return &OpticalBuilder{geometry: geometry}
}

// Build returns the composite expression for one month. Construction is
// deferred: no backend work happens until the composite is sampled.
func (b *OpticalBuilder) Build(year int, month Month) (*ee.Image, error) {
	if b.geometry == nil {
		return nil, fmt.Errorf("optical builder has no region geometry")
	}
	if year <= 0 {
		return nil, fmt.Errorf("invalid processing year %d", year)
	}

	start, end := month.DateRange(year)

	scenes := ee.Collection(opticalCollection).
		FilterBounds(b.geometry).
		FilterDate(start, end).
		Select("B2", "B3", "B4", "B5", "B8", "B11", "B12", "SCL").
		Filter(ee.FilterLte("CLOUDY_PIXEL_PERCENTAGE", sceneCloudFilter))

	probabilities := ee.Collection(cloudProbCollection).
		FilterBounds(b.geometry).
		FilterDate(start, end)

	joined := ee.JoinSaveFirst(scenes, probabilities, "s2cloudless", "system:index", "system:index")

	masked := joined.Map(ApplyCloudShadowMask)

	median := masked.Median().Clip(b.geometry)
	observations := masked.Select("B2").Count().Rename("count").Clip(b.geometry)

	return ComputeIndices(median).AddBands(observations), nil
}

// addCloudBands attaches the per-pixel cloud probability of the paired
// s2cloudless product and thresholds it into a binary cloud flag.
func addCloudBands(img *ee.Image) *ee.Image {
	probability := img.ImageProperty("s2cloudless").Select("probability")
	clouds := probability.Gt(cloudProbThreshold).Rename("clouds")
	return img.AddBands(probability.Rename("cloud_probability"), clouds)
}

// addShadowBands projects the cloud flag away from the sun to find pixels
// that are both in a potential cloud shadow and dark in the near infrared.
func addShadowBands(img *ee.Image) *ee.Image {
	notWater := img.Select("SCL").Neq(waterClass)
	darkPixels := img.Select("B8").
		Lt(nirDarkThreshold * srBandScale).
		Multiply(notWater).
		Rename("dark_pixels")

	shadowAzimuth := ee.Num(90).Subtract(img.Number("MEAN_SOLAR_AZIMUTH_ANGLE"))
	cloudProjection := img.Select("clouds").
		DirectionalDistanceTransform(shadowAzimuth, shadowProjectDistance*10).
		Reproject(shadowProjectScale).
		Select("distance").
		Mask().
		Rename("cloud_transform")

	shadows := cloudProjection.Multiply(darkPixels).Rename("shadows")
	return img.AddBands(darkPixels, cloudProjection, shadows)
}

// CloudShadowFlag combines the cloud and shadow flags of one scene into the
// single pre-morphology mask flag: 1 where either flag is set.
func CloudShadowFlag(img *ee.Image) *ee.Image {
	withShadows := addShadowBands(addCloudBands(img))
	return withShadows.Select("clouds").Add(withShadows.Select("shadows")).Gt(0)
}

// ApplyCloudShadowMask runs the full masking pipeline over one scene: cloud
// flag, shadow flag, morphological cleanup of their union, and application of
// the resulting mask to the measurement bands. Bands not needed for the
// reduction are dropped here.
func ApplyCloudShadowMask(img *ee.Image) *ee.Image {
	flag := CloudShadowFlag(img).
		FocalMin(maskErodeRadius).
		FocalMax(maskBufferMeters * 2 / maskWorkingScale).
		Reproject(maskWorkingScale).
		Rename("cloudmask")

	return img.Select(measurementBands...).UpdateMask(flag.Not())
}

// ComputeIndices derives the seven spectral indices from the reduced
// composite bands and attaches them. Indices are computed on the masked
// median, never on individual scenes.
func ComputeIndices(img *ee.Image) *ee.Image {
	nir := img.Select("B8")
	red := img.Select("B4")
	blue := img.Select("B2")
	green := img.Select("B3")
	redEdge := img.Select("B5")
	swir1 := img.Select("B11")

	ndvi := nir.Subtract(red).Divide(nir.Add(red)).Rename("NDVI")
	evi := nir.Subtract(red).Multiply(ee.Constant(2.5)).
		Divide(nir.Add(red.Multiply(ee.Constant(6))).
			Subtract(blue.Multiply(ee.Constant(7.5))).
			Add(ee.Constant(1))).
		Rename("EVI")
	gndvi := nir.Subtract(green).Divide(nir.Add(green)).Rename("GNDVI")
	savi := nir.Subtract(red).Multiply(ee.Constant(1.5)).
		Divide(nir.Add(red).Add(ee.Constant(0.5))).
		Rename("SAVI")
	ndwi := green.Subtract(nir).Divide(green.Add(nir)).Rename("NDWI")
	ndmi := nir.Subtract(swir1).Divide(nir.Add(swir1)).Rename("NDMI")
	rendvi := redEdge.Subtract(red).Divide(redEdge.Add(red)).Rename("RENDVI")

	return img.AddBands(ndvi, evi, gndvi, savi, ndwi, ndmi, rendvi)
}
