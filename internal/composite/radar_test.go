package composite

import (
	"math"
	"testing"

	"github.com/agrimap/landcover-sampling-poc/internal/ee"
	"github.com/paulmach/orb"
)

func testGeometry() *ee.Geometry {
	return ee.NewGeometry(orb.Polygon{{{76, 12}, {77, 12}, {77, 13}, {76, 13}, {76, 12}}})
}

func TestRadarRatioOnMedian(t *testing.T) {
	builder := NewRadarBuilder(testGeometry())
	img, err := builder.Build(2019, July)
	if err != nil {
		t.Fatalf("unexpected build error: %v", err)
	}

	// Backscatter in dB: the ratio band is plain division of the median
	// bands, no unit conversion.
	px := ee.Pixel{Bands: map[string]float64{"VV": -12.0, "VH": -18.0}}

	ratio, ok, err := ee.Probe(img, "VH_VV", px)
	if err != nil {
		t.Fatalf("unexpected probe error: %v", err)
	}
	if !ok {
		t.Fatal("ratio band unexpectedly masked")
	}
	if ratio != 1.5 {
		t.Errorf("expected VH/VV ratio 1.5, got %v", ratio)
	}

	for band, want := range map[string]float64{"VV": -12.0, "VH": -18.0} {
		got, _, err := ee.Probe(img, band, px)
		if err != nil {
			t.Fatalf("unexpected probe error for %s: %v", band, err)
		}
		if math.Abs(got-want) > 1e-9 {
			t.Errorf("expected raw band %s = %v, got %v", band, want, got)
		}
	}
}

func TestRadarBuilderInvalidInputs(t *testing.T) {
	if _, err := NewRadarBuilder(nil).Build(2019, July); err == nil {
		t.Error("expected error for missing geometry")
	}
	if _, err := NewRadarBuilder(testGeometry()).Build(0, July); err == nil {
		t.Error("expected error for invalid year")
	}
}

func TestCacheWriteOnce(t *testing.T) {
	cache := NewCache()
	key := Key{SensorRadar, July}

	if err := cache.Put(key, ee.Constant(1)); err != nil {
		t.Fatalf("unexpected error on first put: %v", err)
	}
	if err := cache.Put(key, ee.Constant(2)); err == nil {
		t.Error("expected error on second put for the same key")
	}
	if err := cache.Put(Key{SensorOptical, July}, nil); err == nil {
		t.Error("expected error when caching a nil composite")
	}

	if _, ok := cache.Get(Key{SensorOptical, August}); ok {
		t.Error("expected miss for a key never built")
	}
	if _, ok := cache.Get(key); !ok {
		t.Error("expected hit for a built key")
	}
}
