package ee

import (
	"math"
	"testing"
)

func probeValue(t *testing.T, img *Image, band string, px Pixel) (float64, bool) {
	t.Helper()
	v, ok, err := Probe(img, band, px)
	if err != nil {
		t.Fatalf("unexpected probe error: %v", err)
	}
	return v, ok
}

func TestProbeArithmetic(t *testing.T) {
	px := Pixel{Bands: map[string]float64{"B8": 0.5, "B4": 0.1}}
	scene := Scene()

	nir := scene.Select("B8")
	red := scene.Select("B4")
	ratio := nir.Subtract(red).Divide(nir.Add(red))

	v, ok := probeValue(t, ratio, "", px)
	if !ok {
		t.Fatal("expected unmasked result")
	}
	if math.Abs(v-0.6667) > 0.0001 {
		t.Errorf("expected 0.6667, got %v", v)
	}
}

func TestProbeDivideByZero(t *testing.T) {
	px := Pixel{Bands: map[string]float64{"B8": 0.5, "B4": 0.0}}
	scene := Scene()

	v, ok := probeValue(t, scene.Select("B8").Divide(scene.Select("B4")), "", px)
	if !ok {
		t.Fatal("expected unmasked result")
	}
	if v != 0 {
		t.Errorf("expected division by zero to yield 0, got %v", v)
	}
}

func TestProbeComparisons(t *testing.T) {
	px := Pixel{Bands: map[string]float64{"SCL": 6}}
	scl := Scene().Select("SCL")

	tests := []struct {
		name string
		img  *Image
		want float64
	}{
		{"gt hit", scl.Gt(5), 1},
		{"gt miss", scl.Gt(6), 0},
		{"lt miss", scl.Lt(6), 0},
		{"neq miss", scl.Neq(6), 0},
		{"neq hit", scl.Neq(4), 1},
		{"not inverts", scl.Gt(6).Not(), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if v, _ := probeValue(t, tt.img, "", px); v != tt.want {
				t.Errorf("expected %v, got %v", tt.want, v)
			}
		})
	}
}

func TestProbeUpdateMask(t *testing.T) {
	px := Pixel{Bands: map[string]float64{"B4": 0.1, "flag": 0}}
	scene := Scene()

	masked := scene.Select("B4").UpdateMask(scene.Select("flag"))
	if _, ok := probeValue(t, masked, "", px); ok {
		t.Error("expected pixel hidden by a zero mask")
	}

	px.Bands["flag"] = 1
	v, ok := probeValue(t, masked, "", px)
	if !ok || v != 0.1 {
		t.Errorf("expected unmasked value 0.1, got %v (masked=%v)", v, !ok)
	}
}

func TestProbeMaskOp(t *testing.T) {
	px := Pixel{Bands: map[string]float64{"B4": 0.1, "flag": 0}}
	scene := Scene()

	validity := scene.Select("B4").UpdateMask(scene.Select("flag")).Mask()
	if v, _ := probeValue(t, validity, "", px); v != 0 {
		t.Errorf("expected mask 0 for a hidden pixel, got %v", v)
	}

	px.Bands["flag"] = 1
	if v, _ := probeValue(t, validity, "", px); v != 1 {
		t.Errorf("expected mask 1 for a visible pixel, got %v", v)
	}
}

func TestProbeMaskPropagatesThroughArithmetic(t *testing.T) {
	px := Pixel{Bands: map[string]float64{"B4": 0.1, "B8": 0.5, "flag": 0}}
	scene := Scene()

	sum := scene.Select("B8").UpdateMask(scene.Select("flag")).Add(scene.Select("B4"))
	if _, ok := probeValue(t, sum, "", px); ok {
		t.Error("expected a masked operand to mask the result")
	}
}

func TestProbeMorphologyPassesThrough(t *testing.T) {
	px := Pixel{Bands: map[string]float64{"flag": 1}}
	img := Scene().Select("flag").FocalMin(2).FocalMax(4).Reproject(20)

	v, ok := probeValue(t, img, "", px)
	if !ok || v != 1 {
		t.Errorf("expected morphology to preserve a uniform flag, got %v (masked=%v)", v, !ok)
	}
}

func TestProbeDirectionalDistanceTransform(t *testing.T) {
	px := Pixel{Bands: map[string]float64{"flag": 1}}
	azimuth := Num(90).Subtract(Num(30))
	img := Scene().Select("flag").DirectionalDistanceTransform(azimuth, 10).Mask()

	if v, _ := probeValue(t, img, "", px); v != 1 {
		t.Errorf("expected projection defined where the flag is set, got %v", v)
	}

	px.Bands["flag"] = 0
	if v, _ := probeValue(t, img, "", px); v != 0 {
		t.Errorf("expected no projection without a flagged source, got %v", v)
	}
}

func TestProbeAddBandsResolvesRenamedBand(t *testing.T) {
	px := Pixel{Bands: map[string]float64{"VV": -12, "VH": -18}}
	scene := Scene()

	ratio := scene.Select("VH").Divide(scene.Select("VV")).Rename("VH_VV")
	img := scene.AddBands(ratio)

	if v, _ := probeValue(t, img, "VH_VV", px); v != 1.5 {
		t.Errorf("expected derived band 1.5, got %v", v)
	}
	if v, _ := probeValue(t, img, "VV", px); v != -12 {
		t.Errorf("expected base band to stay reachable, got %v", v)
	}
}

func TestProbeNumberProperty(t *testing.T) {
	px := Pixel{
		Bands:      map[string]float64{"flag": 1},
		Properties: map[string]float64{"MEAN_SOLAR_AZIMUTH_ANGLE": 130},
	}
	azimuth := Num(90).Subtract(Scene().Number("MEAN_SOLAR_AZIMUTH_ANGLE"))
	img := Scene().Select("flag").DirectionalDistanceTransform(azimuth, 10)

	if _, _, err := Probe(img, "", px); err != nil {
		t.Fatalf("unexpected probe error: %v", err)
	}

	px.Properties = nil
	if _, _, err := Probe(img, "", px); err == nil {
		t.Error("expected error for a missing scene property")
	}
}

func TestProbeErrors(t *testing.T) {
	px := Pixel{Bands: map[string]float64{"B4": 0.1}}

	if _, _, err := Probe(Scene(), "", px); err == nil {
		t.Error("expected error when no band is named on a source image")
	}
	if _, _, err := Probe(Scene(), "B9", px); err == nil {
		t.Error("expected error for a band absent from the sample")
	}
	if _, _, err := Probe(Scene().Select("B4"), "B8", px); err == nil {
		t.Error("expected error for a band outside the selection")
	}
}
