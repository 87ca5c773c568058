package composite

import (
	"testing"

	"github.com/agrimap/landcover-sampling-poc/internal/region"
)

func loadTestRegion(t *testing.T) *region.Region {
	t.Helper()
	reg, err := region.Load("testdata/region.geojson")
	if err != nil {
		t.Fatalf("failed to load test region: %v", err)
	}
	return reg
}
