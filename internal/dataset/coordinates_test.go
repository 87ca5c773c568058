package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/paulmach/orb"
)

func TestLoadCoordinates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "points.csv")
	content := "Longitude,Latitude\n76.9430421,12.8601999\n76.8512345,12.7412345\n77.0123456,12.9123456\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write input file: %v", err)
	}

	coords, err := LoadCoordinates(path)
	if err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}
	if len(coords) != 3 {
		t.Fatalf("expected 3 coordinates, got %d", len(coords))
	}
	for i, coord := range coords {
		if coord.ID != i {
			t.Errorf("expected ordinal id %d, got %d", i, coord.ID)
		}
	}
	if coords[0].Longitude != 76.9430421 || coords[0].Latitude != 12.8601999 {
		t.Errorf("unexpected first coordinate: %+v", coords[0])
	}
	if got := coords[1].Point(); got != (orb.Point{76.8512345, 12.7412345}) {
		t.Errorf("unexpected point: %v", got)
	}
}

func TestLoadCoordinatesFailures(t *testing.T) {
	if _, err := LoadCoordinates(filepath.Join(t.TempDir(), "missing.csv")); err == nil {
		t.Error("expected error for a missing input file")
	}

	empty := filepath.Join(t.TempDir(), "empty.csv")
	if err := os.WriteFile(empty, nil, 0644); err != nil {
		t.Fatalf("failed to write empty file: %v", err)
	}
	if _, err := LoadCoordinates(empty); err == nil {
		t.Error("expected error for an empty input file")
	}
}
