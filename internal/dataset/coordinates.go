// Package dataset covers the tabular side of the pipeline: coordinate
// ingestion, batching, sampling export and the final merge.
package dataset

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"
	"github.com/paulmach/orb"
)

// Coordinate is one input point. ID is the ordinal position of the row in the
// input file and stays attached to the point through sampling and export.
type Coordinate struct {
	ID        int     `csv:"id"`
	Longitude float64 `csv:"Longitude"`
	Latitude  float64 `csv:"Latitude"`
}

// Point returns the coordinate as a lon/lat point.
func (c Coordinate) Point() orb.Point {
	return orb.Point{c.Longitude, c.Latitude}
}

type coordinateRow struct {
	Longitude float64 `csv:"Longitude"`
	Latitude  float64 `csv:"Latitude"`
}

// LoadCoordinates reads the input CSV and assigns each row its ordinal id.
func LoadCoordinates(path string) ([]Coordinate, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open coordinate file %s: %w", path, err)
	}
	defer file.Close()

	var rows []*coordinateRow
	if err := gocsv.UnmarshalFile(file, &rows); err != nil {
		return nil, fmt.Errorf("failed to read coordinate file %s: %w", path, err)
	}

	coords := make([]Coordinate, 0, len(rows))
	for i, row := range rows {
		coords = append(coords, Coordinate{
			ID:        i,
			Longitude: row.Longitude,
			Latitude:  row.Latitude,
		})
	}
	return coords, nil
}
