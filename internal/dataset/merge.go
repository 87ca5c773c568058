package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/agrimap/landcover-sampling-poc/internal/composite"
	"github.com/gocarina/gocsv"
	"github.com/sirupsen/logrus"
)

// CombinedRow joins one radar and one optical sample of the same point and
// month into a single feature vector.
type CombinedRow struct {
	ID        int     `csv:"id"`
	Longitude float64 `csv:"Longitude"`
	Latitude  float64 `csv:"Latitude"`
	VV        float64 `csv:"VV"`
	VH        float64 `csv:"VH"`
	VHVV      float64 `csv:"VH_VV"`
	NDVI      float64 `csv:"NDVI"`
	EVI       float64 `csv:"EVI"`
	GNDVI     float64 `csv:"GNDVI"`
	SAVI      float64 `csv:"SAVI"`
	NDWI      float64 `csv:"NDWI"`
	NDMI      float64 `csv:"NDMI"`
	RENDVI    float64 `csv:"RENDVI"`
	Month     string  `csv:"Month"`
}

// MergeOutputs joins the per-month radar and optical batch files on point id
// into one combined dataset with a Month column. Points present on only one
// sensor for a month are dropped from that month. Months with no files at all
// (for example after a failed composite build) are skipped.
func MergeOutputs(outputDir string, year int) (string, error) {
	var combined []CombinedRow

	for _, month := range composite.Months {
		radar, err := readRows[RadarRow](outputDir, composite.SensorRadar, month, year)
		if err != nil {
			return "", err
		}
		optical, err := readRows[OpticalRow](outputDir, composite.SensorOptical, month, year)
		if err != nil {
			return "", err
		}
		if len(radar) == 0 || len(optical) == 0 {
			logrus.Warnf("skipping %s %d in merge: %d radar and %d optical rows", month, year, len(radar), len(optical))
			continue
		}

		opticalByID := make(map[int]OpticalRow, len(optical))
		for _, row := range optical {
			opticalByID[row.ID] = row
		}

		for _, s1 := range radar {
			s2, ok := opticalByID[s1.ID]
			if !ok {
				continue
			}
			combined = append(combined, CombinedRow{
				ID:        s1.ID,
				Longitude: s1.Longitude,
				Latitude:  s1.Latitude,
				VV:        s1.VV,
				VH:        s1.VH,
				VHVV:      s1.VHVV,
				NDVI:      s2.NDVI,
				EVI:       s2.EVI,
				GNDVI:     s2.GNDVI,
				SAVI:      s2.SAVI,
				NDWI:      s2.NDWI,
				NDMI:      s2.NDMI,
				RENDVI:    s2.RENDVI,
				Month:     month.String(),
			})
		}
	}

	if len(combined) == 0 {
		return "", fmt.Errorf("no rows to merge in %s", outputDir)
	}

	path := filepath.Join(outputDir, fmt.Sprintf("combined_%d.csv", year))
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create combined file %s: %w", path, err)
	}
	defer file.Close()

	if err := gocsv.MarshalFile(&combined, file); err != nil {
		return "", fmt.Errorf("failed to write combined file %s: %w", path, err)
	}

	logrus.Infof("combined output with %d rows saved to %s", len(combined), path)
	return path, nil
}

func readRows[T any](outputDir string, sensor composite.Sensor, month composite.Month, year int) ([]T, error) {
	pattern := filepath.Join(outputDir, fmt.Sprintf("%s_%s_%d_batch*.csv", sensor, month.Lower(), year))
	paths, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("bad glob pattern %s: %w", pattern, err)
	}
	sort.Strings(paths)

	var rows []T
	for _, path := range paths {
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", path, err)
		}
		var batch []T
		err = gocsv.UnmarshalFile(file, &batch)
		file.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		rows = append(rows, batch...)
	}
	return rows, nil
}
