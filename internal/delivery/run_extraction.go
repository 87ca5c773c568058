package delivery

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/agrimap/landcover-sampling-poc/internal/composite"
	"github.com/agrimap/landcover-sampling-poc/internal/dataset"
	"github.com/agrimap/landcover-sampling-poc/internal/notification"
	"github.com/agrimap/landcover-sampling-poc/internal/region"
	"github.com/sirupsen/logrus"
)

// Config carries everything one extraction run needs.
type Config struct {
	RegionPath string
	InputCSV   string
	OutputDir  string
	Year       int
	BatchSize  int
	Workers    int
	Scale      float64
	Merge      bool
}

// RunExtraction executes the whole pipeline: load the region and input
// coordinates, build all composites, then fan the batched sampling/export
// work out across the worker pool. Initialization failures abort the run;
// everything after the build phase degrades per unit and is only logged.
func RunExtraction(ctx context.Context, sampler dataset.Sampler, cfg Config) error {
	reg, err := region.Load(cfg.RegionPath)
	if err != nil {
		return fmt.Errorf("region initialization failed: %w", err)
	}
	logrus.Infof("loaded study region from %s", cfg.RegionPath)

	coords, err := dataset.LoadCoordinates(cfg.InputCSV)
	if err != nil {
		return fmt.Errorf("coordinate ingestion failed: %w", err)
	}
	logrus.Infof("loaded %d coordinates from %s", len(coords), cfg.InputCSV)

	outside := 0
	for _, coord := range coords {
		if !reg.Contains(coord.Point()) {
			outside++
		}
	}
	if outside > 0 {
		logrus.Warnf("%d of %d input coordinates fall outside the study region", outside, len(coords))
	}

	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", cfg.OutputDir, err)
	}

	// Build phase: every composite is defined before any sampling task
	// starts, so extraction reads the cache without synchronization.
	logrus.Infof("building radar and optical composites for %d", cfg.Year)
	cache := composite.Build(reg, cfg.Year)

	batches, err := dataset.SplitBatches(coords, cfg.BatchSize)
	if err != nil {
		return fmt.Errorf("batching failed: %w", err)
	}
	logrus.Infof("processing %d coordinates in %d batches of up to %d", len(coords), len(batches), cfg.BatchSize)

	exporter := &dataset.Exporter{
		Sampler:   sampler,
		Cache:     cache,
		OutputDir: cfg.OutputDir,
		Year:      cfg.Year,
		Scale:     cfg.Scale,
	}

	var (
		mu         sync.Mutex
		unitErrors []string
	)
	recordUnitError := func(err error) {
		logrus.Error(err)
		mu.Lock()
		unitErrors = append(unitErrors, err.Error())
		mu.Unlock()
	}

	scheduler := &Scheduler{Workers: cfg.Workers}
	results := scheduler.Run(batches, func(batchIdx int, batch []dataset.Coordinate) error {
		for _, month := range composite.Months {
			for _, sensor := range composite.Sensors {
				if err := exporter.Export(ctx, sensor, month, batchIdx, batch); err != nil {
					// Terminal for this unit only; the file is
					// skipped and the remaining units proceed.
					recordUnitError(err)
				}
			}
		}
		return nil
	})

	failedTasks := 0
	for _, result := range results {
		if result.Err != nil {
			failedTasks++
			logrus.Errorf("batch %d failed: %v", result.Batch, result.Err)
		}
	}

	if cfg.Merge {
		if _, err := dataset.MergeOutputs(cfg.OutputDir, cfg.Year); err != nil {
			logrus.Errorf("failed to merge outputs: %v", err)
		}
	}

	logrus.Infof("run complete: %d batches, %d failed tasks, %d failed export units, output in %s",
		len(batches), failedTasks, len(unitErrors), cfg.OutputDir)

	var notifyErr error
	if len(unitErrors) > 0 || failedTasks > 0 {
		notifyErr = notification.SendDiscordWarnNotification(fmt.Sprintf(
			"Extraction run for %d finished with %d failed batch tasks and %d failed export units.\nErrors:\n%s",
			cfg.Year, failedTasks, len(unitErrors), strings.Join(unitErrors, "\n")))
	} else {
		notifyErr = notification.SendDiscordSuccessNotification(fmt.Sprintf(
			"Extraction run for %d finished: %d batches exported to %s", cfg.Year, len(batches), cfg.OutputDir))
	}
	if notifyErr != nil {
		logrus.Warnf("failed to send completion notification: %v", notifyErr)
	}

	return nil
}
