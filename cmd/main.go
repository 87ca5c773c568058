package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/common-nighthawk/go-figure"
	bannercolor "github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/agrimap/landcover-sampling-poc/internal/delivery"
	"github.com/agrimap/landcover-sampling-poc/internal/ee"
	"github.com/agrimap/landcover-sampling-poc/internal/notification"
	"github.com/agrimap/landcover-sampling-poc/internal/properties"
)

// Sampling resolution in meters, shared by both sensors.
const sampleScale = 10

func printBanner() {
	figure1 := figure.NewFigure("Landcover", "isometric1", true)
	figure2 := figure.NewFigure("Sampler", "isometric1", true)
	bannercolor.Cyan(figure1.String())
	bannercolor.Cyan(figure2.String())
	fmt.Println()
}

// loadEnv must run before any properties accessor: flag defaults read the
// environment at definition time.
func loadEnv() {
	if err := godotenv.Load(".env"); err != nil {
		logrus.Debugf("no .env file loaded: %v", err)
	}
}

func main() {
	loadEnv()

	input := flag.String("input", "", "CSV file with Longitude/Latitude columns (required)")
	regionPath := flag.String("region", properties.RegionPath(), "study-region GeoJSON file")
	outputDir := flag.String("output", properties.OutputDir(), "output directory")
	year := flag.Int("year", properties.ProcessingYear(), "processing year")
	batchSize := flag.Int("batch-size", properties.BatchSize(), "points per sampling request")
	workers := flag.Int("workers", properties.WorkerCount(), "concurrent batch tasks")
	merge := flag.Bool("merge", false, "merge per-month outputs into one combined dataset")
	logLevel := flag.String("log-level", "info", "log level")
	flag.Parse()

	level, err := logrus.ParseLevel(*logLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	printBanner()

	if *input == "" {
		logrus.Fatal("missing required -input flag")
	}

	client, err := ee.NewClient(properties.BackendBaseURL(), ee.Credentials{
		ClientID:     properties.BackendClientID(),
		ClientSecret: properties.BackendClientSecret(),
		TokenURL:     properties.BackendTokenURL(),
	})
	if err != nil {
		logrus.Fatalf("failed to initialize backend session: %v", err)
	}
	logrus.Info("backend session initialized")

	cfg := delivery.Config{
		RegionPath: *regionPath,
		InputCSV:   *input,
		OutputDir:  *outputDir,
		Year:       *year,
		BatchSize:  *batchSize,
		Workers:    *workers,
		Scale:      sampleScale,
		Merge:      *merge,
	}

	if err := delivery.RunExtraction(context.Background(), client, cfg); err != nil {
		if notifyErr := notification.SendDiscordErrorNotification(fmt.Sprintf("Landcover sampler run failed: %s", err.Error())); notifyErr != nil {
			logrus.Warnf("failed to send failure notification: %v", notifyErr)
		}
		logrus.Fatalf("run aborted: %v", err)
	}
}
