package main

import (
	"os"
	"testing"

	"github.com/agrimap/landcover-sampling-poc/internal/properties"
)

// chdir switches into dir for the duration of the test and restores the
// previous working directory on cleanup (t.Chdir needs Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	oldwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("failed to change directory: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(oldwd); err != nil {
			t.Fatalf("failed to restore working directory: %v", err)
		}
	})
}

// Settings in .env must be visible to the properties accessors that supply
// flag defaults, so the env file has to be loaded before flags are defined.
func TestEnvFileBacksFlagDefaults(t *testing.T) {
	for _, key := range []string{"REGION_GEOJSON_PATH", "BATCH_SIZE", "WORKER_COUNT", "OUTPUT_DIR", "PROCESSING_YEAR"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	chdir(t, t.TempDir())
	content := "REGION_GEOJSON_PATH=env/region.geojson\n" +
		"BATCH_SIZE=250\n" +
		"WORKER_COUNT=2\n" +
		"OUTPUT_DIR=env-output\n" +
		"PROCESSING_YEAR=2021\n"
	if err := os.WriteFile(".env", []byte(content), 0644); err != nil {
		t.Fatalf("failed to write .env: %v", err)
	}

	loadEnv()

	if got := properties.RegionPath(); got != "env/region.geojson" {
		t.Errorf("expected region path from .env, got %q", got)
	}
	if got := properties.BatchSize(); got != 250 {
		t.Errorf("expected batch size 250 from .env, got %d", got)
	}
	if got := properties.WorkerCount(); got != 2 {
		t.Errorf("expected worker count 2 from .env, got %d", got)
	}
	if got := properties.OutputDir(); got != "env-output" {
		t.Errorf("expected output dir from .env, got %q", got)
	}
	if got := properties.ProcessingYear(); got != 2021 {
		t.Errorf("expected processing year 2021 from .env, got %d", got)
	}
}

func TestMissingEnvFileFallsBackToDefaults(t *testing.T) {
	for _, key := range []string{"BATCH_SIZE", "WORKER_COUNT"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	chdir(t, t.TempDir())

	loadEnv()

	if got := properties.BatchSize(); got != 4000 {
		t.Errorf("expected default batch size 4000, got %d", got)
	}
	if got := properties.WorkerCount(); got != 4 {
		t.Errorf("expected default worker count 4, got %d", got)
	}
}
