package properties

import (
	"os"
	"strconv"
)

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return def
	}
	return v
}

// RegionPath is the AOI polygon GeoJSON file.
func RegionPath() string {
	return getenv("REGION_GEOJSON_PATH", "data/region.geojson")
}

// ProcessingYear selects the year the monthly composites are built for.
func ProcessingYear() int {
	return getenvInt("PROCESSING_YEAR", 2019)
}

// BatchSize caps the points per sampling request; the default keeps each
// request well under the backend's payload ceiling.
func BatchSize() int {
	return getenvInt("BATCH_SIZE", 4000)
}

// WorkerCount bounds the number of concurrent batch tasks.
func WorkerCount() int {
	return getenvInt("WORKER_COUNT", 4)
}

// OutputDir is where the per-unit CSV files land.
func OutputDir() string {
	return getenv("OUTPUT_DIR", "Output")
}

func BackendBaseURL() string {
	return os.Getenv("BACKEND_BASE_URL")
}

func BackendClientID() string {
	return os.Getenv("BACKEND_CLIENT_ID")
}

func BackendClientSecret() string {
	return os.Getenv("BACKEND_CLIENT_SECRET")
}

func BackendTokenURL() string {
	return os.Getenv("BACKEND_TOKEN_URL")
}

func DiscordErrorNotificationUrl() string {
	return os.Getenv("DISCORD_ERROR_NOTIFICATION_URL")
}

func DiscordSuccessNotificationUrl() string {
	return os.Getenv("DISCORD_SUCCESS_NOTIFICATION_URL")
}
