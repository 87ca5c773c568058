package composite

import (
	"fmt"

	"github.com/agrimap/landcover-sampling-poc/internal/ee"
	"github.com/agrimap/landcover-sampling-poc/internal/region"
	"github.com/sirupsen/logrus"
)

// Sensor identifies which instrument a composite was derived from.
type Sensor string

const (
	SensorRadar   Sensor = "s1"
	SensorOptical Sensor = "s2"
)

// Sensors lists both instruments in export order.
var Sensors = []Sensor{SensorRadar, SensorOptical}

// Key addresses one composite in the cache.
type Key struct {
	Sensor Sensor
	Month  Month
}

// Cache maps (sensor, month) to a built composite expression. Every entry is
// written exactly once during the build phase, before any extraction task
// runs; afterwards the cache is read-only, so readers need no locking.
type Cache struct {
	images map[Key]*ee.Image
}

func NewCache() *Cache {
	return &Cache{images: make(map[Key]*ee.Image)}
}

// Put records a built composite. Each key may be written at most once.
func (c *Cache) Put(key Key, img *ee.Image) error {
	if img == nil {
		return fmt.Errorf("refusing to cache nil composite for %s/%s", key.Sensor, key.Month)
	}
	if _, exists := c.images[key]; exists {
		return fmt.Errorf("composite for %s/%s already built", key.Sensor, key.Month)
	}
	c.images[key] = img
	return nil
}

// Get returns the composite for the key. The second result is false when the
// month's build failed and the entry was left unset.
func (c *Cache) Get(key Key) (*ee.Image, bool) {
	img, ok := c.images[key]
	return img, ok
}

// Len returns the number of built composites.
func (c *Cache) Len() int {
	return len(c.images)
}

// Build populates a fresh cache with the radar and optical composites for
// every processing month of the year. A failing (sensor, month) build is
// logged and its entry left unset; the remaining composites are unaffected.
func Build(reg *region.Region, year int) *Cache {
	geometry := ee.NewGeometry(reg.Geometry())
	radar := NewRadarBuilder(geometry)
	optical := NewOpticalBuilder(geometry)

	cache := NewCache()
	for _, month := range Months {
		img, err := radar.Build(year, month)
		if err != nil {
			logrus.Errorf("failed to build radar composite for %s %d: %v", month, year, err)
		} else if err := cache.Put(Key{SensorRadar, month}, img); err != nil {
			logrus.Errorf("failed to cache radar composite for %s %d: %v", month, year, err)
		} else {
			logrus.Infof("built radar median composite for %s %d", month, year)
		}

		img, err = optical.Build(year, month)
		if err != nil {
			logrus.Errorf("failed to build optical composite for %s %d: %v", month, year, err)
		} else if err := cache.Put(Key{SensorOptical, month}, img); err != nil {
			logrus.Errorf("failed to cache optical composite for %s %d: %v", month, year, err)
		} else {
			logrus.Infof("built optical median composite with indices for %s %d", month, year)
		}
	}
	return cache
}
