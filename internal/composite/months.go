// Package composite builds the monthly radar and optical composites and holds
// them in a write-once cache keyed by sensor and month.
package composite

import (
	"strings"
	"time"
)

// Month is one of the six fixed processing months.
type Month int

const (
	July Month = iota
	August
	September
	October
	November
	December
)

// Months is the full processing set, in calendar order.
var Months = []Month{July, August, September, October, November, December}

var monthNames = map[Month]string{
	July:      "July",
	August:    "August",
	September: "September",
	October:   "October",
	November:  "November",
	December:  "December",
}

func (m Month) String() string {
	return monthNames[m]
}

// Lower returns the month name as used in output file names.
func (m Month) Lower() string {
	return strings.ToLower(m.String())
}

func (m Month) calendar() time.Month {
	return time.July + time.Month(m)
}

// DateRange returns the acquisition window for the month in the given year.
// September and November end on day 30, the remaining months on day 31.
func (m Month) DateRange(year int) (time.Time, time.Time) {
	endDay := 31
	if m == September || m == November {
		endDay = 30
	}
	start := time.Date(year, m.calendar(), 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, m.calendar(), endDay, 0, 0, 0, 0, time.UTC)
	return start, end
}
