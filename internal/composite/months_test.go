package composite

import (
	"testing"
	"time"
)

func TestMonthDateRange(t *testing.T) {
	tests := []struct {
		month    Month
		calendar time.Month
		endDay   int
	}{
		{July, time.July, 31},
		{August, time.August, 31},
		{September, time.September, 30},
		{October, time.October, 31},
		{November, time.November, 30},
		{December, time.December, 31},
	}

	for _, tt := range tests {
		t.Run(tt.month.String(), func(t *testing.T) {
			start, end := tt.month.DateRange(2019)

			if start.Year() != 2019 || start.Month() != tt.calendar || start.Day() != 1 {
				t.Errorf("expected start %v-%d-01, got %v", 2019, tt.calendar, start)
			}
			if end.Year() != 2019 || end.Month() != tt.calendar || end.Day() != tt.endDay {
				t.Errorf("expected end day %d for %s, got %v", tt.endDay, tt.month, end)
			}
			if !start.Before(end) {
				t.Errorf("start %v is not before end %v", start, end)
			}
		})
	}
}

func TestMonthNames(t *testing.T) {
	if len(Months) != 6 {
		t.Fatalf("expected 6 processing months, got %d", len(Months))
	}
	if Months[0].String() != "July" || Months[5].String() != "December" {
		t.Errorf("unexpected month ordering: %v ... %v", Months[0], Months[5])
	}
	if got := November.Lower(); got != "november" {
		t.Errorf("expected file-name form november, got %q", got)
	}
}
