// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package weeks

import (
	"fmt"
	"time"

	"github.com/MWaltz469/calendarPlanner-v2-sub000/models"
)

// NormalizeWindow replaces out-of-range window values with the defaults.
// The second result reports whether anything was corrected.
func NormalizeWindow(cfg models.WindowConfig) (models.WindowConfig, bool) {
	corrected := false
	if cfg.StartDay < int(time.Sunday) || cfg.StartDay > int(time.Saturday) {
		cfg.StartDay = models.DefaultWindowStartDay
		corrected = true
	}
	if cfg.Days < models.MinWindowDays || cfg.Days > models.MaxWindowDays {
		cfg.Days = models.DefaultWindowDays
		corrected = true
	}
	return cfg, corrected
}

// DefaultWindow returns the window used when nothing else is configured.
func DefaultWindow() models.WindowConfig {
	return models.WindowConfig{StartDay: models.DefaultWindowStartDay, Days: models.DefaultWindowDays}
}

// FirstStart returns the first day on or after January 1st of year that
// falls on the window's start weekday.
func FirstStart(year int, startDay time.Weekday) time.Time {
	jan1 := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	offset := (int(startDay) - int(jan1.Weekday()) + 7) % 7
	return jan1.AddDate(0, 0, offset)
}

// Build produces the 52 ordered week windows for year. Consecutive windows
// start seven days apart; a window longer than seven days overlaps the next.
func Build(year int, cfg models.WindowConfig) []models.WeekDescriptor {
	cfg, _ = NormalizeWindow(cfg)
	first := FirstStart(year, time.Weekday(cfg.StartDay))

	out := make([]models.WeekDescriptor, models.WeekCount)
	for i := range out {
		start := first.AddDate(0, 0, 7*i)
		end := start.AddDate(0, 0, cfg.Days-1)
		out[i] = models.WeekDescriptor{
			WeekNumber:       i + 1,
			StartDate:        start,
			EndDate:          end,
			WindowLengthDays: cfg.Days,
			Label:            fmt.Sprintf("Week %d", i+1),
			RangeText:        RangeText(start, end),
		}
	}
	return out
}

// RangeText renders a date span for display. Years are shown only when the
// span crosses a year boundary.
func RangeText(start, end time.Time) string {
	if start.Year() != end.Year() {
		return start.Format("Jan 2, 2006") + " - " + end.Format("Jan 2, 2006")
	}
	return start.Format("Jan 2") + " - " + end.Format("Jan 2")
}

// Find returns the descriptor for weekNumber.
func Find(descriptors []models.WeekDescriptor, weekNumber int) (models.WeekDescriptor, bool) {
	if weekNumber < 1 || weekNumber > len(descriptors) {
		return models.WeekDescriptor{}, false
	}
	d := descriptors[weekNumber-1]
	return d, d.WeekNumber == weekNumber
}
