package config

import (
	"errors"
	"fmt"
	"time"
)

// statsDateLayout is the MM/DD/YYYY format the date flags accept.
const statsDateLayout = "01/02/2006"

// ResolveStatsWindow turns the pr-stats date flags into a concrete window.
// Explicit start/end dates win; otherwise a relative range like "2 weeks"
// is anchored to local midnight today. Both bounds are local-midnight
// instants and are compared inclusively by the harvester.
func ResolveStatsWindow(startDate, endDate, relativeRange string, now time.Time) (time.Time, time.Time, error) {
	if startDate != "" && endDate != "" {
		start, err := time.ParseInLocation(statsDateLayout, startDate, time.Local)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid start date %q, expected MM/DD/YYYY: %w", startDate, err)
		}
		end, err := time.ParseInLocation(statsDateLayout, endDate, time.Local)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid end date %q, expected MM/DD/YYYY: %w", endDate, err)
		}
		return start, end, nil
	}

	if relativeRange != "" {
		span, err := ParseHumanDuration(relativeRange)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		return midnight(now.Add(-span)), midnight(now), nil
	}

	return time.Time{}, time.Time{}, errors.New("relative time range or fixed start/end dates are required")
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
