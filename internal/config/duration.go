package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	day  = 24 * time.Hour
	week = 7 * day
)

var durationUnits = map[string]time.Duration{
	"ms":           time.Millisecond,
	"millisecond":  time.Millisecond,
	"milliseconds": time.Millisecond,
	"s":            time.Second,
	"sec":          time.Second,
	"secs":         time.Second,
	"second":       time.Second,
	"seconds":      time.Second,
	"m":            time.Minute,
	"min":          time.Minute,
	"mins":         time.Minute,
	"minute":       time.Minute,
	"minutes":      time.Minute,
	"h":            time.Hour,
	"hr":           time.Hour,
	"hrs":          time.Hour,
	"hour":         time.Hour,
	"hours":        time.Hour,
	"d":            day,
	"day":          day,
	"days":         day,
	"w":            week,
	"week":         week,
	"weeks":        week,
}

// ParseHumanDuration converts strings like "30 days" or "1 week 2 days"
// into a duration. Each value must be followed by its unit; units range
// from milliseconds to weeks, singular or plural.
func ParseHumanDuration(s string) (time.Duration, error) {
	fields := strings.Fields(strings.ToLower(s))
	if len(fields) == 0 || len(fields)%2 != 0 {
		return 0, fmt.Errorf("unparseable duration %q", s)
	}

	var total time.Duration
	for i := 0; i < len(fields); i += 2 {
		n, err := strconv.Atoi(fields[i])
		if err != nil {
			return 0, fmt.Errorf("unparseable duration %q: %w", s, err)
		}
		unit, ok := durationUnits[fields[i+1]]
		if !ok {
			return 0, fmt.Errorf("unknown duration unit %q in %q", fields[i+1], s)
		}
		total += time.Duration(n) * unit
	}
	return total, nil
}
