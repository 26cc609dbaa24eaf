package utils

import (
	"fmt"
	"time"
)

// MinutesFromClock converts a "HH:MM" 24h clock string to minutes since
// midnight. The shape is strict: "9:00" is rejected, only zero-padded
// values sort correctly in the start_time columns.
func MinutesFromClock(clock string) (int, error) {
	if len(clock) != 5 || clock[2] != ':' {
		return 0, fmt.Errorf("invalid time %q: expected HH:MM", clock)
	}
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: expected HH:MM", clock)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// ClockFromMinutes converts minutes since midnight to a "HH:MM" string.
func ClockFromMinutes(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// WithinRange reports whether t falls inside [start, end).
func WithinRange(t, start, end int) bool {
	return start <= t && t < end
}

// RangesOverlap reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. This single test covers the three overlap
// cases: a starts inside b, a ends inside b, a fully contains b.
func RangesOverlap(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && bStart < aEnd
}

// DateOnly truncates a timestamp to midnight UTC so date columns compare
// consistently regardless of the incoming zone.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
