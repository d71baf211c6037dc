package timeclock

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// MinutesPerDay is the length of one wall-clock day.
const MinutesPerDay = 1440

var ErrInvalidClock = errors.New("invalid clock time")

// ParseClock converts an "H:MM" or "HH:MM" wall-clock string into minutes
// since midnight. "24:00" is accepted as end-of-day and maps to 1440.
func ParseClock(value string) (int, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "24:00" {
		return MinutesPerDay, nil
	}

	parts := strings.Split(trimmed, ":")
	if len(parts) != 2 {
		return 0, ErrInvalidClock
	}
	if len(parts[0]) < 1 || len(parts[0]) > 2 || len(parts[1]) != 2 {
		return 0, ErrInvalidClock
	}

	hours, err := parseDigits(parts[0])
	if err != nil || hours > 23 {
		return 0, ErrInvalidClock
	}
	minutes, err := parseDigits(parts[1])
	if err != nil || minutes > 59 {
		return 0, ErrInvalidClock
	}
	return hours*60 + minutes, nil
}

// parseDigits parses a bare digit string; signs and spaces, which
// strconv.Atoi tolerates, are rejected.
func parseDigits(value string) (int, error) {
	for _, r := range value {
		if r < '0' || r > '9' {
			return 0, ErrInvalidClock
		}
	}
	return strconv.Atoi(value)
}

// Duration returns the elapsed minutes between two wall-clock strings.
// An end before the start is treated as crossing midnight. A span from
// "00:00" to "00:00" counts as a full day, not zero.
func Duration(start, end string) (int, error) {
	startMin, err := ParseClock(start)
	if err != nil {
		return 0, err
	}
	endMin, err := ParseClock(end)
	if err != nil {
		return 0, err
	}

	if startMin == 0 && endMin == 0 {
		return MinutesPerDay, nil
	}
	if endMin < startMin {
		endMin += MinutesPerDay
	}
	return endMin - startMin, nil
}

// FormatRange renders a start/end pair for display. An end of "00:00" is
// shown as "24:00" so a shift that ran to end-of-day is distinguishable
// from one that just started.
func FormatRange(start, end string) string {
	if endMin, err := ParseClock(end); err == nil && endMin == 0 {
		end = "24:00"
	}
	return fmt.Sprintf("%s - %s", start, end)
}

// FormatMinutes renders a minute count as "H:MM".
func FormatMinutes(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	return fmt.Sprintf("%d:%02d", minutes/60, minutes%60)
}
