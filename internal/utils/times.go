package utils

import (
	"fmt"
	"regexp"
	"time"
)

var clockRe = regexp.MustCompile(`^([01][0-9]|2[0-3]):([0-5][0-9])$`)

// ParseClock parses a wall-clock HH:MM reminder time.
func ParseClock(s string) (hour, minute int, err error) {
	if !clockRe.MatchString(s) {
		return 0, 0, fmt.Errorf("time must be HH:MM, got %q", s)
	}
	fmt.Sscanf(s, "%d:%d", &hour, &minute)
	return hour, minute, nil
}

// RoundClock canonicalizes a reminder time to the nearest 5 minutes,
// the granularity settings are stored at. 23:58 rounds forward to 00:00.
func RoundClock(s string) (string, error) {
	hour, minute, err := ParseClock(s)
	if err != nil {
		return "", err
	}

	total := hour*60 + minute
	total = ((total + 2) / 5) * 5 % (24 * 60)
	return FormatClock(total / 60 % 24, total % 60), nil
}

func FormatClock(hour, minute int) string {
	return fmt.Sprintf("%02d:%02d", hour, minute)
}

// NextOccurrence computes the next future instant of the given wall-clock
// time in now's location: today if the time has not yet passed, else
// tomorrow.
func NextOccurrence(now time.Time, hour, minute int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
