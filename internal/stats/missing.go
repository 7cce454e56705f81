package stats

import (
	"github.com/YeswanthRajakumarr/damit-sub000/internal/database"
	"github.com/YeswanthRajakumarr/damit-sub000/internal/dates"
)

// DefaultMissingWindow is the trailing window checked for gaps.
const DefaultMissingWindow = 7

// MissingDays returns the calendar days in the trailing window ending at
// (and including) today that have no log, oldest first. Comparison is
// string-exact on canonical local dates, so the caller's idea of "today"
// decides where days roll over, not UTC.
func MissingDays(logs []database.DailyLog, windowDays int, today dates.CalendarDate) []dates.CalendarDate {
	logged := loggedDates(logs)

	var missing []dates.CalendarDate
	for i := windowDays - 1; i >= 0; i-- {
		day := today.AddDays(-i)
		if !logged[day.String()] {
			missing = append(missing, day)
		}
	}
	return missing
}

// HasMissingDays is the early-exit variant backing the badge.
func HasMissingDays(logs []database.DailyLog, windowDays int, today dates.CalendarDate) bool {
	logged := loggedDates(logs)
	for i := 0; i < windowDays; i++ {
		if !logged[today.AddDays(-i).String()] {
			return true
		}
	}
	return false
}

func loggedDates(logs []database.DailyLog) map[string]bool {
	logged := make(map[string]bool, len(logs))
	for _, l := range logs {
		logged[l.LogDate] = true
	}
	return logged
}
