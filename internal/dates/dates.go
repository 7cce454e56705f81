// Package dates represents calendar days as plain (year, month, day)
// values, distinct from instants. A log is keyed by the day it was written
// on in the user's calendar, so all comparisons go through the one
// canonical YYYY-MM-DD formatter here instead of ad-hoc time.Time math
// that shifts across timezone boundaries.
package dates

import (
	"fmt"
	"time"
)

// Layout is the canonical local-date layout used everywhere logs are
// keyed or compared.
const Layout = "2006-01-02"

type CalendarDate struct {
	Year  int
	Month time.Month
	Day   int
}

// FromTime truncates an instant to the calendar day it falls on in the
// instant's own location.
func FromTime(t time.Time) CalendarDate {
	y, m, d := t.Date()
	return CalendarDate{Year: y, Month: m, Day: d}
}

// Today returns the current calendar day in loc.
func Today(loc *time.Location) CalendarDate {
	return FromTime(time.Now().In(loc))
}

// Parse accepts only canonical YYYY-MM-DD strings.
func Parse(s string) (CalendarDate, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return CalendarDate{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return FromTime(t), nil
}

// String renders the canonical YYYY-MM-DD form.
func (d CalendarDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// AddDays walks the calendar forward (or back) by n days. Normalization
// is delegated to time.Date, so month and year boundaries are handled.
func (d CalendarDate) AddDays(n int) CalendarDate {
	t := time.Date(d.Year, d.Month, d.Day+n, 0, 0, 0, 0, time.UTC)
	return FromTime(t)
}

func (d CalendarDate) Before(other CalendarDate) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

func (d CalendarDate) Equal(other CalendarDate) bool {
	return d == other
}

func (d CalendarDate) IsZero() bool {
	return d == CalendarDate{}
}

// StartOfDay returns the instant the day begins in loc.
func (d CalendarDate) StartOfDay(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// EndOfDay returns the last second of the day in loc, giving the
// inclusive [from 00:00:00, to 23:59:59] window bounds.
func (d CalendarDate) EndOfDay(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 23, 59, 59, 0, loc)
}
