// Package stats reduces daily logs to the dashboard numbers: diet and
// sleep scores, step totals, the mindset rate, and missing-day detection.
// Everything here is pure; callers fetch logs from the repository and
// pass them in any order.
package stats

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/YeswanthRajakumarr/damit-sub000/internal/database"
	"github.com/YeswanthRajakumarr/damit-sub000/internal/dates"
)

type TimeRange int

const (
	Day TimeRange = iota
	Week
	Month
	Overall
	Custom
)

// entryCount maps a range to how many most-recent log entries it selects.
// This is a count of entries, not a calendar window: gaps in logging are
// not backfilled as zero, so "Week" is the last 7 logs however old.
var entryCount = map[TimeRange]int{
	Day:   1,
	Week:  7,
	Month: 30,
}

var rangeNames = map[TimeRange]string{
	Day:     "day",
	Week:    "week",
	Month:   "month",
	Overall: "all",
	Custom:  "custom",
}

func (r TimeRange) String() string {
	return rangeNames[r]
}

func ParseTimeRange(s string) (TimeRange, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "day", "today":
		return Day, nil
	case "week":
		return Week, nil
	case "month":
		return Month, nil
	case "all", "overall", "":
		return Overall, nil
	default:
		return Overall, fmt.Errorf("unknown range %q", s)
	}
}

// DateRange is the explicit inclusive window for Custom.
type DateRange struct {
	From dates.CalendarDate
	To   dates.CalendarDate
}

// MaxCustomRangeDays caps explicit ranges before any repository read.
const MaxCustomRangeDays = 30

var ErrRangeTooWide = errors.New("custom range exceeds 30 days")

// ValidateCustomRange rejects malformed or over-wide explicit ranges.
func ValidateCustomRange(r DateRange) error {
	if r.From.IsZero() || r.To.IsZero() {
		return errors.New("custom range needs both dates")
	}
	if r.To.Before(r.From) {
		return errors.New("custom range is reversed")
	}
	span := 1
	for d := r.From; d.Before(r.To); d = d.AddDays(1) {
		span++
		if span > MaxCustomRangeDays {
			return ErrRangeTooWide
		}
	}
	return nil
}

// metersPerStep approximates an average stride length.
const metersPerStep = 0.76

// Stats is one computed summary, scores out of 100.
type Stats struct {
	Entries     int     `json:"entries"`
	AvgDiet     int     `json:"avg_diet"`
	AvgSleep    int     `json:"avg_sleep"`
	TotalSteps  int64   `json:"total_steps"`
	StepDisplay string  `json:"step_display"` // grouped, e.g. "52,000"
	TotalKm     float64 `json:"total_km"`     // one decimal place
	MindsetRate int     `json:"mindset_rate"`
}

// Compute reduces logs over the selected window. It returns nil when the
// selection is empty (including a Custom range with a missing endpoint):
// that is the render-a-placeholder signal, not an error. Output is
// identical for any permutation of the input; ordering is internal.
func Compute(logs []database.DailyLog, rng TimeRange, custom *DateRange) *Stats {
	selected := selectLogs(logs, rng, custom)
	if len(selected) == 0 {
		return nil
	}

	var dietSum, sleepSum float64
	var steps int64
	proud := 0
	for _, l := range selected {
		dietSum += float64(l.Ratings[database.Diet])
		sleepSum += float64(l.Ratings[database.Sleep])
		steps += l.StepCount
		if l.Proud == database.Yes {
			proud++
		}
	}

	n := float64(len(selected))
	km := float64(steps) * metersPerStep / 1000

	return &Stats{
		Entries:     len(selected),
		AvgDiet:     int(math.Round(dietSum / n * 100)),
		AvgSleep:    int(math.Round(sleepSum / n * 100)),
		TotalSteps:  steps,
		StepDisplay: humanize.Comma(steps),
		TotalKm:     math.Round(km*10) / 10,
		MindsetRate: int(math.Round(float64(proud) / n * 100)),
	}
}

func selectLogs(logs []database.DailyLog, rng TimeRange, custom *DateRange) []database.DailyLog {
	sorted := make([]database.DailyLog, len(logs))
	copy(sorted, logs)
	// Canonical YYYY-MM-DD keys order lexically.
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].LogDate > sorted[j].LogDate
	})

	if rng == Custom {
		if custom == nil || custom.From.IsZero() || custom.To.IsZero() {
			return nil
		}
		from, to := custom.From.String(), custom.To.String()
		var filtered []database.DailyLog
		for _, l := range sorted {
			if l.LogDate >= from && l.LogDate <= to {
				filtered = append(filtered, l)
			}
		}
		return filtered
	}

	if n, ok := entryCount[rng]; ok && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
