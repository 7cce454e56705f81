package stats_test

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/YeswanthRajakumarr/damit-sub000/internal/database"
	"github.com/YeswanthRajakumarr/damit-sub000/internal/dates"
	"github.com/YeswanthRajakumarr/damit-sub000/internal/stats"
)

func mkLog(date string, diet, sleep database.Rating, steps int64, proud database.Affirmation) database.DailyLog {
	return database.DailyLog{
		UserID:  1,
		LogDate: date,
		Ratings: map[database.Question]database.Rating{
			database.Diet:  diet,
			database.Sleep: sleep,
		},
		StepCount: steps,
		HasSteps:  true,
		Proud:     proud,
	}
}

func TestComputeEmpty(t *testing.T) {
	for _, rng := range []stats.TimeRange{stats.Day, stats.Week, stats.Month, stats.Overall} {
		if got := stats.Compute(nil, rng, nil); got != nil {
			t.Errorf("Compute(nil, %v) = %+v, want nil", rng, got)
		}
	}
}

func TestComputeCustomMissingEndpoint(t *testing.T) {
	logs := []database.DailyLog{mkLog("2026-08-30", 1, 1, 0, database.Yes)}

	if got := stats.Compute(logs, stats.Custom, nil); got != nil {
		t.Errorf("Compute with nil custom range = %+v, want nil", got)
	}

	from, _ := dates.Parse("2026-08-01")
	half := &stats.DateRange{From: from} // To missing
	if got := stats.Compute(logs, stats.Custom, half); got != nil {
		t.Errorf("Compute with missing endpoint = %+v, want nil", got)
	}
}

func TestComputeDietAverage(t *testing.T) {
	values := []database.Rating{1, 0.5, 0.25, 1, 0, 0.5, 1}
	var logs []database.DailyLog
	for i, v := range values {
		logs = append(logs, mkLog(dates.CalendarDate{Year: 2026, Month: time.August, Day: 20 + i}.String(), v, 0, 0, database.No))
	}

	got := stats.Compute(logs, stats.Week, nil)
	if got == nil {
		t.Fatal("Compute returned nil for 7 logs")
	}
	if got.AvgDiet != 61 {
		t.Errorf("AvgDiet = %d, want 61", got.AvgDiet)
	}
}

func TestComputeStepTotals(t *testing.T) {
	steps := []int64{10000, 5000, 2000, 15000, 0, 8000, 12000}
	var logs []database.DailyLog
	for i, s := range steps {
		logs = append(logs, mkLog(dates.CalendarDate{Year: 2026, Month: time.August, Day: 20 + i}.String(), 0, 0, s, database.No))
	}

	got := stats.Compute(logs, stats.Week, nil)
	if got == nil {
		t.Fatal("Compute returned nil")
	}
	if got.TotalSteps != 52000 {
		t.Errorf("TotalSteps = %d, want 52000", got.TotalSteps)
	}
	if got.StepDisplay != "52,000" {
		t.Errorf("StepDisplay = %q, want %q", got.StepDisplay, "52,000")
	}
	if got.TotalKm != 39.5 {
		t.Errorf("TotalKm = %v, want 39.5", got.TotalKm)
	}
}

func TestComputeMindsetRate(t *testing.T) {
	answers := []database.Affirmation{
		database.Yes, database.Yes, database.Yes, database.Yes, database.Yes,
		database.No, database.Unanswered,
	}
	var logs []database.DailyLog
	for i, a := range answers {
		logs = append(logs, mkLog(dates.CalendarDate{Year: 2026, Month: time.August, Day: 20 + i}.String(), 0, 0, 0, a))
	}

	got := stats.Compute(logs, stats.Week, nil)
	if got == nil {
		t.Fatal("Compute returned nil")
	}
	if got.MindsetRate != 71 {
		t.Errorf("MindsetRate = %d, want 71", got.MindsetRate)
	}
}

func TestComputeOrderIndependence(t *testing.T) {
	logs := []database.DailyLog{
		mkLog("2026-08-25", 1, 0.5, 4000, database.Yes),
		mkLog("2026-08-26", 0.5, 1, 6000, database.No),
		mkLog("2026-08-27", 0.25, 0, 8000, database.Yes),
		mkLog("2026-08-28", -1, 0.25, 2000, database.Unanswered),
	}

	reversed := make([]database.DailyLog, len(logs))
	for i := range logs {
		reversed[len(logs)-1-i] = logs[i]
	}
	shuffled := []database.DailyLog{logs[2], logs[0], logs[3], logs[1]}

	want := stats.Compute(logs, stats.Week, nil)
	for _, perm := range [][]database.DailyLog{reversed, shuffled} {
		if got := stats.Compute(perm, stats.Week, nil); !reflect.DeepEqual(got, want) {
			t.Errorf("Compute is order-dependent: %+v vs %+v", got, want)
		}
	}
}

func TestComputeWeekUsesMostRecentEntries(t *testing.T) {
	// 8 logs over 8 distinct dates, oldest first in input. Week must use
	// the 7 most recent by log_date and drop the oldest.
	var logs []database.DailyLog
	logs = append(logs, mkLog("2026-08-25", 1, 1, 999999, database.Yes))
	for i := 0; i < 7; i++ {
		logs = append(logs, mkLog(dates.CalendarDate{Year: 2026, Month: time.August, Day: 26 + i}.String(), 1, 1, 1000, database.Yes))
	}

	got := stats.Compute(logs, stats.Week, nil)
	if got == nil {
		t.Fatal("Compute returned nil")
	}
	if got.Entries != 7 {
		t.Errorf("Entries = %d, want 7", got.Entries)
	}
	if got.TotalSteps != 7000 {
		t.Errorf("TotalSteps = %d, want 7000 (oldest entry must be dropped)", got.TotalSteps)
	}
}

func TestComputeCustomWindowIsInclusive(t *testing.T) {
	logs := []database.DailyLog{
		mkLog("2026-08-24", 1, 1, 100, database.Yes),
		mkLog("2026-08-25", 1, 1, 200, database.Yes),
		mkLog("2026-08-27", 1, 1, 400, database.Yes),
		mkLog("2026-08-28", 1, 1, 800, database.Yes),
	}

	from, _ := dates.Parse("2026-08-25")
	to, _ := dates.Parse("2026-08-27")
	got := stats.Compute(logs, stats.Custom, &stats.DateRange{From: from, To: to})
	if got == nil {
		t.Fatal("Compute returned nil")
	}
	if got.Entries != 2 || got.TotalSteps != 600 {
		t.Errorf("custom window selected entries=%d steps=%d, want 2 and 600", got.Entries, got.TotalSteps)
	}
}

func TestValidateCustomRange(t *testing.T) {
	day := func(d int) dates.CalendarDate {
		return dates.CalendarDate{Year: 2026, Month: time.July, Day: 1}.AddDays(d)
	}

	tests := []struct {
		name    string
		rng     stats.DateRange
		wantErr bool
		wide    bool
	}{
		{"single day", stats.DateRange{From: day(0), To: day(0)}, false, false},
		{"exactly 30 days", stats.DateRange{From: day(0), To: day(29)}, false, false},
		{"31 days", stats.DateRange{From: day(0), To: day(30)}, true, true},
		{"reversed", stats.DateRange{From: day(5), To: day(1)}, true, false},
		{"missing from", stats.DateRange{To: day(1)}, true, false},
	}

	for _, tt := range tests {
		err := stats.ValidateCustomRange(tt.rng)
		if (err != nil) != tt.wantErr {
			t.Errorf("%s: err = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
		if tt.wide && !errors.Is(err, stats.ErrRangeTooWide) {
			t.Errorf("%s: err = %v, want ErrRangeTooWide", tt.name, err)
		}
	}
}
