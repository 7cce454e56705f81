package dates_test

import (
	"testing"
	"time"

	"github.com/YeswanthRajakumarr/damit-sub000/internal/dates"
)

func TestStringCanonical(t *testing.T) {
	d := dates.CalendarDate{Year: 2026, Month: time.February, Day: 3}
	if got := d.String(); got != "2026-02-03" {
		t.Errorf("String = %q, want %q", got, "2026-02-03")
	}
}

func TestParseRoundTrip(t *testing.T) {
	for _, s := range []string{"2026-01-01", "2026-02-28", "2026-12-31"} {
		d, err := dates.Parse(s)
		if err != nil {
			t.Fatalf("Parse(%q): %v", s, err)
		}
		if d.String() != s {
			t.Errorf("round trip %q -> %q", s, d.String())
		}
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	for _, s := range []string{"", "2026-13-01", "01-02-2026", "yesterday"} {
		if _, err := dates.Parse(s); err == nil {
			t.Errorf("Parse(%q) accepted, want error", s)
		}
	}
}

func TestAddDaysBoundaries(t *testing.T) {
	tests := []struct {
		start string
		n     int
		want  string
	}{
		{"2026-08-31", 1, "2026-09-01"},
		{"2026-01-01", -1, "2025-12-31"},
		{"2026-02-28", 1, "2026-03-01"}, // 2026 is not a leap year
		{"2026-09-01", -7, "2026-08-25"},
	}
	for _, tt := range tests {
		d, _ := dates.Parse(tt.start)
		if got := d.AddDays(tt.n).String(); got != tt.want {
			t.Errorf("%s + %d days = %q, want %q", tt.start, tt.n, got, tt.want)
		}
	}
}

func TestBefore(t *testing.T) {
	a, _ := dates.Parse("2026-08-31")
	b, _ := dates.Parse("2026-09-01")
	if !a.Before(b) {
		t.Error("2026-08-31 should be before 2026-09-01")
	}
	if b.Before(a) {
		t.Error("2026-09-01 should not be before 2026-08-31")
	}
	if a.Before(a) {
		t.Error("a date is not before itself")
	}
}

func TestFromTimeUsesLocalDay(t *testing.T) {
	// Just after local midnight in UTC+2 it is still the previous day
	// in UTC. FromTime keys by the instant's own calendar.
	loc := time.FixedZone("UTC+2", 2*60*60)
	instant := time.Date(2026, 9, 1, 0, 30, 0, 0, loc)

	if got := dates.FromTime(instant).String(); got != "2026-09-01" {
		t.Errorf("FromTime local = %q, want 2026-09-01", got)
	}
	if got := dates.FromTime(instant.UTC()).String(); got != "2026-08-31" {
		t.Errorf("FromTime utc = %q, want 2026-08-31 (22:30Z the day before)", got)
	}
}

func TestDayWindowBounds(t *testing.T) {
	d, _ := dates.Parse("2026-08-15")
	loc := time.UTC

	start := d.StartOfDay(loc)
	end := d.EndOfDay(loc)

	if start.Format("15:04:05") != "00:00:00" {
		t.Errorf("StartOfDay = %v", start)
	}
	if end.Format("15:04:05") != "23:59:59" {
		t.Errorf("EndOfDay = %v", end)
	}
	if !start.Before(end) {
		t.Error("start must precede end")
	}
}
