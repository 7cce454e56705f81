package utils_test

import (
	"testing"
	"time"

	"github.com/YeswanthRajakumarr/damit-sub000/internal/utils"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		hour    int
		minute  int
		wantErr bool
	}{
		{"00:00", 0, 0, false},
		{"08:05", 8, 5, false},
		{"23:59", 23, 59, false},
		{"24:00", 0, 0, true},
		{"7:30", 0, 0, true},
		{"20:60", 0, 0, true},
		{"eight", 0, 0, true},
		{"", 0, 0, true},
	}
	for _, tt := range tests {
		h, m, err := utils.ParseClock(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseClock(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err == nil && (h != tt.hour || m != tt.minute) {
			t.Errorf("ParseClock(%q) = %d:%d, want %d:%d", tt.in, h, m, tt.hour, tt.minute)
		}
	}
}

func TestRoundClock(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"20:00", "20:00"},
		{"20:02", "20:00"},
		{"20:03", "20:05"},
		{"20:07", "20:05"},
		{"20:08", "20:10"},
		{"23:58", "00:00"},
		{"00:01", "00:00"},
	}
	for _, tt := range tests {
		got, err := utils.RoundClock(tt.in)
		if err != nil {
			t.Errorf("RoundClock(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("RoundClock(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNextOccurrence(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	ahead := utils.NextOccurrence(now, 20, 0)
	if want := time.Date(2026, 9, 1, 20, 0, 0, 0, time.UTC); !ahead.Equal(want) {
		t.Errorf("NextOccurrence ahead = %v, want %v", ahead, want)
	}

	passed := utils.NextOccurrence(now, 8, 0)
	if want := time.Date(2026, 9, 2, 8, 0, 0, 0, time.UTC); !passed.Equal(want) {
		t.Errorf("NextOccurrence passed = %v, want %v", passed, want)
	}

	// The exact current minute counts as passed: fire tomorrow.
	exact := utils.NextOccurrence(now, 12, 0)
	if want := time.Date(2026, 9, 2, 12, 0, 0, 0, time.UTC); !exact.Equal(want) {
		t.Errorf("NextOccurrence exact = %v, want %v", exact, want)
	}
}
