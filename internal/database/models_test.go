package database

import "testing"

func TestParseAffirmation(t *testing.T) {
	tests := []struct {
		raw  string
		want Affirmation
	}{
		{"Yes", Yes},
		{"yes", Yes},
		{"YEAH", Yes},
		{"yeah", Yes},
		{"1", Yes},
		{"true", Yes},
		{"TRUE", Yes},
		{" y ", Yes},
		{"No", No},
		{"no", No},
		{"0", No},
		{"false", No},
		{"", Unanswered},
		{"   ", Unanswered},
		{"maybe", Unanswered},
		{"2", Unanswered},
	}
	for _, tt := range tests {
		if got := ParseAffirmation(tt.raw); got != tt.want {
			t.Errorf("ParseAffirmation(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestAffirmationString(t *testing.T) {
	if Yes.String() != "Yes" || No.String() != "No" || Unanswered.String() != "" {
		t.Error("Affirmation canonical forms changed")
	}
}

func TestRatingValid(t *testing.T) {
	for _, r := range RatingScale {
		if !r.Valid() {
			t.Errorf("Rating(%v) should be valid", float64(r))
		}
	}
	for _, r := range []Rating{0.3, -0.5, 2, 0.75} {
		if r.Valid() {
			t.Errorf("Rating(%v) should be invalid", float64(r))
		}
	}
}
