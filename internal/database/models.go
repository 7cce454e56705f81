package database

import (
	"fmt"
	"strings"
	"time"
)

// Rating is one answer on the discrete questionnaire scale
// {-1, 0, 0.25, 0.5, 1}. The meaning of each value is question-specific:
// for "Cravings" 1 means none at all, for "Diet" -1 means a bad day.
type Rating float64

const (
	RatingWorst   Rating = -1
	RatingNo      Rating = 0
	RatingSlight  Rating = 0.25
	RatingPartial Rating = 0.5
	RatingBest    Rating = 1
)

// RatingScale lists every value a rating field may hold.
var RatingScale = []Rating{RatingWorst, RatingNo, RatingSlight, RatingPartial, RatingBest}

func (r Rating) Valid() bool {
	for _, v := range RatingScale {
		if r == v {
			return true
		}
	}
	return false
}

// Question identifies one of the eight daily rating fields.
type Question string

const (
	Diet         Question = "diet"
	Exercise     Question = "exercise"
	Sleep        Question = "sleep"
	Water        Question = "water"
	Cravings     Question = "cravings"
	Mood         Question = "mood"
	Energy       Question = "energy"
	Productivity Question = "productivity"
)

// Questions is the questionnaire order shown to the user.
var Questions = []Question{Diet, Exercise, Sleep, Water, Cravings, Mood, Energy, Productivity}

var QuestionNames = map[Question]string{
	Diet:         "🥗 Diet",
	Exercise:     "🏃 Exercise",
	Sleep:        "😴 Sleep",
	Water:        "💧 Water",
	Cravings:     "🍩 Cravings",
	Mood:         "😊 Mood",
	Energy:       "⚡ Energy",
	Productivity: "🎯 Productivity",
}

var QuestionPrompts = map[Question]string{
	Diet:         "How was your diet today?",
	Exercise:     "Did you move your body today?",
	Sleep:        "How did you sleep last night?",
	Water:        "Did you drink enough water?",
	Cravings:     "Did you resist your cravings?",
	Mood:         "How was your mood today?",
	Energy:       "How were your energy levels?",
	Productivity: "Did you get done what mattered?",
}

// Affirmation is the tri-state "proud of yourself" answer. The column has
// carried mixed string forms across schema history ("Yes", "1", "yeah",
// "true"), so rows are normalized by ParseAffirmation exactly once when
// they are scanned out of the database.
type Affirmation int

const (
	Unanswered Affirmation = iota
	Yes
	No
)

// ParseAffirmation is the single tolerant parser for the legacy
// proud_of_yourself forms. Anything unrecognized counts as unanswered.
func ParseAffirmation(raw string) Affirmation {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "yes", "yeah", "y", "1", "true":
		return Yes
	case "no", "n", "0", "false":
		return No
	default:
		return Unanswered
	}
}

// String renders the canonical stored form ("Yes"/"No"/"").
func (a Affirmation) String() string {
	switch a {
	case Yes:
		return "Yes"
	case No:
		return "No"
	default:
		return ""
	}
}

// DailyLog is one completed Daily Accountability Message. At most one row
// exists per (user, log_date); writes are upserts keyed on that pair.
type DailyLog struct {
	ID        int64               `json:"id"`
	UserID    int64               `json:"user_id"`
	LogDate   string              `json:"log_date"` // canonical YYYY-MM-DD
	Ratings   map[Question]Rating `json:"ratings"`
	StepCount int64               `json:"step_count"`
	HasSteps  bool                `json:"has_steps"`
	GoodThing string              `json:"good_thing,omitempty"`
	Proud     Affirmation         `json:"proud_of_yourself"`
	PhotoURL  string              `json:"photo_url,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// LogFields carries the writable part of a DailyLog for upserts.
type LogFields struct {
	Ratings   map[Question]Rating
	StepCount int64
	HasSteps  bool
	GoodThing string
	Proud     Affirmation
	PhotoURL  string
}

// NotificationSettings is the per-chat reminder record. Defaults are
// created on first use: disabled, 20:00.
type NotificationSettings struct {
	ChatID  int64  `json:"chat_id"`
	Enabled bool   `json:"enabled"`
	Time    string `json:"time"` // HH:MM, rounded to the nearest 5 minutes
}

const DefaultReminderTime = "20:00"

// ShareToken grants read-only access to a user's public dashboard until
// ExpiresAt. Expiry comparison is the caller's responsibility.
type ShareToken struct {
	UserID    int64     `json:"user_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s ShareToken) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// AvatarKey is the KV key holding a user's emoji-avatar preference.
func AvatarKey(chatID int64) string {
	return fmt.Sprintf("avatar:%d", chatID)
}

// User is a registered chat. Repository operations on logs require one.
type User struct {
	ChatID    int64     `json:"chat_id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}
