package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

type Repository struct {
	Db *Database
}

func NewRepository(db *Database) *Repository {
	return &Repository{Db: db}
}

// User methods

func (r *Repository) RegisterUser(chatID int64, username string) error {
	_, err := r.Db.db.Exec(`
		INSERT INTO users (chat_id, username) VALUES (?, ?)
		ON CONFLICT(chat_id) DO UPDATE SET username = excluded.username
	`, chatID, username)
	return err
}

func (r *Repository) GetUser(chatID int64) (*User, error) {
	var user User
	err := r.Db.db.QueryRow(`
		SELECT chat_id, username, created_at FROM users WHERE chat_id = ?
	`, chatID).Scan(&user.ChatID, &user.Username, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotAuthenticated
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// requireUser guards every log operation: an unknown chat is a hard
// ErrNotAuthenticated, never treated as an anonymous user.
func (r *Repository) requireUser(chatID int64) error {
	_, err := r.GetUser(chatID)
	return err
}

// DailyLog methods

const logColumns = `id, user_id, log_date,
	diet, exercise, sleep, water, cravings, mood, energy, productivity,
	step_count, good_thing, proud_of_yourself, photo_url, created_at, updated_at`

func scanLog(row interface{ Scan(...any) error }) (*DailyLog, error) {
	var l DailyLog
	var diet, exercise, sleep, water, cravings, mood, energy, productivity float64
	var steps sql.NullInt64
	var goodThing, proud, photoURL sql.NullString

	err := row.Scan(
		&l.ID, &l.UserID, &l.LogDate,
		&diet, &exercise, &sleep, &water, &cravings, &mood, &energy, &productivity,
		&steps, &goodThing, &proud, &photoURL, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	l.Ratings = map[Question]Rating{
		Diet:         Rating(diet),
		Exercise:     Rating(exercise),
		Sleep:        Rating(sleep),
		Water:        Rating(water),
		Cravings:     Rating(cravings),
		Mood:         Rating(mood),
		Energy:       Rating(energy),
		Productivity: Rating(productivity),
	}
	l.StepCount = steps.Int64
	l.HasSteps = steps.Valid
	l.GoodThing = goodThing.String
	// The one place legacy proud_of_yourself forms get normalized.
	l.Proud = ParseAffirmation(proud.String)
	l.PhotoURL = photoURL.String
	return &l, nil
}

func (r *Repository) ListLogs(userID int64) ([]DailyLog, error) {
	if err := r.requireUser(userID); err != nil {
		return nil, err
	}

	rows, err := r.Db.db.Query(`
		SELECT `+logColumns+`
		FROM daily_logs
		WHERE user_id = ?
		ORDER BY log_date DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectLogs(rows)
}

func (r *Repository) ListLogsBetween(userID int64, from, to string) ([]DailyLog, error) {
	if err := r.requireUser(userID); err != nil {
		return nil, err
	}

	rows, err := r.Db.db.Query(`
		SELECT `+logColumns+`
		FROM daily_logs
		WHERE user_id = ? AND log_date BETWEEN ? AND ?
		ORDER BY log_date DESC
	`, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectLogs(rows)
}

func collectLogs(rows *sql.Rows) ([]DailyLog, error) {
	var logs []DailyLog
	for rows.Next() {
		l, err := scanLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, *l)
	}
	return logs, rows.Err()
}

func (r *Repository) GetLog(userID int64, date string) (*DailyLog, error) {
	if err := r.requireUser(userID); err != nil {
		return nil, err
	}

	row := r.Db.db.QueryRow(`
		SELECT `+logColumns+`
		FROM daily_logs
		WHERE user_id = ? AND log_date = ?
	`, userID, date)

	l, err := scanLog(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return l, nil
}

// UpsertLog writes the day's answers keyed on (user, log_date). A second
// write for the same pair updates the existing row and bumps updated_at,
// keeping the at-most-one-log-per-day invariant.
func (r *Repository) UpsertLog(userID int64, date string, fields LogFields) (*DailyLog, error) {
	if err := r.requireUser(userID); err != nil {
		return nil, err
	}

	var steps any
	if fields.HasSteps {
		steps = fields.StepCount
	}

	_, err := r.Db.db.Exec(`
		INSERT INTO daily_logs
			(user_id, log_date, diet, exercise, sleep, water, cravings, mood, energy, productivity,
			 step_count, good_thing, proud_of_yourself, photo_url)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, log_date) DO UPDATE SET
			diet = excluded.diet,
			exercise = excluded.exercise,
			sleep = excluded.sleep,
			water = excluded.water,
			cravings = excluded.cravings,
			mood = excluded.mood,
			energy = excluded.energy,
			productivity = excluded.productivity,
			step_count = excluded.step_count,
			good_thing = excluded.good_thing,
			proud_of_yourself = excluded.proud_of_yourself,
			photo_url = excluded.photo_url,
			updated_at = CURRENT_TIMESTAMP
	`, userID, date,
		float64(fields.Ratings[Diet]), float64(fields.Ratings[Exercise]),
		float64(fields.Ratings[Sleep]), float64(fields.Ratings[Water]),
		float64(fields.Ratings[Cravings]), float64(fields.Ratings[Mood]),
		float64(fields.Ratings[Energy]), float64(fields.Ratings[Productivity]),
		steps, fields.GoodThing, fields.Proud.String(), fields.PhotoURL,
	)
	if err != nil {
		return nil, err
	}

	return r.GetLog(userID, date)
}

func (r *Repository) DeleteLog(id int64) error {
	res, err := r.Db.db.Exec("DELETE FROM daily_logs WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// NotificationSettings methods

// GetSettings returns the chat's reminder settings, creating the default
// record (disabled, 20:00) on first use.
func (r *Repository) GetSettings(chatID int64) (*NotificationSettings, error) {
	_, err := r.Db.db.Exec(`
		INSERT OR IGNORE INTO notification_settings (chat_id, enabled, time)
		VALUES (?, 0, ?)
	`, chatID, DefaultReminderTime)
	if err != nil {
		return nil, err
	}

	var s NotificationSettings
	err = r.Db.db.QueryRow(`
		SELECT chat_id, enabled, time FROM notification_settings WHERE chat_id = ?
	`, chatID).Scan(&s.ChatID, &s.Enabled, &s.Time)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *Repository) SaveSettings(s NotificationSettings) error {
	_, err := r.Db.db.Exec(`
		INSERT INTO notification_settings (chat_id, enabled, time)
		VALUES (?, ?, ?)
		ON CONFLICT(chat_id) DO UPDATE SET
			enabled = excluded.enabled,
			time = excluded.time
	`, s.ChatID, s.Enabled, s.Time)
	return err
}

// ListSettings returns every persisted settings row, used to re-arm
// reminder schedulers at startup.
func (r *Repository) ListSettings() ([]NotificationSettings, error) {
	rows, err := r.Db.db.Query(`SELECT chat_id, enabled, time FROM notification_settings`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var all []NotificationSettings
	for rows.Next() {
		var s NotificationSettings
		if err := rows.Scan(&s.ChatID, &s.Enabled, &s.Time); err != nil {
			return nil, err
		}
		all = append(all, s)
	}
	return all, rows.Err()
}

// KV methods (last-notified markers, permission state, avatar preference)

func (r *Repository) GetValue(key string) (string, bool, error) {
	var value string
	err := r.Db.db.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (r *Repository) SetValue(key, value string) error {
	_, err := r.Db.db.Exec(`
		INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}

// ShareToken methods

func (r *Repository) SaveShareToken(t ShareToken) error {
	_, err := r.Db.db.Exec(`
		INSERT INTO share_tokens (user_id, token, expires_at)
		VALUES (?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			token = excluded.token,
			expires_at = excluded.expires_at
	`, t.UserID, t.Token, t.ExpiresAt.UTC().Format(time.RFC3339))
	return err
}

func (r *Repository) GetShareToken(userID int64) (*ShareToken, error) {
	return r.shareTokenWhere("user_id = ?", userID)
}

func (r *Repository) GetShareTokenByToken(token string) (*ShareToken, error) {
	return r.shareTokenWhere("token = ?", token)
}

func (r *Repository) shareTokenWhere(cond string, arg any) (*ShareToken, error) {
	var t ShareToken
	var expires string
	err := r.Db.db.QueryRow(
		"SELECT user_id, token, expires_at FROM share_tokens WHERE "+cond, arg,
	).Scan(&t.UserID, &t.Token, &expires)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	t.ExpiresAt, err = time.Parse(time.RFC3339, expires)
	if err != nil {
		return nil, fmt.Errorf("corrupt expires_at for user %d: %w", t.UserID, err)
	}
	return &t, nil
}

// DeleteShareToken reports whether a token existed to delete.
func (r *Repository) DeleteShareToken(userID int64) (bool, error) {
	res, err := r.Db.db.Exec("DELETE FROM share_tokens WHERE user_id = ?", userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
