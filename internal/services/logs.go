package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/YeswanthRajakumarr/damit-sub000/internal/database"
	"github.com/YeswanthRajakumarr/damit-sub000/internal/dates"
	"github.com/YeswanthRajakumarr/damit-sub000/internal/stats"
	"github.com/YeswanthRajakumarr/damit-sub000/internal/storage"
)

// LogService orchestrates questionnaire writes and the dashboard reads
// on top of the repository and the pure stats engine.
type LogService struct {
	repo  *database.Repository
	files *storage.FileStore
	loc   *time.Location
}

func NewLogService(repo *database.Repository, files *storage.FileStore, loc *time.Location) *LogService {
	return &LogService{repo: repo, files: files, loc: loc}
}

func (ls *LogService) Today() dates.CalendarDate {
	return dates.Today(ls.loc)
}

// Save upserts the day's answers after validating every rating against
// the discrete scale.
func (ls *LogService) Save(chatID int64, day dates.CalendarDate, fields database.LogFields) (*database.DailyLog, error) {
	for q, r := range fields.Ratings {
		if !r.Valid() {
			return nil, fmt.Errorf("invalid rating %v for %s", float64(r), q)
		}
	}
	if fields.HasSteps && fields.StepCount < 0 {
		return nil, errors.New("step count cannot be negative")
	}
	return ls.repo.UpsertLog(chatID, day.String(), fields)
}

// AttachPhoto stores the photo and points the day's log at it. The log
// must already exist; photos are an addendum to an answered day.
func (ls *LogService) AttachPhoto(chatID int64, day dates.CalendarDate, ext string, data []byte) (*database.DailyLog, error) {
	existing, err := ls.repo.GetLog(chatID, day.String())
	if err != nil {
		return nil, err
	}

	path := fmt.Sprintf("%d/%s%s", chatID, day.String(), ext)
	url, err := ls.files.Upload(path, data)
	if err != nil {
		return nil, err
	}

	fields := fieldsOf(existing)
	fields.PhotoURL = url
	return ls.repo.UpsertLog(chatID, day.String(), fields)
}

// Delete removes a day's log and its photo, if any.
func (ls *LogService) Delete(chatID int64, day dates.CalendarDate) error {
	l, err := ls.repo.GetLog(chatID, day.String())
	if err != nil {
		return err
	}
	if l.PhotoURL != "" {
		path := fmt.Sprintf("%d/%s", chatID, day.String())
		if err := ls.files.Remove(path + ".jpg"); err != nil {
			return err
		}
	}
	return ls.repo.DeleteLog(l.ID)
}

func (ls *LogService) Get(chatID int64, day dates.CalendarDate) (*database.DailyLog, error) {
	return ls.repo.GetLog(chatID, day.String())
}

func (ls *LogService) List(chatID int64) ([]database.DailyLog, error) {
	return ls.repo.ListLogs(chatID)
}

// StatsFor fetches and reduces in one step. A nil result with nil error
// means "nothing to show yet".
func (ls *LogService) StatsFor(chatID int64, rng stats.TimeRange, custom *stats.DateRange) (*stats.Stats, error) {
	if rng == stats.Custom && custom != nil {
		if err := stats.ValidateCustomRange(*custom); err != nil {
			return nil, err
		}
	}

	logs, err := ls.repo.ListLogs(chatID)
	if err != nil {
		return nil, err
	}
	return stats.Compute(logs, rng, custom), nil
}

// Missing reports the unlogged days in the trailing week.
func (ls *LogService) Missing(chatID int64) ([]dates.CalendarDate, error) {
	logs, err := ls.repo.ListLogs(chatID)
	if err != nil {
		return nil, err
	}
	return stats.MissingDays(logs, stats.DefaultMissingWindow, ls.Today()), nil
}

func (ls *LogService) HasMissing(chatID int64) (bool, error) {
	logs, err := ls.repo.ListLogs(chatID)
	if err != nil {
		return false, err
	}
	return stats.HasMissingDays(logs, stats.DefaultMissingWindow, ls.Today()), nil
}

func fieldsOf(l *database.DailyLog) database.LogFields {
	ratings := make(map[database.Question]database.Rating, len(l.Ratings))
	for q, r := range l.Ratings {
		ratings[q] = r
	}
	return database.LogFields{
		Ratings:   ratings,
		StepCount: l.StepCount,
		HasSteps:  l.HasSteps,
		GoodThing: l.GoodThing,
		Proud:     l.Proud,
		PhotoURL:  l.PhotoURL,
	}
}
