package services

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/YeswanthRajakumarr/damit-sub000/internal/database"
	"github.com/YeswanthRajakumarr/damit-sub000/internal/stats"
	"github.com/YeswanthRajakumarr/damit-sub000/internal/storage"
)

func testLogService(t *testing.T) (*LogService, string) {
	t.Helper()
	dir := t.TempDir()

	db, err := database.New(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("database.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	mediaDir := filepath.Join(dir, "media")
	files, err := storage.NewFileStore(mediaDir, "http://example.test")
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	repo := database.NewRepository(db)
	if err := repo.RegisterUser(7, "sam"); err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}

	return NewLogService(repo, files, time.UTC), mediaDir
}

func validFields() database.LogFields {
	return database.LogFields{
		Ratings: map[database.Question]database.Rating{
			database.Diet:  database.RatingBest,
			database.Sleep: database.RatingPartial,
		},
		Proud: database.Yes,
	}
}

func TestSaveRejectsOffScaleRating(t *testing.T) {
	ls, _ := testLogService(t)

	fields := validFields()
	fields.Ratings[database.Mood] = 0.3
	if _, err := ls.Save(7, ls.Today(), fields); err == nil {
		t.Error("Save accepted a rating outside the discrete scale")
	}
}

func TestSaveRejectsNegativeSteps(t *testing.T) {
	ls, _ := testLogService(t)

	fields := validFields()
	fields.HasSteps = true
	fields.StepCount = -100
	if _, err := ls.Save(7, ls.Today(), fields); err == nil {
		t.Error("Save accepted negative steps")
	}
}

func TestSaveAndGet(t *testing.T) {
	ls, _ := testLogService(t)
	today := ls.Today()

	saved, err := ls.Save(7, today, validFields())
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if saved.LogDate != today.String() {
		t.Errorf("LogDate = %q, want %q", saved.LogDate, today)
	}

	got, err := ls.Get(7, today)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Proud != database.Yes {
		t.Errorf("Proud = %v, want Yes", got.Proud)
	}
}

func TestAttachPhotoRequiresExistingLog(t *testing.T) {
	ls, _ := testLogService(t)

	_, err := ls.AttachPhoto(7, ls.Today(), ".jpg", []byte("jpeg"))
	if !errors.Is(err, database.ErrNotFound) {
		t.Errorf("AttachPhoto without a log = %v, want ErrNotFound", err)
	}
}

func TestAttachPhotoStoresAndLinks(t *testing.T) {
	ls, mediaDir := testLogService(t)
	today := ls.Today()

	if _, err := ls.Save(7, today, validFields()); err != nil {
		t.Fatal(err)
	}

	l, err := ls.AttachPhoto(7, today, ".jpg", []byte("jpeg"))
	if err != nil {
		t.Fatalf("AttachPhoto: %v", err)
	}
	if !strings.HasPrefix(l.PhotoURL, "http://example.test/media/") {
		t.Errorf("PhotoURL = %q", l.PhotoURL)
	}

	onDisk := filepath.Join(mediaDir, "7", today.String()+".jpg")
	if _, err := os.Stat(onDisk); err != nil {
		t.Errorf("photo not on disk at %s: %v", onDisk, err)
	}
}

func TestDeleteRemovesLog(t *testing.T) {
	ls, _ := testLogService(t)
	today := ls.Today()

	if _, err := ls.Save(7, today, validFields()); err != nil {
		t.Fatal(err)
	}
	if err := ls.Delete(7, today); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := ls.Get(7, today); !errors.Is(err, database.ErrNotFound) {
		t.Errorf("Get after delete = %v, want ErrNotFound", err)
	}
}

func TestStatsForValidatesCustomRange(t *testing.T) {
	ls, _ := testLogService(t)

	from := ls.Today().AddDays(-40)
	to := ls.Today()
	_, err := ls.StatsFor(7, stats.Custom, &stats.DateRange{From: from, To: to})
	if !errors.Is(err, stats.ErrRangeTooWide) {
		t.Errorf("StatsFor = %v, want ErrRangeTooWide", err)
	}
}

func TestMissingExcludesLoggedToday(t *testing.T) {
	ls, _ := testLogService(t)
	today := ls.Today()

	if _, err := ls.Save(7, today, validFields()); err != nil {
		t.Fatal(err)
	}

	missing, err := ls.Missing(7)
	if err != nil {
		t.Fatalf("Missing: %v", err)
	}
	for _, day := range missing {
		if day.Equal(today) {
			t.Error("today is logged but reported missing")
		}
	}
	if len(missing) != 6 {
		t.Errorf("missing = %d days, want 6 of the trailing 7", len(missing))
	}
}
