// Package scheduler owns the daily reminder timers. Each chat gets one
// ReminderScheduler instance holding at most one outstanding one-shot
// timer; arming is always cancel-then-replace, so timers never stack.
package scheduler

import (
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/YeswanthRajakumarr/damit-sub000/internal/database"
	"github.com/YeswanthRajakumarr/damit-sub000/internal/dates"
	"github.com/YeswanthRajakumarr/damit-sub000/internal/utils"
)

// Store is the persisted state the scheduler reads and writes: the
// settings record plus the KV markers (permission, last-notified date).
type Store interface {
	GetSettings(chatID int64) (*database.NotificationSettings, error)
	SaveSettings(s database.NotificationSettings) error
	GetValue(key string) (string, bool, error)
	SetValue(key, value string) error
}

// Notifier delivers a reminder. SendReminder is the rich path; when it
// fails the scheduler falls back silently to SendPlain.
type Notifier interface {
	SendReminder(chatID int64, title, body string) error
	SendPlain(chatID int64, text string) error
}

// Prober checks whether the chat is still reachable, the analog of
// querying notification permission.
type Prober interface {
	Probe(chatID int64) error
}

type ReminderScheduler struct {
	chatID   int64
	store    Store
	notifier Notifier
	prober   Prober
	loc      *time.Location
	now      func() time.Time

	mu         sync.Mutex
	timer      *time.Timer
	nextFire   time.Time
	settings   database.NotificationSettings
	permission Permission
}

func New(chatID int64, store Store, notifier Notifier, prober Prober, loc *time.Location) (*ReminderScheduler, error) {
	settings, err := store.GetSettings(chatID)
	if err != nil {
		return nil, fmt.Errorf("loading reminder settings: %w", err)
	}

	s := &ReminderScheduler{
		chatID:   chatID,
		store:    store,
		notifier: notifier,
		prober:   prober,
		loc:      loc,
		now:      time.Now,
		settings: *settings,
	}

	if v, ok, err := store.GetValue(s.permissionKey()); err != nil {
		return nil, err
	} else if ok {
		s.permission = parsePermission(v)
	}

	return s, nil
}

func (s *ReminderScheduler) permissionKey() string {
	return fmt.Sprintf("notify_permission:%d", s.chatID)
}

func (s *ReminderScheduler) lastNotifiedKey() string {
	return fmt.Sprintf("last_notified:%d", s.chatID)
}

func (s *ReminderScheduler) Settings() database.NotificationSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

func (s *ReminderScheduler) Permission() Permission {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.permission
}

// RequestPermission no-ops when already granted and surfaces the sticky
// denied state without re-prompting. Otherwise it probes the chat and
// records the outcome.
func (s *ReminderScheduler) RequestPermission() error {
	s.mu.Lock()
	switch s.permission {
	case PermissionGranted:
		s.mu.Unlock()
		return nil
	case PermissionDenied:
		s.mu.Unlock()
		return ErrPermissionDenied
	}
	s.mu.Unlock()

	granted := s.prober.Probe(s.chatID) == nil
	s.setPermission(granted)
	if !granted {
		return ErrPermissionDenied
	}
	return nil
}

func (s *ReminderScheduler) setPermission(granted bool) {
	s.mu.Lock()
	if granted {
		s.permission = PermissionGranted
	} else {
		s.permission = PermissionDenied
	}
	p := s.permission
	s.mu.Unlock()

	if err := s.store.SetValue(s.permissionKey(), p.String()); err != nil {
		log.Error("Failed to persist permission state", "chat", s.chatID, "err", err)
	}
}

// Enable requests permission if needed, then persists enabled=true and
// arms the timer.
func (s *ReminderScheduler) Enable() error {
	if err := s.RequestPermission(); err != nil {
		return err
	}

	s.mu.Lock()
	s.settings.Enabled = true
	settings := s.settings
	s.mu.Unlock()

	if err := s.store.SaveSettings(settings); err != nil {
		return err
	}
	return s.ScheduleDaily(settings.Time)
}

// Disable persists enabled=false and cancels any pending timer.
func (s *ReminderScheduler) Disable() error {
	s.mu.Lock()
	s.settings.Enabled = false
	settings := s.settings
	s.cancelLocked()
	s.mu.Unlock()

	return s.store.SaveSettings(settings)
}

// SettingsPatch is a partial update; nil fields keep their value.
type SettingsPatch struct {
	Enabled *bool
	Time    *string
}

// UpdateSettings merges the patch, persists immediately, then reschedules
// when the result is enabled with permission granted, or cancels
// otherwise.
func (s *ReminderScheduler) UpdateSettings(patch SettingsPatch) error {
	s.mu.Lock()
	if patch.Enabled != nil {
		s.settings.Enabled = *patch.Enabled
	}
	if patch.Time != nil {
		rounded, err := utils.RoundClock(*patch.Time)
		if err != nil {
			s.mu.Unlock()
			return err
		}
		s.settings.Time = rounded
	}
	settings := s.settings
	armed := settings.Enabled && s.permission == PermissionGranted
	s.mu.Unlock()

	if err := s.store.SaveSettings(settings); err != nil {
		return err
	}

	if armed {
		return s.ScheduleDaily(settings.Time)
	}
	s.Cancel()
	return nil
}

// ScheduleDaily arms a one-shot timer for the next future occurrence of
// the wall-clock time: today if not yet passed, else tomorrow. A pending
// timer is always cancelled first.
func (s *ReminderScheduler) ScheduleDaily(clock string) error {
	hour, minute, err := utils.ParseClock(clock)
	if err != nil {
		return err
	}

	now := s.now().In(s.loc)
	next := utils.NextOccurrence(now, hour, minute)

	s.mu.Lock()
	s.cancelLocked()
	s.nextFire = next
	s.timer = time.AfterFunc(next.Sub(now), s.fire)
	s.mu.Unlock()

	log.Debug("Reminder armed", "chat", s.chatID, "at", next.Format(time.RFC3339))
	return nil
}

// Cancel clears the pending timer, if any.
func (s *ReminderScheduler) Cancel() {
	s.mu.Lock()
	s.cancelLocked()
	s.mu.Unlock()
}

func (s *ReminderScheduler) cancelLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
		s.nextFire = time.Time{}
	}
}

// NextFire reports when the pending timer goes off; zero when idle.
func (s *ReminderScheduler) NextFire() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextFire
}

// fire delivers at most one reminder per calendar day, then re-arms for
// the next day. It never propagates errors: a day whose delivery fails
// is missed, not retried.
func (s *ReminderScheduler) fire() {
	s.mu.Lock()
	s.timer = nil
	s.nextFire = time.Time{}
	settings := s.settings
	s.mu.Unlock()

	if !settings.Enabled {
		return
	}

	today := dates.FromTime(s.now().In(s.loc)).String()
	last, _, err := s.store.GetValue(s.lastNotifiedKey())
	if err != nil {
		log.Error("Failed to read last-notified marker", "chat", s.chatID, "err", err)
	}

	if last != today {
		s.deliver()
		if err := s.store.SetValue(s.lastNotifiedKey(), today); err != nil {
			log.Error("Failed to persist last-notified marker", "chat", s.chatID, "err", err)
		}
	}

	// Self-perpetuating: the schedule survives as long as the process does.
	if err := s.ScheduleDaily(settings.Time); err != nil {
		log.Error("Failed to re-arm reminder", "chat", s.chatID, "err", err)
	}
}

func (s *ReminderScheduler) deliver() {
	title := "DAMit! Daily check-in"
	body := "Your Daily Accountability Message is waiting. Answer today's questions with /log."

	if err := s.notifier.SendReminder(s.chatID, title, body); err != nil {
		// Fall back to the plain path without surfacing the failure.
		if err := s.notifier.SendPlain(s.chatID, title+" — "+body); err != nil {
			log.Warn("Reminder delivery failed", "chat", s.chatID, "err", err)
		}
	}
}

// Recheck probes the chat and reconciles externally-induced permission
// changes (the user blocking or unblocking the bot while the app runs).
// Called every 30 seconds by the app cron.
func (s *ReminderScheduler) Recheck() {
	s.mu.Lock()
	prev := s.permission
	s.mu.Unlock()

	if prev == PermissionDefault {
		// Never prompted; nothing to reconcile.
		return
	}

	granted := s.prober.Probe(s.chatID) == nil
	if granted == (prev == PermissionGranted) {
		return
	}

	s.setPermission(granted)
	if !granted {
		log.Info("Notification permission revoked", "chat", s.chatID)
		s.Cancel()
		return
	}

	log.Info("Notification permission restored", "chat", s.chatID)
	settings := s.Settings()
	if settings.Enabled {
		if err := s.ScheduleDaily(settings.Time); err != nil {
			log.Error("Failed to re-arm after permission restore", "chat", s.chatID, "err", err)
		}
	}
}
