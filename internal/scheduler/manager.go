package scheduler

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/YeswanthRajakumarr/damit-sub000/internal/database"
)

// Manager holds one ReminderScheduler per chat for the life of the
// process, constructing them lazily and re-arming persisted schedules at
// startup.
type Manager struct {
	store    Store
	notifier Notifier
	prober   Prober
	loc      *time.Location

	mu         sync.Mutex
	schedulers map[int64]*ReminderScheduler
}

func NewManager(store Store, notifier Notifier, prober Prober, loc *time.Location) *Manager {
	return &Manager{
		store:      store,
		notifier:   notifier,
		prober:     prober,
		loc:        loc,
		schedulers: make(map[int64]*ReminderScheduler),
	}
}

func (m *Manager) Get(chatID int64) (*ReminderScheduler, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.schedulers[chatID]; ok {
		return s, nil
	}

	s, err := New(chatID, m.store, m.notifier, m.prober, m.loc)
	if err != nil {
		return nil, err
	}
	m.schedulers[chatID] = s
	return s, nil
}

// Restore re-arms every enabled persisted schedule. A chat whose
// permission turned sticky-denied while the process was down stays
// unarmed until a re-check flips it back.
func (m *Manager) Restore(all []database.NotificationSettings) {
	armed := 0
	for _, settings := range all {
		if !settings.Enabled {
			continue
		}
		s, err := m.Get(settings.ChatID)
		if err != nil {
			log.Error("Failed to restore reminder", "chat", settings.ChatID, "err", err)
			continue
		}
		if s.Permission() == PermissionDenied {
			continue
		}
		if err := s.ScheduleDaily(settings.Time); err != nil {
			log.Error("Failed to arm restored reminder", "chat", settings.ChatID, "err", err)
			continue
		}
		armed++
	}
	log.Info("Reminder schedules restored", "armed", armed)
}

// RecheckAll is the periodic permission poll.
func (m *Manager) RecheckAll() {
	m.mu.Lock()
	schedulers := make([]*ReminderScheduler, 0, len(m.schedulers))
	for _, s := range m.schedulers {
		schedulers = append(schedulers, s)
	}
	m.mu.Unlock()

	for _, s := range schedulers {
		s.Recheck()
	}
}

func (m *Manager) StopAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.schedulers {
		s.Cancel()
	}
}
