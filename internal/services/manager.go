package services

import (
	"time"

	"github.com/YeswanthRajakumarr/damit-sub000/internal/database"
	"github.com/YeswanthRajakumarr/damit-sub000/internal/scheduler"
	"github.com/YeswanthRajakumarr/damit-sub000/internal/share"
	"github.com/YeswanthRajakumarr/damit-sub000/internal/storage"
)

type ServiceManager struct {
	Logs       *LogService
	Share      *share.Service
	Reminders  *scheduler.Manager
	repository *database.Repository
}

func NewServiceManager(db *database.Database, files *storage.FileStore, loc *time.Location) *ServiceManager {
	repo := database.NewRepository(db)

	return &ServiceManager{
		Logs:       NewLogService(repo, files, loc),
		Share:      share.NewService(repo),
		Reminders:  nil,
		repository: repo,
	}
}

func (sm *ServiceManager) Repository() *database.Repository {
	return sm.repository
}

// SetNotificationChannel wires the reminder manager once the bot (the
// delivery channel and permission prober) exists.
func (sm *ServiceManager) SetNotificationChannel(notifier scheduler.Notifier, prober scheduler.Prober, loc *time.Location) {
	sm.Reminders = scheduler.NewManager(sm.repository, notifier, prober, loc)
}
