package app

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/robfig/cron/v3"

	"github.com/YeswanthRajakumarr/damit-sub000/internal/config"
	"github.com/YeswanthRajakumarr/damit-sub000/internal/database"
	"github.com/YeswanthRajakumarr/damit-sub000/internal/services"
	"github.com/YeswanthRajakumarr/damit-sub000/internal/storage"
	"github.com/YeswanthRajakumarr/damit-sub000/internal/telegram"
	"github.com/YeswanthRajakumarr/damit-sub000/internal/web"
)

type Application struct {
	config     *config.Config
	db         *database.Database
	bot        *telegram.Bot
	services   *services.ServiceManager
	web        *web.Server
	cron       *cron.Cron
	cancelFunc context.CancelFunc
	ctx        context.Context
}

func New(cfg *config.Config) (*Application, error) {
	db, err := database.New(cfg.Database.Path)
	if err != nil {
		return nil, err
	}

	files, err := storage.NewFileStore(cfg.Media.Dir, cfg.Server.BaseURL)
	if err != nil {
		db.Close()
		return nil, err
	}

	serviceManager := services.NewServiceManager(db, files, cfg.Location)

	bot, err := telegram.NewBot(cfg.Telegram.Token, cfg.Server.BaseURL, serviceManager, cfg.Location)
	if err != nil {
		db.Close()
		return nil, err
	}

	// The bot is both the delivery channel and the permission prober.
	serviceManager.SetNotificationChannel(bot, bot, cfg.Location)

	ctx, cancel := context.WithCancel(context.Background())

	app := &Application{
		config:     cfg,
		db:         db,
		bot:        bot,
		services:   serviceManager,
		web:        web.NewServer(serviceManager, cfg.Media.Dir, cfg.Server.Port),
		cron:       cron.New(),
		cancelFunc: cancel,
		ctx:        ctx,
	}

	if err := app.setupCronJobs(); err != nil {
		db.Close()
		return nil, err
	}

	return app, nil
}

func (a *Application) Start() error {
	log.Info("Starting application")

	go a.bot.Start(a.ctx)
	a.web.Start()
	a.cron.Start()

	// Re-arm every enabled reminder persisted before the last shutdown.
	settings, err := a.services.Repository().ListSettings()
	if err != nil {
		log.Error("Failed to load persisted reminder settings", "err", err)
	} else {
		a.services.Reminders.Restore(settings)
	}

	log.Info("Application started", "bot", a.bot.GetUsername(), "port", a.config.Server.Port)
	return nil
}

func (a *Application) Stop() error {
	log.Info("Stopping application")

	a.cancelFunc()
	a.cron.Stop()
	a.services.Reminders.StopAll()

	if err := a.web.Stop(); err != nil {
		log.Warn("Error stopping HTTP server", "err", err)
	}
	if err := a.db.Close(); err != nil {
		log.Warn("Error closing database", "err", err)
	}

	log.Info("Application stopped")
	return nil
}

func (a *Application) setupCronJobs() error {
	// Detect externally-induced permission changes (user blocks or
	// unblocks the bot) without a restart.
	if _, err := a.cron.AddFunc("@every 30s", func() {
		a.services.Reminders.RecheckAll()
	}); err != nil {
		return err
	}

	return nil
}
