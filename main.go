package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"

	"github.com/YeswanthRajakumarr/damit-sub000/internal/app"
	"github.com/YeswanthRajakumarr/damit-sub000/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", "err", err)
	}

	application, err := app.New(cfg)
	if err != nil {
		log.Fatal("Failed to create application", "err", err)
	}

	if err := application.Start(); err != nil {
		log.Fatal("Failed to start application", "err", err)
	}
	defer application.Stop()

	waitForShutdown()
	log.Info("Shutting down")
}

func waitForShutdown() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
}
