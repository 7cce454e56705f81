package config

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

type Config struct {
	Telegram struct {
		Token string
	}
	Server struct {
		Port    string
		BaseURL string
	}
	Database struct {
		Path string
	}
	Media struct {
		Dir string
	}
	// Location is the calendar the journal lives in. Log dates and
	// reminder times are interpreted here, never in UTC.
	Location *time.Location
}

func Load() (*Config, error) {
	// A missing .env is fine, real deployments set the environment directly.
	if err := godotenv.Load(); err == nil {
		log.Debug("Loaded environment from .env")
	}

	token := getEnv("TG_TOKEN", "")
	if token == "" {
		return nil, fmt.Errorf("TG_TOKEN is not set")
	}

	cfg := &Config{}
	cfg.Telegram.Token = token
	cfg.Server.Port = getEnv("PORT", "8080")
	cfg.Server.BaseURL = getEnv("BASE_URL", "http://localhost:"+cfg.Server.Port)
	cfg.Database.Path = getEnv("DB_PATH", "damit.db")
	cfg.Media.Dir = getEnv("MEDIA_DIR", "media")

	tzName := getEnv("TZ_NAME", "Local")
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("invalid TZ_NAME %q: %w", tzName, err)
	}
	cfg.Location = loc

	log.Info("Configuration loaded", "port", cfg.Server.Port, "db", cfg.Database.Path, "tz", tzName)
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
