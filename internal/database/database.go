package database

import (
	"database/sql"
	"fmt"

	"github.com/charmbracelet/log"
	_ "github.com/mattn/go-sqlite3"
)

type Database struct {
	db *sql.DB
}

func New(path string) (*Database, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	d := &Database{db: db}
	if err := d.init(); err != nil {
		return nil, err
	}

	log.Info("Database initialized", "path", path)
	return d, nil
}

func (d *Database) init() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS users (
			chat_id INTEGER PRIMARY KEY,
			username TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS daily_logs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			log_date TEXT NOT NULL,
			diet REAL NOT NULL DEFAULT 0,
			exercise REAL NOT NULL DEFAULT 0,
			sleep REAL NOT NULL DEFAULT 0,
			water REAL NOT NULL DEFAULT 0,
			cravings REAL NOT NULL DEFAULT 0,
			mood REAL NOT NULL DEFAULT 0,
			energy REAL NOT NULL DEFAULT 0,
			productivity REAL NOT NULL DEFAULT 0,
			step_count INTEGER,
			good_thing TEXT,
			proud_of_yourself TEXT,
			photo_url TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(user_id, log_date)
		)`,

		`CREATE TABLE IF NOT EXISTS notification_settings (
			chat_id INTEGER PRIMARY KEY,
			enabled BOOLEAN NOT NULL DEFAULT 0,
			time TEXT NOT NULL DEFAULT '20:00'
		)`,

		`CREATE TABLE IF NOT EXISTS kv (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS share_tokens (
			user_id INTEGER PRIMARY KEY,
			token TEXT UNIQUE NOT NULL,
			expires_at TEXT NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_logs_user ON daily_logs(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_logs_date ON daily_logs(log_date)`,
	}

	for _, query := range queries {
		if _, err := d.db.Exec(query); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}
	}

	return nil
}

func (d *Database) Close() error {
	return d.db.Close()
}

func (d *Database) GetDB() *sql.DB {
	return d.db
}
