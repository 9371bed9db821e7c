package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"prokat/internal/models"

	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
	"github.com/rs/zerolog"
)

type DB struct {
	*sql.DB
	logger *zerolog.Logger
}

func NewDB(path string, logger *zerolog.Logger) (*DB, error) {
	if path != ":memory:" && !strings.HasPrefix(path, "file:") {
		// Создаем директорию для БД, если её нет
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	sqlDB, err := sql.Open("sqlite3", path+dsnParams(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Одно соединение: транзакции сериализуются, :memory: остаётся общей
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db := newFromSQL(sqlDB, logger)
	if err := db.createTables(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	logger.Info().Str("path", path).Msg("База данных инициализирована")
	return db, nil
}

func newFromSQL(sqlDB *sql.DB, logger *zerolog.Logger) *DB {
	l := logger.With().Str("component", "database").Logger()
	return &DB{DB: sqlDB, logger: &l}
}

func dsnParams(path string) string {
	if strings.Contains(path, "?") {
		return "&_foreign_keys=on"
	}
	return "?_foreign_keys=on"
}

func (db *DB) createTables() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS inventory (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            type TEXT NOT NULL,
            brand TEXT NOT NULL,
            size TEXT,
            status TEXT NOT NULL DEFAULT 'available'
                CHECK (status IN ('available', 'rented', 'maintenance', 'retired')),
            price_per_hour REAL NOT NULL CHECK (price_per_hour >= 0),
            registration_date TEXT NOT NULL
        )`,
		`CREATE TABLE IF NOT EXISTS clients (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            name TEXT NOT NULL,
            phone TEXT NOT NULL UNIQUE,
            reg_date TEXT NOT NULL
        )`,
		`CREATE TABLE IF NOT EXISTS users (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            telegram_id INTEGER NOT NULL UNIQUE,
            role TEXT NOT NULL CHECK (role IN ('seller', 'buyer'))
        )`,
		`CREATE TABLE IF NOT EXISTS rentals (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            client_id INTEGER NOT NULL REFERENCES clients(id),
            inventory_id INTEGER NOT NULL REFERENCES inventory(id),
            start_time TEXT NOT NULL,
            end_time TEXT NOT NULL,
            total_cost REAL NOT NULL
        )`,

		`CREATE INDEX IF NOT EXISTS idx_inventory_status ON inventory(status)`,
		`CREATE INDEX IF NOT EXISTS idx_rentals_inventory_id ON rentals(inventory_id)`,
		`CREATE INDEX IF NOT EXISTS idx_rentals_start_time ON rentals(start_time)`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("error executing query %s: %w", query, err)
		}
	}
	return nil
}

// Ping проверяет соединение с БД
func (db *DB) Ping(ctx context.Context) error {
	return db.PingContext(ctx)
}

func formatTime(t time.Time) string {
	return t.Format(models.TimestampLayout)
}

func parseTime(raw string) (time.Time, error) {
	t, err := time.ParseInLocation(models.TimestampLayout, raw, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse timestamp %q: %w", raw, err)
	}
	return t, nil
}
