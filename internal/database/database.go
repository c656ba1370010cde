package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
	"github.com/rs/zerolog"
)

// DB wraps the sqlite connection used by the pricing engine. The engine only
// reads from it; the create helpers exist for seeding and tests.
type DB struct {
	*sql.DB
	logger *zerolog.Logger
}

// NewDB opens (and if needed creates) the sqlite database at path.
func NewDB(path string, logger *zerolog.Logger) (*DB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// WAL mode plus busy timeout keeps concurrent readers from tripping
	// over the occasional writer.
	dsn := path + "?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	instance := &DB{DB: db, logger: logger}
	if err := instance.createTables(); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	logger.Info().Str("path", path).Msg("Database initialized")
	return instance, nil
}

func (db *DB) createTables() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS properties (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			base_price_cents INTEGER NOT NULL,
			currency TEXT NOT NULL DEFAULT 'EUR',
			is_active BOOLEAN NOT NULL DEFAULT 1,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS rate_rules (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			property_id INTEGER,
			kind TEXT NOT NULL DEFAULT 'custom',
			start_date DATETIME,
			end_date DATETIME,
			weekdays TEXT,
			price_modifier REAL NOT NULL,
			modifier_type TEXT NOT NULL,
			min_nights INTEGER,
			max_nights INTEGER,
			advance_booking_days INTEGER,
			is_active BOOLEAN NOT NULL DEFAULT 1,
			priority INTEGER NOT NULL DEFAULT 0,
			conditions TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY(property_id) REFERENCES properties(id)
		)`,

		`CREATE TABLE IF NOT EXISTS blackout_intervals (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			property_id INTEGER NOT NULL,
			start_date DATETIME NOT NULL,
			end_date DATETIME NOT NULL,
			reason TEXT,
			is_active BOOLEAN NOT NULL DEFAULT 1,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY(property_id) REFERENCES properties(id)
		)`,

		`CREATE TABLE IF NOT EXISTS bookings (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			property_id INTEGER NOT NULL,
			check_in DATETIME NOT NULL,
			check_out DATETIME NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending',
			source TEXT NOT NULL DEFAULT 'internal',
			external_id TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY(property_id) REFERENCES properties(id)
		)`,

		`CREATE INDEX IF NOT EXISTS idx_rate_rules_property ON rate_rules(property_id, is_active)`,
		`CREATE INDEX IF NOT EXISTS idx_rate_rules_priority ON rate_rules(priority, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_blackouts_property ON blackout_intervals(property_id, is_active)`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_property ON bookings(property_id, status)`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_dates ON bookings(check_in, check_out)`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_external ON bookings(external_id)`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("error executing query %s: %w", query, err)
		}
	}
	return nil
}

func (db *DB) Close() error {
	return db.DB.Close()
}
