// ABOUTME: Core SQLite store for the cuartel admin server.
// ABOUTME: Handles database initialization, migrations, and connection management.

package store

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/mattn/go-sqlite3"
)

// Migration version constants
const (
	MigrationV1 = 1 // Initial schema: barracks, barracks_list, kv_settings, request_logs
	MigrationV2 = 2 // Performance indexes for list filtering and log queries
)

// CurrentSchemaVersion is the target version for the database schema
const CurrentSchemaVersion = MigrationV2

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// Verify connection works
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Configure connection pooling
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(0)

	// Enable foreign keys and WAL mode
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, err
		}
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// migrate runs all pending migrations
func (s *Store) migrate() error {
	if err := s.createMigrationsTable(); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	currentVersion, err := s.getCurrentMigrationVersion()
	if err != nil {
		return fmt.Errorf("failed to get current migration version: %w", err)
	}

	log.Printf("Database schema version: %d, target version: %d", currentVersion, CurrentSchemaVersion)

	if currentVersion < MigrationV1 {
		if err := s.migrateV1(); err != nil {
			return fmt.Errorf("migration v1 failed: %w", err)
		}
	}

	if currentVersion < MigrationV2 {
		if err := s.migrateV2(); err != nil {
			return fmt.Errorf("migration v2 failed: %w", err)
		}
	}

	return nil
}

func (s *Store) createMigrationsTable() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			description TEXT
		)
	`)
	return err
}

func (s *Store) getCurrentMigrationVersion() (int, error) {
	var version int
	err := s.db.QueryRow(`
		SELECT COALESCE(MAX(version), 0) FROM schema_migrations
	`).Scan(&version)
	if err != nil {
		return 0, err
	}
	return version, nil
}

func (s *Store) recordMigration(version int, description string) error {
	_, err := s.db.Exec(`
		INSERT INTO schema_migrations (version, description)
		VALUES (?, ?)
	`, version, description)
	return err
}

// migrateV1 creates the record tables, the settings store, and request logs
func (s *Store) migrateV1() error {
	schema := `
	CREATE TABLE IF NOT EXISTS barracks (
		id TEXT PRIMARY KEY,
		barracks TEXT NOT NULL,
		species TEXT NOT NULL,
		variety TEXT NOT NULL,
		phenological_state TEXT NOT NULL,
		state INTEGER NOT NULL DEFAULT 1,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS barracks_list (
		id TEXT PRIMARY KEY,
		classification_zone TEXT DEFAULT '',
		barracks_paddock_name TEXT NOT NULL,
		code_optional TEXT DEFAULT '',
		organic INTEGER DEFAULT 0,
		variety_species TEXT DEFAULT '',
		variety TEXT DEFAULT '',
		quality_type TEXT DEFAULT '',
		total_ha REAL DEFAULT 0,
		total_plants INTEGER DEFAULT 0,
		percent_to_represent REAL DEFAULT 0,
		available_record TEXT DEFAULT '',
		active INTEGER DEFAULT 1,
		use_proration INTEGER DEFAULT 1,
		first_harvest_date TEXT DEFAULT '',
		first_harvest_day INTEGER DEFAULT 0,
		second_harvest_date TEXT DEFAULT '',
		second_harvest_day INTEGER DEFAULT 0,
		third_harvest_date TEXT DEFAULT '',
		third_harvest_day INTEGER DEFAULT 0,
		soil_type TEXT DEFAULT '',
		texture TEXT DEFAULT '',
		depth TEXT DEFAULT '',
		soil_ph REAL DEFAULT 0,
		percent_pending REAL DEFAULT 0,
		pattern TEXT DEFAULT '',
		plantation_year INTEGER DEFAULT 0,
		plant_number INTEGER DEFAULT 0,
		rows_list TEXT DEFAULT '',
		plant_for_row INTEGER DEFAULT 0,
		distance_between_rows_mts REAL DEFAULT 0,
		rows_total INTEGER DEFAULT 0,
		area REAL DEFAULT 0,
		irrigation_type TEXT DEFAULT '',
		its_by_ha REAL DEFAULT 0,
		irrigation_zone INTEGER DEFAULT 0,
		barracks_lot_object TEXT DEFAULT '',
		investment_number TEXT DEFAULT '',
		observation TEXT DEFAULT '',
		map_sector_color TEXT DEFAULT '',
		state INTEGER NOT NULL DEFAULT 1,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS kv_settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS request_logs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		method TEXT NOT NULL,
		path TEXT NOT NULL,
		status_code INTEGER,
		duration_ms INTEGER,
		user_id TEXT,
		ip_address TEXT,
		user_agent TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_request_logs_timestamp ON request_logs(timestamp DESC);
	CREATE INDEX IF NOT EXISTS idx_request_logs_path ON request_logs(path);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return err
	}

	if err := s.recordMigration(MigrationV1, "Create record tables, settings store, and request logs"); err != nil {
		return err
	}

	log.Printf("Applied migration v%d: Create record tables, settings store, and request logs", MigrationV1)
	return nil
}

// migrateV2 adds indexes for active-record filtering and log queries
func (s *Store) migrateV2() error {
	indexes := []string{
		// Soft-deleted records are filtered on every list view
		"CREATE INDEX IF NOT EXISTS idx_barracks_state ON barracks(state)",
		"CREATE INDEX IF NOT EXISTS idx_barracks_list_state ON barracks_list(state)",

		// Grouping menu candidates
		"CREATE INDEX IF NOT EXISTS idx_barracks_list_zone ON barracks_list(classification_zone)",

		"CREATE INDEX IF NOT EXISTS idx_request_logs_status ON request_logs(status_code)",
	}

	for _, indexSQL := range indexes {
		if _, err := s.db.Exec(indexSQL); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	if err := s.recordMigration(MigrationV2, "Add indexes for record filtering and log queries"); err != nil {
		return err
	}

	log.Printf("Applied migration v%d: Add indexes for record filtering and log queries", MigrationV2)
	return nil
}
