// Package sqlstore keeps the settings record in a SQLite database.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"aisettings/config/models"

	_ "github.com/mattn/go-sqlite3"
)

// Scheme prefixes a store location that names a SQLite database
const Scheme = "sqlite:"

type Store struct {
	db     *sql.DB
	path   string
	logger *log.Logger
}

// Open opens (creating if needed) the database at path
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("database path cannot be empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal=WAL&_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &Store{db: db, path: path, logger: log.New(io.Discard, "", 0)}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// SetLogger routes internal diagnostics to l
func (s *Store) SetLogger(l *log.Logger) {
	if l != nil {
		s.logger = l
	}
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Get reads the persisted settings. Keys without a row come back empty.
func (s *Store) Get(ctx context.Context) (models.Config, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM settings`)
	if err != nil {
		return models.Config{}, fmt.Errorf("query settings: %w", err)
	}
	defer rows.Close()

	values := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return models.Config{}, fmt.Errorf("scan settings: %w", err)
		}
		values[key] = value
	}
	if err := rows.Err(); err != nil {
		return models.Config{}, fmt.Errorf("read settings: %w", err)
	}

	return models.Config{
		APIKey:          values[models.KeyAPIKey],
		APIProvider:     values[models.KeyAPIProvider],
		ExtractionModel: values[models.KeyExtractionModel],
		SolutionModel:   values[models.KeySolutionModel],
		DebuggingModel:  values[models.KeyDebuggingModel],
	}, nil
}

// Set replaces the persisted settings with cfg in one transaction.
// It reports false, with nothing written, when an upsert touched no row.
func (s *Store) Set(ctx context.Context, cfg models.Config) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	for _, field := range cfg.Fields() {
		key, value := field[0], field[1]
		if value == "" {
			if _, err := tx.ExecContext(ctx, `DELETE FROM settings WHERE key = ?`, key); err != nil {
				return false, fmt.Errorf("delete %s: %w", key, err)
			}
			continue
		}

		res, err := tx.ExecContext(ctx, `
			INSERT INTO settings (key, value) VALUES (?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value
		`, key, value)
		if err != nil {
			return false, fmt.Errorf("upsert %s: %w", key, err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			s.logger.Printf("upsert of %s affected no rows, rolling back", key)
			return false, nil
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit: %w", err)
	}
	s.logger.Printf("settings written to %s", s.path)
	return true, nil
}
