// Package cache keeps the last records and combobox candidates fetched from
// the backend in a local SQLite file, so the UI can start offline.
package cache

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"quotedesk/internal/domain"
	"quotedesk/internal/logging"
)

var cacheLog = logging.ForComponent(logging.CompCache)

// SchemaVersion is bumped whenever Migrate changes the tables
const SchemaVersion = 1

// ErrMiss is returned when nothing was cached under a kind
var ErrMiss = errors.New("cache: miss")

// Cache wraps the SQLite database. Safe for concurrent use.
type Cache struct {
	db *sql.DB
}

// Open creates or opens the cache database at path with WAL mode and a busy
// timeout. Call Migrate before use.
func Open(path string) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("cache: mkdir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("cache: open: %w", err)
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("cache: %s: %w", pragma, err)
		}
	}
	return &Cache{db: db}, nil
}

// Close checkpoints the WAL and closes the database
func (c *Cache) Close() error {
	_, _ = c.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
	return c.db.Close()
}

// Migrate creates the tables if they don't exist
func (c *Cache) Migrate() error {
	tx, err := c.db.Begin()
	if err != nil {
		return fmt.Errorf("cache: begin migrate: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS metadata (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS records (
			kind        TEXT NOT NULL,
			position    INTEGER NOT NULL,
			id          INTEGER NOT NULL,
			title       TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			category    TEXT NOT NULL,
			icon        TEXT NOT NULL DEFAULT '',
			price       REAL NOT NULL DEFAULT 0,
			ref         TEXT NOT NULL DEFAULT '',
			extra       TEXT NOT NULL DEFAULT '{}',
			PRIMARY KEY (kind, position)
		)`,
		`CREATE TABLE IF NOT EXISTS candidates (
			kind     TEXT NOT NULL,
			position INTEGER NOT NULL,
			value    TEXT NOT NULL,
			PRIMARY KEY (kind, position)
		)`,
		`CREATE TABLE IF NOT EXISTS snapshots (
			kind       TEXT PRIMARY KEY,
			updated_at INTEGER NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("cache: migrate: %w", err)
		}
	}
	if _, err := tx.Exec(
		`INSERT OR REPLACE INTO metadata (key, value) VALUES ('schema_version', ?)`,
		fmt.Sprint(SchemaVersion),
	); err != nil {
		return fmt.Errorf("cache: schema version: %w", err)
	}
	return tx.Commit()
}

// SaveRecords replaces the records cached under kind
func (c *Cache) SaveRecords(kind string, records []domain.Record) error {
	tx, err := c.db.Begin()
	if err != nil {
		return fmt.Errorf("cache: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM records WHERE kind = ?`, kind); err != nil {
		return fmt.Errorf("cache: clear %s: %w", kind, err)
	}
	stmt, err := tx.Prepare(`INSERT INTO records
		(kind, position, id, title, description, category, icon, price, ref, extra)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("cache: prepare: %w", err)
	}
	defer stmt.Close()

	for i, r := range records {
		extra := []byte("{}")
		if len(r.Extra) > 0 {
			if extra, err = json.Marshal(r.Extra); err != nil {
				return fmt.Errorf("cache: encode extra: %w", err)
			}
		}
		if _, err := stmt.Exec(kind, i, r.ID, r.Title, r.Description, r.Category, r.Icon, r.Price, r.Ref, string(extra)); err != nil {
			return fmt.Errorf("cache: insert %s: %w", kind, err)
		}
	}
	if err := touch(tx, kind); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("cache: commit: %w", err)
	}
	cacheLog.Debug("records_saved", slog.String("kind", kind), slog.Int("count", len(records)))
	return nil
}

// LoadRecords returns the records cached under kind in their saved order.
// It returns ErrMiss when kind was never saved.
func (c *Cache) LoadRecords(kind string) ([]domain.Record, error) {
	if _, err := c.UpdatedAt(kind); err != nil {
		return nil, err
	}
	rows, err := c.db.Query(`SELECT id, title, description, category, icon, price, ref, extra
		FROM records WHERE kind = ? ORDER BY position`, kind)
	if err != nil {
		return nil, fmt.Errorf("cache: query %s: %w", kind, err)
	}
	defer rows.Close()

	out := []domain.Record{}
	for rows.Next() {
		var r domain.Record
		var extra string
		if err := rows.Scan(&r.ID, &r.Title, &r.Description, &r.Category, &r.Icon, &r.Price, &r.Ref, &extra); err != nil {
			return nil, fmt.Errorf("cache: scan %s: %w", kind, err)
		}
		if extra != "" && extra != "{}" {
			if err := json.Unmarshal([]byte(extra), &r.Extra); err != nil {
				return nil, fmt.Errorf("cache: decode extra: %w", err)
			}
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// SaveCandidates replaces the candidate values cached under kind
func (c *Cache) SaveCandidates(kind string, values []string) error {
	tx, err := c.db.Begin()
	if err != nil {
		return fmt.Errorf("cache: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	key := "candidates:" + kind
	if _, err := tx.Exec(`DELETE FROM candidates WHERE kind = ?`, kind); err != nil {
		return fmt.Errorf("cache: clear candidates %s: %w", kind, err)
	}
	for i, v := range values {
		if _, err := tx.Exec(`INSERT INTO candidates (kind, position, value) VALUES (?, ?, ?)`, kind, i, v); err != nil {
			return fmt.Errorf("cache: insert candidate: %w", err)
		}
	}
	if err := touch(tx, key); err != nil {
		return err
	}
	return tx.Commit()
}

// LoadCandidates returns the candidates cached under kind, or ErrMiss
func (c *Cache) LoadCandidates(kind string) ([]string, error) {
	if _, err := c.UpdatedAt("candidates:" + kind); err != nil {
		return nil, err
	}
	rows, err := c.db.Query(`SELECT value FROM candidates WHERE kind = ? ORDER BY position`, kind)
	if err != nil {
		return nil, fmt.Errorf("cache: query candidates: %w", err)
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("cache: scan candidate: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// UpdatedAt reports when kind was last saved, or ErrMiss
func (c *Cache) UpdatedAt(kind string) (time.Time, error) {
	var ts int64
	err := c.db.QueryRow(`SELECT updated_at FROM snapshots WHERE kind = ?`, kind).Scan(&ts)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, fmt.Errorf("%s: %w", kind, ErrMiss)
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("cache: updated_at %s: %w", kind, err)
	}
	return time.Unix(0, ts), nil
}

func touch(tx *sql.Tx, kind string) error {
	if _, err := tx.Exec(`INSERT OR REPLACE INTO snapshots (kind, updated_at) VALUES (?, ?)`,
		kind, time.Now().UnixNano()); err != nil {
		return fmt.Errorf("cache: touch %s: %w", kind, err)
	}
	return nil
}
