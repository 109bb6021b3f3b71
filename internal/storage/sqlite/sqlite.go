// Package sqlite provides a SQLite-backed implementation of the storage
// interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/sunghokim128/littlelemon/internal/models"
	"github.com/sunghokim128/littlelemon/internal/storage"
)

// Ensure SQLiteStore implements the storage interfaces
var (
	_ storage.MenuStore    = (*SQLiteStore)(nil)
	_ storage.SessionStore = (*SQLiteStore)(nil)
)

// SQLiteStore implements storage.MenuStore and storage.SessionStore over a
// single database file.
type SQLiteStore struct {
	db *sql.DB
}

// New opens a SQLiteStore at the given database path, creating parent
// directories as needed. The schema is not created here; callers run
// EnsureSchema as their first step.
func New(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("%w: create database directory: %v", storage.ErrStorageUnavailable, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("%w: open database: %v", storage.ErrStorageUnavailable, err)
	}

	// Serialize access through one connection; the driver handles locking
	// but a single writer keeps replace-generation semantics simple.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: enable foreign keys: %v", storage.ErrStorageUnavailable, err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// EnsureSchema creates the tables if absent. Safe to call repeatedly;
// existing data is never touched.
func (s *SQLiteStore) EnsureSchema(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: ping: %v", storage.ErrStorageUnavailable, err)
	}
	if err := runMigrations(s.db); err != nil {
		return fmt.Errorf("%w: run migrations: %v", storage.ErrStorageUnavailable, err)
	}
	return nil
}

// GetAll returns every menu item. An empty table yields an empty slice.
func (s *SQLiteStore) GetAll(ctx context.Context) ([]models.MenuItem, error) {
	return s.queryItems(ctx,
		"SELECT id, name, price, description, image, category FROM menu_items")
}

// ReplaceAll swaps the entire menu generation in one transaction: all
// existing rows are deleted and items inserted in the given order with their
// supplied IDs. On any failure the transaction rolls back and the prior
// generation remains intact.
func (s *SQLiteStore) ReplaceAll(ctx context.Context, items []models.MenuItem) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin transaction: %v", storage.ErrStorageWriteFailed, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM menu_items"); err != nil {
		return fmt.Errorf("%w: clear menu items: %v", storage.ErrStorageWriteFailed, err)
	}

	for _, item := range items {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO menu_items (id, name, price, description, image, category) VALUES (?, ?, ?, ?, ?, ?)",
			item.ID, item.Name, item.Price, item.Description, item.Image, item.Category,
		)
		if err != nil {
			return fmt.Errorf("%w: insert menu item %q: %v", storage.ErrStorageWriteFailed, item.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit transaction: %v", storage.ErrStorageWriteFailed, err)
	}

	return nil
}

// FilterByCategory returns items in the given category, matched
// case-insensitively and ordered by name. storage.CategoryAll returns every
// item ordered by (category, name).
func (s *SQLiteStore) FilterByCategory(ctx context.Context, category string) ([]models.MenuItem, error) {
	if category == storage.CategoryAll {
		return s.queryItems(ctx,
			"SELECT id, name, price, description, image, category FROM menu_items ORDER BY category, name")
	}
	return s.queryItems(ctx,
		"SELECT id, name, price, description, image, category FROM menu_items WHERE lower(category) = lower(?) ORDER BY name",
		category)
}

// Search returns items whose name or description contains query as a
// case-insensitive substring, ordered by (category, name). A blank query
// selects everything, same as FilterByCategory(storage.CategoryAll).
func (s *SQLiteStore) Search(ctx context.Context, query string) ([]models.MenuItem, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return s.FilterByCategory(ctx, storage.CategoryAll)
	}
	// instr avoids LIKE wildcard escaping for queries containing % or _.
	q = strings.ToLower(q)
	return s.queryItems(ctx,
		"SELECT id, name, price, description, image, category FROM menu_items WHERE instr(lower(name), ?) > 0 OR instr(lower(description), ?) > 0 ORDER BY category, name",
		q, q)
}

func (s *SQLiteStore) queryItems(ctx context.Context, query string, args ...any) ([]models.MenuItem, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query menu items: %w", err)
	}
	defer rows.Close()

	items := []models.MenuItem{}
	for rows.Next() {
		var item models.MenuItem
		if err := rows.Scan(&item.ID, &item.Name, &item.Price, &item.Description, &item.Image, &item.Category); err != nil {
			return nil, fmt.Errorf("failed to scan menu item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate menu items: %w", err)
	}

	return items, nil
}

// Get returns the session value for key, reporting whether it was present.
func (s *SQLiteStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		"SELECT value FROM session WHERE key = ?", key,
	).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get session key %q: %w", key, err)
	}
	return value, true, nil
}

// Set stores value under key, overwriting any previous value.
func (s *SQLiteStore) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO session (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	if err != nil {
		return fmt.Errorf("%w: set session key %q: %v", storage.ErrStorageWriteFailed, key, err)
	}
	return nil
}

// SetAll stores every pair in one transaction.
func (s *SQLiteStore) SetAll(ctx context.Context, pairs map[string]string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin transaction: %v", storage.ErrStorageWriteFailed, err)
	}
	defer tx.Rollback()

	for key, value := range pairs {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO session (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
			key, value,
		)
		if err != nil {
			return fmt.Errorf("%w: set session key %q: %v", storage.ErrStorageWriteFailed, key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit transaction: %v", storage.ErrStorageWriteFailed, err)
	}

	return nil
}

// Clear removes every session key.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM session"); err != nil {
		return fmt.Errorf("%w: clear session: %v", storage.ErrStorageWriteFailed, err)
	}
	return nil
}
