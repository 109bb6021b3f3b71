// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/sunghokim128/littlelemon/internal/models"
)

var (
	// ErrStorageUnavailable indicates the underlying storage could not be
	// opened or migrated. Fatal for the session; no retry is attempted.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrStorageWriteFailed indicates a write failed. The store's prior
	// generation is guaranteed intact.
	ErrStorageWriteFailed = errors.New("storage write failed")
)

// CategoryAll is the category value that selects every menu item.
const CategoryAll = "all"

// MenuStore defines the interface for menu storage operations.
// This abstraction allows swapping storage backends without changing the
// controller, and enables test doubles for fault injection.
//
// The store holds at most one generation of menu data at a time: ReplaceAll
// swaps generations atomically, so readers never observe a mix of old and
// new rows. Every operation either succeeds with its documented result or
// fails with a typed storage error; none retries internally.
type MenuStore interface {
	// EnsureSchema creates the menu table if absent. Idempotent: calling it
	// on an existing schema never errors and never alters existing data.
	EnsureSchema(ctx context.Context) error

	// GetAll returns every row with no ordering guarantee. An empty store
	// yields an empty slice, not an error.
	GetAll(ctx context.Context) ([]models.MenuItem, error)

	// ReplaceAll atomically clears all existing rows and inserts items in
	// the given order, preserving each item's supplied ID. All-or-nothing:
	// on failure the store is left exactly as it was before the call.
	ReplaceAll(ctx context.Context, items []models.MenuItem) error

	// FilterByCategory returns rows matching category case-insensitively,
	// ordered by name. CategoryAll returns every row ordered by
	// (category, name). Unknown categories yield an empty slice.
	FilterByCategory(ctx context.Context, category string) ([]models.MenuItem, error)

	// Search returns rows whose name or description contains query as a
	// case-insensitive substring, ordered by (category, name). A blank or
	// whitespace-only query behaves like FilterByCategory(CategoryAll).
	Search(ctx context.Context, query string) ([]models.MenuItem, error)

	// Close releases any resources held by the store.
	Close() error
}

// SessionStore defines the interface for the string-keyed session state
// (login flag, profile fields). It stands in for the platform key-value
// store of the original mobile application.
type SessionStore interface {
	// Get returns the value for key. A missing key yields ("", false, nil).
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores value under key, overwriting any previous value.
	Set(ctx context.Context, key, value string) error

	// SetAll stores every pair in one atomic write.
	SetAll(ctx context.Context, pairs map[string]string) error

	// Clear removes every key. Used at logout.
	Clear(ctx context.Context) error
}
