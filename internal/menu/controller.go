// Package menu implements the local-first menu synchronization and query
// logic: a controller that populates the menu store from the remote source
// when (and only when) the store is empty, then serves category-filter and
// free-text-search queries grouped into display sections.
package menu

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/sunghokim128/littlelemon/internal/metrics"
	"github.com/sunghokim128/littlelemon/internal/models"
	"github.com/sunghokim128/littlelemon/internal/storage"
)

var (
	// ErrBootstrapFailed indicates the remote fetch failed, returned a
	// malformed payload, or the resulting write failed. The store remains
	// in whatever state it was in before bootstrap (typically empty).
	ErrBootstrapFailed = errors.New("menu bootstrap failed")

	// ErrNotReady indicates a query arrived before bootstrap completed.
	// Callers should wait for activation to finish or re-trigger it.
	ErrNotReady = errors.New("menu not ready")
)

// State is the controller's position in the bootstrap lifecycle.
type State int

const (
	StateUninitialized State = iota
	StateBootstrapping
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateBootstrapping:
		return "bootstrapping"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Controller drives one MenuStore: it bootstraps the store from the remote
// source exactly once per empty-store condition, then answers queries.
// Queries issued before the controller is Ready are rejected with
// ErrNotReady rather than answered against a possibly-empty store.
type Controller struct {
	store   storage.MenuStore
	fetcher Fetcher

	mu    sync.Mutex
	state State
}

// NewController creates a controller over the given store and remote source.
func NewController(store storage.MenuStore, fetcher Fetcher) *Controller {
	return &Controller{
		store:   store,
		fetcher: fetcher,
		state:   StateUninitialized,
	}
}

// State reports the controller's current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Activate runs the bootstrap sequence: ensure the schema, read the store,
// and if it is empty fetch the remote menu and persist it as one generation.
// A controller that is already Ready returns immediately without touching
// the remote source. After a failure, Activate may be called again to
// re-trigger the sequence.
func (c *Controller) Activate(ctx context.Context) error {
	c.mu.Lock()
	switch c.state {
	case StateReady:
		c.mu.Unlock()
		return nil
	case StateBootstrapping:
		c.mu.Unlock()
		return ErrNotReady
	}
	c.state = StateBootstrapping
	c.mu.Unlock()

	state, err := c.bootstrap(ctx)

	c.mu.Lock()
	c.state = state
	c.mu.Unlock()

	return err
}

func (c *Controller) bootstrap(ctx context.Context) (State, error) {
	if err := c.store.EnsureSchema(ctx); err != nil {
		slog.Error("Menu schema setup failed", "error", err)
		metrics.BootstrapTotal.WithLabelValues("failed").Inc()
		return StateFailed, err
	}

	existing, err := c.store.GetAll(ctx)
	if err != nil {
		slog.Error("Menu read failed during bootstrap", "error", err)
		metrics.BootstrapTotal.WithLabelValues("failed").Inc()
		return StateFailed, fmt.Errorf("%w: %v", ErrBootstrapFailed, err)
	}
	if len(existing) > 0 {
		slog.Info("Menu store already populated, skipping fetch", "items", len(existing))
		metrics.BootstrapTotal.WithLabelValues("skipped").Inc()
		return StateReady, nil
	}

	items, err := c.fetcher.Fetch(ctx)
	if err != nil {
		slog.Error("Menu fetch failed", "error", err)
		metrics.BootstrapTotal.WithLabelValues("failed").Inc()
		return StateFailed, fmt.Errorf("%w: %v", ErrBootstrapFailed, err)
	}

	if err := c.store.ReplaceAll(ctx, items); err != nil {
		slog.Error("Menu write failed during bootstrap", "error", err)
		metrics.BootstrapTotal.WithLabelValues("failed").Inc()
		return StateFailed, fmt.Errorf("%w: %v", ErrBootstrapFailed, err)
	}

	slog.Info("Menu bootstrap complete", "items", len(items))
	metrics.BootstrapTotal.WithLabelValues("populated").Inc()
	return StateReady, nil
}

// Query answers one filter or search request. A non-blank searchText takes
// precedence over category; a blank one filters by category as given.
// Results are grouped into sections by category in first-seen order.
func (c *Controller) Query(ctx context.Context, category, searchText string) ([]models.Section, error) {
	c.mu.Lock()
	state := c.state
	c.mu.Unlock()
	if state != StateReady {
		return nil, fmt.Errorf("%w: state %s", ErrNotReady, state)
	}

	var (
		items []models.MenuItem
		err   error
		kind  string
	)
	start := time.Now()
	if strings.TrimSpace(searchText) != "" {
		kind = "search"
		items, err = c.store.Search(ctx, searchText)
	} else {
		kind = "filter"
		items, err = c.store.FilterByCategory(ctx, category)
	}
	metrics.QueryDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	if err != nil {
		slog.Error("Menu query failed", "kind", kind, "category", category, "error", err)
		return nil, err
	}

	return groupSections(items), nil
}

// groupSections reshapes a result sequence into sections: one pass, in store
// order, appending each item to the section titled with its category and
// creating sections in first-seen order. Item order within a section is the
// store's order; section order is first appearance, not any global ranking.
func groupSections(items []models.MenuItem) []models.Section {
	sections := []models.Section{}
	index := make(map[string]int)
	for _, item := range items {
		i, ok := index[item.Category]
		if !ok {
			i = len(sections)
			index[item.Category] = i
			sections = append(sections, models.Section{Title: item.Category})
		}
		sections[i].Items = append(sections[i].Items, item)
	}
	return sections
}
