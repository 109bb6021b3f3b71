package menu

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/sunghokim128/littlelemon/internal/models"
)

// Fetcher retrieves the current menu from the remote source.
// This abstraction lets the controller be tested against canned payloads
// and failure modes without a network.
type Fetcher interface {
	Fetch(ctx context.Context) ([]models.MenuItem, error)
}

// menuDocument is the expected top-level shape of the remote payload.
// The menu key must be present; any other top-level shape is a bootstrap
// failure.
type menuDocument struct {
	Menu *[]models.MenuItem `json:"menu"`
}

// HTTPFetcher fetches the menu document from a fixed URL with one GET.
type HTTPFetcher struct {
	url    string
	client *http.Client
}

// NewHTTPFetcher creates a fetcher for the given menu document URL.
// A nil client falls back to http.DefaultClient.
func NewHTTPFetcher(url string, client *http.Client) *HTTPFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPFetcher{url: url, client: client}
}

// Fetch performs the GET and decodes the document. Items arriving without
// an ID are assigned sequential IDs starting after the largest explicit ID
// in the payload, so fill-ins never collide with supplied ones.
func (f *HTTPFetcher) Fetch(ctx context.Context) ([]models.MenuItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build menu request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch menu: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("menu source returned status %d", resp.StatusCode)
	}

	var doc menuDocument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse menu document: %w", err)
	}
	if doc.Menu == nil {
		return nil, fmt.Errorf("menu document missing %q key", "menu")
	}

	items := *doc.Menu
	next := int64(0)
	for i := range items {
		if items[i].ID > next {
			next = items[i].ID
		}
	}
	for i := range items {
		if items[i].ID == 0 {
			next++
			items[i].ID = next
		}
	}

	return items, nil
}
