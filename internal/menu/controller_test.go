package menu

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/sunghokim128/littlelemon/internal/models"
	"github.com/sunghokim128/littlelemon/internal/storage"
	"github.com/sunghokim128/littlelemon/internal/storage/sqlite"
)

// fetcherFunc adapts a function to the Fetcher interface.
type fetcherFunc func(ctx context.Context) ([]models.MenuItem, error)

func (f fetcherFunc) Fetch(ctx context.Context) ([]models.MenuItem, error) {
	return f(ctx)
}

func newTestStore(t *testing.T) *sqlite.SQLiteStore {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func prepopulate(t *testing.T, store *sqlite.SQLiteStore, items []models.MenuItem) {
	t.Helper()

	ctx := context.Background()
	if err := store.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema failed: %v", err)
	}
	if err := store.ReplaceAll(ctx, items); err != nil {
		t.Fatalf("ReplaceAll failed: %v", err)
	}
}

func TestActivateBootstrapsEmptyStore(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"menu":[{"id":1,"name":"Hummus","price":5.5,"description":"Chickpea dip","image":"hummus.jpg","category":"starters"}]}`)
	}))
	defer server.Close()

	store := newTestStore(t)
	ctrl := NewController(store, NewHTTPFetcher(server.URL, server.Client()))
	ctx := context.Background()

	if err := ctrl.Activate(ctx); err != nil {
		t.Fatalf("Activate failed: %v", err)
	}
	if got := ctrl.State(); got != StateReady {
		t.Errorf("expected state ready, got %s", got)
	}

	items, err := store.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	want := []models.MenuItem{
		{ID: 1, Name: "Hummus", Price: 5.5, Description: "Chickpea dip", Image: "hummus.jpg", Category: "starters"},
	}
	if !reflect.DeepEqual(items, want) {
		t.Errorf("GetAll after bootstrap = %+v, want %+v", items, want)
	}
}

func TestActivateSkipsFetchWhenPopulated(t *testing.T) {
	store := newTestStore(t)
	prepopulate(t, store, []models.MenuItem{
		{ID: 1, Name: "Pasta", Price: 6.99, Description: "Penne", Image: "pasta.jpg", Category: "mains"},
	})

	fetches := 0
	ctrl := NewController(store, fetcherFunc(func(ctx context.Context) ([]models.MenuItem, error) {
		fetches++
		return nil, nil
	}))

	if err := ctrl.Activate(context.Background()); err != nil {
		t.Fatalf("Activate failed: %v", err)
	}
	if fetches != 0 {
		t.Errorf("expected no remote fetch against a populated store, got %d", fetches)
	}
	if got := ctrl.State(); got != StateReady {
		t.Errorf("expected state ready, got %s", got)
	}
}

func TestActivateFetchFailure(t *testing.T) {
	store := newTestStore(t)
	ctrl := NewController(store, fetcherFunc(func(ctx context.Context) ([]models.MenuItem, error) {
		return nil, errors.New("connection refused")
	}))
	ctx := context.Background()

	err := ctrl.Activate(ctx)
	if !errors.Is(err, ErrBootstrapFailed) {
		t.Fatalf("expected ErrBootstrapFailed, got %v", err)
	}
	if got := ctrl.State(); got != StateFailed {
		t.Errorf("expected state failed, got %s", got)
	}

	// No partial state: the store is still empty.
	items, err := store.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("expected empty store after failed bootstrap, got %d items", len(items))
	}

	// A query against the failed controller is rejected, not answered empty.
	if _, err := ctrl.Query(ctx, storage.CategoryAll, ""); !errors.Is(err, ErrNotReady) {
		t.Errorf("expected ErrNotReady after failed bootstrap, got %v", err)
	}
}

func TestActivateRetriggersAfterFailure(t *testing.T) {
	store := newTestStore(t)

	fail := true
	ctrl := NewController(store, fetcherFunc(func(ctx context.Context) ([]models.MenuItem, error) {
		if fail {
			return nil, errors.New("network down")
		}
		return []models.MenuItem{
			{ID: 1, Name: "Hummus", Price: 5.5, Description: "Chickpea dip", Image: "hummus.jpg", Category: "starters"},
		}, nil
	}))
	ctx := context.Background()

	if err := ctrl.Activate(ctx); !errors.Is(err, ErrBootstrapFailed) {
		t.Fatalf("expected first Activate to fail, got %v", err)
	}

	fail = false
	if err := ctrl.Activate(ctx); err != nil {
		t.Fatalf("re-triggered Activate failed: %v", err)
	}
	if got := ctrl.State(); got != StateReady {
		t.Errorf("expected state ready after retry, got %s", got)
	}
}

func TestActivateMalformedPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"specials":[]}`)
	}))
	defer server.Close()

	store := newTestStore(t)
	ctrl := NewController(store, NewHTTPFetcher(server.URL, server.Client()))
	ctx := context.Background()

	err := ctrl.Activate(ctx)
	if !errors.Is(err, ErrBootstrapFailed) {
		t.Fatalf("expected ErrBootstrapFailed for payload without menu key, got %v", err)
	}

	items, getErr := store.GetAll(ctx)
	if getErr != nil {
		t.Fatalf("GetAll failed: %v", getErr)
	}
	if len(items) != 0 {
		t.Errorf("expected no write for malformed payload, got %d items", len(items))
	}
}

func TestQueryNotReadyBeforeActivation(t *testing.T) {
	ctrl := NewController(newTestStore(t), fetcherFunc(func(ctx context.Context) ([]models.MenuItem, error) {
		return nil, nil
	}))

	_, err := ctrl.Query(context.Background(), storage.CategoryAll, "")
	if !errors.Is(err, ErrNotReady) {
		t.Errorf("expected ErrNotReady before activation, got %v", err)
	}
}

func TestQuery(t *testing.T) {
	store := newTestStore(t)
	prepopulate(t, store, []models.MenuItem{
		{ID: 1, Name: "Greek Salad", Price: 12.99, Description: "Crispy lettuce, olives and feta", Image: "greekSalad.jpg", Category: "starters"},
		{ID: 2, Name: "Grilled Fish", Price: 20.00, Description: "Barbequed catch of the day", Image: "grilledFish.jpg", Category: "mains"},
		{ID: 3, Name: "Pasta", Price: 6.99, Description: "Penne with fried aubergines", Image: "pasta.jpg", Category: "mains"},
		{ID: 4, Name: "Lemon Cake", Price: 4.99, Description: "Traditional homemade dessert", Image: "lemonCake.jpg", Category: "desserts"},
	})

	ctrl := NewController(store, fetcherFunc(func(ctx context.Context) ([]models.MenuItem, error) {
		t.Fatal("unexpected fetch")
		return nil, nil
	}))
	ctx := context.Background()
	if err := ctrl.Activate(ctx); err != nil {
		t.Fatalf("Activate failed: %v", err)
	}

	sectionTitles := func(sections []models.Section) []string {
		titles := make([]string, len(sections))
		for i, s := range sections {
			titles[i] = s.Title
		}
		return titles
	}

	t.Run("category filter yields one section per category", func(t *testing.T) {
		sections, err := ctrl.Query(ctx, "mains", "")
		if err != nil {
			t.Fatalf("Query failed: %v", err)
		}
		if !reflect.DeepEqual(sectionTitles(sections), []string{"mains"}) {
			t.Fatalf("expected single mains section, got %v", sectionTitles(sections))
		}
		if len(sections[0].Items) != 2 {
			t.Errorf("expected 2 mains items, got %d", len(sections[0].Items))
		}
	})

	t.Run("non-blank search ignores category", func(t *testing.T) {
		sections, err := ctrl.Query(ctx, "starters", "lemon")
		if err != nil {
			t.Fatalf("Query failed: %v", err)
		}
		if !reflect.DeepEqual(sectionTitles(sections), []string{"desserts"}) {
			t.Fatalf("expected single desserts section, got %v", sectionTitles(sections))
		}
		if sections[0].Items[0].Name != "Lemon Cake" {
			t.Errorf("expected Lemon Cake, got %q", sections[0].Items[0].Name)
		}
	})

	t.Run("search over all categories", func(t *testing.T) {
		sections, err := ctrl.Query(ctx, storage.CategoryAll, "lemon")
		if err != nil {
			t.Fatalf("Query failed: %v", err)
		}
		if len(sections) != 1 || sections[0].Title != "desserts" {
			t.Fatalf("expected one desserts section, got %v", sectionTitles(sections))
		}
	})

	t.Run("blank search falls back to category filter", func(t *testing.T) {
		sections, err := ctrl.Query(ctx, storage.CategoryAll, "   ")
		if err != nil {
			t.Fatalf("Query failed: %v", err)
		}
		// Store order for "all" is (category, name), so sections appear in
		// category order.
		if !reflect.DeepEqual(sectionTitles(sections), []string{"desserts", "mains", "starters"}) {
			t.Errorf("unexpected section order: %v", sectionTitles(sections))
		}
	})

	t.Run("no match yields zero sections", func(t *testing.T) {
		sections, err := ctrl.Query(ctx, storage.CategoryAll, "sushi")
		if err != nil {
			t.Fatalf("Query failed: %v", err)
		}
		if len(sections) != 0 {
			t.Errorf("expected zero sections, got %v", sectionTitles(sections))
		}
	})
}

func TestGroupSections(t *testing.T) {
	items := []models.MenuItem{
		{ID: 1, Name: "Pasta", Category: "mains"},
		{ID: 2, Name: "Greek Salad", Category: "starters"},
		{ID: 3, Name: "Grilled Fish", Category: "mains"},
		{ID: 4, Name: "Lemon Cake", Category: "desserts"},
	}

	sections := groupSections(items)

	// Section order is first appearance in the input, not any global ranking.
	wantTitles := []string{"mains", "starters", "desserts"}
	for i, want := range wantTitles {
		if sections[i].Title != want {
			t.Errorf("section %d title = %q, want %q", i, sections[i].Title, want)
		}
	}

	// Input order is preserved within a section.
	if sections[0].Items[0].Name != "Pasta" || sections[0].Items[1].Name != "Grilled Fish" {
		t.Errorf("mains section lost input order: %+v", sections[0].Items)
	}

	t.Run("grouping is deterministic", func(t *testing.T) {
		again := groupSections(items)
		if !reflect.DeepEqual(sections, again) {
			t.Errorf("grouping the same input twice differed:\nfirst  %+v\nsecond %+v", sections, again)
		}
	})

	t.Run("empty input yields zero sections", func(t *testing.T) {
		if got := groupSections(nil); len(got) != 0 {
			t.Errorf("expected zero sections, got %+v", got)
		}
	})
}
